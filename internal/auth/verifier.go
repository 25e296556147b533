package auth

import (
	"context"
	"errors"
)

// ErrInvalidToken covers every verification failure: bad signature, expired
// token, or a provider lookup that does not resolve to a user. Callers map
// it to a single generic 401.
var ErrInvalidToken = errors.New("invalid or expired token")

// Verifier validates a raw bearer token and produces the Principal it
// identifies. Verification is pure: it must not mutate any store.
type Verifier interface {
	Verify(ctx context.Context, token string) (Principal, error)
}
