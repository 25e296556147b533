package auth

import (
	"context"

	"github.com/rlportal/research-log/internal/provider"
)

// DelegatedVerifier forwards the raw token to the identity provider's
// user-from-token endpoint and builds the Principal from the live lookup.
// The result is always current at the cost of one network round trip per
// request.
type DelegatedVerifier struct {
	client *provider.Client
}

func NewDelegatedVerifier(c *provider.Client) *DelegatedVerifier {
	return &DelegatedVerifier{client: c}
}

// Verify resolves the token with the provider. Any lookup failure, including
// provider outages, is reported as ErrInvalidToken.
func (v *DelegatedVerifier) Verify(ctx context.Context, token string) (Principal, error) {
	u, err := v.client.GetUser(ctx, token)
	if err != nil {
		return Principal{}, ErrInvalidToken
	}
	return Principal{
		ID:     u.ID,
		Email:  u.Email,
		Name:   u.Name(),
		Claims: u.Claims(),
	}, nil
}
