package auth

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultTokenTTL is the lifetime of self-issued access tokens.
const DefaultTokenTTL = 12 * time.Hour

// tokenClaims is the claim set embedded in self-issued tokens. The id claim
// written here is the same key Verify reads back; issuance and verification
// share this struct so the two can never drift apart.
type tokenClaims struct {
	jwt.RegisteredClaims
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// TokenIssuer mints self-issued HS256 access tokens at login time.
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenIssuer returns an issuer signing with the given secret. A non
// positive ttl falls back to DefaultTokenTTL.
func NewTokenIssuer(secret string, ttl time.Duration) *TokenIssuer {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &TokenIssuer{secret: []byte(secret), ttl: ttl}
}

// Issue signs a token embedding the principal's id, email and display name.
func (i *TokenIssuer) Issue(p Principal) (string, error) {
	now := time.Now().UTC()
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, tokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
		ID:    p.ID,
		Email: p.Email,
		Name:  p.Name,
	})
	return t.SignedString(i.secret)
}

// SelfIssuedVerifier validates tokens minted by TokenIssuer. Validation is
// entirely local: signature and expiry are checked against the shared
// secret, no network round trip is made.
type SelfIssuedVerifier struct {
	secret []byte
}

func NewSelfIssuedVerifier(secret string) *SelfIssuedVerifier {
	return &SelfIssuedVerifier{secret: []byte(secret)}
}

// Verify parses and validates the token and returns the embedded principal.
func (v *SelfIssuedVerifier) Verify(_ context.Context, token string) (Principal, error) {
	claims := &tokenClaims{}
	tok, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		// Reject tokens signed with anything but HMAC.
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return v.secret, nil
	})
	if err != nil || !tok.Valid {
		return Principal{}, ErrInvalidToken
	}
	if claims.ID == "" {
		return Principal{}, ErrInvalidToken
	}
	return Principal{
		ID:    claims.ID,
		Email: claims.Email,
		Name:  claims.Name,
		Claims: map[string]any{
			"id":    claims.ID,
			"email": claims.Email,
			"name":  claims.Name,
		},
	}, nil
}
