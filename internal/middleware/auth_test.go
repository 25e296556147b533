package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rlportal/research-log/internal/auth"
)

type fakeVerifier struct {
	principal auth.Principal
	err       error
	calls     int
}

func (f *fakeVerifier) Verify(ctx context.Context, token string) (auth.Principal, error) {
	f.calls++
	if f.err != nil {
		return auth.Principal{}, f.err
	}
	return f.principal, nil
}

func runRequireAuth(t *testing.T, v auth.Verifier, header string, next echo.HandlerFunc) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, "/api/members", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	rec := httptest.NewRecorder()
	c := echo.New().NewContext(req, rec)

	require.NoError(t, RequireAuth(v)(next)(c))
	return rec
}

func TestRequireAuth_RejectsBeforeVerifier(t *testing.T) {
	// Malformed headers never reach the verifier, so a bad request cannot
	// trigger a store or provider round trip.
	for name, header := range map[string]string{
		"missing header":   "",
		"wrong scheme":     "Token abc",
		"lowercase bearer": "bearer abc",
		"empty token":      "Bearer ",
		"no space":         "Bearerabc",
	} {
		t.Run(name, func(t *testing.T) {
			v := &fakeVerifier{}
			rec := runRequireAuth(t, v, header, func(c echo.Context) error {
				t.Fatal("next handler must not run")
				return nil
			})

			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.Contains(t, rec.Body.String(), "Authorization header missing or invalid")
			assert.Zero(t, v.calls)
		})
	}
}

func TestRequireAuth_VerifierRejection(t *testing.T) {
	v := &fakeVerifier{err: auth.ErrInvalidToken}
	rec := runRequireAuth(t, v, "Bearer expired-token", func(c echo.Context) error {
		t.Fatal("next handler must not run")
		return nil
	})

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "Invalid or expired token")
	assert.Equal(t, 1, v.calls)
}

func TestRequireAuth_VerifierFailure(t *testing.T) {
	// Any verifier error reads as 401, not 500: the caller's credential is
	// what failed as far as the client is concerned.
	v := &fakeVerifier{err: errors.New("provider unreachable")}
	rec := runRequireAuth(t, v, "Bearer some-token", func(c echo.Context) error {
		t.Fatal("next handler must not run")
		return nil
	})

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "Invalid or expired token")
}

func TestRequireAuth_AttachesPrincipal(t *testing.T) {
	want := auth.Principal{ID: "u-1", Email: "ada@example.com", Name: "Ada"}
	v := &fakeVerifier{principal: want}

	var got auth.Principal
	var ok bool
	rec := runRequireAuth(t, v, "Bearer good-token", func(c echo.Context) error {
		got, ok = PrincipalFrom(c)
		return c.NoContent(http.StatusOK)
	})

	assert.Equal(t, http.StatusOK, rec.Code)
	require.True(t, ok)
	assert.Equal(t, want, got)
	assert.Equal(t, 1, v.calls)
}

func TestPrincipalFrom_Unset(t *testing.T) {
	c := echo.New().NewContext(
		httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())

	_, ok := PrincipalFrom(c)
	assert.False(t, ok)
}
