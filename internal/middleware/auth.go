package middleware // middleware provides shared request processing for handlers

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/rlportal/research-log/internal/auth"
)

// principalKey is the echo context key the authenticated Principal is stored
// under.
const principalKey = "principal"

// bearerPrefix is matched case-sensitively; "bearer" or "BEARER" headers are
// rejected.
const bearerPrefix = "Bearer "

// RequireAuth returns middleware that validates the Authorization header
// with the given verifier and attaches the resulting Principal to the
// context. The header must be the literal "Bearer " prefix followed by a
// non-empty token; anything else is rejected before the verifier (and
// therefore any store or provider) is touched.
func RequireAuth(v auth.Verifier) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get("Authorization")
			if !strings.HasPrefix(header, bearerPrefix) {
				return c.JSON(http.StatusUnauthorized,
					echo.Map{"message": "Authorization header missing or invalid"})
			}
			token := header[len(bearerPrefix):]
			if token == "" {
				return c.JSON(http.StatusUnauthorized,
					echo.Map{"message": "Authorization header missing or invalid"})
			}
			p, err := v.Verify(c.Request().Context(), token)
			if err != nil {
				return c.JSON(http.StatusUnauthorized,
					echo.Map{"message": "Invalid or expired token"})
			}
			c.Set(principalKey, p)
			return next(c)
		}
	}
}

// PrincipalFrom returns the Principal RequireAuth attached to the context.
func PrincipalFrom(c echo.Context) (auth.Principal, bool) {
	p, ok := c.Get(principalKey).(auth.Principal)
	return p, ok
}
