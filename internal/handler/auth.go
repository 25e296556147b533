package handler

import (
	"context"  // provides context with cancellation for external calls
	"errors"   // error matching for repository and provider sentinels
	"net/http" // HTTP status codes and primitives
	"strings"  // string trimming and normalization
	"time"     // timeouts for external calls

	"github.com/labstack/echo/v4" // Echo framework for HTTP routing

	"github.com/rlportal/research-log/internal/auth"
	"github.com/rlportal/research-log/internal/config"
	"github.com/rlportal/research-log/internal/middleware"
	"github.com/rlportal/research-log/internal/provider"
	"github.com/rlportal/research-log/internal/repository"
)

// AuthHandler bundles dependencies for sign-in and identity endpoints.
type AuthHandler struct {
	Cfg      config.Config
	Profiles repository.ProfileRepository
	Provider *provider.Client
	Issuer   *auth.TokenIssuer // nil when the delegated strategy is active
}

func NewAuthHandler(cfg config.Config, profiles repository.ProfileRepository, pc *provider.Client, issuer *auth.TokenIssuer) *AuthHandler {
	return &AuthHandler{Cfg: cfg, Profiles: profiles, Provider: pc, Issuer: issuer}
}

type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login authenticates an email/password pair. With the delegated strategy
// the provider performs the sign-in and its own access token is returned
// verbatim together with its user object. With the self-issued strategy the
// profile row is checked and a locally signed token is minted. Both failure
// paths answer the same generic 401 so responses cannot be used to probe
// which accounts exist.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Email and password are required"})
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Email and password are required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	if h.Cfg.AuthStrategy == config.StrategyDelegated {
		sess, err := h.Provider.SignInWithPassword(ctx, req.Email, req.Password)
		if err != nil {
			if errors.Is(err, provider.ErrInvalidCredentials) {
				return c.JSON(http.StatusUnauthorized, echo.Map{"message": "Invalid credentials"})
			}
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Sign-in failed"})
		}
		return c.JSON(http.StatusOK, echo.Map{
			"access_token": sess.AccessToken,
			"user":         sess.User,
		})
	}

	p, err := h.Profiles.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusUnauthorized, echo.Map{"message": "Invalid credentials"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Sign-in failed"})
	}
	if !auth.CheckPassword(p.Password, req.Password, h.Cfg.LegacyPlaintext) {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "Invalid credentials"})
	}

	token, err := h.Issuer.Issue(auth.Principal{ID: p.ID, Email: p.Email, Name: p.Name})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Sign-in failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"access_token": token})
}

// Me returns the profile row matching the authenticated principal. A valid
// token whose profile no longer exists is treated as an invalid credential.
func (h *AuthHandler) Me(c echo.Context) error {
	p, ok := middleware.PrincipalFrom(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "Invalid or expired token"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	prof, err := h.Profiles.GetByID(ctx, p.ID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusUnauthorized, echo.Map{"message": "Invalid or expired token"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": err.Error()})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"id":    prof.ID,
		"name":  prof.Name,
		"email": prof.Email,
	})
}

// AnonKey hands out the provider's public API key and base URL so a client
// application can talk to the provider directly. The anonymous key is
// designed to be public; this is a deliberate exposure, not a leak.
func (h *AuthHandler) AnonKey(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{
		"anonKey":     h.Provider.AnonKey(),
		"supabaseUrl": h.Provider.BaseURL(),
	})
}
