package provider

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestSignInWithPassword(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/auth/v1/token" || r.URL.Query().Get("grant_type") != "password" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL)
		}
		if r.Header.Get("apikey") != "anon-key" {
			t.Errorf("missing apikey header, got %q", r.Header.Get("apikey"))
		}

		var creds struct{ Email, Password string }
		if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
			t.Errorf("decode credentials: %v", err)
		}
		switch creds.Password {
		case "correct":
			_ = json.NewEncoder(w).Encode(map[string]any{
				"access_token": "tok-123",
				"token_type":   "bearer",
				"expires_in":   3600,
				"user":         map[string]any{"id": "u-1", "email": creds.Email},
			})
		case "boom":
			w.WriteHeader(http.StatusInternalServerError)
		default:
			w.WriteHeader(http.StatusBadRequest)
		}
	}))
	defer srv.Close()

	c := New(srv.URL, "anon-key", "")
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		sess, err := c.SignInWithPassword(ctx, "ada@example.com", "correct")
		if err != nil {
			t.Fatalf("SignInWithPassword error: %v", err)
		}
		if sess.AccessToken != "tok-123" {
			t.Fatalf("access token: got %q", sess.AccessToken)
		}
		if sess.User.ID != "u-1" {
			t.Fatalf("user id: got %q", sess.User.ID)
		}
	})

	t.Run("rejected credentials", func(t *testing.T) {
		_, err := c.SignInWithPassword(ctx, "ada@example.com", "wrong")
		if !errors.Is(err, ErrInvalidCredentials) {
			t.Fatalf("expected ErrInvalidCredentials, got %v", err)
		}
	})

	t.Run("backend failure is not a credential error", func(t *testing.T) {
		_, err := c.SignInWithPassword(ctx, "ada@example.com", "boom")
		if err == nil || errors.Is(err, ErrInvalidCredentials) {
			t.Fatalf("expected a non-credential error, got %v", err)
		}
	})
}

func TestGetUser(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/auth/v1/user" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		switch r.Header.Get("Authorization") {
		case "Bearer good-token":
			_ = json.NewEncoder(w).Encode(map[string]any{
				"id":            "u-1",
				"email":         "ada@example.com",
				"user_metadata": map[string]any{"name": "Ada"},
			})
		case "Bearer anonymous":
			// A token the provider accepts but cannot attribute.
			_ = json.NewEncoder(w).Encode(map[string]any{"email": "x@example.com"})
		default:
			w.WriteHeader(http.StatusUnauthorized)
		}
	}))
	defer srv.Close()

	c := New(srv.URL, "anon-key", "")
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		u, err := c.GetUser(ctx, "good-token")
		if err != nil {
			t.Fatalf("GetUser error: %v", err)
		}
		if u.ID != "u-1" || u.Name() != "Ada" {
			t.Fatalf("unexpected user %+v", u)
		}
	})

	t.Run("rejected token", func(t *testing.T) {
		if _, err := c.GetUser(ctx, "bad-token"); err == nil {
			t.Fatal("expected an error for a rejected token")
		}
	})

	t.Run("response without an id is an error", func(t *testing.T) {
		if _, err := c.GetUser(ctx, "anonymous"); err == nil {
			t.Fatal("expected an error for a user payload without an id")
		}
	})
}

func TestUserName_FallsBackToEmail(t *testing.T) {
	u := User{ID: "u-1", Email: "ada@example.com"}
	if got := u.Name(); got != "ada@example.com" {
		t.Fatalf("expected email fallback, got %q", got)
	}

	u.UserMetadata = map[string]any{"name": "Ada"}
	if got := u.Name(); got != "Ada" {
		t.Fatalf("expected metadata name, got %q", got)
	}
}

func TestNew_TrimsTrailingSlash(t *testing.T) {
	c := New("https://example.supabase.co/", "k", "")
	if c.BaseURL() != "https://example.supabase.co" {
		t.Fatalf("base url not normalized: %q", c.BaseURL())
	}
}
