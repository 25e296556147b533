package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rlportal/research-log/internal/provider"
)

func TestDelegatedVerifier(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer good-token" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":            "u-1",
			"email":         "ada@example.com",
			"user_metadata": map[string]any{"name": "Ada"},
		})
	}))
	defer srv.Close()

	v := NewDelegatedVerifier(provider.New(srv.URL, "anon", "service"))
	ctx := context.Background()

	p, err := v.Verify(ctx, "good-token")
	if err != nil {
		t.Fatalf("Verify error: %v", err)
	}
	if p.ID != "u-1" || p.Email != "ada@example.com" || p.Name != "Ada" {
		t.Fatalf("unexpected principal %+v", p)
	}
	if p.Claims["id"] != "u-1" {
		t.Fatalf("raw claims not carried over: %v", p.Claims)
	}

	// Rejection and outage both read as an invalid token.
	if _, err := v.Verify(ctx, "bad-token"); err != ErrInvalidToken {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}

	srv.Close()
	if _, err := v.Verify(ctx, "good-token"); err != ErrInvalidToken {
		t.Fatalf("expected ErrInvalidToken after provider outage, got %v", err)
	}
}
