package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/vidvault/backend/internal/auth"
)

func authProbe(t *testing.T) (http.Handler, *auth.Identity) {
	t.Helper()
	var seen auth.Identity
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity, ok := IdentityFromContext(r.Context())
		if !ok {
			t.Fatal("expected identity on the request context")
		}
		seen = identity
		w.WriteHeader(http.StatusOK)
	})
	return next, &seen
}

func TestAuthenticateMissingToken(t *testing.T) {
	manager := auth.NewTokenManager([]byte("test-secret"), time.Hour)
	next, _ := authProbe(t)
	handler := Authenticate(manager)(next)

	req := httptest.NewRequest(http.MethodGet, "/videos", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected status %d got %d", http.StatusUnauthorized, rec.Code)
	}
}

func TestAuthenticateInvalidToken(t *testing.T) {
	manager := auth.NewTokenManager([]byte("test-secret"), time.Hour)
	next, _ := authProbe(t)
	handler := Authenticate(manager)(next)

	req := httptest.NewRequest(http.MethodGet, "/videos", nil)
	req.Header.Set("Authorization", "not-a-token")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status %d got %d", http.StatusBadRequest, rec.Code)
	}
}

func TestAuthenticateForeignSecret(t *testing.T) {
	issuer := auth.NewTokenManager([]byte("other-secret"), time.Hour)
	token, err := issuer.Issue("user-123")
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}

	manager := auth.NewTokenManager([]byte("test-secret"), time.Hour)
	next, _ := authProbe(t)
	handler := Authenticate(manager)(next)

	req := httptest.NewRequest(http.MethodGet, "/videos", nil)
	req.Header.Set("Authorization", token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status %d got %d", http.StatusBadRequest, rec.Code)
	}
}

func TestAuthenticateExpiredToken(t *testing.T) {
	issuedAt := time.Date(2024, time.March, 1, 12, 0, 0, 0, time.UTC)
	clock := issuedAt

	manager := auth.NewTokenManager([]byte("test-secret"), time.Hour)
	manager.WithNowFunc(func() time.Time { return clock })

	token, err := manager.Issue("user-123")
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}

	clock = issuedAt.Add(2 * time.Hour)

	next, _ := authProbe(t)
	handler := Authenticate(manager)(next)

	req := httptest.NewRequest(http.MethodGet, "/videos", nil)
	req.Header.Set("Authorization", token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status %d got %d", http.StatusBadRequest, rec.Code)
	}
}

func TestAuthenticatePassesIdentity(t *testing.T) {
	manager := auth.NewTokenManager([]byte("test-secret"), time.Hour)
	token, err := manager.Issue("user-123")
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}

	next, seen := authProbe(t)
	handler := Authenticate(manager)(next)

	req := httptest.NewRequest(http.MethodGet, "/videos", nil)
	req.Header.Set("Authorization", token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d got %d", http.StatusOK, rec.Code)
	}
	if seen.UserID != "user-123" {
		t.Fatalf("expected identity user-123, got %q", seen.UserID)
	}
}

func TestAuthenticateToleratesBearerPrefix(t *testing.T) {
	manager := auth.NewTokenManager([]byte("test-secret"), time.Hour)
	token, err := manager.Issue("user-123")
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}

	next, seen := authProbe(t)
	handler := Authenticate(manager)(next)

	req := httptest.NewRequest(http.MethodGet, "/videos", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d got %d", http.StatusOK, rec.Code)
	}
	if seen.UserID != "user-123" {
		t.Fatalf("expected identity user-123, got %q", seen.UserID)
	}
}
