package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

const testSecret = "unit-test-secret"

func protected(t *testing.T) (http.Handler, *Identity) {
	t.Helper()
	captured := &Identity{}
	mw := Middleware(NewJWTVerifier(testSecret))
	h := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := IdentityFromContext(r.Context())
		if !ok {
			t.Fatal("expected identity in context")
		}
		*captured = *id
		w.WriteHeader(http.StatusOK)
	}))
	return h, captured
}

func TestMiddleware_MissingAuthHeader(t *testing.T) {
	h, _ := protected(t)

	req := httptest.NewRequest(http.MethodPost, "/v1/assist", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", rec.Code)
	}
}

func TestMiddleware_MissingBearerPrefix(t *testing.T) {
	h, _ := protected(t)

	req := httptest.NewRequest(http.MethodPost, "/v1/assist", nil)
	req.Header.Set("Authorization", "Token abc123")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", rec.Code)
	}
}

func TestMiddleware_EmptyToken(t *testing.T) {
	h, _ := protected(t)

	req := httptest.NewRequest(http.MethodPost, "/v1/assist", nil)
	req.Header.Set("Authorization", "Bearer ")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", rec.Code)
	}
}

func TestMiddleware_RejectedToken(t *testing.T) {
	h, _ := protected(t)

	// Signed with the wrong secret.
	token, err := MintToken("some-other-secret", "user-1", "u@example.com", time.Hour)
	if err != nil {
		t.Fatal(err)
	}

	req := httptest.NewRequest(http.MethodPost, "/v1/assist", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 for token signed with wrong secret, got %d", rec.Code)
	}
}

func TestMiddleware_ExpiredToken(t *testing.T) {
	h, _ := protected(t)

	token, err := MintToken(testSecret, "user-1", "u@example.com", -time.Minute)
	if err != nil {
		t.Fatal(err)
	}

	req := httptest.NewRequest(http.MethodPost, "/v1/assist", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 for expired token, got %d", rec.Code)
	}
}

func TestMiddleware_ValidToken(t *testing.T) {
	h, captured := protected(t)

	token, err := MintToken(testSecret, "user-42", "learner@example.com", time.Hour)
	if err != nil {
		t.Fatal(err)
	}

	req := httptest.NewRequest(http.MethodPost, "/v1/assist", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if captured.UserID != "user-42" {
		t.Errorf("expected user-42, got %q", captured.UserID)
	}
	if captured.Email != "learner@example.com" {
		t.Errorf("expected learner email, got %q", captured.Email)
	}
}
