package quota

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/code-yaar/assistant-gateway/internal/auth"
	"github.com/code-yaar/assistant-gateway/internal/config"
	"github.com/code-yaar/assistant-gateway/internal/httputil"
)

// fakeStore implements Store for middleware tests.
type fakeStore struct {
	decision Decision
	err      error
	calls    int
}

func (f *fakeStore) Check(ctx context.Context, userID string, limit int) (Decision, error) {
	f.calls++
	return f.decision, f.err
}

func newRequest() *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/v1/assist", nil)
	id := &auth.Identity{UserID: "user-1"}
	return req.WithContext(auth.ContextWithIdentity(req.Context(), id))
}

func runMiddleware(t *testing.T, store Store, qc config.QuotaConfig, req *http.Request) (*httptest.ResponseRecorder, bool) {
	t.Helper()
	called := false
	mw := Middleware(NewLimiter(nil), store, func() config.QuotaConfig { return qc }, nil)
	h := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.WriteHeader(http.StatusOK)
	}))

	rec := httptest.NewRecorder()
	rec.Header().Set("X-Request-ID", "req-1")
	h.ServeHTTP(rec, req)
	return rec, called
}

func TestMiddleware_Allowed(t *testing.T) {
	store := &fakeStore{decision: Decision{Allowed: true, Remaining: 49, ResetAt: time.Now().Add(time.Hour)}}
	qc := config.QuotaConfig{DailyLimit: 50, RPMLimit: 10}

	rec, called := runMiddleware(t, store, qc, newRequest())

	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
	if !called {
		t.Error("expected next handler called")
	}
	if store.calls != 1 {
		t.Errorf("expected exactly one quota check, got %d", store.calls)
	}
	if h := rec.Header().Get(headerRateLimitRequests); h != "10" {
		t.Errorf("expected X-RateLimit-Limit-Requests=10, got %s", h)
	}
}

func TestMiddleware_DailyQuotaExhausted(t *testing.T) {
	resetAt := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	store := &fakeStore{decision: Decision{Allowed: false, Remaining: 0, ResetAt: resetAt}}
	qc := config.QuotaConfig{DailyLimit: 50, RPMLimit: 10}

	rec, called := runMiddleware(t, store, qc, newRequest())

	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", rec.Code)
	}
	if called {
		t.Error("handler must not run when quota is exhausted")
	}

	var body httputil.ErrorBody
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body.Remaining == nil || *body.Remaining != 0 {
		t.Errorf("expected remaining=0, got %v", body.Remaining)
	}
	if body.ResetAt != "2026-03-02T00:00:00Z" {
		t.Errorf("expected reset_at in body, got %q", body.ResetAt)
	}
}

func TestMiddleware_StoreError_FailClosed(t *testing.T) {
	store := &fakeStore{err: errors.New("connection refused")}
	qc := config.QuotaConfig{DailyLimit: 50, RPMLimit: 10, FailOpen: false}

	rec, called := runMiddleware(t, store, qc, newRequest())

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("expected 500 when fail-closed, got %d", rec.Code)
	}
	if called {
		t.Error("handler must not run when the quota store errors and fail_open=false")
	}
}

func TestMiddleware_StoreError_FailOpen(t *testing.T) {
	store := &fakeStore{err: errors.New("connection refused")}
	qc := config.QuotaConfig{DailyLimit: 50, RPMLimit: 10, FailOpen: true}

	rec, called := runMiddleware(t, store, qc, newRequest())

	if rec.Code != http.StatusOK {
		t.Errorf("expected 200 when fail-open, got %d", rec.Code)
	}
	if !called {
		t.Error("handler must run when the quota store errors and fail_open=true")
	}
}

func TestMiddleware_NoIdentity_PassThrough(t *testing.T) {
	store := &fakeStore{}
	qc := config.QuotaConfig{DailyLimit: 50, RPMLimit: 10}

	req := httptest.NewRequest(http.MethodPost, "/v1/assist", nil)
	_, called := runMiddleware(t, store, qc, req)

	if !called {
		t.Error("expected pass-through without identity (auth middleware rejects separately)")
	}
	if store.calls != 0 {
		t.Error("quota store must not be consulted without identity")
	}
}
