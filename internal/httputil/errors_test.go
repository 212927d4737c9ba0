package httputil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestWriteError(t *testing.T) {
	w := httptest.NewRecorder()
	WriteError(w, "req_123", http.StatusBadRequest, "test message")

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", w.Code)
	}

	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("expected Content-Type application/json, got %s", ct)
	}

	if rid := w.Header().Get("X-Request-ID"); rid != "req_123" {
		t.Errorf("expected X-Request-ID req_123, got %s", rid)
	}

	var body ErrorBody
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}

	if body.Error != "test message" {
		t.Errorf("expected error 'test message', got %q", body.Error)
	}
	if body.RequestID != "req_123" {
		t.Errorf("expected request_id 'req_123', got %q", body.RequestID)
	}
	if body.Warning {
		t.Error("warning should not be set on a plain error")
	}
}

func TestWriteAuthError(t *testing.T) {
	w := httptest.NewRecorder()
	WriteAuthError(w, "req_456", "Invalid token")

	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected status 401, got %d", w.Code)
	}
}

func TestWriteContentBlockedError(t *testing.T) {
	w := httptest.NewRecorder()
	WriteContentBlockedError(w, "req_789", "Request contains unsafe content")

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", w.Code)
	}

	var body ErrorBody
	json.Unmarshal(w.Body.Bytes(), &body)
	if !body.Warning {
		t.Error("expected warning=true on content blocked response")
	}
}

func TestWriteQuotaExceededError(t *testing.T) {
	resetAt := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

	w := httptest.NewRecorder()
	WriteQuotaExceededError(w, "req_1", "Daily limit reached", 0, resetAt)

	if w.Code != http.StatusTooManyRequests {
		t.Errorf("expected status 429, got %d", w.Code)
	}

	var body ErrorBody
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	if body.Remaining == nil || *body.Remaining != 0 {
		t.Errorf("expected remaining=0, got %v", body.Remaining)
	}
	if body.ResetAt != "2026-03-02T00:00:00Z" {
		t.Errorf("expected reset_at 2026-03-02T00:00:00Z, got %q", body.ResetAt)
	}
}

func TestWriteBillingExhaustedError(t *testing.T) {
	w := httptest.NewRecorder()
	WriteBillingExhaustedError(w, "req_2", "AI credits exhausted")

	if w.Code != http.StatusPaymentRequired {
		t.Errorf("expected status 402, got %d", w.Code)
	}
}
