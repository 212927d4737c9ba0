package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"
	"unicode/utf8"

	"github.com/code-yaar/assistant-gateway/internal/auth"
	"github.com/code-yaar/assistant-gateway/internal/config"
	"github.com/code-yaar/assistant-gateway/internal/history"
	"github.com/code-yaar/assistant-gateway/internal/httputil"
	"github.com/code-yaar/assistant-gateway/internal/prompt"
	"github.com/code-yaar/assistant-gateway/internal/safety"
	"github.com/code-yaar/assistant-gateway/internal/sse"
	"github.com/code-yaar/assistant-gateway/internal/telemetry"
	"github.com/code-yaar/assistant-gateway/internal/types"
	"github.com/code-yaar/assistant-gateway/internal/upstream"
)

// Handler holds dependencies for the assistant HTTP handlers.
type Handler struct {
	upstream *upstream.Client
	composer *prompt.Composer
	filter   *safety.Filter
	history  history.Store
	cfg      func() *config.Config
	prompts  func() *config.PromptsConfig
	metrics  *telemetry.Metrics
}

func NewHandler(up *upstream.Client, composer *prompt.Composer, filter *safety.Filter, hist history.Store, cfg func() *config.Config, prompts func() *config.PromptsConfig, metrics *telemetry.Metrics) *Handler {
	return &Handler{
		upstream: up,
		composer: composer,
		filter:   filter,
		history:  hist,
		cfg:      cfg,
		prompts:  prompts,
		metrics:  metrics,
	}
}

// Assist handles POST /v1/assist: the code assistant. Success is a streamed
// SSE relay of the upstream response.
func (h *Handler) Assist(w http.ResponseWriter, r *http.Request) {
	reqID := w.Header().Get("X-Request-ID")
	receivedAt := time.Now()

	id, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		httputil.WriteAuthError(w, reqID, "Not authenticated")
		return
	}

	var req types.AssistRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteBadRequestError(w, reqID, "Invalid JSON body")
		return
	}
	defer r.Body.Close()

	mode, ok := types.ParseMode(req.Mode)
	if !ok || !mode.IsCodeMode() {
		httputil.WriteBadRequestError(w, reqID, "mode must be one of: generate, debug, explain")
		return
	}
	if req.Code == "" {
		httputil.WriteBadRequestError(w, reqID, "code is required")
		return
	}
	// Oversized input is rejected before the safety filter or any upstream
	// call; it is never truncated.
	if maxChars := h.cfg().Limits.MaxCodeChars; utf8.RuneCountInString(req.Code) > maxChars {
		httputil.WriteBadRequestError(w, reqID, "code exceeds the maximum input size")
		return
	}

	language := req.Language
	if language == "" {
		language = "general"
	}

	if blocked := h.rejectUnsafe(w, r, reqID, id, mode, language, req.Model, req.Code); blocked {
		return
	}

	model := h.upstream.ResolveModel(req.Model)
	messages := h.composer.Compose(mode, language, req.Code)

	resp, err := h.upstream.Stream(r.Context(), model, messages, upstream.TemperatureCode)
	if err != nil {
		h.writeUpstreamError(w, reqID, string(mode), model, err)
		return
	}
	defer resp.Body.Close()

	slog.Info("streaming started",
		"request_id", reqID,
		"user_id", id.UserID,
		"mode", mode,
		"model", model,
	)

	output, warning, relayErr := h.relayStream(w, reqID, resp.Body)
	if relayErr != nil {
		// Headers are already out; all we can do is log and stop.
		slog.Error("stream relay aborted", "request_id", reqID, "error", relayErr)
		return
	}

	if warning && h.metrics != nil {
		h.metrics.RecordUncertainReply()
	}

	h.recordInteraction(history.Record{
		UserID:   id.UserID,
		Title:    string(mode) + " - " + language,
		Language: language,
		Model:    model,
		Messages: []types.Message{
			{Role: types.RoleUser, Content: req.Code},
			{Role: types.RoleAssistant, Content: output},
		},
	})

	duration := time.Since(receivedAt)
	slog.Info("request completed",
		"request_id", reqID,
		"user_id", id.UserID,
		"mode", mode,
		"model", model,
		"output_chars", len(output),
		"warning", warning,
		"duration_ms", duration.Milliseconds(),
		"stream", true,
	)
	if h.metrics != nil {
		h.metrics.RecordRequest(string(mode), model, "200", float64(duration.Milliseconds()))
	}
}

// Mentor handles POST /v1/mentor: the learning assistant. Success is a single
// JSON body.
func (h *Handler) Mentor(w http.ResponseWriter, r *http.Request) {
	reqID := w.Header().Get("X-Request-ID")
	receivedAt := time.Now()

	id, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		httputil.WriteAuthError(w, reqID, "Not authenticated")
		return
	}

	var req types.MentorRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteBadRequestError(w, reqID, "Invalid JSON body")
		return
	}
	defer r.Body.Close()

	if req.Message == "" {
		httputil.WriteBadRequestError(w, reqID, "message is required")
		return
	}
	if maxChars := h.cfg().Limits.MaxMessageChars; utf8.RuneCountInString(req.Message) > maxChars {
		httputil.WriteBadRequestError(w, reqID, "message exceeds the maximum input size")
		return
	}

	language := "general"
	if req.Context != nil && req.Context.Language != "" {
		language = req.Context.Language
	}

	if blocked := h.rejectUnsafe(w, r, reqID, id, types.ModeMentor, language, req.Model, req.Message); blocked {
		return
	}

	model := h.upstream.ResolveModel(req.Model)
	messages := h.composer.ComposeMentor(req.Message, req.Context)

	answer, err := h.upstream.Complete(r.Context(), model, messages, upstream.TemperatureMentor)
	if err != nil {
		h.writeUpstreamError(w, reqID, string(types.ModeMentor), model, err)
		return
	}

	warning := sse.ContainsUncertainty(answer, h.prompts().UncertaintyPhrases)
	if warning && h.metrics != nil {
		h.metrics.RecordUncertainReply()
	}

	h.recordInteraction(history.Record{
		UserID:   id.UserID,
		Title:    "mentor - " + language,
		Language: language,
		Model:    model,
		Messages: []types.Message{
			{Role: types.RoleUser, Content: req.Message},
			{Role: types.RoleAssistant, Content: answer},
		},
	})

	duration := time.Since(receivedAt)
	slog.Info("request completed",
		"request_id", reqID,
		"user_id", id.UserID,
		"mode", types.ModeMentor,
		"model", model,
		"warning", warning,
		"duration_ms", duration.Milliseconds(),
		"stream", false,
	)
	if h.metrics != nil {
		h.metrics.RecordRequest(string(types.ModeMentor), model, "200", float64(duration.Milliseconds()))
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(types.MentorResponse{Response: answer, Warning: warning})
}

// rejectUnsafe runs the safety filter. On a hit it writes the 400 response,
// records exactly one redacted audit row, and returns true.
func (h *Handler) rejectUnsafe(w http.ResponseWriter, r *http.Request, reqID string, id *auth.Identity, mode types.Mode, language, modelAlias, payload string) bool {
	verdict := h.filter.Scan(payload)
	if !verdict.Blocked {
		return false
	}

	slog.Warn("request blocked by safety filter",
		"request_id", reqID,
		"user_id", id.UserID,
		"mode", mode,
		"rule", verdict.Rule,
		"category", verdict.Category,
	)
	if h.metrics != nil {
		h.metrics.RecordFilterBlock(verdict.Category)
		h.metrics.RecordRequest(string(mode), h.upstream.ResolveModel(modelAlias), "400", 0)
	}

	h.recordInteraction(history.Record{
		UserID:   id.UserID,
		Title:    "[BLOCKED] " + string(mode) + " - " + language,
		Language: language,
		Model:    h.upstream.ResolveModel(modelAlias),
		Messages: []types.Message{
			{Role: types.RoleUser, Content: safety.Redacted},
		},
	})

	httputil.WriteContentBlockedError(w, reqID, "Request contains content that is not allowed")
	return true
}

// writeUpstreamError maps the relay failure taxonomy to wire responses.
func (h *Handler) writeUpstreamError(w http.ResponseWriter, reqID, mode, model string, err error) {
	var status string
	switch {
	case errors.Is(err, upstream.ErrBusy):
		status = "429"
		if h.metrics != nil {
			h.metrics.RecordUpstreamError("busy")
		}
		httputil.WriteUpstreamBusyError(w, reqID, "The AI service is busy right now. Please try again in a moment.")
	case errors.Is(err, upstream.ErrBillingExhausted):
		status = "402"
		if h.metrics != nil {
			h.metrics.RecordUpstreamError("billing")
		}
		httputil.WriteBillingExhaustedError(w, reqID, "The AI usage limit has been reached. Please try again later.")
	default:
		status = "500"
		if h.metrics != nil {
			h.metrics.RecordUpstreamError("unavailable")
		}
		slog.Error("upstream call failed", "request_id", reqID, "mode", mode, "model", model, "error", err)
		httputil.WriteInternalError(w, reqID, "The AI service is temporarily unavailable.")
	}
	if h.metrics != nil {
		h.metrics.RecordRequest(mode, model, status, 0)
	}
}

// recordInteraction appends one audit row. Failures are logged, never
// surfaced: the response to the learner is already decided by this point.
func (h *Handler) recordInteraction(rec history.Record) {
	if h.history == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := h.history.Record(ctx, rec); err != nil {
		slog.Error("failed to record interaction", "user_id", rec.UserID, "title", rec.Title, "error", err)
	}
}

// CORS adds permissive cross-origin headers and answers preflight requests
// with a bare 200, matching what the course frontend expects.
func CORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Headers", "authorization, content-type, x-request-id")
		w.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}
