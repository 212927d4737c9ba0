package quota

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/code-yaar/assistant-gateway/internal/auth"
	"github.com/code-yaar/assistant-gateway/internal/config"
	"github.com/code-yaar/assistant-gateway/internal/httputil"
	"github.com/code-yaar/assistant-gateway/internal/telemetry"
)

const (
	headerRateLimitRequests          = "X-RateLimit-Limit-Requests"
	headerRateLimitRemainingRequests = "X-RateLimit-Remaining-Requests"
	headerRateLimitReset             = "X-RateLimit-Reset-Requests"
	headerRetryAfter                 = "Retry-After"
)

// Middleware returns chi middleware that enforces the per-minute burst limit
// and the per-user daily allowance. Exactly one quota check per request, no
// retries.
func Middleware(limiter *Limiter, store Store, cfg func() config.QuotaConfig, metrics *telemetry.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			reqID := w.Header().Get("X-Request-ID")

			id, ok := auth.IdentityFromContext(r.Context())
			if !ok {
				// No identity — auth middleware rejects, nothing to limit.
				next.ServeHTTP(w, r)
				return
			}

			qc := cfg()

			if qc.RPMLimit > 0 {
				result, _ := limiter.Check(r.Context(), id.UserID, int64(qc.RPMLimit), time.Minute)

				w.Header().Set(headerRateLimitRequests, strconv.Itoa(qc.RPMLimit))
				w.Header().Set(headerRateLimitRemainingRequests, strconv.FormatInt(result.Remaining, 10))
				w.Header().Set(headerRateLimitReset, result.ResetAt.Format(time.RFC3339))

				if !result.Allowed {
					slog.Warn("burst limit exceeded",
						"request_id", reqID,
						"user_id", id.UserID,
						"limit", qc.RPMLimit,
					)
					if metrics != nil {
						metrics.RecordRateLimitHit("rpm")
					}
					w.Header().Set(headerRetryAfter, strconv.Itoa(int(result.RetryAfter.Seconds())))
					httputil.WriteQuotaExceededError(w, reqID,
						"Too many requests. Slow down and try again in a moment.",
						int(result.Remaining), result.ResetAt)
					return
				}
			}

			decision, err := store.Check(r.Context(), id.UserID, qc.DailyLimit)
			if err != nil {
				slog.Error("quota check failed",
					"request_id", reqID,
					"user_id", id.UserID,
					"fail_open", qc.FailOpen,
					"error", err,
				)
				if metrics != nil {
					metrics.RecordQuotaCheckError()
				}
				if !qc.FailOpen {
					httputil.WriteInternalError(w, reqID, "Could not verify your daily allowance. Try again shortly.")
					return
				}
				// Explicitly configured to prefer availability over
				// correctness when the store is down.
				next.ServeHTTP(w, r)
				return
			}

			if !decision.Allowed {
				slog.Warn("daily quota exhausted",
					"request_id", reqID,
					"user_id", id.UserID,
					"limit", qc.DailyLimit,
					"reset_at", decision.ResetAt,
				)
				if metrics != nil {
					metrics.RecordRateLimitHit("daily")
				}
				httputil.WriteQuotaExceededError(w, reqID,
					"Daily AI request limit reached. Your allowance resets at midnight UTC.",
					0, decision.ResetAt)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
