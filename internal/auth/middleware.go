package auth

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/code-yaar/assistant-gateway/internal/httputil"
)

// Middleware returns a chi middleware that authenticates requests via Bearer token.
func Middleware(verifier Verifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			reqID := w.Header().Get("X-Request-ID")

			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				httputil.WriteAuthError(w, reqID, "Missing Authorization header. Use: Authorization: Bearer <token>")
				return
			}

			token := strings.TrimPrefix(authHeader, "Bearer ")
			if token == authHeader {
				httputil.WriteAuthError(w, reqID, "Invalid Authorization format. Use: Authorization: Bearer <token>")
				return
			}
			if token == "" {
				httputil.WriteAuthError(w, reqID, "Empty bearer token")
				return
			}

			id, err := verifier.Verify(r.Context(), token)
			if err != nil {
				slog.Warn("auth failed", "request_id", reqID, "error", err)
				httputil.WriteAuthError(w, reqID, "Invalid or expired token")
				return
			}

			ctx := ContextWithIdentity(r.Context(), id)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
