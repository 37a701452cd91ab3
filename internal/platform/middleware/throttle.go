package middleware

import (
	"log/slog"
	"net/http"
	"strconv"

	"marketmod/internal/throttle"
	"marketmod/pkg/platform/httputil"
	"marketmod/pkg/requestcontext"
)

// WriteThrottle bounds moderation writes per moderator. Fails open: a limiter
// error lets the request through rather than blocking moderation on the
// throttle backend. Requires RequireActor earlier in the chain.
func WriteThrottle(limiter throttle.Limiter, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if limiter == nil {
				next.ServeHTTP(w, r)
				return
			}

			ctx := r.Context()
			actor := requestcontext.ActorID(ctx)

			result, err := limiter.Allow(ctx, actor.String())
			if err != nil {
				logger.ErrorContext(ctx, "write throttle check failed",
					"error", err,
					"request_id", requestcontext.RequestID(ctx),
				)
				next.ServeHTTP(w, r)
				return
			}

			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(result.Limit))
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(result.Remaining))

			if !result.Allowed {
				w.Header().Set("Retry-After", strconv.FormatInt(int64(result.ResetAt.Sub(requestcontext.Now(ctx)).Seconds())+1, 10))
				httputil.WriteJSON(w, http.StatusTooManyRequests, map[string]string{
					"error":             "rate_limited",
					"error_description": "too many moderation writes, slow down",
				})
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
