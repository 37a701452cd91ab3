package middleware

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"marketmod/pkg/domain"
	dErrors "marketmod/pkg/domain-errors"
	"marketmod/pkg/platform/httputil"
	"marketmod/pkg/requestcontext"
)

// TokenValidator validates gateway-issued access tokens.
type TokenValidator interface {
	ValidateToken(tokenString string) (*TokenClaims, error)
}

// TokenClaims is the subset of token claims this middleware needs.
type TokenClaims struct {
	ActorID domain.ActorID
}

// RequireActor resolves the acting moderator's identity and stores it in the
// context. A bearer token's subject wins when present; otherwise the
// moderatorId query parameter is accepted, which is how the gateway forwards
// identity today. Authorization (role membership) stays with the
// orchestrator — this middleware only establishes who is calling.
func RequireActor(validator TokenValidator, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			authHeader := r.Header.Get("Authorization")
			if token, ok := strings.CutPrefix(authHeader, "Bearer "); ok {
				claims, err := validator.ValidateToken(token)
				if err != nil {
					logger.WarnContext(ctx, "invalid access token",
						"error", err,
						"request_id", requestcontext.RequestID(ctx),
					)
					httputil.WriteError(w, dErrors.New(dErrors.CodeForbidden, "invalid or expired token"))
					return
				}
				ctx = requestcontext.WithActorID(ctx, claims.ActorID)
				next.ServeHTTP(w, r.WithContext(ctx))
				return
			}

			raw := r.URL.Query().Get("moderatorId")
			if raw == "" {
				httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "moderatorId is required"))
				return
			}
			actorID, err := strconv.ParseInt(raw, 10, 64)
			if err != nil || actorID <= 0 {
				httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "moderatorId must be a positive integer"))
				return
			}

			ctx = requestcontext.WithActorID(ctx, domain.ActorID(actorID))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
