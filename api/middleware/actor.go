package middleware

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/gonggu-lab/gonggu-backend/api/responses"
	pkgerrors "github.com/gonggu-lab/gonggu-backend/pkg/errors"
	"github.com/gonggu-lab/gonggu-backend/pkg/logger"
)

// UserIDHeader carries the authenticated user id, set by the upstream gateway.
const UserIDHeader = "X-User-Id"

// Actor seeds the request context with the user named by UserIDHeader.
// Requests without the header pass through anonymously.
func Actor(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := strings.TrimSpace(r.Header.Get(UserIDHeader))
			if raw == "" {
				next.ServeHTTP(w, r)
				return
			}
			userID, err := uuid.Parse(raw)
			if err != nil || userID == uuid.Nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid user id header"))
				return
			}

			ctx := WithActor(r.Context(), userID)
			if logg != nil {
				ctx = logg.WithUserID(ctx, userID.String())
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireActor rejects anonymous requests.
func RequireActor(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := ActorFromContext(r.Context()); !ok {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
