package rest

import (
	"net/http"

	"property-service/internal/contextkeys"

	"github.com/google/uuid"
)

// IdentityMiddleware extracts an optional X-User-ID header set by the API
// gateway. Requests without it stay anonymous; a malformed header is rejected
// rather than silently dropped.
func IdentityMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userIDStr := r.Header.Get("X-User-ID")
		if userIDStr == "" {
			next.ServeHTTP(w, r)
			return
		}

		userID, err := uuid.Parse(userIDStr)
		if err != nil {
			WriteJSONError(w, http.StatusUnauthorized, "Invalid X-User-ID header format")
			return
		}

		ctx := contextkeys.ContextWithUserID(r.Context(), userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireUserMiddleware rejects anonymous requests. Applied to the routes
// that only make sense for an identified user, such as search history.
func RequireUserMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if contextkeys.UserIDFromContext(r.Context()) == nil {
			WriteJSONError(w, http.StatusUnauthorized, "X-User-ID header is missing")
			return
		}
		next.ServeHTTP(w, r)
	})
}
