package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/adeqintegrated/adeqsite/pkg/auth"
	"github.com/adeqintegrated/adeqsite/pkg/response"
)

type claimsKey struct{}

// ClaimsFromCtx returns the verified token claims stored by Auth, or nil.
func ClaimsFromCtx(ctx context.Context) *auth.Claims {
	if c, ok := ctx.Value(claimsKey{}).(*auth.Claims); ok {
		return c
	}
	return nil
}

// Auth rejects requests without a valid bearer token and stores the verified
// claims in the request context for downstream handlers.
func Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			response.Unauthorized(w, "Access denied. No token provided.")
			return
		}
		token := strings.TrimPrefix(header, "Bearer ")

		claims, err := auth.ValidateToken(token)
		if err != nil {
			response.Unauthorized(w, "Invalid token")
			return
		}

		ctx := context.WithValue(r.Context(), claimsKey{}, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
