package middlewares

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/tadikamesra/tadika-mesra/internal/jwt"
	"github.com/tadikamesra/tadika-mesra/internal/logger"
)

// Tokener defines the minimal interface needed by the middleware
type Tokener interface {
	GetTokenFromRequest(ctx context.Context, r *http.Request) (string, error)
	GetClaims(ctx context.Context, tokenString string) (*jwt.Claims, error)
}

type authErrorResponse struct {
	Error string `json:"error"`
}

// AuthMiddleware returns a middleware that validates the bearer token and
// stores the decoded claims in the request context for downstream handlers.
// A missing credential is 401; a malformed or expired one is 400.
func AuthMiddleware(tokener Tokener) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			tokenString, err := tokener.GetTokenFromRequest(ctx, r)
			if err != nil {
				logger.Log.Errorw("authorization failed", "err", err)
				w.WriteHeader(http.StatusUnauthorized)
				json.NewEncoder(w).Encode(authErrorResponse{Error: "Authorization token required"})
				return
			}

			claims, err := tokener.GetClaims(ctx, tokenString)
			if err != nil {
				logger.Log.Errorw("authorization failed", "err", err)
				w.WriteHeader(http.StatusBadRequest)
				json.NewEncoder(w).Encode(authErrorResponse{Error: "Invalid token"})
				return
			}

			next.ServeHTTP(w, r.WithContext(setClaimsToContext(ctx, claims)))
		})
	}
}

// claimsContextKey is an unexported type for claims keys in context
type claimsContextKey struct{}

var claimsKey = claimsContextKey{}

// setClaimsToContext stores decoded token claims in the context
func setClaimsToContext(ctx context.Context, claims *jwt.Claims) context.Context {
	return context.WithValue(ctx, claimsKey, claims)
}

// GetClaimsFromContext retrieves the claims from the context. Returns nil if not present.
func GetClaimsFromContext(ctx context.Context) *jwt.Claims {
	claims, _ := ctx.Value(claimsKey).(*jwt.Claims)
	return claims
}
