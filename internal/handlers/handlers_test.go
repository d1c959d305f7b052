package handlers

import (
	"net/http"
	"testing"

	"github.com/golang/mock/gomock"

	"github.com/tadikamesra/tadika-mesra/internal/jwt"
	"github.com/tadikamesra/tadika-mesra/internal/middlewares"
)

// withClaims wraps a handler the way the router does in production: behind
// the auth middleware, with a tokener that resolves to the given claims.
func withClaims(t *testing.T, ctrl *gomock.Controller, claims *jwt.Claims, next http.Handler) http.Handler {
	t.Helper()

	tokener := middlewares.NewMockTokener(ctrl)
	tokener.EXPECT().GetTokenFromRequest(gomock.Any(), gomock.Any()).Return("token", nil).AnyTimes()
	tokener.EXPECT().GetClaims(gomock.Any(), "token").Return(claims, nil).AnyTimes()

	return middlewares.AuthMiddleware(tokener)(next)
}
