package middleware

import (
	"context"
	"net/http"
	"strings"

	apiContext "github.com/hlee18lee46/clearwhistlenew/internal/api/context"
	"github.com/hlee18lee46/clearwhistlenew/internal/pkg/apierror"
	"github.com/hlee18lee46/clearwhistlenew/internal/platform/auth"
)

type AuthMiddleware struct {
	tokenSvc *auth.TokenService
}

func NewAuthMiddleware(tokenSvc *auth.TokenService) *AuthMiddleware {
	return &AuthMiddleware{tokenSvc: tokenSvc}
}

func (m *AuthMiddleware) Handle(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			apierror.WriteError(w, http.StatusUnauthorized, apierror.ErrCodeUnauthorized, "Missing authorization header", nil)
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			apierror.WriteError(w, http.StatusUnauthorized, apierror.ErrCodeUnauthorized, "Invalid authorization header format", nil)
			return
		}

		claims, err := m.tokenSvc.ValidateToken(parts[1])
		if err != nil {
			apierror.WriteError(w, http.StatusUnauthorized, apierror.ErrCodeUnauthorized, "Invalid or expired token", nil)
			return
		}

		ctx := context.WithValue(r.Context(), apiContext.Claims, claims)
		next(w, r.WithContext(ctx))
	}
}

// RequireAdmin gates the /admin routes. It must run after Handle so claims
// are present in the context.
func RequireAdmin(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := r.Context().Value(apiContext.Claims).(*auth.Claims)
		if !ok || !claims.IsAdmin {
			apierror.WriteError(w, http.StatusForbidden, apierror.ErrCodeForbidden, "Admin access required", nil)
			return
		}

		next(w, r)
	}
}
