package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/agro-trimobe/rural-credit-app-sub002/internal/api/v1/dto"
	"github.com/agro-trimobe/rural-credit-app-sub002/internal/apperror"
	"github.com/agro-trimobe/rural-credit-app-sub002/internal/logger"
	"github.com/agro-trimobe/rural-credit-app-sub002/internal/util"
)

// Injected key type to avoid context collisions
type contextKey string

const (
	UserContextKey   = contextKey("user")
	TenantContextKey = contextKey("tenant")
)

// UserID returns the authenticated user id from the request context.
func UserID(ctx context.Context) string {
	id, _ := ctx.Value(UserContextKey).(string)
	return id
}

// TenantID returns the authenticated tenant id from the request context.
func TenantID(ctx context.Context) string {
	id, _ := ctx.Value(TenantContextKey).(string)
	return id
}

// AuthMiddleware validates the bearer token and injects the subject and
// tenant into the request context. Unauthenticated requests are answered
// with a redirect to the sign-in page.
func AuthMiddleware(jwtSecret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			log := logger.New()
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				log.Warn().Str("path", r.URL.Path).Msg("Authorization header missing")
				dto.WriteError(w, &apperror.AuthenticationError{Msg: "Sessão expirada. Faça login novamente."})
				return
			}
			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || parts[0] != "Bearer" {
				log.Warn().Str("path", r.URL.Path).Msg("Invalid authorization header")
				dto.WriteError(w, &apperror.AuthenticationError{Msg: "Sessão expirada. Faça login novamente."})
				return
			}
			claims, err := util.ValidateJWT(parts[1], jwtSecret)
			if err != nil {
				log.Warn().Err(err).Str("path", r.URL.Path).Msg("Invalid token")
				dto.WriteError(w, &apperror.AuthenticationError{Msg: "Sessão expirada. Faça login novamente."})
				return
			}
			ctx := context.WithValue(r.Context(), UserContextKey, claims.Subject)
			ctx = context.WithValue(ctx, TenantContextKey, claims.TenantID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
