package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/agro-trimobe/rural-credit-app-sub002/internal/api/v1/dto"
	"github.com/agro-trimobe/rural-credit-app-sub002/internal/apperror"

	"github.com/rs/zerolog"
)

// CronAuthMiddleware authorizes scheduler-invoked endpoints with a shared
// bearer secret.
func CronAuthMiddleware(secret string, logger zerolog.Logger) func(http.Handler) http.Handler {
	log := logger.With().Str("middleware", "CronAuth").Logger()
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if secret == "" {
				log.Error().Msg("Cron auth middleware configured without a secret; requests will be denied")
				dto.WriteError(w, &apperror.AuthenticationError{Msg: "Acesso não autorizado."})
				return
			}

			authHeader := r.Header.Get("Authorization")
			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				log.Warn().Msg("Malformed Authorization header in cron request")
				dto.WriteError(w, &apperror.AuthenticationError{Msg: "Acesso não autorizado."})
				return
			}
			if subtle.ConstantTimeCompare([]byte(parts[1]), []byte(secret)) != 1 {
				log.Warn().Msg("Cron secret mismatch")
				dto.WriteError(w, &apperror.AuthenticationError{Msg: "Acesso não autorizado."})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
