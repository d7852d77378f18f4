package middleware

import (
	"net/http"
	"time"

	"github.com/agro-trimobe/rural-credit-app-sub002/internal/api/v1/dto"
	"github.com/agro-trimobe/rural-credit-app-sub002/internal/apperror"
	"github.com/agro-trimobe/rural-credit-app-sub002/internal/model"
	"github.com/agro-trimobe/rural-credit-app-sub002/internal/service"

	"github.com/rs/zerolog"
)

// SubscriptionGate blocks tenants whose subscription no longer grants
// access. It runs after AuthMiddleware.
//
// A user with no stored subscription gets the trial created on first
// check. TRIAL is honored until its expiry; ACTIVE is honored without an
// expiry check, since demotion is the sweep's job. Everything else is
// denied with a redirect to the subscription page. Failing to resolve the
// user at all denies with a redirect to sign-in.
func SubscriptionGate(subSvc service.SubscriptionService, logger zerolog.Logger) func(http.Handler) http.Handler {
	log := logger.With().Str("middleware", "SubscriptionGate").Logger()
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tenantID := TenantID(r.Context())
			userID := UserID(r.Context())
			if tenantID == "" || userID == "" {
				dto.WriteError(w, &apperror.AuthenticationError{Msg: "Sessão expirada. Faça login novamente."})
				return
			}

			sub, err := subSvc.EnsureSubscription(r.Context(), tenantID, userID)
			if err != nil {
				log.Error().Err(err).Str("tenant_id", tenantID).Str("user_id", userID).Msg("Subscription check failed, denying access")
				dto.WriteError(w, &apperror.AuthenticationError{
					Msg: "Não foi possível verificar seu acesso. Faça login novamente.",
				})
				return
			}

			switch sub.Status {
			case model.SubscriptionTrial:
				if sub.TrialEndsAt != nil && time.Now().UTC().Before(*sub.TrialEndsAt) {
					next.ServeHTTP(w, r)
					return
				}
			case model.SubscriptionActive:
				next.ServeHTTP(w, r)
				return
			}

			dto.WriteError(w, &apperror.AuthorizationError{
				Msg:      "Sua assinatura não está ativa. Regularize para continuar.",
				Redirect: "/assinatura",
			})
		})
	}
}
