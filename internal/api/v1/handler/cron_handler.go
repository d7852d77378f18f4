package handler

import (
	"net/http"

	"github.com/agro-trimobe/rural-credit-app-sub002/internal/api/v1/dto"
	"github.com/agro-trimobe/rural-credit-app-sub002/internal/service"

	"github.com/rs/zerolog"
)

// CronHandler exposes scheduler-invoked maintenance endpoints.
type CronHandler struct {
	subSvc service.SubscriptionService
	logger zerolog.Logger
}

// NewCronHandler creates a new CronHandler.
func NewCronHandler(subSvc service.SubscriptionService, logger zerolog.Logger) *CronHandler {
	return &CronHandler{subSvc: subSvc, logger: logger.With().Str("handler", "CronHandler").Logger()}
}

// RegisterRoutes mounts the cron endpoints behind the cron auth middleware.
func (h *CronHandler) RegisterRoutes(mux *http.ServeMux, cronMw func(http.Handler) http.Handler) {
	mux.Handle("/cron/subscriptions", cronMw(http.HandlerFunc(h.sweepSubscriptions)))
}

func (h *CronHandler) sweepSubscriptions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	report, err := h.subSvc.Sweep(r.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("Subscription sweep failed")
		dto.WriteError(w, err)
		return
	}
	dto.WriteSuccess(w, http.StatusOK, report)
}
