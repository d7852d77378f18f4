package handler

import (
	"crypto/subtle"
	"encoding/json"
	"net/http"
	"time"

	"github.com/agro-trimobe/rural-credit-app-sub002/internal/api/v1/dto"
	"github.com/agro-trimobe/rural-credit-app-sub002/internal/apperror"
	"github.com/agro-trimobe/rural-credit-app-sub002/internal/service"

	"github.com/rs/zerolog"
)

// WebhookHandler receives payment gateway push notifications.
type WebhookHandler struct {
	subSvc       service.SubscriptionService
	webhookToken string
	logger       zerolog.Logger
}

// NewWebhookHandler creates a new WebhookHandler.
func NewWebhookHandler(subSvc service.SubscriptionService, webhookToken string, logger zerolog.Logger) *WebhookHandler {
	return &WebhookHandler{
		subSvc:       subSvc,
		webhookToken: webhookToken,
		logger:       logger.With().Str("handler", "WebhookHandler").Logger(),
	}
}

// RegisterRoutes mounts the webhook endpoint. The gateway authenticates
// with a shared token header, not a user session.
func (h *WebhookHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.Handle("/webhooks/asaas", http.HandlerFunc(h.handleEvent))
}

func (h *WebhookHandler) handleEvent(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	token := r.Header.Get("asaas-access-token")
	if h.webhookToken == "" || subtle.ConstantTimeCompare([]byte(token), []byte(h.webhookToken)) != 1 {
		h.logger.Warn().Msg("Webhook token mismatch")
		dto.WriteError(w, &apperror.AuthenticationError{Msg: "Acesso não autorizado."})
		return
	}

	var event dto.WebhookEventDTO
	if err := json.NewDecoder(r.Body).Decode(&event); err != nil {
		dto.WriteError(w, apperror.Validation("payload inválido: %v", err))
		return
	}
	if event.Event == "" || event.Payment.Subscription == "" {
		dto.WriteError(w, apperror.Validation("evento sem identificação de assinatura"))
		return
	}

	dueDate := time.Now().UTC()
	if event.Payment.DueDate != "" {
		parsed, err := time.Parse("2006-01-02", event.Payment.DueDate)
		if err != nil {
			dto.WriteError(w, apperror.Validation("data de vencimento inválida: %s", event.Payment.DueDate))
			return
		}
		dueDate = parsed
	}

	if err := h.subSvc.HandlePaymentEvent(r.Context(), event.Event, event.Payment.Subscription, dueDate); err != nil {
		h.logger.Error().Err(err).Str("event", event.Event).Str("subscription", event.Payment.Subscription).Msg("Failed to process webhook event")
		dto.WriteError(w, err)
		return
	}
	dto.WriteMessage(w, http.StatusOK, "Evento processado.")
}
