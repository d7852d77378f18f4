package dto

import (
	"time"

	"github.com/agro-trimobe/rural-credit-app-sub002/internal/model"
)

// CheckoutRequestDTO is the payload to start a paid subscription.
type CheckoutRequestDTO struct {
	CPF string `json:"cpf" validate:"required,min=11,max=14"`
}

// SubscriptionDTO is the caller-facing view of a subscription.
type SubscriptionDTO struct {
	Status             model.SubscriptionStatus `json:"status"`
	TrialEndsAt        *time.Time               `json:"trialEndsAt,omitempty"`
	SubscriptionEndsAt *time.Time               `json:"subscriptionEndsAt,omitempty"`
	CreatedAt          time.Time                `json:"createdAt"`
	UpdatedAt          time.Time                `json:"updatedAt"`
}

// NewSubscriptionDTO converts the stored subscription, leaving gateway
// identifiers out of the response.
func NewSubscriptionDTO(sub *model.Subscription) SubscriptionDTO {
	return SubscriptionDTO{
		Status:             sub.Status,
		TrialEndsAt:        sub.TrialEndsAt,
		SubscriptionEndsAt: sub.SubscriptionEndsAt,
		CreatedAt:          sub.CreatedAt,
		UpdatedAt:          sub.UpdatedAt,
	}
}

// WebhookEventDTO is the payment gateway's push payload. Only the fields
// the lifecycle transitions need are read.
type WebhookEventDTO struct {
	Event   string `json:"event"`
	Payment struct {
		ID           string  `json:"id"`
		Subscription string  `json:"subscription"`
		Customer     string  `json:"customer"`
		DueDate      string  `json:"dueDate"`
		Value        float64 `json:"value"`
	} `json:"payment"`
}
