package dto

import (
	"time"

	"github.com/agro-trimobe/rural-credit-app-sub002/internal/model"
)

// UserRegisterDTO is the payload for provisioning an account record after
// sign-up at the identity provider.
type UserRegisterDTO struct {
	Nome  string `json:"nome" validate:"required"`
	Email string `json:"email" validate:"required,email"`
}

// UserDTO is the caller-facing view of the authenticated account.
type UserDTO struct {
	TenantID     string           `json:"tenantId"`
	UserID       string           `json:"userId"`
	Nome         string           `json:"nome"`
	Email        string           `json:"email"`
	Subscription *SubscriptionDTO `json:"subscription,omitempty"`
	CreatedAt    time.Time        `json:"createdAt"`
	UpdatedAt    time.Time        `json:"updatedAt"`
}

// NewUserDTO converts the stored user, leaving the tax id and gateway
// identifiers out of the response.
func NewUserDTO(u *model.User) UserDTO {
	out := UserDTO{
		TenantID:  u.TenantID,
		UserID:    u.UserID,
		Nome:      u.Nome,
		Email:     u.Email,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
	if u.Subscription != nil {
		sub := NewSubscriptionDTO(u.Subscription)
		out.Subscription = &sub
	}
	return out
}
