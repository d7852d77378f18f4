package model

import "time"

// SubscriptionStatus is the lifecycle state of a user's subscription.
type SubscriptionStatus string

const (
	SubscriptionTrial    SubscriptionStatus = "TRIAL"
	SubscriptionActive   SubscriptionStatus = "ACTIVE"
	SubscriptionOverdue  SubscriptionStatus = "OVERDUE"
	SubscriptionInactive SubscriptionStatus = "INACTIVE"
)

// Subscription is embedded in the user record. Depending on status, exactly
// one of TrialEndsAt/SubscriptionEndsAt is authoritative for expiry.
type Subscription struct {
	Status                SubscriptionStatus `dynamodbav:"status" json:"status"`
	CreatedAt             time.Time          `dynamodbav:"createdAt" json:"createdAt"`
	UpdatedAt             time.Time          `dynamodbav:"updatedAt" json:"updatedAt"`
	TrialEndsAt           *time.Time         `dynamodbav:"trialEndsAt,omitempty" json:"trialEndsAt,omitempty"`
	SubscriptionEndsAt    *time.Time         `dynamodbav:"subscriptionEndsAt,omitempty" json:"subscriptionEndsAt,omitempty"`
	GatewayCustomerID     string             `dynamodbav:"asaasCustomerId,omitempty" json:"asaasCustomerId,omitempty"`
	GatewaySubscriptionID string             `dynamodbav:"asaasSubscriptionId,omitempty" json:"asaasSubscriptionId,omitempty"`
}

// ExpiresAt returns the timestamp that governs expiry for the current
// status, or nil when the status has no time-based expiry.
func (s *Subscription) ExpiresAt() *time.Time {
	switch s.Status {
	case SubscriptionTrial:
		return s.TrialEndsAt
	case SubscriptionActive:
		return s.SubscriptionEndsAt
	default:
		return nil
	}
}

// User is an identity-provider-linked account. The subscription is embedded
// so the access gate resolves identity and billing state in one read.
type User struct {
	TenantID     string        `dynamodbav:"tenantId" json:"tenantId"`
	UserID       string        `dynamodbav:"userId" json:"userId"`
	Nome         string        `dynamodbav:"nome" json:"nome"`
	Email        string        `dynamodbav:"email" json:"email"`
	CPF          *string       `dynamodbav:"cpf,omitempty" json:"cpf,omitempty"`
	Subscription *Subscription `dynamodbav:"subscription,omitempty" json:"subscription,omitempty"`
	CreatedAt    time.Time     `dynamodbav:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time     `dynamodbav:"updatedAt" json:"updatedAt"`
}
