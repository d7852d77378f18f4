package service

import (
	"context"
	"encoding/json"
	"sync/atomic"
	"time"

	"github.com/agro-trimobe/rural-credit-app-sub002/internal/apperror"
	"github.com/agro-trimobe/rural-credit-app-sub002/internal/model"
	"github.com/agro-trimobe/rural-credit-app-sub002/internal/pubsub"
	"github.com/agro-trimobe/rural-credit-app-sub002/internal/repository"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// Payment-gateway webhook event names.
const (
	EventPaymentConfirmed           = "PAYMENT_CONFIRMED"
	EventPaymentReceived            = "PAYMENT_RECEIVED"
	EventPaymentOverdue             = "PAYMENT_OVERDUE"
	EventPaymentRefunded            = "PAYMENT_REFUNDED"
	EventPaymentDeleted             = "PAYMENT_DELETED"
	EventPaymentChargebackRequested = "PAYMENT_CHARGEBACK_REQUESTED"
)

// SweepReport summarizes one sweep pass.
type SweepReport struct {
	Scanned       int64 `json:"scanned"`
	TrialsExpired int64 `json:"trialsExpired"`
	MarkedOverdue int64 `json:"markedOverdue"`
	Conflicts     int64 `json:"conflicts"`
	Errors        int64 `json:"errors"`
}

// SubscriptionService manages the trial/active/overdue/inactive lifecycle.
type SubscriptionService interface {
	// EnsureSubscription returns the user's subscription, lazily creating
	// the trial on first check. Creation is idempotent: concurrent first
	// checks all observe the same stored record.
	EnsureSubscription(ctx context.Context, tenantID, userID string) (*model.Subscription, error)

	// CreateCheckout provisions the gateway customer and subscription.
	// Local state is written only after each gateway call succeeds.
	CreateCheckout(ctx context.Context, tenantID, userID, cpf string) (*model.Subscription, error)

	// HandlePaymentEvent applies one webhook event to the subscription it
	// references. Unknown subscription ids fail NotFound without mutating
	// anything.
	HandlePaymentEvent(ctx context.Context, event, gatewaySubscriptionID string, dueDate time.Time) error

	// Sweep re-evaluates every stored subscription for time-based
	// transitions. Per-user failures are isolated and logged.
	Sweep(ctx context.Context) (SweepReport, error)
}

type subscriptionService struct {
	userRepo    repository.UserRepository
	gateway     PaymentGateway
	publisher   pubsub.Publisher
	topic       string
	price       float64
	trialPeriod time.Duration
	concurrency int
	now         func() time.Time
	logger      zerolog.Logger
}

// NewSubscriptionService creates a new SubscriptionService. The publisher
// may be nil; lifecycle events are then skipped.
func NewSubscriptionService(
	userRepo repository.UserRepository,
	gateway PaymentGateway,
	publisher pubsub.Publisher,
	topic string,
	price float64,
	trialPeriodDays int,
	concurrency int,
	logger zerolog.Logger,
) SubscriptionService {
	if concurrency <= 0 {
		concurrency = 1
	}
	return &subscriptionService{
		userRepo:    userRepo,
		gateway:     gateway,
		publisher:   publisher,
		topic:       topic,
		price:       price,
		trialPeriod: time.Duration(trialPeriodDays) * 24 * time.Hour,
		concurrency: concurrency,
		now:         time.Now,
		logger:      logger.With().Str("service", "SubscriptionService").Logger(),
	}
}

func (s *subscriptionService) EnsureSubscription(ctx context.Context, tenantID, userID string) (*model.Subscription, error) {
	user, err := s.userRepo.Get(ctx, tenantID, userID)
	if err != nil {
		s.logger.Error().Err(err).Str("tenant_id", tenantID).Str("user_id", userID).Msg("Failed to fetch user for subscription check")
		return nil, err
	}
	if user == nil {
		return nil, apperror.NotFound("usuário", userID)
	}
	if user.Subscription != nil {
		return user.Subscription, nil
	}

	now := s.now().UTC()
	trialEnds := now.Add(s.trialPeriod)
	sub, err := s.userRepo.InitSubscription(ctx, tenantID, userID, model.Subscription{
		Status:      model.SubscriptionTrial,
		CreatedAt:   now,
		UpdatedAt:   now,
		TrialEndsAt: &trialEnds,
	})
	if err != nil {
		s.logger.Error().Err(err).Str("tenant_id", tenantID).Str("user_id", userID).Msg("Failed to initialize trial subscription")
		return nil, err
	}
	s.publishEvent(ctx, tenantID, userID, "", model.SubscriptionTrial)
	return sub, nil
}

func (s *subscriptionService) CreateCheckout(ctx context.Context, tenantID, userID, cpf string) (*model.Subscription, error) {
	user, err := s.userRepo.Get(ctx, tenantID, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperror.NotFound("usuário", userID)
	}

	sub, err := s.EnsureSubscription(ctx, tenantID, userID)
	if err != nil {
		return nil, err
	}
	updated := *sub

	if updated.GatewayCustomerID == "" {
		customerID, err := s.gateway.CreateCustomer(ctx, user.Nome, user.Email, cpf)
		if err != nil {
			s.logger.Error().Err(err).Str("user_id", userID).Msg("Failed to create gateway customer")
			return nil, err
		}
		updated.GatewayCustomerID = customerID
		updated.UpdatedAt = s.now().UTC()
		if err := s.userRepo.UpdateSubscription(ctx, tenantID, userID, updated, nil); err != nil {
			return nil, err
		}
		if err := s.userRepo.SetBillingProfile(ctx, tenantID, userID, cpf); err != nil {
			s.logger.Warn().Err(err).Str("user_id", userID).Msg("Failed to persist CPF after customer creation")
		}
	}

	if updated.GatewaySubscriptionID == "" {
		nextDue := s.now().UTC().AddDate(0, 1, 0)
		subscriptionID, err := s.gateway.CreateSubscription(ctx, updated.GatewayCustomerID, s.price, nextDue)
		if err != nil {
			s.logger.Error().Err(err).Str("user_id", userID).Msg("Failed to create gateway subscription")
			return nil, err
		}
		updated.GatewaySubscriptionID = subscriptionID
		updated.UpdatedAt = s.now().UTC()
		if err := s.userRepo.UpdateSubscription(ctx, tenantID, userID, updated, nil); err != nil {
			return nil, err
		}
	}

	return &updated, nil
}

func (s *subscriptionService) HandlePaymentEvent(ctx context.Context, event, gatewaySubscriptionID string, dueDate time.Time) error {
	user, err := s.userRepo.GetByGatewaySubscriptionID(ctx, gatewaySubscriptionID)
	if err != nil {
		return err
	}
	if user == nil || user.Subscription == nil {
		return apperror.NotFound("assinatura", gatewaySubscriptionID)
	}

	sub := *user.Subscription
	sub.UpdatedAt = s.now().UTC()

	switch event {
	case EventPaymentConfirmed, EventPaymentReceived:
		due := dueDate.UTC()
		sub.Status = model.SubscriptionActive
		sub.SubscriptionEndsAt = &due
		sub.TrialEndsAt = nil
	case EventPaymentOverdue:
		sub.Status = model.SubscriptionOverdue
	case EventPaymentRefunded, EventPaymentDeleted, EventPaymentChargebackRequested:
		sub.Status = model.SubscriptionInactive
	default:
		s.logger.Warn().Str("event", event).Msg("Unhandled payment gateway event")
		return nil
	}

	if err := s.userRepo.UpdateSubscription(ctx, user.TenantID, user.UserID, sub, nil); err != nil {
		s.logger.Error().Err(err).Str("user_id", user.UserID).Str("event", event).Msg("Failed to apply payment event")
		return err
	}
	s.publishEvent(ctx, user.TenantID, user.UserID, event, sub.Status)
	return nil
}

func (s *subscriptionService) Sweep(ctx context.Context) (SweepReport, error) {
	var report SweepReport
	token := ""
	for {
		users, next, err := s.userRepo.ListWithSubscription(ctx, repository.Page{Limit: 100, Token: token})
		if err != nil {
			return report, err
		}

		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(s.concurrency)
		for _, user := range users {
			atomic.AddInt64(&report.Scanned, 1)
			g.Go(func() error {
				s.sweepUser(gctx, user, &report)
				return nil
			})
		}
		_ = g.Wait()

		if next == "" {
			break
		}
		token = next
	}
	s.logger.Info().
		Int64("scanned", report.Scanned).
		Int64("trials_expired", report.TrialsExpired).
		Int64("marked_overdue", report.MarkedOverdue).
		Int64("conflicts", report.Conflicts).
		Int64("errors", report.Errors).
		Msg("Subscription sweep finished")
	return report, nil
}

// sweepUser applies at most one time-based transition. The conditional
// write compares the status and expiry that were read, so a webhook update
// landing in between wins and the sweep records a conflict instead.
func (s *subscriptionService) sweepUser(ctx context.Context, user model.User, report *SweepReport) {
	sub := user.Subscription
	if sub == nil {
		return
	}
	now := s.now().UTC()

	var (
		next model.SubscriptionStatus
		cas  repository.SubscriptionCAS
	)
	switch {
	case sub.Status == model.SubscriptionTrial && sub.TrialEndsAt != nil && now.After(*sub.TrialEndsAt):
		next = model.SubscriptionInactive
		cas = repository.SubscriptionCAS{Status: model.SubscriptionTrial, ExpiresAt: sub.TrialEndsAt}
	case sub.Status == model.SubscriptionActive && sub.SubscriptionEndsAt != nil && now.After(*sub.SubscriptionEndsAt):
		next = model.SubscriptionOverdue
		cas = repository.SubscriptionCAS{Status: model.SubscriptionActive, ExpiresAt: sub.SubscriptionEndsAt}
	default:
		return
	}

	updated := *sub
	updated.Status = next
	updated.UpdatedAt = now

	err := s.userRepo.UpdateSubscription(ctx, user.TenantID, user.UserID, updated, &cas)
	switch {
	case err == nil:
		if next == model.SubscriptionInactive {
			atomic.AddInt64(&report.TrialsExpired, 1)
		} else {
			atomic.AddInt64(&report.MarkedOverdue, 1)
		}
		s.publishEvent(ctx, user.TenantID, user.UserID, "sweep", next)
	case apperror.IsWriteConflict(err):
		atomic.AddInt64(&report.Conflicts, 1)
		s.logger.Info().Str("user_id", user.UserID).Msg("Sweep lost race to a concurrent subscription update")
	default:
		atomic.AddInt64(&report.Errors, 1)
		s.logger.Error().Err(err).Str("tenant_id", user.TenantID).Str("user_id", user.UserID).Msg("Sweep failed for user")
	}
}

func (s *subscriptionService) publishEvent(ctx context.Context, tenantID, userID, trigger string, status model.SubscriptionStatus) {
	if s.publisher == nil {
		return
	}
	payload, err := json.Marshal(struct {
		TenantID string                   `json:"tenant_id"`
		UserID   string                   `json:"user_id"`
		Trigger  string                   `json:"trigger,omitempty"`
		Status   model.SubscriptionStatus `json:"status"`
		At       time.Time                `json:"at"`
	}{tenantID, userID, trigger, status, s.now().UTC()})
	if err != nil {
		return
	}
	if _, err := s.publisher.Publish(ctx, s.topic, payload); err != nil {
		// Best effort; the local state is already committed.
		s.logger.Warn().Err(err).Str("topic", s.topic).Msg("Failed to publish lifecycle event")
	}
}
