package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/agro-trimobe/rural-credit-app-sub002/internal/apperror"
	"github.com/agro-trimobe/rural-credit-app-sub002/internal/model"
	"github.com/agro-trimobe/rural-credit-app-sub002/internal/service"

	"github.com/rs/zerolog"
)

type fakeSubscriptionService struct {
	sub *model.Subscription
	err error
}

func (f *fakeSubscriptionService) EnsureSubscription(ctx context.Context, tenantID, userID string) (*model.Subscription, error) {
	return f.sub, f.err
}

func (f *fakeSubscriptionService) CreateCheckout(ctx context.Context, tenantID, userID, cpf string) (*model.Subscription, error) {
	return nil, nil
}

func (f *fakeSubscriptionService) HandlePaymentEvent(ctx context.Context, event, gatewaySubscriptionID string, dueDate time.Time) error {
	return nil
}

func (f *fakeSubscriptionService) Sweep(ctx context.Context) (service.SweepReport, error) {
	return service.SweepReport{}, nil
}

func gateRequest(t *testing.T, svc service.SubscriptionService, withIdentity bool) *httptest.ResponseRecorder {
	t.Helper()
	var reached bool
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reached = true
		w.WriteHeader(http.StatusOK)
	})
	handler := SubscriptionGate(svc, zerolog.Nop())(next)

	req := httptest.NewRequest(http.MethodGet, "/clients", nil)
	if withIdentity {
		ctx := context.WithValue(req.Context(), UserContextKey, "u1")
		ctx = context.WithValue(ctx, TenantContextKey, "t1")
		req = req.WithContext(ctx)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code == http.StatusOK && !reached {
		t.Fatal("200 without reaching the next handler")
	}
	if rec.Code != http.StatusOK && reached {
		t.Fatal("next handler ran despite denial")
	}
	return rec
}

func assertRedirect(t *testing.T, rec *httptest.ResponseRecorder, want string) {
	t.Helper()
	var body struct {
		Redirect string `json:"redirect"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("bad body: %v", err)
	}
	if body.Redirect != want {
		t.Fatalf("got redirect %q, want %q", body.Redirect, want)
	}
}

func TestGateAllowsFreshTrial(t *testing.T) {
	ends := time.Now().UTC().Add(24 * time.Hour)
	svc := &fakeSubscriptionService{sub: &model.Subscription{Status: model.SubscriptionTrial, TrialEndsAt: &ends}}
	if rec := gateRequest(t, svc, true); rec.Code != http.StatusOK {
		t.Fatalf("got %d, want 200", rec.Code)
	}
}

func TestGateDeniesExpiredTrial(t *testing.T) {
	ends := time.Now().UTC().Add(-time.Hour)
	svc := &fakeSubscriptionService{sub: &model.Subscription{Status: model.SubscriptionTrial, TrialEndsAt: &ends}}
	rec := gateRequest(t, svc, true)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("got %d, want 403", rec.Code)
	}
	assertRedirect(t, rec, "/assinatura")
}

// ACTIVE passes without an expiry check. Demoting lapsed subscriptions is
// the sweep's responsibility, not the request path's.
func TestGateAllowsActiveEvenWhenLapsed(t *testing.T) {
	past := time.Now().UTC().Add(-time.Hour)
	svc := &fakeSubscriptionService{sub: &model.Subscription{Status: model.SubscriptionActive, SubscriptionEndsAt: &past}}
	if rec := gateRequest(t, svc, true); rec.Code != http.StatusOK {
		t.Fatalf("got %d, want 200", rec.Code)
	}
}

func TestGateDeniesInactiveAndOverdue(t *testing.T) {
	for _, status := range []model.SubscriptionStatus{model.SubscriptionInactive, model.SubscriptionOverdue} {
		t.Run(string(status), func(t *testing.T) {
			svc := &fakeSubscriptionService{sub: &model.Subscription{Status: status}}
			rec := gateRequest(t, svc, true)
			if rec.Code != http.StatusForbidden {
				t.Fatalf("got %d, want 403", rec.Code)
			}
			assertRedirect(t, rec, "/assinatura")
		})
	}
}

// Failing to resolve the user must fail closed, back to sign-in: an
// unresolvable identity is not the same as a lapsed subscription.
func TestGateDeniesOnServiceError(t *testing.T) {
	svc := &fakeSubscriptionService{err: apperror.External("dynamodb", context.DeadlineExceeded)}
	rec := gateRequest(t, svc, true)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("got %d, want 401", rec.Code)
	}
	assertRedirect(t, rec, "/entrar")
}

func TestGateRequiresIdentity(t *testing.T) {
	ends := time.Now().UTC().Add(24 * time.Hour)
	svc := &fakeSubscriptionService{sub: &model.Subscription{Status: model.SubscriptionTrial, TrialEndsAt: &ends}}
	rec := gateRequest(t, svc, false)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("got %d, want 401", rec.Code)
	}
}
