package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/agro-trimobe/rural-credit-app-sub002/internal/apperror"
	"github.com/agro-trimobe/rural-credit-app-sub002/internal/model"
	"github.com/agro-trimobe/rural-credit-app-sub002/internal/service"

	"github.com/rs/zerolog"
)

type fakeSubscriptionService struct {
	event          string
	subscriptionID string
	dueDate        time.Time
	calls          int
	err            error
}

func (f *fakeSubscriptionService) EnsureSubscription(ctx context.Context, tenantID, userID string) (*model.Subscription, error) {
	return nil, nil
}

func (f *fakeSubscriptionService) CreateCheckout(ctx context.Context, tenantID, userID, cpf string) (*model.Subscription, error) {
	return nil, nil
}

func (f *fakeSubscriptionService) HandlePaymentEvent(ctx context.Context, event, gatewaySubscriptionID string, dueDate time.Time) error {
	f.calls++
	f.event = event
	f.subscriptionID = gatewaySubscriptionID
	f.dueDate = dueDate
	return f.err
}

func (f *fakeSubscriptionService) Sweep(ctx context.Context) (service.SweepReport, error) {
	return service.SweepReport{}, nil
}

func postWebhook(t *testing.T, svc service.SubscriptionService, token, body string) *httptest.ResponseRecorder {
	t.Helper()
	mux := http.NewServeMux()
	NewWebhookHandler(svc, "wh-token", zerolog.Nop()).RegisterRoutes(mux)

	req := httptest.NewRequest(http.MethodPost, "/webhooks/asaas", strings.NewReader(body))
	if token != "" {
		req.Header.Set("asaas-access-token", token)
	}
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func TestWebhookProcessesEvent(t *testing.T) {
	svc := &fakeSubscriptionService{}
	rec := postWebhook(t, svc, "wh-token",
		`{"event":"PAYMENT_CONFIRMED","payment":{"id":"pay_1","subscription":"sub_1","dueDate":"2026-04-01"}}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("got %d, want 200: %s", rec.Code, rec.Body.String())
	}
	if svc.event != "PAYMENT_CONFIRMED" || svc.subscriptionID != "sub_1" {
		t.Fatalf("event not forwarded: %+v", svc)
	}
	want := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
	if !svc.dueDate.Equal(want) {
		t.Fatalf("got dueDate %v, want %v", svc.dueDate, want)
	}
}

func TestWebhookRejectsBadToken(t *testing.T) {
	svc := &fakeSubscriptionService{}
	cases := map[string]string{
		"missing": "",
		"wrong":   "other-token",
	}
	for name, token := range cases {
		t.Run(name, func(t *testing.T) {
			rec := postWebhook(t, svc, token,
				`{"event":"PAYMENT_CONFIRMED","payment":{"subscription":"sub_1"}}`)
			if rec.Code != http.StatusUnauthorized {
				t.Fatalf("got %d, want 401", rec.Code)
			}
		})
	}
	if svc.calls != 0 {
		t.Fatalf("unauthenticated request reached the service %d times", svc.calls)
	}
}

func TestWebhookValidatesPayload(t *testing.T) {
	cases := map[string]string{
		"not json":            `{{{`,
		"missing event":       `{"payment":{"subscription":"sub_1"}}`,
		"missing subscriptionID": `{"event":"PAYMENT_CONFIRMED","payment":{"id":"pay_1"}}`,
		"bad due date":        `{"event":"PAYMENT_CONFIRMED","payment":{"subscription":"sub_1","dueDate":"01/04/2026"}}`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			svc := &fakeSubscriptionService{}
			rec := postWebhook(t, svc, "wh-token", body)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("got %d, want 400: %s", rec.Code, rec.Body.String())
			}
			if svc.calls != 0 {
				t.Fatal("invalid payload reached the service")
			}
		})
	}
}

func TestWebhookUnknownSubscription(t *testing.T) {
	svc := &fakeSubscriptionService{err: apperror.NotFound("assinatura", "sub_x")}
	rec := postWebhook(t, svc, "wh-token",
		`{"event":"PAYMENT_CONFIRMED","payment":{"subscription":"sub_x"}}`)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("got %d, want 404", rec.Code)
	}
}
