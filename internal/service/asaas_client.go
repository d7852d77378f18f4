package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/agro-trimobe/rural-credit-app-sub002/internal/apperror"
	"github.com/agro-trimobe/rural-credit-app-sub002/internal/config"

	"github.com/rs/zerolog"
)

// PaymentGateway is the contract the subscription lifecycle needs from the
// billing provider.
type PaymentGateway interface {
	CreateCustomer(ctx context.Context, nome, email, cpf string) (string, error)
	CreateSubscription(ctx context.Context, customerID string, value float64, nextDueDate time.Time) (string, error)
}

// AsaasClient talks to the Asaas REST API.
type AsaasClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     zerolog.Logger
}

// NewAsaasClient builds the gateway client with a bounded request timeout.
func NewAsaasClient(cfg *config.Config, apiKey string, logger zerolog.Logger) *AsaasClient {
	return &AsaasClient{
		baseURL:    cfg.AsaasBaseURL,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: time.Duration(cfg.AsaasTimeoutSec) * time.Second},
		logger:     logger.With().Str("service", "AsaasClient").Logger(),
	}
}

type asaasCustomerRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	CPFCNPJ string `json:"cpfCnpj"`
}

type asaasSubscriptionRequest struct {
	Customer    string  `json:"customer"`
	BillingType string  `json:"billingType"`
	Value       float64 `json:"value"`
	NextDueDate string  `json:"nextDueDate"`
	Cycle       string  `json:"cycle"`
}

type asaasIDResponse struct {
	ID string `json:"id"`
}

// CreateCustomer registers a billing customer and returns its id.
func (c *AsaasClient) CreateCustomer(ctx context.Context, nome, email, cpf string) (string, error) {
	resp, err := c.post(ctx, "/customers", asaasCustomerRequest{Name: nome, Email: email, CPFCNPJ: cpf})
	if err != nil {
		return "", err
	}
	return resp.ID, nil
}

// CreateSubscription opens a monthly subscription for the customer.
func (c *AsaasClient) CreateSubscription(ctx context.Context, customerID string, value float64, nextDueDate time.Time) (string, error) {
	resp, err := c.post(ctx, "/subscriptions", asaasSubscriptionRequest{
		Customer:    customerID,
		BillingType: "UNDEFINED",
		Value:       value,
		NextDueDate: nextDueDate.Format("2006-01-02"),
		Cycle:       "MONTHLY",
	})
	if err != nil {
		return "", err
	}
	return resp.ID, nil
}

func (c *AsaasClient) post(ctx context.Context, path string, payload any) (*asaasIDResponse, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, apperror.External("asaas", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, apperror.External("asaas", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("access_token", c.apiKey)

	res, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error().Err(err).Str("path", path).Msg("Asaas request failed")
		return nil, apperror.External("asaas", err)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(res.Body, 4096))
		c.logger.Error().Int("status", res.StatusCode).Str("path", path).Bytes("body", raw).Msg("Asaas returned an error")
		return nil, apperror.External("asaas", fmt.Errorf("status %d", res.StatusCode))
	}

	var out asaasIDResponse
	if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
		return nil, apperror.External("asaas", err)
	}
	if out.ID == "" {
		return nil, apperror.External("asaas", fmt.Errorf("resposta sem id"))
	}
	return &out, nil
}
