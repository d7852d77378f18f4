package config

import (
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Port        string `envconfig:"PORT" default:"8080"`
	Environment string `envconfig:"ENV" default:"development"`

	// AWS / data stores
	AWSRegion          string `envconfig:"AWS_REGION" required:"true"`
	AWSAccessKeyID     string `envconfig:"AWS_ACCESS_KEY_ID" required:"true"`
	AWSSecretAccessKey string `envconfig:"AWS_SECRET_ACCESS_KEY" required:"true"`
	DynamoDBTable      string `envconfig:"DYNAMODB_TABLE_NAME" required:"true"`
	DynamoDBByClient   string `envconfig:"DYNAMODB_GSI_BY_CLIENT" default:"GSI1"`
	DynamoDBByGroup    string `envconfig:"DYNAMODB_GSI_BY_GROUP" default:"GSI2"`
	S3Bucket           string `envconfig:"S3_BUCKET_NAME" required:"true"`

	// Identity provider
	JWTSecret string `envconfig:"AUTH_JWT_SECRET" required:"true"`

	// Subscription lifecycle
	TrialPeriodDays   int     `envconfig:"TRIAL_PERIOD_DAYS" default:"14"`
	SubscriptionPrice float64 `envconfig:"SUBSCRIPTION_PRICE_BRL" default:"49.90"`
	SweepConcurrency  int     `envconfig:"SWEEP_CONCURRENCY" default:"4"`
	CronSecret        string  `envconfig:"CRON_SECRET" required:"true"`

	// Payment gateway (Asaas)
	AsaasBaseURL      string `envconfig:"ASAAS_BASE_URL" default:"https://api.asaas.com/v3"`
	AsaasAPIKey       string `envconfig:"ASAAS_API_KEY"`
	AsaasAPIKeySecret string `envconfig:"ASAAS_API_KEY_SECRET_NAME"`
	AsaasWebhookToken string `envconfig:"ASAAS_WEBHOOK_TOKEN" required:"true"`
	AsaasTimeoutSec   int    `envconfig:"ASAAS_TIMEOUT_SEC" default:"10"`

	// Eventing (optional; lifecycle events are skipped when unset)
	GCPProjectID       string `envconfig:"GCP_PROJECT_ID"`
	PubSubEmulatorHost string `envconfig:"PUBSUB_EMULATOR_HOST"`
	BillingEventsTopic string `envconfig:"BILLING_EVENTS_TOPIC" default:"billing-events"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
