package main

import (
	"context"
	"time"

	"github.com/agro-trimobe/rural-credit-app-sub002/internal/config"
	"github.com/agro-trimobe/rural-credit-app-sub002/internal/logger"
	"github.com/agro-trimobe/rural-credit-app-sub002/internal/pubsub"
	"github.com/agro-trimobe/rural-credit-app-sub002/internal/repository"
	"github.com/agro-trimobe/rural-credit-app-sub002/internal/service"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/joho/godotenv"
)

// One-shot subscription sweep, for schedulers that run a container instead
// of hitting the cron endpoint.
func main() {
	logger := logger.New()

	if err := godotenv.Load(); err != nil {
		logger.Warn().Msg("Warning: no .env file found")
	}

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Msgf("Error loading config: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Minute)
	defer cancel()

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.AWSRegion),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.AWSAccessKeyID, cfg.AWSSecretAccessKey, "")),
	)
	if err != nil {
		logger.Fatal().Msgf("Failed to load AWS config: %v", err)
	}

	tables := repository.Tables{
		Table:         cfg.DynamoDBTable,
		ByClientIndex: cfg.DynamoDBByClient,
		ByGroupIndex:  cfg.DynamoDBByGroup,
	}
	userRepo := repository.NewUserRepo(dynamodb.NewFromConfig(awsCfg), tables, logger)

	var publisher pubsub.Publisher
	if cfg.GCPProjectID != "" {
		p, err := pubsub.NewPublisher(ctx, cfg)
		if err != nil {
			logger.Warn().Err(err).Msg("Pub/Sub publisher unavailable, lifecycle events disabled")
		} else {
			publisher = p
		}
	}

	// The sweep never talks to the payment gateway.
	subSvc := service.NewSubscriptionService(userRepo, nil, publisher, cfg.BillingEventsTopic,
		cfg.SubscriptionPrice, cfg.TrialPeriodDays, cfg.SweepConcurrency, logger)

	report, err := subSvc.Sweep(ctx)
	if err != nil {
		logger.Fatal().Err(err).Msg("Subscription sweep failed")
	}
	logger.Info().
		Int64("scanned", report.Scanned).
		Int64("trials_expired", report.TrialsExpired).
		Int64("marked_overdue", report.MarkedOverdue).
		Msg("Sweep complete")
}
