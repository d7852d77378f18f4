package router

import (
	"context"
	"net/http"

	"github.com/agro-trimobe/rural-credit-app-sub002/internal/api/v1/handler"
	"github.com/agro-trimobe/rural-credit-app-sub002/internal/config"
	"github.com/agro-trimobe/rural-credit-app-sub002/internal/middleware"
	"github.com/agro-trimobe/rural-credit-app-sub002/internal/pubsub"
	"github.com/agro-trimobe/rural-credit-app-sub002/internal/repository"
	"github.com/agro-trimobe/rural-credit-app-sub002/internal/service"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/go-playground/validator/v10"
	"github.com/rs/cors"
	"github.com/rs/zerolog"
)

func New(cfg *config.Config, logger zerolog.Logger) (http.Handler, error) {
	logger.Info().Str("environment", cfg.Environment).Msg("Router initialized")

	// 1. AWS clients
	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(),
		awsconfig.WithRegion(cfg.AWSRegion),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.AWSAccessKeyID, cfg.AWSSecretAccessKey, "")),
	)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load AWS config")
		return nil, err
	}
	dynamoClient := dynamodb.NewFromConfig(awsCfg)
	s3Client := s3.NewFromConfig(awsCfg)
	uploader := manager.NewUploader(s3Client)

	tables := repository.Tables{
		Table:         cfg.DynamoDBTable,
		ByClientIndex: cfg.DynamoDBByClient,
		ByGroupIndex:  cfg.DynamoDBByGroup,
	}

	// 2. Validator
	validate := validator.New(validator.WithRequiredStructEnabled())

	// 3. Payment gateway credentials. The env var wins; otherwise the key
	// comes from Secret Manager.
	asaasKey := cfg.AsaasAPIKey
	if asaasKey == "" && cfg.AsaasAPIKeySecret != "" {
		resolver, err := service.NewSecretManagerResolver(context.Background(), cfg.GCPProjectID)
		if err != nil {
			logger.Error().Err(err).Msg("Failed to create secret resolver")
			return nil, err
		}
		defer resolver.Close()
		asaasKey, err = resolver.Resolve(context.Background(), cfg.AsaasAPIKeySecret)
		if err != nil {
			logger.Error().Err(err).Msg("Failed to resolve payment gateway key")
			return nil, err
		}
	}

	// 4. Lifecycle event publisher is optional.
	var publisher pubsub.Publisher
	if cfg.GCPProjectID != "" {
		p, err := pubsub.NewPublisher(context.Background(), cfg)
		if err != nil {
			logger.Warn().Err(err).Msg("Pub/Sub publisher unavailable, lifecycle events disabled")
		} else {
			publisher = p
		}
	}

	// 5. Repositories, services, handlers
	userRepo := repository.NewUserRepo(dynamoClient, tables, logger)
	clientRepo := repository.NewClientRepo(dynamoClient, tables, logger)
	projectRepo := repository.NewProjectRepo(dynamoClient, tables, logger)
	documentRepo := repository.NewDocumentRepo(dynamoClient, tables, logger)
	visitRepo := repository.NewVisitRepo(dynamoClient, tables, logger)
	interactionRepo := repository.NewInteractionRepo(dynamoClient, tables, logger)
	quadroRepo := repository.NewQuadroRepo(dynamoClient, tables, logger)

	gateway := service.NewAsaasClient(cfg, asaasKey, logger)
	subSvc := service.NewSubscriptionService(userRepo, gateway, publisher, cfg.BillingEventsTopic,
		cfg.SubscriptionPrice, cfg.TrialPeriodDays, cfg.SweepConcurrency, logger)
	userSvc := service.NewUserService(userRepo, logger)
	clientSvc := service.NewClientService(clientRepo, logger)
	projectSvc := service.NewProjectService(projectRepo, logger)
	documentSvc := service.NewDocumentService(documentRepo, projectRepo, uploader, s3Client, cfg.S3Bucket, logger)
	visitSvc := service.NewVisitService(visitRepo, logger)
	interactionSvc := service.NewInteractionService(interactionRepo, logger)
	quadroSvc := service.NewQuadroService(quadroRepo, logger)

	userHandler := handler.NewUserHandler(userSvc, validate)
	clientHandler := handler.NewClientHandler(clientSvc, validate)
	projectHandler := handler.NewProjectHandler(projectSvc, documentSvc, validate)
	visitHandler := handler.NewVisitHandler(visitSvc, validate)
	interactionHandler := handler.NewInteractionHandler(interactionSvc, validate)
	quadroHandler := handler.NewQuadroHandler(quadroSvc, validate)
	subHandler := handler.NewSubscriptionHandler(subSvc, validate)
	webhookHandler := handler.NewWebhookHandler(subSvc, cfg.AsaasWebhookToken, logger)
	cronHandler := handler.NewCronHandler(subSvc, logger)

	// 6. Middleware chains. CRM routes sit behind the subscription gate;
	// the billing surface, account routes, webhook and cron do not, so an
	// expired tenant can still pay and the gateway can still call in.
	authMw := middleware.AuthMiddleware(cfg.JWTSecret)
	gateMw := middleware.SubscriptionGate(subSvc, logger)
	gatedMw := func(next http.Handler) http.Handler { return authMw(gateMw(next)) }
	cronMw := middleware.CronAuthMiddleware(cfg.CronSecret, logger)

	// 7. Routes
	apiV1Mux := http.NewServeMux()
	clientHandler.RegisterRoutes(apiV1Mux, gatedMw)
	projectHandler.RegisterRoutes(apiV1Mux, gatedMw)
	visitHandler.RegisterRoutes(apiV1Mux, gatedMw)
	interactionHandler.RegisterRoutes(apiV1Mux, gatedMw)
	quadroHandler.RegisterRoutes(apiV1Mux, gatedMw)
	userHandler.RegisterRoutes(apiV1Mux, authMw)
	subHandler.RegisterRoutes(apiV1Mux, authMw)
	webhookHandler.RegisterRoutes(apiV1Mux)
	cronHandler.RegisterRoutes(apiV1Mux, cronMw)

	mux := http.NewServeMux()
	mux.Handle("/v1/", http.StripPrefix("/v1", apiV1Mux))
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	// 8. CORS
	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	})

	return middleware.LoggerMiddleware(c.Handler(mux)), nil
}
