package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sentinelhealth/sentinel/internal/application/usecase"
	"github.com/sentinelhealth/sentinel/internal/domain/port"
	"github.com/sentinelhealth/sentinel/internal/domain/service"
	"github.com/sentinelhealth/sentinel/internal/infrastructure/config"
	"github.com/sentinelhealth/sentinel/internal/infrastructure/llm"
	"github.com/sentinelhealth/sentinel/internal/infrastructure/messaging"
	"github.com/sentinelhealth/sentinel/internal/infrastructure/postgres"
	"github.com/sentinelhealth/sentinel/internal/infrastructure/stream"
	grpcpresentation "github.com/sentinelhealth/sentinel/internal/presentation/grpc"
	"github.com/sentinelhealth/sentinel/internal/presentation/rest"
	"github.com/sentinelhealth/sentinel/pkg/auth"
	"github.com/sentinelhealth/sentinel/pkg/kafka"
	"github.com/sentinelhealth/sentinel/pkg/observability"
	pgutil "github.com/sentinelhealth/sentinel/pkg/postgres"
)

func main() {
	cfg := config.Load()

	logger := observability.InitLogger(observability.LogConfig{
		Level:  cfg.LogLevel,
		Format: "json",
	})

	logger.Info("starting sentinel-service")

	// Connect to PostgreSQL.
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Error("failed to connect to database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		logger.Error("failed to ping database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	logger.Info("connected to database")

	if err := pgutil.RunMigrations(cfg.DatabaseURL, cfg.MigrationsDir); err != nil {
		logger.Error("failed to run migrations", slog.String("error", err.Error()))
		os.Exit(1)
	}
	logger.Info("migrations applied")

	// Infrastructure adapters.
	assessmentRepo := postgres.NewAssessmentRepository(pool)
	profileRepo := postgres.NewProfileRepository(pool)

	kafkaCfg := kafka.Config{
		Brokers:       cfg.KafkaBrokers,
		ConsumerGroup: cfg.ConsumerGroup,
		TLS:           cfg.KafkaTLS,
		SASLEnabled:   cfg.KafkaSASL != "",
		SASLMechanism: cfg.KafkaSASL,
		SASLUsername:  cfg.KafkaSASLUser,
		SASLPassword:  cfg.KafkaSASLPass,
	}
	producer := kafka.NewProducer(kafkaCfg)
	defer producer.Close() //nolint:errcheck

	eventPublisher := messaging.NewKafkaPublisher(producer, cfg.KafkaTopic, logger)

	generator := newTextGenerator(ctx, cfg, logger)

	// History feed consumes the assessment topic for WatchHistory streams.
	historyFeed := stream.NewHistoryFeed(logger)
	feedCtx, feedCancel := context.WithCancel(context.Background())
	defer feedCancel()
	go func() {
		if err := historyFeed.Run(feedCtx, kafkaCfg, cfg.KafkaTopic); err != nil {
			logger.Error("history feed stopped", slog.String("error", err.Error()))
		}
	}()

	// Domain services.
	riskEngine := service.NewRiskEngine()

	// Use cases.
	analyzePatientUC := usecase.NewAnalyzePatient(assessmentRepo, profileRepo, eventPublisher, riskEngine, logger)
	getAssessmentUC := usecase.NewGetAssessment(assessmentRepo)
	listHistoryUC := usecase.NewListHistory(assessmentRepo)
	saveProfileUC := usecase.NewSaveProfile(profileRepo)
	getProfileUC := usecase.NewGetProfile(profileRepo)
	explainAssessmentUC := usecase.NewExplainAssessment(assessmentRepo, profileRepo, generator, logger)

	// Identity provider.
	jwtService, err := newJWTService(cfg)
	if err != nil {
		logger.Error("failed to initialize JWT service", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// gRPC handler and server.
	grpcHandler := grpcpresentation.NewSentinelServiceHandler(
		analyzePatientUC,
		getAssessmentUC,
		listHistoryUC,
		saveProfileUC,
		getProfileUC,
		explainAssessmentUC,
		historyFeed,
		logger,
	)
	grpcServer := grpcpresentation.NewServer(grpcHandler, cfg.GRPCAddress(), logger, jwtService)

	// HTTP health and metrics server.
	httpMux := http.NewServeMux()
	rest.NewHealthHandler(logger, pool).RegisterRoutes(httpMux)

	if _, metricsHandler, err := observability.InitMetrics(observability.MetricsConfig{ServiceName: "sentinel-service"}); err != nil {
		logger.Error("failed to initialize metrics", slog.String("error", err.Error()))
	} else {
		httpMux.Handle("GET /metrics", metricsHandler)
	}

	httpServer := &http.Server{
		Addr:         cfg.HTTPAddress(),
		Handler:      httpMux,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Start servers.
	errCh := make(chan error, 2)

	go func() {
		if err := grpcServer.Start(); err != nil {
			errCh <- fmt.Errorf("gRPC server error: %w", err)
		}
	}()

	go func() {
		logger.Info("HTTP server starting", slog.String("address", cfg.HTTPAddress()))
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	logger.Info("sentinel-service started",
		slog.String("grpc_address", cfg.GRPCAddress()),
		slog.String("http_address", cfg.HTTPAddress()),
		slog.String("environment", cfg.Environment),
	)

	// Wait for shutdown signal.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		logger.Info("received shutdown signal", slog.String("signal", sig.String()))
	case err := <-errCh:
		logger.Error("server error", slog.String("error", err.Error()))
	}

	// Graceful shutdown.
	logger.Info("shutting down sentinel-service")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	feedCancel()
	grpcServer.Stop()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown error", slog.String("error", err.Error()))
	}

	logger.Info("sentinel-service stopped")
}

// newTextGenerator selects the GenAI client when an API key is configured,
// otherwise the stub so explanations fall back to the canned narrative.
func newTextGenerator(ctx context.Context, cfg *config.Config, logger *slog.Logger) port.TextGenerator {
	if cfg.GenAIAPIKey == "" {
		logger.Info("GENAI_API_KEY not set, explanations will use the fallback narrative")
		return llm.NewStubClient(logger)
	}

	client, err := llm.NewGenAIClient(ctx, cfg.GenAIAPIKey, cfg.GenAIModel)
	if err != nil {
		logger.Error("failed to create GenAI client, falling back to stub", slog.String("error", err.Error()))
		return llm.NewStubClient(logger)
	}

	logger.Info("GenAI text generation enabled", slog.String("model", cfg.GenAIModel))
	return client
}

// newJWTService builds the token validator from environment configuration.
// A public key file means validation-only RSA mode; otherwise the shared
// secret is used.
func newJWTService(cfg *config.Config) (*auth.JWTService, error) {
	jwtCfg := auth.JWTConfig{
		Issuer:     cfg.JWTIssuer,
		Expiration: 15 * time.Minute,
	}

	switch {
	case cfg.JWTPublicKey != "":
		pem, err := auth.LoadKeyFromFile(cfg.JWTPublicKey)
		if err != nil {
			return nil, err
		}
		jwtCfg.PublicKeyPEM = string(pem)
	case cfg.JWTSecret != "":
		jwtCfg.Secret = cfg.JWTSecret
	default:
		return nil, fmt.Errorf("either JWT_PUBLIC_KEY_FILE or JWT_SECRET must be set")
	}

	return auth.NewJWTService(jwtCfg)
}
