package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/money-tracker-api/internal/config"
	"github.com/money-tracker-api/internal/infrastructure/dynamo"
	jwtinfra "github.com/money-tracker-api/internal/infrastructure/jwt"
	s3infra "github.com/money-tracker-api/internal/infrastructure/s3"
	"github.com/money-tracker-api/internal/infrastructure/ses"
	"github.com/money-tracker-api/internal/infrastructure/smtp"
	"github.com/money-tracker-api/internal/infrastructure/sns"
	"github.com/money-tracker-api/internal/pkg/logger"
	transporthttp "github.com/money-tracker-api/internal/transport/http"
	"go.uber.org/zap"
)

func main() {
	envErr := godotenv.Load()

	cfg := config.Load()
	zl, err := logger.New(cfg.LogLevel, cfg.LogDev)
	if err != nil {
		log.Fatalf("build logger: %v", err)
	}
	defer func() { _ = zl.Sync() }()
	if envErr != nil {
		zl.Debug("no .env file found, reading from environment")
	}

	if err := run(cfg, zl); err != nil {
		zl.Fatal("server exited", zap.Error(err))
	}
}

func run(cfg *config.Config, zl *zap.Logger) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	dynamoClient, err := dynamo.NewClient(ctx, cfg)
	if err != nil {
		return err
	}
	if cfg.DynamoBootstrap {
		// Creates missing tables; intended for LocalStack.
		dynamo.Bootstrap(ctx, dynamoClient, cfg.DynamoTables, zl)
	}

	jwks, err := jwtinfra.NewJWKS(ctx, cfg.JWKSURL, jwtinfra.JWKSOptions{
		RefreshInterval:  cfg.JWKSRefreshInterval,
		RefreshRateLimit: cfg.JWKSRefreshRateLimit,
	}, zl)
	if err != nil {
		return err
	}
	defer jwks.EndBackground()

	s3Client, err := s3infra.NewClient(ctx, cfg)
	if err != nil {
		return err
	}

	mailer, err := newMailer(ctx, cfg)
	if err != nil {
		return err
	}

	deps := &transporthttp.Deps{
		Verifier:        jwtinfra.NewVerifier(jwks, cfg.CognitoClientID, cfg.CognitoIssuer),
		TransactionRepo: dynamo.NewTransactionRepo(dynamoClient, cfg.DynamoTables.Transactions),
		ProfileRepo:     dynamo.NewProfileRepo(dynamoClient, cfg.DynamoTables.Profiles),
		ContactRepo:     dynamo.NewContactRepo(dynamoClient, cfg.DynamoTables.ContactMessages),
		Objects:         s3infra.NewStore(s3Client, cfg),
		Mailer:          mailer,
	}

	// SNS contact alerts (optional).
	if cfg.SNSTopicARN != "" {
		snsClient, err := sns.NewClient(ctx, cfg)
		if err != nil {
			return err
		}
		deps.Alerts = sns.NewPublisher(snsClient, cfg.SNSTopicARN)
	} else {
		zl.Info("SNS_TOPIC_ARN not set, contact alerts disabled")
	}

	router, stopRouter := transporthttp.NewRouter(cfg, deps, zl)
	defer stopRouter()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.AppPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		zl.Info("server starting",
			zap.String("port", cfg.AppPort), zap.String("env", cfg.AppEnv), zap.String("mail_driver", cfg.MailDriver))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	zl.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("forced shutdown: %w", err)
	}
	zl.Info("server stopped")
	return nil
}

func newMailer(ctx context.Context, cfg *config.Config) (transporthttp.Mailer, error) {
	switch cfg.MailDriver {
	case "smtp":
		return smtp.NewMailer(cfg), nil
	default:
		client, err := ses.NewClient(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return ses.NewMailer(client), nil
	}
}
