package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/bagdasarian/team-credits/internal/auth"
	"github.com/bagdasarian/team-credits/internal/config"
	"github.com/bagdasarian/team-credits/internal/db"
	"github.com/bagdasarian/team-credits/internal/handler"
	"github.com/bagdasarian/team-credits/internal/handler/server"
	"github.com/bagdasarian/team-credits/internal/mail"
	"github.com/bagdasarian/team-credits/internal/metrics"
	"github.com/bagdasarian/team-credits/internal/payment"
	"github.com/bagdasarian/team-credits/internal/ratelimit"
	"github.com/bagdasarian/team-credits/internal/repository/postgres"
	"github.com/bagdasarian/team-credits/internal/service"
	"github.com/go-redis/redis/v8"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/sirupsen/logrus"
)

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})

	cfg, err := config.Load()
	if err != nil {
		logger.WithError(err).Fatal("Invalid configuration")
	}

	if level, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		logger.SetLevel(level)
	}

	ctx := context.Background()

	database := db.MustLoad(ctx, cfg.Database)
	logger.Info("Successfully connected to database!")
	defer database.Close()

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(registry)

	verifier, err := newIdentityVerifier(ctx, cfg.Auth)
	if err != nil {
		logger.WithError(err).Fatal("Failed to create identity verifier")
	}

	mailer, err := mail.NewSendGridMailer(cfg.Mail.SendGridAPIKey, cfg.Mail.FromEmail, cfg.Mail.FromName, logger)
	if err != nil {
		logger.WithError(err).Fatal("Failed to create mailer")
	}

	provider := payment.NewStripeProvider(payment.StripeConfig{
		SecretKey:     cfg.Stripe.SecretKey,
		WebhookSecret: cfg.Stripe.WebhookSecret,
		SuccessURL:    cfg.Stripe.SuccessURL,
		CancelURL:     cfg.Stripe.CancelURL,
	}, nil)

	memberRepo := postgres.NewTeamMemberRepository(database)
	creditRepo := postgres.NewCreditRepository(database)

	roster := service.NewRosterService(memberRepo)
	ledger := service.NewLedgerService(creditRepo, logger)

	teamService := service.NewTeamService(roster, ledger, mailer, service.TeamOptions{
		LinkBaseURL:     cfg.LinkBaseURL,
		ExternalTimeout: cfg.ExternalTimeout,
	}, logger, m)
	creditService := service.NewCreditService(roster, ledger, logger, m)
	purchaseService := service.NewPurchaseService(roster, ledger, provider, service.PurchaseOptions{
		BasePricePerCredit: cfg.Pricing.BasePricePerCredit,
		Currency:           cfg.Pricing.Currency,
		ProductName:        cfg.Pricing.ProductName,
		ExternalTimeout:    cfg.ExternalTimeout,
	}, logger, m)
	login := auth.NewPasswordLogin(cfg.Auth.SignInURL, cfg.Auth.FirebaseAPIKey, cfg.ExternalTimeout, logger)

	var limiter handler.RateLimiter
	if cfg.Redis.URL != "" {
		opts, err := redis.ParseURL(cfg.Redis.URL)
		if err != nil {
			logger.WithError(err).Fatal("Invalid REDIS_URL")
		}
		redisClient := redis.NewClient(opts)
		defer redisClient.Close()

		if err := redisClient.Ping(ctx).Err(); err != nil {
			logger.WithError(err).Warn("Redis is unavailable, rate limiting will fail open")
		}
		limiter = ratelimit.NewLimiter(redisClient, cfg.Redis.RequestLimit, cfg.Redis.RequestWindow, "ratelimit:manager")
	}

	h := handler.NewHandler(teamService, creditService, purchaseService, login, logger)
	srv := server.NewServer(h, server.Options{
		Addr:     cfg.HTTP.Addr,
		Verifier: verifier,
		Limiter:  limiter,
		Metrics:  m,
		Logger:   logger,
	})

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Fatal("Server failed to start")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Fatal("Server forced to shutdown")
	}
}

func newIdentityVerifier(ctx context.Context, cfg config.AuthConfig) (service.IdentityVerifier, error) {
	if cfg.Mode == config.AuthModeJWT {
		return auth.NewJWTVerifier(cfg.JWTSecret, cfg.JWTIssuer)
	}
	return auth.NewFirebaseVerifier(ctx, cfg.FirebaseProjectID)
}
