package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/runconnect/runconnect/internal/config"
	"github.com/runconnect/runconnect/internal/email"
	"github.com/runconnect/runconnect/internal/event"
	"github.com/runconnect/runconnect/internal/geocode"
	handler "github.com/runconnect/runconnect/internal/handler/http"
	"github.com/runconnect/runconnect/internal/service"
	"github.com/runconnect/runconnect/internal/session"
	"github.com/runconnect/runconnect/internal/storage"
	"github.com/runconnect/runconnect/internal/verification"
	"github.com/runconnect/runconnect/internal/xano"
	"github.com/runconnect/runconnect/pkg/health"
	"github.com/runconnect/runconnect/pkg/httpclient"
	pkgkafka "github.com/runconnect/runconnect/pkg/kafka"
)

// verificationTTLHours is surfaced in the verification email copy.
const verificationTTLHours = int(verification.TokenTTL / time.Hour)

// App wires together all dependencies and runs the API.
type App struct {
	cfg        *config.Config
	logger     *slog.Logger
	redis      *redis.Client
	producer   *pkgkafka.Producer
	httpServer *http.Server
}

// NewApp creates a new application instance, initializing all dependencies.
func NewApp(cfg *config.Config, logger *slog.Logger) (*App, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Redis backs both sessions and verification tokens.
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	if err := redisClient.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("connect to redis: %w", err)
	}
	logger.Info("connected to Redis", slog.String("addr", cfg.RedisAddr))

	// Kafka producer.
	kafkaCfg := pkgkafka.DefaultProducerConfig(cfg.KafkaBrokers)
	producer := pkgkafka.NewProducer(kafkaCfg, logger)
	logger.Info("kafka producer initialized", slog.Any("brokers", cfg.KafkaBrokers))

	// Shared retrying HTTP client for all outbound calls.
	httpCfg := httpclient.DefaultConfig()
	httpClient := httpclient.New(httpCfg)

	// Build the dependency graph.
	backend := xano.NewClient(xano.Config{
		AuthBaseURL: cfg.AuthBaseURL,
		DataBaseURL: cfg.DataBaseURL,
	}, httpCfg, logger)

	signer := session.NewTokenSigner(cfg.JWTSecret, cfg.JWTExpiry)
	sessions := session.NewManager(session.NewRedisStore(redisClient), signer, cfg.SessionTTL, logger)
	tokens := verification.NewRedisStore(redisClient)

	sender := email.NewHTTPSender(httpClient, cfg.EmailEndpoint, verificationTTLHours, logger)
	geocoder := geocode.NewNominatim(httpClient, cfg.GeocodeBaseURL, cfg.GeocodeUserAgent, logger)
	uploader := storage.NewObjectStore(httpClient, cfg.StorageBaseURL, cfg.StorageBucket, cfg.StorageServiceKey, logger)
	eventProducer := event.NewProducer(producer)

	svcs := handler.Services{
		Auth:          service.NewAuthService(backend, tokens, sessions, sender, eventProducer, cfg.FrontendBaseURL, logger),
		Events:        service.NewEventService(backend, sessions, geocoder, uploader, eventProducer, logger),
		Registrations: service.NewRegistrationService(backend, sessions, eventProducer, logger),
		Posts:         service.NewPostService(backend, sessions, logger),
		Users:         service.NewUserService(backend, sessions, logger),
	}

	// Health checks.
	healthHandler := health.NewHandler()
	healthHandler.RegisterCritical("redis", func(ctx context.Context) error {
		return redisClient.Ping(ctx).Err()
	})
	healthHandler.RegisterNonCritical("kafka", func(ctx context.Context) error {
		return producer.Ping(ctx)
	})

	// HTTP router.
	router := handler.NewRouter(svcs, signer, healthHandler, logger, handler.CORSConfig{
		AllowedOrigins: cfg.CORSAllowedOrigins,
		Environment:    cfg.Environment,
	})

	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           router,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
	}

	return &App{
		cfg:        cfg,
		logger:     logger,
		redis:      redisClient,
		producer:   producer,
		httpServer: httpServer,
	}, nil
}

// Run starts the HTTP server and blocks until the context is canceled.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		a.logger.Info("starting HTTP server",
			slog.String("addr", a.httpServer.Addr),
		)
		if err := a.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("shutdown signal received")
	case err := <-errCh:
		return err
	}

	return a.Shutdown()
}

// Shutdown gracefully stops all components in order: drain in-flight HTTP
// requests, close the Kafka producer, then close Redis.
func (a *App) Shutdown() error {
	a.logger.Info("shutting down application...")

	var errs []error

	httpCtx, httpCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer httpCancel()
	if err := a.httpServer.Shutdown(httpCtx); err != nil {
		a.logger.Error("http server shutdown error", slog.String("error", err.Error()))
		errs = append(errs, err)
	}

	if err := a.producer.Close(); err != nil {
		a.logger.Error("kafka producer close error", slog.String("error", err.Error()))
		errs = append(errs, err)
	}

	if err := a.redis.Close(); err != nil {
		a.logger.Error("redis close error", slog.String("error", err.Error()))
		errs = append(errs, err)
	}

	a.logger.Info("application shutdown complete")
	return errors.Join(errs...)
}
