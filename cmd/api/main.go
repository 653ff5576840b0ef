package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"google.golang.org/api/option"

	"snaptext/internal/adapter/api"
	"snaptext/internal/adapter/api/handler"
	apimiddleware "snaptext/internal/adapter/api/middleware"
	"snaptext/internal/adapter/api/router"
	"snaptext/internal/adapter/repository"
	"snaptext/internal/domain/service"
	"snaptext/internal/infrastructure/firebase"
	"snaptext/internal/infrastructure/metrics"
	"snaptext/internal/infrastructure/openai"
	"snaptext/internal/infrastructure/ratelimit"
	"snaptext/internal/infrastructure/storage"
	"snaptext/internal/usecase"
	"snaptext/pkg/config"
	"snaptext/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if err := logger.Init(cfg.Environment); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	opts, err := firebase.CredentialOptions(cfg.FirebaseCredentialsBase64, cfg.FirebaseServiceAccountPath)
	if err != nil {
		log.Fatalf("Failed to load Firebase credentials: %v", err)
	}
	if opts == nil {
		logger.Warn("No service account configured, using application default credentials")
	}

	firebaseApp, err := firebase.NewApp(ctx, cfg.FirebaseProject, cfg.StorageBucket, opts...)
	if err != nil {
		log.Fatalf("Failed to initialize Firebase: %v", err)
	}

	authClient, err := firebaseApp.Auth(ctx)
	if err != nil {
		log.Fatalf("Failed to initialize Firebase Auth: %v", err)
	}
	firebaseAuthClient := firebase.NewFirebaseAuthClient(authClient)

	store, err := newObjectStore(ctx, cfg, opts)
	if err != nil {
		log.Fatalf("Failed to initialize storage: %v", err)
	}
	defer store.Close()

	generator := openai.NewDescriptionGenerator(openai.Config{
		APIKey:              cfg.OpenAIAPIKey,
		BaseURL:             cfg.OpenAIBaseURL,
		Model:               cfg.OpenAIModel,
		MaxCompletionTokens: cfg.OpenAIMaxCompletionTokens,
		Timeout:             cfg.GenerationTimeout,
	})

	trackingRepo := repository.NewStorageTrackingRepository(store)
	submissionUseCase := usecase.NewSubmissionUseCase(store, trackingRepo, generator, usecase.SubmissionOptions{
		ListConcurrency: cfg.ListConcurrency,
		MaxUploadFiles:  cfg.MaxUploadFiles,
		MaxUploadBytes:  cfg.MaxUploadBytes,
	})

	limiter := ratelimit.NewRateLimiter(cfg.GenerationRatePerMinute, cfg.GenerationBurst)
	limiter.StartCleanupRoutine(ctx)

	e := echo.New()
	e.HideBanner = true
	e.Validator = api.NewValidator()
	e.HTTPErrorHandler = api.ErrorHandler

	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:   true,
		LogURI:      true,
		LogStatus:   true,
		LogLatency:  true,
		LogError:    true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			logger.Access(v.Method, v.URI, v.Status, v.Latency, apimiddleware.UserID(c), v.Error)
			return nil
		},
	}))
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{echo.HeaderContentType, echo.HeaderAuthorization},
		AllowCredentials: true,
	}))
	e.Use(metrics.Middleware())

	router.Setup(e,
		handler.New(submissionUseCase),
		apimiddleware.NewAuthMiddleware(firebaseAuthClient),
		apimiddleware.NewRateLimitMiddleware(limiter),
		router.Options{
			PublicDir:       cfg.PublicDir,
			UploadBodyLimit: cfg.UploadBodyLimit(),
			MetricsPath:     "/metrics",
		},
	)

	e.Server.ReadTimeout = 30 * time.Second
	e.Server.WriteTimeout = cfg.GenerationTimeout + time.Minute
	e.Server.IdleTimeout = 2 * time.Minute

	go func() {
		logger.Info("Starting server on port %s...", cfg.ServerPort)
		if err := e.Start(":" + cfg.ServerPort); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server stopped: %v", err)
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("Graceful shutdown failed: %v", err)
	}
}

func newObjectStore(ctx context.Context, cfg *config.Config, opts []option.ClientOption) (service.ObjectStore, error) {
	if cfg.StorageBackend == config.StorageBackendMemory {
		logger.Warn("Using in-memory storage, submissions are lost on restart")
		return storage.NewMemoryStore(cfg.StorageBucket), nil
	}

	storageClient, err := storage.NewCloudStorageClient(ctx, cfg.StorageBucket, cfg.StorageTimeout, opts...)
	if err != nil {
		return nil, err
	}

	if cfg.ConfigureBucketCORS {
		if err := storageClient.ConfigureCORS(ctx, cfg.AllowedOrigins); err != nil {
			logger.Warn("Failed to configure bucket CORS: %v", err)
		}
	}

	return storageClient, nil
}
