package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	sentryfiber "github.com/getsentry/sentry-go/fiber"

	"github.com/ahmetcoskunkizilkaya/complaint-intake/internal/config"
	"github.com/ahmetcoskunkizilkaya/complaint-intake/internal/database"
	"github.com/ahmetcoskunkizilkaya/complaint-intake/internal/handlers"
	"github.com/ahmetcoskunkizilkaya/complaint-intake/internal/logging"
	"github.com/ahmetcoskunkizilkaya/complaint-intake/internal/middleware"
	"github.com/ahmetcoskunkizilkaya/complaint-intake/internal/notify"
	"github.com/ahmetcoskunkizilkaya/complaint-intake/internal/routes"
	"github.com/ahmetcoskunkizilkaya/complaint-intake/internal/services"
	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
)

func loadConfig(path string) (*config.Config, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func migrate(configPath string) error {
	logging.Setup("info")

	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}

	db, err := database.Open(cfg)
	if err != nil {
		return err
	}
	defer database.Close(db)

	if err := database.Migrate(db); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}
	slog.Info("migration completed")
	return nil
}

func serve(ctx context.Context, configPath string) error {
	if ctx == nil {
		ctx = context.Background()
	}

	// Structured logging (JSON to stdout)
	stdout := logging.Setup("info")

	cfg, err := loadConfig(configPath)
	if err != nil {
		slog.Error("config load failed", "path", configPath, "error", err)
		return err
	}
	stdout = logging.Setup(cfg.Logging.Level)

	// Database
	db, err := database.Open(cfg)
	if err != nil {
		slog.Error("database connection failed", "error", err)
		return err
	}
	if err := database.Migrate(db); err != nil {
		slog.Error("migration failed", "error", err)
		return err
	}

	// ERROR+ logs also go to system_logs
	dbLogHandler := logging.NewDBHandler(db, 5*time.Second)
	slog.SetDefault(slog.New(logging.NewMultiHandler(stdout, dbLogHandler)))

	cleanupDone := make(chan struct{})
	logging.StartCleanup(db, cfg.LogRetention(), cleanupDone)

	// Classifiers
	generator, err := services.NewOllamaGenerator(cfg.Ollama.Host, cfg.Ollama.Model, cfg.AITimeout())
	if err != nil {
		slog.Error("ollama client init failed", "error", err)
		return err
	}
	classifier := services.NewClassifier(
		services.NewSentimentClient(cfg.Sentiment.URL, cfg.Sentiment.Key, cfg.AITimeout()),
		services.NewCategoryClassifier(generator, cfg.Ollama.Prompt, cfg.Ollama.TechnicalWord, cfg.Ollama.PaymentWord),
	)

	// Sinks
	messageSink, err := notify.NewMessageSink(cfg)
	if err != nil {
		return err
	}
	rowSink, err := notify.NewRowSink(ctx, cfg)
	if err != nil {
		slog.Error("spreadsheet sink init failed", "error", err)
		return err
	}
	slog.Info("notification sinks ready", "messages", messageSink.Name(), "rows", rowSink.Name())

	// Services
	store := services.NewReportStore(db)
	reportService := services.NewReportService(store, classifier, cfg.RecentWindow())
	dispatcher := services.NewDispatcher(store, messageSink, rowSink, cfg.SinkTimeout())

	// Handlers
	reportHandler := handlers.NewReportHandler(reportService)
	notifyHandler := handlers.NewNotifyHandler(dispatcher)
	healthHandler := handlers.NewHealthHandler(db)

	// Sentry error tracking
	if cfg.Sentry.DSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              cfg.Sentry.DSN,
			EnableTracing:    true,
			TracesSampleRate: 0.2,
			Environment:      cfg.Sentry.Environment,
		}); err != nil {
			slog.Error("sentry init failed", "error", err)
		}
	}

	// Fiber app
	app := fiber.New(fiber.Config{
		BodyLimit:    1 * 1024 * 1024,
		ErrorHandler: routes.ErrorHandler,
	})

	app.Use(sentryfiber.New(sentryfiber.Options{
		Repanic:         true,
		WaitForDelivery: false,
	}))
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format: "${time} | ${status} | ${latency} | ${ip} | ${method} | ${path}\n",
	}))
	app.Use(middleware.CORS(cfg))
	app.Use(middleware.SecurityHeaders())

	routes.Setup(app, cfg, reportHandler, notifyHandler, healthHandler)

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	listenErr := make(chan error, 1)
	go func() {
		slog.Info("server starting", "addr", cfg.Addr())
		listenErr <- app.Listen(cfg.Addr())
	}()

	select {
	case <-quit:
		slog.Info("shutting down server...")
	case err = <-listenErr:
		slog.Error("server failed to start", "error", err)
	}

	close(cleanupDone)
	if shutdownErr := app.Shutdown(); shutdownErr != nil {
		slog.Error("server shutdown error", "error", shutdownErr)
	}
	dbLogHandler.Stop()
	sentry.Flush(2 * time.Second)

	if closeErr := database.Close(db); closeErr != nil {
		slog.Error("database close error", "error", closeErr)
	}

	slog.Info("server stopped")
	return err
}
