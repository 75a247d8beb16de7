package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"catalog/internal/app"
	"catalog/internal/config"
	"catalog/internal/database"
	"catalog/internal/repositories"
	"catalog/internal/services"
	"catalog/pkg/logger"
	"catalog/pkg/metrics"
	"catalog/pkg/rabbitmq"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

func main() {
	// --- Configuration ---
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// --- Logger ---
	log, err := logger.New(logger.Config{
		Level:       cfg.App.LogLevel,
		Environment: cfg.App.Env,
		ServiceName: cfg.App.Name,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()
	zap.ReplaceGlobals(log)

	if err := run(cfg, log); err != nil {
		log.Error("Server stopped with error", zap.Error(err))
		log.Sync()
		os.Exit(1)
	}
}

func run(cfg *config.Config, log *zap.Logger) error {
	log.Info("Starting catalog service",
		zap.String("environment", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("db_driver", cfg.DB.Driver))

	// --- Store ---
	var productRepo repositories.ProductRepository
	var db *gorm.DB
	if cfg.DB.Driver == config.DriverMemory {
		productRepo = repositories.NewMemoryProductRepository()
		log.Warn("Using in-memory product store, data is lost on restart")
	} else {
		var err error
		db, err = database.Open(cfg.DB)
		if err != nil {
			return err
		}
		defer func() {
			if err := database.Close(db); err != nil {
				log.Warn("Error closing database", zap.Error(err))
			}
		}()
		productRepo = repositories.NewGORMProductRepository(db)
		log.Info("Database connection established")
	}

	// --- Product events ---
	var publisher services.EventPublisher
	if cfg.RabbitMQ.Enabled {
		mqClient, err := rabbitmq.NewClient(rabbitmq.Config{
			URL:   cfg.RabbitMQ.URL,
			Queue: cfg.RabbitMQ.Queue,
		}, log)
		if err != nil {
			return err
		}
		defer func() {
			if err := mqClient.Close(); err != nil {
				log.Warn("Error closing RabbitMQ client", zap.Error(err))
			}
		}()
		publisher = mqClient

		if cfg.RabbitMQ.Consume {
			if err := mqClient.ConsumeEvents(rabbitmq.LogDelivery(log)); err != nil {
				return err
			}
			log.Info("Consuming product events", zap.String("queue", cfg.RabbitMQ.Queue))
		}
	}

	// --- Service and HTTP app ---
	productService := services.NewProductService(productRepo, publisher, log)

	var httpMetrics *metrics.HTTPMetrics
	if cfg.Metrics.Enabled {
		httpMetrics = metrics.NewHTTPMetrics(cfg.App.Name)
	}

	fiberApp := app.New(app.Options{
		Name:        cfg.App.Name,
		Service:     productService,
		Logger:      log,
		Metrics:     httpMetrics,
		CORSOrigins: cfg.App.CORSOrigins,
	})

	// --- Start HTTP Server ---
	listenErr := make(chan error, 1)
	go func() {
		log.Info("Listening", zap.String("addr", cfg.App.Port))
		listenErr <- fiberApp.Listen(cfg.App.Port)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-listenErr:
		return fmt.Errorf("server failed to start: %w", err)
	case sig := <-quit:
		log.Info("Shutting down server", zap.String("signal", sig.String()))
	}

	if err := fiberApp.ShutdownWithTimeout(cfg.App.ShutdownTimeout); err != nil {
		log.Warn("Error during Fiber shutdown", zap.Error(err))
	}
	log.Info("Server gracefully stopped")
	return nil
}
