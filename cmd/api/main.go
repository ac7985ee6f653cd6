package main

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "cataloghub/docs" // Import swagger docs
	"cataloghub/internal/app"
	"cataloghub/internal/config"
	"cataloghub/internal/db"
	"cataloghub/internal/http/handlers"
	"cataloghub/internal/http/middleware"
	"cataloghub/internal/tasks"
	"cataloghub/internal/telemetry"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	echoSwagger "github.com/swaggo/echo-swagger"
)

// @title CatalogHub API
// @version 1.0
// @description Catalog management backend with bulk CSV import and webhook notifications

// @host localhost:8080
// @BasePath /api

// CustomValidator wraps the validator
type CustomValidator struct {
	validator *validator.Validate
}

// Validate implements echo.Validator interface
func (cv *CustomValidator) Validate(i interface{}) error {
	if err := cv.validator.Struct(i); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return nil
}

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Info().Msg("No .env file found, using environment variables")
	}

	// Setup logger
	zerolog.TimeFieldFormat = time.RFC3339
	if os.Getenv("ENV") == "development" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	// Initialize tracing (optional service)
	shutdown, enabled, err := telemetry.InitTracing()
	if err != nil {
		log.Warn().Err(err).Msg("Failed to initialize tracing, continuing without it")
		shutdown = func() {}
	} else if enabled {
		log.Info().Msg("Tracing initialized successfully")
	}
	defer shutdown()

	// Initialize database
	database, err := db.NewDatabase()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}

	// Run migrations
	if err := db.RunMigrations(database); err != nil {
		log.Fatal().Err(err).Msg("Failed to run migrations")
	}

	// Initialize services
	cfg := config.Load()
	services := app.NewServices(database, cfg)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := services.Queue.Ping(ctx); err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}

	// Start background task workers
	worker := tasks.NewWorker(services.Queue, cfg.WorkerCount, cfg.WorkerPollInterval)
	worker.RegisterHandler(tasks.TypeImportProcess, func(ctx context.Context, task *tasks.Task) error {
		var payload tasks.ImportProcessPayload
		if err := json.Unmarshal(task.Payload, &payload); err != nil {
			return err
		}
		return services.ImportService.ProcessJob(ctx, payload.JobID)
	})
	worker.RegisterHandler(tasks.TypeWebhookDispatch, func(ctx context.Context, task *tasks.Task) error {
		var payload tasks.WebhookDispatchPayload
		if err := json.Unmarshal(task.Payload, &payload); err != nil {
			return err
		}
		services.WebhookService.Dispatch(ctx, payload.EventType, payload.ProductID)
		return nil
	})

	go worker.Run(ctx)
	log.Info().Int("workers", cfg.WorkerCount).Msg("Task workers started")

	// Setup Echo
	e := echo.New()
	e.HideBanner = true

	// Set custom validator
	e.Validator = &CustomValidator{validator: validator.New()}

	// Middleware
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORS())
	e.Use(middleware.RequestID())
	e.Use(middleware.Telemetry())

	// Health check
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "healthy", "message": "API is running"})
	})

	// Prometheus metrics
	e.GET("/metrics", echo.WrapHandler(telemetry.MetricsHandler()))

	// Swagger - only enabled in development environment
	if cfg.Env == "development" {
		e.GET("/docs/*", echoSwagger.WrapHandler)
	}

	// Setup routes
	api := e.Group("/api")
	handlers.SetupRoutes(api, services)

	// Start server
	go func() {
		if err := e.Start(":" + cfg.HTTPPort); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	log.Info().Str("port", cfg.HTTPPort).Msg("Server started")

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}
