package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dafibh/tesouraria/tesouraria-backend/internal/amqp"
	"github.com/dafibh/tesouraria/tesouraria-backend/internal/config"
	"github.com/dafibh/tesouraria/tesouraria-backend/internal/handler"
	"github.com/dafibh/tesouraria/tesouraria-backend/internal/middleware"
	"github.com/dafibh/tesouraria/tesouraria-backend/internal/repository/postgres"
	"github.com/dafibh/tesouraria/tesouraria-backend/internal/repository/storage"
	"github.com/dafibh/tesouraria/tesouraria-backend/internal/service"
	"github.com/dafibh/tesouraria/tesouraria-backend/internal/websocket"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	echoSwagger "github.com/swaggo/echo-swagger"
)

// @title Tesouraria API
// @version 1.0
// @description Church treasury ledger: accounts, categories, entries, transfers and reports.
// @BasePath /api/v1
func main() {
	// Initialize zerolog
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	if os.Getenv("ENV") != "production" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		log.Warn().Str("level", cfg.LogLevel).Msg("Unknown log level, using info")
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	if cfg.AutoMigrate {
		if err := postgres.RunMigrations(cfg.DatabaseURL); err != nil {
			log.Fatal().Err(err).Msg("Failed to run migrations")
		}
	}

	// Connect to database
	pool, err := pgxpool.New(context.Background(), cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer pool.Close()

	// Verify database connection
	if err := pool.Ping(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("Failed to ping database")
	}
	log.Info().Msg("Connected to database")

	// Initialize repositories
	tx := postgres.NewTransactor(pool)
	accountRepo := postgres.NewAccountRepository(pool)
	categoryRepo := postgres.NewCategoryRepository(pool)
	entryRepo := postgres.NewEntryRepository(pool)
	transferRepo := postgres.NewTransferRepository(pool)

	// Receipt storage is optional; without it uploads answer 503
	var receiptStore storage.ReceiptStore
	if cfg.S3.Enabled() {
		s3Store, err := storage.NewS3ReceiptStore(context.Background(), cfg.S3)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to initialize receipt storage")
		}
		receiptStore = s3Store
		log.Info().Str("bucket", cfg.S3.Bucket).Msg("Receipt storage enabled")
	} else {
		log.Warn().Msg("S3_BUCKET not set, receipt uploads disabled")
	}

	// Event fan-out: connected browsers, plus RabbitMQ when configured
	hub := websocket.NewHub()
	publishers := []websocket.EventPublisher{hub}
	var amqpPublisher *amqp.Publisher
	if cfg.AMQP.Enabled() {
		amqpPublisher, err = amqp.NewPublisher(cfg.AMQP.URL, cfg.AMQP.Exchange)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to RabbitMQ")
		}
		publishers = append(publishers, amqpPublisher)
		log.Info().Str("exchange", cfg.AMQP.Exchange).Msg("AMQP event publishing enabled")
	}
	publisher := websocket.NewMultiPublisher(publishers...)

	// Initialize services
	locker := service.NewAccountLocker()
	accountService := service.NewAccountService(tx, accountRepo)
	accountService.SetEventPublisher(publisher)
	categoryService := service.NewCategoryService(tx, categoryRepo)
	categoryService.SetEventPublisher(publisher)
	entryService := service.NewEntryService(tx, entryRepo, accountRepo, categoryRepo, locker)
	entryService.SetEventPublisher(publisher)
	transferService := service.NewTransferService(tx, transferRepo, accountRepo, locker)
	transferService.SetEventPublisher(publisher)
	receiptService := service.NewReceiptService(entryRepo, receiptStore)
	receiptService.SetEventPublisher(publisher)
	if receiptStore != nil {
		entryService.SetReceiptStore(receiptStore)
	}
	statisticsService := service.NewStatisticsService(entryRepo, accountRepo, categoryRepo)
	reconciliationService := service.NewReconciliationService(accountRepo, entryRepo, transferRepo)
	exportService := service.NewExportService(entryRepo, statisticsService, cfg.Currency)

	// Initialize handlers
	accountHandler := handler.NewAccountHandler(accountService, reconciliationService)
	categoryHandler := handler.NewCategoryHandler(categoryService)
	entryHandler := handler.NewEntryHandler(entryService)
	receiptHandler := handler.NewReceiptHandler(receiptService)
	transferHandler := handler.NewTransferHandler(transferService)
	statisticsHandler := handler.NewStatisticsHandler(statisticsService)
	exportHandler := handler.NewExportHandler(exportService)
	wsHandler := handler.NewWebSocketHandler(hub, cfg.CORSOrigins)

	rateLimiter := middleware.NewRateLimiterWithConfig(cfg.RateLimitPerMinute, cfg.RateLimitBurst)

	// Create Echo instance
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// Request ID middleware
	e.Use(echomiddleware.RequestID())

	// CORS middleware
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, middleware.WorkspaceHeader},
		ExposeHeaders:    []string{echo.HeaderContentDisposition, "X-RateLimit-Remaining", "X-RateLimit-Reset"},
		AllowCredentials: true,
		MaxAge:           86400,
	}))

	// Security headers middleware (helmet-like)
	e.Use(echomiddleware.SecureWithConfig(echomiddleware.SecureConfig{
		XSSProtection:      "1; mode=block",
		ContentTypeNosniff: "nosniff",
		XFrameOptions:      "DENY",
		HSTSMaxAge:         31536000,
		ReferrerPolicy:     "strict-origin-when-cross-origin",
	}))

	// Request logging middleware with zerolog
	e.Use(zerologMiddleware())

	// Recovery middleware
	e.Use(echomiddleware.Recover())

	// Health check endpoint
	e.GET("/health", func(c echo.Context) error {
		ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
		defer cancel()
		if err := pool.Ping(ctx); err != nil {
			return c.JSON(http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		}
		return c.JSON(http.StatusOK, map[string]interface{}{
			"status":    "ok",
			"receipts":  receiptService.IsEnabled(),
			"wsClients": hub.TotalClientCount(),
		})
	})

	// API documentation
	e.GET("/swagger/*", echoSwagger.WrapHandler)
	e.GET("/openapi.json", handler.ServeOpenAPI3Spec)

	// Register API routes
	handler.RegisterRoutes(e, rateLimiter, accountHandler, categoryHandler, entryHandler, receiptHandler, transferHandler, statisticsHandler, exportHandler, wsHandler)

	// Start server in goroutine
	go func() {
		log.Info().Str("port", cfg.Port).Msg("Starting server")
		if err := e.Start(":" + cfg.Port); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	hub.Shutdown()
	if err := e.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}
	rateLimiter.Stop()
	if amqpPublisher != nil {
		if err := amqpPublisher.Close(); err != nil {
			log.Warn().Err(err).Msg("Failed to close AMQP connection")
		}
	}

	log.Info().Msg("Server exited")
}

// zerologMiddleware returns a middleware that logs requests using zerolog
func zerologMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)
			if err != nil {
				c.Error(err)
			}

			req := c.Request()
			res := c.Response()

			event := log.Info()
			if res.Status >= http.StatusInternalServerError {
				event = log.Error()
			}
			event.
				Str("method", req.Method).
				Str("path", req.URL.Path).
				Int("status", res.Status).
				Dur("latency", time.Since(start)).
				Str("workspace", req.Header.Get(middleware.WorkspaceHeader)).
				Str("request_id", res.Header().Get(echo.HeaderXRequestID)).
				Msg("request")

			return nil
		}
	}
}
