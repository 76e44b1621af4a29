package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dafibh/coinspot/coinspot-backend/docs"
	"github.com/dafibh/coinspot/coinspot-backend/internal/config"
	"github.com/dafibh/coinspot/coinspot-backend/internal/domain"
	"github.com/dafibh/coinspot/coinspot-backend/internal/handler"
	"github.com/dafibh/coinspot/coinspot-backend/internal/middleware"
	"github.com/dafibh/coinspot/coinspot-backend/internal/repository/postgres"
	"github.com/dafibh/coinspot/coinspot-backend/internal/repository/sqlite"
	"github.com/dafibh/coinspot/coinspot-backend/internal/service"
	"github.com/dafibh/coinspot/coinspot-backend/internal/websocket"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	echoSwagger "github.com/swaggo/echo-swagger"
)

// @title CoinsPot API
// @version 1.0
// @description Savings goals, deposit ledger, badges and insights for the CoinsPot app.
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

	// Open the store
	repos, closeStore, err := openStore(context.Background(), cfg)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.StoreDriver).Msg("Failed to open store")
	}
	log.Info().Str("driver", cfg.StoreDriver).Msg("Connected to store")

	// Change feed
	hub := websocket.NewHub()

	// Initialize services
	goalService := service.NewGoalService(repos.goals, repos.settings)
	badgeService := service.NewBadgeService(repos.badges, repos.goals, repos.ledger, cfg.BadgeDeduplicate)
	ledgerService := service.NewLedgerService(repos.goals, repos.ledger, badgeService)
	insightsService := service.NewInsightsService(repos.goals, repos.ledger)
	profileService := service.NewProfileService(repos.profile, repos.settings)
	settingsService := service.NewSettingsService(repos.settings)

	goalService.SetEventPublisher(hub)
	ledgerService.SetEventPublisher(hub)
	badgeService.SetEventPublisher(hub)

	// Reminder worker
	reminderWorker := service.NewReminderWorker(
		repos.goals,
		service.MultiNotifier{service.NewLogNotifier(log.Logger), service.NewPublisherNotifier(hub)},
		log.Logger,
		service.ReminderWorkerConfig{
			Interval:     cfg.Reminder.Interval,
			InitialDelay: cfg.Reminder.InitialDelay,
			RetryDelay:   cfg.Reminder.RetryDelay,
		},
	)

	// Initialize handlers
	handlers := handler.Handlers{
		Goal:     handler.NewGoalHandler(goalService),
		Ledger:   handler.NewLedgerHandler(ledgerService, goalService),
		Insights: handler.NewInsightsHandler(insightsService, goalService),
		Badge:    handler.NewBadgeHandler(badgeService),
		Profile:  handler.NewProfileHandler(profileService),
		Settings: handler.NewSettingsHandler(settingsService),
		Catalog:  handler.NewCatalogHandler(),
		Reminder: handler.NewReminderHandler(reminderWorker),
	}
	wsHandler := handler.NewWebSocketHandler(hub, cfg.CORSOrigins)
	openAPIHandler := handler.NewOpenAPIHandler(handler.Server{
		URL:         "http://" + cfg.Address() + "/api/v1",
		Description: "Local",
	})
	docs.SwaggerInfo.Host = cfg.Address()

	rateLimiter := middleware.NewRateLimiterWithConfig(cfg.RateLimit.PerMinute, cfg.RateLimit.Burst)

	// Create Echo instance
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// Request ID middleware
	e.Use(echomiddleware.RequestID())

	// CORS middleware
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept},
		MaxAge:       86400,
	}))

	// Security headers middleware
	e.Use(echomiddleware.SecureWithConfig(echomiddleware.SecureConfig{
		XSSProtection:      "1; mode=block",
		ContentTypeNosniff: "nosniff",
		XFrameOptions:      "DENY",
		ReferrerPolicy:     "strict-origin-when-cross-origin",
	}))

	e.Use(middleware.RequestLogger(log.Logger))
	e.Use(echomiddleware.Recover())

	// Health check endpoint
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	// API docs
	e.GET("/swagger/*", echoSwagger.WrapHandler)
	e.GET("/openapi.json", openAPIHandler.ServeSpec)

	// Change feed
	e.GET("/ws", wsHandler.HandleWS)

	// Register API routes
	handler.RegisterRoutes(e, handlers, middleware.RateLimitMiddleware(rateLimiter))

	ctx, stopWorker := context.WithCancel(context.Background())
	reminderWorker.Start(ctx)

	// Start server in goroutine
	go func() {
		log.Info().Str("address", cfg.Address()).Msg("Starting server")
		if err := e.Start(cfg.Address()); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	reminderWorker.Stop()
	stopWorker()
	rateLimiter.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}
	closeStore()

	log.Info().Msg("Server exited")
}

// repositories holds the store implementation chosen by configuration
type repositories struct {
	goals    domain.GoalRepository
	ledger   domain.LedgerRepository
	badges   domain.BadgeRepository
	profile  domain.ProfileRepository
	settings domain.SettingsRepository
}

// openStore connects to the configured store and returns its repositories and a close func
func openStore(ctx context.Context, cfg *config.Config) (repositories, func(), error) {
	switch cfg.StoreDriver {
	case config.StorePostgres:
		pool, err := postgres.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return repositories{}, nil, err
		}
		return repositories{
			goals:    postgres.NewGoalRepository(pool),
			ledger:   postgres.NewLedgerRepository(pool),
			badges:   postgres.NewBadgeRepository(pool),
			profile:  postgres.NewProfileRepository(pool),
			settings: postgres.NewSettingsRepository(pool),
		}, pool.Close, nil
	default:
		db, err := sqlite.Connect(cfg.SQLitePath)
		if err != nil {
			return repositories{}, nil, err
		}
		closeDB := func() {
			if err := sqlite.Close(db); err != nil {
				log.Error().Err(err).Msg("Failed to close database")
			}
		}
		return repositories{
			goals:    sqlite.NewGoalRepository(db),
			ledger:   sqlite.NewLedgerRepository(db),
			badges:   sqlite.NewBadgeRepository(db),
			profile:  sqlite.NewProfileRepository(db),
			settings: sqlite.NewSettingsRepository(db),
		}, closeDB, nil
	}
}
