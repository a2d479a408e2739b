package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dwicandra/duit/duit-backend/internal/config"
	"github.com/dwicandra/duit/duit-backend/internal/domain"
	"github.com/dwicandra/duit/duit-backend/internal/handler"
	"github.com/dwicandra/duit/duit-backend/internal/middleware"
	"github.com/dwicandra/duit/duit-backend/internal/repository/postgres"
	"github.com/dwicandra/duit/duit-backend/internal/repository/storage"
	"github.com/dwicandra/duit/duit-backend/internal/service"
	"github.com/dwicandra/duit/duit-backend/internal/websocket"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

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
	userRepo := postgres.NewUserRepository(pool)
	categoryRepo := postgres.NewCategoryRepository(pool)
	transactionRepo := postgres.NewTransactionRepository(pool)
	recurringRepo := postgres.NewRecurringRepository(pool)
	budgetRepo := postgres.NewBudgetRepository(pool)
	debtRepo := postgres.NewDebtRepository(pool)
	debtPaymentRepo := postgres.NewDebtPaymentRepository(pool)

	clock := domain.SystemClock{}

	// WebSocket hub for real-time updates
	hub := websocket.NewHub()

	// Avatar storage is optional; without it the avatar endpoint reports
	// storage as not configured.
	var avatarService *service.AvatarService
	if cfg.S3.Bucket != "" && cfg.S3.AccessKeyID != "" {
		objectRepo, err := storage.NewS3ObjectRepository(context.Background(), cfg.S3)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to initialize object storage")
		}
		avatarService = service.NewAvatarService(objectRepo)
		log.Info().Str("bucket", cfg.S3.Bucket).Msg("Avatar storage enabled")
	} else {
		avatarService = service.NewAvatarService(nil)
		log.Warn().Msg("Avatar storage not configured, avatar uploads disabled")
	}

	// Initialize services
	profileService := service.NewProfileService(userRepo, avatarService)
	categoryService := service.NewCategoryService(categoryRepo)
	transactionService := service.NewTransactionService(transactionRepo, categoryRepo, hub)
	recurringService := service.NewRecurringService(recurringRepo, transactionRepo, categoryRepo, clock)
	recurringService.SetEventPublisher(hub)
	budgetService := service.NewBudgetService(budgetRepo, transactionRepo, categoryRepo, clock)
	debtService := service.NewDebtService(debtRepo, debtPaymentRepo, clock)
	statsService := service.NewStatsService(transactionRepo, categoryRepo, clock)

	// Create user provider adapter for auth middleware and the WS validator
	userProvider := &userProviderAdapter{userRepo: userRepo}

	// Initialize auth middleware
	authMiddleware, err := middleware.NewAuthMiddleware(cfg.Auth0Domain, cfg.Auth0Audience, userProvider)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create auth middleware")
	}

	// Per-user rate limiter
	rateLimiter := middleware.NewRateLimiterWithConfig(cfg.RateLimitPerSecond, cfg.RateLimitBurst)
	defer rateLimiter.Stop()

	// WebSocket token validator (upgrade requests carry the token as a
	// query parameter, not an Authorization header)
	wsValidator, err := websocket.NewJWTValidator(cfg.Auth0Domain, cfg.Auth0Audience, userProvider)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create websocket validator")
	}

	// Initialize handlers
	profileHandler := handler.NewProfileHandler(profileService)
	categoryHandler := handler.NewCategoryHandler(categoryService)
	transactionHandler := handler.NewTransactionHandler(transactionService)
	recurringHandler := handler.NewRecurringHandler(recurringService)
	budgetHandler := handler.NewBudgetHandler(budgetService)
	debtHandler := handler.NewDebtHandler(debtService)
	statsHandler := handler.NewStatsHandler(statsService)
	wsHandler := handler.NewWebSocketHandler(hub, wsValidator, cfg.CORSOrigins)

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
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
		AllowCredentials: true,
		MaxAge:           86400,
	}))

	// Security headers middleware (helmet-like)
	e.Use(echomiddleware.SecureWithConfig(echomiddleware.SecureConfig{
		XSSProtection:         "1; mode=block",
		ContentTypeNosniff:    "nosniff",
		XFrameOptions:         "DENY",
		HSTSMaxAge:            31536000,
		ContentSecurityPolicy: "default-src 'self'",
		ReferrerPolicy:        "strict-origin-when-cross-origin",
	}))

	// Request logging middleware with zerolog
	e.Use(zerologMiddleware())

	// Recovery middleware
	e.Use(echomiddleware.Recover())

	// Health check endpoint
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	// Register API routes
	handler.RegisterRoutes(e, authMiddleware, rateLimiter, profileHandler, categoryHandler, transactionHandler, recurringHandler, budgetHandler, debtHandler, statsHandler, wsHandler)

	// Background sweep of due recurring transactions
	sweepWorker := service.NewSweepWorker(recurringService, log.Logger, service.SweepWorkerConfig{
		Interval: cfg.SweepInterval,
	})
	sweepCtx, sweepCancel := context.WithCancel(context.Background())
	defer sweepCancel()
	sweepWorker.Start(sweepCtx)

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

	sweepWorker.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}

// userProviderAdapter adapts a UserRepository to middleware.UserProvider
// and websocket.UserLookup.
type userProviderAdapter struct {
	userRepo domain.UserRepository
}

// GetUserIDBySubject implements middleware.UserProvider
func (a *userProviderAdapter) GetUserIDBySubject(subject string) (uuid.UUID, error) {
	user, err := a.userRepo.GetBySubject(subject)
	if err != nil {
		return uuid.Nil, err
	}
	return user.ID, nil
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

			log.Info().
				Str("method", req.Method).
				Str("path", req.URL.Path).
				Int("status", res.Status).
				Dur("latency", time.Since(start)).
				Str("request_id", res.Header().Get(echo.HeaderXRequestID)).
				Msg("request")

			return nil
		}
	}
}
