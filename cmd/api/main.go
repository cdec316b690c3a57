package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/kqmdigital/mortgage-calculator-sub000/internal/config"
	"github.com/kqmdigital/mortgage-calculator-sub000/internal/domain"
	"github.com/kqmdigital/mortgage-calculator-sub000/internal/handler"
	"github.com/kqmdigital/mortgage-calculator-sub000/internal/middleware"
	"github.com/kqmdigital/mortgage-calculator-sub000/internal/repository/cache"
	"github.com/kqmdigital/mortgage-calculator-sub000/internal/repository/postgres"
	"github.com/kqmdigital/mortgage-calculator-sub000/internal/repository/storage"
	"github.com/kqmdigital/mortgage-calculator-sub000/internal/service"
	"github.com/kqmdigital/mortgage-calculator-sub000/internal/websocket"
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
	bankRepo := postgres.NewBankRepository(pool)
	packageRepo := postgres.NewRatePackageRepository(pool)
	reportRepo := postgres.NewReportRepository(pool)

	// Reference rates sit on the hot path of every package evaluation, so
	// wrap the repository in the Redis read-through cache when configured
	var refRateRepo domain.ReferenceRateRepository = postgres.NewReferenceRateRepository(pool)
	if cfg.RedisURL != "" {
		cached, err := cache.NewReferenceRateCache(cfg.RedisURL, refRateRepo)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to Redis")
		}
		refRateRepo = cached
		log.Info().Msg("Reference-rate cache enabled")
	}

	// Object storage for reports and bank logos
	store, err := storage.NewS3Store(context.Background(), cfg.S3)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize object storage")
	}

	// WebSocket hub pushes reference-data and report events to clients
	hub := websocket.NewHub()

	// Initialize services
	authService := service.NewAuthService(userRepo)
	repaymentService := service.NewRepaymentService()
	progressiveService := service.NewProgressiveService()
	affordabilityService := service.NewAffordabilityService()
	packageService := service.NewPackageService(packageRepo, refRateRepo, hub)
	bankService := service.NewBankService(bankRepo, store, hub)
	refRateService := service.NewReferenceRateService(refRateRepo, hub)
	reportService := service.NewReportService(reportRepo, store, hub)

	// Create user provider adapter for auth middleware
	userProvider := &userProviderAdapter{authService: authService}

	// Initialize auth middleware
	authMiddleware, err := middleware.NewAuthMiddleware(cfg.Auth0Domain, cfg.Auth0Audience, userProvider)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create auth middleware")
	}

	rateLimiter := middleware.NewRateLimiter()
	defer rateLimiter.Stop()

	// WebSocket connections authenticate via query token
	wsValidator, err := websocket.NewAuth0JWTValidator(cfg.Auth0Domain, cfg.Auth0Audience, &userLookupAdapter{authService: authService})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create WebSocket JWT validator")
	}

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authService)
	calculatorHandler := handler.NewCalculatorHandler(repaymentService, progressiveService, affordabilityService)
	packageHandler := handler.NewPackageHandler(packageService)
	bankHandler := handler.NewBankHandler(bankService)
	refRateHandler := handler.NewReferenceRateHandler(refRateService)
	reportHandler := handler.NewReportHandler(reportService, repaymentService, progressiveService)
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
	handler.RegisterRoutes(e, authMiddleware, rateLimiter, authHandler, calculatorHandler, packageHandler, bankHandler, refRateHandler, reportHandler, wsHandler)

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

	if err := e.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}

// userProviderAdapter adapts AuthService to middleware.UserProvider
type userProviderAdapter struct {
	authService *service.AuthService
}

// GetUserByAuth0ID implements middleware.UserProvider
func (a *userProviderAdapter) GetUserByAuth0ID(auth0ID string) (*domain.User, error) {
	return a.authService.GetUserByAuth0ID(auth0ID)
}

// userLookupAdapter adapts AuthService to websocket.UserLookup
type userLookupAdapter struct {
	authService *service.AuthService
}

// GetUserIDByAuth0ID implements websocket.UserLookup
func (a *userLookupAdapter) GetUserIDByAuth0ID(auth0ID string) (uuid.UUID, error) {
	user, err := a.authService.GetUserByAuth0ID(auth0ID)
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
