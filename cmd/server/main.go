package main

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"grocerylist-api/internal/config"
	"grocerylist-api/internal/database"
	"grocerylist-api/internal/handlers"
	"grocerylist-api/internal/middleware"
	"grocerylist-api/internal/repositories"
	"grocerylist-api/internal/services"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	shutdownTimeout      = 10 * time.Second
	tokenCleanupInterval = time.Hour
)

func main() {
	if err := godotenv.Load(); err != nil {
		slog.Info("no .env file found, using environment variables")
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	db, err := database.Initialize(cfg)
	if err != nil {
		logger.Error("failed to initialize database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	// Repositories
	userRepo := repositories.NewUserRepository(db.DB)
	refreshTokenRepo := repositories.NewRefreshTokenRepository(db.DB)
	blacklistedTokenRepo := repositories.NewBlacklistedTokenRepository(db.DB)
	keywordRepo := repositories.NewKeywordRepository(db.DB)
	itemRepo := repositories.NewItemRepository(db.DB)

	// Services
	metrics := services.NewPrometheusMetrics()
	hub := services.NewRealtimeHub(metrics)

	passwordService := services.NewPasswordService(userRepo)
	tokenService := services.NewTokenService(&cfg.JWT)
	authService := services.NewAuthService(
		userRepo,
		refreshTokenRepo,
		blacklistedTokenRepo,
		passwordService,
		tokenService,
		metrics,
		logger,
	)

	circuitBreaker := services.NewCircuitBreaker(services.DefaultCircuitBreakerConfig())
	categoryService := services.NewCategoryService(
		keywordRepo,
		circuitBreaker,
		metrics,
		cfg.Learning.QueueSize,
		cfg.Learning.MaxWorkers,
		cfg.Learning.PromoteStaticHits,
	)
	itemService := services.NewItemService(itemRepo, categoryService, hub, metrics)
	profileService := services.NewProfileService(userRepo, logger)

	// Background keyword learning loop, stopped on shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go categoryService.StartLearning(ctx)

	go runTokenCleanup(ctx, db, logger)

	seedAdminIfConfigured(db, passwordService, logger)

	// Handlers
	authHandler := handlers.NewAuthHandler(authService)
	itemHandler := handlers.NewItemHandler(itemService)
	categoryHandler := handlers.NewCategoryHandler(categoryService)
	profileHandler := handlers.NewProfileHandler(profileService, passwordService)
	healthHandler := handlers.NewHealthCheckHandler(db.DB, categoryService, hub)
	realtimeHandler := handlers.NewRealtimeHandler(hub)

	e := echo.New()
	e.HideBanner = true
	e.Server.ReadTimeout = cfg.Server.ReadTimeout
	e.Server.WriteTimeout = cfg.Server.WriteTimeout
	e.Validator = handlers.NewValidator()
	e.HTTPErrorHandler = middleware.CustomHTTPErrorHandler

	e.Use(middleware.RequestID())
	e.Use(middleware.PanicRecovery())
	e.Use(middleware.SecurityHeaders())
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: cfg.Server.CORSAllowOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAuthorization},
	}))
	e.Use(middleware.RateLimiterWithConfig(cfg.Security.RateLimitPerSecond, cfg.Security.RateLimitPerSecond*2))

	e.GET("/health", healthHandler.HealthCheck)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	api := e.Group("/api/v1")

	auth := api.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.POST("/refresh", authHandler.RefreshToken)
	auth.POST("/logout", authHandler.Logout)

	protected := api.Group("", middleware.RequireAuth(tokenService, blacklistedTokenRepo))

	protected.POST("/items", itemHandler.AddItem)
	protected.GET("/items", itemHandler.ListItems)
	protected.GET("/items/summary", itemHandler.GetCategorySummary)
	protected.GET("/items/:id", itemHandler.GetItem)
	protected.PUT("/items/:id/toggle", itemHandler.ToggleItem)
	protected.PUT("/items/:id/quantity", itemHandler.UpdateQuantity)
	protected.PUT("/items/:id/category", itemHandler.AssignCategory)
	protected.DELETE("/items/:id", itemHandler.DeleteItem)

	protected.GET("/categories", categoryHandler.ListCategories)
	protected.GET("/keywords", categoryHandler.ListKeywords)
	protected.POST("/keywords", categoryHandler.AddKeyword)
	protected.POST("/categorize", categoryHandler.Categorize)

	protected.GET("/profile", profileHandler.GetProfile)
	protected.PUT("/profile/display-name", profileHandler.UpdateDisplayName)
	protected.PUT("/profile/password", profileHandler.ChangePassword)
	protected.GET("/members", profileHandler.ListMembers)

	protected.GET("/ws/items", realtimeHandler.ItemsWS)

	if cfg.IsDevelopment() {
		devHandler := handlers.NewDevHandler(itemRepo, categoryService)
		dev := protected.Group("/dev")
		dev.POST("/seed-items", devHandler.SeedItems)
		dev.DELETE("/items", devHandler.ClearItems)
		logger.Info("development endpoints enabled")
	}

	go func() {
		addr := net.JoinHostPort(cfg.Server.Host, cfg.Server.Port)
		logger.Info("starting server", "addr", addr, "environment", cfg.Server.Environment)
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Error("server stopped", "error", err)
			cancel()
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	select {
	case <-quit:
		logger.Info("shutdown signal received")
	case <-ctx.Done():
	}

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", "error", err)
	}
	logger.Info("server stopped")
}

// runTokenCleanup purges expired refresh and blacklisted tokens on an interval.
func runTokenCleanup(ctx context.Context, db *database.DB, logger *slog.Logger) {
	ticker := time.NewTicker(tokenCleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := db.CleanupExpiredTokens(); err != nil {
				logger.Error("token cleanup failed", "error", err)
			}
		}
	}
}

// seedAdminIfConfigured bootstraps the household admin account from
// ADMIN_EMAIL and ADMIN_PASSWORD. Skipped when either variable is unset.
func seedAdminIfConfigured(db *database.DB, passwordService services.PasswordServiceInterface, logger *slog.Logger) {
	email := os.Getenv("ADMIN_EMAIL")
	password := os.Getenv("ADMIN_PASSWORD")
	if email == "" || password == "" {
		return
	}

	hash, err := passwordService.HashPassword(password)
	if err != nil {
		logger.Error("admin seed skipped, password rejected", "error", err)
		return
	}

	displayName := os.Getenv("ADMIN_DISPLAY_NAME")
	if displayName == "" {
		displayName = "Admin"
	}

	user, err := db.SeedAdminUser(email, hash, displayName)
	if err != nil {
		logger.Error("admin seed failed", "error", err)
		return
	}
	logger.Info("household admin ready", "user_id", user.ID, "email", user.Email)
}
