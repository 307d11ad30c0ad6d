package handlers

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"grocerylist-api/internal/config"
	"grocerylist-api/internal/database"
	"grocerylist-api/internal/models"
	"grocerylist-api/internal/repositories"
	"grocerylist-api/internal/services"

	"github.com/labstack/echo/v4"
)

// noopMetrics satisfies MetricsRecorderInterface without touching the
// prometheus default registry, which tolerates only one registration per name.
type noopMetrics struct{}

func (noopMetrics) IncrementCounter(string, map[string]string)     {}
func (noopMetrics) RecordProcessingTime(string, time.Duration)     {}
func (noopMetrics) RecordGauge(string, float64, map[string]string) {}

// testEnv wires handlers against real services on an in-memory database
type testEnv struct {
	db *database.DB
	e  *echo.Echo

	userRepo    repositories.UserRepositoryInterface
	itemRepo    repositories.ItemRepositoryInterface
	keywordRepo repositories.KeywordRepositoryInterface

	authService     services.AuthServiceInterface
	tokenService    services.TokenServiceInterface
	passwordService services.PasswordServiceInterface
	categoryService services.CategoryServiceInterface
	itemService     services.ItemServiceInterface
	profileService  services.ProfileServiceInterface
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db := database.SetupTestDB(t)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	userRepo := repositories.NewUserRepository(db.DB)
	refreshTokenRepo := repositories.NewRefreshTokenRepository(db.DB)
	blacklistedTokenRepo := repositories.NewBlacklistedTokenRepository(db.DB)
	keywordRepo := repositories.NewKeywordRepository(db.DB)
	itemRepo := repositories.NewItemRepository(db.DB)

	privateKey, publicKey, err := config.GenerateRSAKeyPair()
	if err != nil {
		t.Fatalf("failed to generate RSA key pair: %v", err)
	}

	tokenService := services.NewTokenService(&config.JWTConfig{
		PrivateKey:           privateKey,
		PublicKey:            publicKey,
		Issuer:               "grocerylist-test",
		AccessTokenDuration:  15 * time.Minute,
		RefreshTokenDuration: 7 * 24 * time.Hour,
	})

	passwordService := services.NewPasswordService(userRepo)
	authService := services.NewAuthService(
		userRepo,
		refreshTokenRepo,
		blacklistedTokenRepo,
		passwordService,
		tokenService,
		noopMetrics{},
		logger,
	)

	circuitBreaker := services.NewCircuitBreaker(services.DefaultCircuitBreakerConfig())
	categoryService := services.NewCategoryService(keywordRepo, circuitBreaker, noopMetrics{}, 16, 1, true)
	itemService := services.NewItemService(itemRepo, categoryService, nil, noopMetrics{})
	profileService := services.NewProfileService(userRepo, logger)

	e := echo.New()
	e.Validator = NewValidator()

	return &testEnv{
		db:              db,
		e:               e,
		userRepo:        userRepo,
		itemRepo:        itemRepo,
		keywordRepo:     keywordRepo,
		authService:     authService,
		tokenService:    tokenService,
		passwordService: passwordService,
		categoryService: categoryService,
		itemService:     itemService,
		profileService:  profileService,
	}
}

func (env *testEnv) createUser(t *testing.T, email string) *models.User {
	t.Helper()
	return database.CreateTestUser(t, env.db, email)
}
