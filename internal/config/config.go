package config

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/base64"
	"encoding/pem"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	JWT      JWTConfig
	Security SecurityConfig
	Learning LearningConfig
}

type ServerConfig struct {
	Port             string
	Host             string
	Environment      string
	ReadTimeout      time.Duration
	WriteTimeout     time.Duration
	CORSAllowOrigins []string
}

type DatabaseConfig struct {
	Host            string
	Port            string
	User            string
	Password        string
	Name            string
	SSLMode         string
	MaxConnections  int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

type JWTConfig struct {
	AccessTokenDuration  time.Duration
	RefreshTokenDuration time.Duration
	PrivateKey           *rsa.PrivateKey
	PublicKey            *rsa.PublicKey
	Issuer               string
}

type SecurityConfig struct {
	BCryptCost         int
	RateLimitPerSecond int
	MaxFailedAttempts  int
	PasswordMinLength  int
}

// LearningConfig tunes the background keyword promotion worker
type LearningConfig struct {
	QueueSize         int
	MaxWorkers        int
	PromoteStaticHits bool
}

// Load reads configuration from the environment, falling back to development
// defaults. It fails when the environment is production and no JWT keypair
// is provided.
func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port:         getEnv("SERVER_PORT", "8080"),
			Host:         getEnv("SERVER_HOST", "localhost"),
			Environment:  getEnv("APP_ENV", "development"),
			ReadTimeout:  getDurationEnv("SERVER_READ_TIMEOUT", 15*time.Second),
			WriteTimeout: getDurationEnv("SERVER_WRITE_TIMEOUT", 15*time.Second),
		},
		Database: DatabaseConfig{
			Host:            getEnv("DB_HOST", "localhost"),
			Port:            getEnv("DB_PORT", "5432"),
			User:            getEnv("DB_USER", "grocerylist_user"),
			Password:        getEnv("DB_PASSWORD", "grocerylist_password"),
			Name:            getEnv("DB_NAME", "grocerylist_db"),
			SSLMode:         getEnv("DB_SSL_MODE", "disable"),
			MaxConnections:  getIntEnv("DB_MAX_CONNECTIONS", 25),
			MaxIdleConns:    getIntEnv("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: getDurationEnv("DB_CONN_MAX_LIFETIME", time.Hour),
		},
		Security: SecurityConfig{
			BCryptCost:         getIntEnv("BCRYPT_COST", 12),
			RateLimitPerSecond: getIntEnv("RATE_LIMIT_PER_SECOND", 10),
			MaxFailedAttempts:  getIntEnv("MAX_FAILED_ATTEMPTS", 5),
			PasswordMinLength:  getIntEnv("PASSWORD_MIN_LENGTH", 10),
		},
		JWT: JWTConfig{
			AccessTokenDuration:  getDurationEnv("JWT_ACCESS_TOKEN_DURATION", 24*time.Hour),
			RefreshTokenDuration: getDurationEnv("JWT_REFRESH_TOKEN_DURATION", 30*24*time.Hour),
			Issuer:               getEnv("JWT_ISSUER", "grocerylist-api"),
		},
		Learning: LearningConfig{
			QueueSize:         getIntEnv("LEARNING_QUEUE_SIZE", 256),
			MaxWorkers:        getIntEnv("LEARNING_MAX_WORKERS", 2),
			PromoteStaticHits: getBoolEnv("LEARNING_PROMOTE_STATIC_HITS", true),
		},
	}

	cfg.Server.CORSAllowOrigins = cfg.corsAllowOrigins()

	privateKey, publicKey, err := cfg.loadJWTKeys()
	if err != nil {
		return nil, fmt.Errorf("load RSA keys: %w", err)
	}
	cfg.JWT.PrivateKey = privateKey
	cfg.JWT.PublicKey = publicKey

	return cfg, nil
}

func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode)
}

func (c *Config) IsDevelopment() bool {
	return c.Server.Environment == "development"
}

func (c *Config) IsProduction() bool {
	return c.Server.Environment == "production"
}

func (c *Config) IsTesting() bool {
	return c.Server.Environment == "testing"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// loadJWTKeys resolves the RSA keypair used for token signing. Explicit keys
// from JWT_PRIVATE_KEY and JWT_PUBLIC_KEY always win. Production refuses to
// start without them; development and testing generate a throwaway pair.
func (c *Config) loadJWTKeys() (*rsa.PrivateKey, *rsa.PublicKey, error) {
	privateKeyB64 := os.Getenv("JWT_PRIVATE_KEY")
	publicKeyB64 := os.Getenv("JWT_PUBLIC_KEY")

	if privateKeyB64 != "" && publicKeyB64 != "" {
		slog.Info("loading RSA keypair from environment variables")

		privateKey, err := decodeKeyEnv(privateKeyB64, "JWT_PRIVATE_KEY", parseRSAPrivateKey)
		if err != nil {
			return nil, nil, err
		}
		publicKey, err := decodeKeyEnv(publicKeyB64, "JWT_PUBLIC_KEY", parseRSAPublicKey)
		if err != nil {
			return nil, nil, err
		}
		return privateKey, publicKey, nil
	}

	if c.IsProduction() {
		return nil, nil, errors.New("JWT_PRIVATE_KEY and JWT_PUBLIC_KEY environment variables must be set in production environments")
	}

	slog.Info("generating ephemeral RSA keypair",
		"hint", "set JWT_PRIVATE_KEY and JWT_PUBLIC_KEY to persist keys across restarts")
	return GenerateRSAKeyPair()
}

// decodeKeyEnv base64-decodes a PEM key carried in an env var and parses it.
func decodeKeyEnv[K any](b64, name string, parse func([]byte) (K, error)) (K, error) {
	var zero K

	pemBytes, err := base64.StdEncoding.DecodeString(b64)
	if err != nil {
		return zero, fmt.Errorf("failed to decode %s: %w", name, err)
	}

	key, err := parse(pemBytes)
	if err != nil {
		return zero, fmt.Errorf("failed to parse %s: %w", name, err)
	}

	return key, nil
}

// corsAllowOrigins reads CORS_ALLOW_ORIGINS as a comma-separated list.
// Missing values fall back to allowing every origin, which is logged loudly
// in production.
func (c *Config) corsAllowOrigins() []string {
	raw := os.Getenv("CORS_ALLOW_ORIGINS")
	if raw == "" {
		if c.IsProduction() {
			slog.Warn("CORS_ALLOW_ORIGINS not set in production, allowing all origins")
		} else {
			slog.Info("CORS_ALLOW_ORIGINS not set, allowing all origins")
		}
		return []string{"*"}
	}

	origins := strings.Split(raw, ",")
	for i, origin := range origins {
		origins[i] = strings.TrimSpace(origin)
	}

	slog.Info("CORS allowed origins configured", "origins", origins)
	return origins
}

// GenerateRSAKeyPair generates a new RSA key pair
func GenerateRSAKeyPair() (*rsa.PrivateKey, *rsa.PublicKey, error) {
	privateKey, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to generate RSA key pair: %w", err)
	}

	return privateKey, &privateKey.PublicKey, nil
}

// parseRSAPrivateKey accepts PKCS1 or PKCS8 PEM private keys.
func parseRSAPrivateKey(pemData []byte) (*rsa.PrivateKey, error) {
	block, _ := pem.Decode(pemData)
	if block == nil {
		return nil, errors.New("failed to parse PEM block containing the key")
	}

	if privateKey, err := x509.ParsePKCS1PrivateKey(block.Bytes); err == nil {
		return privateKey, nil
	}

	key, err := x509.ParsePKCS8PrivateKey(block.Bytes)
	if err != nil {
		return nil, fmt.Errorf("failed to parse private key: %w", err)
	}

	privateKey, ok := key.(*rsa.PrivateKey)
	if !ok {
		return nil, errors.New("not an RSA private key")
	}

	return privateKey, nil
}

func parseRSAPublicKey(pemData []byte) (*rsa.PublicKey, error) {
	block, _ := pem.Decode(pemData)
	if block == nil {
		return nil, errors.New("failed to parse PEM block containing the key")
	}

	publicKey, err := x509.ParsePKIXPublicKey(block.Bytes)
	if err != nil {
		return nil, fmt.Errorf("failed to parse public key: %w", err)
	}

	rsaPublicKey, ok := publicKey.(*rsa.PublicKey)
	if !ok {
		return nil, errors.New("not an RSA public key")
	}

	return rsaPublicKey, nil
}
