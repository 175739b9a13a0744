package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// Credential transports. A deployment uses exactly one.
const (
	TransportBearer = "bearer"
	TransportCookie = "cookie"
)

// Config holds the application configuration. It is loaded once at startup
// and never mutated afterwards.
type Config struct {
	ServerPort     int
	DatabasePath   string
	LogLevel       string
	AllowedOrigins []string

	JWTSecret     []byte
	JWTAlgorithm  string
	TokenTTL      time.Duration
	AuthTransport string
	CookieName    string
	CookieSecure  bool
	BcryptCost    int

	// Optional bootstrap account promoted to ADMIN at startup.
	AdminEmail    string
	AdminPassword string
}

// Load loads configuration from environment variables (and an optional .env
// file) or sets defaults.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("No .env file found, relying on environment variables")
	}

	port, err := strconv.Atoi(getEnv("PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid PORT: %w", err)
	}
	ttlMinutes, err := strconv.Atoi(getEnv("TOKEN_TTL_MINUTES", "30"))
	if err != nil {
		return nil, fmt.Errorf("invalid TOKEN_TTL_MINUTES: %w", err)
	}
	if ttlMinutes <= 0 {
		return nil, errors.New("TOKEN_TTL_MINUTES must be positive")
	}
	cost, err := strconv.Atoi(getEnv("BCRYPT_COST", "10"))
	if err != nil {
		return nil, fmt.Errorf("invalid BCRYPT_COST: %w", err)
	}

	cfg := &Config{
		ServerPort:     port,
		DatabasePath:   getEnv("DATABASE_PATH", "./bookshelf.db"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		AllowedOrigins: splitList(getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:3000")),
		JWTSecret:      []byte(getEnv("JWT_SECRET", "")),
		JWTAlgorithm:   strings.ToUpper(getEnv("JWT_ALGORITHM", "HS256")),
		TokenTTL:       time.Duration(ttlMinutes) * time.Minute,
		AuthTransport:  strings.ToLower(getEnv("AUTH_TRANSPORT", TransportBearer)),
		CookieName:     getEnv("AUTH_COOKIE_NAME", "token"),
		CookieSecure:   getEnv("APP_ENV", "") == "production",
		BcryptCost:     cost,
		AdminEmail:     getEnv("ADMIN_EMAIL", ""),
		AdminPassword:  getEnv("ADMIN_PASSWORD", ""),
	}

	if len(cfg.JWTSecret) == 0 {
		return nil, errors.New("JWT_SECRET must be set")
	}
	switch cfg.JWTAlgorithm {
	case "HS256", "HS384", "HS512":
	default:
		return nil, fmt.Errorf("unsupported JWT_ALGORITHM %q", cfg.JWTAlgorithm)
	}
	if cfg.AuthTransport != TransportBearer && cfg.AuthTransport != TransportCookie {
		return nil, fmt.Errorf("AUTH_TRANSPORT must be %q or %q, got %q", TransportBearer, TransportCookie, cfg.AuthTransport)
	}
	if (cfg.AdminEmail == "") != (cfg.AdminPassword == "") {
		return nil, errors.New("ADMIN_EMAIL and ADMIN_PASSWORD must be set together")
	}

	return cfg, nil
}

// Helper to get an environment variable with a default value.
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
