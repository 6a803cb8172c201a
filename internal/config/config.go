package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"yacht_charter_backend/pkg/utils"
)

// Config is the process configuration, read from the environment.
type Config struct {
	DB DBConfig

	Port               string
	JWTSecret          string
	AccessTokenTTL     time.Duration
	RefreshTokenTTL    time.Duration
	CORSAllowedOrigins []string
	LogLevel           string
	LogFormat          string
	GinMode            string

	ExpiryEnabled       bool
	PendingBookingTTL   time.Duration
	ExpirySweepInterval time.Duration
	ShutdownTimeout     time.Duration
}

// DBConfig holds PostgreSQL connection settings.
type DBConfig struct {
	Host         string
	Port         string
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
}

// DSN renders the lib/pq key/value connection string.
func (c DBConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode)
}

const devJWTSecret = "dev-only-insecure-secret"

// Load reads an optional .env file and then the environment.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return FromEnv()
}

// FromEnv builds a Config from environment variables only.
func FromEnv() (*Config, error) {
	cfg := &Config{
		DB: DBConfig{
			Host:         utils.Getenv("DB_HOST", "localhost"),
			Port:         utils.Getenv("DB_PORT", "5432"),
			User:         utils.Getenv("DB_USER", "yacht_user"),
			Password:     utils.Getenv("DB_PASSWORD", "yacht_password"),
			Name:         utils.Getenv("DB_NAME", "yacht_charter_db"),
			SSLMode:      utils.Getenv("DB_SSLMODE", "disable"),
			MaxOpenConns: utils.GetenvInt("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns: utils.GetenvInt("DB_MAX_IDLE_CONNS", 5),
		},
		Port:                utils.Getenv("PORT", "8080"),
		JWTSecret:           utils.Getenv("JWT_SECRET", ""),
		AccessTokenTTL:      utils.GetenvDuration("ACCESS_TOKEN_TTL", utils.DefaultAccessTokenTTL),
		RefreshTokenTTL:     utils.GetenvDuration("REFRESH_TOKEN_TTL", utils.DefaultRefreshTokenTTL),
		CORSAllowedOrigins:  splitList(utils.Getenv("CORS_ALLOWED_ORIGINS", "http://localhost:3000,http://localhost:3001")),
		LogLevel:            utils.Getenv("LOG_LEVEL", "info"),
		LogFormat:           utils.Getenv("LOG_FORMAT", "console"),
		GinMode:             utils.Getenv("GIN_MODE", "release"),
		ExpiryEnabled:       utils.Getenv("EXPIRY_WORKER_ENABLED", "true") == "true",
		PendingBookingTTL:   utils.GetenvDuration("PENDING_BOOKING_TTL", 30*time.Minute),
		ExpirySweepInterval: utils.GetenvDuration("EXPIRY_SWEEP_INTERVAL", 5*time.Minute),
		ShutdownTimeout:     utils.GetenvDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
	}

	if cfg.JWTSecret == "" {
		if cfg.GinMode == "release" {
			return nil, errors.New("JWT_SECRET must be set in release mode")
		}
		cfg.JWTSecret = devJWTSecret
	}
	return cfg, nil
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
