package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/leave"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/timeutil"
	"github.com/joho/godotenv"
)

const (
	StoreDriverPostgres = "postgres"
	StoreDriverMemory   = "memory"
)

type Config struct {
	Database   DatabaseConfig
	JWT        JWTConfig
	App        AppConfig
	CORS       CORSConfig
	Attendance AttendanceConfig
	Leave      LeaveConfig
}

type DatabaseConfig struct {
	Driver   string
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret           string
	AccessExpiration string
}

// AppConfig holds application configuration
type AppConfig struct {
	Port     int
	Env      string
	LogLevel string
}

type CORSConfig struct {
	AllowedOrigins []string
}

type AttendanceConfig struct {
	StandardDayHours float64
}

// LeaveConfig holds the per-category ceilings in days
type LeaveConfig struct {
	Annual    float64
	Sick      float64
	Casual    float64
	Maternity float64
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("error loading .env file: %w", err)
	}

	config := &Config{}

	// Database configuration
	dbPort, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}

	config.Database = DatabaseConfig{
		Driver:   strings.ToLower(getEnv("STORE_DRIVER", StoreDriverPostgres)),
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     dbPort,
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", "attendance"),
		SSLMode:  getEnv("DB_SSL_MODE", "disable"),
	}

	// Application configuration
	appPort, err := strconv.Atoi(getEnv("APP_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid APP_PORT: %w", err)
	}

	config.App = AppConfig{
		Port:     appPort,
		Env:      getEnv("APP_ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
	}

	// JWT configuration
	config.JWT = JWTConfig{
		Secret:           getEnv("JWT_SECRET_KEY", ""),
		AccessExpiration: getEnv("JWT_ACCESS_EXPIRATION_TIME", "1h"),
	}

	config.CORS = CORSConfig{
		AllowedOrigins: getEnvSlice("CORS_ALLOWED_ORIGINS", []string{"http://localhost:3000"}),
	}

	standardDay, err := getEnvFloat("STANDARD_DAY_HOURS", timeutil.DefaultStandardDayHours)
	if err != nil {
		return nil, err
	}
	config.Attendance = AttendanceConfig{StandardDayHours: standardDay}

	defaults := leave.DefaultEntitlements()
	ceilings := map[string]*float64{
		"LEAVE_CEILING_ANNUAL":    &config.Leave.Annual,
		"LEAVE_CEILING_SICK":      &config.Leave.Sick,
		"LEAVE_CEILING_CASUAL":    &config.Leave.Casual,
		"LEAVE_CEILING_MATERNITY": &config.Leave.Maternity,
	}
	fallbacks := map[string]float64{
		"LEAVE_CEILING_ANNUAL":    defaults[leave.CategoryAnnual],
		"LEAVE_CEILING_SICK":      defaults[leave.CategorySick],
		"LEAVE_CEILING_CASUAL":    defaults[leave.CategoryCasual],
		"LEAVE_CEILING_MATERNITY": defaults[leave.CategoryMaternity],
	}
	for key, dst := range ceilings {
		if *dst, err = getEnvFloat(key, fallbacks[key]); err != nil {
			return nil, err
		}
	}

	// Validate required fields
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case StoreDriverPostgres:
		if c.Database.Password == "" {
			return fmt.Errorf("DB_PASSWORD is required")
		}
	case StoreDriverMemory:
		if c.App.Env == "production" {
			slog.Warn("memory store driver in production keeps no data across restarts")
		}
	default:
		return fmt.Errorf("STORE_DRIVER must be %q or %q", StoreDriverPostgres, StoreDriverMemory)
	}
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET_KEY is required")
	}
	if c.Attendance.StandardDayHours <= 0 || c.Attendance.StandardDayHours > 24 {
		return fmt.Errorf("STANDARD_DAY_HOURS must be between 0 and 24")
	}
	for _, v := range []float64{c.Leave.Annual, c.Leave.Sick, c.Leave.Casual, c.Leave.Maternity} {
		if v < 0 {
			return fmt.Errorf("LEAVE_CEILING_* values must not be negative")
		}
	}
	return nil
}

// Entitlements returns the configured leave ceilings.
func (c *Config) Entitlements() leave.Entitlements {
	return leave.Entitlements{
		leave.CategoryAnnual:    c.Leave.Annual,
		leave.CategorySick:      c.Leave.Sick,
		leave.CategoryCasual:    c.Leave.Casual,
		leave.CategoryMaternity: c.Leave.Maternity,
	}
}

// DatabaseURL returns the PostgreSQL connection string
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

// SlogLevel maps LOG_LEVEL onto slog levels, defaulting to info.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.App.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) (float64, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return f, nil
}

func getEnvSlice(env string, fallback []string) []string {
	value := getEnv(env, "")
	if value == "" {
		return fallback
	}
	var result []string
	for _, v := range strings.Split(value, ",") {
		if v = strings.TrimSpace(v); v != "" {
			result = append(result, v)
		}
	}
	return result
}
