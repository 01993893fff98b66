package config

import (
	"log/slog"
	"testing"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/leave"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("STORE_DRIVER", "memory")
	t.Setenv("JWT_SECRET_KEY", "secret")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example.com, https://b.example.com")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, StoreDriverMemory, cfg.Database.Driver)
	assert.Equal(t, 8080, cfg.App.Port)
	assert.Equal(t, 8.0, cfg.Attendance.StandardDayHours)
	assert.Equal(t, leave.DefaultEntitlements(), cfg.Entitlements())
	assert.Equal(t, []string{"https://a.example.com", "https://b.example.com"}, cfg.CORS.AllowedOrigins)
	assert.Equal(t, slog.LevelInfo, cfg.SlogLevel())
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("STORE_DRIVER", "postgres")
	t.Setenv("DB_PASSWORD", "pw")
	t.Setenv("DB_HOST", "db")
	t.Setenv("JWT_SECRET_KEY", "secret")
	t.Setenv("STANDARD_DAY_HOURS", "7.5")
	t.Setenv("LEAVE_CEILING_ANNUAL", "25")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 7.5, cfg.Attendance.StandardDayHours)
	assert.Equal(t, 25.0, cfg.Entitlements()[leave.CategoryAnnual])
	assert.Equal(t, "postgres://postgres:pw@db:5432/attendance?sslmode=disable", cfg.DatabaseURL())
	assert.Equal(t, slog.LevelDebug, cfg.SlogLevel())
}

func TestLoad_Invalid(t *testing.T) {
	cases := map[string]map[string]string{
		"missing jwt secret":  {"STORE_DRIVER": "memory"},
		"missing db password": {"STORE_DRIVER": "postgres", "JWT_SECRET_KEY": "secret"},
		"unknown driver":      {"STORE_DRIVER": "sqlite", "JWT_SECRET_KEY": "secret"},
		"bad standard day":    {"STORE_DRIVER": "memory", "JWT_SECRET_KEY": "secret", "STANDARD_DAY_HOURS": "abc"},
		"negative ceiling":    {"STORE_DRIVER": "memory", "JWT_SECRET_KEY": "secret", "LEAVE_CEILING_SICK": "-1"},
	}
	for name, env := range cases {
		t.Run(name, func(t *testing.T) {
			for _, key := range []string{"JWT_SECRET_KEY", "DB_PASSWORD", "STANDARD_DAY_HOURS", "LEAVE_CEILING_SICK"} {
				t.Setenv(key, "")
			}
			for k, v := range env {
				t.Setenv(k, v)
			}
			_, err := Load()
			assert.Error(t, err)
		})
	}
}
