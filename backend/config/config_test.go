package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("DB_DRIVER", "postgres")
	t.Setenv("DB_DSN", "")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.ServerPort)
	assert.Equal(t, 0.2, cfg.LateDiscountRate)
	assert.Equal(t, 30*24*time.Hour, cfg.TaskRetention)
	assert.Equal(t, "host=localhost user=postgres password=postgres dbname=aulavirtual port=5432 sslmode=disable", cfg.DSN())
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("DB_NAME", "local")
	t.Setenv("DB_DSN", "")
	t.Setenv("AI_TIMEOUT", "5s")
	t.Setenv("LATE_PENALTY_POINTS", "2.5")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "local.db", cfg.DSN())
	assert.Equal(t, 5*time.Second, cfg.AITimeout)
	assert.Equal(t, 2.5, cfg.LatePenaltyPoints)
}

func TestLoadConfigRejectsUnknownDriver(t *testing.T) {
	t.Setenv("DB_DRIVER", "oracle")

	_, err := LoadConfig()
	assert.Error(t, err)
}

func TestDSNOverride(t *testing.T) {
	cfg := &Config{DBDriver: "postgres", DBDSN: "postgres://x"}
	assert.Equal(t, "postgres://x", cfg.DSN())
}
