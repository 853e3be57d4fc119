package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Timezone(t *testing.T) {
	t.Setenv("JWT_SECRET", "config-test-secret")

	t.Run("defaults to UTC", func(t *testing.T) {
		t.Setenv("APP_TIMEZONE", "")
		cfg, err := LoadConfig()
		require.NoError(t, err)
		assert.Equal(t, time.UTC, cfg.App.Location)
	})

	t.Run("named zone", func(t *testing.T) {
		t.Setenv("APP_TIMEZONE", "Asia/Jakarta")
		cfg, err := LoadConfig()
		require.NoError(t, err)
		require.NotNil(t, cfg.App.Location)
		assert.Equal(t, "Asia/Jakarta", cfg.App.Location.String())

		_, offset := time.Date(2030, 1, 7, 9, 0, 0, 0, cfg.App.Location).Zone()
		assert.Equal(t, 7*60*60, offset)
	})

	t.Run("unknown zone", func(t *testing.T) {
		t.Setenv("APP_TIMEZONE", "Mars/Olympus_Mons")
		_, err := LoadConfig()
		assert.ErrorContains(t, err, "APP_TIMEZONE")
	})
}

func TestLoadConfig_RequiresJWTSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	_, err := LoadConfig()
	assert.EqualError(t, err, "JWT_SECRET is required")
}
