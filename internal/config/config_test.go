package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_AppliesDefaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/auracheck")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 400, cfg.Thresholds.Moderate)
	assert.Equal(t, 700, cfg.Thresholds.Critical)
	assert.Equal(t, 45*time.Minute, cfg.Snooze.Duration)
	assert.Equal(t, ":3000", cfg.API.Port)
	assert.Equal(t, "/api", cfg.API.BasePath)
	assert.Equal(t, 500, cfg.Dispatch.QueueSize)
	assert.Equal(t, 10, cfg.Dispatch.MaxWorkers)
	assert.False(t, cfg.SMSConfigured())
}

func TestLoad_ReadsOverrides(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/auracheck")
	t.Setenv("THRESHOLD_MODERATE", "300")
	t.Setenv("THRESHOLD_CRITICAL", "600")
	t.Setenv("SNOOZE_MINUTES", "15")
	t.Setenv("TWILIO_ACCOUNT_SID", "AC123")
	t.Setenv("TWILIO_AUTH_TOKEN", "token")
	t.Setenv("TWILIO_MESSAGING_SERVICE_SID", "MG123")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 300, cfg.Thresholds.Moderate)
	assert.Equal(t, 600, cfg.Thresholds.Critical)
	assert.Equal(t, 15*time.Minute, cfg.Snooze.Duration)
	assert.True(t, cfg.SMSConfigured())
}

func TestLoad_MissingDSNFails(t *testing.T) {
	t.Setenv("DATABASE_URL", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DATABASE_URL")
}

func TestLoad_InvertedThresholdsFail(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/auracheck")
	t.Setenv("THRESHOLD_MODERATE", "800")
	t.Setenv("THRESHOLD_CRITICAL", "700")

	_, err := Load()
	require.Error(t, err)
}
