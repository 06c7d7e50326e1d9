package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MissingResendKeyIsFatal(t *testing.T) {
	t.Setenv("POSTGRES_URI", "postgres://localhost/orientation")
	t.Setenv("RESEND_API_KEY", "")

	_, err := load(viper.New())
	assert.ErrorIs(t, err, ErrMissingResendKey)
}

func TestLoad_RequiresPostgres(t *testing.T) {
	t.Setenv("RESEND_API_KEY", "re_test")
	t.Setenv("POSTGRES_URI", "")

	_, err := load(viper.New())
	assert.Error(t, err)
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("RESEND_API_KEY", "re_test")
	t.Setenv("POSTGRES_URI", "postgres://localhost/orientation")
	t.Setenv("REDIS_ADDR", "")
	t.Setenv("REDIS_URI", "")
	t.Setenv("REDIS_URL", "redis://cache:6379/0")

	cfg, err := load(viper.New())
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 15*time.Second, cfg.ExternalCallTimeout)
	assert.Equal(t, 2, cfg.Email.MaxAttempts)
	assert.Equal(t, 5, cfg.NotifyRateLimit)
	assert.Equal(t, time.Minute, cfg.NotifyRateWindow)
	assert.Equal(t, time.Second, cfg.Email.BackoffUnit)
	assert.Equal(t, 10*time.Minute, cfg.CatalogCacheTTL)
	assert.Equal(t, 5, cfg.SubmitRateLimit)
	assert.Equal(t, time.Minute, cfg.SubmitRateWindow)
	assert.Equal(t, "redis://cache:6379/0", cfg.RedisAddr)
}

func TestLoad_InvalidDuration(t *testing.T) {
	t.Setenv("RESEND_API_KEY", "re_test")
	t.Setenv("POSTGRES_URI", "postgres://localhost/orientation")
	t.Setenv("EXTERNAL_CALL_TIMEOUT", "soon")

	_, err := load(viper.New())
	assert.Error(t, err)
}
