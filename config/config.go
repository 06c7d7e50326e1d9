package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type EmailConfig struct {
	ResendAPIKey string
	From         string
	AdminAddress string
	MaxAttempts  int
	BackoffUnit  time.Duration
}

type JWTConfig struct {
	Secret   string
	Issuer   string
	Audience string
}

type Config struct {
	Port     string
	GinMode  string
	LogLevel string

	PostgresURI string
	RedisAddr   string

	GCSBucket          string
	GCSCredentialsFile string
	UploadDir          string
	CatalogDir         string

	Email EmailConfig
	JWT   JWTConfig

	ExternalCallTimeout time.Duration
	CatalogCacheTTL     time.Duration
	SubmitRateLimit     int
	SubmitRateWindow    time.Duration
	NotifyRateLimit     int
	NotifyRateWindow    time.Duration
}

// ErrMissingResendKey is fatal: the service must not accept traffic without a mail provider.
var ErrMissingResendKey = errors.New("RESEND_API_KEY environment variable is not set")

// Load reads .env (optional) and the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return load(viper.New())
}

func load(v *viper.Viper) (*Config, error) {
	v.AutomaticEnv()

	v.SetDefault("PORT", "8080")
	v.SetDefault("GIN_MODE", "release")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("UPLOAD_DIR", "./uploads")
	v.SetDefault("MAIL_FROM", "Après mon Bac <noreply@apresmonbac.bj>")
	v.SetDefault("ADMIN_EMAIL", "contact@apresmonbac.bj")
	v.SetDefault("EXTERNAL_CALL_TIMEOUT", "15s")
	v.SetDefault("EMAIL_MAX_ATTEMPTS", 2)
	v.SetDefault("EMAIL_BACKOFF_UNIT", "1s")
	v.SetDefault("CATALOG_CACHE_TTL", "10m")
	v.SetDefault("SUBMIT_RATE_LIMIT", 5)
	v.SetDefault("SUBMIT_RATE_WINDOW", "1m")
	v.SetDefault("NOTIFY_RATE_LIMIT", 5)
	v.SetDefault("NOTIFY_RATE_WINDOW", "1m")

	cfg := &Config{
		Port:               v.GetString("PORT"),
		GinMode:            v.GetString("GIN_MODE"),
		LogLevel:           v.GetString("LOG_LEVEL"),
		PostgresURI:        strings.TrimSpace(v.GetString("POSTGRES_URI")),
		RedisAddr:          firstNonEmpty(v.GetString("REDIS_ADDR"), v.GetString("REDIS_URI"), v.GetString("REDIS_URL")),
		GCSBucket:          strings.TrimSpace(v.GetString("GCS_BUCKET")),
		GCSCredentialsFile: v.GetString("GOOGLE_APPLICATION_CREDENTIALS"),
		UploadDir:          v.GetString("UPLOAD_DIR"),
		CatalogDir:         v.GetString("CATALOG_DIR"),
		Email: EmailConfig{
			ResendAPIKey: strings.TrimSpace(v.GetString("RESEND_API_KEY")),
			From:         v.GetString("MAIL_FROM"),
			AdminAddress: v.GetString("ADMIN_EMAIL"),
			MaxAttempts:  v.GetInt("EMAIL_MAX_ATTEMPTS"),
		},
		JWT: JWTConfig{
			Secret:   v.GetString("JWT_SECRET"),
			Issuer:   v.GetString("JWT_ISSUER"),
			Audience: v.GetString("JWT_AUDIENCE"),
		},
		SubmitRateLimit: v.GetInt("SUBMIT_RATE_LIMIT"),
		NotifyRateLimit: v.GetInt("NOTIFY_RATE_LIMIT"),
	}

	var err error
	if cfg.ExternalCallTimeout, err = duration(v, "EXTERNAL_CALL_TIMEOUT"); err != nil {
		return nil, err
	}
	if cfg.Email.BackoffUnit, err = duration(v, "EMAIL_BACKOFF_UNIT"); err != nil {
		return nil, err
	}
	if cfg.CatalogCacheTTL, err = duration(v, "CATALOG_CACHE_TTL"); err != nil {
		return nil, err
	}
	if cfg.SubmitRateWindow, err = duration(v, "SUBMIT_RATE_WINDOW"); err != nil {
		return nil, err
	}
	if cfg.NotifyRateWindow, err = duration(v, "NOTIFY_RATE_WINDOW"); err != nil {
		return nil, err
	}

	if cfg.Email.ResendAPIKey == "" {
		return nil, ErrMissingResendKey
	}
	if cfg.PostgresURI == "" {
		return nil, errors.New("POSTGRES_URI environment variable is not set")
	}
	if cfg.Email.MaxAttempts < 1 {
		cfg.Email.MaxAttempts = 1
	}
	return cfg, nil
}

func duration(v *viper.Viper, key string) (time.Duration, error) {
	d, err := time.ParseDuration(v.GetString(key))
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("invalid %s: negative duration", key)
	}
	return d, nil
}

func firstNonEmpty(vals ...string) string {
	for _, s := range vals {
		if s = strings.TrimSpace(s); s != "" {
			return s
		}
	}
	return ""
}
