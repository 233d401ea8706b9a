package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("SLACK_ENABLED", "")
	t.Setenv("CACHE_USER_TTL", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "8000", cfg.App.Port)
	assert.Equal(t, "sqlite:///./talentdesk.db", cfg.Database.URL)
	assert.Equal(t, time.Minute, cfg.Cache.UserTTL)
	assert.Equal(t, 60*time.Minute, cfg.Auth.TokenTTL())
	assert.Same(t, cfg, Get())
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("ALLOWED_ORIGINS", "https://admin.example.com, https://sales.example.com")
	t.Setenv("CACHE_LOOKUP_TTL", "30s")
	t.Setenv("DEBUG", "true")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "9090", cfg.App.Port)
	assert.True(t, cfg.App.Debug)
	assert.Equal(t, []string{"https://admin.example.com", "https://sales.example.com"}, cfg.CORS.AllowedOrigins)
	assert.Equal(t, 30*time.Second, cfg.Cache.LookupTTL)
}

func TestLoad_SlackRequiresWebhook(t *testing.T) {
	t.Setenv("SLACK_ENABLED", "true")
	t.Setenv("SLACK_WEBHOOK_URL", "")

	_, err := Load()
	assert.ErrorContains(t, err, "SLACK_WEBHOOK_URL")
}

func TestValidateForServing(t *testing.T) {
	cfg := &Config{Auth: AuthConfig{SecretKey: defaultSecretKey}}
	assert.Error(t, cfg.ValidateForServing())

	cfg.Auth.SecretKey = "short"
	assert.ErrorContains(t, cfg.ValidateForServing(), "32")

	cfg.Auth.SecretKey = "0123456789abcdef0123456789abcdef"
	assert.NoError(t, cfg.ValidateForServing())
}

func TestDatabaseConfig(t *testing.T) {
	pg := DatabaseConfig{URL: "postgresql://app:pw@db:5432/talent?sslmode=disable"}
	assert.True(t, pg.IsPostgres())

	lite := DatabaseConfig{URL: "sqlite:///./data/app.db"}
	assert.False(t, lite.IsPostgres())
	assert.Equal(t, "./data/app.db", lite.GetSQLitePath())
}
