package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"novel-adventure/internal/config"
	"novel-adventure/internal/domain"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.AppEnv)
	assert.Equal(t, "http://localhost:5000", cfg.Services.BaseURL)
	assert.Equal(t, "/api/game", cfg.Services.NarrativePath)
	assert.Equal(t, "/api/generate-image", cfg.Services.ScenePath)
	assert.Equal(t, time.Duration(0), cfg.Services.HTTPClientTimeout)
	assert.Equal(t, domain.DefaultPlaceholderScene, cfg.Session.PlaceholderScene)
	assert.Equal(t, domain.DefaultInitialNarrative, cfg.Session.InitialNarrative)
	assert.Equal(t, "stderr", cfg.Logger.OutputPath)
	assert.Equal(t, 15*time.Second, cfg.Metrics.PushInterval)
	assert.False(t, cfg.ViewEnabled())
	assert.False(t, cfg.PushEnabled())
	assert.False(t, cfg.IsProduction())
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("GAME_SERVICE_URL", "http://story.local:9000")
	t.Setenv("HTTP_CLIENT_TIMEOUT", "30s")
	t.Setenv("PLACEHOLDER_SCENE", "/static/blank.jpg")
	t.Setenv("VIEW_ADDR", ":8090")
	t.Setenv("VIEW_ALLOWED_ORIGINS", "http://a.local,http://b.local")
	t.Setenv("PUSHGATEWAY_URL", "http://pushgateway:9091")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.True(t, cfg.IsProduction())
	assert.Equal(t, "http://story.local:9000", cfg.Services.BaseURL)
	assert.Equal(t, 30*time.Second, cfg.Services.HTTPClientTimeout)
	assert.True(t, cfg.ViewEnabled())
	assert.Equal(t, []string{"http://a.local", "http://b.local"}, cfg.View.AllowedOrigins)
	assert.True(t, cfg.PushEnabled())

	defaults := cfg.SessionDefaults()
	assert.Equal(t, "/static/blank.jpg", defaults.PlaceholderScene)
}

func TestLoad_InvalidServiceURL(t *testing.T) {
	t.Setenv("GAME_SERVICE_URL", "not a url")

	_, err := config.Load()
	assert.Error(t, err)
}

func TestLoad_InvalidNarrativePath(t *testing.T) {
	t.Setenv("NARRATIVE_PATH", "api/game")

	_, err := config.Load()
	assert.Error(t, err)
}
