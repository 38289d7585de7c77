package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	cfg := Default()

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "https://rideright.ke", cfg.Site.URL)
	assert.Equal(t, "254741535521", cfg.Site.WhatsAppPhone)
	assert.Equal(t, "production", cfg.Catalog.Dataset)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoadRequiresProjectID(t *testing.T) {
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "project ID")
}

func TestEnvironmentOverridesDefaults(t *testing.T) {
	t.Setenv("SANITY_PROJECT_ID", "abc123")
	t.Setenv("STOREFRONT_PORT", "9090")
	t.Setenv("REDIS_URL", "redis://localhost:6379")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "abc123", cfg.Catalog.ProjectID)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "redis://localhost:6379", cfg.Redis.URL)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestFileThenEnvironmentPrecedence(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "storefront.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  port: 7000
site:
  url: https://file.rideright.ke
catalog:
  project_id: from-file
`), 0o600))

	t.Setenv("STOREFRONT_CONFIG", path)
	t.Setenv("STOREFRONT_SITE_URL", "https://env.rideright.ke")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 7000, cfg.Server.Port, "file value survives when no env override")
	assert.Equal(t, "https://env.rideright.ke", cfg.Site.URL, "environment beats file")
	assert.Equal(t, "from-file", cfg.Catalog.ProjectID)
}

func TestOptionsWinOverEverything(t *testing.T) {
	t.Setenv("SANITY_PROJECT_ID", "abc123")
	t.Setenv("STOREFRONT_PORT", "9090")

	cfg, err := Load(WithPort(3000), WithSiteURL("https://opt.rideright.ke"))
	require.NoError(t, err)

	assert.Equal(t, 3000, cfg.Server.Port)
	assert.Equal(t, "https://opt.rideright.ke", cfg.Site.URL)
}

func TestValidateRejectsBadPort(t *testing.T) {
	cfg := Default()
	cfg.Catalog.ProjectID = "abc123"
	cfg.Server.Port = -1
	require.Error(t, cfg.Validate())
}

func TestLoadRejectsUnreadableFile(t *testing.T) {
	t.Setenv("STOREFRONT_CONFIG", filepath.Join(t.TempDir(), "missing.yaml"))
	_, err := Load()
	require.Error(t, err)
}

func TestAIKeyFallback(t *testing.T) {
	t.Setenv("SANITY_PROJECT_ID", "abc123")
	t.Setenv("OPENAI_API_KEY", "sk-fallback")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "sk-fallback", cfg.AI.APIKey)

	t.Setenv("AI_API_KEY", "sk-primary")
	cfg, err = Load()
	require.NoError(t, err)
	assert.Equal(t, "sk-primary", cfg.AI.APIKey)
}
