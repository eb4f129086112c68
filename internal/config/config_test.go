package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "gemini", cfg.AI.Provider)
	assert.Equal(t, 20, cfg.Sample.Limit)
	assert.Equal(t, 8111, cfg.HTTP.Port)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoad_FileThenEnvOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
algolia:
  app_id: file-app
  index_name: products
ai:
  provider: openai
  model: gpt-4o
sample:
  limit: 5
http:
  port: 9000
  basic_auth_users:
    demo: secret
`), 0o644))

	t.Setenv("ALGOLIA_APP_ID", "env-app")
	t.Setenv("INDEXPILOT_MODEL", "gpt-4o-mini")

	cfg, err := Load(path)
	require.NoError(t, err)

	// env wins over file
	assert.Equal(t, "env-app", cfg.Algolia.AppID)
	assert.Equal(t, "gpt-4o-mini", cfg.AI.Model)

	// file values survive where no env is set
	assert.Equal(t, "products", cfg.Algolia.IndexName)
	assert.Equal(t, "openai", cfg.AI.Provider)
	assert.Equal(t, 5, cfg.Sample.Limit)
	assert.Equal(t, 9000, cfg.HTTP.Port)
	assert.Equal(t, map[string]string{"demo": "secret"}, cfg.HTTP.BasicAuthUsers)
}

func TestLoad_UnknownProvider(t *testing.T) {
	t.Setenv("INDEXPILOT_PROVIDER", "oracle")
	_, err := Load("")
	require.Error(t, err)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestRequireAlgolia(t *testing.T) {
	cfg := Config{}
	require.Error(t, cfg.RequireAlgolia())

	cfg.Algolia = AlgoliaConfig{AppID: "a", AdminKey: "k"}
	require.Error(t, cfg.RequireAlgolia())

	cfg.Algolia.IndexName = "products"
	require.NoError(t, cfg.RequireAlgolia())
}
