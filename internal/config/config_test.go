package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/elnbridge/labarchives-mcp/internal/scope"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"LABARCHIVES_API_URL",
		"LABARCHIVES_ACCESS_KEY_ID",
		"LABARCHIVES_ACCESS_TOKEN",
		"LABARCHIVES_NOTEBOOK_ID",
		"LABARCHIVES_NOTEBOOK_NAME",
		"LABARCHIVES_FOLDER",
		"LABARCHIVES_TIMEOUT_SECONDS",
		"LOG_LEVEL",
	} {
		t.Setenv(key, "")
	}
}

func TestLoad_FromYAML(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `
api:
  base_url: https://eln.example.com
  access_key_id: akid
  access_token: secret
  timeout_seconds: 10
scope:
  folder: "Projects/AI"
log_level: debug
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "https://eln.example.com", cfg.API.BaseURL)
	assert.Equal(t, "akid", cfg.API.AccessKeyID)
	assert.Equal(t, "secret", cfg.API.AccessToken)
	assert.Equal(t, 10*time.Second, cfg.Timeout())
	assert.Equal(t, "debug", cfg.LogLevel)

	sc, err := cfg.ScopeValue()
	require.NoError(t, err)
	assert.Equal(t, scope.ByFolder, sc.Kind())
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `
api:
  base_url: https://file.example.com
scope:
  notebook_id: nb-from-file
`)
	t.Setenv("LABARCHIVES_API_URL", "https://env.example.com")
	t.Setenv("LABARCHIVES_NOTEBOOK_ID", "nb-from-env")
	t.Setenv("LABARCHIVES_TIMEOUT_SECONDS", "45")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "https://env.example.com", cfg.API.BaseURL)
	assert.Equal(t, "nb-from-env", cfg.Scope.NotebookID)
	assert.Equal(t, 45*time.Second, cfg.Timeout())
}

func TestLoad_EnvOnly(t *testing.T) {
	clearEnv(t)
	t.Setenv("LABARCHIVES_API_URL", "https://env.example.com")
	t.Setenv("LABARCHIVES_NOTEBOOK_NAME", "Chemistry")

	cfg, err := Load("")
	require.NoError(t, err)

	sc, err := cfg.ScopeValue()
	require.NoError(t, err)
	assert.Equal(t, scope.ByNotebookName, sc.Kind())
	assert.Equal(t, "Chemistry", sc.NotebookName())
}

func TestLoad_MissingFile(t *testing.T) {
	clearEnv(t)
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
}

func TestValidate_RequiresBaseURL(t *testing.T) {
	clearEnv(t)
	cfg := &Config{}
	require.Error(t, cfg.Validate())
}

func TestValidate_RejectsMultipleScopeVariants(t *testing.T) {
	cfg := &Config{
		API: APIConfig{BaseURL: "https://eln.example.com"},
		Scope: ScopeConfig{
			NotebookID: "nb1",
			Folder:     "Projects/AI",
		},
	}
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "at most one")
}

func TestValidate_RejectsInvalidFolder(t *testing.T) {
	cfg := &Config{
		API:   APIConfig{BaseURL: "https://eln.example.com"},
		Scope: ScopeConfig{Folder: "Projects/../etc"},
	}
	require.Error(t, cfg.Validate())
}

func TestValidate_UnrestrictedWhenNoScope(t *testing.T) {
	cfg := &Config{API: APIConfig{BaseURL: "https://eln.example.com"}}
	require.NoError(t, cfg.Validate())

	sc, err := cfg.ScopeValue()
	require.NoError(t, err)
	assert.Equal(t, scope.Unrestricted, sc.Kind())
}
