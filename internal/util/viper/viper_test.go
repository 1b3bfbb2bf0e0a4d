package viper

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewViperEnvKeyReplacer(t *testing.T) {
	t.Setenv("KONGADMIN_LOG_LEVEL", "debug")
	t.Setenv("KONGADMIN_ON_PREM_ADMIN_URL", "http://kong:8001")

	v := NewViper("nonexistent.yaml")

	assert.Equal(t, "debug", v.GetString("log-level"))
	assert.Equal(t, "http://kong:8001", v.GetString("on-prem.admin-url"))
}

func TestNewViperEnvKeyReplacerProfileWithDashes(t *testing.T) {
	t.Setenv("KONGADMIN_TEAM_A_ON_PREM_ADMIN_TOKEN", "token-123")

	v := NewViper("nonexistent.yaml")
	v.Set("team-a", map[string]any{})

	profile := v.Sub("team-a")
	require.NotNil(t, profile)
	assert.Equal(t, "token-123", profile.GetString("on-prem.admin-token"))
}

func TestNewViperEFailsOnMissingFile(t *testing.T) {
	_, err := NewViperE(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestInitializeDefaultViperWritesDefaultsOnce(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	defaults := map[string]any{"default": map[string]any{"output": "text"}}

	v, err := InitializeDefaultViper(defaults, path)
	require.NoError(t, err)
	assert.Equal(t, "text", v.GetString("default.output"))

	contents, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(contents), "output: text")

	require.NoError(t, os.WriteFile(path, []byte("default:\n  output: json\n"), 0o600))
	v, err = InitializeDefaultViper(defaults, path)
	require.NoError(t, err)
	assert.Equal(t, "json", v.GetString("default.output"))
}
