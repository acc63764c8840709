package common

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDefaultConfig(t *testing.T) {
	config := NewDefaultConfig()

	assert.Equal(t, "development", config.Environment)
	assert.Equal(t, "default", config.DefaultAccount)
	assert.Equal(t, 8086, config.Server.Port)
	assert.Equal(t, "https://stooq.com", config.Clients.Stooq.BaseURL)
	assert.False(t, config.IsProduction())
}

func TestLoadConfigFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "kabu.toml")
	content := `
environment = "production"
default_account = "main"

[server]
port = 9090

[clients.stooq]
rate_limit = 2
timeout = "5s"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	config, err := LoadConfig(path)
	require.NoError(t, err)

	assert.True(t, config.IsProduction())
	assert.Equal(t, "main", config.DefaultAccount)
	assert.Equal(t, 9090, config.Server.Port)
	assert.Equal(t, 2, config.Clients.Stooq.RateLimit)
	// Unset fields keep defaults
	assert.Equal(t, "0.0.0.0", config.Server.Host)
	assert.Equal(t, "https://stooq.com", config.Clients.Stooq.BaseURL)
}

func TestLoadConfigMissingFileUsesDefaults(t *testing.T) {
	config, err := LoadConfig("/nonexistent/kabu.toml")
	require.NoError(t, err)
	assert.Equal(t, 8086, config.Server.Port)
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	t.Setenv("KABU_PORT", "7777")
	t.Setenv("KABU_DEFAULT_ACCOUNT", "env-account")
	t.Setenv("KABU_DATA_PATH", "/var/lib/kabu")

	config, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, 7777, config.Server.Port)
	assert.Equal(t, "env-account", config.DefaultAccount)
	assert.Equal(t, filepath.Join("/var/lib/kabu", "internal"), config.Storage.Internal.Path)
	assert.Equal(t, filepath.Join("/var/lib/kabu", "user"), config.Storage.User.Path)
}

func TestStooqConfigDurations(t *testing.T) {
	c := StooqConfig{Timeout: "5s", RefreshInterval: "1h"}
	assert.Equal(t, "5s", c.GetTimeout().String())
	assert.Equal(t, "1h0m0s", c.GetRefreshInterval().String())

	// Unparseable values fall back to defaults
	bad := StooqConfig{Timeout: "soon", RefreshInterval: ""}
	assert.Equal(t, "15s", bad.GetTimeout().String())
	assert.Equal(t, "15m0s", bad.GetRefreshInterval().String())
}
