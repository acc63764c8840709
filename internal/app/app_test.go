package app

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kabu-app/kabu/internal/common"
)

func testLogger() *common.Logger {
	return common.NewSilentLogger()
}

func TestNewApp(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "kabu.toml")
	content := `
[storage.internal]
path = "` + filepath.Join(dir, "internal") + `"

[storage.user]
path = "` + filepath.Join(dir, "user") + `"

[logging]
level = "error"
outputs = []
`
	require.NoError(t, os.WriteFile(configPath, []byte(content), 0644))

	a, err := NewApp(configPath)
	require.NoError(t, err)
	defer a.Shutdown()

	assert.NotNil(t, a.Storage)
	assert.NotNil(t, a.PortfolioService)
	assert.NotNil(t, a.SignalService)
	assert.NotNil(t, a.WatchlistService)
	assert.False(t, a.StartupTime.IsZero())
	assert.Equal(t, "default", a.Config.DefaultAccount)
}

func TestAppShutdownStopsScheduler(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "kabu.toml")
	content := `
[storage.internal]
path = "` + filepath.Join(dir, "internal") + `"

[storage.user]
path = "` + filepath.Join(dir, "user") + `"

[logging]
level = "error"
outputs = []
`
	require.NoError(t, os.WriteFile(configPath, []byte(content), 0644))

	a, err := NewApp(configPath)
	require.NoError(t, err)

	a.StartQuoteScheduler()
	assert.NoError(t, a.Shutdown())
}
