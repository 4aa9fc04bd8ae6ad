package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, contents string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	t.Setenv("CONFIG_PATH", path)
}

func TestLoad(t *testing.T) {
	writeConfig(t, `
api:
  base_url: "https://brightbite.example/api"
  timeout: 5
realtime:
  url: "wss://brightbite.example/ws/orders"
  reconnect_delay: 2
  max_retries: 4
tracking:
  poll_interval: 1
`)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "https://brightbite.example/api", cfg.API.BaseURL)
	assert.Equal(t, 5*time.Second, cfg.API.TimeoutDuration())
	assert.Equal(t, "wss://brightbite.example/ws/orders", cfg.Realtime.URL)
	assert.Equal(t, 2*time.Second, cfg.Realtime.ReconnectDelayDuration())
	assert.Equal(t, 4, cfg.Realtime.MaxRetries)
	assert.Equal(t, time.Second, cfg.Tracking.PollIntervalDuration())
}

func TestLoadDefaults(t *testing.T) {
	writeConfig(t, `
api:
  base_url: "https://brightbite.example/api"
realtime:
  url: "wss://brightbite.example/ws/orders"
`)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 15*time.Second, cfg.API.TimeoutDuration())
	assert.Equal(t, 3*time.Second, cfg.Realtime.ReconnectDelayDuration())
	assert.Equal(t, 3*time.Second, cfg.Tracking.PollIntervalDuration())
	assert.Zero(t, cfg.Realtime.MaxRetries, "reconnects are unbounded by default")
}

func TestLoadMissingFile(t *testing.T) {
	t.Setenv("CONFIG_PATH", filepath.Join(t.TempDir(), "nope.yaml"))
	_, err := Load()
	assert.Error(t, err)
}
