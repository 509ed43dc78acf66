package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "binance", cfg.Upstream.Mode)
	assert.Equal(t, "BOB", cfg.Upstream.Fiat)
	assert.Equal(t, "USDT", cfg.Upstream.Asset)
	assert.Equal(t, 20, cfg.Upstream.Rows)
	assert.Equal(t, time.Minute, cfg.Ingest.IntervalDur)
	assert.Equal(t, 1000, cfg.Ingest.HistoryLimit)
	assert.Equal(t, "file", cfg.Snapshot.Backend)
}

func TestLoadYAMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  port: 9000
ingest:
  interval: 30s
  history_limit: 50
snapshot:
  backend: "off"
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, 30*time.Second, cfg.Ingest.IntervalDur)
	assert.Equal(t, 50, cfg.Ingest.HistoryLimit)
	assert.Equal(t, "off", cfg.Snapshot.Backend)
	// Untouched sections keep their defaults.
	assert.Equal(t, "binance", cfg.Upstream.Mode)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server:\n  port: 9000\n"), 0o644))

	t.Setenv("SERVER_PORT", "9100")
	t.Setenv("UPSTREAM_MODE", "synthetic")
	t.Setenv("INGEST_INTERVAL", "5s")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9100, cfg.Server.Port)
	assert.Equal(t, "synthetic", cfg.Upstream.Mode)
	assert.Equal(t, 5*time.Second, cfg.Ingest.IntervalDur)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	cases := map[string]string{
		"bad interval":    "ingest:\n  interval: soon\n",
		"zero limit":      "ingest:\n  history_limit: 0\n",
		"unknown mode":    "upstream:\n  mode: scraper\n",
		"unknown backend": "snapshot:\n  backend: s3\n",
		"bad port":        "server:\n  port: -1\n",
	}

	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.yaml")
			require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

			_, err := Load(path)
			assert.Error(t, err)
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}
