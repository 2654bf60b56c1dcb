package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempJSON(t *testing.T, data map[string]any) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cfg.json")
	b, err := json.Marshal(data)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, b, 0o600))
	return path
}

func Test_parseFile(t *testing.T) {
	t.Run("json overrides only present keys", func(t *testing.T) {
		path := writeTempJSON(t, map[string]any{
			"server_base_url":    "https://papers.example",
			"search_debounce":    "1s",
			"request_timeout":    int64(2 * time.Second),
			"trust_server_order": true,
		})

		cfg := defaults()
		require.NoError(t, parseFile(cfg, []string{"-config", path}))

		assert.Equal(t, "https://papers.example", cfg.ServerBaseURL)
		assert.Equal(t, time.Second, cfg.SearchDebounce)
		assert.Equal(t, 2*time.Second, cfg.RequestTimeout)
		assert.True(t, cfg.TrustServerOrder)
		assert.Equal(t, 10, cfg.PageSize)
		assert.Equal(t, "paperkeeper.db", cfg.DBPath)
	})

	t.Run("no file flag leaves config untouched", func(t *testing.T) {
		cfg := defaults()
		require.NoError(t, parseFile(cfg, []string{"-a", "http://x"}))
		assert.Equal(t, defaults(), cfg)
	})

	t.Run("invalid json", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bad.json")
		require.NoError(t, os.WriteFile(path, []byte(`{ nope`), 0o600))

		err := parseFile(defaults(), []string{"-c", path})
		require.ErrorIs(t, err, ErrInvalidConfig)
	})

	t.Run("invalid yaml duration", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bad.yml")
		require.NoError(t, os.WriteFile(path, []byte("refresh_interval: often\n"), 0o600))

		err := parseFile(defaults(), []string{"-c", path})
		require.ErrorIs(t, err, ErrInvalidConfig)
	})
}
