package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadEnvConfigDefaults(t *testing.T) {
	require.NoError(t, LoadEnvConfig(filepath.Join(t.TempDir(), "missing.env")))

	cfg := DefaultEnvConfig
	require.NotNil(t, cfg)
	assert.Equal(t, 30*time.Second, cfg.FETCH_TIMEOUT)
	assert.Equal(t, 2, cfg.FETCH_MAX_RETRIES)
	assert.False(t, cfg.FETCH_PARALLEL)
	assert.Contains(t, cfg.MARKET_FILTER_OUT, "2022_SA")
	assert.Equal(t, "info", cfg.LOG_LEVEL)
}

func TestLoadEnvConfigFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.env")
	content := "FETCH_URL=https://survey.example.com/api\n" +
		"FETCH_TIMEOUT=45\n" +
		"FETCH_PARALLEL=true\n" +
		"MARKET_FILTER_IN=KR, 2023_DE ,\n" +
		"MARKET_FILTER_OUT=-\n" +
		"RUN_TIMEOUT=10m\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	for _, key := range []string{"FETCH_URL", "FETCH_TIMEOUT", "FETCH_PARALLEL", "MARKET_FILTER_IN", "MARKET_FILTER_OUT", "RUN_TIMEOUT"} {
		key := key
		prev, had := os.LookupEnv(key)
		t.Cleanup(func() {
			if had {
				os.Setenv(key, prev)
			} else {
				os.Unsetenv(key)
			}
		})
	}

	require.NoError(t, LoadEnvConfig(path))

	cfg := DefaultEnvConfig
	assert.Equal(t, "https://survey.example.com/api", cfg.FETCH_URL)
	assert.Equal(t, 45*time.Second, cfg.FETCH_TIMEOUT)
	assert.True(t, cfg.FETCH_PARALLEL)
	assert.Equal(t, []string{"KR", "2023_DE"}, cfg.MARKET_FILTER_IN)
	assert.Nil(t, cfg.MARKET_FILTER_OUT)
	assert.Equal(t, 10*time.Minute, cfg.RUN_TIMEOUT)
}

func TestGetEnvHelpers(t *testing.T) {
	t.Setenv("QT_INT", "nope")
	t.Setenv("QT_BOOL", "1")
	t.Setenv("QT_DURATION", "1500ms")

	assert.Equal(t, 7, getEnvInt("QT_INT", 7))
	assert.True(t, getEnvBool("QT_BOOL", false))
	assert.Equal(t, 1500*time.Millisecond, getEnvDuration("QT_DURATION", time.Second))
	assert.Equal(t, "fallback", getEnvString("QT_UNSET", "fallback"))
	assert.Equal(t, []string{"a"}, getEnvList("QT_UNSET", []string{"a"}))
}
