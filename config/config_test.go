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
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ":8000", cfg.HTTPAddr)
	assert.Equal(t, StoreRedis, cfg.RoomStore)
	assert.Equal(t, 6*time.Hour, cfg.RoomTTL)
	assert.Equal(t, 3*time.Second, cfg.AIDelay)
	assert.Zero(t, cfg.TurnTimeout)
	assert.Empty(t, cfg.AIRemoteURL)
	assert.Equal(t, 2*time.Second, cfg.AIRemoteTimeout)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("ROOM_STORE", "memory")
	t.Setenv("RESULTS_DRIVER", "none")
	t.Setenv("TURN_TIMEOUT", "45s")
	t.Setenv("CORS_ORIGINS", "http://a.test,http://b.test")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, StoreMemory, cfg.RoomStore)
	assert.Equal(t, ResultsNone, cfg.ResultsDriver)
	assert.Equal(t, 45*time.Second, cfg.TurnTimeout)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORSOrigins)
}

func TestLoadEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("HTTP_ADDR=:9100\nAI_DELAY=250ms\n"), 0o600))
	t.Cleanup(func() {
		os.Unsetenv("HTTP_ADDR")
		os.Unsetenv("AI_DELAY")
	})

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":9100", cfg.HTTPAddr)
	assert.Equal(t, 250*time.Millisecond, cfg.AIDelay)

	_, err = Load(filepath.Join(t.TempDir(), "missing.env"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	t.Setenv("ROOM_STORE", "etcd")
	t.Setenv("LOG_FORMAT", "xml")
	t.Setenv("AI_REMOTE_URL", "http://ai.test/decide")
	t.Setenv("AI_REMOTE_TIMEOUT", "0s")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ROOM_STORE")
	assert.Contains(t, err.Error(), "LOG_FORMAT")
	assert.Contains(t, err.Error(), "AI_REMOTE_TIMEOUT")
}
