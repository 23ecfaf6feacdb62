package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadServerEnvDefaults(t *testing.T) {
	cfg, err := LoadServerEnv()
	require.NoError(t, err)
	assert.Equal(t, ":2222", cfg.Addr)
	assert.Equal(t, 30*time.Minute, cfg.IdleTimeout)
}

func TestLoadServerEnvOverrides(t *testing.T) {
	t.Setenv("INVADERS_SSH_ADDR", "127.0.0.1:2300")
	t.Setenv("INVADERS_DB", "/tmp/invaders.db")
	t.Setenv("INVADERS_IDLE_TIMEOUT", "90s")

	cfg, err := LoadServerEnv()
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:2300", cfg.Addr)
	assert.Equal(t, "/tmp/invaders.db", cfg.DBPath)
	assert.Equal(t, 90*time.Second, cfg.IdleTimeout)

	t.Setenv("INVADERS_IDLE_TIMEOUT", "soon")
	_, err = LoadServerEnv()
	assert.Error(t, err)
}
