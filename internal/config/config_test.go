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
	assert.Equal(t, "tcp", cfg.Mode)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 24*time.Hour, cfg.TokenTTL)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "funil.yaml")
	require.NoError(t, os.WriteFile(path, []byte("mode: uds\nport: \"9090\"\njwt_secret: s3cr3t\ntoken_ttl: 1h\n"), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "uds", cfg.Mode)
	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "s3cr3t", cfg.JWTSecret)
	assert.Equal(t, time.Hour, cfg.TokenTTL)
}

func TestEnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "funil.yaml")
	require.NoError(t, os.WriteFile(path, []byte("port: \"9090\"\n"), 0o600))
	t.Setenv("PORT", "3000")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "3000", cfg.Port)
}

func TestBadMode(t *testing.T) {
	t.Setenv("SERVER_MODE", "carrier-pigeon")
	_, err := Load("")
	assert.Error(t, err)
}

func TestMissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}
