package server

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, 15*time.Second, cfg.RequestTimeout)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	assert.Empty(t, cfg.AllowedOrigins)
}

func TestLoadConfig_Overrides(t *testing.T) {
	t.Setenv("ADDR", ":9999")
	t.Setenv("ALLOWED_ORIGINS", "http://localhost:3000,https://example.com")
	t.Setenv("REQUEST_TIMEOUT", "30s")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, ":9999", cfg.Addr)
	assert.Equal(t, []string{"http://localhost:3000", "https://example.com"}, cfg.AllowedOrigins)
	assert.Equal(t, 30*time.Second, cfg.RequestTimeout)
}
