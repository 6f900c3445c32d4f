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
	cfg, err := Load(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "localhost:8080", cfg.Addr())
	assert.Equal(t, "standard", cfg.Game.Variant)
	assert.Equal(t, "black", cfg.Game.EngineSide)
	assert.Equal(t, "minimax", cfg.Engine.Kind)
	assert.Equal(t, 2, cfg.Engine.Depth)
	assert.Equal(t, 5*time.Second, cfg.Engine.UCITimeout)
	assert.Equal(t, 24*time.Hour, cfg.Auth.TokenTTL)
	assert.Equal(t, "info", cfg.Development.LogLevel)
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	yaml := `
server:
  port: 9090
game:
  variant: racing
  engine_side: white
engine:
  kind: uci
  uci_path: /usr/bin/stockfish
  uci_timeout: 250ms
auth:
  token_ttl: 1h
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0o644))

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "racing", cfg.Game.Variant)
	assert.Equal(t, "white", cfg.Game.EngineSide)
	assert.Equal(t, "uci", cfg.Engine.Kind)
	assert.Equal(t, "/usr/bin/stockfish", cfg.Engine.UCIPath)
	assert.Equal(t, 250*time.Millisecond, cfg.Engine.UCITimeout)
	assert.Equal(t, time.Hour, cfg.Auth.TokenTTL)
	assert.Equal(t, "localhost", cfg.Server.Host)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("CHESSVARIANTS_GAME_VARIANT", "fog")
	t.Setenv("CHESSVARIANTS_ENGINE_DEPTH", "3")
	t.Setenv("CHESSVARIANTS_AUTH_SEAT_SECRET", "s3cret")

	cfg, err := Load(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, "fog", cfg.Game.Variant)
	assert.Equal(t, 3, cfg.Engine.Depth)
	assert.Equal(t, "s3cret", cfg.Auth.SeatSecret)
}

func TestLoadInvalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"engine kind", "engine:\n  kind: neural\n"},
		{"engine side", "game:\n  engine_side: both\n"},
		{"viewer side", "game:\n  viewer_side: none\n"},
		{"depth", "engine:\n  depth: 0\n"},
		{"malformed", "server: [\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(tt.yaml), 0o644))
			_, err := Load(dir)
			assert.Error(t, err)
		})
	}
}
