package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ayusman/spellcast/internal/gesture"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, ":4999", cfg.Server.Addr)
	assert.Equal(t, 640, cfg.Camera.Width)
	assert.Equal(t, 480, cfg.Camera.Height)
	assert.True(t, cfg.Camera.Mirror)
	assert.Equal(t, 1, cfg.Detector.MaxHands)
	assert.Equal(t, 0.7, cfg.Detector.MinConfidence)
	assert.Equal(t, gesture.DefaultParams(), cfg.Gesture.Params())
	assert.Equal(t, 60, cfg.Gesture.Params().CooldownFrames())
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
server:
  addr: "127.0.0.1:8080"
camera:
  device_id: 1
  mirror: false
gesture:
  swipe_threshold: 150
  frame_rate: 15
  cooldown: 4s
webhook:
  url: http://localhost:9000/hook
log:
  mode: development
`)

	cfg, err := Load(path, false)
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:8080", cfg.Server.Addr)
	assert.Equal(t, 1, cfg.Camera.DeviceID)
	assert.False(t, cfg.Camera.Mirror)
	// Omitted keys keep their defaults.
	assert.Equal(t, 640, cfg.Camera.Width)
	assert.Equal(t, 80.0, cfg.Gesture.PinchThreshold)

	p := cfg.Gesture.Params()
	assert.Equal(t, 150, p.SwipeThreshold)
	assert.Equal(t, 4*time.Second, p.Cooldown)
	assert.Equal(t, 60, p.CooldownFrames())

	assert.Equal(t, "http://localhost:9000/hook", cfg.Webhook.URL)
	assert.Equal(t, 3*time.Second, cfg.Webhook.Timeout)
	assert.Equal(t, "development", cfg.Log.Mode)
}

func TestLoad_Missing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "absent.yaml")

	cfg, err := Load(path, true)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)

	_, err = Load(path, false)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"malformed yaml", "server: [unclosed"},
		{"zero frame rate", "gesture:\n  frame_rate: 0\n"},
		{"negative pinch", "gesture:\n  pinch_threshold: -1\n"},
		{"window too small", "gesture:\n  window_size: 5\n"},
		{"bad cooldown", "gesture:\n  cooldown: soon\n"},
		{"confidence above one", "detector:\n  min_confidence: 1.5\n"},
		{"no hands", "detector:\n  max_hands: 0\n"},
		{"empty store", "store:\n  path: \"\"\n"},
		{"unknown log mode", "log:\n  mode: chatty\n"},
		{"zero camera fps", "camera:\n  fps: 0\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body), false)
			assert.Error(t, err)
		})
	}
}
