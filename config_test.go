package care

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gogpu/care/draw"
)

func TestParseConfigTOML(t *testing.T) {
	data := []byte(`
width = 1280
height = 720
backend = "noop"
clear_color = [0.5, 0.25, 0.0, 1.0]
max_textures = 4
line_join = "miter"
line_end = "flat"
log_level = "debug"
frames = 3
`)
	cfg, err := ParseConfig(data, ".toml")
	require.NoError(t, err)
	assert.Equal(t, 1280, cfg.Width)
	assert.Equal(t, 720, cfg.Height)
	assert.Equal(t, BackendNoop, cfg.Backend)
	assert.Equal(t, [4]float32{0.5, 0.25, 0, 1}, cfg.ClearColor)
	assert.Equal(t, 4, cfg.MaxTextures)
	assert.Equal(t, 3, cfg.Frames)
	// Missing keys keep their defaults.
	assert.Equal(t, float32(DefaultTextSize), cfg.TextSize)

	level, err := cfg.Level()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, level)
}

func TestParseConfigYAML(t *testing.T) {
	data := []byte("width: 320\nheight: 240\nline_join: bevel\ntext_size: 24\n")
	cfg, err := ParseConfig(data, "yml")
	require.NoError(t, err)
	assert.Equal(t, 320, cfg.Width)
	assert.Equal(t, "bevel", cfg.LineJoin)
	assert.Equal(t, float32(24), cfg.TextSize)
	assert.Equal(t, BackendAuto, cfg.Backend)

	empty, err := ParseConfig(nil, "yaml")
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), empty)
}

func TestParseConfigErrors(t *testing.T) {
	tests := []struct {
		name   string
		data   string
		format string
	}{
		{"unknown format", "width = 1", "ini"},
		{"unknown toml key", "colour = 1", "toml"},
		{"unknown yaml key", "colour: 1", "yaml"},
		{"bad toml", "width = ", "toml"},
		{"zero width", "width = 0", "toml"},
		{"unknown backend", `backend = "metal"`, "toml"},
		{"unknown join", `line_join = "wobbly"`, "toml"},
		{"unknown end", "line_end: square", "yaml"},
		{"bad level", `log_level = "loud"`, "toml"},
		{"negative frames", "frames: -1", "yaml"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseConfig([]byte(tt.data), tt.format)
			assert.Error(t, err)
		})
	}

	_, err := ParseConfig([]byte(`backend = "metal"`), "toml")
	assert.ErrorIs(t, err, ErrUnknownBackend)
}

func TestConfigOptions(t *testing.T) {
	cfg := DefaultConfig()
	cfg.LineJoin = "miter-unlimited"
	cfg.LineEnd = "point"
	cfg.MaxTextures = 2
	cfg.TextSize = 30
	cfg.ClearColor = [4]float32{0.1, 0.2, 0.3, 1}

	opts, err := cfg.Options()
	require.NoError(t, err)
	c := newTestContext(t, newFakeDevice(100, 100), opts...)

	join, end := c.LineStyle()
	assert.Equal(t, draw.JoinMiterUnlimited, join)
	assert.Equal(t, draw.EndPoint, end)
	assert.Equal(t, 2, c.MaxTextures())
	assert.Equal(t, float32(30), c.textSize)
	assert.Equal(t, draw.RGBA(0.1, 0.2, 0.3, 1), c.clearColor)
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "care.toml")
	require.NoError(t, os.WriteFile(path, []byte("width = 640\nheight = 480\n"), 0o600))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 640, cfg.Width)

	_, err = LoadConfig(filepath.Join(dir, "missing.toml"))
	assert.Error(t, err)
}

func TestWatchConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "care.yaml")
	require.NoError(t, os.WriteFile(path, []byte("width: 100\nheight: 100\n"), 0o600))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reloaded := make(chan Config, 8)
	done := make(chan error, 1)
	go func() {
		done <- WatchConfig(ctx, path, func(cfg Config, err error) {
			if err != nil {
				return
			}
			select {
			case reloaded <- cfg:
			default:
			}
		})
	}()

	// The watcher is added asynchronously; keep rewriting until it sees a
	// change.
	deadline := time.After(5 * time.Second)
	tick := time.NewTicker(50 * time.Millisecond)
	defer tick.Stop()
	for {
		select {
		case cfg := <-reloaded:
			// A reload can observe the truncated file mid-write.
			if cfg.Width != 200 {
				continue
			}
			cancel()
			require.NoError(t, <-done)
			return
		case <-tick.C:
			require.NoError(t, os.WriteFile(path, []byte("width: 200\nheight: 100\n"), 0o600))
		case <-deadline:
			t.Fatal("no reload within 5s")
		}
	}
}
