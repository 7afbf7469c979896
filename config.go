package care

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/gogpu/care/draw"
)

// Backend names accepted in Config.Backend.
const (
	BackendAuto   = "auto"
	BackendVulkan = "vulkan"
	BackendNoop   = "noop"
)

// Config is the file form of the Context and device settings, read from
// TOML or YAML.
//
//	width = 1280
//	height = 720
//	backend = "vulkan"
//	clear_color = [0.1, 0.1, 0.1, 1.0]
//	line_join = "miter"
//	line_end = "flat"
//	log_level = "debug"
type Config struct {
	Width       int        `toml:"width" yaml:"width"`
	Height      int        `toml:"height" yaml:"height"`
	Backend     string     `toml:"backend" yaml:"backend"`
	Adapter     string     `toml:"adapter" yaml:"adapter"`
	ClearColor  [4]float32 `toml:"clear_color" yaml:"clear_color"`
	MaxTextures int        `toml:"max_textures" yaml:"max_textures"`
	TextSize    float32    `toml:"text_size" yaml:"text_size"`
	LineJoin    string     `toml:"line_join" yaml:"line_join"`
	LineEnd     string     `toml:"line_end" yaml:"line_end"`
	LogLevel    string     `toml:"log_level" yaml:"log_level"`
	// Frames is the number of frames the demo renders; 0 means until
	// interrupted.
	Frames int `toml:"frames" yaml:"frames"`
}

// DefaultConfig returns the settings used for keys missing from a file.
func DefaultConfig() Config {
	return Config{
		Width:      800,
		Height:     600,
		Backend:    BackendAuto,
		ClearColor: [4]float32{0, 0, 0, 1},
		TextSize:   DefaultTextSize,
		LineJoin:   draw.JoinRounded.String(),
		LineEnd:    draw.EndRounded.String(),
		LogLevel:   "info",
	}
}

// LoadConfig reads a config file. The format follows the extension: .toml,
// or .yaml and .yml.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("care: read config: %w", err)
	}
	cfg, err := ParseConfig(data, filepath.Ext(path))
	if err != nil {
		return Config{}, fmt.Errorf("care: config %s: %w", path, err)
	}
	return cfg, nil
}

// ParseConfig decodes data in format ("toml", "yaml" or "yml", with or
// without a leading dot) over DefaultConfig and validates the result.
// Unknown keys are errors.
func ParseConfig(data []byte, format string) (Config, error) {
	cfg := DefaultConfig()
	switch strings.ToLower(strings.TrimPrefix(format, ".")) {
	case "toml":
		if err := toml.NewDecoder(bytes.NewReader(data)).DisallowUnknownFields().Decode(&cfg); err != nil {
			return Config{}, fmt.Errorf("toml: %w", err)
		}
	case "yaml", "yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
			return Config{}, fmt.Errorf("yaml: %w", err)
		}
	default:
		return Config{}, fmt.Errorf("unsupported config format %q", format)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks sizes and names.
func (c Config) Validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("%w: surface %dx%d", ErrInvalidTextureSize, c.Width, c.Height)
	}
	switch c.Backend {
	case BackendAuto, BackendVulkan, BackendNoop:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownBackend, c.Backend)
	}
	if _, err := draw.ParseLineJoinStyle(c.LineJoin); err != nil {
		return err
	}
	if _, err := draw.ParseLineEndStyle(c.LineEnd); err != nil {
		return err
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	if c.Frames < 0 {
		return fmt.Errorf("care: negative frame count %d", c.Frames)
	}
	return nil
}

// Level parses LogLevel ("debug", "info", "warn", "error").
func (c Config) Level() (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("care: log level: %w", err)
	}
	return l, nil
}

// Options converts the Context settings of c to options for New.
func (c Config) Options() ([]Option, error) {
	join, err := draw.ParseLineJoinStyle(c.LineJoin)
	if err != nil {
		return nil, err
	}
	end, err := draw.ParseLineEndStyle(c.LineEnd)
	if err != nil {
		return nil, err
	}
	cc := c.ClearColor
	return []Option{
		WithClearColor(draw.RGBA(cc[0], cc[1], cc[2], cc[3])),
		WithLineStyle(join, end),
		WithTextSize(c.TextSize),
		WithMaxTextures(c.MaxTextures),
	}, nil
}

// WatchConfig calls fn with the reloaded config whenever the file at path
// is written or replaced, until ctx is done. Load errors are passed to fn
// and do not stop the watch.
//
// The parent directory is watched so that editors replacing the file by
// rename are seen.
func WatchConfig(ctx context.Context, path string, fn func(Config, error)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("care: watch config: %w", err)
	}
	defer watcher.Close()

	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("care: watch config: %w", err)
	}
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("care: watch config: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != abs {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			cfg, err := LoadConfig(abs)
			if err == nil {
				Logger().Info("config reloaded", "path", abs)
			}
			fn(cfg, err)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			Logger().Warn("config watch error", "err", err)
		}
	}
}
