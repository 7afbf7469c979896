// Command caredemo draws the care example scenes for a number of frames.
//
// Usage:
//
//	caredemo -scene lines -frames 120
//	caredemo -config demo.toml -watch
//
// Without a window the frames are rendered offscreen; the noop backend
// runs anywhere and only exercises the frame pipeline.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"golang.org/x/term"

	"github.com/gogpu/care"
	"github.com/gogpu/care/draw"
	"github.com/gogpu/care/gpu"
)

func main() {
	var (
		configPath = flag.String("config", "", "TOML or YAML config file")
		sceneName  = flag.String("scene", "lines", "scene to draw")
		backend    = flag.String("backend", "", "override the config backend: auto, vulkan or noop")
		frames     = flag.Int("frames", -1, "override the config frame count; 0 runs until interrupted")
		texture    = flag.String("texture", "", "image file drawn by the texture scene")
		watch      = flag.Bool("watch", false, "reload colors and line style when the config file changes")
	)
	flag.Parse()

	cfg := care.DefaultConfig()
	if *configPath != "" {
		var err error
		if cfg, err = care.LoadConfig(*configPath); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	}
	if *backend != "" {
		cfg.Backend = *backend
	}
	if *frames >= 0 {
		cfg.Frames = *frames
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	level, _ := cfg.Level()
	care.SetLogger(newLogger(level))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, cfg, *configPath, *sceneName, *texture, *watch); err != nil {
		care.Logger().Error("caredemo failed", "err", err)
		os.Exit(1)
	}
}

// newLogger writes text to a terminal and JSON otherwise.
func newLogger(level slog.Level) *slog.Logger {
	opts := &slog.HandlerOptions{Level: level}
	if term.IsTerminal(int(os.Stderr.Fd())) {
		return slog.New(slog.NewTextHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewJSONHandler(os.Stderr, opts))
}

func openDevice(cfg care.Config) (*gpu.Device, error) {
	opts := []gpu.Option{
		gpu.WithSize(cfg.Width, cfg.Height),
		gpu.WithLabel("caredemo"),
		gpu.WithAdapter(cfg.Adapter),
	}
	switch cfg.Backend {
	case care.BackendNoop:
		return gpu.NewNoop(opts...)
	case care.BackendVulkan:
		return gpu.NewStandalone(opts...)
	}
	d, err := gpu.NewStandalone(opts...)
	if err == nil {
		return d, nil
	}
	care.Logger().Warn("no GPU device, using the noop backend", "err", err)
	return gpu.NewNoop(opts...)
}

func run(ctx context.Context, cfg care.Config, configPath, sceneName, texturePath string, watch bool) error {
	drawFrame, ok := scenes[sceneName]
	if !ok && sceneName != "texture" {
		return fmt.Errorf("unknown scene %q (have %s, texture)", sceneName, sceneNames())
	}

	device, err := openDevice(cfg)
	if err != nil {
		return fmt.Errorf("open device: %w", err)
	}
	defer device.Close()

	opts, err := cfg.Options()
	if err != nil {
		return err
	}
	c, err := care.New(device, opts...)
	if err != nil {
		return err
	}
	defer c.Close()

	if sceneName == "texture" {
		if texturePath == "" {
			return errors.New("the texture scene needs -texture")
		}
		tex, err := c.LoadTexture(texturePath)
		if err != nil {
			return err
		}
		defer tex.Destroy()
		drawFrame = func(c *care.Context, _ int) { drawTexture(c, tex) }
	}

	reloads := make(chan care.Config, 1)
	if watch && configPath != "" {
		go func() {
			err := care.WatchConfig(ctx, configPath, func(cfg care.Config, err error) {
				if err != nil {
					care.Logger().Warn("config reload failed", "err", err)
					return
				}
				select {
				case reloads <- cfg:
				default:
				}
			})
			if err != nil {
				care.Logger().Warn("config watch stopped", "err", err)
			}
		}()
	}

	care.Logger().Info("rendering",
		"scene", sceneName, "adapter", device.AdapterName(),
		"size", fmt.Sprintf("%dx%d", cfg.Width, cfg.Height), "frames", cfg.Frames)

	start := time.Now()
	n := 0
	for ; cfg.Frames == 0 || n < cfg.Frames; n++ {
		select {
		case <-ctx.Done():
			return report(n, start)
		case next := <-reloads:
			apply(c, next)
		default:
		}
		drawFrame(c, n)
		if err := c.Present(); err != nil {
			return fmt.Errorf("frame %d: %w", n, err)
		}
	}
	return report(n, start)
}

// apply updates the settings of c that can change between frames.
func apply(c *care.Context, cfg care.Config) {
	join, err := draw.ParseLineJoinStyle(cfg.LineJoin)
	if err != nil {
		return
	}
	end, err := draw.ParseLineEndStyle(cfg.LineEnd)
	if err != nil {
		return
	}
	cc := cfg.ClearColor
	c.SetClearColor(draw.RGBA(cc[0], cc[1], cc[2], cc[3]))
	c.SetLineStyle(join, end)
	c.SetTextSize(cfg.TextSize)
}

func report(frames int, start time.Time) error {
	elapsed := time.Since(start)
	fps := 0.0
	if elapsed > 0 {
		fps = float64(frames) / elapsed.Seconds()
	}
	care.Logger().Info("done", "frames", frames, "elapsed", elapsed.Round(time.Millisecond), "fps", fmt.Sprintf("%.1f", fps))
	return nil
}
