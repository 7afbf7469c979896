package care

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"github.com/gogpu/care/geom"
	gpuimpl "github.com/gogpu/care/internal/gpu"
)

func TestLoggerDefaultSilent(t *testing.T) {
	if Logger().Enabled(t.Context(), slog.LevelError) {
		t.Error("default logger should be disabled")
	}
}

func TestSetLoggerPropagates(t *testing.T) {
	var buf bytes.Buffer
	l := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	SetLogger(l)
	defer SetLogger(nil)

	if Logger() != l {
		t.Error("Logger() did not return the logger passed to SetLogger")
	}
	if gpuimpl.Logger() != l {
		t.Error("SetLogger did not reach internal/gpu")
	}

	c := newTestContext(t, newFakeDevice(100, 100))
	c.Rectangle(geom.V2(0, 0), geom.V2(10, 10))
	if err := c.Present(); err != nil {
		t.Fatalf("Present: %v", err)
	}
	if !strings.Contains(buf.String(), "frame presented") {
		t.Errorf("log output missing frame record:\n%s", buf.String())
	}

	SetLogger(nil)
	if Logger().Enabled(t.Context(), slog.LevelError) {
		t.Error("SetLogger(nil) should restore the silent logger")
	}
}
