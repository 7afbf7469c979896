package gpu

import (
	"log/slog"

	gpuimpl "github.com/gogpu/care/internal/gpu"
)

// logger shares the renderer's logger, which care.SetLogger configures.
func logger() *slog.Logger { return gpuimpl.Logger() }
