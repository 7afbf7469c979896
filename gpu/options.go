package gpu

import (
	"github.com/gogpu/gputypes"

	gpuimpl "github.com/gogpu/care/internal/gpu"
)

// SurfaceFuncs connects a device to a window surface owned by the host.
type SurfaceFuncs = gpuimpl.SurfaceFuncs

// Default offscreen size when WithSize is not given.
const (
	DefaultWidth  = 800
	DefaultHeight = 600
)

// Option configures device creation.
type Option func(*options)

type options struct {
	label         string
	spirv         bool
	format        gputypes.TextureFormat
	width, height int
	surface       *SurfaceFuncs
	adapter       string
}

func defaultOptions() options {
	return options{
		label:  "care",
		width:  DefaultWidth,
		height: DefaultHeight,
	}
}

func newOptions(opts []Option) options {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithLabel sets the prefix of GPU object debug labels.
func WithLabel(label string) Option {
	return func(o *options) {
		if label != "" {
			o.label = label
		}
	}
}

// WithSPIRV loads the shader as SPIR-V compiled by naga instead of
// handing WGSL to the driver.
func WithSPIRV(enabled bool) Option {
	return func(o *options) {
		o.spirv = enabled
	}
}

// WithSurfaceFormat sets the color format of the render target. The
// default is RGBA8Unorm offscreen and the provider's surface format for
// NewFromProvider.
func WithSurfaceFormat(format gputypes.TextureFormat) Option {
	return func(o *options) {
		o.format = format
	}
}

// WithSize sets the initial target size in pixels.
func WithSize(width, height int) Option {
	return func(o *options) {
		o.width, o.height = width, height
	}
}

// WithSurface renders into a host window surface instead of an offscreen
// texture.
func WithSurface(funcs SurfaceFuncs) Option {
	return func(o *options) {
		o.surface = &funcs
	}
}

// WithAdapter prefers the adapter whose name contains name. It applies to
// NewStandalone only.
func WithAdapter(name string) Option {
	return func(o *options) {
		o.adapter = name
	}
}
