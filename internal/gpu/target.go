package gpu

import (
	"errors"
	"fmt"
	"time"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// ErrNoSurfaceFuncs is returned when a surface target lacks the acquire or
// present callback.
var ErrNoSurfaceFuncs = errors.New("gpu: surface target needs Acquire and Present")

// ErrFenceTimeout is returned when the GPU does not finish a frame within
// the fence timeout.
var ErrFenceTimeout = errors.New("gpu: fence wait timed out")

// fenceTimeout bounds every wait for the GPU.
const fenceTimeout = 5 * time.Second

// Target is where a Renderer draws its frames.
type Target interface {
	// Format is the color format of the views returned by Acquire.
	Format() gputypes.TextureFormat
	// Size returns the size in pixels.
	Size() (width, height int)
	// Acquire returns the view the next frame renders into.
	Acquire() (hal.TextureView, error)
	// Present shows the last rendered frame.
	Present() error
	// Resize changes the size in pixels.
	Resize(width, height int) error
	// Destroy releases resources owned by the target.
	Destroy()
}

// OffscreenTarget renders into a texture owned by the target. Its pixels
// can be read back with ReadPixels.
type OffscreenTarget struct {
	device hal.Device
	queue  hal.Queue
	format gputypes.TextureFormat

	width, height int
	tex           hal.Texture
	view          hal.TextureView

	presented uint64
}

// NewOffscreenTarget creates a width x height render texture. Format must
// be RGBA8Unorm or BGRA8Unorm.
func NewOffscreenTarget(device hal.Device, queue hal.Queue, width, height int, format gputypes.TextureFormat) (*OffscreenTarget, error) {
	switch format {
	case gputypes.TextureFormatRGBA8Unorm, gputypes.TextureFormatBGRA8Unorm:
	default:
		return nil, fmt.Errorf("gpu: unsupported offscreen format %v", format)
	}
	t := &OffscreenTarget{device: device, queue: queue, format: format}
	if err := t.Resize(width, height); err != nil {
		return nil, err
	}
	return t, nil
}

// Format implements Target.
func (t *OffscreenTarget) Format() gputypes.TextureFormat { return t.format }

// Size implements Target.
func (t *OffscreenTarget) Size() (int, int) { return t.width, t.height }

// Acquire implements Target. Every frame renders into the same texture.
func (t *OffscreenTarget) Acquire() (hal.TextureView, error) {
	if t.view == nil {
		return nil, errors.New("gpu: offscreen target destroyed")
	}
	return t.view, nil
}

// Present implements Target. Offscreen frames are not shown anywhere; the
// count of presented frames is kept for callers that poll it.
func (t *OffscreenTarget) Present() error {
	t.presented++
	return nil
}

// Presented returns how many frames were presented.
func (t *OffscreenTarget) Presented() uint64 { return t.presented }

// Resize implements Target. The old texture is discarded.
func (t *OffscreenTarget) Resize(width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("gpu: invalid target size %dx%d", width, height)
	}
	if t.tex != nil && width == t.width && height == t.height {
		return nil
	}
	t.Destroy()

	tex, err := t.device.CreateTexture(&hal.TextureDescriptor{
		Label:         "care_offscreen",
		Size:          hal.Extent3D{Width: uint32(width), Height: uint32(height), DepthOrArrayLayers: 1},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        t.format,
		Usage:         gputypes.TextureUsageRenderAttachment | gputypes.TextureUsageCopySrc,
	})
	if err != nil {
		return fmt.Errorf("create offscreen texture: %w", err)
	}
	view, err := t.device.CreateTextureView(tex, &hal.TextureViewDescriptor{
		Label:         "care_offscreen_view",
		Format:        t.format,
		Dimension:     gputypes.TextureViewDimension2D,
		Aspect:        gputypes.TextureAspectAll,
		MipLevelCount: 1,
	})
	if err != nil {
		t.device.DestroyTexture(tex)
		return fmt.Errorf("create offscreen view: %w", err)
	}
	t.tex, t.view = tex, view
	t.width, t.height = width, height
	return nil
}

// Destroy implements Target.
func (t *OffscreenTarget) Destroy() {
	if t.view != nil {
		t.device.DestroyTextureView(t.view)
		t.view = nil
	}
	if t.tex != nil {
		t.device.DestroyTexture(t.tex)
		t.tex = nil
	}
}

// ReadPixels copies the target to the CPU as tightly packed RGBA8 rows.
func (t *OffscreenTarget) ReadPixels() ([]byte, error) {
	if t.tex == nil {
		return nil, errors.New("gpu: offscreen target destroyed")
	}
	w, h := uint32(t.width), uint32(t.height)

	// Buffer copies need rows aligned to 256 bytes.
	const copyPitchAlignment = 256
	bytesPerRow := w * 4
	alignedBytesPerRow := (bytesPerRow + copyPitchAlignment - 1) &^ (copyPitchAlignment - 1)
	stagingSize := uint64(alignedBytesPerRow) * uint64(h)

	staging, err := t.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "care_readback",
		Size:  stagingSize,
		Usage: gputypes.BufferUsageMapRead | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("create staging buffer: %w", err)
	}
	defer t.device.DestroyBuffer(staging)

	encoder, err := t.device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{Label: "care_readback"})
	if err != nil {
		return nil, fmt.Errorf("create command encoder: %w", err)
	}
	if err := encoder.BeginEncoding("care_readback"); err != nil {
		return nil, fmt.Errorf("begin encoding: %w", err)
	}
	encoder.TransitionTextures([]hal.TextureBarrier{{
		Texture: t.tex,
		Usage: hal.TextureUsageTransition{
			OldUsage: gputypes.TextureUsageRenderAttachment,
			NewUsage: gputypes.TextureUsageCopySrc,
		},
	}})
	encoder.CopyTextureToBuffer(t.tex, staging, []hal.BufferTextureCopy{{
		BufferLayout: hal.ImageDataLayout{Offset: 0, BytesPerRow: alignedBytesPerRow, RowsPerImage: h},
		TextureBase:  hal.ImageCopyTexture{Texture: t.tex, MipLevel: 0},
		Size:         hal.Extent3D{Width: w, Height: h, DepthOrArrayLayers: 1},
	}})
	encoder.TransitionTextures([]hal.TextureBarrier{{
		Texture: t.tex,
		Usage: hal.TextureUsageTransition{
			OldUsage: gputypes.TextureUsageCopySrc,
			NewUsage: gputypes.TextureUsageRenderAttachment,
		},
	}})
	cmdBuf, err := encoder.EndEncoding()
	if err != nil {
		return nil, fmt.Errorf("end encoding: %w", err)
	}
	defer t.device.FreeCommandBuffer(cmdBuf)

	if err := submitAndWait(t.device, t.queue, cmdBuf); err != nil {
		return nil, err
	}

	raw := make([]byte, stagingSize)
	if err := t.queue.ReadBuffer(staging, 0, raw); err != nil {
		return nil, fmt.Errorf("read back: %w", err)
	}

	out := make([]byte, int(bytesPerRow)*int(h))
	for row := range int(h) {
		copy(out[row*int(bytesPerRow):(row+1)*int(bytesPerRow)], raw[row*int(alignedBytesPerRow):])
	}
	if t.format == gputypes.TextureFormatBGRA8Unorm {
		for i := 0; i+3 < len(out); i += 4 {
			out[i], out[i+2] = out[i+2], out[i]
		}
	}
	return out, nil
}

// SurfaceFuncs connects a SurfaceTarget to a windowing host.
type SurfaceFuncs struct {
	// Acquire returns the view of the surface texture for the next frame.
	Acquire func() (hal.TextureView, error)
	// Present shows the texture returned by the last Acquire.
	Present func() error
	// Resize reconfigures the surface. It may be nil when the host
	// resizes the surface itself.
	Resize func(width, height int) error
}

// SurfaceTarget renders into textures owned by a host window.
type SurfaceTarget struct {
	funcs         SurfaceFuncs
	format        gputypes.TextureFormat
	width, height int
}

// NewSurfaceTarget creates a target drawing into a host surface of the
// given format and size.
func NewSurfaceTarget(format gputypes.TextureFormat, width, height int, funcs SurfaceFuncs) (*SurfaceTarget, error) {
	if funcs.Acquire == nil || funcs.Present == nil {
		return nil, ErrNoSurfaceFuncs
	}
	if format == gputypes.TextureFormatUndefined {
		format = gputypes.TextureFormatBGRA8Unorm
	}
	return &SurfaceTarget{funcs: funcs, format: format, width: width, height: height}, nil
}

// Format implements Target.
func (s *SurfaceTarget) Format() gputypes.TextureFormat { return s.format }

// Size implements Target.
func (s *SurfaceTarget) Size() (int, int) { return s.width, s.height }

// Acquire implements Target.
func (s *SurfaceTarget) Acquire() (hal.TextureView, error) {
	view, err := s.funcs.Acquire()
	if err != nil {
		return nil, fmt.Errorf("acquire surface texture: %w", err)
	}
	return view, nil
}

// Present implements Target.
func (s *SurfaceTarget) Present() error {
	if err := s.funcs.Present(); err != nil {
		return fmt.Errorf("present surface: %w", err)
	}
	return nil
}

// Resize implements Target.
func (s *SurfaceTarget) Resize(width, height int) error {
	if s.funcs.Resize != nil {
		if err := s.funcs.Resize(width, height); err != nil {
			return fmt.Errorf("resize surface: %w", err)
		}
	}
	s.width, s.height = width, height
	return nil
}

// Destroy implements Target. The host owns the surface.
func (s *SurfaceTarget) Destroy() {}

// submitAndWait submits one command buffer and blocks until the GPU has
// executed it.
func submitAndWait(device hal.Device, queue hal.Queue, cmdBuf hal.CommandBuffer) error {
	fence, err := device.CreateFence()
	if err != nil {
		return fmt.Errorf("create fence: %w", err)
	}
	defer device.DestroyFence(fence)

	if err := queue.Submit([]hal.CommandBuffer{cmdBuf}, fence, 1); err != nil {
		return fmt.Errorf("submit: %w", err)
	}
	return waitResult(device.Wait(fence, 1, fenceTimeout))
}

// waitResult turns the result of a fence wait into an error.
func waitResult(ok bool, err error) error {
	if err != nil {
		return fmt.Errorf("wait for GPU: %w", err)
	}
	if !ok {
		return fmt.Errorf("wait for GPU after %v: %w", fenceTimeout, ErrFenceTimeout)
	}
	return nil
}
