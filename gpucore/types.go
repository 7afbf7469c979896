package gpucore

import "errors"

var (
	// ErrInvalidTextureSize is returned for a texture with a zero, negative
	// or over-limit dimension, or pixel data of the wrong length.
	ErrInvalidTextureSize = errors.New("gpucore: invalid texture size")

	// ErrForeignTexture is returned when a device is handed a texture
	// resource it did not create.
	ErrForeignTexture = errors.New("gpucore: texture belongs to another device")

	// ErrDeviceClosed is returned by a device after Close.
	ErrDeviceClosed = errors.New("gpucore: device is closed")
)

// MaxTextureSlots is the number of texture/sampler pairs compiled into the
// 2D shader. It bounds the number of distinct textures in one draw call
// whatever the hardware reports.
const MaxTextureSlots = 8

// Limits holds the hardware limits relevant to texture batching. Field
// names follow the WebGPU limits they are read from.
type Limits struct {
	MaxBindingsPerBindGroup          uint32
	MaxSampledTexturesPerShaderStage uint32
	MaxSamplersPerShaderStage        uint32
	MaxTextureDimension2D            uint32
}

// MaxTextures returns how many textures one draw call may bind. Each slot
// uses one texture binding and one sampler binding, hence the halving of
// the per-group limit. The result is clamped to 1..MaxTextureSlots.
func MaxTextures(l Limits) int {
	n := min(l.MaxBindingsPerBindGroup/2, l.MaxSampledTexturesPerShaderStage, l.MaxSamplersPerShaderStage)
	switch {
	case n < 1:
		return 1
	case n > MaxTextureSlots:
		return MaxTextureSlots
	}
	return int(n)
}

// TextureResource is a device-owned RGBA8 texture together with its view
// and sampler. It is created by [Device.CreateTexture].
type TextureResource interface {
	Width() int
	Height() int
	Destroy()
}

// Batch is one draw call: vertices encoded in the 2D vertex layout, indices
// relative to the first vertex of the batch, and the textures for slots
// 1..len(Textures).
type Batch struct {
	Vertices    []byte
	VertexCount int
	Indices     []uint32
	Textures    []TextureResource
}

// Frame is everything submitted for one present.
type Frame struct {
	// Width and Height are the surface size used to normalize positions.
	Width, Height int
	// ClearColor is the RGBA color the surface is cleared to.
	ClearColor [4]float64
	Batches    []Batch
}

// VertexBytes returns the total size of all batch vertex data.
func (f *Frame) VertexBytes() int {
	n := 0
	for i := range f.Batches {
		n += len(f.Batches[i].Vertices)
	}
	return n
}

// IndexCount returns the total number of indices over all batches.
func (f *Frame) IndexCount() int {
	n := 0
	for i := range f.Batches {
		n += len(f.Batches[i].Indices)
	}
	return n
}

// Device is the graphics device the frame compiler renders through.
//
// Device is used from the goroutine that owns the care.Context.
type Device interface {
	// Limits reports the hardware limits of the device.
	Limits() Limits

	// CreateTexture creates an RGBA8 texture with nearest-neighbour
	// clamp-to-edge sampling. pixels may be nil for an uninitialized
	// texture, otherwise it holds width*height*4 bytes.
	CreateTexture(label string, width, height int, pixels []byte) (TextureResource, error)

	// WriteTexture uploads an RGBA8 region of a texture.
	WriteTexture(tex TextureResource, x, y, width, height int, pixels []byte) error

	// Submit uploads the frame and records one draw per batch.
	Submit(frame *Frame) error

	// Present shows the last submitted frame.
	Present() error

	// SurfaceSize returns the current surface size in pixels.
	SurfaceSize() (width, height int)

	// Resize changes the surface size.
	Resize(width, height int) error

	// Close releases all device resources.
	Close() error
}
