package gpu

import (
	"encoding/binary"
	"errors"
	"fmt"
	"sync"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/care/gpucore"
	"github.com/gogpu/care/internal/tess"
)

// ErrNilDevice is returned when a renderer is created without a device or
// queue.
var ErrNilDevice = errors.New("gpu: nil device or queue")

// placeholderPixels is the 2x2 magenta/black checker bound to unused
// texture slots.
var placeholderPixels = []byte{
	255, 0, 255, 255, 0, 0, 0, 255,
	0, 0, 0, 255, 255, 0, 255, 255,
}

// Config holds renderer settings.
type Config struct {
	// Label prefixes the debug labels of every GPU object.
	Label string
	// SPIRV loads the shader as SPIR-V compiled by naga instead of WGSL.
	SPIRV bool
	// Limits are the limits the device was opened with.
	Limits gputypes.Limits
}

// Renderer draws gpucore frames with one render pipeline. It implements
// gpucore.Device.
//
// Renderer is safe for concurrent use; frames are submitted one at a time.
type Renderer struct {
	mu sync.Mutex

	device hal.Device
	queue  hal.Queue
	target Target
	cfg    Config

	shader      hal.ShaderModule
	bindLayout  hal.BindGroupLayout
	pipeLayout  hal.PipelineLayout
	pipeline    hal.RenderPipeline
	sampler     hal.Sampler
	placeholder *Texture

	vertices growBuffer
	indices  growBuffer

	frames uint64
	closed bool
}

var _ gpucore.Device = (*Renderer)(nil)

// NewRenderer creates the pipeline objects for target. The renderer takes
// ownership of target and destroys it on Close.
func NewRenderer(device hal.Device, queue hal.Queue, target Target, cfg Config) (*Renderer, error) {
	if device == nil || queue == nil {
		return nil, ErrNilDevice
	}
	if target == nil {
		return nil, errors.New("gpu: nil target")
	}
	if cfg.Label == "" {
		cfg.Label = "care"
	}
	r := &Renderer{
		device:   device,
		queue:    queue,
		target:   target,
		cfg:      cfg,
		vertices: newGrowBuffer(cfg.Label+"_vertices", gputypes.BufferUsageVertex),
		indices:  newGrowBuffer(cfg.Label+"_indices", gputypes.BufferUsageIndex),
	}
	if err := r.createPipeline(); err != nil {
		r.destroyPipeline()
		return nil, err
	}
	w, h := target.Size()
	slogger().Info("renderer created",
		"label", cfg.Label, "format", target.Format(), "width", w, "height", h,
		"spirv", cfg.SPIRV, "max_textures", gpucore.MaxTextures(r.Limits()))
	return r, nil
}

func (r *Renderer) label(s string) string { return r.cfg.Label + "_" + s }

func (r *Renderer) createPipeline() error {
	shader, err := createShaderModule(r.device, r.label("shader"), r.cfg.SPIRV)
	if err != nil {
		return err
	}
	r.shader = shader

	entries := make([]gputypes.BindGroupLayoutEntry, 0, 2*gpucore.MaxTextureSlots)
	for slot := range uint32(gpucore.MaxTextureSlots) {
		entries = append(entries,
			gputypes.BindGroupLayoutEntry{
				Binding:    slot * 2,
				Visibility: gputypes.ShaderStageFragment,
				Texture: &gputypes.TextureBindingLayout{
					SampleType:    gputypes.TextureSampleTypeFloat,
					ViewDimension: gputypes.TextureViewDimension2D,
				},
			},
			gputypes.BindGroupLayoutEntry{
				Binding:    slot*2 + 1,
				Visibility: gputypes.ShaderStageFragment,
				Sampler:    &gputypes.SamplerBindingLayout{Type: gputypes.SamplerBindingTypeFiltering},
			},
		)
	}
	bindLayout, err := r.device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label:   r.label("bind_layout"),
		Entries: entries,
	})
	if err != nil {
		return fmt.Errorf("create bind group layout: %w", err)
	}
	r.bindLayout = bindLayout

	pipeLayout, err := r.device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label:            r.label("pipe_layout"),
		BindGroupLayouts: []hal.BindGroupLayout{r.bindLayout},
	})
	if err != nil {
		return fmt.Errorf("create pipeline layout: %w", err)
	}
	r.pipeLayout = pipeLayout

	sampler, err := r.device.CreateSampler(&hal.SamplerDescriptor{
		Label:        r.label("sampler"),
		AddressModeU: gputypes.AddressModeClampToEdge,
		AddressModeV: gputypes.AddressModeClampToEdge,
		AddressModeW: gputypes.AddressModeClampToEdge,
		MagFilter:    gputypes.FilterModeNearest,
		MinFilter:    gputypes.FilterModeNearest,
		MipmapFilter: gputypes.FilterModeNearest,
	})
	if err != nil {
		return fmt.Errorf("create sampler: %w", err)
	}
	r.sampler = sampler

	premulBlend := gputypes.BlendStatePremultiplied()
	pipeline, err := r.device.CreateRenderPipeline(&hal.RenderPipelineDescriptor{
		Label:  r.label("pipeline"),
		Layout: r.pipeLayout,
		Vertex: hal.VertexState{
			Module:     r.shader,
			EntryPoint: "vs_main",
			Buffers:    vertexLayout(),
		},
		Fragment: &hal.FragmentState{
			Module:     r.shader,
			EntryPoint: "fs_main",
			Targets: []gputypes.ColorTargetState{{
				Format:    r.target.Format(),
				Blend:     &premulBlend,
				WriteMask: gputypes.ColorWriteMaskAll,
			}},
		},
		Primitive: gputypes.PrimitiveState{
			Topology: gputypes.PrimitiveTopologyTriangleList,
			CullMode: gputypes.CullModeNone,
		},
		Multisample: gputypes.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
	})
	if err != nil {
		return fmt.Errorf("create render pipeline: %w", err)
	}
	r.pipeline = pipeline

	placeholder, err := newTexture(r.device, r.label("placeholder"), 2, 2)
	if err != nil {
		return err
	}
	placeholder.write(r.queue, 0, 0, 2, 2, placeholderPixels)
	r.placeholder = placeholder
	return nil
}

// vertexLayout matches VertexInput in quad2d.wgsl and tess.AppendVertices.
func vertexLayout() []gputypes.VertexBufferLayout {
	return []gputypes.VertexBufferLayout{{
		ArrayStride: tess.VertexStride,
		StepMode:    gputypes.VertexStepModeVertex,
		Attributes: []gputypes.VertexAttribute{
			{Format: gputypes.VertexFormatFloat32x2, Offset: 0, ShaderLocation: 0},  // position
			{Format: gputypes.VertexFormatFloat16x2, Offset: 8, ShaderLocation: 1},  // uv
			{Format: gputypes.VertexFormatUnorm8x4, Offset: 12, ShaderLocation: 2},  // color
			{Format: gputypes.VertexFormatFloat16x4, Offset: 16, ShaderLocation: 3}, // rounding box
			{Format: gputypes.VertexFormatUnorm8x4, Offset: 24, ShaderLocation: 4},  // radii
			{Format: gputypes.VertexFormatUint32, Offset: 28, ShaderLocation: 5},    // texture slot
		},
	}}
}

func (r *Renderer) destroyPipeline() {
	if r.placeholder != nil {
		r.placeholder.Destroy()
		r.placeholder = nil
	}
	if r.pipeline != nil {
		r.device.DestroyRenderPipeline(r.pipeline)
		r.pipeline = nil
	}
	if r.sampler != nil {
		r.device.DestroySampler(r.sampler)
		r.sampler = nil
	}
	if r.pipeLayout != nil {
		r.device.DestroyPipelineLayout(r.pipeLayout)
		r.pipeLayout = nil
	}
	if r.bindLayout != nil {
		r.device.DestroyBindGroupLayout(r.bindLayout)
		r.bindLayout = nil
	}
	if r.shader != nil {
		r.device.DestroyShaderModule(r.shader)
		r.shader = nil
	}
}

// Limits implements gpucore.Device.
func (r *Renderer) Limits() gpucore.Limits {
	return gpucore.Limits{
		MaxBindingsPerBindGroup:          r.cfg.Limits.MaxBindingsPerBindGroup,
		MaxSampledTexturesPerShaderStage: r.cfg.Limits.MaxSampledTexturesPerShaderStage,
		MaxSamplersPerShaderStage:        r.cfg.Limits.MaxSamplersPerShaderStage,
		MaxTextureDimension2D:            r.cfg.Limits.MaxTextureDimension2D,
	}
}

// CreateTexture implements gpucore.Device.
func (r *Renderer) CreateTexture(label string, width, height int, pixels []byte) (gpucore.TextureResource, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return nil, gpucore.ErrDeviceClosed
	}
	if err := gpucore.CheckTextureSize(width, height, int(r.cfg.Limits.MaxTextureDimension2D), pixels); err != nil {
		return nil, err
	}
	tex, err := newTexture(r.device, r.label(label), width, height)
	if err != nil {
		return nil, err
	}
	if pixels != nil {
		tex.write(r.queue, 0, 0, width, height, pixels)
	}
	return tex, nil
}

// WriteTexture implements gpucore.Device.
func (r *Renderer) WriteTexture(res gpucore.TextureResource, x, y, width, height int, pixels []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return gpucore.ErrDeviceClosed
	}
	tex, err := r.own(res)
	if err != nil {
		return err
	}
	if err := gpucore.CheckRegion(tex.width, tex.height, x, y, width, height, pixels); err != nil {
		return err
	}
	tex.write(r.queue, x, y, width, height, pixels)
	return nil
}

// own returns res as a live texture of this renderer.
func (r *Renderer) own(res gpucore.TextureResource) (*Texture, error) {
	tex, ok := res.(*Texture)
	if !ok || tex.device != r.device {
		return nil, fmt.Errorf("%w: %T", gpucore.ErrForeignTexture, res)
	}
	if tex.destroyed() {
		return nil, fmt.Errorf("gpu: texture %q used after Destroy", tex.label)
	}
	return tex, nil
}

// Submit implements gpucore.Device. All batches are drawn in one render
// pass in order, after clearing the target to the frame clear color.
func (r *Renderer) Submit(frame *gpucore.Frame) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return gpucore.ErrDeviceClosed
	}

	vertexData, indexData := packFrame(frame)
	if err := r.vertices.write(r.device, r.queue, vertexData); err != nil {
		return err
	}
	if err := r.indices.write(r.device, r.queue, indexData); err != nil {
		return err
	}

	bindGroups := make([]hal.BindGroup, 0, len(frame.Batches))
	defer func() {
		for _, bg := range bindGroups {
			r.device.DestroyBindGroup(bg)
		}
	}()
	for i := range frame.Batches {
		bg, err := r.bindGroup(&frame.Batches[i], i)
		if err != nil {
			return err
		}
		bindGroups = append(bindGroups, bg)
	}

	view, err := r.target.Acquire()
	if err != nil {
		return err
	}

	encoder, err := r.device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{Label: r.label("encoder")})
	if err != nil {
		return fmt.Errorf("create command encoder: %w", err)
	}
	if err := encoder.BeginEncoding(r.label("frame")); err != nil {
		return fmt.Errorf("begin encoding: %w", err)
	}

	c := frame.ClearColor
	rp := encoder.BeginRenderPass(&hal.RenderPassDescriptor{
		Label: r.label("pass"),
		ColorAttachments: []hal.RenderPassColorAttachment{{
			View:       view,
			LoadOp:     gputypes.LoadOpClear,
			StoreOp:    gputypes.StoreOpStore,
			ClearValue: gputypes.Color{R: c[0], G: c[1], B: c[2], A: c[3]},
		}},
	})
	if len(indexData) > 0 {
		rp.SetPipeline(r.pipeline)
		rp.SetVertexBuffer(0, r.vertices.buf, 0)
		rp.SetIndexBuffer(r.indices.buf, gputypes.IndexFormatUint32, 0)
		var firstIndex uint32
		var baseVertex int32
		for i := range frame.Batches {
			b := &frame.Batches[i]
			count := uint32(len(b.Indices))
			if count > 0 {
				rp.SetBindGroup(0, bindGroups[i], nil)
				rp.DrawIndexed(count, 1, firstIndex, baseVertex, 0)
			}
			firstIndex += count
			baseVertex += int32(b.VertexCount)
		}
	}
	rp.End()

	cmdBuf, err := encoder.EndEncoding()
	if err != nil {
		return fmt.Errorf("end encoding: %w", err)
	}
	defer r.device.FreeCommandBuffer(cmdBuf)

	if err := submitAndWait(r.device, r.queue, cmdBuf); err != nil {
		return err
	}
	r.frames++
	slogger().Debug("frame submitted",
		"frame", r.frames,
		"draw_calls", len(frame.Batches),
		"vertex_bytes", len(vertexData),
		"indices", len(indexData)/4)
	return nil
}

// packFrame concatenates the vertices and indices of every batch. Indices
// stay relative to their batch; the draw's base vertex offsets them.
func packFrame(frame *gpucore.Frame) (vertices, indices []byte) {
	vertices = make([]byte, 0, frame.VertexBytes())
	indices = make([]byte, 0, frame.IndexCount()*4)
	for i := range frame.Batches {
		b := &frame.Batches[i]
		vertices = append(vertices, b.Vertices...)
		for _, idx := range b.Indices {
			indices = binary.LittleEndian.AppendUint32(indices, idx)
		}
	}
	return vertices, indices
}

// bindGroup binds the textures of b to slots 0..n-1 and the placeholder to
// the remaining slots.
func (r *Renderer) bindGroup(b *gpucore.Batch, index int) (hal.BindGroup, error) {
	if len(b.Textures) > gpucore.MaxTextureSlots {
		return nil, fmt.Errorf("gpu: batch %d binds %d textures, max %d", index, len(b.Textures), gpucore.MaxTextureSlots)
	}
	entries := make([]gputypes.BindGroupEntry, 0, 2*gpucore.MaxTextureSlots)
	for slot := range gpucore.MaxTextureSlots {
		tex := r.placeholder
		if slot < len(b.Textures) {
			t, err := r.own(b.Textures[slot])
			if err != nil {
				return nil, fmt.Errorf("batch %d slot %d: %w", index, slot+1, err)
			}
			tex = t
		}
		entries = append(entries,
			gputypes.BindGroupEntry{
				Binding:  uint32(slot * 2),
				Resource: gputypes.TextureViewBinding{TextureView: uintptr(tex.view.NativeHandle())},
			},
			gputypes.BindGroupEntry{
				Binding:  uint32(slot*2 + 1),
				Resource: gputypes.SamplerBinding{Sampler: uintptr(r.sampler.NativeHandle())},
			},
		)
	}
	bg, err := r.device.CreateBindGroup(&hal.BindGroupDescriptor{
		Label:   fmt.Sprintf("%s_batch_%d", r.cfg.Label, index),
		Layout:  r.bindLayout,
		Entries: entries,
	})
	if err != nil {
		return nil, fmt.Errorf("create bind group for batch %d: %w", index, err)
	}
	return bg, nil
}

// Present implements gpucore.Device.
func (r *Renderer) Present() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return gpucore.ErrDeviceClosed
	}
	return r.target.Present()
}

// SurfaceSize implements gpucore.Device.
func (r *Renderer) SurfaceSize() (int, int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.target.Size()
}

// Resize implements gpucore.Device.
func (r *Renderer) Resize(width, height int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return gpucore.ErrDeviceClosed
	}
	if err := r.target.Resize(width, height); err != nil {
		return err
	}
	slogger().Debug("target resized", "width", width, "height", height)
	return nil
}

// Target returns the target the renderer draws into.
func (r *Renderer) Target() Target { return r.target }

// Frames returns the number of frames submitted.
func (r *Renderer) Frames() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.frames
}

// Close implements gpucore.Device. Textures created by the renderer are
// owned by their handles and must be destroyed separately.
func (r *Renderer) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return nil
	}
	r.closed = true
	r.vertices.destroy(r.device)
	r.indices.destroy(r.device)
	r.destroyPipeline()
	r.target.Destroy()
	slogger().Debug("renderer closed", "label", r.cfg.Label, "frames", r.frames)
	return nil
}
