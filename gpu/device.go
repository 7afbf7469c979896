package gpu

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
	"github.com/gogpu/wgpu/hal/noop"
	_ "github.com/gogpu/wgpu/hal/vulkan"

	"github.com/gogpu/care/gpucore"
	gpuimpl "github.com/gogpu/care/internal/gpu"
)

var (
	// ErrNoAdapter is returned when the backend exposes no adapter.
	ErrNoAdapter = errors.New("gpu: no GPU adapter found")

	// ErrBackendUnavailable is returned when the requested HAL backend is
	// not compiled in or not supported on this system.
	ErrBackendUnavailable = errors.New("gpu: backend not available")

	// ErrNotHALProvider is returned by NewFromProvider when the provider
	// does not expose its HAL device and queue.
	ErrNotHALProvider = errors.New("gpu: provider does not expose a HAL device")

	// ErrNotOffscreen is returned by ReadPixels on a device drawing into a
	// window surface.
	ErrNotOffscreen = errors.New("gpu: device does not render offscreen")
)

// halProvider is implemented by hosts that expose their HAL objects, as
// gogpu does.
type halProvider interface {
	HalDevice() any
	HalQueue() any
}

// Device is a HAL-backed care device. It implements gpucore.Device.
type Device struct {
	*gpuimpl.Renderer

	adapter string
	// Set when the device was opened here and must be destroyed on Close.
	instance  hal.Instance
	halDevice hal.Device
}

var _ gpucore.Device = (*Device)(nil)

// AdapterName returns the name of the adapter the device runs on, or an
// empty string for a provider device.
func (d *Device) AdapterName() string { return d.adapter }

// ReadPixels reads the offscreen target back as RGBA8 rows.
func (d *Device) ReadPixels() ([]byte, error) {
	off, ok := d.Target().(*gpuimpl.OffscreenTarget)
	if !ok {
		return nil, ErrNotOffscreen
	}
	return off.ReadPixels()
}

// Close releases the renderer and, for devices opened by this package,
// the HAL device and instance.
func (d *Device) Close() error {
	err := d.Renderer.Close()
	if d.halDevice != nil {
		d.halDevice.Destroy()
		d.halDevice = nil
	}
	if d.instance != nil {
		d.instance.Destroy()
		d.instance = nil
	}
	return err
}

// NewStandalone opens a Vulkan adapter, preferring a discrete or
// integrated GPU, and renders offscreen unless WithSurface is given.
func NewStandalone(opts ...Option) (*Device, error) {
	backend, ok := hal.GetBackend(gputypes.BackendVulkan)
	if !ok {
		return nil, fmt.Errorf("%w: vulkan", ErrBackendUnavailable)
	}
	instance, err := backend.CreateInstance(&hal.InstanceDescriptor{Flags: 0})
	if err != nil {
		return nil, fmt.Errorf("create instance: %w", err)
	}
	return openInstance(instance, newOptions(opts))
}

// NewNoop creates a device on the noop HAL backend. Frames are accepted
// and discarded; read back pixels are undefined.
func NewNoop(opts ...Option) (*Device, error) {
	instance, err := noop.API{}.CreateInstance(nil)
	if err != nil {
		return nil, fmt.Errorf("create noop instance: %w", err)
	}
	return openInstance(instance, newOptions(opts))
}

func openInstance(instance hal.Instance, o options) (*Device, error) {
	adapters := instance.EnumerateAdapters(nil)
	if len(adapters) == 0 {
		instance.Destroy()
		return nil, ErrNoAdapter
	}
	selected := selectAdapter(adapters, o.adapter)

	limits := gputypes.DefaultLimits()
	openDev, err := selected.Adapter.Open(gputypes.Features(0), limits)
	if err != nil {
		instance.Destroy()
		return nil, fmt.Errorf("open device: %w", err)
	}
	logger().Info("adapter selected",
		"name", selected.Info.Name, "type", selected.Info.DeviceType)

	d, err := newDevice(openDev.Device, openDev.Queue, limits, gputypes.TextureFormatRGBA8Unorm, o)
	if err != nil {
		openDev.Device.Destroy()
		instance.Destroy()
		return nil, err
	}
	d.adapter = selected.Info.Name
	d.instance = instance
	d.halDevice = openDev.Device
	return d, nil
}

// selectAdapter picks the adapter whose name contains name, else the first
// discrete or integrated GPU, else the first adapter.
func selectAdapter(adapters []hal.ExposedAdapter, name string) *hal.ExposedAdapter {
	if name != "" {
		for i := range adapters {
			if strings.Contains(strings.ToLower(adapters[i].Info.Name), strings.ToLower(name)) {
				return &adapters[i]
			}
		}
		logger().Warn("requested adapter not found", "adapter", name)
	}
	for i := range adapters {
		if adapters[i].Info.DeviceType == gputypes.DeviceTypeDiscreteGPU ||
			adapters[i].Info.DeviceType == gputypes.DeviceTypeIntegratedGPU {
			return &adapters[i]
		}
	}
	return &adapters[0]
}

// NewFromProvider renders with the device of a host application. The
// provider must also expose HalDevice() and HalQueue(). The host keeps
// ownership of the device; Close releases only care's resources.
func NewFromProvider(provider gpucontext.DeviceProvider, opts ...Option) (*Device, error) {
	if provider == nil {
		return nil, gpuimpl.ErrNilDevice
	}
	hp, ok := provider.(halProvider)
	if !ok {
		return nil, ErrNotHALProvider
	}
	device, ok := hp.HalDevice().(hal.Device)
	if !ok {
		return nil, fmt.Errorf("%w: HalDevice is %T", ErrNotHALProvider, hp.HalDevice())
	}
	queue, ok := hp.HalQueue().(hal.Queue)
	if !ok {
		return nil, fmt.Errorf("%w: HalQueue is %T", ErrNotHALProvider, hp.HalQueue())
	}
	format := provider.SurfaceFormat()
	if format == gputypes.TextureFormatUndefined {
		format = gputypes.TextureFormatBGRA8Unorm
	}
	return newDevice(device, queue, gputypes.DefaultLimits(), format, newOptions(opts))
}

// NewFromHAL renders with an already opened HAL device. The caller keeps
// ownership of device and queue.
func NewFromHAL(device hal.Device, queue hal.Queue, limits gputypes.Limits, opts ...Option) (*Device, error) {
	return newDevice(device, queue, limits, gputypes.TextureFormatRGBA8Unorm, newOptions(opts))
}

func newDevice(device hal.Device, queue hal.Queue, limits gputypes.Limits, format gputypes.TextureFormat, o options) (*Device, error) {
	if device == nil || queue == nil {
		return nil, gpuimpl.ErrNilDevice
	}
	if o.format != gputypes.TextureFormatUndefined {
		format = o.format
	}

	var (
		target gpuimpl.Target
		err    error
	)
	if o.surface != nil {
		target, err = gpuimpl.NewSurfaceTarget(format, o.width, o.height, *o.surface)
	} else {
		target, err = gpuimpl.NewOffscreenTarget(device, queue, o.width, o.height, format)
	}
	if err != nil {
		return nil, err
	}

	r, err := gpuimpl.NewRenderer(device, queue, target, gpuimpl.Config{
		Label:  o.label,
		SPIRV:  o.spirv,
		Limits: limits,
	})
	if err != nil {
		target.Destroy()
		return nil, err
	}
	return &Device{Renderer: r}, nil
}
