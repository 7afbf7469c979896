package gpu

import (
	"testing"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
	"github.com/gogpu/wgpu/hal/noop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gogpu/care/gpucore"
)

type mockDevice struct{}

func (m *mockDevice) Poll(wait bool) {}
func (m *mockDevice) Destroy()       {}

type mockQueue struct{}

type mockAdapter struct{}

// mockProvider implements gpucontext.DeviceProvider without HAL access.
type mockProvider struct {
	format gputypes.TextureFormat
}

func (m *mockProvider) Device() gpucontext.Device             { return &mockDevice{} }
func (m *mockProvider) Queue() gpucontext.Queue               { return &mockQueue{} }
func (m *mockProvider) Adapter() gpucontext.Adapter           { return &mockAdapter{} }
func (m *mockProvider) SurfaceFormat() gputypes.TextureFormat { return m.format }

// halMockProvider also exposes a noop HAL device.
type halMockProvider struct {
	mockProvider
	device any
	queue  any
}

func (m *halMockProvider) HalDevice() any { return m.device }
func (m *halMockProvider) HalQueue() any  { return m.queue }

func openNoop(t *testing.T) (hal.Device, hal.Queue) {
	t.Helper()
	instance, err := noop.API{}.CreateInstance(nil)
	require.NoError(t, err)
	adapters := instance.EnumerateAdapters(nil)
	require.NotEmpty(t, adapters)
	openDev, err := adapters[0].Adapter.Open(0, gputypes.DefaultLimits())
	require.NoError(t, err)
	t.Cleanup(func() {
		openDev.Device.Destroy()
		instance.Destroy()
	})
	return openDev.Device, openDev.Queue
}

func TestNewNoop(t *testing.T) {
	d, err := NewNoop(WithSize(320, 200), WithLabel("noop_test"))
	require.NoError(t, err)
	defer d.Close()

	w, h := d.SurfaceSize()
	assert.Equal(t, 320, w)
	assert.Equal(t, 200, h)
	assert.GreaterOrEqual(t, gpucore.MaxTextures(d.Limits()), 1)

	tex, err := d.CreateTexture("tex", 2, 2, make([]byte, 16))
	require.NoError(t, err)
	defer tex.Destroy()

	require.NoError(t, d.Submit(&gpucore.Frame{Width: 320, Height: 200}))
	require.NoError(t, d.Present())

	pix, err := d.ReadPixels()
	require.NoError(t, err)
	assert.Len(t, pix, 320*200*4)
}

func TestNewNoopDefaults(t *testing.T) {
	d, err := NewNoop()
	require.NoError(t, err)
	w, h := d.SurfaceSize()
	assert.Equal(t, DefaultWidth, w)
	assert.Equal(t, DefaultHeight, h)
	assert.NoError(t, d.Close())
	assert.NoError(t, d.Close())
}

func TestNewNoopInvalidSize(t *testing.T) {
	_, err := NewNoop(WithSize(0, 10))
	assert.Error(t, err)
}

func TestNewFromProvider(t *testing.T) {
	device, queue := openNoop(t)
	p := &halMockProvider{
		mockProvider: mockProvider{format: gputypes.TextureFormatBGRA8Unorm},
		device:       device,
		queue:        queue,
	}
	d, err := NewFromProvider(p, WithSize(64, 64))
	require.NoError(t, err)
	assert.Equal(t, gputypes.TextureFormatBGRA8Unorm, d.Target().Format())
	assert.Empty(t, d.AdapterName())
	require.NoError(t, d.Submit(&gpucore.Frame{}))
	require.NoError(t, d.Close())
}

func TestNewFromProviderSurface(t *testing.T) {
	device, queue := openNoop(t)
	backing, err := NewFromHAL(device, queue, gputypes.DefaultLimits(), WithSize(16, 16))
	require.NoError(t, err)
	defer backing.Close()

	presents := 0
	p := &halMockProvider{device: device, queue: queue}
	d, err := NewFromProvider(p, WithSize(16, 16), WithSurface(SurfaceFuncs{
		Acquire: func() (hal.TextureView, error) { return backing.Target().Acquire() },
		Present: func() error { presents++; return nil },
	}))
	require.NoError(t, err)
	defer d.Close()

	// Undefined provider format falls back to BGRA.
	assert.Equal(t, gputypes.TextureFormatBGRA8Unorm, d.Target().Format())
	require.NoError(t, d.Submit(&gpucore.Frame{}))
	require.NoError(t, d.Present())
	assert.Equal(t, 1, presents)

	_, err = d.ReadPixels()
	assert.ErrorIs(t, err, ErrNotOffscreen)
}

func TestNewFromProviderErrors(t *testing.T) {
	_, err := NewFromProvider(nil)
	assert.Error(t, err)

	_, err = NewFromProvider(&mockProvider{})
	assert.ErrorIs(t, err, ErrNotHALProvider)

	_, err = NewFromProvider(&halMockProvider{device: "not a device", queue: nil})
	assert.ErrorIs(t, err, ErrNotHALProvider)
}

func TestSurfaceFormatOption(t *testing.T) {
	d, err := NewNoop(WithSize(8, 8), WithSurfaceFormat(gputypes.TextureFormatBGRA8Unorm))
	require.NoError(t, err)
	defer d.Close()
	assert.Equal(t, gputypes.TextureFormatBGRA8Unorm, d.Target().Format())
}

func TestSelectAdapter(t *testing.T) {
	instance, err := noop.API{}.CreateInstance(nil)
	require.NoError(t, err)
	defer instance.Destroy()
	adapters := instance.EnumerateAdapters(nil)
	require.NotEmpty(t, adapters)

	name := adapters[0].Info.Name
	assert.Equal(t, name, selectAdapter(adapters, "").Info.Name)
	assert.Equal(t, name, selectAdapter(adapters, "no such adapter").Info.Name)
	if name != "" {
		assert.Same(t, &adapters[0], selectAdapter(adapters, name[:1]))
	}
}
