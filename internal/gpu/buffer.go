package gpu

import (
	"fmt"
	"math/bits"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// minBufferSize is the smallest vertex or index buffer allocated.
const minBufferSize = 1024

// bufferSizeFor returns the power of two that holds n bytes, at least
// minBufferSize.
func bufferSizeFor(n uint64) uint64 {
	if n <= minBufferSize {
		return minBufferSize
	}
	return 1 << bits.Len64(n-1)
}

// growBuffer is a device buffer that is replaced by a larger one when a
// write does not fit. It never shrinks.
type growBuffer struct {
	label string
	usage gputypes.BufferUsage

	buf  hal.Buffer
	size uint64
}

func newGrowBuffer(label string, usage gputypes.BufferUsage) growBuffer {
	return growBuffer{label: label, usage: usage | gputypes.BufferUsageCopyDst}
}

// write uploads data at offset 0, reallocating first if needed.
func (b *growBuffer) write(device hal.Device, queue hal.Queue, data []byte) error {
	if len(data) == 0 {
		return nil
	}
	need := uint64(len(data))
	if b.buf == nil || need > b.size {
		size := bufferSizeFor(need)
		buf, err := device.CreateBuffer(&hal.BufferDescriptor{
			Label: b.label,
			Size:  size,
			Usage: b.usage,
		})
		if err != nil {
			return fmt.Errorf("create %s (%d bytes): %w", b.label, size, err)
		}
		if b.buf != nil {
			device.DestroyBuffer(b.buf)
		}
		slogger().Debug("buffer grown", "buffer", b.label, "from", b.size, "to", size)
		b.buf = buf
		b.size = size
	}
	queue.WriteBuffer(b.buf, 0, data)
	return nil
}

func (b *growBuffer) destroy(device hal.Device) {
	if b.buf != nil {
		device.DestroyBuffer(b.buf)
		b.buf = nil
		b.size = 0
	}
}
