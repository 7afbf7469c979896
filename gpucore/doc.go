// Package gpucore defines the boundary between the care frame compiler and
// a GPU backend.
//
// The compiler produces a [Frame]: an ordered list of [Batch] values, each
// holding encoded vertices, indices and the textures bound for one draw
// call. A [Device] uploads the frame once, binds the textures of each batch
// (padding unused slots with a placeholder) and issues one indexed draw per
// batch, in order.
//
//	          care.Context
//	               |
//	        internal/tess  --->  Frame{Batch, Batch, ...}
//	               |
//	        +------v------+
//	        |   Device    |
//	        +------+------+
//	               |
//	    +----------+-----------+
//	    |                      |
//	gpu.NewStandalone     gpu.NewFromProvider
//	(hal, Vulkan)         (gpucontext host)
//
// Implementations live in the gpu package. Tests use a recording device.
package gpucore
