// Package gpu renders care frames with gogpu/wgpu HAL.
//
// A [Renderer] owns one render pipeline for the 2D batch shader, a shared
// nearest-neighbour sampler, a placeholder texture for unused slots and two
// growable buffers holding the vertices and indices of the current frame.
// It implements gpucore.Device.
//
// Frames are drawn into a [Target]. [OffscreenTarget] renders into a
// texture that can be read back, [SurfaceTarget] renders into views handed
// out by a windowing host.
//
//	Submit(frame)
//	  upload vertices + indices (one write each)
//	  for each batch: bind group (textures padded with placeholder)
//	  one render pass, cleared to the frame clear color
//	    DrawIndexed per batch
//	  submit, wait on fence
//	Present()
//	  target.Present()
package gpu
