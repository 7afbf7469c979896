// Package gpu opens graphics devices for care.
//
// Three constructors cover the ways a device comes into being:
//
//	NewStandalone    opens a Vulkan adapter and renders offscreen
//	NewFromProvider  shares the device of a host such as a gogpu window
//	NewNoop          uses the noop HAL backend, for tests and CI
//
// Each returns a [*Device], which implements gpucore.Device and is passed
// to care.New.
//
//	dev, err := gpu.NewStandalone(gpu.WithSize(800, 600))
//	if err != nil {
//		return err
//	}
//	defer dev.Close()
//	ctx, err := care.New(dev)
package gpu
