package gpu

import (
	_ "embed"
	"fmt"

	"github.com/gogpu/naga"
	"github.com/gogpu/wgpu/hal"
)

// quad2DShaderSource draws every care primitive. Its texture/sampler pairs
// must match gpucore.MaxTextureSlots.
//
//go:embed shaders/quad2d.wgsl
var quad2DShaderSource string

// Quad2DShaderSource returns the WGSL source of the 2D batch shader.
func Quad2DShaderSource() string {
	return quad2DShaderSource
}

// compileSPIRV compiles WGSL to SPIR-V words.
func compileSPIRV(wgsl string) ([]uint32, error) {
	spirvBytes, err := naga.Compile(wgsl)
	if err != nil {
		return nil, fmt.Errorf("compile shader: %w", err)
	}
	// SPIR-V is a stream of little-endian 32-bit words.
	words := make([]uint32, len(spirvBytes)/4)
	for i := range words {
		words[i] = uint32(spirvBytes[i*4]) |
			uint32(spirvBytes[i*4+1])<<8 |
			uint32(spirvBytes[i*4+2])<<16 |
			uint32(spirvBytes[i*4+3])<<24
	}
	return words, nil
}

// createShaderModule creates the 2D shader module, from SPIR-V produced by
// naga when spirv is set and from WGSL otherwise.
func createShaderModule(device hal.Device, label string, spirv bool) (hal.ShaderModule, error) {
	source := hal.ShaderSource{WGSL: quad2DShaderSource}
	if spirv {
		words, err := compileSPIRV(quad2DShaderSource)
		if err != nil {
			return nil, err
		}
		source = hal.ShaderSource{SPIRV: words}
	}
	module, err := device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label:  label,
		Source: source,
	})
	if err != nil {
		return nil, fmt.Errorf("create shader module: %w", err)
	}
	return module, nil
}
