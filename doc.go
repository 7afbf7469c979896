// Package care is an immediate-mode 2D renderer on WebGPU.
//
// Every drawing call records a command carrying the transform and color
// that were current when it was made. Present compiles the frame's
// commands into as few draw calls as the device's texture limits allow,
// submits them in one render pass and resets the drawing state.
//
// # Quick Start
//
//	device, err := gpu.NewStandalone(gpu.WithSize(800, 600))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer device.Close()
//
//	ctx, err := care.New(device)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer ctx.Close()
//
//	ctx.SetRGBA(0.9, 0.2, 0.2, 1)
//	ctx.Rectangle(geom.V2(100, 100), geom.V2(200, 100))
//	ctx.SetLineStyle(draw.JoinMiter, draw.EndRounded)
//	ctx.Line([]geom.Vec2{geom.V2(50, 400), geom.V2(200, 300), geom.V2(350, 400)}, 12)
//	ctx.Text("hello", geom.V2(20, 20))
//	if err := ctx.Present(); err != nil {
//	    log.Fatal(err)
//	}
//
// # Textures
//
// Textures are handles compared by pointer. A draw call binds at most
// MaxTextures of them; the next distinct texture starts a new draw call.
// Text is drawn from a glyph atlas that occupies one of those slots.
//
// # Devices
//
// Any [gpucore.Device] can back a Context. Package gpu provides HAL
// devices: standalone Vulkan, a host application's device, and a noop
// device for tests.
//
// # Logging
//
// care is silent by default. Call [SetLogger] to route its log/slog
// output.
package care
