// Package tess compiles the pending draw commands of a frame into draw
// calls: flat vertex and index lists plus the textures each call binds.
//
// Commands are processed in issue order. A call is flushed only when a
// command needs a texture and every slot of the current call is taken by
// other textures, so the order of draw calls always matches the order of
// the commands they came from.
package tess
