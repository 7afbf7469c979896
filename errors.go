package care

import (
	"errors"

	"github.com/gogpu/care/gpucore"
	"github.com/gogpu/care/internal/glyph"
)

var (
	// ErrNotInitialized is the panic value for drawing on a nil Context or
	// on a Context without a device.
	ErrNotInitialized = errors.New("care: context not initialized")

	// ErrNilDevice is returned by New when no device is given.
	ErrNilDevice = errors.New("care: nil device")

	// ErrInvalidTextureSize is returned for textures with a zero, negative
	// or over-limit dimension, or pixel data of the wrong length.
	ErrInvalidTextureSize = gpucore.ErrInvalidTextureSize

	// ErrTextureDestroyed is returned when a destroyed texture is updated.
	ErrTextureDestroyed = errors.New("care: texture destroyed")

	// ErrFontParse is returned when font data cannot be parsed.
	ErrFontParse = glyph.ErrParse

	// ErrUnknownBackend is returned by LoadConfig for a backend name other
	// than "noop", "vulkan" or "auto".
	ErrUnknownBackend = errors.New("care: unknown backend")
)
