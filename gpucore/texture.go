package gpucore

import "fmt"

// CheckTextureSize validates the size of a new texture. maxDim of zero
// means no limit. pixels is checked only when non-nil.
func CheckTextureSize(width, height, maxDim int, pixels []byte) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("%w: %dx%d", ErrInvalidTextureSize, width, height)
	}
	if maxDim > 0 && (width > maxDim || height > maxDim) {
		return fmt.Errorf("%w: %dx%d exceeds %d", ErrInvalidTextureSize, width, height, maxDim)
	}
	if pixels != nil && len(pixels) != width*height*4 {
		return fmt.Errorf("%w: %d bytes for %dx%d", ErrInvalidTextureSize, len(pixels), width, height)
	}
	return nil
}

// CheckRegion validates an upload of a width x height region at x, y into
// a texture of size texWidth x texHeight.
func CheckRegion(texWidth, texHeight, x, y, width, height int, pixels []byte) error {
	if width <= 0 || height <= 0 || x < 0 || y < 0 || x+width > texWidth || y+height > texHeight {
		return fmt.Errorf("%w: region %d,%d %dx%d outside %dx%d",
			ErrInvalidTextureSize, x, y, width, height, texWidth, texHeight)
	}
	if len(pixels) != width*height*4 {
		return fmt.Errorf("%w: %d bytes for %dx%d region", ErrInvalidTextureSize, len(pixels), width, height)
	}
	return nil
}
