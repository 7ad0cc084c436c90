package gpu

import "errors"

var (
	// ErrNoGPU indicates no suitable GPU adapter could be acquired.
	ErrNoGPU = errors.New("gpu: no suitable adapter")

	// ErrNotInitialized indicates the context was used before Init or
	// after Close.
	ErrNotInitialized = errors.New("gpu: context not initialized")

	// ErrTileTooSmall indicates the requested tile size is below the
	// minimum worth uploading; callers should fall back to CPU painting.
	ErrTileTooSmall = errors.New("gpu: tile below minimum size")

	// ErrTileTooLarge indicates the tile exceeds the device's texture
	// dimension limit.
	ErrTileTooLarge = errors.New("gpu: tile exceeds device texture limit")

	// ErrTileMismatch indicates a requested texture size differs from
	// the tile size the context was bound to.
	ErrTileMismatch = errors.New("gpu: size does not match the bound tile size")

	// ErrTextureReleased indicates a texture was used after Release.
	ErrTextureReleased = errors.New("gpu: texture released")
)
