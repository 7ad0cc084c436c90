package gpu

import "fmt"

// TileTexture is the device texture behind one GPU-painted tile.
// Textures are created through a TileContext, which fixes their size to
// the context's tile edge.
type TileTexture struct {
	width, height int
	sizeBytes     uint64

	staged   []byte
	resident bool
	released bool
}

// CreateTexture allocates a tile texture. The size must match the tile
// edge the context was bound to.
func (tc *TileContext) CreateTexture(width, height int) (*TileTexture, error) {
	if width != tc.tileSize || height != tc.tileSize {
		return nil, fmt.Errorf("%w: %dx%d vs %d", ErrTileMismatch, width, height, tc.tileSize)
	}
	if !tc.ctx.Initialized() {
		return nil, ErrNotInitialized
	}
	return &TileTexture{
		width:     width,
		height:    height,
		sizeBytes: uint64(width) * uint64(height) * 4,
	}, nil
}

// Upload hands the tile's premultiplied RGBA pixels to the texture.
// The pinned wgpu core package has no queue write entry point yet, so
// the pixels stay staged host-side and the texture does not become
// resident.
//
// TODO: submit the staged pixels with core.QueueWriteTexture once the
// core package exposes queue writes.
func (t *TileTexture) Upload(pixels []byte) error {
	if t.released {
		return ErrTextureReleased
	}
	if uint64(len(pixels)) != t.sizeBytes {
		return fmt.Errorf("gpu: upload of %d bytes into a %d byte texture", len(pixels), t.sizeBytes)
	}
	t.staged = append(t.staged[:0], pixels...)
	return nil
}

// Resident reports whether the current pixels live on the device. While
// false, callers must keep a CPU copy of the tile.
func (t *TileTexture) Resident() bool {
	return t.resident
}

// SizeBytes returns the texture's device memory footprint.
func (t *TileTexture) SizeBytes() uint64 {
	return t.sizeBytes
}

// Release frees the texture. Further uploads fail.
func (t *TileTexture) Release() {
	t.released = true
	t.staged = nil
	t.resident = false
}
