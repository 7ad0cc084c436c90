package backend

import "github.com/gogpu/scenepaint"

// NativeSurface is the tile backing memory handed across the compositor
// boundary. Pixels are premultiplied RGBA with a 4*Width stride.
//
// Ownership: the painter allocates a surface, fills it, and transfers it
// to the compositor inside a LayerBuffer. MarkWontLeak records that
// transfer; freeing a surface that was transferred, or transferring one
// twice, indicates a double-free on one side of the boundary.
type NativeSurface struct {
	Width  int
	Height int
	Data   []byte

	// Age counts content generations. A recycled surface whose age
	// matches the requested content age can skip repainting.
	Age uint32

	transferred bool
}

// NewNativeSurface allocates a zeroed surface.
func NewNativeSurface(width, height int) *NativeSurface {
	return &NativeSurface{
		Width:  width,
		Height: height,
		Data:   make([]byte, width*height*4),
	}
}

// MarkWontLeak records that ownership moved across the compositor
// boundary. Reports false if the surface was already transferred.
func (s *NativeSurface) MarkWontLeak() bool {
	if s.transferred {
		scenepaint.Logger().Warn("surface transferred twice",
			"width", s.Width, "height", s.Height)
		return false
	}
	s.transferred = true
	return true
}

// Transferred reports whether ownership has moved to the compositor.
func (s *NativeSurface) Transferred() bool {
	return s.transferred
}

// Recycle reclaims a surface for repainting. The painter may only
// recycle surfaces the compositor handed back; recycling resets the
// transfer flag and bumps the content age.
func (s *NativeSurface) Recycle() {
	s.transferred = false
	s.Age++
}

// Descriptor reports the surface's pixel layout.
func (s *NativeSurface) Descriptor() ImageDescriptor {
	return ImageDescriptor{
		Width:  s.Width,
		Height: s.Height,
		Stride: s.Width * 4,
	}
}
