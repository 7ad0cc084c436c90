// Package backend defines the draw-target abstraction paint workers
// rasterize into, and a registry for concrete implementations.
package backend

import (
	"github.com/gogpu/scenepaint"
	"github.com/gogpu/scenepaint/blob"
)

// ImageDescriptor describes the pixel layout of a snapshot or surface.
type ImageDescriptor struct {
	Width  int
	Height int
	// Stride is the byte distance between rows.
	Stride int
	// Opaque is a compositing hint; an opaque buffer needs no blending.
	Opaque bool
}

// Glyph is one positioned glyph ready to fill. Outline coordinates are
// relative to the glyph origin.
type Glyph struct {
	X, Y    float32
	Outline []blob.Command
}

// DrawTarget is the surface a paint worker rasterizes one tile into.
// Implementations are not safe for concurrent use; each worker owns its
// targets exclusively.
type DrawTarget interface {
	// Descriptor reports the target's pixel layout.
	Descriptor() ImageDescriptor

	// Translate offsets all subsequent drawing. Offsets accumulate.
	Translate(dx, dy float32)
	// Scale multiplies all subsequent coordinates. Scales accumulate.
	Scale(s float32)

	// PushClip intersects the clip stack with r in local coordinates.
	PushClip(r scenepaint.Rect)
	// PopClip restores the clip in effect before the matching PushClip.
	PopClip()

	FillRect(r scenepaint.Rect, c scenepaint.Color)
	StrokeRect(r scenepaint.Rect, width float32, c scenepaint.Color)
	// FillPath fills a vector command stream with the even-odd-free
	// non-zero winding rule.
	FillPath(cmds []blob.Command, c scenepaint.Color)
	// FillText fills pre-shaped positioned glyph outlines.
	FillText(glyphs []Glyph, origin scenepaint.Point, c scenepaint.Color)
	// DrawSurface blits a previously painted surface into dst.
	DrawSurface(s *NativeSurface, dst scenepaint.Rect)

	// Snapshot copies the target's pixels as premultiplied RGBA, row
	// major with the descriptor's stride.
	Snapshot() []byte
}
