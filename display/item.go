// Package display defines the retained display-list data produced by
// layout and the immutable stacking-context tree the paint pipeline walks.
//
// A display list is an ordered sequence of items for one pipeline, stamped
// with the epoch it was built for. Stacking-context boundaries appear as
// Push/Pop item pairs; the scene builder folds them into a StackingContext
// tree, which is shared by pointer and never mutated after construction so
// that painter workers can read it concurrently without locks.
package display

import (
	"github.com/gogpu/scenepaint"
)

// LayerKind classifies how a stacking context's tiles are painted.
type LayerKind uint8

const (
	// LayerCPU tiles are rasterized on the CPU and copied into their
	// native surface.
	LayerCPU LayerKind = iota
	// LayerGPU tiles are rasterized by a GPU context that targets the
	// shared surface directly, skipping the copy.
	LayerGPU
)

func (k LayerKind) String() string {
	if k == LayerGPU {
		return "gpu"
	}
	return "cpu"
}

// Item is one display-list entry. The concrete types below are the only
// implementations.
type Item interface {
	// Bounds returns the item's extent in pipeline space. Structural
	// items (pops) report an empty rect.
	Bounds() scenepaint.Rect

	isItem()
}

// RectItem fills a rectangle with a solid color.
type RectItem struct {
	Rect  scenepaint.Rect
	Color scenepaint.Color
}

// BorderItem strokes a rectangle's four edges.
type BorderItem struct {
	Rect   scenepaint.Rect
	Widths [4]float32 // top, right, bottom, left
	Color  scenepaint.Color
}

// ColorStop is one gradient stop, offset in [0, 1].
type ColorStop struct {
	Offset float32
	Color  scenepaint.Color
}

// MaxGradientStops bounds the stops carried inline so gradient content
// keys stay comparable.
const MaxGradientStops = 8

// GradientItem fills a rectangle with a linear gradient.
type GradientItem struct {
	Rect       scenepaint.Rect
	Start, End scenepaint.Point
	StopCount  uint8
	Stops      [MaxGradientStops]ColorStop
}

// ImageItem draws a pre-rasterized image identified by its content key.
type ImageItem struct {
	Rect scenepaint.Rect
	Key  ImageKey
}

// BlobImageItem draws a vector-described image that needs CPU
// rasterization before upload. Commands use the blob package's verb
// layout; they are opaque to the display list.
type BlobImageItem struct {
	Rect scenepaint.Rect
	Key  ImageKey
	// Commands is the serialized vector command stream.
	Commands []byte
}

// TextRunItem draws a run of text with one font and size. Shaping happens
// in the painter workers; the display list carries only the source text.
type TextRunItem struct {
	Rect   scenepaint.Rect
	Origin scenepaint.Point
	FontID uint32
	Size   float32
	Color  scenepaint.Color
	Text   string
}

// ClipItem restricts subsequent sibling items to a rounded rectangle.
type ClipItem struct {
	Rect   scenepaint.Rect
	Radius float32
}

// PopClipItem ends the innermost ClipItem.
type PopClipItem struct{}

// IframeItem embeds another pipeline's display list at the given rect.
type IframeItem struct {
	Rect     scenepaint.Rect
	Pipeline scenepaint.PipelineID
}

// PushStackingContextItem opens a stacking context. Items up to the
// matching PopStackingContextItem belong to it.
type PushStackingContextItem struct {
	Layer          scenepaint.LayerID
	Rect           scenepaint.Rect
	OverflowOrigin scenepaint.Point
	Kind           LayerKind
}

// PopStackingContextItem closes the innermost stacking context.
type PopStackingContextItem struct{}

func (it RectItem) Bounds() scenepaint.Rect                { return it.Rect }
func (it BorderItem) Bounds() scenepaint.Rect              { return it.Rect }
func (it GradientItem) Bounds() scenepaint.Rect            { return it.Rect }
func (it ImageItem) Bounds() scenepaint.Rect               { return it.Rect }
func (it BlobImageItem) Bounds() scenepaint.Rect           { return it.Rect }
func (it TextRunItem) Bounds() scenepaint.Rect             { return it.Rect }
func (it ClipItem) Bounds() scenepaint.Rect                { return it.Rect }
func (PopClipItem) Bounds() scenepaint.Rect                { return scenepaint.EmptyRect() }
func (it IframeItem) Bounds() scenepaint.Rect              { return it.Rect }
func (it PushStackingContextItem) Bounds() scenepaint.Rect { return it.Rect }
func (PopStackingContextItem) Bounds() scenepaint.Rect     { return scenepaint.EmptyRect() }

func (RectItem) isItem()                {}
func (BorderItem) isItem()              {}
func (GradientItem) isItem()            {}
func (ImageItem) isItem()               {}
func (BlobImageItem) isItem()           {}
func (TextRunItem) isItem()             {}
func (ClipItem) isItem()                {}
func (PopClipItem) isItem()             {}
func (IframeItem) isItem()              {}
func (PushStackingContextItem) isItem() {}
func (PopStackingContextItem) isItem()  {}
