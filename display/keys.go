package display

import "github.com/gogpu/scenepaint"

// Content keys normalize display items into comparable values used by the
// interners. Two items with equal keys are the same content and must
// resolve to the same interner handle within a build generation.

// ImageKey identifies pre-rasterized image content.
type ImageKey struct {
	Width, Height int32
	Checksum      uint64
}

// ClipKey is the normalized form of a ClipItem.
type ClipKey struct {
	Rect   scenepaint.Rect
	Radius float32
}

// GradientKey is the normalized form of a GradientItem, positioned
// relative to its rect so that translated copies share one key.
type GradientKey struct {
	Size       scenepaint.Size
	Start, End scenepaint.Point
	StopCount  uint8
	Stops      [MaxGradientStops]ColorStop
}

// TextRunKey is the normalized form of a TextRunItem.
type TextRunKey struct {
	FontID uint32
	Size   float32
	Color  scenepaint.Color
	Text   string
}

// BorderKey is the normalized form of a BorderItem.
type BorderKey struct {
	Size   scenepaint.Size
	Widths [4]float32
	Color  scenepaint.Color
}

// PictureKey identifies a cached subtree (one stacking context's content).
type PictureKey struct {
	Layer       scenepaint.LayerID
	ContentHash uint64
}

// KeyOfClip normalizes a clip item.
func KeyOfClip(it ClipItem) ClipKey {
	return ClipKey{Rect: it.Rect, Radius: it.Radius}
}

// KeyOfGradient normalizes a gradient item. Start/End are stored relative
// to the rect origin.
func KeyOfGradient(it GradientItem) GradientKey {
	o := it.Rect.Origin()
	k := GradientKey{
		Size:      scenepaint.Size{W: it.Rect.Width(), H: it.Rect.Height()},
		Start:     scenepaint.Point{X: it.Start.X - o.X, Y: it.Start.Y - o.Y},
		End:       scenepaint.Point{X: it.End.X - o.X, Y: it.End.Y - o.Y},
		StopCount: it.StopCount,
	}
	k.Stops = it.Stops
	return k
}

// KeyOfTextRun normalizes a text run item.
func KeyOfTextRun(it TextRunItem) TextRunKey {
	return TextRunKey{FontID: it.FontID, Size: it.Size, Color: it.Color, Text: it.Text}
}

// KeyOfBorder normalizes a border item.
func KeyOfBorder(it BorderItem) BorderKey {
	return BorderKey{
		Size:   scenepaint.Size{W: it.Rect.Width(), H: it.Rect.Height()},
		Widths: it.Widths,
		Color:  it.Color,
	}
}
