package display

import "github.com/gogpu/scenepaint"

// List is one pipeline's retained display list for one epoch. Lists are
// replaced wholesale on every submission, never edited in place.
type List struct {
	Pipeline     scenepaint.PipelineID
	Epoch        scenepaint.Epoch
	ViewportSize scenepaint.Size
	Items        []Item
}

// NewList creates an empty display list for a pipeline at an epoch.
func NewList(pipeline scenepaint.PipelineID, epoch scenepaint.Epoch) *List {
	return &List{Pipeline: pipeline, Epoch: epoch}
}

// Push appends items in submission order.
func (l *List) Push(items ...Item) {
	l.Items = append(l.Items, items...)
}

// Bounds returns the union of all item bounds.
func (l *List) Bounds() scenepaint.Rect {
	out := scenepaint.EmptyRect()
	for _, it := range l.Items {
		out = out.Union(it.Bounds())
	}
	return out
}

// Len returns the number of items.
func (l *List) Len() int { return len(l.Items) }
