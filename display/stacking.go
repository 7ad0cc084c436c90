package display

import "github.com/gogpu/scenepaint"

// StackingContext is a node in the retained paint tree: a layer or
// 3D-context boundary with its items and child contexts.
//
// The tree is immutable after construction and shared by pointer. The
// paint coordinator holds the root; every in-flight tile job holds its own
// reference, so a tree stays alive (and safely readable without locks)
// until the last worker painting against it finishes, even if a newer
// epoch replaced it at the coordinator.
type StackingContext struct {
	Layer          scenepaint.LayerID
	Bounds         scenepaint.Rect
	OverflowOrigin scenepaint.Point
	Kind           LayerKind

	// Items are this context's own display items, in paint order.
	// Push/Pop structural items do not appear here.
	Items []Item

	Children []*StackingContext
}

// FindLayer searches the subtree for the stacking context with the given
// layer id. Absence is a normal "nothing to draw" case, reported as nil.
func (sc *StackingContext) FindLayer(id scenepaint.LayerID) *StackingContext {
	if sc == nil {
		return nil
	}
	if sc.Layer == id {
		return sc
	}
	for _, child := range sc.Children {
		if found := child.FindLayer(id); found != nil {
			return found
		}
	}
	return nil
}

// CountContexts returns the number of stacking contexts in the subtree.
func (sc *StackingContext) CountContexts() int {
	if sc == nil {
		return 0
	}
	n := 1
	for _, child := range sc.Children {
		n += child.CountContexts()
	}
	return n
}

// CountItems returns the number of display items in the subtree.
func (sc *StackingContext) CountItems() int {
	if sc == nil {
		return 0
	}
	n := len(sc.Items)
	for _, child := range sc.Children {
		n += child.CountItems()
	}
	return n
}
