package scene

import (
	"hash/fnv"
	"math"

	"github.com/gogpu/scenepaint"
	"github.com/gogpu/scenepaint/display"
	"github.com/gogpu/scenepaint/intern"
)

// builder performs one scene build: it walks the full retained scene
// (not just the delta) from the root pipeline, folds Push/Pop items into
// a StackingContext tree, and interns every deduplicatable item.
type builder struct {
	doc     *Document
	stats   SceneStats
	handles []intern.Handle

	// visiting guards against iframe reference cycles.
	visiting map[scenepaint.PipelineID]bool
}

func newBuilder(d *Document) *builder {
	return &builder{
		doc:      d,
		handles:  make([]intern.Handle, 0, len(d.liveHandles)),
		visiting: make(map[scenepaint.PipelineID]bool),
	}
}

func (b *builder) build() *BuiltScene {
	rootPipeline := b.doc.Scene.RootPipeline()
	root := b.buildPipeline(rootPipeline)
	if root == nil {
		// Root pipeline has no display list yet; an empty tree is a
		// valid scene, not an error.
		root = &display.StackingContext{
			Layer:  scenepaint.LayerID(rootPipeline),
			Bounds: b.doc.View.DeviceRect.ToRect(),
		}
		b.stats.Contexts++
	}

	b.stats.Interned = b.doc.Interners.LiveCounts()
	return &BuiltScene{
		Root:   root,
		Epochs: b.doc.Scene.Epochs(),
		Stats:  b.stats,
	}
}

// buildPipeline folds one pipeline's display list into a stacking
// context rooted at the pipeline's implicit layer. Returns nil when the
// pipeline has no display list.
func (b *builder) buildPipeline(id scenepaint.PipelineID) *display.StackingContext {
	list := b.doc.Scene.DisplayList(id)
	if list == nil || b.visiting[id] {
		return nil
	}
	b.visiting[id] = true
	defer delete(b.visiting, id)

	sc := &display.StackingContext{
		Layer: scenepaint.LayerID(id),
		Bounds: scenepaint.XYWH(0, 0,
			list.ViewportSize.W, list.ViewportSize.H),
	}
	b.stats.Contexts++

	i := 0
	b.walkItems(list.Items, &i, sc)
	b.internPicture(sc)
	return sc
}

// walkItems consumes items until a PopStackingContextItem or the end of
// the list, appending leaf items to sc and recursing on pushes.
func (b *builder) walkItems(items []display.Item, i *int, sc *display.StackingContext) {
	for *i < len(items) {
		item := items[*i]
		*i++

		switch it := item.(type) {
		case display.PushStackingContextItem:
			child := &display.StackingContext{
				Layer:          it.Layer,
				Bounds:         it.Rect,
				OverflowOrigin: it.OverflowOrigin,
				Kind:           it.Kind,
			}
			b.stats.Contexts++
			b.walkItems(items, i, child)
			b.internPicture(child)
			sc.Children = append(sc.Children, child)

		case display.PopStackingContextItem:
			return

		case display.IframeItem:
			if child := b.buildPipeline(it.Pipeline); child != nil {
				sc.Children = append(sc.Children, child)
			}

		default:
			b.internItem(item)
			sc.Items = append(sc.Items, item)
			b.stats.Items++
		}
	}
}

// internItem dedupes one leaf item's content, keeping the handle alive
// for this build generation.
func (b *builder) internItem(item display.Item) {
	in := b.doc.Interners
	switch it := item.(type) {
	case display.ClipItem:
		b.hold(in.Clips.Intern(display.KeyOfClip(it)))
	case display.GradientItem:
		b.hold(in.Gradients.Intern(display.KeyOfGradient(it)))
	case display.TextRunItem:
		b.hold(in.TextRuns.Intern(display.KeyOfTextRun(it)))
	case display.ImageItem:
		b.hold(in.Images.Intern(it.Key))
	case display.BlobImageItem:
		b.hold(in.Images.Intern(it.Key))
	case display.BorderItem:
		b.hold(in.Borders.Intern(display.KeyOfBorder(it)))
	}
}

// internPicture registers a completed stacking context as a cacheable
// picture keyed by its content fingerprint.
func (b *builder) internPicture(sc *display.StackingContext) {
	key := display.PictureKey{
		Layer:       sc.Layer,
		ContentHash: contentHash(sc),
	}
	b.hold(b.doc.Interners.Pictures.Intern(key))
}

func (b *builder) hold(h intern.Handle) {
	b.handles = append(b.handles, h)
}

// contentHash fingerprints a stacking context's own content. Identical
// content across frames hashes equal, so an unchanged subtree re-interns
// to the same picture handle.
func contentHash(sc *display.StackingContext) uint64 {
	h := fnv.New64a()
	var buf [4]byte
	put := func(v uint32) {
		buf[0] = byte(v)
		buf[1] = byte(v >> 8)
		buf[2] = byte(v >> 16)
		buf[3] = byte(v >> 24)
		h.Write(buf[:])
	}
	putf := func(v float32) { put(math.Float32bits(v)) }

	put(uint32(len(sc.Items)))
	putf(sc.Bounds.MinX)
	putf(sc.Bounds.MinY)
	putf(sc.Bounds.MaxX)
	putf(sc.Bounds.MaxY)
	for _, item := range sc.Items {
		r := item.Bounds()
		putf(r.MinX)
		putf(r.MinY)
		putf(r.MaxX)
		putf(r.MaxY)
	}
	return h.Sum64()
}
