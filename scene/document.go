package scene

import (
	"context"
	"fmt"
	"time"

	"github.com/gogpu/scenepaint"
	"github.com/gogpu/scenepaint/blob"
	"github.com/gogpu/scenepaint/intern"
	"github.com/gogpu/scenepaint/profiler"
)

// Document is one document's complete scene-side state. Created on
// AddDocument, mutated by every transaction, destroyed on DeleteDocument.
// Owned exclusively by the scene-builder thread.
type Document struct {
	ID        scenepaint.DocumentID
	Scene     *Scene
	Interners *Interners
	Stats     SceneStats
	View      SceneView

	// removedPipelines records pipelines removed by the current
	// transaction so a later SetDisplayList in the same batch cannot
	// resurrect them. Cleared once per transaction cycle.
	removedPipelines map[scenepaint.PipelineID]struct{}

	// liveHandles are the interner handles referenced by the previous
	// build; released after a successful rebuild replaces them.
	liveHandles []intern.Handle
}

// NewDocument creates a document covering the given device rect.
func NewDocument(id scenepaint.DocumentID, deviceRect scenepaint.IntRect) *Document {
	d := &Document{
		ID:    id,
		Scene: NewScene(),
		View: SceneView{
			DeviceRect:       deviceRect,
			DevicePixelRatio: 1,
			PageZoom:         1,
		},
		removedPipelines: make(map[scenepaint.PipelineID]struct{}),
	}
	d.Interners = NewInterners(&d.Stats)
	return d
}

// Process applies one transaction: scene ops in order, the blob
// rasterization substep, a conditional scene build, and the interner
// diff. It returns the built transaction for the render backend.
func (d *Document) Process(ctx context.Context, txn *Transaction) *BuiltTransaction {
	ctx, span := profiler.Start(ctx, profiler.SpanTransaction,
		profiler.Int64("document", int64(d.ID)),
		profiler.Int("ops", len(txn.SceneOps)))
	defer span.End()

	clear(d.removedPipelines)

	rebuild := false
	for _, op := range txn.SceneOps {
		switch m := op.(type) {
		case SetDisplayList:
			if m.List == nil {
				continue
			}
			if _, removed := d.removedPipelines[m.List.Pipeline]; removed {
				// The same batch removed this pipeline earlier;
				// setting its list now must not resurrect it.
				continue
			}
			d.Scene.SetDisplayList(m.List)
			rebuild = true
		case SetRootPipeline:
			if d.Scene.SetRootPipeline(m.Pipeline) {
				rebuild = true
			}
		case RemovePipeline:
			d.Scene.RemovePipeline(m.Pipeline)
			d.removedPipelines[m.Pipeline] = struct{}{}
		case UpdateEpoch:
			d.Scene.UpdateEpoch(m.Pipeline, m.Epoch)
		case SetPageZoom:
			d.View.PageZoom = m.Zoom
		case SetQuality:
			d.View.LowQuality = m.Low
		case SetDocumentView:
			d.View.DeviceRect = m.DeviceRect
			if m.Ratio > 0 {
				d.View.DevicePixelRatio = m.Ratio
			}
		}
	}

	// Blob substep: normally the low-priority thread has already drained
	// BlobRequests; anything left is rasterized here so the transaction
	// never finishes with pending blobs. Results accumulate.
	if len(txn.BlobRequests) > 0 {
		_, bspan := profiler.Start(ctx, profiler.SpanBlobRasterization,
			profiler.Int("requests", len(txn.BlobRequests)))
		quality := blob.QualityHigh
		if d.View.LowQuality {
			quality = blob.QualityLow
		}
		txn.RasterizedBlobs = append(txn.RasterizedBlobs, blob.Rasterize(txn.BlobRequests, quality)...)
		txn.BlobRequests = nil
		bspan.End()
	}

	built := &BuiltTransaction{
		Document:        d.ID,
		RasterizedBlobs: txn.RasterizedBlobs,
		View:            d.View,
		Timestamp:       time.Now(),
	}

	didBuild := false
	if rebuild && d.Scene.HasRootPipeline() {
		_, bspan := profiler.Start(ctx, profiler.SpanSceneBuild,
			profiler.Int("pipelines", d.Scene.PipelineCount()))
		bs, err := d.buildScene()
		bspan.End()
		if err != nil {
			// Build failures are isolated to this document; the
			// transaction still completes without a new scene.
			scenepaint.Logger().Warn("scene build failed",
				"document", d.ID, "err", err)
		} else {
			built.Scene = bs
			didBuild = true
		}
	}

	// The interner diff is taken exactly once per transaction, and only
	// when a build refreshed the interners.
	if didBuild {
		built.InternerUpdates = d.Interners.EndFrameAndGetPendingUpdates()
	}

	// Drain-and-notify pass: SceneBuilt observers fire now that the
	// build decision is finalized; other checkpoints stay queued.
	remaining := txn.Notifications[:0]
	for _, n := range txn.Notifications {
		if n.When == CheckpointSceneBuilt {
			n.Notify()
		} else {
			remaining = append(remaining, n)
		}
	}
	txn.Notifications = remaining

	return built
}

// buildScene runs the full scene walk behind a recover boundary so a
// panic in one document's build cannot take down co-located documents on
// the shared scene-builder thread.
func (d *Document) buildScene() (bs *BuiltScene, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("scene build panicked: %v", r)
		}
	}()

	b := newBuilder(d)
	bs = b.build()

	// The new build holds its own references; drop the previous
	// frame's. Items shared between the two frames keep a non-zero
	// count and their handles stay stable.
	for _, h := range d.liveHandles {
		d.Interners.Release(h)
	}
	d.liveHandles = b.handles

	d.Stats.Absorb(bs.Stats)
	return bs, nil
}
