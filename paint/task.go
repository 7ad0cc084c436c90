package paint

import (
	"context"

	"github.com/gogpu/scenepaint"
	"github.com/gogpu/scenepaint/display"
	"github.com/gogpu/scenepaint/profiler"
)

// Task coordinates painting for one pipeline. It fans in messages from
// the layout port and the chrome port, gates painting on permission and
// epoch, and farms tiles out to its worker pool.
//
// Run the task on its own goroutine; all compositor calls happen there.
type Task struct {
	pipeline   scenepaint.PipelineID
	compositor Compositor
	workers    []*WorkerProxy

	layoutPort chan Msg
	chromePort chan Msg
	ready      chan Ready

	hasPermission bool
	epoch         scenepaint.Epoch
	tree          *display.StackingContext
}

// NewTask creates a paint task over an already-spawned worker pool.
func NewTask(pipeline scenepaint.PipelineID, comp Compositor, workers []*WorkerProxy) *Task {
	if len(workers) == 0 {
		panic("paint: NewTask needs at least one worker")
	}
	return &Task{
		pipeline:   pipeline,
		compositor: comp,
		workers:    workers,
		layoutPort: make(chan Msg, 8),
		chromePort: make(chan Msg, 8),
		ready:      make(chan Ready, 8),
	}
}

// LayoutPort is the message channel for the layout thread.
func (t *Task) LayoutPort() chan<- Msg { return t.layoutPort }

// ChromePort is the message channel for the embedder.
func (t *Task) ChromePort() chan<- Msg { return t.chromePort }

// ReadyReplies carries the PainterReady backpressure signals.
func (t *Task) ReadyReplies() <-chan Ready { return t.ready }

// Run is the coordinator loop. It returns after an Exit message, or
// once both ports are closed, which counts as a quiet shutdown.
func (t *Task) Run(ctx context.Context) {
	layout, chrome := t.layoutPort, t.chromePort
	for {
		var msg Msg
		var ok bool
		select {
		case <-ctx.Done():
			t.shutdownWorkers()
			return
		case msg, ok = <-layout:
			if !ok {
				layout = nil
			}
		case msg, ok = <-chrome:
			if !ok {
				chrome = nil
			}
		}
		if !ok {
			if layout == nil && chrome == nil {
				// Both peers departed; shut down without an Exit.
				t.shutdownWorkers()
				return
			}
			continue
		}

		switch m := msg.(type) {
		case Init:
			t.epoch = m.Epoch
			t.tree = m.Tree
			if t.tree != nil {
				t.compositor.InitializeLayersForPipeline(
					t.pipeline, t.epoch, collectLayers(t.tree))
			}
			if !t.hasPermission {
				t.sendReady(ctx)
			}

		case PermissionGranted:
			t.hasPermission = true

		case PermissionRevoked:
			t.hasPermission = false

		case Paint:
			t.handlePaint(ctx, m)

		case Exit:
			t.shutdownWorkers()
			if m.Done != nil {
				close(m.Done)
			}
			return
		}
	}
}

// handlePaint applies the permission and epoch gates, then paints each
// surviving request.
func (t *Task) handlePaint(ctx context.Context, m Paint) {
	if !t.hasPermission {
		t.sendReady(ctx)
		for _, req := range m.Requests {
			t.compositor.IgnoreBufferRequests(req.Buffers)
		}
		return
	}

	_, span := profiler.Start(ctx, profiler.SpanPaint,
		profiler.Int64("pipeline", int64(t.pipeline)),
		profiler.Int("requests", len(m.Requests)))
	defer span.End()

	for _, req := range m.Requests {
		if req.Epoch != t.epoch {
			// A stale frame raced a newer Init; dropping it is routine.
			scenepaint.Logger().Debug("ignoring stale paint request",
				"pipeline", t.pipeline,
				"request_epoch", req.Epoch, "current_epoch", t.epoch)
			t.compositor.IgnoreBufferRequests(req.Buffers)
			continue
		}
		t.paintLayer(req, m.FrameTree)
	}
}

// paintLayer round-robins the layer's tiles over the workers, then
// drains results in dispatch order so the buffer set preserves request
// order.
func (t *Task) paintLayer(req PaintRequest, frameTree scenepaint.FrameTreeID) {
	sc := t.tree.FindLayer(req.Layer)
	if sc == nil {
		scenepaint.Logger().Debug("paint request for absent layer",
			"pipeline", t.pipeline, "layer", req.Layer)
		t.compositor.IgnoreBufferRequests(req.Buffers)
		return
	}

	// Dispatch from a helper goroutine so bounded worker queues cannot
	// deadlock the coordinator when tiles far outnumber workers; the
	// coordinator meanwhile drains results in dispatch order. Collection
	// finishing implies dispatch finished, so the helper never outlives
	// this call.
	n := len(t.workers)
	go func() {
		for i, b := range req.Buffers {
			t.workers[i%n].jobs <- tileJob{
				req:   b,
				tree:  sc,
				scale: req.Scale,
				kind:  req.Kind,
			}
		}
	}()

	set := &LayerBufferSet{Buffers: make([]*LayerBuffer, 0, len(req.Buffers))}
	for i := range req.Buffers {
		res := <-t.workers[i%n].results
		set.Buffers = append(set.Buffers, res.buffer)
	}

	// Ownership of every surface moves to the compositor with this
	// call; the transfer mark is what catches a double free later.
	for _, b := range set.Buffers {
		if b.Surface != nil {
			b.Surface.MarkWontLeak()
		}
	}
	t.compositor.AssignPaintedBuffers(t.pipeline, req.Epoch, req.Layer, set, frameTree)
}

// sendReady emits one PainterReady reply per triggering message. The
// send blocks so a backlogged receiver still sees every signal; ctx
// bounds the wait when the receiver is gone.
func (t *Task) sendReady(ctx context.Context) {
	select {
	case t.ready <- Ready{Pipeline: t.pipeline}:
	case <-ctx.Done():
	}
}

// shutdownWorkers closes every worker's job channel and waits for each
// ack, so no worker outlives the task.
func (t *Task) shutdownWorkers() {
	for _, w := range t.workers {
		close(w.jobs)
	}
	for _, w := range t.workers {
		<-w.done
	}
	scenepaint.Logger().Info("paint task exited", "pipeline", t.pipeline)
}

// collectLayers gathers every layer id in the tree, root first.
func collectLayers(sc *display.StackingContext) []scenepaint.LayerID {
	if sc == nil {
		return nil
	}
	layers := []scenepaint.LayerID{sc.Layer}
	for _, child := range sc.Children {
		layers = append(layers, collectLayers(child)...)
	}
	return layers
}
