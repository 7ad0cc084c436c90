package paint

import (
	"math/rand/v2"

	"github.com/gogpu/scenepaint"
	"github.com/gogpu/scenepaint/backend"
	"github.com/gogpu/scenepaint/backend/gpu"
	"github.com/gogpu/scenepaint/display"
	"github.com/gogpu/scenepaint/text"
)

// FontSource supplies raw font data by font id. Each worker parses its
// own copies; parsed faces are never shared between goroutines.
type FontSource map[uint32][]byte

// tileJob is one tile dispatched to a worker.
type tileJob struct {
	req   BufferRequest
	tree  *display.StackingContext
	scale float32
	kind  display.LayerKind
}

type tileResult struct {
	buffer *LayerBuffer
}

// WorkerProxy is the coordinator's handle to one worker goroutine.
// Jobs go in one channel and come back in FIFO order on another, which
// is what lets the coordinator rebuild result sets in dispatch order.
type WorkerProxy struct {
	index   int
	jobs    chan tileJob
	results chan tileResult
	done    chan struct{}
}

// Option configures worker behavior.
type Option func(*workerConfig)

type workerConfig struct {
	backendName  string
	debugTint    bool
	flashRepaint bool
	queueDepth   int
	tileSize     int
}

// WithBackend selects the registered draw-target backend. Defaults to
// "software".
func WithBackend(name string) Option {
	return func(c *workerConfig) { c.backendName = name }
}

// WithDebugTint overlays each tile with a color keyed to the worker
// that painted it.
func WithDebugTint() Option {
	return func(c *workerConfig) { c.debugTint = true }
}

// WithFlashRepaint makes the debug tint a fresh pseudo-random color on
// every paint, so repainted tiles flash.
func WithFlashRepaint() Option {
	return func(c *workerConfig) {
		c.debugTint = true
		c.flashRepaint = true
	}
}

// WithQueueDepth sets the per-worker job buffer. Defaults to 4.
func WithQueueDepth(n int) Option {
	return func(c *workerConfig) {
		if n > 0 {
			c.queueDepth = n
		}
	}
}

// WithTileSize sets the tile edge the GPU context is bound to. Defaults
// to 128.
func WithTileSize(n int) Option {
	return func(c *workerConfig) {
		if n > 0 {
			c.tileSize = n
		}
	}
}

// SpawnWorkers starts count paint workers. When device carries a real
// GPU the pool is forced to a single worker, since the device context
// is not shareable across painting goroutines.
func SpawnWorkers(count int, fonts FontSource, device gpu.DeviceHandle, opts ...Option) []*WorkerProxy {
	cfg := workerConfig{backendName: "software", queueDepth: 4, tileSize: 128}
	for _, opt := range opts {
		opt(&cfg)
	}
	if count < 1 {
		count = 1
	}

	hasGPU := !gpu.IsNull(device)
	var gctx *gpu.Context
	if hasGPU {
		gctx = gpu.NewContext()
		if err := gctx.Init(); err != nil {
			scenepaint.Logger().Warn("gpu context unavailable, painting on cpu", "err", err)
			gctx = nil
			hasGPU = false
		} else if tc, err := gctx.NewTileContext(cfg.tileSize); err != nil {
			scenepaint.Logger().Warn("gpu tile context rejected, painting on cpu",
				"tile", cfg.tileSize, "err", err)
			gctx.Close()
			gctx = nil
			hasGPU = false
		} else {
			gpu.Configure(tc)
		}
	}
	if forced := poolSize(count, hasGPU); forced != count {
		scenepaint.Logger().Info("gpu painting forces a single worker",
			"requested", count)
		count = forced
	}

	workers := make([]*WorkerProxy, count)
	for i := range workers {
		w := &WorkerProxy{
			index:   i,
			jobs:    make(chan tileJob, cfg.queueDepth),
			results: make(chan tileResult, cfg.queueDepth),
			done:    make(chan struct{}),
		}
		workers[i] = w
		// The GPU rule makes worker 0 the only worker when a device is
		// live, so it owns the context's lifetime.
		var owned *gpu.Context
		if i == 0 {
			owned = gctx
		}
		go w.run(cfg, fonts, hasGPU, owned)
	}
	scenepaint.Logger().Info("paint workers spawned",
		"count", count, "backend", cfg.backendName, "gpu", hasGPU)
	return workers
}

// run is the worker loop: one tile at a time, blocking between jobs.
// Closing the jobs channel is the exit signal; done is the ack.
func (w *WorkerProxy) run(cfg workerConfig, fonts FontSource, hasGPU bool, gctx *gpu.Context) {
	defer close(w.done)
	if gctx != nil {
		defer gctx.Close()
	}

	fc := text.NewFontContext()
	for id, data := range fonts {
		if err := fc.AddFont(id, data); err != nil {
			scenepaint.Logger().Warn("worker font rejected",
				"worker", w.index, "font", id, "err", err)
		}
	}

	for job := range w.jobs {
		w.results <- tileResult{buffer: w.paintTile(fc, cfg, job, hasGPU)}
	}
}

// paintTile rasterizes one tile. It always produces a buffer, even on
// backend failure, so collection order never stalls.
func (w *WorkerProxy) paintTile(fc *text.FontContext, cfg workerConfig, job tileJob, hasGPU bool) *LayerBuffer {
	width, height := job.req.ScreenRect.W, job.req.ScreenRect.H
	buffer := &LayerBuffer{
		Rect:       job.req.ScreenRect,
		Scale:      job.scale,
		ContentAge: job.req.ContentAge,
	}

	gpuTile := hasGPU && job.kind == display.LayerGPU
	name := cfg.backendName
	if gpuTile {
		name = gpu.Name
	}
	target, err := backend.New(name, width, height)
	if err != nil && gpuTile {
		scenepaint.Logger().Warn("gpu tile target unavailable, painting on cpu",
			"worker", w.index, "err", err)
		gpuTile = false
		target, err = backend.New(cfg.backendName, width, height)
	}
	if err != nil {
		scenepaint.Logger().Warn("draw target unavailable",
			"worker", w.index, "backend", cfg.backendName, "err", err)
		buffer.Surface = w.obtainSurface(job.req, width, height)
		buffer.PaintedWithCPU = true
		return buffer
	}

	target.Scale(job.req.Scale)
	target.Translate(-job.req.PageRect.MinX, -job.req.PageRect.MinY)
	w.paintContext(target, fc, job.tree)

	if cfg.debugTint {
		w.tint(target, cfg, job)
	}

	pixels := target.Snapshot()
	if gpuTile {
		if gt, ok := target.(*gpu.Target); ok && gt.Resident() {
			// The tile's pixels live in the device texture; the request
			// surface rides back untouched for recycling.
			buffer.Surface = job.req.Surface
			return buffer
		}
	}

	surface := w.obtainSurface(job.req, width, height)
	copy(surface.Data, pixels)
	buffer.Surface = surface
	buffer.PaintedWithCPU = true
	return buffer
}

// obtainSurface recycles the request's surface when it still fits, and
// allocates otherwise.
func (w *WorkerProxy) obtainSurface(req BufferRequest, width, height int) *backend.NativeSurface {
	if s := req.Surface; s != nil && s.Width == width && s.Height == height {
		s.Recycle()
		return s
	}
	return backend.NewNativeSurface(width, height)
}

// paintContext draws a stacking context's own items, then recurses into
// its children with the target translated to each child's origin.
func (w *WorkerProxy) paintContext(target backend.DrawTarget, fc *text.FontContext, sc *display.StackingContext) {
	clipDepth := 0
	for _, item := range sc.Items {
		switch it := item.(type) {
		case display.RectItem:
			target.FillRect(it.Rect, it.Color)

		case display.BorderItem:
			w.paintBorder(target, it)

		case display.GradientItem:
			w.paintGradient(target, it)

		case display.TextRunItem:
			store, err := fc.ShapeText(it.FontID, it.Size, it.Text)
			if err != nil {
				scenepaint.Logger().Debug("text run skipped",
					"worker", w.index, "font", it.FontID, "err", err)
				continue
			}
			target.FillText(store.Glyphs, it.Origin, it.Color)

		case display.ClipItem:
			target.PushClip(it.Rect)
			clipDepth++

		case display.PopClipItem:
			if clipDepth > 0 {
				target.PopClip()
				clipDepth--
			}

		case display.ImageItem, display.BlobImageItem:
			// Image content is composited from the compositor's image
			// store, not repainted per tile.
		}
	}
	for clipDepth > 0 {
		target.PopClip()
		clipDepth--
	}

	for _, child := range sc.Children {
		dx := child.Bounds.MinX - child.OverflowOrigin.X
		dy := child.Bounds.MinY - child.OverflowOrigin.Y
		target.Translate(dx, dy)
		w.paintContext(target, fc, child)
		target.Translate(-dx, -dy)
	}
}

// paintBorder fills the four edge rects. Widths order is top, right,
// bottom, left.
func (w *WorkerProxy) paintBorder(target backend.DrawTarget, it display.BorderItem) {
	r := it.Rect
	top, right, bottom, left := it.Widths[0], it.Widths[1], it.Widths[2], it.Widths[3]
	if top > 0 {
		target.FillRect(scenepaint.Rect{MinX: r.MinX, MinY: r.MinY, MaxX: r.MaxX, MaxY: r.MinY + top}, it.Color)
	}
	if bottom > 0 {
		target.FillRect(scenepaint.Rect{MinX: r.MinX, MinY: r.MaxY - bottom, MaxX: r.MaxX, MaxY: r.MaxY}, it.Color)
	}
	if left > 0 {
		target.FillRect(scenepaint.Rect{MinX: r.MinX, MinY: r.MinY + top, MaxX: r.MinX + left, MaxY: r.MaxY - bottom}, it.Color)
	}
	if right > 0 {
		target.FillRect(scenepaint.Rect{MinX: r.MaxX - right, MinY: r.MinY + top, MaxX: r.MaxX, MaxY: r.MaxY - bottom}, it.Color)
	}
}

// gradientStrips is the banding resolution for CPU gradient fills.
const gradientStrips = 16

// paintGradient approximates a linear gradient with axis-aligned
// strips, interpolating the stop ramp at each strip center.
func (w *WorkerProxy) paintGradient(target backend.DrawTarget, it display.GradientItem) {
	if it.StopCount == 0 {
		return
	}
	if it.StopCount == 1 {
		target.FillRect(it.Rect, it.Stops[0].Color)
		return
	}

	vertical := abs(it.End.Y-it.Start.Y) >= abs(it.End.X-it.Start.X)
	r := it.Rect
	for i := 0; i < gradientStrips; i++ {
		t0 := float32(i) / gradientStrips
		t1 := float32(i+1) / gradientStrips
		mid := (t0 + t1) / 2
		c := sampleStops(it.Stops[:it.StopCount], mid)
		var strip scenepaint.Rect
		if vertical {
			strip = scenepaint.Rect{
				MinX: r.MinX, MaxX: r.MaxX,
				MinY: r.MinY + t0*r.Height(),
				MaxY: r.MinY + t1*r.Height(),
			}
		} else {
			strip = scenepaint.Rect{
				MinY: r.MinY, MaxY: r.MaxY,
				MinX: r.MinX + t0*r.Width(),
				MaxX: r.MinX + t1*r.Width(),
			}
		}
		target.FillRect(strip, c)
	}
}

// sampleStops evaluates the stop ramp at offset t in [0, 1].
func sampleStops(stops []display.ColorStop, t float32) scenepaint.Color {
	if t <= stops[0].Offset {
		return stops[0].Color
	}
	last := stops[len(stops)-1]
	if t >= last.Offset {
		return last.Color
	}
	for i := 1; i < len(stops); i++ {
		if t > stops[i].Offset {
			continue
		}
		a, b := stops[i-1], stops[i]
		span := b.Offset - a.Offset
		if span <= 0 {
			return b.Color
		}
		f := (t - a.Offset) / span
		return scenepaint.Color{
			R: a.Color.R + f*(b.Color.R-a.Color.R),
			G: a.Color.G + f*(b.Color.G-a.Color.G),
			B: a.Color.B + f*(b.Color.B-a.Color.B),
			A: a.Color.A + f*(b.Color.A-a.Color.A),
		}
	}
	return last.Color
}

var tintPalette = []scenepaint.Color{
	scenepaint.RGBA(1, 0, 0, 0.25),
	scenepaint.RGBA(0, 1, 0, 0.25),
	scenepaint.RGBA(0, 0, 1, 0.25),
	scenepaint.RGBA(1, 1, 0, 0.25),
	scenepaint.RGBA(1, 0, 1, 0.25),
	scenepaint.RGBA(0, 1, 1, 0.25),
}

// tint overlays the tile with the worker's palette color, or a random
// palette entry under flash-repaint so repaints are visible.
func (w *WorkerProxy) tint(target backend.DrawTarget, cfg workerConfig, job tileJob) {
	idx := w.index % len(tintPalette)
	if cfg.flashRepaint {
		idx = rand.IntN(len(tintPalette))
	}
	full := scenepaint.XYWH(
		job.req.PageRect.MinX, job.req.PageRect.MinY,
		job.req.PageRect.Width(), job.req.PageRect.Height())
	target.FillRect(full, tintPalette[idx])
}

// poolSize applies the GPU single-worker rule: a GPU device context
// cannot be shared across painting goroutines.
func poolSize(count int, hasGPU bool) int {
	if hasGPU && count > 1 {
		return 1
	}
	return count
}

func abs(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}
