// Command scenepaintd runs the full scene/paint pipeline end to end: it
// builds a display list, processes it through the scene-builder threads,
// paints the resulting tree with a worker pool, and composites the
// painted tiles into a PNG.
package main

import (
	"context"
	"flag"
	"image"
	"image/png"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/gogpu/scenepaint"
	"github.com/gogpu/scenepaint/backend/gpu"
	_ "github.com/gogpu/scenepaint/backend/software"
	"github.com/gogpu/scenepaint/blob"
	"github.com/gogpu/scenepaint/builder"
	"github.com/gogpu/scenepaint/compositor"
	"github.com/gogpu/scenepaint/display"
	"github.com/gogpu/scenepaint/paint"
	"github.com/gogpu/scenepaint/scene"
)

func main() {
	var (
		width    = flag.Int("width", 512, "viewport width in pixels")
		height   = flag.Int("height", 512, "viewport height in pixels")
		workers  = flag.Int("workers", 4, "paint worker count")
		tileSize = flag.Int("tile", 128, "tile edge length in pixels")
		output   = flag.String("output", "scene.png", "output file")
		tint     = flag.Bool("tint", false, "tint tiles by painting worker")
		verbose  = flag.Bool("v", false, "debug logging")
	)
	flag.Parse()

	if *verbose {
		scenepaint.SetLogger(slog.New(slog.NewTextHandler(os.Stderr,
			&slog.HandlerOptions{Level: slog.LevelDebug})))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	rec := compositor.NewRecorder()
	built := buildScene(ctx, *width, *height)
	paint.NewBlobImages(rec).Publish(built.RasterizedBlobs)
	set := paintScene(ctx, built, rec, *width, *height, *workers, *tileSize, *tint)
	if err := writePNG(*output, set, *width, *height, *tileSize); err != nil {
		log.Fatalf("writing %s: %v", *output, err)
	}
	log.Printf("wrote %s (%dx%d, %d tiles, %d blob images)",
		*output, *width, *height, len(set.Buffers), len(built.RasterizedBlobs))
}

// buildScene pushes one transaction through the builder threads and
// waits for the built result.
func buildScene(ctx context.Context, width, height int) *scene.BuiltTransaction {
	threads := builder.Spawn(ctx)
	defer threads.Stop()

	const doc = scenepaint.DocumentID(1)
	const pipeline = scenepaint.PipelineID(1)

	threads.Send(builder.AddDocument{
		ID:         doc,
		DeviceRect: scenepaint.IntRect{W: width, H: height},
	})
	threads.Send(builder.TransactionsRequest{Txns: []*scene.Transaction{{
		Document: doc,
		SceneOps: []scene.Msg{
			scene.SetRootPipeline{Pipeline: pipeline},
			scene.SetDisplayList{List: demoList(pipeline, width, height)},
		},
		BlobRequests: []blob.Request{demoBlob()},
	}}})

	res, ok := <-threads.Results()
	if !ok || len(res.Built) == 0 {
		log.Fatal("builder produced no result")
	}
	built := res.Built[0]
	if built.Scene == nil {
		log.Fatal("transaction did not build a scene")
	}
	close(res.Swapped)
	return built
}

// paintScene paints the built tree as a tile grid and returns the
// buffer set in tile order.
func paintScene(ctx context.Context, built *scene.BuiltTransaction, rec *compositor.Recorder,
	width, height, workers, tileSize int, tint bool) *paint.LayerBufferSet {

	opts := []paint.Option{paint.WithTileSize(tileSize)}
	if tint {
		opts = append(opts, paint.WithDebugTint())
	}
	pool := paint.SpawnWorkers(workers, nil, gpu.NullDeviceHandle{}, opts...)

	root := built.Scene.Root
	task := paint.NewTask(1, rec, pool)
	go task.Run(ctx)
	defer func() {
		done := make(chan struct{})
		task.ChromePort() <- paint.Exit{Done: done}
		<-done
	}()

	epoch := built.Scene.Epochs[scenepaint.PipelineID(1)]
	task.ChromePort() <- paint.PermissionGranted{}
	task.LayoutPort() <- paint.Init{Epoch: epoch, Tree: root}

	var buffers []paint.BufferRequest
	for y := 0; y < height; y += tileSize {
		for x := 0; x < width; x += tileSize {
			buffers = append(buffers, paint.BufferRequest{
				ScreenRect: scenepaint.IntRect{X: x, Y: y, W: tileSize, H: tileSize},
				PageRect:   scenepaint.XYWH(float32(x), float32(y), float32(tileSize), float32(tileSize)),
				Scale:      1,
			})
		}
	}
	task.LayoutPort() <- paint.Paint{
		Requests: []paint.PaintRequest{{
			Buffers: buffers,
			Scale:   1,
			Layer:   root.Layer,
			Epoch:   epoch,
		}},
		FrameTree: 1,
	}

	deadline := time.Now().Add(10 * time.Second)
	for time.Now().Before(deadline) {
		if as := rec.Assignments(); len(as) > 0 {
			return as[0].Set
		}
		time.Sleep(5 * time.Millisecond)
	}
	log.Fatal("paint task never delivered buffers")
	return nil
}

// writePNG composites the tile buffers back into one image.
func writePNG(path string, set *paint.LayerBufferSet, width, height, tileSize int) error {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for _, b := range set.Buffers {
		if b.Surface == nil {
			continue
		}
		for row := 0; row < b.Surface.Height; row++ {
			y := b.Rect.Y + row
			if y >= height {
				break
			}
			src := b.Surface.Data[row*b.Surface.Width*4 : (row+1)*b.Surface.Width*4]
			dst := img.Pix[y*img.Stride+b.Rect.X*4:]
			copy(dst[:min(len(src), (width-b.Rect.X)*4)], src)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return png.Encode(f, img)
}

// demoBlob is a small vector diamond the low-priority thread rasterizes
// on the way in.
func demoBlob() blob.Request {
	return blob.Request{
		Key:    1,
		Width:  32,
		Height: 32,
		Color:  scenepaint.RGB(0.95, 0.35, 0.2),
		Commands: []blob.Command{
			{Verb: blob.VerbMoveTo, X: 16, Y: 2},
			{Verb: blob.VerbLineTo, X: 30, Y: 16},
			{Verb: blob.VerbLineTo, X: 16, Y: 30},
			{Verb: blob.VerbLineTo, X: 2, Y: 16},
			{Verb: blob.VerbClose},
		},
	}
}

// demoList builds a display list with nested stacking contexts, a
// gradient, borders, and clips, sized to the viewport.
func demoList(pipeline scenepaint.PipelineID, width, height int) *display.List {
	w, h := float32(width), float32(height)
	l := display.NewList(pipeline, 1)
	l.ViewportSize = scenepaint.Size{W: w, H: h}

	l.Push(
		// Background gradient.
		display.GradientItem{
			Rect:      scenepaint.XYWH(0, 0, w, h),
			Start:     scenepaint.Point{X: 0, Y: 0},
			End:       scenepaint.Point{X: 0, Y: h},
			StopCount: 3,
			Stops: [display.MaxGradientStops]display.ColorStop{
				{Offset: 0, Color: scenepaint.RGB(0.10, 0.20, 0.40)},
				{Offset: 0.5, Color: scenepaint.RGB(0.30, 0.35, 0.55)},
				{Offset: 1, Color: scenepaint.RGB(0.50, 0.50, 0.60)},
			},
		},

		// A clipped panel.
		display.ClipItem{Rect: scenepaint.XYWH(w*0.1, h*0.1, w*0.8, h*0.35)},
		display.RectItem{
			Rect:  scenepaint.XYWH(w*0.05, h*0.05, w*0.9, h*0.45),
			Color: scenepaint.RGBA(1, 1, 1, 0.9),
		},
		display.BorderItem{
			Rect:   scenepaint.XYWH(w*0.1, h*0.1, w*0.8, h*0.35),
			Widths: [4]float32{4, 4, 4, 4},
			Color:  scenepaint.RGB(0.9, 0.4, 0.1),
		},
		display.PopClipItem{},

		// A nested stacking context with its own content.
		display.PushStackingContextItem{
			Layer: 2,
			Rect:  scenepaint.XYWH(w*0.15, h*0.55, w*0.7, h*0.35),
		},
		display.RectItem{
			Rect:  scenepaint.XYWH(0, 0, w*0.7, h*0.35),
			Color: scenepaint.RGBA(0.2, 0.6, 0.3, 0.95),
		},
		display.RectItem{
			Rect:  scenepaint.XYWH(w*0.05, h*0.05, w*0.2, h*0.1),
			Color: scenepaint.RGB(1, 0.85, 0.2),
		},
		display.PopStackingContextItem{},
	)
	return l
}
