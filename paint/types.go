// Package paint runs the per-pipeline paint task: a coordinator that
// gates painting on permission and epoch, and a fixed pool of worker
// goroutines that rasterize tiles.
package paint

import (
	"github.com/gogpu/scenepaint"
	"github.com/gogpu/scenepaint/backend"
	"github.com/gogpu/scenepaint/display"
)

// BufferRequest asks for one tile of one layer to be painted.
type BufferRequest struct {
	// ScreenRect is the tile's rect in device pixels.
	ScreenRect scenepaint.IntRect
	// PageRect is the content the tile covers, in page coordinates.
	PageRect scenepaint.Rect
	// Scale maps page units to device pixels.
	Scale float32
	// ContentAge is the compositor's version counter for this tile.
	ContentAge uint32
	// Surface is an optional recycled surface to paint into. When nil,
	// or when the size no longer fits, the worker allocates a fresh one.
	Surface *backend.NativeSurface
}

// PaintRequest groups the buffer requests for one layer at one epoch.
type PaintRequest struct {
	Buffers []BufferRequest
	Scale   float32
	Layer   scenepaint.LayerID
	Epoch   scenepaint.Epoch
	Kind    display.LayerKind
}

// LayerBuffer is one painted tile.
type LayerBuffer struct {
	Surface *backend.NativeSurface
	Rect    scenepaint.IntRect
	Scale   float32
	// PaintedWithCPU is true when the pixels live in Surface.Data; a
	// GPU-painted buffer keeps its pixels on the device.
	PaintedWithCPU bool
	ContentAge     uint32
}

// LayerBufferSet is the painted output for one layer, in the same order
// as the buffer requests that produced it.
type LayerBufferSet struct {
	Buffers []*LayerBuffer
}

// Compositor is the surface the paint task hands painted buffers to.
// Implementations must tolerate calls from the coordinator goroutine
// only.
type Compositor interface {
	// GenerateImageKey allocates a compositor-unique image key.
	GenerateImageKey() uint64
	// AddImage publishes new image data under a key.
	AddImage(key uint64, desc backend.ImageDescriptor, data []byte)
	// UpdateImage replaces the data behind an existing key.
	UpdateImage(key uint64, desc backend.ImageDescriptor, data []byte)
	// DeleteImage retires a key.
	DeleteImage(key uint64)

	// InitializeLayersForPipeline announces the layers a pipeline will
	// paint at the given epoch.
	InitializeLayersForPipeline(pipeline scenepaint.PipelineID, epoch scenepaint.Epoch, layers []scenepaint.LayerID)
	// AssignPaintedBuffers delivers painted tiles for one layer.
	AssignPaintedBuffers(pipeline scenepaint.PipelineID, epoch scenepaint.Epoch,
		layer scenepaint.LayerID, set *LayerBufferSet, frameTree scenepaint.FrameTreeID)
	// IgnoreBufferRequests returns request surfaces the painter will
	// never fill, so the compositor can reclaim them.
	IgnoreBufferRequests(requests []BufferRequest)
}

// Msg is one message to a paint task, arriving on either the layout
// port or the chrome port.
type Msg interface {
	isPaintMsg()
}

// Init delivers a new epoch and stacking-context tree.
type Init struct {
	Epoch scenepaint.Epoch
	Tree  *display.StackingContext
}

// Paint requests tiles for one or more layers.
type Paint struct {
	Requests  []PaintRequest
	FrameTree scenepaint.FrameTreeID
}

// PermissionGranted allows the task to paint.
type PermissionGranted struct{}

// PermissionRevoked forbids painting until granted again.
type PermissionRevoked struct{}

// Exit shuts the task down. Done is closed exactly once after every
// worker has acknowledged its own exit.
type Exit struct {
	Done chan struct{}
}

func (Init) isPaintMsg()              {}
func (Paint) isPaintMsg()             {}
func (PermissionGranted) isPaintMsg() {}
func (PermissionRevoked) isPaintMsg() {}
func (Exit) isPaintMsg()              {}

// Ready is the backpressure reply sent when the task stores a tree or
// receives paint requests while it lacks permission to paint.
type Ready struct {
	Pipeline scenepaint.PipelineID
}
