package scene

import (
	"time"

	"github.com/gogpu/scenepaint"
	"github.com/gogpu/scenepaint/blob"
	"github.com/gogpu/scenepaint/display"
	"github.com/gogpu/scenepaint/intern"
)

// Msg is one scene mutation inside a transaction. Ordering within a
// transaction matters and is preserved: a SetDisplayList that follows a
// RemovePipeline for the same pipeline must not resurrect it.
type Msg interface {
	isSceneMsg()
}

// SetDisplayList replaces one pipeline's display list. The list carries
// its own pipeline id and epoch.
type SetDisplayList struct {
	List *display.List
}

// SetRootPipeline selects the pipeline whose display list roots the
// built scene.
type SetRootPipeline struct {
	Pipeline scenepaint.PipelineID
}

// RemovePipeline drops a pipeline from the scene. Later SetDisplayList
// messages for the same pipeline within the same transaction are no-ops.
type RemovePipeline struct {
	Pipeline scenepaint.PipelineID
}

// UpdateEpoch bumps a pipeline's epoch without replacing its display
// list. Never triggers a rebuild.
type UpdateEpoch struct {
	Pipeline scenepaint.PipelineID
	Epoch    scenepaint.Epoch
}

// SetPageZoom changes the document's page zoom. Never triggers a rebuild.
type SetPageZoom struct {
	Zoom float32
}

// SetQuality toggles low-quality rendering. Never triggers a rebuild.
type SetQuality struct {
	Low bool
}

// SetDocumentView moves or rescales the document on the device.
type SetDocumentView struct {
	DeviceRect scenepaint.IntRect
	Ratio      float32
}

func (SetDisplayList) isSceneMsg()  {}
func (SetRootPipeline) isSceneMsg() {}
func (RemovePipeline) isSceneMsg()  {}
func (UpdateEpoch) isSceneMsg()     {}
func (SetPageZoom) isSceneMsg()     {}
func (SetQuality) isSceneMsg()      {}
func (SetDocumentView) isSceneMsg() {}

// Checkpoint names a point in a transaction's life that callers can
// observe.
type Checkpoint uint8

const (
	// CheckpointSceneBuilt fires once the build (or no-build) decision
	// for a transaction is finalized.
	CheckpointSceneBuilt Checkpoint = iota
	// CheckpointFrameBuilt fires when the render backend has built a
	// frame from the transaction.
	CheckpointFrameBuilt
	// CheckpointFrameRendered fires when the frame reached the screen.
	CheckpointFrameRendered
)

// Notification asks for a one-shot signal when a checkpoint is reached.
// Each notification owns its Done channel; it is closed exactly once when
// the checkpoint fires.
type Notification struct {
	When Checkpoint
	Done chan<- struct{}
}

// Notify fires the notification.
func (n Notification) Notify() {
	if n.Done != nil {
		close(n.Done)
	}
}

// Transaction is one batch of scene mutations for one document, applied
// atomically by the scene-builder thread.
type Transaction struct {
	Document scenepaint.DocumentID

	// SceneOps are applied strictly in order.
	SceneOps []Msg

	// BlobRequests queue vector images for rasterization. The
	// low-priority thread normally consumes these before the primary
	// thread sees the transaction.
	BlobRequests []blob.Request

	// RasterizedBlobs accumulates results. Rasterization appends here,
	// never replaces: results rasterized earlier but not yet consumed
	// must survive.
	RasterizedBlobs []blob.Result

	// Notifications observed during processing; CheckpointSceneBuilt
	// entries fire once processing finishes, others pass through.
	Notifications []Notification
}

// BuiltScene is the optimized output of one scene build: the stacking
// context tree, the epoch snapshot it represents, and sizing stats.
type BuiltScene struct {
	Root   *display.StackingContext
	Epochs map[scenepaint.PipelineID]scenepaint.Epoch
	Stats  SceneStats
}

// BuiltTransaction is the diffable result of processing one transaction,
// consumed by the render backend to atomically swap in a new scene.
type BuiltTransaction struct {
	Document scenepaint.DocumentID

	// Scene is nil when the transaction did not warrant a rebuild.
	Scene *BuiltScene

	// InternerUpdates is the interner diff for this transaction; empty
	// unless a build happened.
	InternerUpdates intern.Updates

	RasterizedBlobs []blob.Result

	// View is the document view at the end of the transaction.
	View SceneView

	Timestamp time.Time
}
