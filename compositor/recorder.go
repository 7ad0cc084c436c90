// Package compositor provides an in-memory Compositor implementation
// that records everything the paint task hands it. The demo composites
// from it; tests assert against it.
package compositor

import (
	"sync"

	"github.com/gogpu/scenepaint"
	"github.com/gogpu/scenepaint/backend"
	"github.com/gogpu/scenepaint/paint"
)

// Image is one published compositor image.
type Image struct {
	Desc backend.ImageDescriptor
	Data []byte
}

// Assignment is one AssignPaintedBuffers delivery.
type Assignment struct {
	Pipeline  scenepaint.PipelineID
	Epoch     scenepaint.Epoch
	Layer     scenepaint.LayerID
	Set       *paint.LayerBufferSet
	FrameTree scenepaint.FrameTreeID
}

// Recorder is a Compositor that keeps everything it receives. Safe for
// concurrent use: the paint task writes while tests read.
type Recorder struct {
	mu sync.Mutex

	nextKey uint64
	images  map[uint64]Image

	layers      map[scenepaint.PipelineID][]scenepaint.LayerID
	layerEpochs map[scenepaint.PipelineID]scenepaint.Epoch

	assignments []Assignment
	ignored     [][]paint.BufferRequest
}

// NewRecorder creates an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{
		images:      make(map[uint64]Image),
		layers:      make(map[scenepaint.PipelineID][]scenepaint.LayerID),
		layerEpochs: make(map[scenepaint.PipelineID]scenepaint.Epoch),
	}
}

func (r *Recorder) GenerateImageKey() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextKey++
	return r.nextKey
}

func (r *Recorder) AddImage(key uint64, desc backend.ImageDescriptor, data []byte) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.images[key] = Image{Desc: desc, Data: data}
}

func (r *Recorder) UpdateImage(key uint64, desc backend.ImageDescriptor, data []byte) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.images[key]; !ok {
		scenepaint.Logger().Warn("update for unknown image", "key", key)
		return
	}
	r.images[key] = Image{Desc: desc, Data: data}
}

func (r *Recorder) DeleteImage(key uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.images, key)
}

func (r *Recorder) InitializeLayersForPipeline(pipeline scenepaint.PipelineID,
	epoch scenepaint.Epoch, layers []scenepaint.LayerID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.layers[pipeline] = layers
	r.layerEpochs[pipeline] = epoch
}

func (r *Recorder) AssignPaintedBuffers(pipeline scenepaint.PipelineID, epoch scenepaint.Epoch,
	layer scenepaint.LayerID, set *paint.LayerBufferSet, frameTree scenepaint.FrameTreeID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.assignments = append(r.assignments, Assignment{
		Pipeline:  pipeline,
		Epoch:     epoch,
		Layer:     layer,
		Set:       set,
		FrameTree: frameTree,
	})
}

func (r *Recorder) IgnoreBufferRequests(requests []paint.BufferRequest) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ignored = append(r.ignored, requests)
}

// Image returns a published image by key.
func (r *Recorder) Image(key uint64) (Image, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	img, ok := r.images[key]
	return img, ok
}

// Layers returns the layers announced for a pipeline and the epoch they
// were announced at.
func (r *Recorder) Layers(pipeline scenepaint.PipelineID) ([]scenepaint.LayerID, scenepaint.Epoch) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.layers[pipeline], r.layerEpochs[pipeline]
}

// Assignments returns a snapshot of all painted-buffer deliveries.
func (r *Recorder) Assignments() []Assignment {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Assignment, len(r.assignments))
	copy(out, r.assignments)
	return out
}

// Ignored returns a snapshot of all ignored request batches.
func (r *Recorder) Ignored() [][]paint.BufferRequest {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([][]paint.BufferRequest, len(r.ignored))
	copy(out, r.ignored)
	return out
}

var _ paint.Compositor = (*Recorder)(nil)
