// Package scene holds the mutable per-document scene state and the build
// step that turns raw display lists into an optimized, interned scene.
//
// A Document owns one Scene (display lists and epochs per pipeline), one
// Interners aggregate, running SceneStats, and a SceneView. Documents are
// mutated only by transactions applied on the scene-builder thread
// (package builder); nothing here is safe for concurrent use, and nothing
// here needs to be.
package scene

import (
	"github.com/gogpu/scenepaint"
	"github.com/gogpu/scenepaint/display"
	"github.com/gogpu/scenepaint/intern"
)

// Scene is the retained display-list state for one document: the current
// list and epoch per pipeline, and which pipeline is the root.
type Scene struct {
	pipelines map[scenepaint.PipelineID]*display.List
	epochs    map[scenepaint.PipelineID]scenepaint.Epoch
	root      scenepaint.PipelineID
	hasRoot   bool
}

// NewScene creates an empty scene.
func NewScene() *Scene {
	return &Scene{
		pipelines: make(map[scenepaint.PipelineID]*display.List),
		epochs:    make(map[scenepaint.PipelineID]scenepaint.Epoch),
	}
}

// SetDisplayList replaces a pipeline's display list wholesale and records
// the list's epoch.
func (s *Scene) SetDisplayList(list *display.List) {
	s.pipelines[list.Pipeline] = list
	s.epochs[list.Pipeline] = list.Epoch
}

// RemovePipeline drops a pipeline's display list and epoch.
func (s *Scene) RemovePipeline(id scenepaint.PipelineID) {
	delete(s.pipelines, id)
	delete(s.epochs, id)
	if s.hasRoot && s.root == id {
		s.hasRoot = false
	}
}

// SetRootPipeline makes id the root pipeline and reports whether the root
// actually changed.
func (s *Scene) SetRootPipeline(id scenepaint.PipelineID) bool {
	if s.hasRoot && s.root == id {
		return false
	}
	s.root = id
	s.hasRoot = true
	return true
}

// UpdateEpoch bumps a pipeline's epoch without touching its display list.
func (s *Scene) UpdateEpoch(id scenepaint.PipelineID, epoch scenepaint.Epoch) {
	s.epochs[id] = epoch
}

// HasRootPipeline reports whether a root pipeline has been assigned.
func (s *Scene) HasRootPipeline() bool { return s.hasRoot }

// RootPipeline returns the root pipeline id; valid only when
// HasRootPipeline reports true.
func (s *Scene) RootPipeline() scenepaint.PipelineID { return s.root }

// DisplayList returns a pipeline's current display list, or nil.
func (s *Scene) DisplayList(id scenepaint.PipelineID) *display.List {
	return s.pipelines[id]
}

// Epoch returns a pipeline's current epoch.
func (s *Scene) Epoch(id scenepaint.PipelineID) (scenepaint.Epoch, bool) {
	e, ok := s.epochs[id]
	return e, ok
}

// Epochs returns a copy of the pipeline→epoch map, the snapshot stamped
// onto a BuiltScene.
func (s *Scene) Epochs() map[scenepaint.PipelineID]scenepaint.Epoch {
	out := make(map[scenepaint.PipelineID]scenepaint.Epoch, len(s.epochs))
	for id, e := range s.epochs {
		out[id] = e
	}
	return out
}

// PipelineCount returns the number of pipelines with display lists.
func (s *Scene) PipelineCount() int { return len(s.pipelines) }

// SceneView is the document's view configuration: where it is on the
// device and how content is scaled.
type SceneView struct {
	DeviceRect       scenepaint.IntRect
	DevicePixelRatio float32
	PageZoom         float32
	LowQuality       bool
}

// SceneStats carries sizing observations from one build to pre-size the
// next build's allocations. Stats only grow: hints from build N seed
// build N+1 and never regress below what was observed.
type SceneStats struct {
	Items    int
	Contexts int
	Interned [intern.NumKinds]int
}

// Absorb merges newer observations, keeping the element-wise maximum.
func (s *SceneStats) Absorb(o SceneStats) {
	s.Items = max(s.Items, o.Items)
	s.Contexts = max(s.Contexts, o.Contexts)
	for i := range s.Interned {
		s.Interned[i] = max(s.Interned[i], o.Interned[i])
	}
}
