package scenepaint

import "fmt"

// Epoch is a monotonic version tag stamped on a pipeline's display list.
// The layout side assigns a new epoch on every display-list submission; the
// paint coordinator compares (never mutates) epochs to reject stale tile
// requests. Wrap-around is tolerated: equality is the only comparison the
// pipeline performs.
type Epoch uint32

// Next returns the epoch following e.
func (e Epoch) Next() Epoch { return e + 1 }

func (e Epoch) String() string { return fmt.Sprintf("Epoch(%d)", uint32(e)) }

// PipelineID identifies one rendering pipeline (one frame tree node's
// content). Display lists, epochs, and paint tasks are all keyed by it.
type PipelineID uint64

func (id PipelineID) String() string { return fmt.Sprintf("Pipeline(%d)", uint64(id)) }

// DocumentID identifies one document in the scene builder's registry.
// Each document owns an independent scene, interner set, and view.
type DocumentID uint64

func (id DocumentID) String() string { return fmt.Sprintf("Document(%d)", uint64(id)) }

// LayerID identifies one stacking context acting as a compositing layer.
// Painted buffer sets are keyed by (LayerID, Epoch).
type LayerID uint64

func (id LayerID) String() string { return fmt.Sprintf("Layer(%d)", uint64(id)) }

// FrameTreeID tags a compositor frame-tree generation. It is carried
// opaquely through paint requests so the compositor can associate painted
// buffers with the frame tree that requested them.
type FrameTreeID uint32
