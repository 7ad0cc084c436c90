// Package intern provides content-addressed deduplication of immutable
// scene data into stable, reusable handles.
//
// An Interner maps a normalized content key to a Handle plus a reference
// count. Two scene items with equal keys always resolve to the same handle,
// so frame-to-frame diffs can compare handles instead of item contents.
// Handle slots are recycled with a bumped generation once the last
// reference is released, and every insertion/removal is reported exactly
// once through the per-frame update diff.
package intern

// ItemKind classifies the interned data namespaces. Each kind has its own
// handle space; handles of different kinds never compare equal.
type ItemKind uint8

const (
	KindClip ItemKind = iota
	KindGradient
	KindTextRun
	KindImage
	KindBorder
	KindPicture

	// NumKinds is the number of item kinds; useful for per-kind arrays.
	NumKinds = int(KindPicture) + 1
)

func (k ItemKind) String() string {
	switch k {
	case KindClip:
		return "clip"
	case KindGradient:
		return "gradient"
	case KindTextRun:
		return "text-run"
	case KindImage:
		return "image"
	case KindBorder:
		return "border"
	case KindPicture:
		return "picture"
	default:
		return "unknown"
	}
}

// Handle is a stable opaque reference to one interned item. The generation
// distinguishes reuses of the same slot index across item lifetimes.
type Handle struct {
	Index      uint32
	Generation uint32
	Kind       ItemKind
}

// UpdateList is the diff of one interner namespace since the previous
// EndFrameAndGetPendingUpdates call. Over an item's whole lifetime its
// handle appears in Adds exactly once and in Removes exactly once.
type UpdateList struct {
	Kind    ItemKind
	Adds    []Handle
	Removes []Handle
}

// IsEmpty reports whether the diff carries no changes.
func (u *UpdateList) IsEmpty() bool {
	return len(u.Adds) == 0 && len(u.Removes) == 0
}

// Updates aggregates the per-kind diffs of one frame.
type Updates []UpdateList

// IsEmpty reports whether no namespace changed.
func (u Updates) IsEmpty() bool {
	for i := range u {
		if !u[i].IsEmpty() {
			return false
		}
	}
	return true
}

type slot[K comparable] struct {
	key        K
	generation uint32
	refs       uint32
	live       bool
}

// Interner deduplicates values of one item kind by content-equality of
// their keys.
//
// Interner is not safe for concurrent use; the scene-builder thread owns
// it exclusively, which keeps the hot build path lock-free.
type Interner[K comparable] struct {
	kind    ItemKind
	lookup  map[K]uint32 // key -> slot index, live slots only
	slots   []slot[K]
	free    []uint32
	pending UpdateList
}

// New creates an empty interner for one item kind.
func New[K comparable](kind ItemKind) *Interner[K] {
	return &Interner[K]{
		kind:    kind,
		lookup:  make(map[K]uint32),
		pending: UpdateList{Kind: kind},
	}
}

// NewWithCapacity creates an interner pre-sized for the given number of
// items. Scene stats from the previous build feed this hint.
func NewWithCapacity[K comparable](kind ItemKind, capacity int) *Interner[K] {
	if capacity < 0 {
		capacity = 0
	}
	return &Interner[K]{
		kind:    kind,
		lookup:  make(map[K]uint32, capacity),
		slots:   make([]slot[K], 0, capacity),
		pending: UpdateList{Kind: kind},
	}
}

// Intern returns the stable handle for key, adding a reference. The first
// insertion of a key records an Add in the pending diff; later calls with
// an equal key return the identical handle.
func (in *Interner[K]) Intern(key K) Handle {
	if idx, ok := in.lookup[key]; ok {
		s := &in.slots[idx]
		s.refs++
		return Handle{Index: idx, Generation: s.generation, Kind: in.kind}
	}

	var idx uint32
	if n := len(in.free); n > 0 {
		idx = in.free[n-1]
		in.free = in.free[:n-1]
		s := &in.slots[idx]
		s.key = key
		s.generation++
		s.refs = 1
		s.live = true
	} else {
		idx = uint32(len(in.slots))
		in.slots = append(in.slots, slot[K]{key: key, refs: 1, live: true})
	}

	in.lookup[key] = idx
	h := Handle{Index: idx, Generation: in.slots[idx].generation, Kind: in.kind}
	in.pending.Adds = append(in.pending.Adds, h)
	return h
}

// Release drops one reference to the item behind h. When the last
// reference goes away the slot is freed and a Remove is recorded in the
// pending diff. Releasing a stale handle (wrong generation, already freed)
// reports false and has no effect.
func (in *Interner[K]) Release(h Handle) bool {
	if h.Kind != in.kind || int(h.Index) >= len(in.slots) {
		return false
	}
	s := &in.slots[h.Index]
	if !s.live || s.generation != h.Generation || s.refs == 0 {
		return false
	}
	s.refs--
	if s.refs > 0 {
		return true
	}

	delete(in.lookup, s.key)
	s.live = false
	var zero K
	s.key = zero
	in.free = append(in.free, h.Index)
	in.pending.Removes = append(in.pending.Removes, h)
	return true
}

// Refs returns the current reference count behind h, or 0 for a stale
// handle.
func (in *Interner[K]) Refs(h Handle) uint32 {
	if h.Kind != in.kind || int(h.Index) >= len(in.slots) {
		return 0
	}
	s := &in.slots[h.Index]
	if !s.live || s.generation != h.Generation {
		return 0
	}
	return s.refs
}

// Len returns the number of live interned items.
func (in *Interner[K]) Len() int { return len(in.lookup) }

// EndFrameAndGetPendingUpdates drains the adds/removes recorded since the
// previous call. Calling it twice in a row yields an empty second diff.
func (in *Interner[K]) EndFrameAndGetPendingUpdates() UpdateList {
	out := in.pending
	in.pending = UpdateList{Kind: in.kind}
	return out
}
