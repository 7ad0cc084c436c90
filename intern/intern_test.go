package intern

import "testing"

type clipKey struct {
	x, y, w, h float32
}

func TestInternDeterminism(t *testing.T) {
	in := New[clipKey](KindClip)

	a := in.Intern(clipKey{0, 0, 10, 10})
	b := in.Intern(clipKey{0, 0, 10, 10})
	if a != b {
		t.Errorf("equal keys interned to different handles: %+v vs %+v", a, b)
	}

	c := in.Intern(clipKey{5, 5, 10, 10})
	if c == a {
		t.Error("distinct keys interned to the same handle")
	}

	if got := in.Len(); got != 2 {
		t.Errorf("Len() = %d, want 2", got)
	}
	if got := in.Refs(a); got != 2 {
		t.Errorf("Refs(a) = %d, want 2", got)
	}
}

func TestInternAddRemoveExactlyOnce(t *testing.T) {
	in := New[clipKey](KindClip)

	h := in.Intern(clipKey{0, 0, 1, 1})
	_ = in.Intern(clipKey{0, 0, 1, 1}) // second reference, no second Add

	updates := in.EndFrameAndGetPendingUpdates()
	if len(updates.Adds) != 1 || updates.Adds[0] != h {
		t.Fatalf("first frame Adds = %v, want exactly [%+v]", updates.Adds, h)
	}
	if len(updates.Removes) != 0 {
		t.Fatalf("first frame Removes = %v, want none", updates.Removes)
	}

	// Releasing the first reference does not remove the item.
	if !in.Release(h) {
		t.Fatal("Release of live handle reported false")
	}
	updates = in.EndFrameAndGetPendingUpdates()
	if !updates.IsEmpty() {
		t.Fatalf("partial release produced diff %+v", updates)
	}

	// Releasing the last reference schedules exactly one Remove.
	if !in.Release(h) {
		t.Fatal("Release of last reference reported false")
	}
	updates = in.EndFrameAndGetPendingUpdates()
	if len(updates.Removes) != 1 || updates.Removes[0] != h {
		t.Fatalf("Removes = %v, want exactly [%+v]", updates.Removes, h)
	}
	if len(updates.Adds) != 0 {
		t.Fatalf("Adds = %v, want none", updates.Adds)
	}

	// A drained diff stays drained.
	if got := in.EndFrameAndGetPendingUpdates(); !got.IsEmpty() {
		t.Errorf("second drain returned %+v, want empty", got)
	}
}

func TestInternSlotReuseBumpsGeneration(t *testing.T) {
	in := New[clipKey](KindClip)

	old := in.Intern(clipKey{1, 1, 1, 1})
	in.Release(old)

	fresh := in.Intern(clipKey{2, 2, 2, 2})
	if fresh.Index != old.Index {
		t.Fatalf("freed slot not reused: old index %d, new index %d", old.Index, fresh.Index)
	}
	if fresh.Generation == old.Generation {
		t.Error("reused slot kept the old generation")
	}

	// The stale handle must no longer resolve.
	if in.Refs(old) != 0 {
		t.Error("stale handle still has references")
	}
	if in.Release(old) {
		t.Error("Release of stale handle reported true")
	}
}

func TestInternReleaseStale(t *testing.T) {
	in := New[clipKey](KindClip)
	h := in.Intern(clipKey{0, 0, 1, 1})

	wrongKind := h
	wrongKind.Kind = KindImage
	if in.Release(wrongKind) {
		t.Error("Release with wrong kind reported true")
	}

	outOfRange := Handle{Index: 99, Kind: KindClip}
	if in.Release(outOfRange) {
		t.Error("Release of out-of-range handle reported true")
	}

	if got := in.Refs(h); got != 1 {
		t.Errorf("live handle refs = %d, want 1 after bogus releases", got)
	}
}

func TestInternReinternSameKeyNewLifetime(t *testing.T) {
	in := New[clipKey](KindClip)
	key := clipKey{3, 3, 3, 3}

	first := in.Intern(key)
	in.Release(first)
	second := in.Intern(key)

	if first == second {
		t.Error("re-interned key after release should get a new generation")
	}

	updates := in.EndFrameAndGetPendingUpdates()
	// Within one frame: first lifetime added and removed, second added.
	if len(updates.Adds) != 2 {
		t.Errorf("Adds = %v, want two lifetimes", updates.Adds)
	}
	if len(updates.Removes) != 1 || updates.Removes[0] != first {
		t.Errorf("Removes = %v, want [%+v]", updates.Removes, first)
	}
}

func TestUpdatesIsEmpty(t *testing.T) {
	u := Updates{
		{Kind: KindClip},
		{Kind: KindImage},
	}
	if !u.IsEmpty() {
		t.Error("all-empty updates reported non-empty")
	}
	u[1].Adds = append(u[1].Adds, Handle{Kind: KindImage})
	if u.IsEmpty() {
		t.Error("updates with an add reported empty")
	}
}

func TestItemKindString(t *testing.T) {
	tests := []struct {
		kind ItemKind
		want string
	}{
		{KindClip, "clip"},
		{KindGradient, "gradient"},
		{KindTextRun, "text-run"},
		{KindImage, "image"},
		{KindBorder, "border"},
		{KindPicture, "picture"},
		{ItemKind(200), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.want {
			t.Errorf("ItemKind(%d).String() = %q, want %q", tt.kind, got, tt.want)
		}
	}
}
