package scenepaint

import "testing"

func TestRectUnion(t *testing.T) {
	tests := []struct {
		name string
		a, b Rect
		want Rect
	}{
		{
			name: "disjoint",
			a:    XYWH(0, 0, 10, 10),
			b:    XYWH(20, 20, 10, 10),
			want: Rect{MinX: 0, MinY: 0, MaxX: 30, MaxY: 30},
		},
		{
			name: "empty left identity",
			a:    EmptyRect(),
			b:    XYWH(5, 5, 10, 10),
			want: XYWH(5, 5, 10, 10),
		},
		{
			name: "empty right identity",
			a:    XYWH(5, 5, 10, 10),
			b:    EmptyRect(),
			want: XYWH(5, 5, 10, 10),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Union(tt.b); got != tt.want {
				t.Errorf("Union() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestRectIntersect(t *testing.T) {
	a := XYWH(0, 0, 10, 10)
	b := XYWH(5, 5, 10, 10)
	got := a.Intersect(b)
	want := Rect{MinX: 5, MinY: 5, MaxX: 10, MaxY: 10}
	if got != want {
		t.Errorf("Intersect() = %+v, want %+v", got, want)
	}

	c := XYWH(20, 20, 5, 5)
	if !a.Intersect(c).IsEmpty() {
		t.Error("disjoint rects should intersect to empty")
	}
}

func TestEmptyRect(t *testing.T) {
	e := EmptyRect()
	if !e.IsEmpty() {
		t.Error("EmptyRect() should be empty")
	}
	if e.Width() != 0 || e.Height() != 0 {
		t.Errorf("empty rect extent = %v x %v, want 0 x 0", e.Width(), e.Height())
	}
}

func TestAffineMultiply(t *testing.T) {
	// Translate then scale: point (1, 1) -> translate(2, 3) -> (3, 4) -> scale(2, 2) -> (6, 8).
	m := ScaleAffine(2, 2).Multiply(TranslateAffine(2, 3))
	x, y := m.TransformPoint(1, 1)
	if x != 6 || y != 8 {
		t.Errorf("TransformPoint(1,1) = (%v, %v), want (6, 8)", x, y)
	}
}

func TestAffineIdentity(t *testing.T) {
	if !IdentityAffine().IsIdentity() {
		t.Error("IdentityAffine().IsIdentity() = false")
	}
	if TranslateAffine(1, 0).IsIdentity() {
		t.Error("translation should not be identity")
	}
	x, y := IdentityAffine().TransformPoint(3.5, -2)
	if x != 3.5 || y != -2 {
		t.Errorf("identity moved point to (%v, %v)", x, y)
	}
}

func TestAffineTransformRect(t *testing.T) {
	r := XYWH(1, 1, 2, 2)
	got := ScaleAffine(2, 3).TransformRect(r)
	want := Rect{MinX: 2, MinY: 3, MaxX: 6, MaxY: 9}
	if got != want {
		t.Errorf("TransformRect() = %+v, want %+v", got, want)
	}
}

func TestColorPremultiplied(t *testing.T) {
	r, g, b, a := RGBA(1, 0.5, 0, 0.5).Premultiplied()
	if a != 128 {
		t.Errorf("alpha = %d, want 128", a)
	}
	if r != 128 {
		t.Errorf("premultiplied red = %d, want 128", r)
	}
	if g < 63 || g > 65 {
		t.Errorf("premultiplied green = %d, want ~64", g)
	}
	if b != 0 {
		t.Errorf("premultiplied blue = %d, want 0", b)
	}
}
