package scenepaint

import "math"

// Point is a position in scene space.
type Point struct {
	X, Y float32
}

// Size is a width/height pair in scene space.
type Size struct {
	W, H float32
}

// Rect is an axis-aligned rectangle in min/max form.
// An empty rect has MinX > MaxX or MinY > MaxY.
type Rect struct {
	MinX, MinY, MaxX, MaxY float32
}

// EmptyRect returns a rect that unions as the identity element.
func EmptyRect() Rect {
	return Rect{
		MinX: float32(math.Inf(1)),
		MinY: float32(math.Inf(1)),
		MaxX: float32(math.Inf(-1)),
		MaxY: float32(math.Inf(-1)),
	}
}

// XYWH constructs a rect from an origin and size.
func XYWH(x, y, w, h float32) Rect {
	return Rect{MinX: x, MinY: y, MaxX: x + w, MaxY: y + h}
}

// IsEmpty reports whether the rect contains no area.
func (r Rect) IsEmpty() bool {
	return r.MinX >= r.MaxX || r.MinY >= r.MaxY
}

// Width returns the horizontal extent, or 0 for an empty rect.
func (r Rect) Width() float32 {
	if r.IsEmpty() {
		return 0
	}
	return r.MaxX - r.MinX
}

// Height returns the vertical extent, or 0 for an empty rect.
func (r Rect) Height() float32 {
	if r.IsEmpty() {
		return 0
	}
	return r.MaxY - r.MinY
}

// Origin returns the top-left corner.
func (r Rect) Origin() Point { return Point{X: r.MinX, Y: r.MinY} }

// Union returns the smallest rect containing both r and o.
func (r Rect) Union(o Rect) Rect {
	if r.IsEmpty() {
		return o
	}
	if o.IsEmpty() {
		return r
	}
	return Rect{
		MinX: min(r.MinX, o.MinX),
		MinY: min(r.MinY, o.MinY),
		MaxX: max(r.MaxX, o.MaxX),
		MaxY: max(r.MaxY, o.MaxY),
	}
}

// UnionPoint returns the smallest rect containing r and the point (x, y).
func (r Rect) UnionPoint(x, y float32) Rect {
	return r.Union(Rect{MinX: x, MinY: y, MaxX: x, MaxY: y})
}

// Intersect returns the overlap of r and o, which may be empty.
func (r Rect) Intersect(o Rect) Rect {
	return Rect{
		MinX: max(r.MinX, o.MinX),
		MinY: max(r.MinY, o.MinY),
		MaxX: min(r.MaxX, o.MaxX),
		MaxY: min(r.MaxY, o.MaxY),
	}
}

// Intersects reports whether r and o overlap with positive area.
func (r Rect) Intersects(o Rect) bool {
	return !r.Intersect(o).IsEmpty()
}

// Contains reports whether the point (x, y) lies inside r.
func (r Rect) Contains(x, y float32) bool {
	return x >= r.MinX && x < r.MaxX && y >= r.MinY && y < r.MaxY
}

// Translate returns r shifted by (dx, dy).
func (r Rect) Translate(dx, dy float32) Rect {
	if r.IsEmpty() {
		return r
	}
	return Rect{MinX: r.MinX + dx, MinY: r.MinY + dy, MaxX: r.MaxX + dx, MaxY: r.MaxY + dy}
}

// IntRect is an axis-aligned rectangle in device pixels.
type IntRect struct {
	X, Y, W, H int
}

// IsEmpty reports whether the rect covers no pixels.
func (r IntRect) IsEmpty() bool { return r.W <= 0 || r.H <= 0 }

// ToRect converts to scene-space float coordinates.
func (r IntRect) ToRect() Rect {
	return XYWH(float32(r.X), float32(r.Y), float32(r.W), float32(r.H))
}

// Affine is a 2D affine transform in row-major [a b c; d e f] form:
//
//	x' = a*x + b*y + c
//	y' = d*x + e*y + f
type Affine struct {
	A, B, C, D, E, F float32
}

// IdentityAffine returns the identity transform.
func IdentityAffine() Affine {
	return Affine{A: 1, E: 1}
}

// TranslateAffine returns a translation by (x, y).
func TranslateAffine(x, y float32) Affine {
	return Affine{A: 1, C: x, E: 1, F: y}
}

// ScaleAffine returns a scale by (x, y).
func ScaleAffine(x, y float32) Affine {
	return Affine{A: x, E: y}
}

// IsIdentity reports whether the transform is exactly the identity.
func (t Affine) IsIdentity() bool {
	return t == IdentityAffine()
}

// Multiply returns t*o, the transform that applies o first and then t.
func (t Affine) Multiply(o Affine) Affine {
	return Affine{
		A: t.A*o.A + t.B*o.D,
		B: t.A*o.B + t.B*o.E,
		C: t.A*o.C + t.B*o.F + t.C,
		D: t.D*o.A + t.E*o.D,
		E: t.D*o.B + t.E*o.E,
		F: t.D*o.C + t.E*o.F + t.F,
	}
}

// TransformPoint applies the transform to (x, y).
func (t Affine) TransformPoint(x, y float32) (float32, float32) {
	return t.A*x + t.B*y + t.C, t.D*x + t.E*y + t.F
}

// TransformRect returns the bounding box of the transformed corners of r.
func (t Affine) TransformRect(r Rect) Rect {
	if r.IsEmpty() {
		return r
	}
	out := EmptyRect()
	for _, c := range [4][2]float32{
		{r.MinX, r.MinY},
		{r.MaxX, r.MinY},
		{r.MaxX, r.MaxY},
		{r.MinX, r.MaxY},
	} {
		x, y := t.TransformPoint(c[0], c[1])
		out = out.UnionPoint(x, y)
	}
	return out
}
