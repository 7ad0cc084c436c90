// Package software is the CPU draw-target backend. Paths are filled
// through golang.org/x/image/vector into a premultiplied RGBA buffer.
package software

import (
	"image"
	"image/color"
	"image/draw"

	"golang.org/x/image/vector"

	"github.com/gogpu/scenepaint"
	"github.com/gogpu/scenepaint/backend"
	"github.com/gogpu/scenepaint/blob"
)

// Name is the registry identifier for this backend.
const Name = "software"

func init() {
	backend.Register(Name, func(w, h int) (backend.DrawTarget, error) {
		return New(w, h), nil
	})
}

// Target is a CPU draw target over an RGBA pixel buffer.
type Target struct {
	img *image.RGBA

	// tf maps local coordinates to device pixels. Translate and Scale
	// compose onto it in call order.
	tf scenepaint.Affine

	// clips holds the device-space clip stack; the active clip is the
	// last entry.
	clips []image.Rectangle
}

// New creates a transparent target of the given pixel size.
func New(width, height int) *Target {
	return &Target{
		img:   image.NewRGBA(image.Rect(0, 0, width, height)),
		tf:    scenepaint.IdentityAffine(),
		clips: []image.Rectangle{image.Rect(0, 0, width, height)},
	}
}

func (t *Target) Descriptor() backend.ImageDescriptor {
	b := t.img.Bounds()
	return backend.ImageDescriptor{
		Width:  b.Dx(),
		Height: b.Dy(),
		Stride: t.img.Stride,
	}
}

func (t *Target) Translate(dx, dy float32) {
	t.tf = t.tf.Multiply(scenepaint.TranslateAffine(dx, dy))
}

func (t *Target) Scale(s float32) {
	t.tf = t.tf.Multiply(scenepaint.ScaleAffine(s, s))
}

func (t *Target) PushClip(r scenepaint.Rect) {
	device := t.deviceRect(r)
	t.clips = append(t.clips, t.clip().Intersect(device))
}

func (t *Target) PopClip() {
	if len(t.clips) > 1 {
		t.clips = t.clips[:len(t.clips)-1]
	}
}

func (t *Target) clip() image.Rectangle {
	return t.clips[len(t.clips)-1]
}

// deviceRect maps a local rect to outward-rounded device pixels.
func (t *Target) deviceRect(r scenepaint.Rect) image.Rectangle {
	d := t.tf.TransformRect(r)
	return image.Rect(floor(d.MinX), floor(d.MinY), ceil(d.MaxX), ceil(d.MaxY))
}

func (t *Target) devicePoint(x, y float32) (float32, float32) {
	return t.tf.TransformPoint(x, y)
}

func floor(v float32) int {
	i := int(v)
	if v < 0 && float32(i) != v {
		i--
	}
	return i
}

func ceil(v float32) int {
	i := int(v)
	if v > 0 && float32(i) != v {
		i++
	}
	return i
}

func (t *Target) FillRect(r scenepaint.Rect, c scenepaint.Color) {
	area := t.deviceRect(r).Intersect(t.clip()).Intersect(t.img.Bounds())
	if area.Empty() {
		return
	}
	pr, pg, pb, pa := c.Premultiplied()
	src := image.NewUniform(color.RGBA{pr, pg, pb, pa})
	op := draw.Over
	if pa == 0xff {
		op = draw.Src
	}
	draw.Draw(t.img, area, src, image.Point{}, op)
}

func (t *Target) StrokeRect(r scenepaint.Rect, width float32, c scenepaint.Color) {
	if width <= 0 {
		return
	}
	h := width / 2
	t.FillRect(scenepaint.Rect{MinX: r.MinX - h, MinY: r.MinY - h, MaxX: r.MaxX + h, MaxY: r.MinY + h}, c)
	t.FillRect(scenepaint.Rect{MinX: r.MinX - h, MinY: r.MaxY - h, MaxX: r.MaxX + h, MaxY: r.MaxY + h}, c)
	t.FillRect(scenepaint.Rect{MinX: r.MinX - h, MinY: r.MinY + h, MaxX: r.MinX + h, MaxY: r.MaxY - h}, c)
	t.FillRect(scenepaint.Rect{MinX: r.MaxX - h, MinY: r.MinY + h, MaxX: r.MaxX + h, MaxY: r.MaxY - h}, c)
}

func (t *Target) FillPath(cmds []blob.Command, c scenepaint.Color) {
	t.fillPathAt(cmds, 0, 0, c)
}

func (t *Target) FillText(glyphs []backend.Glyph, origin scenepaint.Point, c scenepaint.Color) {
	for _, g := range glyphs {
		t.fillPathAt(g.Outline, origin.X+g.X, origin.Y+g.Y, c)
	}
}

// fillPathAt rasterizes one command stream offset by (ox, oy) in local
// coordinates. The rasterizer is sized to the active clip and the path
// is expressed relative to its origin, so the mask aligns with the draw
// rectangle.
func (t *Target) fillPathAt(cmds []blob.Command, ox, oy float32, c scenepaint.Color) {
	if len(cmds) == 0 {
		return
	}
	area := t.clip().Intersect(t.img.Bounds())
	if area.Empty() {
		return
	}
	r := vector.NewRasterizer(area.Dx(), area.Dy())
	offX, offY := float32(area.Min.X), float32(area.Min.Y)
	point := func(x, y float32) (float32, float32) {
		dx, dy := t.devicePoint(x+ox, y+oy)
		return dx - offX, dy - offY
	}

	open := false
	for _, cmd := range cmds {
		switch cmd.Verb {
		case blob.VerbMoveTo:
			if open {
				r.ClosePath()
			}
			x, y := point(cmd.X, cmd.Y)
			r.MoveTo(x, y)
			open = true
		case blob.VerbLineTo:
			if !open {
				continue
			}
			x, y := point(cmd.X, cmd.Y)
			r.LineTo(x, y)
		case blob.VerbQuadTo:
			if !open {
				continue
			}
			cx, cy := point(cmd.CX, cmd.CY)
			x, y := point(cmd.X, cmd.Y)
			r.QuadTo(cx, cy, x, y)
		case blob.VerbClose:
			if open {
				r.ClosePath()
				open = false
			}
		}
	}
	if open {
		r.ClosePath()
	}

	pr, pg, pb, pa := c.Premultiplied()
	src := image.NewUniform(color.RGBA{pr, pg, pb, pa})
	r.DrawOp = draw.Over
	r.Draw(t.img, area, src, image.Point{})
}

func (t *Target) DrawSurface(s *backend.NativeSurface, dst scenepaint.Rect) {
	if s == nil || len(s.Data) == 0 {
		return
	}
	src := &image.RGBA{
		Pix:    s.Data,
		Stride: s.Width * 4,
		Rect:   image.Rect(0, 0, s.Width, s.Height),
	}
	area := t.deviceRect(dst).Intersect(t.clip()).Intersect(t.img.Bounds())
	if area.Empty() {
		return
	}
	draw.Draw(t.img, area, src, image.Point{}, draw.Over)
}

func (t *Target) Snapshot() []byte {
	out := make([]byte, len(t.img.Pix))
	copy(out, t.img.Pix)
	return out
}

// Image exposes the backing image, mainly for tests and PNG output.
func (t *Target) Image() *image.RGBA {
	return t.img
}

var _ backend.DrawTarget = (*Target)(nil)
