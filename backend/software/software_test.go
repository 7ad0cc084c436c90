package software

import (
	"testing"

	"github.com/gogpu/scenepaint"
	"github.com/gogpu/scenepaint/backend"
	"github.com/gogpu/scenepaint/blob"
)

func pixelAt(t *Target, x, y int) (r, g, b, a uint8) {
	i := t.Image().PixOffset(x, y)
	p := t.Image().Pix
	return p[i], p[i+1], p[i+2], p[i+3]
}

func TestRegistered(t *testing.T) {
	if !backend.IsRegistered(Name) {
		t.Fatalf("backend %q not registered", Name)
	}
	dt, err := backend.New(Name, 16, 16)
	if err != nil {
		t.Fatal(err)
	}
	d := dt.Descriptor()
	if d.Width != 16 || d.Height != 16 {
		t.Errorf("descriptor = %+v, want 16x16", d)
	}
}

func TestFillRectOpaque(t *testing.T) {
	tgt := New(8, 8)
	tgt.FillRect(scenepaint.XYWH(2, 2, 4, 4), scenepaint.RGB(1, 0, 0))

	if r, _, _, a := pixelAt(tgt, 4, 4); r != 0xff || a != 0xff {
		t.Errorf("inside pixel = r=%d a=%d, want opaque red", r, a)
	}
	if _, _, _, a := pixelAt(tgt, 0, 0); a != 0 {
		t.Errorf("outside pixel alpha = %d, want 0", a)
	}
}

func TestClipRestrictsFill(t *testing.T) {
	tgt := New(8, 8)
	tgt.PushClip(scenepaint.XYWH(0, 0, 4, 8))
	tgt.FillRect(scenepaint.XYWH(0, 0, 8, 8), scenepaint.RGB(0, 1, 0))
	tgt.PopClip()

	if _, g, _, _ := pixelAt(tgt, 2, 4); g != 0xff {
		t.Error("pixel inside clip not painted")
	}
	if _, _, _, a := pixelAt(tgt, 6, 4); a != 0 {
		t.Error("pixel outside clip was painted")
	}

	// After PopClip the full target is paintable again.
	tgt.FillRect(scenepaint.XYWH(5, 0, 3, 8), scenepaint.RGB(0, 0, 1))
	if _, _, b, _ := pixelAt(tgt, 6, 4); b != 0xff {
		t.Error("fill after PopClip still clipped")
	}
}

func TestTranslateAndScale(t *testing.T) {
	tgt := New(16, 16)
	tgt.Scale(2)
	tgt.Translate(2, 2) // device offset (4, 4)
	tgt.FillRect(scenepaint.XYWH(0, 0, 2, 2), scenepaint.RGB(1, 1, 1))

	if _, _, _, a := pixelAt(tgt, 5, 5); a != 0xff {
		t.Error("scaled+translated rect missing at device (5,5)")
	}
	if _, _, _, a := pixelAt(tgt, 2, 2); a != 0 {
		t.Error("painted outside the transformed rect")
	}
}

func TestFillPathTriangle(t *testing.T) {
	tgt := New(8, 8)
	tgt.FillPath([]blob.Command{
		{Verb: blob.VerbMoveTo, X: 0, Y: 0},
		{Verb: blob.VerbLineTo, X: 8, Y: 0},
		{Verb: blob.VerbLineTo, X: 0, Y: 8},
		{Verb: blob.VerbClose},
	}, scenepaint.RGB(1, 0, 1))

	if _, _, _, a := pixelAt(tgt, 1, 1); a == 0 {
		t.Error("pixel inside triangle not covered")
	}
	if _, _, _, a := pixelAt(tgt, 7, 7); a != 0 {
		t.Error("pixel outside triangle covered")
	}
}

func TestDrawSurfaceBlits(t *testing.T) {
	src := backend.NewNativeSurface(2, 2)
	for i := 0; i < len(src.Data); i += 4 {
		src.Data[i] = 0xff // red, premultiplied
		src.Data[i+3] = 0xff
	}

	tgt := New(8, 8)
	tgt.DrawSurface(src, scenepaint.XYWH(3, 3, 2, 2))
	if r, _, _, _ := pixelAt(tgt, 3, 3); r != 0xff {
		t.Error("blitted surface pixel missing")
	}
	if _, _, _, a := pixelAt(tgt, 0, 0); a != 0 {
		t.Error("blit leaked outside destination rect")
	}
}

func TestSnapshotCopies(t *testing.T) {
	tgt := New(4, 4)
	tgt.FillRect(scenepaint.XYWH(0, 0, 4, 4), scenepaint.RGB(0, 0, 1))
	snap := tgt.Snapshot()
	tgt.FillRect(scenepaint.XYWH(0, 0, 4, 4), scenepaint.RGB(1, 0, 0))
	if snap[2] != 0xff {
		t.Error("snapshot missing original blue channel")
	}
	if snap[0] != 0 {
		t.Error("snapshot aliased the live buffer")
	}
}
