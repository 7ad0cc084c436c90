package text

import (
	"errors"
	"testing"

	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"

	"github.com/gogpu/scenepaint/blob"
)

func TestSegmentRuns(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		wantRuns int
		wantRTL  []bool
	}{
		{"empty", "", 0, nil},
		{"pure ltr", "hello world", 1, []bool{false}},
		{"pure rtl", "שלום", 1, []bool{true}},
		{"mixed", "abc שלום xyz", 3, []bool{false, true, false}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runs := SegmentRuns(tt.text)
			if len(runs) != tt.wantRuns {
				t.Fatalf("runs = %d (%+v), want %d", len(runs), runs, tt.wantRuns)
			}
			for i, rtl := range tt.wantRTL {
				if runs[i].RTL != rtl {
					t.Errorf("run %d RTL = %v, want %v", i, runs[i].RTL, rtl)
				}
			}
		})
	}
}

func TestSegmentRunsPreserveText(t *testing.T) {
	const s = "hello שלום"
	total := 0
	for _, run := range SegmentRuns(s) {
		total += len(run.Text)
	}
	// Visual reordering must not drop or duplicate bytes.
	if total != len(s) {
		t.Errorf("segmented byte total = %d, want %d", total, len(s))
	}
}

func TestShapeTextUnknownFont(t *testing.T) {
	fc := NewFontContext()
	_, err := fc.ShapeText(1, 14, "hello")
	if !errors.Is(err, ErrUnknownFont) {
		t.Errorf("err = %v, want ErrUnknownFont", err)
	}
}

func TestAddFontRejectsGarbage(t *testing.T) {
	fc := NewFontContext()
	if err := fc.AddFont(1, []byte("not a font")); err == nil {
		t.Error("expected an error for invalid font data")
	}
	if fc.HasFont(1) {
		t.Error("failed AddFont still registered the font")
	}
}

func TestSegmentsToCommands(t *testing.T) {
	fx := func(v float32) fixed.Int26_6 { return fixed.Int26_6(v * 64) }
	pt := func(x, y float32) fixed.Point26_6 {
		return fixed.Point26_6{X: fx(x), Y: fx(y)}
	}

	segs := []sfnt.Segment{
		{Op: sfnt.SegmentOpMoveTo, Args: [3]fixed.Point26_6{pt(1, 1)}},
		{Op: sfnt.SegmentOpLineTo, Args: [3]fixed.Point26_6{pt(5, 1)}},
		{Op: sfnt.SegmentOpQuadTo, Args: [3]fixed.Point26_6{pt(5, 5), pt(1, 5)}},
		{Op: sfnt.SegmentOpMoveTo, Args: [3]fixed.Point26_6{pt(2, 2)}},
		{Op: sfnt.SegmentOpLineTo, Args: [3]fixed.Point26_6{pt(3, 2)}},
	}
	cmds := segmentsToCommands(segs)

	// Second MoveTo closes the first contour, and the stream ends closed.
	wantVerbs := []blob.Verb{
		blob.VerbMoveTo, blob.VerbLineTo, blob.VerbQuadTo,
		blob.VerbClose, blob.VerbMoveTo, blob.VerbLineTo, blob.VerbClose,
	}
	if len(cmds) != len(wantVerbs) {
		t.Fatalf("commands = %d, want %d", len(cmds), len(wantVerbs))
	}
	for i, v := range wantVerbs {
		if cmds[i].Verb != v {
			t.Errorf("cmd %d verb = %v, want %v", i, cmds[i].Verb, v)
		}
	}
	if cmds[2].CX != 5 || cmds[2].CY != 5 || cmds[2].X != 1 || cmds[2].Y != 5 {
		t.Errorf("quad command = %+v, want control (5,5) target (1,5)", cmds[2])
	}

	if got := segmentsToCommands(nil); got != nil {
		t.Errorf("empty segments produced %d commands", len(got))
	}
}

func TestGlyphStoreEmptyText(t *testing.T) {
	fc := NewFontContext()
	fc.fonts[7] = &fontEntry{} // placeholder; empty text never touches it
	store, err := fc.ShapeText(7, 12, "")
	if err != nil {
		t.Fatal(err)
	}
	if len(store.Glyphs) != 0 || store.Advance != 0 {
		t.Errorf("empty text produced glyphs: %+v", store)
	}
}
