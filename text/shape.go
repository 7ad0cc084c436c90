package text

import (
	"github.com/go-text/typesetting/di"
	"github.com/go-text/typesetting/font"
	"github.com/go-text/typesetting/language"
	"github.com/go-text/typesetting/shaping"
	"golang.org/x/image/math/fixed"
	"golang.org/x/text/unicode/bidi"

	"github.com/gogpu/scenepaint/backend"
)

// Run is one directionally uniform slice of a paragraph, in visual
// order.
type Run struct {
	Text string
	RTL  bool
}

// SegmentRuns splits text into bidi runs in visual order. Pure LTR text
// comes back as a single run.
func SegmentRuns(text string) []Run {
	if text == "" {
		return nil
	}

	p := bidi.Paragraph{}
	if _, err := p.SetString(text); err != nil {
		return []Run{{Text: text}}
	}
	ordering, err := p.Order()
	if err != nil {
		return []Run{{Text: text}}
	}

	n := ordering.NumRuns()
	runs := make([]Run, 0, n)
	for i := 0; i < n; i++ {
		r := ordering.Run(i)
		runs = append(runs, Run{
			Text: r.String(),
			RTL:  r.Direction() == bidi.RightToLeft,
		})
	}
	return runs
}

// ShapeText shapes one text run with the registered font, returning
// positioned glyph outlines ready for FillText. Positions are relative
// to the pen origin at the text baseline, y pointing down.
func (fc *FontContext) ShapeText(fontID uint32, size float32, text string) (*GlyphStore, error) {
	entry, ok := fc.fonts[fontID]
	if !ok {
		return nil, ErrUnknownFont
	}
	if text == "" {
		return &GlyphStore{}, nil
	}

	store := &GlyphStore{}
	for _, run := range SegmentRuns(text) {
		fc.shapeRun(fontID, entry, size, run, store)
	}
	return store, nil
}

// shapeRun shapes one bidi run and appends its glyphs to the store,
// advancing the store's pen.
func (fc *FontContext) shapeRun(fontID uint32, entry *fontEntry, size float32, run Run, store *GlyphStore) {
	runes := []rune(run.Text)
	if len(runes) == 0 {
		return
	}

	dir := di.DirectionLTR
	if run.RTL {
		dir = di.DirectionRTL
	}

	// font.Face is not safe for concurrent use; a fresh one per run is
	// cheap since it only wraps the shared *Font.
	input := shaping.Input{
		Text:      runes,
		RunStart:  0,
		RunEnd:    len(runes),
		Direction: dir,
		Face:      font.NewFace(entry.shape),
		Size:      fixed.Int26_6(size * 64),
		Script:    detectScript(runes),
		Language:  language.NewLanguage("en"),
	}

	output := fc.shaper.Shape(input)

	x := store.Advance
	for _, g := range output.Glyphs {
		xOff := float32(g.XOffset) / 64
		yOff := float32(g.YOffset) / 64
		gid := uint16(g.GlyphID)
		outline := fc.glyphOutline(fontID, entry, gid, size)
		store.Glyphs = append(store.Glyphs, backend.Glyph{
			X:       x + xOff,
			Y:       yOff,
			Outline: outline.cmds,
		})
		x += float32(g.XAdvance) / 64
	}
	store.Advance = x
}

// detectScript returns the script of the first non-space rune, which is
// enough once the text has been split into bidi runs.
func detectScript(runes []rune) language.Script {
	for _, r := range runes {
		switch r {
		case ' ', '\t', '\n', '\r':
			continue
		}
		return language.LookupScript(r)
	}
	return language.Latin
}
