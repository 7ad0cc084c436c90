// Package text shapes text runs into positioned glyph outlines. Each
// paint worker owns a private FontContext; nothing here is safe for
// concurrent use.
package text

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/go-text/typesetting/font"
	"github.com/go-text/typesetting/shaping"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"

	"github.com/gogpu/scenepaint/backend"
	"github.com/gogpu/scenepaint/blob"
)

// ErrUnknownFont indicates a shape request named a font id that was
// never added to the context.
var ErrUnknownFont = errors.New("text: unknown font")

// fontEntry pairs the two parsed views of one font: the typesetting
// Font for shaping and the sfnt Font for outline extraction.
type fontEntry struct {
	shape   *font.Font
	outline *sfnt.Font
}

type outlineKey struct {
	fontID uint32
	gid    uint16
	// size in 26.6 fixed point so float sizes hash exactly.
	size fixed.Int26_6
}

type cachedOutline struct {
	cmds    []blob.Command
	advance float32
}

// FontContext holds one worker's parsed fonts, shaper state, and glyph
// outline cache. font.Face and the HarfBuzz shaper carry mutable state,
// so contexts are never shared between workers.
type FontContext struct {
	fonts    map[uint32]*fontEntry
	outlines map[outlineKey]*cachedOutline
	buf      sfnt.Buffer
	shaper   shaping.HarfbuzzShaper
}

// NewFontContext creates an empty context.
func NewFontContext() *FontContext {
	return &FontContext{
		fonts:    make(map[uint32]*fontEntry),
		outlines: make(map[outlineKey]*cachedOutline),
	}
}

// AddFont parses TTF/OTF data and registers it under id. Re-adding an
// id replaces the previous font and invalidates its cached outlines.
func (fc *FontContext) AddFont(id uint32, data []byte) error {
	face, err := font.ParseTTF(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("text: parsing font %d for shaping: %w", id, err)
	}
	sf, err := sfnt.Parse(data)
	if err != nil {
		return fmt.Errorf("text: parsing font %d for outlines: %w", id, err)
	}

	if _, replacing := fc.fonts[id]; replacing {
		for key := range fc.outlines {
			if key.fontID == id {
				delete(fc.outlines, key)
			}
		}
	}
	fc.fonts[id] = &fontEntry{shape: face.Font, outline: sf}
	return nil
}

// HasFont reports whether id is registered.
func (fc *FontContext) HasFont(id uint32) bool {
	_, ok := fc.fonts[id]
	return ok
}

// glyphOutline returns the cached outline for one glyph at one size,
// extracting it on a miss. A glyph with no contours (space) yields an
// entry with nil commands.
func (fc *FontContext) glyphOutline(fontID uint32, entry *fontEntry, gid uint16, size float32) *cachedOutline {
	ppem := fixed.Int26_6(size * 64)
	key := outlineKey{fontID: fontID, gid: gid, size: ppem}
	if c, ok := fc.outlines[key]; ok {
		return c
	}

	c := &cachedOutline{}
	segments, err := entry.outline.LoadGlyph(&fc.buf, sfnt.GlyphIndex(gid), ppem, nil)
	if err == nil {
		c.cmds = segmentsToCommands(segments)
	}
	if adv, aerr := entry.outline.GlyphAdvance(&fc.buf, sfnt.GlyphIndex(gid), ppem, 0); aerr == nil {
		c.advance = float32(adv) / 64
	}
	fc.outlines[key] = c
	return c
}

// segmentsToCommands converts sfnt segments, already scaled to device
// pixels with y pointing down, into a vector command stream. Cubic
// segments are lowered to two quadratics.
func segmentsToCommands(segments []sfnt.Segment) []blob.Command {
	if len(segments) == 0 {
		return nil
	}
	cmds := make([]blob.Command, 0, len(segments)+1)
	pt := func(p fixed.Point26_6) (float32, float32) {
		return float32(p.X) / 64, float32(p.Y) / 64
	}

	var curX, curY float32
	started := false
	for _, seg := range segments {
		switch seg.Op {
		case sfnt.SegmentOpMoveTo:
			if started {
				cmds = append(cmds, blob.Command{Verb: blob.VerbClose})
			}
			x, y := pt(seg.Args[0])
			cmds = append(cmds, blob.Command{Verb: blob.VerbMoveTo, X: x, Y: y})
			curX, curY = x, y
			started = true
		case sfnt.SegmentOpLineTo:
			x, y := pt(seg.Args[0])
			cmds = append(cmds, blob.Command{Verb: blob.VerbLineTo, X: x, Y: y})
			curX, curY = x, y
		case sfnt.SegmentOpQuadTo:
			cx, cy := pt(seg.Args[0])
			x, y := pt(seg.Args[1])
			cmds = append(cmds, blob.Command{Verb: blob.VerbQuadTo, CX: cx, CY: cy, X: x, Y: y})
			curX, curY = x, y
		case sfnt.SegmentOpCubeTo:
			c1x, c1y := pt(seg.Args[0])
			c2x, c2y := pt(seg.Args[1])
			x, y := pt(seg.Args[2])
			// Split at the curve midpoint; each half's quadratic
			// control is the average of its cubic controls lifted by
			// 3/2, which matches the cubic to within a fraction of a
			// pixel at text sizes.
			midX := (curX + 3*(c1x+c2x) + x) / 8
			midY := (curY + 3*(c1y+c2y) + y) / 8
			q1x := curX + 1.5*(c1x-curX)
			q1y := curY + 1.5*(c1y-curY)
			q2x := x + 1.5*(c2x-x)
			q2y := y + 1.5*(c2y-y)
			cmds = append(cmds,
				blob.Command{Verb: blob.VerbQuadTo, CX: q1x, CY: q1y, X: midX, Y: midY},
				blob.Command{Verb: blob.VerbQuadTo, CX: q2x, CY: q2y, X: x, Y: y},
			)
			curX, curY = x, y
		}
	}
	if started {
		cmds = append(cmds, blob.Command{Verb: blob.VerbClose})
	}
	return cmds
}

// GlyphStore is the shaped, positioned output for one text run. The
// paint core treats it as opaque and hands it to DrawTarget.FillText.
type GlyphStore struct {
	Glyphs []backend.Glyph
	// Advance is the total pen advance of the run in pixels.
	Advance float32
}
