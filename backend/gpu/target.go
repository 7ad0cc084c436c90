package gpu

import (
	"sync/atomic"

	"github.com/gogpu/scenepaint"
	"github.com/gogpu/scenepaint/backend"
	"github.com/gogpu/scenepaint/backend/software"
	"github.com/gogpu/scenepaint/blob"
)

// Name is the registry identifier for the GPU backend.
const Name = "gpu"

func init() {
	backend.Register(Name, newTarget)
}

// active is the tile context the registered factory draws textures
// from. Workers bind it once after device init.
var active atomic.Pointer[TileContext]

// Configure binds the registered backend to an initialized tile
// context. Until configured, New for this backend fails.
func Configure(tc *TileContext) {
	active.Store(tc)
}

func newTarget(width, height int) (backend.DrawTarget, error) {
	tc := active.Load()
	if tc == nil {
		return nil, ErrNotInitialized
	}
	tex, err := tc.CreateTexture(width, height)
	if err != nil {
		return nil, err
	}
	return &Target{inner: software.New(width, height), tex: tex}, nil
}

// Target paints one tile for a GPU layer. Geometry is rasterized by the
// CPU raster core; Snapshot stages the result into the tile texture.
// Until the texture reports the pixels resident, callers must treat the
// snapshot as the tile's backing copy.
type Target struct {
	inner *software.Target
	tex   *TileTexture
}

func (t *Target) Descriptor() backend.ImageDescriptor { return t.inner.Descriptor() }

func (t *Target) Translate(dx, dy float32) { t.inner.Translate(dx, dy) }

func (t *Target) Scale(s float32) { t.inner.Scale(s) }

func (t *Target) PushClip(r scenepaint.Rect) { t.inner.PushClip(r) }

func (t *Target) PopClip() { t.inner.PopClip() }

func (t *Target) FillRect(r scenepaint.Rect, c scenepaint.Color) {
	t.inner.FillRect(r, c)
}

func (t *Target) StrokeRect(r scenepaint.Rect, width float32, c scenepaint.Color) {
	t.inner.StrokeRect(r, width, c)
}

func (t *Target) FillPath(cmds []blob.Command, c scenepaint.Color) {
	t.inner.FillPath(cmds, c)
}

func (t *Target) FillText(glyphs []backend.Glyph, origin scenepaint.Point, c scenepaint.Color) {
	t.inner.FillText(glyphs, origin, c)
}

func (t *Target) DrawSurface(s *backend.NativeSurface, dst scenepaint.Rect) {
	t.inner.DrawSurface(s, dst)
}

func (t *Target) Snapshot() []byte {
	pixels := t.inner.Snapshot()
	if err := t.tex.Upload(pixels); err != nil {
		scenepaint.Logger().Warn("tile texture upload failed", "err", err)
	}
	return pixels
}

// Resident reports whether the last snapshot's pixels live on the
// device.
func (t *Target) Resident() bool {
	return t.tex.Resident()
}

// Texture returns the tile texture behind this target.
func (t *Target) Texture() *TileTexture {
	return t.tex
}

var _ backend.DrawTarget = (*Target)(nil)
