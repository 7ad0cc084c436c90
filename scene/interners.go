package scene

import (
	"github.com/gogpu/scenepaint/display"
	"github.com/gogpu/scenepaint/intern"
)

// Interners aggregates one interner per item kind. It lives on a Document
// and persists across transactions, so handle identity survives
// frame-to-frame rebuilds.
type Interners struct {
	Clips     *intern.Interner[display.ClipKey]
	Gradients *intern.Interner[display.GradientKey]
	TextRuns  *intern.Interner[display.TextRunKey]
	Images    *intern.Interner[display.ImageKey]
	Borders   *intern.Interner[display.BorderKey]
	Pictures  *intern.Interner[display.PictureKey]
}

// NewInterners creates empty interners, pre-sized from previous-build
// stats when available.
func NewInterners(stats *SceneStats) *Interners {
	hint := func(kind intern.ItemKind) int {
		if stats == nil {
			return 0
		}
		return stats.Interned[kind]
	}
	return &Interners{
		Clips:     intern.NewWithCapacity[display.ClipKey](intern.KindClip, hint(intern.KindClip)),
		Gradients: intern.NewWithCapacity[display.GradientKey](intern.KindGradient, hint(intern.KindGradient)),
		TextRuns:  intern.NewWithCapacity[display.TextRunKey](intern.KindTextRun, hint(intern.KindTextRun)),
		Images:    intern.NewWithCapacity[display.ImageKey](intern.KindImage, hint(intern.KindImage)),
		Borders:   intern.NewWithCapacity[display.BorderKey](intern.KindBorder, hint(intern.KindBorder)),
		Pictures:  intern.NewWithCapacity[display.PictureKey](intern.KindPicture, hint(intern.KindPicture)),
	}
}

// Release drops one reference to the item behind h, whichever namespace
// owns it.
func (in *Interners) Release(h intern.Handle) bool {
	switch h.Kind {
	case intern.KindClip:
		return in.Clips.Release(h)
	case intern.KindGradient:
		return in.Gradients.Release(h)
	case intern.KindTextRun:
		return in.TextRuns.Release(h)
	case intern.KindImage:
		return in.Images.Release(h)
	case intern.KindBorder:
		return in.Borders.Release(h)
	case intern.KindPicture:
		return in.Pictures.Release(h)
	default:
		return false
	}
}

// EndFrameAndGetPendingUpdates drains every namespace's pending diff.
// Call exactly once per transaction, and only after a build: calling
// without having built would report an empty diff even though stale data
// exists, and calling twice would silently drop the second diff. Document
// guards this with its built flag.
func (in *Interners) EndFrameAndGetPendingUpdates() intern.Updates {
	return intern.Updates{
		in.Clips.EndFrameAndGetPendingUpdates(),
		in.Gradients.EndFrameAndGetPendingUpdates(),
		in.TextRuns.EndFrameAndGetPendingUpdates(),
		in.Images.EndFrameAndGetPendingUpdates(),
		in.Borders.EndFrameAndGetPendingUpdates(),
		in.Pictures.EndFrameAndGetPendingUpdates(),
	}
}

// LiveCounts returns the number of live items per kind, recorded into
// SceneStats after each build.
func (in *Interners) LiveCounts() [intern.NumKinds]int {
	var out [intern.NumKinds]int
	out[intern.KindClip] = in.Clips.Len()
	out[intern.KindGradient] = in.Gradients.Len()
	out[intern.KindTextRun] = in.TextRuns.Len()
	out[intern.KindImage] = in.Images.Len()
	out[intern.KindBorder] = in.Borders.Len()
	out[intern.KindPicture] = in.Pictures.Len()
	return out
}
