package paint

import (
	"github.com/gogpu/scenepaint/backend"
	"github.com/gogpu/scenepaint/blob"
)

// BlobImages publishes rasterized blob images into the compositor's
// image store. Blobs are keyed by content, so a re-rasterized blob
// updates the image behind its existing compositor key while an unseen
// blob is added under a fresh one. Not safe for concurrent use; callers
// publish from one goroutine.
type BlobImages struct {
	compositor Compositor
	keys       map[uint64]uint64
}

// NewBlobImages creates an empty publisher over a compositor.
func NewBlobImages(c Compositor) *BlobImages {
	return &BlobImages{
		compositor: c,
		keys:       make(map[uint64]uint64),
	}
}

// Publish pushes a batch of rasterized blobs to the compositor.
func (b *BlobImages) Publish(results []blob.Result) {
	for _, res := range results {
		desc := backend.ImageDescriptor{
			Width:  res.Width,
			Height: res.Height,
			Stride: res.Width * 4,
		}
		if key, ok := b.keys[res.Key]; ok {
			b.compositor.UpdateImage(key, desc, res.Pixels)
			continue
		}
		key := b.compositor.GenerateImageKey()
		b.compositor.AddImage(key, desc, res.Pixels)
		b.keys[res.Key] = key
	}
}

// Drop retires the compositor image behind a blob key, if one was
// published. Unknown keys are ignored.
func (b *BlobImages) Drop(blobKey uint64) {
	if key, ok := b.keys[blobKey]; ok {
		b.compositor.DeleteImage(key)
		delete(b.keys, blobKey)
	}
}

// Key reports the compositor image key a blob was published under.
func (b *BlobImages) Key(blobKey uint64) (uint64, bool) {
	key, ok := b.keys[blobKey]
	return key, ok
}
