package builder

import (
	"context"

	"github.com/gogpu/scenepaint/blob"
	"github.com/gogpu/scenepaint/profiler"
	"github.com/gogpu/scenepaint/scene"
)

// rasterizeBlobs drains a transaction's queued blob requests into its
// rasterized results. Results append; anything rasterized earlier and
// not yet consumed survives.
func rasterizeBlobs(ctx context.Context, txn *scene.Transaction) {
	if len(txn.BlobRequests) == 0 {
		return
	}
	_, span := profiler.Start(ctx, profiler.SpanBlobRasterization,
		profiler.Int("requests", len(txn.BlobRequests)))
	defer span.End()

	quality := blob.QualityHigh
	for _, op := range txn.SceneOps {
		if q, isQuality := op.(scene.SetQuality); isQuality && q.Low {
			quality = blob.QualityLow
		}
	}
	txn.RasterizedBlobs = append(txn.RasterizedBlobs,
		blob.Rasterize(txn.BlobRequests, quality)...)
	txn.BlobRequests = nil
}
