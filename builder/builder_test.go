package builder

import (
	"context"
	"testing"
	"time"

	"github.com/gogpu/scenepaint"
	"github.com/gogpu/scenepaint/blob"
	"github.com/gogpu/scenepaint/display"
	"github.com/gogpu/scenepaint/scene"
)

const testTimeout = 5 * time.Second

func recvResult(t *testing.T, ch <-chan Result) Result {
	t.Helper()
	select {
	case res, ok := <-ch:
		if !ok {
			t.Fatal("results channel closed unexpectedly")
		}
		return res
	case <-time.After(testTimeout):
		t.Fatal("timed out waiting for a builder result")
	}
	return Result{}
}

func testList(pipeline scenepaint.PipelineID, epoch scenepaint.Epoch) *display.List {
	l := display.NewList(pipeline, epoch)
	l.Push(display.RectItem{
		Rect:  scenepaint.XYWH(0, 0, 64, 64),
		Color: scenepaint.RGB(1, 0, 0),
	})
	return l
}

func TestBuilderProcessesTransactionInOrder(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	threads := Spawn(ctx)
	defer threads.Stop()

	threads.Send(AddDocument{ID: 1, DeviceRect: scenepaint.IntRect{W: 64, H: 64}})
	threads.Send(TransactionsRequest{Txns: []*scene.Transaction{{
		Document: 1,
		SceneOps: []scene.Msg{
			scene.SetRootPipeline{Pipeline: 9},
			scene.SetDisplayList{List: testList(9, 1)},
		},
	}}})

	res := recvResult(t, threads.Results())
	if len(res.Built) != 1 {
		t.Fatalf("built = %d transactions, want 1", len(res.Built))
	}
	bt := res.Built[0]
	if bt.Document != 1 {
		t.Errorf("built document = %d, want 1", bt.Document)
	}
	if bt.Scene == nil {
		t.Fatal("expected a built scene")
	}
	if bt.Scene.Root.Layer != scenepaint.LayerID(9) {
		t.Errorf("root layer = %v, want 9", bt.Scene.Root.Layer)
	}
}

func TestBuilderDropsLateTransactionForDeletedDocument(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	threads := Spawn(ctx)
	defer threads.Stop()

	threads.Send(AddDocument{ID: 1, DeviceRect: scenepaint.IntRect{W: 64, H: 64}})
	threads.Send(AddDocument{ID: 2, DeviceRect: scenepaint.IntRect{W: 64, H: 64}})
	threads.Send(DeleteDocument{ID: 1})

	// The late transaction for document 1 must be dropped without
	// disturbing document 2's transaction in the same batch.
	threads.Send(TransactionsRequest{Txns: []*scene.Transaction{
		{
			Document: 1,
			SceneOps: []scene.Msg{
				scene.SetRootPipeline{Pipeline: 1},
				scene.SetDisplayList{List: testList(1, 1)},
			},
		},
		{
			Document: 2,
			SceneOps: []scene.Msg{
				scene.SetRootPipeline{Pipeline: 2},
				scene.SetDisplayList{List: testList(2, 1)},
			},
		},
	}})

	res := recvResult(t, threads.Results())
	if len(res.Built) != 1 {
		t.Fatalf("built = %d transactions, want 1 (deleted document dropped)", len(res.Built))
	}
	if res.Built[0].Document != 2 {
		t.Errorf("surviving transaction document = %d, want 2", res.Built[0].Document)
	}
}

func TestLowPriorityThreadRasterizesBlobs(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	threads := Spawn(ctx)
	defer threads.Stop()

	threads.Send(AddDocument{ID: 1, DeviceRect: scenepaint.IntRect{W: 64, H: 64}})

	txn := &scene.Transaction{
		Document: 1,
		BlobRequests: []blob.Request{{
			Key: 7, Width: 8, Height: 8, Color: scenepaint.RGB(0, 0, 1),
			Commands: []blob.Command{
				{Verb: blob.VerbMoveTo},
				{Verb: blob.VerbLineTo, X: 8},
				{Verb: blob.VerbLineTo, X: 8, Y: 8},
				{Verb: blob.VerbClose},
			},
		}},
	}
	threads.Send(TransactionsRequest{Txns: []*scene.Transaction{txn}})

	res := recvResult(t, threads.Results())
	bt := res.Built[0]
	if len(bt.RasterizedBlobs) != 1 || bt.RasterizedBlobs[0].Key != 7 {
		t.Fatalf("rasterized blobs = %+v, want one result with key 7", bt.RasterizedBlobs)
	}
	if bt.Scene != nil {
		t.Error("blob-only transaction must not trigger a scene build")
	}
}

func TestSceneBuiltNotificationFires(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	threads := Spawn(ctx)
	defer threads.Stop()

	threads.Send(AddDocument{ID: 1, DeviceRect: scenepaint.IntRect{W: 64, H: 64}})

	done := make(chan struct{})
	threads.Send(TransactionsRequest{Txns: []*scene.Transaction{{
		Document: 1,
		SceneOps: []scene.Msg{
			scene.SetRootPipeline{Pipeline: 3},
			scene.SetDisplayList{List: testList(3, 1)},
		},
		Notifications: []scene.Notification{
			{When: scene.CheckpointSceneBuilt, Done: done},
		},
	}}})

	recvResult(t, threads.Results())
	select {
	case <-done:
	case <-time.After(testTimeout):
		t.Fatal("scene-built notification did not fire")
	}
}

func TestPostBuildHookRuns(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	threads := Spawn(ctx)
	defer threads.Stop()

	hooked := make(chan scenepaint.DocumentID, 1)
	threads.Send(SetHooks{PostBuild: func(bt *scene.BuiltTransaction) {
		hooked <- bt.Document
	}})
	threads.Send(AddDocument{ID: 5, DeviceRect: scenepaint.IntRect{W: 16, H: 16}})
	threads.Send(TransactionsRequest{Txns: []*scene.Transaction{{
		Document: 5,
		SceneOps: []scene.Msg{scene.UpdateEpoch{Pipeline: 1, Epoch: 1}},
	}}})

	recvResult(t, threads.Results())
	select {
	case id := <-hooked:
		if id != 5 {
			t.Errorf("hook saw document %d, want 5", id)
		}
	case <-time.After(testTimeout):
		t.Fatal("post-build hook never ran")
	}
}

func TestStopAcksExactlyOnce(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	threads := Spawn(ctx)

	stopped := make(chan struct{})
	go func() {
		threads.Stop()
		close(stopped)
	}()

	select {
	case <-stopped:
	case <-time.After(testTimeout):
		t.Fatal("Stop did not return")
	}
	if _, open := <-threads.Results(); open {
		t.Error("results channel still open after Stop")
	}
}
