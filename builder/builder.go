// Package builder runs the scene-builder threads: a primary thread that
// owns every document and applies transactions, and a low-priority
// companion thread that rasterizes blob images before the primary thread
// sees them.
package builder

import (
	"context"

	"github.com/gogpu/scenepaint"
	"github.com/gogpu/scenepaint/scene"
)

// Request is one message to the builder threads. Callers send requests
// to the low-priority thread, which forwards them to the primary thread.
type Request interface {
	isRequest()
}

// TransactionsRequest carries one batch of transactions, at most one per
// document. The low-priority thread rasterizes any queued blob requests
// before forwarding.
type TransactionsRequest struct {
	Txns []*scene.Transaction
}

// AddDocument registers a new document covering the given device rect.
type AddDocument struct {
	ID         scenepaint.DocumentID
	DeviceRect scenepaint.IntRect
}

// DeleteDocument destroys a document. Transactions for it already in
// flight are dropped when they arrive.
type DeleteDocument struct {
	ID scenepaint.DocumentID
}

// SetHooks installs an optional callback invoked after each built
// transaction, before it is published.
type SetHooks struct {
	PostBuild func(*scene.BuiltTransaction)
}

// Stop shuts both threads down. Done is closed once the primary thread
// has exited.
type Stop struct {
	Done chan struct{}
}

func (TransactionsRequest) isRequest() {}
func (AddDocument) isRequest()         {}
func (DeleteDocument) isRequest()      {}
func (SetHooks) isRequest()            {}
func (Stop) isRequest()                {}

// Result is one batch of built transactions published to the render
// backend. The consumer closes Swapped after installing the new scenes,
// letting notification observers distinguish built from displayed.
type Result struct {
	Built   []*scene.BuiltTransaction
	Swapped chan struct{}
}

// Threads is a running scene-builder thread pair.
type Threads struct {
	requests chan Request
	forward  chan Request
	results  chan Result
}

// Option configures Spawn.
type Option func(*config)

type config struct {
	queueDepth int
}

// WithQueueDepth sets the request channel buffer depth. Defaults to 8.
func WithQueueDepth(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.queueDepth = n
		}
	}
}

// Spawn starts the low-priority and primary threads and returns their
// front door.
func Spawn(ctx context.Context, opts ...Option) *Threads {
	cfg := config{queueDepth: 8}
	for _, opt := range opts {
		opt(&cfg)
	}

	t := &Threads{
		requests: make(chan Request, cfg.queueDepth),
		forward:  make(chan Request, cfg.queueDepth),
		results:  make(chan Result, cfg.queueDepth),
	}
	go t.lowPriorityLoop(ctx)
	go t.primaryLoop(ctx)
	scenepaint.Logger().Info("scene builder threads started",
		"queue_depth", cfg.queueDepth)
	return t
}

// Send submits a request. It blocks while the queue is full.
func (t *Threads) Send(req Request) {
	t.requests <- req
}

// Results is the stream of built transaction batches.
func (t *Threads) Results() <-chan Result {
	return t.results
}

// Stop shuts the threads down and waits for the primary thread to exit.
func (t *Threads) Stop() {
	done := make(chan struct{})
	t.requests <- Stop{Done: done}
	<-done
}

// lowPriorityLoop relays requests to the primary thread, taking blob
// rasterization off the critical path. Transactions are forwarded with
// BlobRequests drained into RasterizedBlobs; every other request kind
// passes through untouched.
func (t *Threads) lowPriorityLoop(ctx context.Context) {
	defer close(t.forward)
	for {
		select {
		case <-ctx.Done():
			return
		case req, ok := <-t.requests:
			if !ok {
				return
			}
			if tr, isTxns := req.(TransactionsRequest); isTxns {
				for _, txn := range tr.Txns {
					rasterizeBlobs(ctx, txn)
				}
			}
			select {
			case t.forward <- req:
			case <-ctx.Done():
				return
			}
			if _, stopping := req.(Stop); stopping {
				return
			}
		}
	}
}

// primaryLoop owns the document map. Transactions for one document are
// processed strictly in arrival order; distinct documents are
// independent.
func (t *Threads) primaryLoop(ctx context.Context) {
	documents := make(map[scenepaint.DocumentID]*scene.Document)
	var postBuild func(*scene.BuiltTransaction)

	for {
		var req Request
		var ok bool
		select {
		case <-ctx.Done():
			return
		case req, ok = <-t.forward:
			if !ok {
				return
			}
		}

		switch m := req.(type) {
		case AddDocument:
			documents[m.ID] = scene.NewDocument(m.ID, m.DeviceRect)
			scenepaint.Logger().Info("document added", "document", m.ID)

		case DeleteDocument:
			delete(documents, m.ID)
			scenepaint.Logger().Info("document deleted", "document", m.ID)

		case SetHooks:
			postBuild = m.PostBuild

		case TransactionsRequest:
			built := make([]*scene.BuiltTransaction, 0, len(m.Txns))
			for _, txn := range m.Txns {
				doc, known := documents[txn.Document]
				if !known {
					// The document was deleted while this transaction
					// was in flight.
					scenepaint.Logger().Debug("dropping transaction for unknown document",
						"document", txn.Document)
					continue
				}
				bt := doc.Process(ctx, txn)
				if postBuild != nil {
					postBuild(bt)
				}
				built = append(built, bt)
			}
			if len(built) == 0 {
				continue
			}
			res := Result{Built: built, Swapped: make(chan struct{})}
			select {
			case t.results <- res:
			case <-ctx.Done():
				return
			}

		case Stop:
			close(t.results)
			if m.Done != nil {
				close(m.Done)
			}
			scenepaint.Logger().Info("scene builder threads stopped")
			return
		}
	}
}
