// Package batch amortizes per-call model overhead by coalescing
// concurrently issued single-state evaluations into one batched call to an
// inner model, the way a search fans concurrent simulation
// goroutines through a shared channel into one collector.
package batch

import (
	"context"
	"sync"
	"time"

	channerics "github.com/niceyeti/channerics/channels"
	"github.com/pkg/errors"

	"github.com/alphabeth/azerrors"
	"github.com/alphabeth/game"
	"github.com/alphabeth/model"
)

func azCancelled() error {
	return errors.Wrap(azerrors.ErrCancelled, "model/batch: request cancelled")
}

// request is one caller's pending single-state evaluation.
type request[G game.Game[G]] struct {
	ctx    context.Context
	g      G
	result chan outcome
}

type outcome struct {
	out model.Output
	err error
}

// Wrapper collects concurrent Apply calls into batches of up to
// MaxBatchSize, flushed whenever MaxBatchSize requests have accumulated or
// MaxWait has elapsed since the first request in the batch, whichever comes
// first. A single collector goroutine owns the queue and is the only writer
// to the inner model, so the inner model never needs to be thread-safe.
type Wrapper[G game.Game[G]] struct {
	inner        model.Model[G]
	maxBatchSize int
	maxWait      time.Duration

	requests chan request[G]
	closeCh  chan struct{}
	closeMu  sync.Mutex
	closed   bool
}

// New starts the collector goroutine and returns the wrapper. Close must be
// called to stop the collector.
func New[G game.Game[G]](inner model.Model[G], maxBatchSize int, maxWait time.Duration) *Wrapper[G] {
	w := &Wrapper[G]{
		inner:        inner,
		maxBatchSize: maxBatchSize,
		maxWait:      maxWait,
		requests:     make(chan request[G], maxBatchSize*4),
		closeCh:      make(chan struct{}),
	}
	go w.collect()
	return w
}

// Close stops the collector goroutine. Pending requests receive
// azerrors.ErrCancelled.
func (w *Wrapper[G]) Close() {
	w.closeMu.Lock()
	defer w.closeMu.Unlock()
	if w.closed {
		return
	}
	w.closed = true
	close(w.closeCh)
}

// Apply enqueues g and blocks until the collector has evaluated its batch,
// or ctx is cancelled first. Results are matched to requests strictly by
// position in the queue; there is no reordering.
func (w *Wrapper[G]) Apply(g G) (model.Output, error) {
	return w.ApplyContext(context.Background(), g)
}

// ApplyContext is Apply with an explicit cancellation context: if ctx is
// done before the collector fills this request's slot, the slot is marked
// cancelled — the collector still evaluates it (cheap, and simpler than
// surgically removing one entry from an in-flight batch) but the caller
// never waits on it and the result is discarded.
func (w *Wrapper[G]) ApplyContext(ctx context.Context, g G) (model.Output, error) {
	req := request[G]{ctx: ctx, g: g, result: make(chan outcome, 1)}

	cancelled := channerics.Merge(w.closeCh, ctx.Done())

	select {
	case w.requests <- req:
	case <-cancelled:
		return model.Output{}, azCancelled()
	}

	select {
	case res := <-req.result:
		return res.out, res.err
	case <-cancelled:
		return model.Output{}, azCancelled()
	}
}

func (w *Wrapper[G]) ApplyBatch(gs []G) ([]model.Output, error) {
	out := make([]model.Output, len(gs))
	for i, g := range gs {
		o, err := w.Apply(g)
		if err != nil {
			return nil, err
		}
		out[i] = o
	}
	return out, nil
}

// NTasks advertises MaxBatchSize so MCTS knows how many traversals it may
// keep in flight concurrently.
func (w *Wrapper[G]) NTasks() int { return w.maxBatchSize }

func (w *Wrapper[G]) Swap() (model.Model[G], error) {
	swapped, err := w.inner.Swap()
	if err != nil {
		return nil, err
	}
	return New[G](swapped, w.maxBatchSize, w.maxWait), nil
}

func (w *Wrapper[G]) Copy() model.Model[G] {
	return New[G](w.inner.Copy(), w.maxBatchSize, w.maxWait)
}

func (w *Wrapper[G]) BaseModel() model.Model[G]     { return w.inner.BaseModel() }
func (w *Wrapper[G]) PlayingModel() model.Model[G]  { return w }
func (w *Wrapper[G]) TrainingModel() model.Model[G] { return w.inner.TrainingModel() }
func (w *Wrapper[G]) Features() []model.FeatureDescriptor { return w.inner.Features() }

// collect is the sole goroutine that ever touches w.inner. It assembles a
// batch when either MaxBatchSize requests have accumulated or MaxWait has
// elapsed since the first queued request, whichever happens first.
func (w *Wrapper[G]) collect() {
	for {
		var batch []request[G]
		select {
		case req := <-w.requests:
			batch = append(batch, req)
		case <-w.closeCh:
			return
		}

		timer := time.NewTimer(w.maxWait)
	fill:
		for len(batch) < w.maxBatchSize {
			select {
			case req := <-w.requests:
				batch = append(batch, req)
			case <-timer.C:
				break fill
			case <-w.closeCh:
				timer.Stop()
				return
			}
		}
		timer.Stop()

		gs := make([]G, len(batch))
		for i, req := range batch {
			gs[i] = req.g
		}
		outs, err := w.inner.ApplyBatch(gs)
		if err != nil {
			// Failure is replicated to every pending slot in this batch;
			// the queue has already been emptied by construction, so the
			// collector simply resumes accepting new requests.
			for _, req := range batch {
				deliver(req, outcome{err: err})
			}
			continue
		}
		for i, req := range batch {
			deliver(req, outcome{out: outs[i]})
		}
	}
}

func deliver[G game.Game[G]](req request[G], res outcome) {
	select {
	case req.result <- res:
	default:
	}
}
