// Package cache memoizes model evaluations keyed by game state hash, to
// accelerate MCTS when identical states recur through transpositions.
package cache

import (
	"log"
	"sync"

	"github.com/alphabeth/azerrors"
	"github.com/alphabeth/game"
	"github.com/alphabeth/model"
	"github.com/pkg/errors"
)

// Wrapper memoizes (value, policy) keyed by game hash. Bounded by
// MaxCacheSize: once full, misses are still computed but not inserted
// (simple fixed-capacity admission, no eviction; an LRU policy would change
// observable hit rates and so isn't a drop-in substitute here).
type Wrapper[G game.Game[G]] struct {
	inner       model.Model[G]
	max         int
	hasFeatures bool

	mu      sync.Mutex
	entries map[uint64]model.Output
	hits    uint64
	misses  uint64
}

// New wraps inner with a cache bounded to maxCacheSize entries. If inner
// produces auxiliary features, every Apply/ApplyBatch call through this
// wrapper fails instead of silently dropping them (a cache keyed only on
// (value, policy) has nowhere to store a feature vector).
func New[G game.Game[G]](inner model.Model[G], maxCacheSize int) *Wrapper[G] {
	return &Wrapper[G]{
		inner:       inner,
		max:         maxCacheSize,
		entries:     make(map[uint64]model.Output),
		hasFeatures: len(inner.Features()) > 0,
	}
}

func (w *Wrapper[G]) Apply(g G) (model.Output, error) {
	if w.hasFeatures {
		return model.Output{}, errors.Wrap(azerrors.ErrFeatureUnsupported,
			"model/cache: inner model produces features this cache cannot preserve")
	}

	key := g.Hash()

	w.mu.Lock()
	out, ok := w.entries[key]
	w.mu.Unlock()
	if ok {
		w.addHit()
		return out, nil
	}

	out, err := w.inner.Apply(g)
	if err != nil {
		return model.Output{}, err
	}
	w.addMiss()

	w.mu.Lock()
	if len(w.entries) < w.max {
		w.entries[key] = out
	}
	w.mu.Unlock()
	return out, nil
}

// ApplyBatch delegates sequentially: batching would largely defeat the
// point of a cache (distinct states rarely repeat within one batch), so the
// spec only requires it to be supported, not efficient.
func (w *Wrapper[G]) ApplyBatch(gs []G) ([]model.Output, error) {
	return model.Sequential[G](w, gs)
}

// Swap is unsupported: the cache itself is backend-agnostic, but swapping
// would change the inner model's identity (and thus its outputs) without
// invalidating the cache. This is non-fatal: log a warning and return the
// wrapper unchanged.
func (w *Wrapper[G]) Swap() (model.Model[G], error) {
	log.Printf("model/cache: swap is unsupported on a cache wrapper; returning unchanged")
	return w, nil
}

func (w *Wrapper[G]) Copy() model.Model[G] {
	return New[G](w.inner.Copy(), w.max)
}

func (w *Wrapper[G]) BaseModel() model.Model[G]    { return w.inner.BaseModel() }
func (w *Wrapper[G]) PlayingModel() model.Model[G] { return w }
func (w *Wrapper[G]) TrainingModel() model.Model[G] {
	return w.inner.TrainingModel()
}
func (w *Wrapper[G]) NTasks() int { return w.inner.NTasks() }

// Features always reports none: a wrapper that cannot preserve inner's
// features advertises none of its own, and Apply rejects inner models that
// have any.
func (w *Wrapper[G]) Features() []model.FeatureDescriptor { return nil }

func (w *Wrapper[G]) addHit()  { w.mu.Lock(); w.hits++; w.mu.Unlock() }
func (w *Wrapper[G]) addMiss() { w.mu.Lock(); w.misses++; w.mu.Unlock() }

// Stats reports hit/miss counters and the current entry count, for
// observability and for tests asserting cache determinism.
func (w *Wrapper[G]) Stats() (hits, misses uint64, size int) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.hits, w.misses, len(w.entries)
}
