package cache_test

import (
	"sync"
	"testing"

	"github.com/alphabeth/azerrors"
	"github.com/alphabeth/game/tictactoe"
	"github.com/alphabeth/model"
	"github.com/alphabeth/model/cache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingModel counts every Apply call so the test can tell a cache hit
// (no delegation) from a miss (delegation).
type countingModel struct {
	mu    sync.Mutex
	calls int
}

func (m *countingModel) Apply(g *tictactoe.State) (model.Output, error) {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()
	policy := make([]float32, tictactoe.PolicyLength)
	for _, a := range g.LegalActions() {
		policy[a] = 1.0 / float32(len(g.LegalActions()))
	}
	return model.Output{Value: 0, Policy: policy}, nil
}
func (m *countingModel) ApplyBatch(gs []*tictactoe.State) ([]model.Output, error) {
	return model.Sequential[*tictactoe.State](m, gs)
}
func (m *countingModel) Swap() (model.Model[*tictactoe.State], error) { return m, nil }
func (m *countingModel) Copy() model.Model[*tictactoe.State]          { return &countingModel{} }
func (m *countingModel) BaseModel() model.Model[*tictactoe.State]     { return m }
func (m *countingModel) PlayingModel() model.Model[*tictactoe.State]  { return m }
func (m *countingModel) TrainingModel() model.Model[*tictactoe.State] { return nil }
func (m *countingModel) NTasks() int                                  { return 1 }
func (m *countingModel) Features() []model.FeatureDescriptor          { return nil }

func TestRepeatedApplyHitsCacheAfterFirstMiss(t *testing.T) {
	inner := &countingModel{}
	w := cache.New[*tictactoe.State](inner, 16)
	s := tictactoe.New()

	for i := 0; i < 1000; i++ {
		_, err := w.Apply(s)
		require.NoError(t, err)
	}

	hits, misses, size := w.Stats()
	assert.Equal(t, uint64(999), hits)
	assert.Equal(t, uint64(1), misses)
	assert.Equal(t, 1, size)
	assert.Equal(t, 1, inner.calls)
}

func TestCacheDoesNotInsertBeyondMax(t *testing.T) {
	inner := &countingModel{}
	w := cache.New[*tictactoe.State](inner, 0)
	s := tictactoe.New()

	_, err := w.Apply(s)
	require.NoError(t, err)
	_, _, size := w.Stats()
	assert.Equal(t, 0, size)

	_, err = w.Apply(s)
	require.NoError(t, err)
	_, misses, _ := w.Stats()
	assert.Equal(t, uint64(2), misses) // never cached, every call is a miss
}

func TestSwapIsANoOp(t *testing.T) {
	inner := &countingModel{}
	w := cache.New[*tictactoe.State](inner, 16)
	swapped, err := w.Swap()
	require.NoError(t, err)
	assert.Same(t, w, swapped)
}

// featureProducingModel wraps countingModel but advertises an auxiliary
// feature head, which the cache cannot preserve.
type featureProducingModel struct {
	*countingModel
}

func (m *featureProducingModel) Features() []model.FeatureDescriptor {
	return []model.FeatureDescriptor{{Name: "aux", Weight: 1}}
}

func TestApplyRejectsInnerModelWithFeatures(t *testing.T) {
	inner := &featureProducingModel{countingModel: &countingModel{}}
	w := cache.New[*tictactoe.State](inner, 16)

	_, err := w.Apply(tictactoe.New())
	require.Error(t, err)
	assert.ErrorIs(t, err, azerrors.ErrFeatureUnsupported)
	assert.Equal(t, 0, inner.calls) // rejected before ever reaching inner

	_, err = w.ApplyBatch([]*tictactoe.State{tictactoe.New()})
	require.Error(t, err)
	assert.ErrorIs(t, err, azerrors.ErrFeatureUnsupported)
}
