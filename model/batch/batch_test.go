package batch_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alphabeth/game/tictactoe"
	"github.com/alphabeth/model"
	"github.com/alphabeth/model/batch"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// batchCountingModel counts how many times ApplyBatch is invoked and the
// total number of states it was ever asked to evaluate.
type batchCountingModel struct {
	batchCalls int32
	statesSeen int32
}

func (m *batchCountingModel) Apply(g *tictactoe.State) (model.Output, error) {
	out, err := m.ApplyBatch([]*tictactoe.State{g})
	if err != nil {
		return model.Output{}, err
	}
	return out[0], nil
}

func (m *batchCountingModel) ApplyBatch(gs []*tictactoe.State) ([]model.Output, error) {
	atomic.AddInt32(&m.batchCalls, 1)
	atomic.AddInt32(&m.statesSeen, int32(len(gs)))
	out := make([]model.Output, len(gs))
	for i, g := range gs {
		policy := make([]float32, tictactoe.PolicyLength)
		for _, a := range g.LegalActions() {
			policy[a] = 1.0 / float32(len(g.LegalActions()))
		}
		out[i] = model.Output{Value: 0, Policy: policy}
	}
	return out, nil
}
func (m *batchCountingModel) Swap() (model.Model[*tictactoe.State], error) { return m, nil }
func (m *batchCountingModel) Copy() model.Model[*tictactoe.State]          { return &batchCountingModel{} }
func (m *batchCountingModel) BaseModel() model.Model[*tictactoe.State]     { return m }
func (m *batchCountingModel) PlayingModel() model.Model[*tictactoe.State]  { return m }
func (m *batchCountingModel) TrainingModel() model.Model[*tictactoe.State] { return nil }
func (m *batchCountingModel) NTasks() int                                  { return 1 }
func (m *batchCountingModel) Features() []model.FeatureDescriptor          { return nil }

func TestConcurrentApplyCallsCoalesceIntoOneBatch(t *testing.T) {
	inner := &batchCountingModel{}
	w := batch.New[*tictactoe.State](inner, 8, 200*time.Millisecond)
	defer w.Close()

	s := tictactoe.New()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := w.Apply(s)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), atomic.LoadInt32(&inner.batchCalls))
	assert.Equal(t, int32(8), atomic.LoadInt32(&inner.statesSeen))
}

func TestApplyContextCancelledBeforeFlushReturnsCancelled(t *testing.T) {
	inner := &batchCountingModel{}
	w := batch.New[*tictactoe.State](inner, 8, time.Hour) // never flushes by time
	defer w.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := w.ApplyContext(ctx, tictactoe.New())
	require.Error(t, err)
}

func TestCloseCancelsPendingRequests(t *testing.T) {
	inner := &batchCountingModel{}
	w := batch.New[*tictactoe.State](inner, 8, time.Hour)

	errCh := make(chan error, 1)
	go func() {
		_, err := w.Apply(tictactoe.New())
		errCh <- err
	}()

	time.Sleep(10 * time.Millisecond)
	w.Close()

	select {
	case err := <-errCh:
		assert.Error(t, err)
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for cancellation")
	}
}

func TestNTasksAdvertisesMaxBatchSize(t *testing.T) {
	inner := &batchCountingModel{}
	w := batch.New[*tictactoe.State](inner, 5, time.Millisecond)
	defer w.Close()
	assert.Equal(t, 5, w.NTasks())
}
