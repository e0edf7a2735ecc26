package model

import (
	"math/rand"
	"sync"
	"time"

	"github.com/alphabeth/game"
)

// Rollout is a cheap MCTS prior with no parameters: its value is the result
// of a uniform random playout from g, and its policy is uniform over legal
// actions. Used as the default prior whenever no trained network is
// available.
type Rollout[G game.Game[G]] struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

func NewRollout[G game.Game[G]]() *Rollout[G] {
	return &Rollout[G]{rnd: rand.New(rand.NewSource(time.Now().UnixNano()))}
}

func (m *Rollout[G]) Apply(g G) (Output, error) {
	policy := make([]float32, g.PolicyLength())
	legal := g.LegalActions()
	p := float32(1) / float32(len(legal))
	for _, a := range legal {
		policy[a] = p
	}

	m.mu.Lock()
	status := g.RandomPlayout(m.rnd)
	m.mu.Unlock()

	return Output{Value: game.ValueFor(status, g.CurrentPlayer()), Policy: policy}, nil
}

func (m *Rollout[G]) ApplyBatch(gs []G) ([]Output, error) { return Sequential[G](m, gs) }
func (m *Rollout[G]) Swap() (Model[G], error)             { return m, nil }
func (m *Rollout[G]) Copy() Model[G]                      { return NewRollout[G]() }
func (m *Rollout[G]) BaseModel() Model[G]                 { return m }
func (m *Rollout[G]) PlayingModel() Model[G]              { return m }
func (m *Rollout[G]) TrainingModel() Model[G]             { return nil }
func (m *Rollout[G]) NTasks() int                         { return 1 }
func (m *Rollout[G]) Features() []FeatureDescriptor       { return nil }
