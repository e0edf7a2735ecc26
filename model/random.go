package model

import "github.com/alphabeth/game"

// Random is the trivial baseline model: uniform policy over legal actions,
// value 0, no parameters.
type Random[G game.Game[G]] struct{}

func NewRandom[G game.Game[G]]() *Random[G] { return &Random[G]{} }

func (r *Random[G]) Apply(g G) (Output, error) {
	policy := make([]float32, g.PolicyLength())
	legal := g.LegalActions()
	p := float32(1) / float32(len(legal))
	for _, a := range legal {
		policy[a] = p
	}
	return Output{Value: 0, Policy: policy}, nil
}

func (r *Random[G]) ApplyBatch(gs []G) ([]Output, error) { return Sequential[G](r, gs) }
func (r *Random[G]) Swap() (Model[G], error)             { return r, nil }
func (r *Random[G]) Copy() Model[G]                      { return &Random[G]{} }
func (r *Random[G]) BaseModel() Model[G]                 { return r }
func (r *Random[G]) PlayingModel() Model[G]              { return r }
func (r *Random[G]) TrainingModel() Model[G]             { return nil }
func (r *Random[G]) NTasks() int                         { return 1 }
func (r *Random[G]) Features() []FeatureDescriptor       { return nil }
