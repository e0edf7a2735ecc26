package model

import "github.com/alphabeth/game"

// Dummy returns a fixed value and a fixed-shape uniform policy regardless of
// input. Used in tests that need a deterministic, parameter-free model.
type Dummy[G game.Game[G]] struct {
	Value        float32
	policyLength int
}

func NewDummy[G game.Game[G]](value float32, policyLength int) *Dummy[G] {
	return &Dummy[G]{Value: value, policyLength: policyLength}
}

func (d *Dummy[G]) Apply(g G) (Output, error) {
	policy := make([]float32, d.policyLength)
	legal := g.LegalActions()
	if len(legal) == 0 {
		return Output{Value: d.Value, Policy: policy}, nil
	}
	p := float32(1) / float32(len(legal))
	for _, a := range legal {
		policy[a] = p
	}
	return Output{Value: d.Value, Policy: policy}, nil
}

func (d *Dummy[G]) ApplyBatch(gs []G) ([]Output, error) { return Sequential[G](d, gs) }
func (d *Dummy[G]) Swap() (Model[G], error)             { return d, nil }
func (d *Dummy[G]) Copy() Model[G]                      { return &Dummy[G]{Value: d.Value, policyLength: d.policyLength} }
func (d *Dummy[G]) BaseModel() Model[G]                 { return d }
func (d *Dummy[G]) PlayingModel() Model[G]              { return d }
func (d *Dummy[G]) TrainingModel() Model[G]             { return nil }
func (d *Dummy[G]) NTasks() int                         { return 1 }
func (d *Dummy[G]) Features() []FeatureDescriptor       { return nil }
