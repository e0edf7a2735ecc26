// Package model defines the abstract value+policy predictor contract every
// model in this engine satisfies: a function from a game state to a value,
// a policy and an optional set of auxiliary features, over any game.Game[G].
package model

import "github.com/alphabeth/game"

// FeatureDescriptor names one auxiliary prediction head beyond value and
// policy. train.Compute penalizes a mismatch between predicted and target
// for this feature as a squared error scaled by Weight.
type FeatureDescriptor struct {
	Name   string
	Weight float32
}

// Output is the full result of applying a model to one game state.
type Output struct {
	Value    float32   // in [-1, 1], current-player perspective
	Policy   []float32 // full-length, sums to 1 over legal actions once masked
	Features []float32 // parallel to Features()
}

// Model is a function G -> (v, pi, features). G is the concrete game type
// this model accepts. Base does not check shapes at construction: its Apply
// fails with ErrShapeMismatch when the wrapped network's expected input
// shape differs from the game's Representation().
type Model[G game.Game[G]] interface {
	// Apply evaluates a single state.
	Apply(g G) (Output, error)
	// ApplyBatch evaluates many states at once. The default implementation
	// (Sequential) maps Apply elementwise; batching wrappers override this.
	ApplyBatch(gs []G) ([]Output, error)

	// Swap returns an equivalent model on the other backend (CPU <-> GPU).
	// Models with non-migratable state (e.g. Cache) return themselves
	// unchanged and log a warning instead of failing.
	Swap() (Model[G], error)
	// Copy returns a deep, independent copy.
	Copy() Model[G]

	// BaseModel, PlayingModel and TrainingModel navigate through wrapper
	// layers. BaseModel returns the innermost model regardless of whether
	// it has trainable parameters. PlayingModel returns the model to use
	// for inference (usually the receiver). TrainingModel returns the
	// innermost trainable model, or nil if none of the chain is trainable.
	BaseModel() Model[G]
	PlayingModel() Model[G]
	TrainingModel() Model[G]

	// NTasks is how many concurrent in-flight evaluations this model wants;
	// MCTS uses it to size its traversal pool. 1 for synchronous models.
	NTasks() int

	// Features lists the auxiliary heads this model produces, parallel to
	// Output.Features.
	Features() []FeatureDescriptor
}

// Sequential applies Apply to every element of gs in order. It is the
// default ApplyBatch body for models with no efficient batched path.
func Sequential[G game.Game[G]](m Model[G], gs []G) ([]Output, error) {
	out := make([]Output, len(gs))
	for i, g := range gs {
		o, err := m.Apply(g)
		if err != nil {
			return nil, err
		}
		out[i] = o
	}
	return out, nil
}
