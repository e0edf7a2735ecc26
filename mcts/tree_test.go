package mcts

import (
	"testing"

	"github.com/alphabeth/game"
	"github.com/stretchr/testify/assert"
)

func TestApplyRootDilutionAtOneIsUniformRegardlessOfPrior(t *testing.T) {
	legal := []game.ActionID{0, 1, 2}
	prior := []float32{0.97, 0.02, 0.01}

	applyRootDilution(prior, legal, 1)

	u := float32(1) / 3
	for _, a := range legal {
		assert.InDelta(t, u, prior[a], 1e-6)
	}
}

func TestApplyRootDilutionAtZeroIsNoOp(t *testing.T) {
	legal := []game.ActionID{0, 1, 2}
	prior := []float32{0.7, 0.2, 0.1}
	want := append([]float32(nil), prior...)

	applyRootDilution(prior, legal, 0)

	assert.Equal(t, want, prior)
}

func TestApplyRootNoisePreservesSum(t *testing.T) {
	legal := []game.ActionID{0, 1, 2}
	prior := []float32{0.7, 0.2, 0.1}
	noise := []float64{0.5, 0.3, 0.2}

	applyRootNoise(prior, legal, 0.5, noise)

	var sum float32
	for _, a := range legal {
		sum += prior[a]
	}
	assert.InDelta(t, 1.0, sum, 1e-5)
}

// TestDilutionOverridesNoiseAtRoot proves the boundary invariant holds
// unconditionally: even when noise has completely overwritten the prior
// (weight=1), a subsequent dilution=1 still yields exact uniform.
func TestDilutionOverridesNoiseAtRoot(t *testing.T) {
	legal := []game.ActionID{0, 1, 2}
	prior := []float32{0.9, 0.08, 0.02}
	noise := []float64{0.99, 0.009, 0.001} // far from uniform

	applyRootNoise(prior, legal, 1, noise)
	// Prior is now exactly the (non-uniform) noise sample.
	assert.InDelta(t, float32(0.99), prior[0], 1e-6)

	applyRootDilution(prior, legal, 1)

	u := float32(1) / 3
	for _, a := range legal {
		assert.InDelta(t, u, prior[a], 1e-6)
	}
}
