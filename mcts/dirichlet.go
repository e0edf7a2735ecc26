package mcts

import (
	distrand "golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distmv"
)

// dirichletParam is the concentration parameter alpha used for every
// component of the root noise distribution.
const dirichletParam = 0.3

// sampleDirichlet draws one noise vector over n legal actions, used to mix
// into the root prior via Config.NoiseWeight. It is its own knob, not a
// claim of canonical AlphaZero equivalence — see DESIGN.md.
func sampleDirichlet(n int, seed uint64) []float64 {
	if n == 0 {
		return nil
	}
	alpha := make([]float64, n)
	for i := range alpha {
		alpha[i] = dirichletParam
	}
	d := distmv.NewDirichlet(alpha, distrand.NewSource(seed))
	return d.Rand(nil)
}
