package mcts

import (
	"sync"

	"github.com/alphabeth/game"
	"github.com/chewxy/math32"
)

// tree is the per-search arena: a contiguous pool of nodes allocated once
// and discarded in full when the search returns — no tree is kept between
// moves. All mutation goes through mu, the single serialization point for
// concurrent simulations.
type tree[G game.Game[G]] struct {
	mu    sync.Mutex
	nodes []*node[G]
	cfg   Config
}

func newTree[G game.Game[G]](cfg Config) *tree[G] {
	return &tree[G]{cfg: cfg}
}

func (t *tree[G]) alloc(n *node[G]) naughty {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.nodes = append(t.nodes, n)
	return naughty(len(t.nodes) - 1)
}

func (t *tree[G]) at(n naughty) *node[G] {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.nodes[n]
}

// select picks the legal action maximizing Q(s,a) + c*P(s,a)*sqrt(sum N)/(1+N(s,a)),
// breaking ties by lowest action index. Must be called with t.mu held.
func (t *tree[G]) selectAction(n *node[G]) game.ActionID {
	parentVisits := float32(n.sumVisits())
	sq := math32.Sqrt(parentVisits)

	best := n.legal[0]
	bestScore := math32.Inf(-1)
	for _, a := range n.legal {
		q := n.qsa(a)
		u := t.cfg.Exploration * n.prior[a] * sq / (1 + float32(n.visits[a]))
		score := q + u
		if score > bestScore {
			bestScore = score
			best = a
		}
	}
	return best
}

// applyRootDilution mixes the root's prior toward uniform only:
// P_root = (1-dilution)*P + dilution*U_legal. At dilution=1 this is exactly
// uniform regardless of prior, by construction — callers must not pass
// noise in place of U_legal here, see applyRootNoise.
func applyRootDilution(prior []float32, legal []game.ActionID, dilution float32) {
	if dilution <= 0 {
		return
	}
	u := float32(1) / float32(len(legal))
	for _, a := range legal {
		prior[a] = (1-dilution)*prior[a] + dilution*u
	}
}

// applyRootNoise mixes Dirichlet-sampled exploration noise into the root's
// own prior: P = (1-weight)*P + weight*noise. Applied before
// applyRootDilution so dilution's uniform boundary at weight=1 always wins.
func applyRootNoise(prior []float32, legal []game.ActionID, weight float32, noise []float64) {
	if weight <= 0 {
		return
	}
	for i, a := range legal {
		prior[a] = (1-weight)*prior[a] + weight*float32(noise[i])
	}
}
