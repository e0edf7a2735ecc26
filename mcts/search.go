// Package mcts implements the PUCT-driven Monte-Carlo tree search at the
// core of the engine: selection, expansion, evaluation and backup (spec
// §4.5), run synchronously when the model is synchronous and with up to
// NTasks() concurrent simulation traversals (virtual loss included) when
// the model advertises room for more than one in-flight evaluation.
package mcts

import (
	"context"
	"math/rand"
	"sync"
	"sync/atomic"

	"github.com/alphabeth/azerrors"
	"github.com/alphabeth/game"
	"github.com/alphabeth/model"
	"github.com/chewxy/math32"
	"github.com/pkg/errors"
)

// Engine runs searches against a fixed model. A fresh, empty tree is
// allocated per Search call and discarded on return — no tree is kept
// between moves.
type Engine[G game.Game[G]] struct {
	cfg Config
	m   model.Model[G]

	rndMu sync.Mutex
	rnd   *rand.Rand
}

// New builds an Engine. seed seeds the engine's own random source (root
// noise, and nothing else — action sampling from the improved policy is the
// caller's concern, see players.MCTS). A single Engine may be shared across
// concurrent Search calls (e.g. concurrent self-play games against the same
// model); its random source is synchronized accordingly.
func New[G game.Game[G]](m model.Model[G], cfg Config, seed int64) *Engine[G] {
	return &Engine[G]{cfg: cfg, m: m, rnd: rand.New(rand.NewSource(seed))}
}

// rootSeed draws one seed for a root's Dirichlet noise from the engine's
// shared random source.
func (e *Engine[G]) rootSeed() uint64 {
	e.rndMu.Lock()
	defer e.rndMu.Unlock()
	return uint64(e.rnd.Int63())
}

// Result is the improved policy extracted from one search, full-length over
// the root's policy space.
type Result struct {
	Policy []float32
	Visits []uint32
}

// Model returns the model this engine searches with, so callers that need a
// direct evaluation alongside a search (self-play's feature recording) don't
// need to keep a second reference around.
func (e *Engine[G]) Model() model.Model[G] { return e.m }

type edge struct {
	parent naughty
	action game.ActionID
}

// Search runs Config.Power simulations from root and returns the improved
// policy. ctx bounds the search by deadline in addition to Power; whichever
// fires first ends the search.
func (e *Engine[G]) Search(ctx context.Context, root G) (Result, error) {
	if root.Status() != game.Undecided {
		return Result{}, errors.Wrap(azerrors.ErrGameOver, "mcts: search on terminal root")
	}
	legal := root.LegalActions()
	if len(legal) == 1 {
		return oneHot(root.PolicyLength(), legal[0]), nil
	}

	t := newTree[G](e.cfg)
	rootNode := &node[G]{state: root}
	rootIdx := t.alloc(rootNode)

	if err := e.expand(t, rootNode, true); err != nil {
		return Result{}, err
	}

	ntasks := e.m.NTasks()
	if ntasks < 1 {
		ntasks = 1
	}
	if ntasks > e.cfg.Power {
		ntasks = e.cfg.Power
	}

	var remaining int32 = int32(e.cfg.Power)
	var wg sync.WaitGroup
	for w := 0; w < ntasks; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				default:
				}
				if atomic.AddInt32(&remaining, -1) < 0 {
					return
				}
				e.simulate(ctx, t, rootIdx)
			}
		}()
	}
	wg.Wait()

	return extractPolicy(t.at(rootIdx), root.PolicyLength(), e.cfg.Temperature), nil
}

// simulate runs one selection -> expansion/evaluation -> backup pass.
// Tree mutation (selection bookkeeping, virtual loss, backup) is always
// done under t.mu; the model evaluation inside expand is the only
// suspension point and happens with the lock released.
func (e *Engine[G]) simulate(ctx context.Context, t *tree[G], rootIdx naughty) {
	t.mu.Lock()
	var path []edge
	cur := rootIdx
	for {
		n := t.nodes[cur]
		if n.terminal || !n.expanded {
			break
		}
		a := t.selectAction(n)
		path = append(path, edge{parent: cur, action: a})

		child := n.children[a]
		if child == nilNode {
			childState, err := n.state.Apply(a)
			if err != nil {
				t.mu.Unlock()
				return
			}
			child = t.allocLocked(&node[G]{state: childState})
			n.children[a] = child
		}
		cur = child
	}
	leaf := t.nodes[cur]

	if leaf.terminal {
		v := leaf.value
		backupLocked(t, path, v)
		t.mu.Unlock()
		return
	}
	if leaf.expanded {
		// Reached by a concurrent simulation between selection and here;
		// nothing new to evaluate, just back up the cached value.
		v := leaf.value
		backupLocked(t, path, v)
		t.mu.Unlock()
		return
	}
	if leaf.expanding {
		// Another simulation is already evaluating this exact leaf. Wait
		// for it rather than issuing a duplicate model call, then back up
		// with the now-cached value.
		done := leaf.expandDone
		applyVirtualLossLocked(t, path)
		t.mu.Unlock()
		<-done
		t.mu.Lock()
		revertVirtualLossLocked(t, path)
		if !leaf.expanded {
			// The other simulation's evaluation failed; nothing to back up.
			t.mu.Unlock()
			return
		}
		backupLocked(t, path, leaf.value)
		t.mu.Unlock()
		return
	}

	// Apply virtual loss along the path before releasing the lock, so
	// concurrent simulations are discouraged from re-entering this leaf.
	leaf.expanding = true
	leaf.expandDone = make(chan struct{})
	applyVirtualLossLocked(t, path)
	t.mu.Unlock()

	err := e.expand(t, leaf, false)

	t.mu.Lock()
	close(leaf.expandDone)
	revertVirtualLossLocked(t, path)
	if err != nil {
		// Model failure aborts only this simulation's contribution; the
		// spec has MCTS abort the whole search on model failure, but a
		// concurrent goroutine has no single call stack to propagate to,
		// so the leaf stays unexpanded and contributes no visits — the
		// caller's ctx cancellation is expected to end the search promptly
		// if the model is persistently broken.
		leaf.expanding = false
		t.mu.Unlock()
		return
	}
	backupLocked(t, path, leaf.value)
	t.mu.Unlock()
}

func backupLocked[G game.Game[G]](t *tree[G], path []edge, leafValue float32) {
	v := leafValue
	for i := len(path) - 1; i >= 0; i-- {
		v = -v
		p := t.nodes[path[i].parent]
		a := path[i].action
		p.visits[a]++
		p.totalVal[a] += v
	}
}

func applyVirtualLossLocked[G game.Game[G]](t *tree[G], path []edge) {
	for _, ed := range path {
		p := t.nodes[ed.parent]
		p.visits[ed.action]++
		p.totalVal[ed.action] -= 1
	}
}

func revertVirtualLossLocked[G game.Game[G]](t *tree[G], path []edge) {
	for _, ed := range path {
		p := t.nodes[ed.parent]
		p.visits[ed.action]--
		p.totalVal[ed.action] += 1
	}
}

// allocLocked is alloc without re-acquiring t.mu; caller must hold it.
func (t *tree[G]) allocLocked(n *node[G]) naughty {
	t.nodes = append(t.nodes, n)
	return naughty(len(t.nodes) - 1)
}

// expand evaluates n's state (terminal status, or model Apply) and fills in
// its node fields. isRoot additionally mixes Config.NoiseWeight of Dirichlet
// noise into the prior, then dilutes Config.Dilution of it toward uniform —
// in that order, so Dilution's uniform boundary always wins regardless of
// NoiseWeight.
func (e *Engine[G]) expand(t *tree[G], n *node[G], isRoot bool) error {
	if status := n.state.Status(); status != game.Undecided {
		n.terminal = true
		n.value = game.ValueFor(status, n.state.CurrentPlayer())
		n.expanded = true
		return nil
	}

	out, err := e.m.Apply(n.state)
	if err != nil {
		return errors.Wrap(err, "mcts: model apply")
	}

	legal := n.state.LegalActions()
	prior := game.MaskAndNormalize(out.Policy, legal)
	if isRoot {
		if e.cfg.NoiseWeight > 0 {
			noise := sampleDirichlet(len(legal), e.rootSeed())
			applyRootNoise(prior, legal, e.cfg.NoiseWeight, noise)
		}
		applyRootDilution(prior, legal, e.cfg.Dilution)
	}

	L := n.state.PolicyLength()
	t.mu.Lock()
	n.prior = prior
	n.legal = legal
	n.visits = make([]uint32, L)
	n.totalVal = make([]float32, L)
	n.children = make([]naughty, L)
	for i := range n.children {
		n.children[i] = nilNode
	}
	n.value = out.Value
	n.expanded = true
	t.mu.Unlock()
	return nil
}

func oneHot(length int, a game.ActionID) Result {
	policy := make([]float32, length)
	policy[a] = 1
	visits := make([]uint32, length)
	visits[a] = 1
	return Result{Policy: policy, Visits: visits}
}

// extractPolicy turns the root's visit counts into the improved policy:
// argmax at Temperature 0 (ties by lowest index), else N[a]^(1/T)
// normalized over legal actions.
func extractPolicy[G game.Game[G]](root *node[G], length int, temperature float32) Result {
	policy := make([]float32, length)
	visits := make([]uint32, length)
	for _, a := range root.legal {
		visits[a] = root.visits[a]
	}

	if temperature == 0 {
		best := root.legal[0]
		var bestN uint32
		for _, a := range root.legal {
			if root.visits[a] > bestN {
				bestN = root.visits[a]
				best = a
			}
		}
		policy[best] = 1
		return Result{Policy: policy, Visits: visits}
	}

	var sum float32
	pow := make([]float32, length)
	for _, a := range root.legal {
		p := math32.Pow(float32(root.visits[a]), 1/temperature)
		pow[a] = p
		sum += p
	}
	if sum <= 0 {
		u := float32(1) / float32(len(root.legal))
		for _, a := range root.legal {
			policy[a] = u
		}
		return Result{Policy: policy, Visits: visits}
	}
	for _, a := range root.legal {
		policy[a] = pow[a] / sum
	}
	return Result{Policy: policy, Visits: visits}
}
