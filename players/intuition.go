package players

import (
	"context"
	"math/rand"

	"github.com/alphabeth/game"
	"github.com/alphabeth/model"
	"github.com/chewxy/math32"
)

// Intuition decides from one model evaluation with no search: apply(model,
// g).policy masked to legal actions and cooled by temperature.
// Temperature 0 collapses to argmax, one-hot (ties broken by lowest action
// index, matching MCTS's own tie-break).
type Intuition[G game.Game[G]] struct {
	m           model.Model[G]
	temperature float32
	rnd         *rand.Rand
}

func NewIntuition[G game.Game[G]](m model.Model[G], temperature float32, seed int64) *Intuition[G] {
	return &Intuition[G]{m: m, temperature: temperature, rnd: rand.New(rand.NewSource(seed))}
}

func (p *Intuition[G]) Think(ctx context.Context, g G) ([]float32, error) {
	out, err := p.m.Apply(g)
	if err != nil {
		return nil, err
	}
	legal := g.LegalActions()
	masked := game.MaskAndNormalize(out.Policy, legal)
	if p.temperature == 0 {
		return oneHotOver(masked, legal), nil
	}
	return cool(masked, legal, p.temperature), nil
}

func (p *Intuition[G]) Decide(ctx context.Context, g G) (game.ActionID, error) {
	return decideFromThink[G](ctx, p, g, p.rnd)
}

func oneHotOver(policy []float32, legal []game.ActionID) []float32 {
	out := make([]float32, len(policy))
	best := legal[0]
	var bestP float32 = -1
	for _, a := range legal {
		if policy[a] > bestP {
			bestP = policy[a]
			best = a
		}
	}
	out[best] = 1
	return out
}

// cool raises each legal probability to the power 1/temperature and
// renormalizes, sharpening (temperature < 1) or flattening (temperature > 1)
// the distribution. Falls back to uniform over legal if the result
// collapses to all zero.
func cool(policy []float32, legal []game.ActionID, temperature float32) []float32 {
	out := make([]float32, len(policy))
	var sum float32
	for _, a := range legal {
		v := math32.Pow(policy[a], 1/temperature)
		out[a] = v
		sum += v
	}
	if sum <= 0 {
		u := float32(1) / float32(len(legal))
		for _, a := range legal {
			out[a] = u
		}
		return out
	}
	for _, a := range legal {
		out[a] /= sum
	}
	return out
}
