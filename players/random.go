package players

import (
	"context"
	"math/rand"

	"github.com/alphabeth/game"
)

// Random picks uniformly among legal actions, ignoring the game's actual
// position. Useful as a cheap opponent and as a self-play sanity baseline.
type Random[G game.Game[G]] struct {
	rnd *rand.Rand
}

func NewRandom[G game.Game[G]](seed int64) *Random[G] {
	return &Random[G]{rnd: rand.New(rand.NewSource(seed))}
}

func (p *Random[G]) Think(ctx context.Context, g G) ([]float32, error) {
	policy := make([]float32, g.PolicyLength())
	legal := g.LegalActions()
	u := float32(1) / float32(len(legal))
	for _, a := range legal {
		policy[a] = u
	}
	return policy, nil
}

func (p *Random[G]) Decide(ctx context.Context, g G) (game.ActionID, error) {
	return decideFromThink[G](ctx, p, g, p.rnd)
}
