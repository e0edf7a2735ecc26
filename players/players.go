// Package players adapts the engine's pieces (a raw model, an MCTS engine,
// an external input source) into a uniform think/decide contract, and
// provides the pvp match driver that exercises them against each other.
package players

import (
	"context"
	"math/rand"

	"github.com/alphabeth/game"
)

// Player is the uniform interface every kind of decision-maker satisfies:
// Think returns a full-length policy over the action space, Decide commits
// to one action sampled from it.
type Player[G game.Game[G]] interface {
	Think(ctx context.Context, g G) ([]float32, error)
	Decide(ctx context.Context, g G) (game.ActionID, error)
}

// decideFromThink is the shared Decide body: sample once from Think's
// output. Every Player in this package but Human uses it.
func decideFromThink[G game.Game[G]](ctx context.Context, p Player[G], g G, rnd *rand.Rand) (game.ActionID, error) {
	policy, err := p.Think(ctx, g)
	if err != nil {
		return 0, err
	}
	return game.Sample(policy, rnd), nil
}
