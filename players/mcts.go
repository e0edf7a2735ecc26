package players

import (
	"context"
	"math/rand"

	"github.com/alphabeth/game"
	"github.com/alphabeth/mcts"
	"github.com/alphabeth/model"
)

// MCTS decides by running a full search at every position, through
// Config's Power, Exploration, Dilution, NoiseWeight and Temperature
// knobs. A fresh tree is built and discarded on every Think call, per the
// engine's own "no tree kept between moves" design.
type MCTS[G game.Game[G]] struct {
	eng *mcts.Engine[G]
	rnd *rand.Rand
}

func NewMCTS[G game.Game[G]](m model.Model[G], cfg mcts.Config, seed int64) *MCTS[G] {
	return &MCTS[G]{eng: mcts.New[G](m, cfg, seed), rnd: rand.New(rand.NewSource(seed + 1))}
}

func (p *MCTS[G]) Think(ctx context.Context, g G) ([]float32, error) {
	res, err := p.eng.Search(ctx, g)
	if err != nil {
		return nil, err
	}
	return res.Policy, nil
}

func (p *MCTS[G]) Decide(ctx context.Context, g G) (game.ActionID, error) {
	return decideFromThink[G](ctx, p, g, p.rnd)
}
