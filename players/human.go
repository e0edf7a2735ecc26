package players

import (
	"context"

	"github.com/alphabeth/azerrors"
	"github.com/alphabeth/game"
	"github.com/pkg/errors"
)

// InputSource queries an external front-end (terminal, GUI, network) for one
// action. It is asked repeatedly by Human until it returns a legal action or
// ctx is cancelled.
type InputSource[G game.Game[G]] func(ctx context.Context, g G) (game.ActionID, error)

// Human loops on an external InputSource until a legal action is received.
// Pretty-printing the board or prompting the user is the InputSource's
// concern, not this package's.
type Human[G game.Game[G]] struct {
	input InputSource[G]
}

func NewHuman[G game.Game[G]](input InputSource[G]) *Human[G] {
	return &Human[G]{input: input}
}

func (p *Human[G]) Decide(ctx context.Context, g G) (game.ActionID, error) {
	for {
		select {
		case <-ctx.Done():
			return 0, errors.Wrap(azerrors.ErrCancelled, "players: human input cancelled")
		default:
		}
		a, err := p.input(ctx, g)
		if err != nil {
			return 0, err
		}
		if g.IsActionLegal(a) {
			return a, nil
		}
	}
}

// Think reports the human's eventual choice as a one-hot policy. It prompts
// exactly like Decide does — call one or the other, not both, for a given
// move.
func (p *Human[G]) Think(ctx context.Context, g G) ([]float32, error) {
	a, err := p.Decide(ctx, g)
	if err != nil {
		return nil, err
	}
	policy := make([]float32, g.PolicyLength())
	policy[a] = 1
	return policy, nil
}
