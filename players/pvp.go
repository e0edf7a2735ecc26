package players

import (
	"context"

	"github.com/alphabeth/game"
)

// OnMove is invoked after every applied move, with the position as it stood
// just before the move, the player who moved, and the action taken.
type OnMove[G game.Game[G]] func(before G, mover game.Player, a game.ActionID)

// PVP alternates turns between p1 and p2 on a clone of initial, p1 always
// moving as PlayerA and p2 as PlayerB, until the game ends or ctx is
// cancelled. It returns the terminal status, which is therefore already
// player-1's perspective: WinPlayerA means p1 won.
func PVP[G game.Game[G]](ctx context.Context, p1, p2 Player[G], initial G, onMove OnMove[G]) (game.Status, error) {
	s := initial.Clone()
	for s.Status() == game.Undecided {
		select {
		case <-ctx.Done():
			return game.Undecided, ctx.Err()
		default:
		}

		mover := p1
		if s.CurrentPlayer() == game.PlayerB {
			mover = p2
		}

		before := s
		a, err := mover.Decide(ctx, s)
		if err != nil {
			return game.Undecided, err
		}
		s, err = s.Apply(a)
		if err != nil {
			return game.Undecided, err
		}
		if onMove != nil {
			onMove(before, before.CurrentPlayer(), a)
		}
	}
	return s.Status(), nil
}
