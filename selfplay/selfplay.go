// Package selfplay drives self-play games against a fixed search engine and
// records the resulting (state, policy, value, features) examples used for
// training. A placeholder value is recorded at move time from the mover's
// own perspective, then backfilled once the game's outcome is known.
package selfplay

import (
	"context"
	"math/rand"
	"runtime"
	"sync"

	"github.com/alphabeth/game"
	"github.com/alphabeth/mcts"
	"github.com/hashicorp/go-multierror"
	"golang.org/x/sync/errgroup"
)

// Example is one recorded training example: a board, the improved policy
// MCTS produced for it, the model's auxiliary features at that position, and
// a value filled in once the game that produced it has ended.
type Example[G game.Game[G]] struct {
	State    G
	Policy   []float32
	Features []float32
	Value    float32

	// perspective is the mover at record time; Value is interpreted from
	// this player's side until Game backfills it from the real outcome.
	perspective game.Player
}

// DataSet is a batch of recorded examples, typically spanning many games.
type DataSet[G game.Game[G]] struct {
	Examples []Example[G]
}

// Len reports the number of recorded examples.
func (d *DataSet[G]) Len() int { return len(d.Examples) }

// Append merges other's examples into d.
func (d *DataSet[G]) Append(other *DataSet[G]) {
	d.Examples = append(d.Examples, other.Examples...)
}

// Game plays a single game to completion using eng for search at every move,
// sampling the next action from the improved policy (not argmax — self-play
// data generation wants exploration, unlike competitive play).
// Every recorded position is expanded by the game's own Augment into its
// full symmetry orbit, each orbit member contributing its own entry. It
// returns the recorded examples, with Value already backfilled from the
// game's final outcome, and the outcome itself.
func Game[G game.Game[G]](ctx context.Context, eng *mcts.Engine[G], initial G, rnd *rand.Rand) ([]Example[G], game.Status, error) {
	s := initial
	var examples []Example[G]

	for s.Status() == game.Undecided {
		res, err := eng.Search(ctx, s)
		if err != nil {
			return nil, game.Undecided, err
		}

		out, err := eng.Model().Apply(s)
		if err != nil {
			return nil, game.Undecided, err
		}

		mover := s.CurrentPlayer()
		for _, aug := range s.Augment(res.Policy) {
			examples = append(examples, Example[G]{
				State:       aug.State,
				Policy:      aug.Policy,
				Features:    out.Features,
				perspective: mover,
			})
		}

		a := game.Sample(res.Policy, rnd)
		s, err = s.Apply(a)
		if err != nil {
			return nil, game.Undecided, err
		}
	}

	status := s.Status()
	for i := range examples {
		examples[i].Value = game.ValueFor(status, examples[i].perspective)
	}
	return examples, status, nil
}

// Record plays numGames independent games from newInitial() concurrently —
// up to GOMAXPROCS at a time — and accumulates every game's examples into
// one DataSet. A
// per-game search or Apply failure is recorded and that game's examples are
// dropped, but does not stop the remaining games: errors are aggregated
// with multierror so the caller sees every failure, not just the first.
func Record[G game.Game[G]](ctx context.Context, eng *mcts.Engine[G], newInitial func() G, numGames int, seed int64) (*DataSet[G], error) {
	ds := &DataSet[G]{}
	var mu sync.Mutex
	var errs *multierror.Error

	var wg errgroup.Group
	wg.SetLimit(runtime.GOMAXPROCS(0))
	for i := 0; i < numGames; i++ {
		i := i
		wg.Go(func() error {
			rnd := rand.New(rand.NewSource(seed + int64(i)))
			examples, _, err := Game[G](ctx, eng, newInitial(), rnd)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				errs = multierror.Append(errs, err)
				return nil
			}
			ds.Examples = append(ds.Examples, examples...)
			return nil
		})
	}
	wg.Wait()

	return ds, errs.ErrorOrNil()
}
