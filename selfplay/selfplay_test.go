package selfplay_test

import (
	"context"
	"math/rand"
	"testing"

	"github.com/alphabeth/game"
	"github.com/alphabeth/game/tictactoe"
	"github.com/alphabeth/mcts"
	"github.com/alphabeth/model"
	"github.com/alphabeth/selfplay"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGameRecordsExamplesWithTerminalBackfilledValue(t *testing.T) {
	m := model.NewRollout[*tictactoe.State]()
	cfg := mcts.Config{Power: 20, Exploration: 1.4, Dilution: 0.25, Temperature: 1}
	eng := mcts.New[*tictactoe.State](m, cfg, 5)

	examples, status, err := selfplay.Game[*tictactoe.State](context.Background(), eng, tictactoe.New(), rand.New(rand.NewSource(1)))
	require.NoError(t, err)
	assert.NotEqual(t, game.Undecided, status)
	require.NotEmpty(t, examples)

	for _, ex := range examples {
		assert.Contains(t, []float32{-1, 0, 1}, ex.Value)
		var sum float32
		for _, p := range ex.Policy {
			sum += p
		}
		assert.InDelta(t, 1.0, sum, 1e-4)
	}

	if status == game.Draw {
		for _, ex := range examples {
			assert.Equal(t, float32(0), ex.Value)
		}
	}
}

func TestRecordAggregatesAcrossGames(t *testing.T) {
	m := model.NewRollout[*tictactoe.State]()
	cfg := mcts.Config{Power: 10, Exploration: 1.4, Dilution: 0, Temperature: 1}
	eng := mcts.New[*tictactoe.State](m, cfg, 9)

	ds, err := selfplay.Record[*tictactoe.State](context.Background(), eng, tictactoe.New, 3, 42)
	require.NoError(t, err)
	assert.Greater(t, ds.Len(), 0)
}
