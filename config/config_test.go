package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/alphabeth/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleYAML = `
game: tictactoe
train:
  epochs: 5
  gamesPerEpoch: 20
  batchSize: 32
  l2Lambda: 0.0001
  seed: 7
  mcts:
    power: 100
    exploration: 1.5
    dilution: 0.25
    temperature: 1.0
`

func TestLoadParsesNestedTrainSection(t *testing.T) {
	path := filepath.Join(t.TempDir(), "train.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sampleYAML), 0o644))

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, "tictactoe", cfg.Game)
	assert.Equal(t, 5, cfg.Train.Epochs)
	assert.Equal(t, 20, cfg.Train.GamesPerEpoch)
	assert.Equal(t, 32, cfg.Train.BatchSize)
	assert.InDelta(t, 0.0001, cfg.Train.L2Lambda, 1e-8)
	assert.Equal(t, int64(7), cfg.Train.Seed)
	assert.Equal(t, 100, cfg.Train.MCTS.Power)
	assert.InDelta(t, 1.5, cfg.Train.MCTS.Exploration, 1e-6)
}

func TestLoadMissingFileErrors(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
