package serialize_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/alphabeth/azerrors"
	"github.com/alphabeth/mcts"
	"github.com/alphabeth/model"
	"github.com/alphabeth/serialize"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveLoadRoundTrip(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "checkpoint")
	cfg := mcts.DefaultConfig()
	features := []model.FeatureDescriptor{{Name: "material", Weight: 0.5}}
	layers := []model.LayerDescriptor{
		{Name: "conv1", Shape: []int{3, 3, 2, 16}},
		{Name: "fc1", Shape: []int{128, 64}},
	}
	params := []model.Parameter{
		{Name: "w1", Data: []float32{1, 2, 3}, Regularizable: true},
		{Name: "b1", Data: []float32{0}, Regularizable: false},
	}

	require.NoError(t, serialize.Save(dir, "tictactoe", model.CPU, layers, cfg, features, params))

	meta, loaded, err := serialize.Load(dir, "tictactoe", layers)
	require.NoError(t, err)
	assert.Equal(t, "tictactoe", meta.GameTag)
	assert.Equal(t, model.CPU, meta.Backend)
	assert.Equal(t, layers, meta.LayerDescriptors)
	assert.Equal(t, cfg, meta.MCTS)
	assert.Equal(t, features, meta.Features)
	assert.Equal(t, params, loaded)
}

func TestLoadRejectsVersionMismatch(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "checkpoint")
	require.NoError(t, serialize.Save(dir, "tictactoe", model.CPU, nil, mcts.DefaultConfig(), nil, nil))

	metaPath := filepath.Join(dir, "meta.json")
	data := []byte(`{"version":999,"game_tag":"tictactoe","backend":0,"layer_descriptors":null,"mcts_config":{},"features":null}`)
	require.NoError(t, os.WriteFile(metaPath, data, 0o644))

	_, _, err := serialize.Load(dir, "", nil)
	assert.Error(t, err)
	assert.ErrorIs(t, err, azerrors.ErrLoadError)
}

func TestLoadRejectsGameTagMismatch(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "checkpoint")
	require.NoError(t, serialize.Save(dir, "tictactoe", model.CPU, nil, mcts.DefaultConfig(), nil, nil))

	_, _, err := serialize.Load(dir, "chess", nil)
	assert.Error(t, err)
	assert.ErrorIs(t, err, azerrors.ErrLoadError)
}

func TestLoadRejectsLayerArchitectureMismatch(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "checkpoint")
	layers := []model.LayerDescriptor{{Name: "conv1", Shape: []int{3, 3, 2, 16}}}
	require.NoError(t, serialize.Save(dir, "tictactoe", model.CPU, layers, mcts.DefaultConfig(), nil, nil))

	other := []model.LayerDescriptor{{Name: "conv1", Shape: []int{5, 5, 2, 16}}}
	_, _, err := serialize.Load(dir, "tictactoe", other)
	assert.Error(t, err)
	assert.ErrorIs(t, err, azerrors.ErrLoadError)
}
