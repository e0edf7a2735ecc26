// Package serialize persists and restores a trainable model's state to
// disk: a JSON metadata file alongside a gob-encoded parameter checkpoint.
// A trainable network's internals are an external collaborator's concern,
// so this package only ever touches the abstract
// model.Parameter/FeatureDescriptor/mcts.Config surface — never a concrete
// LogitProducer implementation.
package serialize

import (
	"encoding/gob"
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/alphabeth/azerrors"
	"github.com/alphabeth/mcts"
	"github.com/alphabeth/model"
	"github.com/pkg/errors"
)

// formatVersion is bumped whenever Meta or the checkpoint's gob schema
// changes incompatibly. Load rejects a checkpoint whose saved version
// doesn't match.
const formatVersion = 1

const (
	metaFile       = "meta.json"
	checkpointFile = "checkpoint.gob"
)

// Meta is the JSON side of a checkpoint: everything needed to know how to
// rebuild the model and engine around a checkpoint's raw parameters, but
// none of the parameters themselves. The header — Version, GameTag, Backend
// and LayerDescriptors — lets Load reject a checkpoint built for the wrong
// game, backend or architecture before it ever decodes a parameter tensor.
type Meta struct {
	Version          int                       `json:"version"`
	GameTag          string                    `json:"game_tag"`
	Backend          model.Backend             `json:"backend"`
	LayerDescriptors []model.LayerDescriptor   `json:"layer_descriptors"`
	MCTS             mcts.Config               `json:"mcts_config"`
	Features         []model.FeatureDescriptor `json:"features"`
}

// checkpoint is the gob side: the trainable parameters themselves.
type checkpoint struct {
	Parameters []model.Parameter
}

// Save writes dir/meta.json and dir/checkpoint.gob. dir must not already
// exist. gameTag identifies the game this checkpoint was trained against
// (e.g. "tictactoe", "chess"); Load uses it, alongside backend and layers,
// to reject a checkpoint meant for a different architecture.
func Save(dir, gameTag string, backend model.Backend, layers []model.LayerDescriptor, cfg mcts.Config, features []model.FeatureDescriptor, params []model.Parameter) error {
	if err := os.Mkdir(dir, 0o755); err != nil {
		return errors.Wrap(err, "serialize: mkdir")
	}

	meta := Meta{
		Version:          formatVersion,
		GameTag:          gameTag,
		Backend:          backend,
		LayerDescriptors: layers,
		MCTS:             cfg,
		Features:         features,
	}
	metaBytes, err := json.MarshalIndent(meta, "", "\t")
	if err != nil {
		return errors.Wrap(err, "serialize: marshal meta")
	}
	if err := os.WriteFile(filepath.Join(dir, metaFile), metaBytes, 0o644); err != nil {
		return errors.Wrap(err, "serialize: write meta")
	}

	f, err := os.OpenFile(filepath.Join(dir, checkpointFile), os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return errors.Wrap(err, "serialize: open checkpoint")
	}
	defer f.Close()

	if err := gob.NewEncoder(f).Encode(checkpoint{Parameters: params}); err != nil {
		return errors.Wrap(err, "serialize: encode checkpoint")
	}
	return nil
}

// Load reads dir/meta.json and dir/checkpoint.gob back. It rejects a
// checkpoint saved by an incompatible format version, for a different game,
// or with a different layer architecture, with ErrLoadError rather than
// decoding into a silently wrong shape. wantGameTag and wantLayers are the
// caller's own game tag and architecture; pass "" / nil to skip either
// check (e.g. a generic inspection tool that just wants Meta).
func Load(dir, wantGameTag string, wantLayers []model.LayerDescriptor) (Meta, []model.Parameter, error) {
	metaBytes, err := os.ReadFile(filepath.Join(dir, metaFile))
	if err != nil {
		return Meta{}, nil, errors.Wrap(err, "serialize: read meta")
	}
	var meta Meta
	if err := json.Unmarshal(metaBytes, &meta); err != nil {
		return Meta{}, nil, errors.Wrap(err, "serialize: unmarshal meta")
	}
	if meta.Version != formatVersion {
		return Meta{}, nil, errors.Wrapf(azerrors.ErrLoadError,
			"serialize: checkpoint version %d, want %d", meta.Version, formatVersion)
	}
	if wantGameTag != "" && meta.GameTag != wantGameTag {
		return Meta{}, nil, errors.Wrapf(azerrors.ErrLoadError,
			"serialize: checkpoint game %q, want %q", meta.GameTag, wantGameTag)
	}
	if wantLayers != nil && !layersEqual(meta.LayerDescriptors, wantLayers) {
		return Meta{}, nil, errors.Wrap(azerrors.ErrLoadError,
			"serialize: checkpoint layer architecture does not match")
	}

	f, err := os.Open(filepath.Join(dir, checkpointFile))
	if err != nil {
		return Meta{}, nil, errors.Wrap(err, "serialize: open checkpoint")
	}
	defer f.Close()

	var cp checkpoint
	if err := gob.NewDecoder(f).Decode(&cp); err != nil {
		return Meta{}, nil, errors.Wrap(err, "serialize: decode checkpoint")
	}
	return meta, cp.Parameters, nil
}

// layersEqual compares two layer-descriptor lists by name and shape, order
// sensitive (layer order is itself part of the architecture).
func layersEqual(a, b []model.LayerDescriptor) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].Name != b[i].Name || len(a[i].Shape) != len(b[i].Shape) {
			return false
		}
		for j := range a[i].Shape {
			if a[i].Shape[j] != b[i].Shape[j] {
				return false
			}
		}
	}
	return true
}
