// Package config loads the ambient training configuration (how many
// self-play games per epoch, MCTS knobs, loss weighting) from a YAML file:
// viper reads the raw file, then the relevant section is round-tripped
// through yaml.v3 into a concrete struct so the rest of the program never
// touches viper's own loosely-typed map.
package config

import (
	"path/filepath"

	"github.com/alphabeth/mcts"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// outer mirrors the top-level YAML shape: a "game" selector alongside the
// "train" section, kept generic (interface{}) at this layer so viper's
// loose unmarshal doesn't have to know TrainConfig's shape up front.
type outer struct {
	Game  string      `mapstructure:"game"`
	Train interface{} `mapstructure:"train"`
}

// TrainConfig holds every ambient knob a training run needs outside of code.
// Its yaml tags are lower-case because viper lower-cases every key it reads,
// so a file's "gamesPerEpoch" reaches the yaml.v3 round trip as
// "gamesperepoch".
type TrainConfig struct {
	// Epochs is the number of self-play/train iterations to run.
	Epochs int `yaml:"epochs"`
	// GamesPerEpoch is how many self-play games feed each training step.
	GamesPerEpoch int `yaml:"gamesperepoch"`
	// BatchSize is the minibatch size train.ToTensors slices examples into.
	BatchSize int `yaml:"batchsize"`
	// L2Lambda weights the regularization term of the composite loss.
	L2Lambda float32 `yaml:"l2lambda"`
	// MCTS configures every search run during self-play.
	MCTS mcts.Config `yaml:"mcts"`
	// Seed seeds every random source this run touches, for local
	// reproducibility on a single host.
	Seed int64 `yaml:"seed"`
}

// Config is the full top-level file: which game to train on, plus its
// TrainConfig.
type Config struct {
	Game  string
	Train TrainConfig
}

// Load reads the file at path as YAML, whatever its extension, and returns
// the parsed Config.
func Load(path string) (*Config, error) {
	vp := viper.New()
	vp.SetConfigFile(path)
	vp.SetConfigType("yaml")
	vp.AddConfigPath(filepath.Dir(path))
	if err := vp.ReadInConfig(); err != nil {
		return nil, err
	}

	var o outer
	if err := vp.Unmarshal(&o); err != nil {
		return nil, err
	}

	raw, err := yaml.Marshal(o.Train)
	if err != nil {
		return nil, err
	}
	var train TrainConfig
	if err := yaml.Unmarshal(raw, &train); err != nil {
		return nil, err
	}

	return &Config{Game: o.Game, Train: train}, nil
}
