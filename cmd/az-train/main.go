// Command az-train drives the self-play/loss loop end to end against the
// tic-tac-toe reference game: record self-play games with MCTS, batch the
// examples, and log the composite loss each epoch. There being no concrete
// trainable LogitProducer in this repository (NN primitives and their
// gradient machinery are an external collaborator's concern), this command
// exercises every wired component — self-play, the caching and batching
// model wrappers, loss computation — against a Rollout baseline rather than
// an actually-updated network; wiring in a real optimizer only requires
// supplying a model.Model[G] with trainable parameters and a train.Optimizer.
package main

import (
	"context"
	"flag"
	"log"
	"math/rand"

	cfgpkg "github.com/alphabeth/config"
	"github.com/alphabeth/game/tictactoe"
	"github.com/alphabeth/mcts"
	"github.com/alphabeth/model"
	"github.com/alphabeth/model/batch"
	"github.com/alphabeth/model/cache"
	"github.com/alphabeth/selfplay"
	"github.com/alphabeth/train"
)

var configPath = flag.String("config", "", "path to a YAML training config (see config.TrainConfig); if unset, built-in defaults are used")

func defaultTrainConfig() cfgpkg.TrainConfig {
	return cfgpkg.TrainConfig{
		Epochs:        3,
		GamesPerEpoch: 4,
		BatchSize:     8,
		L2Lambda:      0.0001,
		MCTS:          mcts.DefaultConfig(),
		Seed:          1,
	}
}

func main() {
	flag.Parse()
	log.SetFlags(log.Ltime)

	tc := defaultTrainConfig()
	if *configPath != "" {
		loaded, err := cfgpkg.Load(*configPath)
		if err != nil {
			log.Fatalf("loading config: %+v", err)
		}
		tc = loaded.Train
	}

	runTraining(tc)
}

func runTraining(tc cfgpkg.TrainConfig) {
	baseline := model.NewRollout[*tictactoe.State]()
	cached := cache.New[*tictactoe.State](baseline, 4096)
	batched := batch.New[*tictactoe.State](cached, 8, 0)
	defer batched.Close()

	eng := mcts.New[*tictactoe.State](batched, tc.MCTS, tc.Seed)

	for epoch := 0; epoch < tc.Epochs; epoch++ {
		ds, err := selfplay.Record[*tictactoe.State](context.Background(), eng, tictactoe.New, tc.GamesPerEpoch, tc.Seed+int64(epoch))
		if err != nil {
			log.Fatalf("epoch %d: self-play: %+v", epoch, err)
		}
		log.Printf("epoch %d: recorded %d examples from %d games", epoch, ds.Len(), tc.GamesPerEpoch)

		if ds.Len() < tc.BatchSize {
			log.Printf("epoch %d: too few examples for one minibatch, skipping loss", epoch)
			continue
		}

		batchExamples := ds.Examples[:tc.BatchSize]
		rand.New(rand.NewSource(tc.Seed)).Shuffle(len(batchExamples), func(i, j int) {
			batchExamples[i], batchExamples[j] = batchExamples[j], batchExamples[i]
		})

		breakdown, err := train.Compute[*tictactoe.State](batched, batchExamples, tc.L2Lambda)
		if err != nil {
			log.Fatalf("epoch %d: loss: %+v", epoch, err)
		}
		hits, misses, size := cached.Stats()
		log.Printf("epoch %d: loss value=%.4f policy=%.4f l2=%.4f total=%.4f | cache hits=%d misses=%d size=%d",
			epoch, breakdown.Value, breakdown.Policy, breakdown.L2, breakdown.Total, hits, misses, size)
	}
}
