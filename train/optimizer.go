package train

import (
	"github.com/alphabeth/game"
	"github.com/alphabeth/model"
	"github.com/alphabeth/selfplay"
	"github.com/pkg/errors"
)

// Optimizer is the external collaborator that actually mutates a training
// model's parameters given a minibatch and the loss computed against it.
// How it gets from loss to a parameter update (gradient descent, whatever
// variant) is entirely its own concern; this package only calls Step once
// per minibatch.
type Optimizer[G game.Game[G]] interface {
	Step(m model.Model[G], batch []selfplay.Example[G], loss Breakdown) error
}

// Step computes the composite loss for batch against m's training model and
// applies opt once. It is a no-op error if m has no trainable model in its
// wrapper chain (e.g. calling Step on a bare Random or Cache-around-Random).
func Step[G game.Game[G]](opt Optimizer[G], m model.Model[G], batch []selfplay.Example[G], l2Lambda float32) (Breakdown, error) {
	trainable := m.TrainingModel()
	if trainable == nil {
		return Breakdown{}, errors.New("train: model has no trainable parameters")
	}

	loss, err := Compute[G](trainable, batch, l2Lambda)
	if err != nil {
		return Breakdown{}, err
	}
	if err := opt.Step(trainable, batch, loss); err != nil {
		return loss, errors.Wrap(err, "train: optimizer step")
	}
	return loss, nil
}
