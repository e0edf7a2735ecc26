package train

import (
	"math/rand"

	"github.com/alphabeth/game"
	"github.com/alphabeth/selfplay"
	"github.com/pkg/errors"
	"gorgonia.org/tensor"
)

// Tensors holds the examples of one or more whole minibatches laid out as
// dense arrays, for handing to an external NN backend. n is the number of
// batches times batchSize; batch i occupies rows i*batchSize..(i+1)*batchSize-1.
type Tensors struct {
	Xs       *tensor.Dense // (n, H, W, C)
	Policies *tensor.Dense // (n, policyLength)
	Values   *tensor.Dense // (n)
}

// ToTensors shuffles examples and keeps as many whole batches of batchSize
// as fit, dropping the remainder; it returns them stacked in one Tensors
// together with the batch count. It returns an error if there are fewer
// examples than one batch.
func ToTensors[G game.Game[G]](examples []selfplay.Example[G], batchSize int, rnd *rand.Rand) (Tensors, int, error) {
	if batchSize <= 0 {
		return Tensors{}, 0, errors.New("train: batchSize must be positive")
	}
	shuffled := make([]selfplay.Example[G], len(examples))
	copy(shuffled, examples)
	rnd.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })

	batches := len(shuffled) / batchSize
	if batches == 0 {
		return Tensors{}, 0, errors.New("train: too few examples for one batch")
	}
	total := batches * batchSize

	rep := shuffled[0].State.Representation()
	policyLength := shuffled[0].State.PolicyLength()

	var xs, policies, values []float32
	for i := 0; i < total; i++ {
		ex := shuffled[i]
		xs = append(xs, ex.State.Representation().Data...)
		policies = append(policies, ex.Policy...)
		values = append(values, ex.Value)
	}

	return Tensors{
		Xs:       tensor.New(tensor.WithBacking(xs), tensor.WithShape(total, rep.H, rep.W, rep.C)),
		Policies: tensor.New(tensor.WithBacking(policies), tensor.WithShape(total, policyLength)),
		Values:   tensor.New(tensor.WithBacking(values), tensor.WithShape(total)),
	}, batches, nil
}
