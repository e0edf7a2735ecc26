package model

import "github.com/alphabeth/game"

// Backend is the compute device a model's parameters live on.
type Backend int

const (
	CPU Backend = iota
	GPU
)

func (b Backend) String() string {
	if b == GPU {
		return "gpu"
	}
	return "cpu"
}

// Parameter is one named, optionally-regularizable tensor of a trainable
// model. The optimizer and the L2 term of train.Compute both walk
// Parameters().
type Parameter struct {
	Name          string
	Data          []float32
	Regularizable bool
}

// LayerDescriptor names one layer of a LogitProducer's architecture and its
// tensor shape, independent of the layer's current parameter values. A
// checkpoint's header carries these so a loader can validate the
// architecture it's about to populate before touching any parameter data.
type LayerDescriptor struct {
	Name  string
	Shape []int
}

// LogitProducer stands in for whatever differentiable dense/conv/batchnorm/
// dropout network architecture backs a trained model. Base wraps one and is
// responsible only for the value/policy activation split, not for the
// network's internal layers or its gradient machinery — those belong to an
// external optimizer/backend collaborator this package never implements.
type LogitProducer interface {
	// Forward produces raw logits from a flattened Representation(): index
	// 0 is the value logit, 1..PolicyLength are the policy logits, and one
	// further logit per feature head follows when the model has features.
	Forward(input []float32) (logits []float32, err error)
	// InputShape is the (H, W, C) this producer expects.
	InputShape() (h, w, c int)
	// Backend reports where this producer's parameters currently live.
	Backend() Backend
	// SwapBackend returns an equivalent producer on the other backend, or
	// an error if migration isn't supported.
	SwapBackend() (LogitProducer, error)
	// Copy returns a deep, independent copy.
	Copy() LogitProducer
	// Parameters lists this producer's trainable tensors.
	Parameters() []Parameter
}

func shapeMatches[G game.Game[G]](g G, h, w, c int) bool {
	rep := g.Representation()
	return rep.H == h && rep.W == w && rep.C == c
}
