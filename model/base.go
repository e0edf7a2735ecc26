package model

import (
	"github.com/alphabeth/azerrors"
	"github.com/alphabeth/game"
	"github.com/chewxy/math32"
	"github.com/pkg/errors"
)

// Base wraps a LogitProducer that emits PolicyLength()+1 logits per input,
// plus one per feature descriptor: Base applies tanh to the first (the value
// head), softmax to the next PolicyLength (the policy head), and passes any
// feature logits through unchanged. This is the one Model that carries
// trainable parameters.
type Base[G game.Game[G]] struct {
	net          LogitProducer
	policyLength int
	features     []FeatureDescriptor
}

// NewBase builds a Base model. policyLength must match net's action space;
// it is supplied explicitly (rather than inferred) because LogitProducer
// has no notion of games.
func NewBase[G game.Game[G]](net LogitProducer, policyLength int, features []FeatureDescriptor) *Base[G] {
	return &Base[G]{net: net, policyLength: policyLength, features: features}
}

func (b *Base[G]) Apply(g G) (Output, error) {
	h, w, c := b.net.InputShape()
	if !shapeMatches[G](g, h, w, c) {
		return Output{}, errors.Wrapf(azerrors.ErrShapeMismatch,
			"model: expected (%d,%d,%d), got game representation of different shape", h, w, c)
	}
	rep := g.Representation()
	logits, err := b.net.Forward(rep.Data)
	if err != nil {
		return Output{}, errors.Wrap(err, "model: forward")
	}
	nFeat := len(b.features)
	wantLen := 1 + b.policyLength + nFeat
	if len(logits) < wantLen {
		return Output{}, errors.Wrapf(azerrors.ErrShapeMismatch,
			"model: logit producer returned %d logits, want at least %d", len(logits), wantLen)
	}

	value := math32.Tanh(logits[0])
	policy := softmax(logits[1 : 1+b.policyLength])
	var features []float32
	if nFeat > 0 {
		features = append(features, logits[1+b.policyLength:1+b.policyLength+nFeat]...)
	}
	return Output{Value: value, Policy: policy, Features: features}, nil
}

func softmax(logits []float32) []float32 {
	out := make([]float32, len(logits))
	max := logits[0]
	for _, v := range logits {
		if v > max {
			max = v
		}
	}
	var sum float32
	for i, v := range logits {
		e := math32.Exp(v - max)
		out[i] = e
		sum += e
	}
	for i := range out {
		out[i] /= sum
	}
	return out
}

func (b *Base[G]) ApplyBatch(gs []G) ([]Output, error) { return Sequential[G](b, gs) }

func (b *Base[G]) Swap() (Model[G], error) {
	swapped, err := b.net.SwapBackend()
	if err != nil {
		return nil, errors.Wrap(err, "model: swap backend")
	}
	return &Base[G]{net: swapped, policyLength: b.policyLength, features: b.features}, nil
}

func (b *Base[G]) Copy() Model[G] {
	return &Base[G]{net: b.net.Copy(), policyLength: b.policyLength, features: b.features}
}

func (b *Base[G]) BaseModel() Model[G]           { return b }
func (b *Base[G]) PlayingModel() Model[G]        { return b }
func (b *Base[G]) TrainingModel() Model[G]       { return b }
func (b *Base[G]) NTasks() int                   { return 1 }
func (b *Base[G]) Features() []FeatureDescriptor { return b.features }

// Parameters exposes the wrapped network's trainable tensors, for the
// optimizer and for train.Compute's L2 regularization term.
func (b *Base[G]) Parameters() []Parameter { return b.net.Parameters() }

// Net exposes the wrapped LogitProducer, e.g. for serialize.
func (b *Base[G]) Net() LogitProducer { return b.net }
