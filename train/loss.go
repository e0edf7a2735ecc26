// Package train implements the composite loss and the minibatch training
// step that closes the self-play learning loop. The optimizer itself — and
// the gradient machinery it needs — is an external collaborator this
// package only calls through, never implements.
package train

import (
	"github.com/alphabeth/game"
	"github.com/alphabeth/model"
	"github.com/alphabeth/selfplay"
	"github.com/chewxy/math32"
	"github.com/pkg/errors"
)

// epsilon keeps policy cross-entropy finite when a predicted probability
// rounds to zero.
const epsilon = 1e-8

// Breakdown is the composite loss, split into its terms so callers can log
// or plot each contribution separately; Total is their sum.
type Breakdown struct {
	Value    float32
	Policy   float32
	Features map[string]float32
	L2       float32
	Total    float32
}

// parameterized is implemented by models that expose trainable parameters,
// e.g. model.Base. Models without it (Random, Rollout, Dummy, Cache) simply
// contribute zero to the L2 term.
type parameterized interface {
	Parameters() []model.Parameter
}

// Compute evaluates the composite loss of a minibatch of self-play examples
// against m's current predictions:
//
//	L = MSE(v_pred, v_target) + CE(pi_pred, pi_target)
//	    + sum_f w_f * L_f + lambda * ||theta||^2
//
// CE uses the full-length target policy (zero mass on illegal actions
// contributes zero) against m's own (already-softmaxed) predicted policy.
func Compute[G game.Game[G]](m model.Model[G], batch []selfplay.Example[G], l2Lambda float32) (Breakdown, error) {
	if len(batch) == 0 {
		return Breakdown{}, errors.New("train: empty minibatch")
	}

	states := make([]G, len(batch))
	for i, ex := range batch {
		states[i] = ex.State
	}
	preds, err := m.ApplyBatch(states)
	if err != nil {
		return Breakdown{}, errors.Wrap(err, "train: model apply")
	}

	descs := m.Features()
	bd := Breakdown{Features: make(map[string]float32, len(descs))}

	n := float32(len(batch))
	for i, ex := range batch {
		pred := preds[i]

		dv := pred.Value - ex.Value
		bd.Value += dv * dv

		var ce float32
		for a, target := range ex.Policy {
			if target == 0 {
				continue
			}
			ce -= target * math32.Log(pred.Policy[a]+epsilon)
		}
		bd.Policy += ce

		for fi, d := range descs {
			if fi >= len(pred.Features) || fi >= len(ex.Features) {
				break
			}
			diff := pred.Features[fi] - ex.Features[fi]
			bd.Features[d.Name] += d.Weight * diff * diff
		}
	}
	bd.Value /= n
	bd.Policy /= n
	for name := range bd.Features {
		bd.Features[name] /= n
	}

	if p, ok := m.TrainingModel().(parameterized); ok {
		for _, param := range p.Parameters() {
			if !param.Regularizable {
				continue
			}
			for _, v := range param.Data {
				bd.L2 += v * v
			}
		}
		bd.L2 *= l2Lambda
	}

	bd.Total = bd.Value + bd.Policy + bd.L2
	for _, v := range bd.Features {
		bd.Total += v
	}
	return bd, nil
}
