// Package game defines the abstract contract every board game in this
// engine must satisfy, plus the handful of utilities (random playout status,
// symmetry augmentation) that MCTS and self-play build on top of it.
package game

import "math/rand"

// Status is the termination status of a position.
type Status int8

const (
	// Undecided means the game has not ended.
	Undecided Status = iota
	Draw
	WinPlayerA
	WinPlayerB
)

// Player identifies a side. Games are strictly two-player.
type Player int8

const (
	PlayerA Player = 1
	PlayerB Player = -1
)

// Opponent returns the other player.
func (p Player) Opponent() Player { return -p }

// ActionID indexes into a game type's fixed action space, 0..PolicyLength-1.
type ActionID int32

// Tensor is a dense (H, W, C) float32 board representation, row-major with
// channel varying fastest, matching the layout gorgonia.org/tensor expects
// when wrapped with tensor.WithShape(H, W, C).
type Tensor struct {
	H, W, C int
	Data    []float32
}

// At returns the value at (h, w, c).
func (t Tensor) At(h, w, c int) float32 {
	return t.Data[(h*t.W+w)*t.C+c]
}

// Augmented pairs a symmetry-transformed game with its correspondingly
// transformed policy. The identity transform is always included.
type Augmented[Self any] struct {
	State  Self
	Policy []float32
}

// Game is the contract every concrete game type satisfies. Self is the
// concrete receiver type (e.g. *tictactoe.State), so Apply/Clone/Augment can
// return it directly rather than the interface, letting callers that know
// their concrete game type avoid type assertions.
//
// Invariants (see spec):
//   - a game is either terminal (Status() != Undecided) or LegalActions()
//     is non-empty.
//   - LegalActions() is a subset of {0..PolicyLength()-1}.
//   - Apply is only ever called with a legal action on a non-terminal game.
//   - Representation() is from CurrentPlayer's perspective.
type Game[Self any] interface {
	Status() Status
	CurrentPlayer() Player
	LegalActions() []ActionID
	IsActionLegal(a ActionID) bool
	Apply(a ActionID) (Self, error)
	Representation() Tensor
	PolicyLength() int
	RandomPlayout(r *rand.Rand) Status
	Augment(policy []float32) []Augmented[Self]
	Hash() uint64
	Clone() Self
}

// ValueFor converts an absolute terminal Status into a scalar value in
// {-1, 0, 1} from the given player's perspective.
func ValueFor(s Status, perspective Player) float32 {
	switch s {
	case WinPlayerA:
		if perspective == PlayerA {
			return 1
		}
		return -1
	case WinPlayerB:
		if perspective == PlayerB {
			return 1
		}
		return -1
	default:
		return 0
	}
}

// Sample draws an action index from policy, treated as a categorical
// distribution over its full length (zero-mass entries, e.g. illegal
// actions, are never drawn). Used by both self-play recording and the
// MCTS/intuition players to turn a policy into one committed move.
func Sample(policy []float32, r *rand.Rand) ActionID {
	roll := r.Float32()
	var cum float32
	last := ActionID(0)
	for a, p := range policy {
		if p <= 0 {
			continue
		}
		last = ActionID(a)
		cum += p
		if roll <= cum {
			return ActionID(a)
		}
	}
	return last
}

// MaskAndNormalize zeroes every entry of policy not present in legal, then
// renormalizes the remainder to sum to 1. If the legal-masked sum is zero
// (e.g. a raw network output of all zeros), it falls back to a uniform
// distribution over legal. The result is a new slice; policy itself is left
// unmodified.
func MaskAndNormalize(policy []float32, legal []ActionID) []float32 {
	masked := make([]float32, len(policy))
	var sum float32
	for _, a := range legal {
		masked[a] = policy[a]
		sum += policy[a]
	}
	if sum <= 0 {
		u := float32(1) / float32(len(legal))
		for _, a := range legal {
			masked[a] = u
		}
		return masked
	}
	for _, a := range legal {
		masked[a] /= sum
	}
	return masked
}
