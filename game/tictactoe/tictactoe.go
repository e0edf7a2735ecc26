// Package tictactoe is the engine's reference Game implementation. It is
// deliberately small: a 3x3 board, 9 actions, and the eight dihedral
// symmetries of a square.
package tictactoe

import (
	"hash/maphash"
	"math/rand"

	"github.com/alphabeth/azerrors"
	"github.com/alphabeth/game"
	"github.com/pkg/errors"
)

const (
	boardSize    = 3
	PolicyLength = boardSize * boardSize
)

var hashSeed = maphash.MakeSeed()

// mark is the absolute occupant of a cell: empty, or one of the two players.
type mark int8

const (
	empty mark = 0
)

// State is a tic-tac-toe position. The zero value is not valid; use New.
type State struct {
	board  [PolicyLength]mark
	player game.Player
	status game.Status // absolute: Undecided, Draw, WinPlayerA or WinPlayerB
	moves  int
}

// New returns a fresh empty board with PlayerA to move.
func New() *State {
	return &State{player: game.PlayerA}
}

var _ game.Game[*State] = (*State)(nil)

func (s *State) Status() game.Status { return s.status }

func (s *State) CurrentPlayer() game.Player { return s.player }

func (s *State) LegalActions() []game.ActionID {
	if s.status != game.Undecided {
		return nil
	}
	actions := make([]game.ActionID, 0, PolicyLength)
	for i, m := range s.board {
		if m == empty {
			actions = append(actions, game.ActionID(i))
		}
	}
	return actions
}

func (s *State) IsActionLegal(a game.ActionID) bool {
	if a < 0 || int(a) >= PolicyLength {
		return false
	}
	return s.status == game.Undecided && s.board[a] == empty
}

// Apply places the current player's mark at a and returns the resulting
// state, leaving s unmodified.
func (s *State) Apply(a game.ActionID) (*State, error) {
	if s.status != game.Undecided {
		return nil, errors.Wrapf(azerrors.ErrGameOver, "tictactoe: apply %d", a)
	}
	if !s.IsActionLegal(a) {
		return nil, errors.Wrapf(azerrors.ErrIllegalAction, "tictactoe: action %d", a)
	}
	next := *s
	next.board[a] = mark(s.player)
	next.moves++

	if next.wins(mark(s.player)) {
		if s.player == game.PlayerA {
			next.status = game.WinPlayerA
		} else {
			next.status = game.WinPlayerB
		}
	} else if next.moves == PolicyLength {
		next.status = game.Draw
	}
	next.player = s.player.Opponent()
	return &next, nil
}

var lines = [8][3]int{
	{0, 1, 2}, {3, 4, 5}, {6, 7, 8},
	{0, 3, 6}, {1, 4, 7}, {2, 5, 8},
	{0, 4, 8}, {2, 4, 6},
}

func (s *State) wins(m mark) bool {
	for _, l := range lines {
		if s.board[l[0]] == m && s.board[l[1]] == m && s.board[l[2]] == m {
			return true
		}
	}
	return false
}

// Representation returns the board from the current player's perspective:
// +1 for the current player's own marks, -1 for the opponent's, 0 empty.
func (s *State) Representation() game.Tensor {
	data := make([]float32, PolicyLength)
	for i, m := range s.board {
		switch {
		case m == empty:
			data[i] = 0
		case game.Player(m) == s.player:
			data[i] = 1
		default:
			data[i] = -1
		}
	}
	return game.Tensor{H: boardSize, W: boardSize, C: 1, Data: data}
}

func (*State) PolicyLength() int { return PolicyLength }

// RandomPlayout plays uniformly random legal actions to termination and
// returns the terminal status. Tic-tac-toe has at most 9 plies, so this
// always terminates.
func (s *State) RandomPlayout(r *rand.Rand) game.Status {
	cur := s
	for cur.Status() == game.Undecided {
		legal := cur.LegalActions()
		a := legal[r.Intn(len(legal))]
		next, err := cur.Apply(a)
		if err != nil {
			panic(errors.Wrap(err, "tictactoe: random playout"))
		}
		cur = next
	}
	return cur.Status()
}

// Hash returns a stable-within-process hash of the board and side to move.
func (s *State) Hash() uint64 {
	var h maphash.Hash
	h.SetSeed(hashSeed)
	buf := make([]byte, PolicyLength+1)
	for i, m := range s.board {
		buf[i] = byte(m + 1) // 0,1,2
	}
	buf[PolicyLength] = byte(s.player + 1)
	h.Write(buf)
	return h.Sum64()
}

// Clone returns a deep copy. Since State contains no pointers/slices beyond
// the fixed array, a value copy already suffices; Clone exists to satisfy
// the interface and to make the no-aliasing guarantee explicit at call
// sites.
func (s *State) Clone() *State {
	c := *s
	return &c
}

// dihedral transform indices: for board index i = row*3+col, returns the
// destination index after applying the transform.
var transforms = [8]func(row, col int) (int, int){
	func(r, c int) (int, int) { return r, c },                     // identity
	func(r, c int) (int, int) { return c, boardSize - 1 - r },     // rotate 90
	func(r, c int) (int, int) { return boardSize - 1 - r, boardSize - 1 - c }, // rotate 180
	func(r, c int) (int, int) { return boardSize - 1 - c, r },     // rotate 270
	func(r, c int) (int, int) { return r, boardSize - 1 - c },     // flip horizontal
	func(r, c int) (int, int) { return boardSize - 1 - r, c },     // flip vertical
	func(r, c int) (int, int) { return c, r },                     // transpose
	func(r, c int) (int, int) { return boardSize - 1 - c, boardSize - 1 - r }, // anti-transpose
}

// Augment returns the eight dihedral-symmetry-equivalent (state, policy)
// pairs, including the identity.
func (s *State) Augment(policy []float32) []game.Augmented[*State] {
	out := make([]game.Augmented[*State], 0, len(transforms))
	for _, tf := range transforms {
		ns := *s
		np := make([]float32, PolicyLength)
		for idx := 0; idx < PolicyLength; idx++ {
			r, c := idx/boardSize, idx%boardSize
			nr, nc := tf(r, c)
			dst := nr*boardSize + nc
			ns.board[dst] = s.board[idx]
			np[dst] = policy[idx]
		}
		out = append(out, game.Augmented[*State]{State: &ns, Policy: np})
	}
	return out
}
