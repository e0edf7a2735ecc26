// Package chess adapts Chess — played through github.com/notnil/chess with
// UCI-notation moves — onto the generic game.Game interface. Concrete games
// beyond the minimal tic-tac-toe reference are example implementations: this
// package is exercised by its own smoke test but is not a target of the
// core's quantified invariants (those are proven against game/tictactoe).
package chess

import (
	"bufio"
	"math/rand"
	"os"

	"github.com/alphabeth/azerrors"
	"github.com/alphabeth/game"
	"github.com/notnil/chess"
	"github.com/pkg/errors"
)

// ActionSpace is the shared, immutable mapping between action indices and
// UCI move strings, loaded once from a move list file and shared by every
// State cloned from the same root.
type ActionSpace struct {
	byIndex map[int32]string
	byMove  map[string]int32
}

// LoadActionSpace reads one UCI move per line from path and builds the
// bidirectional index<->move mapping.
func LoadActionSpace(path string) (*ActionSpace, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "chess: opening moves file")
	}
	defer f.Close()

	as := &ActionSpace{byIndex: map[int32]string{}, byMove: map[string]int32{}}
	scanner := bufio.NewScanner(f)
	var idx int32
	for scanner.Scan() {
		m := scanner.Text()
		as.byIndex[idx] = m
		as.byMove[m] = idx
		idx++
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "chess: reading moves file")
	}
	return as, nil
}

func (as *ActionSpace) Len() int { return len(as.byIndex) }

// State is a Chess position. Construct with New.
type State struct {
	g      *chess.Game
	spc    *ActionSpace
	player game.Player // PlayerA == White, PlayerB == Black
}

// New starts a fresh game using the given action space.
func New(spc *ActionSpace) *State {
	g := chess.NewGame(chess.UseNotation(chess.UCINotation{}))
	return &State{g: g, spc: spc, player: game.PlayerA}
}

var _ game.Game[*State] = (*State)(nil)

func colorOf(p game.Player) chess.Color {
	if p == game.PlayerA {
		return chess.White
	}
	return chess.Black
}

func (s *State) Status() game.Status {
	outcome := s.g.Outcome()
	switch outcome {
	case chess.NoOutcome:
		return game.Undecided
	case chess.Draw:
		return game.Draw
	}
	// outcome is WhiteWon or BlackWon.
	if outcome == chess.WhiteWon {
		return game.WinPlayerA
	}
	return game.WinPlayerB
}

func (s *State) CurrentPlayer() game.Player { return s.player }

func (s *State) PolicyLength() int { return s.spc.Len() }

func (s *State) LegalActions() []game.ActionID {
	moves := s.g.ValidMoves()
	out := make([]game.ActionID, 0, len(moves))
	for _, m := range moves {
		if idx, ok := s.spc.byMove[m.String()]; ok {
			out = append(out, game.ActionID(idx))
		}
	}
	return out
}

func (s *State) IsActionLegal(a game.ActionID) bool {
	move, ok := s.spc.byIndex[int32(a)]
	if !ok {
		return false
	}
	for _, m := range s.g.ValidMoves() {
		if m.String() == move {
			return true
		}
	}
	return false
}

func (s *State) Apply(a game.ActionID) (*State, error) {
	if s.Status() != game.Undecided {
		return nil, errors.Wrapf(azerrors.ErrGameOver, "chess: apply %d", a)
	}
	move, ok := s.spc.byIndex[int32(a)]
	if !ok || !s.IsActionLegal(a) {
		return nil, errors.Wrapf(azerrors.ErrIllegalAction, "chess: action %d", a)
	}
	next := s.g.Clone()
	if err := next.MoveStr(move); err != nil {
		return nil, errors.Wrapf(azerrors.ErrIllegalAction, "chess: move %q rejected by engine: %v", move, err)
	}
	return &State{g: next, spc: s.spc, player: s.player.Opponent()}, nil
}

// Representation encodes the board as two channels: piece type code
// (PieceType+1, current player's own pieces positive, opponent negative) and
// a constant side-to-move plane, reshaped to 8x8x2.
func (s *State) Representation() game.Tensor {
	const n = 8
	data := make([]float32, n*n*2)
	board := s.g.Position().Board()
	toMove := colorOf(s.player)
	for sq := 0; sq < n*n; sq++ {
		p := board.Piece(chess.Square(sq))
		row, col := sq/n, sq%n
		base := (row*n + col) * 2
		if p == chess.NoPiece {
			data[base] = 0
		} else if p.Color() == toMove {
			data[base] = float32(p.Type()) + 1
		} else {
			data[base] = -(float32(p.Type()) + 1)
		}
		data[base+1] = float32(s.player)
	}
	return game.Tensor{H: n, W: n, C: 2, Data: data}
}

// RandomPlayout plays uniformly random legal moves to termination.
func (s *State) RandomPlayout(r *rand.Rand) game.Status {
	cur := s
	for cur.Status() == game.Undecided {
		legal := cur.LegalActions()
		if len(legal) == 0 {
			break
		}
		a := legal[r.Intn(len(legal))]
		next, err := cur.Apply(a)
		if err != nil {
			panic(errors.Wrap(err, "chess: random playout"))
		}
		cur = next
	}
	return cur.Status()
}

// Augment has no useful board symmetry for chess (orientation matters to
// castling/en-passant rights), so it returns only the identity pair, the
// default no-op contract for games without symmetries.
func (s *State) Augment(policy []float32) []game.Augmented[*State] {
	return []game.Augmented[*State]{{State: s, Policy: policy}}
}

// Hash hashes the position's FEN-equivalent board+turn encoding.
func (s *State) Hash() uint64 {
	h := s.g.Position().Hash()
	var v uint64
	for i := 0; i < len(h) && i < 8; i++ {
		v = v<<8 | uint64(h[i])
	}
	return v
}

func (s *State) Clone() *State {
	return &State{g: s.g.Clone(), spc: s.spc, player: s.player}
}

// Board exposes the underlying chess board for CLI rendering.
func (s *State) Board() *chess.Board { return s.g.Position().Board() }

// Move returns the UCI string for an action index.
func (s *State) Move(a game.ActionID) (string, error) {
	m, ok := s.spc.byIndex[int32(a)]
	if !ok {
		return "", errors.Wrapf(azerrors.ErrIllegalAction, "chess: no move for index %d", a)
	}
	return m, nil
}
