package chess_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alphabeth/game"
	azchess "github.com/alphabeth/game/chess"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// openingMoves are every legal UCI move from the standard starting position,
// enough to exercise LegalActions/Apply without needing the full move table.
var openingMoves = []string{
	"a2a3", "a2a4", "b2b3", "b2b4", "c2c3", "c2c4", "d2d3", "d2d4",
	"e2e3", "e2e4", "f2f3", "f2f4", "g2g3", "g2g4", "h2h3", "h2h4",
	"b1a3", "b1c3", "g1f3", "g1h3",
}

func writeActionSpace(t *testing.T, moves []string) *azchess.ActionSpace {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "moves.txt")
	content := strings.Join(moves, "\n") + "\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	spc, err := azchess.LoadActionSpace(path)
	require.NoError(t, err)
	return spc
}

func TestNewGameHasTwentyLegalOpeningMoves(t *testing.T) {
	spc := writeActionSpace(t, openingMoves)
	s := azchess.New(spc)

	assert.Equal(t, game.Undecided, s.Status())
	assert.Equal(t, game.PlayerA, s.CurrentPlayer())
	assert.Len(t, s.LegalActions(), len(openingMoves))
}

func TestApplyAdvancesTurnAndRejectsIllegalAction(t *testing.T) {
	spc := writeActionSpace(t, openingMoves)
	s := azchess.New(spc)

	legal := s.LegalActions()
	require.NotEmpty(t, legal)
	next, err := s.Apply(legal[0])
	require.NoError(t, err)
	assert.Equal(t, game.PlayerB, next.CurrentPlayer())

	_, err = next.Apply(legal[0])
	assert.Error(t, err)
}

func TestRepresentationShapeIsEightByEightByTwo(t *testing.T) {
	spc := writeActionSpace(t, openingMoves)
	s := azchess.New(spc)
	rep := s.Representation()
	assert.Equal(t, 8, rep.H)
	assert.Equal(t, 8, rep.W)
	assert.Equal(t, 2, rep.C)
	assert.Len(t, rep.Data, 8*8*2)
}

func TestAugmentIsIdentityOnly(t *testing.T) {
	spc := writeActionSpace(t, openingMoves)
	s := azchess.New(spc)
	policy := make([]float32, spc.Len())
	aug := s.Augment(policy)
	require.Len(t, aug, 1)
	assert.Same(t, s, aug[0].State)
}
