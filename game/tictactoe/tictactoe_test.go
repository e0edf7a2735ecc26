package tictactoe_test

import (
	"math/rand"
	"testing"

	"github.com/alphabeth/game"
	"github.com/alphabeth/game/tictactoe"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLegalActionsNonEmptyUntilTerminal(t *testing.T) {
	s := tictactoe.New()
	r := rand.New(rand.NewSource(1))
	for s.Status() == game.Undecided {
		legal := s.LegalActions()
		require.NotEmpty(t, legal)
		a := legal[r.Intn(len(legal))]
		next, err := s.Apply(a)
		require.NoError(t, err)
		s = next
	}
}

func TestApplyRejectsOccupiedCell(t *testing.T) {
	s := tictactoe.New()
	next, err := s.Apply(0)
	require.NoError(t, err)
	_, err = next.Apply(0) // already occupied
	assert.Error(t, err)
}

func TestRandomPlayoutAlwaysReachesTerminalStatus(t *testing.T) {
	r := rand.New(rand.NewSource(42))
	for i := 0; i < 1000; i++ {
		s := tictactoe.New()
		status := s.RandomPlayout(r)
		assert.NotEqual(t, game.Undecided, status)
	}
}

func TestAugmentIncludesIdentityAndPreservesPolicySum(t *testing.T) {
	s := tictactoe.New()
	s, _ = s.Apply(4)
	policy := make([]float32, tictactoe.PolicyLength)
	policy[0] = 1
	augmented := s.Augment(policy)
	require.Len(t, augmented, 8)

	foundIdentity := false
	for _, a := range augmented {
		if a.State.Hash() == s.Hash() {
			foundIdentity = true
		}
		var sum float32
		for _, p := range a.Policy {
			sum += p
		}
		assert.InDelta(t, 1.0, sum, 1e-5)
	}
	assert.True(t, foundIdentity)
}

func TestRepresentationIsCurrentPlayerPerspective(t *testing.T) {
	s := tictactoe.New()
	s, err := s.Apply(0)
	require.NoError(t, err)
	rep := s.Representation()
	// cell 0 was just played by PlayerA, but it's now PlayerB's turn, so
	// from the new current player's perspective that mark is the opponent's.
	assert.Equal(t, float32(-1), rep.At(0, 0, 0))
}
