package notation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gat-engine/gat/board"
)

func TestEncodeDecodePositionRoundTrip(t *testing.T) {
	pos := board.NewInitialPosition()
	encoded := EncodePosition(&pos)

	decoded, err := DecodePosition(encoded)
	require.NoError(t, err)
	assert.Equal(t, pos, decoded)
}

func TestDecodePositionPlacesGuardsAndTowers(t *testing.T) {
	pos, err := DecodePosition("7/7/7/3RG3/3b23/7/7 r")
	require.NoError(t, err)

	assert.Equal(t, board.RankFile(3, 3).Bitboard(), pos.RedGuard)
	assert.Equal(t, board.RankFile(2, 3).Bitboard(), pos.BlueTowers)
	assert.Equal(t, 2, pos.Height(board.Blue, board.RankFile(2, 3)))
	assert.True(t, pos.RedToMove)
}

func TestDecodePositionSideToMoveBlue(t *testing.T) {
	pos, err := DecodePosition("7/7/7/3RG3/3b23/7/7 b")
	require.NoError(t, err)
	assert.False(t, pos.RedToMove)
}

func TestDecodePositionRejectsWrongRankCount(t *testing.T) {
	_, err := DecodePosition("7/7/7 r")
	assert.ErrorIs(t, err, ErrMalformed)
}

func TestDecodePositionRejectsBadSideToken(t *testing.T) {
	_, err := DecodePosition("7/7/7/7/7/7/7 x")
	assert.ErrorIs(t, err, ErrMalformed)
}

func TestDecodePositionRejectsNarrowRank(t *testing.T) {
	_, err := DecodePosition("6/7/7/7/7/7/7 r")
	assert.ErrorIs(t, err, ErrMalformed)
}

func TestDecodePositionRejectsOverflowingRank(t *testing.T) {
	_, err := DecodePosition("8/7/7/7/7/7/7 r")
	assert.ErrorIs(t, err, ErrMalformed)
}

func TestDecodePositionRejectsUnknownCharacter(t *testing.T) {
	_, err := DecodePosition("7/7/7/3x3/7/7/7 r")
	assert.ErrorIs(t, err, ErrMalformed)
}

func TestDecodePositionRejectsInvariantViolation(t *testing.T) {
	// Two red guards: violates the at-most-one-guard-per-color invariant.
	_, err := DecodePosition("7/7/7/3RG1RG1/7/7/7 r")
	assert.Error(t, err)
}
