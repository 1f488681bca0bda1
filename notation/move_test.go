package notation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gat-engine/gat/board"
)

func TestEncodeMove(t *testing.T) {
	m := board.Move{From: board.RankFile(3, 3), To: board.RankFile(4, 3), Amount: 2}
	assert.Equal(t, "D4D52", EncodeMove(m))
}

func TestDecodeMoveRoundTrip(t *testing.T) {
	m := board.Move{From: board.RankFile(0, 3), To: board.RankFile(2, 3), Amount: 2}
	decoded, err := DecodeMove(EncodeMove(m))
	require.NoError(t, err)
	assert.Equal(t, m, decoded)
}

func TestDecodeMoveRejectsShortString(t *testing.T) {
	_, err := DecodeMove("D4")
	assert.ErrorIs(t, err, ErrMalformed)
}

func TestDecodeMoveRejectsMissingAmount(t *testing.T) {
	_, err := DecodeMove("D4D5")
	assert.ErrorIs(t, err, ErrMalformed)
}

func TestDecodeMoveRejectsZeroAmount(t *testing.T) {
	_, err := DecodeMove("D4D50")
	assert.ErrorIs(t, err, ErrMalformed)
}

func TestDecodeMoveRejectsBadSquare(t *testing.T) {
	_, err := DecodeMove("Z9D51")
	assert.Error(t, err)
}
