package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gat-engine/gat/board"
)

func TestTTStoreProbeRoundTrip(t *testing.T) {
	tt := NewTranspositionTable(1)
	m := board.Move{From: board.RankFile(1, 1), To: board.RankFile(2, 1), Amount: 1}

	tt.Store(0xABCD, m, 42, 5, ttExact, 0)

	gotMove, gotScore, gotDepth, gotBound, ok := tt.Probe(0xABCD, 0)
	require.True(t, ok)
	assert.Equal(t, m, gotMove)
	assert.Equal(t, int32(42), gotScore)
	assert.Equal(t, 5, gotDepth)
	assert.Equal(t, ttExact, gotBound)
}

func TestTTProbeMissReturnsFalse(t *testing.T) {
	tt := NewTranspositionTable(1)
	_, _, _, _, ok := tt.Probe(0x1234, 0)
	assert.False(t, ok)
}

func TestTTShallowerSameGenerationDoesNotOverwrite(t *testing.T) {
	tt := NewTranspositionTable(1)
	m1 := board.Move{From: board.RankFile(0, 0), To: board.RankFile(1, 0), Amount: 1}
	m2 := board.Move{From: board.RankFile(0, 0), To: board.RankFile(2, 0), Amount: 2}

	tt.Store(0x1, m1, 10, 8, ttExact, 0)
	tt.Store(0x1, m2, 20, 3, ttExact, 0)

	gotMove, gotScore, gotDepth, _, ok := tt.Probe(0x1, 0)
	require.True(t, ok)
	assert.Equal(t, m1, gotMove)
	assert.Equal(t, int32(10), gotScore)
	assert.Equal(t, 8, gotDepth)
}

func TestTTNewGenerationAlwaysOverwrites(t *testing.T) {
	tt := NewTranspositionTable(1)
	m1 := board.Move{From: board.RankFile(0, 0), To: board.RankFile(1, 0), Amount: 1}
	m2 := board.Move{From: board.RankFile(0, 0), To: board.RankFile(2, 0), Amount: 2}

	tt.Store(0x1, m1, 10, 8, ttExact, 0)
	tt.NewSearch()
	tt.Store(0x1, m2, 20, 1, ttExact, 0)

	gotMove, _, _, _, ok := tt.Probe(0x1, 0)
	require.True(t, ok)
	assert.Equal(t, m2, gotMove)
}

func TestTTClearRemovesEntries(t *testing.T) {
	tt := NewTranspositionTable(1)
	tt.Store(0x1, board.Move{From: board.RankFile(0, 0), To: board.RankFile(1, 0), Amount: 1}, 10, 1, ttExact, 0)
	tt.Clear()
	_, _, _, _, ok := tt.Probe(0x1, 0)
	assert.False(t, ok)
}

func TestScoreToFromTTMateDistance(t *testing.T) {
	stored := scoreToTT(KnownWinScore+50, 3)
	assert.Equal(t, KnownWinScore+53, stored)

	restored := scoreFromTT(stored, 3)
	assert.Equal(t, KnownWinScore+50, restored)
}

func TestScoreToFromTTOrdinaryUnaffected(t *testing.T) {
	assert.Equal(t, int32(123), scoreToTT(123, 7))
	assert.Equal(t, int32(123), scoreFromTT(123, 7))
}

func TestUsableScoreRespectsBoundAndWindow(t *testing.T) {
	assert.True(t, UsableScore(ttExact, 5, 3, -100, 100, 42))
	assert.False(t, UsableScore(ttExact, 1, 3, -100, 100, 42))
	assert.True(t, UsableScore(ttLowerBound, 5, 3, -100, 100, 150))
	assert.False(t, UsableScore(ttLowerBound, 5, 3, -100, 100, 50))
	assert.True(t, UsableScore(ttUpperBound, 5, 3, -100, 100, -150))
	assert.False(t, UsableScore(ttUpperBound, 5, 3, -100, 100, -50))
}

func TestBoundForClassifiesWindow(t *testing.T) {
	assert.Equal(t, ttUpperBound, BoundFor(0, 100, -10))
	assert.Equal(t, ttLowerBound, BoundFor(0, 100, 150))
	assert.Equal(t, ttExact, BoundFor(0, 100, 50))
}
