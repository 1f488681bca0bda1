package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gat-engine/gat/board"
)

func TestOrderMovesPutsTTMoveFirst(t *testing.T) {
	pos := board.NewInitialPosition()
	moves := pos.GenerateMoves()
	require.NotEmpty(t, moves)
	ttMove := moves[len(moves)-1]

	ordered := OrderMoves(&pos, moves, ttMove, board.NullMove, NewKillerTable(8), NewHistoryTable(), 0)
	require.NotEmpty(t, ordered)
	assert.Equal(t, ttMove, ordered[0])
	assert.Len(t, ordered, len(moves))
}

func TestOrderMovesRanksDecisiveBeforeQuiets(t *testing.T) {
	pos := buildPosition(true,
		map[board.Square]int{board.RankFile(3, 3): 0, board.RankFile(1, 1): 1},
		map[board.Square]int{board.RankFile(3, 2): 0})
	decisiveMove := board.Move{From: board.RankFile(3, 3), To: board.RankFile(3, 2), Amount: 1}
	quietMove := board.Move{From: board.RankFile(1, 1), To: board.RankFile(2, 1), Amount: 1}

	moves := []board.Move{quietMove, decisiveMove}
	ordered := OrderMoves(&pos, moves, board.NullMove, board.NullMove, NewKillerTable(8), NewHistoryTable(), 0)

	require.Len(t, ordered, 2)
	assert.Equal(t, decisiveMove, ordered[0])
	assert.Equal(t, quietMove, ordered[1])
}

func TestOrderMovesRanksWinningCaptureBeforeLosing(t *testing.T) {
	// Two captures from the same mover's perspective: one undefended
	// (winning), and one that commits a whole height-2 stack to a height-1
	// tower defended by a second blue tower (losing: +100, then -200).
	pos := buildPosition(true,
		map[board.Square]int{board.RankFile(0, 3): 0, board.RankFile(2, 1): 1, board.RankFile(1, 5): 2},
		map[board.Square]int{board.RankFile(6, 3): 0, board.RankFile(3, 1): 1, board.RankFile(3, 5): 1, board.RankFile(4, 5): 1})

	winning := board.Move{From: board.RankFile(2, 1), To: board.RankFile(3, 1), Amount: 1}
	losing := board.Move{From: board.RankFile(1, 5), To: board.RankFile(3, 5), Amount: 2}

	require.True(t, isCapture(&pos, winning))
	require.True(t, isCapture(&pos, losing))
	require.GreaterOrEqual(t, SEE(&pos, winning), int32(0))
	require.Less(t, SEE(&pos, losing), int32(0))

	ordered := OrderMoves(&pos, []board.Move{losing, winning}, board.NullMove, board.NullMove, NewKillerTable(8), NewHistoryTable(), 0)
	require.Len(t, ordered, 2)
	assert.Equal(t, winning, ordered[0])
	assert.Equal(t, losing, ordered[1])
}

func TestOrderMovesPrefersHistoryScoredQuiet(t *testing.T) {
	pos := board.NewInitialPosition()
	moves := pos.GenerateMoves()
	require.GreaterOrEqual(t, len(moves), 2)

	history := NewHistoryTable()
	target := board.NullMove
	for i := len(moves) - 1; i >= 0; i-- {
		if !isCapture(&pos, moves[i]) {
			target = moves[i]
			break
		}
	}
	require.False(t, target.IsNull(), "need a quiet move to score")
	history.Update(pos.Us(), target, 4)

	ordered := OrderMoves(&pos, moves, board.NullMove, board.NullMove, NewKillerTable(8), history, 0)
	idx := indexOf(ordered, target)
	require.GreaterOrEqual(t, idx, 0)
	for _, m := range ordered[:idx] {
		assert.True(t, isCapture(&pos, m), "quiet move %v ordered ahead of the history-scored quiet", m)
	}
	for _, m := range ordered[idx+1:] {
		assert.Zero(t, history.Score(pos.Us(), m), "no move after the history-scored one should also carry history score")
	}
}

func indexOf(moves []board.Move, target board.Move) int {
	for i, m := range moves {
		if m == target {
			return i
		}
	}
	return -1
}

func TestHistoryTableUpdateAndClear(t *testing.T) {
	h := NewHistoryTable()
	m := board.Move{From: board.RankFile(1, 1), To: board.RankFile(2, 1), Amount: 1}
	h.Update(board.Red, m, 3)
	assert.Equal(t, int32(9), h.Score(board.Red, m))
	h.Clear()
	assert.Zero(t, h.Score(board.Red, m))
}

func TestKillerTableAddAndIsKiller(t *testing.T) {
	k := NewKillerTable(4)
	m1 := board.Move{From: board.RankFile(0, 0), To: board.RankFile(1, 0), Amount: 1}
	m2 := board.Move{From: board.RankFile(0, 1), To: board.RankFile(1, 1), Amount: 1}

	k.Add(2, m1)
	k.Add(2, m2)
	assert.True(t, k.IsKiller(2, m1))
	assert.True(t, k.IsKiller(2, m2))
	assert.False(t, k.IsKiller(2, board.Move{From: board.RankFile(5, 5), To: board.RankFile(4, 5), Amount: 1}))

	k.Clear()
	assert.False(t, k.IsKiller(2, m1))
}
