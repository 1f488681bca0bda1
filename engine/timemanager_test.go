package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gat-engine/gat/board"
)

func TestTimeManagerPanicThresholdReturnsMinThinkTime(t *testing.T) {
	pos := board.NewInitialPosition()
	tm := NewTimeManager(500*time.Millisecond, 0, 30)
	want := maxDuration(panicMinThink, tm.Remaining/panicDivisor)
	assert.Equal(t, want, tm.Allocate(&pos))
}

func TestTimeManagerNeverExceedsOneThirdRemaining(t *testing.T) {
	pos := board.NewInitialPosition()
	tm := NewTimeManager(20*time.Second, 0, 1)
	budget := tm.Allocate(&pos)
	assert.LessOrEqual(t, budget, tm.Remaining/budgetCeilDivisor)
}

func TestTimeManagerNeverBelowSpecFloor(t *testing.T) {
	pos := board.NewInitialPosition()
	tm := NewTimeManager(10*time.Second, 0, 1000)
	floor := maxDuration(absoluteFloorThink, tm.Remaining/budgetFloorDivisor)
	assert.GreaterOrEqual(t, tm.Allocate(&pos), floor)
}

func TestTimeManagerEmergencyShrinksBudget(t *testing.T) {
	pos := board.NewInitialPosition()
	normal := NewTimeManager(60*time.Second, 0, 30)
	emergency := NewTimeManager(3*time.Second, 0, 30)
	assert.Greater(t, normal.Allocate(&pos), emergency.Allocate(&pos))
}

func TestTimeManagerDefaultsMovesToGo(t *testing.T) {
	tm := NewTimeManager(30*time.Second, 0, 0)
	assert.Equal(t, defaultMovesToGo, tm.MovesToGo)
}

func TestPhaseFactorFavorsEndgamePrecision(t *testing.T) {
	// The initial position has 14 pieces (2 guards + 12 towers): more than
	// 10 but not more than 20, so it reads as the middlegame.
	full := board.NewInitialPosition()
	assert.Equal(t, middlegamePhaseFactor, phaseFactor(&full))

	// Two bare guards (2 pieces) is a sparse endgame, which gets the
	// largest phase multiplier: precision matters most with few pieces
	// left to calculate among.
	var sparse board.GameState
	sparse.RedGuard = board.RankFile(0, 3).Bitboard()
	sparse.BlueGuard = board.RankFile(6, 3).Bitboard()
	assert.Equal(t, endgamePhaseFactor, phaseFactor(&sparse))
}

func TestSituationalFactorRisesWhenChecked(t *testing.T) {
	pos := buildPosition(true,
		map[board.Square]int{board.RankFile(3, 3): 0},
		map[board.Square]int{board.RankFile(6, 3): 0, board.RankFile(3, 2): 1})
	pos.RedToMove = true
	require.True(t, pos.IsChecked(board.Red))
	// The guard has several escape squares and only one live threat, so
	// this lands in the "decision point" tier rather than "critical".
	assert.Equal(t, 1.8, situationalFactor(&pos))
}

func TestSituationalFactorCriticalWhenGuardNearlyTrapped(t *testing.T) {
	// Red's guard sits in the corner: South and West fall off the board,
	// East is a friendly tower that blocks it outright, leaving only
	// North -- straight into the attacking tower's square -- as an
	// escape.
	pos := buildPosition(true,
		map[board.Square]int{board.RankFile(0, 0): 0, board.RankFile(0, 1): 3},
		map[board.Square]int{board.RankFile(6, 6): 0, board.RankFile(1, 0): 1})
	require.True(t, pos.IsChecked(board.Red))
	require.LessOrEqual(t, pos.EscapeSquareCount(board.Red), 1)
	assert.Equal(t, 4.0, situationalFactor(&pos))
}
