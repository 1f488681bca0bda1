package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gat-engine/gat/board"
)

func TestDetectThreatsGuardCapture(t *testing.T) {
	pos := buildPosition(true,
		map[board.Square]int{board.RankFile(3, 3): 0},
		map[board.Square]int{board.RankFile(6, 3): 0, board.RankFile(3, 2): 1})
	// Red to move, facing a Blue tower that attacks its guard.

	threats := DetectThreats(&pos)
	var found bool
	for _, th := range threats {
		if th.Kind == ThreatGuardCapture {
			found = true
			assert.Equal(t, board.RankFile(3, 3), th.Target)
		}
	}
	assert.True(t, found, "expected a guard-capture threat")
}

func TestDetectThreatsCastleReach(t *testing.T) {
	// Blue's guard one step from Red's home square, with Red to move.
	home := board.HomeSquare(board.Red)
	next := board.RankFile(home.Rank()+1, home.File())
	pos := buildPosition(true,
		map[board.Square]int{home: 0},
		map[board.Square]int{board.RankFile(6, 3): 0})
	pos.RedGuard = home.Bitboard()
	pos.BlueGuard = next.Bitboard()

	threats := DetectThreats(&pos)
	var found bool
	for _, th := range threats {
		if th.Kind == ThreatCastleReach {
			found = true
		}
	}
	assert.True(t, found, "expected a castle-reach threat")
}

func TestDetectPinsOnExposedTower(t *testing.T) {
	// A Red tower sitting between Red's guard and a Blue attacker: removing
	// it exposes the guard to the Blue tower behind it.
	pos := buildPosition(true,
		map[board.Square]int{board.RankFile(3, 3): 0, board.RankFile(3, 4): 1},
		map[board.Square]int{board.RankFile(6, 3): 0, board.RankFile(3, 6): 3})
	require.False(t, pos.IsChecked(board.Red))

	threats := DetectThreats(&pos)
	var found bool
	for _, th := range threats {
		if th.Kind == ThreatPin && th.Target == board.RankFile(3, 4) {
			found = true
		}
	}
	assert.True(t, found, "expected the blocking tower to be reported as pinned")
}

func TestDefensiveMovesCapturesThreateningPiece(t *testing.T) {
	pos := buildPosition(true,
		map[board.Square]int{board.RankFile(3, 3): 0, board.RankFile(3, 1): 1},
		map[board.Square]int{board.RankFile(6, 3): 0, board.RankFile(3, 2): 1})
	threats := DetectThreats(&pos)
	require.NotEmpty(t, threats)

	defenses := DefensiveMoves(&pos, threats)
	var capturesThreat bool
	for _, m := range defenses {
		if m.To == board.RankFile(3, 2) {
			capturesThreat = true
		}
	}
	assert.True(t, capturesThreat, "expected a defensive move capturing the threatening tower")
}
