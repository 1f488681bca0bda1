// ordering.go implements the seven-tier move ordering of spec.md §4.7:
// the transposition-table move, then decisive (guard-capture or
// home-reaching) moves, then captures with non-negative static exchange
// value, then the principal-variation move, then killers, then
// history-scored quiets, then the remaining quiets, and last the captures
// with negative static exchange value. It is grounded on the
// teacher's move_ordering.go (MVV-LVA-ish capture scoring, killer table,
// history table) but replaces its lazy per-ply generator state machine
// with an eager bucket-and-sort pass: spec.md never asks for lazy
// generation, and every move in this game is already cheap to enumerate.
package engine

import (
	"sort"

	"github.com/gat-engine/gat/board"
)

// HistoryTable scores quiet moves by how often they have caused a
// beta cutoff, weighted by the depth at which they did so (spec.md §4.7).
type HistoryTable struct {
	scores [2][board.NumSquares][board.NumSquares]int32
}

// NewHistoryTable returns an empty history table.
func NewHistoryTable() *HistoryTable {
	return &HistoryTable{}
}

// Score returns c's accumulated history score for m.
func (h *HistoryTable) Score(c board.Color, m board.Move) int32 {
	return h.scores[c][m.From][m.To]
}

// Update rewards m with depth^2, the teacher's history bonus shape.
func (h *HistoryTable) Update(c board.Color, m board.Move, depth int) {
	h.scores[c][m.From][m.To] += int32(depth * depth)
}

// Clear resets every score to zero.
func (h *HistoryTable) Clear() {
	*h = HistoryTable{}
}

// KillerTable remembers the two most recent quiet moves that caused a beta
// cutoff at each ply, indexed by ply depth from the root.
type KillerTable struct {
	killers [][2]board.Move
}

// NewKillerTable allocates slots for maxPly plies.
func NewKillerTable(maxPly int) *KillerTable {
	return &KillerTable{killers: make([][2]board.Move, maxPly)}
}

// Add records m as a killer at ply, bumping the previous first killer down
// to second.
func (k *KillerTable) Add(ply int, m board.Move) {
	if ply < 0 || ply >= len(k.killers) || m == k.killers[ply][0] {
		return
	}
	k.killers[ply][1] = k.killers[ply][0]
	k.killers[ply][0] = m
}

// IsKiller reports whether m is one of ply's two killer moves.
func (k *KillerTable) IsKiller(ply int, m board.Move) bool {
	if ply < 0 || ply >= len(k.killers) {
		return false
	}
	return m == k.killers[ply][0] || m == k.killers[ply][1]
}

// Clear resets every ply's killers.
func (k *KillerTable) Clear() {
	for i := range k.killers {
		k.killers[i] = [2]board.Move{}
	}
}

// isCapture reports whether m lands on an occupied square.
func isCapture(pos *board.GameState, m board.Move) bool {
	_, _, occupied := pos.PieceAt(m.To)
	return occupied
}

// isDecisive reports whether m captures the enemy guard or lands the
// mover's own guard on the enemy home square -- either ends the game.
func isDecisive(pos *board.GameState, m board.Move) bool {
	us := pos.Us()
	if dstColor, dstKind, occupied := pos.PieceAt(m.To); occupied && dstColor != us && dstKind == board.Guard {
		return true
	}
	if _, kind, ok := pos.PieceAt(m.From); ok && kind == board.Guard && m.To == board.EnemyHomeSquare(us) {
		return true
	}
	return false
}

type scoredMove struct {
	move  board.Move
	score int32
}

func sortByScoreDesc(ms []scoredMove) {
	sort.SliceStable(ms, func(i, j int) bool { return ms[i].score > ms[j].score })
}

// OrderMoves sorts moves into the seven tiers of spec.md §4.7 and returns
// them concatenated in search order. ttMove and pvMove may be board.NullMove
// if unknown.
func OrderMoves(pos *board.GameState, moves []board.Move, ttMove, pvMove board.Move, killers *KillerTable, history *HistoryTable, ply int) []board.Move {
	us := pos.Us()
	out := make([]board.Move, 0, len(moves))

	var decisive, pvTier, killerTier []board.Move
	var captures, quiets []scoredMove

	for _, m := range moves {
		switch {
		case !ttMove.IsNull() && m == ttMove:
			continue // emitted first, below
		case isDecisive(pos, m):
			decisive = append(decisive, m)
		case isCapture(pos, m):
			captures = append(captures, scoredMove{m, SEE(pos, m)})
		case !pvMove.IsNull() && m == pvMove:
			pvTier = append(pvTier, m)
		case killers.IsKiller(ply, m):
			killerTier = append(killerTier, m)
		default:
			quiets = append(quiets, scoredMove{m, history.Score(us, m)})
		}
	}

	sortByScoreDesc(captures)
	sortByScoreDesc(quiets)

	if !ttMove.IsNull() {
		out = append(out, ttMove)
	}
	out = append(out, decisive...)
	winning, losing := splitBySign(captures)
	out = appendMoves(out, winning)
	out = append(out, pvTier...)
	out = append(out, killerTier...)
	withHistory, positional := splitByScore(quiets)
	out = appendMoves(out, withHistory)
	out = appendMoves(out, positional)
	out = appendMoves(out, losing)
	return out
}

func splitBySign(ms []scoredMove) (winning, losing []scoredMove) {
	for _, sm := range ms {
		if sm.score >= 0 {
			winning = append(winning, sm)
		} else {
			losing = append(losing, sm)
		}
	}
	return winning, losing
}

func splitByScore(ms []scoredMove) (scored, zero []scoredMove) {
	for _, sm := range ms {
		if sm.score > 0 {
			scored = append(scored, sm)
		} else {
			zero = append(zero, sm)
		}
	}
	return scored, zero
}

func appendMoves(out []board.Move, scored []scoredMove) []board.Move {
	for _, sm := range scored {
		out = append(out, sm.move)
	}
	return out
}
