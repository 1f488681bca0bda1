// quiescence.go implements the capture-resolving search of spec.md §4.8:
// stand-pat, delta-pruned captures plus the few quiet tactical moves listed
// at quiescenceCandidates, an adaptive depth cap, and a shared
// transposition table. Grounded on the teacher's
// engine.go:searchQuiescence (stand-pat, isFutile's delta margin) and
// see.go's SEE for ordering and for skipping losing captures outright.
package engine

import (
	"context"
	"sort"
	"time"

	"github.com/gat-engine/gat/board"
)

// quiescenceDeltaMargin is the slack added to a capture's material value
// when deciding whether it could possibly raise the static score above
// alpha (spec.md §4.8).
const quiescenceDeltaMargin int32 = 200

// minQuiescenceDepth and maxQuiescenceDepth bound MAX_Q_DEPTH, the
// adaptive cap on how many plies quiescence will chase tactics before
// falling back to the static evaluation (spec.md §4.8 point 5): 8 under
// tight time pressure, growing to 17 with a generous budget.
const (
	minQuiescenceDepth int32 = 8
	maxQuiescenceDepth int32 = 17
)

// quiescenceDepthCap maps a move's thinking budget to MAX_Q_DEPTH
// (spec.md §4.8 point 5): a few extra plies of tactical chasing as the
// budget grows, the same coarse step shape timemanager.go's phaseFactor
// uses, clamped to [minQuiescenceDepth, maxQuiescenceDepth].
func quiescenceDepthCap(budget time.Duration) int32 {
	switch {
	case budget < 500*time.Millisecond:
		return minQuiescenceDepth
	case budget < time.Second:
		return 10
	case budget < 3*time.Second:
		return 12
	case budget < 8*time.Second:
		return 14
	case budget < 20*time.Second:
		return 16
	default:
		return maxQuiescenceDepth
	}
}

type qMove struct {
	move board.Move
	see  int32
}

// isGuardMove reports whether m moves the side-to-move's own guard.
func isGuardMove(pos *board.GameState, m board.Move) bool {
	_, kind, ok := pos.PieceAt(m.From)
	return ok && kind == board.Guard
}

// attacksEnemyGuard reports whether playing m leaves the opponent's guard
// under attack, the quiet-move counterpart to isDecisive's guard capture.
func attacksEnemyGuard(pos *board.GameState, m board.Move) bool {
	us := pos.Us()
	them := us.Opposite()
	child := pos.Copy()
	child.ApplyMove(m)
	guardBB := child.Guard(them)
	if guardBB == 0 {
		return false
	}
	return child.AttackersTo(guardBB.LSB(), us) != 0
}

// quiescenceCandidates selects the tactical moves quiescence expands:
// captures and decisive moves always qualify, quiet moves that newly
// attack the enemy guard qualify everywhere, and while in check every
// guard move qualifies too -- a quiet guard step off the checked square
// is frequently the only way out, and dropping it (spec.md §4.8 point 3)
// would leave Quiescence stuck returning alpha unchanged with stand-pat
// disabled.
func quiescenceCandidates(pos *board.GameState) []qMove {
	us := pos.Us()
	inCheck := pos.IsChecked(us)
	moves := pos.GenerateMovesFor(us)
	candidates := make([]qMove, 0, len(moves))
	for _, m := range moves {
		switch {
		case isCapture(pos, m), isDecisive(pos, m):
		case inCheck && isGuardMove(pos, m):
		case attacksEnemyGuard(pos, m):
		default:
			continue
		}
		candidates = append(candidates, qMove{move: m, see: SEE(pos, m)})
	}
	sort.SliceStable(candidates, func(i, j int) bool { return candidates[i].see > candidates[j].see })
	return candidates
}

func isDeltaFutile(static, victimValue, alpha int32) bool {
	return static+victimValue+quiescenceDeltaMargin < alpha
}

// Quiescence resolves captures from pos until the position is quiet, a
// decisive move has been played, or ply reaches maxDepth, and returns a
// score from pos.Us()'s perspective. maxDepth is an absolute ply carried
// unchanged through every recursive call: negamax passes its own ply plus
// MAX_Q_DEPTH (spec.md §4.8 point 5, SearchContext.QDepthCap, computed once
// per move by quiescenceDepthCap), so quiescence searches at most
// MAX_Q_DEPTH plies past the node that called it.
func Quiescence(ctx context.Context, pos *board.GameState, profile Profile, alpha, beta, ply, maxDepth int32, tt *TranspositionTable) (int32, error) {
	if err := ctx.Err(); err != nil {
		return 0, ErrTimeout
	}
	if outcome := pos.Outcome(); outcome != board.Ongoing {
		return int32(pos.Us().Multiplier()) * terminalScore(outcome, ply), nil
	}
	if ply >= maxDepth {
		return int32(pos.Us().Multiplier()) * Evaluate(pos, profile, ply), nil
	}

	if move, score, depth, bound, ok := tt.Probe(pos.Hash, ply); ok && UsableScore(bound, depth, 0, alpha, beta, score) {
		_ = move
		return score, nil
	}

	inCheck := pos.IsChecked(pos.Us())
	static := int32(pos.Us().Multiplier()) * Evaluate(pos, profile, ply)

	best := alpha
	if !inCheck {
		if static >= beta {
			return static, nil
		}
		if static > best {
			best = static
		}
	}

	var bestMove board.Move
	for _, cand := range quiescenceCandidates(pos) {
		// SEE/delta pruning only ever applies to captures: a quiet guard
		// escape or enemy-guard attack has no victim value to judge by and
		// must always be searched, in check or not.
		if !inCheck && isCapture(pos, cand.move) {
			if cand.see < 0 {
				continue
			}
			victimValue := pieceValueAt(pos, cand.move.To)
			if isDeltaFutile(static, victimValue, best) {
				continue
			}
		}

		child := pos.Copy()
		child.ApplyMove(cand.move)
		score, err := Quiescence(ctx, &child, profile, -beta, -best, ply+1, maxDepth, tt)
		if err != nil {
			return 0, err
		}
		score = -score

		if score >= beta {
			tt.Store(pos.Hash, cand.move, score, 0, ttLowerBound, ply)
			return score, nil
		}
		if score > best {
			best = score
			bestMove = cand.move
		}
	}

	bound := ttUpperBound
	if best > alpha {
		bound = ttExact
	}
	tt.Store(pos.Hash, bestMove, best, 0, bound, ply)
	return best, nil
}
