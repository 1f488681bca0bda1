// search_shared.go holds the negamax core every spec.md §4.9 strategy
// variant dispatches into: null-move pruning, futility pruning, late-move
// reduction, check extension and the transposition table. Grounded on the
// teacher's engine.go:searchTree/tryMove; spec.md §9 asks for the four
// strategies to share helpers rather than duplicate this logic, so the PVS
// and quiescence toggles below are parameters instead of four separate
// tree-walkers.
package engine

import (
	"context"

	"github.com/gat-engine/gat/board"
)

// Search tuning constants (spec.md §4.9), in the shape of the teacher's own
// named depth-limit/margin constants.
const (
	nullMoveDepthLimit        int32 = 2
	nullMoveReductionBase     int32 = 2
	nullMoveReductionDeep     int32 = 3
	nullMoveReductionDeeper   int32 = 4
	nullMoveDeepDepth         int32 = 4
	nullMoveDeeperDepth       int32 = 7
	nullMoveVerifyDepth       int32 = 6
	nullMoveVerifyMargin      int32 = 300
	futilityDepthLimit        int32 = 3
	futilityMargin            int32 = 150
	reverseFutilityDepthLimit int32 = 3
	reverseFutilityMargin     int32 = 120
	endgamePieceThreshold           = 10
	lmrDepthLimit             int32 = 2
	lmrMoveThreshold          int   = 3
	checkExtension            int32 = 1
)

// nullMoveReductionFor grows the null-move reduction with depth (spec.md
// §4.9): the deeper the remaining search, the more aggressively a
// null-move cutoff can skip ahead without risking a missed tactic.
func nullMoveReductionFor(depth int32) int32 {
	switch {
	case depth >= nullMoveDeeperDepth:
		return nullMoveReductionDeeper
	case depth >= nullMoveDeepDepth:
		return nullMoveReductionDeep
	default:
		return nullMoveReductionBase
	}
}

// isEndgame reports whether pos is sparse enough that null-move pruning's
// zugzwang assumption (a free pass never helps) stops holding (spec.md
// §4.9), the same piece-count boundary timemanager.go's phaseFactor uses
// for its own endgame tier.
func isEndgame(pos *board.GameState) bool {
	return pos.Occupied().Popcnt() <= endgamePieceThreshold
}

// SearchContext carries everything a search tree shares across nodes and
// across iterative-deepening iterations: the transposition table, the
// killer and history move-ordering tables, the evaluator profile in use,
// the previous iteration's principal variation (consulted by move
// ordering), and node-count bookkeeping (spec.md §3, §4.9).
type SearchContext struct {
	TT       *TranspositionTable
	Killers  *KillerTable
	History  *HistoryTable
	Profile  Profile
	PVLine   []board.Move
	Nodes    uint64
	SelDepth int32
	// QDepthCap is this move's MAX_Q_DEPTH (spec.md §4.8 point 5), set once
	// by FindBestMove from the time budget and read by every quiescence
	// call a search tree makes during this move.
	QDepthCap int32
}

// NewSearchContext builds a context with fresh killer/history tables over
// tt, ready for one root search call. qDepthCap is this move's MAX_Q_DEPTH.
func NewSearchContext(tt *TranspositionTable, profile Profile, maxPly int, qDepthCap int32) *SearchContext {
	return &SearchContext{
		TT:        tt,
		Killers:   NewKillerTable(maxPly),
		History:   NewHistoryTable(),
		Profile:   profile,
		QDepthCap: qDepthCap,
	}
}

// PVMove returns the previous iteration's move at ply, or board.NullMove if
// none is recorded there.
func (sc *SearchContext) PVMove(ply int32) board.Move {
	if ply >= 0 && int(ply) < len(sc.PVLine) {
		return sc.PVLine[ply]
	}
	return board.NullMove
}

// hasNonGuardMaterial reports whether c has at least one tower, the guard
// against null-move pruning in a bare-guard endgame where zugzwang is
// common (spec.md §4.9, mirroring the teacher's MinorsAndMajors check).
func hasNonGuardMaterial(pos *board.GameState, c board.Color) bool {
	return pos.Towers(c) != 0
}

// negamax searches pos to depth plies from ply, returning a score relative
// to pos.Us(). usePVS enables principal-variation search's null-window
// re-search; useQuiescence sends leaf nodes into Quiescence instead of a
// flat static evaluation. Every spec.md §4.9 strategy is this function
// called with a fixed pair of those two flags.
func negamax(ctx context.Context, sc *SearchContext, pos *board.GameState, depth, ply, alpha, beta int32, usePVS, useQuiescence bool) (int32, error) {
	if err := ctx.Err(); err != nil {
		return 0, ErrTimeout
	}
	sc.Nodes++

	pvNode := beta-alpha > 1
	if pvNode && ply > sc.SelDepth {
		sc.SelDepth = ply
	}

	if outcome := pos.Outcome(); outcome != board.Ongoing {
		return int32(pos.Us().Multiplier()) * terminalScore(outcome, ply), nil
	}

	// Mate distance pruning: no line through this node can matter if even
	// the fastest possible mate here would not beat alpha.
	if CastleReach-ply <= alpha {
		return alpha, nil
	}

	ttMove := board.NullMove
	if move, score, ttDepth, bound, ok := sc.TT.Probe(pos.Hash, ply); ok {
		ttMove = move
		if UsableScore(bound, ttDepth, int(depth), alpha, beta, score) {
			return score, nil
		}
	}

	if depth <= 0 {
		if useQuiescence {
			return Quiescence(ctx, pos, sc.Profile, alpha, beta, ply, ply+sc.QDepthCap, sc.TT)
		}
		return int32(pos.Us().Multiplier()) * Evaluate(pos, sc.Profile, ply), nil
	}

	us := pos.Us()
	inCheck := pos.IsChecked(us)
	endgame := isEndgame(pos)

	if depth > nullMoveDepthLimit && !inCheck && !endgame && hasNonGuardMaterial(pos, us) &&
		KnownLossScore < alpha && beta < KnownWinScore {
		R := nullMoveReductionFor(depth)
		child := pos.Copy()
		child.ApplyNullMove()
		score, err := negamax(ctx, sc, &child, depth-1-R, ply+1, -beta, -beta+1, usePVS, useQuiescence)
		if err != nil {
			return 0, err
		}
		score = -score
		if score >= beta {
			// A deep, comfortably-above-beta cutoff can still be a zugzwang
			// mirage: re-search the real position (no null move) at the same
			// reduced depth before trusting it (spec.md §4.9).
			if depth >= nullMoveVerifyDepth && score-beta > nullMoveVerifyMargin {
				verify, err := negamax(ctx, sc, pos, depth-1-R, ply, alpha, beta, usePVS, useQuiescence)
				if err != nil {
					return 0, err
				}
				if verify >= beta {
					return verify, nil
				}
			} else {
				return score, nil
			}
		}
	}

	allowPruning := depth <= futilityDepthLimit && !inCheck && !pvNode &&
		KnownLossScore < alpha && beta < KnownWinScore
	var static int32
	if allowPruning {
		static = int32(us.Multiplier()) * Evaluate(pos, sc.Profile, ply)
	}

	if depth <= reverseFutilityDepthLimit && !inCheck && !pvNode && !endgame &&
		KnownLossScore < alpha && beta < KnownWinScore {
		reverseStatic := static
		if !allowPruning {
			reverseStatic = int32(us.Multiplier()) * Evaluate(pos, sc.Profile, ply)
		}
		if reverseStatic-reverseFutilityMargin*depth >= beta {
			return reverseStatic, nil
		}
	}

	moves := pos.GenerateMovesFor(us)
	if len(moves) == 0 {
		// No legal reply. Unlike chess there is no stalemate draw in this
		// game (spec.md §8): running out of moves loses.
		return -(CastleReach - ply), nil
	}
	ordered := OrderMoves(pos, moves, ttMove, sc.PVMove(ply), sc.Killers, sc.History, int(ply))

	bestMove := board.NullMove
	bestScore := -InfinityScore
	localAlpha := alpha

	for i, m := range ordered {
		critical := m == ttMove || sc.Killers.IsKiller(int(ply), m)
		capture := isCapture(pos, m)

		child := pos.Copy()
		child.ApplyMove(m)
		givesCheck := child.IsChecked(child.Us())

		newDepth := depth - 1
		if givesCheck {
			newDepth += checkExtension
		}

		if allowPruning && !givesCheck && !critical && !capture && static+futilityMargin*depth < localAlpha {
			if static > bestScore {
				bestScore = static
			}
			continue
		}

		reduction := int32(0)
		if depth > lmrDepthLimit && !inCheck && !givesCheck && !critical && i >= lmrMoveThreshold &&
			(!capture || SEE(pos, m) < 0) {
			reduction = 1 + min32(depth, int32(i))/5
		}

		score, err := searchMove(ctx, sc, &child, newDepth, reduction, ply, localAlpha, beta, usePVS, useQuiescence, i > 0)
		if err != nil {
			return 0, err
		}

		if score > bestScore {
			bestScore = score
			bestMove = m
		}
		if score > localAlpha {
			localAlpha = score
		}
		if localAlpha >= beta {
			if !capture {
				sc.Killers.Add(int(ply), m)
				sc.History.Update(us, m, int(depth))
			}
			break
		}
	}

	bound := BoundFor(alpha, beta, bestScore)
	sc.TT.Store(pos.Hash, bestMove, bestScore, int(depth), bound, ply)
	return bestScore, nil
}

// Strategy is one of spec.md §4.9's four search variants: plain alpha-beta,
// alpha-beta with quiescence, principal-variation search, and
// PVS-with-quiescence.
type Strategy interface {
	Name() string
	Search(ctx context.Context, sc *SearchContext, pos *board.GameState, depth int32) (score int32, best board.Move, err error)
}

// rootSearch runs negamax from the root and recovers the best move from
// the transposition table entry the search just stored there.
func rootSearch(ctx context.Context, sc *SearchContext, pos *board.GameState, depth int32, usePVS, useQuiescence bool) (int32, board.Move, error) {
	score, err := negamax(ctx, sc, pos, depth, 0, -InfinityScore, InfinityScore, usePVS, useQuiescence)
	if err != nil {
		return 0, board.NullMove, err
	}
	move, _, _, _, ok := sc.TT.Probe(pos.Hash, 0)
	if !ok {
		move = board.NullMove
	}
	return score, move, nil
}

// searchMove resolves one child node, applying late-move reduction and,
// when usePVS is set and this is not the first move searched, a
// null-window probe re-searched at full width only if it beats alpha.
func searchMove(ctx context.Context, sc *SearchContext, child *board.GameState, newDepth, reduction, ply, alpha, beta int32, usePVS, useQuiescence, notFirst bool) (int32, error) {
	if usePVS && notFirst {
		score, err := negamax(ctx, sc, child, newDepth-reduction, ply+1, -alpha-1, -alpha, usePVS, useQuiescence)
		if err != nil {
			return 0, err
		}
		score = -score
		if score > alpha && score < beta {
			score, err = negamax(ctx, sc, child, newDepth, ply+1, -beta, -alpha, usePVS, useQuiescence)
			if err != nil {
				return 0, err
			}
			score = -score
		}
		return score, nil
	}

	score, err := negamax(ctx, sc, child, newDepth-reduction, ply+1, -beta, -alpha, usePVS, useQuiescence)
	if err != nil {
		return 0, err
	}
	score = -score
	if reduction > 0 && score > alpha {
		score, err = negamax(ctx, sc, child, newDepth, ply+1, -beta, -alpha, usePVS, useQuiescence)
		if err != nil {
			return 0, err
		}
		score = -score
	}
	return score, nil
}
