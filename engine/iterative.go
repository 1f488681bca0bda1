// iterative.go is the iterative-deepening driver of spec.md §4.12: it
// grows search depth one ply at a time, predicts whether the next depth
// can finish from the geometric mean of prior depths' time growth, and
// cancels cooperatively. Grounded on the teacher's Play depth loop, but
// the teacher polls a TimeControl.Stopped() flag synchronously inside
// searchTree; spec.md §5 instead asks for a worker goroutine and a
// deadline-watcher goroutine coordinated through
// golang.org/x/sync/errgroup, which this file adds around the same
// synchronous ctx.Err() checks already inside negamax/Quiescence.
package engine

import (
	"context"
	"errors"
	"math"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/gat-engine/gat/board"
)

// defaultBranchFactor seeds the cost predictor before any iteration has
// run, a conservative estimate of how much deeper search costs per ply.
const defaultBranchFactor = 4.0

// minBranchFactor and maxBranchFactor bound the geometric-mean ratio
// shouldStartDepth predicts from (spec.md §4.12 point 2): an early
// tactical collapse or an unusually cheap iteration must not be allowed
// to swing the prediction outside a believable range.
const (
	minBranchFactor = 0.5
	maxBranchFactor = 6.0
)

// nextDepthSafetyMargin inflates the predicted cost of the next depth
// before comparing it to the time remaining (spec.md §4.12 point 2):
// branching-factor growth is noisy, and starting a depth that then times
// out mid-search wastes the whole iteration.
const nextDepthSafetyMargin = 1.3

// nextDepthBudgetFraction is the share of remaining time the predicted
// next-depth cost is allowed to consume before iterative deepening stops
// rather than risk starting an iteration it cannot finish (spec.md §4.12
// point 2's "35-40% of remaining time").
const nextDepthBudgetFraction = 0.38

// IterationResult records one completed depth of iterative deepening.
type IterationResult struct {
	Depth   int32
	Score   int32
	Move    board.Move
	Nodes   uint64
	Elapsed time.Duration
}

// SearchResult is the outcome of a full iterative-deepening run.
type SearchResult struct {
	BestMove   board.Move
	Score      int32
	Depth      int32
	Iterations []IterationResult
}

// IterativeDeepen repeatedly calls strategy at depths 1, 2, 3, ... until
// budget elapses, maxDepth is reached, or the cost predictor concludes the
// next depth is unlikely to finish in time. It always returns the best
// result from the deepest iteration that completed, even if a later one
// was cancelled mid-flight.
func IterativeDeepen(ctx context.Context, strategy Strategy, sc *SearchContext, pos *board.GameState, budget time.Duration, maxDepth int32) (SearchResult, error) {
	deadline := time.Now().Add(budget)
	result := SearchResult{BestMove: board.NullMove}

	var ratios []float64
	var lastElapsed time.Duration

	for depth := int32(1); depth <= maxDepth; depth++ {
		remaining := time.Until(deadline)
		if remaining <= 0 {
			break
		}
		if !shouldStartDepth(lastElapsed, ratios, remaining) {
			break
		}

		score, move, elapsed, err := runIteration(ctx, strategy, sc, pos, depth, remaining)
		if err != nil {
			if errors.Is(err, ErrTimeout) {
				break
			}
			return result, err
		}

		if lastElapsed > 0 {
			ratios = append(ratios, float64(elapsed)/float64(lastElapsed))
		}
		lastElapsed = elapsed

		result.Depth = depth
		result.Score = score
		if !move.IsNull() {
			result.BestMove = move
		}
		result.Iterations = append(result.Iterations, IterationResult{
			Depth: depth, Score: score, Move: move, Nodes: sc.Nodes, Elapsed: elapsed,
		})
		sc.PVLine = extractPV(sc, pos, depth)
	}

	return result, nil
}

// runIteration runs one depth under its own worker/deadline-watcher pair:
// the worker performs the search; the watcher cancels the shared context
// once remaining elapses, whichever comes first.
func runIteration(ctx context.Context, strategy Strategy, sc *SearchContext, pos *board.GameState, depth int32, remaining time.Duration) (int32, board.Move, time.Duration, error) {
	iterCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, gctx := errgroup.WithContext(iterCtx)

	var score int32
	var move board.Move
	var elapsed time.Duration

	g.Go(func() error {
		start := time.Now()
		s, m, err := strategy.Search(gctx, sc, pos, depth)
		elapsed = time.Since(start)
		score, move = s, m
		return err
	})
	g.Go(func() error {
		timer := time.NewTimer(remaining)
		defer timer.Stop()
		select {
		case <-timer.C:
			cancel()
		case <-gctx.Done():
		}
		return nil
	})

	err := g.Wait()
	return score, move, elapsed, err
}

// shouldStartDepth predicts, from the geometric mean of prior depths' time
// growth ratios times a 1.3 safety margin, whether the next depth is
// likely to finish: it must cost no more than nextDepthBudgetFraction of
// remaining, not all of it (spec.md §4.12 point 2) -- committing to an
// iteration predicted to eat the whole remaining budget leaves nothing
// for the deadline-watcher goroutine to react to if the estimate is off.
func shouldStartDepth(lastElapsed time.Duration, ratios []float64, remaining time.Duration) bool {
	if lastElapsed == 0 {
		return true
	}
	predicted := time.Duration(float64(lastElapsed) * geometricMeanRatio(ratios) * nextDepthSafetyMargin)
	budget := time.Duration(float64(remaining) * nextDepthBudgetFraction)
	return predicted <= budget
}

func geometricMeanRatio(ratios []float64) float64 {
	if len(ratios) == 0 {
		return defaultBranchFactor
	}
	product := 1.0
	for _, r := range ratios {
		if r <= 0 {
			r = defaultBranchFactor
		}
		product *= r
	}
	return clampBranchFactor(math.Pow(product, 1.0/float64(len(ratios))))
}

func clampBranchFactor(r float64) float64 {
	switch {
	case r < minBranchFactor:
		return minBranchFactor
	case r > maxBranchFactor:
		return maxBranchFactor
	default:
		return r
	}
}

// extractPV walks the transposition table forward from pos following each
// node's best move, rebuilding the principal variation move ordering
// should prefer at the matching ply next iteration.
func extractPV(sc *SearchContext, pos *board.GameState, maxDepth int32) []board.Move {
	var line []board.Move
	work := pos.Copy()
	for ply := int32(0); ply < maxDepth; ply++ {
		move, _, _, _, ok := sc.TT.Probe(work.Hash, ply)
		if !ok || move.IsNull() {
			break
		}
		line = append(line, move)
		work.ApplyMove(move)
		if work.IsTerminal() {
			break
		}
	}
	return line
}
