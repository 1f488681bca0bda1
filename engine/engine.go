// engine.go is the search façade of spec.md §4.10, grounded on the
// teacher's Engine struct and NewEngine/Play: FindBestMove couples a time
// budget to an evaluator profile and search strategy (spec.md §9's
// time-management profile coupling), then drives iterative deepening and
// downgrades an unexpected internal error to the emergency-move fallback
// of spec.md §7 instead of propagating it.
package engine

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/gat-engine/gat/board"
)

// DefaultMaxDepth bounds iterative deepening when Options.MaxDepth is
// unset.
const DefaultMaxDepth int32 = 64

// Options configures an Engine, generalizing the teacher's
// Options{AnalyseMode bool}.
type Options struct {
	// AnalyseMode is carried for callers but not read by the engine:
	// FindBestMove reports every completed iteration through Logger
	// whether or not it is set.
	AnalyseMode bool
	// HashSizeMB sizes the transposition table. Zero uses DefaultTTSizeMB.
	HashSizeMB int
	// MaxDepth caps iterative deepening. Zero uses DefaultMaxDepth.
	MaxDepth int32
}

// Logger reports search progress, the same role as the teacher's Logger
// interface. cmd/gatengine supplies a zerolog-backed implementation; the
// core itself only depends on this interface.
type Logger interface {
	BeginSearch()
	EndSearch()
	Iteration(depth int32, score int32, nodes uint64, elapsed time.Duration, pv []board.Move)
}

// NopLogger discards everything, the default when no Logger is supplied.
type NopLogger struct{}

func (NopLogger) BeginSearch() {}
func (NopLogger) EndSearch()   {}
func (NopLogger) Iteration(int32, int32, uint64, time.Duration, []board.Move) {}

// Engine finds moves for Guards & Towers positions.
type Engine struct {
	Options Options
	Logger  Logger
	tt      *TranspositionTable
}

// NewEngine builds an Engine with its own transposition table. A nil
// logger is replaced with NopLogger.
func NewEngine(opts Options, logger Logger) *Engine {
	size := opts.HashSizeMB
	if size <= 0 {
		size = DefaultTTSizeMB
	}
	if logger == nil {
		logger = NopLogger{}
	}
	return &Engine{
		Options: opts,
		Logger:  logger,
		tt:      NewTranspositionTable(size),
	}
}

// strategyFor selects the search strategy spec.md §9 couples to each
// evaluator profile: cheaper strategies under tighter time pressure.
func strategyFor(profile Profile) Strategy {
	switch profile {
	case ProfileUltraFast:
		return AlphaBeta{}
	case ProfileQuick:
		return AlphaBetaQuiescence{}
	case ProfileBalanced:
		return PVS{}
	default:
		return PVSQuiescence{}
	}
}

// FindBestMove searches pos given the side to move's remaining clock,
// increment and estimated moves-to-go, returning the best move found and
// the depth/score it was found at.
func (e *Engine) FindBestMove(ctx context.Context, pos *board.GameState, remaining, increment time.Duration, movesToGo int) (SearchResult, error) {
	if err := pos.Validate(); err != nil {
		return SearchResult{}, errors.Wrap(ErrInvalidPosition, err.Error())
	}

	tm := NewTimeManager(remaining, increment, movesToGo)
	budget := tm.Allocate(pos)
	profile := ProfileForRemaining(budget)
	strategy := strategyFor(profile)

	maxDepth := e.Options.MaxDepth
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}

	qDepthCap := quiescenceDepthCap(budget)

	e.tt.NewSearch()
	sc := NewSearchContext(e.tt, profile, int(maxDepth)+int(qDepthCap)+1, qDepthCap)

	e.Logger.BeginSearch()
	defer e.Logger.EndSearch()

	result, err := IterativeDeepen(ctx, strategy, sc, pos, budget, maxDepth)
	if err != nil {
		return e.emergencyFallback(pos, err)
	}

	for _, it := range result.Iterations {
		e.Logger.Iteration(it.Depth, it.Score, it.Nodes, it.Elapsed, sc.PVLine)
	}

	if result.BestMove.IsNull() {
		if moves := pos.GenerateMoves(); len(moves) > 0 {
			result.BestMove = moves[0]
		}
	}
	return result, nil
}

// emergencyFallback implements spec.md §7's internal-invariant policy: an
// unexpected search error is never surfaced to the caller while a legal
// move still exists, it is downgraded to playing the first legal move.
func (e *Engine) emergencyFallback(pos *board.GameState, cause error) (SearchResult, error) {
	moves := pos.GenerateMoves()
	if len(moves) == 0 {
		return SearchResult{}, errors.Wrap(ErrInternalInvariant, cause.Error())
	}
	return SearchResult{BestMove: moves[0]}, nil
}
