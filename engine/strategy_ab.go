package engine

import (
	"context"

	"github.com/gat-engine/gat/board"
)

// AlphaBeta is spec.md §4.9's plainest strategy: negamax with alpha-beta
// pruning, no principal-variation re-search, and leaves scored by a flat
// static evaluation rather than quiescence. Used under the tightest time
// pressure, alongside ProfileUltraFast.
type AlphaBeta struct{}

func (AlphaBeta) Name() string { return "alpha-beta" }

func (AlphaBeta) Search(ctx context.Context, sc *SearchContext, pos *board.GameState, depth int32) (int32, board.Move, error) {
	return rootSearch(ctx, sc, pos, depth, false, false)
}
