package engine

import (
	"context"

	"github.com/gat-engine/gat/board"
)

// AlphaBetaQuiescence is plain alpha-beta with quiescence search at the
// leaves, resolving capture sequences before trusting the static
// evaluation (spec.md §4.9).
type AlphaBetaQuiescence struct{}

func (AlphaBetaQuiescence) Name() string { return "alpha-beta-quiescence" }

func (AlphaBetaQuiescence) Search(ctx context.Context, sc *SearchContext, pos *board.GameState, depth int32) (int32, board.Move, error) {
	return rootSearch(ctx, sc, pos, depth, false, true)
}
