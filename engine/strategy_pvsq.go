package engine

import (
	"context"

	"github.com/gat-engine/gat/board"
)

// PVSQuiescence combines principal-variation search with quiescence at the
// leaves: the full-strength strategy of spec.md §4.9, used whenever the
// time budget allows it.
type PVSQuiescence struct{}

func (PVSQuiescence) Name() string { return "pvs-quiescence" }

func (PVSQuiescence) Search(ctx context.Context, sc *SearchContext, pos *board.GameState, depth int32) (int32, board.Move, error) {
	return rootSearch(ctx, sc, pos, depth, true, true)
}
