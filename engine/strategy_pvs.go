package engine

import (
	"context"

	"github.com/gat-engine/gat/board"
)

// PVS is principal-variation search without quiescence: every move after
// the first is probed with a null window and re-searched at full width
// only if it beats alpha (spec.md §4.9).
type PVS struct{}

func (PVS) Name() string { return "pvs" }

func (PVS) Search(ctx context.Context, sc *SearchContext, pos *board.GameState, depth int32) (int32, board.Move, error) {
	return rootSearch(ctx, sc, pos, depth, true, false)
}
