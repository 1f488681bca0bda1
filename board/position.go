package board

import "github.com/pkg/errors"

// ErrInvalidPosition is returned when a decoded or constructed GameState
// violates one of the invariants in spec.md §3. It is raised at
// construction time only (spec.md §7's error-handling policy); once a
// GameState exists, search and move application never re-validate it.
var ErrInvalidPosition = errors.New("board: invalid position")

// GameState is the central position representation: bitboards of tower and
// guard occupancy per color, per-square tower stack heights, side to move
// and a cached Zobrist hash.
//
// Invariants (checked by Validate, not on every mutation):
//   - RedTowers, BlueTowers, RedGuard, BlueGuard are pairwise disjoint.
//   - popcount(RedGuard) <= 1, popcount(BlueGuard) <= 1.
//   - bit set in RedTowers iff RedHeights at that square is > 0 (same Blue).
//   - Hash == recomputeZobrist().
type GameState struct {
	RedTowers, BlueTowers Bitboard
	RedGuard, BlueGuard   Bitboard
	RedHeights            [NumSquares]int8
	BlueHeights           [NumSquares]int8
	RedToMove             bool
	Hash                  uint64
}

// Towers returns the tower occupancy bitboard for c.
func (g *GameState) Towers(c Color) Bitboard {
	if c == Red {
		return g.RedTowers
	}
	return g.BlueTowers
}

// Guard returns the guard bitboard (popcount 0 or 1) for c.
func (g *GameState) Guard(c Color) Bitboard {
	if c == Red {
		return g.RedGuard
	}
	return g.BlueGuard
}

// GuardSquare returns the square of c's guard, or NoSquare if it has been
// captured.
func (g *GameState) GuardSquare(c Color) Square {
	return g.Guard(c).LSB()
}

// Height returns the tower height of c at sq (0 if c has no tower there).
func (g *GameState) Height(c Color, sq Square) int {
	if c == Red {
		return int(g.RedHeights[sq])
	}
	return int(g.BlueHeights[sq])
}

func (g *GameState) setHeight(c Color, sq Square, h int) {
	if c == Red {
		g.RedHeights[sq] = int8(h)
	} else {
		g.BlueHeights[sq] = int8(h)
	}
}

func (g *GameState) setTowerBit(c Color, sq Square, present bool) {
	mask := sq.Bitboard()
	if c == Red {
		if present {
			g.RedTowers |= mask
		} else {
			g.RedTowers &^= mask
		}
	} else {
		if present {
			g.BlueTowers |= mask
		} else {
			g.BlueTowers &^= mask
		}
	}
}

// Us returns the side to move.
func (g *GameState) Us() Color {
	if g.RedToMove {
		return Red
	}
	return Blue
}

// Them returns the side not to move.
func (g *GameState) Them() Color {
	return g.Us().Opposite()
}

// Occupied returns the mask of every occupied square.
func (g *GameState) Occupied() Bitboard {
	return g.RedTowers | g.BlueTowers | g.RedGuard | g.BlueGuard
}

// PieceAt reports the color and kind of the piece on sq, if any.
func (g *GameState) PieceAt(sq Square) (Color, PieceKind, bool) {
	mask := sq.Bitboard()
	switch {
	case g.RedGuard&mask != 0:
		return Red, Guard, true
	case g.BlueGuard&mask != 0:
		return Blue, Guard, true
	case g.RedTowers&mask != 0:
		return Red, Tower, true
	case g.BlueTowers&mask != 0:
		return Blue, Tower, true
	default:
		return 0, NoKind, false
	}
}

// Copy returns a structurally independent clone of g. GameState has no
// pointers or slices so the struct copy itself is the clone; this is O(1)
// at the machine level (one memmove of a fixed-size value) and never
// allocates beyond the returned value, satisfying spec.md §4.2.
func (g *GameState) Copy() GameState {
	return *g
}

// NewInitialPosition returns a conventional starting layout: each guard on
// its home square, with height-1 towers filling the rest of its home rank.
// spec.md treats the starting layout as supplied externally (via the FEN-like
// decoder) and does not mandate one; this is the CORE's own convenience
// default for tests and the demo runner, not an opening-book position.
func NewInitialPosition() GameState {
	var g GameState
	g.RedToMove = true
	g.RedGuard = HomeSquare(Red).Bitboard()
	g.BlueGuard = HomeSquare(Blue).Bitboard()
	for f := 0; f < BoardSize; f++ {
		redSq := RankFile(0, f)
		if redSq != HomeSquare(Red) {
			g.setTowerBit(Red, redSq, true)
			g.setHeight(Red, redSq, 1)
		}
		blueSq := RankFile(BoardSize-1, f)
		if blueSq != HomeSquare(Blue) {
			g.setTowerBit(Blue, blueSq, true)
			g.setHeight(Blue, blueSq, 1)
		}
	}
	g.Hash = g.recomputeZobrist()
	return g
}

// Validate checks the invariants of spec.md §3 and returns ErrInvalidPosition
// (wrapped with the violated invariant) if any fails.
func (g *GameState) Validate() error {
	if g.RedGuard.Popcnt() > 1 || g.BlueGuard.Popcnt() > 1 {
		return errors.Wrap(ErrInvalidPosition, "more than one guard for a color")
	}
	overlap := (g.RedTowers & g.BlueTowers) | (g.RedTowers & g.RedGuard) |
		(g.RedTowers & g.BlueGuard) | (g.BlueTowers & g.RedGuard) |
		(g.BlueTowers & g.BlueGuard) | (g.RedGuard & g.BlueGuard)
	if overlap != 0 {
		return errors.Wrap(ErrInvalidPosition, "piece masks are not pairwise disjoint")
	}
	for sq := Square(0); int(sq) < NumSquares; sq++ {
		if g.RedTowers.Has(sq) != (g.RedHeights[sq] > 0) {
			return errors.Wrap(ErrInvalidPosition, "red tower bit/height mismatch")
		}
		if g.BlueTowers.Has(sq) != (g.BlueHeights[sq] > 0) {
			return errors.Wrap(ErrInvalidPosition, "blue tower bit/height mismatch")
		}
	}
	if g.Hash != g.recomputeZobrist() {
		return errors.Wrap(ErrInvalidPosition, "zobrist hash does not match position")
	}
	return nil
}

// ApplyMove mutates g in place to reflect playing m, which must be legal
// from g (see movegen.go). The mover's `from` square loses Amount in height
// (or the guard bit, for a guard move); the destination gains it, after any
// capture at the destination is resolved. Side to move toggles. The Zobrist
// hash is updated incrementally so it always equals recomputeZobrist().
func (g *GameState) ApplyMove(m Move) {
	us := g.Us()
	them := g.Them()

	fromColor, fromKind, _ := g.PieceAt(m.From)
	_ = fromColor

	// Resolve any capture at the destination first.
	if dstColor, dstKind, ok := g.PieceAt(m.To); ok && dstColor == them {
		switch dstKind {
		case Guard:
			if them == Red {
				g.Hash ^= guardKey(Red, m.To)
				g.RedGuard = 0
			} else {
				g.Hash ^= guardKey(Blue, m.To)
				g.BlueGuard = 0
			}
		case Tower:
			h := g.Height(them, m.To)
			g.Hash ^= towerKey(them, m.To, h)
			g.setTowerBit(them, m.To, false)
			g.setHeight(them, m.To, 0)
		}
	}

	if fromKind == Guard {
		g.Hash ^= guardKey(us, m.From)
		g.Hash ^= guardKey(us, m.To)
		if us == Red {
			g.RedGuard = m.To.Bitboard()
		} else {
			g.BlueGuard = m.To.Bitboard()
		}
	} else {
		fromHeight := g.Height(us, m.From)
		newFromHeight := fromHeight - int(m.Amount)

		g.Hash ^= towerKey(us, m.From, fromHeight)
		if newFromHeight > 0 {
			g.Hash ^= towerKey(us, m.From, newFromHeight)
			g.setHeight(us, m.From, newFromHeight)
		} else {
			g.setHeight(us, m.From, 0)
			g.setTowerBit(us, m.From, false)
		}

		destHeight := 0
		if dstColor, dstKind, ok := g.PieceAt(m.To); ok && dstColor == us && dstKind == Tower {
			// Stacking onto a friendly tower: heights add.
			destHeight = g.Height(us, m.To)
			g.Hash ^= towerKey(us, m.To, destHeight)
		}
		newDestHeight := destHeight + int(m.Amount)
		g.Hash ^= towerKey(us, m.To, newDestHeight)
		g.setHeight(us, m.To, newDestHeight)
		g.setTowerBit(us, m.To, true)
	}

	g.Hash ^= sideToMoveKey(Red)
	g.Hash ^= sideToMoveKey(Blue)
	g.RedToMove = !g.RedToMove
}

// RecomputeHash sets Hash from the other fields, the way NewInitialPosition
// seeds it. External constructors such as notation.DecodePosition call this
// once after placing pieces directly, since they have no incremental move
// to derive the hash from.
func (g *GameState) RecomputeHash() {
	g.Hash = g.recomputeZobrist()
}

// ApplyNullMove toggles side to move without moving a piece, used by
// search's null-move pruning (spec.md §4.9). The Zobrist hash is updated to
// match, so a null-moved GameState still satisfies Validate's hash
// invariant.
func (g *GameState) ApplyNullMove() {
	g.Hash ^= sideToMoveKey(Red)
	g.Hash ^= sideToMoveKey(Blue)
	g.RedToMove = !g.RedToMove
}
