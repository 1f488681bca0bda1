// movegen.go enumerates legal moves (spec.md §4.1). Guard moves: one
// orthogonal step, illegal onto a friendly piece. Tower moves: from a square
// of height h, for every amount in [1,h] and every orthogonal direction, the
// destination amount squares away is legal iff every intermediate square is
// empty, there is no edge wrap, and the destination is empty, a capturable
// enemy guard, a capturable enemy tower (height <= amount), or a friendly
// tower (stacking). Diagonals never arise because rays are walked one
// direction at a time (Open Question: horizontal/vertical axis legality).
package board

// rayWalk returns the squares encountered walking from sq in direction d,
// up to maxSteps, stopping (without including) the first step that would
// leave the board. This is exactly spec.md §9's resolution of the
// horizontal/vertical edge-wrap ambiguity: every step is generated along a
// single axis so wraps and diagonals cannot occur.
func rayWalk(sq Square, d Direction, maxSteps int) []Square {
	path := make([]Square, 0, maxSteps)
	cur := sq
	for i := 0; i < maxSteps; i++ {
		next := step(cur, d)
		if next == NoSquare {
			break
		}
		path = append(path, next)
		cur = next
	}
	return path
}

// GenerateMoves returns every legal move for the side to move in pos. Order
// is unspecified; callers (move ordering) sort.
func (g *GameState) GenerateMoves() []Move {
	return g.GenerateMovesFor(g.Us())
}

// GenerateMovesFor returns every legal move for us, regardless of whose turn
// it actually is. The evaluator and threat detector use this to generate
// both sides' moves from the same position (spec.md §4.3, §4.5).
func (g *GameState) GenerateMovesFor(us Color) []Move {
	moves := make([]Move, 0, 64)

	if guardSq := g.GuardSquare(us); guardSq != NoSquare {
		g.generateGuardMoves(us, guardSq, &moves)
	}
	for bb := g.Towers(us); bb != 0; {
		sq := bb.Pop()
		g.generateTowerMoves(us, sq, &moves)
	}
	return moves
}

func (g *GameState) generateGuardMoves(us Color, from Square, moves *[]Move) {
	for _, d := range directions {
		to := step(from, d)
		if to == NoSquare {
			continue
		}
		if color, _, ok := g.PieceAt(to); ok && color == us {
			continue // friendly piece blocks the guard
		}
		*moves = append(*moves, Move{From: from, To: to, Amount: 1})
	}
}

func (g *GameState) generateTowerMoves(us Color, from Square, moves *[]Move) {
	them := us.Opposite()
	height := g.Height(us, from)

	for _, d := range directions {
		path := rayWalk(from, d, height)
		for amount := 1; amount <= len(path); amount++ {
			to := path[amount-1]

			// Every square strictly between from and to must be empty.
			blocked := false
			for _, mid := range path[:amount-1] {
				if _, _, occ := g.PieceAt(mid); occ {
					blocked = true
					break
				}
			}
			if blocked {
				break // further amounts in this direction are blocked too
			}

			color, kind, occ := g.PieceAt(to)
			switch {
			case !occ:
				*moves = append(*moves, Move{From: from, To: to, Amount: uint8(amount)})
			case color == us && kind == Tower:
				*moves = append(*moves, Move{From: from, To: to, Amount: uint8(amount)})
			case color == them && kind == Guard:
				*moves = append(*moves, Move{From: from, To: to, Amount: uint8(amount)})
			case color == them && kind == Tower:
				if g.Height(them, to) <= amount {
					*moves = append(*moves, Move{From: from, To: to, Amount: uint8(amount)})
				}
				// An enemy tower taller than amount blocks further amounts
				// in this direction (it is not empty and not capturable).
				blocked = true
			case color == us && kind == Guard:
				blocked = true
			}
			if blocked {
				break
			}
		}
	}
}

// IsPseudoLegal reports whether m is a legal move for the side to move. It
// rejects malformed moves cheaply, then checks m against the full list from
// GenerateMoves.
func (g *GameState) IsPseudoLegal(m Move) bool {
	if m.IsNull() || !m.From.Valid() || !m.To.Valid() || m.From == m.To {
		return false
	}
	us := g.Us()
	color, kind, ok := g.PieceAt(m.From)
	if !ok || color != us {
		return false
	}
	if kind == Guard {
		if m.Amount != 1 {
			return false
		}
	} else if int(m.Amount) < 1 || int(m.Amount) > g.Height(us, m.From) {
		return false
	}
	for _, m2 := range g.GenerateMoves() {
		if m2 == m {
			return true
		}
	}
	return false
}
