// see.go implements static exchange evaluation: the material balance of
// every legal recapture on a single square, played out to the end
// (spec.md §4.4). The scratch GameState it mutates never leaves this file;
// its Zobrist hash is never kept in sync, since nothing reads it.
package engine

import "github.com/gat-engine/gat/board"

// pieceValueAt returns the SEE material value of whatever sits on sq, zero
// if the square is empty.
func pieceValueAt(pos *board.GameState, sq board.Square) int32 {
	color, kind, ok := pos.PieceAt(sq)
	if !ok {
		return 0
	}
	if kind == board.Guard {
		return GuardValue
	}
	return int32(pos.Height(color, sq)) * TowerBaseValue
}

// removePiece clears whatever occupies sq in a scratch position. It is only
// ever called on a disposable GameState copy local to SEE or threat
// detection.
func removePiece(pos *board.GameState, sq board.Square) {
	mask := sq.Bitboard()
	switch {
	case pos.RedGuard&mask != 0:
		pos.RedGuard = 0
	case pos.BlueGuard&mask != 0:
		pos.BlueGuard = 0
	case pos.RedTowers&mask != 0:
		pos.RedTowers &^= mask
		pos.RedHeights[sq] = 0
	case pos.BlueTowers&mask != 0:
		pos.BlueTowers &^= mask
		pos.BlueHeights[sq] = 0
	}
}

// vacateOrigin applies the effect a move with the given amount has on its
// own origin square, mirroring board.ApplyMove (position.go): a guard
// vacates entirely (it always moves as a whole), a tower keeps height-amount
// when that is positive and is only cleared once the move empties it.
func vacateOrigin(pos *board.GameState, sq board.Square, amount uint8) {
	mask := sq.Bitboard()
	switch {
	case pos.RedGuard&mask != 0:
		pos.RedGuard = 0
	case pos.BlueGuard&mask != 0:
		pos.BlueGuard = 0
	case pos.RedTowers&mask != 0:
		remaining := int(pos.RedHeights[sq]) - int(amount)
		if remaining > 0 {
			pos.RedHeights[sq] = int8(remaining)
		} else {
			pos.RedTowers &^= mask
			pos.RedHeights[sq] = 0
		}
	case pos.BlueTowers&mask != 0:
		remaining := int(pos.BlueHeights[sq]) - int(amount)
		if remaining > 0 {
			pos.BlueHeights[sq] = int8(remaining)
		} else {
			pos.BlueTowers &^= mask
			pos.BlueHeights[sq] = 0
		}
	}
}

// movedValue is the material value that actually lands on the target square
// when the piece at sq moves there with the given amount: a guard moves as a
// whole, but a tower only transfers amount height, leaving the rest (if any)
// behind at sq (board/position.go's ApplyMove) -- so amount*TowerBaseValue,
// not the mover's full stack value, is what is at risk of recapture.
func movedValue(pos *board.GameState, sq board.Square, amount uint8) int32 {
	_, kind, ok := pos.PieceAt(sq)
	if !ok {
		return 0
	}
	if kind == board.Guard {
		return GuardValue
	}
	return int32(amount) * TowerBaseValue
}

// recaptureAmount is the amount a simulated recapture from sq to target
// necessarily uses: 1 for a guard (it always moves one square), otherwise
// the straight-line distance -- movegen only ever reaches target with amount
// equal to that distance, since rayWalk generates one destination per step.
func recaptureAmount(pos *board.GameState, sq, target board.Square) uint8 {
	if _, kind, ok := pos.PieceAt(sq); ok && kind == board.Guard {
		return 1
	}
	dr := sq.Rank() - target.Rank()
	if dr < 0 {
		dr = -dr
	}
	df := sq.File() - target.File()
	if df < 0 {
		df = -df
	}
	if dr != 0 {
		return uint8(dr)
	}
	return uint8(df)
}

// leastValuableAttacker picks the cheapest of side's pieces in attackers:
// the shortest tower first, the guard only once no tower can make the
// recapture.
func leastValuableAttacker(pos *board.GameState, attackers board.Bitboard, side board.Color) (board.Square, bool) {
	best := board.NoSquare
	bestHeight := int(1<<31 - 1)
	for bb := attackers & pos.Towers(side); bb != 0; {
		sq := bb.Pop()
		if h := pos.Height(side, sq); h < bestHeight {
			bestHeight = h
			best = sq
		}
	}
	if best != board.NoSquare {
		return best, true
	}
	if guardBB := attackers & pos.Guard(side); guardBB != 0 {
		return guardBB.LSB(), true
	}
	return board.NoSquare, false
}

// SEE returns the static exchange evaluation of playing m: the net material
// swing on m.To once every attacker that wants in has traded, from the
// perspective of the side making m. A non-capturing move is worth zero.
//
// Attackers are recomputed from the scratch position after every simulated
// capture, so pieces that only attack the square once something in front of
// them has moved -- x-ray attackers -- are picked up automatically; this is
// a deliberate choice where spec.md leaves the behavior open (spec.md §9).
func SEE(pos *board.GameState, m board.Move) int32 {
	color, _, occupied := pos.PieceAt(m.To)
	if !occupied {
		return 0
	}
	them := color

	work := pos.Copy()
	gain := make([]int32, 1, 8)
	gain[0] = pieceValueAt(&work, m.To)

	attackerValue := movedValue(&work, m.From, m.Amount)
	vacateOrigin(&work, m.From, m.Amount)

	side := them
	for {
		attackers := work.AttackersTo(m.To, side)
		from, ok := leastValuableAttacker(&work, attackers, side)
		if !ok {
			break
		}
		amount := recaptureAmount(&work, from, m.To)
		gain = append(gain, attackerValue-gain[len(gain)-1])
		attackerValue = movedValue(&work, from, amount)
		vacateOrigin(&work, from, amount)
		side = side.Opposite()
	}

	for i := len(gain) - 1; i > 0; i-- {
		if v := -gain[i]; v < gain[i-1] {
			gain[i-1] = v
		}
	}

	return gain[0]
}

// SEECaptures reports whether m's static exchange evaluation is
// non-negative, the same split OrderMoves makes between winning and losing
// captures (spec.md §4.7).
func SEECaptures(pos *board.GameState, m board.Move) bool {
	return SEE(pos, m) >= 0
}
