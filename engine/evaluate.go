// evaluate.go is the time-adaptive evaluator of spec.md §4.3. It always
// scores a position from Red's perspective; the strategy layer flips the
// sign for Blue via board.Color.Multiplier.
package engine

import "github.com/gat-engine/gat/board"

// Material and piece-square constants.
const (
	guardBaseValue     int32 = 1000
	towerConvexUnit    int32 = 8
	towerMidlineStep   int32 = 5
	guardAdvanceStep   int32 = 20
	guardSupportBonus  int32 = 15
	guardAttackPenalty int32 = 60
	mobilityWeight     int32 = 4
	controlWeight      int32 = 10
	coordinationWeight int32 = 12
	tempoBonus         int32 = 10
	strategicWeight    int32 = 8
)

// Threat-sizing constants, deliberately much smaller than GuardValue: the
// threat term scores an *unexercised* capture available next move, and the
// non-terminal evaluation invariant (spec.md §8) requires the combined
// score to stay under MateThreshold.
const (
	threatTowerUnitValue   int32 = 20
	threatGuardValue       int32 = 300
	threatGuardMultiplier  int32 = 4
	threatWinningMultiplier int32 = 6
)

// towerPST rewards central files and forward ranks. Indexed [rank][file]
// from Red's point of view; Blue reads it vertically mirrored.
var towerPST = [board.BoardSize][board.BoardSize]int32{
	{-5, -3, -2, -2, -2, -3, -5},
	{-3, 0, 2, 3, 2, 0, -3},
	{-2, 2, 5, 6, 5, 2, -2},
	{-2, 3, 6, 8, 6, 3, -2},
	{0, 4, 7, 9, 7, 4, 0},
	{2, 6, 9, 12, 9, 6, 2},
	{4, 8, 12, 15, 12, 8, 4},
}

// guardPST is flatter than towerPST: the guard's safety term already
// punishes overextension, so its positional table only mildly rewards
// central control and advancement.
var guardPST = [board.BoardSize][board.BoardSize]int32{
	{0, 1, 2, 3, 2, 1, 0},
	{1, 2, 3, 4, 3, 2, 1},
	{2, 3, 5, 6, 5, 3, 2},
	{3, 4, 6, 8, 6, 4, 3},
	{4, 5, 7, 9, 7, 5, 4},
	{5, 6, 8, 10, 8, 6, 5},
	{6, 7, 9, 12, 9, 7, 6},
}

// centralSquares are the cross of the middle rank and file, scored by the
// mobility & control term's attacker-count sub-component.
var centralSquares = buildCentralSquares()

func buildCentralSquares() []board.Square {
	mid := board.BoardSize / 2
	squares := make([]board.Square, 0, 2*board.BoardSize-1)
	for f := 0; f < board.BoardSize; f++ {
		squares = append(squares, board.RankFile(mid, f))
	}
	for r := 0; r < board.BoardSize; r++ {
		if r == mid {
			continue
		}
		squares = append(squares, board.RankFile(r, mid))
	}
	return squares
}

func pstValue(table [board.BoardSize][board.BoardSize]int32, c board.Color, sq board.Square) int32 {
	rank := sq.Rank()
	if c == board.Blue {
		rank = board.BoardSize - 1 - rank
	}
	return table[rank][sq.File()]
}

// crossedMidline returns how many ranks past the board's center row c's
// piece at sq has advanced towards the enemy home square, zero if it has
// not crossed yet.
func crossedMidline(c board.Color, sq board.Square) int32 {
	mid := board.BoardSize / 2
	rank := sq.Rank()
	if c == board.Red {
		if rank > mid {
			return int32(rank - mid)
		}
		return 0
	}
	if rank < mid {
		return int32(mid - rank)
	}
	return 0
}

// Evaluate scores pos from Red's perspective using the evaluator sub-terms
// the profile selects (spec.md §4.3). ply is the search depth from the
// root, used only to scale terminal scores.
func Evaluate(pos *board.GameState, profile Profile, ply int32) int32 {
	if outcome := pos.Outcome(); outcome != board.Ongoing {
		return terminalScore(outcome, ply)
	}

	switch profile {
	case ProfileUltraFast:
		return materialAndPST(pos, 50) + guardAdvancement(pos, 50)
	case ProfileQuick:
		return materialAndPST(pos, 100) + tacticalThreats(pos) + guardSafety(pos) +
			mobilityAndControl(pos) + coordination(pos)
	case ProfileBalanced:
		material := materialAndPST(pos, 100)
		threats := tacticalThreats(pos)
		safety := guardSafety(pos)
		mobility := mobilityAndControl(pos)
		coord := coordination(pos)
		weighted := material*30/100 + threats*25/100 + safety*25/100 + mobility*15/100 + coord*5/100
		return weighted + tempo(pos)
	case ProfileEnhanced:
		return materialAndPST(pos, 100) + tacticalThreats(pos) + guardSafety(pos) +
			mobilityAndControl(pos) + coordination(pos) + strategicControl(pos)
	default:
		return materialAndPST(pos, 100)
	}
}

// terminalScore returns a mate-distance score: its magnitude decreases as
// ply grows, so faster wins and slower losses are both preferred over their
// alternatives (spec.md §8).
func terminalScore(outcome board.Outcome, ply int32) int32 {
	winner, _ := outcome.Winner()
	sign := int32(winner.Multiplier())
	return sign * (CastleReach - ply)
}

// materialAndPST sums height-weighted tower material plus a convex stacking
// bonus and midline-advancement bonus, and a guard base value, with the
// piece-square term scaled by pstPercent (50 for the ultra-fast profile's
// half-weight tables, 100 otherwise).
func materialAndPST(pos *board.GameState, pstPercent int32) int32 {
	return colorMaterial(pos, board.Red, pstPercent) - colorMaterial(pos, board.Blue, pstPercent)
}

func colorMaterial(pos *board.GameState, c board.Color, pstPercent int32) int32 {
	var total int32
	for bb := pos.Towers(c); bb != 0; {
		sq := bb.Pop()
		height := int32(pos.Height(c, sq))
		total += height * TowerBaseValue
		total += (height - 1) * (height - 1) * towerConvexUnit
		total += crossedMidline(c, sq) * towerMidlineStep
		pstCap := height
		if pstCap > 3 {
			pstCap = 3
		}
		total += pstValue(towerPST, c, sq) * pstCap * pstPercent / 100
	}
	if guardSq := pos.GuardSquare(c); guardSq != board.NoSquare {
		total += guardBaseValue
		total += pstValue(guardPST, c, guardSq) * pstPercent / 100
		total += crossedMidline(c, guardSq) * guardAdvanceStep
	}
	return total
}

// guardAdvancement is the ultra-fast profile's trimmed stand-in for the
// guard-safety term: just the guard's piece-square bonus, scaled by
// pstPercent, and its progress toward the enemy home square. The guard's
// base value is not added here; materialAndPST already counts it.
func guardAdvancement(pos *board.GameState, pstPercent int32) int32 {
	return colorGuardAdvancement(pos, board.Red, pstPercent) - colorGuardAdvancement(pos, board.Blue, pstPercent)
}

func colorGuardAdvancement(pos *board.GameState, c board.Color, pstPercent int32) int32 {
	guardSq := pos.GuardSquare(c)
	if guardSq == board.NoSquare {
		return 0
	}
	return pstValue(guardPST, c, guardSq)*pstPercent/100 + crossedMidline(c, guardSq)*guardAdvanceStep
}

// captureValue sizes a victim for the tactical-threats term: deliberately
// much smaller than the material values above so an unexercised threat
// cannot push a non-terminal score past MateThreshold.
func captureValue(pos *board.GameState, victim board.Color, sq board.Square) int32 {
	color, kind, ok := pos.PieceAt(sq)
	if !ok || color != victim {
		return 0
	}
	if kind == board.Guard {
		return threatGuardValue
	}
	return int32(pos.Height(victim, sq)) * threatTowerUnitValue
}

// tacticalThreats rewards a side for every capture immediately available to
// it, weighting guard captures and captures that land on the enemy home
// square heavily, and subtracts the same for the opponent's available
// captures (spec.md §4.3). Only captures are scored: a guard move onto an
// empty enemy home square adds nothing to this term.
func tacticalThreats(pos *board.GameState) int32 {
	return colorThreats(pos, board.Red) - colorThreats(pos, board.Blue)
}

func colorThreats(pos *board.GameState, c board.Color) int32 {
	them := c.Opposite()
	var total int32
	for _, m := range pos.GenerateMovesFor(c) {
		color, kind, occupied := pos.PieceAt(m.To)
		if !occupied || color != them {
			continue
		}
		value := captureValue(pos, them, m.To)
		switch {
		case kind == board.Guard:
			total += value * threatGuardMultiplier
		case m.To == board.EnemyHomeSquare(c):
			total += value * threatWinningMultiplier
		default:
			total += value
		}
	}
	return total
}

// guardSafety penalizes an attacked guard, doubling the penalty when it has
// no escape square and halving the extra penalty when it has exactly one,
// and rewards adjacent friendly support (spec.md §4.3).
func guardSafety(pos *board.GameState) int32 {
	return colorGuardSafety(pos, board.Red) - colorGuardSafety(pos, board.Blue)
}

func colorGuardSafety(pos *board.GameState, c board.Color) int32 {
	guardSq := pos.GuardSquare(c)
	if guardSq == board.NoSquare {
		return 0
	}
	var score int32
	if pos.IsChecked(c) {
		score -= guardAttackPenalty
		switch pos.EscapeSquareCount(c) {
		case 0:
			score -= guardAttackPenalty
		case 1:
			score -= guardAttackPenalty / 2
		}
	}
	score += int32(pos.AdjacentFriendly(guardSq, c)) * guardSupportBonus
	return score
}

// mobilityAndControl rewards having more legal moves than the opponent and
// controlling the board's central cross of squares (spec.md §4.3).
func mobilityAndControl(pos *board.GameState) int32 {
	redMoves := int32(len(pos.GenerateMovesFor(board.Red)))
	blueMoves := int32(len(pos.GenerateMovesFor(board.Blue)))
	mobility := (redMoves - blueMoves) * mobilityWeight
	return mobility + controlScore(pos)
}

func controlScore(pos *board.GameState) int32 {
	var total int32
	for _, sq := range centralSquares {
		redAttackers := int32(pos.AttackersTo(sq, board.Red).Popcnt())
		blueAttackers := int32(pos.AttackersTo(sq, board.Blue).Popcnt())
		total += (redAttackers - blueAttackers) * controlWeight
	}
	return total
}

// coordination rewards pieces that orthogonally support one another
// (spec.md §4.3).
func coordination(pos *board.GameState) int32 {
	return colorCoordination(pos, board.Red) - colorCoordination(pos, board.Blue)
}

func colorCoordination(pos *board.GameState, c board.Color) int32 {
	var total int32
	for bb := pos.Towers(c); bb != 0; {
		sq := bb.Pop()
		total += int32(pos.AdjacentFriendly(sq, c))
	}
	if guardSq := pos.GuardSquare(c); guardSq != board.NoSquare {
		total += int32(pos.AdjacentFriendly(guardSq, c))
	}
	return total * coordinationWeight
}

// strategicControl is the enhanced profile's extra term: it rewards towers
// that have advanced far enough to threaten the enemy home square's
// immediate approach squares.
func strategicControl(pos *board.GameState) int32 {
	return colorStrategicControl(pos, board.Red) - colorStrategicControl(pos, board.Blue)
}

func colorStrategicControl(pos *board.GameState, c board.Color) int32 {
	home := board.EnemyHomeSquare(c)
	attackers := pos.AttackersTo(home, c)
	return int32(attackers.Popcnt()) * strategicWeight
}

// tempo gives the side to move a small edge, favoring Red when it is Red's
// turn and Blue when it is Blue's (spec.md §4.3, balanced profile only).
func tempo(pos *board.GameState) int32 {
	if pos.RedToMove {
		return tempoBonus
	}
	return -tempoBonus
}
