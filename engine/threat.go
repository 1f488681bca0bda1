// threat.go is the threat detector of spec.md §4.5: it classifies the
// dangers the side to move faces and lists moves that answer them. It has
// no teacher analogue (the corpus's engines are all single-evaluator chess
// engines); it is built in evaluate.go's small-function, bitboard-driven
// style.
package engine

import "github.com/gat-engine/gat/board"

// ThreatKind classifies a detected threat.
type ThreatKind int

const (
	// ThreatGuardCapture means an opposing move would capture our guard.
	ThreatGuardCapture ThreatKind = iota
	// ThreatCastleReach means an opposing move would land a guard on its
	// enemy home square.
	ThreatCastleReach
	// ThreatFork means a single opposing move would simultaneously attack
	// two or more of our pieces.
	ThreatFork
	// ThreatPin means one of our towers cannot move without exposing our
	// guard to attack.
	ThreatPin
	// ThreatDiscoveredAttack means an opposing move would uncover an
	// attack on our guard from a different piece.
	ThreatDiscoveredAttack
)

// Threat describes a single detected danger. Move is the move that
// realizes the threat, board.NullMove for a static threat like a pin.
type Threat struct {
	Kind   ThreatKind
	By     board.Color
	Move   board.Move
	Target board.Square
}

// DetectThreats enumerates every threat the side to move currently faces
// (spec.md §4.5).
func DetectThreats(pos *board.GameState) []Threat {
	us := pos.Us()
	them := pos.Them()

	var threats []Threat
	for _, m := range pos.GenerateMovesFor(them) {
		dstColor, dstKind, occupied := pos.PieceAt(m.To)
		if occupied && dstColor == us && dstKind == board.Guard {
			threats = append(threats, Threat{Kind: ThreatGuardCapture, By: them, Move: m, Target: m.To})
		}
		if m.To == board.EnemyHomeSquare(them) && isGuardMove(pos, m) {
			threats = append(threats, Threat{Kind: ThreatCastleReach, By: them, Move: m, Target: m.To})
		}
	}

	threats = append(threats, detectForks(pos, them, us)...)
	threats = append(threats, detectPins(pos, us, them)...)
	threats = append(threats, detectDiscoveredAttacks(pos, them, us)...)
	return threats
}

// detectForks finds by's moves that would attack two or more of victim's
// pieces at once from the destination square.
func detectForks(pos *board.GameState, by, victim board.Color) []Threat {
	var threats []Threat
	for _, m := range pos.GenerateMovesFor(by) {
		work := pos.Copy()
		work.ApplyMove(m)

		count := 0
		targets := work.Towers(victim) | work.Guard(victim)
		for bb := targets; bb != 0; {
			sq := bb.Pop()
			if work.AttackersTo(sq, by)&m.To.Bitboard() != 0 {
				count++
			}
		}
		if count >= 2 {
			threats = append(threats, Threat{Kind: ThreatFork, By: by, Move: m, Target: m.To})
		}
	}
	return threats
}

// detectPins finds us's towers that cannot move without exposing us's
// guard to an attack it is not already under.
func detectPins(pos *board.GameState, us, them board.Color) []Threat {
	var threats []Threat
	if pos.IsChecked(us) {
		return threats
	}
	for bb := pos.Towers(us); bb != 0; {
		sq := bb.Pop()
		work := pos.Copy()
		removePiece(&work, sq)
		if work.IsChecked(us) {
			threats = append(threats, Threat{Kind: ThreatPin, By: them, Move: board.NullMove, Target: sq})
		}
	}
	return threats
}

// detectDiscoveredAttacks finds by's moves that uncover a new attacker on
// victim's guard from a piece other than the one that moved.
func detectDiscoveredAttacks(pos *board.GameState, by, victim board.Color) []Threat {
	var threats []Threat
	guardSq := pos.GuardSquare(victim)
	if guardSq == board.NoSquare {
		return threats
	}
	before := pos.AttackersTo(guardSq, by)

	for _, m := range pos.GenerateMovesFor(by) {
		work := pos.Copy()
		work.ApplyMove(m)
		after := work.AttackersTo(guardSq, by) &^ m.To.Bitboard()
		if after&^before != 0 {
			threats = append(threats, Threat{Kind: ThreatDiscoveredAttack, By: by, Move: m, Target: guardSq})
		}
	}
	return threats
}

// DefensiveMoves lists the side-to-move's moves that answer at least one of
// threats: capturing the threatening piece or moving the threatened piece.
// Where the threatened piece moves to is not checked for safety.
func DefensiveMoves(pos *board.GameState, threats []Threat) []board.Move {
	us := pos.Us()
	var defenses []board.Move
	seen := make(map[board.Move]bool)
	add := func(m board.Move) {
		if !seen[m] {
			seen[m] = true
			defenses = append(defenses, m)
		}
	}

	ourMoves := pos.GenerateMovesFor(us)
	for _, t := range threats {
		if t.By == us {
			continue
		}
		for _, m := range ourMoves {
			if !t.Move.IsNull() && m.To == t.Move.From {
				add(m)
			}
			if m.From == t.Target {
				add(m)
			}
		}
	}
	return defenses
}
