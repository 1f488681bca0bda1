// timemanager.go allocates a thinking-time budget per move (spec.md
// §4.11). Grounded on the teacher's time_control.go (remaining-time /
// moves-to-go base allocation, branch-factor adjustment) but replaced with
// spec.md's own panic/emergency/base/phase/complexity/situational formula,
// a more detailed budget model than the teacher's single branch factor.
package engine

import (
	"time"

	"github.com/gat-engine/gat/board"
)

// Time thresholds below which the manager stops reasoning about position
// features and just protects the clock, and the tuning constants of
// spec.md §4.11's formula.
const (
	panicThreshold     = 2 * time.Second
	emergencyThreshold = 8 * time.Second
	panicMinThink      = 150 * time.Millisecond
	panicDivisor       = 12
	emergencyMinThink  = 400 * time.Millisecond
	emergencyDivisor   = 6
	minMovesLeft       = 3
	openingTempoBoost  = 1.3
	timeSafetyFactor   = 0.85
	budgetFloorDivisor = 80
	budgetCeilDivisor  = 3
	absoluteFloorThink = 200 * time.Millisecond
	minThinkTime       = 20 * time.Millisecond
	defaultMovesToGo   = 30
)

// TimeManager turns a side's remaining clock into a per-move budget.
type TimeManager struct {
	Remaining time.Duration
	Increment time.Duration
	MovesToGo int
}

// NewTimeManager builds a manager for the given remaining time, increment
// and estimated moves left; movesToGo <= 0 falls back to
// defaultMovesToGo.
func NewTimeManager(remaining, increment time.Duration, movesToGo int) *TimeManager {
	if movesToGo <= 0 {
		movesToGo = defaultMovesToGo
	}
	return &TimeManager{Remaining: remaining, Increment: increment, MovesToGo: movesToGo}
}

// Allocate computes how long to think about pos this move (spec.md §4.11):
//
//   - panic (remaining <= panicThreshold): max(150ms, remaining/12).
//   - emergency (remaining <= emergencyThreshold): max(400ms, remaining/6).
//   - otherwise: base = remaining / max(movesLeft, 3), boosted ×1.3 while
//     pos still looks like an opening (few captures played), times
//     phase x complexity x situational factors, times a 0.85 safety factor,
//     clamped to [max(200ms, remaining/80), remaining/3].
func (tm *TimeManager) Allocate(pos *board.GameState) time.Duration {
	if tm.Remaining <= panicThreshold {
		return maxDuration(panicMinThink, tm.Remaining/panicDivisor)
	}
	if tm.Remaining <= emergencyThreshold {
		return maxDuration(emergencyMinThink, tm.Remaining/emergencyDivisor)
	}

	movesLeft := tm.MovesToGo
	if movesLeft < minMovesLeft {
		movesLeft = minMovesLeft
	}
	base := tm.Remaining / time.Duration(movesLeft)

	// GameState carries no move counter (board/position.go), so the
	// opening boost is read off the phase estimate instead of an exact
	// move number: a position this full has had few, if any, captures.
	if phaseFactor(pos) == openingPhaseFactor {
		base = time.Duration(float64(base) * openingTempoBoost)
	}

	factor := phaseFactor(pos) * complexityFactor(pos) * situationalFactor(pos)
	budget := time.Duration(float64(base) * factor * timeSafetyFactor)

	floor := maxDuration(absoluteFloorThink, tm.Remaining/budgetFloorDivisor)
	ceil := tm.Remaining / budgetCeilDivisor
	switch {
	case budget < floor:
		budget = floor
	case budget > ceil:
		budget = ceil
	}
	return budget
}

func maxDuration(a, b time.Duration) time.Duration {
	if a > b {
		return a
	}
	return b
}

const (
	openingPhaseFactor    = 0.8
	middlegamePhaseFactor = 1.0
	endgamePhaseFactor    = 3.0
)

// phaseFactor favors the endgame, where every remaining piece matters and
// a rushed move is hardest to take back, over the opening and middlegame
// (spec.md §4.11).
func phaseFactor(pos *board.GameState) float64 {
	switch pieces := pos.Occupied().Popcnt(); {
	case pieces > 20:
		return openingPhaseFactor
	case pieces > 10:
		return middlegamePhaseFactor
	default:
		return endgamePhaseFactor
	}
}

// complexityFactor widens the budget for tactically rich positions --
// many capture/decisive replies, a guard in danger, a wide swing between
// the best and worst capture's SEE, or a large material imbalance -- and
// narrows it for quiet, materially even ones, clamped to spec.md §4.11's
// ×0.7..×2.5 band.
func complexityFactor(pos *board.GameState) float64 {
	us := pos.Us()
	moves := pos.GenerateMovesFor(us)

	tactical := 0
	haveCapture := false
	var minSEE, maxSEE int32
	for _, m := range moves {
		if isCapture(pos, m) || isDecisive(pos, m) {
			tactical++
		}
		if !isCapture(pos, m) {
			continue
		}
		see := SEE(pos, m)
		if !haveCapture || see < minSEE {
			minSEE = see
		}
		if !haveCapture || see > maxSEE {
			maxSEE = see
		}
		haveCapture = true
	}

	factor := 1.0
	switch {
	case tactical > 6:
		factor += 0.5
	case tactical == 0:
		factor -= 0.2
	}
	if pos.IsChecked(us) {
		factor += 0.6
	}
	if haveCapture && maxSEE-minSEE > GuardValue/2 {
		factor += 0.3
	}
	switch imbalance := materialAndPST(pos, 100); {
	case imbalance > 300, imbalance < -300:
		factor += 0.2
	case imbalance == 0:
		factor -= 0.1
	}

	switch {
	case factor > 2.5:
		return 2.5
	case factor < 0.7:
		return 0.7
	default:
		return factor
	}
}

// situationalFactor grants the largest boosts to a guard that is in check
// with at most one escape square, or faces two or more live threats
// (critical), a smaller
// one to a clear material lead (winning advantage) or a single live threat
// or check (decision point), and no boost otherwise (spec.md §4.11).
func situationalFactor(pos *board.GameState) float64 {
	us := pos.Us()
	threats := DetectThreats(pos)

	if pos.IsChecked(us) && pos.EscapeSquareCount(us) <= 1 {
		return 4.0
	}
	if len(threats) >= 2 {
		return 4.0
	}
	if material := int32(us.Multiplier()) * materialAndPST(pos, 100); material > GuardValue {
		return 3.0
	}
	if pos.IsChecked(us) || len(threats) == 1 {
		return 1.8
	}
	return 1.0
}
