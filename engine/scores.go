package engine

// Score bounds and terminal-evaluation constants (spec.md §4.3, §8).
const (
	// InfinityScore bounds alpha/beta at the root.
	InfinityScore int32 = 1 << 20

	// CastleReach is the magnitude terminal positions evaluate to: a guard
	// on the enemy home square, or a captured enemy guard.
	CastleReach int32 = 100000

	// MateThreshold is the boundary below which a score is "just material",
	// per spec.md §8's invariant |eval(p)| < MateThreshold unless terminal.
	MateThreshold int32 = CastleReach - 2000

	// KnownWinScore / KnownLossScore bound the range TT mate scores are
	// adjusted to ply-relative values within, mirroring the teacher's
	// hash-table mate-score handling (engine.go retrieveHash/updateHash).
	KnownWinScore  int32 = CastleReach - 1000
	KnownLossScore int32 = -KnownWinScore

	// GuardValue is the guard's material worth used by SEE, by quiescence's
	// per-capture delta pruning (through pieceValueAt) and by the time
	// manager's thresholds; Evaluate uses its own, smaller guard values. It is
	// deliberately much smaller than CastleReach: CastleReach marks a
	// *terminal* score, GuardValue is an ordinary (if very large) material
	// value used inside ongoing search.
	GuardValue int32 = 20000

	// TowerBaseValue is the material value of a single tower unit of
	// height 1 (spec.md §4.3 material term).
	TowerBaseValue int32 = 100
)

func max32(a, b int32) int32 {
	if a > b {
		return a
	}
	return b
}

func min32(a, b int32) int32 {
	if a < b {
		return a
	}
	return b
}

func absInt32(a int32) int32 {
	if a < 0 {
		return -a
	}
	return a
}
