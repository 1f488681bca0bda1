package engine

import "github.com/pkg/errors"

// The error taxonomy of spec.md §7. Timeout is cooperative cancellation,
// always recoverable by returning the latched best move. InvalidPosition is
// raised at entry only. InternalInvariant is what FindBestMove returns when a
// search fails and no legal move is left to fall back on; it is never a
// reason to terminate the process.
var (
	// ErrTimeout signals cooperative cancellation of an in-flight search.
	// It is propagated by plain returns through every inner function
	// without side effects on persistent state: the interrupted branch
	// never writes to the transposition table.
	ErrTimeout = errors.New("engine: search timed out")

	// ErrInvalidPosition signals a GameState that violates an invariant in
	// spec.md §3. The engine refuses to search it.
	ErrInvalidPosition = errors.New("engine: invalid position")

	// ErrInternalInvariant wraps an unexpected search error that
	// FindBestMove could not downgrade to the emergency-move fallback
	// described in spec.md §7, because the position has no legal move.
	ErrInternalInvariant = errors.New("engine: internal invariant violated")
)
