// Command gatengine is a minimal demo runner over the search engine,
// mirroring the teacher's zurichess/main.go + zurichess/uci.go split: a thin
// command package that parses flags, decodes a position and drives the
// engine, with no game logic of its own. Unlike the teacher it speaks a
// single fixed-depth-or-time-budget request instead of the UCI protocol,
// per spec.md §6's "CLI / runner: out of scope" -- this exists only as the
// ambient "how would anyone actually run this" piece.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/gat-engine/gat/board"
	"github.com/gat-engine/gat/engine"
	"github.com/gat-engine/gat/notation"
)

var (
	fen         = flag.String("position", "", "FEN-like position string (notation.DecodePosition); empty uses the initial layout")
	depth       = flag.Int("depth", 0, "fixed search depth; 0 disables the cap and relies on the time budget")
	movetime    = flag.Duration("movetime", 5*time.Second, "thinking time budget for the side to move")
	increment   = flag.Duration("increment", 0, "per-move time increment credited to the budget")
	movesToGo   = flag.Int("movestogo", 0, "estimated moves remaining; 0 uses the time manager's default")
	hashSizeMB  = flag.Int("hash", 0, "transposition table size in MB; 0 uses engine.DefaultTTSizeMB")
	verboseLogs = flag.Bool("verbose", false, "log every iterative-deepening iteration, not just the final move")
)

func main() {
	flag.Parse()

	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).With().Timestamp().Logger()

	pos, err := decodeStartPosition(*fen)
	if err != nil {
		logger.Fatal().Err(err).Msg("decoding position")
	}

	eng := engine.NewEngine(engine.Options{
		HashSizeMB: *hashSizeMB,
		MaxDepth:   int32(*depth),
	}, &zerologAdapter{logger: logger, verbose: *verboseLogs})

	result, err := eng.FindBestMove(context.Background(), &pos, *movetime, *increment, *movesToGo)
	if err != nil {
		logger.Fatal().Err(err).Msg("search failed")
	}

	fmt.Println(notation.EncodeMove(result.BestMove))
}

func decodeStartPosition(fen string) (board.GameState, error) {
	if fen == "" {
		return board.NewInitialPosition(), nil
	}
	return notation.DecodePosition(fen)
}

// zerologAdapter implements engine.Logger over a zerolog.Logger, the only
// place in the repository zerolog is wired in: board and engine depend on
// engine.Logger alone, never on zerolog directly (spec.md §9's ambient
// logging note).
type zerologAdapter struct {
	logger  zerolog.Logger
	verbose bool
}

func (z *zerologAdapter) BeginSearch() {
	z.logger.Debug().Msg("search started")
}

func (z *zerologAdapter) EndSearch() {
	z.logger.Debug().Msg("search finished")
}

func (z *zerologAdapter) Iteration(depth, score int32, nodes uint64, elapsed time.Duration, pv []board.Move) {
	if !z.verbose {
		return
	}
	z.logger.Info().
		Int32("depth", depth).
		Int32("score", score).
		Uint64("nodes", nodes).
		Dur("elapsed", elapsed).
		Str("pv", formatPV(pv)).
		Msg("iteration")
}

func formatPV(pv []board.Move) string {
	s := ""
	for i, m := range pv {
		if i > 0 {
			s += " "
		}
		s += notation.EncodeMove(m)
	}
	return s
}
