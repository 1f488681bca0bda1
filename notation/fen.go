// Package notation implements the FEN-like position string and algebraic
// move string formats of spec.md §6: external collaborators the core never
// imports, grounded on the teacher's hand-written src/zurichess/fen.go
// rather than its yacc-generated EPD grammar (notation/epd.go), which is
// far more machinery than this game's simpler wire format needs.
package notation

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/gat-engine/gat/board"
)

// ErrMalformed is returned when a FEN-like string cannot be parsed, wrapped
// with the detail of what went wrong.
var ErrMalformed = errors.New("notation: malformed position string")

// DecodePosition parses a FEN-like string into a GameState. Per spec.md §6,
// it is seven rank tokens separated by '/', from rank 6 down to rank 0 (the
// same "highest rank first" convention FEN itself uses), a space, then a
// side-to-move token 'r' or 'b'. A rank token is read left to right: a run
// of digits names that many consecutive empty squares, "RG"/"BG" places a
// guard, and "<r|b><height>" places a tower of that color and height.
func DecodePosition(s string) (board.GameState, error) {
	var pos board.GameState

	fields := strings.Fields(s)
	if len(fields) != 2 {
		return pos, errors.Wrapf(ErrMalformed, "expected 2 space-separated fields, got %d", len(fields))
	}

	ranks := strings.Split(fields[0], "/")
	if len(ranks) != board.BoardSize {
		return pos, errors.Wrapf(ErrMalformed, "expected %d ranks, got %d", board.BoardSize, len(ranks))
	}

	for i, token := range ranks {
		rank := board.BoardSize - 1 - i
		if err := decodeRank(&pos, rank, token); err != nil {
			return board.GameState{}, errors.Wrapf(err, "rank %d (%q)", rank, token)
		}
	}

	switch fields[1] {
	case "r":
		pos.RedToMove = true
	case "b":
		pos.RedToMove = false
	default:
		return board.GameState{}, errors.Wrapf(ErrMalformed, "unknown side to move %q", fields[1])
	}

	pos.RecomputeHash()
	if err := pos.Validate(); err != nil {
		return board.GameState{}, errors.Wrap(err, "decoded position")
	}
	return pos, nil
}

func decodeRank(pos *board.GameState, rank int, token string) error {
	file := 0
	runes := []rune(token)

	for i := 0; i < len(runes); {
		c := runes[i]
		switch {
		case c >= '0' && c <= '9':
			n, width := readInt(runes[i:])
			file += n
			i += width
		case c == 'R' || c == 'B':
			if i+1 >= len(runes) || runes[i+1] != 'G' {
				return errors.Wrapf(ErrMalformed, "expected 'G' after %q", string(c))
			}
			if file >= board.BoardSize {
				return errors.Wrap(ErrMalformed, "rank overflows board width")
			}
			color := board.Red
			if c == 'B' {
				color = board.Blue
			}
			placeGuard(pos, color, board.RankFile(rank, file))
			file++
			i += 2
		case c == 'r' || c == 'b':
			color := board.Red
			if c == 'b' {
				color = board.Blue
			}
			// Height is exactly one digit: the run of digits after a tower
			// letter would otherwise be ambiguous with a following empty-run
			// count (spec.md §6 leaves this unstated; single digit matches
			// its own worked example, "r4" for a height-4 tower).
			if i+1 >= len(runes) || runes[i+1] < '1' || runes[i+1] > '9' {
				return errors.Wrapf(ErrMalformed, "tower token %q missing a 1-9 height digit", string(c))
			}
			height := int(runes[i+1] - '0')
			if file >= board.BoardSize {
				return errors.Wrap(ErrMalformed, "rank overflows board width")
			}
			placeTower(pos, color, board.RankFile(rank, file), height)
			file++
			i += 2
		default:
			return errors.Wrapf(ErrMalformed, "unexpected character %q", string(c))
		}
	}

	if file != board.BoardSize {
		return errors.Wrapf(ErrMalformed, "rank describes %d squares, want %d", file, board.BoardSize)
	}
	return nil
}

// readInt reads the maximal leading run of digits in runes, returning the
// parsed value and how many runes were consumed (0 if runes does not start
// with a digit).
func readInt(runes []rune) (int, int) {
	j := 0
	for j < len(runes) && runes[j] >= '0' && runes[j] <= '9' {
		j++
	}
	if j == 0 {
		return 0, 0
	}
	n, _ := strconv.Atoi(string(runes[:j]))
	return n, j
}

func placeGuard(pos *board.GameState, c board.Color, sq board.Square) {
	if c == board.Red {
		pos.RedGuard |= sq.Bitboard()
	} else {
		pos.BlueGuard |= sq.Bitboard()
	}
}

func placeTower(pos *board.GameState, c board.Color, sq board.Square, height int) {
	if c == board.Red {
		pos.RedTowers |= sq.Bitboard()
		pos.RedHeights[sq] = int8(height)
	} else {
		pos.BlueTowers |= sq.Bitboard()
		pos.BlueHeights[sq] = int8(height)
	}
}

// EncodePosition renders pos in the format DecodePosition accepts. Runs of
// empty squares are collapsed to their decimal length, the same convention
// FEN itself uses.
func EncodePosition(pos *board.GameState) string {
	var sb strings.Builder
	for r := board.BoardSize - 1; r >= 0; r-- {
		encodeRank(&sb, pos, r)
		if r > 0 {
			sb.WriteByte('/')
		}
	}
	if pos.RedToMove {
		sb.WriteString(" r")
	} else {
		sb.WriteString(" b")
	}
	return sb.String()
}

func encodeRank(sb *strings.Builder, pos *board.GameState, rank int) {
	empty := 0
	flush := func() {
		if empty > 0 {
			sb.WriteString(strconv.Itoa(empty))
			empty = 0
		}
	}
	for f := 0; f < board.BoardSize; f++ {
		sq := board.RankFile(rank, f)
		color, kind, ok := pos.PieceAt(sq)
		if !ok {
			empty++
			continue
		}
		flush()
		switch kind {
		case board.Guard:
			if color == board.Red {
				sb.WriteString("RG")
			} else {
				sb.WriteString("BG")
			}
		case board.Tower:
			if color == board.Red {
				sb.WriteByte('r')
			} else {
				sb.WriteByte('b')
			}
			fmt.Fprintf(sb, "%d", pos.Height(color, sq))
		}
	}
	flush()
}
