package notation

import (
	"strconv"

	"github.com/pkg/errors"

	"github.com/gat-engine/gat/board"
)

// EncodeMove renders m as "<from><to><amount>", e.g. "D4D51" style
// algebraic encoding: algebraic file letters A-G, ranks 1-7 (spec.md §6).
func EncodeMove(m board.Move) string {
	return m.From.String() + m.To.String() + strconv.Itoa(int(m.Amount))
}

// DecodeMove parses the "<from><to><amount>" encoding EncodeMove produces.
// It does not consult a position, so it cannot reject a pseudo-illegal
// move -- callers validate against a GameState with IsPseudoLegal.
func DecodeMove(s string) (board.Move, error) {
	from, rest, err := cutSquare(s)
	if err != nil {
		return board.NullMove, errors.Wrap(ErrMalformed, err.Error())
	}
	to, rest, err := cutSquare(rest)
	if err != nil {
		return board.NullMove, errors.Wrap(ErrMalformed, err.Error())
	}
	if rest == "" {
		return board.NullMove, errors.Wrap(ErrMalformed, "move string missing amount")
	}
	amount, err := strconv.Atoi(rest)
	if err != nil || amount <= 0 || amount > 255 {
		return board.NullMove, errors.Wrapf(ErrMalformed, "invalid amount %q", rest)
	}
	return board.Move{From: from, To: to, Amount: uint8(amount)}, nil
}

// cutSquare reads one algebraic square (a file letter and a single rank
// digit) off the front of s and returns it with the remainder. The board is
// always 7x7, so a rank is always exactly one digit -- unlike a general FEN
// square, there is no ambiguity with the amount digit that can immediately
// follow a move's second square.
func cutSquare(s string) (board.Square, string, error) {
	if len(s) < 2 {
		return board.NoSquare, "", errors.Errorf("square too short in %q", s)
	}
	sq, err := board.SquareFromString(s[:2])
	if err != nil {
		return board.NoSquare, "", err
	}
	return sq, s[2:], nil
}
