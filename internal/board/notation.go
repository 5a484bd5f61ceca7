package board

import (
	"strings"

	"github.com/pkg/errors"
)

var (
	// ErrIllegalMove indicates a move that is not in the legal move list of
	// the current position.
	ErrIllegalMove = errors.New("illegal move")

	// ErrBadNotation indicates a string that is not coordinate notation.
	ErrBadNotation = errors.New("bad move notation")
)

// FindMove resolves coordinate notation such as "e2e4" against the legal
// moves of the current position. A trailing "q" is accepted for
// promotions, as UCI engines append the promotion piece.
func (gs *GameState) FindMove(s string) (Move, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if len(s) == 5 && s[4] == 'q' {
		s = s[:4]
	}
	if len(s) != 4 {
		return Move{}, errors.Wrapf(ErrBadNotation, "%q", s)
	}

	from, err := ParseSquare(s[0:2])
	if err != nil {
		return Move{}, errors.Wrap(ErrBadNotation, err.Error())
	}
	to, err := ParseSquare(s[2:4])
	if err != nil {
		return Move{}, errors.Wrap(ErrBadNotation, err.Error())
	}

	legal, _ := gs.LegalMoves()
	for _, m := range legal {
		if m.From == from && m.To == to {
			return m, nil
		}
	}
	return Move{}, errors.Wrapf(ErrIllegalMove, "%s for %s", s, gs.side)
}
