package board

// Move describes one ply. Moves are produced by the generator and are
// treated as immutable values afterwards.
type Move struct {
	From     Square
	To       Square
	Moved    Piece
	Captured Piece // NoPiece if the move is not a capture

	EnPassant bool
	Castle    bool
	Promotion bool // always to a queen
}

// Equal reports whether two moves share origin and destination.
// The special-move flags follow from the coordinates only for moves
// generated in the same position; use Identical across positions.
func (m Move) Equal(o Move) bool {
	return m.From == o.From && m.To == o.To
}

// Identical reports whether every field of the two moves matches.
func (m Move) Identical(o Move) bool {
	return m == o
}

// CoordinateNotation returns the four-character origin+destination form,
// e.g. "e2e4". It carries no check or mate annotation.
func (m Move) CoordinateNotation() string {
	return m.From.String() + m.To.String()
}

// String returns the coordinate notation of the move.
func (m Move) String() string {
	return m.CoordinateNotation()
}

// capturedSquare returns where the captured piece stood. For en passant
// that is one rank behind the destination, on the same file.
func (m Move) capturedSquare() Square {
	if !m.EnPassant {
		return m.To
	}
	return NewSquare(m.To.Row()-m.Moved.Color().forward(), m.To.Col())
}

// castleRookSquares returns the rook's origin and destination for a castle.
func (m Move) castleRookSquares() (from, to Square) {
	row := m.From.Row()
	if m.To.Col() > m.From.Col() {
		return NewSquare(row, 7), NewSquare(row, 5)
	}
	return NewSquare(row, 0), NewSquare(row, 3)
}
