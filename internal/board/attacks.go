package board

// offset is a (row, col) step.
type offset struct {
	dr, dc int
}

var (
	knightOffsets = [8]offset{{-2, -1}, {-2, 1}, {-1, -2}, {-1, 2}, {1, -2}, {1, 2}, {2, -1}, {2, 1}}
	kingOffsets   = [8]offset{{-1, -1}, {-1, 0}, {-1, 1}, {0, 1}, {0, -1}, {1, -1}, {1, 0}, {1, 1}}

	rookDirections   = [4]offset{{-1, 0}, {0, -1}, {1, 0}, {0, 1}}
	bishopDirections = [4]offset{{-1, -1}, {-1, 1}, {1, -1}, {1, 1}}
)

// Attacked returns true if a piece of color by could move to or capture on sq.
// Pawns attack their forward diagonals whether or not the square is occupied.
func (gs *GameState) Attacked(sq Square, by Color) bool {
	row, col := sq.Row(), sq.Col()

	// A pawn of color by attacks sq from one row behind it.
	pawn := NewPiece(Pawn, by)
	pr := row - by.forward()
	for _, dc := range [2]int{-1, 1} {
		if onBoard(pr, col+dc) && gs.board[pr][col+dc] == pawn {
			return true
		}
	}

	knight := NewPiece(Knight, by)
	for _, o := range knightOffsets {
		r, c := row+o.dr, col+o.dc
		if onBoard(r, c) && gs.board[r][c] == knight {
			return true
		}
	}

	king := NewPiece(King, by)
	for _, o := range kingOffsets {
		r, c := row+o.dr, col+o.dc
		if onBoard(r, c) && gs.board[r][c] == king {
			return true
		}
	}

	queen := NewPiece(Queen, by)
	if gs.rayHits(row, col, rookDirections[:], NewPiece(Rook, by), queen) {
		return true
	}
	return gs.rayHits(row, col, bishopDirections[:], NewPiece(Bishop, by), queen)
}

// rayHits walks each direction from (row, col) and reports whether the
// first occupied square holds one of the two given sliders.
func (gs *GameState) rayHits(row, col int, dirs []offset, slider, queen Piece) bool {
	for _, d := range dirs {
		r, c := row+d.dr, col+d.dc
		for onBoard(r, c) {
			p := gs.board[r][c]
			if p != NoPiece {
				if p == slider || p == queen {
					return true
				}
				break // Blocked
			}
			r += d.dr
			c += d.dc
		}
	}
	return false
}

// InCheck returns true if side's king is attacked by the other color.
func (gs *GameState) InCheck(side Color) bool {
	return gs.Attacked(gs.kings[side], side.Other())
}
