package board

import "strings"

// Board is the 8x8 mailbox grid indexed [row][col].
// Row 0 is black's back rank, row 7 is white's back rank.
type Board [8][8]Piece

// backRankOrder is the piece order on both back ranks, a-file first.
var backRankOrder = [8]PieceType{Rook, Knight, Bishop, Queen, King, Bishop, Knight, Rook}

// EmptyBoard returns a board with every square empty.
func EmptyBoard() Board {
	var b Board
	for r := range b {
		for c := range b[r] {
			b[r][c] = NoPiece
		}
	}
	return b
}

// InitialBoard returns the standard starting arrangement.
func InitialBoard() Board {
	b := EmptyBoard()
	for col, pt := range backRankOrder {
		b[0][col] = NewPiece(pt, Black)
		b[1][col] = BlackPawn
		b[6][col] = WhitePawn
		b[7][col] = NewPiece(pt, White)
	}
	return b
}

// At returns the piece on sq, or NoPiece if the square is empty.
func (b *Board) At(sq Square) Piece {
	return b[sq.Row()][sq.Col()]
}

func (b *Board) set(sq Square, p Piece) {
	b[sq.Row()][sq.Col()] = p
}

// find returns the first square holding p in row-major order.
func (b *Board) find(p Piece) Square {
	for r := range b {
		for c := range b[r] {
			if b[r][c] == p {
				return NewSquare(r, c)
			}
		}
	}
	return NoSquare
}

// String renders the board with rank 8 at the top.
func (b *Board) String() string {
	var sb strings.Builder
	for r := 0; r < 8; r++ {
		sb.WriteByte(byte('8' - r))
		sb.WriteString("  ")
		for c := 0; c < 8; c++ {
			p := b[r][c]
			if p == NoPiece {
				sb.WriteString(". ")
			} else {
				sb.WriteString(p.String() + " ")
			}
		}
		sb.WriteByte('\n')
	}
	sb.WriteString("\n   a b c d e f g h\n")
	return sb.String()
}
