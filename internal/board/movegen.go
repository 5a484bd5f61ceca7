package board

// LegalMoves returns every legal move for the side to move together with
// the check, checkmate and stalemate flags of the position.
func (gs *GameState) LegalMoves() ([]Move, Status) {
	us := gs.side
	moves := gs.filterLegalMoves(gs.PseudoLegalMoves(us))

	inCheck := gs.InCheck(us)
	if !inCheck {
		moves = gs.appendCastlingMoves(moves, us)
	}

	status := Status{InCheck: inCheck}
	if len(moves) == 0 {
		status.Checkmate = inCheck
		status.Stalemate = !inCheck
	}
	return moves, status
}

// filterLegalMoves trial-applies each candidate and keeps the ones that
// do not leave the mover's king attacked. Filters ml in place.
func (gs *GameState) filterLegalMoves(ml []Move) []Move {
	legal := ml[:0]
	for _, m := range ml {
		us := m.Moved.Color()
		gs.makeMove(m)
		if !gs.InCheck(us) {
			legal = append(legal, m)
		}
		gs.unmakeMove()
	}
	return legal
}

// PseudoLegalMoves generates every move obeying the movement and occupancy
// rules for side, ignoring king safety. Castling is not included.
// The board is scanned row-major from a8.
func (gs *GameState) PseudoLegalMoves(side Color) []Move {
	ml := make([]Move, 0, 48)
	for r := 0; r < 8; r++ {
		for c := 0; c < 8; c++ {
			p := gs.board[r][c]
			if p == NoPiece || p.Color() != side {
				continue
			}
			from := NewSquare(r, c)
			switch p.Type() {
			case Pawn:
				ml = gs.generatePawnMoves(ml, from, p)
			case Knight:
				ml = gs.generateStepMoves(ml, from, p, knightOffsets[:])
			case Bishop:
				ml = gs.generateSlidingMoves(ml, from, p, bishopDirections[:])
			case Rook:
				ml = gs.generateSlidingMoves(ml, from, p, rookDirections[:])
			case Queen:
				ml = gs.generateSlidingMoves(ml, from, p, rookDirections[:])
				ml = gs.generateSlidingMoves(ml, from, p, bishopDirections[:])
			case King:
				ml = gs.generateStepMoves(ml, from, p, kingOffsets[:])
			}
		}
	}
	return ml
}

// generatePawnMoves adds pushes, double pushes, captures and en passant.
func (gs *GameState) generatePawnMoves(ml []Move, from Square, pawn Piece) []Move {
	us := pawn.Color()
	dir := us.forward()
	row, col := from.Row(), from.Col()
	lastRow := us.Other().backRank()
	ep := gs.Rights().EnPassant

	add := func(to Square, captured Piece, enPassant bool) {
		ml = append(ml, Move{
			From:      from,
			To:        to,
			Moved:     pawn,
			Captured:  captured,
			EnPassant: enPassant,
			Promotion: to.Row() == lastRow,
		})
	}

	// Pushes
	r := row + dir
	if onBoard(r, col) && gs.board[r][col] == NoPiece {
		add(NewSquare(r, col), NoPiece, false)
		r2 := row + 2*dir
		if row == us.pawnRank() && onBoard(r2, col) && gs.board[r2][col] == NoPiece {
			add(NewSquare(r2, col), NoPiece, false)
		}
	}

	// Captures, left then right
	for _, dc := range [2]int{-1, 1} {
		c := col + dc
		if !onBoard(r, c) {
			continue
		}
		to := NewSquare(r, c)
		target := gs.board[r][c]
		if target != NoPiece && target.Color() != us {
			add(to, target, false)
		} else if target == NoPiece && to == ep && us == gs.side &&
			gs.board[row][c] == NewPiece(Pawn, us.Other()) {
			add(to, NewPiece(Pawn, us.Other()), true)
		}
	}
	return ml
}

// generateStepMoves adds single-step moves for knights and kings.
func (gs *GameState) generateStepMoves(ml []Move, from Square, p Piece, offsets []offset) []Move {
	row, col := from.Row(), from.Col()
	for _, o := range offsets {
		r, c := row+o.dr, col+o.dc
		if !onBoard(r, c) {
			continue
		}
		target := gs.board[r][c]
		if target != NoPiece && target.Color() == p.Color() {
			continue
		}
		ml = append(ml, Move{From: from, To: NewSquare(r, c), Moved: p, Captured: target})
	}
	return ml
}

// generateSlidingMoves walks each ray until it leaves the board or hits a piece.
func (gs *GameState) generateSlidingMoves(ml []Move, from Square, p Piece, dirs []offset) []Move {
	row, col := from.Row(), from.Col()
	for _, d := range dirs {
		r, c := row+d.dr, col+d.dc
		for onBoard(r, c) {
			target := gs.board[r][c]
			if target == NoPiece {
				ml = append(ml, Move{From: from, To: NewSquare(r, c), Moved: p, Captured: NoPiece})
			} else {
				if target.Color() != p.Color() {
					ml = append(ml, Move{From: from, To: NewSquare(r, c), Moved: p, Captured: target})
				}
				break
			}
			r += d.dr
			c += d.dc
		}
	}
	return ml
}

// appendCastlingMoves adds castling for side. The caller has already
// checked that side is not in check.
func (gs *GameState) appendCastlingMoves(ml []Move, side Color) []Move {
	rights := gs.Rights().Castling
	row := side.backRank()
	king := NewPiece(King, side)
	from := NewSquare(row, 4)
	if gs.board[row][4] != king {
		return ml
	}
	them := side.Other()
	rook := NewPiece(Rook, side)

	// Kingside: f and g empty and unattacked.
	if rights.CanCastle(side, true) && gs.board[row][7] == rook &&
		gs.board[row][5] == NoPiece && gs.board[row][6] == NoPiece &&
		!gs.Attacked(NewSquare(row, 5), them) && !gs.Attacked(NewSquare(row, 6), them) {
		ml = append(ml, Move{From: from, To: NewSquare(row, 6), Moved: king, Captured: NoPiece, Castle: true})
	}

	// Queenside: b, c and d empty; only c and d are crossed by the king.
	if rights.CanCastle(side, false) && gs.board[row][0] == rook &&
		gs.board[row][1] == NoPiece && gs.board[row][2] == NoPiece && gs.board[row][3] == NoPiece &&
		!gs.Attacked(NewSquare(row, 3), them) && !gs.Attacked(NewSquare(row, 2), them) {
		ml = append(ml, Move{From: from, To: NewSquare(row, 2), Moved: king, Captured: NoPiece, Castle: true})
	}
	return ml
}

// HasLegalMoves returns true if the side to move has any legal move.
func (gs *GameState) HasLegalMoves() bool {
	moves, _ := gs.LegalMoves()
	return len(moves) > 0
}

// IsCheckmate returns true if the side to move is checkmated.
func (gs *GameState) IsCheckmate() bool {
	_, st := gs.LegalMoves()
	return st.Checkmate
}

// IsStalemate returns true if the side to move has no moves and is not in check.
func (gs *GameState) IsStalemate() bool {
	_, st := gs.LegalMoves()
	return st.Stalemate
}
