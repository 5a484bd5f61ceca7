package board

import "github.com/pkg/errors"

// DebugMoveValidation enables invariant checks after every make and unmake.
// Tests switch it on; it panics on the first inconsistency.
var DebugMoveValidation = false

// ApplyMove plays m, which must be one of the moves LegalMoves returns
// for the current position. Any other move is rejected with ErrIllegalMove
// and the game is left untouched.
func (gs *GameState) ApplyMove(m Move) error {
	legal, _ := gs.LegalMoves()
	for _, l := range legal {
		if !l.Equal(m) {
			continue
		}
		if !l.Identical(m) {
			break
		}
		gs.makeMove(l)
		return nil
	}
	return errors.Wrapf(ErrIllegalMove, "%s for %s", m, gs.side)
}

// UndoLastMove takes back the most recent move. It returns false and does
// nothing when the log is empty.
func (gs *GameState) UndoLastMove() bool {
	if len(gs.moves) == 0 {
		return false
	}
	gs.unmakeMove()
	return true
}

// makeMove applies m without validating it and pushes the move and the
// resulting rights snapshot.
func (gs *GameState) makeMove(m Move) {
	us := m.Moved.Color()
	them := us.Other()
	prev := gs.Rights()

	gs.board.set(m.From, NoPiece)
	if m.Promotion {
		gs.board.set(m.To, NewPiece(Queen, us))
	} else {
		gs.board.set(m.To, m.Moved)
	}

	if m.EnPassant {
		gs.board.set(m.capturedSquare(), NoPiece)
	}

	if m.Castle {
		rookFrom, rookTo := m.castleRookSquares()
		gs.board.set(rookTo, gs.board.At(rookFrom))
		gs.board.set(rookFrom, NoPiece)
	}

	if m.Moved.Type() == King {
		gs.kings[us] = m.To
	}

	next := Rights{Castling: prev.Castling, EnPassant: NoSquare}

	// Set en passant square for double pawn push
	if m.Moved.Type() == Pawn && abs(m.To.Row()-m.From.Row()) == 2 {
		next.EnPassant = NewSquare((m.From.Row()+m.To.Row())/2, m.From.Col())
	}

	// Update castling rights
	switch m.Moved.Type() {
	case King:
		next.Castling &^= castleRight(us, true) | castleRight(us, false)
	case Rook:
		next.Castling &^= rookHomeRight(us, m.From)
	}
	if m.Captured.Type() == Rook {
		next.Castling &^= rookHomeRight(them, m.To)
	}

	gs.moves = append(gs.moves, m)
	gs.rights = append(gs.rights, next)
	gs.side = them

	if DebugMoveValidation {
		gs.checkInvariants()
	}
}

// unmakeMove pops the last move and restores the position before it,
// including the rights snapshot that was active at that time.
func (gs *GameState) unmakeMove() {
	m := gs.moves[len(gs.moves)-1]
	gs.moves = gs.moves[:len(gs.moves)-1]
	gs.rights = gs.rights[:len(gs.rights)-1]

	us := m.Moved.Color()

	gs.board.set(m.From, m.Moved)
	if m.EnPassant {
		gs.board.set(m.To, NoPiece)
		gs.board.set(m.capturedSquare(), m.Captured)
	} else {
		gs.board.set(m.To, m.Captured)
	}

	if m.Castle {
		rookFrom, rookTo := m.castleRookSquares()
		gs.board.set(rookFrom, gs.board.At(rookTo))
		gs.board.set(rookTo, NoPiece)
	}

	if m.Moved.Type() == King {
		gs.kings[us] = m.From
	}

	gs.side = us

	if DebugMoveValidation {
		gs.checkInvariants()
	}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
