package board

import (
	"fmt"
	"strings"
)

// Status holds the terminal-state flags of the last legal-move query.
type Status struct {
	InCheck   bool
	Checkmate bool
	Stalemate bool
}

// String returns a short description of the status.
func (s Status) String() string {
	switch {
	case s.Checkmate:
		return "checkmate"
	case s.Stalemate:
		return "stalemate"
	case s.InCheck:
		return "check"
	default:
		return "in progress"
	}
}

// GameState is a chess game in progress. It is mutated only through
// ApplyMove and UndoLastMove and is not safe for concurrent use.
type GameState struct {
	board Board
	side  Color

	// King positions (cached for check detection)
	kings [2]Square

	moves  []Move
	rights []Rights // len(rights) == len(moves)+1; the last entry is current
}

// NewGameState creates the standard starting position with white to move.
func NewGameState() *GameState {
	return &GameState{
		board:  InitialBoard(),
		side:   White,
		kings:  [2]Square{E1, E8},
		rights: []Rights{InitialRights},
	}
}

// SideToMove returns the color whose turn it is.
func (gs *GameState) SideToMove() Color {
	return gs.side
}

// KingSquare returns the cached king square for c.
func (gs *GameState) KingSquare(c Color) Square {
	return gs.kings[c]
}

// Rights returns the current castling rights and en-passant target.
func (gs *GameState) Rights() Rights {
	return gs.rights[len(gs.rights)-1]
}

// Status returns the check, checkmate and stalemate flags of the current
// position. They are recomputed on every call.
func (gs *GameState) Status() Status {
	_, st := gs.LegalMoves()
	return st
}

// Ply returns the number of moves in the log.
func (gs *GameState) Ply() int {
	return len(gs.moves)
}

// Snapshot returns a copy of the board grid for rendering.
func (gs *GameState) Snapshot() Board {
	return gs.board
}

// PieceAt returns the piece at the given square, or NoPiece if empty.
func (gs *GameState) PieceAt(sq Square) Piece {
	return gs.board.At(sq)
}

// History returns a copy of the move log, oldest first.
func (gs *GameState) History() []Move {
	out := make([]Move, len(gs.moves))
	copy(out, gs.moves)
	return out
}

// LastMove returns the most recent move and false if the log is empty.
func (gs *GameState) LastMove() (Move, bool) {
	if len(gs.moves) == 0 {
		return Move{}, false
	}
	return gs.moves[len(gs.moves)-1], true
}

// Clone returns an independent deep copy of the game.
func (gs *GameState) Clone() *GameState {
	c := *gs
	c.moves = append([]Move(nil), gs.moves...)
	c.rights = append([]Rights(nil), gs.rights...)
	return &c
}

// String returns a visual representation of the game.
func (gs *GameState) String() string {
	var sb strings.Builder
	sb.WriteByte('\n')
	sb.WriteString(gs.board.String())
	sb.WriteByte('\n')
	r := gs.Rights()
	fmt.Fprintf(&sb, "Side to move: %s\n", gs.side)
	fmt.Fprintf(&sb, "Castling: %s\n", r.Castling)
	fmt.Fprintf(&sb, "En passant: %s\n", r.EnPassant)
	fmt.Fprintf(&sb, "Ply: %d\n", len(gs.moves))
	return sb.String()
}

// checkInvariants panics when the king cache or the log lengths have
// drifted from the board. A failure here is a programming error.
func (gs *GameState) checkInvariants() {
	if len(gs.rights) != len(gs.moves)+1 {
		panic(fmt.Sprintf("board: rights log has %d entries for %d moves", len(gs.rights), len(gs.moves)))
	}
	for _, c := range [2]Color{White, Black} {
		if gs.board.At(gs.kings[c]) != NewPiece(King, c) {
			panic(fmt.Sprintf("board: %s king cache %s does not match the board", c, gs.kings[c]))
		}
	}
}
