package board

// CastlingRights represents the available castling options.
type CastlingRights uint8

const (
	WhiteKingSideCastle  CastlingRights = 1 << iota // K
	WhiteQueenSideCastle                            // Q
	BlackKingSideCastle                             // k
	BlackQueenSideCastle                            // q
	NoCastling           CastlingRights = 0
	AllCastling          CastlingRights = WhiteKingSideCastle | WhiteQueenSideCastle | BlackKingSideCastle | BlackQueenSideCastle
)

// String returns the castling rights as "KQkq" letters, or "-" when none remain.
func (cr CastlingRights) String() string {
	if cr == NoCastling {
		return "-"
	}
	s := ""
	if cr&WhiteKingSideCastle != 0 {
		s += "K"
	}
	if cr&WhiteQueenSideCastle != 0 {
		s += "Q"
	}
	if cr&BlackKingSideCastle != 0 {
		s += "k"
	}
	if cr&BlackQueenSideCastle != 0 {
		s += "q"
	}
	return s
}

// CanCastle returns true if the given side can castle in the given direction.
func (cr CastlingRights) CanCastle(c Color, kingSide bool) bool {
	return cr&castleRight(c, kingSide) != 0
}

func castleRight(c Color, kingSide bool) CastlingRights {
	if c == White {
		if kingSide {
			return WhiteKingSideCastle
		}
		return WhiteQueenSideCastle
	}
	if kingSide {
		return BlackKingSideCastle
	}
	return BlackQueenSideCastle
}

// rookHomeRight returns the right tied to a rook standing on its original
// square sq, or NoCastling if sq is not a rook home square for c.
func rookHomeRight(c Color, sq Square) CastlingRights {
	if sq.Row() != c.backRank() {
		return NoCastling
	}
	switch sq.Col() {
	case 7:
		return castleRight(c, true)
	case 0:
		return castleRight(c, false)
	}
	return NoCastling
}

// Rights is the per-ply snapshot of auxiliary state: castling rights and
// the en-passant target. One snapshot is pushed per applied move and
// popped on undo, so both values always move in lockstep.
type Rights struct {
	Castling  CastlingRights
	EnPassant Square // NoSquare when no en-passant capture is possible
}

// InitialRights is the snapshot of the standard starting position.
var InitialRights = Rights{Castling: AllCastling, EnPassant: NoSquare}
