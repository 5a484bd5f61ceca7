package board

import (
	"testing"
)

func init() {
	DebugMoveValidation = true
}

// newTestState builds a game from an 8-line diagram, rank 8 first.
// Letters follow the usual PNBRQK convention, '.' is an empty square.
func newTestState(t *testing.T, diagram [8]string, side Color, rights Rights) *GameState {
	t.Helper()
	b := EmptyBoard()
	for r, line := range diagram {
		if len(line) != 8 {
			t.Fatalf("diagram row %d has %d squares, want 8", r, len(line))
		}
		for c := 0; c < 8; c++ {
			if line[c] == '.' {
				continue
			}
			p := PieceFromChar(line[c])
			if p == NoPiece {
				t.Fatalf("diagram row %d: unknown piece %q", r, line[c])
			}
			b[r][c] = p
		}
	}
	gs := &GameState{
		board:  b,
		side:   side,
		kings:  [2]Square{b.find(WhiteKing), b.find(BlackKing)},
		rights: []Rights{rights},
	}
	if gs.kings[White] == NoSquare || gs.kings[Black] == NoSquare {
		t.Fatal("diagram must contain both kings")
	}
	return gs
}

// play applies a sequence of coordinate moves, failing the test on the first error.
func play(t *testing.T, gs *GameState, moves ...string) {
	t.Helper()
	for _, s := range moves {
		m, err := gs.FindMove(s)
		if err != nil {
			t.Fatalf("FindMove(%q): %v\n%s", s, err, gs)
		}
		if err := gs.ApplyMove(m); err != nil {
			t.Fatalf("ApplyMove(%s): %v", s, err)
		}
	}
}

// notations returns the coordinate notation of each move.
func notations(moves []Move) []string {
	out := make([]string, len(moves))
	for i, m := range moves {
		out[i] = m.String()
	}
	return out
}

func containsMove(moves []Move, s string) bool {
	for _, m := range moves {
		if m.String() == s {
			return true
		}
	}
	return false
}

// stateKey is the part of a GameState that make/undo must restore exactly.
type stateKey struct {
	Board   Board
	Side    Color
	Kings   [2]Square
	Rights  Rights
	Ply     int
	RightsN int
}

func keyOf(gs *GameState) stateKey {
	return stateKey{
		Board:   gs.board,
		Side:    gs.side,
		Kings:   gs.kings,
		Rights:  gs.Rights(),
		Ply:     len(gs.moves),
		RightsN: len(gs.rights),
	}
}
