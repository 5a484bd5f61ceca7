package board

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"lukechampine.com/frand"
)

// randomPlayout plays up to plies random legal moves from the starting
// position and calls visit before each move with the legal move list.
func randomPlayout(t *testing.T, plies int, visit func(gs *GameState, legal []Move)) *GameState {
	t.Helper()
	gs := NewGameState()
	for i := 0; i < plies; i++ {
		legal, _ := gs.LegalMoves()
		visit(gs, legal)
		if len(legal) == 0 {
			break
		}
		m := legal[frand.Intn(len(legal))]
		if err := gs.ApplyMove(m); err != nil {
			t.Fatalf("ply %d: ApplyMove(%s): %v (history %v)", i+1, m, err, notations(gs.History()))
		}
	}
	return gs
}

func TestApplyUndoRestoresState(t *testing.T) {
	for game := 0; game < 20; game++ {
		randomPlayout(t, 80, func(gs *GameState, legal []Move) {
			before := keyOf(gs)
			for _, m := range legal {
				if err := gs.ApplyMove(m); err != nil {
					t.Fatalf("ApplyMove(%s): %v", m, err)
				}
				if !gs.UndoLastMove() {
					t.Fatalf("UndoLastMove() after %s = false", m)
				}
				if diff := cmp.Diff(before, keyOf(gs)); diff != "" {
					t.Fatalf("apply/undo of %s did not restore state (-before +after):\n%s\nhistory %v",
						m, diff, notations(gs.History()))
				}
			}
		})
	}
}

func TestLegalMovesNeverLeaveKingAttacked(t *testing.T) {
	for game := 0; game < 20; game++ {
		randomPlayout(t, 80, func(gs *GameState, legal []Move) {
			us := gs.SideToMove()
			for _, m := range legal {
				gs.makeMove(m)
				if gs.InCheck(us) {
					t.Errorf("%s leaves the %s king on %s attacked (history %v)",
						m, us, gs.KingSquare(us), notations(gs.History()))
				}
				gs.unmakeMove()
			}
		})
	}
}

func TestAttackedMatchesOpponentDestinations(t *testing.T) {
	// For an occupied king square the targeted attack test must agree with
	// scanning the opponent's pseudo-legal destinations.
	for game := 0; game < 20; game++ {
		randomPlayout(t, 80, func(gs *GameState, _ []Move) {
			for _, side := range [2]Color{White, Black} {
				king := gs.KingSquare(side)
				want := false
				for _, m := range gs.PseudoLegalMoves(side.Other()) {
					if m.To == king {
						want = true
						break
					}
				}
				if got := gs.InCheck(side); got != want {
					t.Fatalf("InCheck(%s) = %v, opponent destinations say %v\n%s", side, got, want, gs)
				}
			}
		})
	}
}

func TestRightsLogLength(t *testing.T) {
	gs := NewGameState()
	check := func() {
		t.Helper()
		if len(gs.rights) != len(gs.moves)+1 {
			t.Fatalf("len(rights) = %d, len(moves) = %d", len(gs.rights), len(gs.moves))
		}
	}
	check()
	play(t, gs, "e2e4", "e7e5", "g1f3")
	check()
	gs.UndoLastMove()
	check()
	gs.UndoLastMove()
	gs.UndoLastMove()
	check()
	if gs.UndoLastMove() {
		t.Error("UndoLastMove() on empty history = true")
	}
	check()
	if diff := cmp.Diff(keyOf(NewGameState()), keyOf(gs)); diff != "" {
		t.Errorf("state after undoing everything differs from a new game (-want +got):\n%s", diff)
	}
}

func TestUndoRestoresPriorEnPassantTarget(t *testing.T) {
	gs := NewGameState()
	play(t, gs, "e2e4", "a7a6", "e4e5", "d7d5")
	if gs.Rights().EnPassant != D6 {
		t.Fatalf("en passant target = %s, want d6", gs.Rights().EnPassant)
	}

	play(t, gs, "g1f3")
	if gs.Rights().EnPassant != NoSquare {
		t.Fatalf("en passant target after g1f3 = %s, want none", gs.Rights().EnPassant)
	}

	gs.UndoLastMove()
	if gs.Rights().EnPassant != D6 {
		t.Errorf("en passant target after undo = %s, want d6", gs.Rights().EnPassant)
	}
	if _, err := gs.FindMove("e5d6"); err != nil {
		t.Errorf("e5d6 not available after undo: %v", err)
	}

	// Undoing the double step itself restores the target that preceded it.
	gs.UndoLastMove()
	if gs.Rights().EnPassant != NoSquare {
		t.Errorf("en passant target after undoing d7d5 = %s, want none", gs.Rights().EnPassant)
	}
}

func TestUndoEnPassantCapture(t *testing.T) {
	gs := NewGameState()
	play(t, gs, "e2e4", "a7a6", "e4e5", "d7d5")
	before := keyOf(gs)

	play(t, gs, "e5d6")
	if gs.PieceAt(D5) != NoPiece || gs.PieceAt(D6) != WhitePawn || gs.PieceAt(E5) != NoPiece {
		t.Fatalf("en passant capture left\n%s", gs)
	}

	gs.UndoLastMove()
	if diff := cmp.Diff(before, keyOf(gs)); diff != "" {
		t.Errorf("undo of en passant (-want +got):\n%s", diff)
	}
	if gs.PieceAt(D5) != BlackPawn || gs.PieceAt(D6) != NoPiece {
		t.Errorf("captured pawn not restored behind the destination\n%s", gs)
	}
}

func TestApplyMoveRejectsIllegal(t *testing.T) {
	gs := NewGameState()
	legal, _ := gs.LegalMoves()
	before := keyOf(gs)

	e2e4, err := gs.FindMove("e2e4")
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		move Move
	}{
		{"wrong side", Move{From: E7, To: E5, Moved: BlackPawn, Captured: NoPiece}},
		{"not a pawn move", Move{From: E2, To: E5, Moved: WhitePawn, Captured: NoPiece}},
		{"forged capture", Move{From: e2e4.From, To: e2e4.To, Moved: WhitePawn, Captured: BlackQueen}},
		{"forged promotion", Move{From: e2e4.From, To: e2e4.To, Moved: WhitePawn, Captured: NoPiece, Promotion: true}},
		{"zero move", Move{}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := gs.ApplyMove(tc.move)
			if !errors.Is(err, ErrIllegalMove) {
				t.Errorf("ApplyMove(%+v) error = %v, want %v", tc.move, err, ErrIllegalMove)
			}
			if diff := cmp.Diff(before, keyOf(gs)); diff != "" {
				t.Errorf("rejected move changed state (-want +got):\n%s", diff)
			}
		})
	}

	if len(legal) != 20 {
		t.Errorf("len(legal) = %d, want 20", len(legal))
	}
}

func TestMoveEquality(t *testing.T) {
	gs := NewGameState()
	m, _ := gs.FindMove("g1f3")
	coordsOnly := Move{From: G1, To: F3}

	if !m.Equal(coordsOnly) {
		t.Error("Equal should compare coordinates only")
	}
	if m.Identical(coordsOnly) {
		t.Error("Identical should compare every field")
	}
	if got := m.CoordinateNotation(); got != "g1f3" {
		t.Errorf("CoordinateNotation() = %q, want g1f3", got)
	}
}

func TestCloneIsIndependent(t *testing.T) {
	gs := NewGameState()
	play(t, gs, "e2e4")
	c := gs.Clone()
	play(t, c, "e7e5", "g1f3")

	if gs.Ply() != 1 || c.Ply() != 3 {
		t.Errorf("Ply() = %d original, %d clone; want 1 and 3", gs.Ply(), c.Ply())
	}
	if gs.PieceAt(E5) != NoPiece {
		t.Error("clone moves leaked into the original board")
	}
	if last, _ := gs.LastMove(); last.String() != "e2e4" {
		t.Errorf("original last move = %s, want e2e4", last)
	}
}

func TestSnapshot(t *testing.T) {
	gs := NewGameState()
	snap := gs.Snapshot()
	snap[6][4] = NoPiece
	if gs.PieceAt(E2) != WhitePawn {
		t.Error("writing to a snapshot changed the game")
	}
	if snap[0][4] != BlackKing || snap[7][3] != WhiteQueen {
		t.Errorf("snapshot layout wrong:\n%s", snap.String())
	}
}
