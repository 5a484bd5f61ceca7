package board

import (
	"context"
	"errors"
	"testing"
	"time"
)

var kiwipete = [8]string{
	"r...k..r",
	"p.ppqpb.",
	"bn..pnp.",
	"...PN...",
	".p..P...",
	"..N..Q.p",
	"PPPBBPPP",
	"R...K..R",
}

// TestPerftStartingPosition tests move generation from the starting position.
func TestPerftStartingPosition(t *testing.T) {
	gs := NewGameState()

	tests := []struct {
		depth    int
		expected int64
	}{
		{1, 20},
		{2, 400},
		{3, 8902},
		{4, 197281},
	}

	for _, tc := range tests {
		t.Run("", func(t *testing.T) {
			got := Perft(gs, tc.depth)
			if got != tc.expected {
				t.Errorf("Perft(%d) = %d, want %d", tc.depth, got, tc.expected)
			}
		})
	}
}

// TestPerftKiwipete tests the Kiwipete position with many edge cases.
// No promotion is reachable within three plies, so the queen-only rule
// does not change the counts.
func TestPerftKiwipete(t *testing.T) {
	gs := newTestState(t, kiwipete, White, Rights{Castling: AllCastling, EnPassant: NoSquare})

	tests := []struct {
		depth    int
		expected int64
	}{
		{1, 48},
		{2, 2039},
		{3, 97862},
	}

	for _, tc := range tests {
		t.Run("", func(t *testing.T) {
			got := Perft(gs, tc.depth)
			if got != tc.expected {
				t.Errorf("Perft(%d) = %d, want %d", tc.depth, got, tc.expected)
			}
		})
	}
}

// TestPerftPosition3 tests en passant edge cases.
func TestPerftPosition3(t *testing.T) {
	gs := newTestState(t, [8]string{
		"........",
		"..p.....",
		"...p....",
		"KP.....r",
		".R...p.k",
		"........",
		"....P.P.",
		"........",
	}, White, Rights{Castling: NoCastling, EnPassant: NoSquare})

	tests := []struct {
		depth    int
		expected int64
	}{
		{1, 14},
		{2, 191},
		{3, 2812},
		{4, 43238},
	}

	for _, tc := range tests {
		t.Run("", func(t *testing.T) {
			got := Perft(gs, tc.depth)
			if got != tc.expected {
				t.Errorf("Perft(%d) = %d, want %d", tc.depth, got, tc.expected)
			}
		})
	}
}

// TestPerftEnPassantPin covers the horizontal pin: black's e4 pawn may
// not take d3 en passant because that opens the fourth rank to the rook.
func TestPerftEnPassantPin(t *testing.T) {
	gs := newTestState(t, [8]string{
		"........",
		"........",
		"........",
		"........",
		"k..Pp..R",
		"........",
		"........",
		"....K...",
	}, Black, Rights{Castling: NoCastling, EnPassant: D3})

	moves, _ := gs.LegalMoves()
	for _, m := range moves {
		if m.EnPassant {
			t.Errorf("en passant move %v should be illegal (horizontal pin)", m)
		}
	}

	// Depth 1: Ka3, Ka5, Kb3, Kb4, Kb5, e3 = 6 moves
	tests := []struct {
		depth    int
		expected int64
	}{
		{1, 6},
		{2, 94},
	}

	for _, tc := range tests {
		t.Run("", func(t *testing.T) {
			got := Perft(gs, tc.depth)
			if got != tc.expected {
				t.Errorf("Perft(%d) = %d, want %d", tc.depth, got, tc.expected)
			}
		})
	}
}

func TestDivide(t *testing.T) {
	gs := newTestState(t, kiwipete, White, Rights{Castling: AllCastling, EnPassant: NoSquare})
	before := keyOf(gs)

	counts, total, err := Divide(context.Background(), gs, 2, 4)
	if err != nil {
		t.Fatalf("Divide: %v", err)
	}
	if total != 2039 {
		t.Errorf("total = %d, want 2039", total)
	}
	if len(counts) != 48 {
		t.Errorf("len(counts) = %d, want 48", len(counts))
	}
	var sum int64
	for _, n := range counts {
		sum += n
	}
	if sum != total {
		t.Errorf("sum of counts = %d, total = %d", sum, total)
	}
	if keyOf(gs) != before {
		t.Error("Divide modified the input game")
	}
}

func TestDivideErrors(t *testing.T) {
	gs := NewGameState()
	if _, _, err := Divide(context.Background(), gs, 0, 1); err == nil {
		t.Error("Divide at depth 0 should fail")
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, _, err := Divide(ctx, gs, 3, 2); err == nil {
		t.Error("Divide with a cancelled context should fail")
	}
}

func TestDivideStopsRunningSubtrees(t *testing.T) {
	// Depth 7 from the start takes minutes; every root task is already
	// running when the deadline passes.
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, _, err := Divide(ctx, NewGameState(), 7, 4)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("Divide error = %v, want %v", err, context.DeadlineExceeded)
	}
	if elapsed := time.Since(start); elapsed > 5*time.Second {
		t.Errorf("Divide took %s to notice the deadline", elapsed)
	}
}
