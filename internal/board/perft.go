package board

import (
	"context"
	"sync"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

// Perft counts the number of leaf nodes at the given depth.
// This is the standard way to verify move generation correctness.
func Perft(gs *GameState, depth int) int64 {
	if depth == 0 {
		return 1
	}

	moves, _ := gs.LegalMoves()
	if depth == 1 {
		return int64(len(moves))
	}

	var nodes int64
	for _, m := range moves {
		gs.makeMove(m)
		nodes += Perft(gs, depth-1)
		gs.unmakeMove()
	}
	return nodes
}

// perft is Perft with cancellation, checked at every interior node.
func perft(ctx context.Context, gs *GameState, depth int) (int64, error) {
	if depth < 2 {
		return Perft(gs, depth), nil
	}
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	moves, _ := gs.LegalMoves()
	var nodes int64
	for _, m := range moves {
		gs.makeMove(m)
		n, err := perft(ctx, gs, depth-1)
		gs.unmakeMove()
		if err != nil {
			return 0, err
		}
		nodes += n
	}
	return nodes, nil
}

// Divide runs Perft below every root move and returns the per-move counts
// keyed by coordinate notation, plus the total. Root moves are spread over
// at most workers goroutines, each working on its own clone of gs.
// Cancelling ctx stops subtrees that are already running.
func Divide(ctx context.Context, gs *GameState, depth, workers int) (map[string]int64, int64, error) {
	if depth < 1 {
		return nil, 0, errors.Errorf("perft depth must be at least 1, got %d", depth)
	}
	if workers < 1 {
		workers = 1
	}

	root, _ := gs.LegalMoves()
	counts := make(map[string]int64, len(root))
	var mu sync.Mutex

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for _, m := range root {
		clone := gs.Clone()
		g.Go(func() error {
			clone.makeMove(m)
			n, err := perft(ctx, clone, depth-1)
			if err != nil {
				return err
			}
			mu.Lock()
			counts[m.String()] = n
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, 0, err
	}

	var total int64
	for _, n := range counts {
		total += n
	}
	return counts, total, nil
}
