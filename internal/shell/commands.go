package shell

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
	"lukechampine.com/frand"

	"github.com/hailam/chesscore/internal/board"
	"github.com/hailam/chesscore/internal/config"
	"github.com/hailam/chesscore/internal/storage"
)

// looksLikeMove reports whether s has the shape of coordinate notation,
// so a bare "e2e4" can be typed without the play command.
func looksLikeMove(s string) bool {
	if len(s) != 4 && !(len(s) == 5 && s[4] == 'q') {
		return false
	}
	if _, err := board.ParseSquare(s[0:2]); err != nil {
		return false
	}
	_, err := board.ParseSquare(s[2:4])
	return err == nil
}

func notationsOf(moves []board.Move) []string {
	return lo.Map(moves, func(m board.Move, _ int) string {
		return m.CoordinateNotation()
	})
}

func (sc *ShellController) newGame(ctx context.Context) (*Response, error) {
	sc.game = board.NewGameState()
	if sc.engine != nil {
		if err := sc.engine.NewGame(ctx); err != nil {
			return nil, errors.Wrap(err, "engine new game")
		}
	}
	return Msg(sc.game.String()), nil
}

func (sc *ShellController) show() (*Response, error) {
	return Msg(sc.game.String()), nil
}

func (sc *ShellController) moves(args []string) (*Response, error) {
	legal, _ := sc.game.LegalMoves()
	if len(args) > 0 {
		from, err := board.ParseSquare(args[0])
		if err != nil {
			return nil, err
		}
		legal = lo.Filter(legal, func(m board.Move, _ int) bool {
			return m.From == from
		})
	}
	if len(legal) == 0 {
		return Msg("No legal moves"), nil
	}
	return Msg(fmt.Sprintf("%d moves: %s", len(legal), strings.Join(notationsOf(legal), " "))), nil
}

func (sc *ShellController) play(notation string) (*Response, error) {
	m, err := sc.game.FindMove(notation)
	if err != nil {
		return nil, err
	}
	return sc.commit(m)
}

// commit applies m and describes the resulting position.
func (sc *ShellController) commit(m board.Move) (*Response, error) {
	mover := sc.game.SideToMove()
	if err := sc.game.ApplyMove(m); err != nil {
		return nil, err
	}
	log.Debug().Str("move", m.String()).Int("ply", sc.game.Ply()).Msg("played")

	var sb strings.Builder
	fmt.Fprintf(&sb, "%s plays %s\n", mover, m)
	sb.WriteString(sc.game.String())
	if line := sc.statusLine(); line != "" {
		sb.WriteString(line)
	}
	return Msg(strings.TrimRight(sb.String(), "\n")), nil
}

// statusLine describes check and the end of the game, or returns "".
func (sc *ShellController) statusLine() string {
	_, status := sc.game.LegalMoves()
	side := sc.game.SideToMove()
	switch {
	case status.Checkmate:
		return fmt.Sprintf("Checkmate, %s wins\n", side.Other())
	case status.Stalemate:
		return "Stalemate, the game is drawn\n"
	case status.InCheck:
		return fmt.Sprintf("%s is in check\n", side)
	}
	return ""
}

func (sc *ShellController) undo() (*Response, error) {
	last, ok := sc.game.LastMove()
	if !sc.game.UndoLastMove() || !ok {
		return nil, errors.New("nothing to undo")
	}
	return Msg(fmt.Sprintf("Took back %s\n%s", last, sc.game)), nil
}

func (sc *ShellController) status() (*Response, error) {
	legal, status := sc.game.LegalMoves()
	r := sc.game.Rights()
	return Msg(fmt.Sprintf("%s to move, ply %d, %d legal moves, %s (castling %s, en passant %s)",
		sc.game.SideToMove(), sc.game.Ply(), len(legal), status, r.Castling, r.EnPassant)), nil
}

func (sc *ShellController) history() (*Response, error) {
	moves := notationsOf(sc.game.History())
	if len(moves) == 0 {
		return Msg("No moves played"), nil
	}
	pairs := lo.Chunk(moves, 2)
	lines := lo.Map(pairs, func(pair []string, i int) string {
		return fmt.Sprintf("%3d. %s", i+1, strings.Join(pair, " "))
	})
	return Msg(strings.Join(lines, "\n")), nil
}

func (sc *ShellController) perft(ctx context.Context, args []string) (*Response, error) {
	if len(args) != 1 {
		return nil, errors.New("usage: perft <depth>")
	}
	depth, err := strconv.Atoi(args[0])
	if err != nil {
		return nil, errors.Wrapf(err, "bad depth %q", args[0])
	}

	start := time.Now()
	counts, total, err := board.Divide(ctx, sc.game, depth, sc.config.GetInt(config.ConfigPerftWorkers))
	if err != nil {
		return nil, err
	}
	elapsed := time.Since(start)

	keys := lo.Keys(counts)
	sort.Strings(keys)
	var sb strings.Builder
	for _, k := range keys {
		fmt.Fprintf(&sb, "%s: %d\n", k, counts[k])
	}
	fmt.Fprintf(&sb, "\nNodes searched: %d (depth %d, %s)", total, depth, elapsed.Round(time.Millisecond))
	return Msg(sb.String()), nil
}

func (sc *ShellController) random() (*Response, error) {
	legal, _ := sc.game.LegalMoves()
	if len(legal) == 0 {
		return nil, errors.New("game is over")
	}
	return sc.commit(legal[frand.Intn(len(legal))])
}

func (sc *ShellController) engineMove(ctx context.Context, args []string) (*Response, error) {
	if sc.engine == nil {
		return nil, errNoEngine
	}
	depth := sc.config.GetInt(config.ConfigEngineDepth)
	if len(args) > 0 {
		d, err := strconv.Atoi(args[0])
		if err != nil || d < 1 {
			return nil, errors.Errorf("bad depth %q", args[0])
		}
		depth = d
	}
	if !sc.game.HasLegalMoves() {
		return nil, errors.New("game is over")
	}

	m, err := sc.engine.PickMove(ctx, sc.game, depth)
	if err != nil {
		return nil, errors.Wrap(err, "engine")
	}
	return sc.commit(m)
}

func nameArg(args []string, cmd string) (string, error) {
	if len(args) != 1 {
		return "", errors.Errorf("usage: %s <name>", cmd)
	}
	return args[0], nil
}

func (sc *ShellController) save(ctx context.Context, args []string) (*Response, error) {
	if sc.archive == nil {
		return nil, errNoGameStore
	}
	name, err := nameArg(args, "save")
	if err != nil {
		return nil, err
	}
	rec := storage.NewRecord(name, sc.game)
	if err := sc.archive.SaveGame(ctx, &rec); err != nil {
		return nil, err
	}
	return Msg(fmt.Sprintf("Saved %q (%d moves, %s)", name, len(rec.Moves), rec.Result)), nil
}

func (sc *ShellController) load(ctx context.Context, args []string) (*Response, error) {
	if sc.archive == nil {
		return nil, errNoGameStore
	}
	name, err := nameArg(args, "load")
	if err != nil {
		return nil, err
	}
	rec, err := sc.archive.LoadGame(ctx, name)
	if err != nil {
		return nil, err
	}
	gs, err := storage.Replay(*rec)
	if err != nil {
		return nil, err
	}
	sc.game = gs
	if sc.engine != nil {
		if err := sc.engine.NewGame(ctx); err != nil {
			return nil, errors.Wrap(err, "engine new game")
		}
	}
	return Msg(fmt.Sprintf("Loaded %q\n%s", name, sc.game)), nil
}

func (sc *ShellController) deleteGame(ctx context.Context, args []string) (*Response, error) {
	if sc.archive == nil {
		return nil, errNoGameStore
	}
	name, err := nameArg(args, "delete")
	if err != nil {
		return nil, err
	}
	if err := sc.archive.DeleteGame(ctx, name); err != nil {
		return nil, err
	}
	return Msg(fmt.Sprintf("Deleted %q", name)), nil
}

func (sc *ShellController) games(ctx context.Context) (*Response, error) {
	if sc.archive == nil {
		return nil, errNoGameStore
	}
	games, err := sc.archive.ListGames(ctx)
	if err != nil {
		return nil, err
	}
	if len(games) == 0 {
		return Msg("No saved games"), nil
	}
	stats, err := sc.archive.Stats(ctx)
	if err != nil {
		return nil, err
	}

	var sb strings.Builder
	for _, g := range games {
		fmt.Fprintf(&sb, "%-20s %4d plies  %-7s  %s\n", g.Name, len(g.Moves), g.Result,
			g.SavedAt.Format(time.DateTime))
	}
	fmt.Fprintf(&sb, "\n%d games: %d white wins, %d black wins, %d draws, %d unfinished",
		stats.GamesSaved, stats.WhiteWins, stats.BlackWins, stats.Draws, stats.Unfinished)
	return Msg(sb.String()), nil
}
