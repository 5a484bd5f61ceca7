// Package uci talks to an external engine over the Universal Chess
// Interface protocol and maps its answers onto legal moves.
package uci

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/hailam/chesscore/internal/board"
)

var (
	// ErrNoBestMove is returned when the engine reports no move, which it
	// does in checkmate and stalemate positions.
	ErrNoBestMove = errors.New("engine has no best move")

	// ErrEngineClosed is returned once the engine's output has ended.
	ErrEngineClosed = errors.New("engine closed")
)

// stopGrace bounds how long a cancelled search may take to report its move.
const stopGrace = 2 * time.Second

// SearchInfo is the last "info" line seen during a search.
type SearchInfo struct {
	Depth int
	Score int // centipawns, from the engine's side
	Mate  int // moves to mate, 0 if not a mate score
	Nodes uint64
	PV    []string
}

// Client is one conversation with an engine. Requests are serialized.
type Client struct {
	w      io.Writer
	closer io.Closer

	lines   chan string
	closed  chan struct{}
	readErr error

	mu        sync.Mutex
	closeOnce sync.Once

	Name    string
	Author  string
	Options []string

	info SearchInfo

	wait func() error
}

// NewClient starts reading engine output from r. Commands are written to
// w, which is closed by Close when it implements io.Closer.
func NewClient(r io.Reader, w io.Writer) *Client {
	c := &Client{
		w:      w,
		lines:  make(chan string, 64),
		closed: make(chan struct{}),
	}
	if wc, ok := w.(io.Closer); ok {
		c.closer = wc
	}
	go c.readLoop(r)
	return c
}

func (c *Client) readLoop(r io.Reader) {
	defer close(c.lines)

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		select {
		case c.lines <- line:
		case <-c.closed:
			return
		}
	}
	c.readErr = scanner.Err()
}

func (c *Client) send(ctx context.Context, format string, args ...any) error {
	line := fmt.Sprintf(format, args...)
	zerolog.Ctx(ctx).Debug().Str("cmd", line).Msg("uci-send")
	if _, err := io.WriteString(c.w, line+"\n"); err != nil {
		return errors.Wrapf(err, "send %q", line)
	}
	return nil
}

// waitFor reads lines until handle reports done. handle gets the fields
// of each non-empty line.
func (c *Client) waitFor(ctx context.Context, handle func(fields []string) (bool, error)) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case line, ok := <-c.lines:
			if !ok {
				if c.readErr != nil {
					return errors.Wrap(ErrEngineClosed, c.readErr.Error())
				}
				return ErrEngineClosed
			}
			zerolog.Ctx(ctx).Debug().Str("line", line).Msg("uci-recv")
			done, err := handle(strings.Fields(line))
			if err != nil || done {
				return err
			}
		}
	}
}

// Handshake sends "uci", records the engine's id and options, and waits
// until the engine is ready.
func (c *Client) Handshake(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.send(ctx, "uci"); err != nil {
		return err
	}
	c.Options = c.Options[:0]
	err := c.waitFor(ctx, func(f []string) (bool, error) {
		switch f[0] {
		case "id":
			if len(f) >= 3 && f[1] == "name" {
				c.Name = strings.Join(f[2:], " ")
			} else if len(f) >= 3 && f[1] == "author" {
				c.Author = strings.Join(f[2:], " ")
			}
		case "option":
			if name := optionName(f); name != "" {
				c.Options = append(c.Options, name)
			}
		case "uciok":
			return true, nil
		}
		return false, nil
	})
	if err != nil {
		return errors.Wrap(err, "uci handshake")
	}
	return c.isReady(ctx)
}

// optionName extracts the name from "option name <words...> type ...".
func optionName(f []string) string {
	if len(f) < 3 || f[1] != "name" {
		return ""
	}
	end := len(f)
	for i := 2; i < len(f); i++ {
		if f[i] == "type" {
			end = i
			break
		}
	}
	return strings.Join(f[2:end], " ")
}

// IsReady sends "isready" and waits for "readyok".
func (c *Client) IsReady(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.isReady(ctx)
}

func (c *Client) isReady(ctx context.Context) error {
	if err := c.send(ctx, "isready"); err != nil {
		return err
	}
	return c.waitFor(ctx, func(f []string) (bool, error) {
		return f[0] == "readyok", nil
	})
}

// SetOption sets an engine option and waits for the engine to apply it.
func (c *Client) SetOption(ctx context.Context, name, value string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.send(ctx, "setoption name %s value %s", name, value); err != nil {
		return err
	}
	return c.isReady(ctx)
}

// NewGame tells the engine that the next position belongs to a new game.
func (c *Client) NewGame(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.send(ctx, "ucinewgame"); err != nil {
		return err
	}
	return c.isReady(ctx)
}

// BestMove sends the game so far as coordinate moves from the start
// position, searches to depth and returns the engine's answer in
// coordinate notation. If ctx ends first the search is stopped.
func (c *Client) BestMove(ctx context.Context, history []string, depth int) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	position := "position startpos"
	if len(history) > 0 {
		position += " moves " + strings.Join(history, " ")
	}
	if err := c.send(ctx, "%s", position); err != nil {
		return "", err
	}
	if err := c.send(ctx, "go depth %d", depth); err != nil {
		return "", err
	}

	c.info = SearchInfo{}
	var best string
	handle := func(f []string) (bool, error) {
		switch f[0] {
		case "info":
			c.parseInfo(f[1:])
		case "bestmove":
			if len(f) < 2 {
				return true, errors.New("bestmove without a move")
			}
			best = f[1]
			return true, nil
		}
		return false, nil
	}

	err := c.waitFor(ctx, handle)
	if ctx.Err() != nil {
		// Drain the bestmove of the aborted search so it cannot answer a
		// later request.
		stopCtx, cancel := context.WithTimeout(context.Background(), stopGrace)
		defer cancel()
		if c.send(stopCtx, "stop") == nil {
			if drainErr := c.waitFor(stopCtx, handle); drainErr != nil {
				log.Warn().Err(drainErr).Msg("engine did not answer stop")
			}
		}
		return "", ctx.Err()
	}
	if err != nil {
		return "", errors.Wrap(err, "search")
	}

	if best == "(none)" || best == "0000" {
		return "", ErrNoBestMove
	}
	zerolog.Ctx(ctx).Debug().Str("move", best).Int("depth", c.info.Depth).
		Int("score", c.info.Score).Msg("uci-bestmove")
	return best, nil
}

// LastInfo returns the last search info reported by BestMove's search.
func (c *Client) LastInfo() SearchInfo {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.info
}

// parseInfo folds one "info" line into c.info.
func (c *Client) parseInfo(f []string) {
	for i := 0; i < len(f); i++ {
		switch f[i] {
		case "depth":
			if i+1 < len(f) {
				c.info.Depth, _ = strconv.Atoi(f[i+1])
				i++
			}
		case "nodes":
			if i+1 < len(f) {
				c.info.Nodes, _ = strconv.ParseUint(f[i+1], 10, 64)
				i++
			}
		case "score":
			if i+2 < len(f) {
				v, _ := strconv.Atoi(f[i+2])
				if f[i+1] == "mate" {
					c.info.Mate, c.info.Score = v, 0
				} else {
					c.info.Score, c.info.Mate = v, 0
				}
				i += 2
			}
		case "pv":
			c.info.PV = append([]string(nil), f[i+1:]...)
			return
		case "string":
			return
		}
	}
}

// MoveList returns the game's moves in UCI long algebraic form. Promotions
// carry the "q" suffix the protocol requires.
func MoveList(gs *board.GameState) []string {
	history := gs.History()
	moves := make([]string, len(history))
	for i, m := range history {
		moves[i] = m.CoordinateNotation()
		if m.Promotion {
			moves[i] += "q"
		}
	}
	return moves
}

// PickMove asks the engine for a move in gs and resolves it against the
// legal moves of gs. An answer outside the legal set is an error.
func (c *Client) PickMove(ctx context.Context, gs *board.GameState, depth int) (board.Move, error) {
	best, err := c.BestMove(ctx, MoveList(gs), depth)
	if err != nil {
		return board.Move{}, err
	}
	m, err := gs.FindMove(best)
	if err != nil {
		return board.Move{}, errors.Wrapf(err, "engine answered %q", best)
	}
	return m, nil
}

// Close sends "quit", closes the command stream and, for engines started
// with Start, waits for the process to exit.
func (c *Client) Close() error {
	var err error
	c.closeOnce.Do(func() {
		c.mu.Lock()
		defer c.mu.Unlock()

		io.WriteString(c.w, "quit\n")
		close(c.closed)
		if c.closer != nil {
			err = c.closer.Close()
		}
		if c.wait != nil {
			if werr := c.wait(); werr != nil && err == nil {
				err = werr
			}
		}
	})
	return err
}
