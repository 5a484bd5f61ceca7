// Package shell is the interactive terminal front end for a game.
package shell

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"syscall"

	"github.com/chzyer/readline"
	"github.com/kballard/go-shellquote"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/hailam/chesscore/internal/board"
	"github.com/hailam/chesscore/internal/config"
	"github.com/hailam/chesscore/internal/storage"
)

var (
	errNoGameStore = errors.New("no game store is configured")
	errNoEngine    = errors.New("no engine is configured; set --engine-path")
	errExit        = errors.New("exit requested")
)

// Engine picks moves for the side to move.
type Engine interface {
	NewGame(ctx context.Context) error
	PickMove(ctx context.Context, gs *board.GameState, depth int) (board.Move, error)
}

// Archive stores finished and unfinished games by name.
type Archive interface {
	SaveGame(ctx context.Context, rec *storage.GameRecord) error
	LoadGame(ctx context.Context, name string) (*storage.GameRecord, error)
	DeleteGame(ctx context.Context, name string) error
	ListGames(ctx context.Context) ([]storage.GameRecord, error)
	Stats(ctx context.Context) (*storage.GameStats, error)
}

type Response struct {
	message string
}

func Msg(message string) *Response {
	return &Response{message: message}
}

type ShellController struct {
	l      *readline.Instance
	out    io.Writer
	config *config.Config

	game    *board.GameState
	archive Archive
	engine  Engine
}

func filterInput(r rune) (rune, bool) {
	switch r {
	// block CtrlZ feature
	case readline.CharCtrlZ:
		return r, false
	}
	return r, true
}

func writeln(msg string, w io.Writer) {
	io.WriteString(w, msg)
	io.WriteString(w, "\n")
}

func (sc *ShellController) showMessage(msg string) {
	writeln(msg, sc.out)
}

func (sc *ShellController) showError(err error) {
	sc.showMessage("Error: " + err.Error())
}

// NewShellController creates a controller holding a new game. archive
// and engine may be nil; the commands that need them then fail.
func NewShellController(cfg *config.Config, archive Archive, engine Engine) *ShellController {
	return &ShellController{
		out:     os.Stdout,
		config:  cfg,
		game:    board.NewGameState(),
		archive: archive,
		engine:  engine,
	}
}

// Game returns the game being played.
func (sc *ShellController) Game() *board.GameState {
	return sc.game
}

// Execute runs one command line and returns what should be shown.
func (sc *ShellController) Execute(ctx context.Context, line string) (*Response, error) {
	fields, err := shellquote.Split(line)
	if err != nil {
		return nil, errors.Wrap(err, "parse command")
	}
	if len(fields) == 0 {
		return nil, nil
	}
	cmd := strings.ToLower(fields[0])
	args := fields[1:]

	switch cmd {
	case "new", "n":
		return sc.newGame(ctx)
	case "board", "show", "b":
		return sc.show()
	case "moves", "m":
		return sc.moves(args)
	case "play", "p":
		if len(args) != 1 {
			return nil, errors.New("usage: play <move>, e.g. play e2e4")
		}
		return sc.play(args[0])
	case "undo", "u", "z":
		return sc.undo()
	case "status", "st":
		return sc.status()
	case "history", "h":
		return sc.history()
	case "perft":
		return sc.perft(ctx, args)
	case "random", "r":
		return sc.random()
	case "engine", "e":
		return sc.engineMove(ctx, args)
	case "save":
		return sc.save(ctx, args)
	case "load":
		return sc.load(ctx, args)
	case "delete", "rm":
		return sc.deleteGame(ctx, args)
	case "games", "ls":
		return sc.games(ctx)
	case "help", "?":
		if len(args) == 0 {
			return Msg(usage()), nil
		}
		return Msg(usageTopic(args[0])), nil
	case "exit", "quit", "q":
		return nil, errExit
	default:
		if looksLikeMove(cmd) && len(args) == 0 {
			return sc.play(cmd)
		}
		msg := fmt.Sprintf("command %v not found", strconv.Quote(cmd))
		log.Info().Msg(msg)
		return nil, errors.New(msg)
	}
}

// RunCommand executes line and writes the response or the error.
func (sc *ShellController) RunCommand(ctx context.Context, line string) error {
	resp, err := sc.Execute(ctx, line)
	if err != nil {
		if err != errExit {
			sc.showError(err)
		}
		return err
	}
	if resp != nil {
		sc.showMessage(resp.message)
	}
	return nil
}

// Loop reads commands until exit, EOF or interrupt, then signals sig.
func (sc *ShellController) Loop(ctx context.Context, sig chan os.Signal) error {
	l, err := readline.NewEx(&readline.Config{
		Prompt:          "\033[31m" + strings.TrimRight(sc.config.GetString(config.ConfigPrompt), " ") + "\033[0m ",
		HistoryFile:     sc.config.GetString(config.ConfigHistoryFile),
		EOFPrompt:       "exit",
		InterruptPrompt: "^C",
		AutoComplete:    NewShellCompleter(sc),

		HistorySearchFold:   true,
		FuncFilterInputRune: filterInput,
	})
	if err != nil {
		return errors.Wrap(err, "readline")
	}
	sc.l = l
	sc.out = l.Stdout()
	defer sc.l.Close()

	sc.showMessage(sc.game.String())
	for {
		line, err := sc.l.Readline()
		if err == readline.ErrInterrupt {
			if len(line) == 0 {
				sig <- syscall.SIGINT
				break
			} else {
				continue
			}
		} else if err == io.EOF {
			sig <- syscall.SIGINT
			break
		}
		line = strings.TrimSpace(line)

		if err := sc.RunCommand(ctx, line); err == errExit {
			sig <- syscall.SIGINT
			break
		}
	}
	log.Debug().Msgf("Exiting readline loop...")
	return nil
}
