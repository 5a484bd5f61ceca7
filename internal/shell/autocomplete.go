package shell

import (
	"context"
	"strings"

	"github.com/kballard/go-shellquote"
	"github.com/samber/lo"

	"github.com/hailam/chesscore/internal/storage"
)

var commandNames = []string{
	"new", "board", "moves", "play", "undo", "status", "history", "random",
	"engine", "perft", "save", "load", "delete", "games", "help", "exit",
}

// ShellCompleter completes command names, legal moves and saved game names.
type ShellCompleter struct {
	sc *ShellController
}

func NewShellCompleter(sc *ShellController) *ShellCompleter {
	return &ShellCompleter{sc: sc}
}

// completions returns the candidates for the argument of cmd.
func (c *ShellCompleter) completions(cmd string) []string {
	switch cmd {
	case "play", "p":
		legal, _ := c.sc.game.LegalMoves()
		return notationsOf(legal)
	case "moves", "m":
		legal, _ := c.sc.game.LegalMoves()
		return lo.Uniq(lo.Map(notationsOf(legal), func(s string, _ int) string {
			return s[:2]
		}))
	case "load", "delete", "rm":
		if c.sc.archive == nil {
			return nil
		}
		games, err := c.sc.archive.ListGames(context.Background())
		if err != nil {
			return nil
		}
		return lo.Map(games, func(g storage.GameRecord, _ int) string {
			return g.Name
		})
	case "help", "?":
		return commandNames
	}
	return nil
}

// Do implements the readline.AutoComplete interface.
func (c *ShellCompleter) Do(line []rune, pos int) ([][]rune, int) {
	text := string(line[:pos])

	fields, err := shellquote.Split(text)
	if err != nil {
		fields = strings.Fields(text)
	}
	endsWithSpace := len(text) > 0 && text[len(text)-1] == ' '

	var prefix string
	var completions []string
	if len(fields) == 0 || (len(fields) == 1 && !endsWithSpace) {
		if len(fields) == 1 {
			prefix = fields[0]
		}
		completions = commandNames
		// Bare moves are commands too.
		legal, _ := c.sc.game.LegalMoves()
		completions = append(completions, notationsOf(legal)...)
	} else {
		if len(fields) > 2 || (len(fields) == 2 && endsWithSpace) {
			return nil, 0
		}
		if !endsWithSpace {
			prefix = fields[len(fields)-1]
		}
		completions = c.completions(strings.ToLower(fields[0]))
	}

	matches := lo.FilterMap(completions, func(s string, _ int) ([]rune, bool) {
		if !strings.HasPrefix(s, prefix) {
			return nil, false
		}
		return []rune(s[len(prefix):] + " "), true
	})
	return matches, len([]rune(prefix))
}
