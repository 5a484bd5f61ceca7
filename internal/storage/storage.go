package storage

import (
	"context"
	"encoding/json"
	"sort"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/hailam/chesscore/internal/board"
)

const gamePrefix = "game/"

// Results stored in a GameRecord.
const (
	ResultWhiteWins = "1-0"
	ResultBlackWins = "0-1"
	ResultDraw      = "1/2-1/2"
	ResultOngoing   = "*"
)

var (
	// ErrGameNotFound is returned when no game is stored under a name.
	ErrGameNotFound = errors.New("game not found")

	// ErrBadName is returned for names that cannot be used as a key.
	ErrBadName = errors.New("bad game name")
)

// GameRecord is one archived game: the coordinate moves played from the
// standard starting position.
type GameRecord struct {
	Name    string    `json:"name"`
	Moves   []string  `json:"moves"`
	SavedAt time.Time `json:"saved_at"`
	Result  string    `json:"result"`
}

// NewRecord captures the move log and result of gs under name.
func NewRecord(name string, gs *board.GameState) GameRecord {
	history := gs.History()
	moves := make([]string, len(history))
	for i, m := range history {
		moves[i] = m.CoordinateNotation()
	}
	return GameRecord{
		Name:   name,
		Moves:  moves,
		Result: Result(gs),
	}
}

// Result returns the result string for the current position of gs.
func Result(gs *board.GameState) string {
	_, status := gs.LegalMoves()
	switch {
	case status.Checkmate && gs.SideToMove() == board.White:
		return ResultBlackWins
	case status.Checkmate:
		return ResultWhiteWins
	case status.Stalemate:
		return ResultDraw
	default:
		return ResultOngoing
	}
}

// Replay rebuilds the game described by rec. Each move is resolved
// against the legal moves of the position it was played in.
func Replay(rec GameRecord) (*board.GameState, error) {
	gs := board.NewGameState()
	for i, s := range rec.Moves {
		m, err := gs.FindMove(s)
		if err != nil {
			return nil, errors.Wrapf(err, "game %q move %d", rec.Name, i+1)
		}
		if err := gs.ApplyMove(m); err != nil {
			return nil, errors.Wrapf(err, "game %q move %d", rec.Name, i+1)
		}
	}
	return gs, nil
}

// GameStats summarizes the archive.
type GameStats struct {
	GamesSaved int `json:"games_saved"`
	WhiteWins  int `json:"white_wins"`
	BlackWins  int `json:"black_wins"`
	Draws      int `json:"draws"`
	Unfinished int `json:"unfinished"`
	TotalPlies int `json:"total_plies"`
}

// Storage wraps BadgerDB for persistent storage
type Storage struct {
	db *badger.DB
}

// Open opens the archive in dir. An empty dir opens an in-memory
// database that is discarded on Close.
func Open(dir string) (*Storage, error) {
	opts := badger.DefaultOptions(dir)
	if dir == "" {
		opts = opts.WithInMemory(true)
	}
	opts.Logger = nil // Disable logging

	db, err := badger.Open(opts)
	if err != nil {
		return nil, errors.Wrapf(err, "open database %q", dir)
	}

	return &Storage{db: db}, nil
}

// Close closes the database
func (s *Storage) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func gameKey(name string) ([]byte, error) {
	name = strings.TrimSpace(name)
	if name == "" || strings.ContainsAny(name, "/ \t\n") {
		return nil, errors.Wrapf(ErrBadName, "%q", name)
	}
	return []byte(gamePrefix + name), nil
}

// SaveGame stores rec under its name, replacing any earlier game with
// the same name. SavedAt is set to the current time.
func (s *Storage) SaveGame(ctx context.Context, rec *GameRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	key, err := gameKey(rec.Name)
	if err != nil {
		return err
	}
	if rec.Result == "" {
		rec.Result = ResultOngoing
	}
	rec.SavedAt = time.Now()

	data, err := json.Marshal(rec)
	if err != nil {
		return err
	}

	err = s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(key, data)
	})
	if err != nil {
		return errors.Wrapf(err, "save game %q", rec.Name)
	}
	zerolog.Ctx(ctx).Debug().Str("name", rec.Name).Int("plies", len(rec.Moves)).Msg("saved-game")
	return nil
}

// LoadGame returns the game stored under name, or ErrGameNotFound.
func (s *Storage) LoadGame(ctx context.Context, name string) (*GameRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	key, err := gameKey(name)
	if err != nil {
		return nil, err
	}

	rec := &GameRecord{}
	err = s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key)
		if err == badger.ErrKeyNotFound {
			return errors.Wrapf(ErrGameNotFound, "%q", name)
		}
		if err != nil {
			return err
		}

		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, rec)
		})
	})
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// DeleteGame removes the game stored under name, or returns ErrGameNotFound.
func (s *Storage) DeleteGame(ctx context.Context, name string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	key, err := gameKey(name)
	if err != nil {
		return err
	}

	return s.db.Update(func(txn *badger.Txn) error {
		if _, err := txn.Get(key); err == badger.ErrKeyNotFound {
			return errors.Wrapf(ErrGameNotFound, "%q", name)
		} else if err != nil {
			return err
		}
		return txn.Delete(key)
	})
}

// ListGames returns every archived game, sorted by name.
func (s *Storage) ListGames(ctx context.Context) ([]GameRecord, error) {
	var games []GameRecord

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(gamePrefix)
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			var rec GameRecord
			err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &rec)
			})
			if err != nil {
				return errors.Wrapf(err, "decode %s", it.Item().Key())
			}
			games = append(games, rec)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(games, func(i, j int) bool { return games[i].Name < games[j].Name })
	return games, nil
}

// Stats aggregates the results of every archived game.
func (s *Storage) Stats(ctx context.Context) (*GameStats, error) {
	games, err := s.ListGames(ctx)
	if err != nil {
		return nil, err
	}

	stats := &GameStats{GamesSaved: len(games)}
	for _, g := range games {
		stats.TotalPlies += len(g.Moves)
		switch g.Result {
		case ResultWhiteWins:
			stats.WhiteWins++
		case ResultBlackWins:
			stats.BlackWins++
		case ResultDraw:
			stats.Draws++
		default:
			stats.Unfinished++
		}
	}
	return stats, nil
}
