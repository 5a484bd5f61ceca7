// ChessPlay - a terminal chess game with an optional UCI opponent
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/hailam/chesscore/internal/config"
	"github.com/hailam/chesscore/internal/shell"
	"github.com/hailam/chesscore/internal/storage"
	"github.com/hailam/chesscore/internal/uci"
)

func main() {
	cfg := &config.Config{}
	if err := cfg.Load(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	output := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	output.FormatLevel = func(i interface{}) string {
		return strings.ToUpper(fmt.Sprintf("| %-6s|", i))
	}
	output.FormatMessage = func(i interface{}) string {
		return fmt.Sprintf("%s", i)
	}
	output.FormatFieldName = func(i interface{}) string {
		return fmt.Sprintf("%s:", i)
	}

	var logger zerolog.Logger
	if cfg.GetBool(config.ConfigDebug) {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
		logger = zerolog.New(output).Level(zerolog.DebugLevel).With().Timestamp().Logger()
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
		logger = zerolog.New(output).Level(zerolog.InfoLevel).With().Timestamp().Logger()
	}
	zerolog.DefaultContextLogger = &logger
	log.Logger = logger
	logger.Debug().Msg("Debug logging is on")

	dataDir := cfg.GetString(config.ConfigDataDir)
	if dataDir == "" {
		var err error
		if dataDir, err = storage.DataDir(); err != nil {
			log.Fatal().Err(err).Msg("no data directory")
		}
	}
	cfg.AdjustPaths(dataDir)

	dbDir := ""
	if !cfg.GetBool(config.ConfigMemoryStore) {
		var err error
		if dbDir, err = storage.DatabaseDir(dataDir); err != nil {
			log.Fatal().Err(err).Msg("no database directory")
		}
	}
	store, err := storage.Open(dbDir)
	if err != nil {
		log.Fatal().Err(err).Msg("could not open the game archive")
	}
	defer store.Close()

	ctx, cancel := context.WithCancel(logger.WithContext(context.Background()))
	defer cancel()

	var engine shell.Engine
	if path := cfg.GetString(config.ConfigEnginePath); path != "" {
		client, err := uci.Start(ctx, path)
		if err != nil {
			log.Error().Err(err).Str("path", path).Msg("engine not started; the engine command is disabled")
		} else {
			defer client.Close()
			engine = client
		}
	}

	done := make(chan struct{})
	sig := make(chan os.Signal, 1)
	go func() {
		signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
		<-sig
		log.Debug().Msg("got quit signal...")
		close(done)
	}()

	sc := shell.NewShellController(cfg, store, engine)
	if args := cfg.Args(); len(args) > 0 {
		sc.RunCommand(ctx, strings.Join(args, " "))
		sig <- syscall.SIGINT
	} else {
		go func() {
			if err := sc.Loop(ctx, sig); err != nil {
				log.Error().Err(err).Msg("shell")
				sig <- syscall.SIGINT
			}
		}()
	}

	<-done
}
