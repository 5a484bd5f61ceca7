// Command chessplay-perft counts move-generation leaf nodes, for checking
// the rules against published perft tables and for profiling.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"runtime/pprof"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
	"github.com/spf13/pflag"

	"github.com/hailam/chesscore/internal/board"
)

var (
	cpuprofile = pflag.String("cpuprofile", "", "write cpu profile to file")
	depth      = pflag.IntP("depth", "d", 4, "perft depth")
	workers    = pflag.IntP("workers", "w", runtime.NumCPU(), "goroutines splitting the root moves")
	moves      = pflag.StringP("moves", "m", "", "coordinate moves to play from the start position first, e.g. \"e2e4 e7e5\"")
	divide     = pflag.Bool("divide", false, "print the count below each root move")
)

func main() {
	pflag.Parse()
	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
		With().Timestamp().Logger()

	// Start CPU profiling if requested (via flag or environment variable)
	profilePath := *cpuprofile
	if profilePath == "" {
		profilePath = os.Getenv("CPUPROFILE")
	}
	if profilePath != "" {
		f, err := os.Create(profilePath)
		if err != nil {
			log.Fatal().Err(err).Msg("could not create CPU profile")
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			log.Fatal().Err(err).Msg("could not start CPU profile")
		}
		defer pprof.StopCPUProfile()
		log.Info().Str("path", profilePath).Msg("CPU profiling enabled")
	}

	gs := board.NewGameState()
	for _, s := range strings.Fields(*moves) {
		m, err := gs.FindMove(s)
		if err != nil {
			log.Fatal().Err(err).Msg("bad move list")
		}
		if err := gs.ApplyMove(m); err != nil {
			log.Fatal().Err(err).Msg("bad move list")
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	start := time.Now()
	counts, total, err := board.Divide(ctx, gs, *depth, *workers)
	if err != nil {
		log.Error().Err(err).Msg("perft")
		return
	}
	elapsed := time.Since(start)

	if *divide {
		keys := lo.Keys(counts)
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Printf("%s: %d\n", k, counts[k])
		}
		fmt.Println()
	}
	fmt.Printf("Nodes searched: %d\n", total)
	log.Info().Int("depth", *depth).Dur("elapsed", elapsed).
		Float64("nps", float64(total)/elapsed.Seconds()).Msg("perft done")
}
