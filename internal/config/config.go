// Package config loads settings from flags, environment and defaults.
package config

import (
	"path/filepath"
	"runtime"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	ConfigDebug        = "debug"
	ConfigDataDir      = "data-dir"
	ConfigHistoryFile  = "history-file"
	ConfigEnginePath   = "engine-path"
	ConfigEngineDepth  = "engine-depth"
	ConfigPerftWorkers = "perft-workers"
	ConfigPrompt       = "prompt"
	ConfigMemoryStore  = "memory-store"
)

// Config holds every setting under the keys declared above.
type Config struct {
	*viper.Viper

	args []string
}

func DefaultConfig() *Config {
	c := &Config{Viper: viper.New()}
	c.setDefaults()
	return c
}

func (c *Config) setDefaults() {
	c.SetDefault(ConfigDebug, false)
	c.SetDefault(ConfigDataDir, "")
	c.SetDefault(ConfigHistoryFile, "")
	c.SetDefault(ConfigEnginePath, "")
	c.SetDefault(ConfigEngineDepth, 12)
	c.SetDefault(ConfigPerftWorkers, runtime.NumCPU())
	c.SetDefault(ConfigPrompt, "chess> ")
	c.SetDefault(ConfigMemoryStore, false)
}

// Load reads flags from args, then CHESSPLAY_* environment variables.
// Flags win over the environment, which wins over defaults.
func (c *Config) Load(args []string) error {
	c.Viper = viper.New()
	c.setDefaults()

	fs := pflag.NewFlagSet("chessplay", pflag.ContinueOnError)
	fs.Bool(ConfigDebug, false, "enable debug logging")
	fs.String(ConfigDataDir, "", "directory holding the game archive (default: platform data directory)")
	fs.String(ConfigHistoryFile, "", "readline history file (default: <data-dir>/history)")
	fs.String(ConfigEnginePath, "", "path to a UCI engine binary")
	fs.Int(ConfigEngineDepth, 12, "search depth requested from the UCI engine")
	fs.Int(ConfigPerftWorkers, runtime.NumCPU(), "goroutines used by perft")
	fs.String(ConfigPrompt, "chess> ", "shell prompt")
	fs.Bool(ConfigMemoryStore, false, "keep saved games in memory only")
	if err := fs.Parse(args); err != nil {
		return err
	}
	c.args = fs.Args()
	if err := c.BindPFlags(fs); err != nil {
		return errors.Wrap(err, "bind flags")
	}

	c.SetEnvPrefix("chessplay")
	c.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	c.AutomaticEnv()

	if c.GetInt(ConfigEngineDepth) < 1 {
		return errors.Errorf("%s must be at least 1, got %d", ConfigEngineDepth, c.GetInt(ConfigEngineDepth))
	}
	if c.GetInt(ConfigPerftWorkers) < 1 {
		return errors.Errorf("%s must be at least 1, got %d", ConfigPerftWorkers, c.GetInt(ConfigPerftWorkers))
	}
	return nil
}

// Args returns the arguments left after flag parsing.
func (c *Config) Args() []string {
	return c.args
}

// AdjustPaths fills path settings that default to a location under the
// data directory. dataDir is used when data-dir is unset.
func (c *Config) AdjustPaths(dataDir string) {
	if c.GetString(ConfigDataDir) == "" {
		c.Set(ConfigDataDir, dataDir)
	}
	if c.GetString(ConfigHistoryFile) == "" {
		c.Set(ConfigHistoryFile, filepath.Join(c.GetString(ConfigDataDir), "history"))
	}
}
