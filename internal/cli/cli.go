// Package cli implements the stave command-line interface.
//
// This package provides commands for validating and inspecting score
// files, computing engraving layouts, browsing computed layouts in the
// terminal, serving the HTTP API, and managing the layout cache. The
// CLI is built using cobra and supports verbose logging via the
// charmbracelet/log library.
//
// # Commands
//
// The main commands are:
//   - validate: Check a score file against the structural invariants
//   - inspect: Print a summary of a score file
//   - layout: Compute the engraving layout for a score
//   - view: Browse a computed layout interactively
//   - serve: Run the score API server
//   - cache: Manage the layout cache
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Loggers
// are passed through context.Context so long-running stages can report
// structured progress.
package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/notationkit/stave/pkg/buildinfo"
	"github.com/notationkit/stave/pkg/cache"
	"github.com/notationkit/stave/pkg/pipeline"
)

// appName is the application name used for directories and display.
const appName = "stave"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
	Config Config
}

// New creates a new CLI instance with a default logger and the config
// loaded from the standard location (if present).
func New(w io.Writer, level log.Level) *CLI {
	c := &CLI{Logger: newLogger(w, level)}
	c.Config = LoadConfigOrDefault(c.Logger)
	return c
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands
// registered. The logger is attached to the command context and
// accessible to all commands via loggerFromContext.
func (c *CLI) RootCommand() *cobra.Command {
	var verbose bool

	root := &cobra.Command{
		Use:          appName,
		Short:        "Stave engraves musical scores into deterministic layouts",
		Long:         `Stave is a music notation engine. It validates score files, computes deterministic engraving layouts (systems, measures, positioned glyphs), and serves the score-building API.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if verbose {
				c.SetLogLevel(LogDebug)
			}
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")

	root.AddCommand(c.validateCommand())
	root.AddCommand(c.inspectCommand())
	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.viewCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// newRunner creates a pipeline runner for CLI use, honoring the
// configured cache backend.
func (c *CLI) newRunner(noCache bool) (*pipeline.Runner, error) {
	store, err := c.newCache(noCache)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(store, nil, c.Logger), nil
}

// newCache builds the cache for the configured backend. Cache failures
// degrade to the null cache so commands still run.
func (c *CLI) newCache(noCache bool) (cache.Cache, error) {
	if noCache || c.Config.Cache.Backend == cacheBackendNone {
		return cache.NewNullCache(), nil
	}
	if c.Config.Cache.Backend == cacheBackendRedis {
		return cache.NewRedisCache(context.Background(), c.Config.Cache.RedisAddr,
			c.Config.Cache.RedisPassword, c.Config.Cache.RedisDB)
	}
	dir, err := c.cacheLocation()
	if err != nil {
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

// cacheDir returns the cache directory using XDG standard
// (~/.cache/stave/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// configDir returns the config directory using XDG standard
// (~/.config/stave/).
func configDir() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName), nil
}
