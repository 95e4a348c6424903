// Package cli implements the pacdump command-line interface.
//
// The command tree queries pacman's package databases and dumps reconciled,
// enriched JSON records. Package data goes to stdout (or a file); every
// diagnostic — skipped packages, unmatched names, unsatisfiable dependency
// specifications — goes to stderr, so the emitted stream stays well-formed
// even when individual enrichments degrade.
//
// # Commands
//
//   - query: dump package records, optionally recursing a dependency closure
//   - graph: render a resolved closure as Graphviz DOT or SVG
//   - cache: manage the on-disk reverse-dependency index cache
//   - completion: generate shell completion scripts
//
// All commands support --verbose (-v) for debug-level logging. Loggers are
// passed through context.Context.
package cli

import (
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/pacdump/pacdump/pkg/buildinfo"
	"github.com/pacdump/pacdump/pkg/cache"
)

// appName is the application name used for directories and display.
const appName = "pacdump"

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

// New creates a new CLI instance with a default logger and the on-disk
// configuration (if any) loaded.
func New(w io.Writer, level log.Level) *CLI {
	c := &CLI{Logger: newLogger(w, level)}
	cfg, err := LoadConfig("")
	if err != nil {
		c.Logger.Warn("ignoring config file", "err", err)
		cfg = Config{}
	}
	c.Config = cfg
	return c
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          "pacdump",
		Short:        "pacdump dumps enriched pacman package data as JSON",
		Long: `pacdump queries the pacman databases (the local database of installed
packages and the configured sync repositories) and emits one reconciled,
enriched JSON record per package, including reverse dependencies and
resolved dependency closures.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())

	root.AddCommand(c.queryCommand())
	root.AddCommand(c.graphCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// newCache returns the cache backing the reverse-dependency index.
// Failures to set up the file cache degrade to a null cache; caching is an
// optimization, never a requirement.
func (c *CLI) newCache(noCache bool) cache.Cache {
	if noCache || c.Config.NoCache {
		return cache.NewNullCache()
	}
	dir := c.Config.CacheDir
	if dir == "" {
		var err error
		if dir, err = cacheDir(); err != nil {
			return cache.NewNullCache()
		}
	}
	fc, err := cache.NewFileCache(dir)
	if err != nil {
		return cache.NewNullCache()
	}
	return fc
}

// cacheDir returns the cache directory using XDG standard (~/.cache/pacdump/).
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
