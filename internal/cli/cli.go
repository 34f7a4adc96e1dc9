// Package cli implements the impactriver command-line interface.
package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/matzehuels/impactriver/pkg/buildinfo"
	"github.com/matzehuels/impactriver/pkg/cache"
	"github.com/matzehuels/impactriver/pkg/dataset"
	"github.com/matzehuels/impactriver/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "impactriver"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	v      *viper.Viper
	config Config
	out    io.Writer
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		v:      viper.New(),
		out:    os.Stdout,
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "impactriver charts who changed a git repository and when",
		Long: `impactriver turns git history into a contribution river: one flowing band per
author across time buckets, its thickness tracking lines changed. Hovering an
author highlights their band and shows its per-bucket sizes.`,
		Version:       buildinfo.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := c.loadConfig(cmd); err != nil {
				return err
			}
			if c.config.Verbose {
				c.SetLogLevel(LogDebug)
			}
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.SetOut(c.out)

	pf := root.PersistentFlags()
	pf.String(keyConfig, "", "config file (default .impactriver.toml in . or $HOME)")
	pf.BoolP(keyVerbose, "v", false, "enable verbose logging")
	pf.Bool(keyNoCache, false, "disable caching")
	pf.String(keyCacheDir, "", "cache directory (default $XDG_CACHE_HOME/impactriver)")
	pf.String(keyRedisAddr, "", "redis address or URL for a shared cache")

	// Register all subcommands
	root.AddCommand(c.collectCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.statsCommand())
	root.AddCommand(c.exploreCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(ctx context.Context) (*pipeline.Runner, error) {
	ch, err := c.newCache(ctx)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(ch, nil, c.Logger), nil
}

// newCache opens the configured cache. A configured but unreachable redis
// falls back to the file cache.
func (c *CLI) newCache(ctx context.Context) (cache.Cache, error) {
	if c.config.NoCache {
		return cache.NewNullCache(), nil
	}
	if c.config.RedisAddr != "" {
		rc, err := cache.NewRedisCache(ctx, cache.RedisConfig{Addr: c.config.RedisAddr})
		if err == nil {
			c.Logger.Debug("using redis cache", "addr", c.config.RedisAddr)
			return rc, nil
		}
		c.Logger.Warn("redis unavailable, using file cache", "error", err)
	}
	dir := c.config.CacheDir
	if dir == "" {
		d, err := cacheDir()
		if err != nil {
			return cache.NewNullCache(), nil
		}
		dir = d
	}
	return cache.NewFileCache(dir)
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/impactriver/).
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

// =============================================================================
// Input Helpers
// =============================================================================

// loadInput reads a dataset file, or ingests the history of a git repository
// when path is a directory. The bool reports an ingest served from the cache.
func (c *CLI) loadInput(ctx context.Context, runner *pipeline.Runner, path string, opts pipeline.Options) (*dataset.Dataset, bool, error) {
	if st, err := os.Stat(path); err == nil && st.IsDir() {
		opts.Repo = path
		ds, info, err := runner.IngestWithCacheInfo(ctx, opts)
		return ds, info.Hit, err
	}
	ds, err := dataset.Import(path)
	return ds, false, err
}

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return []string{pipeline.DefaultFormat}
	}
	var out []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}
