// Package cli implements the asana-deps-graph command-line interface.
//
// The root command fetches a project's task dependency graph and writes
// DOT or Mermaid text to stdout. Subcommands expose the same pipeline
// over HTTP (serve), manage the response cache, verify the credential
// (whoami), and generate shell completions.
//
// Diagnostics, spinner, and logging all go to stderr; stdout carries
// graph description text only.
package cli

import (
	"context"
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/asanagraph/asana-deps-graph/internal/config"
	"github.com/asanagraph/asana-deps-graph/pkg/asana"
	"github.com/asanagraph/asana-deps-graph/pkg/buildinfo"
	"github.com/asanagraph/asana-deps-graph/pkg/cache"
	"github.com/asanagraph/asana-deps-graph/pkg/errors"
)

// appName is the application name used for directories and display.
const appName = "asana-deps-graph"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	var (
		graphviz   bool
		mermaid    bool
		decorate   bool
		check      bool
		output     string
		noCache    bool
		configPath string
	)

	root := &cobra.Command{
		Use:   appName + " [project_id]",
		Short: "Render an Asana project's task dependency graph",
		Long: `asana-deps-graph fetches the tasks of an Asana project and renders their
dependency graph as Graphviz DOT (default) or Mermaid flowchart text on
stdout, ready to pipe into dot or the Mermaid CLI.

The access token is read from ASANA_ACCESS_TOKEN (or ASANA_PAT), falling
back to ~/.config/asana-deps-graph/config.toml. When project_id is
omitted, an interactive picker lists your workspaces and projects.`,
		Example: `  asana-deps-graph 1201234567890123 | dot -Tsvg > deps.svg
  asana-deps-graph -m 1201234567890123 | mmdc -o deps.png
  asana-deps-graph --decorate 1201234567890123`,
		Version:      buildinfo.Version,
		Args:         cobra.MaximumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			format := formatFromFlags(graphviz, mermaid)
			projectID := ""
			if len(args) == 1 {
				projectID = args[0]
			}
			return c.runGraph(cmd.Context(), graphParams{
				projectID:  projectID,
				format:     format,
				decorate:   decorate,
				check:      check,
				output:     output,
				noCache:    noCache,
				configPath: configPath,
			})
		},
	}

	root.SetVersionTemplate(buildinfo.Template())

	root.Flags().BoolVarP(&graphviz, "graphviz", "g", false, "emit Graphviz DOT (default)")
	root.Flags().BoolVarP(&mermaid, "mermaid", "m", false, "emit Mermaid flowchart")
	root.MarkFlagsMutuallyExclusive("graphviz", "mermaid")
	root.Flags().BoolVar(&decorate, "decorate", false, "style nodes by milestone/completed/blocked status")
	root.Flags().BoolVar(&check, "check", false, "validate emitted DOT with Graphviz before printing")
	root.Flags().StringVarP(&output, "output", "o", "", "write output to file instead of stdout")
	root.PersistentFlags().BoolVar(&noCache, "no-cache", false, "disable the HTTP response cache")
	root.PersistentFlags().StringVar(&configPath, "config", "", "config file (default ~/.config/asana-deps-graph/config.toml)")

	root.AddCommand(c.serveCommand(&configPath, &noCache))
	root.AddCommand(c.whoamiCommand(&configPath))
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// newClient builds an Asana client from resolved configuration.
func (c *CLI) newClient(ctx context.Context, cfg *config.Config, noCache bool) (*asana.Client, error) {
	token := cfg.Token()
	if token == "" {
		return nil, errors.New(errors.ErrCodeMissingToken,
			"no access token: set ASANA_ACCESS_TOKEN or add access_token to the config file")
	}
	store := c.newCache(ctx, cfg, noCache)
	return asana.NewClient(token, asana.WithCache(store, cfg.TTL())), nil
}

// newCache selects a cache backend. Backend failures degrade to a working
// cache with a warning rather than aborting the run.
func (c *CLI) newCache(ctx context.Context, cfg *config.Config, noCache bool) cache.Cache {
	if noCache || cfg.Cache.Backend == config.BackendNone {
		return cache.NewNullCache()
	}

	if cfg.Cache.Backend == config.BackendRedis {
		store, err := cache.NewRedisCache(ctx, cache.RedisConfig{
			Addr: cfg.Cache.RedisAddr,
			DB:   cfg.Cache.RedisDB,
		})
		if err == nil {
			return store
		}
		c.Logger.Warn("redis cache unavailable, falling back to file cache", "err", err)
	}

	dir, err := config.CacheDir()
	if err != nil {
		return cache.NewNullCache()
	}
	store, err := cache.NewFileCache(dir)
	if err != nil {
		return cache.NewNullCache()
	}
	return store
}

// formatFromFlags maps the mutually exclusive format flags to a format name.
func formatFromFlags(graphviz, mermaid bool) string {
	if mermaid {
		return "mermaid"
	}
	return "dot"
}
