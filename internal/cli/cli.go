package cli

import (
	"context"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/matzehuels/gjoin/pkg/buildinfo"
	"github.com/matzehuels/gjoin/pkg/cache"
	"github.com/matzehuels/gjoin/pkg/config"
	"github.com/matzehuels/gjoin/pkg/errors"
	"github.com/matzehuels/gjoin/pkg/graphmap"
	"github.com/matzehuels/gjoin/pkg/intersect"
	"github.com/matzehuels/gjoin/pkg/pagerank"
	"github.com/matzehuels/gjoin/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "gjoin"

	// redisPasswordEnv holds the Redis password; it is never read from the
	// config file.
	redisPasswordEnv = "GJOIN_REDIS_PASSWORD"
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
	Config *config.Config

	// RunID identifies one invocation in logs.
	RunID string

	configPath  string
	metricsAddr string
}

// New creates a new CLI instance with a default logger and configuration.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Config: config.Default(),
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
		Short: "gjoin counts graph motifs with worst-case optimal joins",
		Long: `gjoin evaluates graph pattern queries such as triangle counting with the
GenericJoin algorithm, executed attribute by attribute over a cluster of
in-process workers and a memory-mapped graph file.`,
		Version:           buildinfo.Version,
		SilenceUsage:      true,
		PersistentPreRunE: c.setup,
	}

	root.SetVersionTemplate(buildinfo.Template())

	flags := root.PersistentFlags()
	flags.StringVar(&c.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/gjoin/config.toml)")
	flags.StringVar(&c.metricsAddr, "metrics-addr", "", "serve /metrics and /healthz on this address while the command runs")

	// Register all subcommands
	root.AddCommand(c.trianglesCommand())
	root.AddCommand(c.joinCommand())
	root.AddCommand(c.pagerankCommand())
	root.AddCommand(c.convertCommand())
	root.AddCommand(c.inspectCommand())
	root.AddCommand(c.planCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// setup loads the configuration and tags the logger with a fresh run id.
func (c *CLI) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}
	if c.metricsAddr != "" {
		cfg.Metrics.Addr = c.metricsAddr
	}
	if cfg.Metrics.Addr != "" {
		if err := validateListenAddr(cfg.Metrics.Addr); err != nil {
			return err
		}
	}
	c.Config = cfg

	c.RunID = uuid.NewString()
	c.Logger = c.Logger.With("run_id", c.RunID[:8])
	c.SetLogLevel(parseLevel(cfg.Log.Level))

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cmd.SetContext(withLogger(ctx, c.Logger))
	c.Logger.Debug("config loaded", "path", c.configPath, "cache", cfg.Cache.Backend, "workers", cfg.Workers.Count)
	return nil
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner backed by the configured cache.
// The caller closes the runner's cache.
func (c *CLI) newRunner(ctx context.Context) *pipeline.Runner {
	return pipeline.NewRunner(c.newCache(ctx), nil, c.Logger)
}

// newCache opens the configured cache backend. A backend that cannot be
// opened disables caching with a warning; queries never fail because of it.
func (c *CLI) newCache(ctx context.Context) cache.Cache {
	cfg := c.Config.Cache
	switch cfg.Backend {
	case config.CacheNone:
		return cache.NewNullCache()
	case config.CacheRedis:
		rc, err := cache.NewRedisCache(ctx, cache.RedisOptions{
			Addr:     cfg.RedisAddr,
			Password: os.Getenv(redisPasswordEnv),
			Prefix:   cfg.Prefix,
		})
		if err != nil {
			c.Logger.Warn("redis cache unavailable, caching disabled", "addr", cfg.RedisAddr, "err", err)
			return cache.NewNullCache()
		}
		return rc
	default:
		fc, err := cache.NewFileCache(cfg.Dir)
		if err != nil {
			c.Logger.Warn("file cache unavailable, caching disabled", "dir", cfg.Dir, "err", err)
			return cache.NewNullCache()
		}
		return fc
	}
}

// =============================================================================
// Options Helpers
// =============================================================================

// runFlags are the flags shared by the query commands. Unset flags fall
// back to the configuration file.
type runFlags struct {
	workers   int
	crossover int
	refresh   bool
}

func (f *runFlags) register(cmd *cobra.Command) {
	cmd.Flags().IntVarP(&f.workers, "workers", "w", 1, "number of in-process workers")
	cmd.Flags().IntVar(&f.crossover, "crossover", intersect.DefaultCrossover, "gallop when the smaller list is this many times shorter (0 = always merge)")
	cmd.Flags().BoolVar(&f.refresh, "refresh", false, "ignore cached results")
}

// options merges the configuration with the flags set on cmd.
func (c *CLI) options(cmd *cobra.Command, f *runFlags) pipeline.Options {
	cfg := c.Config
	opts := pipeline.Options{
		Workers:     cfg.Workers.Count,
		Intersector: cfg.Intersector(),
		Refresh:     f.refresh,
		TTL:         cfg.Cache.TTL.Duration,
		Logger:      c.Logger,
		PageRank: pagerank.Options{
			Iterations: cfg.PageRank.Iterations,
			Damping:    cfg.PageRank.Damping,
			Tolerance:  cfg.PageRank.Tolerance,
		},
	}
	if cmd.Flags().Changed("workers") {
		opts.Workers = f.workers
	}
	if cmd.Flags().Changed("crossover") {
		opts.Intersector = intersect.Intersector{Crossover: f.crossover}
	}
	return opts
}

// =============================================================================
// Graph Helpers
// =============================================================================

// openGraph validates path and memory-maps the graph file.
func openGraph(path string) (*graphmap.Graph, error) {
	if err := errors.ValidateFilePath(path); err != nil {
		return nil, err
	}
	return graphmap.Open(path)
}
