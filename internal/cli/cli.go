package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/pcbgraph/pkg/board"
	"github.com/matzehuels/pcbgraph/pkg/buildinfo"
	"github.com/matzehuels/pcbgraph/pkg/cache"
	pcbio "github.com/matzehuels/pcbgraph/pkg/io"
	"github.com/matzehuels/pcbgraph/pkg/netlist"
	"github.com/matzehuels/pcbgraph/pkg/observability"
	"github.com/matzehuels/pcbgraph/pkg/optimals"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "pcbgraph"

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

	configPath string
	config     Config
	verbose    bool
	short      bool
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		config: DefaultConfig(),
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
		Short: "pcbgraph inspects and places PCB netlist graphs",
		Long: `pcbgraph loads a printed circuit board design exported as node, edge,
optimal and board records, and works with it as a netlist graph: wirelength
(HPWL), placement progress, feature vectors for learning placement policies,
and exports to DOT, GML, SVG, PDF, DXF, JSON and spreadsheets.`,
		Version:       buildinfo.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level := LogInfo
			if c.verbose {
				level = LogDebug
				hooks := &loggingHooks{logger: c.Logger}
				observability.SetGraphHooks(hooks)
				observability.SetCacheHooks(hooks)
			}
			c.SetLogLevel(level)

			cfg, err := LoadConfig(c.configPath, c.configPath != "")
			if err != nil {
				return err
			}
			c.config = cfg
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default ./"+configFile+")")
	root.PersistentFlags().BoolVar(&c.short, "short", false, "read node and edge records in the short format")

	root.AddCommand(c.statsCommand())
	root.AddCommand(c.hpwlCommand())
	root.AddCommand(c.featuresCommand())
	root.AddCommand(c.nextCommand())
	root.AddCommand(c.placeCommand())
	root.AddCommand(c.pruneCommand())
	root.AddCommand(c.optimalsCommand())
	root.AddCommand(c.exportCommand())
	root.AddCommand(c.browseCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Design Loading
// =============================================================================

// design is a loaded design with the paths it came from.
type design struct {
	paths pcbio.Paths
	graph *netlist.Graph
	board board.Board
}

// loadDesign resolves arg with [pcbio.Discover] and loads its records.
func (c *CLI) loadDesign(ctx context.Context, arg string) (*design, error) {
	logger := loggerFromContext(ctx)
	paths, err := pcbio.Discover(arg)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	g, b, err := pcbio.LoadGraph(paths, netlist.FormatFromBool(!c.short))
	if err != nil {
		observability.Graph().OnLoad(ctx, paths.Name, 0, 0, time.Since(start), err)
		return nil, err
	}
	observability.Graph().OnLoad(ctx, paths.Name, g.NodeCount(), g.EdgeCount(), time.Since(start), nil)
	g.SetLogger(logger)
	logger.Debug("loaded design", "name", paths.Name, "nodes", g.NodeCount(), "edges", g.EdgeCount())
	return &design{paths: paths, graph: g, board: b}, nil
}

// =============================================================================
// Backends
// =============================================================================

// newCache opens the configured feature cache, scoped by record version.
func (c *CLI) newCache(ctx context.Context, noCache bool) (cache.Cache, error) {
	cfg := c.config.Cache
	if noCache || cfg.Backend == backendNone {
		return cache.NewNullCache(), nil
	}

	var inner cache.Cache
	switch cfg.Backend {
	case backendRedis:
		rc, err := cache.NewRedisCache(ctx, cache.RedisConfig{Addr: cfg.RedisAddr, DialTimeout: 2 * time.Second})
		if err != nil {
			return nil, err
		}
		inner = rc
	default:
		dir, err := c.fileCacheDir()
		if err != nil {
			return cache.NewNullCache(), nil
		}
		fc, err := cache.NewFileCache(dir)
		if err != nil {
			return nil, err
		}
		inner = fc
	}
	return cache.NewScoped(inner, appName+":"+buildinfo.RecordVersion+":"), nil
}

// newStore opens the configured optimals store.
func (c *CLI) newStore(ctx context.Context) (optimals.Store, error) {
	cfg := c.config.Store
	if cfg.Backend == backendMongo {
		return optimals.NewMongoStore(ctx, optimals.MongoConfig{
			URI:        cfg.MongoURI,
			Database:   cfg.Database,
			Collection: cfg.Collection,
		})
	}
	dir := cfg.Dir
	if dir == "" {
		d, err := dataDir()
		if err != nil {
			return nil, err
		}
		dir = d
	}
	return optimals.NewFileStore(dir)
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/pcbgraph/).
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

// dataDir returns the optimals store directory (~/.local/share/pcbgraph/optimals/).
func dataDir() (string, error) {
	if dataHome := os.Getenv("XDG_DATA_HOME"); dataHome != "" {
		return filepath.Join(dataHome, appName, "optimals"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".local", "share", appName, "optimals"), nil
}
