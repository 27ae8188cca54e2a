package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/matzehuels/canvaskit/internal/config"
	"github.com/matzehuels/canvaskit/pkg/buildinfo"
	"github.com/matzehuels/canvaskit/pkg/cache"
	"github.com/matzehuels/canvaskit/pkg/service"
	"github.com/matzehuels/canvaskit/pkg/store"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "canvaskit"

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
	backend    string
	noCache    bool
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
	root := &cobra.Command{
		Use:          appName,
		Short:        "canvaskit builds and renders diagram canvases",
		Long:         `canvaskit manages mindmaps, workflows and freeform diagram canvases: create and edit nodes and connections, auto-arrange them, and export to SVG, PNG, DOT or JSON. The same operations are served over REST and the Model Context Protocol.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
		},
	}

	root.SetVersionTemplate(buildinfo.Template())

	flags := root.PersistentFlags()
	flags.StringVar(&c.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/canvaskit/config.toml)")
	flags.StringVar(&c.backend, "store", "", "store backend: memory, file, redis or mongo (overrides config)")
	flags.BoolVar(&c.noCache, "no-cache", false, "disable the export cache")

	root.AddGroup(
		&cobra.Group{ID: "canvas", Title: "Canvas Commands:"},
		&cobra.Group{ID: "edit", Title: "Editing Commands:"},
		&cobra.Group{ID: "server", Title: "Server Commands:"},
	)

	for _, cmd := range []*cobra.Command{
		c.createCommand(),
		c.listCommand(),
		c.showCommand(),
		c.deleteCommand(),
		c.mindmapCommand(),
		c.workflowCommand(),
		c.exportCommand(),
		c.importCommand(),
		c.browseCommand(),
	} {
		cmd.GroupID = "canvas"
		root.AddCommand(cmd)
	}
	for _, cmd := range []*cobra.Command{
		c.addNodeCommand(),
		c.updateNodeCommand(),
		c.deleteNodeCommand(),
		c.connectCommand(),
		c.disconnectCommand(),
		c.branchCommand(),
		c.layoutCommand(),
		c.replayCommand(),
	} {
		cmd.GroupID = "edit"
		root.AddCommand(cmd)
	}
	for _, cmd := range []*cobra.Command{
		c.serveCommand(),
		c.mcpCommand(),
	} {
		cmd.GroupID = "server"
		root.AddCommand(cmd)
	}
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Service Factory
// =============================================================================

// loadConfig reads the config file and applies the --store override.
func (c *CLI) loadConfig() (config.Config, error) {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return config.Config{}, err
	}
	if c.backend != "" {
		cfg.Store.Backend = c.backend
		if err := cfg.Validate(); err != nil {
			return config.Config{}, err
		}
	}
	if c.noCache {
		cfg.Cache.Backend = "none"
	}
	return cfg, nil
}

// openService wires the configured store and cache into a service. The
// returned close func releases both.
func (c *CLI) openService(ctx context.Context) (*service.Service, config.Config, func(), error) {
	cfg, err := c.loadConfig()
	if err != nil {
		return nil, cfg, nil, err
	}
	st, err := store.Open(ctx, cfg.StoreOptions())
	if err != nil {
		return nil, cfg, nil, fmt.Errorf("open %s store: %w", cfg.Store.Backend, err)
	}
	ch, err := newCache(ctx, cfg)
	if err != nil {
		c.Logger.Warn("export cache disabled", "backend", cfg.Cache.Backend, "err", err)
		ch = cache.NewNullCache()
	}
	c.Logger.Debug("opened store", "backend", cfg.Store.Backend, "cache", cfg.Cache.Backend)

	svc := service.New(st,
		service.WithCache(ch, cfg.Cache.TTL),
		service.WithKeyer(cache.NewScopedKeyer(nil, buildinfo.Version+":")),
		service.WithLogger(c.Logger),
		service.WithRenderSize(cfg.Render.Width, cfg.Render.Height),
	)
	closeFn := func() {
		if err := errors.Join(ch.Close(), st.Close()); err != nil {
			c.Logger.Debug("close", "err", err)
		}
	}
	return svc, cfg, closeFn, nil
}

func newCache(ctx context.Context, cfg config.Config) (cache.Cache, error) {
	switch cfg.Cache.Backend {
	case "none":
		return cache.NewNullCache(), nil
	case "redis":
		r := cfg.Store.Redis
		return cache.NewRedisCache(ctx, &redis.Options{Addr: r.Addr, Password: r.Password, DB: r.DB}, r.Prefix+"export:")
	default:
		return cache.NewFileCache(cfg.CacheDir())
	}
}

// withService runs fn against a freshly opened service.
func (c *CLI) withService(cmd *cobra.Command, fn func(ctx context.Context, svc *service.Service) error) error {
	ctx := cmd.Context()
	svc, _, closeFn, err := c.openService(ctx)
	if err != nil {
		return err
	}
	defer closeFn()
	return fn(ctx, svc)
}
