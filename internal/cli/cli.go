package cli

import (
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/architectures/pkg/buildinfo"
	"github.com/matzehuels/architectures/pkg/cache"
	"github.com/matzehuels/architectures/pkg/errors"
	"github.com/matzehuels/architectures/pkg/render"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "architectures"

	// configFile is the config file name inside the config directory.
	configFile = "config.toml"
)

// Rendering engines selectable with --engine.
const (
	engineAuto     = "auto"
	engineGraphviz = "graphviz"
	engineExec     = "exec"
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

	configPath string
	config     Config
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
		Use:          appName,
		Short:        "Architectures draws cloud system diagrams from code",
		Long:         `Architectures turns HCL diagram declarations into Graphviz-rendered architecture diagrams with provider icons, clusters and flows.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := c.loadConfig(); err != nil {
				return err
			}
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default "+filepath.Join("$XDG_CONFIG_HOME", appName, configFile)+")")

	root.AddCommand(c.renderCommand())
	root.AddCommand(c.iconsCommand())
	root.AddCommand(c.themesCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// loadConfig reads the config file named by --config, or the default one.
// A missing default file leaves the built-in defaults in place.
func (c *CLI) loadConfig() error {
	path := c.configPath
	explicit := path != ""
	if !explicit {
		dir, err := configDir()
		if err != nil {
			return nil
		}
		path = filepath.Join(dir, configFile)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		if !explicit && errors.Is(err, errors.ErrCodeFileNotFound) {
			return nil
		}
		return err
	}
	c.config = cfg
	c.Logger.Debug("loaded config", "path", path)
	return nil
}

// =============================================================================
// Renderer Factory
// =============================================================================

// newRenderer builds the renderer for engine and layout, wrapped with the
// file artifact cache unless noCache is set. Callers close the cache.
func (c *CLI) newRenderer(engine, layout string, noCache bool) (render.Renderer, cache.Cache, error) {
	r, err := c.engine(engine, layout)
	if err != nil {
		return nil, nil, err
	}
	store := c.newCache(noCache)
	return c.cached(r, store)
}

// engine returns the uncached renderer for engine and layout.
func (c *CLI) engine(engine, layout string) (render.Renderer, error) {
	if err := render.ValidateLayout(layout); err != nil {
		return nil, err
	}

	var r render.Renderer
	switch resolveEngine(engine) {
	case engineExec:
		r = render.Exec{Layout: layout}
	case engineGraphviz:
		r = render.Graphviz{Layout: layout}
	default:
		return nil, errors.New(errors.ErrCodeInvalidArgument, "unknown engine %q (must be auto, graphviz, or exec)", engine)
	}
	c.Logger.Debug("renderer", "engine", r.Name(), "layout", layout)
	return r, nil
}

func (c *CLI) cached(r render.Renderer, store cache.Cache) (render.Renderer, cache.Cache, error) {
	ttl, err := c.config.Cache.TTLDuration()
	if err != nil {
		_ = store.Close()
		return nil, nil, err
	}
	return render.Cached(r, store, ttl).WithLogger(c.Logger), store, nil
}

// resolveEngine maps "auto" to exec when the dot binary is installed.
// The library renderer cannot load image files, so icons need the binary.
func resolveEngine(engine string) string {
	if engine != "" && engine != engineAuto {
		return engine
	}
	if render.HasBinary() {
		return engineExec
	}
	return engineGraphviz
}

// newCache opens the file cache. Any failure degrades to no caching.
func (c *CLI) newCache(noCache bool) cache.Cache {
	if noCache || c.config.Cache.Disabled {
		return cache.NewNullCache()
	}
	dir, err := c.cacheDir()
	if err != nil {
		c.Logger.Warn("render cache disabled", "err", err)
		return cache.NewNullCache()
	}
	fc, err := cache.NewFileCache(dir)
	if err != nil {
		c.Logger.Warn("render cache disabled", "err", err)
		return cache.NewNullCache()
	}
	return fc
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/architectures/).
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

// configDir returns the config directory using XDG standard (~/.config/architectures/).
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
