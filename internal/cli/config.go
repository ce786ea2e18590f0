package cli

import (
	"os"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/architectures/pkg/errors"
	"github.com/matzehuels/architectures/pkg/render"
	"github.com/matzehuels/architectures/pkg/theme"
)

// defaultCacheTTL is how long rendered artifacts stay cached.
const defaultCacheTTL = 7 * 24 * time.Hour

// Config holds user defaults read from config.toml. Command-line flags
// override every field.
//
//	format     = "svg"
//	engine     = "exec"
//	theme      = "clean"
//	icon_root  = "/usr/share/architectures"
//	output_dir = "diagrams"
//
//	[cache]
//	ttl = "72h"
//
//	[server]
//	addr  = ":8080"
//	redis = "localhost:6379"
type Config struct {
	Format    string       `toml:"format"`
	Engine    string       `toml:"engine"`
	Layout    string       `toml:"layout"`
	Theme     string       `toml:"theme"`
	ThemeFile string       `toml:"theme_file"`
	IconRoot  string       `toml:"icon_root"`
	OutputDir string       `toml:"output_dir"`
	Cache     CacheConfig  `toml:"cache"`
	Server    ServerConfig `toml:"server"`
}

// CacheConfig configures the render artifact cache.
type CacheConfig struct {
	Disabled bool   `toml:"disabled"`
	Dir      string `toml:"dir"`
	TTL      string `toml:"ttl"`
}

// TTLDuration parses TTL. An empty TTL means the default of one week.
func (c CacheConfig) TTLDuration() (time.Duration, error) {
	if c.TTL == "" {
		return defaultCacheTTL, nil
	}
	d, err := time.ParseDuration(c.TTL)
	if err != nil {
		return 0, errors.Wrap(errors.ErrCodeConfiguration, err, "invalid cache ttl %q", c.TTL)
	}
	return d, nil
}

// ServerConfig configures the serve command.
type ServerConfig struct {
	Addr          string `toml:"addr"`
	AllowedOrigin string `toml:"allowed_origin"`
	Redis         string `toml:"redis"`
	RedisPassword string `toml:"redis_password"`
	RedisDB       int    `toml:"redis_db"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() Config {
	return Config{
		Format: render.DefaultFormat,
		Engine: engineAuto,
		Theme:  theme.NameDefault,
		Server: ServerConfig{Addr: ":8080"},
	}
}

// LoadConfig reads a config file over the defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, errors.New(errors.ErrCodeFileNotFound, "config file not found: %s", path)
		}
		return cfg, errors.Wrap(errors.ErrCodeConfiguration, err, "read config %s", path)
	}
	md, err := toml.Decode(string(data), &cfg)
	if err != nil {
		return DefaultConfig(), errors.Wrap(errors.ErrCodeConfiguration, err, "parse config %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return DefaultConfig(), errors.New(errors.ErrCodeConfiguration, "unknown config key %q in %s", undecoded[0].String(), path)
	}
	if err := cfg.validate(); err != nil {
		return DefaultConfig(), err
	}
	return cfg, nil
}

func (c Config) validate() error {
	if c.Format != "" {
		if err := render.ValidateFormat(c.Format); err != nil {
			return err
		}
	}
	if err := render.ValidateLayout(c.Layout); err != nil {
		return err
	}
	switch c.Engine {
	case "", engineAuto, engineGraphviz, engineExec:
	default:
		return errors.New(errors.ErrCodeConfiguration, "unknown engine %q (must be auto, graphviz, or exec)", c.Engine)
	}
	_, err := c.Cache.TTLDuration()
	return err
}

// loadTheme resolves the theme from a file or a built-in name. A file wins.
func loadTheme(name, file string) (*theme.Theme, error) {
	if file != "" {
		return theme.LoadFile(file)
	}
	if name == "" {
		return theme.Default(), nil
	}
	return theme.Lookup(name)
}
