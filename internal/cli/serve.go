package cli

import (
	"context"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/architectures/internal/server"
	"github.com/matzehuels/architectures/pkg/cache"
)

// shutdownTimeout bounds graceful shutdown of the HTTP server.
const shutdownTimeout = 10 * time.Second

type serveOpts struct {
	addr          string
	allowedOrigin string
	redis         string
	engine        string
	layout        string
	iconRoot      string
	noCache       bool
}

func (c *CLI) serveCommand() *cobra.Command {
	var opts serveOpts

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP render API",
		Long: `Run the HTTP render API.

POST an HCL diagram to /api/v1/render?format=svg to receive the rendered
image, or to /api/v1/source for its DOT source. With --redis, rendered
artifacts are cached in Redis and shared by every server instance.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c.applyServeConfig(&opts, cmd)
			return c.runServe(cmd.Context(), opts)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.addr, "addr", "", "listen address (default :8080)")
	f.StringVar(&opts.allowedOrigin, "allowed-origin", "", "CORS allowed origin (default *)")
	f.StringVar(&opts.redis, "redis", "", "Redis address for the shared render cache")
	f.StringVar(&opts.engine, "engine", "", "renderer: auto (default), graphviz, exec")
	f.StringVar(&opts.layout, "layout", "", "layout engine")
	f.StringVar(&opts.iconRoot, "icon-root", "", "directory containing the icons tree")
	f.BoolVar(&opts.noCache, "no-cache", false, "disable the render cache")

	return cmd
}

func (c *CLI) applyServeConfig(opts *serveOpts, cmd *cobra.Command) {
	set := func(name string, dst *string, v string) {
		if !cmd.Flags().Changed(name) && v != "" {
			*dst = v
		}
	}
	set("addr", &opts.addr, c.config.Server.Addr)
	set("allowed-origin", &opts.allowedOrigin, c.config.Server.AllowedOrigin)
	set("redis", &opts.redis, c.config.Server.Redis)
	set("engine", &opts.engine, c.config.Engine)
	set("layout", &opts.layout, c.config.Layout)
	set("icon-root", &opts.iconRoot, c.config.IconRoot)
}

func (c *CLI) runServe(ctx context.Context, opts serveOpts) error {
	r, err := c.engine(opts.engine, opts.layout)
	if err != nil {
		return err
	}

	store, err := c.serverCache(ctx, opts)
	if err != nil {
		return err
	}
	renderer, store, err := c.cached(r, store)
	if err != nil {
		return err
	}
	defer store.Close()

	srv := &http.Server{
		Addr: opts.addr,
		Handler: server.New(server.Config{
			Renderer:      renderer,
			IconRoot:      opts.iconRoot,
			AllowedOrigin: opts.allowedOrigin,
			Logger:        c.Logger,
		}).Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		printSuccess("Listening on %s", opts.addr)
		printKeyValue("renderer", renderer.Name())
		printKeyValue("icon root", orDash(opts.iconRoot))
		printKeyValue("cache", cacheKind(opts))
		if opts.allowedOrigin == "" || opts.allowedOrigin == "*" {
			printWarning("CORS allows any origin; set --allowed-origin for public deployments")
		}
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	c.Logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return ctx.Err()
}

// serverCache picks Redis when configured, else the local file cache.
func (c *CLI) serverCache(ctx context.Context, opts serveOpts) (cache.Cache, error) {
	if opts.noCache || opts.redis == "" {
		return c.newCache(opts.noCache), nil
	}
	rc, err := cache.NewRedisCache(ctx, cache.RedisConfig{
		Addr:     opts.redis,
		Password: c.config.Server.RedisPassword,
		DB:       c.config.Server.RedisDB,
		Prefix:   appName + ":",
	})
	if err != nil {
		return nil, err
	}
	c.Logger.Info("using redis render cache", "addr", opts.redis)
	return rc, nil
}

func cacheKind(opts serveOpts) string {
	switch {
	case opts.noCache:
		return "disabled"
	case opts.redis != "":
		return "redis " + opts.redis
	default:
		return "file"
	}
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
