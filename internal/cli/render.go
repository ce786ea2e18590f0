package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/architectures/pkg/diagram"
	"github.com/matzehuels/architectures/pkg/dsl"
	"github.com/matzehuels/architectures/pkg/errors"
	"github.com/matzehuels/architectures/pkg/render"
)

// renderOpts holds the command-line flags for the render command.
// Flags win over the diagram's own settings, which win over the config file.
type renderOpts struct {
	outputDir string   // directory for rendered files
	format    string   // png, svg, jpg or dot
	engine    string   // auto, graphviz or exec
	layout    string   // graphviz layout engine
	theme     string   // built-in theme name
	themeFile string   // TOML theme file
	iconRoot  string   // directory containing icons/<provider>/...
	vars      []string // variable overrides as name=value
	show      bool     // open the output after rendering
	noCache   bool     // bypass the artifact cache
	dryRun    bool     // print DOT to stdout instead of rendering
}

func (c *CLI) renderCommand() *cobra.Command {
	var opts renderOpts

	cmd := &cobra.Command{
		Use:   "render <file.hcl>...",
		Short: "Render diagram declarations",
		Long: `Render one or more HCL diagram declarations.

Each file holds one diagram block. The output is written to
<output-dir>/<filename>.<format>, where filename derives from the diagram name
unless the diagram sets it.`,
		Example: `  architectures render pipeline.hcl
  architectures render -f svg --theme clean --var env=dev pipeline.hcl
  architectures render --dry-run pipeline.hcl | dot -Tpdf > pipeline.pdf`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c.applyConfig(&opts, cmd)
			return c.runRender(cmd.Context(), cmd.OutOrStdout(), args, opts)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.outputDir, "output-dir", "o", "", "output directory (default: working directory)")
	f.StringVarP(&opts.format, "format", "f", "", "output format: "+strings.Join(render.Formats, ", "))
	f.StringVar(&opts.engine, "engine", "", "renderer: auto (default), graphviz, exec")
	f.StringVar(&opts.layout, "layout", "", "layout engine: "+strings.Join(render.Layouts, ", "))
	f.StringVar(&opts.theme, "theme", "", "built-in theme (see 'themes list')")
	f.StringVar(&opts.themeFile, "theme-file", "", "TOML theme file")
	f.StringVar(&opts.iconRoot, "icon-root", "", "directory containing the icons tree")
	f.StringArrayVar(&opts.vars, "var", nil, "set a diagram variable (name=value, repeatable)")
	f.BoolVar(&opts.show, "show", false, "open the rendered file")
	f.BoolVar(&opts.noCache, "no-cache", false, "bypass the render cache")
	f.BoolVar(&opts.dryRun, "dry-run", false, "print the DOT source instead of rendering")

	_ = cmd.RegisterFlagCompletionFunc("format", cobra.FixedCompletions(render.Formats, cobra.ShellCompDirectiveNoFileComp))
	_ = cmd.RegisterFlagCompletionFunc("engine", cobra.FixedCompletions([]string{engineAuto, engineGraphviz, engineExec}, cobra.ShellCompDirectiveNoFileComp))
	_ = cmd.RegisterFlagCompletionFunc("layout", cobra.FixedCompletions(render.Layouts, cobra.ShellCompDirectiveNoFileComp))
	_ = cmd.MarkFlagFilename("theme-file", "toml")

	return cmd
}

// applyConfig fills flags the user did not set from the config file.
func (c *CLI) applyConfig(opts *renderOpts, cmd *cobra.Command) {
	set := func(name string, dst *string, v string) {
		if !cmd.Flags().Changed(name) && v != "" {
			*dst = v
		}
	}
	set("output-dir", &opts.outputDir, c.config.OutputDir)
	set("engine", &opts.engine, c.config.Engine)
	set("layout", &opts.layout, c.config.Layout)
	set("icon-root", &opts.iconRoot, c.config.IconRoot)
}

// withDefaults fills format and theme from the config file when neither the
// flags nor the diagram chose one.
func (c *CLI) withDefaults(d *dsl.Diagram, opts diagram.Options) (diagram.Options, error) {
	if opts.Format == "" && d.Format == "" {
		opts.Format = c.config.Format
	}
	if opts.Theme == nil && d.Theme == "" && (c.config.Theme != "" || c.config.ThemeFile != "") {
		th, err := loadTheme(c.config.Theme, c.config.ThemeFile)
		if err != nil {
			return opts, err
		}
		opts.Theme = th
	}
	return opts, nil
}

func (c *CLI) runRender(ctx context.Context, w io.Writer, files []string, opts renderOpts) error {
	logger := loggerFromContext(ctx)

	vars, err := parseVars(opts.vars)
	if err != nil {
		return err
	}
	if opts.format != "" {
		if err := render.ValidateFormat(opts.format); err != nil {
			return err
		}
	}

	base := diagram.Options{
		Dir:      opts.outputDir,
		Format:   opts.format,
		IconRoot: opts.iconRoot,
		Show:     opts.show,
	}
	if opts.theme != "" || opts.themeFile != "" {
		th, err := loadTheme(opts.theme, opts.themeFile)
		if err != nil {
			return err
		}
		base.Theme = th
	}

	if opts.dryRun {
		for _, file := range files {
			d, err := dsl.LoadFile(file, vars)
			if err != nil {
				return err
			}
			o, err := c.withDefaults(d, base)
			if err != nil {
				return err
			}
			src, err := d.Source(diagram.NewContext(diagram.WithLogger(logger)), o)
			if err != nil {
				return err
			}
			fmt.Fprint(w, src)
		}
		return nil
	}

	renderer, store, err := c.newRenderer(opts.engine, opts.layout, opts.noCache)
	if err != nil {
		return err
	}
	defer store.Close()
	base.Renderer = renderer

	for _, file := range files {
		if err := c.renderFile(ctx, file, vars, base); err != nil {
			return err
		}
	}
	if len(files) == 1 && !opts.show {
		printNextStep("Preview the DOT source", "architectures render --dry-run "+files[0])
	}
	return nil
}

func (c *CLI) renderFile(ctx context.Context, file string, vars map[string]string, opts diagram.Options) error {
	logger := loggerFromContext(ctx)
	prog := newProgress(logger)

	d, err := dsl.LoadFile(file, vars)
	if err != nil {
		return err
	}
	opts, err = c.withDefaults(d, opts)
	if err != nil {
		return err
	}

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Rendering %s...", d.Name))
	spinner.Start()

	g, err := d.Build(ctx, diagram.NewContext(diagram.WithLogger(logger)), opts)
	if err != nil {
		spinner.StopWithError(fmt.Sprintf("Failed to render %s", file))
		if spinner.Cancelled() {
			return ctx.Err()
		}
		return err
	}
	spinner.StopWithSuccess(fmt.Sprintf("Rendered %s", d.Name))

	nodes, edges := g.Stats()
	printStats(nodes, edges, g.Format())
	printFile(g.Output())
	prog.done(fmt.Sprintf("Rendered %s", file))
	return nil
}

// parseVars turns name=value pairs into a variable map.
func parseVars(pairs []string) (map[string]string, error) {
	vars := make(map[string]string, len(pairs))
	for _, p := range pairs {
		name, value, ok := strings.Cut(p, "=")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return nil, errors.New(errors.ErrCodeInvalidArgument, "invalid --var %q (want name=value)", p)
		}
		vars[name] = value
	}
	return vars, nil
}
