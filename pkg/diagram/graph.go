package diagram

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/matzehuels/architectures/pkg/dot"
	"github.com/matzehuels/architectures/pkg/errors"
	"github.com/matzehuels/architectures/pkg/icons"
	"github.com/matzehuels/architectures/pkg/observability"
	"github.com/matzehuels/architectures/pkg/render"
	"github.com/matzehuels/architectures/pkg/theme"
)

// Options configures a graph. The zero value renders a PNG named after the
// graph into the working directory with the default theme.
type Options struct {
	// Filename is the output name without extension. Defaults to the graph
	// name lowercased with whitespace replaced by hyphens.
	Filename string

	// Format is the output format. Defaults to [render.DefaultFormat].
	Format string

	// Theme defaults to [theme.Default].
	Theme *theme.Theme

	// Show opens the rendered file with Viewer after rendering.
	Show bool

	// Dir is the output directory. Defaults to the working directory.
	Dir string

	// IconRoot is the directory containing the icons tree.
	IconRoot string

	// Renderer defaults to [render.Auto]: the dot binary when installed,
	// otherwise the in-process renderer, which draws service nodes without
	// their icons.
	Renderer render.Renderer

	// Viewer defaults to the platform opener.
	Viewer render.Viewer
}

// Graph is the top-level diagram scope. It owns the DOT document and renders
// it when the scope exits.
type Graph struct {
	ctx  *Context
	name string

	filename string
	format   string
	dir      string
	show     bool
	theme    *theme.Theme
	icons    icons.Resolver
	renderer render.Renderer
	viewer   render.Viewer

	doc    *dot.Document
	nodes  int
	edges  int
	output string

	entered bool
	exited  bool
	prev    *Graph
	start   time.Time
}

// NewGraph creates a graph. It becomes active once entered.
func (c *Context) NewGraph(name string, opts Options) (*Graph, error) {
	if strings.TrimSpace(name) == "" {
		return nil, errors.New(errors.ErrCodeInvalidArgument, "graph name is required")
	}

	g := &Graph{
		ctx:      c,
		name:     name,
		filename: opts.Filename,
		format:   opts.Format,
		dir:      opts.Dir,
		show:     opts.Show,
		theme:    opts.Theme,
		icons:    icons.Resolver{Root: opts.IconRoot},
		renderer: opts.Renderer,
		viewer:   opts.Viewer,
	}
	if g.filename == "" {
		g.filename = DefaultFilename(name)
	}
	if err := errors.ValidateFilename(g.filename); err != nil {
		return nil, err
	}
	if g.format == "" {
		g.format = render.DefaultFormat
	}
	if err := render.ValidateFormat(g.format); err != nil {
		return nil, err
	}
	if g.theme == nil {
		g.theme = theme.Default()
	} else {
		g.theme = g.theme.Clone()
	}
	if g.renderer == nil {
		g.renderer = render.Auto("")
	}
	if g.viewer == nil {
		g.viewer = render.Opener{}
	}

	g.doc = dot.New(name)
	g.doc.SetDefaults(dot.ScopeGraph, g.theme.Graph)
	g.doc.SetAttr("label", name)
	g.doc.SetDefaults(dot.ScopeNode, g.theme.Node)
	g.doc.SetDefaults(dot.ScopeEdge, g.theme.Edge)
	return g, nil
}

// DefaultFilename derives an output name from a graph name:
// "My Web App" becomes "my-web-app".
func DefaultFilename(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), "-"))
}

// Name returns the graph name.
func (g *Graph) Name() string { return g.name }

// Filename returns the output name without extension.
func (g *Graph) Filename() string { return g.filename }

// Format returns the output format.
func (g *Graph) Format() string { return g.format }

// Theme returns the graph's copy of its theme.
func (g *Graph) Theme() *theme.Theme { return g.theme }

// Document returns the graph's DOT document.
func (g *Graph) Document() *dot.Document { return g.doc }

// String returns the DOT source.
func (g *Graph) String() string { return g.doc.String() }

// Output returns the rendered file path after a successful Exit.
func (g *Graph) Output() string { return g.output }

// Stats returns the number of nodes and edges added to the graph.
func (g *Graph) Stats() (nodes, edges int) { return g.nodes, g.edges }

// Enter makes g the active graph. Graphs do not nest: entering while another
// graph is active is an [errors.ErrCodeNestedGraph] error.
func (g *Graph) Enter() error {
	if g.entered {
		return errors.New(errors.ErrCodeConfiguration, "graph %q already entered", g.name)
	}
	if active := g.ctx.graph; active != nil {
		return errors.New(errors.ErrCodeNestedGraph, "graph %q entered while graph %q is active", g.name, active.name)
	}
	g.entered = true
	g.start = time.Now()
	g.prev = g.ctx.setGraph(g)
	observability.Diagram().OnGraphEnter(g.name)
	g.ctx.logger.Debug("graph entered", "name", g.name)
	return nil
}

// Exit renders the graph and restores the previous ambient graph. The DOT
// source is written to Dir/Filename, rendered to Dir/Filename.Format and then
// removed. With Show set the output is opened afterwards.
func (g *Graph) Exit(ctx context.Context) error {
	if err := g.checkOpen(); err != nil {
		return err
	}
	defer g.close()

	err := g.render(ctx)
	observability.Diagram().OnGraphExit(g.name, g.nodes, g.edges, time.Since(g.start), err)
	if err != nil {
		return err
	}
	g.ctx.logger.Info("rendered", "graph", g.name, "file", g.output, "nodes", g.nodes, "edges", g.edges)

	if g.show {
		if err := g.viewer.View(ctx, g.output); err != nil {
			g.ctx.logger.Warn("could not open output", "file", g.output, "err", err)
		}
	}
	return nil
}

// Within enters g, runs fn, and exits. When fn fails the ambient state is
// restored and nothing is rendered.
func (g *Graph) Within(ctx context.Context, fn func() error) error {
	if err := g.Enter(); err != nil {
		return err
	}
	if err := fn(); err != nil {
		g.close()
		observability.Diagram().OnGraphExit(g.name, g.nodes, g.edges, time.Since(g.start), err)
		return err
	}
	return g.Exit(ctx)
}

func (g *Graph) checkOpen() error {
	if !g.entered || g.exited {
		return errors.New(errors.ErrCodeConfiguration, "graph %q is not open", g.name)
	}
	if g.ctx.graph != g {
		return errors.New(errors.ErrCodeConfiguration, "graph %q is not the active graph", g.name)
	}
	if cl := g.ctx.cluster; cl != nil {
		g.close()
		return errors.New(errors.ErrCodeConfiguration, "graph %q exited with cluster %q still open", g.name, cl.Label())
	}
	return nil
}

func (g *Graph) close() {
	g.exited = true
	g.ctx.setCluster(nil)
	g.ctx.setGraph(g.prev)
}

func (g *Graph) render(ctx context.Context) error {
	if g.dir != "" {
		if err := os.MkdirAll(g.dir, 0o755); err != nil {
			return errors.Wrap(errors.ErrCodeRender, err, "create output directory")
		}
	}

	src := []byte(g.doc.String())
	srcPath := filepath.Join(g.dir, g.filename)
	if err := os.WriteFile(srcPath, src, 0o644); err != nil {
		return errors.Wrap(errors.ErrCodeRender, err, "write source %s", srcPath)
	}

	out, err := g.renderer.Render(ctx, src, g.format)
	if err != nil {
		return err
	}

	outPath := srcPath + "." + g.format
	if err := os.WriteFile(outPath, out, 0o644); err != nil {
		return errors.Wrap(errors.ErrCodeRender, err, "write output %s", outPath)
	}
	if err := os.Remove(srcPath); err != nil {
		return errors.Wrap(errors.ErrCodeRender, err, "remove source %s", srcPath)
	}
	g.output = outPath
	return nil
}

// Discard leaves the graph scope without rendering and restores the previous
// ambient state. Callers that only need the DOT source use it after composing.
func (g *Graph) Discard() error {
	if !g.entered || g.exited {
		return errors.New(errors.ErrCodeConfiguration, "graph %q is not open", g.name)
	}
	g.close()
	return nil
}
