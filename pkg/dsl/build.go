package dsl

import (
	"context"

	"github.com/matzehuels/architectures/pkg/diagram"
	"github.com/matzehuels/architectures/pkg/errors"
	"github.com/matzehuels/architectures/pkg/theme"
)

// Build composes d in dc and renders it. Non-zero fields of opts override the
// file's settings; Show is enabled by either.
func (d *Diagram) Build(ctx context.Context, dc *diagram.Context, opts diagram.Options) (*diagram.Graph, error) {
	g, err := d.graph(dc, opts)
	if err != nil {
		return nil, err
	}
	if err := g.Within(ctx, func() error { return d.compose(dc) }); err != nil {
		return nil, err
	}
	return g, nil
}

// Source composes d in dc and returns the DOT source without rendering.
func (d *Diagram) Source(dc *diagram.Context, opts diagram.Options) (string, error) {
	g, err := d.graph(dc, opts)
	if err != nil {
		return "", err
	}
	if err := g.Enter(); err != nil {
		return "", err
	}
	if err := d.compose(dc); err != nil {
		_ = g.Discard()
		return "", err
	}
	src := g.String()
	return src, g.Discard()
}

func (d *Diagram) graph(dc *diagram.Context, opts diagram.Options) (*diagram.Graph, error) {
	if opts.Filename == "" {
		opts.Filename = d.Filename
	}
	if opts.Format == "" {
		opts.Format = d.Format
	}
	if opts.Theme == nil {
		t, err := theme.Lookup(d.Theme)
		if err != nil {
			return nil, err
		}
		opts.Theme = t
	}
	opts.Show = opts.Show || d.Show
	return dc.NewGraph(d.Name, opts)
}

func (d *Diagram) compose(dc *diagram.Context) error {
	b := &builder{dc: dc, entities: map[string]diagram.Entity{}}
	return b.build(d.Elements)
}

type builder struct {
	dc       *diagram.Context
	entities map[string]diagram.Entity
}

func (b *builder) build(elems []Element) error {
	for _, el := range elems {
		err := b.element(el)
		if err == nil {
			continue
		}
		if _, nested := el.(*Cluster); nested {
			return err
		}
		return errors.Wrap(errors.GetCode(err), err, "%s", el.Range())
	}
	return nil
}

func (b *builder) element(el Element) error {
	switch e := el.(type) {
	case *Node:
		var (
			n   *diagram.Node
			err error
		)
		if e.Service != nil {
			n, err = b.dc.NewService(*e.Service, e.Label, e.Attrs)
		} else {
			n, err = b.dc.NewNode(e.Label, e.Attrs)
		}
		if err != nil {
			return err
		}
		b.entities[e.Name] = n

	case *Cluster:
		opts := diagram.ClusterOptions{Background: e.Background, Attrs: e.Attrs}
		var (
			cl  *diagram.Cluster
			err error
		)
		if e.Group {
			cl, err = b.dc.NewGroup(opts)
		} else {
			cl, err = b.dc.NewCluster(e.Label, opts)
		}
		if err != nil {
			return err
		}
		b.entities[e.Name] = cl
		return cl.Within(func() error { return b.build(e.Elements) })

	case *Edge:
		from, err := b.resolve(e.From)
		if err != nil {
			return err
		}
		to, err := b.resolve(e.To)
		if err != nil {
			return err
		}
		return b.dc.Edge(diagram.All(from...), diagram.All(to...), e.Attrs)

	case *Flow:
		chain, err := b.resolve(e.Chain)
		if err != nil {
			return err
		}
		return b.dc.Flow(chain, e.Attrs)
	}
	return nil
}

func (b *builder) resolve(names []string) ([]diagram.Entity, error) {
	out := make([]diagram.Entity, 0, len(names))
	for _, name := range names {
		e, ok := b.entities[name]
		if !ok {
			return nil, errors.New(errors.ErrCodeInvalidEndpoint, "entity %q is used before it is declared", name)
		}
		out = append(out, e)
	}
	return out, nil
}
