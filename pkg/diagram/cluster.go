package diagram

import (
	"github.com/matzehuels/architectures/pkg/dot"
	"github.com/matzehuels/architectures/pkg/errors"
)

// ClusterPrefix starts every cluster subgraph name; Graphviz only draws
// subgraphs named this way as clusters.
const ClusterPrefix = "cluster_"

// backgrounds alternate by nesting depth when ClusterOptions.Background is set.
var backgrounds = [...]string{"#FFFFFF", "#FFFFFF"}

// ClusterOptions configures a cluster or group.
type ClusterOptions struct {
	// Background fills the cluster with a colour picked by nesting depth.
	Background bool

	// Attrs override the theme's cluster defaults.
	Attrs dot.Attrs
}

// Cluster is a scoped container of nodes and nested clusters. A group is a
// cluster with an invisible boundary, used only to keep nodes together.
type Cluster struct {
	ctx    *Context
	graph  *Graph
	parent *Cluster

	id        string
	label     string
	depth     int
	invisible bool
	doc       *dot.Document

	entered bool
	exited  bool
}

// NewCluster creates a labelled cluster inside the active cluster or graph.
// Nodes join it once it has been entered.
func (c *Context) NewCluster(label string, opts ClusterOptions) (*Cluster, error) {
	return c.newCluster(label, false, opts)
}

// NewGroup creates an invisible cluster. Its label is its random identity.
func (c *Context) NewGroup(opts ClusterOptions) (*Cluster, error) {
	return c.newCluster("", true, opts)
}

func (c *Context) newCluster(label string, invisible bool, opts ClusterOptions) (*Cluster, error) {
	g := c.graph
	if g == nil {
		return nil, errors.New(errors.ErrCodeConfiguration, "no active graph: cluster %q must be created inside a graph", label)
	}

	cl := &Cluster{
		ctx:       c,
		graph:     g,
		parent:    c.cluster,
		id:        c.newID(),
		label:     label,
		invisible: invisible,
	}
	if invisible {
		cl.label = cl.id
	}
	if cl.parent != nil {
		cl.depth = cl.parent.depth + 1
	}

	attrs := g.theme.Cluster.Clone().Merge(opts.Attrs)
	if invisible {
		attrs["style"] = "invis"
	} else {
		attrs["label"] = cl.label
	}
	if opts.Background {
		attrs["bgcolor"] = backgrounds[cl.depth%len(backgrounds)]
	}

	cl.doc = dot.NewSubgraph(ClusterPrefix + cl.id)
	cl.doc.SetDefaults(dot.ScopeGraph, attrs)
	return cl, nil
}

// ID returns the cluster's unique identity.
func (cl *Cluster) ID() string { return cl.id }

// Name returns the subgraph name used as the edge boundary hint.
func (cl *Cluster) Name() string { return cl.doc.Name() }

// Label returns the display label; for groups this is the identity. A nil
// cluster (the top level) has an empty label.
func (cl *Cluster) Label() string {
	if cl == nil {
		return ""
	}
	return cl.label
}

// Depth is 0 for top-level clusters and one more than the parent otherwise.
func (cl *Cluster) Depth() int { return cl.depth }

// Parent returns the enclosing cluster, or nil.
func (cl *Cluster) Parent() *Cluster { return cl.parent }

// Invisible reports whether cl is a group.
func (cl *Cluster) Invisible() bool { return cl.invisible }

// Document returns the cluster's subgraph.
func (cl *Cluster) Document() *dot.Document { return cl.doc }

// Enter makes cl the active cluster. A cluster is entered at most once, and
// only while its graph is active and its parent is the active cluster.
func (cl *Cluster) Enter() error {
	switch {
	case cl.entered:
		return errors.New(errors.ErrCodeConfiguration, "cluster %q already entered", cl.label)
	case cl.ctx.graph != cl.graph:
		return errors.New(errors.ErrCodeConfiguration, "cluster %q entered outside its graph", cl.label)
	case cl.ctx.cluster != cl.parent:
		return errors.New(errors.ErrCodeConfiguration, "cluster %q entered outside its parent %q", cl.label, cl.parent.Label())
	}
	cl.entered = true
	cl.ctx.setCluster(cl)
	return nil
}

// Exit attaches cl to its parent cluster, or to the graph at the top level,
// and restores the parent as the active cluster. Clusters must be exited in
// the reverse order they were entered.
func (cl *Cluster) Exit() error {
	if !cl.entered || cl.exited {
		return errors.New(errors.ErrCodeConfiguration, "cluster %q is not open", cl.label)
	}
	if cl.ctx.cluster != cl {
		return errors.New(errors.ErrCodeConfiguration, "cluster %q exited while %q is active", cl.label, cl.ctx.cluster.Label())
	}
	cl.exited = true

	if cl.parent != nil {
		cl.parent.doc.AddSubgraph(cl.doc)
	} else {
		cl.graph.doc.AddSubgraph(cl.doc)
	}
	cl.ctx.setCluster(cl.parent)
	return nil
}

// Within enters cl, runs fn, and exits. The cluster is exited even when fn
// fails; fn's error takes precedence.
func (cl *Cluster) Within(fn func() error) error {
	if err := cl.Enter(); err != nil {
		return err
	}
	if err := fn(); err != nil {
		if cl.ctx.cluster == cl {
			_ = cl.Exit()
		}
		return err
	}
	return cl.Exit()
}

func (cl *Cluster) endpoints() []Entity { return []Entity{cl} }
