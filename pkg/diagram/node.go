package diagram

import (
	"math"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/matzehuels/architectures/pkg/dot"
	"github.com/matzehuels/architectures/pkg/errors"
	"github.com/matzehuels/architectures/pkg/icons"
)

// iconLinePadding is the extra height per wrapped label line on icon nodes,
// keeping the label clear of the image.
const iconLinePadding = 0.4

// defaultNodeHeight applies when the theme sets no node height.
const defaultNodeHeight = 1.4

// Node is a leaf diagram entity: a plain box or a cloud service with an icon.
type Node struct {
	ctx     *Context
	graph   *Graph
	cluster *Cluster

	id      string
	label   string
	service *icons.Service
	attrs   dot.Attrs
}

// NewNode adds a plain node to the active graph, inside the active cluster if
// there is one. attrs override the theme's node defaults.
func (c *Context) NewNode(label string, attrs dot.Attrs) (*Node, error) {
	return c.newNode(label, nil, attrs)
}

// NewService adds a node showing svc's icon. An empty label uses the service's
// default label.
func (c *Context) NewService(svc icons.Service, label string, attrs dot.Attrs) (*Node, error) {
	if label == "" {
		label = svc.DefaultLabel()
	}
	return c.newNode(label, &svc, attrs)
}

func (c *Context) newNode(label string, svc *icons.Service, attrs dot.Attrs) (*Node, error) {
	g := c.graph
	if g == nil {
		return nil, errors.New(errors.ErrCodeConfiguration, "no active graph: node %q must be created inside a graph", label)
	}

	n := &Node{
		ctx:     c,
		graph:   g,
		cluster: c.cluster,
		id:      c.newID(),
		service: svc,
	}

	width := DefaultWrapWidth
	if n.cluster != nil {
		width = utf8.RuneCountInString(n.cluster.label)
	}
	n.label = Wrap(label, width)

	n.attrs = g.theme.Node.Clone().Merge(attrs)
	if svc != nil {
		n.attrs["height"] = paddedHeight(n.attrs["height"], strings.Count(n.label, "\n"))
		n.attrs["image"] = g.icons.Path(*svc)
	}

	n.doc().AddNode(n.id, n.label, n.attrs)
	c.registry.add(n)
	g.nodes++

	c.logger.Debug("node added", "id", n.id, "label", label, "cluster", n.cluster.Label())
	return n, nil
}

func paddedHeight(height string, lines int) string {
	h, err := strconv.ParseFloat(height, 64)
	if err != nil {
		h = defaultNodeHeight
	}
	h += iconLinePadding * float64(lines)
	return strconv.FormatFloat(math.Round(h*100)/100, 'f', -1, 64)
}

func (n *Node) doc() *dot.Document {
	if n.cluster != nil {
		return n.cluster.doc
	}
	return n.graph.doc
}

// ID returns the node's unique identity.
func (n *Node) ID() string { return n.id }

// Label returns the wrapped label.
func (n *Node) Label() string { return n.label }

// Attrs returns a copy of the node's effective attributes.
func (n *Node) Attrs() dot.Attrs { return n.attrs.Clone() }

// Cluster returns the cluster the node was created in, or nil.
func (n *Node) Cluster() *Cluster { return n.cluster }

// Service returns the node's service descriptor, if it has one.
func (n *Node) Service() (icons.Service, bool) {
	if n.service == nil {
		return icons.Service{}, false
	}
	return *n.service, true
}

func (n *Node) endpoints() []Entity { return []Entity{n} }
