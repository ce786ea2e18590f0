package dsl

import (
	"github.com/hashicorp/hcl/v2"

	"github.com/matzehuels/architectures/pkg/dot"
	"github.com/matzehuels/architectures/pkg/icons"
)

// Diagram is a decoded diagram block.
type Diagram struct {
	Name     string
	Filename string
	Format   string
	Theme    string
	Show     bool
	Elements []Element
}

// Element is one of *Node, *Cluster, *Edge or *Flow.
type Element interface {
	// Range is the source location of the declaring block.
	Range() hcl.Range
}

// Node is a node or service block. Service is nil for plain nodes.
type Node struct {
	Name    string
	Label   string
	Service *icons.Service
	Attrs   dot.Attrs

	DeclRange hcl.Range
}

// Cluster is a cluster or group block.
type Cluster struct {
	Name       string
	Label      string
	Group      bool
	Background bool
	Attrs      dot.Attrs
	Elements   []Element

	DeclRange hcl.Range
}

// Edge connects every entity in From to every entity in To.
type Edge struct {
	From  []string
	To    []string
	Attrs dot.Attrs

	DeclRange hcl.Range
}

// Flow chains entities left to right.
type Flow struct {
	Chain []string
	Attrs dot.Attrs

	DeclRange hcl.Range
}

func (n *Node) Range() hcl.Range    { return n.DeclRange }
func (c *Cluster) Range() hcl.Range { return c.DeclRange }
func (e *Edge) Range() hcl.Range    { return e.DeclRange }
func (f *Flow) Range() hcl.Range    { return f.DeclRange }

// Walk calls fn for every element in d, depth first in declaration order.
func (d *Diagram) Walk(fn func(Element)) {
	walk(d.Elements, fn)
}

func walk(elems []Element, fn func(Element)) {
	for _, el := range elems {
		fn(el)
		if c, ok := el.(*Cluster); ok {
			walk(c.Elements, fn)
		}
	}
}
