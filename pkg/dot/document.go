package dot

import (
	"fmt"
	"io"
	"strings"
)

// Scope selects which default attribute block [Document.SetDefaults] updates.
type Scope int

const (
	ScopeGraph Scope = iota
	ScopeNode
	ScopeEdge
)

func (s Scope) String() string {
	switch s {
	case ScopeGraph:
		return "graph"
	case ScopeNode:
		return "node"
	case ScopeEdge:
		return "edge"
	default:
		return "unknown"
	}
}

// Node is a node statement.
type Node struct {
	ID    string
	Label string
	Attrs Attrs
}

// Edge is an edge statement between two node IDs.
type Edge struct {
	Tail  string
	Head  string
	Attrs Attrs
}

type stmtKind int

const (
	stmtNode stmtKind = iota
	stmtEdge
	stmtSubgraph
)

type stmt struct {
	kind     stmtKind
	node     *Node
	edge     *Edge
	subgraph *Document
}

// Document is a digraph or subgraph under construction.
// It is not safe for concurrent use.
type Document struct {
	name     string
	subgraph bool
	graph    Attrs
	node     Attrs
	edge     Attrs
	stmts    []stmt
}

// New creates a top-level directed graph document.
func New(name string) *Document {
	return &Document{name: name, graph: Attrs{}, node: Attrs{}, edge: Attrs{}}
}

// NewSubgraph creates a document meant to be attached to a parent with
// [Document.AddSubgraph].
func NewSubgraph(name string) *Document {
	d := New(name)
	d.subgraph = true
	return d
}

// Name returns the document name.
func (d *Document) Name() string { return d.name }

// SetDefaults merges attrs into the default block for scope.
func (d *Document) SetDefaults(scope Scope, attrs Attrs) {
	switch scope {
	case ScopeGraph:
		d.graph.Merge(attrs)
	case ScopeNode:
		d.node.Merge(attrs)
	case ScopeEdge:
		d.edge.Merge(attrs)
	}
}

// SetAttr sets a single graph-level attribute.
func (d *Document) SetAttr(key, value string) {
	d.graph[key] = value
}

// Attr returns a graph-level attribute.
func (d *Document) Attr(key string) (string, bool) {
	v, ok := d.graph[key]
	return v, ok
}

// Defaults returns a copy of the default block for scope.
func (d *Document) Defaults(scope Scope) Attrs {
	switch scope {
	case ScopeNode:
		return d.node.Clone()
	case ScopeEdge:
		return d.edge.Clone()
	default:
		return d.graph.Clone()
	}
}

// AddNode appends a node statement. attrs is copied.
func (d *Document) AddNode(id, label string, attrs Attrs) {
	d.stmts = append(d.stmts, stmt{kind: stmtNode, node: &Node{ID: id, Label: label, Attrs: attrs.Clone()}})
}

// AddEdge appends an edge statement. attrs is copied.
func (d *Document) AddEdge(tail, head string, attrs Attrs) {
	d.stmts = append(d.stmts, stmt{kind: stmtEdge, edge: &Edge{Tail: tail, Head: head, Attrs: attrs.Clone()}})
}

// AddSubgraph appends child as a nested subgraph.
func (d *Document) AddSubgraph(child *Document) {
	child.subgraph = true
	d.stmts = append(d.stmts, stmt{kind: stmtSubgraph, subgraph: child})
}

// Nodes returns the node statements declared directly in d, in order.
func (d *Document) Nodes() []Node {
	var out []Node
	for _, s := range d.stmts {
		if s.kind == stmtNode {
			out = append(out, *s.node)
		}
	}
	return out
}

// Edges returns the edge statements declared directly in d, in order.
func (d *Document) Edges() []Edge {
	var out []Edge
	for _, s := range d.stmts {
		if s.kind == stmtEdge {
			out = append(out, *s.edge)
		}
	}
	return out
}

// Subgraphs returns the subgraphs attached directly to d, in order.
func (d *Document) Subgraphs() []*Document {
	var out []*Document
	for _, s := range d.stmts {
		if s.kind == stmtSubgraph {
			out = append(out, s.subgraph)
		}
	}
	return out
}

// String returns the DOT source for d.
func (d *Document) String() string {
	var b strings.Builder
	d.write(&b, "")
	return b.String()
}

// WriteTo writes the DOT source for d to w.
func (d *Document) WriteTo(w io.Writer) (int64, error) {
	n, err := io.WriteString(w, d.String())
	return int64(n), err
}

func (d *Document) write(b *strings.Builder, indent string) {
	if d.subgraph {
		fmt.Fprintf(b, "%ssubgraph %s {\n", indent, Quote(d.name))
	} else {
		fmt.Fprintf(b, "%sdigraph %s {\n", indent, Quote(d.name))
	}
	inner := indent + "\t"

	if d.subgraph {
		// Subgraph attributes are written as statements so they apply to the
		// cluster itself rather than to a default block.
		for _, k := range d.graph.Keys() {
			fmt.Fprintf(b, "%s%s=%s\n", inner, Quote(k), Quote(d.graph[k]))
		}
	} else {
		writeDefaults(b, inner, "graph", d.graph)
	}
	writeDefaults(b, inner, "node", d.node)
	writeDefaults(b, inner, "edge", d.edge)

	for _, s := range d.stmts {
		switch s.kind {
		case stmtNode:
			attrs := s.node.Attrs.Clone()
			attrs["label"] = s.node.Label
			fmt.Fprintf(b, "%s%s %s\n", inner, Quote(s.node.ID), formatAttrs(attrs))
		case stmtEdge:
			fmt.Fprintf(b, "%s%s -> %s", inner, Quote(s.edge.Tail), Quote(s.edge.Head))
			if len(s.edge.Attrs) > 0 {
				fmt.Fprintf(b, " %s", formatAttrs(s.edge.Attrs))
			}
			b.WriteString("\n")
		case stmtSubgraph:
			s.subgraph.write(b, inner)
		}
	}
	fmt.Fprintf(b, "%s}\n", indent)
}

func writeDefaults(b *strings.Builder, indent, keyword string, attrs Attrs) {
	if len(attrs) == 0 {
		return
	}
	fmt.Fprintf(b, "%s%s %s\n", indent, keyword, formatAttrs(attrs))
}

func formatAttrs(attrs Attrs) string {
	parts := make([]string, 0, len(attrs))
	for _, k := range attrs.Keys() {
		parts = append(parts, Quote(k)+"="+Quote(attrs[k]))
	}
	return "[" + strings.Join(parts, " ") + "]"
}

// htmlMarker prefixes values built by [HTML]. NUL never occurs in DOT text.
const htmlMarker = "\x00html:"

// HTML marks markup as an HTML-like label. The result can be used as a node
// label or an attribute value; [Quote] writes it as <markup>. Any other
// string is quoted, even one that starts with '<'.
func HTML(markup string) string { return htmlMarker + markup }

// escapes are the Graphviz escape sequences kept verbatim in quoted strings:
// line breaks (\n, \l, \r) and object name substitutions.
const escapes = "nlrNGEHTL"

// Quote returns s as a DOT ID. Values built by [HTML] are written as
// <markup>; everything else is double-quoted. Quotes and literal line breaks
// are escaped. A backslash is kept when it starts a Graphviz escape such as
// \l and doubled otherwise, so a trailing backslash cannot swallow the
// closing quote.
func Quote(s string) string {
	if markup, ok := strings.CutPrefix(s, htmlMarker); ok {
		return "<" + markup + ">"
	}
	var b strings.Builder
	b.Grow(len(s) + 2)
	b.WriteByte('"')
	for i := 0; i < len(s); i++ {
		switch c := s[i]; c {
		case '"':
			b.WriteString(`\"`)
		case '\r':
			if i+1 < len(s) && s[i+1] == '\n' {
				i++
			}
			b.WriteString(`\n`)
		case '\n':
			b.WriteString(`\n`)
		case '\\':
			if i+1 < len(s) && strings.IndexByte(escapes, s[i+1]) >= 0 {
				b.WriteByte('\\')
			} else {
				b.WriteString(`\\`)
			}
		default:
			b.WriteByte(c)
		}
	}
	b.WriteByte('"')
	return b.String()
}
