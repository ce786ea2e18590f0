// Package dot builds Graphviz DOT documents incrementally.
//
// A [Document] is the in-memory graph description that the diagram core emits
// into: default attribute blocks, nodes, edges, and nested subgraphs, kept in
// exactly the order they were added. [Document.String] serializes it to DOT
// source that any Graphviz layout engine can consume.
//
//	doc := dot.New("my architecture")
//	doc.SetDefaults(dot.ScopeNode, dot.Attrs{"shape": "box"})
//	doc.AddNode("a", "Web", nil)
//	doc.AddNode("b", "Database", nil)
//	doc.AddEdge("a", "b", dot.Attrs{"color": "#7B8894"})
//	fmt.Print(doc)
//
// Subgraphs whose name starts with "cluster" are drawn by Graphviz as boxed
// clusters; edges may point at a cluster boundary with the "lhead" and
// "ltail" attributes when the graph sets compound=true.
//
// Labels and values are always written as quoted strings, so text such as
// "<api>" or a path ending in a backslash renders literally. HTML-like labels
// must be requested with [HTML].
package dot
