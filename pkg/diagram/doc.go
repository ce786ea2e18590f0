// Package diagram composes architecture diagrams as code.
//
// A diagram is built inside a [Graph] scope. Nodes, clusters and groups
// created while the graph is active attach themselves to it, and to the
// innermost active cluster, through a [Context]: the explicit ambient state
// holding the current graph, the current cluster and the node [Registry].
//
//	ctx := diagram.NewContext()
//	g, _ := ctx.NewGraph("Event Pipeline", diagram.Options{Format: "svg"})
//	err := g.Within(context.Background(), func() error {
//	    hub, _ := ctx.NewService(azure.EventHubs, "", nil)
//	    lake, _ := ctx.NewCluster("Storage", diagram.ClusterOptions{})
//	    if err := lake.Within(func() error {
//	        _, err := ctx.NewService(azure.DataLake, "Raw", nil)
//	        return err
//	    }); err != nil {
//	        return err
//	    }
//	    return ctx.Edge(hub, lake, nil)
//	})
//
// # Scopes
//
// Graphs and clusters have explicit Enter/Exit pairs (or Within, which runs a
// function between them). Entering saves the previous ambient value and
// exiting restores it, so clusters nest to any depth. Exiting a graph renders
// it: the DOT source is written next to the output, rendered by the
// configured [render.Renderer], and removed.
//
// # Edges
//
// [Context.Edge] and [Context.Flow] connect nodes, clusters and groups. A
// cluster endpoint is replaced by its representative node (see
// [Registry.Representative]) and the edge gets an lhead or ltail attribute so
// Graphviz clips it at the cluster boundary.
//
// # Concurrency
//
// A Context is not safe for concurrent use. Build concurrent diagrams with one
// Context each.
package diagram
