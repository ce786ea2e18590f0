// Package pkg provides the libraries behind architectures, a diagrams-as-code
// tool for cloud system architecture diagrams.
//
// # Overview
//
// A diagram is composed of nodes, clusters and edges inside a graph scope and
// rendered with Graphviz when the scope closes. The pkg directory is organized
// into three areas:
//
//  1. Composition: [diagram] (graphs, clusters, nodes, edges, flows),
//     [dsl] (HCL declarations), [icons] (provider services)
//  2. Output: [dot] (DOT document model), [render] (Graphviz backends),
//     [theme] (default attributes)
//  3. Support: [cache], [errors], [observability], [buildinfo]
//
// # Architecture
//
//	.hcl file ──[dsl]──┐
//	                   ├──▶ [diagram] ──▶ [dot] document ──▶ [render] ──▶ PNG/SVG/JPG
//	Go code ───────────┘        ▲                               │
//	                        [theme], [icons]                 [cache]
//
// # Quick Start
//
//	ctx := diagram.NewContext()
//	g, _ := ctx.NewGraph("Event Pipeline", diagram.Options{Format: "svg"})
//	err := g.Within(context.Background(), func() error {
//	    hub, _ := ctx.NewService(azure.EventHubs, "", nil)
//	    analytics, _ := ctx.NewCluster("Analytics", diagram.ClusterOptions{})
//	    if err := analytics.Within(func() error {
//	        _, err := ctx.NewService(azure.StreamAnalytics, "", nil)
//	        return err
//	    }); err != nil {
//	        return err
//	    }
//	    return ctx.Edge(hub, analytics, nil)
//	})
//
// The same diagram declared in HCL:
//
//	diagram "Event Pipeline" {
//	  format = "svg"
//
//	  service "hub" {
//	    icon = "azure.data.event-hubs"
//	  }
//
//	  cluster "analytics" {
//	    label = "Analytics"
//
//	    service "stream" {
//	      icon = "azure.data.stream-analytics"
//	    }
//	  }
//
//	  edge {
//	    from = "hub"
//	    to   = "analytics"
//	  }
//	}
//
// [diagram]: https://pkg.go.dev/github.com/matzehuels/architectures/pkg/diagram
// [dsl]: https://pkg.go.dev/github.com/matzehuels/architectures/pkg/dsl
// [icons]: https://pkg.go.dev/github.com/matzehuels/architectures/pkg/icons
// [dot]: https://pkg.go.dev/github.com/matzehuels/architectures/pkg/dot
// [render]: https://pkg.go.dev/github.com/matzehuels/architectures/pkg/render
// [theme]: https://pkg.go.dev/github.com/matzehuels/architectures/pkg/theme
// [cache]: https://pkg.go.dev/github.com/matzehuels/architectures/pkg/cache
// [errors]: https://pkg.go.dev/github.com/matzehuels/architectures/pkg/errors
// [observability]: https://pkg.go.dev/github.com/matzehuels/architectures/pkg/observability
// [buildinfo]: https://pkg.go.dev/github.com/matzehuels/architectures/pkg/buildinfo
package pkg
