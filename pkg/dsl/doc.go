// Package dsl loads architecture diagrams declared in HCL.
//
// A file declares one diagram. Entity blocks nest inside clusters and groups
// and are built in the order they appear:
//
//	variable "env" {
//	  default = "prod"
//	}
//
//	diagram "Event Pipeline" {
//	  format = "svg"
//	  theme  = "clean"
//
//	  node "client" {
//	    label = "Client"
//	  }
//
//	  service "hub" {
//	    icon = "azure.data.event-hubs"
//	  }
//
//	  cluster "storage" {
//	    label      = format("Storage (%s)", upper(var.env))
//	    background = true
//
//	    service "lake" {
//	      icon = "azure.data.data-lake"
//	    }
//	  }
//
//	  flow {
//	    chain = ["client", "hub", "storage"]
//	  }
//
//	  edge {
//	    from  = "hub"
//	    to    = ["lake"]
//	    attrs = { style = "dashed" }
//	  }
//	}
//
// Edges and flows name entities by block label. An entity must be declared
// before the edge that uses it. Expressions may use var.<name> and the
// functions upper, lower, join, format and title.
package dsl
