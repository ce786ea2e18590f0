package diagram

import "github.com/matzehuels/architectures/pkg/errors"

// Registry records every node in creation order and indexes them by the
// cluster that was active when they were created. The nil cluster key holds
// top-level nodes.
type Registry struct {
	nodes   []*Node
	members map[*Cluster][]int
}

func newRegistry() *Registry {
	return &Registry{members: make(map[*Cluster][]int)}
}

func (r *Registry) add(n *Node) {
	r.members[n.cluster] = append(r.members[n.cluster], len(r.nodes))
	r.nodes = append(r.nodes, n)
}

// Len returns the number of registered nodes.
func (r *Registry) Len() int { return len(r.nodes) }

// Nodes returns all registered nodes in creation order.
func (r *Registry) Nodes() []*Node {
	return append([]*Node(nil), r.nodes...)
}

// Members returns the nodes created directly inside c, in creation order.
// Nodes of nested clusters belong to those clusters, not to c.
func (r *Registry) Members(c *Cluster) []*Node {
	idx := r.members[c]
	out := make([]*Node, len(idx))
	for i, pos := range idx {
		out[i] = r.nodes[pos]
	}
	return out
}

// Representative returns the node that stands in for c as an edge endpoint:
// member max(0, floor(n/2)-1) of its n direct members. A cluster without
// direct members is an [errors.ErrCodeEmptyCluster] error.
func (r *Registry) Representative(c *Cluster) (*Node, error) {
	idx := r.members[c]
	if len(idx) == 0 {
		return nil, errors.New(errors.ErrCodeEmptyCluster, "cluster %q has no nodes", c.Label())
	}
	return r.nodes[idx[representativeIndex(len(idx))]], nil
}

func representativeIndex(n int) int {
	return max(0, n/2-1)
}
