package diagram

import (
	"github.com/matzehuels/architectures/pkg/dot"
	"github.com/matzehuels/architectures/pkg/errors"
)

// Boundary hint attributes. Graphviz clips an edge at the named cluster
// when the graph has compound=true.
const (
	attrLTail = "ltail"
	attrLHead = "lhead"
)

// Endpoint is one side of an edge: a single [Entity] or a list built with [All].
type Endpoint interface {
	endpoints() []Entity
}

// Entity is a *Node or a *Cluster (including groups).
type Entity interface {
	Endpoint
}

type entityList []Entity

func (l entityList) endpoints() []Entity { return l }

// All combines entities into one endpoint. An edge between lists connects
// every pair of the cross product.
func All(entities ...Entity) Endpoint { return entityList(entities) }

// Edge connects from to to in the active graph using the theme's edge
// defaults overridden by attrs. Cluster endpoints are replaced by their
// representative node and marked with a boundary hint.
func (c *Context) Edge(from, to Endpoint, attrs dot.Attrs) error {
	g := c.graph
	if g == nil {
		return errors.New(errors.ErrCodeConfiguration, "no active graph: edges must be created inside a graph")
	}

	tails, err := c.resolveEndpoint(from, "from")
	if err != nil {
		return err
	}
	heads, err := c.resolveEndpoint(to, "to")
	if err != nil {
		return err
	}

	base := g.theme.Edge.Clone().Merge(attrs)
	for _, tail := range tails {
		for _, head := range heads {
			if err := c.connect(tail, head, base); err != nil {
				return err
			}
		}
	}
	return nil
}

// Flow connects each entity to the next, left to right, with the same
// resolution as [Context.Edge]. It needs at least two entities.
func (c *Context) Flow(entities []Entity, attrs dot.Attrs) error {
	if len(entities) < 2 {
		return errors.New(errors.ErrCodeInvalidArgument, "flow requires more than one entity, got %d", len(entities))
	}
	g := c.graph
	if g == nil {
		return errors.New(errors.ErrCodeConfiguration, "no active graph: flows must be created inside a graph")
	}
	for i, e := range entities {
		if err := c.checkEntity(e); err != nil {
			return errors.Wrap(errors.GetCode(err), err, "flow entity %d", i)
		}
	}

	base := g.theme.Edge.Clone().Merge(attrs)
	for i := range len(entities) - 1 {
		if err := c.connect(entities[i], entities[i+1], base); err != nil {
			return err
		}
	}
	return nil
}

func (c *Context) resolveEndpoint(ep Endpoint, side string) ([]Entity, error) {
	if ep == nil {
		return nil, errors.New(errors.ErrCodeInvalidEndpoint, "%s endpoint is nil: must be a node, cluster, or group", side)
	}
	entities := ep.endpoints()
	if len(entities) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidArgument, "%s endpoint has no entities", side)
	}
	for _, e := range entities {
		if err := c.checkEntity(e); err != nil {
			return nil, errors.Wrap(errors.GetCode(err), err, "%s endpoint", side)
		}
	}
	return entities, nil
}

// checkEntity rejects nil entities and entities built outside the active
// graph of this context.
func (c *Context) checkEntity(e Entity) error {
	switch v := e.(type) {
	case *Node:
		if v != nil && v.ctx == c && v.graph == c.graph {
			return nil
		}
	case *Cluster:
		if v != nil && v.ctx == c && v.graph == c.graph {
			return nil
		}
	}
	return errors.New(errors.ErrCodeInvalidEndpoint, "endpoint must be a node, cluster, or group of the active graph")
}

func (c *Context) connect(tail, head Entity, base dot.Attrs) error {
	attrs := base.Clone()

	tailNode, err := c.anchor(tail, attrLTail, attrs)
	if err != nil {
		return err
	}
	headNode, err := c.anchor(head, attrLHead, attrs)
	if err != nil {
		return err
	}

	c.graph.doc.AddEdge(tailNode.id, headNode.id, attrs)
	c.graph.edges++
	c.logger.Debug("edge added", "tail", tailNode.id, "head", headNode.id)
	return nil
}

// anchor returns the node an edge attaches to for e and sets or clears the
// boundary hint under key.
func (c *Context) anchor(e Entity, key string, attrs dot.Attrs) (*Node, error) {
	switch v := e.(type) {
	case *Node:
		delete(attrs, key)
		return v, nil
	case *Cluster:
		n, err := c.registry.Representative(v)
		if err != nil {
			return nil, err
		}
		attrs[key] = v.Name()
		return n, nil
	}
	return nil, errors.New(errors.ErrCodeInvalidEndpoint, "endpoint must be a node, cluster, or group")
}
