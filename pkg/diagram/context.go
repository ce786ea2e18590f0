package diagram

import (
	"io"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

// Context holds the ambient state of a diagram build: the active graph, the
// innermost active cluster and the node registry. The zero value is not
// usable; call [NewContext].
type Context struct {
	graph    *Graph
	cluster  *Cluster
	registry *Registry

	newID  func() string
	logger *log.Logger
}

// Option configures a Context.
type Option func(*Context)

// WithIDFunc sets the identity generator for nodes and clusters. Tests use it
// for deterministic output.
func WithIDFunc(fn func() string) Option { return func(c *Context) { c.newID = fn } }

// WithLogger sets the logger for build events.
func WithLogger(l *log.Logger) Option { return func(c *Context) { c.logger = l } }

// NewContext returns an empty context. By default identities are random
// 32-character hex strings and logging is discarded.
func NewContext(opts ...Option) *Context {
	c := &Context{
		registry: newRegistry(),
		newID:    randomID,
		logger:   log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Graph returns the active graph, or nil.
func (c *Context) Graph() *Graph { return c.graph }

// Cluster returns the innermost active cluster, or nil at the top level.
func (c *Context) Cluster() *Cluster { return c.cluster }

// Registry returns the node registry. It lives as long as the context and is
// not cleared between graphs.
func (c *Context) Registry() *Registry { return c.registry }

// Logger returns the build logger.
func (c *Context) Logger() *log.Logger { return c.logger }

func (c *Context) setGraph(g *Graph) (prev *Graph) {
	prev, c.graph = c.graph, g
	return prev
}

func (c *Context) setCluster(cl *Cluster) (prev *Cluster) {
	prev, c.cluster = c.cluster, cl
	return prev
}

func randomID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}
