// Package theme provides attribute defaults for graphs, clusters, nodes and
// edges.
//
// A [Theme] is four attribute dictionaries. The diagram core copies them
// into every graph, cluster, node and edge it creates, so a theme value is
// never mutated by use. Derive variants with [Theme.WithOverrides] or load
// them from TOML with [LoadFile].
package theme

import (
	"io"
	"os"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/architectures/pkg/dot"
	"github.com/matzehuels/architectures/pkg/errors"
)

// Theme names.
const (
	NameDefault = "default"
	NameClean   = "clean"
)

// Theme bundles default attributes for each diagram element.
type Theme struct {
	Name    string
	Graph   dot.Attrs
	Cluster dot.Attrs
	Node    dot.Attrs
	Edge    dot.Attrs
}

// Overrides holds per-element attributes layered over a base theme.
type Overrides struct {
	Graph   dot.Attrs `toml:"graph"`
	Cluster dot.Attrs `toml:"cluster"`
	Node    dot.Attrs `toml:"node"`
	Edge    dot.Attrs `toml:"edge"`
}

// Default returns the standard theme: compound edges, rounded clusters and
// fixed-size icon nodes with labels below the image.
func Default() *Theme {
	return &Theme{
		Name: NameDefault,
		Graph: dot.Attrs{
			"compound":  "true",
			"splines":   "spline",
			"pad":       "1.5",
			"nodesep":   "1.15",
			"ranksep":   "1.5",
			"fontname":  "Sans-Serif",
			"fontsize":  "20",
			"fontcolor": "#2D3436",
		},
		Cluster: dot.Attrs{
			"style":     "rounded",
			"labeljust": "l",
			"pencolor":  "#A0A0A0",
			"fontname":  "Sans-Serif",
			"fontsize":  "16",
			"margin":    "30",
		},
		Node: dot.Attrs{
			"shape":      "box",
			"style":      "rounded",
			"fixedsize":  "true",
			"width":      "1.4",
			"height":     "1.4",
			"labelloc":   "b",
			"imagescale": "true",
			"fontname":   "Sans-Serif",
			"fontsize":   "14",
			"fontcolor":  "#2D3436",
		},
		Edge: dot.Attrs{
			"color": "#7B8894",
		},
	}
}

// Clean returns a borderless variant with filled clusters and plain nodes.
func Clean() *Theme {
	t := Default().WithOverrides(Overrides{
		Graph:   dot.Attrs{"splines": "ortho"},
		Cluster: dot.Attrs{"style": "rounded,filled", "pencolor": "transparent", "bgcolor": "#F7F9FA"},
		Node:    dot.Attrs{"style": "rounded,filled", "color": "#F7F9FA", "fillcolor": "white"},
		Edge:    dot.Attrs{"color": "#5A6670", "arrowsize": "0.8"},
	})
	t.Name = NameClean
	return t
}

// All returns the built-in themes keyed by name.
func All() map[string]*Theme {
	return map[string]*Theme{
		NameDefault: Default(),
		NameClean:   Clean(),
	}
}

// Names returns the built-in theme names in sorted order.
func Names() []string {
	names := make([]string, 0, 2)
	for name := range All() {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Lookup returns the built-in theme with the given name.
func Lookup(name string) (*Theme, error) {
	if name == "" {
		return Default(), nil
	}
	t, ok := All()[strings.ToLower(name)]
	if !ok {
		return nil, errors.New(errors.ErrCodeInvalidTheme, "unknown theme %q (must be one of: %s)", name, strings.Join(Names(), ", "))
	}
	return t, nil
}

// Clone returns a deep copy of t.
func (t *Theme) Clone() *Theme {
	return &Theme{
		Name:    t.Name,
		Graph:   t.Graph.Clone(),
		Cluster: t.Cluster.Clone(),
		Node:    t.Node.Clone(),
		Edge:    t.Edge.Clone(),
	}
}

// WithOverrides returns a copy of t with o layered on top.
func (t *Theme) WithOverrides(o Overrides) *Theme {
	c := t.Clone()
	c.Graph.Merge(o.Graph)
	c.Cluster.Merge(o.Cluster)
	c.Node.Merge(o.Node)
	c.Edge.Merge(o.Edge)
	return c
}

// file is the TOML layout of a theme file.
type file struct {
	Name string `toml:"name"`
	Base string `toml:"base,omitempty"`
	Overrides
}

// Parse decodes a TOML theme. The optional base key names the built-in
// theme the tables override; it defaults to "default".
//
//	name = "ocean"
//	base = "clean"
//
//	[cluster]
//	bgcolor = "#E8F4FA"
//
//	[edge]
//	color = "#1D6A96"
func Parse(data []byte) (*Theme, error) {
	var f file
	if err := toml.Unmarshal(data, &f); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidTheme, err, "decode theme")
	}
	base, err := Lookup(f.Base)
	if err != nil {
		return nil, err
	}
	t := base.WithOverrides(f.Overrides)
	if f.Name != "" {
		t.Name = f.Name
	}
	return t, nil
}

// LoadFile reads and decodes the TOML theme at path.
func LoadFile(path string) (*Theme, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "theme file %s", path)
		}
		return nil, err
	}
	return Parse(data)
}

// Encode writes t as a TOML theme file that [Parse] reads back unchanged.
func (t *Theme) Encode(w io.Writer) error {
	return toml.NewEncoder(w).Encode(file{
		Name: t.Name,
		Overrides: Overrides{
			Graph:   t.Graph,
			Cluster: t.Cluster,
			Node:    t.Node,
			Edge:    t.Edge,
		},
	})
}
