package diagram

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/architectures/pkg/dot"
	"github.com/matzehuels/architectures/pkg/errors"
	"github.com/matzehuels/architectures/pkg/icons"
	"github.com/matzehuels/architectures/pkg/render"
	"github.com/matzehuels/architectures/pkg/theme"
)

type fakeRenderer struct {
	src    []byte
	format string
	err    error
}

func (r *fakeRenderer) Name() string { return "fake" }

func (r *fakeRenderer) Render(_ context.Context, src []byte, format string) ([]byte, error) {
	r.src, r.format = src, format
	if r.err != nil {
		return nil, r.err
	}
	return []byte("image:" + format), nil
}

type fakeViewer struct {
	paths []string
}

func (v *fakeViewer) View(_ context.Context, path string) error {
	v.paths = append(v.paths, path)
	return nil
}

func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("id%d", n)
	}
}

// newTestGraph returns an entered graph backed by a fake renderer.
func newTestGraph(t *testing.T) (*Context, *Graph) {
	t.Helper()
	ctx := NewContext(WithIDFunc(sequentialIDs()))
	g, err := ctx.NewGraph("Test Graph", Options{Dir: t.TempDir(), Renderer: &fakeRenderer{}})
	if err != nil {
		t.Fatalf("NewGraph: %v", err)
	}
	if err := g.Enter(); err != nil {
		t.Fatalf("Enter: %v", err)
	}
	return ctx, g
}

func mustNode(t *testing.T, ctx *Context, label string) *Node {
	t.Helper()
	n, err := ctx.NewNode(label, nil)
	if err != nil {
		t.Fatalf("NewNode(%q): %v", label, err)
	}
	return n
}

// mustCluster creates and enters a cluster, creates nodes inside it and exits.
func mustCluster(t *testing.T, ctx *Context, label string, nodes ...string) (*Cluster, []*Node) {
	t.Helper()
	cl, err := ctx.NewCluster(label, ClusterOptions{})
	if err != nil {
		t.Fatalf("NewCluster(%q): %v", label, err)
	}
	var out []*Node
	err = cl.Within(func() error {
		for _, l := range nodes {
			out = append(out, mustNode(t, ctx, l))
		}
		return nil
	})
	if err != nil {
		t.Fatalf("cluster %q: %v", label, err)
	}
	return cl, out
}

func TestRepresentativeIndex(t *testing.T) {
	tests := []struct {
		n, want int
	}{
		{1, 0},
		{2, 0},
		{3, 0},
		{4, 1},
		{5, 1},
		{6, 2},
		{9, 3},
	}
	for _, tt := range tests {
		if got := representativeIndex(tt.n); got != tt.want {
			t.Errorf("representativeIndex(%d) = %d, want %d", tt.n, got, tt.want)
		}
	}
}

func TestRepresentative(t *testing.T) {
	for n := 1; n <= 5; n++ {
		t.Run(fmt.Sprintf("n=%d", n), func(t *testing.T) {
			ctx, _ := newTestGraph(t)
			labels := make([]string, n)
			for i := range labels {
				labels[i] = fmt.Sprintf("node %d", i)
			}
			cl, nodes := mustCluster(t, ctx, "cluster", labels...)

			got, err := ctx.Registry().Representative(cl)
			if err != nil {
				t.Fatal(err)
			}
			if want := nodes[max(0, n/2-1)]; got != want {
				t.Errorf("Representative = %s, want %s", got.Label(), want.Label())
			}
		})
	}
}

func TestRepresentativeEmptyCluster(t *testing.T) {
	ctx, _ := newTestGraph(t)
	cl, _ := mustCluster(t, ctx, "empty")

	_, err := ctx.Registry().Representative(cl)
	if !errors.Is(err, errors.ErrCodeEmptyCluster) {
		t.Fatalf("err = %v, want EmptyCluster", err)
	}

	other := mustNode(t, ctx, "x")
	if err := ctx.Edge(other, cl, nil); !errors.Is(err, errors.ErrCodeEmptyCluster) {
		t.Errorf("Edge to empty cluster: err = %v", err)
	}
}

func TestRegistrationOrder(t *testing.T) {
	ctx, _ := newTestGraph(t)

	outer, _ := ctx.NewCluster("outer", ClusterOptions{})
	if err := outer.Enter(); err != nil {
		t.Fatal(err)
	}
	a := mustNode(t, ctx, "A")

	inner, _ := ctx.NewCluster("inner", ClusterOptions{})
	if err := inner.Enter(); err != nil {
		t.Fatal(err)
	}
	x := mustNode(t, ctx, "X")
	if err := inner.Exit(); err != nil {
		t.Fatal(err)
	}

	b := mustNode(t, ctx, "B")
	c := mustNode(t, ctx, "C")
	if err := outer.Exit(); err != nil {
		t.Fatal(err)
	}
	top := mustNode(t, ctx, "top")

	reg := ctx.Registry()
	assertNodes(t, "outer", reg.Members(outer), a, b, c)
	assertNodes(t, "inner", reg.Members(inner), x)
	assertNodes(t, "top level", reg.Members(nil), top)
	assertNodes(t, "all", reg.Nodes(), a, x, b, c, top)
	if reg.Len() != 5 {
		t.Errorf("Len() = %d, want 5", reg.Len())
	}
}

func assertNodes(t *testing.T, name string, got []*Node, want ...*Node) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("%s: got %d nodes, want %d", name, len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("%s[%d] = %s, want %s", name, i, got[i].Label(), want[i].Label())
		}
	}
}

func TestEdgeResolution(t *testing.T) {
	ctx, g := newTestGraph(t)
	x := mustNode(t, ctx, "X")
	y := mustNode(t, ctx, "Y")
	c1, c1Nodes := mustCluster(t, ctx, "first", "a", "b")
	c2, c2Nodes := mustCluster(t, ctx, "second", "c", "d", "e", "f")

	tests := []struct {
		name       string
		from, to   Entity
		tail, head string
		ltail      string
		lhead      string
	}{
		{"node to node", x, y, x.ID(), y.ID(), "", ""},
		{"node to cluster", x, c1, x.ID(), c1Nodes[0].ID(), "", c1.Name()},
		{"cluster to node", c2, y, c2Nodes[1].ID(), y.ID(), c2.Name(), ""},
		{"cluster to cluster", c1, c2, c1Nodes[0].ID(), c2Nodes[1].ID(), c1.Name(), c2.Name()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := len(g.Document().Edges())
			if err := ctx.Edge(tt.from, tt.to, nil); err != nil {
				t.Fatal(err)
			}
			edges := g.Document().Edges()
			if len(edges) != before+1 {
				t.Fatalf("edges = %d, want %d", len(edges), before+1)
			}
			e := edges[len(edges)-1]
			if e.Tail != tt.tail || e.Head != tt.head {
				t.Errorf("edge = %s -> %s, want %s -> %s", e.Tail, e.Head, tt.tail, tt.head)
			}
			assertHint(t, e.Attrs, "ltail", tt.ltail)
			assertHint(t, e.Attrs, "lhead", tt.lhead)
			if e.Attrs["color"] != theme.Default().Edge["color"] {
				t.Errorf("theme edge color missing: %v", e.Attrs)
			}
		})
	}
}

func assertHint(t *testing.T, attrs dot.Attrs, key, want string) {
	t.Helper()
	got, ok := attrs[key]
	if want == "" {
		if ok {
			t.Errorf("%s = %q, want unset", key, got)
		}
		return
	}
	if got != want {
		t.Errorf("%s = %q, want %q", key, got, want)
	}
}

func TestEdgeCrossProduct(t *testing.T) {
	ctx, g := newTestGraph(t)
	a := mustNode(t, ctx, "a")
	b := mustNode(t, ctx, "b")
	c := mustNode(t, ctx, "c")
	d := mustNode(t, ctx, "d")

	if err := ctx.Edge(All(a, b), All(c, d), dot.Attrs{"style": "dashed"}); err != nil {
		t.Fatal(err)
	}

	edges := g.Document().Edges()
	want := [][2]string{{a.ID(), c.ID()}, {a.ID(), d.ID()}, {b.ID(), c.ID()}, {b.ID(), d.ID()}}
	if len(edges) != len(want) {
		t.Fatalf("edges = %d, want %d", len(edges), len(want))
	}
	for i, e := range edges {
		if e.Tail != want[i][0] || e.Head != want[i][1] {
			t.Errorf("edge %d = %s -> %s, want %s -> %s", i, e.Tail, e.Head, want[i][0], want[i][1])
		}
		if e.Attrs["style"] != "dashed" {
			t.Errorf("edge %d missing caller attrs: %v", i, e.Attrs)
		}
	}
}

func TestEdgeHintsDoNotLeakBetweenPairs(t *testing.T) {
	ctx, g := newTestGraph(t)
	x := mustNode(t, ctx, "X")
	y := mustNode(t, ctx, "Y")
	cl, _ := mustCluster(t, ctx, "cluster", "a")

	if err := ctx.Edge(x, All(cl, y), nil); err != nil {
		t.Fatal(err)
	}
	edges := g.Document().Edges()
	assertHint(t, edges[0].Attrs, "lhead", cl.Name())
	assertHint(t, edges[1].Attrs, "lhead", "")
}

func TestEdgeInvalidEndpoints(t *testing.T) {
	ctx, _ := newTestGraph(t)
	x := mustNode(t, ctx, "X")

	otherCtx, _ := newTestGraph(t)
	foreign := mustNode(t, otherCtx, "foreign")

	var nilNode *Node
	tests := []struct {
		name     string
		from, to Endpoint
		code     errors.Code
	}{
		{"nil endpoint", nil, x, errors.ErrCodeInvalidEndpoint},
		{"nil node", x, nilNode, errors.ErrCodeInvalidEndpoint},
		{"zero node", &Node{}, x, errors.ErrCodeInvalidEndpoint},
		{"zero cluster", x, &Cluster{}, errors.ErrCodeInvalidEndpoint},
		{"other context", x, foreign, errors.ErrCodeInvalidEndpoint},
		{"nested list", All(All(x)), x, errors.ErrCodeInvalidEndpoint},
		{"empty list", All(), x, errors.ErrCodeInvalidArgument},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ctx.Edge(tt.from, tt.to, nil)
			if !errors.Is(err, tt.code) {
				t.Errorf("err = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestFlowChainsInOrder(t *testing.T) {
	ctx, g := newTestGraph(t)
	a := mustNode(t, ctx, "A")
	b := mustNode(t, ctx, "B")
	c := mustNode(t, ctx, "C")

	if err := ctx.Flow([]Entity{a, b, c}, nil); err != nil {
		t.Fatal(err)
	}

	edges := g.Document().Edges()
	if len(edges) != 2 {
		t.Fatalf("edges = %d, want 2", len(edges))
	}
	if edges[0].Tail != a.ID() || edges[0].Head != b.ID() {
		t.Errorf("first edge = %s -> %s, want A -> B", edges[0].Tail, edges[0].Head)
	}
	if edges[1].Tail != b.ID() || edges[1].Head != c.ID() {
		t.Errorf("second edge = %s -> %s, want B -> C", edges[1].Tail, edges[1].Head)
	}
}

func TestFlowWithClusters(t *testing.T) {
	ctx, g := newTestGraph(t)
	a := mustNode(t, ctx, "A")
	cl, members := mustCluster(t, ctx, "cluster", "m1", "m2", "m3", "m4")
	z := mustNode(t, ctx, "Z")

	if err := ctx.Flow([]Entity{a, cl, z}, nil); err != nil {
		t.Fatal(err)
	}
	edges := g.Document().Edges()
	if edges[0].Head != members[1].ID() || edges[0].Attrs["lhead"] != cl.Name() {
		t.Errorf("first edge = %+v", edges[0])
	}
	if edges[1].Tail != members[1].ID() || edges[1].Attrs["ltail"] != cl.Name() {
		t.Errorf("second edge = %+v", edges[1])
	}
	assertHint(t, edges[1].Attrs, "lhead", "")
}

func TestFlowRequiresTwoEntities(t *testing.T) {
	ctx, _ := newTestGraph(t)
	single := mustNode(t, ctx, "only")

	for _, entities := range [][]Entity{nil, {}, {single}} {
		err := ctx.Flow(entities, nil)
		if !errors.Is(err, errors.ErrCodeInvalidArgument) {
			t.Errorf("Flow(%d entities) err = %v, want InvalidArgument", len(entities), err)
		}
		if err != nil && !strings.Contains(err.Error(), "more than one entity") {
			t.Errorf("message = %q", err.Error())
		}
	}
}

func TestNoActiveGraph(t *testing.T) {
	ctx := NewContext()

	if _, err := ctx.NewNode("orphan", nil); !errors.Is(err, errors.ErrCodeConfiguration) {
		t.Errorf("NewNode err = %v", err)
	}
	if _, err := ctx.NewService(icons.Service{Provider: "azure", Category: "data", Icon: "data-lake.png"}, "", nil); !errors.Is(err, errors.ErrCodeConfiguration) {
		t.Errorf("NewService err = %v", err)
	}
	if _, err := ctx.NewCluster("c", ClusterOptions{}); !errors.Is(err, errors.ErrCodeConfiguration) {
		t.Errorf("NewCluster err = %v", err)
	}
	if _, err := ctx.NewGroup(ClusterOptions{}); !errors.Is(err, errors.ErrCodeConfiguration) {
		t.Errorf("NewGroup err = %v", err)
	}
	if err := ctx.Edge(All(), All(), nil); !errors.Is(err, errors.ErrCodeConfiguration) {
		t.Errorf("Edge err = %v", err)
	}
	if err := ctx.Flow([]Entity{&Node{}, &Node{}}, nil); !errors.Is(err, errors.ErrCodeConfiguration) {
		t.Errorf("Flow err = %v", err)
	}
}

func TestScenarioEdgeFromNodeToCluster(t *testing.T) {
	ctx, g := newTestGraph(t)
	x := mustNode(t, ctx, "X")
	c, members := mustCluster(t, ctx, "C", "Y", "Z")

	if err := ctx.Edge(x, c, nil); err != nil {
		t.Fatal(err)
	}

	edges := g.Document().Edges()
	if len(edges) != 1 {
		t.Fatalf("edges = %d, want 1", len(edges))
	}
	e := edges[0]
	if e.Tail != x.ID() || e.Head != members[0].ID() {
		t.Errorf("edge = %s -> %s, want X -> Y", e.Tail, e.Head)
	}
	if e.Attrs["lhead"] != ClusterPrefix+c.ID() {
		t.Errorf("lhead = %q, want %q", e.Attrs["lhead"], ClusterPrefix+c.ID())
	}
}

func TestNodeAttributes(t *testing.T) {
	ctx, _ := newTestGraph(t)

	n, err := ctx.NewNode("Web", dot.Attrs{"shape": "ellipse", "color": "red"})
	if err != nil {
		t.Fatal(err)
	}
	attrs := n.Attrs()
	if attrs["shape"] != "ellipse" || attrs["color"] != "red" {
		t.Errorf("overrides not applied: %v", attrs)
	}
	if attrs["fontname"] != theme.Default().Node["fontname"] {
		t.Errorf("theme defaults not applied: %v", attrs)
	}
	if _, ok := attrs["image"]; ok {
		t.Error("plain node should not carry an image")
	}
	if _, ok := n.Service(); ok {
		t.Error("plain node should not have a service")
	}
}

func TestServiceNode(t *testing.T) {
	ctx := NewContext()
	g, err := ctx.NewGraph("icons", Options{IconRoot: "/opt/architectures", Renderer: &fakeRenderer{}})
	if err != nil {
		t.Fatal(err)
	}
	if err := g.Enter(); err != nil {
		t.Fatal(err)
	}

	svc := icons.Service{Provider: "azure", Category: "data", Icon: "azure-synapse-analytics.png"}
	n, err := ctx.NewService(svc, "", nil)
	if err != nil {
		t.Fatal(err)
	}

	if n.Label() != "Azure Synapse\nAnalytics" {
		t.Errorf("label = %q", n.Label())
	}
	attrs := n.Attrs()
	if attrs["height"] != "1.8" {
		t.Errorf("height = %q, want 1.8", attrs["height"])
	}
	want := filepath.Join("/opt/architectures", "icons", "azure", "data", "azure-synapse-analytics.png")
	if attrs["image"] != want {
		t.Errorf("image = %q, want %q", attrs["image"], want)
	}
	if got, ok := n.Service(); !ok || got != svc {
		t.Errorf("Service() = %v, %v", got, ok)
	}

	short, err := ctx.NewService(svc, "Synapse", dot.Attrs{"height": "2"})
	if err != nil {
		t.Fatal(err)
	}
	if short.Attrs()["height"] != "2" {
		t.Errorf("height override = %q, want 2", short.Attrs()["height"])
	}
}

func TestPaddedHeight(t *testing.T) {
	tests := []struct {
		height string
		lines  int
		want   string
	}{
		{"1.4", 0, "1.4"},
		{"1.4", 1, "1.8"},
		{"1.4", 2, "2.2"},
		{"2", 3, "3.2"},
		{"", 1, "1.8"},
		{"bogus", 0, "1.4"},
	}
	for _, tt := range tests {
		if got := paddedHeight(tt.height, tt.lines); got != tt.want {
			t.Errorf("paddedHeight(%q, %d) = %q, want %q", tt.height, tt.lines, got, tt.want)
		}
	}
}

func TestNodeWrapWidthFollowsCluster(t *testing.T) {
	ctx, _ := newTestGraph(t)
	label := "Application Gateway Front End"

	top := mustNode(t, ctx, label)
	if top.Label() != Wrap(label, DefaultWrapWidth) {
		t.Errorf("top-level label = %q", top.Label())
	}

	clusterLabel := "A Rather Long Cluster Label"
	_, nodes := mustCluster(t, ctx, clusterLabel, label)
	if nodes[0].Label() != Wrap(label, len(clusterLabel)) {
		t.Errorf("clustered label = %q", nodes[0].Label())
	}
}

func TestNodeWrapWidthCountsCharacters(t *testing.T) {
	ctx, _ := newTestGraph(t)

	// 16 characters, 18 bytes.
	_, nodes := mustCluster(t, ctx, "Entrepôt Données", "Traitement en lot")
	if got, want := nodes[0].Label(), "Traitement en\nlot"; got != want {
		t.Errorf("clustered label = %q, want %q", got, want)
	}
}

func TestClusterNestingAndDocuments(t *testing.T) {
	ctx, g := newTestGraph(t)

	outer, _ := ctx.NewCluster("outer", ClusterOptions{Background: true})
	var inner *Cluster
	err := outer.Within(func() error {
		var err error
		inner, err = ctx.NewCluster("inner", ClusterOptions{Background: true, Attrs: dot.Attrs{"pencolor": "blue"}})
		if err != nil {
			return err
		}
		return inner.Within(func() error {
			_, err := ctx.NewNode("leaf", nil)
			return err
		})
	})
	if err != nil {
		t.Fatal(err)
	}

	if outer.Depth() != 0 || inner.Depth() != 1 {
		t.Errorf("depths = %d, %d, want 0, 1", outer.Depth(), inner.Depth())
	}
	if inner.Parent() != outer {
		t.Error("inner parent should be outer")
	}
	if ctx.Cluster() != nil {
		t.Errorf("active cluster after exit = %v", ctx.Cluster().Label())
	}

	subs := g.Document().Subgraphs()
	if len(subs) != 1 || subs[0] != outer.Document() {
		t.Fatalf("graph subgraphs = %v", subs)
	}
	nested := outer.Document().Subgraphs()
	if len(nested) != 1 || nested[0] != inner.Document() {
		t.Fatalf("outer subgraphs = %v", nested)
	}
	if len(inner.Document().Nodes()) != 1 {
		t.Errorf("inner nodes = %d, want 1", len(inner.Document().Nodes()))
	}

	attrs := inner.Document().Defaults(dot.ScopeGraph)
	if attrs["label"] != "inner" || attrs["pencolor"] != "blue" || attrs["bgcolor"] != "#FFFFFF" {
		t.Errorf("inner attrs = %v", attrs)
	}
	if attrs["style"] != theme.Default().Cluster["style"] {
		t.Errorf("theme cluster style missing: %v", attrs)
	}
	if !strings.HasPrefix(outer.Name(), ClusterPrefix) {
		t.Errorf("Name() = %q", outer.Name())
	}
}

func TestGroup(t *testing.T) {
	ctx, _ := newTestGraph(t)
	grp, err := ctx.NewGroup(ClusterOptions{})
	if err != nil {
		t.Fatal(err)
	}
	if !grp.Invisible() {
		t.Error("group should be invisible")
	}
	if grp.Label() != grp.ID() {
		t.Errorf("group label = %q, want its id %q", grp.Label(), grp.ID())
	}
	attrs := grp.Document().Defaults(dot.ScopeGraph)
	if attrs["style"] != "invis" {
		t.Errorf("style = %q, want invis", attrs["style"])
	}
	if _, ok := attrs["label"]; ok {
		t.Errorf("group should have no label attribute: %v", attrs)
	}

	var a *Node
	if err := grp.Within(func() error {
		a = mustNode(t, ctx, "a")
		return nil
	}); err != nil {
		t.Fatal(err)
	}
	x := mustNode(t, ctx, "x")
	if err := ctx.Edge(grp, x, nil); err != nil {
		t.Fatalf("group endpoint: %v", err)
	}
	if rep, _ := ctx.Registry().Representative(grp); rep != a {
		t.Error("group representative should be its only member")
	}
}

func TestClusterScopeErrors(t *testing.T) {
	ctx, _ := newTestGraph(t)
	outer, _ := ctx.NewCluster("outer", ClusterOptions{})
	inner, _ := ctx.NewCluster("inner", ClusterOptions{})

	if err := inner.Exit(); !errors.Is(err, errors.ErrCodeConfiguration) {
		t.Errorf("exit before enter: err = %v", err)
	}
	if err := outer.Enter(); err != nil {
		t.Fatal(err)
	}
	if err := outer.Enter(); !errors.Is(err, errors.ErrCodeConfiguration) {
		t.Errorf("double enter: err = %v", err)
	}

	nested, _ := ctx.NewCluster("nested", ClusterOptions{})
	if err := nested.Enter(); err != nil {
		t.Fatal(err)
	}
	if err := outer.Exit(); !errors.Is(err, errors.ErrCodeConfiguration) {
		t.Errorf("out-of-order exit: err = %v", err)
	}
	if err := nested.Exit(); err != nil {
		t.Fatal(err)
	}
	if err := outer.Exit(); err != nil {
		t.Fatal(err)
	}
	if err := outer.Exit(); !errors.Is(err, errors.ErrCodeConfiguration) {
		t.Errorf("double exit: err = %v", err)
	}
	if err := outer.Within(func() error { return nil }); !errors.Is(err, errors.ErrCodeConfiguration) {
		t.Errorf("re-enter exited cluster: err = %v", err)
	}
}

func TestNestedGraph(t *testing.T) {
	ctx, _ := newTestGraph(t)
	second, err := ctx.NewGraph("second", Options{Renderer: &fakeRenderer{}})
	if err != nil {
		t.Fatal(err)
	}
	if err := second.Enter(); !errors.Is(err, errors.ErrCodeNestedGraph) {
		t.Fatalf("err = %v, want NestedGraph", err)
	}
}

func TestNewGraphValidation(t *testing.T) {
	ctx := NewContext()
	tests := []struct {
		name  string
		gname string
		opts  Options
		code  errors.Code
	}{
		{"empty name", "  ", Options{}, errors.ErrCodeInvalidArgument},
		{"bad format", "g", Options{Format: "gif"}, errors.ErrCodeInvalidFormat},
		{"path in filename", "g", Options{Filename: "../escape"}, errors.ErrCodeInvalidPath},
		{"derived path", "web/api", Options{}, errors.ErrCodeInvalidPath},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ctx.NewGraph(tt.gname, tt.opts)
			if !errors.Is(err, tt.code) {
				t.Errorf("err = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestDefaultFilename(t *testing.T) {
	tests := map[string]string{
		"My Web App":         "my-web-app",
		"  Event   Hub  ":    "event-hub",
		"single":             "single",
		"Azure IoT Pipeline": "azure-iot-pipeline",
	}
	for in, want := range tests {
		if got := DefaultFilename(in); got != want {
			t.Errorf("DefaultFilename(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestGraphDefaults(t *testing.T) {
	ctx := NewContext()
	g, err := ctx.NewGraph("My Architecture", Options{})
	if err != nil {
		t.Fatal(err)
	}
	if g.Filename() != "my-architecture" || g.Format() != "png" {
		t.Errorf("filename, format = %q, %q", g.Filename(), g.Format())
	}
	if g.Theme().Name != theme.NameDefault {
		t.Errorf("theme = %q", g.Theme().Name)
	}
	if got, want := g.renderer.Name(), render.Auto("").Name(); got != want {
		t.Errorf("default renderer = %q, want %q", got, want)
	}
	doc := g.Document()
	if label, _ := doc.Attr("label"); label != "My Architecture" {
		t.Errorf("graph label = %q", label)
	}
	if doc.Defaults(dot.ScopeNode)["shape"] != theme.Default().Node["shape"] {
		t.Error("node defaults not applied")
	}
	if doc.Defaults(dot.ScopeEdge)["color"] != theme.Default().Edge["color"] {
		t.Error("edge defaults not applied")
	}
}

func TestThemeIsCopied(t *testing.T) {
	th := theme.Default()
	ctx := NewContext()
	g, err := ctx.NewGraph("copy", Options{Theme: th, Renderer: &fakeRenderer{}})
	if err != nil {
		t.Fatal(err)
	}
	if err := g.Enter(); err != nil {
		t.Fatal(err)
	}
	n, err := ctx.NewNode("n", dot.Attrs{"shape": "circle"})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := ctx.NewCluster("c", ClusterOptions{Background: true}); err != nil {
		t.Fatal(err)
	}

	if th.Node["shape"] != "box" {
		t.Errorf("source theme mutated: shape = %q", th.Node["shape"])
	}
	if _, ok := th.Cluster["bgcolor"]; ok {
		t.Error("source theme mutated: cluster bgcolor set")
	}
	if _, ok := th.Cluster["label"]; ok {
		t.Error("source theme mutated: cluster label set")
	}
	if n.Attrs()["shape"] != "circle" {
		t.Error("override lost")
	}
}

func TestGraphExitRenders(t *testing.T) {
	dir := t.TempDir()
	r := &fakeRenderer{}
	v := &fakeViewer{}
	ctx := NewContext()
	g, err := ctx.NewGraph("Web Service", Options{Dir: dir, Format: "svg", Show: true, Renderer: r, Viewer: v})
	if err != nil {
		t.Fatal(err)
	}

	err = g.Within(context.Background(), func() error {
		a, err := ctx.NewNode("a", nil)
		if err != nil {
			return err
		}
		b, err := ctx.NewNode("b", nil)
		if err != nil {
			return err
		}
		if ctx.Graph() != g {
			t.Error("graph should be active inside Within")
		}
		return ctx.Edge(a, b, nil)
	})
	if err != nil {
		t.Fatal(err)
	}

	if nodes, edges := g.Stats(); nodes != 2 || edges != 1 {
		t.Errorf("Stats() = %d, %d, want 2, 1", nodes, edges)
	}

	out := filepath.Join(dir, "web-service.svg")
	if g.Output() != out {
		t.Errorf("Output() = %q, want %q", g.Output(), out)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "image:svg" {
		t.Errorf("output = %q", data)
	}
	if _, err := os.Stat(filepath.Join(dir, "web-service")); !os.IsNotExist(err) {
		t.Errorf("source file should be removed, stat err = %v", err)
	}
	if r.format != "svg" || !strings.HasPrefix(string(r.src), `digraph "Web Service" {`) {
		t.Errorf("renderer got format %q, src %.40q", r.format, r.src)
	}
	if len(v.paths) != 1 || v.paths[0] != out {
		t.Errorf("viewer paths = %v", v.paths)
	}
	if ctx.Graph() != nil {
		t.Error("ambient graph should be cleared after exit")
	}
	if err := g.Exit(context.Background()); !errors.Is(err, errors.ErrCodeConfiguration) {
		t.Errorf("second Exit err = %v", err)
	}
}

func TestGraphWithinBodyError(t *testing.T) {
	dir := t.TempDir()
	r := &fakeRenderer{}
	ctx := NewContext()
	g, _ := ctx.NewGraph("broken", Options{Dir: dir, Renderer: r})

	err := g.Within(context.Background(), func() error {
		cl, err := ctx.NewCluster("open", ClusterOptions{})
		if err != nil {
			return err
		}
		if err := cl.Enter(); err != nil {
			return err
		}
		return ctx.Flow(nil, nil)
	})
	if !errors.Is(err, errors.ErrCodeInvalidArgument) {
		t.Fatalf("err = %v, want InvalidArgument", err)
	}
	if ctx.Graph() != nil || ctx.Cluster() != nil {
		t.Error("ambient state not restored")
	}
	if r.src != nil {
		t.Error("nothing should be rendered after a failed body")
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 0 {
		t.Errorf("artifacts written: %v", entries)
	}

	// The context is usable for a fresh graph.
	next, _ := ctx.NewGraph("next", Options{Dir: dir, Renderer: r})
	if err := next.Enter(); err != nil {
		t.Errorf("Enter after failed build: %v", err)
	}
}

func TestGraphExitWithOpenCluster(t *testing.T) {
	ctx, g := newTestGraph(t)
	cl, _ := ctx.NewCluster("dangling", ClusterOptions{})
	if err := cl.Enter(); err != nil {
		t.Fatal(err)
	}
	if err := g.Exit(context.Background()); !errors.Is(err, errors.ErrCodeConfiguration) {
		t.Fatalf("err = %v, want Configuration", err)
	}
	if ctx.Graph() != nil || ctx.Cluster() != nil {
		t.Error("ambient state not restored")
	}
}

func TestRenderErrorPropagates(t *testing.T) {
	dir := t.TempDir()
	boom := errors.New(errors.ErrCodeRender, "layout failed")
	ctx := NewContext()
	g, _ := ctx.NewGraph("fails", Options{Dir: dir, Renderer: &fakeRenderer{err: boom}})
	if err := g.Enter(); err != nil {
		t.Fatal(err)
	}

	err := g.Exit(context.Background())
	if err != boom {
		t.Fatalf("err = %v, want renderer error unchanged", err)
	}
	if g.Output() != "" {
		t.Errorf("Output() = %q, want empty", g.Output())
	}
	if _, statErr := os.Stat(filepath.Join(dir, "fails.png")); !os.IsNotExist(statErr) {
		t.Error("no output should be written")
	}
	if ctx.Graph() != nil {
		t.Error("ambient graph should be cleared")
	}
}

func TestRegistrySurvivesGraphs(t *testing.T) {
	ctx := NewContext()
	for _, name := range []string{"first", "second"} {
		g, err := ctx.NewGraph(name, Options{Dir: t.TempDir(), Renderer: &fakeRenderer{}})
		if err != nil {
			t.Fatal(err)
		}
		if err := g.Within(context.Background(), func() error {
			_, err := ctx.NewNode(name, nil)
			return err
		}); err != nil {
			t.Fatal(err)
		}
	}
	if n := len(ctx.Registry().Members(nil)); n != 2 {
		t.Errorf("top-level members = %d, want 2", n)
	}
}

func TestStaleNodeFromPreviousGraph(t *testing.T) {
	ctx := NewContext()
	var stale *Node
	first, _ := ctx.NewGraph("first", Options{Dir: t.TempDir(), Renderer: &fakeRenderer{}})
	_ = first.Within(context.Background(), func() error {
		var err error
		stale, err = ctx.NewNode("old", nil)
		return err
	})

	second, _ := ctx.NewGraph("second", Options{Dir: t.TempDir(), Renderer: &fakeRenderer{}})
	if err := second.Enter(); err != nil {
		t.Fatal(err)
	}
	fresh := mustNode(t, ctx, "new")
	if err := ctx.Edge(stale, fresh, nil); !errors.Is(err, errors.ErrCodeInvalidEndpoint) {
		t.Errorf("err = %v, want InvalidEndpoint", err)
	}
}

func TestGraphDiscard(t *testing.T) {
	ctx, g := newTestGraph(t)
	mustNode(t, ctx, "a")
	src := g.String()

	if err := g.Discard(); err != nil {
		t.Fatal(err)
	}
	if ctx.Graph() != nil {
		t.Error("ambient graph should be cleared")
	}
	if g.String() != src {
		t.Error("document changed by Discard")
	}
	if err := g.Discard(); !errors.Is(err, errors.ErrCodeConfiguration) {
		t.Errorf("second Discard err = %v", err)
	}
}
