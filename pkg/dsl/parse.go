package dsl

import (
	"fmt"
	"os"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"

	"github.com/matzehuels/architectures/pkg/dot"
	"github.com/matzehuels/architectures/pkg/errors"
	"github.com/matzehuels/architectures/pkg/icons"
)

var fileSchema = &hcl.BodySchema{
	Blocks: []hcl.BlockHeaderSchema{
		{Type: "variable", LabelNames: []string{"name"}},
		{Type: "diagram", LabelNames: []string{"name"}},
	},
}

var variableSchema = &hcl.BodySchema{
	Attributes: []hcl.AttributeSchema{
		{Name: "default"},
		{Name: "description"},
	},
}

var entityBlocks = []hcl.BlockHeaderSchema{
	{Type: "node", LabelNames: []string{"name"}},
	{Type: "service", LabelNames: []string{"name"}},
	{Type: "cluster", LabelNames: []string{"name"}},
	{Type: "group", LabelNames: []string{"name"}},
	{Type: "edge"},
	{Type: "flow"},
}

var diagramSchema = &hcl.BodySchema{
	Attributes: []hcl.AttributeSchema{
		{Name: "filename"},
		{Name: "format"},
		{Name: "theme"},
		{Name: "show"},
	},
	Blocks: entityBlocks,
}

var clusterSchema = &hcl.BodySchema{
	Attributes: []hcl.AttributeSchema{
		{Name: "label"},
		{Name: "background"},
		{Name: "attrs"},
	},
	Blocks: entityBlocks,
}

type nodeBlock struct {
	Label *string           `hcl:"label,optional"`
	Attrs map[string]string `hcl:"attrs,optional"`
}

type serviceBlock struct {
	Icon  string            `hcl:"icon"`
	Label string            `hcl:"label,optional"`
	Attrs map[string]string `hcl:"attrs,optional"`
}

type edgeBlock struct {
	From  hcl.Expression    `hcl:"from"`
	To    hcl.Expression    `hcl:"to"`
	Attrs map[string]string `hcl:"attrs,optional"`
}

type flowBlock struct {
	Chain []string          `hcl:"chain"`
	Attrs map[string]string `hcl:"attrs,optional"`
}

// LoadFile reads and parses the diagram file at path.
func LoadFile(path string, vars map[string]string) (*Diagram, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "diagram file %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidDiagram, err, "read %s", path)
	}
	return Parse(src, path, vars)
}

// Parse decodes the diagram declared in src. filename is used in error
// messages. vars set or override variables; they are passed as strings.
//
// Syntax errors, duplicate entity names and unknown icons are
// [errors.ErrCodeInvalidDiagram] errors. References to undeclared entities
// are [errors.ErrCodeInvalidEndpoint] errors.
func Parse(src []byte, filename string, vars map[string]string) (*Diagram, error) {
	f, diags := hclparse.NewParser().ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, errors.Wrap(errors.ErrCodeInvalidDiagram, diags, "parse %s", filename)
	}

	content, diags := f.Body.Content(fileSchema)
	if diags.HasErrors() {
		return nil, errors.Wrap(errors.ErrCodeInvalidDiagram, diags, "decode %s", filename)
	}

	values, diags := variables(content.Blocks, vars)
	if diags.HasErrors() {
		return nil, errors.Wrap(errors.ErrCodeInvalidDiagram, diags, "decode %s", filename)
	}

	var block *hcl.Block
	for _, b := range content.Blocks {
		if b.Type != "diagram" {
			continue
		}
		if block != nil {
			return nil, errors.New(errors.ErrCodeInvalidDiagram, "%s: only one diagram block is allowed per file", b.DefRange)
		}
		block = b
	}
	if block == nil {
		return nil, errors.New(errors.ErrCodeInvalidDiagram, "%s: no diagram block", filename)
	}

	p := &parser{eval: newEvalContext(values), names: map[string]hcl.Range{}}
	d, diags := p.diagram(block)
	if diags.HasErrors() {
		return nil, errors.Wrap(errors.ErrCodeInvalidDiagram, diags, "decode %s", filename)
	}
	if diags := p.checkReferences(d); diags.HasErrors() {
		return nil, errors.Wrap(errors.ErrCodeInvalidEndpoint, diags, "decode %s", filename)
	}
	return d, nil
}

func variables(blocks hcl.Blocks, overrides map[string]string) (map[string]cty.Value, hcl.Diagnostics) {
	var diags hcl.Diagnostics
	values := map[string]cty.Value{}

	for _, b := range blocks {
		if b.Type != "variable" {
			continue
		}
		name := b.Labels[0]
		content, d := b.Body.Content(variableSchema)
		diags = append(diags, d...)
		if d.HasErrors() {
			continue
		}
		if _, ok := overrides[name]; ok {
			continue
		}
		attr, ok := content.Attributes["default"]
		if !ok {
			diags = append(diags, &hcl.Diagnostic{
				Severity: hcl.DiagError,
				Summary:  "Missing variable value",
				Detail:   fmt.Sprintf("Variable %q has no default; set it with --var %s=<value>.", name, name),
				Subject:  b.DefRange.Ptr(),
			})
			continue
		}
		v, d := attr.Expr.Value(nil)
		diags = append(diags, d...)
		values[name] = v
	}

	for k, v := range overrides {
		values[k] = cty.StringVal(v)
	}
	return values, diags
}

type parser struct {
	eval  *hcl.EvalContext
	names map[string]hcl.Range
}

func (p *parser) diagram(block *hcl.Block) (*Diagram, hcl.Diagnostics) {
	d := &Diagram{Name: block.Labels[0]}

	content, diags := block.Body.Content(diagramSchema)
	if diags.HasErrors() {
		return nil, diags
	}
	diags = append(diags, p.attr(content, "filename", &d.Filename)...)
	diags = append(diags, p.attr(content, "format", &d.Format)...)
	diags = append(diags, p.attr(content, "theme", &d.Theme)...)
	diags = append(diags, p.attr(content, "show", &d.Show)...)

	elems, d2 := p.elements(content.Blocks)
	d.Elements = elems
	return d, append(diags, d2...)
}

func (p *parser) attr(content *hcl.BodyContent, name string, target any) hcl.Diagnostics {
	attr, ok := content.Attributes[name]
	if !ok {
		return nil
	}
	return gohcl.DecodeExpression(attr.Expr, p.eval, target)
}

func (p *parser) elements(blocks hcl.Blocks) ([]Element, hcl.Diagnostics) {
	var (
		out   []Element
		diags hcl.Diagnostics
	)
	for _, b := range blocks {
		el, d := p.element(b)
		diags = append(diags, d...)
		if el != nil {
			out = append(out, el)
		}
	}
	return out, diags
}

func (p *parser) element(b *hcl.Block) (Element, hcl.Diagnostics) {
	switch b.Type {
	case "node":
		var nb nodeBlock
		diags := gohcl.DecodeBody(b.Body, p.eval, &nb)
		diags = append(diags, p.declare(b)...)
		label := b.Labels[0]
		if nb.Label != nil {
			label = *nb.Label
		}
		return &Node{Name: b.Labels[0], Label: label, Attrs: dot.Attrs(nb.Attrs), DeclRange: b.DefRange}, diags

	case "service":
		var sb serviceBlock
		diags := gohcl.DecodeBody(b.Body, p.eval, &sb)
		diags = append(diags, p.declare(b)...)
		if diags.HasErrors() {
			return nil, diags
		}
		svc, err := icons.Lookup(sb.Icon)
		if err != nil {
			return nil, append(diags, &hcl.Diagnostic{
				Severity: hcl.DiagError,
				Summary:  "Unknown icon",
				Detail:   fmt.Sprintf("Service %q uses unknown icon %q; run \"architectures icons list\" for valid references.", b.Labels[0], sb.Icon),
				Subject:  b.DefRange.Ptr(),
			})
		}
		return &Node{Name: b.Labels[0], Label: sb.Label, Service: &svc, Attrs: dot.Attrs(sb.Attrs), DeclRange: b.DefRange}, diags

	case "cluster", "group":
		return p.cluster(b)

	case "edge":
		var eb edgeBlock
		diags := gohcl.DecodeBody(b.Body, p.eval, &eb)
		if diags.HasErrors() {
			return nil, diags
		}
		from, d := p.refs(eb.From)
		diags = append(diags, d...)
		to, d := p.refs(eb.To)
		diags = append(diags, d...)
		return &Edge{From: from, To: to, Attrs: dot.Attrs(eb.Attrs), DeclRange: b.DefRange}, diags

	case "flow":
		var fb flowBlock
		diags := gohcl.DecodeBody(b.Body, p.eval, &fb)
		return &Flow{Chain: fb.Chain, Attrs: dot.Attrs(fb.Attrs), DeclRange: b.DefRange}, diags
	}
	return nil, nil
}

func (p *parser) cluster(b *hcl.Block) (Element, hcl.Diagnostics) {
	c := &Cluster{Name: b.Labels[0], Label: b.Labels[0], Group: b.Type == "group", DeclRange: b.DefRange}

	diags := p.declare(b)
	content, d := b.Body.Content(clusterSchema)
	diags = append(diags, d...)
	if d.HasErrors() {
		return nil, diags
	}

	diags = append(diags, p.attr(content, "label", &c.Label)...)
	diags = append(diags, p.attr(content, "background", &c.Background)...)
	var attrs map[string]string
	diags = append(diags, p.attr(content, "attrs", &attrs)...)
	c.Attrs = dot.Attrs(attrs)

	elems, d := p.elements(content.Blocks)
	c.Elements = elems
	return c, append(diags, d...)
}

func (p *parser) declare(b *hcl.Block) hcl.Diagnostics {
	name := b.Labels[0]
	if prev, ok := p.names[name]; ok {
		return hcl.Diagnostics{{
			Severity: hcl.DiagError,
			Summary:  "Duplicate entity name",
			Detail:   fmt.Sprintf("An entity named %q was already declared at %s.", name, prev),
			Subject:  b.DefRange.Ptr(),
		}}
	}
	p.names[name] = b.DefRange
	return nil
}

// refs evaluates an endpoint expression: a name or a list of names.
func (p *parser) refs(expr hcl.Expression) ([]string, hcl.Diagnostics) {
	v, diags := expr.Value(p.eval)
	if diags.HasErrors() {
		return nil, diags
	}
	invalid := hcl.Diagnostics{{
		Severity: hcl.DiagError,
		Summary:  "Invalid endpoint",
		Detail:   "An endpoint must be an entity name or a list of entity names.",
		Subject:  expr.Range().Ptr(),
	}}
	if v.IsNull() || !v.IsWhollyKnown() {
		return nil, invalid
	}
	if v.Type() == cty.String {
		return []string{v.AsString()}, nil
	}
	list, err := convert.Convert(v, cty.List(cty.String))
	if err != nil {
		return nil, invalid
	}
	var out []string
	for _, e := range list.AsValueSlice() {
		if e.IsNull() {
			return nil, invalid
		}
		out = append(out, e.AsString())
	}
	return out, nil
}

func (p *parser) checkReferences(d *Diagram) hcl.Diagnostics {
	var diags hcl.Diagnostics
	check := func(names []string, rng hcl.Range) {
		for _, name := range names {
			if _, ok := p.names[name]; !ok {
				diags = append(diags, &hcl.Diagnostic{
					Severity: hcl.DiagError,
					Summary:  "Unknown entity",
					Detail:   fmt.Sprintf("No node, service, cluster or group is named %q.%s", name, suggest(name, p.names)),
					Subject:  rng.Ptr(),
				})
			}
		}
	}
	d.Walk(func(el Element) {
		switch e := el.(type) {
		case *Edge:
			check(e.From, e.DeclRange)
			check(e.To, e.DeclRange)
		case *Flow:
			check(e.Chain, e.DeclRange)
		}
	})
	return diags
}

// suggest names a declared entity that differs from name only by case.
func suggest(name string, names map[string]hcl.Range) string {
	for known := range names {
		if strings.EqualFold(known, name) {
			return fmt.Sprintf(" Did you mean %q?", known)
		}
	}
	return ""
}
