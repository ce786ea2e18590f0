package render

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"time"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/architectures/pkg/errors"
	"github.com/matzehuels/architectures/pkg/observability"
)

// Graphviz renders with the in-process Graphviz library.
type Graphviz struct {
	// Layout is the layout engine; empty means dot.
	Layout string
}

// Name returns "graphviz", suffixed with the layout when it is not dot.
func (r Graphviz) Name() string { return engineName("graphviz", r.Layout) }

// Render lays out and renders src. SVG output has its viewBox normalized to
// start at the origin so it embeds cleanly in web pages.
func (r Graphviz) Render(ctx context.Context, src []byte, format string) ([]byte, error) {
	if err := ValidateFormat(format); err != nil {
		return nil, err
	}
	if err := ValidateLayout(r.Layout); err != nil {
		return nil, err
	}

	start := time.Now()
	observability.Render().OnRenderStart(ctx, r.Name(), format)
	out, err := r.render(ctx, src, format)
	observability.Render().OnRenderComplete(ctx, r.Name(), format, len(out), time.Since(start), err)
	return out, err
}

func (r Graphviz) render(ctx context.Context, src []byte, format string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeRender, err, "init graphviz")
	}
	defer gv.Close()
	gv.SetLayout(graphviz.Layout(layoutOrDefault(r.Layout)))

	g, err := graphviz.ParseBytes(src)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeRender, err, "parse DOT")
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.Format(format), &buf); err != nil {
		return nil, errors.Wrap(errors.ErrCodeRender, err, "render %s", format)
	}
	if format == FormatSVG {
		return normalizeViewBox(buf.Bytes()), nil
	}
	return buf.Bytes(), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	tag := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" xmlns:xlink="http://www.w3.org/1999/xlink" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	loc := svgTagRe.FindIndex(svg)
	out := make([]byte, 0, len(svg))
	out = append(out, svg[:loc[0]]...)
	out = append(out, tag...)
	return append(out, svg[loc[1]:]...)
}
