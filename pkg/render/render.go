package render

import (
	"context"
	"slices"
	"strings"

	"github.com/matzehuels/architectures/pkg/errors"
)

// Output formats.
const (
	FormatPNG = "png"
	FormatSVG = "svg"
	FormatJPG = "jpg"
	FormatDOT = "dot"
)

// DefaultFormat is the raster format used when none is configured.
const DefaultFormat = FormatPNG

// Formats lists the supported output formats.
var Formats = []string{FormatPNG, FormatSVG, FormatJPG, FormatDOT}

// Layout engines.
const (
	LayoutDot   = "dot"
	LayoutNeato = "neato"
	LayoutFdp   = "fdp"
	LayoutCirco = "circo"
	LayoutTwopi = "twopi"
)

// Layouts lists the supported layout engines.
var Layouts = []string{LayoutDot, LayoutNeato, LayoutFdp, LayoutCirco, LayoutTwopi}

// Renderer converts DOT source into the bytes of an image in format.
type Renderer interface {
	Render(ctx context.Context, src []byte, format string) ([]byte, error)

	// Name identifies the backend in logs and cache keys.
	Name() string
}

// ValidateFormat checks that format is supported.
func ValidateFormat(format string) error {
	if !slices.Contains(Formats, format) {
		return errors.New(errors.ErrCodeInvalidFormat, "invalid format: %q (must be one of: %s)", format, strings.Join(Formats, ", "))
	}
	return nil
}

// ValidateLayout checks that layout is a supported engine. Empty means dot.
func ValidateLayout(layout string) error {
	if layout != "" && !slices.Contains(Layouts, layout) {
		return errors.New(errors.ErrCodeInvalidArgument, "invalid layout: %q (must be one of: %s)", layout, strings.Join(Layouts, ", "))
	}
	return nil
}

func layoutOrDefault(layout string) string {
	if layout == "" {
		return LayoutDot
	}
	return layout
}

// engineName distinguishes renderers by layout so cached artifacts of one
// layout are never served for another.
func engineName(base, layout string) string {
	if l := layoutOrDefault(layout); l != LayoutDot {
		return base + "/" + l
	}
	return base
}
