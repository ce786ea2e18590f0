package render

import (
	"bytes"
	"context"
	"os/exec"
	"strings"
	"time"

	"github.com/matzehuels/architectures/pkg/errors"
	"github.com/matzehuels/architectures/pkg/observability"
)

// DefaultBinary is the Graphviz executable used by [Exec].
const DefaultBinary = "dot"

var lookPath = exec.LookPath

// HasBinary reports whether the Graphviz executable is on PATH.
func HasBinary() bool {
	_, err := lookPath(DefaultBinary)
	return err == nil
}

// Auto returns [Exec] when the Graphviz executable is installed and the
// in-process [Graphviz] renderer otherwise. Only Exec can load the image
// files service nodes reference, so icons require the binary.
func Auto(layout string) Renderer {
	if HasBinary() {
		return Exec{Layout: layout}
	}
	return Graphviz{Layout: layout}
}

// Exec renders by running the Graphviz command-line tool.
type Exec struct {
	// Binary is the executable; empty means "dot" on PATH.
	Binary string

	// Layout is the layout engine; empty means dot.
	Layout string
}

// Name returns "exec", suffixed with the layout when it is not dot.
func (r Exec) Name() string { return engineName("exec", r.Layout) }

// Render pipes src to the Graphviz binary and returns its standard output.
// A failed run returns the tool's standard error in the message.
func (r Exec) Render(ctx context.Context, src []byte, format string) ([]byte, error) {
	if err := ValidateFormat(format); err != nil {
		return nil, err
	}
	if err := ValidateLayout(r.Layout); err != nil {
		return nil, err
	}

	bin := r.Binary
	if bin == "" {
		bin = DefaultBinary
	}

	start := time.Now()
	observability.Render().OnRenderStart(ctx, r.Name(), format)

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, bin, "-K"+layoutOrDefault(r.Layout), "-T"+format)
	cmd.Stdin = bytes.NewReader(src)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	var err error
	if runErr := cmd.Run(); runErr != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			msg = "graphviz failed"
		}
		err = errors.Wrap(errors.ErrCodeRender, runErr, "%s: %s", bin, msg)
	}

	observability.Render().OnRenderComplete(ctx, r.Name(), format, stdout.Len(), time.Since(start), err)
	if err != nil {
		return nil, err
	}
	return stdout.Bytes(), nil
}
