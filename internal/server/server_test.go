package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/architectures/pkg/errors"
)

const pipeline = `
variable "env" {
  default = "prod"
}

diagram "Event Pipeline" {
  format = "svg"

  service "hub" {
    icon = "azure.data.event-hubs"
  }

  cluster "analytics" {
    label = format("Analytics (%s)", upper(var.env))

    service "stream" {
      icon = "azure.data.stream-analytics"
    }
  }

  edge {
    from = "hub"
    to   = "analytics"
  }
}
`

type fakeRenderer struct {
	mu      sync.Mutex
	out     []byte
	err     error
	formats []string
	sources []string
}

func (f *fakeRenderer) Name() string { return "fake" }

func (f *fakeRenderer) Render(_ context.Context, src []byte, format string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.formats = append(f.formats, format)
	f.sources = append(f.sources, string(src))
	if f.err != nil {
		return nil, f.err
	}
	return f.out, nil
}

func newTestServer(r *fakeRenderer) http.Handler {
	return New(Config{Renderer: r, IconRoot: "/assets"}).Handler()
}

func do(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) errorResponse {
	t.Helper()
	var resp errorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestHealth(t *testing.T) {
	rec := do(t, newTestServer(&fakeRenderer{}), http.MethodGet, "/healthz", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var resp healthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.NotEmpty(t, resp.GoVersion)
}

func TestRender(t *testing.T) {
	fake := &fakeRenderer{out: []byte("<svg/>")}
	rec := do(t, newTestServer(fake), http.MethodPost, "/api/v1/render", pipeline)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "image/svg+xml", rec.Header().Get("Content-Type"))
	assert.Equal(t, "<svg/>", rec.Body.String())

	require.Len(t, fake.sources, 1)
	assert.Equal(t, []string{"svg"}, fake.formats)
	assert.Contains(t, fake.sources[0], "Analytics (PROD)")
	assert.Contains(t, fake.sources[0], "/assets/icons/azure/data/event-hubs.png")
}

func TestRenderFormatOverride(t *testing.T) {
	fake := &fakeRenderer{out: []byte{0x89, 'P', 'N', 'G'}}
	rec := do(t, newTestServer(fake), http.MethodPost, "/api/v1/render?format=png&var.env=dev", pipeline)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
	assert.Equal(t, []string{"png"}, fake.formats)
	assert.Contains(t, fake.sources[0], "Analytics (DEV)")
}

func TestRenderErrors(t *testing.T) {
	tests := []struct {
		name     string
		target   string
		body     string
		renderer *fakeRenderer
		status   int
		code     errors.Code
	}{
		{
			name:     "unknown format",
			target:   "/api/v1/render?format=gif",
			body:     pipeline,
			renderer: &fakeRenderer{},
			status:   http.StatusBadRequest,
			code:     errors.ErrCodeInvalidFormat,
		},
		{
			name:     "syntax error",
			target:   "/api/v1/render",
			body:     `diagram "x" {`,
			renderer: &fakeRenderer{},
			status:   http.StatusBadRequest,
			code:     errors.ErrCodeInvalidDiagram,
		},
		{
			name:     "unknown entity",
			target:   "/api/v1/render",
			body:     "diagram \"x\" {\n  edge {\n    from = \"a\"\n    to   = \"b\"\n  }\n}\n",
			renderer: &fakeRenderer{},
			status:   http.StatusBadRequest,
			code:     errors.ErrCodeInvalidEndpoint,
		},
		{
			name:     "renderer failure",
			target:   "/api/v1/render",
			body:     pipeline,
			renderer: &fakeRenderer{err: errors.New(errors.ErrCodeRender, "layout failed")},
			status:   http.StatusUnprocessableEntity,
			code:     errors.ErrCodeRender,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, newTestServer(tt.renderer), http.MethodPost, tt.target, tt.body)

			assert.Equal(t, tt.status, rec.Code)
			resp := decodeError(t, rec)
			assert.Equal(t, tt.code, resp.Code)
			assert.NotEmpty(t, resp.Error)
		})
	}
}

func TestRenderBodyTooLarge(t *testing.T) {
	h := New(Config{Renderer: &fakeRenderer{}, MaxBody: 16}).Handler()
	rec := do(t, h, http.MethodPost, "/api/v1/render", pipeline)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, errors.ErrCodeInvalidArgument, decodeError(t, rec).Code)
}

func TestSource(t *testing.T) {
	fake := &fakeRenderer{}
	rec := do(t, newTestServer(fake), http.MethodPost, "/api/v1/source", pipeline)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.True(t, strings.HasPrefix(rec.Header().Get("Content-Type"), "text/vnd.graphviz"))
	assert.True(t, strings.HasPrefix(rec.Body.String(), "digraph"))
	assert.Contains(t, rec.Body.String(), "lhead")
	assert.Empty(t, fake.sources, "source must not render")
}

func TestListIcons(t *testing.T) {
	rec := do(t, newTestServer(&fakeRenderer{}), http.MethodGet, "/api/v1/icons", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp []iconResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	refs := make(map[string]iconResponse, len(resp))
	for _, ic := range resp {
		refs[ic.Ref] = ic
	}
	hub, ok := refs["azure.data.event-hubs"]
	require.True(t, ok)
	assert.Equal(t, "azure", hub.Provider)
	assert.Equal(t, "data", hub.Category)
	assert.Equal(t, "Event Hubs", hub.Label)
}

func TestListThemes(t *testing.T) {
	rec := do(t, newTestServer(&fakeRenderer{}), http.MethodGet, "/api/v1/themes", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var names []string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &names))
	assert.Contains(t, names, "default")
	assert.Contains(t, names, "clean")
}

func TestCors(t *testing.T) {
	h := New(Config{Renderer: &fakeRenderer{}, AllowedOrigin: "https://example.com"}).Handler()

	t.Run("preflight", func(t *testing.T) {
		rec := do(t, h, http.MethodOptions, "/api/v1/render", "")
		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Equal(t, "https://example.com", rec.Header().Get("Access-Control-Allow-Origin"))
		assert.NotEmpty(t, rec.Header().Get("Access-Control-Allow-Methods"))
	})

	t.Run("simple request", func(t *testing.T) {
		rec := do(t, h, http.MethodGet, "/healthz", "")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "https://example.com", rec.Header().Get("Access-Control-Allow-Origin"))
	})
}

func TestNotFound(t *testing.T) {
	rec := do(t, newTestServer(&fakeRenderer{}), http.MethodGet, "/nope", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
