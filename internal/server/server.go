// Package server exposes diagram rendering over HTTP.
//
// Routes:
//
//	GET  /healthz                 liveness and build info
//	GET  /api/v1/icons            registered services
//	GET  /api/v1/themes           built-in theme names
//	POST /api/v1/render?format=F  HCL diagram in the body, rendered image out
//	POST /api/v1/source           HCL diagram in the body, DOT source out
//
// Query parameters named var.<name> override diagram variables. Without a
// format parameter the diagram's own format applies.
//
// Each request builds its diagram in its own diagram.Context, so requests
// never share ambient state.
package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"os"
	"runtime"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/architectures/pkg/buildinfo"
	"github.com/matzehuels/architectures/pkg/diagram"
	"github.com/matzehuels/architectures/pkg/dsl"
	"github.com/matzehuels/architectures/pkg/errors"
	"github.com/matzehuels/architectures/pkg/icons"
	"github.com/matzehuels/architectures/pkg/render"
	"github.com/matzehuels/architectures/pkg/theme"
)

// DefaultMaxBody limits request bodies to 1 MiB.
const DefaultMaxBody = 1 << 20

// DefaultTimeout bounds a single render.
const DefaultTimeout = 30 * time.Second

// Config configures a Server.
type Config struct {
	Renderer      render.Renderer
	IconRoot      string
	AllowedOrigin string
	MaxBody       int64
	Timeout       time.Duration
	Logger        *log.Logger
}

// Server renders diagrams posted as HCL.
type Server struct {
	cfg     Config
	started time.Time
}

// New returns a server. A nil Renderer uses [render.Auto].
func New(cfg Config) *Server {
	if cfg.Renderer == nil {
		cfg.Renderer = render.Auto("")
	}
	if cfg.MaxBody <= 0 {
		cfg.MaxBody = DefaultMaxBody
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.AllowedOrigin == "" {
		cfg.AllowedOrigin = "*"
	}
	if cfg.Logger == nil {
		cfg.Logger = log.New(io.Discard)
	}
	return &Server{cfg: cfg, started: time.Now()}
}

// Handler returns the HTTP handler with all routes and middleware.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)
	r.Use(s.cors)

	r.Get("/healthz", s.health)
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/icons", s.listIcons)
		r.Get("/themes", s.listThemes)
		r.Post("/render", s.render)
		r.Post("/source", s.source)
	})
	return r
}

type healthResponse struct {
	Status    string `json:"status"`
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	Uptime    string `json:"uptime"`
	GoVersion string `json:"go_version"`
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{
		Status:    "ok",
		Version:   buildinfo.Version,
		Commit:    buildinfo.Commit,
		Uptime:    time.Since(s.started).Round(time.Second).String(),
		GoVersion: runtime.Version(),
	})
}

type iconResponse struct {
	Ref      string `json:"ref"`
	Provider string `json:"provider"`
	Category string `json:"category"`
	Label    string `json:"label"`
}

func (s *Server) listIcons(w http.ResponseWriter, r *http.Request) {
	all := icons.All()
	out := make([]iconResponse, 0, len(all))
	for _, svc := range all {
		out = append(out, iconResponse{Ref: svc.Ref(), Provider: svc.Provider, Category: svc.Category, Label: svc.DefaultLabel()})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) listThemes(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, theme.Names())
}

var contentTypes = map[string]string{
	render.FormatPNG: "image/png",
	render.FormatSVG: "image/svg+xml",
	render.FormatJPG: "image/jpeg",
	render.FormatDOT: "text/vnd.graphviz; charset=utf-8",
}

func (s *Server) render(w http.ResponseWriter, r *http.Request) {
	format := r.URL.Query().Get("format")
	if format != "" {
		if err := render.ValidateFormat(format); err != nil {
			s.fail(w, r, err)
			return
		}
	}

	d, err := s.parse(w, r)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	dir, err := os.MkdirTemp("", "architectures-")
	if err != nil {
		s.fail(w, r, errors.Wrap(errors.ErrCodeInternal, err, "create work dir"))
		return
	}
	defer os.RemoveAll(dir)

	ctx, cancel := context.WithTimeout(r.Context(), s.cfg.Timeout)
	defer cancel()

	dc := diagram.NewContext(diagram.WithLogger(s.cfg.Logger))
	g, err := d.Build(ctx, dc, diagram.Options{
		Dir:      dir,
		Format:   format,
		IconRoot: s.cfg.IconRoot,
		Renderer: s.cfg.Renderer,
		Viewer:   noViewer{},
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}

	data, err := os.ReadFile(g.Output())
	if err != nil {
		s.fail(w, r, errors.Wrap(errors.ErrCodeInternal, err, "read output"))
		return
	}
	w.Header().Set("Content-Type", contentTypes[g.Format()])
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func (s *Server) source(w http.ResponseWriter, r *http.Request) {
	d, err := s.parse(w, r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	src, err := d.Source(diagram.NewContext(diagram.WithLogger(s.cfg.Logger)), diagram.Options{IconRoot: s.cfg.IconRoot})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	w.Header().Set("Content-Type", contentTypes[render.FormatDOT])
	w.WriteHeader(http.StatusOK)
	_, _ = io.WriteString(w, src)
}

// parse reads the HCL body. Query parameters named var.<name> set variables.
func (s *Server) parse(w http.ResponseWriter, r *http.Request) (*dsl.Diagram, error) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.cfg.MaxBody))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidArgument, err, "read body")
	}
	vars := map[string]string{}
	for key, values := range r.URL.Query() {
		if name, ok := strings.CutPrefix(key, "var."); ok && name != "" && len(values) > 0 {
			vars[name] = values[len(values)-1]
		}
	}
	return dsl.Parse(body, "request.hcl", vars)
}

type errorResponse struct {
	Error string      `json:"error"`
	Code  errors.Code `json:"code"`
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	code := errors.GetCode(err)
	status := statusFor(code)
	if status >= http.StatusInternalServerError {
		s.cfg.Logger.Error("request failed", "path", r.URL.Path, "request_id", middleware.GetReqID(r.Context()), "err", err)
	} else {
		s.cfg.Logger.Debug("request rejected", "path", r.URL.Path, "err", err)
	}
	if code == "" {
		code = errors.ErrCodeInternal
	}
	writeJSON(w, status, errorResponse{Error: err.Error(), Code: code})
}

func statusFor(code errors.Code) int {
	switch code {
	case errors.ErrCodeInvalidDiagram,
		errors.ErrCodeInvalidEndpoint,
		errors.ErrCodeInvalidArgument,
		errors.ErrCodeEmptyCluster,
		errors.ErrCodeConfiguration,
		errors.ErrCodeInvalidFormat,
		errors.ErrCodeInvalidTheme,
		errors.ErrCodeInvalidPath,
		errors.ErrCodeUnknownIcon,
		errors.ErrCodeNestedGraph:
		return http.StatusBadRequest
	case errors.ErrCodeFileNotFound:
		return http.StatusNotFound
	case errors.ErrCodeRender:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

type noViewer struct{}

func (noViewer) View(context.Context, string) error { return nil }
