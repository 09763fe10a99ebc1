package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/aretw0/devicegraph"
	"github.com/aretw0/devicegraph/internal/logging"
	"github.com/aretw0/devicegraph/pkg/inspect"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

//go:generate go tool oapi-codegen -package http -generate types,chi-server,spec -o api.gen.go ../../../api/openapi.yaml

// Server implements the generated ServerInterface over a graph view.
type Server struct {
	view     *inspect.View
	gatherer prometheus.Gatherer
	logger   *slog.Logger
}

var _ ServerInterface = (*Server)(nil)

// Option configures a Server.
type Option func(*Server)

// WithGatherer serves the metrics of g on /metrics.
func WithGatherer(g prometheus.Gatherer) Option {
	return func(s *Server) { s.gatherer = g }
}

// WithLogger sets a custom structured logger for the server.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) { s.logger = logger }
}

// NewServer creates a server for the view.
func NewServer(view *inspect.View, opts ...Option) *Server {
	s := &Server{view: view}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logging.NewNop()
	}
	return s
}

// View returns the served view.
func (s *Server) View() *inspect.View { return s.view }

// Handler returns the HTTP routes of the server.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Get("/openapi.yaml", func(w http.ResponseWriter, r *http.Request) {
		spec, err := rawSpec()
		if err != nil {
			http.Error(w, "Failed to load spec", http.StatusInternalServerError)
			s.logger.Error("failed to load OpenAPI spec", "error", err)
			return
		}
		w.Header().Set("Content-Type", "text/yaml")
		s.write(w, spec)
	})
	r.Get("/swagger", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		s.write(w, []byte(swaggerHTML))
	})
	if s.gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	}

	return enableCORS(HandlerFromMux(s, r))
}

// NewHandler creates a new HTTP handler for the view.
func NewHandler(view *inspect.View, opts ...Option) http.Handler {
	return NewServer(view, opts...).Handler()
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

const swaggerHTML = `
<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="utf-8" />
    <meta name="viewport" content="width=device-width, initial-scale=1" />
    <title>devicegraph inspect API</title>
    <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5.11.0/swagger-ui.css" />
</head>
<body>
<div id="swagger-ui"></div>
<script src="https://unpkg.com/swagger-ui-dist@5.11.0/swagger-ui-bundle.js" crossorigin></script>
<script>
    window.onload = () => {
    window.ui = SwaggerUIBundle({
        url: '/openapi.yaml',
        dom_id: '#swagger-ui',
    });
    };
</script>
</body>
</html>
`

// ListDevices handles GET /devices.
func (s *Server) ListDevices(w http.ResponseWriter, r *http.Request) {
	devices := s.view.Devices()
	out := make([]Device, 0, len(devices))
	for _, d := range devices {
		out = append(out, mapDevice(d))
	}
	s.writeJSON(w, out)
}

// GetDevice handles GET /devices/{name}.
func (s *Server) GetDevice(w http.ResponseWriter, r *http.Request, name string) {
	d, ok := s.view.Device(name)
	if !ok {
		http.Error(w, "device not found: "+name, http.StatusNotFound)
		return
	}
	s.writeJSON(w, mapDevice(d))
}

// ListLinks handles GET /links.
func (s *Server) ListLinks(w http.ResponseWriter, r *http.Request) {
	links := s.view.Links()
	out := make([]Link, 0, len(links))
	for _, l := range links {
		out = append(out, Link{A: l.A, B: l.B, Latency: l.Latency})
	}
	s.writeJSON(w, out)
}

// GetSummary handles GET /summary.
func (s *Server) GetSummary(w http.ResponseWriter, r *http.Request) {
	sum := s.view.Summary()
	s.writeJSON(w, Summary{
		Name:       sum.Name,
		Devices:    sum.Devices,
		Links:      sum.Links,
		Assemblies: sum.Assemblies,
		Categories: sum.Categories,
	})
}

// GetDot handles GET /dot.
func (s *Server) GetDot(w http.ResponseWriter, r *http.Request, params GetDotParams) {
	ports := params.Ports != nil && *params.Ports
	w.Header().Set("Content-Type", "text/vnd.graphviz")
	s.write(w, []byte(s.view.DOT(ports)))
}

// GetMermaid handles GET /mermaid.
func (s *Server) GetMermaid(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	s.write(w, []byte(s.view.Mermaid()))
}

// GetInfo handles GET /info.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	apiVersion := "unknown"
	if swagger, err := GetSwagger(); err == nil && swagger.Info != nil {
		apiVersion = swagger.Info.Version
	}
	s.writeJSON(w, Info{
		App:        "devicegraph-http",
		Version:    strings.TrimSpace(devicegraph.Version),
		ApiVersion: apiVersion,
	})
}

func (s *Server) writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("response encode failed", "error", err)
	}
}

func (s *Server) write(w http.ResponseWriter, b []byte) {
	if _, err := w.Write(b); err != nil {
		s.logger.Warn("response write failed", "error", err)
	}
}

func ptr[T any](v T) *T {
	return &v
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func mapDevice(d inspect.Device) Device {
	out := Device{
		Name:     d.Name,
		Type:     d.Type,
		Model:    optional(d.Model),
		Library:  optional(d.Library),
		Assembly: d.Assembly,
		Owner:    optional(d.Owner),
		Ports:    d.Ports,
	}
	if d.Partition != nil {
		out.Partition = &Partition{Rank: d.Partition.Rank, Thread: d.Partition.Thread}
	}
	if d.Attrs != nil {
		out.Attrs = ptr(d.Attrs)
	}
	return out
}
