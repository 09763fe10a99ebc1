package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	httpAdapter "github.com/aretw0/devicegraph/pkg/adapters/http"
	mcpAdapter "github.com/aretw0/devicegraph/pkg/adapters/mcp"
	"github.com/aretw0/devicegraph/pkg/inspect"
	"github.com/aretw0/devicegraph/pkg/observability"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

const shutdownTimeout = 5 * time.Second

// ServeOptions configure the serve command.
type ServeOptions struct {
	Options
	Addr    string
	Flatten bool
	// MCP mounts the MCP SSE endpoints next to the HTTP routes.
	MCP bool
}

// Server bundles the adapters sharing one graph view.
type Server struct {
	HTTP *httpAdapter.Server
	MCP  *mcpAdapter.Server
	mcp  bool
}

// Handler returns the HTTP routes, plus the MCP SSE endpoints when enabled.
// baseURL is the address MCP clients are told to post messages to.
func (s *Server) Handler(baseURL string) http.Handler {
	h := s.HTTP.Handler()
	if !s.mcp {
		return h
	}
	stream, message := s.MCP.SSEHandlers(baseURL)
	r := chi.NewRouter()
	r.Handle(mcpAdapter.SSEPath, stream)
	r.Handle(mcpAdapter.MessagePath, message)
	r.Handle("/*", h)
	return r
}

// NewServer loads the graph and wraps it in the inspect adapters. Metrics of
// the loading and of the Go runtime are served on /metrics.
func NewServer(ctx context.Context, opts ServeOptions, logger *slog.Logger) (*Server, error) {
	project, err := Open(opts.Options)
	if err != nil {
		return nil, err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	m, err := observability.NewMetrics(reg)
	if err != nil {
		return nil, err
	}
	g, err := metricsGraph(ctx, project, opts.Options, opts.Flatten, m, logger)
	if err != nil {
		return nil, err
	}

	view := inspect.New(g, project.Name)
	return &Server{
		HTTP: httpAdapter.NewServer(view,
			httpAdapter.WithGatherer(reg),
			httpAdapter.WithLogger(logger),
		),
		MCP: mcpAdapter.NewServer(view, mcpAdapter.WithLogger(logger)),
		mcp: opts.MCP,
	}, nil
}

// Serve runs the inspect server on ln until ctx is cancelled, then shuts
// it down gracefully.
func Serve(ctx context.Context, srv *Server, ln net.Listener, logger *slog.Logger) error {
	httpSrv := &http.Server{
		Handler:           srv.Handler("http://" + ln.Addr().String()),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("serving device graph", "addr", ln.Addr().String())
		serverErrors <- httpSrv.Serve(ln)
	}()

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server error: %w", err)

	case <-ctx.Done():
		logger.Info("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := httpSrv.Shutdown(shutdownCtx); err != nil {
			logger.Warn("graceful shutdown did not complete", "timeout", shutdownTimeout, "error", err)
			return httpSrv.Close()
		}
		return nil
	}
}
