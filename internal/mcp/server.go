package mcp

import (
	"context"
	"errors"
	"net"
	"net/http"
	"sync/atomic"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/honeycarbs/jobnexus/internal/config"
	"github.com/honeycarbs/jobnexus/internal/mcp/tools"
	"github.com/honeycarbs/jobnexus/pkg/logging"
)

// Version is reported to MCP clients
const Version = "0.1.0"

// Server wraps an MCP SDK server with an HTTP listener
type Server struct {
	logger *logging.Logger

	srv     *http.Server
	started atomic.Bool
}

// NewServer constructs the MCP HTTP server and registers every tool backed by res
func NewServer(log *logging.Logger, cfg config.Config, res *Resources, gatherer prometheus.Gatherer) *Server {
	impl := &sdkmcp.Implementation{
		Name:    "jobnexus",
		Version: Version,
	}

	mcpServer := sdkmcp.NewServer(impl, nil)
	tools.Register(mcpServer, log,
		tools.WithFindJobs(res.JobService),
		tools.WithOpportunities(res.History),
		tools.WithOccupationCodes(res.Classifier),
		tools.WithMarketSummary(res.Analysis),
		tools.WithSheetsExport(res.SheetsExporter),
	)

	handler := sdkmcp.NewStreamableHTTPHandler(func(*http.Request) *sdkmcp.Server {
		return mcpServer
	}, nil)

	mux := http.NewServeMux()
	mux.Handle("/mcp/stream", handler)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	if gatherer != nil {
		mux.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}

	httpSrv := &http.Server{
		Addr:              net.JoinHostPort(cfg.Host, cfg.Port),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	return &Server{
		logger: log,
		srv:    httpSrv,
	}
}

// Handler exposes the HTTP routes
func (s *Server) Handler() http.Handler {
	return s.srv.Handler
}

// Run starts the HTTP server and blocks until shutdown
func (s *Server) Run() error {
	if !s.started.CompareAndSwap(false, true) {
		return nil
	}

	s.logger.Info("MCP HTTP server listening", "addr", s.srv.Addr)

	if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}

// Shutdown stops accepting connections and waits for in-flight requests
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutdown requested for MCP HTTP server")
	if err := s.srv.Shutdown(ctx); err != nil {
		s.logger.Warn("MCP HTTP server shutdown with error", "err", err)
		return err
	}

	s.logger.Info("MCP HTTP server shutdown complete")
	return nil
}
