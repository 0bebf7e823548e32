// Package server exposes the simulator over HTTP: a JSON API, a healthcheck
// and an embedded single-page front end.
package server

import (
	"context"
	_ "embed"
	"fmt"
	"log/slog"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/AlexandreSajus/moasim/internal/config"
	"github.com/AlexandreSajus/moasim/internal/influx"
)

//go:embed index.html
var indexPage []byte

// Server serves the simulation API.
type Server struct {
	log     *slog.Logger
	simCfg  config.SimulationConfig
	influx  *influx.Manager
	httpSrv *http.Server
	metrics *metrics

	runCount atomic.Uint64
	serving  atomic.Bool
}

// New creates a server. flux may be nil when InfluxDB telemetry is disabled.
func New(log *slog.Logger, simCfg config.SimulationConfig, srvCfg config.ServerConfig, flux *influx.Manager) *Server {
	s := &Server{
		log:     log,
		simCfg:  simCfg,
		influx:  flux,
		metrics: newMetrics(),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("GET /healthcheck", s.handleHealthcheck)
	mux.HandleFunc("POST /api/v1/simulate", s.handleSimulate)

	s.httpSrv = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", srvCfg.Host, srvCfg.Port),
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	return s
}

// ListenAndServe blocks until the server stops. It returns nil on a clean
// Shutdown.
func (s *Server) ListenAndServe() error {
	s.serving.Store(true)
	defer s.serving.Store(false)

	s.log.Info("HTTP server listening", "addr", s.httpSrv.Addr)
	err := s.httpSrv.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// Shutdown drains in-flight requests and stops the listener.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpSrv.Shutdown(ctx)
}

// CompletedRuns reports how many simulation runs have finished since start.
func (s *Server) CompletedRuns() uint64 {
	return s.runCount.Load()
}

// Serving reports whether the listener is up.
func (s *Server) Serving() bool {
	return s.serving.Load()
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(indexPage)
}

func (s *Server) handleHealthcheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte("ok"))
}
