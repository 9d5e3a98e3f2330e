package metrics

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/avrost/netsweep/internal/logging"
)

const (
	serverReadTimeout  = 5 * time.Second
	serverWriteTimeout = 10 * time.Second
	shutdownTimeout    = 5 * time.Second
)

// Server exposes the Prometheus registry over HTTP. It is an optional
// collaborator surface; the scanning engine never depends on it.
type Server struct {
	addr string
	pm   *PrometheusMetrics
	srv  *http.Server
}

// NewServer creates a metrics server listening on addr.
func NewServer(addr string, pm *PrometheusMetrics) *Server {
	router := mux.NewRouter()
	router.Handle("/metrics", promhttp.HandlerFor(pm.GetRegistry(), promhttp.HandlerOpts{}))
	router.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	}).Methods(http.MethodGet)

	handler := handlers.CombinedLoggingHandler(os.Stderr, router)

	return &Server{
		addr: addr,
		pm:   pm,
		srv: &http.Server{
			Addr:         addr,
			Handler:      handler,
			ReadTimeout:  serverReadTimeout,
			WriteTimeout: serverWriteTimeout,
		},
	}
}

// Start runs the listener in a background goroutine.
func (s *Server) Start() {
	logging.Info("Starting metrics listener", "addr", s.addr)
	go func() {
		if err := s.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logging.Error("Metrics listener failed", "addr", s.addr, "error", err)
		}
	}()
}

// Stop shuts the listener down gracefully.
func (s *Server) Stop() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return s.srv.Shutdown(ctx)
}
