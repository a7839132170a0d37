package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"lootradar/internal/metrics"
	"lootradar/logger"
	"lootradar/services/notifier"
)

// Stats exposes worker progress counters to the health endpoint
type Stats interface {
	Stats() (cycles int64, lastScan time.Time)
}

// Server answers liveness and diagnostic requests while the worker runs
type Server struct {
	stats    Stats
	notifier notifier.Notifier
	metrics  *metrics.Metrics
	started  time.Time
	log      *logger.Logger
}

func New(stats Stats, n notifier.Notifier, m *metrics.Metrics) *Server {
	return &Server{
		stats:    stats,
		notifier: n,
		metrics:  m,
		started:  time.Now(),
		log:      logger.ForServer(),
	}
}

// Handler builds the route table. Split from ListenAndServe for tests.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleRoot)
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/ping", s.handlePing)
	mux.HandleFunc("/test-alert", s.handleTestAlert)
	if s.metrics != nil {
		mux.Handle("/metrics", promhttp.HandlerFor(s.metrics.Registry, promhttp.HandlerOpts{}))
	}
	return mux
}

func (s *Server) ListenAndServe(addr string) error {
	s.log.Info().Str("addr", addr).Msg("health server listening")
	srv := &http.Server{
		Addr:         addr,
		Handler:      s.Handler(),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
	return srv.ListenAndServe()
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("lootradar is running\n"))
}

type healthResponse struct {
	Status   string `json:"status"`
	Uptime   string `json:"uptime"`
	Cycles   int64  `json:"cycles"`
	LastScan string `json:"last_scan,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	resp := healthResponse{
		Status: "ok",
		Uptime: time.Since(s.started).Round(time.Second).String(),
	}
	if s.stats != nil {
		cycles, last := s.stats.Stats()
		resp.Cycles = cycles
		if !last.IsZero() {
			resp.LastScan = last.UTC().Format(time.RFC3339)
		}
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		s.log.Error().Err(err).Msg("health response encoding failed")
	}
}

func (s *Server) handlePing(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("pong"))
}

// handleTestAlert pushes a throwaway message through the real delivery
// path so a deployment can be verified end to end.
func (s *Server) handleTestAlert(w http.ResponseWriter, r *http.Request) {
	if s.notifier == nil {
		http.Error(w, "notifier not configured", http.StatusServiceUnavailable)
		return
	}

	msg := r.URL.Query().Get("msg")
	if msg == "" {
		msg = "test alert from lootradar"
	}

	if err := s.notifier.Send(msg, ""); err != nil {
		s.log.Error().Err(err).Msg("test alert delivery failed")
		http.Error(w, "delivery failed", http.StatusBadGateway)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("sent\n"))
}
