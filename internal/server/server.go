// Package server exposes the practice API over HTTP and WebSocket.
//
// Endpoints:
//
//   - POST /v1/evaluate — one-shot pronunciation scoring.
//   - GET  /v1/decks    — list loaded phrase decks.
//   - GET  /v1/practice — WebSocket practice loop over a chosen deck.
//   - GET  /metrics     — Prometheus scrape endpoint.
//   - GET  /healthz, /readyz — probes.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"github.com/fonema/fonema/internal/health"
	"github.com/fonema/fonema/internal/observe"
	"github.com/fonema/fonema/internal/session"
	"github.com/fonema/fonema/pkg/provider/stt"
	"github.com/fonema/fonema/pkg/score"
)

// shutdownTimeout bounds graceful HTTP shutdown once the run context ends.
const shutdownTimeout = 10 * time.Second

// Config configures a [Server].
type Config struct {
	// ListenAddr is the address the HTTP server binds to, e.g. ":8080".
	ListenAddr string

	// Manager owns decks and live practice sessions.
	Manager *session.Manager

	// Evaluator scores one-shot /v1/evaluate requests. Defaults to
	// score.New() if nil.
	Evaluator *score.Evaluator

	// STT transcribes audio attempts sent over the practice WebSocket.
	// When nil, audio attempts are rejected and only text attempts work.
	STT stt.Provider

	// STTName labels the configured provider in metrics ("whisper",
	// "whisper-native", "openai").
	STTName string

	// STTConfig carries the audio format hints passed to the STT provider.
	STTConfig stt.TranscribeConfig

	// Metrics receives request telemetry. Defaults to
	// observe.DefaultMetrics() if nil.
	Metrics *observe.Metrics

	// Health serves the /healthz and /readyz probes. Defaults to a handler
	// with no readiness checks if nil.
	Health *health.Handler
}

// Server is the fonema HTTP server. Create one with [New] and start it with
// [Server.Run].
type Server struct {
	addr      string
	manager   *session.Manager
	evaluator *score.Evaluator
	sttProv   stt.Provider
	sttName   string
	sttCfg    stt.TranscribeConfig
	metrics   *observe.Metrics
	handler   http.Handler
}

// New builds a Server and its routing table from cfg.
func New(cfg Config) (*Server, error) {
	if cfg.ListenAddr == "" {
		return nil, errors.New("server: ListenAddr must not be empty")
	}
	if cfg.Manager == nil {
		return nil, errors.New("server: Manager must not be nil")
	}

	ev := cfg.Evaluator
	if ev == nil {
		ev = score.New()
	}
	m := cfg.Metrics
	if m == nil {
		m = observe.DefaultMetrics()
	}
	h := cfg.Health
	if h == nil {
		h = health.New()
	}

	s := &Server{
		addr:      cfg.ListenAddr,
		manager:   cfg.Manager,
		evaluator: ev,
		sttProv:   cfg.STT,
		sttName:   cfg.STTName,
		sttCfg:    cfg.STTConfig,
		metrics:   m,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /v1/evaluate", s.handleEvaluate)
	mux.HandleFunc("GET /v1/decks", s.handleDecks)
	mux.HandleFunc("GET /v1/practice", s.handlePractice)
	mux.Handle("GET /metrics", promhttp.Handler())
	h.Register(mux)

	s.handler = observe.Middleware(m)(mux)
	return s, nil
}

// Handler returns the fully wrapped HTTP handler. Exposed for tests.
func (s *Server) Handler() http.Handler { return s.handler }

// Run serves HTTP until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.addr,
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server: listen on %s: %w", s.addr, err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server: shutdown: %w", err)
		}
		return nil
	})

	return g.Wait()
}
