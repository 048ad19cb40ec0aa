// Package metrics exposes Prometheus counters for served game sessions.
// Collectors live on a private registry so several servers (or tests) in one
// process never collide on the global one.
package metrics

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "blockfall"

// Collector holds the session metrics. A nil *Collector is valid and
// records nothing, so callers never need to check whether metrics are on.
type Collector struct {
	registry *prometheus.Registry

	sessionsStarted  prometheus.Counter
	sessionsFinished *prometheus.CounterVec
	activeSessions   prometheus.Gauge
	piecesLocked     prometheus.Counter
	rowsCleared      prometheus.Counter
}

// New creates a collector with its own registry.
func New() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		sessionsStarted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sessions_started_total",
			Help:      "Game sessions started.",
		}),
		sessionsFinished: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sessions_finished_total",
			Help:      "Game sessions finished, by outcome.",
		}, []string{"outcome"}),
		activeSessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "active_sessions",
			Help:      "Game sessions currently running.",
		}),
		piecesLocked: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "pieces_locked_total",
			Help:      "Pieces locked into a well across all sessions.",
		}),
		rowsCleared: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rows_cleared_total",
			Help:      "Complete rows cleared across all sessions.",
		}),
	}

	c.registry.MustRegister(
		c.sessionsStarted,
		c.sessionsFinished,
		c.activeSessions,
		c.piecesLocked,
		c.rowsCleared,
	)
	return c
}

// SessionStarted records a new running session.
func (c *Collector) SessionStarted() {
	if c == nil {
		return
	}
	c.sessionsStarted.Inc()
	c.activeSessions.Inc()
}

// SessionFinished records the end of a running session.
func (c *Collector) SessionFinished(outcome string) {
	if c == nil {
		return
	}
	c.sessionsFinished.WithLabelValues(outcome).Inc()
	c.activeSessions.Dec()
}

// PiecesLocked adds n locked pieces.
func (c *Collector) PiecesLocked(n int) {
	if c == nil || n <= 0 {
		return
	}
	c.piecesLocked.Add(float64(n))
}

// RowsCleared adds n cleared rows.
func (c *Collector) RowsCleared(n int) {
	if c == nil || n <= 0 {
		return
	}
	c.rowsCleared.Add(float64(n))
}

// Handler returns the /metrics HTTP handler for this collector's registry.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{Registry: c.registry})
}

// Serve exposes /metrics on addr until ctx is cancelled.
func (c *Collector) Serve(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("metrics: listen %s: %w", addr, err)
	}
	return c.serve(ctx, ln)
}

func (c *Collector) serve(ctx context.Context, ln net.Listener) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", c.Handler())

	srv := &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("metrics: serve: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("metrics: shutdown: %w", err)
		}
		return nil
	}
}
