package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"life3d/internal/metrics"
	"life3d/internal/patterns"
	"life3d/internal/sims/life3d"
)

// ErrUnknownPattern is returned when the configured pattern is not in the catalog.
var ErrUnknownPattern = errors.New("unknown pattern")

// NewSimulation builds a simulation from c and seeds it with the configured
// pattern from catalog.
func (c *Config) NewSimulation(log *slog.Logger, catalog *patterns.Catalog) (*life3d.Simulation, error) {
	cfg := c.SimConfig()
	sim := life3d.NewWithConfig(cfg)
	sim.SetLogger(log)
	if cfg.Rule != "" && sim.RuleName() != cfg.Rule {
		log.Warn("unknown rule preset, using default", "rule", cfg.Rule, "default", sim.RuleName())
	}
	if err := Seed(sim, c.Pattern, catalog); err != nil {
		return nil, err
	}
	return sim, nil
}

// Seed loads pattern into sim, or performs a random fill at the sim's
// density when pattern is RandomPattern. An empty pattern leaves sim empty.
func Seed(sim *life3d.Simulation, pattern string, catalog *patterns.Catalog) error {
	switch pattern {
	case "":
		return nil
	case RandomPattern:
		sim.RandomFill(sim.Density())
		return nil
	}
	cells, ok := catalog.Lookup(pattern)
	if !ok {
		return fmt.Errorf("%w %q", ErrUnknownPattern, pattern)
	}
	sim.LoadPattern(cells)
	return nil
}

// MetricsServer exposes simulation metrics over HTTP.
type MetricsServer struct {
	srv    *http.Server
	ln     net.Listener
	detach func()
}

// StartMetrics registers a collector for sim and serves it on addr. An empty
// addr disables metrics and returns a nil server.
func StartMetrics(addr string, sim *life3d.Simulation, log *slog.Logger) (*MetricsServer, error) {
	if addr == "" {
		return nil, nil
	}
	reg := prometheus.NewRegistry()
	col, err := metrics.NewCollector(reg, sim)
	if err != nil {
		return nil, fmt.Errorf("register metrics: %w", err)
	}
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("listen %s: %w", addr, err)
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler(reg))
	ms := &MetricsServer{
		srv:    &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second},
		ln:     ln,
		detach: col.Attach(),
	}
	go func() {
		if err := ms.srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("metrics server stopped", "err", err)
		}
	}()
	log.Info("serving metrics", "addr", ln.Addr().String())
	return ms, nil
}

// Addr returns the bound listen address.
func (m *MetricsServer) Addr() string {
	if m == nil {
		return ""
	}
	return m.ln.Addr().String()
}

// Close shuts the server down. A nil server is a no-op.
func (m *MetricsServer) Close(ctx context.Context) error {
	if m == nil {
		return nil
	}
	m.detach()
	return m.srv.Shutdown(ctx)
}
