// Package metrics exports simulation progress as Prometheus metrics.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"life3d/internal/sims/life3d"
)

const namespace = "life3d"

// Collector holds the metrics updated from simulation hooks.
type Collector struct {
	Generation  prometheus.Gauge
	Population  prometheus.Gauge
	ActiveCells prometheus.Gauge
	Running     prometheus.GaugeFunc
	Steps       prometheus.Counter
	Births      prometheus.Counter
	Deaths      prometheus.Counter
	StepSeconds prometheus.Histogram

	sim *life3d.Simulation
}

// NewCollector creates the metrics for sim and registers them with reg. The
// running gauge is read from sim at scrape time.
func NewCollector(reg prometheus.Registerer, sim *life3d.Simulation) (*Collector, error) {
	c := &Collector{
		sim: sim,
		Generation: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace, Name: "generation",
			Help: "Current generation number.",
		}),
		Population: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace, Name: "population",
			Help: "Number of live cells.",
		}),
		ActiveCells: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace, Name: "active_cells",
			Help: "Cells evaluated by the most recent step.",
		}),
		Running: prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: namespace, Name: "running",
			Help: "1 while timed playback is active.",
		}, func() float64 {
			if sim.IsRunning() {
				return 1
			}
			return 0
		}),
		Steps: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: "steps_total",
			Help: "Generations computed.",
		}),
		Births: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: "births_total",
			Help: "Cells born across all steps.",
		}),
		Deaths: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: "deaths_total",
			Help: "Cells that died across all steps.",
		}),
		StepSeconds: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace, Name: "step_duration_seconds",
			Help:    "Wall time spent computing one generation.",
			Buckets: prometheus.ExponentialBuckets(0.0001, 4, 8),
		}),
	}
	for _, m := range []prometheus.Collector{
		c.Generation, c.Population, c.ActiveCells, c.Running,
		c.Steps, c.Births, c.Deaths, c.StepSeconds,
	} {
		if err := reg.Register(m); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// ObserveStep records one generation.
func (c *Collector) ObserveStep(s life3d.StepStats) {
	c.Generation.Set(float64(s.Generation))
	c.Population.Set(float64(s.Population))
	c.ActiveCells.Set(float64(s.ActiveCells))
	c.Steps.Inc()
	c.Births.Add(float64(s.Births))
	c.Deaths.Add(float64(s.Deaths))
	c.StepSeconds.Observe(s.Duration.Seconds())
}

// Refresh copies the level values from a stats snapshot.
func (c *Collector) Refresh(s life3d.Stats) {
	c.Generation.Set(float64(s.Generation))
	c.Population.Set(float64(s.Population))
}

// Attach wires the collector to the simulation's step and change hooks. The
// returned function removes both.
func (c *Collector) Attach() (detach func()) {
	offStep := c.sim.OnStep(c.ObserveStep)
	c.Refresh(c.sim.Stats())
	unsubscribe := c.sim.Subscribe(func() { c.Refresh(c.sim.Stats()) })
	return func() {
		offStep()
		unsubscribe()
	}
}

// Handler serves the metrics gathered by g.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}
