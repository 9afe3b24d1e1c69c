// Package life3d drives a 3D birth/survival automaton on a toroidal lattice
// and manages timed playback.
package life3d

import (
	"log/slog"
	"slices"
	"sync"
	"time"

	"life3d/internal/core"
)

// StepStats summarizes one generation.
type StepStats struct {
	Generation  int
	Population  int
	Births      int
	Deaths      int
	ActiveCells int
	Duration    time.Duration
}

// Stats is a point-in-time view of the simulation.
type Stats struct {
	Generation int
	Population int
	Rule       string
	RuleName   string
	Running    bool
	Speed      float64
}

type observer struct {
	id int
	fn func()
}

type stepHook struct {
	id int
	fn func(StepStats)
}

// Simulation owns a lattice and a rule set and advances generations either
// on demand or on a timer. All methods are safe for concurrent use.
type Simulation struct {
	mu       sync.Mutex
	lattice  *core.Lattice
	rules    *core.RuleSet
	gen      int
	running  bool
	speed    float64
	density  float64
	workers  int
	rng      *core.RNG
	repeater *core.Repeater
	log      *slog.Logger

	obsMu     sync.Mutex
	observers []observer
	nextObsID int
	stepHooks []stepHook
}

// New returns a simulation with the provided edge length using defaults.
func New(size int) *Simulation {
	cfg := DefaultConfig()
	cfg.Size = size
	return NewWithConfig(cfg)
}

// NewWithConfig returns a simulation configured from the provided options.
func NewWithConfig(cfg Config) *Simulation {
	s := &Simulation{
		lattice: core.NewLattice(cfg.Size),
		rules:   core.NewRuleSet(),
		speed:   cfg.Speed,
		density: cfg.Density,
		workers: cfg.Workers,
		log:     slog.Default(),
	}
	if s.speed <= 0 {
		s.speed = DefaultSpeed
	}
	if s.workers < 1 {
		s.workers = 1
	}
	if cfg.Seed != 0 {
		s.rng = core.NewRNG(cfg.Seed)
	}
	if cfg.Rule != "" {
		s.rules.SetPreset(cfg.Rule)
	}
	return s
}

// SetLogger replaces the logger used for lifecycle messages.
func (s *Simulation) SetLogger(l *slog.Logger) {
	if l == nil {
		return
	}
	s.mu.Lock()
	s.log = l
	s.mu.Unlock()
}

// Name returns the simulation identifier.
func (s *Simulation) Name() string { return "life3d" }

// Subscribe registers fn to run after every change to renderable state
// (step, reset, pattern load, random fill, cell edits). fn runs without the
// simulation lock held, so it may call back into the simulation. The
// returned function removes the subscription.
func (s *Simulation) Subscribe(fn func()) (cancel func()) {
	if fn == nil {
		return func() {}
	}
	s.obsMu.Lock()
	id := s.nextObsID
	s.nextObsID++
	s.observers = append(s.observers, observer{id: id, fn: fn})
	s.obsMu.Unlock()
	return func() {
		s.obsMu.Lock()
		defer s.obsMu.Unlock()
		s.observers = slices.DeleteFunc(s.observers, func(o observer) bool { return o.id == id })
	}
}

// OnStep registers fn to receive statistics after every generation. The
// returned function removes the hook.
func (s *Simulation) OnStep(fn func(StepStats)) (cancel func()) {
	if fn == nil {
		return func() {}
	}
	s.obsMu.Lock()
	id := s.nextObsID
	s.nextObsID++
	s.stepHooks = append(s.stepHooks, stepHook{id: id, fn: fn})
	s.obsMu.Unlock()
	return func() {
		s.obsMu.Lock()
		defer s.obsMu.Unlock()
		s.stepHooks = slices.DeleteFunc(s.stepHooks, func(h stepHook) bool { return h.id == id })
	}
}

func (s *Simulation) notify() {
	s.obsMu.Lock()
	obs := slices.Clone(s.observers)
	s.obsMu.Unlock()
	for _, o := range obs {
		o.fn()
	}
}

func (s *Simulation) afterStep(stats StepStats) {
	s.obsMu.Lock()
	hooks := slices.Clone(s.stepHooks)
	s.obsMu.Unlock()
	for _, h := range hooks {
		h.fn(stats)
	}
	s.notify()
}

// Step advances exactly one generation, whether or not playback is running.
func (s *Simulation) Step() StepStats {
	s.mu.Lock()
	stats := s.stepLocked()
	s.mu.Unlock()
	s.afterStep(stats)
	return stats
}

func (s *Simulation) tick(r *core.Repeater) {
	s.mu.Lock()
	// A firing from a schedule that pause or SetSpeed already replaced is dropped.
	if !s.running || s.repeater != r {
		s.mu.Unlock()
		return
	}
	stats := s.stepLocked()
	s.mu.Unlock()
	s.afterStep(stats)
}

// Play starts timed stepping at the current speed. It is a no-op when
// already running.
func (s *Simulation) Play() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.playLocked()
}

// Pause stops timed stepping. It is safe to call when already paused.
func (s *Simulation) Pause() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pauseLocked() {
		s.log.Info("playback paused", "generation", s.gen)
	}
}

// Toggle pauses a running simulation or starts an idle one.
func (s *Simulation) Toggle() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pauseLocked() {
		s.log.Info("playback paused", "generation", s.gen)
		return
	}
	s.playLocked()
}

func (s *Simulation) playLocked() {
	if s.running {
		return
	}
	s.running = true
	s.startTimerLocked()
	s.log.Info("playback started", "speed", s.speed, "interval", s.repeater.Interval(), "generation", s.gen)
}

// SetSpeed changes the playback rate in generations per second. A running
// timer is replaced atomically. Non-positive values select DefaultSpeed;
// callers are expected to clamp to [MinSpeed, MaxSpeed].
func (s *Simulation) SetSpeed(speed float64) {
	if speed <= 0 {
		speed = DefaultSpeed
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.speed = speed
	if s.running {
		s.repeater.Stop()
		s.startTimerLocked()
	}
	s.log.Debug("speed changed", "speed", speed, "running", s.running)
}

func (s *Simulation) startTimerLocked() {
	r := core.NewRepeater(core.IntervalForRate(s.speed, DefaultSpeed))
	s.repeater = r
	r.Start(func() { s.tick(r) })
}

func (s *Simulation) pauseLocked() bool {
	if !s.running {
		return false
	}
	s.running = false
	if s.repeater != nil {
		s.repeater.Stop()
		s.repeater = nil
	}
	return true
}

// Close stops playback. It may be called more than once.
func (s *Simulation) Close() {
	s.Pause()
}

// Reset pauses, clears the lattice and rewinds the generation counter.
func (s *Simulation) Reset() {
	s.mu.Lock()
	s.pauseLocked()
	s.lattice.Clear()
	s.gen = 0
	s.log.Info("simulation reset")
	s.mu.Unlock()
	s.notify()
}

// LoadPattern pauses and replaces the lattice contents with offsets centered
// on the domain.
func (s *Simulation) LoadPattern(offsets []core.Point) {
	s.mu.Lock()
	s.pauseLocked()
	s.lattice.LoadPattern(offsets)
	s.gen = 0
	s.log.Info("pattern loaded", "cells", len(offsets), "population", s.lattice.Population())
	s.mu.Unlock()
	s.notify()
}

// RandomFill pauses and refills the whole domain with the given density.
func (s *Simulation) RandomFill(density float64) {
	s.mu.Lock()
	s.pauseLocked()
	s.lattice.RandomFill(density, s.rng)
	s.gen = 0
	s.log.Info("random fill", "density", density, "population", s.lattice.Population())
	s.mu.Unlock()
	s.notify()
}

// ToggleCell flips one cell on behalf of an editor and returns its new state.
func (s *Simulation) ToggleCell(x, y, z int) bool {
	s.mu.Lock()
	alive := s.lattice.Toggle(x, y, z)
	s.mu.Unlock()
	s.notify()
	return alive
}

// SetCell sets one cell on behalf of an editor.
func (s *Simulation) SetCell(x, y, z int, alive bool) {
	s.mu.Lock()
	s.lattice.Set(x, y, z, alive)
	s.mu.Unlock()
	s.notify()
}

// SetRule switches to a preset rule. Unknown names are ignored and reported
// by the return value. Observers are not notified.
func (s *Simulation) SetRule(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.rules.SetPreset(name) {
		s.log.Debug("ignoring unknown rule preset", "rule", name)
		return false
	}
	s.log.Info("rule changed", "rule", name, "label", s.rules.Label())
	return true
}

// SetCustomRule installs an arbitrary birth/survival pair. Observers are not
// notified.
func (s *Simulation) SetCustomRule(birth, survival []int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rules.SetCustom(birth, survival)
	s.log.Info("custom rule set", "label", s.rules.Label())
}

// LiveCells returns the live cells of the current generation.
func (s *Simulation) LiveCells() []core.Point {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lattice.LiveCells()
}

// Snapshot returns an independent copy of the current lattice.
func (s *Simulation) Snapshot() *core.Lattice {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lattice.Clone()
}

// IsAlive reports the state of one cell in the current generation.
func (s *Simulation) IsAlive(x, y, z int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lattice.IsAlive(x, y, z)
}

// ActiveRegion returns the cells the next step will evaluate.
func (s *Simulation) ActiveRegion() []core.Point {
	s.mu.Lock()
	defer s.mu.Unlock()
	region := s.rules.ActiveRegion(s.lattice)
	out := make([]core.Point, 0, len(region))
	for p := range region {
		out = append(out, p)
	}
	return out
}

// Population returns the number of live cells.
func (s *Simulation) Population() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lattice.Population()
}

// Size returns the lattice edge length.
func (s *Simulation) Size() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lattice.Size()
}

// Generation returns the number of steps since the last reset, load or fill.
func (s *Simulation) Generation() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.gen
}

// IsRunning reports whether timed playback is active.
func (s *Simulation) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// Speed returns the playback rate in generations per second.
func (s *Simulation) Speed() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.speed
}

// Density returns the fill probability the UI uses for random fills.
func (s *Simulation) Density() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.density
}

// RuleLabel returns the active rule as a B/S string.
func (s *Simulation) RuleLabel() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rules.Label()
}

// RuleName returns the active preset name or core.CustomRuleName.
func (s *Simulation) RuleName() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rules.Name()
}

// PresetNames lists the built-in rule presets in stable order.
func (s *Simulation) PresetNames() []string {
	return core.PresetNames()
}

// Stats returns a consistent snapshot of the simulation counters.
func (s *Simulation) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Stats{
		Generation: s.gen,
		Population: s.lattice.Population(),
		Rule:       s.rules.Label(),
		RuleName:   s.rules.Name(),
		Running:    s.running,
		Speed:      s.speed,
	}
}
