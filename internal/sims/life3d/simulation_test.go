package life3d

import (
	"io"
	"log/slog"
	"slices"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"life3d/internal/core"
)

func quiet(s *Simulation) *Simulation {
	s.SetLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
	return s
}

func sorted(ps []core.Point) []core.Point {
	out := slices.Clone(ps)
	slices.SortFunc(out, func(a, b core.Point) int {
		if a.X != b.X {
			return a.X - b.X
		}
		if a.Y != b.Y {
			return a.Y - b.Y
		}
		return a.Z - b.Z
	})
	return out
}

// bruteForceStep evaluates every cell of the domain against l.
func bruteForceStep(l *core.Lattice, birth, survival []int) []core.Point {
	var out []core.Point
	n := l.Size()
	for x := 0; x < n; x++ {
		for y := 0; y < n; y++ {
			for z := 0; z < n; z++ {
				count := 0
				for dx := -1; dx <= 1; dx++ {
					for dy := -1; dy <= 1; dy++ {
						for dz := -1; dz <= 1; dz++ {
							if dx == 0 && dy == 0 && dz == 0 {
								continue
							}
							if l.IsAlive(x+dx, y+dy, z+dz) {
								count++
							}
						}
					}
				}
				set := birth
				if l.IsAlive(x, y, z) {
					set = survival
				}
				if slices.Contains(set, count) {
					out = append(out, core.Point{X: x, Y: y, Z: z})
				}
			}
		}
	}
	return out
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for %s", what)
		}
		time.Sleep(2 * time.Millisecond)
	}
}

func TestCubeCornerScenario(t *testing.T) {
	sim := quiet(New(5))
	if sim.RuleName() != "5-6/4-7 Amoeba" {
		t.Fatalf("unexpected default rule %q", sim.RuleName())
	}
	var cube []core.Point
	for x := 0; x <= 1; x++ {
		for y := 0; y <= 1; y++ {
			for z := 0; z <= 1; z++ {
				sim.SetCell(x, y, z, true)
				cube = append(cube, core.Point{X: x, Y: y, Z: z})
			}
		}
	}
	want := sorted(bruteForceStep(sim.Snapshot(), []int{5, 6}, []int{4, 5, 6, 7}))

	stats := sim.Step()

	got := sorted(sim.LiveCells())
	if !slices.Equal(got, want) {
		t.Fatalf("step produced %v, brute force %v", got, want)
	}
	// Each cube cell sees 7 live neighbors and every outside cell at most 4,
	// so the cube is a still life under Amoeba.
	if !slices.Equal(got, sorted(cube)) {
		t.Fatalf("expected the cube to persist, got %v", got)
	}
	if stats.Generation != 1 || sim.Generation() != 1 {
		t.Fatalf("generation %d/%d after one step", stats.Generation, sim.Generation())
	}
	if stats.Births != 0 || stats.Deaths != 0 || stats.Population != 8 {
		t.Fatalf("unexpected stats %+v", stats)
	}
	if stats.ActiveCells != 4*4*4 {
		t.Fatalf("active region %d, expected 64", stats.ActiveCells)
	}
}

func TestStepMatchesBruteForce(t *testing.T) {
	rules := []struct {
		birth, survival []int
	}{
		{[]int{4, 5}, []int{5}},
		{[]int{5, 6}, []int{4, 5, 6, 7}},
		{[]int{4}, []int{5, 6, 7, 8}},
		{[]int{1, 2}, []int{0, 3}},
	}
	for seed, r := range rules {
		cfg := DefaultConfig()
		cfg.Size = 9
		cfg.Seed = int64(seed + 1)
		sim := quiet(NewWithConfig(cfg))
		sim.SetCustomRule(r.birth, r.survival)
		sim.RandomFill(0.2)

		for gen := 0; gen < 4; gen++ {
			before := sim.Snapshot()
			want := sorted(bruteForceStep(before, r.birth, r.survival))
			stats := sim.Step()
			got := sorted(sim.LiveCells())
			if !slices.Equal(got, want) {
				t.Fatalf("rule B%v/S%v gen %d: optimized step diverged from full-domain evaluation", r.birth, r.survival, gen)
			}
			births, deaths := 0, 0
			for _, p := range got {
				if !before.Alive(p) {
					births++
				}
			}
			before.Each(func(p core.Point) {
				if !slices.Contains(got, p) {
					deaths++
				}
			})
			if stats.Births != births || stats.Deaths != deaths {
				t.Fatalf("stats births/deaths %d/%d, expected %d/%d", stats.Births, stats.Deaths, births, deaths)
			}
		}
	}
}

func TestCellsOutsideActiveRegionUnchanged(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Size = 12
	cfg.Seed = 99
	sim := quiet(NewWithConfig(cfg))
	sim.SetCustomRule([]int{1}, nil) // births from a single neighbor
	sim.RandomFill(0.01)

	region := map[core.Point]bool{}
	for _, p := range sim.ActiveRegion() {
		region[p] = true
	}
	before := sim.Snapshot()
	sim.Step()
	after := sim.Snapshot()

	for x := 0; x < 12; x++ {
		for y := 0; y < 12; y++ {
			for z := 0; z < 12; z++ {
				p := core.Point{X: x, Y: y, Z: z}
				if region[p] {
					continue
				}
				if before.Alive(p) != after.Alive(p) {
					t.Fatalf("cell %v outside the active region changed", p)
				}
			}
		}
	}
}

func TestStepDeterministic(t *testing.T) {
	base := core.NewLattice(20)
	base.RandomFill(0.3, core.NewRNG(5))

	run := func(workers int) []core.Point {
		cfg := DefaultConfig()
		cfg.Size = 20
		cfg.Workers = workers
		sim := quiet(NewWithConfig(cfg))
		sim.SetRule("4-5/5 Pyroclastic")
		base.Each(func(p core.Point) { sim.SetCell(p.X, p.Y, p.Z, true) })
		if n := len(sim.ActiveRegion()); n < parallelThreshold {
			t.Fatalf("active region %d too small to exercise the parallel path", n)
		}
		for i := 0; i < 3; i++ {
			sim.Step()
		}
		return sorted(sim.LiveCells())
	}

	serial := run(1)
	if !slices.Equal(serial, run(1)) {
		t.Fatal("identical inputs produced different generations")
	}
	for _, workers := range []int{2, 4, 7} {
		if !slices.Equal(serial, run(workers)) {
			t.Fatalf("%d workers diverged from serial evaluation", workers)
		}
	}
}

func TestParallelStepMatchesSerial(t *testing.T) {
	build := func(workers int) *Simulation {
		cfg := DefaultConfig()
		cfg.Size = 20
		cfg.Seed = 2024
		cfg.Workers = workers
		sim := quiet(NewWithConfig(cfg))
		sim.RandomFill(0.3)
		return sim
	}
	serial := build(1)
	parallel := build(4)
	if !slices.Equal(sorted(serial.LiveCells()), sorted(parallel.LiveCells())) {
		t.Fatal("seeded fills should match")
	}
	for i := 0; i < 3; i++ {
		a := serial.Step()
		b := parallel.Step()
		if a.ActiveCells < parallelThreshold && i == 0 {
			t.Fatalf("active region %d too small to exercise the parallel path", a.ActiveCells)
		}
		if a.Births != b.Births || a.Deaths != b.Deaths {
			t.Fatalf("stats differ: serial %+v parallel %+v", a, b)
		}
		if !slices.Equal(sorted(serial.LiveCells()), sorted(parallel.LiveCells())) {
			t.Fatalf("generation %d differs between serial and parallel evaluation", i+1)
		}
	}
}

func TestStepReplacesLattice(t *testing.T) {
	sim := quiet(New(6))
	sim.SetCell(1, 1, 1, true)
	held := sim.Snapshot()
	sim.Step()
	if !held.IsAlive(1, 1, 1) || held.Population() != 1 {
		t.Fatal("snapshot taken before a step must not change")
	}
}

func TestResetContract(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Size = 8
	cfg.Seed = 1
	sim := quiet(NewWithConfig(cfg))
	sim.RandomFill(0.4)
	sim.Step()
	sim.Step()
	sim.Play()

	sim.Reset()

	if sim.Population() != 0 || sim.Generation() != 0 {
		t.Fatalf("after reset population=%d generation=%d", sim.Population(), sim.Generation())
	}
	if sim.IsRunning() {
		t.Fatal("reset must pause playback")
	}
}

func TestLoadPatternAndRandomFillRewind(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Size = 7
	cfg.Seed = 3
	sim := quiet(NewWithConfig(cfg))
	sim.SetCell(0, 0, 0, true)
	sim.Step()
	sim.Play()

	sim.LoadPattern([]core.Point{{X: 0, Y: 0, Z: 0}, {X: 1, Y: 0, Z: 0}})
	if sim.Generation() != 0 || sim.IsRunning() {
		t.Fatal("LoadPattern must pause and rewind")
	}
	want := []core.Point{{X: 3, Y: 3, Z: 3}, {X: 4, Y: 3, Z: 3}}
	if got := sorted(sim.LiveCells()); !slices.Equal(got, want) {
		t.Fatalf("pattern cells %v, expected %v", got, want)
	}

	sim.Step()
	sim.Play()
	sim.RandomFill(1)
	if sim.Generation() != 0 || sim.IsRunning() {
		t.Fatal("RandomFill must pause and rewind")
	}
	if sim.Population() != 7*7*7 {
		t.Fatalf("density 1 population %d", sim.Population())
	}
}

func TestToggleCellPair(t *testing.T) {
	sim := quiet(New(5))
	sim.LoadPattern([]core.Point{{X: 0, Y: 0, Z: 0}, {X: 1, Y: 1, Z: 1}})
	before := sorted(sim.LiveCells())

	if !sim.ToggleCell(0, 0, 0) {
		t.Fatal("toggling a dead cell should report alive")
	}
	if sim.ToggleCell(0, 0, 0) {
		t.Fatal("second toggle should report dead")
	}
	if got := sorted(sim.LiveCells()); !slices.Equal(got, before) {
		t.Fatal("toggle pair changed the lattice")
	}
	if sim.Generation() != 0 {
		t.Fatal("edits must not advance the generation")
	}
}

func TestPlayPauseToggle(t *testing.T) {
	sim := quiet(New(6))
	defer sim.Close()
	sim.LoadPattern([]core.Point{{X: 0, Y: 0, Z: 0}})
	sim.SetSpeed(200)

	sim.Play()
	sim.Play()
	if !sim.IsRunning() {
		t.Fatal("Play should start playback")
	}
	waitFor(t, "three timed generations", func() bool { return sim.Generation() >= 3 })

	sim.Toggle()
	if sim.IsRunning() {
		t.Fatal("Toggle should pause a running simulation")
	}
	paused := sim.Generation()
	time.Sleep(30 * time.Millisecond)
	if sim.Generation() != paused {
		t.Fatalf("generation advanced from %d to %d while paused", paused, sim.Generation())
	}
	sim.Pause()

	sim.Toggle()
	if !sim.IsRunning() {
		t.Fatal("Toggle should resume an idle simulation")
	}
	sim.Pause()
}

func TestConcurrentTogglesPairUp(t *testing.T) {
	sim := quiet(New(4))
	defer sim.Close()
	sim.SetSpeed(1)
	for i := 0; i < 200; i++ {
		var wg sync.WaitGroup
		for j := 0; j < 2; j++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				sim.Toggle()
			}()
		}
		wg.Wait()
		if sim.IsRunning() {
			t.Fatalf("trial %d: two toggles from idle left playback running", i)
		}
	}
}

func TestSetSpeedWhileRunning(t *testing.T) {
	sim := quiet(New(6))
	defer sim.Close()
	sim.SetSpeed(1)
	sim.Play()

	gen := sim.Generation()
	sim.SetSpeed(2)
	if !sim.IsRunning() {
		t.Fatal("SetSpeed must keep playback running")
	}
	if sim.Generation() != gen {
		t.Fatal("SetSpeed must not step synchronously")
	}
	if sim.Speed() != 2 {
		t.Fatalf("speed %v, expected 2", sim.Speed())
	}

	sim.SetSpeed(250)
	waitFor(t, "steps at the new rate", func() bool { return sim.Generation() >= 3 })
	sim.Pause()
}

func TestSetSpeedRestartsExactlyOneTimer(t *testing.T) {
	sim := quiet(New(4))
	defer sim.Close()
	var steps atomic.Int32
	sim.OnStep(func(StepStats) { steps.Add(1) })

	sim.SetSpeed(100)
	sim.Play()
	for i := 0; i < 20; i++ {
		sim.SetSpeed(100)
	}
	time.Sleep(100 * time.Millisecond)
	sim.Pause()
	// Let a firing that stepped just before Pause finish its hooks.
	time.Sleep(20 * time.Millisecond)

	// One schedule at 100/s for ~100ms; leaked timers would multiply this.
	if n := steps.Load(); n > 20 {
		t.Fatalf("%d steps in 100ms suggests duplicate timers", n)
	}
	if int(steps.Load()) != sim.Generation() {
		t.Fatalf("step hooks %d disagree with generation %d", steps.Load(), sim.Generation())
	}
}

func TestSetSpeedNonPositiveUsesDefault(t *testing.T) {
	sim := quiet(New(3))
	sim.SetSpeed(-5)
	if sim.Speed() != DefaultSpeed {
		t.Fatalf("speed %v, expected default", sim.Speed())
	}
}

func TestNotifications(t *testing.T) {
	sim := quiet(New(5))
	var n atomic.Int32
	cancel := sim.Subscribe(func() {
		// Observers may read back into the simulation.
		_ = sim.LiveCells()
		n.Add(1)
	})

	sim.Step()
	sim.Reset()
	sim.LoadPattern(nil)
	sim.RandomFill(0)
	sim.ToggleCell(1, 1, 1)
	if got := n.Load(); got != 5 {
		t.Fatalf("expected 5 notifications, got %d", got)
	}

	sim.SetRule("4/5-8 Crystal")
	sim.SetCustomRule([]int{1}, []int{2})
	sim.SetSpeed(3)
	if got := n.Load(); got != 5 {
		t.Fatalf("rule and speed changes must not notify, got %d", got)
	}

	cancel()
	sim.Step()
	if got := n.Load(); got != 5 {
		t.Fatalf("cancelled observer still notified, got %d", got)
	}
}

func TestOnStepCancel(t *testing.T) {
	sim := quiet(New(4))
	var a, b atomic.Int32
	cancelA := sim.OnStep(func(StepStats) { a.Add(1) })
	sim.OnStep(func(StepStats) { b.Add(1) })
	sim.Step()
	cancelA()
	cancelA()
	sim.Step()
	if a.Load() != 1 || b.Load() != 2 {
		t.Fatalf("hooks saw %d and %d steps, expected 1 and 2", a.Load(), b.Load())
	}
	sim.OnStep(nil)()
}

func TestMultipleObservers(t *testing.T) {
	sim := quiet(New(4))
	var a, b atomic.Int32
	sim.Subscribe(func() { a.Add(1) })
	sim.Subscribe(func() { b.Add(1) })
	sim.Subscribe(nil)
	sim.Step()
	if a.Load() != 1 || b.Load() != 1 {
		t.Fatalf("observers saw %d and %d notifications", a.Load(), b.Load())
	}
}

func TestRuleChanges(t *testing.T) {
	sim := quiet(New(5))
	sim.Play()
	defer sim.Close()
	sim.Step()
	gen := sim.Generation()

	if !sim.SetRule("6-7/5-7 Builder") {
		t.Fatal("known preset rejected")
	}
	if sim.SetRule("Missing") {
		t.Fatal("unknown preset accepted")
	}
	if sim.RuleName() != "6-7/5-7 Builder" || sim.RuleLabel() != "B67/S567" {
		t.Fatalf("rule %q %q", sim.RuleName(), sim.RuleLabel())
	}
	sim.SetCustomRule([]int{4, 5}, []int{5})
	if sim.RuleLabel() != "B45/S5" || sim.RuleName() != core.CustomRuleName {
		t.Fatalf("custom rule %q %q", sim.RuleName(), sim.RuleLabel())
	}
	if !sim.IsRunning() {
		t.Fatal("rule changes must not pause")
	}
	if sim.Generation() < gen {
		t.Fatal("rule changes must not rewind the generation")
	}
}

func TestStatsAndParameters(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Size = 6
	cfg.Rule = "4/5-8 Crystal"
	sim := quiet(NewWithConfig(cfg))
	sim.LoadPattern([]core.Point{{X: 0, Y: 0, Z: 0}, {X: 1, Y: 0, Z: 0}})

	st := sim.Stats()
	if st.Generation != 0 || st.Population != 2 || st.Rule != "B4/S5678" || st.RuleName != "4/5-8 Crystal" || st.Running || st.Speed != DefaultSpeed {
		t.Fatalf("unexpected stats %+v", st)
	}

	params := sim.Parameters()
	if p, ok := params.Lookup("population"); !ok || p.Value != "2" {
		t.Fatalf("population parameter %+v", p)
	}
	if p, ok := params.Lookup("rule"); !ok || p.Value != "B4/S5678" {
		t.Fatalf("rule parameter %+v", p)
	}
	if len(sim.PresetNames()) != 7 {
		t.Fatalf("expected 7 presets, got %d", len(sim.PresetNames()))
	}
}

func TestSetFloatParameterClamps(t *testing.T) {
	sim := quiet(New(4))
	if !sim.SetFloatParameter("speed", 100) {
		t.Fatal("speed should be adjustable")
	}
	if sim.Speed() != MaxSpeed {
		t.Fatalf("speed %v, expected clamp to %v", sim.Speed(), MaxSpeed)
	}
	sim.SetFloatParameter("speed", 0)
	if sim.Speed() != MinSpeed {
		t.Fatalf("speed %v, expected clamp to %v", sim.Speed(), MinSpeed)
	}
	sim.SetFloatParameter("density", 1.5)
	if sim.Density() != 1 {
		t.Fatalf("density %v, expected 1", sim.Density())
	}
	if sim.SetFloatParameter("bogus", 1) {
		t.Fatal("unknown key accepted")
	}
	if len(sim.ParameterControls()) != 2 {
		t.Fatal("expected speed and density controls")
	}
}

func TestUnknownConfigRuleKeepsDefault(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Rule = "nope"
	sim := NewWithConfig(cfg)
	if sim.RuleName() != core.DefaultPreset {
		t.Fatalf("rule %q, expected default", sim.RuleName())
	}
}

func TestSeededFillsRepeat(t *testing.T) {
	mk := func() *Simulation {
		cfg := DefaultConfig()
		cfg.Size = 8
		cfg.Seed = 77
		return quiet(NewWithConfig(cfg))
	}
	a, b := mk(), mk()
	a.RandomFill(0.3)
	b.RandomFill(0.3)
	if !slices.Equal(sorted(a.LiveCells()), sorted(b.LiveCells())) {
		t.Fatal("equal seeds should give equal fills")
	}
}
