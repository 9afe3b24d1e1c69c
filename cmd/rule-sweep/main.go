package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime"
	"sort"
	"sync"
	"time"

	"life3d/internal/core"
	"life3d/internal/patterns"
	"life3d/internal/sims/life3d"
)

type scenario struct {
	rule     string
	birth    []int
	survival []int
	pattern  string
}

func (s scenario) String() string {
	return fmt.Sprintf("rule=%q pattern=%q", s.rule, s.pattern)
}

type scenarioResult struct {
	scenario
	label      string
	initial    int
	final      int
	peak       int
	peakGen    int
	extinctGen int
	active     int
	elapsed    time.Duration
}

func main() {
	steps := flag.Int("steps", 100, "generations to simulate per scenario")
	size := flag.Int("size", life3d.DefaultSize, "lattice edge length")
	workers := flag.Int("workers", runtime.NumCPU(), "number of worker goroutines")
	top := flag.Int("top", 10, "rows to print in the summary")
	logLevel := flag.String("log-level", "warn", "debug, info, warn or error")
	flag.Parse()

	var level slog.Level
	if err := level.UnmarshalText([]byte(*logLevel)); err != nil {
		fmt.Fprintln(os.Stderr, "rule-sweep:", err)
		os.Exit(2)
	}
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	catalog := patterns.Default()
	var sets []scenario
	for _, p := range core.Presets() {
		for _, pattern := range catalog.Names() {
			sets = append(sets, scenario{rule: p.Name, birth: p.Birth, survival: p.Survival, pattern: pattern})
		}
	}

	fmt.Printf("Sweeping %d scenarios (%d workers, %d steps, size %d)\n", len(sets), *workers, *steps, *size)

	jobs := make(chan scenario)
	results := make(chan scenarioResult)
	var wg sync.WaitGroup

	for i := 0; i < max(*workers, 1); i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for sc := range jobs {
				results <- runScenario(sc, catalog, *size, *steps, log)
			}
		}()
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	go func() {
		for _, sc := range sets {
			jobs <- sc
		}
		close(jobs)
	}()

	start := time.Now()
	var all []scenarioResult
	for res := range results {
		all = append(all, res)
	}

	sort.Slice(all, func(i, j int) bool {
		if all[i].final != all[j].final {
			return all[i].final > all[j].final
		}
		return all[i].scenario.String() < all[j].scenario.String()
	})

	printTable(os.Stdout, all)
	extinct := 0
	for _, r := range all {
		if r.extinctGen >= 0 {
			extinct++
		}
	}
	fmt.Printf("\n%d/%d scenarios died out (elapsed %s)\n", extinct, len(all), time.Since(start).Round(time.Millisecond))
	fmt.Printf("\nTop %d by final population:\n", min(*top, len(all)))
	for i := 0; i < len(all) && i < *top; i++ {
		r := all[i]
		fmt.Printf("%2d) %s %s final=%d peak=%d@%d evaluated=%d\n", i+1, r.label, r.scenario, r.final, r.peak, r.peakGen, r.active)
	}
}

func runScenario(sc scenario, catalog *patterns.Catalog, size, steps int, log *slog.Logger) scenarioResult {
	cfg := life3d.DefaultConfig()
	cfg.Size = size
	sim := life3d.NewWithConfig(cfg)
	sim.SetLogger(log.With("rule", sc.rule, "pattern", sc.pattern))
	sim.SetCustomRule(sc.birth, sc.survival)
	sim.LoadPattern(catalog.Get(sc.pattern))

	res := scenarioResult{
		scenario:   sc,
		label:      sim.RuleLabel(),
		initial:    sim.Population(),
		extinctGen: -1,
	}
	res.peak = res.initial
	begin := time.Now()
	for i := 0; i < steps; i++ {
		st := sim.Step()
		res.active += st.ActiveCells
		if st.Population > res.peak {
			res.peak = st.Population
			res.peakGen = st.Generation
		}
		if st.Population == 0 {
			res.extinctGen = st.Generation
			break
		}
	}
	res.final = sim.Population()
	res.elapsed = time.Since(begin)
	return res
}

func printTable(w io.Writer, all []scenarioResult) {
	fmt.Fprintf(w, "\n%-12s %-20s %-12s %7s %7s %7s %8s %10s\n",
		"label", "rule", "pattern", "initial", "final", "peak", "extinct", "elapsed")
	for _, r := range all {
		extinct := "-"
		if r.extinctGen >= 0 {
			extinct = fmt.Sprint(r.extinctGen)
		}
		fmt.Fprintf(w, "%-12s %-20s %-12s %7d %7d %7d %8s %10s\n",
			r.label, r.rule, r.pattern, r.initial, r.final, r.peak, extinct, r.elapsed.Round(time.Microsecond))
	}
}
