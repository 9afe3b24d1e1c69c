package life3d

import (
	"time"

	"golang.org/x/sync/errgroup"

	"life3d/internal/core"
)

// Regions smaller than this are evaluated serially even with Workers > 1.
const parallelThreshold = 4096

// chunkSize is the number of candidates one parallel task evaluates.
const chunkSize = 1024

// stepLocked builds the next generation from the active region of the current
// lattice and swaps it in. Every candidate reads only the old lattice, so the
// result does not depend on evaluation order.
func (s *Simulation) stepLocked() StepStats {
	start := time.Now()
	old := s.lattice
	region := s.rules.ActiveRegion(old)
	candidates := make([]core.Point, 0, len(region))
	for p := range region {
		candidates = append(candidates, p)
	}

	next := core.NewLattice(old.Size())
	births := 0
	if s.workers > 1 && len(candidates) >= parallelThreshold {
		births = s.evaluateParallel(old, candidates, next)
	} else {
		alive, b := evaluate(old, s.rules, candidates)
		for _, p := range alive {
			next.Set(p.X, p.Y, p.Z, true)
		}
		births = b
	}

	survivors := next.Population() - births
	s.lattice = next
	s.gen++

	stats := StepStats{
		Generation:  s.gen,
		Population:  next.Population(),
		Births:      births,
		Deaths:      old.Population() - survivors,
		ActiveCells: len(candidates),
		Duration:    time.Since(start),
	}
	s.log.Debug("step",
		"generation", stats.Generation,
		"population", stats.Population,
		"births", stats.Births,
		"deaths", stats.Deaths,
		"active", stats.ActiveCells,
		"duration", stats.Duration,
	)
	return stats
}

func (s *Simulation) evaluateParallel(old *core.Lattice, candidates []core.Point, next *core.Lattice) int {
	var (
		eg       errgroup.Group
		chunks   = (len(candidates) + chunkSize - 1) / chunkSize
		results  = make([][]core.Point, chunks)
		birthsBy = make([]int, chunks)
	)
	eg.SetLimit(s.workers)
	for i := range chunks {
		lo := i * chunkSize
		hi := min(lo+chunkSize, len(candidates))
		eg.Go(func() error {
			results[i], birthsBy[i] = evaluate(old, s.rules, candidates[lo:hi])
			return nil
		})
	}
	// evaluate has no failure path.
	_ = eg.Wait()

	births := 0
	for i, alive := range results {
		for _, p := range alive {
			next.Set(p.X, p.Y, p.Z, true)
		}
		births += birthsBy[i]
	}
	return births
}

// evaluate returns the candidates alive in the next generation and how many
// of them were dead in old.
func evaluate(old *core.Lattice, rules *core.RuleSet, candidates []core.Point) ([]core.Point, int) {
	var alive []core.Point
	births := 0
	for _, p := range candidates {
		was := old.Alive(p)
		if rules.NextState(was, old.NeighborCount(p.X, p.Y, p.Z)) {
			alive = append(alive, p)
			if !was {
				births++
			}
		}
	}
	return alive, births
}
