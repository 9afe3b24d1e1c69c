// Package patterns holds named seed shapes for the 3D lattice. Coordinates are
// offsets from the domain center and may exceed the domain; they wrap on load.
package patterns

import (
	"slices"
	"sync"

	"life3d/internal/core"
)

// Catalog is an ordered, concurrency-safe collection of named patterns.
type Catalog struct {
	mu    sync.RWMutex
	names []string
	cells map[string][]core.Point
}

// NewCatalog returns an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{cells: map[string][]core.Point{}}
}

// Register adds or replaces a pattern. Empty names are ignored.
func (c *Catalog) Register(name string, cells []core.Point) {
	if name == "" {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.cells[name]; !ok {
		c.names = append(c.names, name)
	}
	c.cells[name] = slices.Clone(cells)
}

// Names returns pattern names in registration order.
func (c *Catalog) Names() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Clone(c.names)
}

// Lookup returns a copy of the named pattern.
func (c *Catalog) Lookup(name string) ([]core.Point, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	cells, ok := c.cells[name]
	if !ok {
		return nil, false
	}
	return slices.Clone(cells), true
}

// Get returns the named pattern, or an empty pattern when unknown.
func (c *Catalog) Get(name string) []core.Point {
	cells, _ := c.Lookup(name)
	return cells
}

// Next returns the name registered after name, wrapping around. An unknown
// name yields the first entry.
func (c *Catalog) Next(name string) string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if len(c.names) == 0 {
		return ""
	}
	i := slices.Index(c.names, name)
	return c.names[(i+1)%len(c.names)]
}

var (
	defaultOnce    sync.Once
	defaultCatalog *Catalog
)

// Default returns the built-in catalog.
func Default() *Catalog {
	defaultOnce.Do(func() {
		defaultCatalog = NewCatalog()
		for _, e := range builtin {
			defaultCatalog.Register(e.name, e.cells)
		}
	})
	return defaultCatalog
}

type entry struct {
	name  string
	cells []core.Point
}

func p(x, y, z int) core.Point { return core.Point{X: x, Y: y, Z: z} }

var builtin = []entry{
	{"Cube 2x2x2", []core.Point{
		p(0, 0, 0), p(1, 0, 0), p(0, 1, 0), p(1, 1, 0),
		p(0, 0, 1), p(1, 0, 1), p(0, 1, 1), p(1, 1, 1),
	}},
	{"Cross", []core.Point{
		p(0, 0, 0),
		p(1, 0, 0), p(-1, 0, 0),
		p(0, 1, 0), p(0, -1, 0),
		p(0, 0, 1), p(0, 0, -1),
	}},
	{"Line 3", []core.Point{p(-1, 0, 0), p(0, 0, 0), p(1, 0, 0)}},
	{"Line 5", []core.Point{p(-2, 0, 0), p(-1, 0, 0), p(0, 0, 0), p(1, 0, 0), p(2, 0, 0)}},
	{"L Shape", []core.Point{p(0, 0, 0), p(1, 0, 0), p(2, 0, 0), p(0, 1, 0), p(0, 0, 1)}},
	{"Diagonal", []core.Point{p(-2, -2, -2), p(-1, -1, -1), p(0, 0, 0), p(1, 1, 1), p(2, 2, 2)}},
	{"Cluster", []core.Point{
		p(0, 0, 0), p(1, 0, 0), p(0, 1, 0), p(1, 1, 0), p(0, 0, 1), p(1, 1, 1),
	}},
	{"Ring", []core.Point{
		p(0, -2, 0), p(1, -1, 0), p(2, 0, 0), p(1, 1, 0),
		p(0, 2, 0), p(-1, 1, 0), p(-2, 0, 0), p(-1, -1, 0),
	}},
	{"Glider Seed", []core.Point{
		p(0, 0, 0), p(1, 0, 0), p(2, 0, 0), p(2, 1, 0), p(1, 2, 0), p(0, 0, 1), p(1, 0, 1),
	}},
	{"Hollow Cube", []core.Point{
		// bottom face
		p(0, 0, 0), p(1, 0, 0), p(2, 0, 0),
		p(0, 1, 0), p(2, 1, 0),
		p(0, 2, 0), p(1, 2, 0), p(2, 2, 0),
		// edges
		p(0, 0, 1), p(2, 0, 1),
		p(0, 2, 1), p(2, 2, 1),
		// top face
		p(0, 0, 2), p(1, 0, 2), p(2, 0, 2),
		p(0, 1, 2), p(2, 1, 2),
		p(0, 2, 2), p(1, 2, 2), p(2, 2, 2),
	}},
}
