package core

// Point is an integer cell coordinate on the lattice.
type Point struct {
	X, Y, Z int
}

// Add returns the component-wise sum of p and q.
func (p Point) Add(q Point) Point {
	return Point{X: p.X + q.X, Y: p.Y + q.Y, Z: p.Z + q.Z}
}

// NeighborOffsets holds the 26 offsets of the 3D Moore neighborhood.
var NeighborOffsets = mooreOffsets()

func mooreOffsets() []Point {
	offsets := make([]Point, 0, 26)
	for dx := -1; dx <= 1; dx++ {
		for dy := -1; dy <= 1; dy++ {
			for dz := -1; dz <= 1; dz++ {
				if dx == 0 && dy == 0 && dz == 0 {
					continue
				}
				offsets = append(offsets, Point{X: dx, Y: dy, Z: dz})
			}
		}
	}
	return offsets
}

// Lattice stores the live cells of a cubic grid with toroidal wrapping.
// Stored points are always canonical, i.e. every component lies in [0, Size).
type Lattice struct {
	size  int
	cells map[Point]struct{}
}

// NewLattice allocates an empty lattice with the given edge length.
func NewLattice(size int) *Lattice {
	if size <= 0 {
		size = 1
	}
	return &Lattice{size: size, cells: make(map[Point]struct{})}
}

// Size returns the edge length of the domain.
func (l *Lattice) Size() int { return l.size }

// Wrap maps c into [0, Size) using floored modulo.
func (l *Lattice) Wrap(c int) int {
	return (c%l.size + l.size) % l.size
}

// WrapPoint canonicalizes every component of p.
func (l *Lattice) WrapPoint(p Point) Point {
	return Point{X: l.Wrap(p.X), Y: l.Wrap(p.Y), Z: l.Wrap(p.Z)}
}

// IsAlive reports whether the wrapped cell is alive.
func (l *Lattice) IsAlive(x, y, z int) bool {
	_, ok := l.cells[l.WrapPoint(Point{X: x, Y: y, Z: z})]
	return ok
}

// Alive is the Point form of IsAlive.
func (l *Lattice) Alive(p Point) bool {
	return l.IsAlive(p.X, p.Y, p.Z)
}

// Set marks the wrapped cell alive or dead.
func (l *Lattice) Set(x, y, z int, alive bool) {
	p := l.WrapPoint(Point{X: x, Y: y, Z: z})
	if alive {
		l.cells[p] = struct{}{}
		return
	}
	delete(l.cells, p)
}

// Toggle flips the wrapped cell and returns its new state.
func (l *Lattice) Toggle(x, y, z int) bool {
	alive := !l.IsAlive(x, y, z)
	l.Set(x, y, z, alive)
	return alive
}

// NeighborCount counts live cells in the Moore neighborhood of the wrapped
// cell. The result is in [0, 26].
func (l *Lattice) NeighborCount(x, y, z int) int {
	count := 0
	for _, d := range NeighborOffsets {
		if l.IsAlive(x+d.X, y+d.Y, z+d.Z) {
			count++
		}
	}
	return count
}

// Each calls fn for every live cell. Iteration order is unspecified.
func (l *Lattice) Each(fn func(Point)) {
	for p := range l.cells {
		fn(p)
	}
}

// LiveCells returns a fresh slice of all live cells in unspecified order.
func (l *Lattice) LiveCells() []Point {
	out := make([]Point, 0, len(l.cells))
	for p := range l.cells {
		out = append(out, p)
	}
	return out
}

// Population returns the number of live cells.
func (l *Lattice) Population() int { return len(l.cells) }

// Clear removes every live cell.
func (l *Lattice) Clear() {
	clear(l.cells)
}

// Clone returns a deep copy sharing no state with l.
func (l *Lattice) Clone() *Lattice {
	c := &Lattice{size: l.size, cells: make(map[Point]struct{}, len(l.cells))}
	for p := range l.cells {
		c.cells[p] = struct{}{}
	}
	return c
}

// RandomFill clears the lattice and then sets every cell of the domain alive
// with probability density. A nil rng draws from an unseeded source.
func (l *Lattice) RandomFill(density float64, rng *RNG) {
	if rng == nil {
		rng = NewRandomRNG()
	}
	l.Clear()
	for x := 0; x < l.size; x++ {
		for y := 0; y < l.size; y++ {
			for z := 0; z < l.size; z++ {
				if rng.Chance(density) {
					l.cells[Point{X: x, Y: y, Z: z}] = struct{}{}
				}
			}
		}
	}
}

// LoadPattern clears the lattice and sets alive every offset translated to the
// domain center. Offsets outside the domain wrap.
func (l *Lattice) LoadPattern(offsets []Point) {
	l.Clear()
	c := l.size / 2
	for _, p := range offsets {
		l.Set(p.X+c, p.Y+c, p.Z+c, true)
	}
}

// Center returns the cell that pattern offset (0,0,0) maps to.
func (l *Lattice) Center() Point {
	c := l.size / 2
	return Point{X: c, Y: c, Z: c}
}
