// Package render flattens a 3D lattice into 2D masks for the viewers.
package render

import "life3d/internal/core"

// Mode selects how the lattice is flattened.
type Mode int

const (
	// ModeSlice shows the cells of a single z layer.
	ModeSlice Mode = iota
	// ModeProjection shows how many cells are alive in each z column.
	ModeProjection
)

func (m Mode) String() string {
	if m == ModeProjection {
		return "projection"
	}
	return "slice"
}

// SliceMask returns a size*size row-major mask with 1 where the cell at
// (x, y, z) is alive. z is wrapped into the domain.
func SliceMask(cells []core.Point, size, z int) []uint8 {
	if size <= 0 {
		return nil
	}
	z = (z%size + size) % size
	mask := make([]uint8, size*size)
	for _, p := range cells {
		if p.Z != z || !inDomain(p, size) {
			continue
		}
		mask[p.Y*size+p.X] = 1
	}
	return mask
}

// ProjectionMask returns a size*size row-major mask holding the number of
// live cells in each z column, saturating at 255.
func ProjectionMask(cells []core.Point, size int) []uint8 {
	if size <= 0 {
		return nil
	}
	mask := make([]uint8, size*size)
	for _, p := range cells {
		if !inDomain(p, size) {
			continue
		}
		i := p.Y*size + p.X
		if mask[i] < 255 {
			mask[i]++
		}
	}
	return mask
}

// PickCell maps a pixel position on a view drawn at scale to lattice x, y.
func PickCell(px, py, scale, size int) (x, y int, ok bool) {
	if scale <= 0 || px < 0 || py < 0 {
		return 0, 0, false
	}
	x, y = px/scale, py/scale
	if x >= size || y >= size {
		return 0, 0, false
	}
	return x, y, true
}

func inDomain(p core.Point, size int) bool {
	return p.X >= 0 && p.X < size && p.Y >= 0 && p.Y < size && p.Z >= 0 && p.Z < size
}
