// Package voxel holds occupancy grids and the codecs and morphology used to
// produce them from files on disk.
package voxel

import (
	"errors"
	"fmt"
)

// ErrNotCube is returned when occupancy data does not describe a cubic grid
var ErrNotCube = errors.New("voxel: occupancy data is not a cube")

// Grid is a cubic occupancy grid of side Size. Cells are stored x-fastest,
// then y, then z: index = x + y*Size + z*Size*Size.
type Grid struct {
	Size  int
	Cells []bool
}

// NewGrid creates an empty grid of the given side length
func NewGrid(size int) *Grid {
	if size < 0 {
		size = 0
	}
	return &Grid{
		Size:  size,
		Cells: make([]bool, size*size*size),
	}
}

// NewGridFromCells wraps an existing flat occupancy array. The array length
// must equal size³.
func NewGridFromCells(cells []bool, size int) (*Grid, error) {
	if size <= 0 {
		return nil, fmt.Errorf("%w: side length %d", ErrNotCube, size)
	}
	if len(cells) != size*size*size {
		return nil, fmt.Errorf("%w: %d cells for side %d (want %d)", ErrNotCube, len(cells), size, size*size*size)
	}
	return &Grid{Size: size, Cells: cells}, nil
}

// Index returns the flat index of cell (x, y, z)
func (g *Grid) Index(x, y, z int) int {
	return x + y*g.Size + z*g.Size*g.Size
}

// InBounds reports whether (x, y, z) lies inside the grid
func (g *Grid) InBounds(x, y, z int) bool {
	return x >= 0 && y >= 0 && z >= 0 && x < g.Size && y < g.Size && z < g.Size
}

// At reports whether cell (x, y, z) is solid. Cells outside the grid are empty.
func (g *Grid) At(x, y, z int) bool {
	if !g.InBounds(x, y, z) {
		return false
	}
	return g.Cells[g.Index(x, y, z)]
}

// Set marks cell (x, y, z) solid or empty
func (g *Grid) Set(x, y, z int, solid bool) {
	g.Cells[g.Index(x, y, z)] = solid
}

// Count returns the number of solid cells
func (g *Grid) Count() int {
	count := 0
	for _, solid := range g.Cells {
		if solid {
			count++
		}
	}
	return count
}

// Validate checks the cube invariant
func (g *Grid) Validate() error {
	if g == nil {
		return fmt.Errorf("%w: nil grid", ErrNotCube)
	}
	if g.Size <= 0 || len(g.Cells) != g.Size*g.Size*g.Size {
		return fmt.Errorf("%w: %d cells for side %d", ErrNotCube, len(g.Cells), g.Size)
	}
	return nil
}
