// Package sdf converts occupancy grids into signed distance fields and
// derives shading normals from them.
package sdf

import (
	"errors"
	"fmt"
	"math"

	"github.com/df07/go-voxel-raymarcher/pkg/voxel"
)

// ErrNoSurface is returned when a grid is entirely solid or entirely empty,
// so one side of the signed field would be infinite everywhere.
var ErrNoSurface = errors.New("sdf: grid has no solid/empty boundary")

// Axis selects a direction of the grid
type Axis int

const (
	AxisX Axis = iota
	AxisY
	AxisZ
)

// defaultPassOrder transforms Z lines first, then X, then Y
var defaultPassOrder = [3]Axis{AxisZ, AxisX, AxisY}

// DistanceField is a cubic grid of distances in cell units, indexed like
// voxel.Grid. Signed fields are negative inside solids and positive outside.
type DistanceField struct {
	Size   int
	Values []float64
}

// Index returns the flat index of cell (x, y, z)
func (f *DistanceField) Index(x, y, z int) int {
	return x + y*f.Size + z*f.Size*f.Size
}

// At returns the distance stored at cell (x, y, z)
func (f *DistanceField) At(x, y, z int) float64 {
	return f.Values[f.Index(x, y, z)]
}

// BuildDistanceField computes the signed Euclidean distance field of a grid.
// Each solid cell holds the negated distance to the nearest empty cell and
// each empty cell the distance to the nearest solid cell.
func BuildDistanceField(grid *voxel.Grid) (*DistanceField, error) {
	if err := grid.Validate(); err != nil {
		return nil, err
	}
	solid := grid.Count()
	if solid == 0 || solid == len(grid.Cells) {
		return nil, fmt.Errorf("%w: %d of %d cells solid", ErrNoSurface, solid, len(grid.Cells))
	}

	toSolid := BuildUnsignedDistance(seedField(grid.Cells, true), grid.Size)
	toEmpty := BuildUnsignedDistance(seedField(grid.Cells, false), grid.Size)

	values := toSolid.Values
	for i := range values {
		values[i] -= toEmpty.Values[i]
	}

	return &DistanceField{Size: grid.Size, Values: values}, nil
}

// seedField marks cells matching target with 0 and all others with +Inf
func seedField(cells []bool, target bool) []float64 {
	seeds := make([]float64, len(cells))
	for i, solid := range cells {
		if solid == target {
			seeds[i] = 0
		} else {
			seeds[i] = math.Inf(1)
		}
	}
	return seeds
}

// BuildUnsignedDistance turns a seed field (0 at feature cells, +Inf
// elsewhere) into the Euclidean distance to the nearest feature cell. The
// seed slice is transformed in place and owned by the returned field.
func BuildUnsignedDistance(seeds []float64, size int) *DistanceField {
	squaredDistanceTransform(seeds, size, defaultPassOrder)
	for i, v := range seeds {
		seeds[i] = math.Sqrt(v)
	}
	return &DistanceField{Size: size, Values: seeds}
}

// squaredDistanceTransform replaces every value with the minimum over all
// cells q of value(q) + |p-q|², one separable pass per axis.
func squaredDistanceTransform(field []float64, size int, order [3]Axis) {
	env := newEnvelope(size)
	plane := size * size

	for _, axis := range order {
		for a := 0; a < size; a++ {
			for b := 0; b < size; b++ {
				switch axis {
				case AxisX:
					env.transformLine(field, size, a*size+b*plane, 1)
				case AxisY:
					env.transformLine(field, size, a+b*plane, size)
				case AxisZ:
					env.transformLine(field, size, a+b*size, plane)
				}
			}
		}
	}
}

// envelope is scratch space for the lower envelope of parabolas along one
// line. vertices holds the parabola vertices on the stack and breaks[k] the
// x coordinate where vertices[k+1] takes over from vertices[k].
type envelope struct {
	vertexX []float64
	vertexY []float64
	breaks  []float64
}

func newEnvelope(n int) *envelope {
	return &envelope{
		vertexX: make([]float64, n),
		vertexY: make([]float64, n),
		breaks:  make([]float64, n),
	}
}

// transformLine computes the 1D squared distance transform of the n values
// starting at start and spaced stride apart.
func (e *envelope) transformLine(field []float64, n, start, stride int) {
	count := 0
	for i, index := 0, start; i < n; i, index = i+1, index+stride {
		py := field[index]
		if math.IsInf(py, 1) {
			continue
		}
		px := float64(i)
		if count == 0 {
			e.vertexX[0], e.vertexY[0] = px, py
			count = 1
			continue
		}

		// Pop parabolas that the new one hides before their own breakpoint
		cross := intersectParabolas(e.vertexX[count-1], e.vertexY[count-1], px, py)
		for count >= 2 && cross < e.breaks[count-2] {
			count--
			cross = intersectParabolas(e.vertexX[count-1], e.vertexY[count-1], px, py)
		}

		e.vertexX[count], e.vertexY[count] = px, py
		e.breaks[count-1] = cross
		count++
	}

	if count == 0 {
		// No seed anywhere on the line; every cell stays infinitely far
		for i, index := 0, start; i < n; i, index = i+1, index+stride {
			field[index] = math.Inf(1)
		}
		return
	}
	e.breaks[count-1] = math.Inf(1)

	k := 0
	for i, index := 0, start; i < n; i, index = i+1, index+stride {
		x := float64(i)
		for x > e.breaks[k] {
			k++
		}
		dx := x - e.vertexX[k]
		field[index] = dx*dx + e.vertexY[k]
	}
}

// intersectParabolas returns the x where y = (x-p1x)² + p1y meets
// y = (x-p2x)² + p2y. The vertices must have different x.
func intersectParabolas(p1x, p1y, p2x, p2y float64) float64 {
	return 0.5 * (p1x + p2x + (p1y-p2y)/(p1x-p2x))
}
