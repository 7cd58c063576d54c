package scene

import (
	"fmt"
	"math"
	"sort"

	"github.com/df07/go-voxel-raymarcher/pkg/voxel"
)

// minPresetSize leaves room for the default normal offset on both sides
const minPresetSize = 16

// presets generate solid cells from coordinates relative to the grid center
var presets = map[string]func(x, y, z, size float64) bool{
	// Ball filling most of the grid
	"sphere": func(x, y, z, size float64) bool {
		r := 0.35 * size
		return x*x+y*y+z*z <= r*r
	},
	// Ring lying in the XZ plane
	"torus": func(x, y, z, size float64) bool {
		major := 0.28 * size
		minor := 0.12 * size
		q := math.Hypot(x, z) - major
		return q*q+y*y <= minor*minor
	},
	// Hollow ball with a window cut into its +Z side
	"shell": func(x, y, z, size float64) bool {
		outer := 0.4 * size
		inner := 0.32 * size
		d2 := x*x + y*y + z*z
		return d2 <= outer*outer && d2 >= inner*inner && z < 0.2*size
	},
}

// PresetNames returns the built-in grid names in sorted order
func PresetNames() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// NewPresetGrid builds a named procedural grid of the given side
func NewPresetGrid(name string, size int) (*voxel.Grid, error) {
	solid, ok := presets[name]
	if !ok {
		return nil, fmt.Errorf("unknown preset %q (available: %v)", name, PresetNames())
	}
	if size < minPresetSize {
		return nil, fmt.Errorf("preset size must be at least %d, got %d", minPresetSize, size)
	}

	grid := voxel.NewGrid(size)
	c := 0.5 * float64(size-1)
	s := float64(size)
	for z := 0; z < size; z++ {
		for y := 0; y < size; y++ {
			for x := 0; x < size; x++ {
				if solid(float64(x)-c, float64(y)-c, float64(z)-c, s) {
					grid.Set(x, y, z, true)
				}
			}
		}
	}
	return grid, nil
}
