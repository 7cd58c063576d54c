package scene

import (
	"fmt"
	"sort"

	"github.com/df07/go-voxel-raymarcher/pkg/renderer"
)

// Material is a named surface color and environment reflection share
type Material struct {
	DiffuseColor         uint32
	DiffuseSpecularRatio float64
}

var materials = map[string]Material{
	"skull":  {DiffuseColor: 0xffffff, DiffuseSpecularRatio: 0.3},
	"horse":  {DiffuseColor: 0xff3c0b, DiffuseSpecularRatio: 0.8},
	"teacup": {DiffuseColor: 0xff4000, DiffuseSpecularRatio: 0.2},
	"matte":  {DiffuseColor: 0xc0c0c0, DiffuseSpecularRatio: 0},
	"chrome": {DiffuseColor: 0xffffff, DiffuseSpecularRatio: 1},
}

// MaterialNames returns the material preset names in sorted order
func MaterialNames() []string {
	names := make([]string, 0, len(materials))
	for name := range materials {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ShadingFor returns the default shading with the named material applied.
// An empty name selects the defaults unchanged.
func ShadingFor(name string) (renderer.ShadingConfig, error) {
	shading := renderer.DefaultShadingConfig()
	if name == "" {
		return shading, nil
	}
	m, ok := materials[name]
	if !ok {
		return renderer.ShadingConfig{}, fmt.Errorf("unknown material %q (available: %v)", name, MaterialNames())
	}
	shading.DiffuseColor = m.DiffuseColor
	shading.DiffuseSpecularRatio = m.DiffuseSpecularRatio
	return shading, nil
}
