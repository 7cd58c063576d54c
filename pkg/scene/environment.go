package scene

import (
	"github.com/df07/go-voxel-raymarcher/pkg/core"
	"github.com/df07/go-voxel-raymarcher/pkg/renderer"
)

// Sky and ground colors of the procedural environment
var (
	skyZenith  = [3]float64{0.25, 0.45, 0.85}
	skyHorizon = [3]float64{0.9, 0.93, 1.0}
	groundNear = [3]float64{0.55, 0.48, 0.36}
	groundFar  = [3]float64{0.2, 0.17, 0.12}
)

// NewSkyEnvironment creates an equirectangular sky gradient over a checkered
// ground, for scenes without an environment image
func NewSkyEnvironment(width, height int) *renderer.EnvironmentMap {
	width = max(width, 1)
	height = max(height, 2)
	pixels := make([]uint32, width*height)
	horizon := height / 2

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			var c [3]float64
			if y < horizon {
				c = lerpColor(skyZenith, skyHorizon, float64(y)/float64(horizon))
			} else {
				c = lerpColor(groundNear, groundFar, float64(height-1-y)/float64(height-horizon))
				// Checkers give reflections something to show
				if (x*16/width+(y-horizon)*8/(height-horizon))%2 == 0 {
					c = [3]float64{c[0] * 0.7, c[1] * 0.7, c[2] * 0.7}
				}
			}
			pixels[x+y*width] = core.PackRGB(int(c[0]*255), int(c[1]*255), int(c[2]*255))
		}
	}

	env, _ := renderer.NewEnvironmentMap(width, height, pixels)
	return env
}

func lerpColor(a, b [3]float64, t float64) [3]float64 {
	return [3]float64{
		a[0] + (b[0]-a[0])*t,
		a[1] + (b[1]-a[1])*t,
		a[2] + (b[2]-a[2])*t,
	}
}
