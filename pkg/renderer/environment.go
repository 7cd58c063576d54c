package renderer

import (
	"errors"
	"fmt"
	"math"

	"github.com/df07/go-voxel-raymarcher/pkg/core"
)

// ErrEmptyEnvironment is returned for an environment map without pixels
var ErrEmptyEnvironment = errors.New("environment map has no pixels")

// EnvironmentMap is an equirectangular panorama of packed 0xRRGGBB pixels.
// Columns span yaw over [0, 2π) and rows span pitch from straight up (row 0)
// to straight down.
type EnvironmentMap struct {
	Width  int
	Height int
	Pixels []uint32

	xScale float64 // Pixels per radian of yaw
	yScale float64 // Pixels per radian of pitch
}

// NewEnvironmentMap wraps a row-major pixel array
func NewEnvironmentMap(width, height int, pixels []uint32) (*EnvironmentMap, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrEmptyEnvironment, width, height)
	}
	if len(pixels) != width*height {
		return nil, fmt.Errorf("environment map has %d pixels, expected %dx%d", len(pixels), width, height)
	}
	return &EnvironmentMap{
		Width:  width,
		Height: height,
		Pixels: pixels,
		xScale: float64(width) / core.TwoPi,
		yScale: float64(height) / math.Pi,
	}, nil
}

// NewSolidEnvironment creates a 1x1 map that returns the same color in
// every direction
func NewSolidEnvironment(color uint32) *EnvironmentMap {
	env, _ := NewEnvironmentMap(1, 1, []uint32{color})
	return env
}

// Sample returns the environment color seen along a unit direction
func (e *EnvironmentMap) Sample(dir core.Vec3) uint32 {
	yaw := core.FastAtan2(dir.X, dir.Z)
	pitch := core.FastAtan2(math.Abs(dir.Y), math.Sqrt(math.Max(0, 1-dir.Y*dir.Y)))
	if dir.Y < 0 {
		pitch = -pitch
	}
	yaw = core.TwoPi - yaw
	pitch = core.PiOver2 - pitch

	px := wrap(int(yaw*e.xScale), e.Width)
	py := wrap(int(pitch*e.yScale), e.Height)
	return e.Pixels[px+py*e.Width]
}

func wrap(v, n int) int {
	v %= n
	if v < 0 {
		v += n
	}
	return v
}
