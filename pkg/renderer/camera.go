package renderer

import (
	"fmt"
	"math"

	"github.com/df07/go-voxel-raymarcher/pkg/core"
)

// CameraConfig contains the fixed parameters of a camera
type CameraConfig struct {
	Width  int     // Screen width in pixels
	Height int     // Screen height in pixels
	FOV    float64 // Horizontal field of view in degrees
}

// DefaultCameraConfig returns the 800x700, 60 degree setup
func DefaultCameraConfig() CameraConfig {
	return CameraConfig{
		Width:  800,
		Height: 700,
		FOV:    60.0,
	}
}

// Camera holds the viewer position and orientation plus a table of unit
// ray directions, one per pixel, for the unrotated view looking down -Z.
// Row 0 of the table is the bottom row of the screen.
//
// A Camera is owned by a single goroutine and must not be changed while a
// frame is rendering; RenderFrame takes a Snapshot before dispatching work.
type Camera struct {
	Position core.Vec3 // Grid-relative position, the grid spans [0,1]³
	Yaw      float64   // Rotation in the ZX plane, radians
	Pitch    float64   // Rotation in the YZ plane, radians

	width  int
	height int
	fov    float64
	rays   []core.Vec3
}

// NewCamera creates a camera at the origin and builds its ray table
func NewCamera(config CameraConfig) (*Camera, error) {
	if config.Width <= 0 || config.Height <= 0 {
		return nil, fmt.Errorf("invalid camera resolution %dx%d", config.Width, config.Height)
	}
	if config.FOV <= 0 || config.FOV >= 180 {
		return nil, fmt.Errorf("field of view must be in (0, 180) degrees, got %v", config.FOV)
	}

	c := &Camera{
		width:  config.Width,
		height: config.Height,
	}
	c.SetFOV(config.FOV)
	return c, nil
}

// Width returns the screen width in pixels
func (c *Camera) Width() int { return c.width }

// Height returns the screen height in pixels
func (c *Camera) Height() int { return c.height }

// FOV returns the horizontal field of view in degrees
func (c *Camera) FOV() float64 { return c.fov }

// SetFOV changes the field of view and rebuilds the ray table. Values
// outside (0, 180) are ignored.
func (c *Camera) SetFOV(fov float64) {
	if fov <= 0 || fov >= 180 {
		return
	}
	c.fov = fov
	c.rays = buildRayTable(c.width, c.height, fov)
}

// buildRayTable places the screen on the plane z = -halfWidth/tan(fov/2)
// and aims one normalized ray through each pixel center.
func buildRayTable(width, height int, fov float64) []core.Vec3 {
	halfWidth := 0.5 * float64(width)
	halfHeight := 0.5 * float64(height)
	rz := -halfWidth / math.Tan(0.5*fov*math.Pi/180)

	rays := make([]core.Vec3, width*height)
	ry := -halfHeight + 0.5
	for y := 0; y < height; y++ {
		rx := -halfWidth + 0.5
		for x := 0; x < width; x++ {
			rays[x+y*width] = core.NewVec3(rx, ry, rz).Normalize()
			rx += 1.0
		}
		ry += 1.0
	}
	return rays
}

// Orbit places the camera on a sphere around the grid center, looking at
// it. zoom steps move the camera outward by a factor of 1.2 every two
// steps; negative zoom is treated as zero. Pitch is clamped to ±π/2.
func (c *Camera) Orbit(yaw, pitch float64, zoom int) {
	zoom = max(zoom, 0)
	pitch = max(-core.PiOver2, min(core.PiOver2, pitch))

	c.Yaw = yaw
	c.Pitch = pitch

	distance := 0.9 * math.Pow(1.2, float64(zoom/2))
	offset := core.NewVec3(0, 0, distance).
		RotateYZ(math.Cos(pitch), math.Sin(pitch)).
		RotateZX(math.Cos(yaw), math.Sin(yaw))
	c.Position = offset.Add(core.NewVec3(0.5, 0.5, 0.5))
}

// Snapshot copies the camera state for one render pass
func (c *Camera) Snapshot() CameraSnapshot {
	return CameraSnapshot{
		Position: c.Position,
		CosYaw:   math.Cos(c.Yaw),
		SinYaw:   math.Sin(c.Yaw),
		CosPitch: math.Cos(c.Pitch),
		SinPitch: math.Sin(c.Pitch),
		Width:    c.width,
		Height:   c.height,
		rays:     c.rays,
	}
}

// CameraSnapshot is an immutable copy of the camera taken before a frame
// is dispatched. The ray table is shared; SetFOV replaces the table rather
// than editing it, so a snapshot never observes a partial update.
type CameraSnapshot struct {
	Position           core.Vec3
	CosYaw, SinYaw     float64
	CosPitch, SinPitch float64
	Width, Height      int
	rays               []core.Vec3
}

// WorldRay returns the world-space direction for pixel column x of ray
// table row y: the local ray rotated by pitch, then by yaw.
func (s CameraSnapshot) WorldRay(x, y int) core.Vec3 {
	return s.rays[x+y*s.Width].
		RotateYZ(s.CosPitch, s.SinPitch).
		RotateZX(s.CosYaw, s.SinYaw)
}
