package renderer

import (
	"fmt"

	"github.com/df07/go-voxel-raymarcher/pkg/core"
)

// ProbeResult describes what a single screen pixel sees
type ProbeResult struct {
	Outcome   string    // "hit", "miss", "escaped" or "exhausted"
	Steps     int       // March steps taken
	Color     uint32    // Final pixel color
	Direction core.Vec3 // World-space ray direction
	HasCell   bool      // False when the ray never entered the grid
	Cell      [3]int    // Last cell visited
	Distance  float64   // Distance stored in that cell
	Normal    core.Vec3 // Normal stored in that cell
}

// Probe marches the ray through screen pixel (x, y), with y = 0 at the top,
// and reports the details a frame does not keep. It runs on the calling
// goroutine and does not need the worker pool.
func (s *Scene) Probe(camera *Camera, x, y int) (ProbeResult, error) {
	if camera == nil {
		return ProbeResult{}, fmt.Errorf("nil camera")
	}
	if x < 0 || y < 0 || x >= camera.Width() || y >= camera.Height() {
		return ProbeResult{}, fmt.Errorf("pixel (%d, %d) outside %dx%d screen", x, y, camera.Width(), camera.Height())
	}

	snapshot := camera.Snapshot()
	ray := snapshot.WorldRay(x, snapshot.Height-1-y)
	result := s.march(snapshot.Position, ray)

	probe := ProbeResult{
		Outcome:   result.outcome.String(),
		Steps:     result.steps,
		Color:     s.Shading.Background,
		Direction: ray,
	}
	if result.outcome == outcomeHit {
		probe.Color = s.shade(ray, s.Normals.Normals[result.cell])
	}
	if result.cell >= 0 {
		size := s.SDF.Size
		probe.HasCell = true
		probe.Cell = [3]int{result.cell % size, (result.cell / size) % size, result.cell / (size * size)}
		probe.Distance = s.SDF.Values[result.cell]
		probe.Normal = s.Normals.Normals[result.cell]
	}
	return probe, nil
}
