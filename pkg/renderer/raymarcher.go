package renderer

import (
	"errors"
	"fmt"
	"math"

	"github.com/df07/go-voxel-raymarcher/pkg/core"
	"github.com/df07/go-voxel-raymarcher/pkg/sdf"
)

// ShadingConfig contains the surface shading parameters
type ShadingConfig struct {
	DiffuseColor         uint32    // Base surface color, 0xRRGGBB
	DiffuseSpecularRatio float64   // Share of the environment reflection in [0, 1]
	LightDir             core.Vec3 // Direction the light travels
	Ambient              float64   // Lower bound of the diffuse term
	Background           uint32    // Color for rays that do not reach the surface
	MaxSteps             int       // March step cap per ray (0 = 4 * grid size)
}

// DefaultShadingConfig returns a white surface lit from the upper left
func DefaultShadingConfig() ShadingConfig {
	return ShadingConfig{
		DiffuseColor:         0xffffff,
		DiffuseSpecularRatio: 0.3,
		LightDir:             core.NewVec3(1, -1, -1).Normalize(),
		Ambient:              0.3,
		Background:           0x000000,
	}
}

// Scene is everything a frame needs besides the camera. All fields are
// read-only while frames are rendering.
type Scene struct {
	SDF         *sdf.DistanceField
	Normals     *sdf.NormalField
	Environment *EnvironmentMap
	Shading     ShadingConfig
}

// NewScene checks that the fields agree with each other and normalizes the
// light direction
func NewScene(field *sdf.DistanceField, normals *sdf.NormalField, env *EnvironmentMap, shading ShadingConfig) (*Scene, error) {
	if field == nil || field.Size <= 0 || len(field.Values) != field.Size*field.Size*field.Size {
		return nil, fmt.Errorf("invalid distance field")
	}
	if normals == nil || normals.Size != field.Size || len(normals.Normals) != len(field.Values) {
		return nil, fmt.Errorf("normal field does not match the %d³ distance field", field.Size)
	}
	if env == nil || len(env.Pixels) == 0 {
		return nil, ErrEmptyEnvironment
	}
	if shading.DiffuseSpecularRatio < 0 || shading.DiffuseSpecularRatio > 1 {
		return nil, fmt.Errorf("diffuse/specular ratio must be in [0, 1], got %v", shading.DiffuseSpecularRatio)
	}
	if shading.LightDir.IsZero() {
		return nil, fmt.Errorf("light direction must be non-zero")
	}
	if shading.MaxSteps < 0 {
		return nil, fmt.Errorf("max steps must not be negative, got %d", shading.MaxSteps)
	}
	shading.LightDir = shading.LightDir.Normalize()

	return &Scene{
		SDF:         field,
		Normals:     normals,
		Environment: env,
		Shading:     shading,
	}, nil
}

func (s *Scene) maxSteps() int {
	if s.Shading.MaxSteps > 0 {
		return s.Shading.MaxSteps
	}
	return 4 * s.SDF.Size
}

// Raymarcher sphere-traces frames on a long-lived worker pool
type Raymarcher struct {
	pool   *WorkerPool
	logger core.Logger
}

// NewRaymarcher creates a raymarcher; call Start before rendering
func NewRaymarcher(logger core.Logger) *Raymarcher {
	if logger == nil {
		logger = NewDefaultLogger()
	}
	return &Raymarcher{
		pool:   NewWorkerPool(),
		logger: logger,
	}
}

// Start launches the worker pool (runtime.NumCPU() workers if numWorkers <= 0)
func (r *Raymarcher) Start(numWorkers int) error {
	if err := r.pool.Start(numWorkers); err != nil {
		return fmt.Errorf("failed to start render workers: %w", err)
	}
	r.logger.Printf("Started %d render workers\n", r.pool.NumWorkers())
	return nil
}

// Stop shuts the worker pool down after any frame in progress
func (r *Raymarcher) Stop() error {
	if err := r.pool.Stop(); err != nil {
		return fmt.Errorf("failed to stop render workers: %w", err)
	}
	r.logger.Printf("Stopped render workers\n")
	return nil
}

// NumWorkers returns the size of the worker pool
func (r *Raymarcher) NumWorkers() int {
	return r.pool.NumWorkers()
}

// WorkerStates returns the lifecycle state of every worker
func (r *Raymarcher) WorkerStates() []WorkerState {
	return r.pool.States()
}

// RenderFrame renders one frame into out and returns once every pixel has
// been written. The camera is snapshotted before any work starts; the caller
// must not change it until RenderFrame returns.
func (r *Raymarcher) RenderFrame(camera *Camera, scene *Scene, out *FrameBuffer) (RenderStats, error) {
	if camera == nil {
		return RenderStats{}, errors.New("nil camera")
	}
	if scene == nil {
		return RenderStats{}, errors.New("nil scene")
	}
	if err := out.validate(camera.Width(), camera.Height()); err != nil {
		return RenderStats{}, err
	}

	snapshot := camera.Snapshot()
	stats, err := r.pool.Dispatch(func(row, stride int) RenderStats {
		return renderStripe(snapshot, scene, out, row, stride)
	})
	if err != nil {
		return RenderStats{}, fmt.Errorf("frame failed: %w", err)
	}
	return stats, nil
}

// renderStripe marches every pixel of ray table rows row, row+stride, ...
// Ray table rows count up from the bottom of the screen, so ray row y lands
// on frame buffer row height-1-y. Stripes never share a row, which is what
// makes the unsynchronized writes to out safe.
func renderStripe(camera CameraSnapshot, scene *Scene, out *FrameBuffer, row, stride int) RenderStats {
	var stats RenderStats
	for y := row; y < camera.Height; y += stride {
		pixelRow := (camera.Height - 1 - y) * camera.Width
		for x := 0; x < camera.Width; x++ {
			ray := camera.WorldRay(x, y)
			color, outcome, steps := scene.marchRay(camera.Position, ray)
			out.Pixels[pixelRow+x] = color
			stats.record(outcome, steps)
		}
	}
	return stats
}

// marchRay sphere-traces one ray through the distance field and returns the
// shaded color, how the ray finished, and the number of steps taken.
func (s *Scene) marchRay(origin, ray core.Vec3) (uint32, pixelOutcome, int) {
	result := s.march(origin, ray)
	if result.outcome != outcomeHit {
		return s.Shading.Background, result.outcome, result.steps
	}
	return s.shade(ray, s.Normals.Normals[result.cell]), outcomeHit, result.steps
}

// marchResult is where a single ray ended up
type marchResult struct {
	outcome pixelOutcome
	steps   int
	cell    int // Flat index of the last cell visited, -1 if none
}

// march steps along the ray by the distance stored in the current cell until
// it reaches a cell closer than one unit to the surface, leaves the grid, or
// runs out of steps
func (s *Scene) march(origin, ray core.Vec3) marchResult {
	entry, ok := core.IntersectUnitCube(origin, ray).Entry()
	if !ok {
		return marchResult{outcome: outcomeMiss, cell: -1}
	}

	size := s.SDF.Size
	values := s.SDF.Values
	scale := float64(size - 1)
	pos := entry.Point.Multiply(scale).Add(core.NewVec3(0.5, 0.5, 0.5))

	maxSteps := s.maxSteps()
	last := -1
	for steps := 0; steps < maxSteps; steps++ {
		x := int(math.Floor(pos.X))
		y := int(math.Floor(pos.Y))
		z := int(math.Floor(pos.Z))
		if x < 0 || y < 0 || z < 0 || x >= size || y >= size || z >= size {
			return marchResult{outcome: outcomeEscaped, steps: steps, cell: last}
		}

		i := x + y*size + z*size*size
		last = i
		distance := values[i]
		if math.IsNaN(distance) || math.IsInf(distance, 0) {
			// A malformed field cannot be traced any further
			return marchResult{outcome: outcomeExhausted, steps: steps + 1, cell: i}
		}
		if distance < 1.0 {
			return marchResult{outcome: outcomeHit, steps: steps + 1, cell: i}
		}

		pos = pos.Add(ray.Multiply(distance))
	}

	return marchResult{outcome: outcomeExhausted, steps: maxSteps, cell: last}
}

// shade blends a clamped Lambert term on the base color with the
// environment seen along the mirror direction
func (s *Scene) shade(ray, normal core.Vec3) uint32 {
	diffuse := math.Max(-s.Shading.LightDir.Dot(normal), s.Shading.Ambient)
	env := s.Environment.Sample(ray.Reflect(normal))

	specular := s.Shading.DiffuseSpecularRatio
	blend := func(base, reflected int) int {
		lit := int(diffuse * float64(base))
		return int(float64(lit)*(1-specular) + float64(reflected)*specular)
	}

	dr, dg, db := core.UnpackRGB(s.Shading.DiffuseColor)
	er, eg, eb := core.UnpackRGB(env)
	return core.PackRGB(blend(dr, er), blend(dg, eg), blend(db, eb))
}
