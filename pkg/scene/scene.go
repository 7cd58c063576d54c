// Package scene assembles renderable scenes from voxel files or built-in
// procedural grids.
package scene

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/df07/go-voxel-raymarcher/pkg/core"
	"github.com/df07/go-voxel-raymarcher/pkg/loaders"
	"github.com/df07/go-voxel-raymarcher/pkg/renderer"
	"github.com/df07/go-voxel-raymarcher/pkg/sdf"
	"github.com/df07/go-voxel-raymarcher/pkg/voxel"
)

// Config selects the grid, environment and material of a scene
type Config struct {
	Preset              string              // Built-in grid used when Voxels.Path is empty
	PresetSize          int                 // Side length of built-in grids
	Voxels              loaders.VoxelConfig // Occupancy file to load
	Environment         string              // Environment image; empty uses the procedural sky
	EnvironmentMaxWidth int                 // Downscale wider environment images (0 = never)
	Material            string              // Shading preset name
	NormalOffset        int                 // Normal finite-difference radius in cells
	CacheDir            string              // Field cache directory; empty disables caching
}

// DefaultConfig returns a torus preset with the skull material
func DefaultConfig() Config {
	return Config{
		Preset:              "torus",
		PresetSize:          96,
		EnvironmentMaxWidth: 2048,
		Material:            "skull",
		NormalOffset:        sdf.DefaultNormalOffset,
	}
}

// Scene is a loaded, render-ready scene
type Scene struct {
	Name   string
	Grid   *voxel.Grid
	Render *renderer.Scene
}

// Load builds a scene: occupancy grid, distance and normal fields,
// environment map and shading. Every failure happens here, before any frame
// is rendered.
func Load(config Config, logger core.Logger) (*Scene, error) {
	if logger == nil {
		logger = renderer.NewDefaultLogger()
	}
	if config.NormalOffset <= 0 {
		config.NormalOffset = sdf.DefaultNormalOffset
	}

	name, grid, err := loadGrid(config, logger)
	if err != nil {
		return nil, err
	}

	var cache *sdf.Cache
	if config.CacheDir != "" {
		cache = sdf.NewCache(config.CacheDir, logger)
	}
	start := time.Now()
	field, normals, err := sdf.BuildFields(grid, config.NormalOffset, cache)
	if err != nil {
		return nil, fmt.Errorf("failed to build fields for %s: %w", name, err)
	}
	logger.Printf("Distance and normal fields ready for %d³ grid in %v\n", grid.Size, time.Since(start))

	env, err := loadEnvironment(config, logger)
	if err != nil {
		return nil, err
	}

	shading, err := ShadingFor(config.Material)
	if err != nil {
		return nil, err
	}

	render, err := renderer.NewScene(field, normals, env, shading)
	if err != nil {
		return nil, fmt.Errorf("failed to assemble scene %s: %w", name, err)
	}

	return &Scene{Name: name, Grid: grid, Render: render}, nil
}

// loadGrid returns the scene name and its occupancy grid
func loadGrid(config Config, logger core.Logger) (string, *voxel.Grid, error) {
	if config.Voxels.Path != "" {
		grid, err := loaders.LoadVoxels(config.Voxels, logger)
		if err != nil {
			return "", nil, fmt.Errorf("failed to load voxels: %w", err)
		}
		return voxelSceneName(config.Voxels.Path), grid, nil
	}

	start := time.Now()
	grid, err := NewPresetGrid(config.Preset, config.PresetSize)
	if err != nil {
		return "", nil, err
	}
	logger.Printf("Built %s preset: %d³ grid, %d solid voxels in %v\n",
		config.Preset, grid.Size, grid.Count(), time.Since(start))
	return config.Preset, grid, nil
}

func loadEnvironment(config Config, logger core.Logger) (*renderer.EnvironmentMap, error) {
	if config.Environment == "" {
		return NewSkyEnvironment(512, 256), nil
	}

	start := time.Now()
	img, err := loaders.LoadEnvironment(config.Environment, config.EnvironmentMaxWidth)
	if err != nil {
		return nil, fmt.Errorf("failed to load environment: %w", err)
	}
	env, err := renderer.NewEnvironmentMap(img.Width, img.Height, img.Pixels)
	if err != nil {
		return nil, err
	}
	logger.Printf("Loaded environment %s: %dx%d in %v\n",
		filepath.Base(config.Environment), img.Width, img.Height, time.Since(start))
	return env, nil
}

// voxelSceneName strips directories and every extension from a voxel file
func voxelSceneName(path string) string {
	name := filepath.Base(path)
	if i := strings.IndexByte(name, '.'); i > 0 {
		name = name[:i]
	}
	return name
}
