package main

import (
	"flag"
	"fmt"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/df07/go-voxel-raymarcher/pkg/core"
	"github.com/df07/go-voxel-raymarcher/pkg/loaders"
	"github.com/df07/go-voxel-raymarcher/pkg/renderer"
	"github.com/df07/go-voxel-raymarcher/pkg/scene"
)

// options holds the parsed command line
type options struct {
	Scene        string
	VoxelFile    string
	VoxelSize    string
	FillHollows  bool
	CubeSize     int
	PresetSize   int
	Environment  string
	EnvMaxWidth  int
	Material     string
	NormalOffset int
	CacheDir     string
	Width        int
	Height       int
	FOV          float64
	Workers      int
	Frames       int
	Pitch        float64
	Zoom         int
	OutputDir    string
}

func main() {
	opts := options{}
	flag.StringVar(&opts.Scene, "scene", "torus", "Built-in scene ("+strings.Join(scene.PresetNames(), ", ")+") or a voxel scene ID such as voxel:skull")
	flag.StringVar(&opts.VoxelFile, "voxels", "", "Voxel file to render (.bin, .bin.zst or .txt); overrides -scene")
	flag.StringVar(&opts.VoxelSize, "voxel-size", "", "Stored voxel dimensions as WxHxD or a single cube side")
	flag.BoolVar(&opts.FillHollows, "fill", false, "Fill cavities not connected to the outside of the voxel volume")
	flag.IntVar(&opts.CubeSize, "cube", 0, "Pad voxels to this cube side (0 = longest side)")
	flag.IntVar(&opts.PresetSize, "preset-size", 96, "Grid side of built-in scenes")
	flag.StringVar(&opts.Environment, "env", "", "Equirectangular environment image (default: procedural sky)")
	flag.IntVar(&opts.EnvMaxWidth, "env-max-width", 2048, "Downscale wider environment images")
	flag.StringVar(&opts.Material, "material", "", "Material preset ("+strings.Join(scene.MaterialNames(), ", ")+")")
	flag.IntVar(&opts.NormalOffset, "normal-offset", 7, "Normal finite-difference radius in cells")
	flag.StringVar(&opts.CacheDir, "cache", "", "Directory for the distance field cache (empty = no cache)")
	flag.IntVar(&opts.Width, "width", 800, "Image width in pixels")
	flag.IntVar(&opts.Height, "height", 700, "Image height in pixels")
	flag.Float64Var(&opts.FOV, "fov", 60, "Horizontal field of view in degrees")
	flag.IntVar(&opts.Workers, "workers", 0, "Number of render workers (0 = number of CPUs)")
	flag.IntVar(&opts.Frames, "frames", 1, "Number of frames in one orbit around the scene")
	flag.Float64Var(&opts.Pitch, "pitch", -0.35, "Camera pitch in radians")
	flag.IntVar(&opts.Zoom, "zoom", 0, "Zoom step; every two steps move the camera out by 1.2x")
	flag.StringVar(&opts.OutputDir, "output", "output", "Output directory")
	help := flag.Bool("help", false, "Show help information")
	flag.Parse()

	// Show help if requested
	if *help {
		fmt.Println("Voxel Ray Marcher")
		fmt.Println("Usage: raymarcher [options]")
		fmt.Println()
		fmt.Println("Options:")
		flag.PrintDefaults()
		fmt.Println()
		fmt.Println("Voxel scenes are discovered in ./scenes as <name>_<size>x.bin[.zst]")
		fmt.Println("Output will be saved to output/<scene>/frame_<timestamp>_<n>.png")
		return
	}

	if err := run(opts, renderer.NewDefaultLogger()); err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
}

// run loads the scene and renders the requested orbit frames
func run(opts options, logger core.Logger) error {
	fmt.Println("Starting Voxel Ray Marcher...")

	config, err := createSceneConfig(opts, "scenes")
	if err != nil {
		return err
	}

	loaded, err := scene.Load(config, logger)
	if err != nil {
		return err
	}

	camera, err := renderer.NewCamera(renderer.CameraConfig{Width: opts.Width, Height: opts.Height, FOV: opts.FOV})
	if err != nil {
		return err
	}

	// Create output directory for this scene
	outputDir := filepath.Join(opts.OutputDir, loaded.Name)
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	marcher := renderer.NewRaymarcher(logger)
	if err := marcher.Start(opts.Workers); err != nil {
		return err
	}
	defer marcher.Stop()

	frames := max(opts.Frames, 1)
	out := renderer.NewFrameBuffer(opts.Width, opts.Height)
	timestamp := time.Now().Format("20060102_150405")
	totalStart := time.Now()

	for i := 0; i < frames; i++ {
		camera.Orbit(orbitYaw(i, frames), opts.Pitch, opts.Zoom)

		startTime := time.Now()
		stats, err := marcher.RenderFrame(camera, loaded.Render, out)
		if err != nil {
			return err
		}
		renderTime := time.Since(startTime)

		fmt.Printf("Frame %d/%d rendered in %v: %d hits, %d misses, %d escaped, %d exhausted, %.1f steps/pixel (max %d)\n",
			i+1, frames, renderTime, stats.Hits, stats.Misses, stats.Escaped, stats.Exhausted, stats.AverageSteps, stats.MaxSteps)

		filename := filepath.Join(outputDir, fmt.Sprintf("frame_%s_%03d.png", timestamp, i))
		if err := savePNG(filename, out); err != nil {
			return err
		}
		fmt.Printf("Frame saved as %s\n", filename)
	}

	elapsed := time.Since(totalStart)
	fmt.Printf("Rendered %d frames in %v (%.2f FPS including PNG encoding)\n",
		frames, elapsed, float64(frames)/elapsed.Seconds())
	return nil
}

// createSceneConfig turns the command line into a scene configuration.
// Voxel scene IDs are resolved against the files in scenesDir.
func createSceneConfig(opts options, scenesDir string) (scene.Config, error) {
	config := scene.DefaultConfig()
	config.PresetSize = opts.PresetSize
	config.Environment = opts.Environment
	config.EnvironmentMaxWidth = opts.EnvMaxWidth
	config.NormalOffset = opts.NormalOffset
	config.CacheDir = opts.CacheDir

	switch {
	case opts.VoxelFile != "":
		w, h, d, err := parseDimensions(opts.VoxelSize)
		if err != nil {
			return scene.Config{}, err
		}
		config.Voxels = loaders.VoxelConfig{Path: opts.VoxelFile, Width: w, Height: h, Depth: d}
	case opts.Scene == "":
		return scene.Config{}, fmt.Errorf("no scene selected")
	default:
		info, err := scene.FindScene(opts.Scene, scenesDir)
		if err != nil {
			return scene.Config{}, err
		}
		config = scene.ConfigFor(info, config)
	}

	config.Voxels.FillHollows = opts.FillHollows
	config.Voxels.CubeSize = opts.CubeSize
	if opts.Material != "" {
		config.Material = opts.Material
	}
	return config, nil
}

// parseDimensions accepts "WxHxD" or a single cube side
func parseDimensions(s string) (int, int, int, error) {
	if s == "" {
		return 0, 0, 0, fmt.Errorf("-voxel-size is required with -voxels")
	}
	var w, h, d int
	if n, err := fmt.Sscanf(s, "%dx%dx%d", &w, &h, &d); err == nil && n == 3 {
		if w > 0 && h > 0 && d > 0 {
			return w, h, d, nil
		}
	} else if n, err := fmt.Sscanf(s, "%d", &w); err == nil && n == 1 && !strings.Contains(s, "x") && w > 0 {
		return w, w, w, nil
	}
	return 0, 0, 0, fmt.Errorf("invalid voxel size %q, expected WxHxD or a single side", s)
}

// orbitYaw spaces frames evenly around a full turn
func orbitYaw(frame, frames int) float64 {
	return 2 * math.Pi * float64(frame) / float64(frames)
}

// savePNG encodes a frame buffer to a PNG file
func savePNG(filename string, fb *renderer.FrameBuffer) error {
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	if err := png.Encode(file, fb.ToRGBA()); err != nil {
		return fmt.Errorf("failed to save PNG: %w", err)
	}
	return file.Close()
}
