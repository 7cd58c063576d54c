package loaders

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/df07/go-voxel-raymarcher/pkg/core"
	"github.com/df07/go-voxel-raymarcher/pkg/voxel"
)

// VoxelConfig describes an occupancy file and how to turn it into a grid
type VoxelConfig struct {
	Path        string // .txt coordinate list, otherwise run-length bitmap (.zst compressed)
	Width       int    // Stored X extent
	Height      int    // Stored Y extent
	Depth       int    // Stored Z extent
	FillHollows bool   // Fill cavities not connected to the outside
	CubeSize    int    // Pad to this cube side (0 = longest stored side)
}

// LoadVoxels reads an occupancy file, optionally fills its hollows, and pads
// it to a cubic grid
func LoadVoxels(config VoxelConfig, logger core.Logger) (*voxel.Grid, error) {
	if config.Width <= 0 || config.Height <= 0 || config.Depth <= 0 {
		return nil, fmt.Errorf("invalid voxel dimensions %dx%dx%d", config.Width, config.Height, config.Depth)
	}

	start := time.Now()
	var bitmap *voxel.Bitmap
	var err error
	if strings.EqualFold(filepath.Ext(config.Path), ".txt") {
		bitmap, err = voxel.LoadCoordinateText(config.Path, config.Width, config.Height, config.Depth)
	} else {
		bitmap, err = voxel.LoadBitmap(config.Path, config.Width, config.Height, config.Depth)
	}
	if err != nil {
		return nil, err
	}
	logger.Printf("Loaded %s: %dx%dx%d, %d solid voxels in %v\n",
		filepath.Base(config.Path), config.Width, config.Height, config.Depth, bitmap.Count(), time.Since(start))

	if config.FillHollows {
		start = time.Now()
		filled := voxel.FillHollows(bitmap)
		logger.Printf("Filled %d hollow voxels in %v\n", filled, time.Since(start))
	}

	padded := voxel.PadToCube(bitmap, config.CubeSize)
	grid, err := padded.ToGrid()
	if err != nil {
		return nil, fmt.Errorf("failed to build grid: %w", err)
	}
	return grid, nil
}
