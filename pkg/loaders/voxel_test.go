package loaders

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/df07/go-voxel-raymarcher/pkg/renderer"
	"github.com/df07/go-voxel-raymarcher/pkg/voxel"
)

// hollowBox is a 5x5x3 box whose single interior cell is empty
func hollowBox() *voxel.Bitmap {
	b := voxel.NewBitmap(5, 5, 3)
	for z := 0; z < 3; z++ {
		for y := 0; y < 5; y++ {
			for x := 0; x < 5; x++ {
				b.Set(x, y, z, !(x == 2 && y == 2 && z == 1))
			}
		}
	}
	return b
}

func TestLoadVoxels_Bitmap(t *testing.T) {
	dir := t.TempDir()
	logger := renderer.NewDiscardLogger()

	for _, name := range []string{"box.bin", "box.bin.zst"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, name)
			if err := voxel.SaveBitmap(path, hollowBox()); err != nil {
				t.Fatalf("SaveBitmap failed: %v", err)
			}

			config := VoxelConfig{Path: path, Width: 5, Height: 5, Depth: 3}
			grid, err := LoadVoxels(config, logger)
			if err != nil {
				t.Fatalf("LoadVoxels failed: %v", err)
			}
			if grid.Size != 5 {
				t.Errorf("Expected padding to a 5³ grid, got %d", grid.Size)
			}
			if grid.Count() != 5*5*3-1 {
				t.Errorf("Expected %d solid cells, got %d", 5*5*3-1, grid.Count())
			}
			// Depth 3 is centered in 5, so stored z=1 lands on z=2
			if grid.At(2, 2, 2) {
				t.Error("Hollow cell should still be empty")
			}

			config.FillHollows = true
			config.CubeSize = 9
			grid, err = LoadVoxels(config, logger)
			if err != nil {
				t.Fatalf("LoadVoxels failed: %v", err)
			}
			if grid.Size != 9 {
				t.Errorf("Expected a 9³ grid, got %d", grid.Size)
			}
			if grid.Count() != 5*5*3 {
				t.Errorf("Expected the hollow to be filled, got %d solid cells", grid.Count())
			}
		})
	}
}

func TestLoadVoxels_Text(t *testing.T) {
	path := filepath.Join(t.TempDir(), "points.txt")
	if err := os.WriteFile(path, []byte("0, 0, 0\n1, 1, 1\nbad line\n3, 0, 0\n"), 0644); err != nil {
		t.Fatalf("Failed to write test file: %v", err)
	}

	grid, err := LoadVoxels(VoxelConfig{Path: path, Width: 2, Height: 2, Depth: 2}, renderer.NewDiscardLogger())
	if err != nil {
		t.Fatalf("LoadVoxels failed: %v", err)
	}
	if grid.Size != 2 || grid.Count() != 2 {
		t.Errorf("Expected 2 solid cells in a 2³ grid, got %d in %d³", grid.Count(), grid.Size)
	}
	if !grid.At(0, 0, 0) || !grid.At(1, 1, 1) {
		t.Error("Expected (0,0,0) and (1,1,1) to be solid")
	}
}

func TestLoadVoxels_Errors(t *testing.T) {
	logger := renderer.NewDiscardLogger()
	if _, err := LoadVoxels(VoxelConfig{Path: "x.bin", Width: 0, Height: 1, Depth: 1}, logger); err == nil {
		t.Error("Expected error for zero width")
	}
	missing := filepath.Join(t.TempDir(), "missing.bin")
	if _, err := LoadVoxels(VoxelConfig{Path: missing, Width: 2, Height: 2, Depth: 2}, logger); err == nil {
		t.Error("Expected error for missing file")
	}
}
