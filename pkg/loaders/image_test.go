package loaders

import (
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/image/bmp"

	"github.com/df07/go-voxel-raymarcher/pkg/core"
)

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func writePNG(t *testing.T, filename string, img image.Image) {
	t.Helper()
	f, err := os.Create(filename)
	if err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatalf("Failed to encode PNG: %v", err)
	}
}

// TestLoadImage creates a test PNG and verifies loading
func TestLoadImage(t *testing.T) {
	testFile := filepath.Join(t.TempDir(), "test.png")

	// Create a simple 2x2 test image
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.Set(0, 0, color.RGBA{R: 255, G: 255, B: 255, A: 255})
	img.Set(1, 0, color.RGBA{R: 255, G: 0, B: 0, A: 255})
	img.Set(0, 1, color.RGBA{R: 0, G: 255, B: 0, A: 255})
	img.Set(1, 1, color.RGBA{R: 0x12, G: 0x34, B: 0x56, A: 255})
	writePNG(t, testFile, img)

	imageData, err := LoadImage(testFile)
	if err != nil {
		t.Fatalf("LoadImage failed: %v", err)
	}

	if imageData.Width != 2 || imageData.Height != 2 {
		t.Errorf("Expected 2x2 image, got %dx%d", imageData.Width, imageData.Height)
	}

	// Row-major order
	expected := []uint32{0xffffff, 0xff0000, 0x00ff00, 0x123456}
	for i, want := range expected {
		if imageData.Pixels[i] != want {
			t.Errorf("Pixel %d: expected %06x, got %06x", i, want, imageData.Pixels[i])
		}
	}
}

// TestLoadImage_BMP exercises one of the extra decoders
func TestLoadImage_BMP(t *testing.T) {
	testFile := filepath.Join(t.TempDir(), "test.bmp")

	img := image.NewRGBA(image.Rect(0, 0, 3, 1))
	img.Set(0, 0, color.RGBA{R: 10, G: 20, B: 30, A: 255})
	img.Set(1, 0, color.RGBA{R: 40, G: 50, B: 60, A: 255})
	img.Set(2, 0, color.RGBA{R: 70, G: 80, B: 90, A: 255})

	f, err := os.Create(testFile)
	if err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}
	if err := bmp.Encode(f, img); err != nil {
		f.Close()
		t.Fatalf("Failed to encode BMP: %v", err)
	}
	f.Close()

	imageData, err := LoadImage(testFile)
	if err != nil {
		t.Fatalf("LoadImage failed: %v", err)
	}
	expected := []uint32{0x0a141e, 0x28323c, 0x46505a}
	for i, want := range expected {
		if imageData.Pixels[i] != want {
			t.Errorf("Pixel %d: expected %06x, got %06x", i, want, imageData.Pixels[i])
		}
	}
}

func TestLoadEnvironment_Downscale(t *testing.T) {
	testFile := filepath.Join(t.TempDir(), "env.png")

	// Uniform color survives any resampling filter
	img := image.NewRGBA(image.Rect(0, 0, 64, 32))
	for y := 0; y < 32; y++ {
		for x := 0; x < 64; x++ {
			img.Set(x, y, color.RGBA{R: 200, G: 100, B: 50, A: 255})
		}
	}
	writePNG(t, testFile, img)

	tests := []struct {
		name           string
		maxWidth       int
		expectedWidth  int
		expectedHeight int
	}{
		{"no limit", 0, 64, 32},
		{"limit above width", 128, 64, 32},
		{"halved", 32, 32, 16},
		{"odd width", 10, 10, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env, err := LoadEnvironment(testFile, tt.maxWidth)
			if err != nil {
				t.Fatalf("LoadEnvironment failed: %v", err)
			}
			if env.Width != tt.expectedWidth || env.Height != tt.expectedHeight {
				t.Errorf("Expected %dx%d, got %dx%d", tt.expectedWidth, tt.expectedHeight, env.Width, env.Height)
			}
			if len(env.Pixels) != env.Width*env.Height {
				t.Errorf("Expected %d pixels, got %d", env.Width*env.Height, len(env.Pixels))
			}
			for i, p := range env.Pixels {
				r, g, b := core.UnpackRGB(p)
				if absInt(r-200) > 1 || absInt(g-100) > 1 || absInt(b-50) > 1 {
					t.Fatalf("Pixel %d: expected about c86432, got %06x", i, p)
				}
			}
		})
	}
}

func TestLoadImage_Errors(t *testing.T) {
	dir := t.TempDir()

	if _, err := LoadImage(filepath.Join(dir, "missing.png")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Expected not-exist error, got %v", err)
	}

	garbage := filepath.Join(dir, "garbage.png")
	if err := os.WriteFile(garbage, []byte("not an image"), 0644); err != nil {
		t.Fatalf("Failed to write test file: %v", err)
	}
	if _, err := LoadImage(garbage); err == nil {
		t.Error("Expected decode error")
	}
}
