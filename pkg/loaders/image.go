package loaders

import (
	"errors"
	"fmt"
	"image"
	_ "image/jpeg" // JPEG decoder
	_ "image/png"  // PNG decoder
	"os"

	_ "golang.org/x/image/bmp"  // BMP decoder
	_ "golang.org/x/image/tiff" // TIFF decoder
	_ "golang.org/x/image/webp" // WebP decoder

	"golang.org/x/image/draw"

	"github.com/df07/go-voxel-raymarcher/pkg/core"
)

// ErrEmptyImage is returned for images with no pixels
var ErrEmptyImage = errors.New("image has no pixels")

// ImageData contains loaded image data as packed 0xRRGGBB pixels
type ImageData struct {
	Width  int
	Height int
	Pixels []uint32
}

// LoadImage loads a PNG, JPEG, BMP, TIFF or WebP image and converts it to
// packed RGB. Alpha is ignored.
func LoadImage(filename string) (*ImageData, error) {
	return LoadEnvironment(filename, 0)
}

// LoadEnvironment loads an equirectangular environment image. Images wider
// than maxWidth are downscaled with Catmull-Rom filtering, keeping the aspect
// ratio; maxWidth <= 0 keeps the original size.
func LoadEnvironment(filename string, maxWidth int) (*ImageData, error) {
	// Open file
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open image file: %w", err)
	}
	defer file.Close()

	// Decode image (auto-detects the format from the file header)
	img, _, err := image.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	bounds := img.Bounds()
	if bounds.Empty() {
		return nil, fmt.Errorf("%s: %w", filename, ErrEmptyImage)
	}
	if maxWidth > 0 && bounds.Dx() > maxWidth {
		img = downscale(img, maxWidth)
	}

	return imageToRGB(img), nil
}

// downscale resizes img to the given width
func downscale(img image.Image, width int) image.Image {
	bounds := img.Bounds()
	height := max(1, bounds.Dy()*width/bounds.Dx())
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Src, nil)
	return dst
}

// imageToRGB converts any image to packed RGB pixels in row-major order
func imageToRGB(img image.Image) *ImageData {
	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()
	pixels := make([]uint32, width*height)

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			r, g, b, _ := img.At(x+bounds.Min.X, y+bounds.Min.Y).RGBA()
			// RGBA returns uint32 in [0, 65535]
			pixels[y*width+x] = core.PackRGB(int(r>>8), int(g>>8), int(b>>8))
		}
	}

	return &ImageData{
		Width:  width,
		Height: height,
		Pixels: pixels,
	}
}
