package renderer

import (
	"fmt"
	"image"
	"image/color"
)

// FrameBuffer is a row-major array of packed 0xRRGGBB pixels. Row 0 is the
// top of the screen.
type FrameBuffer struct {
	Width  int
	Height int
	Pixels []uint32
}

// NewFrameBuffer allocates a black frame
func NewFrameBuffer(width, height int) *FrameBuffer {
	return &FrameBuffer{
		Width:  width,
		Height: height,
		Pixels: make([]uint32, width*height),
	}
}

func (fb *FrameBuffer) validate(width, height int) error {
	if fb == nil {
		return fmt.Errorf("nil frame buffer")
	}
	if fb.Width != width || fb.Height != height || len(fb.Pixels) != width*height {
		return fmt.Errorf("frame buffer is %dx%d (%d pixels), camera is %dx%d",
			fb.Width, fb.Height, len(fb.Pixels), width, height)
	}
	return nil
}

// ToRGBA converts the frame to an image for encoding
func (fb *FrameBuffer) ToRGBA() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, fb.Width, fb.Height))
	for y := 0; y < fb.Height; y++ {
		for x := 0; x < fb.Width; x++ {
			c := fb.Pixels[x+y*fb.Width]
			img.SetRGBA(x, y, color.RGBA{
				R: uint8(c >> 16),
				G: uint8(c >> 8),
				B: uint8(c),
				A: 255,
			})
		}
	}
	return img
}
