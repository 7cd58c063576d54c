package voxel

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/zstd"
)

// Bitmap is a packed occupancy volume of arbitrary dimensions, one bit per
// voxel in x-fastest, then y, then z order. Bit i lives in word i/32 at
// position i%32.
type Bitmap struct {
	Width, Height, Depth int
	words                []uint32
}

// NewBitmap allocates an all-empty bitmap
func NewBitmap(width, height, depth int) *Bitmap {
	return &Bitmap{
		Width:  width,
		Height: height,
		Depth:  depth,
		words:  make([]uint32, (width*height*depth+31)/32),
	}
}

// Len returns the number of voxels
func (b *Bitmap) Len() int {
	return b.Width * b.Height * b.Depth
}

func (b *Bitmap) index(x, y, z int) int {
	return x + y*b.Width + z*b.Width*b.Height
}

func (b *Bitmap) inBounds(x, y, z int) bool {
	return x >= 0 && y >= 0 && z >= 0 && x < b.Width && y < b.Height && z < b.Depth
}

func (b *Bitmap) bit(i int) bool {
	return (b.words[i/32]>>(i%32))&1 == 1
}

func (b *Bitmap) setBit(i int, solid bool) {
	if solid {
		b.words[i/32] |= 1 << (i % 32)
	} else {
		b.words[i/32] &^= 1 << (i % 32)
	}
}

// Get reports whether voxel (x, y, z) is set. Voxels outside the volume are unset.
func (b *Bitmap) Get(x, y, z int) bool {
	if !b.inBounds(x, y, z) {
		return false
	}
	return b.bit(b.index(x, y, z))
}

// Set sets or clears voxel (x, y, z)
func (b *Bitmap) Set(x, y, z int, solid bool) {
	b.setBit(b.index(x, y, z), solid)
}

// Count returns the number of set voxels
func (b *Bitmap) Count() int {
	count := 0
	for i := 0; i < b.Len(); i++ {
		if b.bit(i) {
			count++
		}
	}
	return count
}

// ToGrid expands the bitmap into an occupancy grid. The bitmap must be a cube.
func (b *Bitmap) ToGrid() (*Grid, error) {
	if b.Width != b.Height || b.Height != b.Depth {
		return nil, fmt.Errorf("%w: bitmap is %dx%dx%d", ErrNotCube, b.Width, b.Height, b.Depth)
	}
	grid := NewGrid(b.Width)
	for i := range grid.Cells {
		grid.Cells[i] = b.bit(i)
	}
	return grid, grid.Validate()
}

// BitmapFromGrid packs an occupancy grid into a bitmap
func BitmapFromGrid(grid *Grid) *Bitmap {
	b := NewBitmap(grid.Size, grid.Size, grid.Size)
	for i, solid := range grid.Cells {
		if solid {
			b.setBit(i, true)
		}
	}
	return b
}

// ReadBitmap decodes a run-length encoded bitmap. The stream is a sequence
// of big-endian 32-bit run lengths; runs alternate starting with unset bits
// and end of stream terminates the final run. Runs that would overflow the
// volume are an error; a stream that ends early leaves the remaining voxels
// unset.
func ReadBitmap(r io.Reader, width, height, depth int) (*Bitmap, error) {
	if width <= 0 || height <= 0 || depth <= 0 {
		return nil, fmt.Errorf("invalid bitmap dimensions %dx%dx%d", width, height, depth)
	}
	b := NewBitmap(width, height, depth)
	total := b.Len()

	br := bufio.NewReader(r)
	pos := 0
	solid := false
	var run int32
	for {
		if err := binary.Read(br, binary.BigEndian, &run); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("failed to read run at voxel %d: %w", pos, err)
		}
		if run < 0 {
			return nil, fmt.Errorf("negative run length %d at voxel %d", run, pos)
		}
		if pos+int(run) > total {
			return nil, fmt.Errorf("run of %d at voxel %d overflows %d voxels", run, pos, total)
		}
		if solid {
			for i := pos; i < pos+int(run); i++ {
				b.setBit(i, true)
			}
		}
		pos += int(run)
		solid = !solid
	}

	return b, nil
}

// WriteRLE encodes the bitmap as alternating big-endian 32-bit run lengths,
// the first run counting unset bits. A leading run of zero is written when
// the first voxel is set.
func (b *Bitmap) WriteRLE(w io.Writer) error {
	bw := bufio.NewWriter(w)
	total := b.Len()

	value := false
	pos := 0
	for pos < total {
		run := 0
		for pos < total && b.bit(pos) == value {
			run++
			pos++
		}
		if err := binary.Write(bw, binary.BigEndian, int32(run)); err != nil {
			return fmt.Errorf("failed to write run: %w", err)
		}
		value = !value
	}

	return bw.Flush()
}

// LoadBitmap reads a run-length encoded bitmap file. Files ending in ".zst"
// are zstd-compressed.
func LoadBitmap(filename string, width, height, depth int) (*Bitmap, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open voxel bitmap: %w", err)
	}
	defer file.Close()

	var r io.Reader = file
	if strings.HasSuffix(filename, ".zst") {
		dec, err := zstd.NewReader(file)
		if err != nil {
			return nil, fmt.Errorf("failed to create zstd reader: %w", err)
		}
		defer dec.Close()
		r = dec
	}

	b, err := ReadBitmap(r, width, height, depth)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", filename, err)
	}
	return b, nil
}

// SaveBitmap writes a run-length encoded bitmap file. Files ending in ".zst"
// are zstd-compressed.
func SaveBitmap(filename string, b *Bitmap) error {
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create voxel bitmap: %w", err)
	}
	defer file.Close()

	if !strings.HasSuffix(filename, ".zst") {
		if err := b.WriteRLE(file); err != nil {
			return err
		}
		return file.Close()
	}

	enc, err := zstd.NewWriter(file, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return fmt.Errorf("failed to create zstd writer: %w", err)
	}
	if err := b.WriteRLE(enc); err != nil {
		enc.Close()
		return err
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("failed to finish zstd stream: %w", err)
	}
	return file.Close()
}
