package sdf

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"

	"github.com/cespare/xxhash/v2"
	"github.com/klauspost/compress/zstd"

	"github.com/df07/go-voxel-raymarcher/pkg/core"
	"github.com/df07/go-voxel-raymarcher/pkg/voxel"
)

const (
	cacheMagic   = "VSDF"
	cacheVersion = uint8(1)
)

// FieldKey identifies the fields built from a grid with a given normal
// offset. It hashes the grid side, the offset and the packed occupancy bits.
func FieldKey(grid *voxel.Grid, offset int) uint64 {
	d := xxhash.New()

	var header [8]byte
	binary.LittleEndian.PutUint32(header[0:4], uint32(grid.Size))
	binary.LittleEndian.PutUint32(header[4:8], uint32(offset))
	_, _ = d.Write(header[:])

	var word [8]byte
	var bits uint64
	for i, solid := range grid.Cells {
		if solid {
			bits |= 1 << (i % 64)
		}
		if i%64 == 63 || i == len(grid.Cells)-1 {
			binary.LittleEndian.PutUint64(word[:], bits)
			_, _ = d.Write(word[:])
			bits = 0
		}
	}

	return d.Sum64()
}

// Cache stores built distance and normal fields on disk, zstd-compressed,
// so large grids only pay for the transform once.
type Cache struct {
	Dir    string
	logger core.Logger
}

// NewCache creates a cache rooted at dir. A nil logger disables logging.
func NewCache(dir string, logger core.Logger) *Cache {
	return &Cache{Dir: dir, logger: logger}
}

func (c *Cache) path(key uint64) string {
	return filepath.Join(c.Dir, fmt.Sprintf("%016x.vsdf.zst", key))
}

func (c *Cache) logf(format string, args ...interface{}) {
	if c.logger != nil {
		c.logger.Printf(format, args...)
	}
}

// Load returns the cached fields for key. The boolean is false when no entry
// exists; a corrupt entry is reported as an error.
func (c *Cache) Load(key uint64) (*DistanceField, *NormalField, bool, error) {
	file, err := os.Open(c.path(key))
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil, false, nil
	}
	if err != nil {
		return nil, nil, false, fmt.Errorf("failed to open field cache: %w", err)
	}
	defer file.Close()

	dec, err := zstd.NewReader(file)
	if err != nil {
		return nil, nil, false, fmt.Errorf("failed to create zstd reader: %w", err)
	}
	defer dec.Close()

	field, normals, err := readFields(bufio.NewReader(dec))
	if err != nil {
		return nil, nil, false, fmt.Errorf("corrupt field cache %s: %w", c.path(key), err)
	}
	c.logf("Field cache hit: %s\n", c.path(key))
	return field, normals, true, nil
}

// Store writes the fields under key, replacing any previous entry
func (c *Cache) Store(key uint64, field *DistanceField, normals *NormalField) error {
	if err := os.MkdirAll(c.Dir, 0755); err != nil {
		return fmt.Errorf("failed to create cache directory: %w", err)
	}

	tmp, err := os.CreateTemp(c.Dir, "vsdf-*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create cache file: %w", err)
	}
	defer os.Remove(tmp.Name())
	defer tmp.Close()

	enc, err := zstd.NewWriter(tmp, zstd.WithEncoderLevel(zstd.SpeedFastest))
	if err != nil {
		return fmt.Errorf("failed to create zstd writer: %w", err)
	}
	bw := bufio.NewWriter(enc)
	if err := writeFields(bw, field, normals); err != nil {
		enc.Close()
		return err
	}
	if err := bw.Flush(); err != nil {
		enc.Close()
		return fmt.Errorf("failed to write field cache: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("failed to finish zstd stream: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close cache file: %w", err)
	}
	if err := os.Rename(tmp.Name(), c.path(key)); err != nil {
		return fmt.Errorf("failed to move cache file into place: %w", err)
	}

	c.logf("Field cache stored: %s\n", c.path(key))
	return nil
}

// BuildFields returns the signed distance and normal fields for a grid,
// reading them from the cache when possible. A nil cache always builds.
func BuildFields(grid *voxel.Grid, offset int, cache *Cache) (*DistanceField, *NormalField, error) {
	if err := grid.Validate(); err != nil {
		return nil, nil, err
	}

	var key uint64
	if cache != nil {
		key = FieldKey(grid, offset)
		field, normals, ok, err := cache.Load(key)
		if err != nil {
			cache.logf("Ignoring field cache: %v\n", err)
		} else if ok {
			return field, normals, nil
		}
	}

	field, err := BuildDistanceField(grid)
	if err != nil {
		return nil, nil, err
	}
	normals, err := BuildNormalField(field, offset)
	if err != nil {
		return nil, nil, err
	}

	if cache != nil {
		if err := cache.Store(key, field, normals); err != nil {
			cache.logf("Failed to store field cache: %v\n", err)
		}
	}
	return field, normals, nil
}

func writeFields(w io.Writer, field *DistanceField, normals *NormalField) error {
	header := make([]byte, 0, 13)
	header = append(header, cacheMagic...)
	header = append(header, cacheVersion)
	header = binary.LittleEndian.AppendUint32(header, uint32(field.Size))
	header = binary.LittleEndian.AppendUint32(header, uint32(normals.Offset))
	if _, err := w.Write(header); err != nil {
		return fmt.Errorf("failed to write cache header: %w", err)
	}

	var buf [8]byte
	for _, v := range field.Values {
		binary.LittleEndian.PutUint64(buf[:], math.Float64bits(v))
		if _, err := w.Write(buf[:]); err != nil {
			return fmt.Errorf("failed to write distances: %w", err)
		}
	}
	for _, n := range normals.Normals {
		for _, c := range [3]float64{n.X, n.Y, n.Z} {
			binary.LittleEndian.PutUint64(buf[:], math.Float64bits(c))
			if _, err := w.Write(buf[:]); err != nil {
				return fmt.Errorf("failed to write normals: %w", err)
			}
		}
	}
	return nil
}

func readFields(r io.Reader) (*DistanceField, *NormalField, error) {
	var header [13]byte
	if _, err := io.ReadFull(r, header[:]); err != nil {
		return nil, nil, fmt.Errorf("failed to read header: %w", err)
	}
	if string(header[:4]) != cacheMagic {
		return nil, nil, fmt.Errorf("bad magic %q", header[:4])
	}
	if header[4] != cacheVersion {
		return nil, nil, fmt.Errorf("unsupported version %d", header[4])
	}
	size := int(binary.LittleEndian.Uint32(header[5:9]))
	offset := int(binary.LittleEndian.Uint32(header[9:13]))
	if size <= 0 || size > 2048 {
		return nil, nil, fmt.Errorf("implausible grid size %d", size)
	}

	cells := size * size * size
	var buf [8]byte
	next := func() (float64, error) {
		if _, err := io.ReadFull(r, buf[:]); err != nil {
			return 0, err
		}
		return math.Float64frombits(binary.LittleEndian.Uint64(buf[:])), nil
	}

	values := make([]float64, cells)
	for i := range values {
		v, err := next()
		if err != nil {
			return nil, nil, fmt.Errorf("failed to read distances: %w", err)
		}
		values[i] = v
	}

	normals := make([]core.Vec3, cells)
	for i := range normals {
		var c [3]float64
		for j := range c {
			v, err := next()
			if err != nil {
				return nil, nil, fmt.Errorf("failed to read normals: %w", err)
			}
			c[j] = v
		}
		normals[i] = core.NewVec3(c[0], c[1], c[2])
	}

	return &DistanceField{Size: size, Values: values},
		&NormalField{Size: size, Offset: offset, Normals: normals}, nil
}
