package voxel

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// ParseCoordinateText reads a voxel list with one "x, y, z" triple per line
// and sets each listed voxel. Lines with fewer than three fields, fields that
// are not integers, or coordinates outside the volume are skipped.
func ParseCoordinateText(r io.Reader, width, height, depth int) (*Bitmap, error) {
	if width <= 0 || height <= 0 || depth <= 0 {
		return nil, fmt.Errorf("invalid bitmap dimensions %dx%dx%d", width, height, depth)
	}
	b := NewBitmap(width, height, depth)

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		fields := strings.Split(scanner.Text(), ",")
		if len(fields) < 3 {
			continue
		}
		var coords [3]int
		valid := true
		for i := range coords {
			v, err := strconv.Atoi(strings.TrimSpace(fields[i]))
			if err != nil {
				valid = false
				break
			}
			coords[i] = v
		}
		if !valid || !b.inBounds(coords[0], coords[1], coords[2]) {
			continue
		}
		b.Set(coords[0], coords[1], coords[2], true)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read voxel text: %w", err)
	}

	return b, nil
}

// LoadCoordinateText reads a voxel coordinate list file
func LoadCoordinateText(filename string, width, height, depth int) (*Bitmap, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open voxel text: %w", err)
	}
	defer file.Close()

	return ParseCoordinateText(file, width, height, depth)
}
