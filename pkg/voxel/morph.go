package voxel

// neighbors6 are the face-adjacent offsets
var neighbors6 = [6][3]int{
	{-1, 0, 0}, {1, 0, 0},
	{0, -1, 0}, {0, 1, 0},
	{0, 0, -1}, {0, 0, 1},
}

// FillHollows turns closed voxel shells into solids. Every unset voxel that
// cannot reach the outside of the volume through face-adjacent unset voxels
// is set. Returns the number of voxels filled.
func FillHollows(b *Bitmap) int {
	total := b.Len()
	outside := make([]bool, total)
	stack := make([]int, 0, 1024)

	// Seed the flood with every empty voxel on the volume boundary
	push := func(x, y, z int) {
		i := b.index(x, y, z)
		if outside[i] || b.bit(i) {
			return
		}
		outside[i] = true
		stack = append(stack, i)
	}
	for z := 0; z < b.Depth; z++ {
		for y := 0; y < b.Height; y++ {
			for x := 0; x < b.Width; x++ {
				if x == 0 || y == 0 || z == 0 || x == b.Width-1 || y == b.Height-1 || z == b.Depth-1 {
					push(x, y, z)
				}
			}
		}
	}

	plane := b.Width * b.Height
	for len(stack) > 0 {
		i := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		x := i % b.Width
		y := (i / b.Width) % b.Height
		z := i / plane
		for _, n := range neighbors6 {
			nx, ny, nz := x+n[0], y+n[1], z+n[2]
			if b.inBounds(nx, ny, nz) {
				push(nx, ny, nz)
			}
		}
	}

	filled := 0
	for i := 0; i < total; i++ {
		if !outside[i] && !b.bit(i) {
			b.setBit(i, true)
			filled++
		}
	}
	return filled
}

// PadToCube centers the bitmap inside a cube of side cubeSize. The cube is
// grown to the longest bitmap side if cubeSize is smaller.
func PadToCube(b *Bitmap, cubeSize int) *Bitmap {
	cubeSize = max(cubeSize, b.Width, b.Height, b.Depth)
	padded := NewBitmap(cubeSize, cubeSize, cubeSize)

	x0 := (cubeSize - b.Width) / 2
	y0 := (cubeSize - b.Height) / 2
	z0 := (cubeSize - b.Depth) / 2
	for z := 0; z < b.Depth; z++ {
		for y := 0; y < b.Height; y++ {
			for x := 0; x < b.Width; x++ {
				if b.Get(x, y, z) {
					padded.Set(x+x0, y+y0, z+z0, true)
				}
			}
		}
	}
	return padded
}
