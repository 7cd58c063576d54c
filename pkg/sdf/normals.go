package sdf

import (
	"fmt"

	"github.com/df07/go-voxel-raymarcher/pkg/core"
)

// DefaultNormalOffset is the finite-difference radius in cells. Larger
// values give smoother normals at the cost of blurring sharp edges.
const DefaultNormalOffset = 7

// NormalField holds one unit normal per distance field cell. Cells closer
// than Offset to the grid boundary, or where the gradient vanishes, hold the
// zero vector.
type NormalField struct {
	Size    int
	Offset  int
	Normals []core.Vec3
}

// At returns the normal stored at cell (x, y, z)
func (n *NormalField) At(x, y, z int) core.Vec3 {
	return n.Normals[x+y*n.Size+z*n.Size*n.Size]
}

// BuildNormalField estimates surface normals from a signed distance field by
// central differences taken offset cells away. The axis differences are
// halved and added to the differences along the four cube diagonals before
// normalizing.
func BuildNormalField(field *DistanceField, offset int) (*NormalField, error) {
	if field == nil || field.Size <= 0 || len(field.Values) != field.Size*field.Size*field.Size {
		return nil, fmt.Errorf("invalid distance field")
	}
	if offset < 1 {
		return nil, fmt.Errorf("normal offset must be at least 1, got %d", offset)
	}

	size := field.Size
	sdf := field.Values
	dx := offset
	dy := size * offset
	dz := size * size * offset

	normals := make([]core.Vec3, len(sdf))
	if 2*offset >= size {
		// Every cell is within offset of some boundary
		return &NormalField{Size: size, Offset: offset, Normals: normals}, nil
	}

	for z := offset; z < size-offset; z++ {
		for y := offset; y < size-offset; y++ {
			i := offset + y*size + z*size*size
			for x := offset; x < size-offset; x, i = x+1, i+1 {
				axis := core.Vec3{
					X: sdf[i+dx] - sdf[i-dx],
					Y: sdf[i+dy] - sdf[i-dy],
					Z: sdf[i+dz] - sdf[i-dz],
				}

				d1 := sdf[i+dx+dy+dz] - sdf[i-dx-dy-dz]
				d2 := sdf[i-dx+dy+dz] - sdf[i+dx-dy-dz]
				d3 := sdf[i+dx-dy+dz] - sdf[i-dx+dy-dz]
				d4 := sdf[i+dx+dy-dz] - sdf[i-dx-dy+dz]
				diagonal := core.Vec3{
					X: d1 - d2 + d3 + d4,
					Y: d1 + d2 - d3 + d4,
					Z: d1 + d2 + d3 - d4,
				}

				normals[i] = axis.Multiply(0.5).Add(diagonal).Normalize()
			}
		}
	}

	return &NormalField{Size: size, Offset: offset, Normals: normals}, nil
}
