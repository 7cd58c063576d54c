package core

import "math"

// CubeHit is a ray intersection with a face of the unit cube
type CubeHit struct {
	T     float64 // Ray parameter at the intersection
	Point Vec3    // Intersection point, every component in [0, 1]
}

// CubeHits holds at most two face intersections of a ray with the unit cube
type CubeHits struct {
	hits  [2]CubeHit
	count int
}

// Len returns the number of valid hits (0, 1 or 2)
func (h CubeHits) Len() int {
	return h.count
}

// Hit returns the i-th recorded hit in face scan order
func (h CubeHits) Hit(i int) CubeHit {
	return h.hits[i]
}

// Entry returns the hit with the smallest t. When the ray starts inside the
// cube only the exit face is found and that hit is returned.
func (h CubeHits) Entry() (CubeHit, bool) {
	switch h.count {
	case 0:
		return CubeHit{}, false
	case 1:
		return h.hits[0], true
	default:
		if h.hits[1].T < h.hits[0].T {
			return h.hits[1], true
		}
		return h.hits[0], true
	}
}

func (h *CubeHits) add(t float64, point Vec3) bool {
	h.hits[h.count] = CubeHit{T: t, Point: point}
	h.count++
	return h.count == len(h.hits)
}

// IntersectUnitCube finds where a ray meets the faces of the cube [0,1]³.
// Faces are tested in the order x=0, x=1, y=0, y=1, z=0, z=1 and scanning
// stops once two hits are found. A face only counts when the direction has
// a non-zero component along its axis, t is positive and finite, and the
// other two coordinates of the hit lie within [0, 1].
func IntersectUnitCube(origin, dir Vec3) CubeHits {
	var hits CubeHits

	for _, plane := range [2]float64{0, 1} {
		if t, ok := facePlaneT(origin.X, dir.X, plane); ok {
			y := origin.Y + t*dir.Y
			z := origin.Z + t*dir.Z
			if inUnit(y) && inUnit(z) && hits.add(t, Vec3{plane, y, z}) {
				return hits
			}
		}
	}
	for _, plane := range [2]float64{0, 1} {
		if t, ok := facePlaneT(origin.Y, dir.Y, plane); ok {
			z := origin.Z + t*dir.Z
			x := origin.X + t*dir.X
			if inUnit(z) && inUnit(x) && hits.add(t, Vec3{x, plane, z}) {
				return hits
			}
		}
	}
	for _, plane := range [2]float64{0, 1} {
		if t, ok := facePlaneT(origin.Z, dir.Z, plane); ok {
			x := origin.X + t*dir.X
			y := origin.Y + t*dir.Y
			if inUnit(x) && inUnit(y) && hits.add(t, Vec3{x, y, plane}) {
				return hits
			}
		}
	}

	return hits
}

// facePlaneT solves origin + t*dir = plane along one axis
func facePlaneT(origin, dir, plane float64) (float64, bool) {
	if dir == 0 {
		return 0, false
	}
	t := (plane - origin) / dir
	if !(t > 0) || math.IsInf(t, 0) {
		return 0, false
	}
	return t, true
}

func inUnit(v float64) bool {
	return v >= 0 && v <= 1
}
