package core

import "math"

// Angle constants used by the fast trigonometry helpers
const (
	PiOver4    = math.Pi / 4
	PiOver2    = math.Pi / 2
	TwoPi      = 2 * math.Pi
	ThreePiOv2 = 3 * math.Pi / 2
)

const (
	atanCurvature = 0.273
	atanSlope     = atanCurvature + PiOver4
)

// FastAtan2 approximates the angle of the point (x, y) in [0, 2π) using a
// quadratic polynomial on the tangent or cotangent, whichever is at most one.
// The maximum error is about 0.22 degrees. It is also usable as a fast
// arcsine: asin(y) = FastAtan2(y, sqrt(1-y*y)).
func FastAtan2(y, x float64) float64 {
	ax := math.Abs(x)
	ay := math.Abs(y)

	if ay < ax {
		// Angle measured from the X axis
		tangent := ay / ax
		angle := tangent * (atanSlope - atanCurvature*tangent)
		switch {
		case y < 0 && x < 0:
			return math.Pi + angle
		case y < 0:
			return TwoPi - angle
		case x < 0:
			return math.Pi - angle
		default:
			return angle
		}
	}

	if ay == 0 {
		// Both zero: the origin has no angle, report zero like math.Atan2
		return 0
	}

	// Angle measured from the Y axis
	cotangent := ax / ay
	angle := cotangent * (atanSlope - atanCurvature*cotangent)
	switch {
	case y < 0 && x < 0:
		return ThreePiOv2 - angle
	case y < 0:
		return ThreePiOv2 + angle
	case x < 0:
		return PiOver2 + angle
	default:
		return PiOver2 - angle
	}
}
