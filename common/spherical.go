package common

import (
	"github.com/chewxy/math32"
)

// Spherical expresses a camera offset relative to a pivot point as a radius,
// a polar angle measured from the +Y axis, and an azimuth angle measured
// around the Y axis with 0 pointing along +Z.
type Spherical struct {
	Radius  float32
	Polar   float32
	Azimuth float32
}

// SphericalFromVec3 converts a cartesian offset into spherical coordinates.
// A zero-length offset is degenerate; it yields radius 0 with both angles 0,
// which downstream interpolation treats as a no-rotation state.
//
// Parameters:
//   - v: the cartesian offset (position minus pivot)
//
// Returns:
//   - Spherical: the equivalent spherical coordinates
func SphericalFromVec3(v Vec3) Spherical {
	r := v.Length()
	if r == 0 {
		return Spherical{}
	}
	return Spherical{
		Radius:  r,
		Polar:   math32.Acos(clamp(v[1]/r, -1, 1)),
		Azimuth: math32.Atan2(v[0], v[2]),
	}
}

// Vec3 converts spherical coordinates back to a cartesian offset.
//
// Returns:
//   - Vec3: the cartesian offset relative to the pivot
func (s Spherical) Vec3() Vec3 {
	sinPolar := math32.Sin(s.Polar)
	return Vec3{
		s.Radius * sinPolar * math32.Sin(s.Azimuth),
		s.Radius * math32.Cos(s.Polar),
		s.Radius * sinPolar * math32.Cos(s.Azimuth),
	}
}

// ShortestAngleDelta wraps the difference to - from into (-π, π] so a
// rotation between the two angles always takes the shorter arc.
//
// Parameters:
//   - from: starting angle in radians
//   - to: ending angle in radians
//
// Returns:
//   - float32: the wrapped delta to add to from
func ShortestAngleDelta(from, to float32) float32 {
	delta := to - from
	for delta > math32.Pi {
		delta -= 2 * math32.Pi
	}
	for delta < -math32.Pi {
		delta += 2 * math32.Pi
	}
	return delta
}

func clamp(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
