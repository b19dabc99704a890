package picker

import (
	"github.com/venuelab/walkview/common"
	"github.com/venuelab/walkview/engine/scene"
)

// intersectEpsilon guards ray-triangle tests against near-parallel rays and
// self-intersection at t ≈ 0.
const intersectEpsilon = 1e-7

// rayIntersectsAABB is the slab test against an axis-aligned bounding box.
// Used to reject whole meshes before any triangle test runs.
func rayIntersectsAABB(origin, dir, min, max common.Vec3) bool {
	tMin := float32(0)
	tMax := float32(3.4e38)

	for i := 0; i < 3; i++ {
		if dir[i] > -intersectEpsilon && dir[i] < intersectEpsilon {
			// Ray parallel to the slab; reject if origin lies outside it.
			if origin[i] < min[i] || origin[i] > max[i] {
				return false
			}
			continue
		}
		inv := 1.0 / dir[i]
		t0 := (min[i] - origin[i]) * inv
		t1 := (max[i] - origin[i]) * inv
		if t0 > t1 {
			t0, t1 = t1, t0
		}
		if t0 > tMin {
			tMin = t0
		}
		if t1 < tMax {
			tMax = t1
		}
		if tMin > tMax {
			return false
		}
	}
	return true
}

// rayTriangleIntersection is the Möller–Trumbore test. Returns the ray
// parameter t when the ray strikes the triangle in front of the origin.
func rayTriangleIntersection(origin, dir, v0, v1, v2 common.Vec3) (float32, bool) {
	edge1 := v1.Sub(v0)
	edge2 := v2.Sub(v0)

	p := dir.Cross(edge2)
	det := edge1.Dot(p)
	if det > -intersectEpsilon && det < intersectEpsilon {
		return 0, false
	}
	invDet := 1.0 / det

	tv := origin.Sub(v0)
	u := tv.Dot(p) * invDet
	if u < 0 || u > 1 {
		return 0, false
	}

	q := tv.Cross(edge1)
	v := dir.Dot(q) * invDet
	if v < 0 || u+v > 1 {
		return 0, false
	}

	t := edge2.Dot(q) * invDet
	if t <= intersectEpsilon {
		return 0, false
	}
	return t, true
}

// rayMeshIntersection returns the nearest triangle hit within a mesh.
func rayMeshIntersection(origin, dir common.Vec3, m *scene.Mesh) (float32, bool) {
	best := float32(0)
	found := false
	for i := 0; i+2 < len(m.Indices); i += 3 {
		v0 := m.Positions[m.Indices[i]]
		v1 := m.Positions[m.Indices[i+1]]
		v2 := m.Positions[m.Indices[i+2]]
		if t, hit := rayTriangleIntersection(origin, dir, v0, v1, v2); hit {
			if !found || t < best {
				best = t
				found = true
			}
		}
	}
	return best, found
}
