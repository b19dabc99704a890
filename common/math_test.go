package common

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const epsilon = 1e-4

func TestSphericalRoundTrip(t *testing.T) {
	tests := []struct {
		name   string
		offset Vec3
	}{
		{"along +Z", Vec3{0, 0, 10}},
		{"along +X", Vec3{10, 0, 0}},
		{"elevated", Vec3{3, 4, 5}},
		{"below pivot", Vec3{-2, -6, 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := SphericalFromVec3(tt.offset)
			back := s.Vec3()
			assert.InDelta(t, tt.offset[0], back[0], epsilon)
			assert.InDelta(t, tt.offset[1], back[1], epsilon)
			assert.InDelta(t, tt.offset[2], back[2], epsilon)
		})
	}
}

func TestSphericalFromVec3Degenerate(t *testing.T) {
	s := SphericalFromVec3(Vec3{})
	assert.Zero(t, s.Radius)
	assert.Zero(t, s.Polar)
	assert.Zero(t, s.Azimuth)
}

func TestShortestAngleDelta(t *testing.T) {
	tests := []struct {
		name     string
		from, to float32
		want     float32
	}{
		{"no wrap", 0.5, 1.0, 0.5},
		{"wrap positive", 3.0, -3.0, 2*math32.Pi - 6.0},
		{"wrap negative", -3.0, 3.0, 6.0 - 2*math32.Pi},
		{"identical", 1.2, 1.2, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ShortestAngleDelta(tt.from, tt.to)
			assert.InDelta(t, tt.want, got, epsilon)
			assert.LessOrEqual(t, math32.Abs(got), math32.Pi+epsilon)
		})
	}
}

func TestMul4Identity(t *testing.T) {
	var id, m, out [16]float32
	Identity(id[:])
	for i := range m {
		m[i] = float32(i + 1)
	}
	Mul4(out[:], id[:], m[:])
	assert.Equal(t, m, out)
}

func TestInvert4RoundTrip(t *testing.T) {
	var view, inv, out [16]float32
	LookAt(view[:], Vec3{5, 3, 8}, Vec3{0, 1, 0}, Vec3{0, 1, 0})
	require.True(t, Invert4(inv[:], view[:]))
	Mul4(out[:], view[:], inv[:])

	var id [16]float32
	Identity(id[:])
	for i := range out {
		assert.InDelta(t, id[i], out[i], epsilon)
	}
}

func TestInvert4Singular(t *testing.T) {
	var zero, out [16]float32
	assert.False(t, Invert4(out[:], zero[:]))
}

func TestTransformPointPerspectiveDivide(t *testing.T) {
	var proj [16]float32
	Perspective(proj[:], math32.Pi/4, 16.0/9.0, 0.1, 1000)

	// A point directly in front of the camera projects to the NDC center.
	p, w := TransformPoint(proj[:], Vec3{0, 0, -10})
	assert.Greater(t, w, float32(0))
	assert.InDelta(t, 0, p[0], epsilon)
	assert.InDelta(t, 0, p[1], epsilon)
	assert.Greater(t, p[2], float32(0))
	assert.Less(t, p[2], float32(1))
}

func TestComposeTRSTranslationOnly(t *testing.T) {
	var m [16]float32
	ComposeTRS(m[:], Vec3{1, 2, 3}, [4]float32{0, 0, 0, 1}, Vec3{1, 1, 1})
	p, _ := TransformPoint(m[:], Vec3{0, 0, 0})
	assert.Equal(t, Vec3{1, 2, 3}, p)
}
