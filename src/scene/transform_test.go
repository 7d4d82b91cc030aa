package scene

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

const tolerance = 1e-5

// The near helpers compare element-wise with an absolute tolerance, so
// expected zeros tolerate float32 rounding.

func assertVec3Near(t *testing.T, want, got mgl32.Vec3) {
	t.Helper()
	assert.InDeltaSlice(t, want[:], got[:], tolerance, "want %v\ngot  %v", want, got)
}

func assertMat3Near(t *testing.T, want, got mgl32.Mat3) {
	t.Helper()
	assert.InDeltaSlice(t, want[:], got[:], tolerance, "want %v\ngot  %v", want, got)
}

func assertMat4Near(t *testing.T, want, got mgl32.Mat4) {
	t.Helper()
	assert.InDeltaSlice(t, want[:], got[:], tolerance, "want %v\ngot  %v", want, got)
}

func TestNearHelpersUseAbsoluteTolerance(t *testing.T) {
	assertVec3Near(t, mgl32.Vec3{1.5, 0, 0}, mgl32.Vec3{1.5, 0, -6.556708e-08})
	assertVec3Near(t, mgl32.Vec3{0, -2, 1}, mgl32.Vec3{-4.371139e-08, -1.9999999, 1})

	// mgl32's threshold comparison is relative and rejects the same values.
	assert.False(t, mgl32.Vec3{1.5, 0, 0}.ApproxEqualThreshold(mgl32.Vec3{1.5, 0, -6.556708e-08}, tolerance))
}

func sampleTransforms() []Transform {
	return []Transform{
		NewTransform(),
		{
			Translation: mgl32.Vec3{1, -2, 3},
			Scale:       mgl32.Vec3{2, 0.5, 3},
			Rotation:    mgl32.Vec3{0.3, -1.2, 2.1},
		},
		{
			Translation: mgl32.Vec3{-0.5, 0, 2.5},
			Scale:       mgl32.Vec3{3, 1.5, 3},
			Rotation:    mgl32.Vec3{math.Pi / 2, math.Pi, 0},
		},
	}
}

func TestTransformMat4(t *testing.T) {
	for _, tr := range sampleTransforms() {
		want := mgl32.Translate3D(tr.Translation.Elem()).
			Mul4(mgl32.HomogRotate3DY(tr.Rotation.Y())).
			Mul4(mgl32.HomogRotate3DX(tr.Rotation.X())).
			Mul4(mgl32.HomogRotate3DZ(tr.Rotation.Z())).
			Mul4(mgl32.Scale3D(tr.Scale.Elem()))

		assertMat4Near(t, want, TransformMat4(tr))
	}
}

func TestNormalMatrix(t *testing.T) {
	for _, tr := range sampleTransforms() {
		want := TransformMat4(tr).Mat3().Inv().Transpose()
		assertMat3Near(t, want, NormalMatrix(tr))
	}
}
