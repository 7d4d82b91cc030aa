package scene

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

type keys map[Action]bool

func (k keys) Pressed(a Action) bool {
	return k[a]
}

func TestMoveInPlaneXZIdle(t *testing.T) {
	c := NewMovementController()
	obj := NewRegistry(nil).Create()
	obj.Transform.Translation = mgl32.Vec3{1, 2, 3}

	c.MoveInPlaneXZ(keys{}, 1, obj)
	assert.Equal(t, mgl32.Vec3{1, 2, 3}, obj.Transform.Translation)
	assert.Equal(t, mgl32.Vec3{}, obj.Transform.Rotation)
}

func TestMoveInPlaneXZTranslation(t *testing.T) {
	tests := []struct {
		name string
		keys keys
		want mgl32.Vec3
	}{
		{"forward", keys{MoveForward: true}, mgl32.Vec3{0, 0, 3}},
		{"backward", keys{MoveBackward: true}, mgl32.Vec3{0, 0, -3}},
		{"right", keys{MoveRight: true}, mgl32.Vec3{3, 0, 0}},
		{"left", keys{MoveLeft: true}, mgl32.Vec3{-3, 0, 0}},
		{"up", keys{MoveUp: true}, mgl32.Vec3{0, -3, 0}},
		{"down", keys{MoveDown: true}, mgl32.Vec3{0, 3, 0}},
		{"opposite keys cancel", keys{MoveForward: true, MoveBackward: true}, mgl32.Vec3{}},
		{"diagonal is normalized", keys{MoveForward: true, MoveRight: true}, mgl32.Vec3{3 / math.Sqrt2, 0, 3 / math.Sqrt2}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			obj := NewRegistry(nil).Create()
			NewMovementController().MoveInPlaneXZ(tt.keys, 1, obj)
			assertVec3Near(t, tt.want, obj.Transform.Translation)
		})
	}
}

func TestMoveInPlaneXZFollowsYaw(t *testing.T) {
	obj := NewRegistry(nil).Create()
	obj.Transform.Rotation[1] = math.Pi / 2

	NewMovementController().MoveInPlaneXZ(keys{MoveForward: true}, 0.5, obj)
	assertVec3Near(t, mgl32.Vec3{1.5, 0, 0}, obj.Transform.Translation)
}

func TestMoveInPlaneXZRotation(t *testing.T) {
	c := NewMovementController()
	obj := NewRegistry(nil).Create()

	c.MoveInPlaneXZ(keys{LookRight: true}, 1, obj)
	assert.InDelta(t, 1.5, obj.Transform.Rotation.Y(), tolerance)

	c.MoveInPlaneXZ(keys{LookUp: true}, 10, obj)
	assert.Equal(t, float32(pitchLimit), obj.Transform.Rotation.X())

	c.MoveInPlaneXZ(keys{LookDown: true}, 10, obj)
	assert.Equal(t, float32(-pitchLimit), obj.Transform.Rotation.X())
}

func TestMoveInPlaneXZWrapsYaw(t *testing.T) {
	c := NewMovementController()
	obj := NewRegistry(nil).Create()

	c.MoveInPlaneXZ(keys{LookLeft: true}, 1, obj)
	assert.InDelta(t, 2*math.Pi-1.5, obj.Transform.Rotation.Y(), tolerance)

	obj.Transform.Rotation[1] = 7
	c.MoveInPlaneXZ(keys{}, 1, obj)
	assert.InDelta(t, 7-2*math.Pi, obj.Transform.Rotation.Y(), tolerance)
}

func TestWrapAngle(t *testing.T) {
	assert.Equal(t, float32(0), wrapAngle(0))
	assert.InDelta(t, 1, wrapAngle(1), tolerance)
	assert.InDelta(t, 2*math.Pi-1, wrapAngle(-1), tolerance)
	assert.InDelta(t, 0.5, wrapAngle(4*math.Pi+0.5), tolerance)
}
