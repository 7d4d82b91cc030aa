package scene

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Action is a movement input independent of the key it is bound to.
type Action int

const (
	MoveLeft Action = iota
	MoveRight
	MoveForward
	MoveBackward
	MoveUp
	MoveDown
	LookLeft
	LookRight
	LookUp
	LookDown
)

// KeyState reports whether the key bound to an action is held down.
type KeyState interface {
	Pressed(Action) bool
}

const (
	DefaultMoveSpeed = 3.0
	DefaultLookSpeed = 1.5

	// pitchLimit keeps the camera about 85 degrees from vertical.
	pitchLimit = 1.5
	twoPi      = 2 * math.Pi
)

type MovementController struct {
	MoveSpeed float32
	LookSpeed float32
}

func NewMovementController() *MovementController {
	return &MovementController{MoveSpeed: DefaultMoveSpeed, LookSpeed: DefaultLookSpeed}
}

func axis(keys KeyState, pos, neg Action) float32 {
	var v float32
	if keys.Pressed(pos) {
		v++
	}
	if keys.Pressed(neg) {
		v--
	}
	return v
}

// wrapAngle maps a into [0, 2π).
func wrapAngle(a float32) float32 {
	r := math.Mod(float64(a), twoPi)
	if r < 0 {
		r += twoPi
	}
	return float32(r)
}

// MoveInPlaneXZ rotates obj by the look keys and moves it in the XZ plane
// relative to its yaw, scaled by dt. Diagonal input is normalized.
func (c *MovementController) MoveInPlaneXZ(keys KeyState, dt float32, obj *GameObject) {
	rotate := mgl32.Vec3{axis(keys, LookUp, LookDown), axis(keys, LookRight, LookLeft), 0}
	if rotate.Dot(rotate) > epsilon {
		obj.Transform.Rotation = obj.Transform.Rotation.Add(rotate.Normalize().Mul(c.LookSpeed * dt))
	}

	obj.Transform.Rotation[0] = mgl32.Clamp(obj.Transform.Rotation[0], -pitchLimit, pitchLimit)
	obj.Transform.Rotation[1] = wrapAngle(obj.Transform.Rotation[1])

	yawSin, yawCos := sincos(obj.Transform.Rotation.Y())
	forward := mgl32.Vec3{yawSin, 0, yawCos}
	right := mgl32.Vec3{forward.Z(), 0, -forward.X()}
	up := DefaultUp

	move := forward.Mul(axis(keys, MoveForward, MoveBackward)).
		Add(right.Mul(axis(keys, MoveRight, MoveLeft))).
		Add(up.Mul(axis(keys, MoveUp, MoveDown)))
	if move.Dot(move) > epsilon {
		obj.Transform.Translation = obj.Transform.Translation.Add(move.Normalize().Mul(c.MoveSpeed * dt))
	}
}
