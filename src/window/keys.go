package window

import (
	"github.com/go-gl/glfw/v3.3/glfw"

	"ritis/src/scene"
)

// KeyMap binds movement actions to keyboard keys.
type KeyMap map[scene.Action]glfw.Key

// DefaultKeyMap moves with WASD plus E and Q for up and down, and looks
// around with the arrow keys.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		scene.MoveLeft:     glfw.KeyA,
		scene.MoveRight:    glfw.KeyD,
		scene.MoveForward:  glfw.KeyW,
		scene.MoveBackward: glfw.KeyS,
		scene.MoveUp:       glfw.KeyE,
		scene.MoveDown:     glfw.KeyQ,
		scene.LookLeft:     glfw.KeyLeft,
		scene.LookRight:    glfw.KeyRight,
		scene.LookUp:       glfw.KeyUp,
		scene.LookDown:     glfw.KeyDown,
	}
}
