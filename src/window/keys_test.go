package window

import (
	"testing"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/stretchr/testify/assert"

	"ritis/src/scene"
)

func TestDefaultKeyMap(t *testing.T) {
	keys := DefaultKeyMap()
	assert.Len(t, keys, 10)
	assert.Equal(t, glfw.KeyW, keys[scene.MoveForward])
	assert.Equal(t, glfw.KeyS, keys[scene.MoveBackward])
	assert.Equal(t, glfw.KeyE, keys[scene.MoveUp])
	assert.Equal(t, glfw.KeyQ, keys[scene.MoveDown])
	assert.Equal(t, glfw.KeyLeft, keys[scene.LookLeft])
	assert.Equal(t, glfw.KeyDown, keys[scene.LookDown])

	seen := map[glfw.Key]scene.Action{}
	for action, key := range keys {
		_, dup := seen[key]
		assert.False(t, dup, "key %v bound twice", key)
		seen[key] = action
	}
}

func TestPressedUnboundAction(t *testing.T) {
	w := &Window{keys: KeyMap{}}
	assert.False(t, w.Pressed(scene.MoveForward))
}
