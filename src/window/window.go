// Package window wraps a GLFW window that backs a Vulkan surface.
//
// GLFW must be driven from the main OS thread, so Init, New and every Window
// method are expected to run on the goroutine that locked it.
package window

import (
	"github.com/cockroachdb/errors"
	"github.com/go-gl/glfw/v3.3/glfw"
	vk "github.com/vulkan-go/vulkan"

	"ritis/src/render"
	"ritis/src/scene"
)

func Init() error {
	return errors.Wrap(glfw.Init(), "window: glfw init")
}

func Terminate() {
	glfw.Terminate()
}

// InitVulkan loads the Vulkan loader through GLFW. Call it after Init.
func InitVulkan() error {
	if !glfw.VulkanSupported() {
		return errors.New("window: vulkan is not supported by glfw")
	}
	vk.SetGetInstanceProcAddr(glfw.GetVulkanGetInstanceProcAddress())
	return errors.Wrap(vk.Init(), "window: vulkan init")
}

// Window satisfies render.Surface.
type Window struct {
	handle  *glfw.Window
	resized bool
	keys    KeyMap
}

var _ render.Surface = (*Window)(nil)

func New(width, height int, title string) (*Window, error) {
	glfw.WindowHint(glfw.ClientAPI, glfw.NoAPI)
	glfw.WindowHint(glfw.Resizable, glfw.True)
	handle, err := glfw.CreateWindow(width, height, title, nil, nil)
	if err != nil {
		return nil, errors.Wrapf(err, "window: create %dx%d", width, height)
	}

	w := &Window{handle: handle, keys: DefaultKeyMap()}
	handle.SetFramebufferSizeCallback(func(_ *glfw.Window, width, height int) {
		w.resized = true
		render.Logger().Debug("window: framebuffer resized", "width", width, "height", height)
	})
	return w, nil
}

// SetKeyMap replaces the action bindings used by Pressed.
func (w *Window) SetKeyMap(keys KeyMap) {
	w.keys = keys
}

func (w *Window) Extent() render.Extent {
	width, height := w.handle.GetFramebufferSize()
	return render.Extent{Width: uint32(width), Height: uint32(height)}
}

func (w *Window) WasResized() bool {
	return w.resized
}

func (w *Window) ResetResized() {
	w.resized = false
}

func (w *Window) WaitEvents() {
	glfw.WaitEvents()
}

func (w *Window) PollEvents() {
	glfw.PollEvents()
}

func (w *Window) ShouldClose() bool {
	return w.handle.ShouldClose()
}

// RequiredInstanceExtensions lists the instance extensions GLFW needs to
// present to this window.
func (w *Window) RequiredInstanceExtensions() []string {
	return w.handle.GetRequiredInstanceExtensions()
}

func (w *Window) CreateSurface(instance vk.Instance) (vk.Surface, error) {
	ptr, err := w.handle.CreateWindowSurface(instance, nil)
	if err != nil {
		return vk.NullSurface, errors.Wrap(err, "window: create surface")
	}
	return vk.SurfaceFromPointer(ptr), nil
}

// Pressed reports whether a key bound to action is held down. It satisfies
// scene.KeyState.
func (w *Window) Pressed(action scene.Action) bool {
	key, ok := w.keys[action]
	return ok && w.handle.GetKey(key) == glfw.Press
}

func (w *Window) Destroy() {
	if w.handle != nil {
		w.handle.Destroy()
		w.handle = nil
	}
}
