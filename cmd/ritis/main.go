// Command ritis opens a window and renders the demo scene.
package main

import (
	"os"
	"runtime"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	vk "github.com/vulkan-go/vulkan"
	"github.com/xlab/closer"

	"ritis/src/config"
	"ritis/src/render"
	"ritis/src/render/vkr"
	"ritis/src/scene"
	"ritis/src/window"
)

const (
	fovy = 50
	near = 0.1
	far  = 100
)

func init() {
	// GLFW and the Vulkan surface belong to the main thread.
	runtime.LockOSThread()
}

type app struct {
	win       *window.Window
	instance  *vkr.Instance
	surface   vk.Surface
	device    *vkr.Device
	renderer  *render.Renderer
	ubo       *vkr.UniformBuffer
	objects   *scene.Registry
	camera    *scene.Camera
	viewer    *scene.GameObject
	control   *scene.MovementController
	globalUbo scene.GlobalUbo
}

func main() {
	cfg, err := config.Load(config.Path())
	render.OrPanic(err)
	log, err := cfg.NewLogger(os.Stderr)
	render.OrPanic(err)
	render.SetLogger(log)

	// closer runs bound functions on its own goroutine, so teardown waits for
	// the render loop and happens here on the main thread.
	stop := make(chan struct{})
	done := make(chan struct{})
	closer.Bind(func() {
		close(stop)
		<-done
	})

	a := &app{}
	err = a.init(cfg)
	if err == nil {
		err = a.run(stop)
	}
	a.destroy()
	close(done)

	if err != nil {
		log.Error("ritis: exiting on error", "err", err)
		closer.Exit(1)
	}
	closer.Close()
}

func (a *app) init(cfg config.Config) (err error) {
	defer render.CheckError(&err)

	render.OrPanic(window.Init())
	a.win, err = window.New(cfg.Window.Width, cfg.Window.Height, cfg.Window.Title)
	render.OrPanic(err)
	render.OrPanic(window.InitVulkan())

	a.instance, err = vkr.NewInstance(vkr.InstanceOptions{
		AppName:    cfg.Window.Title,
		Extensions: a.win.RequiredInstanceExtensions(),
		Validation: cfg.Render.Validation,
	})
	render.OrPanic(err)

	a.surface, err = a.win.CreateSurface(a.instance.VKInstance)
	render.OrPanic(err)

	a.device, err = vkr.NewDevice(a.instance, a.surface)
	render.OrPanic(err)

	factory := vkr.NewSwapchainFactory(a.device, a.surface, vkr.SwapchainOptions{
		FramesInFlight: cfg.Render.FramesInFlight,
		VSync:          cfg.Render.VSync,
	})
	opts, err := cfg.RenderOptions()
	render.OrPanic(err)
	a.renderer, err = render.NewRenderer(a.win, a.device, factory, opts...)
	render.OrPanic(err)

	a.ubo, err = vkr.NewUniformBuffer(a.device, scene.GlobalUboSize, a.renderer.FramesInFlight())
	render.OrPanic(err)

	a.loadScene()
	log := render.Logger()
	log.Info("ritis: ready",
		"device", a.device.Name,
		"extent", a.renderer.Extent().String(),
		"images", a.renderer.Swapchain().ImageCount(),
		"binding", cfg.Render.Binding)
	return nil
}

func (a *app) loadScene() {
	a.objects = scene.NewRegistry(nil)
	a.camera = scene.NewCamera()
	a.control = scene.NewMovementController()
	a.globalUbo = scene.NewGlobalUbo()

	a.viewer = a.objects.Create()
	a.viewer.Transform.Translation[2] = -2.5

	colors := []mgl32.Vec3{
		{1, 0.1, 0.1},
		{0.1, 0.1, 1},
		{0.1, 1, 0.1},
		{1, 1, 0.1},
		{0.1, 1, 1},
		{1, 1, 1},
	}
	for i, color := range colors {
		light := a.objects.CreatePointLight(0.2, 0.1, color)
		rotation := mgl32.HomogRotate3D(float32(i)*mgl32.DegToRad(360)/float32(len(colors)), scene.DefaultUp)
		light.Transform.Translation = rotation.Mul4x1(mgl32.Vec4{-1, -1, -1, 1}).Vec3()
	}
}

func (a *app) run(stop <-chan struct{}) error {
	last := time.Now()
	for !a.win.ShouldClose() {
		select {
		case <-stop:
			return a.device.WaitIdle()
		default:
		}
		a.win.PollEvents()

		now := time.Now()
		dt := float32(now.Sub(last).Seconds())
		last = now

		if err := a.drawFrame(dt); err != nil {
			return err
		}
	}
	return a.device.WaitIdle()
}

func (a *app) drawFrame(dt float32) error {
	a.control.MoveInPlaneXZ(a.win, dt, a.viewer)
	a.camera.SetViewYXZ(a.viewer.Transform.Translation, a.viewer.Transform.Rotation)

	cmd, err := a.renderer.BeginFrame()
	if err != nil || cmd == nil {
		return err
	}
	if err := a.camera.SetPerspectiveProjection(mgl32.DegToRad(fovy), a.renderer.AspectRatio(), near, far); err != nil {
		return err
	}

	info := scene.FrameInfo{
		FrameIndex:    a.renderer.FrameIndex(),
		FrameTime:     dt,
		CommandBuffer: cmd,
		Camera:        a.camera,
		GameObjects:   a.objects.Objects,
	}
	if err := a.update(&info); err != nil {
		return err
	}

	if err := a.renderer.BeginSwapchainRenderPass(cmd); err != nil {
		return err
	}
	if err := a.renderer.EndSwapchainRenderPass(cmd); err != nil {
		return err
	}
	return a.renderer.EndFrame()
}

func (a *app) update(info *scene.FrameInfo) error {
	a.globalUbo.Projection = info.Camera.Projection()
	a.globalUbo.View = info.Camera.View()
	a.globalUbo.InverseView = info.Camera.InverseView()
	scene.RotateLights(info.GameObjects, info.FrameTime)
	if err := scene.UpdateLights(info.GameObjects, &a.globalUbo); err != nil {
		return err
	}
	if err := a.ubo.WriteToIndex(a.globalUbo.Bytes(), info.FrameIndex); err != nil {
		return err
	}
	return a.ubo.FlushIndex(info.FrameIndex)
}

func (a *app) destroy() {
	if a.renderer != nil {
		// a failed drawFrame can leave a frame open
		a.renderer.AbandonFrame()
		if err := a.renderer.Close(); err != nil {
			render.Logger().Error("ritis: closing renderer", "err", err)
		}
	}
	if a.ubo != nil {
		a.ubo.Destroy()
	}
	if a.device != nil {
		a.device.Destroy()
	}
	if a.surface != vk.NullSurface {
		a.instance.DestroySurface(a.surface)
	}
	if a.instance != nil {
		a.instance.Destroy()
	}
	if a.win != nil {
		a.win.Destroy()
	}
	window.Terminate()
}
