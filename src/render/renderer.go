package render

import "github.com/cockroachdb/errors"

// Renderer owns the current swapchain and the command buffer pool and drives
// the per-frame begin/record/submit/present protocol. At most one frame is in
// progress from the caller's side; the GPU pipelines frames through the
// frame slots.
//
// A Renderer is not safe for concurrent use, it belongs to the goroutine
// running the render loop.
type Renderer struct {
	surface Surface
	device  Device
	factory SwapchainFactory

	swapchain Swapchain
	pool      *CommandBufferPool
	opts      options

	currentImageIndex uint32
	currentFrameIndex int
	isFrameStarted    bool
}

// NewRenderer builds the first swapchain and allocates the command buffers.
// It blocks while the surface has a zero extent.
func NewRenderer(surface Surface, device Device, factory SwapchainFactory, opts ...Option) (*Renderer, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.framesInFlight < 1 {
		return nil, errors.Newf("render: frames in flight must be at least 1, got %d", o.framesInFlight)
	}

	r := &Renderer{
		surface: surface,
		device:  device,
		factory: factory,
		opts:    o,
	}
	if err := r.recreateSwapchain(); err != nil {
		return nil, err
	}
	r.pool = NewCommandBufferPool(device)
	if err := r.pool.Resize(r.poolSize()); err != nil {
		r.swapchain.Destroy()
		r.swapchain = nil
		return nil, err
	}
	return r, nil
}

func (r *Renderer) poolSize() int {
	if r.opts.binding == BindPerImage {
		return r.swapchain.ImageCount()
	}
	return r.opts.framesInFlight
}

// recreateSwapchain waits for a drawable surface and an idle device, then
// replaces the current swapchain. The old one is handed to the factory and
// destroyed once the new one exists.
func (r *Renderer) recreateSwapchain() error {
	extent := r.surface.Extent()
	for extent.IsZero() {
		logger().Debug("render: surface has zero extent, waiting for events", "extent", extent.String())
		r.surface.WaitEvents()
		extent = r.surface.Extent()
	}

	if err := r.device.WaitIdle(); err != nil {
		return errors.Wrap(err, "render: failed waiting for device idle")
	}
	if r.pool != nil {
		r.pool.DeviceIdle()
	}

	old := r.swapchain
	sc, err := r.factory.CreateSwapchain(extent, old)
	if err != nil {
		return errors.Wrapf(err, "render: failed to create swapchain (%s)", extent)
	}
	r.swapchain = sc

	if old != nil {
		compatible := CompareSwapFormats(old, sc)
		oldImage, oldDepth := old.ImageFormat(), old.DepthFormat()
		old.Destroy()
		if !compatible {
			return errors.Wrapf(ErrFormatChanged, "render: image format %d -> %d, depth format %d -> %d",
				oldImage, sc.ImageFormat(), oldDepth, sc.DepthFormat())
		}
	}

	if r.pool != nil && r.opts.binding == BindPerImage {
		if err := r.pool.Resize(sc.ImageCount()); err != nil {
			return err
		}
	}

	logger().Info("render: swapchain created",
		"extent", sc.Extent().String(),
		"images", sc.ImageCount(),
		"format", sc.ImageFormat(),
		"depth_format", sc.DepthFormat())
	return nil
}

func (r *Renderer) target() (*RecordingTarget, error) {
	if r.opts.binding == BindPerImage {
		return r.pool.Target(int(r.currentImageIndex))
	}
	return r.pool.Target(r.currentFrameIndex)
}

// BeginFrame acquires the next swapchain image and starts recording on the
// current frame slot's target. It returns nil and no error when the frame has
// to be skipped: the surface is minimized or the swapchain was out of date and
// has been rebuilt.
func (r *Renderer) BeginFrame() (*RecordingTarget, error) {
	if r.isFrameStarted {
		return nil, assertf("render: cannot call BeginFrame while a frame is already in progress")
	}
	if r.surface.Extent().IsZero() {
		logger().Debug("render: skipping frame, surface has zero extent")
		return nil, nil
	}

	imageIndex, outdated, err := r.swapchain.AcquireNextImage(r.currentFrameIndex)
	if err != nil {
		return nil, errors.Wrap(err, "render: failed to acquire swapchain image")
	}
	if outdated {
		logger().Debug("render: swapchain out of date on acquire, skipping frame")
		if err := r.recreateSwapchain(); err != nil {
			return nil, err
		}
		return nil, nil
	}

	r.currentImageIndex = imageIndex
	t, err := r.target()
	if err != nil {
		return nil, err
	}
	// the acquire waited on this target's previous submission
	t.Complete()
	if err := t.Begin(); err != nil {
		return nil, err
	}
	r.isFrameStarted = true
	return t, nil
}

// EndFrame ends recording, submits the frame and presents its image. A
// swapchain reported out of date or suboptimal, or a resized surface, causes
// a rebuild after presentation.
func (r *Renderer) EndFrame() error {
	if !r.isFrameStarted {
		return assertf("render: cannot call EndFrame while frame is not in progress")
	}
	t, err := r.target()
	if err != nil {
		return err
	}
	if err := t.End(); err != nil {
		return err
	}
	if err := t.submit(); err != nil {
		return err
	}

	outdated, err := r.swapchain.Present(r.currentFrameIndex, t.Buffer(), r.currentImageIndex)
	if err != nil {
		return errors.Wrap(err, "render: failed to present swapchain image")
	}

	r.isFrameStarted = false
	r.currentFrameIndex = (r.currentFrameIndex + 1) % r.opts.framesInFlight

	if resized := r.surface.WasResized(); outdated || resized {
		logger().Warn("render: rebuilding swapchain after present", "outdated", outdated, "resized", resized)
		r.surface.ResetResized()
		return r.recreateSwapchain()
	}
	return nil
}

// FrameIndex returns the active frame slot. It panics when no frame is in
// progress.
func (r *Renderer) FrameIndex() int {
	mustf(r.isFrameStarted, "render: cannot get frame index when frame not in progress")
	return r.currentFrameIndex
}

// ImageIndex returns the swapchain image acquired for the active frame. It
// panics when no frame is in progress.
func (r *Renderer) ImageIndex() uint32 {
	mustf(r.isFrameStarted, "render: cannot get image index when frame not in progress")
	return r.currentImageIndex
}

func (r *Renderer) IsFrameInProgress() bool {
	return r.isFrameStarted
}

// CurrentCommandBuffer returns the target being recorded. It panics when no
// frame is in progress.
func (r *Renderer) CurrentCommandBuffer() *RecordingTarget {
	mustf(r.isFrameStarted, "render: cannot get command buffer when frame not in progress")
	t, err := r.target()
	if err != nil {
		panic(err)
	}
	return t
}

func (r *Renderer) FramesInFlight() int {
	return r.opts.framesInFlight
}

func (r *Renderer) AspectRatio() float32 {
	return r.swapchain.Extent().AspectRatio()
}

func (r *Renderer) Extent() Extent {
	return r.swapchain.Extent()
}

func (r *Renderer) SwapchainRenderPass() Handle {
	return r.swapchain.RenderPass()
}

// Swapchain returns the current swapchain generation. It must not be retained
// across frames, a rebuild replaces it.
func (r *Renderer) Swapchain() Swapchain {
	return r.swapchain
}

// AbandonFrame drops the frame in progress without submitting it, so the
// renderer can be closed after recording failed. The acquired image is never
// presented, Close is the only call expected afterwards. It does nothing
// when no frame is in progress.
func (r *Renderer) AbandonFrame() {
	if !r.isFrameStarted {
		return
	}
	if t, err := r.target(); err == nil {
		t.Invalidate()
	}
	r.isFrameStarted = false
	logger().Warn("render: frame abandoned", "frame", r.currentFrameIndex, "image", r.currentImageIndex)
}

// Close waits for the device, frees the command buffers and destroys the
// swapchain. Calling Close with a frame in progress is a contract violation.
func (r *Renderer) Close() error {
	if r.isFrameStarted {
		return assertf("render: cannot close renderer while a frame is in progress")
	}
	if r.swapchain == nil {
		return nil
	}
	err := r.device.WaitIdle()
	if r.pool != nil {
		r.pool.DeviceIdle()
		r.pool.Free()
	}
	r.swapchain.Destroy()
	r.swapchain = nil
	return errors.Wrap(err, "render: failed waiting for device idle")
}
