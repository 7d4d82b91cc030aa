package render

// Surface is the drawable area the swapchain presents to, usually a window.
type Surface interface {
	// Extent returns the current framebuffer size in pixels. Either dimension
	// is zero while the surface is minimized.
	Extent() Extent
	WasResized() bool
	ResetResized()
	// WaitEvents blocks until the windowing system delivers an event.
	WaitEvents()
}

// Device is the part of the GPU device the frame scheduler depends on.
type Device interface {
	WaitIdle() error
	AllocateCommandBuffers(count int) ([]CommandBuffer, error)
	FreeCommandBuffers(buffers []CommandBuffer)
}

// CommandBuffer is a backend recording target. State tracking is done by
// RecordingTarget, implementations only forward to the graphics API.
type CommandBuffer interface {
	Begin() error
	End() error
	Reset() error
	BeginRenderPass(info RenderPassBegin)
	EndRenderPass()
	SetViewport(viewport Viewport)
	SetScissor(scissor Rect)
}

// Swapchain is one generation of presentable images sized to the surface.
//
// AcquireNextImage must not return before the previous submission made for
// frameSlot, and the previous submission that rendered into the returned
// image, have completed. outdated is reported only when the swapchain can no
// longer be used (a suboptimal swapchain still acquires).
//
// Present submits cmd for frameSlot and queues imageIndex for presentation.
// outdated is reported when the swapchain is out of date or suboptimal.
type Swapchain interface {
	AcquireNextImage(frameSlot int) (imageIndex uint32, outdated bool, err error)
	Present(frameSlot int, cmd CommandBuffer, imageIndex uint32) (outdated bool, err error)

	RenderPass() Handle
	Framebuffer(imageIndex uint32) Handle
	Extent() Extent
	ImageCount() int
	ImageFormat() Format
	DepthFormat() Format

	Destroy()
}

// SwapchainFactory builds swapchains. old is nil for the first swapchain,
// otherwise it is the generation being replaced and may be used to recycle
// its images. The factory must not destroy old.
type SwapchainFactory interface {
	CreateSwapchain(extent Extent, old Swapchain) (Swapchain, error)
}

// CompareSwapFormats reports whether two swapchains can be used with the same
// render pass and pipelines.
func CompareSwapFormats(a, b Swapchain) bool {
	return a.ImageFormat() == b.ImageFormat() && a.DepthFormat() == b.DepthFormat()
}
