package vkr

import (
	"github.com/cockroachdb/errors"
	vk "github.com/vulkan-go/vulkan"

	"ritis/src/render"
)

// MaxFramesInFlight is the default number of frame slots of the swapchain
// synchronization objects.
const MaxFramesInFlight = render.DefaultFramesInFlight

type SwapchainOptions struct {
	FramesInFlight int
	VSync          bool
}

// SwapchainFactory builds swapchains for one surface. It implements
// render.SwapchainFactory.
type SwapchainFactory struct {
	device  *Device
	surface vk.Surface
	opts    SwapchainOptions
}

var _ render.SwapchainFactory = (*SwapchainFactory)(nil)

func NewSwapchainFactory(device *Device, surface vk.Surface, opts SwapchainOptions) *SwapchainFactory {
	if opts.FramesInFlight < 1 {
		opts.FramesInFlight = MaxFramesInFlight
	}
	return &SwapchainFactory{device: device, surface: surface, opts: opts}
}

// Swapchain owns the presentable images, the per-image depth attachments and
// framebuffers, the render pass and the per-slot synchronization objects.
type Swapchain struct {
	device      *Device
	VKSwapchain vk.Swapchain

	extent      vk.Extent2D
	imageFormat vk.Format
	depthFormat vk.Format

	images       []vk.Image
	views        []vk.ImageView
	depth        []attachmentImage
	framebuffers []vk.Framebuffer
	renderPass   vk.RenderPass

	imageAvailable []vk.Semaphore
	inFlight       []vk.Fence
	// renderFinished is indexed by image, presentation holds it until that
	// image is acquired again.
	renderFinished []vk.Semaphore
	// imagesInFlight holds the slot fence that last submitted work for each
	// image, or a null fence.
	imagesInFlight []vk.Fence
}

var _ render.Swapchain = (*Swapchain)(nil)

var nullFence = vk.Fence(vk.NullHandle)

// CreateSwapchain builds a swapchain for extent. A previous swapchain is
// passed to the driver as OldSwapchain and stays valid until the caller
// destroys it.
func (f *SwapchainFactory) CreateSwapchain(extent render.Extent, old render.Swapchain) (render.Swapchain, error) {
	s := &Swapchain{device: f.device}
	var previous vk.Swapchain = vk.NullSwapchain
	if prev, ok := old.(*Swapchain); ok && prev != nil {
		previous = prev.VKSwapchain
	}

	steps := []struct {
		name string
		fn   func() error
	}{
		{"swapchain", func() error { return s.createSwapchain(f.surface, extent, previous, f.opts.VSync) }},
		{"image views", s.createImageViews},
		{"render pass", s.createRenderPass},
		{"depth resources", s.createDepthResources},
		{"framebuffers", s.createFramebuffers},
		{"sync objects", func() error { return s.createSyncObjects(f.opts.FramesInFlight) }},
	}
	for _, step := range steps {
		if err := step.fn(); err != nil {
			s.Destroy()
			return nil, errors.Wrapf(err, "vkr: failed to create %s", step.name)
		}
	}
	return s, nil
}

func (s *Swapchain) createSwapchain(surface vk.Surface, window render.Extent, previous vk.Swapchain, vsync bool) error {
	support, err := querySurfaceSupport(s.device.PhysicalDevice, surface)
	if err != nil {
		return err
	}
	if len(support.formats) == 0 {
		return errors.New("surface reports no formats")
	}
	format := chooseSurfaceFormat(support.formats)
	mode := choosePresentMode(support.presentModes, vsync)
	extent := chooseExtent(support.caps, window)
	count := chooseImageCount(support.caps)

	createInfo := vk.SwapchainCreateInfo{
		SType:            vk.StructureTypeSwapchainCreateInfo,
		Surface:          surface,
		MinImageCount:    count,
		ImageFormat:      format.Format,
		ImageColorSpace:  format.ColorSpace,
		ImageExtent:      extent,
		ImageArrayLayers: 1,
		ImageUsage:       vk.ImageUsageFlags(vk.ImageUsageColorAttachmentBit),
		PreTransform:     support.caps.CurrentTransform,
		CompositeAlpha:   vk.CompositeAlphaOpaqueBit,
		PresentMode:      mode,
		Clipped:          vk.True,
		OldSwapchain:     previous,
	}
	families := s.device.families
	if families.graphics != families.present {
		indices := families.unique()
		createInfo.ImageSharingMode = vk.SharingModeConcurrent
		createInfo.QueueFamilyIndexCount = uint32(len(indices))
		createInfo.PQueueFamilyIndices = indices
	} else {
		createInfo.ImageSharingMode = vk.SharingModeExclusive
	}

	if err := NewError(vk.CreateSwapchain(s.device.VKDevice, &createInfo, nil, &s.VKSwapchain)); err != nil {
		return err
	}

	var imageCount uint32
	if err := NewError(vk.GetSwapchainImages(s.device.VKDevice, s.VKSwapchain, &imageCount, nil)); err != nil {
		return err
	}
	s.images = make([]vk.Image, imageCount)
	if err := NewError(vk.GetSwapchainImages(s.device.VKDevice, s.VKSwapchain, &imageCount, s.images)); err != nil {
		return err
	}
	s.imageFormat = format.Format
	s.extent = extent
	render.Logger().Debug("vkr: swapchain images", "count", imageCount, "present_mode", mode, "format", format.Format)
	return nil
}

func (s *Swapchain) createImageViews() error {
	s.views = make([]vk.ImageView, len(s.images))
	for i, img := range s.images {
		view, err := s.device.createImageView(img, s.imageFormat, vk.ImageAspectColorBit)
		if err != nil {
			return errors.Wrapf(err, "image %d", i)
		}
		s.views[i] = view
	}
	return nil
}

func (s *Swapchain) createRenderPass() error {
	depthFormat, err := s.device.findDepthFormat()
	if err != nil {
		return err
	}
	s.depthFormat = depthFormat

	attachments := []vk.AttachmentDescription{{
		Format:         s.imageFormat,
		Samples:        vk.SampleCount1Bit,
		LoadOp:         vk.AttachmentLoadOpClear,
		StoreOp:        vk.AttachmentStoreOpStore,
		StencilLoadOp:  vk.AttachmentLoadOpDontCare,
		StencilStoreOp: vk.AttachmentStoreOpDontCare,
		InitialLayout:  vk.ImageLayoutUndefined,
		FinalLayout:    vk.ImageLayoutPresentSrc,
	}, {
		Format:         depthFormat,
		Samples:        vk.SampleCount1Bit,
		LoadOp:         vk.AttachmentLoadOpClear,
		StoreOp:        vk.AttachmentStoreOpDontCare,
		StencilLoadOp:  vk.AttachmentLoadOpDontCare,
		StencilStoreOp: vk.AttachmentStoreOpDontCare,
		InitialLayout:  vk.ImageLayoutUndefined,
		FinalLayout:    vk.ImageLayoutDepthStencilAttachmentOptimal,
	}}
	depthRef := vk.AttachmentReference{
		Attachment: 1,
		Layout:     vk.ImageLayoutDepthStencilAttachmentOptimal,
	}
	subpass := vk.SubpassDescription{
		PipelineBindPoint:    vk.PipelineBindPointGraphics,
		ColorAttachmentCount: 1,
		PColorAttachments: []vk.AttachmentReference{{
			Attachment: 0,
			Layout:     vk.ImageLayoutColorAttachmentOptimal,
		}},
		PDepthStencilAttachment: &depthRef,
	}
	stages := vk.PipelineStageFlags(vk.PipelineStageColorAttachmentOutputBit | vk.PipelineStageEarlyFragmentTestsBit)
	dependency := vk.SubpassDependency{
		SrcSubpass:    vk.SubpassExternal,
		DstSubpass:    0,
		SrcStageMask:  stages,
		SrcAccessMask: 0,
		DstStageMask:  stages,
		DstAccessMask: vk.AccessFlags(vk.AccessColorAttachmentWriteBit | vk.AccessDepthStencilAttachmentWriteBit),
	}
	createInfo := vk.RenderPassCreateInfo{
		SType:           vk.StructureTypeRenderPassCreateInfo,
		AttachmentCount: uint32(len(attachments)),
		PAttachments:    attachments,
		SubpassCount:    1,
		PSubpasses:      []vk.SubpassDescription{subpass},
		DependencyCount: 1,
		PDependencies:   []vk.SubpassDependency{dependency},
	}
	return NewError(vk.CreateRenderPass(s.device.VKDevice, &createInfo, nil, &s.renderPass))
}

func (s *Swapchain) createDepthResources() error {
	s.depth = make([]attachmentImage, 0, len(s.images))
	for i := range s.images {
		a, err := s.device.createDepthImage(s.extent, s.depthFormat)
		if err != nil {
			return errors.Wrapf(err, "image %d", i)
		}
		s.depth = append(s.depth, a)
	}
	return nil
}

func (s *Swapchain) createFramebuffers() error {
	s.framebuffers = make([]vk.Framebuffer, len(s.images))
	for i := range s.images {
		attachments := []vk.ImageView{s.views[i], s.depth[i].view}
		createInfo := vk.FramebufferCreateInfo{
			SType:           vk.StructureTypeFramebufferCreateInfo,
			RenderPass:      s.renderPass,
			AttachmentCount: uint32(len(attachments)),
			PAttachments:    attachments,
			Width:           s.extent.Width,
			Height:          s.extent.Height,
			Layers:          1,
		}
		if err := NewError(vk.CreateFramebuffer(s.device.VKDevice, &createInfo, nil, &s.framebuffers[i])); err != nil {
			return errors.Wrapf(err, "image %d", i)
		}
	}
	return nil
}

func (s *Swapchain) createSyncObjects(framesInFlight int) error {
	s.imageAvailable = make([]vk.Semaphore, framesInFlight)
	s.inFlight = make([]vk.Fence, framesInFlight)
	s.renderFinished = make([]vk.Semaphore, len(s.images))
	s.imagesInFlight = make([]vk.Fence, len(s.images))
	for i := range s.imagesInFlight {
		s.imagesInFlight[i] = nullFence
	}

	semInfo := vk.SemaphoreCreateInfo{
		SType: vk.StructureTypeSemaphoreCreateInfo,
	}
	fenceInfo := vk.FenceCreateInfo{
		SType: vk.StructureTypeFenceCreateInfo,
		Flags: vk.FenceCreateFlags(vk.FenceCreateSignaledBit),
	}
	dev := s.device.VKDevice
	for i := 0; i < framesInFlight; i++ {
		if err := NewError(vk.CreateSemaphore(dev, &semInfo, nil, &s.imageAvailable[i])); err != nil {
			return errors.Wrapf(err, "frame %d", i)
		}
		if err := NewError(vk.CreateFence(dev, &fenceInfo, nil, &s.inFlight[i])); err != nil {
			return errors.Wrapf(err, "frame %d", i)
		}
	}
	for i := range s.renderFinished {
		if err := NewError(vk.CreateSemaphore(dev, &semInfo, nil, &s.renderFinished[i])); err != nil {
			return errors.Wrapf(err, "image %d", i)
		}
	}
	return nil
}

func (s *Swapchain) checkImage(imageIndex uint32) error {
	if int(imageIndex) >= len(s.renderFinished) {
		return errors.AssertionFailedf("vkr: image index %d out of range [0, %d)", imageIndex, len(s.renderFinished))
	}
	return nil
}

func (s *Swapchain) checkSlot(frameSlot int) error {
	if frameSlot < 0 || frameSlot >= len(s.inFlight) {
		return errors.AssertionFailedf("vkr: frame slot %d out of range [0, %d)", frameSlot, len(s.inFlight))
	}
	return nil
}

// AcquireNextImage waits for the slot's previous submission, acquires an
// image signaling the slot's image-available semaphore and then waits for any
// other slot still rendering to that image. Once it returns, every command
// buffer submitted from this slot or for this image has completed.
func (s *Swapchain) AcquireNextImage(frameSlot int) (uint32, bool, error) {
	if err := s.checkSlot(frameSlot); err != nil {
		return 0, false, err
	}
	dev := s.device.VKDevice
	if err := NewError(vk.WaitForFences(dev, 1, []vk.Fence{s.inFlight[frameSlot]}, vk.True, vk.MaxUint64)); err != nil {
		return 0, false, errors.Wrap(err, "failed waiting for frame fence")
	}

	var imageIndex uint32
	ret := vk.AcquireNextImage(dev, s.VKSwapchain, vk.MaxUint64, s.imageAvailable[frameSlot], nullFence, &imageIndex)
	outdated, err := acquireStatus(ret)
	if err != nil || outdated {
		return 0, outdated, err
	}

	if fence := s.imagesInFlight[imageIndex]; fence != nullFence {
		if err := NewError(vk.WaitForFences(dev, 1, []vk.Fence{fence}, vk.True, vk.MaxUint64)); err != nil {
			return 0, false, errors.Wrap(err, "failed waiting for image fence")
		}
	}
	return imageIndex, false, nil
}

// Present submits cmd on the graphics queue and presents imageIndex once it
// finished rendering. outdated reports an out of date or suboptimal
// swapchain.
func (s *Swapchain) Present(frameSlot int, cmd render.CommandBuffer, imageIndex uint32) (bool, error) {
	if err := s.checkSlot(frameSlot); err != nil {
		return false, err
	}
	if err := s.checkImage(imageIndex); err != nil {
		return false, err
	}
	buffer, ok := cmd.(*CommandBuffer)
	if !ok {
		return false, errors.AssertionFailedf("vkr: cannot submit %T", cmd)
	}
	dev := s.device.VKDevice
	fence := s.inFlight[frameSlot]
	s.imagesInFlight[imageIndex] = fence

	if err := NewError(vk.ResetFences(dev, 1, []vk.Fence{fence})); err != nil {
		return false, errors.Wrap(err, "failed to reset frame fence")
	}
	submitInfo := vk.SubmitInfo{
		SType:                vk.StructureTypeSubmitInfo,
		WaitSemaphoreCount:   1,
		PWaitSemaphores:      []vk.Semaphore{s.imageAvailable[frameSlot]},
		PWaitDstStageMask:    []vk.PipelineStageFlags{vk.PipelineStageFlags(vk.PipelineStageColorAttachmentOutputBit)},
		CommandBufferCount:   1,
		PCommandBuffers:      []vk.CommandBuffer{buffer.VKCommandBuffer},
		SignalSemaphoreCount: 1,
		PSignalSemaphores:    []vk.Semaphore{s.renderFinished[imageIndex]},
	}
	if err := NewError(vk.QueueSubmit(s.device.GraphicsQueue, 1, []vk.SubmitInfo{submitInfo}, fence)); err != nil {
		return false, errors.Wrap(err, "failed to submit draw command buffer")
	}

	presentInfo := vk.PresentInfo{
		SType:              vk.StructureTypePresentInfo,
		WaitSemaphoreCount: 1,
		PWaitSemaphores:    []vk.Semaphore{s.renderFinished[imageIndex]},
		SwapchainCount:     1,
		PSwapchains:        []vk.Swapchain{s.VKSwapchain},
		PImageIndices:      []uint32{imageIndex},
	}
	return presentStatus(vk.QueuePresent(s.device.PresentQueue, &presentInfo))
}

func (s *Swapchain) RenderPass() render.Handle {
	return s.renderPass
}

func (s *Swapchain) Framebuffer(imageIndex uint32) render.Handle {
	return s.framebuffers[imageIndex]
}

func (s *Swapchain) Extent() render.Extent {
	return render.Extent{Width: s.extent.Width, Height: s.extent.Height}
}

func (s *Swapchain) ImageCount() int {
	return len(s.images)
}

func (s *Swapchain) ImageFormat() render.Format {
	return render.Format(s.imageFormat)
}

func (s *Swapchain) DepthFormat() render.Format {
	return render.Format(s.depthFormat)
}

// Destroy releases everything the swapchain created. The device must be idle.
func (s *Swapchain) Destroy() {
	dev := s.device.VKDevice
	for _, fb := range s.framebuffers {
		vk.DestroyFramebuffer(dev, fb, nil)
	}
	for _, a := range s.depth {
		s.device.destroyAttachment(a)
	}
	for _, v := range s.views {
		vk.DestroyImageView(dev, v, nil)
	}
	vk.DestroyRenderPass(dev, s.renderPass, nil)
	vk.DestroySwapchain(dev, s.VKSwapchain, nil)

	for i := range s.inFlight {
		vk.DestroySemaphore(dev, s.imageAvailable[i], nil)
		vk.DestroyFence(dev, s.inFlight[i], nil)
	}
	for _, sem := range s.renderFinished {
		vk.DestroySemaphore(dev, sem, nil)
	}
	*s = Swapchain{device: s.device}
}
