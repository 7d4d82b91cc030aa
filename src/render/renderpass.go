package render

// clearValues matches the swapchain render pass attachments: color at 0,
// depth/stencil at 1.
func (r *Renderer) clearValues() []ClearValue {
	return []ClearValue{
		{Color: r.opts.clearColor},
		{DepthStencil: ClearDepthStencil{Depth: 1.0, Stencil: 0}, IsDepth: true},
	}
}

func (r *Renderer) checkTarget(t *RecordingTarget, op string) error {
	if !r.isFrameStarted {
		return assertf("render: cannot %s swapchain render pass while frame is not in progress", op)
	}
	current, err := r.target()
	if err != nil {
		return err
	}
	if t != current {
		return assertf("render: cannot %s render pass on command buffer from a different frame", op)
	}
	return nil
}

// BeginSwapchainRenderPass starts the on-screen render pass on t, which must
// be the target returned by BeginFrame, and sets viewport and scissor to the
// swapchain extent.
func (r *Renderer) BeginSwapchainRenderPass(t *RecordingTarget) error {
	if err := r.checkTarget(t, "begin"); err != nil {
		return err
	}
	extent := r.swapchain.Extent()
	err := t.BeginRenderPass(RenderPassBegin{
		RenderPass:  r.swapchain.RenderPass(),
		Framebuffer: r.swapchain.Framebuffer(r.currentImageIndex),
		Area:        Rect{Extent: extent},
		ClearValues: r.clearValues(),
	})
	if err != nil {
		return err
	}

	t.SetViewport(Viewport{
		X:        0,
		Y:        0,
		Width:    float32(extent.Width),
		Height:   float32(extent.Height),
		MinDepth: 0,
		MaxDepth: 1,
	})
	t.SetScissor(Rect{Extent: extent})
	return nil
}

func (r *Renderer) EndSwapchainRenderPass(t *RecordingTarget) error {
	if err := r.checkTarget(t, "end"); err != nil {
		return err
	}
	return t.EndRenderPass()
}
