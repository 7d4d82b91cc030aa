package vkr

import (
	vk "github.com/vulkan-go/vulkan"

	"ritis/src/render"
)

// CommandBuffer records into a primary vk.CommandBuffer. Render systems that
// issue native commands reach the handle through VK.
type CommandBuffer struct {
	VKCommandBuffer vk.CommandBuffer
}

var _ render.CommandBuffer = (*CommandBuffer)(nil)

func (c *CommandBuffer) VK() vk.CommandBuffer {
	return c.VKCommandBuffer
}

func (c *CommandBuffer) Begin() error {
	beginInfo := vk.CommandBufferBeginInfo{
		SType: vk.StructureTypeCommandBufferBeginInfo,
	}
	return NewError(vk.BeginCommandBuffer(c.VKCommandBuffer, &beginInfo))
}

func (c *CommandBuffer) End() error {
	return NewError(vk.EndCommandBuffer(c.VKCommandBuffer))
}

func (c *CommandBuffer) Reset() error {
	return NewError(vk.ResetCommandBuffer(c.VKCommandBuffer, 0))
}

func clearValues(values []render.ClearValue) []vk.ClearValue {
	out := make([]vk.ClearValue, len(values))
	for i, v := range values {
		if v.IsDepth {
			out[i] = vk.NewClearDepthStencil(v.DepthStencil.Depth, v.DepthStencil.Stencil)
			continue
		}
		out[i] = vk.NewClearValue(v.Color[:])
	}
	return out
}

func rect2D(r render.Rect) vk.Rect2D {
	return vk.Rect2D{
		Offset: vk.Offset2D{X: r.Offset.X, Y: r.Offset.Y},
		Extent: vk.Extent2D{Width: r.Extent.Width, Height: r.Extent.Height},
	}
}

// BeginRenderPass expects the handles returned by Swapchain.
func (c *CommandBuffer) BeginRenderPass(info render.RenderPassBegin) {
	values := clearValues(info.ClearValues)
	beginInfo := vk.RenderPassBeginInfo{
		SType:           vk.StructureTypeRenderPassBeginInfo,
		RenderPass:      info.RenderPass.(vk.RenderPass),
		Framebuffer:     info.Framebuffer.(vk.Framebuffer),
		RenderArea:      rect2D(info.Area),
		ClearValueCount: uint32(len(values)),
		PClearValues:    values,
	}
	vk.CmdBeginRenderPass(c.VKCommandBuffer, &beginInfo, vk.SubpassContentsInline)
}

func (c *CommandBuffer) EndRenderPass() {
	vk.CmdEndRenderPass(c.VKCommandBuffer)
}

func (c *CommandBuffer) SetViewport(v render.Viewport) {
	vk.CmdSetViewport(c.VKCommandBuffer, 0, 1, []vk.Viewport{{
		X:        v.X,
		Y:        v.Y,
		Width:    v.Width,
		Height:   v.Height,
		MinDepth: v.MinDepth,
		MaxDepth: v.MaxDepth,
	}})
}

func (c *CommandBuffer) SetScissor(r render.Rect) {
	vk.CmdSetScissor(c.VKCommandBuffer, 0, 1, []vk.Rect2D{rect2D(r)})
}
