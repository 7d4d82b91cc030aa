package render

import "fmt"

// Handle is an opaque backend object such as a render pass, framebuffer or
// descriptor set. Backends type-assert it back to the native handle.
type Handle any

// Format identifies a pixel format. The value is backend defined.
type Format int32

type Extent struct {
	Width  uint32
	Height uint32
}

// IsZero reports whether either dimension is zero.
func (e Extent) IsZero() bool {
	return e.Width == 0 || e.Height == 0
}

func (e Extent) AspectRatio() float32 {
	if e.Height == 0 {
		return 0
	}
	return float32(e.Width) / float32(e.Height)
}

func (e Extent) String() string {
	return fmt.Sprintf("%dx%d", e.Width, e.Height)
}

type Offset struct {
	X int32
	Y int32
}

type Rect struct {
	Offset Offset
	Extent Extent
}

type Viewport struct {
	X, Y          float32
	Width, Height float32
	MinDepth      float32
	MaxDepth      float32
}

type ClearColor [4]float32

type ClearDepthStencil struct {
	Depth   float32
	Stencil uint32
}

// ClearValue holds either a color or a depth/stencil clear, matching the
// attachment at the same index of the render pass.
type ClearValue struct {
	Color        ClearColor
	DepthStencil ClearDepthStencil
	IsDepth      bool
}

type RenderPassBegin struct {
	RenderPass  Handle
	Framebuffer Handle
	Area        Rect
	ClearValues []ClearValue
}
