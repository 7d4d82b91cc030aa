package render

import (
	"strings"

	"github.com/cockroachdb/errors"
)

// DefaultFramesInFlight is the number of frame slots the CPU may record
// ahead of the GPU.
const DefaultFramesInFlight = 2

// DefaultClearColor is the color the swapchain render pass clears to.
var DefaultClearColor = ClearColor{0.01, 0.01, 0.01, 1.0}

// BindingPolicy selects how recording targets map onto frames.
type BindingPolicy int

const (
	// BindPerFrameSlot keeps one target per frame slot. The pool size is the
	// number of frames in flight and never changes with the swapchain.
	BindPerFrameSlot BindingPolicy = iota
	// BindPerImage keeps one target per swapchain image, selected by the
	// acquired image index. The pool follows the image count on rebuild.
	BindPerImage
)

func (b BindingPolicy) String() string {
	switch b {
	case BindPerFrameSlot:
		return "per-frame-slot"
	case BindPerImage:
		return "per-image"
	}
	return "unknown"
}

func ParseBindingPolicy(s string) (BindingPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "per-frame-slot":
		return BindPerFrameSlot, nil
	case "per-image":
		return BindPerImage, nil
	}
	return 0, errors.Newf("unknown command buffer binding policy %q", s)
}

type options struct {
	framesInFlight int
	binding        BindingPolicy
	clearColor     ClearColor
}

func defaultOptions() options {
	return options{
		framesInFlight: DefaultFramesInFlight,
		binding:        BindPerFrameSlot,
		clearColor:     DefaultClearColor,
	}
}

type Option func(*options)

func WithFramesInFlight(n int) Option {
	return func(o *options) {
		o.framesInFlight = n
	}
}

func WithBindingPolicy(b BindingPolicy) Option {
	return func(o *options) {
		o.binding = b
	}
}

func WithClearColor(c ClearColor) Option {
	return func(o *options) {
		o.clearColor = c
	}
}
