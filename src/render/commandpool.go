package render

import "github.com/cockroachdb/errors"

// CommandBufferPool owns a fixed ring of recording targets allocated from a
// Device. Targets are reused every frame and only released by Resize or Free.
type CommandBufferPool struct {
	device  Device
	targets []*RecordingTarget
}

func NewCommandBufferPool(device Device) *CommandBufferPool {
	return &CommandBufferPool{device: device}
}

func (p *CommandBufferPool) Len() int {
	return len(p.targets)
}

// Target returns the recording target at index i.
func (p *CommandBufferPool) Target(i int) (*RecordingTarget, error) {
	if i < 0 || i >= len(p.targets) {
		return nil, errors.AssertionFailedf("command pool: index %d out of range [0, %d)", i, len(p.targets))
	}
	return p.targets[i], nil
}

// Resize makes the pool hold exactly n targets. When n differs from the
// current size every target is freed and n new ones are allocated.
func (p *CommandBufferPool) Resize(n int) error {
	if n <= 0 {
		return errors.AssertionFailedf("command pool: size must be positive, got %d", n)
	}
	if n == len(p.targets) {
		return nil
	}
	for _, t := range p.targets {
		if t.state == StatePending {
			return errors.AssertionFailedf("command pool: cannot free command buffer %d while pending", t.index)
		}
	}
	p.Free()

	buffers, err := p.device.AllocateCommandBuffers(n)
	if err != nil {
		return errors.Wrapf(err, "failed to allocate %d command buffers", n)
	}
	if len(buffers) != n {
		p.device.FreeCommandBuffers(buffers)
		return errors.Newf("failed to allocate command buffers: want %d, got %d", n, len(buffers))
	}
	p.targets = make([]*RecordingTarget, n)
	for i, b := range buffers {
		p.targets[i] = newRecordingTarget(b, i)
	}
	logger().Debug("render: command buffers allocated", "count", n)
	return nil
}

// DeviceIdle must be called after the device drained all work. Pending
// targets become executable and every recorded target is invalidated.
func (p *CommandBufferPool) DeviceIdle() {
	for _, t := range p.targets {
		t.Complete()
		t.Invalidate()
	}
}

// Free releases every target back to the device.
func (p *CommandBufferPool) Free() {
	if len(p.targets) == 0 {
		return
	}
	buffers := make([]CommandBuffer, len(p.targets))
	for i, t := range p.targets {
		buffers[i] = t.buffer
	}
	p.device.FreeCommandBuffers(buffers)
	p.targets = nil
}
