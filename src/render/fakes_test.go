package render

import (
	"fmt"

	"github.com/cockroachdb/errors"
)

type fakeSurface struct {
	extents []Extent // consumed by WaitEvents, last one sticks
	resized bool
	waits   int
	resets  int
}

func newFakeSurface(w, h uint32) *fakeSurface {
	return &fakeSurface{extents: []Extent{{Width: w, Height: h}}}
}

func (s *fakeSurface) Extent() Extent {
	return s.extents[0]
}

func (s *fakeSurface) WasResized() bool {
	return s.resized
}

func (s *fakeSurface) ResetResized() {
	s.resized = false
	s.resets++
}

func (s *fakeSurface) WaitEvents() {
	s.waits++
	if len(s.extents) > 1 {
		s.extents = s.extents[1:]
	}
}

type fakeCommandBuffer struct {
	id    int
	calls []string
}

func (c *fakeCommandBuffer) record(s string) {
	c.calls = append(c.calls, s)
}

func (c *fakeCommandBuffer) Begin() error {
	c.record("begin")
	return nil
}

func (c *fakeCommandBuffer) End() error {
	c.record("end")
	return nil
}

func (c *fakeCommandBuffer) Reset() error {
	c.record("reset")
	return nil
}

func (c *fakeCommandBuffer) BeginRenderPass(info RenderPassBegin) {
	c.record(fmt.Sprintf("begin-pass %v", info.Framebuffer))
}

func (c *fakeCommandBuffer) EndRenderPass() {
	c.record("end-pass")
}

func (c *fakeCommandBuffer) SetViewport(Viewport) {
	c.record("viewport")
}

func (c *fakeCommandBuffer) SetScissor(Rect) {
	c.record("scissor")
}

type fakeDevice struct {
	idles     int
	allocated int
	freed     int
	nextID    int
	allocErr  error
	live      map[*fakeCommandBuffer]bool
	lastAlloc []CommandBuffer
}

func newFakeDevice() *fakeDevice {
	return &fakeDevice{live: map[*fakeCommandBuffer]bool{}}
}

func (d *fakeDevice) WaitIdle() error {
	d.idles++
	return nil
}

func (d *fakeDevice) AllocateCommandBuffers(count int) ([]CommandBuffer, error) {
	if d.allocErr != nil {
		return nil, d.allocErr
	}
	out := make([]CommandBuffer, count)
	for i := range out {
		cb := &fakeCommandBuffer{id: d.nextID}
		d.nextID++
		d.live[cb] = true
		out[i] = cb
	}
	d.allocated += count
	d.lastAlloc = out
	return out, nil
}

func (d *fakeDevice) FreeCommandBuffers(buffers []CommandBuffer) {
	for _, b := range buffers {
		delete(d.live, b.(*fakeCommandBuffer))
	}
	d.freed += len(buffers)
}

type presentCall struct {
	slot  int
	image uint32
	cmd   CommandBuffer
}

type fakeSwapchain struct {
	gen       int
	extent    Extent
	images    int
	format    Format
	depth     Format
	next      uint32
	destroyed bool

	acquireOutdated []bool
	presentOutdated []bool
	acquireErr      error
	presentErr      error

	acquires []int
	presents []presentCall
}

func pop(q *[]bool) bool {
	if len(*q) == 0 {
		return false
	}
	v := (*q)[0]
	*q = (*q)[1:]
	return v
}

func (s *fakeSwapchain) AcquireNextImage(slot int) (uint32, bool, error) {
	if s.destroyed {
		return 0, false, errors.New("acquire on destroyed swapchain")
	}
	s.acquires = append(s.acquires, slot)
	if s.acquireErr != nil {
		return 0, false, s.acquireErr
	}
	if pop(&s.acquireOutdated) {
		return 0, true, nil
	}
	i := s.next
	s.next = (s.next + 1) % uint32(s.images)
	return i, false, nil
}

func (s *fakeSwapchain) Present(slot int, cmd CommandBuffer, image uint32) (bool, error) {
	if s.presentErr != nil {
		return false, s.presentErr
	}
	s.presents = append(s.presents, presentCall{slot: slot, image: image, cmd: cmd})
	return pop(&s.presentOutdated), nil
}

func (s *fakeSwapchain) RenderPass() Handle {
	return "pass"
}

func (s *fakeSwapchain) Framebuffer(i uint32) Handle {
	return fmt.Sprintf("fb%d-%d", s.gen, i)
}

func (s *fakeSwapchain) Extent() Extent {
	return s.extent
}

func (s *fakeSwapchain) ImageCount() int {
	return s.images
}

func (s *fakeSwapchain) ImageFormat() Format {
	return s.format
}

func (s *fakeSwapchain) DepthFormat() Format {
	return s.depth
}

// Destroy clears the swapchain the way the Vulkan backend does.
func (s *fakeSwapchain) Destroy() {
	s.destroyed = true
	s.format, s.depth = 0, 0
}

type createCall struct {
	extent Extent
	old    Swapchain
}

type fakeFactory struct {
	images  int
	format  Format
	depth   Format
	err     error
	calls   []createCall
	created []*fakeSwapchain
	// prepare lets a test program the next swapchain before it is returned
	prepare func(s *fakeSwapchain)
}

func newFakeFactory(images int) *fakeFactory {
	return &fakeFactory{images: images, format: 44, depth: 126}
}

func (f *fakeFactory) CreateSwapchain(extent Extent, old Swapchain) (Swapchain, error) {
	f.calls = append(f.calls, createCall{extent: extent, old: old})
	if f.err != nil {
		return nil, f.err
	}
	s := &fakeSwapchain{
		gen:    len(f.created),
		extent: extent,
		images: f.images,
		format: f.format,
		depth:  f.depth,
	}
	if f.prepare != nil {
		f.prepare(s)
	}
	f.created = append(f.created, s)
	return s, nil
}

func (f *fakeFactory) current() *fakeSwapchain {
	return f.created[len(f.created)-1]
}
