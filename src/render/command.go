package render

import "github.com/cockroachdb/errors"

// CommandBufferState follows the command buffer lifecycle:
//
//	Initial    --Begin-->      Recording
//	Recording  --End-->        Executable
//	Executable --Submit-->     Pending
//	Pending    --Complete-->   Executable
//	Recording, Executable --Invalidate--> Invalid
//	any but Pending --Reset--> Initial
//
// Submitting a Pending buffer is never allowed.
type CommandBufferState int

const (
	StateInitial CommandBufferState = iota
	StateRecording
	StateExecutable
	StatePending
	StateInvalid
)

func (s CommandBufferState) String() string {
	switch s {
	case StateInitial:
		return "initial"
	case StateRecording:
		return "recording"
	case StateExecutable:
		return "executable"
	case StatePending:
		return "pending"
	case StateInvalid:
		return "invalid"
	}
	return "unknown"
}

// RecordingTarget wraps a backend command buffer and enforces its lifecycle.
// Render systems record draw calls through Buffer while the target is in the
// Recording state.
type RecordingTarget struct {
	buffer CommandBuffer
	index  int
	state  CommandBufferState
	inPass bool
}

func newRecordingTarget(buffer CommandBuffer, index int) *RecordingTarget {
	return &RecordingTarget{buffer: buffer, index: index}
}

// Buffer returns the backend command buffer for issuing draw commands.
func (t *RecordingTarget) Buffer() CommandBuffer {
	return t.buffer
}

// Index is the position of the target in its pool.
func (t *RecordingTarget) Index() int {
	return t.index
}

func (t *RecordingTarget) State() CommandBufferState {
	return t.state
}

func (t *RecordingTarget) InRenderPass() bool {
	return t.inPass
}

func (t *RecordingTarget) violation(op string) error {
	return errors.WithAssertionFailure(&stateError{op: op, from: t.state})
}

// Begin starts recording. An executable target is implicitly reset by the
// backend, an invalid one is reset explicitly first.
func (t *RecordingTarget) Begin() error {
	switch t.state {
	case StateInitial, StateExecutable:
	case StateInvalid:
		if err := t.Reset(); err != nil {
			return err
		}
	default:
		return t.violation("begin")
	}
	if err := t.buffer.Begin(); err != nil {
		return errors.Wrap(err, "failed to transition command buffer to recording state")
	}
	t.state = StateRecording
	return nil
}

func (t *RecordingTarget) End() error {
	if t.state != StateRecording {
		return t.violation("end")
	}
	if t.inPass {
		return errors.AssertionFailedf("command buffer: end called inside an active render pass")
	}
	if err := t.buffer.End(); err != nil {
		return errors.Wrap(err, "failed to transition command buffer to executable state")
	}
	t.state = StateExecutable
	return nil
}

func (t *RecordingTarget) Reset() error {
	if t.state == StatePending {
		return t.violation("reset")
	}
	if err := t.buffer.Reset(); err != nil {
		return errors.Wrap(err, "failed to reset command buffer")
	}
	t.state = StateInitial
	t.inPass = false
	return nil
}

// Invalidate marks recorded contents as unusable, for example after the
// framebuffers they reference were destroyed.
func (t *RecordingTarget) Invalidate() {
	if t.state == StateRecording || t.state == StateExecutable {
		t.state = StateInvalid
		t.inPass = false
	}
}

// Complete records that the GPU finished executing the last submission.
func (t *RecordingTarget) Complete() {
	if t.state == StatePending {
		t.state = StateExecutable
	}
}

// submit validates and applies the Executable -> Pending transition. It is
// called right before the buffer is handed to the queue.
func (t *RecordingTarget) submit() error {
	if t.state != StateExecutable {
		return t.violation("submit")
	}
	t.state = StatePending
	return nil
}

func (t *RecordingTarget) BeginRenderPass(info RenderPassBegin) error {
	if t.state != StateRecording {
		return t.violation("begin render pass")
	}
	if t.inPass {
		return errors.AssertionFailedf("command buffer: render pass already active")
	}
	t.buffer.BeginRenderPass(info)
	t.inPass = true
	return nil
}

func (t *RecordingTarget) EndRenderPass() error {
	if !t.inPass {
		return errors.AssertionFailedf("command buffer: no active render pass to end")
	}
	t.buffer.EndRenderPass()
	t.inPass = false
	return nil
}

func (t *RecordingTarget) SetViewport(viewport Viewport) {
	t.buffer.SetViewport(viewport)
}

func (t *RecordingTarget) SetScissor(scissor Rect) {
	t.buffer.SetScissor(scissor)
}
