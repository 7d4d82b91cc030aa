package render

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingBuffer struct {
	fakeCommandBuffer
	err error
}

func (f *failingBuffer) Begin() error { return f.err }

func TestRecordingTargetLifecycle(t *testing.T) {
	cb := &fakeCommandBuffer{}
	target := newRecordingTarget(cb, 0)
	require.Equal(t, StateInitial, target.State())

	require.NoError(t, target.Begin())
	assert.Equal(t, StateRecording, target.State())

	require.NoError(t, target.End())
	assert.Equal(t, StateExecutable, target.State())

	require.NoError(t, target.submit())
	assert.Equal(t, StatePending, target.State())

	target.Complete()
	assert.Equal(t, StateExecutable, target.State())

	require.NoError(t, target.Begin())
	assert.Equal(t, StateRecording, target.State())
	assert.Equal(t, []string{"begin", "end", "begin"}, cb.calls)
}

func TestRecordingTargetRejectsPendingUse(t *testing.T) {
	target := newRecordingTarget(&fakeCommandBuffer{}, 0)
	require.NoError(t, target.Begin())
	require.NoError(t, target.End())
	require.NoError(t, target.submit())

	for name, op := range map[string]func() error{
		"begin":  target.Begin,
		"reset":  target.Reset,
		"submit": target.submit,
		"end":    target.End,
	} {
		err := op()
		require.Error(t, err, name)
		assert.True(t, IsContractViolation(err), name)
		assert.Equal(t, StatePending, target.State(), name)
	}
}

func TestRecordingTargetViolationMessage(t *testing.T) {
	target := newRecordingTarget(&fakeCommandBuffer{}, 0)

	err := target.submit()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "submit is not allowed in state initial")
}

func TestRecordingTargetBeginFromInvalidResets(t *testing.T) {
	cb := &fakeCommandBuffer{}
	target := newRecordingTarget(cb, 0)
	require.NoError(t, target.Begin())
	target.Invalidate()
	require.Equal(t, StateInvalid, target.State())

	require.NoError(t, target.Begin())
	assert.Equal(t, StateRecording, target.State())
	assert.Equal(t, []string{"begin", "reset", "begin"}, cb.calls)
}

func TestRecordingTargetInvalidate(t *testing.T) {
	tests := []struct {
		from CommandBufferState
		want CommandBufferState
	}{
		{StateInitial, StateInitial},
		{StateRecording, StateInvalid},
		{StateExecutable, StateInvalid},
		{StatePending, StatePending},
		{StateInvalid, StateInvalid},
	}
	for _, tt := range tests {
		t.Run(tt.from.String(), func(t *testing.T) {
			target := &RecordingTarget{buffer: &fakeCommandBuffer{}, state: tt.from}
			target.Invalidate()
			assert.Equal(t, tt.want, target.State())
		})
	}
}

func TestRecordingTargetCompleteOnlyAffectsPending(t *testing.T) {
	target := newRecordingTarget(&fakeCommandBuffer{}, 0)
	target.Complete()
	assert.Equal(t, StateInitial, target.State())

	require.NoError(t, target.Begin())
	target.Complete()
	assert.Equal(t, StateRecording, target.State())
}

func TestRecordingTargetRenderPassNesting(t *testing.T) {
	target := newRecordingTarget(&fakeCommandBuffer{}, 0)

	err := target.BeginRenderPass(RenderPassBegin{})
	require.Error(t, err, "not recording")
	assert.True(t, IsContractViolation(err))

	require.NoError(t, target.Begin())
	require.NoError(t, target.BeginRenderPass(RenderPassBegin{}))

	err = target.BeginRenderPass(RenderPassBegin{})
	require.Error(t, err)
	assert.True(t, IsContractViolation(err))

	err = target.End()
	require.Error(t, err)
	assert.True(t, IsContractViolation(err))
	assert.Equal(t, StateRecording, target.State())

	require.NoError(t, target.EndRenderPass())
	assert.False(t, target.InRenderPass())
	err = target.EndRenderPass()
	require.Error(t, err)
	assert.True(t, IsContractViolation(err))

	require.NoError(t, target.End())
}

func TestRecordingTargetBackendFailure(t *testing.T) {
	target := newRecordingTarget(&failingBuffer{err: errors.New("host out of memory")}, 0)

	err := target.Begin()
	require.Error(t, err)
	assert.False(t, IsContractViolation(err))
	assert.Contains(t, err.Error(), "host out of memory")
	assert.Equal(t, StateInitial, target.State())
}

func TestCommandBufferStateString(t *testing.T) {
	assert.Equal(t, "executable", StateExecutable.String())
	assert.Equal(t, "unknown", CommandBufferState(42).String())
}
