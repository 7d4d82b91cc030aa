package render

import (
	"fmt"

	"github.com/cockroachdb/errors"
)

// ErrFormatChanged is returned when a rebuilt swapchain no longer matches the
// image or depth format the render pass was built for.
var ErrFormatChanged = errors.New("swapchain image or depth format has changed")

// assertf reports a broken calling contract. These are bugs in the caller, not
// runtime conditions, and errors.IsAssertionFailure reports true for them.
func assertf(format string, args ...interface{}) error {
	return errors.AssertionFailedWithDepthf(1, format, args...)
}

// IsContractViolation reports whether err comes from misuse of the frame
// protocol.
func IsContractViolation(err error) bool {
	return errors.IsAssertionFailure(err)
}

// OrPanic runs the finalizers and panics when err is non-nil.
func OrPanic(err error, finalizers ...func()) {
	if err == nil {
		return
	}
	for _, fn := range finalizers {
		fn()
	}
	panic(err)
}

// CheckError turns a panic into an error, it must be deferred.
func CheckError(err *error) {
	if v := recover(); v != nil {
		if e, ok := v.(error); ok {
			*err = errors.WithStack(e)
			return
		}
		*err = errors.Newf("%+v", v)
	}
}

// mustf panics with an assertion failure. Used by getters that have no error
// return, mirroring a failed assert.
func mustf(ok bool, format string, args ...interface{}) {
	if !ok {
		panic(errors.AssertionFailedWithDepthf(1, format, args...))
	}
}

type stateError struct {
	op   string
	from CommandBufferState
}

func (e *stateError) Error() string {
	return fmt.Sprintf("command buffer: %s is not allowed in state %s", e.op, e.from)
}
