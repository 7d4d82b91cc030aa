package vkr

import (
	"runtime"
	"strings"

	"github.com/cockroachdb/errors"
	vk "github.com/vulkan-go/vulkan"
)

// NewError converts a failed result into an error naming the calling
// function. It returns nil for vk.Success.
func NewError(retVal vk.Result) error {
	if retVal == vk.Success {
		return nil
	}
	cause := vk.Error(retVal)
	if cause == nil {
		cause = errors.Newf("result %d", retVal)
	}
	pc, _, _, ok := runtime.Caller(1)
	if !ok {
		return errors.WithStackDepth(errors.Wrapf(cause, "vulkan error (%d)", retVal), 1)
	}
	return errors.WithStackDepth(errors.Wrapf(cause, "vulkan error (%d) on %s", retVal, funcName(pc)), 1)
}

func IsError(retVal vk.Result) bool {
	return retVal != vk.Success
}

func funcName(pc uintptr) string {
	fn := runtime.FuncForPC(pc)
	if fn == nil {
		return "unknown"
	}
	name := fn.Name()
	if i := strings.LastIndexByte(name, '/'); i >= 0 {
		name = name[i+1:]
	}
	return name
}

// acquireStatus classifies the result of vkAcquireNextImageKHR. A suboptimal
// swapchain still delivers an image and is rebuilt after present.
func acquireStatus(retVal vk.Result) (outdated bool, err error) {
	switch retVal {
	case vk.Success, vk.Suboptimal:
		return false, nil
	case vk.ErrorOutOfDate:
		return true, nil
	}
	return false, NewError(retVal)
}

// presentStatus classifies the result of vkQueuePresentKHR.
func presentStatus(retVal vk.Result) (outdated bool, err error) {
	switch retVal {
	case vk.Success:
		return false, nil
	case vk.ErrorOutOfDate, vk.Suboptimal:
		return true, nil
	}
	return false, NewError(retVal)
}
