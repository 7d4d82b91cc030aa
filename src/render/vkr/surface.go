package vkr

import (
	vk "github.com/vulkan-go/vulkan"

	"ritis/src/render"
)

type surfaceSupport struct {
	caps         vk.SurfaceCapabilities
	formats      []vk.SurfaceFormat
	presentModes []vk.PresentMode
}

func querySurfaceSupport(pd vk.PhysicalDevice, surface vk.Surface) (surfaceSupport, error) {
	var s surfaceSupport
	if err := NewError(vk.GetPhysicalDeviceSurfaceCapabilities(pd, surface, &s.caps)); err != nil {
		return s, err
	}
	s.caps.Deref()
	s.caps.CurrentExtent.Deref()
	s.caps.MinImageExtent.Deref()
	s.caps.MaxImageExtent.Deref()

	var count uint32
	if err := NewError(vk.GetPhysicalDeviceSurfaceFormats(pd, surface, &count, nil)); err != nil {
		return s, err
	}
	if count > 0 {
		s.formats = make([]vk.SurfaceFormat, count)
		if err := NewError(vk.GetPhysicalDeviceSurfaceFormats(pd, surface, &count, s.formats)); err != nil {
			return s, err
		}
		for i := range s.formats {
			s.formats[i].Deref()
		}
	}

	count = 0
	if err := NewError(vk.GetPhysicalDeviceSurfacePresentModes(pd, surface, &count, nil)); err != nil {
		return s, err
	}
	if count > 0 {
		s.presentModes = make([]vk.PresentMode, count)
		if err := NewError(vk.GetPhysicalDeviceSurfacePresentModes(pd, surface, &count, s.presentModes)); err != nil {
			return s, err
		}
	}
	return s, nil
}

// chooseSurfaceFormat prefers 8-bit BGRA in the sRGB color space.
func chooseSurfaceFormat(available []vk.SurfaceFormat) vk.SurfaceFormat {
	for _, f := range available {
		if f.Format == vk.FormatB8g8r8a8Srgb && f.ColorSpace == vk.ColorSpaceSrgbNonlinear {
			return f
		}
	}
	return available[0]
}

func hasPresentMode(available []vk.PresentMode, mode vk.PresentMode) bool {
	for _, m := range available {
		if m == mode {
			return true
		}
	}
	return false
}

// choosePresentMode picks mailbox when synced to the display, immediate
// otherwise. FIFO is always available and is the fallback.
func choosePresentMode(available []vk.PresentMode, vsync bool) vk.PresentMode {
	preferred := []vk.PresentMode{vk.PresentModeMailbox}
	if !vsync {
		preferred = []vk.PresentMode{vk.PresentModeImmediate, vk.PresentModeMailbox}
	}
	for _, mode := range preferred {
		if hasPresentMode(available, mode) {
			return mode
		}
	}
	return vk.PresentModeFifo
}

func clamp(v, lo, hi uint32) uint32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// chooseExtent uses the surface's current extent unless the window manager
// lets the swapchain decide, in which case the window extent is clamped to the
// supported range.
func chooseExtent(caps vk.SurfaceCapabilities, window render.Extent) vk.Extent2D {
	if caps.CurrentExtent.Width != vk.MaxUint32 {
		return caps.CurrentExtent
	}
	return vk.Extent2D{
		Width:  clamp(window.Width, caps.MinImageExtent.Width, caps.MaxImageExtent.Width),
		Height: clamp(window.Height, caps.MinImageExtent.Height, caps.MaxImageExtent.Height),
	}
}

// chooseImageCount asks for one image more than the minimum. A maximum of 0
// means unlimited.
func chooseImageCount(caps vk.SurfaceCapabilities) uint32 {
	count := caps.MinImageCount + 1
	if caps.MaxImageCount > 0 && count > caps.MaxImageCount {
		count = caps.MaxImageCount
	}
	return count
}
