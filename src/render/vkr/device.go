package vkr

import (
	"github.com/cockroachdb/errors"
	vk "github.com/vulkan-go/vulkan"

	"ritis/src/render"
)

var deviceExtensions = []string{"VK_KHR_swapchain"}

type queueFamilies struct {
	graphics, present       uint32
	hasGraphics, hasPresent bool
}

func (q queueFamilies) complete() bool {
	return q.hasGraphics && q.hasPresent
}

func (q queueFamilies) unique() []uint32 {
	if q.graphics == q.present {
		return []uint32{q.graphics}
	}
	return []uint32{q.graphics, q.present}
}

// findQueueFamilies picks the first family with graphics support and the
// first that can present, preferring one family for both.
func findQueueFamilies(props []vk.QueueFamilyProperties, canPresent func(i uint32) bool) queueFamilies {
	var q queueFamilies
	for i, p := range props {
		idx := uint32(i)
		graphics := p.QueueCount > 0 && p.QueueFlags&vk.QueueFlags(vk.QueueGraphicsBit) != 0
		present := p.QueueCount > 0 && canPresent(idx)
		if graphics && present {
			return queueFamilies{graphics: idx, present: idx, hasGraphics: true, hasPresent: true}
		}
		if graphics && !q.hasGraphics {
			q.graphics, q.hasGraphics = idx, true
		}
		if present && !q.hasPresent {
			q.present, q.hasPresent = idx, true
		}
	}
	return q
}

// Device is the logical device with its graphics and present queues and the
// command pool the frame command buffers come from. It implements
// render.Device.
type Device struct {
	PhysicalDevice vk.PhysicalDevice
	VKDevice       vk.Device
	GraphicsQueue  vk.Queue
	PresentQueue   vk.Queue
	CommandPool    vk.CommandPool

	Name     string
	families queueFamilies
	limits   vk.PhysicalDeviceLimits
}

var _ render.Device = (*Device)(nil)

func queueFamilyProperties(pd vk.PhysicalDevice) []vk.QueueFamilyProperties {
	var count uint32
	vk.GetPhysicalDeviceQueueFamilyProperties(pd, &count, nil)
	props := make([]vk.QueueFamilyProperties, count)
	vk.GetPhysicalDeviceQueueFamilyProperties(pd, &count, props)
	for i := range props {
		props[i].Deref()
	}
	return props
}

func supportsExtensions(pd vk.PhysicalDevice, required []string) bool {
	var count uint32
	if IsError(vk.EnumerateDeviceExtensionProperties(pd, "", &count, nil)) {
		return false
	}
	props := make([]vk.ExtensionProperties, count)
	if IsError(vk.EnumerateDeviceExtensionProperties(pd, "", &count, props)) {
		return false
	}
	names := make([]string, 0, count)
	for _, p := range props {
		p.Deref()
		names = append(names, vk.ToString(p.ExtensionName[:]))
	}
	for _, ext := range required {
		if !contains(names, ext) {
			return false
		}
	}
	return true
}

// NewDevice selects the first physical device that can render to and present
// on surface and creates the logical device.
func NewDevice(instance *Instance, surface vk.Surface) (*Device, error) {
	candidates, err := instance.PhysicalDevices()
	if err != nil {
		return nil, err
	}

	d := &Device{}
	found := false
	for _, pd := range candidates {
		q := findQueueFamilies(queueFamilyProperties(pd), func(i uint32) bool {
			var supported vk.Bool32
			vk.GetPhysicalDeviceSurfaceSupport(pd, i, surface, &supported)
			return supported == vk.True
		})
		if !q.complete() || !supportsExtensions(pd, deviceExtensions) {
			continue
		}
		support, err := querySurfaceSupport(pd, surface)
		if err != nil || len(support.formats) == 0 || len(support.presentModes) == 0 {
			continue
		}
		d.PhysicalDevice = pd
		d.families = q
		found = true
		break
	}
	if !found {
		return nil, errors.New("failed to find a suitable GPU")
	}

	var props vk.PhysicalDeviceProperties
	vk.GetPhysicalDeviceProperties(d.PhysicalDevice, &props)
	props.Deref()
	props.Limits.Deref()
	d.Name = vk.ToString(props.DeviceName[:])
	d.limits = props.Limits

	priority := []float32{1.0}
	var queueInfos []vk.DeviceQueueCreateInfo
	for _, family := range d.families.unique() {
		queueInfos = append(queueInfos, vk.DeviceQueueCreateInfo{
			SType:            vk.StructureTypeDeviceQueueCreateInfo,
			QueueFamilyIndex: family,
			QueueCount:       1,
			PQueuePriorities: priority,
		})
	}
	extensions := safeStrings(deviceExtensions)
	createInfo := vk.DeviceCreateInfo{
		SType:                   vk.StructureTypeDeviceCreateInfo,
		QueueCreateInfoCount:    uint32(len(queueInfos)),
		PQueueCreateInfos:       queueInfos,
		EnabledExtensionCount:   uint32(len(extensions)),
		PpEnabledExtensionNames: extensions,
		EnabledLayerCount:       uint32(len(instance.Layers)),
		PpEnabledLayerNames:     safeStrings(instance.Layers),
		PEnabledFeatures:        []vk.PhysicalDeviceFeatures{{}},
	}
	if err := NewError(vk.CreateDevice(d.PhysicalDevice, &createInfo, nil, &d.VKDevice)); err != nil {
		return nil, errors.Wrap(err, "failed to create logical device")
	}
	vk.GetDeviceQueue(d.VKDevice, d.families.graphics, 0, &d.GraphicsQueue)
	vk.GetDeviceQueue(d.VKDevice, d.families.present, 0, &d.PresentQueue)

	poolInfo := vk.CommandPoolCreateInfo{
		SType:            vk.StructureTypeCommandPoolCreateInfo,
		QueueFamilyIndex: d.families.graphics,
		Flags: vk.CommandPoolCreateFlags(vk.CommandPoolCreateResetCommandBufferBit |
			vk.CommandPoolCreateTransientBit),
	}
	if err := NewError(vk.CreateCommandPool(d.VKDevice, &poolInfo, nil, &d.CommandPool)); err != nil {
		vk.DestroyDevice(d.VKDevice, nil)
		return nil, errors.Wrap(err, "failed to create command pool")
	}

	render.Logger().Info("vkr: device created", "gpu", d.Name,
		"graphics_family", d.families.graphics, "present_family", d.families.present)
	return d, nil
}

func (d *Device) WaitIdle() error {
	return NewError(vk.DeviceWaitIdle(d.VKDevice))
}

// AllocateCommandBuffers allocates primary command buffers from the device
// command pool.
func (d *Device) AllocateCommandBuffers(count int) ([]render.CommandBuffer, error) {
	allocInfo := vk.CommandBufferAllocateInfo{
		SType:              vk.StructureTypeCommandBufferAllocateInfo,
		CommandPool:        d.CommandPool,
		Level:              vk.CommandBufferLevelPrimary,
		CommandBufferCount: uint32(count),
	}
	buffers := make([]vk.CommandBuffer, count)
	if err := NewError(vk.AllocateCommandBuffers(d.VKDevice, &allocInfo, buffers)); err != nil {
		return nil, errors.Wrap(err, "failed to allocate command buffers")
	}
	out := make([]render.CommandBuffer, count)
	for i, b := range buffers {
		out[i] = &CommandBuffer{VKCommandBuffer: b}
	}
	return out, nil
}

func (d *Device) FreeCommandBuffers(buffers []render.CommandBuffer) {
	if len(buffers) == 0 {
		return
	}
	handles := make([]vk.CommandBuffer, len(buffers))
	for i, b := range buffers {
		handles[i] = b.(*CommandBuffer).VKCommandBuffer
	}
	vk.FreeCommandBuffers(d.VKDevice, d.CommandPool, uint32(len(handles)), handles)
}

// FindMemoryType returns the first memory type allowed by typeFilter that has
// all of the requested properties.
func (d *Device) FindMemoryType(typeFilter uint32, properties vk.MemoryPropertyFlagBits) (uint32, error) {
	var mp vk.PhysicalDeviceMemoryProperties
	vk.GetPhysicalDeviceMemoryProperties(d.PhysicalDevice, &mp)
	mp.Deref()

	for i := uint32(0); i < mp.MemoryTypeCount; i++ {
		mt := mp.MemoryTypes[i]
		mt.Deref()
		if typeFilter&(1<<i) != 0 && vk.MemoryPropertyFlagBits(mt.PropertyFlags)&properties == properties {
			return i, nil
		}
	}
	return 0, errors.New("failed to find suitable memory type")
}

// FindSupportedFormat returns the first candidate whose tiling features
// include features.
func (d *Device) FindSupportedFormat(candidates []vk.Format, tiling vk.ImageTiling, features vk.FormatFeatureFlags) (vk.Format, error) {
	for _, format := range candidates {
		var props vk.FormatProperties
		vk.GetPhysicalDeviceFormatProperties(d.PhysicalDevice, format, &props)
		props.Deref()
		if tiling == vk.ImageTilingLinear && props.LinearTilingFeatures&features == features {
			return format, nil
		}
		if tiling == vk.ImageTilingOptimal && props.OptimalTilingFeatures&features == features {
			return format, nil
		}
	}
	return 0, errors.New("failed to find supported format")
}

// UniformAlignment is the offset alignment every uniform buffer instance must
// satisfy, covering both the descriptor offset and mapped range flush rules.
func (d *Device) UniformAlignment() uint64 {
	a := uint64(d.limits.MinUniformBufferOffsetAlignment)
	if atom := uint64(d.limits.NonCoherentAtomSize); atom > a {
		a = atom
	}
	return a
}

func (d *Device) Destroy() {
	vk.DestroyCommandPool(d.VKDevice, d.CommandPool, nil)
	vk.DestroyDevice(d.VKDevice, nil)
}
