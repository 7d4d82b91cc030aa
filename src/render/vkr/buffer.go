package vkr

import (
	"unsafe"

	"github.com/cockroachdb/errors"
	vk "github.com/vulkan-go/vulkan"
)

// Alignment rounds instanceSize up to a multiple of minOffsetAlignment, which
// must be zero or a power of two.
func Alignment(instanceSize, minOffsetAlignment uint64) uint64 {
	if minOffsetAlignment > 0 {
		return (instanceSize + minOffsetAlignment - 1) &^ (minOffsetAlignment - 1)
	}
	return instanceSize
}

// UniformBuffer is a persistently mapped, host visible buffer holding
// instanceCount aligned copies of a uniform block, one per frame slot.
type UniformBuffer struct {
	device *Device

	VKBuffer vk.Buffer
	memory   vk.DeviceMemory
	mapped   unsafe.Pointer

	instanceSize  uint64
	instanceCount int
	alignmentSize uint64
	size          uint64
}

func NewUniformBuffer(device *Device, instanceSize uint64, instanceCount int) (*UniformBuffer, error) {
	if instanceSize == 0 || instanceCount < 1 {
		return nil, errors.AssertionFailedf("vkr: invalid uniform buffer layout %d x %d", instanceSize, instanceCount)
	}
	b := &UniformBuffer{
		device:        device,
		instanceSize:  instanceSize,
		instanceCount: instanceCount,
		alignmentSize: Alignment(instanceSize, device.UniformAlignment()),
	}
	b.size = b.alignmentSize * uint64(instanceCount)

	bufferInfo := vk.BufferCreateInfo{
		SType:       vk.StructureTypeBufferCreateInfo,
		Size:        vk.DeviceSize(b.size),
		Usage:       vk.BufferUsageFlags(vk.BufferUsageUniformBufferBit),
		SharingMode: vk.SharingModeExclusive,
	}
	if err := NewError(vk.CreateBuffer(device.VKDevice, &bufferInfo, nil, &b.VKBuffer)); err != nil {
		return nil, errors.Wrap(err, "failed to create uniform buffer")
	}

	var req vk.MemoryRequirements
	vk.GetBufferMemoryRequirements(device.VKDevice, b.VKBuffer, &req)
	req.Deref()
	memoryType, err := device.FindMemoryType(req.MemoryTypeBits,
		vk.MemoryPropertyHostVisibleBit|vk.MemoryPropertyHostCoherentBit)
	if err != nil {
		b.Destroy()
		return nil, err
	}
	allocInfo := vk.MemoryAllocateInfo{
		SType:           vk.StructureTypeMemoryAllocateInfo,
		AllocationSize:  req.Size,
		MemoryTypeIndex: memoryType,
	}
	if err := NewError(vk.AllocateMemory(device.VKDevice, &allocInfo, nil, &b.memory)); err != nil {
		b.Destroy()
		return nil, errors.Wrap(err, "failed to allocate uniform buffer memory")
	}
	if err := NewError(vk.BindBufferMemory(device.VKDevice, b.VKBuffer, b.memory, 0)); err != nil {
		b.Destroy()
		return nil, errors.Wrap(err, "failed to bind uniform buffer memory")
	}
	if err := NewError(vk.MapMemory(device.VKDevice, b.memory, 0, vk.DeviceSize(b.size), 0, &b.mapped)); err != nil {
		b.Destroy()
		return nil, errors.Wrap(err, "failed to map uniform buffer memory")
	}
	return b, nil
}

func (b *UniformBuffer) AlignmentSize() uint64 {
	return b.alignmentSize
}

func (b *UniformBuffer) InstanceCount() int {
	return b.instanceCount
}

// Offset is the byte offset of instance index, usable as a descriptor offset.
func (b *UniformBuffer) Offset(index int) uint64 {
	return uint64(index) * b.alignmentSize
}

// WriteToIndex copies data into instance index. It must not be larger than
// the instance size and the instance must not be in use by the GPU.
func (b *UniformBuffer) WriteToIndex(data []byte, index int) error {
	if index < 0 || index >= b.instanceCount {
		return errors.AssertionFailedf("vkr: uniform index %d out of range [0, %d)", index, b.instanceCount)
	}
	if uint64(len(data)) > b.instanceSize {
		return errors.AssertionFailedf("vkr: uniform write of %d bytes exceeds instance size %d", len(data), b.instanceSize)
	}
	dst := unsafe.Slice((*byte)(unsafe.Add(b.mapped, b.Offset(index))), len(data))
	copy(dst, data)
	return nil
}

func (b *UniformBuffer) flushRange(offset, size uint64) error {
	r := vk.MappedMemoryRange{
		SType:  vk.StructureTypeMappedMemoryRange,
		Memory: b.memory,
		Offset: vk.DeviceSize(offset),
		Size:   vk.DeviceSize(size),
	}
	return NewError(vk.FlushMappedMemoryRanges(b.device.VKDevice, 1, []vk.MappedMemoryRange{r}))
}

// FlushIndex makes instance index visible to the device.
func (b *UniformBuffer) FlushIndex(index int) error {
	return b.flushRange(b.Offset(index), b.alignmentSize)
}

func (b *UniformBuffer) Flush() error {
	return b.flushRange(0, vk.WholeSize)
}

func (b *UniformBuffer) Destroy() {
	if b.mapped != nil {
		vk.UnmapMemory(b.device.VKDevice, b.memory)
		b.mapped = nil
	}
	vk.DestroyBuffer(b.device.VKDevice, b.VKBuffer, nil)
	vk.FreeMemory(b.device.VKDevice, b.memory, nil)
}
