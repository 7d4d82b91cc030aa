package vkr

import (
	"github.com/cockroachdb/errors"
	vk "github.com/vulkan-go/vulkan"
)

var depthFormatCandidates = []vk.Format{
	vk.FormatD32Sfloat,
	vk.FormatD32SfloatS8Uint,
	vk.FormatD24UnormS8Uint,
}

// attachmentImage is an image with its own memory and a single view, used
// for depth attachments.
type attachmentImage struct {
	image  vk.Image
	memory vk.DeviceMemory
	view   vk.ImageView
}

func (d *Device) findDepthFormat() (vk.Format, error) {
	format, err := d.FindSupportedFormat(depthFormatCandidates, vk.ImageTilingOptimal,
		vk.FormatFeatureFlags(vk.FormatFeatureDepthStencilAttachmentBit))
	return format, errors.Wrap(err, "failed to find depth format")
}

func (d *Device) createImageView(image vk.Image, format vk.Format, aspect vk.ImageAspectFlagBits) (vk.ImageView, error) {
	viewInfo := vk.ImageViewCreateInfo{
		SType:    vk.StructureTypeImageViewCreateInfo,
		Image:    image,
		ViewType: vk.ImageViewType2d,
		Format:   format,
		Components: vk.ComponentMapping{
			R: vk.ComponentSwizzleIdentity,
			G: vk.ComponentSwizzleIdentity,
			B: vk.ComponentSwizzleIdentity,
			A: vk.ComponentSwizzleIdentity,
		},
		SubresourceRange: vk.ImageSubresourceRange{
			AspectMask:     vk.ImageAspectFlags(aspect),
			BaseMipLevel:   0,
			LevelCount:     1,
			BaseArrayLayer: 0,
			LayerCount:     1,
		},
	}
	var view vk.ImageView
	if err := NewError(vk.CreateImageView(d.VKDevice, &viewInfo, nil, &view)); err != nil {
		return view, errors.Wrap(err, "failed to create image view")
	}
	return view, nil
}

func (d *Device) createDepthImage(extent vk.Extent2D, format vk.Format) (attachmentImage, error) {
	var a attachmentImage
	imageInfo := vk.ImageCreateInfo{
		SType:     vk.StructureTypeImageCreateInfo,
		ImageType: vk.ImageType2d,
		Extent: vk.Extent3D{
			Width:  extent.Width,
			Height: extent.Height,
			Depth:  1,
		},
		MipLevels:     1,
		ArrayLayers:   1,
		Format:        format,
		Tiling:        vk.ImageTilingOptimal,
		InitialLayout: vk.ImageLayoutUndefined,
		Usage:         vk.ImageUsageFlags(vk.ImageUsageDepthStencilAttachmentBit),
		Samples:       vk.SampleCount1Bit,
		SharingMode:   vk.SharingModeExclusive,
	}
	if err := NewError(vk.CreateImage(d.VKDevice, &imageInfo, nil, &a.image)); err != nil {
		return a, errors.Wrap(err, "failed to create depth image")
	}

	var req vk.MemoryRequirements
	vk.GetImageMemoryRequirements(d.VKDevice, a.image, &req)
	req.Deref()
	memoryType, err := d.FindMemoryType(req.MemoryTypeBits, vk.MemoryPropertyDeviceLocalBit)
	if err != nil {
		d.destroyAttachment(a)
		return attachmentImage{}, err
	}
	allocInfo := vk.MemoryAllocateInfo{
		SType:           vk.StructureTypeMemoryAllocateInfo,
		AllocationSize:  req.Size,
		MemoryTypeIndex: memoryType,
	}
	if err := NewError(vk.AllocateMemory(d.VKDevice, &allocInfo, nil, &a.memory)); err != nil {
		d.destroyAttachment(a)
		return attachmentImage{}, errors.Wrap(err, "failed to allocate depth image memory")
	}
	if err := NewError(vk.BindImageMemory(d.VKDevice, a.image, a.memory, 0)); err != nil {
		d.destroyAttachment(a)
		return attachmentImage{}, errors.Wrap(err, "failed to bind depth image memory")
	}

	aspect := vk.ImageAspectDepthBit
	if format == vk.FormatD32SfloatS8Uint || format == vk.FormatD24UnormS8Uint {
		aspect |= vk.ImageAspectStencilBit
	}
	a.view, err = d.createImageView(a.image, format, aspect)
	if err != nil {
		d.destroyAttachment(a)
		return attachmentImage{}, err
	}
	return a, nil
}

// destroyAttachment accepts partially created attachments, destroying a null
// handle is a no-op.
func (d *Device) destroyAttachment(a attachmentImage) {
	vk.DestroyImageView(d.VKDevice, a.view, nil)
	vk.DestroyImage(d.VKDevice, a.image, nil)
	vk.FreeMemory(d.VKDevice, a.memory, nil)
}
