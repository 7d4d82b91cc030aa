package vkr

import (
	"github.com/cockroachdb/errors"
	vk "github.com/vulkan-go/vulkan"

	"ritis/src/render"
)

const validationLayer = "VK_LAYER_KHRONOS_validation"

var end = "\x00"

// Instance wraps the Vulkan instance. vk.Init must have been called with a
// loader, see window.InitVulkan.
type Instance struct {
	VKInstance vk.Instance
	Layers     []string
}

type InstanceOptions struct {
	AppName    string
	Extensions []string
	// Validation enables VK_LAYER_KHRONOS_validation when it is installed.
	Validation bool
}

func safeString(s string) string {
	if len(s) == 0 || s[len(s)-1] != end[0] {
		return s + end
	}
	return s
}

func safeStrings(list []string) []string {
	out := make([]string, len(list))
	for i := range list {
		out[i] = safeString(list[i])
	}
	return out
}

// SupportedLayers lists the instance layers known to the loader.
func SupportedLayers() ([]string, error) {
	var count uint32
	if err := NewError(vk.EnumerateInstanceLayerProperties(&count, nil)); err != nil {
		return nil, err
	}
	props := make([]vk.LayerProperties, count)
	if err := NewError(vk.EnumerateInstanceLayerProperties(&count, props)); err != nil {
		return nil, err
	}
	names := make([]string, 0, count)
	for _, p := range props {
		p.Deref()
		names = append(names, vk.ToString(p.LayerName[:]))
	}
	return names, nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func NewInstance(opts InstanceOptions) (*Instance, error) {
	var layers []string
	if opts.Validation {
		supported, err := SupportedLayers()
		if err != nil {
			return nil, errors.Wrap(err, "failed to enumerate instance layers")
		}
		if contains(supported, validationLayer) {
			layers = append(layers, validationLayer)
		} else {
			render.Logger().Warn("vkr: validation layer not available, continuing without it", "layer", validationLayer)
		}
	}

	appInfo := vk.ApplicationInfo{
		SType:              vk.StructureTypeApplicationInfo,
		PApplicationName:   safeString(opts.AppName),
		ApplicationVersion: vk.MakeVersion(1, 0, 0),
		PEngineName:        safeString("ritis"),
		EngineVersion:      vk.MakeVersion(1, 0, 0),
		ApiVersion:         vk.MakeVersion(1, 0, 0),
	}
	extensions := safeStrings(opts.Extensions)
	createInfo := vk.InstanceCreateInfo{
		SType:                   vk.StructureTypeInstanceCreateInfo,
		PApplicationInfo:        &appInfo,
		EnabledExtensionCount:   uint32(len(extensions)),
		PpEnabledExtensionNames: extensions,
		EnabledLayerCount:       uint32(len(layers)),
		PpEnabledLayerNames:     safeStrings(layers),
	}

	instance := &Instance{Layers: layers}
	if err := NewError(vk.CreateInstance(&createInfo, nil, &instance.VKInstance)); err != nil {
		return nil, errors.Wrap(err, "failed to create instance")
	}
	if err := vk.InitInstance(instance.VKInstance); err != nil {
		vk.DestroyInstance(instance.VKInstance, nil)
		return nil, errors.Wrap(err, "failed to load instance functions")
	}
	render.Logger().Info("vkr: instance created", "extensions", opts.Extensions, "layers", layers)
	return instance, nil
}

// PhysicalDevices returns every device the instance can see.
func (i *Instance) PhysicalDevices() ([]vk.PhysicalDevice, error) {
	var count uint32
	if err := NewError(vk.EnumeratePhysicalDevices(i.VKInstance, &count, nil)); err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, errors.New("failed to find GPUs with Vulkan support")
	}
	devices := make([]vk.PhysicalDevice, count)
	if err := NewError(vk.EnumeratePhysicalDevices(i.VKInstance, &count, devices)); err != nil {
		return nil, err
	}
	return devices, nil
}

func (i *Instance) DestroySurface(surface vk.Surface) {
	vk.DestroySurface(i.VKInstance, surface, nil)
}

func (i *Instance) Destroy() {
	vk.DestroyInstance(i.VKInstance, nil)
}
