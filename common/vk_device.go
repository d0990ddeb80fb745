package common

import (
	vk "github.com/goki/vulkan"
	"log"
)

const ENABLE_VALIDATION = true

var VALIDATION_LAYERS = []string{
	"VK_LAYER_KHRONOS_validation",
}

var DEVICE_EXTENSIONS = []string{
	"VK_KHR_swapchain",
}

// Device represents the interfacing objects between the SDL window, the Hardware running Vulkan
// and the rest of the rendering engine. Its main purpose is to encapsulate the corresponding objects
// to make the initialization and teardown of a given application neater.
type Device struct {
	PD            vk.PhysicalDevice
	PdProps       vk.PhysicalDeviceProperties
	PdMemoryProps vk.PhysicalDeviceMemoryProperties
	QFamilies     QueueFamilyIndices
	QSlots        QueueSlots

	D         vk.Device
	GraphicsQ vk.Queue
	TransferQ vk.Queue
	ComputeQ  vk.Queue
	PresentQ  vk.Queue
}

func NewDevice(w *Window) *Device {
	dc := &Device{}
	dc.selectPhysicalDevice(w.Inst, w.Surf)
	dc.createLogicalDevice()
	return dc
}

// destroy all objects created by itself. It does not destroy the sdl.window object provided for instantiation.
func (dc *Device) Destroy() {
	vk.DestroyDevice(dc.D, nil)
}

// selectPhysicalDevice settles on the first enumerated device that satisfies all requirements.
// There is no ranking between multiple capable devices.
func (dc *Device) selectPhysicalDevice(in *vk.Instance, su *vk.Surface) {
	availableDevices := ReadPhysicalDevices(*in)
	var pd vk.PhysicalDevice
	for i := range availableDevices {
		if isDeviceSuitable(availableDevices[i], su) {
			pd = availableDevices[i]
			break
		}
	}
	if pd == nil {
		log.Panicf("No suitable physical device (GPU) found")
	}
	log.Printf("Found suitable device")
	dc.PD = pd

	// Also set related member variables for dc.PD as they are needed later
	qf, err := findQueueFamilies(dc.PD, *su)
	if err != nil {
		log.Panicf("Failed to read queue families from selected device due to: %s", err)
	}
	dc.QFamilies = *qf
	dc.QFamilies.logAssignment()
	dc.QSlots, err = dc.QFamilies.resolveQueueSlots(ReadQueueFamilies(dc.PD))
	if err != nil {
		log.Panicf("Failed to resolve queue slots: %s", err)
	}
	dc.PdProps = ReadPhysicalDeviceProperties(dc.PD)
	// this is the easiest spot to deref this at the moment
	dc.PdProps.Limits.Deref()
	dc.PdMemoryProps = ReadDeviceMemoryProperties(dc.PD)
}

func isDeviceSuitable(pd vk.PhysicalDevice, su *vk.Surface) bool {
	pdProps := ReadPhysicalDeviceProperties(pd)
	pdFeatures := ReadPhysicalDeviceFeatures(pd)
	pdQueueFams := ReadQueueFamilies(pd)

	log.Printf("Physical device\n%s", ToStringPhysicalDeviceTable(pdProps, pdFeatures, pdQueueFams))

	indices, err := findQueueFamilies(pd, *su)
	if err != nil {
		log.Printf("Failed to get required queue families: %s", err)
		return false
	}

	queuesSupported := indices.isAllQueuesFound()
	isUsableGPU := pdProps.DeviceType == vk.PhysicalDeviceTypeDiscreteGpu ||
		pdProps.DeviceType == vk.PhysicalDeviceTypeIntegratedGpu
	featuresSupported := pdFeatures.GeometryShader == vk.True &&
		pdFeatures.TessellationShader == vk.True &&
		pdFeatures.FillModeNonSolid == vk.True &&
		pdFeatures.DepthClamp == vk.True
	extensionsSupported := checkDeviceExtensionSupport(pd, DEVICE_EXTENSIONS)

	isSwapChainAdequate := false
	if extensionsSupported {
		isSwapChainAdequate = checkSwapChainAdequacy(pd, *su)
	}

	return isUsableGPU && featuresSupported && queuesSupported && extensionsSupported && isSwapChainAdequate
}

func (dc *Device) createLogicalDevice() {
	queueInfos := dc.QSlots.toQueueCreateInfos()
	deviceFeatures := vk.PhysicalDeviceFeatures{
		GeometryShader:     vk.True,
		TessellationShader: vk.True,
		FillModeNonSolid:   vk.True,
		DepthClamp:         vk.True,
	}
	deviceCreatInfo := &vk.DeviceCreateInfo{
		SType:                   vk.StructureTypeDeviceCreateInfo,
		PNext:                   nil,
		Flags:                   0,
		QueueCreateInfoCount:    uint32(len(queueInfos)),
		PQueueCreateInfos:       queueInfos,
		EnabledLayerCount:       0,
		PpEnabledLayerNames:     nil,
		EnabledExtensionCount:   uint32(len(DEVICE_EXTENSIONS)),
		PpEnabledExtensionNames: TerminatedStrs(DEVICE_EXTENSIONS),
		PEnabledFeatures:        []vk.PhysicalDeviceFeatures{deviceFeatures},
	}
	if ENABLE_VALIDATION {
		deviceCreatInfo.EnabledLayerCount = uint32(len(VALIDATION_LAYERS))
		deviceCreatInfo.PpEnabledLayerNames = TerminatedStrs(VALIDATION_LAYERS)
	}

	var err error
	dc.D, err = VkCreateDevice(dc.PD, deviceCreatInfo, nil)
	if err != nil {
		log.Panicf("Failed create logical device due to: %s", err)
	}
	dc.GraphicsQ, err = VkGetDeviceQueue(dc.D, dc.QSlots.Graphics)
	if err != nil {
		log.Panicf("Failed to get 'graphics' device queue: %s", err)
	}
	dc.TransferQ, err = VkGetDeviceQueue(dc.D, dc.QSlots.Transfer)
	if err != nil {
		log.Panicf("Failed to get 'transfer' device queue: %s", err)
	}
	dc.ComputeQ, err = VkGetDeviceQueue(dc.D, dc.QSlots.Compute)
	if err != nil {
		log.Panicf("Failed to get 'compute' device queue: %s", err)
	}
	dc.PresentQ, err = VkGetDeviceQueue(dc.D, dc.QSlots.Present)
	if err != nil {
		log.Panicf("Failed to get 'present' device queue: %s", err)
	}
}

// WaitAllQueuesIdle drains every retrieved queue. Used on shutdown before any teardown starts.
func (dc *Device) WaitAllQueuesIdle() {
	vk.QueueWaitIdle(dc.GraphicsQ)
	vk.QueueWaitIdle(dc.TransferQ)
	vk.QueueWaitIdle(dc.ComputeQ)
	vk.QueueWaitIdle(dc.PresentQ)
}

func checkDeviceExtensionSupport(pd vk.PhysicalDevice, requiredDeviceExt []string) bool {
	supportedExt := ReadDeviceExtensionProperties(pd)
	log.Printf("Required device extensions: %v", requiredDeviceExt)
	log.Printf("Available device extensions (%d) [...]\n", len(supportedExt))
	supportedExtNames := make([]string, len(supportedExt))
	for i, ext := range supportedExt {
		supportedExtNames[i] = vk.ToString(ext.ExtensionName[:])
	}
	return AllOfAinB(requiredDeviceExt, supportedExtNames)
}
