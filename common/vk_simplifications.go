package common

import (
	vk "github.com/goki/vulkan"
	"log"
)

// Utility functions providing slightly altered versions of the raw go bindings and wrapped functions. These altered
// versions of common functions should only hide very obvious default values that will not need to change most of the
// time. Thus representing a tiny step-up in abstraction to allow for a simpler usage of common vulkan calls. Each
// simplification function should specify the simplification it does. Names are prefixed with VKS which stands for
// (V)ul(K)an (S)implified.

// VKSAllocateCommandBuffers simplifies vk.AllocateCommandBuffers(...) by assuming the number of desired CommandBuffers
// to create is provided in the vk.CommandBufferAllocateInfo parameter.
func VKSAllocateCommandBuffers(device vk.Device, pAllocateInfo *vk.CommandBufferAllocateInfo) ([]vk.CommandBuffer, error) {
	var buffers = make([]vk.CommandBuffer, pAllocateInfo.CommandBufferCount)
	err := vk.Error(vk.AllocateCommandBuffers(device, pAllocateInfo, buffers))
	if err != nil {
		return nil, err
	}
	return buffers, nil
}

// VKSCreateCommandPool implicitly instantiates the CreateInfo for the command pool based in the provided arguments. This
// is easily possible as the CreateInfo does only contain 2 interesting values in this case.
func VKSCreateCommandPool(device vk.Device, flags vk.CommandPoolCreateFlags, QueueFamilyIndex uint32) (vk.CommandPool, error) {
	poolInfo := vk.CommandPoolCreateInfo{
		SType:            vk.StructureTypeCommandPoolCreateInfo,
		PNext:            nil,
		Flags:            flags,
		QueueFamilyIndex: QueueFamilyIndex,
	}
	return VkCreateCommandPool(device, &poolInfo, nil)
}

// VKSBeginSingleTimeCommands allocates a throwaway primary command buffer from the given pool and
// starts recording it with the one time submit hint set.
func VKSBeginSingleTimeCommands(device vk.Device, pool vk.CommandPool) vk.CommandBuffer {
	buffers, err := VKAllocateCommandBuffersPrimary(device, pool, 1)
	if err != nil {
		log.Panicf("Failed to allocate single time command buffer: %s", err)
	}
	beginInfo := vk.CommandBufferBeginInfo{
		SType:            vk.StructureTypeCommandBufferBeginInfo,
		PNext:            nil,
		Flags:            vk.CommandBufferUsageFlags(vk.CommandBufferUsageOneTimeSubmitBit),
		PInheritanceInfo: nil,
	}
	if vk.BeginCommandBuffer(buffers[0], &beginInfo) != vk.Success {
		log.Panicf("Failed to begin recording single time command buffer")
	}
	return buffers[0]
}

// VKSEndSingleTimeCommands finishes the recording started by VKSBeginSingleTimeCommands, submits
// it to the given queue, synchronously waits for the queue to drain and frees the buffer again.
func VKSEndSingleTimeCommands(device vk.Device, pool vk.CommandPool, cmdBuf vk.CommandBuffer, queue vk.Queue) {
	if vk.EndCommandBuffer(cmdBuf) != vk.Success {
		log.Panicf("Failed to end recording single time command buffer")
	}
	submitInfo := vk.SubmitInfo{
		SType:              vk.StructureTypeSubmitInfo,
		PNext:              nil,
		CommandBufferCount: 1,
		PCommandBuffers:    []vk.CommandBuffer{cmdBuf},
	}
	if vk.QueueSubmit(queue, 1, []vk.SubmitInfo{submitInfo}, nil) != vk.Success {
		log.Panicf("Failed to submit single time command buffer")
	}
	vk.QueueWaitIdle(queue)
	vk.FreeCommandBuffers(device, pool, 1, []vk.CommandBuffer{cmdBuf})
}
