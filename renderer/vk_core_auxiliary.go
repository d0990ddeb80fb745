package renderer

import (
	"log"
	"unsafe"

	com "github.com/chromedays/gam400-renderer/common"
	"github.com/chromedays/gam400-renderer/model"
	vk "github.com/goki/vulkan"
)

// These are auxiliary functions that abstract from the raw Vulkan API by assuming some reasonable
// defaults where possible. These differ from the VKS functions in vk_simplifications.go by being
// tied to a given Core struct rather than being a general abstraction of the API.

// createSyncObjects allocates one semaphore pair and one fence per frame slot. The slot count
// equals the swap chain image count so every image can be in flight at once. Fences start
// signalled, otherwise the first wait on each slot would stall forever.
func (c *Core) createSyncObjects() {
	n := len(c.swapChain.Images)
	c.imageAvailableSems = make([]vk.Semaphore, n)
	c.renderFinishedSems = make([]vk.Semaphore, n)
	c.inFlightFens = make([]vk.Fence, n)
	c.imagesInFlight = make([]vk.Fence, n)

	semInfo := vk.SemaphoreCreateInfo{
		SType: vk.StructureTypeSemaphoreCreateInfo,
		PNext: nil,
		Flags: 0,
	}
	fenceInfo := vk.FenceCreateInfo{
		SType: vk.StructureTypeFenceCreateInfo,
		PNext: nil,
		Flags: vk.FenceCreateFlags(vk.FenceCreateSignaledBit),
	}
	for i := 0; i < n; i++ {
		if vk.CreateSemaphore(c.device.D, &semInfo, nil, &c.imageAvailableSems[i]) != vk.Success ||
			vk.CreateSemaphore(c.device.D, &semInfo, nil, &c.renderFinishedSems[i]) != vk.Success ||
			vk.CreateFence(c.device.D, &fenceInfo, nil, &c.inFlightFens[i]) != vk.Success {
			log.Panicf("Failed to create sync objects for frame slot %d", i)
		}
	}
	log.Printf("Created sync objects for %d frame slots", n)
}

// createUniformBuffers allocates one host visible uniform buffer per swap chain image and keeps
// each persistently mapped for the lifetime of the core.
func (c *Core) createUniformBuffers() {
	n := len(c.swapChain.Images)
	c.uniformBuffers = make([]*com.Buffer, n)
	c.uniformBuffersMapped = make([]unsafe.Pointer, n)

	for i := 0; i < n; i++ {
		c.uniformBuffers[i] = com.CreateBuffer(
			c.device,
			model.SizeOfUbo(),
			vk.BufferUsageFlags(vk.BufferUsageUniformBufferBit),
			vk.MemoryPropertyFlags(vk.MemoryPropertyHostVisibleBit|vk.MemoryPropertyHostCoherentBit),
		)
		ptr, err := com.VkMapMemory(c.device.D, c.uniformBuffers[i].DeviceMem, 0, model.SizeOfUbo(), 0)
		if err != nil {
			log.Panicf("Failed to map uniform buffer %d due to: %s", i, err)
		}
		c.uniformBuffersMapped[i] = ptr
	}
}

func (c *Core) createCommandBuffers() {
	buffers, err := com.VKAllocateCommandBuffersPrimary(c.device.D, c.graphicsCmdPool, uint32(len(c.swapChain.Images)))
	if err != nil {
		log.Panicf("Failed to allocate command buffers due to: %s", err)
	}
	c.commandBuffers = buffers
}

// copyBuffer issues a synchronous copy on the transfer queue. Used to move staged vertex and
// index data into device local memory.
func (c *Core) copyBuffer(src *com.Buffer, dst *com.Buffer) {
	cmdBuf := com.VKSBeginSingleTimeCommands(c.device.D, c.transferCmdPool)
	copyRegion := vk.BufferCopy{
		SrcOffset: 0,
		DstOffset: 0,
		Size:      src.Size,
	}
	vk.CmdCopyBuffer(cmdBuf, src.Handle, dst.Handle, 1, []vk.BufferCopy{copyRegion})
	com.VKSEndSingleTimeCommands(c.device.D, c.transferCmdPool, cmdBuf, c.device.TransferQ)
}

func (c *Core) allocateVBuffer(m *model.Model) {
	deviceBuf := com.CreateBuffer(
		c.device,
		m.GetVBufferSize(),
		vk.BufferUsageFlags(vk.BufferUsageTransferDstBit|vk.BufferUsageVertexBufferBit),
		vk.MemoryPropertyFlags(vk.MemoryPropertyDeviceLocalBit),
	)
	stagingBuf := com.CreateStagingBuffer(c.device, deviceBuf)
	defer com.DestroyBuffer(c.device, stagingBuf)

	com.CopyToDeviceBuffer(c.device, stagingBuf, m.GetVBufferBytes())
	c.copyBuffer(stagingBuf, deviceBuf)

	m.VertexBuffer = deviceBuf.Handle
	m.VertexBufferMem = deviceBuf.DeviceMem
}

func (c *Core) allocateIdxBuffer(m *model.Model) {
	deviceBuf := com.CreateBuffer(
		c.device,
		m.GetIdxBufferSize(),
		vk.BufferUsageFlags(vk.BufferUsageTransferDstBit|vk.BufferUsageIndexBufferBit),
		vk.MemoryPropertyFlags(vk.MemoryPropertyDeviceLocalBit),
	)
	stagingBuf := com.CreateStagingBuffer(c.device, deviceBuf)
	defer com.DestroyBuffer(c.device, stagingBuf)

	com.CopyToDeviceBuffer(c.device, stagingBuf, m.GetIdxBufferBytes())
	c.copyBuffer(stagingBuf, deviceBuf)

	m.IndexBuffer = deviceBuf.Handle
	m.IndexBufferMem = deviceBuf.DeviceMem
}
