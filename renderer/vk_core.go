package renderer

import "C"
import (
	"log"
	"math"
	"time"
	"unsafe"

	com "github.com/chromedays/gam400-renderer/common"
	"github.com/chromedays/gam400-renderer/model"
	vk "github.com/goki/vulkan"
	"github.com/veandco/go-sdl2/sdl"
	lin "github.com/xlab/linmath"
)

const PROGRAM_NAME = "Bibim Renderer"
const WINDOW_WIDTH, WINDOW_HEIGHT int32 = 1280, 720

type Core struct {
	// OS/Window level
	Win    *com.Window
	device *com.Device

	// Target level
	swapChain *com.SwapChain

	// Drawing infrastructure level
	renderPass     vk.RenderPass
	pipelineLayout vk.PipelineLayout
	pipelines      []vk.Pipeline
	descriptors    *DescriptorProvisioner

	graphicsCmdPool vk.CommandPool
	transferCmdPool vk.CommandPool

	// Frame level - command buffers and uniform buffers are keyed by the acquired image index,
	// the semaphore/fence sets by frame slot. imagesInFlight bridges the two.
	commandBuffers     []vk.CommandBuffer
	imageAvailableSems []vk.Semaphore
	renderFinishedSems []vk.Semaphore
	inFlightFens       []vk.Fence
	imagesInFlight     []vk.Fence
	frames             frameCycle

	// Data level
	uniformBuffers       []*com.Buffer
	uniformBuffersMapped []unsafe.Pointer

	// 3D World
	Cam      *model.Camera
	WorldMat lin.Mat4x4
	models   []*model.Model
}

// Externally facing functions

func NewRenderCore() *Core {
	c := &Core{}
	c.Initialize()
	return c
}

func (c *Core) Initialize() {
	var layers []string
	if com.ENABLE_VALIDATION {
		layers = com.VALIDATION_LAYERS
	}
	c.Win = com.NewWindow(PROGRAM_NAME, WINDOW_WIDTH, WINDOW_HEIGHT, layers)
	c.device = com.NewDevice(c.Win)
	c.swapChain = com.NewSwapChain(c.device, c.Win)

	c.createRenderPass()
	c.descriptors = NewDescriptorProvisioner(c.device.D)
	c.descriptors.createDescriptorSetLayout()
	c.createGraphicsPipeline()
	c.createCommandPools()
	c.createFrameBuffers()

	c.createUniformBuffers()
	imgCount := uint32(len(c.swapChain.Images))
	c.descriptors.createDescriptorPool(imgCount)
	c.descriptors.createDescriptorSets(c.uniformBuffers)

	c.createCommandBuffers()
	c.refreshCommandBuffers()
	c.createSyncObjects()
	c.initFrameCycle()

	c.WorldMat.Identity()
	c.DefaultCam()
}

type iterationHandler func(sdl.Event, *Core)

type drawHandler func(time.Duration, *Core)

// Loop this function represents the event-loop for user interaction and currently also contains
// the primary draw call that renders each frame. The whole purpose of this function is to provide
// a neat interface for call backs and all basic functionality a well-behaved app should have. E.g.:
// Not rendering if minimized, close on Window 'close button', close on ESC key.
func (c *Core) Loop(ih iterationHandler, dh drawHandler) {
	t0 := time.Now()
	frames := 0
	var event sdl.Event
	c.Win.Close = false
	for !c.Win.Close {
		for event = sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
			c.Win.HandleEvent(event)
			if ev, ok := event.(*sdl.KeyboardEvent); ok && ev.Keysym.Sym == sdl.K_ESCAPE {
				c.Win.Close = true
			}
			ih(event, c)
		}
		if !c.Win.Minimized {
			dh(time.Since(t0), c)
			c.drawFrame()
			frames++
		} else {
			// Sleep until new events arrive, they may clear c.Win.Minimized. The event is
			// handled here directly as it will not show up in the poll above again.
			if event = sdl.WaitEvent(); event != nil {
				c.Win.HandleEvent(event)
				ih(event, c)
			}
		}
	}
	dt := time.Since(t0)
	log.Printf("Elapsed: %v, rough avg fps: %v fps", dt, float64(frames)/dt.Seconds())
}

func (c *Core) drawFrame() {
	if c.frames.step(c.Win.Resized) {
		c.Win.Resized = false
	}
}

func (c *Core) Destroy() {
	// We need to wait for the last asynchronous call to finish before tear down
	c.device.WaitAllQueuesIdle()
	vk.DeviceWaitIdle(c.device.D)

	// If user has not cleaned up all models manually, warn and remove them now
	if len(c.models) > 0 {
		log.Printf("Leftover models in render core!: %v", len(c.models))
		c.ClearSceneForced()
	}

	for i := range c.inFlightFens {
		vk.DestroySemaphore(c.device.D, c.imageAvailableSems[i], nil)
		vk.DestroySemaphore(c.device.D, c.renderFinishedSems[i], nil)
		vk.DestroyFence(c.device.D, c.inFlightFens[i], nil)
	}

	for i := range c.uniformBuffers {
		vk.UnmapMemory(c.device.D, c.uniformBuffers[i].DeviceMem)
		com.DestroyBuffer(c.device, c.uniformBuffers[i])
	}
	c.descriptors.Destroy()

	vk.DestroyCommandPool(c.device.D, c.graphicsCmdPool, nil)
	vk.DestroyCommandPool(c.device.D, c.transferCmdPool, nil)

	c.destroyPipelineUnit()
	c.swapChain.Destroy(c.device)

	c.device.Destroy()
	c.Win.Destroy()
}

func (c *Core) createRenderPass() {
	colorAttachment := vk.AttachmentDescription{
		Flags:          0,
		Format:         c.swapChain.Format.Format,
		Samples:        vk.SampleCount1Bit,
		LoadOp:         vk.AttachmentLoadOpClear,
		StoreOp:        vk.AttachmentStoreOpStore,
		StencilLoadOp:  vk.AttachmentLoadOpDontCare,
		StencilStoreOp: vk.AttachmentStoreOpDontCare,
		InitialLayout:  vk.ImageLayoutUndefined,
		FinalLayout:    vk.ImageLayoutPresentSrc,
	}
	colorAttachmentRef := vk.AttachmentReference{
		Attachment: 0,
		Layout:     vk.ImageLayoutColorAttachmentOptimal,
	}
	subpass := vk.SubpassDescription{
		Flags:                   0,
		PipelineBindPoint:       vk.PipelineBindPointGraphics,
		InputAttachmentCount:    0,
		PInputAttachments:       nil,
		ColorAttachmentCount:    1,
		PColorAttachments:       []vk.AttachmentReference{colorAttachmentRef},
		PResolveAttachments:     nil,
		PDepthStencilAttachment: nil,
		PreserveAttachmentCount: 0,
		PPreserveAttachments:    nil,
	}
	// The acquired image may still be read by the presentation engine, so color writes have to
	// wait at the color attachment output stage.
	dependency := vk.SubpassDependency{
		SrcSubpass:      vk.SubpassExternal,
		DstSubpass:      0,
		SrcStageMask:    vk.PipelineStageFlags(vk.PipelineStageColorAttachmentOutputBit),
		DstStageMask:    vk.PipelineStageFlags(vk.PipelineStageColorAttachmentOutputBit),
		SrcAccessMask:   0,
		DstAccessMask:   vk.AccessFlags(vk.AccessColorAttachmentWriteBit),
		DependencyFlags: 0,
	}
	renderPassInfo := vk.RenderPassCreateInfo{
		SType:           vk.StructureTypeRenderPassCreateInfo,
		PNext:           nil,
		Flags:           0,
		AttachmentCount: 1,
		PAttachments:    []vk.AttachmentDescription{colorAttachment},
		SubpassCount:    1,
		PSubpasses:      []vk.SubpassDescription{subpass},
		DependencyCount: 1,
		PDependencies:   []vk.SubpassDependency{dependency},
	}
	var err error
	c.renderPass, err = com.VkCreateRenderPass(c.device.D, &renderPassInfo, nil)
	if err != nil {
		log.Panicf("Failed create render pass due to: %s", err)
	}
	log.Println("Successfully created render pass")
}

func (c *Core) createGraphicsPipeline() {
	// Shader module deletion can be done right after pipeline creation
	vertShaderMod, vertStageInfo := LoadVert(c.device.D, "shaders_spv/vert.spv")
	defer DeleteShaderMod(c.device.D, vertShaderMod)
	fragShaderMod, fragStageInfo := LoadFrag(c.device.D, "shaders_spv/frag.spv")
	defer DeleteShaderMod(c.device.D, fragShaderMod)
	shaderStages := []vk.PipelineShaderStageCreateInfo{vertStageInfo, fragStageInfo}
	log.Printf("Prepared %d shader stages for pipeline creation", len(shaderStages))

	bindingDesc := []vk.VertexInputBindingDescription{model.GetVertexBindingDescription()}
	attributeDesc := model.GetVertexAttributeDescriptions()
	vertexInputInfo := vk.PipelineVertexInputStateCreateInfo{
		SType:                           vk.StructureTypePipelineVertexInputStateCreateInfo,
		PNext:                           nil,
		Flags:                           0,
		VertexBindingDescriptionCount:   1,
		PVertexBindingDescriptions:      bindingDesc,
		VertexAttributeDescriptionCount: uint32(len(attributeDesc)),
		PVertexAttributeDescriptions:    attributeDesc,
	}
	inputAssemblyInfo := vk.PipelineInputAssemblyStateCreateInfo{
		SType:                  vk.StructureTypePipelineInputAssemblyStateCreateInfo,
		PNext:                  nil,
		Flags:                  0,
		Topology:               vk.PrimitiveTopologyTriangleList,
		PrimitiveRestartEnable: vk.False,
	}
	// Viewport and scissor are baked in. An extent change recreates the whole pipeline unit,
	// so there is no dynamic state to patch at record time.
	viewport := vk.Viewport{
		X:        0,
		Y:        0,
		Width:    float32(c.swapChain.Extend.Width),
		Height:   float32(c.swapChain.Extend.Height),
		MinDepth: 0,
		MaxDepth: 1.0,
	}
	scissor := vk.Rect2D{
		Offset: vk.Offset2D{X: 0, Y: 0},
		Extent: c.swapChain.Extend,
	}
	viewportStateInfo := vk.PipelineViewportStateCreateInfo{
		SType:         vk.StructureTypePipelineViewportStateCreateInfo,
		PNext:         nil,
		Flags:         0,
		ViewportCount: 1,
		PViewports:    []vk.Viewport{viewport},
		ScissorCount:  1,
		PScissors:     []vk.Rect2D{scissor},
	}
	rasterizerInfo := vk.PipelineRasterizationStateCreateInfo{
		SType:                   vk.StructureTypePipelineRasterizationStateCreateInfo,
		PNext:                   nil,
		Flags:                   0,
		DepthClampEnable:        vk.False,
		RasterizerDiscardEnable: vk.False,
		PolygonMode:             vk.PolygonModeFill,
		CullMode:                vk.CullModeFlags(vk.CullModeBackBit),
		FrontFace:               vk.FrontFaceClockwise,
		DepthBiasEnable:         vk.False,
		DepthBiasConstantFactor: 0,
		DepthBiasClamp:          0,
		DepthBiasSlopeFactor:    0,
		LineWidth:               1.0,
	}
	multisamplingInfo := vk.PipelineMultisampleStateCreateInfo{
		SType:                 vk.StructureTypePipelineMultisampleStateCreateInfo,
		PNext:                 nil,
		Flags:                 0,
		RasterizationSamples:  vk.SampleCount1Bit,
		SampleShadingEnable:   vk.False,
		MinSampleShading:      1.0,
		PSampleMask:           nil,
		AlphaToCoverageEnable: vk.False,
		AlphaToOneEnable:      vk.False,
	}
	colorBlendAttachmentInfo := vk.PipelineColorBlendAttachmentState{
		BlendEnable:         vk.False,
		SrcColorBlendFactor: vk.BlendFactorSrcAlpha,
		DstColorBlendFactor: vk.BlendFactorOneMinusSrcAlpha,
		ColorBlendOp:        vk.BlendOpAdd,
		SrcAlphaBlendFactor: vk.BlendFactorOne,
		DstAlphaBlendFactor: vk.BlendFactorZero,
		AlphaBlendOp:        vk.BlendOpAdd,
		ColorWriteMask:      vk.ColorComponentFlags(vk.ColorComponentRBit | vk.ColorComponentGBit | vk.ColorComponentBBit | vk.ColorComponentABit),
	}
	colorBlendingInfo := vk.PipelineColorBlendStateCreateInfo{
		SType:           vk.StructureTypePipelineColorBlendStateCreateInfo,
		PNext:           nil,
		Flags:           0,
		LogicOpEnable:   vk.False,
		LogicOp:         vk.LogicOpCopy,
		AttachmentCount: 1,
		PAttachments:    []vk.PipelineColorBlendAttachmentState{colorBlendAttachmentInfo},
		BlendConstants:  [4]float32{0, 0, 0, 0},
	}

	pipelineLayoutInfo := vk.PipelineLayoutCreateInfo{
		SType:                  vk.StructureTypePipelineLayoutCreateInfo,
		PNext:                  nil,
		Flags:                  0,
		SetLayoutCount:         1,
		PSetLayouts:            []vk.DescriptorSetLayout{c.descriptors.layout},
		PushConstantRangeCount: 0,
		PPushConstantRanges:    nil,
	}
	layout, err := com.VkCreatePipelineLayout(c.device.D, &pipelineLayoutInfo, nil)
	if err != nil {
		log.Panicf("Failed to create pipeline layout")
	}
	c.pipelineLayout = layout

	// The actual pipeline
	pipelineInfo := vk.GraphicsPipelineCreateInfo{
		SType:               vk.StructureTypeGraphicsPipelineCreateInfo,
		PNext:               nil,
		Flags:               0,
		StageCount:          2,
		PStages:             shaderStages,
		PVertexInputState:   &vertexInputInfo,
		PInputAssemblyState: &inputAssemblyInfo,
		PTessellationState:  nil,
		PViewportState:      &viewportStateInfo,
		PRasterizationState: &rasterizerInfo,
		PMultisampleState:   &multisamplingInfo,
		PDepthStencilState:  nil,
		PColorBlendState:    &colorBlendingInfo,
		PDynamicState:       nil,
		Layout:              c.pipelineLayout,
		RenderPass:          c.renderPass,
		Subpass:             0,
		BasePipelineHandle:  nil,
		BasePipelineIndex:   -1,
	}
	pipelineInfos := []vk.GraphicsPipelineCreateInfo{pipelineInfo}
	pipelines, err := com.VkCreateGraphicsPipelines(c.device.D, nil, 1, pipelineInfos, nil)
	if err != nil {
		log.Panicf("Failed to create graphics pipeline")
	}
	c.pipelines = pipelines
	log.Printf("Successfully created graphics pipeline")
}

// destroyPipelineUnit drops pipeline, layout and render pass together. The three always get
// recreated as one unit because the static viewport binds them to the current extent.
func (c *Core) destroyPipelineUnit() {
	for i := range c.pipelines {
		vk.DestroyPipeline(c.device.D, c.pipelines[i], nil)
	}
	c.pipelines = nil
	vk.DestroyPipelineLayout(c.device.D, c.pipelineLayout, nil)
	vk.DestroyRenderPass(c.device.D, c.renderPass, nil)
}

func (c *Core) createFrameBuffers() {
	c.swapChain.CreateFrameBuffers(c.device, c.renderPass)
}

func (c *Core) createCommandPools() {
	graphicsPool, err := com.VKSCreateCommandPool(
		c.device.D,
		vk.CommandPoolCreateFlags(vk.CommandPoolCreateResetCommandBufferBit),
		c.device.QSlots.Graphics.Family,
	)
	if err != nil {
		log.Panicf("Failed to create graphics command pool")
	}
	c.graphicsCmdPool = graphicsPool

	// Staging copies run on their own pool so startup uploads never touch per image buffers
	transferPool, err := com.VKSCreateCommandPool(
		c.device.D,
		vk.CommandPoolCreateFlags(vk.CommandPoolCreateTransientBit),
		c.device.QSlots.Transfer.Family,
	)
	if err != nil {
		log.Panicf("Failed to create transfer command pool")
	}
	c.transferCmdPool = transferPool
}

// Drawing and derivative functionality

func (c *Core) recordDrawCommands(buffer vk.CommandBuffer, imageIdx uint32) {
	// Begin recording
	beginInfo := vk.CommandBufferBeginInfo{
		SType:            vk.StructureTypeCommandBufferBeginInfo,
		PNext:            nil,
		Flags:            0,
		PInheritanceInfo: nil,
	}
	if vk.BeginCommandBuffer(buffer, &beginInfo) != vk.Success {
		log.Panicf("Failed to begin recording command buffer")
	}

	// Start render pass
	renderArea := vk.Rect2D{
		Offset: vk.Offset2D{X: 0, Y: 0},
		Extent: c.swapChain.Extend,
	}
	clearValues := []vk.ClearValue{
		vk.NewClearValue([]float32{0.01, 0.01, 0.01, 1}),
	}
	renderPassInfo := vk.RenderPassBeginInfo{
		SType:           vk.StructureTypeRenderPassBeginInfo,
		PNext:           nil,
		RenderPass:      c.renderPass,
		Framebuffer:     c.swapChain.FrameBuffers[imageIdx],
		RenderArea:      renderArea,
		ClearValueCount: uint32(len(clearValues)),
		PClearValues:    clearValues,
	}
	vk.CmdBeginRenderPass(buffer, &renderPassInfo, vk.SubpassContentsInline)

	vk.CmdBindPipeline(buffer, vk.PipelineBindPointGraphics, c.pipelines[0])
	vk.CmdBindDescriptorSets(buffer, vk.PipelineBindPointGraphics, c.pipelineLayout, 0, 1,
		[]vk.DescriptorSet{c.descriptors.sets[imageIdx]}, 0, nil)

	for i := range c.models {
		vertBuffers := []vk.Buffer{c.models[i].VertexBuffer}
		offsets := []vk.DeviceSize{0}
		vk.CmdBindVertexBuffers(buffer, 0, uint32(len(vertBuffers)), vertBuffers, offsets)
		vk.CmdBindIndexBuffer(buffer, c.models[i].IndexBuffer, 0, vk.IndexTypeUint32)
		vk.CmdDrawIndexed(buffer, uint32(len(c.models[i].Mesh.VIndices)), 1, 0, 0, 0)
	}

	vk.CmdEndRenderPass(buffer)
	if vk.EndCommandBuffer(buffer) != vk.Success {
		log.Panicf("Failed to record command buffer")
	}
}

// refreshCommandBuffers re-records the pre-baked draw commands for every swap chain image.
// Called once at startup, after every scene change and after a swap chain recreation.
func (c *Core) refreshCommandBuffers() {
	for i := range c.commandBuffers {
		vk.ResetCommandBuffer(c.commandBuffers[i], 0)
		c.recordDrawCommands(c.commandBuffers[i], uint32(i))
	}
}

// recreateSwapChain is the staleness recovery path. It tears down everything derived from the
// old surface state and rebuilds it against the current one, in strict dependency order.
func (c *Core) recreateSwapChain() {
	c.Win.WaitWhileMinimized()
	if c.Win.Close {
		return
	}
	vk.DeviceWaitIdle(c.device.D)

	c.swapChain.Destroy(c.device)
	c.destroyPipelineUnit()

	c.swapChain = com.NewSwapChain(c.device, c.Win)
	if len(c.swapChain.Images) != c.frames.numSlots {
		log.Panicf("Swap chain recreation changed image count %d -> %d, sync objects cannot be reused",
			c.frames.numSlots, len(c.swapChain.Images))
	}
	c.createRenderPass()
	c.createGraphicsPipeline()
	c.createFrameBuffers()
	c.refreshCommandBuffers()
	log.Printf("Recreated swap chain and derivatives (%dx%d)", c.swapChain.Extend.Width, c.swapChain.Extend.Height)
}

func (c *Core) initFrameCycle() {
	c.frames = frameCycle{
		numSlots: len(c.swapChain.Images),
		acquire: func(slot int) (uint32, vk.Result) {
			var imgIdx uint32
			result := vk.AcquireNextImage(c.device.D, c.swapChain.Handle, math.MaxUint64,
				c.imageAvailableSems[slot], nil, &imgIdx)
			return imgIdx, result
		},
		waitSlot: func(slot int, image uint32) {
			// Wait for the slot's previous frame to retire
			vk.WaitForFences(c.device.D, 1, []vk.Fence{c.inFlightFens[slot]}, vk.True, math.MaxUint64)
			// The acquired image may still be owned by another slot's frame
			if c.imagesInFlight[image] != nil {
				vk.WaitForFences(c.device.D, 1, []vk.Fence{c.imagesInFlight[image]}, vk.True, math.MaxUint64)
			}
			c.imagesInFlight[image] = c.inFlightFens[slot]
			// Reset only once we know work will be submitted that re-signals the fence
			vk.ResetFences(c.device.D, 1, []vk.Fence{c.inFlightFens[slot]})
		},
		refresh: func(slot int, image uint32) {
			c.updateUniformBuffer(image)
		},
		submit: func(slot int, image uint32) vk.Result {
			submitInfo := vk.SubmitInfo{
				SType:              vk.StructureTypeSubmitInfo,
				PNext:              nil,
				WaitSemaphoreCount: 1,
				PWaitSemaphores:    []vk.Semaphore{c.imageAvailableSems[slot]},
				PWaitDstStageMask: []vk.PipelineStageFlags{
					vk.PipelineStageFlags(vk.PipelineStageColorAttachmentOutputBit),
				},
				CommandBufferCount:   1,
				PCommandBuffers:      []vk.CommandBuffer{c.commandBuffers[image]},
				SignalSemaphoreCount: 1,
				PSignalSemaphores:    []vk.Semaphore{c.renderFinishedSems[slot]},
			}
			return vk.QueueSubmit(c.device.GraphicsQ, 1, []vk.SubmitInfo{submitInfo}, c.inFlightFens[slot])
		},
		present: func(slot int, image uint32) vk.Result {
			presentInfo := vk.PresentInfo{
				SType:              vk.StructureTypePresentInfo,
				PNext:              nil,
				WaitSemaphoreCount: 1,
				PWaitSemaphores:    []vk.Semaphore{c.renderFinishedSems[slot]},
				SwapchainCount:     1,
				PSwapchains:        []vk.Swapchain{c.swapChain.Handle},
				PImageIndices:      []uint32{image},
				PResults:           nil,
			}
			return vk.QueuePresent(c.device.PresentQ, &presentInfo)
		},
		recreate: c.recreateSwapChain,
	}
}

func (c *Core) updateUniformBuffer(imageIdx uint32) {
	c.Cam.Aspect = c.swapChain.Aspect
	ubo := model.UniformBufferObject{
		Model:      c.WorldMat,
		View:       c.Cam.GetView(),
		Projection: c.Cam.GetProjection(),
	}
	vk.Memcopy(c.uniformBuffersMapped[imageIdx], ubo.Bytes())
}
