package renderer

import (
	"log"

	com "github.com/chromedays/gam400-renderer/common"
	"github.com/chromedays/gam400-renderer/model"
	vk "github.com/goki/vulkan"
)

// DescriptorProvisioner owns the single descriptor set layout the pipeline uses plus one set
// per swap chain image, each pointing at that image's uniform buffer. The layout survives swap
// chain recreation, pool and sets do too since the image count is required to stay stable.
type DescriptorProvisioner struct {
	device vk.Device

	layout vk.DescriptorSetLayout
	pool   vk.DescriptorPool
	sets   []vk.DescriptorSet
}

func NewDescriptorProvisioner(device vk.Device) *DescriptorProvisioner {
	return &DescriptorProvisioner{
		device: device,
	}
}

// allocDescriptorSets allocates a list of descriptor sets of given layout from the stated pool
func (dp *DescriptorProvisioner) allocDescriptorSets(pool vk.DescriptorPool, layouts []vk.DescriptorSetLayout) []vk.DescriptorSet {
	cnt := uint32(len(layouts))
	allocInfo := vk.DescriptorSetAllocateInfo{
		SType:              vk.StructureTypeDescriptorSetAllocateInfo,
		PNext:              nil,
		DescriptorPool:     pool,
		DescriptorSetCount: cnt,
		PSetLayouts:        layouts,
	}
	sets := make([]vk.DescriptorSet, cnt)
	err := vk.Error(vk.AllocateDescriptorSets(dp.device, &allocInfo, &(sets[0])))
	if err != nil {
		log.Panicf("Failed to allocate descriptor sets")
	}
	return sets
}

func (dp *DescriptorProvisioner) createDescriptorSetLayout() {
	uboLayoutBinding := vk.DescriptorSetLayoutBinding{
		Binding:            0,                              // <- binding index in vert shader
		DescriptorType:     vk.DescriptorTypeUniformBuffer, // <- type of binding in vert shader
		DescriptorCount:    1,
		StageFlags:         vk.ShaderStageFlags(vk.ShaderStageVertexBit),
		PImmutableSamplers: nil,
	}
	layoutInfo := vk.DescriptorSetLayoutCreateInfo{
		SType:        vk.StructureTypeDescriptorSetLayoutCreateInfo,
		PNext:        nil,
		Flags:        0,
		BindingCount: 1,
		PBindings:    []vk.DescriptorSetLayoutBinding{uboLayoutBinding},
	}
	dsl, err := com.VKCreateDescriptorSetLayout(dp.device, &layoutInfo, nil)
	if err != nil {
		log.Panicf("Failed to create descriptor set layout")
	}
	dp.layout = dsl
}

func (dp *DescriptorProvisioner) createDescriptorPool(imgCount uint32) {
	uboPoolSize := vk.DescriptorPoolSize{
		Type:            vk.DescriptorTypeUniformBuffer,
		DescriptorCount: imgCount,
	}
	poolInfo := vk.DescriptorPoolCreateInfo{
		SType:         vk.StructureTypeDescriptorPoolCreateInfo,
		PNext:         nil,
		Flags:         0,
		MaxSets:       imgCount,
		PoolSizeCount: 1,
		PPoolSizes:    []vk.DescriptorPoolSize{uboPoolSize},
	}
	var descp vk.DescriptorPool
	if vk.CreateDescriptorPool(dp.device, &poolInfo, nil, &descp) != vk.Success {
		log.Panicf("Failed to create descriptor pool")
	}
	dp.pool = descp
}

// createDescriptorSets allocates one set per uniform buffer and binds each buffer at
// binding 0 of its set.
func (dp *DescriptorProvisioner) createDescriptorSets(ubos []*com.Buffer) {
	layouts := make([]vk.DescriptorSetLayout, len(ubos))
	for i := range layouts {
		layouts[i] = dp.layout
	}
	dp.sets = dp.allocDescriptorSets(dp.pool, layouts)

	for i := range ubos {
		bufferInfo := vk.DescriptorBufferInfo{
			Buffer: ubos[i].Handle,
			Offset: 0,
			Range:  model.SizeOfUbo(),
		}
		uboDescriptorWrite := vk.WriteDescriptorSet{
			SType:            vk.StructureTypeWriteDescriptorSet,
			PNext:            nil,
			DstSet:           dp.sets[i],
			DstBinding:       0,
			DstArrayElement:  0,
			DescriptorCount:  1,
			DescriptorType:   vk.DescriptorTypeUniformBuffer,
			PImageInfo:       nil,
			PBufferInfo:      []vk.DescriptorBufferInfo{bufferInfo},
			PTexelBufferView: nil,
		}
		writes := []vk.WriteDescriptorSet{uboDescriptorWrite}
		vk.UpdateDescriptorSets(dp.device, uint32(len(writes)), writes, 0, nil)
	}
}

func (dp *DescriptorProvisioner) Destroy() {
	// Sets are returned implicitly with their pool
	vk.DestroyDescriptorPool(dp.device, dp.pool, nil)
	vk.DestroyDescriptorSetLayout(dp.device, dp.layout, nil)
	dp.sets = nil
}
