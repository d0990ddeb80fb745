package model

import (
	"unsafe"

	vk "github.com/goki/vulkan"
	lin "github.com/xlab/linmath"
)

// Vertex is the layout every mesh hands to the vertex stage: interleaved position and color,
// three float32 each, no padding. The pipeline's vertex input state is generated from it.
type Vertex struct {
	Pos   lin.Vec3
	Color lin.Vec3
}

func SizeOfVertex() uint32 {
	return uint32(unsafe.Sizeof(Vertex{}))
}

func GetVertexBindingDescription() vk.VertexInputBindingDescription {
	return vk.VertexInputBindingDescription{
		Binding:   0,
		Stride:    SizeOfVertex(),
		InputRate: vk.VertexInputRateVertex,
	}
}

func GetVertexAttributeDescriptions() []vk.VertexInputAttributeDescription {
	return []vk.VertexInputAttributeDescription{
		{
			Location: 0,
			Binding:  0,
			Format:   vk.FormatR32g32b32Sfloat,
			Offset:   uint32(unsafe.Offsetof(Vertex{}.Pos)),
		},
		{
			Location: 1,
			Binding:  0,
			Format:   vk.FormatR32g32b32Sfloat,
			Offset:   uint32(unsafe.Offsetof(Vertex{}.Color)),
		},
	}
}
