package model

import (
	"unsafe"

	vk "github.com/goki/vulkan"
	lin "github.com/xlab/linmath"
)

// UniformBufferObject is the per frame uniform block consumed by the vertex stage. The three
// matrices are written back to back in declaration order, matching the std140 layout of three
// consecutive mat4 members.
type UniformBufferObject struct {
	Model      lin.Mat4x4
	View       lin.Mat4x4
	Projection lin.Mat4x4
}

func SizeOfUbo() vk.DeviceSize {
	return vk.DeviceSize(unsafe.Sizeof(UniformBufferObject{}))
}

func (u *UniformBufferObject) Bytes() []byte {
	b := make([]byte, 0, SizeOfUbo())
	b = append(b, u.Model.Data()...)
	b = append(b, u.View.Data()...)
	b = append(b, u.Projection.Data()...)
	return b
}
