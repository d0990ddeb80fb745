package model

import (
	"unsafe"

	"github.com/chromedays/gam400-renderer/common"
	vk "github.com/goki/vulkan"
)

type Model struct {
	Mesh            *Mesh
	Name            string
	VertexBuffer    vk.Buffer
	VertexBufferMem vk.DeviceMemory
	IndexBuffer     vk.Buffer
	IndexBufferMem  vk.DeviceMemory
}

func NewModel(m *Mesh, n string) *Model {
	return &Model{
		Name: n,
		Mesh: m,
	}
}

// GetVBufferSize returns the size required for keeping this model in device memory.
// Mainly used to determine the buffer size when calling CreateBuffer(size vk.DeviceSize, ...)
func (m *Model) GetVBufferSize() vk.DeviceSize {
	return vk.DeviceSize(int(SizeOfVertex()) * len(m.Mesh.Vertices))
}

// GetVBufferBytes returns the raw bytes representing all vertices for this model.
// Mainly used to execute vk.Memcopy(..., src []byte) to move memory from CPU to GPU
func (m *Model) GetVBufferBytes() []byte {
	return common.RawBytes(m.Mesh.Vertices)
}

// GetIdxBufferSize returns the size required for keeping this model's indices in device memory.
func (m *Model) GetIdxBufferSize() vk.DeviceSize {
	return vk.DeviceSize(int(unsafe.Sizeof(m.Mesh.VIndices[0])) * len(m.Mesh.VIndices))
}

// GetIdxBufferBytes returns the raw bytes representing the indices used to address vertex data for this model.
func (m *Model) GetIdxBufferBytes() []byte {
	return common.RawBytes(m.Mesh.VIndices)
}
