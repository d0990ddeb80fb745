package renderer

import (
	"fmt"
	"log"

	"github.com/chromedays/gam400-renderer/model"
	vk "github.com/goki/vulkan"
)

// These functions are part of the rendering core but are split into their own file for logical
// separation. Their focus is scene handling. Adding, removing and adjusting things shown in the
// 3D world of the renderer. In the future this could be moved into its own class representing a
// proper scene tree and its corresponding functionality.

func (c *Core) DefaultCam() {
	c.Cam = model.NewCamera(45, 0.1, 100)
}

func (c *Core) FindInScene(name string) (*model.Model, error) {
	for i, v := range c.models {
		if v.Name == name {
			return c.models[i], nil
		}
	}
	return nil, fmt.Errorf("model '%s' not found", name)
}

// AddToScene uploads the model's mesh to device local buffers and re-records the pre-baked
// draw commands so the next frame includes it.
func (c *Core) AddToScene(m *model.Model) {
	// Careful, we set references for device memory on an object outside the Core.
	// If the object is dereferenced we will not be able to recover this memory
	c.allocateVBuffer(m)
	c.allocateIdxBuffer(m)
	c.models = append(c.models, m)

	vk.DeviceWaitIdle(c.device.D)
	c.refreshCommandBuffers()
	log.Printf("Added model '%s' to scene (%d triangles)", m.Name, m.Mesh.TriangleCount())
}

func (c *Core) ClearScene() {
	for len(c.models) > 0 {
		c.RemoveFromScene(c.models[0])
	}
}

// ClearSceneForced frees all model buffers without re-recording command buffers. Only valid
// during tear down after the device has gone idle.
func (c *Core) ClearSceneForced() {
	for _, m := range c.models {
		c.DestroyModelBuffers(m)
	}
	c.models = nil
}

// RemoveFromScene drops the reference to a model found in the scene.
// Comparison is done naively by name until more sophisticated methods are required.
func (c *Core) RemoveFromScene(m *model.Model) {
	for i, v := range c.models {
		if v.Name == m.Name {
			vk.DeviceWaitIdle(c.device.D)
			c.DestroyModelBuffers(m)
			c.models = append(c.models[:i], c.models[i+1:]...)
			c.refreshCommandBuffers()
			return
		}
	}
}

func (c *Core) DestroyModelBuffers(m *model.Model) {
	vk.DestroyBuffer(c.device.D, m.VertexBuffer, nil)
	vk.FreeMemory(c.device.D, m.VertexBufferMem, nil)
	vk.DestroyBuffer(c.device.D, m.IndexBuffer, nil)
	vk.FreeMemory(c.device.D, m.IndexBufferMem, nil)
	m.VertexBuffer, m.VertexBufferMem = nil, nil
	m.IndexBuffer, m.IndexBufferMem = nil, nil
}
