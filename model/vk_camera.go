package model

import (
	lin "github.com/xlab/linmath"
)

// Camera produces the view and projection half of the UniformBufferObject. Aspect is refreshed
// by the render core from the swap chain whenever the surface changes, everything else belongs
// to the application.
type Camera struct {
	Fov    float32
	Aspect float32
	Near   float32
	Far    float32

	Eye    lin.Vec3
	Center lin.Vec3
	Up     lin.Vec3
}

func NewCamera(fov float32, near float32, far float32) *Camera {
	return &Camera{
		Fov:    fov,
		Aspect: 1,
		Near:   near,
		Far:    far,
		Eye:    lin.Vec3{0, 0, -2},
		Center: lin.Vec3{0, 0, 0},
		// Vulkan clip space is y-down
		Up: lin.Vec3{0, -1, 0},
	}
}

// Move shifts eye and look target together, keeping the viewing direction.
func (c *Camera) Move(d lin.Vec3) {
	for i := range d {
		c.Eye[i] += d[i]
		c.Center[i] += d[i]
	}
}

// SetTarget points the camera at the given position without moving the eye.
func (c *Camera) SetTarget(t lin.Vec3) {
	c.Center = t
}

func (c *Camera) GetView() lin.Mat4x4 {
	var view lin.Mat4x4
	view.LookAt(&c.Eye, &c.Center, &c.Up)
	return view
}

func (c *Camera) GetProjection() lin.Mat4x4 {
	var proj lin.Mat4x4
	proj.Perspective(lin.DegreesToRadians(c.Fov), c.Aspect, c.Near, c.Far)
	return proj
}
