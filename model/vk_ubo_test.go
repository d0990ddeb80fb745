package model

import (
	"bytes"
	"testing"

	lin "github.com/xlab/linmath"
)

func TestSizeOfUbo(t *testing.T) {
	// Three tightly packed mat4, 16 float32 each
	if got := SizeOfUbo(); got != 3*16*4 {
		t.Errorf("SizeOfUbo() = %d, want %d", got, 3*16*4)
	}
}

func TestUboBytesLayout(t *testing.T) {
	cam := NewCamera(45, 0.1, 100)
	var m lin.Mat4x4
	m.Identity()
	var rotated lin.Mat4x4
	rotated.Rotate(&m, 0, 0, 1, lin.DegreesToRadians(45))

	ubo := UniformBufferObject{
		Model:      rotated,
		View:       cam.GetView(),
		Projection: cam.GetProjection(),
	}
	b := ubo.Bytes()
	if len(b) != int(SizeOfUbo()) {
		t.Fatalf("Bytes() produced %d bytes, want %d", len(b), SizeOfUbo())
	}

	// The three matrices must appear back to back in declaration order
	if !bytes.Equal(b[0:64], ubo.Model.Data()) {
		t.Errorf("model matrix bytes differ")
	}
	if !bytes.Equal(b[64:128], ubo.View.Data()) {
		t.Errorf("view matrix bytes differ")
	}
	if !bytes.Equal(b[128:192], ubo.Projection.Data()) {
		t.Errorf("projection matrix bytes differ")
	}
}

func TestCameraAspectFlowsIntoProjection(t *testing.T) {
	cam := NewCamera(45, 0.1, 100)
	cam.Aspect = 16.0 / 9.0
	wide := cam.GetProjection()
	cam.Aspect = 1
	square := cam.GetProjection()
	if wide == square {
		t.Errorf("projection did not react to aspect change")
	}
}

func TestCameraMoveKeepsDirection(t *testing.T) {
	cam := NewCamera(45, 0.1, 100)
	before := [3]float32{
		cam.Center[0] - cam.Eye[0],
		cam.Center[1] - cam.Eye[1],
		cam.Center[2] - cam.Eye[2],
	}
	cam.Move(lin.Vec3{1, 2, 3})
	after := [3]float32{
		cam.Center[0] - cam.Eye[0],
		cam.Center[1] - cam.Eye[1],
		cam.Center[2] - cam.Eye[2],
	}
	if before != after {
		t.Errorf("viewing direction changed by Move: %v -> %v", before, after)
	}
}
