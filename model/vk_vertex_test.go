package model

import (
	"testing"

	vk "github.com/goki/vulkan"
)

func TestVertexStride(t *testing.T) {
	// Two Vec3, float32 * 6, no padding
	if got := SizeOfVertex(); got != 24 {
		t.Errorf("SizeOfVertex() = %d, want 24", got)
	}
	if b := GetVertexBindingDescription(); b.Stride != 24 || b.Binding != 0 {
		t.Errorf("binding description = %+v", b)
	}
}

func TestVertexAttributeOffsets(t *testing.T) {
	attrs := GetVertexAttributeDescriptions()
	if len(attrs) != 2 {
		t.Fatalf("got %d attributes, want 2", len(attrs))
	}
	if attrs[0].Location != 0 || attrs[0].Offset != 0 {
		t.Errorf("position attribute = %+v", attrs[0])
	}
	if attrs[1].Location != 1 || attrs[1].Offset != 12 {
		t.Errorf("color attribute = %+v", attrs[1])
	}
	for _, a := range attrs {
		if a.Format != vk.FormatR32g32b32Sfloat {
			t.Errorf("attribute %d format = %v, want R32G32B32_SFLOAT", a.Location, a.Format)
		}
	}
}

func TestCubeModelGeometry(t *testing.T) {
	m := NewCubeModel("cube")
	if len(m.Mesh.Vertices) != 8 {
		t.Errorf("cube has %d vertices, want 8", len(m.Mesh.Vertices))
	}
	if m.Mesh.TriangleCount() != 12 {
		t.Errorf("cube has %d triangles, want 12", m.Mesh.TriangleCount())
	}
	for i, idx := range m.Mesh.VIndices {
		if int(idx) >= len(m.Mesh.Vertices) {
			t.Errorf("index %d out of range: %d", i, idx)
		}
	}
}
