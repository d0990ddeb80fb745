package importer

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/qmuntal/gltf"
)

// buildTriangleDoc assembles an in-memory document holding a single indexed triangle with
// normals, tightly packed into one buffer.
func buildTriangleDoc(t *testing.T) *gltf.Document {
	t.Helper()
	positions := [][3]float32{
		{0, 1, 0},
		{-1, -1, 0},
		{1, -1, 0},
	}
	normals := [][3]float32{
		{0, 0, 1},
		{0, 0, 1},
		{0, 0, 1},
	}
	indices := []uint32{0, 1, 2}

	var data []byte
	putVec3 := func(vs [][3]float32) {
		for _, v := range vs {
			for _, f := range v {
				data = binary.LittleEndian.AppendUint32(data, math.Float32bits(f))
			}
		}
	}
	putVec3(positions)
	putVec3(normals)
	for _, i := range indices {
		data = binary.LittleEndian.AppendUint32(data, i)
	}

	return &gltf.Document{
		Buffers: []*gltf.Buffer{
			{ByteLength: len(data), Data: data},
		},
		BufferViews: []*gltf.BufferView{
			{Buffer: 0, ByteOffset: 0, ByteLength: 36},
			{Buffer: 0, ByteOffset: 36, ByteLength: 36},
			{Buffer: 0, ByteOffset: 72, ByteLength: 12},
		},
		Accessors: []*gltf.Accessor{
			{BufferView: gltf.Index(0), ComponentType: gltf.ComponentFloat, Count: 3, Type: gltf.AccessorVec3},
			{BufferView: gltf.Index(1), ComponentType: gltf.ComponentFloat, Count: 3, Type: gltf.AccessorVec3},
			{BufferView: gltf.Index(2), ComponentType: gltf.ComponentUint, Count: 3, Type: gltf.AccessorScalar},
		},
		Meshes: []*gltf.Mesh{
			{
				Name: "triangle",
				Primitives: []*gltf.Primitive{
					{
						Attributes: map[string]int{"POSITION": 0, "NORMAL": 1},
						Indices:    gltf.Index(2),
						Mode:       gltf.PrimitiveTriangles,
					},
				},
			},
		},
	}
}

func TestMeshFromDocument(t *testing.T) {
	doc := buildTriangleDoc(t)
	mesh, err := meshFromDocument(doc, GltfOptions{RequireTriangles: true})
	if err != nil {
		t.Fatalf("meshFromDocument failed: %s", err)
	}
	if len(mesh.Vertices) != 3 {
		t.Fatalf("got %d vertices, want 3", len(mesh.Vertices))
	}
	if mesh.TriangleCount() != 1 {
		t.Errorf("triangle count = %d, want 1", mesh.TriangleCount())
	}
	if mesh.Vertices[0].Pos[1] != 1 {
		t.Errorf("vertex 0 y = %f, want 1 without FlipY", mesh.Vertices[0].Pos[1])
	}
	// Normals become vertex colors
	if mesh.Vertices[0].Color[2] != 1 {
		t.Errorf("vertex 0 color = %v, want normal (0 0 1)", mesh.Vertices[0].Color)
	}
}

func TestMeshFromDocumentFlipY(t *testing.T) {
	doc := buildTriangleDoc(t)
	mesh, err := meshFromDocument(doc, GltfOptions{RequireTriangles: true, FlipY: true})
	if err != nil {
		t.Fatalf("meshFromDocument failed: %s", err)
	}
	if mesh.Vertices[0].Pos[1] != -1 {
		t.Errorf("vertex 0 y = %f, want -1 with FlipY", mesh.Vertices[0].Pos[1])
	}
	if mesh.Vertices[1].Pos[1] != 1 {
		t.Errorf("vertex 1 y = %f, want 1 with FlipY", mesh.Vertices[1].Pos[1])
	}
}

func TestMeshFromDocumentRejectsNonTriangles(t *testing.T) {
	doc := buildTriangleDoc(t)
	doc.Meshes[0].Primitives[0].Mode = gltf.PrimitiveLines

	if _, err := meshFromDocument(doc, GltfOptions{RequireTriangles: true}); err == nil {
		t.Errorf("expected error for non-triangle primitive")
	}
	// Without the requirement the primitive is skipped, leaving the document empty
	if _, err := meshFromDocument(doc, GltfOptions{}); err == nil {
		t.Errorf("expected error for document without triangle geometry")
	}
}

func TestMeshFromDocumentMissingPosition(t *testing.T) {
	doc := buildTriangleDoc(t)
	delete(doc.Meshes[0].Primitives[0].Attributes, "POSITION")

	if _, err := meshFromDocument(doc, GltfOptions{RequireTriangles: true}); err == nil {
		t.Errorf("expected error for primitive without POSITION")
	}
}
