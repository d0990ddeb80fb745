package importer

import (
	"encoding/binary"
	"math"
	"os"
	"path/filepath"
	"testing"
)

// writeStlFile synthesizes a binary STL with the given facets, each facet being a normal
// followed by three corners.
func writeStlFile(t *testing.T, facets [][4][3]float32) string {
	t.Helper()
	data := make([]byte, stlHeaderSize)
	copy(data, "synthetic test solid")
	data = binary.LittleEndian.AppendUint32(data, uint32(len(facets)))
	for _, facet := range facets {
		for _, vec := range facet {
			for _, f := range vec {
				data = binary.LittleEndian.AppendUint32(data, math.Float32bits(f))
			}
		}
		data = append(data, 0, 0) // attribute byte count
	}

	path := filepath.Join(t.TempDir(), "test.stl")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatalf("failed to write stl file: %s", err)
	}
	return path
}

func TestReadSTL(t *testing.T) {
	path := writeStlFile(t, [][4][3]float32{
		{
			{0, 0, 1},  // normal
			{0, 0, 0},  // v1
			{1, 0, 0},  // v2
			{0, 1, 0},  // v3
		},
		{
			{1, 0, 0},
			{0, 0, 0},
			{0, 1, 0},
			{0, 0, 1},
		},
	})

	mesh, err := ReadSTL(path)
	if err != nil {
		t.Fatalf("ReadSTL failed: %s", err)
	}
	if len(mesh.Vertices) != 6 {
		t.Fatalf("got %d vertices, want 6", len(mesh.Vertices))
	}
	if mesh.TriangleCount() != 2 {
		t.Errorf("triangle count = %d, want 2", mesh.TriangleCount())
	}

	// Facets stay independent triangles with a trivial index list
	for i, idx := range mesh.VIndices {
		if int(idx) != i {
			t.Errorf("index %d = %d, want %d", i, idx, i)
		}
	}

	// The facet normal is reused as color on all three corners
	for i := 0; i < 3; i++ {
		if mesh.Vertices[i].Color[2] != 1 {
			t.Errorf("vertex %d color = %v, want facet normal (0 0 1)", i, mesh.Vertices[i].Color)
		}
	}
	if mesh.Vertices[1].Pos[0] != 1 {
		t.Errorf("vertex 1 pos = %v, want (1 0 0)", mesh.Vertices[1].Pos)
	}
	if mesh.Vertices[3].Color[0] != 1 {
		t.Errorf("vertex 3 color = %v, want facet normal (1 0 0)", mesh.Vertices[3].Color)
	}
}

func TestReadSTLTruncatedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "short.stl")
	if err := os.WriteFile(path, make([]byte, 30), 0644); err != nil {
		t.Fatalf("failed to write stl file: %s", err)
	}
	if _, err := ReadSTL(path); err == nil {
		t.Errorf("expected error for truncated file")
	}
}

func TestReadSTLCountMismatch(t *testing.T) {
	// Header claims 5 triangles but the body only holds one
	path := writeStlFile(t, [][4][3]float32{
		{
			{0, 0, 1},
			{0, 0, 0},
			{1, 0, 0},
			{0, 1, 0},
		},
	})
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to re-read stl file: %s", err)
	}
	binary.LittleEndian.PutUint32(data[stlHeaderSize:], 5)
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatalf("failed to rewrite stl file: %s", err)
	}

	if _, err := ReadSTL(path); err == nil {
		t.Errorf("expected error for declared count exceeding file size")
	}
}
