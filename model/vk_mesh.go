package model

// Mesh is plain geometry, vertices plus the indices addressing them. It carries no device
// handles, those live on the Model that owns the mesh once it enters a scene.
type Mesh struct {
	Vertices []Vertex
	VIndices []uint32
}

func NewMesh(v []Vertex, id []uint32) *Mesh {
	return &Mesh{
		Vertices: v,
		VIndices: id,
	}
}

// TriangleCount assumes a triangle list topology, which is the only one the pipeline uses.
func (m *Mesh) TriangleCount() int {
	return len(m.VIndices) / 3
}
