package importer

import (
	"fmt"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
	lin "github.com/xlab/linmath"

	"github.com/chromedays/gam400-renderer/model"
)

// GltfOptions steer how glTF geometry is translated into the renderer's vertex layout.
type GltfOptions struct {
	// RequireTriangles rejects primitives whose mode is not TRIANGLES instead of skipping them.
	RequireTriangles bool
	// FlipY negates the Y axis of positions and normals. glTF is y-up, the renderer's clip
	// space is y-down.
	FlipY bool
}

// DefaultGltfOptions matches what the render pipeline expects.
func DefaultGltfOptions() GltfOptions {
	return GltfOptions{
		RequireTriangles: true,
		FlipY:            true,
	}
}

// ReadGltf loads a .gltf or .glb file and merges all triangle primitives of all meshes into a
// single mesh. Vertex colors are taken from the normals when present, matching the STL path.
func ReadGltf(path string, opts GltfOptions) (*model.Mesh, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("gltf open '%s': %w", path, err)
	}
	return meshFromDocument(doc, opts)
}

func meshFromDocument(doc *gltf.Document, opts GltfOptions) (*model.Mesh, error) {
	var vertices []model.Vertex
	var indices []uint32

	for mi, gm := range doc.Meshes {
		for pi, prim := range gm.Primitives {
			if prim.Mode != gltf.PrimitiveTriangles {
				if opts.RequireTriangles {
					return nil, fmt.Errorf("mesh %d primitive %d has mode %d, only TRIANGLES is supported", mi, pi, prim.Mode)
				}
				continue
			}
			base := uint32(len(vertices))
			v, id, err := readPrimitive(doc, prim, opts)
			if err != nil {
				return nil, fmt.Errorf("mesh %d primitive %d: %w", mi, pi, err)
			}
			vertices = append(vertices, v...)
			for _, idx := range id {
				indices = append(indices, base+idx)
			}
		}
	}
	if len(vertices) == 0 {
		return nil, fmt.Errorf("document contains no triangle geometry")
	}
	return model.NewMesh(vertices, indices), nil
}

func readPrimitive(doc *gltf.Document, prim *gltf.Primitive, opts GltfOptions) ([]model.Vertex, []uint32, error) {
	posIdx, ok := prim.Attributes["POSITION"]
	if !ok {
		return nil, nil, fmt.Errorf("no POSITION attribute")
	}
	positions, err := modeler.ReadPosition(doc, doc.Accessors[posIdx], nil)
	if err != nil {
		return nil, nil, fmt.Errorf("positions: %w", err)
	}

	var normals [][3]float32
	if idx, ok := prim.Attributes["NORMAL"]; ok {
		normals, _ = modeler.ReadNormal(doc, doc.Accessors[idx], nil)
	}

	ySign := float32(1)
	if opts.FlipY {
		ySign = -1
	}
	vertices := make([]model.Vertex, len(positions))
	for i, p := range positions {
		v := model.Vertex{
			Pos:   lin.Vec3{p[0], ySign * p[1], p[2]},
			Color: lin.Vec3{0.8, 0.8, 0.8},
		}
		if i < len(normals) {
			n := normals[i]
			v.Color = lin.Vec3{n[0], ySign * n[1], n[2]}
		}
		vertices[i] = v
	}

	var indices []uint32
	if prim.Indices != nil {
		indices, err = modeler.ReadIndices(doc, doc.Accessors[*prim.Indices], nil)
		if err != nil {
			return nil, nil, fmt.Errorf("indices: %w", err)
		}
	} else {
		// Non-indexed primitive, synthesize a trivial index list
		indices = make([]uint32, len(vertices))
		for i := range indices {
			indices[i] = uint32(i)
		}
	}
	return vertices, indices, nil
}
