package importer

import (
	"encoding/binary"
	"fmt"
	"math"
	"os"

	"github.com/chromedays/gam400-renderer/model"
	lin "github.com/xlab/linmath"
)

const (
	stlHeaderSize   = 80
	stlFacetStride  = 50
	stlFacetDataLen = 48
)

// ReadSTL parses a binary STL file into a mesh. Facets are emitted as independent triangles
// with the facet normal reused as vertex color, vertices are not deduplicated.
func ReadSTL(path string) (*model.Mesh, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read stl file '%s': %w", path, err)
	}
	if len(b) < stlHeaderSize+4 {
		return nil, fmt.Errorf("stl file '%s' truncated, %d bytes", path, len(b))
	}
	triangleCnt := binary.LittleEndian.Uint32(b[stlHeaderSize : stlHeaderSize+4])
	body := b[stlHeaderSize+4:]
	if uint32(len(body)/stlFacetStride) < triangleCnt {
		return nil, fmt.Errorf("stl file '%s' declares %d triangles but only holds %d",
			path, triangleCnt, len(body)/stlFacetStride)
	}
	return stlToMesh(body, triangleCnt), nil
}

func stlToMesh(bytes []byte, triangleCnt uint32) *model.Mesh {
	v := make([]model.Vertex, 0, triangleCnt*3)
	id := make([]uint32, 0, triangleCnt*3)

	for i := uint32(0); i < triangleCnt; i++ {
		facet := bytes[i*stlFacetStride : i*stlFacetStride+stlFacetDataLen]
		normal := stlVec3(facet[0:12])
		for c := 0; c < 3; c++ {
			v = append(v, model.Vertex{
				Pos:   stlVec3(facet[12+c*12 : 24+c*12]),
				Color: normal,
			})
			id = append(id, uint32(len(id)))
		}
		// Two trailing attribute bytes per facet are ignored
	}
	return model.NewMesh(v, id)
}

func stlVec3(bytes []byte) lin.Vec3 {
	return lin.Vec3{
		stlFloat32(bytes[0:4]),
		stlFloat32(bytes[4:8]),
		stlFloat32(bytes[8:12]),
	}
}

func stlFloat32(bytes []byte) float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(bytes))
}
