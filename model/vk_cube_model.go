package model

import lin "github.com/xlab/linmath"

func NewCubeModel(name string) *Model {

	// 8 corners, 24 Byte each (float32 * 6, no padding)
	v := []Vertex{
		{ // [0]
			Pos:   lin.Vec3{-0.5, -0.5, -0.5},
			Color: lin.Vec3{1, 0, 0},
		},
		{ // [1]
			Pos:   lin.Vec3{0.5, -0.5, -0.5},
			Color: lin.Vec3{0, 1, 0},
		},
		{ // [2]
			Pos:   lin.Vec3{0.5, 0.5, -0.5},
			Color: lin.Vec3{0, 0, 1},
		},
		{ // [3]
			Pos:   lin.Vec3{-0.5, 0.5, -0.5},
			Color: lin.Vec3{1, 0.5, 1},
		},
		{ // [4]
			Pos:   lin.Vec3{-0.5, -0.5, 0.5},
			Color: lin.Vec3{1, 0.5, 0.5},
		},
		{ // [5]
			Pos:   lin.Vec3{0.5, -0.5, 0.5},
			Color: lin.Vec3{0.5, 1, 0.5},
		},
		{ // [6]
			Pos:   lin.Vec3{0.5, 0.5, 0.5},
			Color: lin.Vec3{0.5, 0.5, 1},
		},
		{ // [7]
			Pos:   lin.Vec3{-0.5, 0.5, 0.5},
			Color: lin.Vec3{0, 0.5, 0},
		},
	}

	// Clockwise winding when looking at each face from the outside
	id := []uint32{
		2, 1, 0, 0, 3, 2, // front
		5, 1, 6, 1, 2, 6, // right
		4, 5, 6, 7, 4, 6, // back
		4, 7, 0, 0, 7, 3, // left
		0, 1, 5, 5, 4, 0, // top
		3, 7, 6, 2, 3, 6, // bottom
	}

	mesh := NewMesh(v, id)
	return NewModel(mesh, name)
}
