package model

import lin "github.com/xlab/linmath"

func NewGridPlane(name string) *Model {

	v := []Vertex{
		{ // [0]
			Pos:   lin.Vec3{-1, -1, 0},
			Color: lin.Vec3{1, 0, 0},
		},
		{ // [1]
			Pos:   lin.Vec3{-1, 1, 0},
			Color: lin.Vec3{0, 1, 0},
		},
		{ // [2]
			Pos:   lin.Vec3{1, 1, 0},
			Color: lin.Vec3{0, 0, 1},
		},
		{ // [3]
			Pos:   lin.Vec3{1, -1, 0},
			Color: lin.Vec3{1, 0.5, 1},
		},
	}

	id := []uint32{
		0, 1, 2,
		2, 3, 0,
	}

	mesh := NewMesh(v, id)
	return NewModel(mesh, name)
}
