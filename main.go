package main

import "C"
import (
	"log"
	"os"
	"runtime"
	"strings"
	"time"

	"github.com/veandco/go-sdl2/sdl"
	lin "github.com/xlab/linmath"

	"github.com/chromedays/gam400-renderer/importer"
	"github.com/chromedays/gam400-renderer/model"
	"github.com/chromedays/gam400-renderer/renderer"
)

func init() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.SetOutput(os.Stdout)
	log.Println("Starting renderer")
	log.Printf("Using GoLang: [%s]", runtime.Version())
}

func onIteration(event sdl.Event, c *renderer.Core) {
	if ev, ok := event.(*sdl.KeyboardEvent); ok && ev.Type == sdl.KEYUP {
		switch ev.Keysym.Sym {
		case sdl.K_1:
			c.Cam.SetTarget(lin.Vec3{0, 0, 0})
		case sdl.K_3:
			// Reset camera
			c.DefaultCam()
		case sdl.K_w:
			c.Cam.Move(lin.Vec3{0, 0, 1})
		case sdl.K_a:
			c.Cam.Move(lin.Vec3{-1, 0, 0})
		case sdl.K_s:
			c.Cam.Move(lin.Vec3{0, 0, -1})
		case sdl.K_d:
			c.Cam.Move(lin.Vec3{1, 0, 0})
		}
	}
}

func onDraw(elapsed time.Duration, c *renderer.Core) {
	var m lin.Mat4x4
	m.Identity()
	c.WorldMat.Rotate(&m, 1, 1, 0, float32(elapsed.Seconds())*lin.DegreesToRadians(45))
}

// loadModelArg reads the mesh file given on the command line, picking the importer by file
// extension. Supported are binary .stl and .gltf / .glb.
func loadModelArg(path string) *model.Model {
	var mesh *model.Mesh
	var err error
	switch {
	case strings.HasSuffix(path, ".stl"):
		mesh, err = importer.ReadSTL(path)
	case strings.HasSuffix(path, ".gltf"), strings.HasSuffix(path, ".glb"):
		mesh, err = importer.ReadGltf(path, importer.DefaultGltfOptions())
	default:
		log.Panicf("Unsupported model file format: '%s'", path)
	}
	if err != nil {
		log.Panicf("Failed to load model '%s' due to: %s", path, err)
	}
	log.Printf("Loaded '%s' with %d triangles", path, mesh.TriangleCount())
	return model.NewModel(mesh, path)
}

func main() {
	core := renderer.NewRenderCore()

	if len(os.Args) > 1 {
		core.AddToScene(loadModelArg(os.Args[1]))
	} else {
		core.AddToScene(model.NewCubeModel("cube"))
	}

	core.Loop(onIteration, onDraw)
	core.Destroy()
}
