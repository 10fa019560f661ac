package demo

import (
	"errors"
	"fmt"
	"image"
	"strings"
	"testing"
	"unsafe"

	"github.com/EngoEngine/glm"

	"wgpu_lessons/camera"
	"wgpu_lessons/gfx"
)

func TestGeometryIndicesInRange(t *testing.T) {
	triVerts, triIdx := Triangle()
	quadVerts, quadIdx := Quad()
	pyrVerts, pyrIdx := Pyramid()

	tests := []struct {
		name      string
		vertices  int
		indices   []uint16
		triangles int
	}{
		{"triangle", len(triVerts), triIdx, 3},
		{"quad", len(quadVerts), quadIdx, 2},
		{"pyramid", len(pyrVerts), pyrIdx, 6},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if len(tt.indices) != tt.triangles*3 {
				t.Fatalf("got %d indices, want %d", len(tt.indices), tt.triangles*3)
			}
			for i, idx := range tt.indices {
				if int(idx) >= tt.vertices {
					t.Errorf("index %d = %d, only %d vertices", i, idx, tt.vertices)
				}
			}
		})
	}
}

func TestPyramidShape(t *testing.T) {
	vertices, _ := Pyramid()
	if len(vertices) != 5 {
		t.Fatalf("got %d vertices, want 5", len(vertices))
	}
	apex := vertices[4]
	if apex.pos != [3]float32{0, 0.8, 0} {
		t.Errorf("apex = %v", apex.pos)
	}
	for i, v := range vertices[:4] {
		if v.pos[1] != 0 {
			t.Errorf("base vertex %d at y=%v", i, v.pos[1])
		}
	}
}

func TestVertexLayoutStride(t *testing.T) {
	if got := ColorVertexLayout.ArrayStride; got != 6*4 {
		t.Errorf("color stride = %d", got)
	}
	if got := TexVertexLayout.ArrayStride; got != 8*4 {
		t.Errorf("tex stride = %d", got)
	}
	last := TexVertexLayout.Attributes[len(TexVertexLayout.Attributes)-1]
	if last.Offset != uint64(unsafe.Offsetof(TexVertex{}.uv)) {
		t.Errorf("uv offset = %d", last.Offset)
	}
}

func TestNew(t *testing.T) {
	for _, name := range Names() {
		d, err := New(name, Options{})
		if err != nil {
			t.Fatalf("New(%q): %v", name, err)
		}
		if d.Name() != name {
			t.Errorf("New(%q).Name() = %q", name, d.Name())
		}
	}
	if _, err := New("cube", Options{}); !errors.Is(err, ErrUnknownDemo) {
		t.Errorf("New(cube) err = %v, want ErrUnknownDemo", err)
	}
}

func TestCameraDemoOptions(t *testing.T) {
	cam := camera.New(640, 480, glm.Vec3{1, 2, 3})
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	d, err := New("camera", Options{Texture: img, Camera: cam, FOV: 60})
	if err != nil {
		t.Fatal(err)
	}
	v, ok := d.(Viewer)
	if !ok {
		t.Fatal("camera demo does not expose its camera")
	}
	if v.Camera() != cam {
		t.Error("camera demo did not keep the given camera")
	}
	vd := d.(*viewer)
	if vd.fov != 60 || vd.near != 0.1 || vd.far != 100 {
		t.Errorf("clip = %v %v %v", vd.fov, vd.near, vd.far)
	}
	if vd.img != image.Image(img) {
		t.Error("texture option ignored")
	}
}

func TestPyramidUpdateWraps(t *testing.T) {
	d := &pyramid{}
	for i := 0; i < 130; i++ {
		d.Update(0.1)
	}
	// 130 * 0.1s * 30 deg/s = 390 deg
	if d.rotation < 29.9 || d.rotation > 30.1 {
		t.Errorf("rotation = %v, want 30", d.rotation)
	}
}

func TestTexturedShadersSample(t *testing.T) {
	shaders := map[string]string{
		"quad":    quadShader,
		"pyramid": pyramidShader,
		"camera":  cameraShader,
	}
	for name, src := range shaders {
		if !strings.Contains(src, fmt.Sprintf("@binding(%d) var samp0: sampler", gfx.SamplerBinding)) {
			t.Errorf("%s: no sampler at binding %d", name, gfx.SamplerBinding)
		}
		if !strings.Contains(src, "textureSample(tex0, samp0") || strings.Contains(src, "textureLoad") {
			t.Errorf("%s: texture is not read through the sampler", name)
		}
	}
}
