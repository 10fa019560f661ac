package demo

import (
	"unsafe"

	"github.com/rajveermalviya/go-webgpu/wgpu"
)

// ColorVertex is a position with a per-vertex color.
type ColorVertex struct {
	pos   [3]float32
	color [3]float32
}

// TexVertex adds texture coordinates; values above 1 repeat the texture.
type TexVertex struct {
	pos   [3]float32
	color [3]float32
	uv    [2]float32
}

var ColorVertexLayout = wgpu.VertexBufferLayout{
	ArrayStride: uint64(unsafe.Sizeof(ColorVertex{})),
	StepMode:    wgpu.VertexStepMode_Vertex,
	Attributes: []wgpu.VertexAttribute{
		{
			Format:         wgpu.VertexFormat_Float32x3,
			Offset:         0,
			ShaderLocation: 0,
		},
		{
			Format:         wgpu.VertexFormat_Float32x3,
			Offset:         3 * 4,
			ShaderLocation: 1,
		},
	},
}

var TexVertexLayout = wgpu.VertexBufferLayout{
	ArrayStride: uint64(unsafe.Sizeof(TexVertex{})),
	StepMode:    wgpu.VertexStepMode_Vertex,
	Attributes: []wgpu.VertexAttribute{
		{
			Format:         wgpu.VertexFormat_Float32x3,
			Offset:         0,
			ShaderLocation: 0,
		},
		{
			Format:         wgpu.VertexFormat_Float32x3,
			Offset:         3 * 4,
			ShaderLocation: 1,
		},
		{
			Format:         wgpu.VertexFormat_Float32x2,
			Offset:         6 * 4,
			ShaderLocation: 2,
		},
	},
}

func colorVertex(x, y, z, r, g, b float32) ColorVertex {
	return ColorVertex{pos: [3]float32{x, y, z}, color: [3]float32{r, g, b}}
}

func texVertex(x, y, z, r, g, b, u, v float32) TexVertex {
	return TexVertex{pos: [3]float32{x, y, z}, color: [3]float32{r, g, b}, uv: [2]float32{u, v}}
}

// Triangle is a triangle split into three corner triangles around an
// inner one that is left empty.
func Triangle() ([]ColorVertex, []uint16) {
	vertices := []ColorVertex{
		colorVertex(-0.5, -0.5, 0.0, 1.0, 0.0, 0.0), // Lower left corner
		colorVertex(0.5, -0.5, 0.0, 0.0, 1.0, 0.0),  // Lower right corner
		colorVertex(0.0, 0.5, 0.0, 0.0, 0.0, 1.0),   // Upper corner
		colorVertex(-0.25, 0.0, 0.0, 0.0, 0.5, 0.5), // Inner left
		colorVertex(0.25, 0.0, 0.0, 0.5, 0.0, 0.5),  // Inner right
		colorVertex(0.0, -0.5, 0.0, 0.5, 0.5, 0.0),  // Inner down
	}
	indices := []uint16{
		0, 3, 5, // Lower left triangle
		3, 2, 4, // Upper triangle
		5, 4, 1, // Lower right triangle
	}
	return vertices, indices
}

func Quad() ([]TexVertex, []uint16) {
	vertices := []TexVertex{
		texVertex(-0.5, -0.5, 0.0, 1.0, 0.0, 0.0, 0.0, 0.0), // Lower left
		texVertex(-0.5, 0.5, 0.0, 0.0, 1.0, 0.0, 0.0, 1.0),  // Upper left
		texVertex(0.5, 0.5, 0.0, 0.0, 0.0, 1.0, 1.0, 1.0),   // Upper right
		texVertex(0.5, -0.5, 0.0, 1.0, 1.0, 1.0, 1.0, 0.0),  // Lower right
	}
	indices := []uint16{
		0, 2, 1,
		0, 3, 2,
	}
	return vertices, indices
}

// Pyramid is a square-based pyramid of height 0.8 standing on y=0, with
// the texture repeated five times across each face.
func Pyramid() ([]TexVertex, []uint16) {
	vertices := []TexVertex{
		texVertex(-0.5, 0.0, 0.5, 0.83, 0.70, 0.44, 0.0, 0.0),
		texVertex(-0.5, 0.0, -0.5, 0.83, 0.70, 0.44, 5.0, 0.0),
		texVertex(0.5, 0.0, -0.5, 0.83, 0.70, 0.44, 0.0, 0.0),
		texVertex(0.5, 0.0, 0.5, 0.83, 0.70, 0.44, 5.0, 0.0),
		texVertex(0.0, 0.8, 0.0, 0.92, 0.86, 0.76, 2.5, 5.0),
	}
	indices := []uint16{
		0, 1, 2,
		0, 2, 3,
		0, 1, 4,
		1, 2, 4,
		2, 3, 4,
		3, 0, 4,
	}
	return vertices, indices
}
