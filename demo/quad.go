package demo

import (
	"image"

	"wgpu_lessons/gfx"
)

const quadScale = 0.5

type quad struct {
	mesh
	img image.Image
}

func (d *quad) Name() string { return "quad" }

func (d *quad) Init(ctx *gfx.Context) error {
	vertices, indices := Quad()
	return buildMesh(ctx, &d.mesh, meshDesc[TexVertex]{
		label:    "Quad",
		shader:   quadShader,
		layout:   TexVertexLayout,
		uniforms: []gfx.UniformField{{Name: "scale", Kind: gfx.Float}},
		img:      d.img,
		vertices: vertices,
		indices:  indices,
	})
}

func (d *quad) Update(float32) {}

func (d *quad) Draw(f *gfx.Frame) error {
	return d.draw(f, func(p *gfx.Program) error {
		return p.SetFloat("scale", quadScale)
	})
}
