package demo

import "wgpu_lessons/gfx"

const triangleScale = 1.5

type triangle struct {
	mesh
}

func (d *triangle) Name() string { return "triangle" }

func (d *triangle) Init(ctx *gfx.Context) error {
	vertices, indices := Triangle()
	return buildMesh(ctx, &d.mesh, meshDesc[ColorVertex]{
		label:    "Triangle",
		shader:   triangleShader,
		layout:   ColorVertexLayout,
		uniforms: []gfx.UniformField{{Name: "scale", Kind: gfx.Float}},
		vertices: vertices,
		indices:  indices,
	})
}

func (d *triangle) Update(float32) {}

func (d *triangle) Draw(f *gfx.Frame) error {
	return d.draw(f, func(p *gfx.Program) error {
		return p.SetFloat("scale", triangleScale)
	})
}
