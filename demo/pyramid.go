package demo

import (
	"image"

	"github.com/EngoEngine/glm"
	"github.com/EngoEngine/math"

	"wgpu_lessons/camera"
	"wgpu_lessons/gfx"
)

// rotationSpeed is in degrees per second.
const rotationSpeed = 30

var pyramidUniforms = []gfx.UniformField{
	{Name: "model", Kind: gfx.Mat4},
	{Name: "view", Kind: gfx.Mat4},
	{Name: "proj", Kind: gfx.Mat4},
}

type pyramid struct {
	mesh
	img      image.Image
	ctx      *gfx.Context
	rotation float32
}

func (d *pyramid) Name() string { return "pyramid" }

func (d *pyramid) Init(ctx *gfx.Context) error {
	d.ctx = ctx
	vertices, indices := Pyramid()
	return buildMesh(ctx, &d.mesh, meshDesc[TexVertex]{
		label:    "Pyramid",
		shader:   pyramidShader,
		layout:   TexVertexLayout,
		uniforms: pyramidUniforms,
		img:      d.img,
		vertices: vertices,
		indices:  indices,
	})
}

func (d *pyramid) Update(dt float32) {
	d.rotation += rotationSpeed * dt
	if d.rotation >= 360 {
		d.rotation -= 360
	}
}

func (d *pyramid) Draw(f *gfx.Frame) error {
	width, height := d.ctx.Size()
	if width == 0 || height == 0 {
		return nil
	}
	proj, err := camera.Perspective(45, float32(width)/float32(height), 0.1, 100)
	if err != nil {
		return err
	}
	axis := glm.Vec3{0, 1, 0}
	model := glm.HomogRotate3D(d.rotation*math.Pi/180, &axis)
	view := glm.Translate3D(0, -0.5, -2)

	return d.draw(f, func(p *gfx.Program) error {
		if err := p.SetMat4("model", model); err != nil {
			return err
		}
		if err := p.SetMat4("view", view); err != nil {
			return err
		}
		return p.SetMat4("proj", proj)
	})
}
