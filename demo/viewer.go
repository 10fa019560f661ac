package demo

import (
	"errors"
	"image"

	"github.com/EngoEngine/glm"

	"wgpu_lessons/camera"
	"wgpu_lessons/gfx"
)

var viewerUniforms = []gfx.UniformField{
	{Name: "model", Kind: gfx.Mat4},
	{Name: "camMatrix", Kind: gfx.Mat4},
}

// viewer draws the pyramid through a first-person camera.
type viewer struct {
	mesh
	img image.Image
	cam *camera.Camera
	ctx *gfx.Context

	fov, near, far float32
}

func newCameraDemo(o Options) Demo {
	d := &viewer{
		img:  o.texture(),
		cam:  o.Camera,
		fov:  o.FOV,
		near: o.Near,
		far:  o.Far,
	}
	if d.fov == 0 {
		d.fov = 45
	}
	if d.near == 0 {
		d.near = 0.1
	}
	if d.far == 0 {
		d.far = 100
	}
	return d
}

func (d *viewer) Name() string { return "camera" }

func (d *viewer) Camera() *camera.Camera { return d.cam }

func (d *viewer) Init(ctx *gfx.Context) error {
	d.ctx = ctx
	if d.cam == nil {
		width, height := ctx.Size()
		d.cam = camera.New(width, height, glm.Vec3{0, 0, 2})
	}
	vertices, indices := Pyramid()
	return buildMesh(ctx, &d.mesh, meshDesc[TexVertex]{
		label:    "Camera",
		shader:   cameraShader,
		layout:   TexVertexLayout,
		uniforms: viewerUniforms,
		img:      d.img,
		vertices: vertices,
		indices:  indices,
	})
}

// Update advances held-key movement; it does nothing in step mode.
func (d *viewer) Update(dt float32) {
	d.cam.Update(dt)
}

func (d *viewer) Draw(f *gfx.Frame) error {
	err := d.draw(f, func(p *gfx.Program) error {
		if err := p.SetMat4("model", glm.Ident4()); err != nil {
			return err
		}
		return d.cam.Upload(p, "camMatrix", d.fov, d.near, d.far)
	})
	// Minimized window: nothing sensible to project onto.
	if errors.Is(err, camera.ErrDegenerateViewport) {
		return nil
	}
	return err
}
