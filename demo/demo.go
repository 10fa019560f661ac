// Package demo holds the lessons: each one builds its GPU objects on a
// borrowed gfx.Context and draws into the frame it is handed.
package demo

import (
	_ "embed"
	"errors"
	"fmt"
	"image"
	"sort"

	"github.com/rajveermalviya/go-webgpu/wgpu"

	"wgpu_lessons/camera"
	"wgpu_lessons/gfx"
)

var (
	//go:embed shaders/triangle.wgsl
	triangleShader string
	//go:embed shaders/quad.wgsl
	quadShader string
	//go:embed shaders/pyramid.wgsl
	pyramidShader string
	//go:embed shaders/camera.wgsl
	cameraShader string
)

var ErrUnknownDemo = errors.New("demo: unknown demo")

type Demo interface {
	Name() string
	Init(ctx *gfx.Context) error
	Update(dt float32)
	Draw(f *gfx.Frame) error
	Release()
}

// Viewer is a demo driven by a first-person camera.
type Viewer interface {
	Demo
	Camera() *camera.Camera
}

type Options struct {
	// Texture is uploaded for the textured lessons. Nil selects a
	// generated Mandelbrot image.
	Texture image.Image

	// Camera is used by the camera lesson; nil builds one at (0,0,2).
	Camera *camera.Camera
	FOV    float32
	Near   float32
	Far    float32
}

func (o Options) texture() image.Image {
	if o.Texture != nil {
		return o.Texture
	}
	return gfx.Mandelbrot(256)
}

var constructors = map[string]func(Options) Demo{
	"triangle": func(Options) Demo { return &triangle{} },
	"quad":     func(o Options) Demo { return &quad{img: o.texture()} },
	"pyramid":  func(o Options) Demo { return &pyramid{img: o.texture()} },
	"camera":   newCameraDemo,
}

// Names lists the available demos in sorted order.
func Names() []string {
	names := make([]string, 0, len(constructors))
	for name := range constructors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func New(name string, opts Options) (Demo, error) {
	ctor, ok := constructors[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownDemo, name)
	}
	return ctor(opts), nil
}

// resources keeps the ids of everything a demo registered with the
// context so the demo can free them before the context goes away.
type resources struct {
	ctx *gfx.Context
	ids []int
}

func (r *resources) track(ctx *gfx.Context, res gfx.Releaser) {
	r.ctx = ctx
	r.ids = append(r.ids, ctx.Track(res))
}

func (r *resources) release() {
	if r.ctx == nil {
		return
	}
	for i := len(r.ids) - 1; i >= 0; i-- {
		r.ctx.Untrack(r.ids[i])
	}
	r.ids = nil
}

// mesh is the program, buffers and texture shared by every lesson.
type mesh struct {
	resources
	program  *gfx.Program
	vertices *gfx.VertexBuffer
	indices  *gfx.IndexBuffer
}

type meshDesc[V any] struct {
	label    string
	shader   string
	layout   wgpu.VertexBufferLayout
	uniforms []gfx.UniformField
	img      image.Image
	vertices []V
	indices  []uint16
	cullBack bool
}

func buildMesh[V any](ctx *gfx.Context, m *mesh, desc meshDesc[V]) (err error) {
	defer func() {
		if err != nil {
			m.release()
		}
	}()

	shader, err := gfx.NewShader(ctx, desc.label, desc.shader)
	if err != nil {
		return err
	}
	// The pipeline keeps what it needs from the module.
	defer shader.Release()

	var tex *gfx.Texture
	if desc.img != nil {
		tex, err = gfx.NewTexture(ctx, desc.label+" Texture", desc.img)
		if err != nil {
			return err
		}
		m.track(ctx, tex)
	}

	m.program, err = gfx.NewProgram(ctx, gfx.ProgramDesc{
		Label:    desc.label,
		Shader:   shader,
		Vertex:   desc.layout,
		Uniforms: desc.uniforms,
		Texture:  tex,
		CullBack: desc.cullBack,
	})
	if err != nil {
		return err
	}
	m.track(ctx, m.program)

	m.vertices, err = gfx.NewVertexBuffer(ctx, desc.label+" Vertex Buffer", desc.vertices)
	if err != nil {
		return err
	}
	m.track(ctx, m.vertices)

	m.indices, err = gfx.NewIndexBuffer(ctx, desc.label+" Index Buffer", desc.indices)
	if err != nil {
		return err
	}
	m.track(ctx, m.indices)
	return nil
}

// draw binds the program and buffers; set writes the uniforms in between.
func (m *mesh) draw(f *gfx.Frame, set func(p *gfx.Program) error) error {
	m.program.Use(f)
	if set != nil {
		if err := set(m.program); err != nil {
			return err
		}
	}
	m.vertices.Bind(f, 0)
	m.indices.Draw(f)
	return nil
}

func (m *mesh) Release() {
	m.release()
	m.program, m.vertices, m.indices = nil, nil, nil
}
