package gfx

import (
	"errors"
	"fmt"

	"github.com/EngoEngine/glm"
	"github.com/rajveermalviya/go-webgpu/wgpu"
)

var ErrNotActive = errors.New("gfx: program is not the active program")

// Bindings used by every program: the uniform block, then an optional
// texture and its sampler.
const (
	UniformBinding = 0
	TextureBinding = 1
	SamplerBinding = 2
)

type ProgramDesc struct {
	Label    string
	Shader   *Shader
	Vertex   wgpu.VertexBufferLayout
	Uniforms []UniformField
	Texture  *Texture

	// CullBack drops back faces, counter-clockwise being front.
	CullBack bool
}

// Program is a render pipeline plus its bound uniforms. It only accepts
// uniform writes while it is the active program of the current frame.
type Program struct {
	Label string

	ctx        *Context
	pipeline   *wgpu.RenderPipeline
	bindGroup  *wgpu.BindGroup
	uniformBuf *wgpu.Buffer
	block      *UniformBlock
}

func NewProgram(ctx *Context, desc ProgramDesc) (p *Program, err error) {
	p = &Program{Label: desc.Label, ctx: ctx}
	defer func() {
		if err != nil {
			p.Release()
			p = nil
		}
	}()

	cull := wgpu.CullMode_None
	if desc.CullBack {
		cull = wgpu.CullMode_Back
	}

	p.pipeline, err = ctx.device.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label: desc.Label,
		Vertex: wgpu.VertexState{
			Module:     desc.Shader.module,
			EntryPoint: "vs_main",
			Buffers:    []wgpu.VertexBufferLayout{desc.Vertex},
		},
		Fragment: &wgpu.FragmentState{
			Module:     desc.Shader.module,
			EntryPoint: "fs_main",
			Targets: []wgpu.ColorTargetState{
				{
					Format:    ctx.Format(),
					Blend:     nil,
					WriteMask: wgpu.ColorWriteMask_All,
				},
			},
		},
		Primitive: wgpu.PrimitiveState{
			Topology:  wgpu.PrimitiveTopology_TriangleList,
			FrontFace: wgpu.FrontFace_CCW,
			CullMode:  cull,
		},
		DepthStencil: &wgpu.DepthStencilState{
			Format:            DepthFormat,
			DepthWriteEnabled: true,
			DepthCompare:      wgpu.CompareFunction_Less,
			StencilFront: wgpu.StencilFaceState{
				Compare: wgpu.CompareFunction_Always,
			},
			StencilBack: wgpu.StencilFaceState{
				Compare: wgpu.CompareFunction_Always,
			},
		},
		Multisample: wgpu.MultisampleState{
			Count:                  1,
			Mask:                   0xFFFFFFFF,
			AlphaToCoverageEnabled: false,
		},
	})
	if err != nil {
		return p, fmt.Errorf("link program %s: %w", desc.Label, err)
	}

	var entries []wgpu.BindGroupEntry
	if len(desc.Uniforms) > 0 {
		layout, err := NewUniformLayout(desc.Uniforms...)
		if err != nil {
			return p, err
		}
		p.uniformBuf, err = ctx.device.CreateBuffer(&wgpu.BufferDescriptor{
			Label:            desc.Label + " Uniform Buffer",
			Size:             layout.Size(),
			Usage:            wgpu.BufferUsage_Uniform | wgpu.BufferUsage_CopyDst,
			MappedAtCreation: false,
		})
		if err != nil {
			return p, err
		}
		buf := p.uniformBuf
		p.block = NewUniformBlock(layout, func(offset uint64, data []byte) {
			ctx.queue.WriteBuffer(buf, offset, data)
		})
		entries = append(entries, wgpu.BindGroupEntry{
			Binding: UniformBinding,
			Buffer:  p.uniformBuf,
			Size:    wgpu.WholeSize,
		})
	}
	if desc.Texture != nil {
		entries = append(entries, wgpu.BindGroupEntry{
			Binding:     TextureBinding,
			TextureView: desc.Texture.view,
			Size:        wgpu.WholeSize,
		}, wgpu.BindGroupEntry{
			Binding: SamplerBinding,
			Sampler: desc.Texture.sampler,
			Size:    wgpu.WholeSize,
		})
	}

	if len(entries) > 0 {
		bindGroupLayout := p.pipeline.GetBindGroupLayout(0)
		defer bindGroupLayout.Release()

		p.bindGroup, err = ctx.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
			Layout:  bindGroupLayout,
			Entries: entries,
		})
		if err != nil {
			return p, fmt.Errorf("bind program %s: %w", desc.Label, err)
		}
	}
	return p, nil
}

// Use makes p the active program for f and binds its pipeline.
func (p *Program) Use(f *Frame) {
	f.Pass.SetPipeline(p.pipeline)
	if p.bindGroup != nil {
		f.Pass.SetBindGroup(0, p.bindGroup, nil)
	}
	p.ctx.active = p
}

func (p *Program) Active() bool {
	return p.ctx != nil && p.ctx.active == p
}

func (p *Program) uniforms() (*UniformBlock, error) {
	if !p.Active() {
		return nil, fmt.Errorf("%w: %s", ErrNotActive, p.Label)
	}
	if p.block == nil {
		return nil, fmt.Errorf("%w: %s declares no uniforms", ErrUnknownUniform, p.Label)
	}
	return p.block, nil
}

// SetMat4 writes a matrix uniform. Program satisfies camera.UniformSink.
func (p *Program) SetMat4(name string, m glm.Mat4) error {
	b, err := p.uniforms()
	if err != nil {
		return err
	}
	return b.SetMat4(name, m)
}

func (p *Program) SetFloat(name string, v float32) error {
	b, err := p.uniforms()
	if err != nil {
		return err
	}
	return b.SetFloat(name, v)
}

func (p *Program) SetVec4(name string, v [4]float32) error {
	b, err := p.uniforms()
	if err != nil {
		return err
	}
	return b.SetVec4(name, v)
}

func (p *Program) Release() {
	if p.ctx != nil && p.ctx.active == p {
		p.ctx.active = nil
	}
	if p.bindGroup != nil {
		p.bindGroup.Release()
		p.bindGroup = nil
	}
	if p.uniformBuf != nil {
		p.uniformBuf.Release()
		p.uniformBuf = nil
	}
	if p.pipeline != nil {
		p.pipeline.Release()
		p.pipeline = nil
	}
}
