package gfx

import "github.com/rajveermalviya/go-webgpu/wgpu"

type VertexBuffer struct {
	Count int
	buf   *wgpu.Buffer
}

// NewVertexBuffer uploads vertices once; the buffer is immutable after.
func NewVertexBuffer[V any](ctx *Context, label string, vertices []V) (*VertexBuffer, error) {
	buf, err := ctx.device.CreateBufferInit(&wgpu.BufferInitDescriptor{
		Label:    label + " Vertex Buffer",
		Contents: wgpu.ToBytes(vertices),
		Usage:    wgpu.BufferUsage_Vertex,
	})
	if err != nil {
		return nil, err
	}
	return &VertexBuffer{Count: len(vertices), buf: buf}, nil
}

func (b *VertexBuffer) Bind(f *Frame, slot uint32) {
	f.Pass.SetVertexBuffer(slot, b.buf, 0, wgpu.WholeSize)
}

func (b *VertexBuffer) Release() {
	if b.buf != nil {
		b.buf.Release()
		b.buf = nil
	}
}

type IndexBuffer struct {
	Count int
	buf   *wgpu.Buffer
}

func NewIndexBuffer(ctx *Context, label string, indices []uint16) (*IndexBuffer, error) {
	count := len(indices)
	// Buffer sizes must be a multiple of 4 bytes.
	if count%2 == 1 {
		indices = append(indices[:count:count], 0)
	}
	buf, err := ctx.device.CreateBufferInit(&wgpu.BufferInitDescriptor{
		Label:    label + " Index Buffer",
		Contents: wgpu.ToBytes(indices),
		Usage:    wgpu.BufferUsage_Index,
	})
	if err != nil {
		return nil, err
	}
	return &IndexBuffer{Count: count, buf: buf}, nil
}

// Draw issues an indexed draw of the whole buffer against the bound
// vertex buffer.
func (b *IndexBuffer) Draw(f *Frame) {
	f.Pass.SetIndexBuffer(b.buf, wgpu.IndexFormat_Uint16, 0, wgpu.WholeSize)
	f.Pass.DrawIndexed(uint32(b.Count), 1, 0, 0, 0)
}

func (b *IndexBuffer) Release() {
	if b.buf != nil {
		b.buf.Release()
		b.buf = nil
	}
}
