package gfx

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"

	"github.com/EngoEngine/glm"
)

var (
	ErrUnknownUniform = errors.New("gfx: unknown uniform")
	ErrUniformType    = errors.New("gfx: uniform type mismatch")
)

type UniformKind int

const (
	Float UniformKind = iota
	Vec4
	Mat4
)

func (k UniformKind) size() uint64 {
	switch k {
	case Vec4:
		return 16
	case Mat4:
		return 64
	}
	return 4
}

func (k UniformKind) align() uint64 {
	if k == Float {
		return 4
	}
	return 16
}

type UniformField struct {
	Name string
	Kind UniformKind
}

type uniformSlot struct {
	offset uint64
	kind   UniformKind
}

// UniformLayout places named fields the way a WGSL uniform struct does:
// f32 on 4 bytes, vec4 and mat4x4 on 16, total size rounded up to 16.
type UniformLayout struct {
	slots map[string]uniformSlot
	size  uint64
}

func NewUniformLayout(fields ...UniformField) (*UniformLayout, error) {
	l := &UniformLayout{slots: map[string]uniformSlot{}}
	var off uint64
	for _, f := range fields {
		if _, dup := l.slots[f.Name]; dup {
			return nil, fmt.Errorf("gfx: uniform %q declared twice", f.Name)
		}
		off = alignUp(off, f.Kind.align())
		l.slots[f.Name] = uniformSlot{offset: off, kind: f.Kind}
		off += f.Kind.size()
	}
	l.size = alignUp(off, 16)
	return l, nil
}

func (l *UniformLayout) Size() uint64 {
	return l.size
}

// Offset returns the byte offset of name within the block.
func (l *UniformLayout) Offset(name string) (uint64, bool) {
	s, ok := l.slots[name]
	return s.offset, ok
}

func alignUp(v, a uint64) uint64 {
	return (v + a - 1) / a * a
}

// UniformBlock holds the host copy of a uniform buffer. Every Set writes
// the changed bytes through flush.
type UniformBlock struct {
	layout *UniformLayout
	data   []byte
	flush  func(offset uint64, data []byte)
}

func NewUniformBlock(layout *UniformLayout, flush func(offset uint64, data []byte)) *UniformBlock {
	return &UniformBlock{layout: layout, data: make([]byte, layout.Size()), flush: flush}
}

func (b *UniformBlock) Bytes() []byte {
	return b.data
}

func (b *UniformBlock) slot(name string, kind UniformKind) (uniformSlot, error) {
	s, ok := b.layout.slots[name]
	if !ok {
		return s, fmt.Errorf("%w %q", ErrUnknownUniform, name)
	}
	if s.kind != kind {
		return s, fmt.Errorf("%w: %q", ErrUniformType, name)
	}
	return s, nil
}

func (b *UniformBlock) write(s uniformSlot, values []float32) {
	chunk := b.data[s.offset : s.offset+uint64(4*len(values))]
	for i, v := range values {
		binary.LittleEndian.PutUint32(chunk[4*i:], math.Float32bits(v))
	}
	if b.flush != nil {
		b.flush(s.offset, chunk)
	}
}

func (b *UniformBlock) SetFloat(name string, v float32) error {
	s, err := b.slot(name, Float)
	if err != nil {
		return err
	}
	b.write(s, []float32{v})
	return nil
}

func (b *UniformBlock) SetVec4(name string, v [4]float32) error {
	s, err := b.slot(name, Vec4)
	if err != nil {
		return err
	}
	b.write(s, v[:])
	return nil
}

// SetMat4 stores m column-major, as WGSL mat4x4<f32> expects.
func (b *UniformBlock) SetMat4(name string, m glm.Mat4) error {
	s, err := b.slot(name, Mat4)
	if err != nil {
		return err
	}
	b.write(s, m[:])
	return nil
}
