package gfx

import (
	"fmt"

	"github.com/rajveermalviya/go-webgpu/wgpu"
)

// Shader is a compiled WGSL module holding both vertex and fragment entry
// points.
type Shader struct {
	Label  string
	module *wgpu.ShaderModule
}

func NewShader(ctx *Context, label, code string) (*Shader, error) {
	module, err := ctx.device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label:          label,
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{Code: code},
	})
	if err != nil {
		return nil, fmt.Errorf("compile shader %s: %w", label, err)
	}
	return &Shader{Label: label, module: module}, nil
}

// Release frees the module. Pipelines built from it stay valid.
func (s *Shader) Release() {
	if s.module != nil {
		s.module.Release()
		s.module = nil
	}
}
