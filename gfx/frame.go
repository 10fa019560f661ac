package gfx

import "github.com/rajveermalviya/go-webgpu/wgpu"

// Frame is one acquired swap chain image with an open render pass.
type Frame struct {
	ctx     *Context
	view    *wgpu.TextureView
	encoder *wgpu.CommandEncoder
	Pass    *wgpu.RenderPassEncoder
}

// BeginFrame acquires the next image and opens a pass that clears color
// and depth.
func (c *Context) BeginFrame(clear wgpu.Color) (*Frame, error) {
	nextTexture, err := c.swapChain.GetCurrentTextureView()
	if err != nil {
		return nil, err
	}
	encoder, err := c.device.CreateCommandEncoder(nil)
	if err != nil {
		nextTexture.Release()
		return nil, err
	}
	pass := encoder.BeginRenderPass(&wgpu.RenderPassDescriptor{
		ColorAttachments: []wgpu.RenderPassColorAttachment{
			{
				View:       nextTexture,
				LoadOp:     wgpu.LoadOp_Clear,
				StoreOp:    wgpu.StoreOp_Store,
				ClearValue: clear,
			},
		},
		DepthStencilAttachment: &wgpu.RenderPassDepthStencilAttachment{
			View:              c.depthView,
			DepthLoadOp:       wgpu.LoadOp_Clear,
			DepthStoreOp:      wgpu.StoreOp_Store,
			DepthClearValue:   1.0,
			StencilLoadOp:     wgpu.LoadOp_Clear,
			StencilStoreOp:    wgpu.StoreOp_Store,
			StencilClearValue: wgpu.LimitU32Undefined,
			StencilReadOnly:   false,
		},
	})
	c.frame = &Frame{ctx: c, view: nextTexture, encoder: encoder, Pass: pass}
	return c.frame, nil
}

// Present ends the pass, submits it and shows the image. The frame is
// finished either way.
func (f *Frame) Present() error {
	if f.Pass == nil {
		return ErrNoFrame
	}
	defer f.release()

	f.Pass.End()
	cmdBuffer, err := f.encoder.Finish(nil)
	if err != nil {
		return err
	}
	defer cmdBuffer.Release()

	f.ctx.queue.Submit(cmdBuffer)
	f.ctx.swapChain.Present()
	return nil
}

func (f *Frame) release() {
	if f.Pass != nil {
		f.Pass.Release()
		f.Pass = nil
	}
	if f.encoder != nil {
		f.encoder.Release()
		f.encoder = nil
	}
	if f.view != nil {
		f.view.Release()
		f.view = nil
	}
	if f.ctx.frame == f {
		f.ctx.frame = nil
	}
	f.ctx.active = nil
}
