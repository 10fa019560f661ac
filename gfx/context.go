// Package gfx wraps the WebGPU objects the lessons use behind small
// create/use/release types that share one borrowed *Context.
package gfx

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/rajveermalviya/go-webgpu/wgpu"
	wgpuext_glfw "github.com/rajveermalviya/go-webgpu/wgpuext/glfw"
)

const DepthFormat = wgpu.TextureFormat_Depth32Float

var forceFallbackAdapter = os.Getenv("WGPU_FORCE_FALLBACK_ADAPTER") == "1"

var ErrNoFrame = errors.New("gfx: no frame in flight")

// Context owns the device, queue and swap chain for one window. Everything
// else borrows it and must be released before it.
type Context struct {
	surface      *wgpu.Surface
	swapChain    *wgpu.SwapChain
	depthTexture *wgpu.Texture
	depthView    *wgpu.TextureView
	device       *wgpu.Device
	queue        *wgpu.Queue
	config       *wgpu.SwapChainDescriptor

	resources *Registry
	active    *Program
	frame     *Frame
}

func NewContext(window *glfw.Window) (c *Context, err error) {
	defer func() {
		if err != nil {
			c.Release()
			c = nil
		}
	}()
	c = &Context{resources: NewRegistry()}

	instance := wgpu.CreateInstance(nil)
	defer instance.Release()

	c.surface = instance.CreateSurface(wgpuext_glfw.GetSurfaceDescriptor(window))

	adapter, err := instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		ForceFallbackAdapter: forceFallbackAdapter,
		CompatibleSurface:    c.surface,
		PowerPreference:      wgpu.PowerPreference_HighPerformance,
	})
	if err != nil {
		return c, fmt.Errorf("request adapter: %w", err)
	}
	defer adapter.Release()

	c.device, err = adapter.RequestDevice(nil)
	if err != nil {
		return c, fmt.Errorf("request device: %w", err)
	}
	c.queue = c.device.GetQueue()

	caps := c.surface.GetCapabilities(adapter)

	width, height := window.GetSize()
	c.config = &wgpu.SwapChainDescriptor{
		Usage:       wgpu.TextureUsage_RenderAttachment,
		Format:      caps.Formats[0],
		Width:       uint32(width),
		Height:      uint32(height),
		PresentMode: wgpu.PresentMode_Fifo,
		AlphaMode:   caps.AlphaModes[0],
	}

	if err := c.createTargets(); err != nil {
		return c, err
	}
	return c, nil
}

func (c *Context) createTargets() error {
	if c.swapChain != nil {
		c.swapChain.Release()
		c.swapChain = nil
	}
	var err error
	c.swapChain, err = c.device.CreateSwapChain(c.surface, c.config)
	if err != nil {
		return fmt.Errorf("create swap chain: %w", err)
	}

	if c.depthView != nil {
		c.depthView.Release()
		c.depthView = nil
	}
	if c.depthTexture != nil {
		c.depthTexture.Release()
		c.depthTexture = nil
	}
	c.depthTexture, err = c.device.CreateTexture(&wgpu.TextureDescriptor{
		Size: wgpu.Extent3D{
			Width:              c.config.Width,
			Height:             c.config.Height,
			DepthOrArrayLayers: 1,
		},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     wgpu.TextureDimension_2D,
		Format:        DepthFormat,
		Usage:         wgpu.TextureUsage_RenderAttachment,
	})
	if err != nil {
		return fmt.Errorf("create depth texture: %w", err)
	}
	c.depthView, err = c.depthTexture.CreateView(nil)
	if err != nil {
		return fmt.Errorf("create depth view: %w", err)
	}
	return nil
}

func (c *Context) Device() *wgpu.Device {
	return c.device
}

func (c *Context) Queue() *wgpu.Queue {
	return c.queue
}

// Format is the swap chain color format pipelines must render to.
func (c *Context) Format() wgpu.TextureFormat {
	return c.config.Format
}

func (c *Context) Size() (width, height int) {
	return int(c.config.Width), int(c.config.Height)
}

// Resize rebuilds the swap chain and depth buffer. A zero dimension, as
// when the window is minimized, is ignored.
func (c *Context) Resize(width, height int) error {
	if width <= 0 || height <= 0 {
		return nil
	}
	c.config.Width = uint32(width)
	c.config.Height = uint32(height)
	return c.createTargets()
}

// Track registers r to be released with the context and returns its id.
func (c *Context) Track(r Releaser) int {
	return c.resources.Track(r)
}

// Untrack releases r now instead of at shutdown.
func (c *Context) Untrack(id int) {
	c.resources.Release(id)
}

// IsSurfaceTransient reports frame errors the loop should skip rather
// than abort on.
func IsSurfaceTransient(err error) bool {
	if err == nil {
		return false
	}
	errstr := err.Error()
	switch {
	case strings.Contains(errstr, "Surface timed out"):
	case strings.Contains(errstr, "Surface is outdated"):
	case strings.Contains(errstr, "Surface was lost"):
	default:
		return false
	}
	return true
}

// Release frees tracked resources, newest first, then the context's own
// objects. It is safe on a partially built context.
func (c *Context) Release() {
	if c == nil {
		return
	}
	if c.frame != nil {
		c.frame.release()
	}
	if c.resources != nil {
		c.resources.ReleaseAll()
	}
	if c.depthView != nil {
		c.depthView.Release()
		c.depthView = nil
	}
	if c.depthTexture != nil {
		c.depthTexture.Release()
		c.depthTexture = nil
	}
	if c.swapChain != nil {
		c.swapChain.Release()
		c.swapChain = nil
	}
	if c.queue != nil {
		c.queue.Release()
		c.queue = nil
	}
	if c.device != nil {
		c.device.Release()
		c.device = nil
	}
	if c.surface != nil {
		c.surface.Release()
		c.surface = nil
	}
	c.config = nil
}
