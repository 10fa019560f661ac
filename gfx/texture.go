package gfx

import (
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"

	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/rajveermalviya/go-webgpu/wgpu"
)

// MaxTextureSize is the largest edge uploaded; bigger images are scaled
// down to fit.
const MaxTextureSize = 4096

// Texture is an RGBA8 2D texture with a linear, repeating sampler.
type Texture struct {
	Width, Height int

	tex     *wgpu.Texture
	view    *wgpu.TextureView
	sampler *wgpu.Sampler
}

// SamplerDescriptor is the sampler every texture gets: linear filtering,
// coordinates outside [0,1] wrap.
func SamplerDescriptor(label string) *wgpu.SamplerDescriptor {
	return &wgpu.SamplerDescriptor{
		Label:         label,
		AddressModeU:  wgpu.AddressMode_Repeat,
		AddressModeV:  wgpu.AddressMode_Repeat,
		AddressModeW:  wgpu.AddressMode_Repeat,
		MagFilter:     wgpu.FilterMode_Linear,
		MinFilter:     wgpu.FilterMode_Linear,
		MipmapFilter:  wgpu.MipmapFilterMode_Nearest,
		LodMaxClamp:   32,
		MaxAnisotropy: 1,
	}
}

func NewTexture(ctx *Context, label string, img image.Image) (t *Texture, err error) {
	rgba := Fit(img, MaxTextureSize)
	size := rgba.Bounds().Size()
	t = &Texture{Width: size.X, Height: size.Y}
	defer func() {
		if err != nil {
			t.Release()
			t = nil
		}
	}()

	textureExtent := wgpu.Extent3D{
		Width:              uint32(size.X),
		Height:             uint32(size.Y),
		DepthOrArrayLayers: 1,
	}
	t.tex, err = ctx.device.CreateTexture(&wgpu.TextureDescriptor{
		Label:         label,
		Size:          textureExtent,
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     wgpu.TextureDimension_2D,
		Format:        wgpu.TextureFormat_RGBA8Unorm,
		Usage:         wgpu.TextureUsage_TextureBinding | wgpu.TextureUsage_CopyDst,
	})
	if err != nil {
		return t, fmt.Errorf("create texture %s: %w", label, err)
	}
	t.view, err = t.tex.CreateView(nil)
	if err != nil {
		return t, fmt.Errorf("create texture view %s: %w", label, err)
	}
	t.sampler, err = ctx.device.CreateSampler(SamplerDescriptor(label + " Sampler"))
	if err != nil {
		return t, fmt.Errorf("create sampler %s: %w", label, err)
	}

	ctx.queue.WriteTexture(
		t.tex.AsImageCopy(),
		rgba.Pix,
		&wgpu.TextureDataLayout{
			Offset:       0,
			BytesPerRow:  uint32(rgba.Stride),
			RowsPerImage: wgpu.CopyStrideUndefined,
		},
		&textureExtent,
	)
	return t, nil
}

func (t *Texture) Release() {
	if t.sampler != nil {
		t.sampler.Release()
		t.sampler = nil
	}
	if t.view != nil {
		t.view.Release()
		t.view = nil
	}
	if t.tex != nil {
		t.tex.Release()
		t.tex = nil
	}
}

// LoadImage decodes a PNG, JPEG, GIF, BMP, TIFF or WebP file and flips it
// so row 0 is the bottom of the image, matching texture coordinates with v
// pointing up.
func LoadImage(path string) (*image.RGBA, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open texture: %w", err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode texture %s: %w", path, err)
	}
	return FlipVertical(img), nil
}

// FlipVertical returns an RGBA copy of img upside down, rebased at the
// origin.
func FlipVertical(img image.Image) *image.RGBA {
	src := toRGBA(img)
	h := src.Bounds().Dy()
	dst := image.NewRGBA(image.Rect(0, 0, src.Bounds().Dx(), h))
	for y := 0; y < h; y++ {
		copy(dst.Pix[y*dst.Stride:(y+1)*dst.Stride], src.Pix[(h-1-y)*src.Stride:])
	}
	return dst
}

// Fit converts img to RGBA and scales it down so neither edge exceeds limit.
func Fit(img image.Image, limit int) *image.RGBA {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= limit && h <= limit {
		return toRGBA(img)
	}
	if w >= h {
		h = h * limit / w
		w = limit
	} else {
		w = w * limit / h
		h = limit
	}
	dst := image.NewRGBA(image.Rect(0, 0, atLeastOne(w), atLeastOne(h)))
	draw.BiLinear.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	return dst
}

func atLeastOne(v int) int {
	if v < 1 {
		return 1
	}
	return v
}

// toRGBA returns img as a tightly packed RGBA image at the origin.
func toRGBA(img image.Image) *image.RGBA {
	b := img.Bounds()
	if rgba, ok := img.(*image.RGBA); ok && b.Min == (image.Point{}) && rgba.Stride == 4*b.Dx() {
		return rgba
	}
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
	return dst
}

// Mandelbrot renders the procedural texture used when no image is
// configured.
func Mandelbrot(size int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	for id := 0; id < size*size; id++ {
		cx := 3.0*float32(id%size)/float32(size-1) - 2.0
		cy := 2.0*float32(id/size)/float32(size-1) - 1.0
		x, y, count := cx, cy, uint8(0)
		for count < 0xFF && x*x+y*y < 4.0 {
			oldX := x
			x = x*x - y*y + cx
			y = 2.0*oldX*y + cy
			count += 1
		}
		img.SetRGBA(id%size, id/size, color.RGBA{R: count, G: count / 2, B: 255 - count, A: 0xFF})
	}
	return img
}
