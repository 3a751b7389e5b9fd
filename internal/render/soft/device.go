// Package soft is a CPU implementation of render.Device. Meshes and polygons
// are filled with golang.org/x/image/vector and full-screen draws run the
// program's Go fragment function per pixel. It backs tests and headless
// snapshots.
package soft

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"fovcone/internal/render"
	"fovcone/internal/shader"
)

var errForeignTexture = errors.New("texture does not belong to the soft backend")

// Device is a single-threaded CPU device.
type Device struct {
	frame uint64
	// Workers bounds the goroutines shading a full-screen draw; 0 picks
	// GOMAXPROCS.
	Workers int
}

// NewDevice returns a device at frame 0.
func NewDevice() *Device { return &Device{} }

func (d *Device) BeginFrame() uint64 {
	d.frame++
	return d.frame
}

func (d *Device) Frame() uint64 { return d.frame }

// CreateTexture allocates a zeroed RGBA image.
func (d *Device) CreateTexture(desc render.TextureDescriptor) (render.Texture, error) {
	if desc.Size.Empty() {
		return nil, fmt.Errorf("%s: %w: %s", desc.Label, render.ErrEmptyExtent, desc.Size)
	}
	return &Texture{
		device: d,
		desc:   desc,
		img:    image.NewRGBA(image.Rect(0, 0, desc.Size.Width, desc.Size.Height)),
	}, nil
}

// Pipeline is a compiled soft pipeline.
type Pipeline struct {
	desc     render.RenderPipelineDescriptor
	fragment shader.FragmentFunc
}

func (p *Pipeline) Descriptor() render.RenderPipelineDescriptor { return p.desc }

// CreateRenderPipeline binds the program's Go fragment function.
func (d *Device) CreateRenderPipeline(desc render.RenderPipelineDescriptor, program shader.Program) (render.RenderPipeline, error) {
	if program.Fragment == nil {
		return nil, fmt.Errorf("%s: program %s has no CPU fragment", desc.Label, program.Name)
	}
	return &Pipeline{desc: desc, fragment: program.Fragment}, nil
}

// BeginRenderPass validates the color view and applies the load op.
func (d *Device) BeginRenderPass(desc render.RenderPassDescriptor) (render.RenderPass, error) {
	dst, err := d.attachment(desc.Color)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", desc.Label, err)
	}
	if !dst.desc.Usage.Has(render.UsageRenderAttachment) {
		return nil, fmt.Errorf("%s: texture %q is not a render attachment", desc.Label, dst.desc.Label)
	}
	if desc.Load == render.LoadOpClear {
		draw.Draw(dst.img, dst.img.Bounds(), image.NewUniform(desc.ClearColor), image.Point{}, draw.Src)
	}
	return &pass{device: d, desc: desc, dst: dst}, nil
}

func (d *Device) attachment(v render.TextureView) (*Texture, error) {
	t, ok := v.Texture.(*Texture)
	if !ok || t.device != d {
		return nil, errForeignTexture
	}
	if t.released {
		return nil, fmt.Errorf("%q: %w", t.desc.Label, render.ErrReleased)
	}
	if v.Frame != d.frame {
		return nil, fmt.Errorf("%w: %q view from frame %d, current frame %d",
			render.ErrStaleView, t.desc.Label, v.Frame, d.frame)
	}
	return t, nil
}

// Texture is an RGBA image owned by a Device.
type Texture struct {
	device   *Device
	desc     render.TextureDescriptor
	img      *image.RGBA
	released bool
}

func (t *Texture) Descriptor() render.TextureDescriptor { return t.desc }

func (t *Texture) Size() render.Extent { return t.desc.Size }

// Resize reallocates the image when size changes. Contents are zeroed.
func (t *Texture) Resize(size render.Extent) {
	if size == t.desc.Size || size.Empty() {
		return
	}
	t.desc.Size = size
	t.img = image.NewRGBA(image.Rect(0, 0, size.Width, size.Height))
}

func (t *Texture) CreateView() render.TextureView {
	return render.TextureView{Texture: t, Frame: t.device.frame}
}

func (t *Texture) Release() {
	t.released = true
	t.img = nil
}

// Image returns the backing image. It is nil after Release.
func (t *Texture) Image() *image.RGBA { return t.img }

// At returns the pixel at (x, y).
func (t *Texture) At(x, y int) color.RGBA { return t.img.RGBAAt(x, y) }
