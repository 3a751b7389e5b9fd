// Package ebitenbackend implements render.Device on Ebiten images. Meshes go
// through DrawTriangles with a white source, full-screen draws run the Kage
// form of the program with DrawRectShader.
package ebitenbackend

import (
	"errors"
	"fmt"
	"image"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"

	"fovcone/internal/fov"
	"fovcone/internal/render"
	"fovcone/internal/shader"
)

var errForeignTexture = errors.New("texture does not belong to the ebiten backend")

// Device wraps Ebiten's implicit graphics context. It must be used from the
// game's Update/Draw goroutine.
type Device struct {
	frame    uint64
	white    *ebiten.Image
	vertices []ebiten.Vertex
	meshes   map[*fov.Mesh]*meshIndices
}

type meshIndices struct {
	version uint64
	indices []uint16
}

// NewDevice returns a device at frame 0.
func NewDevice() *Device {
	white := ebiten.NewImage(3, 3)
	white.Fill(color.White)
	return &Device{
		white:  white.SubImage(image.Rect(1, 1, 2, 2)).(*ebiten.Image),
		meshes: make(map[*fov.Mesh]*meshIndices),
	}
}

func (d *Device) BeginFrame() uint64 {
	d.frame++
	return d.frame
}

func (d *Device) Frame() uint64 { return d.frame }

func (d *Device) CreateTexture(desc render.TextureDescriptor) (render.Texture, error) {
	if desc.Size.Empty() {
		return nil, fmt.Errorf("%s: %w: %s", desc.Label, render.ErrEmptyExtent, desc.Size)
	}
	return &Texture{
		device: d,
		desc:   desc,
		img:    ebiten.NewImage(desc.Size.Width, desc.Size.Height),
	}, nil
}

// Pipeline is a compiled Kage shader.
type Pipeline struct {
	desc   render.RenderPipelineDescriptor
	shader *ebiten.Shader
}

func (p *Pipeline) Descriptor() render.RenderPipelineDescriptor { return p.desc }

func (d *Device) CreateRenderPipeline(desc render.RenderPipelineDescriptor, program shader.Program) (render.RenderPipeline, error) {
	if len(desc.Layouts) > len(ebiten.DrawRectShaderOptions{}.Images) {
		return nil, fmt.Errorf("%s: %d inputs exceed the Kage image slots", desc.Label, len(desc.Layouts))
	}
	s, err := ebiten.NewShader(program.Kage)
	if err != nil {
		return nil, fmt.Errorf("%s: compile %s: %w", desc.Label, program.Name, err)
	}
	return &Pipeline{desc: desc, shader: s}, nil
}

func (d *Device) BeginRenderPass(desc render.RenderPassDescriptor) (render.RenderPass, error) {
	dst, err := d.attachment(desc.Color)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", desc.Label, err)
	}
	if !dst.desc.Usage.Has(render.UsageRenderAttachment) {
		return nil, fmt.Errorf("%s: texture %q is not a render attachment", desc.Label, dst.desc.Label)
	}
	if desc.Load == render.LoadOpClear {
		dst.img.Fill(desc.ClearColor)
	}
	return &pass{device: d, desc: desc, dst: dst}, nil
}

func (d *Device) attachment(v render.TextureView) (*Texture, error) {
	t, ok := v.Texture.(*Texture)
	if !ok || t.device != d {
		return nil, errForeignTexture
	}
	if t.img == nil {
		return nil, fmt.Errorf("%q: %w", t.desc.Label, render.ErrReleased)
	}
	if v.Frame != d.frame {
		return nil, fmt.Errorf("%w: %q view from frame %d, current frame %d",
			render.ErrStaleView, t.desc.Label, v.Frame, d.frame)
	}
	return t, nil
}

// indices returns m's index buffer as uint16, converted again only when the
// mesh version changes.
func (d *Device) indices(m *fov.Mesh) ([]uint16, error) {
	if m.VertexCount() > 1<<16 {
		return nil, fmt.Errorf("mesh has %d vertices, more than 16-bit indices can address", m.VertexCount())
	}
	c := d.meshes[m]
	if c == nil {
		c = &meshIndices{}
		d.meshes[m] = c
	} else if c.version == m.Version() && len(c.indices) == len(m.Indices) {
		return c.indices, nil
	}
	c.version = m.Version()
	c.indices = c.indices[:0]
	for _, i := range m.Indices {
		c.indices = append(c.indices, uint16(i))
	}
	return c.indices, nil
}

// Texture is an offscreen Ebiten image.
type Texture struct {
	device *Device
	desc   render.TextureDescriptor
	img    *ebiten.Image
}

func (t *Texture) Descriptor() render.TextureDescriptor { return t.desc }

func (t *Texture) Size() render.Extent { return t.desc.Size }

func (t *Texture) Resize(size render.Extent) {
	if size == t.desc.Size || size.Empty() || t.img == nil {
		return
	}
	t.img.Deallocate()
	t.img = ebiten.NewImage(size.Width, size.Height)
	t.desc.Size = size
}

func (t *Texture) CreateView() render.TextureView {
	return render.TextureView{Texture: t, Frame: t.device.frame}
}

func (t *Texture) Release() {
	if t.img != nil {
		t.img.Deallocate()
		t.img = nil
	}
}

// Image returns the backing image for presenting. It is nil after Release.
func (t *Texture) Image() *ebiten.Image { return t.img }
