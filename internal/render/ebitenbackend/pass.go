package ebitenbackend

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"

	"fovcone/internal/fov"
	"fovcone/internal/render"
)

type pass struct {
	device   *Device
	desc     render.RenderPassDescriptor
	dst      *Texture
	pipeline *Pipeline
	groups   []*render.BindGroup
	err      error
	ended    bool
}

func (p *pass) fail(err error) {
	if p.err == nil {
		p.err = fmt.Errorf("%s: %w", p.desc.Label, err)
	}
}

func (p *pass) SetPipeline(rp render.RenderPipeline) {
	ep, ok := rp.(*Pipeline)
	if !ok {
		p.fail(fmt.Errorf("pipeline %T does not belong to the ebiten backend", rp))
		return
	}
	p.pipeline = ep
}

func (p *pass) SetBindGroup(index int, g *render.BindGroup) {
	for len(p.groups) <= index {
		p.groups = append(p.groups, nil)
	}
	p.groups[index] = g
}

// Draw covers the destination with one DrawRectShader call. Kage has no
// vertex stage, so only the full-screen triangle is accepted.
func (p *pass) Draw(vertexCount, instanceCount int) {
	if p.err != nil {
		return
	}
	if p.pipeline == nil {
		p.fail(fmt.Errorf("draw without a pipeline"))
		return
	}
	if vertexCount != 3 || instanceCount != 1 {
		p.fail(fmt.Errorf("only full-screen triangles are supported, got %d vertices x %d instances",
			vertexCount, instanceCount))
		return
	}
	if err := render.ValidateDraw(p.device.frame, p.pipeline, p.groups); err != nil {
		p.fail(err)
		return
	}
	size := p.dst.desc.Size
	opts := &ebiten.DrawRectShaderOptions{}
	for i := range p.pipeline.desc.Layouts {
		tex, ok := p.groups[i].FirstTexture()
		if !ok {
			p.fail(fmt.Errorf("bind group %d has no texture", i))
			return
		}
		et, ok := tex.(*Texture)
		if !ok || et.device != p.device {
			p.fail(errForeignTexture)
			return
		}
		if et.img == nil {
			p.fail(render.ErrReleased)
			return
		}
		if et == p.dst {
			p.fail(fmt.Errorf("texture %q is both source and destination", et.desc.Label))
			return
		}
		if et.desc.Size != size {
			p.fail(fmt.Errorf("source %q is %s, destination is %s", et.desc.Label, et.desc.Size, size))
			return
		}
		opts.Images[i] = et.img
	}
	p.dst.img.DrawRectShader(size.Width, size.Height, p.pipeline.shader, opts)
}

func (p *pass) appendVertex(world fov.Vec2, c color.RGBA) {
	x, y := p.desc.View.ToTarget(world)
	p.device.vertices = append(p.device.vertices, ebiten.Vertex{
		DstX:   float32(x),
		DstY:   float32(y),
		SrcX:   1,
		SrcY:   1,
		ColorR: float32(c.R) / 0xff,
		ColorG: float32(c.G) / 0xff,
		ColorB: float32(c.B) / 0xff,
		ColorA: float32(c.A) / 0xff,
	})
}

func (p *pass) DrawMesh(m *fov.Mesh, translation fov.Vec2, c color.RGBA) {
	if p.err != nil || m == nil || m.TriangleCount() == 0 {
		return
	}
	indices, err := p.device.indices(m)
	if err != nil {
		p.fail(err)
		return
	}
	p.device.vertices = p.device.vertices[:0]
	for _, pos := range m.Positions {
		p.appendVertex(fov.Vec2{X: float64(pos[0]), Y: float64(pos[1])}.Add(translation), c)
	}
	p.dst.img.DrawTriangles(p.device.vertices, indices, p.device.white, nil)
}

// FillPolygon fans a convex polygon from its first point.
func (p *pass) FillPolygon(points []fov.Vec2, c color.RGBA) {
	if p.err != nil || len(points) < 3 {
		return
	}
	if len(points) > 1<<16 {
		p.fail(fmt.Errorf("polygon has %d points", len(points)))
		return
	}
	p.device.vertices = p.device.vertices[:0]
	indices := make([]uint16, 0, 3*(len(points)-2))
	for i, pt := range points {
		p.appendVertex(pt, c)
		if i >= 2 {
			indices = append(indices, 0, uint16(i-1), uint16(i))
		}
	}
	p.dst.img.DrawTriangles(p.device.vertices, indices, p.device.white, nil)
}

func (p *pass) End() error {
	if p.ended {
		return fmt.Errorf("%s: pass ended twice", p.desc.Label)
	}
	p.ended = true
	return p.err
}
