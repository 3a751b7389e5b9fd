package soft

import (
	"fmt"
	"image"
	"image/color"

	"golang.org/x/image/vector"

	"fovcone/internal/fov"
	"fovcone/internal/render"
)

type pass struct {
	device   *Device
	desc     render.RenderPassDescriptor
	dst      *Texture
	pipeline *Pipeline
	groups   []*render.BindGroup
	raster   *vector.Rasterizer
	err      error
	ended    bool
}

func (p *pass) fail(err error) {
	if p.err == nil {
		p.err = fmt.Errorf("%s: %w", p.desc.Label, err)
	}
}

func (p *pass) SetPipeline(rp render.RenderPipeline) {
	sp, ok := rp.(*Pipeline)
	if !ok {
		p.fail(fmt.Errorf("pipeline %T does not belong to the soft backend", rp))
		return
	}
	p.pipeline = sp
}

func (p *pass) SetBindGroup(index int, g *render.BindGroup) {
	for len(p.groups) <= index {
		p.groups = append(p.groups, nil)
	}
	p.groups[index] = g
}

// Draw only supports the full-screen triangle: three vertices, one
// instance, covering every destination pixel.
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
	sources := make([]*image.RGBA, len(p.pipeline.desc.Layouts))
	for i := range sources {
		tex, ok := p.groups[i].FirstTexture()
		if !ok {
			p.fail(fmt.Errorf("bind group %d has no texture", i))
			return
		}
		st, ok := tex.(*Texture)
		if !ok || st.device != p.device {
			p.fail(errForeignTexture)
			return
		}
		if st.released {
			p.fail(render.ErrReleased)
			return
		}
		img := st.img
		if st == p.dst {
			img = cloneRGBA(img)
		}
		sources[i] = img
	}
	if err := shade(p.dst.img, sources, p.pipeline.fragment, p.device.Workers); err != nil {
		p.fail(err)
	}
}

func cloneRGBA(src *image.RGBA) *image.RGBA {
	out := image.NewRGBA(src.Rect)
	copy(out.Pix, src.Pix)
	return out
}

func (p *pass) rasterizer() *vector.Rasterizer {
	b := p.dst.img.Bounds()
	if p.raster == nil {
		p.raster = vector.NewRasterizer(b.Dx(), b.Dy())
	} else {
		p.raster.Reset(b.Dx(), b.Dy())
	}
	return p.raster
}

func (p *pass) point(world fov.Vec2) point {
	x, y := p.desc.View.ToTarget(world)
	return point{float32(x), float32(y)}
}

// addPolygon clips poly to the target and appends it to z as a closed path.
func (p *pass) addPolygon(z *vector.Rasterizer, poly []point) {
	b := p.dst.img.Bounds()
	clipped := clipRect(poly, float32(b.Dx()), float32(b.Dy()))
	if len(clipped) < 3 {
		return
	}
	z.MoveTo(clipped[0].x, clipped[0].y)
	for _, pt := range clipped[1:] {
		z.LineTo(pt.x, pt.y)
	}
	z.ClosePath()
}

// DrawMesh fills every triangle of m in one rasterizer pass so shared fan
// edges do not double-blend.
func (p *pass) DrawMesh(m *fov.Mesh, translation fov.Vec2, c color.RGBA) {
	if p.err != nil || m == nil || m.TriangleCount() == 0 {
		return
	}
	z := p.rasterizer()
	tri := make([]point, 3)
	m.Triangles(func(a, b, cc fov.Vec2) {
		tri[0] = p.point(a.Add(translation))
		tri[1] = p.point(b.Add(translation))
		tri[2] = p.point(cc.Add(translation))
		p.addPolygon(z, tri)
	})
	z.Draw(p.dst.img, p.dst.img.Bounds(), image.NewUniform(c), image.Point{})
}

func (p *pass) FillPolygon(points []fov.Vec2, c color.RGBA) {
	if p.err != nil || len(points) < 3 {
		return
	}
	poly := make([]point, len(points))
	for i, pt := range points {
		poly[i] = p.point(pt)
	}
	z := p.rasterizer()
	p.addPolygon(z, poly)
	z.Draw(p.dst.img, p.dst.img.Bounds(), image.NewUniform(c), image.Point{})
}

func (p *pass) End() error {
	if p.ended {
		return fmt.Errorf("%s: pass ended twice", p.desc.Label)
	}
	p.ended = true
	return p.err
}
