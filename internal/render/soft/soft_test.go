package soft

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fovcone/internal/fov"
	"fovcone/internal/render"
	"fovcone/internal/shader"
)

func TestClipRect(t *testing.T) {
	inside := []point{{1, 1}, {5, 1}, {5, 5}}
	assert.Equal(t, inside, clipRect(inside, 10, 10))

	assert.Empty(t, clipRect([]point{{-5, -5}, {-1, -5}, {-1, -1}}, 10, 10))

	got := clipRect([]point{{-10, 5}, {20, 5}, {5, 20}}, 10, 10)
	require.NotEmpty(t, got)
	for _, p := range got {
		assert.True(t, p.x >= 0 && p.x <= 10 && p.y >= 0 && p.y <= 10, "%v", p)
	}
}

func TestSplitRows(t *testing.T) {
	bands := splitRows(10, 3)
	assert.Equal(t, []rowBand{{0, 4}, {4, 7}, {7, 10}}, bands)
	assert.Equal(t, []rowBand{{0, 1}, {1, 2}}, splitRows(2, 8))
	assert.Equal(t, []rowBand{{0, 5}}, splitRows(5, 0))
}

func newTarget(t *testing.T, d *Device, w, h int) *Texture {
	t.Helper()
	tex, err := d.CreateTexture(render.TextureDescriptor{
		Label: "target",
		Size:  render.Extent{Width: w, Height: h},
		Usage: render.UsageRenderAttachment | render.UsageTextureBinding,
	})
	require.NoError(t, err)
	return tex.(*Texture)
}

func TestDrawMeshLargerThanTarget(t *testing.T) {
	d := NewDevice()
	d.BeginFrame()
	tex := newTarget(t, d, 16, 16)

	m := fov.NewMesh(4)
	m.Rebuild([]fov.Vec2{{X: 1000, Y: 1000}, {X: 1000, Y: -1000}, {X: -1000, Y: -1000}, {X: -1000, Y: 1000}})
	pass, err := d.BeginRenderPass(render.RenderPassDescriptor{
		Label:      "mesh",
		Color:      tex.CreateView(),
		Load:       render.LoadOpClear,
		ClearColor: color.RGBA{A: 255},
		View:       render.View{Size: tex.Size()},
	})
	require.NoError(t, err)
	pass.DrawMesh(m, fov.Vec2{}, color.RGBA{R: 255, A: 255})
	require.NoError(t, pass.End())

	// Two fan triangles cover the right and lower quarters around the apex.
	assert.Equal(t, color.RGBA{R: 255, A: 255}, tex.At(14, 8))
	assert.Equal(t, color.RGBA{R: 255, A: 255}, tex.At(8, 14))
	assert.Equal(t, color.RGBA{A: 255}, tex.At(1, 8))
	assert.Equal(t, color.RGBA{A: 255}, tex.At(8, 1))
}

func TestDrawRejectsNonFullscreen(t *testing.T) {
	d := NewDevice()
	d.BeginFrame()
	tex := newTarget(t, d, 4, 4)
	program, err := shader.Load(shader.FOV)
	require.NoError(t, err)
	p, err := d.CreateRenderPipeline(render.RenderPipelineDescriptor{Label: "p"}, program)
	require.NoError(t, err)

	pass, err := d.BeginRenderPass(render.RenderPassDescriptor{Label: "draw", Color: tex.CreateView()})
	require.NoError(t, err)
	pass.SetPipeline(p)
	pass.Draw(6, 1)
	assert.Error(t, pass.End())
	assert.Error(t, pass.End(), "ending twice")
}

func TestDrawRequiresBindGroups(t *testing.T) {
	d := NewDevice()
	frame := d.BeginFrame()
	tex := newTarget(t, d, 4, 4)
	program, err := shader.Load(shader.FOV)
	require.NoError(t, err)
	layout := render.TextureSamplerLayout("l")
	p, err := d.CreateRenderPipeline(render.RenderPipelineDescriptor{
		Label:   "p",
		Layouts: []*render.BindGroupLayout{layout, layout},
	}, program)
	require.NoError(t, err)

	view := tex.CreateView()
	sampler := render.Sampler{}
	g, err := render.CreateBindGroup(frame, render.BindGroupDescriptor{
		Layout:  layout,
		Entries: []render.BindGroupEntry{{Binding: 0, View: &view}, {Binding: 1, Sampler: &sampler}},
	})
	require.NoError(t, err)

	pass, err := d.BeginRenderPass(render.RenderPassDescriptor{Label: "draw", Color: tex.CreateView()})
	require.NoError(t, err)
	pass.SetPipeline(p)
	pass.SetBindGroup(0, g)
	pass.Draw(3, 1)
	assert.ErrorIs(t, pass.End(), render.ErrLayoutMismatch)
}

func TestTextureResize(t *testing.T) {
	d := NewDevice()
	tex := newTarget(t, d, 4, 4)
	img := tex.Image()
	tex.Resize(render.Extent{Width: 4, Height: 4})
	assert.Same(t, img, tex.Image())
	tex.Resize(render.Extent{Width: 8, Height: 2})
	assert.Equal(t, 8, tex.Image().Bounds().Dx())

	tex.Release()
	_, err := d.BeginRenderPass(render.RenderPassDescriptor{Color: tex.CreateView()})
	assert.ErrorIs(t, err, render.ErrReleased)
}
