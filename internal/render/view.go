package render

import "fovcone/internal/fov"

// View is a 2D camera: world Center lands in the middle of a Size target and
// one world unit covers Scale pixels. World y points up, target y down.
type View struct {
	Center fov.Vec2
	Size   Extent
	Scale  float64
}

// ToTarget maps a world point to target pixel coordinates.
func (v View) ToTarget(p fov.Vec2) (x, y float64) {
	s := v.Scale
	if s == 0 {
		s = 1
	}
	d := p.Sub(v.Center)
	return float64(v.Size.Width)/2 + d.X*s, float64(v.Size.Height)/2 - d.Y*s
}

// ToWorld is the inverse of ToTarget.
func (v View) ToWorld(x, y float64) fov.Vec2 {
	s := v.Scale
	if s == 0 {
		s = 1
	}
	return fov.Vec2{
		X: v.Center.X + (x-float64(v.Size.Width)/2)/s,
		Y: v.Center.Y - (y-float64(v.Size.Height)/2)/s,
	}
}

// PostProcessWrite is one ping-pong step: read Source, write Destination.
type PostProcessWrite struct {
	Source      TextureView
	Destination TextureView
}

// ViewTarget owns the main camera's two color textures. Post-processing
// nodes read the current one and write the other, which then becomes
// current.
type ViewTarget struct {
	device Device
	main   [2]Texture
	active int
}

// NewViewTarget allocates both main textures at size.
func NewViewTarget(d Device, size Extent, format TextureFormat) (*ViewTarget, error) {
	t := &ViewTarget{device: d}
	for i, label := range []string{"main_texture_a", "main_texture_b"} {
		tex, err := d.CreateTexture(TextureDescriptor{
			Label:  label,
			Size:   size,
			Format: format,
			Usage:  UsageRenderAttachment | UsageTextureBinding | UsageCopyDst,
		})
		if err != nil {
			t.Release()
			return nil, err
		}
		t.main[i] = tex
	}
	return t, nil
}

// Main returns the current main texture.
func (t *ViewTarget) Main() Texture { return t.main[t.active] }

// MainView returns a view of the current main texture for this frame.
func (t *ViewTarget) MainView() TextureView { return t.Main().CreateView() }

// Size returns the size of the main textures.
func (t *ViewTarget) Size() Extent { return t.Main().Size() }

// PostProcessWrite returns source and destination views and flips the
// current texture to the destination.
func (t *ViewTarget) PostProcessWrite() PostProcessWrite {
	src := t.main[t.active].CreateView()
	t.active = 1 - t.active
	dst := t.main[t.active].CreateView()
	return PostProcessWrite{Source: src, Destination: dst}
}

// OnViewportResize resizes both main textures. Zero-area sizes are ignored.
func (t *ViewTarget) OnViewportResize(size Extent) {
	if size.Empty() {
		return
	}
	for _, tex := range t.main {
		tex.Resize(size)
	}
}

// Release frees both textures.
func (t *ViewTarget) Release() {
	for i, tex := range t.main {
		if tex != nil {
			tex.Release()
			t.main[i] = nil
		}
	}
}
