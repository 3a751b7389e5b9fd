package render

import (
	"fmt"
	"image/color"

	"fovcone/internal/fov"
)

// FOVTextureName is the logical name the capture texture is registered under.
const FOVTextureName = "fov_texture"

// CaptureOrder is the camera order of the capture pass; lower runs first and
// the main camera is 0.
const CaptureOrder = -1

// CapturePass renders the capture layers into an offscreen viewport-sized
// texture that is cleared to a grey baseline every frame.
type CapturePass struct {
	device   Device
	world    *World
	clear    color.RGBA
	layers   Layers
	texture  Texture
	lastSize Extent
}

// NewCapturePass returns an uninitialized pass drawing CaptureLayers over a
// clearIntensity grey.
func NewCapturePass(d Device, w *World, clearIntensity float64) *CapturePass {
	return &CapturePass{
		device: d,
		world:  w,
		clear:  Gray(clearIntensity),
		layers: CaptureLayers,
	}
}

func (c *CapturePass) Order() int { return CaptureOrder }

// ClearColor returns the baseline color of the capture texture.
func (c *CapturePass) ClearColor() color.RGBA { return c.clear }

// Texture returns the capture texture, nil before Initialize.
func (c *CapturePass) Texture() Texture { return c.texture }

// Initialize allocates the texture at size, registers it under
// FOVTextureName and clears it. Calling it again resizes the existing
// texture instead of allocating a new one.
func (c *CapturePass) Initialize(size Extent) (Texture, error) {
	if c.texture != nil {
		c.OnViewportResize(size)
		return c.texture, nil
	}
	if size.Empty() {
		return nil, fmt.Errorf("fov texture: %w: %s", ErrEmptyExtent, size)
	}
	tex, err := c.device.CreateTexture(TextureDescriptor{
		Label:  FOVTextureName,
		Size:   size,
		Format: FormatRGBA8UnormSrgb,
		Usage:  UsageTextureBinding | UsageCopyDst | UsageRenderAttachment,
	})
	if err != nil {
		return nil, fmt.Errorf("fov texture: %w", err)
	}
	c.texture = tex
	c.lastSize = size
	c.world.Textures.Register(FOVTextureName, tex)
	if err := c.clearOnly(); err != nil {
		return nil, err
	}
	fov.Logger().Info("fov texture created", "size", size.String())
	return tex, nil
}

func (c *CapturePass) clearOnly() error {
	pass, err := c.device.BeginRenderPass(RenderPassDescriptor{
		Label:      "fov_capture_clear",
		Color:      c.texture.CreateView(),
		Load:       LoadOpClear,
		ClearColor: c.clear,
	})
	if err != nil {
		return err
	}
	return pass.End()
}

// OnViewportResize resizes the texture in place. Zero-area sizes and the
// current size are ignored.
func (c *CapturePass) OnViewportResize(size Extent) {
	if c.texture == nil || size.Empty() || size == c.lastSize {
		return
	}
	c.texture.Resize(size)
	c.lastSize = size
	fov.Logger().Debug("fov texture resized", "size", size.String())
}

// Render clears the texture and draws every capture-layer entity with the
// main camera's transform.
func (c *CapturePass) Render(view View) error {
	if c.texture == nil {
		return nil
	}
	view.Size = c.texture.Size()
	pass, err := c.device.BeginRenderPass(RenderPassDescriptor{
		Label:      "fov_capture",
		Color:      c.texture.CreateView(),
		Load:       LoadOpClear,
		ClearColor: c.clear,
		View:       view,
	})
	if err != nil {
		return err
	}
	c.world.Scene.Each(c.layers, func(e *SceneEntity) {
		pass.DrawMesh(e.Mesh, e.Translation, e.Color)
	})
	return pass.End()
}

// Release frees the texture and unregisters it.
func (c *CapturePass) Release() {
	if c.texture == nil {
		return
	}
	c.world.Textures.Unregister(FOVTextureName)
	c.texture.Release()
	c.texture = nil
	c.lastSize = Extent{}
}
