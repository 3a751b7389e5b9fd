// Package render is the backend-neutral half of the FOV renderer. It models
// textures, bind groups and pipelines the way a WebGPU host does, and hosts
// the capture pass, the compositing node and the resize reactor on top of a
// Device supplied by a backend package.
package render

import (
	"errors"
	"fmt"
	"image/color"

	"fovcone/internal/fov"
	"fovcone/internal/shader"
)

// Errors reported by validation.
var (
	ErrStaleView      = errors.New("texture view used outside the frame it was created in")
	ErrLayoutMismatch = errors.New("bind group does not match its layout")
	ErrEmptyExtent    = errors.New("texture extent has zero area")
	ErrReleased       = errors.New("texture released")
)

// Extent is a size in pixels.
type Extent struct {
	Width, Height int
}

// Empty reports whether e covers no pixels.
func (e Extent) Empty() bool { return e.Width <= 0 || e.Height <= 0 }

func (e Extent) String() string { return fmt.Sprintf("%dx%d", e.Width, e.Height) }

// TextureFormat is the pixel format of a texture.
type TextureFormat uint8

const (
	FormatRGBA8Unorm TextureFormat = iota
	FormatRGBA8UnormSrgb
)

// TextureUsage is a bit set of allowed texture roles.
type TextureUsage uint8

const (
	UsageTextureBinding TextureUsage = 1 << iota
	UsageCopyDst
	UsageRenderAttachment
)

// Has reports whether every bit of want is set.
func (u TextureUsage) Has(want TextureUsage) bool { return u&want == want }

// TextureDescriptor describes a 2D texture allocation.
type TextureDescriptor struct {
	Label  string
	Size   Extent
	Format TextureFormat
	Usage  TextureUsage
}

// Texture is a backend-owned 2D color image. Its identity survives Resize,
// so every holder keeps a valid handle across viewport changes.
type Texture interface {
	Descriptor() TextureDescriptor
	Size() Extent
	// Resize reallocates storage when size differs from the current size.
	// Contents are undefined afterwards. Same size is a no-op.
	Resize(size Extent)
	// CreateView returns a view valid only during the current frame.
	CreateView() TextureView
	Release()
}

// TextureView is a frame-scoped handle to a texture.
type TextureView struct {
	Texture Texture
	Frame   uint64
}

// FilterMode selects texel filtering.
type FilterMode uint8

const (
	FilterLinear FilterMode = iota
	FilterNearest
)

// Sampler describes how a texture is read. Samplers are immutable and
// backend-independent.
type Sampler struct {
	Label  string
	Filter FilterMode
}

// LoadOp selects what a render pass does with existing target contents.
type LoadOp uint8

const (
	LoadOpLoad LoadOp = iota
	LoadOpClear
)

// RenderPassDescriptor configures one pass over a single color target.
type RenderPassDescriptor struct {
	Label      string
	Color      TextureView
	Load       LoadOp
	ClearColor color.RGBA
	// View maps world coordinates for DrawMesh and FillPolygon.
	View View
}

// RenderPass records draws into one color target. Errors are collected and
// returned by End, the way a command encoder reports validation failures.
type RenderPass interface {
	SetPipeline(p RenderPipeline)
	SetBindGroup(index int, g *BindGroup)
	// Draw issues a pipeline draw with no vertex buffer.
	Draw(vertexCount, instanceCount int)
	// DrawMesh fills the mesh's triangles with a flat unlit color at
	// translation in world space.
	DrawMesh(m *fov.Mesh, translation fov.Vec2, c color.RGBA)
	// FillPolygon fills a convex world-space polygon.
	FillPolygon(points []fov.Vec2, c color.RGBA)
	End() error
}

// RenderPipeline is a compiled pipeline.
type RenderPipeline interface {
	Descriptor() RenderPipelineDescriptor
}

// Device creates GPU resources and passes.
type Device interface {
	// BeginFrame starts a new frame and returns its number. Views created
	// in earlier frames become stale.
	BeginFrame() uint64
	Frame() uint64
	CreateTexture(desc TextureDescriptor) (Texture, error)
	CreateRenderPipeline(desc RenderPipelineDescriptor, program shader.Program) (RenderPipeline, error)
	BeginRenderPass(desc RenderPassDescriptor) (RenderPass, error)
}

// Gray returns an opaque grey at intensity in [0, 1].
func Gray(intensity float64) color.RGBA {
	if intensity < 0 {
		intensity = 0
	} else if intensity > 1 {
		intensity = 1
	}
	v := uint8(intensity*255 + 0.5)
	return color.RGBA{R: v, G: v, B: v, A: 0xff}
}
