package render

import (
	"fovcone/internal/fov"
	"fovcone/internal/shader"
)

// CompositePipeline holds the startup resources of the FOV compositing
// node.
type CompositePipeline struct {
	ScreenLayout *BindGroupLayout
	FOVLayout    *BindGroupLayout
	Sampler      Sampler
	ID           CachedPipelineID
}

// NewCompositePipeline creates both bind-group layouts and the sampler and
// queues the pipeline in cache.
func NewCompositePipeline(cache *PipelineCache, format TextureFormat) *CompositePipeline {
	p := &CompositePipeline{
		ScreenLayout: TextureSamplerLayout("fov_screen_layout"),
		FOVLayout:    TextureSamplerLayout("fov_texture_layout"),
		Sampler:      Sampler{Label: "fov_sampler", Filter: FilterLinear},
	}
	p.ID = cache.Queue(RenderPipelineDescriptor{
		Label:         "fov_pipeline",
		Layouts:       []*BindGroupLayout{p.ScreenLayout, p.FOVLayout},
		Shader:        shader.FOV,
		VertexEntry:   shader.VertexEntry,
		FragmentEntry: shader.FragmentEntry,
		TargetFormat:  format,
	})
	return p
}

// CompositeNode modulates the main view by the capture texture. It is
// registered as NodeFOV between tonemapping and the end of post-processing.
type CompositeNode struct {
	pipeline   *CompositePipeline
	enabled    bool
	fovTexture Texture
	cache      *PipelineCache
}

// NewCompositeNode returns an enabled node.
func NewCompositeNode(p *CompositePipeline) *CompositeNode {
	return &CompositeNode{pipeline: p, enabled: true}
}

// SetEnabled turns compositing on or off; a disabled node passes the scene
// through untouched.
func (n *CompositeNode) SetEnabled(on bool) { n.enabled = on }

func (n *CompositeNode) Enabled() bool { return n.enabled }

func (n *CompositeNode) PrepareFrame(w *World) {
	n.cache = w.Pipelines
	n.fovTexture, _ = w.Textures.Get(FOVTextureName)
}

// RecordCommands draws one full-screen triangle over a post-process
// destination. A missing FOV texture or a pipeline that is not compiled yet
// skips the frame without error.
func (n *CompositeNode) RecordCommands(ctx *FrameContext) error {
	if !n.enabled {
		return nil
	}
	if n.fovTexture == nil {
		fov.Logger().Debug("fov composite skipped", "reason", "no fov texture")
		return nil
	}
	if n.cache == nil {
		return nil
	}
	pipeline, ok := n.cache.RenderPipeline(n.pipeline.ID)
	if !ok {
		fov.Logger().Debug("fov composite skipped", "reason", "pipeline not ready")
		return nil
	}

	post := ctx.Target.PostProcessWrite()
	fovView := n.fovTexture.CreateView()
	sampler := n.pipeline.Sampler

	screen, err := CreateBindGroup(ctx.Frame, BindGroupDescriptor{
		Label:  "fov_screen_bind_group",
		Layout: n.pipeline.ScreenLayout,
		Entries: []BindGroupEntry{
			{Binding: 0, View: &post.Source},
			{Binding: 1, Sampler: &sampler},
		},
	})
	if err != nil {
		return err
	}
	mask, err := CreateBindGroup(ctx.Frame, BindGroupDescriptor{
		Label:  "fov_texture_bind_group",
		Layout: n.pipeline.FOVLayout,
		Entries: []BindGroupEntry{
			{Binding: 0, View: &fovView},
			{Binding: 1, Sampler: &sampler},
		},
	})
	if err != nil {
		return err
	}

	pass, err := ctx.Device.BeginRenderPass(RenderPassDescriptor{
		Label: "fov_pass",
		Color: post.Destination,
		Load:  LoadOpLoad,
		View:  ctx.View,
	})
	if err != nil {
		return err
	}
	pass.SetPipeline(pipeline)
	pass.SetBindGroup(0, screen)
	pass.SetBindGroup(1, mask)
	pass.Draw(3, 1)
	return pass.End()
}
