package render

import (
	"fmt"
	"image/color"
)

// Options configures a Renderer.
type Options struct {
	Viewport       Extent
	ClearIntensity float64
	// Background is the main pass clear color.
	Background color.RGBA
	Format     TextureFormat
}

// Renderer wires the capture pass, the main 2D graph and the resize reactor
// over one Device.
type Renderer struct {
	device    Device
	world     *World
	graph     *Graph
	target    *ViewTarget
	mainPass  *MainPassNode
	composite *CompositeNode
	capture   *CapturePass
	reactor   *ResizeReactor
}

// NewRenderer allocates the view target and the capture texture at
// opts.Viewport and registers the FOV node in the main graph.
func NewRenderer(d Device, window WindowSizer, opts Options) (*Renderer, error) {
	if opts.Viewport.Empty() {
		return nil, fmt.Errorf("renderer: %w: %s", ErrEmptyExtent, opts.Viewport)
	}
	world := NewWorld()
	target, err := NewViewTarget(d, opts.Viewport, opts.Format)
	if err != nil {
		return nil, fmt.Errorf("renderer: view target: %w", err)
	}
	capture := NewCapturePass(d, world, opts.ClearIntensity)
	if _, err := capture.Initialize(opts.Viewport); err != nil {
		target.Release()
		return nil, fmt.Errorf("renderer: %w", err)
	}

	r := &Renderer{
		device:    d,
		world:     world,
		graph:     NewGraph("core_2d"),
		target:    target,
		mainPass:  NewMainPassNode(opts.Background),
		composite: NewCompositeNode(NewCompositePipeline(world.Pipelines, opts.Format)),
		capture:   capture,
		reactor:   NewResizeReactor(window, capture, target),
	}
	r.reactor.Sync(opts.Viewport)

	for _, n := range []struct {
		name string
		node Node
	}{
		{NodeMainPass, r.mainPass},
		{NodeTonemapping, EmptyNode{}},
		{NodeFOV, r.composite},
		{NodeEndMainPassPostProcessing, EmptyNode{}},
	} {
		if err := r.graph.AddNode(n.name, n.node); err != nil {
			r.Release()
			return nil, err
		}
	}
	if err := r.graph.AddEdges(NodeMainPass, NodeTonemapping, NodeFOV, NodeEndMainPassPostProcessing); err != nil {
		r.Release()
		return nil, err
	}
	return r, nil
}

func (r *Renderer) World() *World             { return r.world }
func (r *Renderer) Scene() *Scene             { return r.world.Scene }
func (r *Renderer) Graph() *Graph             { return r.graph }
func (r *Renderer) Target() *ViewTarget       { return r.target }
func (r *Renderer) Capture() *CapturePass     { return r.capture }
func (r *Renderer) Composite() *CompositeNode { return r.composite }
func (r *Renderer) Reactor() *ResizeReactor   { return r.reactor }

// SetFOVEnabled toggles the compositing step.
func (r *Renderer) SetFOVEnabled(on bool) { r.composite.SetEnabled(on) }

// HandleResize forwards a resize event to the reactor.
func (r *Renderer) HandleResize(e ResizeEvent) bool { return r.reactor.Handle(e) }

// RenderFrame renders one frame and returns the texture holding the result.
// view.Size is replaced by the view target size.
func (r *Renderer) RenderFrame(view View, drawer MainPassDrawer) (Texture, error) {
	frame := r.device.BeginFrame()
	r.world.Pipelines.Process(r.device)

	view.Size = r.target.Size()
	if err := r.capture.Render(view); err != nil {
		return nil, fmt.Errorf("capture: %w", err)
	}

	r.mainPass.Drawer = drawer
	ctx := &FrameContext{
		Device: r.device,
		World:  r.world,
		Target: r.target,
		View:   view,
		Frame:  frame,
	}
	if err := r.graph.Run(ctx); err != nil {
		return nil, err
	}
	return r.target.Main(), nil
}

// Release frees all textures.
func (r *Renderer) Release() {
	r.capture.Release()
	r.target.Release()
}
