package render

import (
	"image/color"

	"fovcone/internal/fov"
)

// MainPassDrawer draws host content, such as walls and the actor, into the
// main pass before scene entities.
type MainPassDrawer interface {
	DrawMainPass(pass RenderPass, view View)
}

// MainPassDrawerFunc adapts a function to MainPassDrawer.
type MainPassDrawerFunc func(pass RenderPass, view View)

func (f MainPassDrawerFunc) DrawMainPass(pass RenderPass, view View) { f(pass, view) }

// MainPassNode clears the current main texture and draws the frame's scene
// content for the main camera.
type MainPassNode struct {
	ClearColor color.RGBA
	Layers     Layers
	Drawer     MainPassDrawer
	scene      *Scene
}

// NewMainPassNode draws entities on DefaultLayers.
func NewMainPassNode(clear color.RGBA) *MainPassNode {
	return &MainPassNode{ClearColor: clear, Layers: DefaultLayers}
}

func (n *MainPassNode) PrepareFrame(w *World) { n.scene = w.Scene }

func (n *MainPassNode) RecordCommands(ctx *FrameContext) error {
	pass, err := ctx.Device.BeginRenderPass(RenderPassDescriptor{
		Label:      "main_pass",
		Color:      ctx.Target.MainView(),
		Load:       LoadOpClear,
		ClearColor: n.ClearColor,
		View:       ctx.View,
	})
	if err != nil {
		return err
	}
	if n.Drawer != nil {
		n.Drawer.DrawMainPass(pass, ctx.View)
	}
	if n.scene != nil {
		n.scene.Each(n.Layers, func(e *SceneEntity) {
			pass.DrawMesh(e.Mesh, e.Translation, e.Color)
		})
	}
	return pass.End()
}

// StrokeSegment fills a width-wide quad from a to b.
func StrokeSegment(pass RenderPass, a, b fov.Vec2, width float64, c color.RGBA) {
	d := b.Sub(a)
	if d.Len() == 0 {
		return
	}
	n := fov.Vec2{X: -d.Y, Y: d.X}.Normalize().Scale(width / 2)
	pass.FillPolygon([]fov.Vec2{a.Add(n), b.Add(n), b.Sub(n), a.Sub(n)}, c)
}
