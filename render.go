package main

import (
	"fmt"
	"log"
	"math"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"

	"fovcone/internal/fov"
	"fovcone/internal/render"
	"fovcone/internal/render/ebitenbackend"
)

// view is the main camera, centred on the actor.
func (g *Game) view() render.View {
	return render.View{Center: g.pos, Size: g.viewport, Scale: g.cfg.Window.Scale}
}

// Draw renders the frame through the FOV renderer and presents it.
func (g *Game) Draw(screen *ebiten.Image) {
	start := time.Now()
	out, err := g.renderer.RenderFrame(g.view(), g)
	if err != nil {
		log.Printf("render frame: %v", err)
		return
	}
	if tex, ok := out.(*ebitenbackend.Texture); ok && tex.Image() != nil {
		screen.DrawImage(tex.Image(), nil)
	}
	g.lastFrame = time.Since(start)

	if *debugFlag {
		fps := ebiten.ActualFPS()
		tps := ebiten.ActualTPS()
		debugMsg := fmt.Sprintf("FPS: %.1f  TPS: %.1f\nUpdate: %.2f ms  Render: %.2f ms\nFOV: %v (F)  Rays: %d  Viewport: %s",
			fps, tps,
			g.lastUpdate.Seconds()*1000, g.lastFrame.Seconds()*1000,
			g.renderer.Composite().Enabled(), g.cfg.FOV.SampleCount+1, g.viewport)
		ebitenutil.DebugPrint(screen, debugMsg)
	}
}

// DrawMainPass draws walls, the actor and the optional cone gizmo.
func (g *Game) DrawMainPass(pass render.RenderPass, view render.View) {
	for _, r := range g.walls {
		pass.FillPolygon(r[:], wallColor)
	}

	pose, _ := g.ActorPose()
	if *showGizmoFlag {
		for _, end := range fov.ConeRays(pose, g.cfg.FOV.HalfAngle, g.cfg.FOV.MaxDistance) {
			render.StrokeSegment(pass, pose.Position, end, gizmoWidth/view.Scale, gizmoColor)
		}
	}

	const sides = 12
	body := make([]fov.Vec2, sides)
	for i := range body {
		body[i] = pose.Position.Add(fov.FromAngle(2 * math.Pi * float64(i) / sides).Scale(actorRadius))
	}
	pass.FillPolygon(body, actorColor)
	fwd := pose.Forward()
	side := fov.Vec2{X: -fwd.Y, Y: fwd.X}.Scale(actorRadius / 2)
	pass.FillPolygon([]fov.Vec2{
		pose.Position.Add(side),
		pose.Position.Add(fwd.Scale(actorNoseLength)),
		pose.Position.Sub(side),
	}, actorColor)
}

// Layout keeps the logical screen at the window size so the FOV texture
// tracks the real viewport.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	if outsideWidth > 0 && outsideHeight > 0 {
		g.viewport = render.Extent{Width: outsideWidth, Height: outsideHeight}
	}
	return g.viewport.Width, g.viewport.Height
}
