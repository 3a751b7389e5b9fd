package main

import (
	"math"
	"math/rand"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"fovcone/internal/fov"
)

// enableAutoWalk schedules scripted movement for a limited duration.
func (g *Game) enableAutoWalk(duration time.Duration) {
	g.autoWalk = true
	g.autoWalkDeadline = time.Now().Add(duration)
	if g.autoWalkRand == nil {
		g.autoWalkRand = rand.New(rand.NewSource(time.Now().UnixNano() + 3))
	}
	g.autoWalkFrameCount = 0
}

// movementVector selects either manual or automatic movement, in world
// units per tick.
func (g *Game) movementVector() fov.Vec2 {
	if g.autoWalk {
		if time.Now().After(g.autoWalkDeadline) {
			g.autoWalk = false
			return fov.Vec2{}
		}
		return g.autoWalkVector()
	}
	return g.manualMovementVector()
}

// manualMovementVector reads WASD. World y points up, so W adds +Y.
func (g *Game) manualMovementVector() fov.Vec2 {
	var d fov.Vec2
	if ebiten.IsKeyPressed(ebiten.KeyW) {
		d.Y++
	}
	if ebiten.IsKeyPressed(ebiten.KeyS) {
		d.Y--
	}
	if ebiten.IsKeyPressed(ebiten.KeyA) {
		d.X--
	}
	if ebiten.IsKeyPressed(ebiten.KeyD) {
		d.X++
	}
	if d == (fov.Vec2{}) {
		return d
	}
	return d.Normalize().Scale(g.cfg.World.MoveSpeed)
}

// turnInput returns the rotation requested with the arrow keys this tick.
func (g *Game) turnInput() float64 {
	turn := 0.0
	if ebiten.IsKeyPressed(ebiten.KeyArrowLeft) || ebiten.IsKeyPressed(ebiten.KeyQ) {
		turn += g.cfg.World.TurnSpeed
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowRight) || ebiten.IsKeyPressed(ebiten.KeyE) {
		turn -= g.cfg.World.TurnSpeed
	}
	return turn
}

// cursorWorld maps the cursor into world space through the current camera.
func (g *Game) cursorWorld() (fov.Vec2, bool) {
	x, y := ebiten.CursorPosition()
	if x < 0 || y < 0 || x >= g.viewport.Width || y >= g.viewport.Height {
		return fov.Vec2{}, false
	}
	return g.view().ToWorld(float64(x)+0.5, float64(y)+0.5), true
}

// autoWalkVector returns a pseudo-random, collision-aware movement vector.
func (g *Game) autoWalkVector() fov.Vec2 {
	for attempts := 0; attempts < 5; attempts++ {
		if g.autoWalkFrameCount <= 0 {
			g.randomizeAutoWalkDirection()
		}
		step := g.autoWalkDir.Scale(g.cfg.World.MoveSpeed)
		if !g.blocked(g.pos.Add(step)) {
			g.autoWalkFrameCount--
			return step
		}
		g.autoWalkFrameCount = 0
	}
	return fov.Vec2{}
}

// randomizeAutoWalkDirection chooses a new heading for automatic walking.
func (g *Game) randomizeAutoWalkDirection() {
	angle := g.autoWalkRand.Float64() * 2 * math.Pi
	g.autoWalkDir = fov.FromAngle(angle)
	g.autoWalkFrameCount = 20 + g.autoWalkRand.Intn(50)
}

// handleToggles processes the F (FOV), G (gizmo) and P (auto-walk) hotkeys.
func (g *Game) handleToggles() {
	if inpututil.IsKeyJustPressed(ebiten.KeyF) {
		on := !g.renderer.Composite().Enabled()
		g.renderer.SetFOVEnabled(on)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyG) {
		*showGizmoFlag = !*showGizmoFlag
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyP) {
		if g.autoWalk {
			g.autoWalk = false
		} else {
			g.enableAutoWalk(pgoRecordDuration)
		}
	}
}
