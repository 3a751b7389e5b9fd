package main

import (
	"log"
	"math"
	"math/rand"
	"time"

	"fovcone/internal/config"
	"fovcone/internal/fov"
	"fovcone/internal/level"
	"fovcone/internal/raycast"
	"fovcone/internal/render"
	"fovcone/internal/render/ebitenbackend"
)

// actorEntity is the id the actor reports in its pose. Grid walls never use
// it, so the exclusion filter is a no-op here.
const actorEntity fov.EntityID = 1

// Game owns the level, the actor and the FOV renderer.
type Game struct {
	cfg config.Config

	grid   *raycast.Grid
	caster fov.Raycaster
	walls  [][4]fov.Vec2

	pos      fov.Vec2
	rotation float64

	autoWalk           bool
	autoWalkDeadline   time.Time
	autoWalkRand       *rand.Rand
	autoWalkDir        fov.Vec2
	autoWalkFrameCount int

	device   *ebitenbackend.Device
	renderer *render.Renderer
	updater  *fov.Updater
	watcher  render.ViewportWatcher
	viewport render.Extent

	lastUpdate time.Duration
	lastFrame  time.Duration
}

// newGame builds the level and the renderer. The caster must outlive the
// game.
func newGame(cfg config.Config, grid *raycast.Grid, caster fov.Raycaster) (*Game, error) {
	g := &Game{
		cfg:          cfg,
		grid:         grid,
		caster:       caster,
		walls:        level.WallRects(grid),
		autoWalkRand: rand.New(rand.NewSource(time.Now().UnixNano() + 2)),
		device:       ebitenbackend.NewDevice(),
		viewport:     render.Extent{Width: cfg.Window.Width, Height: cfg.Window.Height},
	}
	r, err := render.NewRenderer(g.device, g, render.Options{
		Viewport:       g.viewport,
		ClearIntensity: cfg.FOV.ClearIntensity,
		Background:     render.Gray(cfg.Window.Background),
		Format:         render.FormatRGBA8UnormSrgb,
	})
	if err != nil {
		return nil, err
	}
	g.renderer = r
	u, err := fov.NewUpdater(cfg.FOV, caster, g, r.Scene())
	if err != nil {
		r.Release()
		return nil, err
	}
	g.updater = u
	return g, nil
}

// ActorPose reports the actor for the FOV updater.
func (g *Game) ActorPose() (fov.Pose, bool) {
	return fov.Pose{Entity: actorEntity, Position: g.pos, Rotation: g.rotation}, true
}

// WindowSize reports the size Ebiten last passed to Layout.
func (g *Game) WindowSize() render.Extent { return g.viewport }

// Update moves the actor, reacts to viewport changes and rebuilds the FOV
// polygon.
func (g *Game) Update() error {
	start := time.Now()
	if evt, ok := g.watcher.Observe(g.viewport); ok {
		g.renderer.HandleResize(evt)
	}

	g.handleToggles()
	delta := g.movementVector()
	if delta != (fov.Vec2{}) {
		next := g.pos.Add(delta)
		if !g.blocked(next) {
			g.pos = next
		}
		if !*mouseLookFlag || g.autoWalk {
			g.rotation = delta.Angle()
		}
	}
	g.rotation += g.turnInput()
	if *mouseLookFlag && !g.autoWalk {
		if target, ok := g.cursorWorld(); ok && target != g.pos {
			g.rotation = turnToward(g.rotation, target.Sub(g.pos).Angle(), mouseLookLerp)
		}
	}

	if !g.updater.Setup() {
		return nil
	}
	g.updater.Update()
	g.lastUpdate = time.Since(start)
	return nil
}

// blocked reports whether a disc of actorRadius at p touches a wall cell.
func (g *Game) blocked(p fov.Vec2) bool {
	for _, off := range []fov.Vec2{{}, {X: actorRadius}, {X: -actorRadius}, {Y: actorRadius}, {Y: -actorRadius}} {
		x, y := g.grid.CellAt(p.Add(off))
		if g.grid.IsWall(x, y) {
			return true
		}
	}
	return false
}

// turnToward rotates from by t of the shortest arc to to.
func turnToward(from, to, t float64) float64 {
	d := math.Remainder(to-from, 2*math.Pi)
	return from + d*t
}

// shutdown releases GPU resources and logs why the loop ended.
func (g *Game) shutdown(err error) {
	g.updater.Teardown()
	g.renderer.Release()
	if err != nil {
		log.Printf("game loop ended: %v", err)
	}
}
