// Package level generates the wall grids the demo and the snapshot tool
// walk around in.
package level

import (
	"math"
	"math/rand"
	"time"

	"fovcone/internal/config"
	"fovcone/internal/fov"
	"fovcone/internal/raycast"
)

// Params control wall generation.
type Params struct {
	Segments  int
	MinLen    int
	MaxLen    int
	Thickness int
	// ClearRadius keeps walls away from the spawn point, in cells.
	ClearRadius int
}

// ParamsFrom converts the world section of a config file.
func ParamsFrom(w config.WorldConfig) Params {
	return Params{
		Segments:    w.WallSegments,
		MinLen:      w.WallMinLen,
		MaxLen:      w.WallMaxLen,
		Thickness:   w.WallThickness,
		ClearRadius: 3,
	}
}

// NewGrid builds an empty grid centered on the world origin.
func NewGrid(w config.WorldConfig) *raycast.Grid {
	origin := fov.Vec2{
		X: -float64(w.Columns) * w.CellSize / 2,
		Y: -float64(w.Rows) * w.CellSize / 2,
	}
	return raycast.NewGrid(w.Columns, w.Rows, w.CellSize, origin)
}

// NewRand returns a generator for seed, or a time-based one for seed 0.
func NewRand(seed int64) *rand.Rand {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewSource(seed))
}

// Generate clears g and scatters straight wall segments of random length
// and orientation. A one-cell border stays open so the grid edge, which
// already blocks rays, is not doubled. Cells within ClearRadius of spawn
// stay empty.
func Generate(g *raycast.Grid, p Params, rng *rand.Rand, spawn fov.Vec2) {
	g.Clear()
	w, h := g.Width(), g.Height()
	if w < 4 || h < 4 {
		return
	}
	sx, sy := g.CellAt(spawn)
	for s := 0; s < p.Segments; s++ {
		lengthRange := p.MaxLen - p.MinLen + 1
		if lengthRange <= 0 {
			lengthRange = 1
		}
		length := p.MinLen + rng.Intn(lengthRange)
		thickness := 0
		if p.Thickness > 0 {
			thickness = rng.Intn(p.Thickness + 1)
		}
		horizontal := rng.Intn(2) == 0
		x := rng.Intn(w-4) + 2
		y := rng.Intn(h-4) + 2
		dx, dy := 0, 1
		if horizontal {
			dx, dy = 1, 0
		}
		perpX, perpY := dy, dx
		for l := 0; l < length; l++ {
			if x <= 1 || x >= w-1 || y <= 1 || y >= h-1 {
				break
			}
			for t := -thickness; t <= thickness; t++ {
				setWall(g, x+perpX*t, y+perpY*t, sx, sy, p.ClearRadius)
			}
			x += dx
			y += dy
		}
	}
}

func setWall(g *raycast.Grid, x, y, sx, sy, clear int) {
	if x <= 0 || x >= g.Width()-1 || y <= 0 || y >= g.Height()-1 {
		return
	}
	if math.Hypot(float64(x-sx), float64(y-sy)) <= float64(clear) {
		return
	}
	g.Set(x, y, true)
}

// WallRects returns the world rectangle of every wall cell, for drawing.
func WallRects(g *raycast.Grid) [][4]fov.Vec2 {
	var rects [][4]fov.Vec2
	cells := g.Cells()
	for y := 0; y < g.Height(); y++ {
		for x := 0; x < g.Width(); x++ {
			if !cells[y*g.Width()+x] {
				continue
			}
			lo, hi := g.CellBounds(x, y)
			rects = append(rects, [4]fov.Vec2{
				lo, {X: hi.X, Y: lo.Y}, hi, {X: lo.X, Y: hi.Y},
			})
		}
	}
	return rects
}
