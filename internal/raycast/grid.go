package raycast

import (
	"math"

	"fovcone/internal/fov"
)

// GridEntity is reported for every grid wall hit.
const GridEntity fov.EntityID = math.MaxUint32

// Grid is a boolean wall map. Cell (x, y) covers the world square
// [Origin.X + x*CellSize, +CellSize) x [Origin.Y + y*CellSize, +CellSize).
// Cells outside the grid count as walls.
type Grid struct {
	width, height int
	cellSize      float64
	origin        fov.Vec2
	cells         []bool
	version       uint64
}

// NewGrid allocates an empty grid.
func NewGrid(width, height int, cellSize float64, origin fov.Vec2) *Grid {
	return &Grid{
		width:    width,
		height:   height,
		cellSize: cellSize,
		origin:   origin,
		cells:    make([]bool, width*height),
	}
}

func (g *Grid) Width() int        { return g.width }
func (g *Grid) Height() int       { return g.height }
func (g *Grid) CellSize() float64 { return g.cellSize }
func (g *Grid) Origin() fov.Vec2  { return g.origin }
func (g *Grid) Cells() []bool     { return g.cells }
func (g *Grid) Version() uint64   { return g.version }
func (g *Grid) inBounds(x, y int) bool {
	return x >= 0 && x < g.width && y >= 0 && y < g.height
}

// Set marks or clears a wall. Out-of-range cells are ignored.
func (g *Grid) Set(x, y int, wall bool) {
	if !g.inBounds(x, y) {
		return
	}
	idx := y*g.width + x
	if g.cells[idx] != wall {
		g.cells[idx] = wall
		g.version++
	}
}

// Clear removes every wall.
func (g *Grid) Clear() {
	for i := range g.cells {
		g.cells[i] = false
	}
	g.version++
}

// IsWall reports whether the coordinates reference a wall cell.
func (g *Grid) IsWall(x, y int) bool {
	if !g.inBounds(x, y) {
		return true
	}
	return g.cells[y*g.width+x]
}

// CellAt maps a world point to cell coordinates.
func (g *Grid) CellAt(p fov.Vec2) (int, int) {
	return int(math.Floor((p.X - g.origin.X) / g.cellSize)),
		int(math.Floor((p.Y - g.origin.Y) / g.cellSize))
}

// CellBounds returns the world-space corners of a cell.
func (g *Grid) CellBounds(x, y int) (min, max fov.Vec2) {
	min = fov.Vec2{X: g.origin.X + float64(x)*g.cellSize, Y: g.origin.Y + float64(y)*g.cellSize}
	return min, fov.Vec2{X: min.X + g.cellSize, Y: min.Y + g.cellSize}
}

// CastRay walks cells along dir with a DDA until it enters a wall or passes
// maxDistance. The grid has no per-cell entities, so the filter is unused.
func (g *Grid) CastRay(origin, dir fov.Vec2, maxDistance float64, _ fov.QueryFilter) (fov.Hit, bool) {
	px := (origin.X - g.origin.X) / g.cellSize
	py := (origin.Y - g.origin.Y) / g.cellSize
	cx, cy := int(math.Floor(px)), int(math.Floor(py))
	if g.IsWall(cx, cy) {
		return fov.Hit{Entity: GridEntity}, true
	}
	stepX, tMaxX, tDeltaX := ddaAxis(px, dir.X)
	stepY, tMaxY, tDeltaY := ddaAxis(py, dir.Y)
	if stepX == 0 && stepY == 0 {
		return fov.Hit{}, false
	}
	maxT := maxDistance / g.cellSize
	for {
		var t float64
		if tMaxX < tMaxY {
			cx += stepX
			t = tMaxX
			tMaxX += tDeltaX
		} else {
			cy += stepY
			t = tMaxY
			tMaxY += tDeltaY
		}
		if t > maxT {
			return fov.Hit{}, false
		}
		if g.IsWall(cx, cy) {
			return fov.Hit{Entity: GridEntity, Distance: t * g.cellSize}, true
		}
	}
}

// ddaAxis returns the cell step, the ray parameter of the first boundary
// crossing, and the parameter between crossings along one axis.
func ddaAxis(p, d float64) (int, float64, float64) {
	switch {
	case d > 0:
		return 1, (math.Floor(p) + 1 - p) / d, 1 / d
	case d < 0:
		return -1, (p - math.Floor(p)) / -d, -1 / d
	default:
		return 0, math.Inf(1), math.Inf(1)
	}
}
