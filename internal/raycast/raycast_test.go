package raycast

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fovcone/internal/fov"
)

func TestShapesNearestHit(t *testing.T) {
	s := NewShapes()
	far := s.AddSegment(fov.Vec2{X: 50, Y: -10}, fov.Vec2{X: 50, Y: 10})
	near := s.AddSegment(fov.Vec2{X: 20, Y: -10}, fov.Vec2{X: 20, Y: 10})

	hit, ok := s.CastRay(fov.Vec2{}, fov.Vec2{X: 1}, 100, fov.QueryFilter{})
	require.True(t, ok)
	assert.Equal(t, near, hit.Entity)
	assert.InDelta(t, 20, hit.Distance, 1e-12)

	hit, ok = s.CastRay(fov.Vec2{}, fov.Vec2{X: 1}, 100, fov.QueryFilter{Exclude: near})
	require.True(t, ok)
	assert.Equal(t, far, hit.Entity)

	_, ok = s.CastRay(fov.Vec2{}, fov.Vec2{X: 1}, 10, fov.QueryFilter{})
	assert.False(t, ok, "hits past maxDistance are ignored")

	_, ok = s.CastRay(fov.Vec2{}, fov.Vec2{X: -1}, 100, fov.QueryFilter{})
	assert.False(t, ok, "segments behind the origin are ignored")

	_, ok = s.CastRay(fov.Vec2{}, fov.Vec2{Y: 1}, 100, fov.QueryFilter{})
	assert.False(t, ok, "parallel rays miss")
}

func TestShapesSegmentEndpoints(t *testing.T) {
	s := NewShapes()
	s.AddSegment(fov.Vec2{X: 10, Y: 0}, fov.Vec2{X: 10, Y: 5})

	_, ok := s.CastRay(fov.Vec2{}, fov.FromAngle(math.Atan2(6, 10)), 100, fov.QueryFilter{})
	assert.False(t, ok)
	hit, ok := s.CastRay(fov.Vec2{}, fov.FromAngle(math.Atan2(4, 10)), 100, fov.QueryFilter{})
	require.True(t, ok)
	assert.InDelta(t, math.Hypot(10, 4), hit.Distance, 1e-9)
}

func TestShapesCircle(t *testing.T) {
	s := NewShapes()
	id := s.AddCircle(fov.Vec2{X: 30}, 5)

	hit, ok := s.CastRay(fov.Vec2{}, fov.Vec2{X: 1}, 100, fov.QueryFilter{})
	require.True(t, ok)
	assert.InDelta(t, 25, hit.Distance, 1e-12)

	_, ok = s.CastRay(fov.Vec2{X: 40}, fov.Vec2{X: 1}, 100, fov.QueryFilter{})
	assert.False(t, ok, "moving away from the disc")

	hit, ok = s.CastRay(fov.Vec2{X: 31}, fov.Vec2{X: 1}, 100, fov.QueryFilter{})
	require.True(t, ok)
	assert.Zero(t, hit.Distance, "origin inside a solid disc")

	require.True(t, s.MoveCircle(id, fov.Vec2{X: 60}))
	hit, ok = s.CastRay(fov.Vec2{}, fov.Vec2{X: 1}, 100, fov.QueryFilter{})
	require.True(t, ok)
	assert.InDelta(t, 55, hit.Distance, 1e-12)
	assert.False(t, s.MoveCircle(999, fov.Vec2{}))
}

func TestShapesRectAndRemove(t *testing.T) {
	s := NewShapes()
	id := s.AddRect(fov.Vec2{X: 10, Y: -5}, fov.Vec2{X: 20, Y: 5})
	assert.Equal(t, 4, s.Len())

	hit, ok := s.CastRay(fov.Vec2{}, fov.Vec2{X: 1}, 100, fov.QueryFilter{})
	require.True(t, ok)
	assert.Equal(t, id, hit.Entity)
	assert.InDelta(t, 10, hit.Distance, 1e-12)

	s.Remove(id)
	assert.Zero(t, s.Len())
	_, ok = s.CastRay(fov.Vec2{}, fov.Vec2{X: 1}, 100, fov.QueryFilter{})
	assert.False(t, ok)
}

func TestGridCastRay(t *testing.T) {
	g := NewGrid(20, 20, 10, fov.Vec2{})
	g.Set(15, 5, true)

	origin := fov.Vec2{X: 55, Y: 55}
	hit, ok := g.CastRay(origin, fov.Vec2{X: 1}, 500, fov.QueryFilter{})
	require.True(t, ok)
	assert.Equal(t, GridEntity, hit.Entity)
	assert.InDelta(t, 95, hit.Distance, 1e-9)

	_, ok = g.CastRay(origin, fov.Vec2{X: 1}, 90, fov.QueryFilter{})
	assert.False(t, ok)

	// The grid border behaves as a wall.
	hit, ok = g.CastRay(origin, fov.Vec2{X: -1}, 500, fov.QueryFilter{})
	require.True(t, ok)
	assert.InDelta(t, 55, hit.Distance, 1e-9)

	hit, ok = g.CastRay(origin, fov.Vec2{Y: 1}, 500, fov.QueryFilter{})
	require.True(t, ok)
	assert.InDelta(t, 145, hit.Distance, 1e-9)
}

func TestGridDiagonalAndInsideWall(t *testing.T) {
	g := NewGrid(10, 10, 1, fov.Vec2{})
	g.Set(5, 5, true)

	dir := fov.Vec2{X: 1, Y: 1}.Normalize()
	hit, ok := g.CastRay(fov.Vec2{X: 0.5, Y: 0.5}, dir, 100, fov.QueryFilter{})
	require.True(t, ok)
	assert.InDelta(t, 4.5*math.Sqrt2, hit.Distance, 1e-9)

	hit, ok = g.CastRay(fov.Vec2{X: 5.5, Y: 5.5}, dir, 100, fov.QueryFilter{})
	require.True(t, ok)
	assert.Zero(t, hit.Distance)
}

func TestGridVersion(t *testing.T) {
	g := NewGrid(4, 4, 1, fov.Vec2{X: -2, Y: -2})
	v := g.Version()
	g.Set(1, 1, true)
	g.Set(1, 1, true)
	assert.Equal(t, v+1, g.Version())
	g.Set(9, 9, true)
	assert.Equal(t, v+1, g.Version())

	x, y := g.CellAt(fov.Vec2{X: -1.5, Y: 0.2})
	assert.Equal(t, 0, x)
	assert.Equal(t, 2, y)
	assert.True(t, g.IsWall(-1, 0))

	g.Clear()
	assert.False(t, g.IsWall(1, 1))
}

func TestCLGridUnavailableWithoutTag(t *testing.T) {
	g := NewGrid(4, 4, 1, fov.Vec2{})
	cl, err := NewCLGrid(g)
	if err != nil {
		assert.Nil(t, cl)
		return
	}
	defer cl.Close()
	dirs := []fov.Vec2{{X: 1}, {Y: 1}}
	dist := make([]float64, 2)
	require.NoError(t, cl.CastRays(fov.Vec2{X: 0.5, Y: 0.5}, dirs, 100, fov.QueryFilter{}, dist))
	assert.InDelta(t, 3.5, dist[0], 1e-4)
	assert.InDelta(t, 3.5, dist[1], 1e-4)
}
