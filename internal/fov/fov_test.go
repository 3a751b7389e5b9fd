package fov

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fixedCaster reports hits chosen per ray index by the order of calls.
type fixedCaster struct {
	hit   func(i int, dir Vec2) (float64, bool)
	calls int
	seen  []QueryFilter
}

func (c *fixedCaster) CastRay(_, dir Vec2, _ float64, f QueryFilter) (Hit, bool) {
	i := c.calls
	c.calls++
	c.seen = append(c.seen, f)
	t, ok := c.hit(i, dir)
	return Hit{Entity: 7, Distance: t}, ok
}

type batchCaster struct {
	fixedCaster
	err     error
	batches int
}

func (c *batchCaster) CastRays(_ Vec2, dirs []Vec2, maxDistance float64, _ QueryFilter, dist []float64) error {
	c.batches++
	if c.err != nil {
		return c.err
	}
	for i := range dirs {
		dist[i] = maxDistance / 2
	}
	return nil
}

func openCaster() *fixedCaster {
	return &fixedCaster{hit: func(int, Vec2) (float64, bool) { return 0, false }}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name string
		mut  func(*Config)
		ok   bool
	}{
		{"default", func(*Config) {}, true},
		{"two samples", func(c *Config) { c.SampleCount = 2 }, true},
		{"one sample", func(c *Config) { c.SampleCount = 1 }, false},
		{"zero distance", func(c *Config) { c.MaxDistance = 0 }, false},
		{"negative distance", func(c *Config) { c.MaxDistance = -3 }, false},
		{"infinite distance", func(c *Config) { c.MaxDistance = math.Inf(1) }, false},
		{"zero half angle", func(c *Config) { c.HalfAngle = 0 }, false},
		{"half angle pi", func(c *Config) { c.HalfAngle = math.Pi }, false},
		{"nan half angle", func(c *Config) { c.HalfAngle = math.NaN() }, false},
		{"intensity above one", func(c *Config) { c.ClearIntensity = 1.5 }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mut(&cfg)
			err := cfg.Validate()
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, ErrInvalidConfig)
			}
		})
	}
}

func TestNewRimBuilderRejectsInvalidConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.SampleCount = 0
	_, err := NewRimBuilder(cfg, openCaster())
	require.ErrorIs(t, err, ErrInvalidConfig)

	_, err = NewRimBuilder(DefaultConfig(), nil)
	require.ErrorIs(t, err, ErrInvalidConfig)
}

func TestMeshTopology(t *testing.T) {
	for _, n := range []int{2, 3, 32, 1000} {
		cfg := DefaultConfig()
		cfg.SampleCount = n
		b, err := NewRimBuilder(cfg, openCaster())
		require.NoError(t, err)

		rim := b.Build(Pose{})
		require.Len(t, rim, n+1)

		m := NewMesh(n)
		m.Rebuild(rim)
		assert.Equal(t, n+2, m.VertexCount())
		assert.Len(t, m.Normals, n+2)
		assert.Len(t, m.UVs, n+2)
		assert.Equal(t, n-1, m.TriangleCount())
		require.Len(t, m.Indices, 3*(n-1))
		for i, idx := range m.Indices {
			assert.Less(t, idx, uint32(n+2), "index %d", i)
		}
		for tri := 0; tri < m.TriangleCount(); tri++ {
			assert.Equal(t, uint32(0), m.Indices[3*tri], "triangle %d apex", tri)
			assert.Equal(t, m.Indices[3*tri+1]+1, m.Indices[3*tri+2])
		}
		assert.Equal(t, [3]float32{0, 0, 0}, m.Positions[0])
		assert.Equal(t, [3]float32{0, 0, 1}, m.Normals[n+1])
	}
}

func TestMeshRebuildKeepsIdentityAndBumpsVersion(t *testing.T) {
	m := NewMesh(4)
	rim := []Vec2{{1, 0}, {1, 1}, {0, 1}, {-1, 1}, {-1, 0}}
	m.Rebuild(rim)
	first := &m.Positions[0]
	v := m.Version()
	m.Rebuild(rim)
	assert.Equal(t, v+1, m.Version())
	assert.Same(t, first, &m.Positions[0])
}

func TestRimHitDistances(t *testing.T) {
	cfg := Config{HalfAngle: 0.5, MaxDistance: 200, SampleCount: 10, ClearIntensity: 0.8}
	caster := &fixedCaster{hit: func(i int, _ Vec2) (float64, bool) {
		if i%2 == 0 {
			return float64(10 * (i + 1)), true
		}
		return 0, false
	}}
	b, err := NewRimBuilder(cfg, caster)
	require.NoError(t, err)

	pose := Pose{Entity: 3, Position: Vec2{40, -12}, Rotation: 0.3}
	rim := b.Build(pose)
	for i, p := range rim {
		want := cfg.MaxDistance
		if i%2 == 0 {
			want = float64(10 * (i + 1))
		}
		assert.InDelta(t, want, p.Len(), 1e-9, "rim %d", i)
	}
	for _, f := range caster.seen {
		assert.Equal(t, EntityID(3), f.Exclude)
	}
}

func TestRimClampsOutOfRangeHits(t *testing.T) {
	cfg := Config{HalfAngle: 0.5, MaxDistance: 50, SampleCount: 2, ClearIntensity: 0.8}
	caster := &fixedCaster{hit: func(i int, _ Vec2) (float64, bool) {
		return []float64{-1, 80, math.NaN()}[i], true
	}}
	b, err := NewRimBuilder(cfg, caster)
	require.NoError(t, err)
	rim := b.Build(Pose{})
	assert.InDelta(t, 0, rim[0].Len(), 1e-12)
	assert.InDelta(t, 50, rim[1].Len(), 1e-12)
	assert.InDelta(t, 50, rim[2].Len(), 1e-12)
}

func TestRimSweepIsStrictlyDecreasing(t *testing.T) {
	for _, n := range []int{2, 7, 1000} {
		cfg := DefaultConfig()
		cfg.SampleCount = n
		b, err := NewRimBuilder(cfg, openCaster())
		require.NoError(t, err)

		pose := Pose{Position: Vec2{5, 5}, Rotation: 2.5}
		rim := b.Build(pose)
		fwd := pose.Forward()
		prev := math.Inf(1)
		for i, p := range rim {
			a := math.Atan2(fwd.Cross(p), fwd.Dot(p))
			assert.Less(t, a, prev, "n=%d rim %d", n, i)
			prev = a
		}
		first := rim[0]
		last := rim[len(rim)-1]
		assert.InDelta(t, cfg.HalfAngle, math.Atan2(fwd.Cross(first), fwd.Dot(first)), 1e-9)
		assert.InDelta(t, -cfg.HalfAngle, math.Atan2(fwd.Cross(last), fwd.Dot(last)), 1e-9)
	}
}

func TestRimUsesBatchCaster(t *testing.T) {
	cfg := Config{HalfAngle: 1, MaxDistance: 100, SampleCount: 4, ClearIntensity: 0.8}
	c := &batchCaster{fixedCaster: *openCaster()}
	b, err := NewRimBuilder(cfg, c)
	require.NoError(t, err)

	for _, p := range b.Build(Pose{}) {
		assert.InDelta(t, 50, p.Len(), 1e-9)
	}
	assert.Equal(t, 1, c.batches)
	assert.Zero(t, c.calls)
}

func TestRimFallsBackWhenBatchFails(t *testing.T) {
	cfg := Config{HalfAngle: 1, MaxDistance: 100, SampleCount: 4, ClearIntensity: 0.8}
	c := &batchCaster{fixedCaster: *openCaster(), err: errors.New("device lost")}
	b, err := NewRimBuilder(cfg, c)
	require.NoError(t, err)

	for _, p := range b.Build(Pose{}) {
		assert.InDelta(t, 100, p.Len(), 1e-9)
	}
	assert.Equal(t, 5, c.calls)
}

func TestConeRays(t *testing.T) {
	pose := Pose{Position: Vec2{X: 10, Y: 5}, Rotation: math.Pi / 2}
	rays := ConeRays(pose, 1.2, 500)

	assert.InDelta(t, 10, rays[0].X, 1e-9)
	assert.InDelta(t, 505, rays[0].Y, 1e-9)
	for i, end := range rays {
		assert.InDelta(t, 500, end.Sub(pose.Position).Len(), 1e-9, "ray %d", i)
	}
	assert.InDelta(t, math.Pi/2+1.2, rays[1].Sub(pose.Position).Angle(), 1e-9)
	assert.InDelta(t, math.Pi/2-1.2, rays[2].Sub(pose.Position).Angle(), 1e-9)
}
