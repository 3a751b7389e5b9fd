package fov_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fovcone/internal/fov"
	"fovcone/internal/raycast"
)

func scenarioConfig() fov.Config {
	return fov.Config{HalfAngle: 1.2, MaxDistance: 500, SampleCount: 1000, ClearIntensity: 0.8}
}

func TestScenarioEmptyScene(t *testing.T) {
	b, err := fov.NewRimBuilder(scenarioConfig(), raycast.NewShapes())
	require.NoError(t, err)

	rim := b.Build(fov.Pose{})
	require.Len(t, rim, 1001)
	for i, p := range rim {
		assert.InDelta(t, 500, p.Len(), 1e-9, "rim %d", i)
	}
	assert.InDelta(t, 1.2, rim[0].Angle(), 1e-9)
	assert.InDelta(t, -1.2, rim[len(rim)-1].Angle(), 1e-9)
}

func TestScenarioWallAhead(t *testing.T) {
	world := raycast.NewShapes()
	world.AddLine(fov.Vec2{X: 100, Y: 0}, fov.Vec2{X: 0, Y: 1})

	b, err := fov.NewRimBuilder(scenarioConfig(), world)
	require.NoError(t, err)
	rim := b.Build(fov.Pose{})

	// Ray 500 of 1000 points straight ahead.
	assert.InDelta(t, 100, rim[500].Len(), 1e-6)
	for i, p := range rim {
		a := p.Angle()
		want := 100 / math.Cos(a)
		if want > 500 {
			want = 500
		}
		assert.InDelta(t, want, p.Len(), 1e-6, "rim %d", i)
	}
}

func TestScenarioFiniteWallAhead(t *testing.T) {
	world := raycast.NewShapes()
	world.AddSegment(fov.Vec2{X: 100, Y: -20}, fov.Vec2{X: 100, Y: 20})

	b, err := fov.NewRimBuilder(scenarioConfig(), world)
	require.NoError(t, err)
	rim := b.Build(fov.Pose{})

	assert.InDelta(t, 100, rim[500].Len(), 1e-6)
	hits, misses := 0, 0
	for i, p := range rim {
		if math.Abs(math.Tan(p.Angle())) < 0.2-1e-9 {
			hits++
			assert.Less(t, p.Len(), 500.0, "rim %d", i)
		} else if math.Abs(math.Tan(p.Angle())) > 0.2+1e-9 {
			misses++
			assert.InDelta(t, 500, p.Len(), 1e-9, "rim %d", i)
		}
	}
	assert.Positive(t, hits)
	assert.Positive(t, misses)
	assert.InDelta(t, 500, rim[0].Len(), 1e-9)
	assert.InDelta(t, 500, rim[1000].Len(), 1e-9)
}

func TestScenarioIgnoresOwnCollider(t *testing.T) {
	world := raycast.NewShapes()
	self := world.AddCircle(fov.Vec2{}, 15)
	b, err := fov.NewRimBuilder(scenarioConfig(), world)
	require.NoError(t, err)

	for _, p := range b.Build(fov.Pose{Entity: self}) {
		assert.InDelta(t, 500, p.Len(), 1e-9)
	}
	for _, p := range b.Build(fov.Pose{}) {
		assert.InDelta(t, 0, p.Len(), 1e-9, "a foreign disc around the origin blocks every ray")
	}
}
