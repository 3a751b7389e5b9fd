package fov

import (
	"fmt"
	"log/slog"
)

// RimBuilder samples the cone and returns the rim of the visibility polygon.
// Scratch buffers are reused between frames.
type RimBuilder struct {
	cfg    Config
	caster Raycaster

	dirs []Vec2
	dist []float64
	rim  []Vec2
}

// NewRimBuilder validates cfg and binds it to caster.
func NewRimBuilder(cfg Config, caster Raycaster) (*RimBuilder, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if caster == nil {
		return nil, fmt.Errorf("%w: nil raycaster", ErrInvalidConfig)
	}
	n := cfg.SampleCount + 1
	return &RimBuilder{
		cfg:    cfg,
		caster: caster,
		dirs:   make([]Vec2, n),
		dist:   make([]float64, n),
		rim:    make([]Vec2, n),
	}, nil
}

// Config returns the validated configuration.
func (b *RimBuilder) Config() Config { return b.cfg }

// Directions fills the ray directions for pose. The sweep starts one step
// past +HalfAngle and each ray first rotates back by one step, so ray 0 lies
// on +HalfAngle and ray SampleCount on -HalfAngle.
func (b *RimBuilder) Directions(pose Pose) []Vec2 {
	step := b.cfg.AngleStep()
	start := b.cfg.HalfAngle + step
	for i := range b.dirs {
		b.dirs[i] = FromAngle(pose.Rotation + start - float64(i+1)*step)
	}
	return b.dirs
}

// Build casts every ray from pose and returns the rim in the actor's local
// frame. The returned slice is owned by b and overwritten by the next call.
func (b *RimBuilder) Build(pose Pose) []Vec2 {
	dirs := b.Directions(pose)
	maxDist := b.cfg.MaxDistance
	filter := QueryFilter{Exclude: pose.Entity}

	batched := false
	if bc, ok := b.caster.(BatchRaycaster); ok {
		if err := bc.CastRays(pose.Position, dirs, maxDist, filter, b.dist); err != nil {
			Logger().Warn("batched raycast failed, casting rays one by one", slog.Any("err", err))
		} else {
			batched = true
		}
	}
	if !batched {
		for i, d := range dirs {
			b.dist[i] = maxDist
			if hit, ok := b.caster.CastRay(pose.Position, d, maxDist, filter); ok {
				b.dist[i] = hit.Distance
			}
		}
	}

	for i, d := range dirs {
		b.rim[i] = d.Scale(clampDistance(b.dist[i], maxDist))
	}
	return b.rim
}

func clampDistance(t, maxDist float64) float64 {
	if t < 0 {
		return 0
	}
	if t > maxDist || t != t {
		return maxDist
	}
	return t
}
