package fov

import (
	"errors"
	"fmt"
	"math"
)

// Default cone parameters.
const (
	DefaultHalfAngle      = 1.2
	DefaultMaxDistance    = 500.0
	DefaultSampleCount    = 1000
	DefaultClearIntensity = 0.8
)

// ErrInvalidConfig is wrapped by every Config validation failure.
var ErrInvalidConfig = errors.New("invalid fov config")

// Config holds the cone parameters. It is set once at startup.
type Config struct {
	// HalfAngle is half the cone aperture in radians.
	HalfAngle float64 `yaml:"half_angle"`
	// MaxDistance bounds every ray, in world units.
	MaxDistance float64 `yaml:"max_distance"`
	// SampleCount is the number of angular steps across the cone. The rim
	// has SampleCount+1 points.
	SampleCount int `yaml:"sample_count"`
	// ClearIntensity is the grey level of pixels outside the cone in the
	// capture texture.
	ClearIntensity float64 `yaml:"clear_intensity"`
}

// DefaultConfig returns the stock cone.
func DefaultConfig() Config {
	return Config{
		HalfAngle:      DefaultHalfAngle,
		MaxDistance:    DefaultMaxDistance,
		SampleCount:    DefaultSampleCount,
		ClearIntensity: DefaultClearIntensity,
	}
}

// Validate reports the first constraint c violates.
func (c Config) Validate() error {
	switch {
	case c.SampleCount < 2:
		return fmt.Errorf("%w: sample count %d, need at least 2", ErrInvalidConfig, c.SampleCount)
	case !(c.MaxDistance > 0) || math.IsInf(c.MaxDistance, 0):
		return fmt.Errorf("%w: max distance %v must be positive and finite", ErrInvalidConfig, c.MaxDistance)
	case !(c.HalfAngle > 0 && c.HalfAngle < math.Pi):
		return fmt.Errorf("%w: half angle %v outside (0, pi)", ErrInvalidConfig, c.HalfAngle)
	case !(c.ClearIntensity >= 0 && c.ClearIntensity <= 1):
		return fmt.Errorf("%w: clear intensity %v outside [0, 1]", ErrInvalidConfig, c.ClearIntensity)
	}
	return nil
}

// AngleStep is the angular distance between consecutive rays.
func (c Config) AngleStep() float64 {
	return 2 * c.HalfAngle / float64(c.SampleCount)
}
