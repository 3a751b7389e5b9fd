//go:build !opencl

package raycast

import (
	"errors"

	"fovcone/internal/fov"
)

var errNoOpenCL = errors.New("OpenCL support is not enabled; rebuild with -tags opencl")

// CLGrid falls back to the CPU grid when built without OpenCL.
type CLGrid struct {
	*Grid
}

func NewCLGrid(g *Grid) (*CLGrid, error) {
	return nil, errNoOpenCL
}

func (s *CLGrid) CastRays(fov.Vec2, []fov.Vec2, float64, fov.QueryFilter, []float64) error {
	return errNoOpenCL
}

func (s *CLGrid) Close() {}

func (s *CLGrid) DeviceName() string { return "" }
