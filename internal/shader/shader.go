// Package shader holds the compositing program in every form a backend
// needs: Kage for Ebiten, WGSL for WebGPU hosts, and a CPU fragment for
// software rendering.
package shader

import (
	_ "embed"
	"errors"
	"fmt"
	"image/color"
	"math"
	"sort"
)

// FOV is the logical name of the compositing program.
const FOV = "shaders/fov"

// Entry points of the WGSL module.
const (
	VertexEntry   = "fullscreen_vertex"
	FragmentEntry = "fragment"
)

// ErrUnknownProgram is returned for names not in the registry.
var ErrUnknownProgram = errors.New("unknown shader program")

//go:embed shaders/fov.kage
var fovKage []byte

//go:embed shaders/fov.wgsl
var fovWGSL string

// FragmentFunc computes one output pixel from the pixels sampled at the
// same screen position in each bound texture, in bind-group order.
type FragmentFunc func(samples []color.RGBA) color.RGBA

// Program is a shader addressed by logical name.
type Program struct {
	Name string
	Kage []byte
	WGSL string
	// Fragment is the CPU equivalent of the fragment stage.
	Fragment FragmentFunc
	// Inputs is the number of textures the fragment stage samples.
	Inputs int
}

var programs = map[string]Program{
	FOV: {
		Name:     FOV,
		Kage:     fovKage,
		WGSL:     fovWGSL,
		Fragment: compositeFragment,
		Inputs:   2,
	},
}

// Load returns the program registered under name.
func Load(name string) (Program, error) {
	p, ok := programs[name]
	if !ok {
		return Program{}, fmt.Errorf("%w: %q", ErrUnknownProgram, name)
	}
	return p, nil
}

// Names lists the registered programs.
func Names() []string {
	names := make([]string, 0, len(programs))
	for name := range programs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Luma weights match the Kage and WGSL sources.
const (
	lumaR = 0.2126
	lumaG = 0.7152
	lumaB = 0.0722
)

// MaskWeight is the clamped luminance of a mask sample in [0, 1].
func MaskWeight(mask color.RGBA) float64 {
	m := (lumaR*float64(mask.R) + lumaG*float64(mask.G) + lumaB*float64(mask.B)) / 255
	return math.Max(0, math.Min(1, m))
}

// Composite darkens scene by the mask weight. A white mask returns scene
// unchanged; the weight is monotonic in mask brightness.
func Composite(scene, mask color.RGBA) color.RGBA {
	m := MaskWeight(mask)
	scale := func(c uint8) uint8 {
		return uint8(math.Round(float64(c) * m))
	}
	return color.RGBA{R: scale(scene.R), G: scale(scene.G), B: scale(scene.B), A: scene.A}
}

func compositeFragment(samples []color.RGBA) color.RGBA {
	if len(samples) < 2 {
		return color.RGBA{}
	}
	return Composite(samples[0], samples[1])
}
