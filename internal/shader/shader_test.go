package shader

import (
	"bytes"
	"image/color"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFOV(t *testing.T) {
	p, err := Load(FOV)
	require.NoError(t, err)
	assert.Equal(t, 2, p.Inputs)
	assert.True(t, bytes.HasPrefix(p.Kage, []byte("//kage:unit pixels")))
	assert.True(t, strings.Contains(p.WGSL, "fn "+FragmentEntry))
	assert.True(t, strings.Contains(p.WGSL, "fn "+VertexEntry))
	assert.Equal(t, []string{FOV}, Names())

	_, err = Load("shaders/missing")
	assert.ErrorIs(t, err, ErrUnknownProgram)
}

func TestCompositeFullMaskPassesThrough(t *testing.T) {
	white := color.RGBA{255, 255, 255, 255}
	for _, scene := range []color.RGBA{
		{0, 0, 0, 255},
		{12, 200, 99, 255},
		{255, 255, 255, 255},
		{30, 40, 80, 128},
	} {
		assert.Equal(t, scene, Composite(scene, white))
	}
}

func TestCompositeBaselineDarkens(t *testing.T) {
	baseline := color.RGBA{204, 204, 204, 255} // 0.8 grey
	scene := color.RGBA{200, 100, 50, 255}
	got := Composite(scene, baseline)
	assert.Equal(t, color.RGBA{160, 80, 40, 255}, got)
	assert.Equal(t, color.RGBA{0, 0, 0, 255}, Composite(scene, color.RGBA{A: 255}))
}

func TestCompositeMonotonic(t *testing.T) {
	scene := color.RGBA{250, 180, 90, 255}
	prev := color.RGBA{}
	for v := 0; v <= 255; v++ {
		got := Composite(scene, color.RGBA{uint8(v), uint8(v), uint8(v), 255})
		assert.GreaterOrEqual(t, got.R, prev.R)
		assert.GreaterOrEqual(t, got.G, prev.G)
		assert.GreaterOrEqual(t, got.B, prev.B)
		prev = got
	}
	assert.Equal(t, scene, prev)
}

func TestCompileSPIRV(t *testing.T) {
	words, err := CompileSPIRV(FOV)
	require.NoError(t, err)
	require.NotEmpty(t, words)
	assert.Equal(t, uint32(0x07230203), words[0], "SPIR-V magic number")

	_, err = CompileSPIRV("nope")
	assert.ErrorIs(t, err, ErrUnknownProgram)
}
