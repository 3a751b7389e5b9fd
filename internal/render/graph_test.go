package render_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fovcone/internal/render"
)

type traceNode struct {
	name string
	log  *[]string
}

func (n traceNode) PrepareFrame(*render.World) { *n.log = append(*n.log, "prepare "+n.name) }

func (n traceNode) RecordCommands(*render.FrameContext) error {
	*n.log = append(*n.log, "record "+n.name)
	return nil
}

func TestGraphOrderFollowsEdges(t *testing.T) {
	g := render.NewGraph("core_2d")
	for _, name := range []string{
		render.NodeEndMainPassPostProcessing,
		render.NodeFOV,
		render.NodeTonemapping,
		render.NodeMainPass,
	} {
		require.NoError(t, g.AddNode(name, render.EmptyNode{}))
	}
	require.NoError(t, g.AddEdges(render.NodeMainPass, render.NodeTonemapping, render.NodeFOV, render.NodeEndMainPassPostProcessing))

	order, err := g.Order()
	require.NoError(t, err)
	assert.Equal(t, []string{
		render.NodeMainPass,
		render.NodeTonemapping,
		render.NodeFOV,
		render.NodeEndMainPassPostProcessing,
	}, order)
}

func TestGraphOrderIsStableWithoutEdges(t *testing.T) {
	g := render.NewGraph("g")
	for _, name := range []string{"c", "a", "b"} {
		require.NoError(t, g.AddNode(name, render.EmptyNode{}))
	}
	require.NoError(t, g.AddEdges("b", "c"))

	order, err := g.Order()
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, order)
}

func TestGraphErrors(t *testing.T) {
	g := render.NewGraph("g")
	require.NoError(t, g.AddNode("a", render.EmptyNode{}))
	require.NoError(t, g.AddNode("b", render.EmptyNode{}))

	assert.ErrorIs(t, g.AddNode("a", render.EmptyNode{}), render.ErrDuplicateNode)
	assert.ErrorIs(t, g.AddEdges("a", "missing"), render.ErrUnknownNode)

	require.NoError(t, g.AddEdges("a", "b"))
	require.NoError(t, g.AddEdges("b", "a"))
	_, err := g.Order()
	assert.ErrorIs(t, err, render.ErrGraphCycle)
	assert.ErrorIs(t, g.Run(&render.FrameContext{World: render.NewWorld()}), render.ErrGraphCycle)
}

func TestGraphRunPreparesBeforeRecording(t *testing.T) {
	var log []string
	g := render.NewGraph("g")
	require.NoError(t, g.AddNode("first", traceNode{"first", &log}))
	require.NoError(t, g.AddNode("second", traceNode{"second", &log}))
	require.NoError(t, g.AddEdges("first", "second"))

	require.NoError(t, g.Run(&render.FrameContext{World: render.NewWorld()}))
	assert.Equal(t, []string{"prepare first", "prepare second", "record first", "record second"}, log)
}
