package render

import (
	"errors"
	"fmt"
)

// Node names of the main 2D graph.
const (
	NodeMainPass                  = "main_pass"
	NodeTonemapping               = "tonemapping"
	NodeFOV                       = "fov_render"
	NodeEndMainPassPostProcessing = "end_main_pass_post_processing"
)

var (
	ErrDuplicateNode = errors.New("duplicate render node")
	ErrUnknownNode   = errors.New("unknown render node")
	ErrGraphCycle    = errors.New("render graph has a cycle")
)

// World is the render-side state shared by nodes.
type World struct {
	Pipelines *PipelineCache
	Textures  *TextureRegistry
	Scene     *Scene
}

// NewWorld returns a world with empty caches.
func NewWorld() *World {
	return &World{
		Pipelines: NewPipelineCache(),
		Textures:  NewTextureRegistry(),
		Scene:     NewScene(),
	}
}

// FrameContext is what a node sees while recording.
type FrameContext struct {
	Device Device
	World  *World
	Target *ViewTarget
	View   View
	Frame  uint64
}

// Node is one step of a render graph. PrepareFrame resolves world resources
// and runs for every node before any node records.
type Node interface {
	PrepareFrame(w *World)
	RecordCommands(ctx *FrameContext) error
}

// EmptyNode is an ordering marker that records nothing.
type EmptyNode struct{}

func (EmptyNode) PrepareFrame(*World)                {}
func (EmptyNode) RecordCommands(*FrameContext) error { return nil }

// Graph is a set of named nodes with ordering edges.
type Graph struct {
	name   string
	names  []string
	nodes  map[string]Node
	edges  map[string][]string
	order  []string
	sorted bool
}

// NewGraph returns an empty graph.
func NewGraph(name string) *Graph {
	return &Graph{
		name:  name,
		nodes: make(map[string]Node),
		edges: make(map[string][]string),
	}
}

func (g *Graph) Name() string { return g.name }

// AddNode registers n under name.
func (g *Graph) AddNode(name string, n Node) error {
	if _, ok := g.nodes[name]; ok {
		return fmt.Errorf("%w: %s in %s", ErrDuplicateNode, name, g.name)
	}
	g.nodes[name] = n
	g.names = append(g.names, name)
	g.sorted = false
	return nil
}

// Node returns the node registered under name.
func (g *Graph) Node(name string) (Node, bool) {
	n, ok := g.nodes[name]
	return n, ok
}

// AddEdges adds an edge between each consecutive pair of names, so
// AddEdges(a, b, c) orders a before b before c.
func (g *Graph) AddEdges(names ...string) error {
	for _, n := range names {
		if _, ok := g.nodes[n]; !ok {
			return fmt.Errorf("%w: %s in %s", ErrUnknownNode, n, g.name)
		}
	}
	for i := 0; i+1 < len(names); i++ {
		from, to := names[i], names[i+1]
		if !contains(g.edges[from], to) {
			g.edges[from] = append(g.edges[from], to)
		}
	}
	g.sorted = false
	return nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// Order returns the execution order: a topological sort that keeps
// registration order among unconstrained nodes.
func (g *Graph) Order() ([]string, error) {
	if g.sorted {
		return g.order, nil
	}
	indegree := make(map[string]int, len(g.names))
	for _, from := range g.names {
		for _, to := range g.edges[from] {
			indegree[to]++
		}
	}
	done := make(map[string]bool, len(g.names))
	order := make([]string, 0, len(g.names))
	for len(order) < len(g.names) {
		progressed := false
		for _, n := range g.names {
			if done[n] || indegree[n] > 0 {
				continue
			}
			done[n] = true
			order = append(order, n)
			for _, to := range g.edges[n] {
				indegree[to]--
			}
			progressed = true
			break
		}
		if !progressed {
			return nil, fmt.Errorf("%w: %s", ErrGraphCycle, g.name)
		}
	}
	g.order = order
	g.sorted = true
	return order, nil
}

// Run prepares every node, then records them in order. The first recording
// error stops the frame.
func (g *Graph) Run(ctx *FrameContext) error {
	order, err := g.Order()
	if err != nil {
		return err
	}
	for _, name := range order {
		g.nodes[name].PrepareFrame(ctx.World)
	}
	for _, name := range order {
		if err := g.nodes[name].RecordCommands(ctx); err != nil {
			return fmt.Errorf("%s/%s: %w", g.name, name, err)
		}
	}
	return nil
}
