package render

import (
	"fmt"

	"fovcone/internal/fov"
	"fovcone/internal/shader"
)

// RenderPipelineDescriptor describes a full-screen pipeline: a vertex stage
// that emits one covering triangle and a fragment stage from a shader
// program.
type RenderPipelineDescriptor struct {
	Label         string
	Layouts       []*BindGroupLayout
	Shader        string
	VertexEntry   string
	FragmentEntry string
	TargetFormat  TextureFormat
}

// CachedPipelineID identifies a queued pipeline.
type CachedPipelineID int

// PipelineState is the compilation state of a cached pipeline.
type PipelineState uint8

const (
	PipelineQueued PipelineState = iota
	PipelineReady
	PipelineFailed
)

func (s PipelineState) String() string {
	switch s {
	case PipelineQueued:
		return "queued"
	case PipelineReady:
		return "ready"
	case PipelineFailed:
		return "failed"
	}
	return fmt.Sprintf("PipelineState(%d)", uint8(s))
}

type cachedPipeline struct {
	desc     RenderPipelineDescriptor
	state    PipelineState
	pipeline RenderPipeline
	err      error
}

// PipelineCache compiles pipelines lazily. Queue returns immediately; the
// pipeline becomes available after the next Process call, so the first
// frames after startup may find it not ready.
type PipelineCache struct {
	entries []*cachedPipeline
}

// NewPipelineCache returns an empty cache.
func NewPipelineCache() *PipelineCache { return &PipelineCache{} }

// Queue records desc for compilation.
func (c *PipelineCache) Queue(desc RenderPipelineDescriptor) CachedPipelineID {
	c.entries = append(c.entries, &cachedPipeline{desc: desc})
	return CachedPipelineID(len(c.entries) - 1)
}

// Process compiles every queued pipeline on d. Failures are kept on the
// entry and logged; they are not retried.
func (c *PipelineCache) Process(d Device) {
	for id, e := range c.entries {
		if e.state != PipelineQueued {
			continue
		}
		p, err := compile(d, e.desc)
		if err != nil {
			e.state = PipelineFailed
			e.err = err
			fov.Logger().Error("pipeline compile failed", "id", id, "label", e.desc.Label, "err", err)
			continue
		}
		e.state = PipelineReady
		e.pipeline = p
		fov.Logger().Debug("pipeline ready", "id", id, "label", e.desc.Label)
	}
}

func compile(d Device, desc RenderPipelineDescriptor) (RenderPipeline, error) {
	program, err := shader.Load(desc.Shader)
	if err != nil {
		return nil, err
	}
	if program.Inputs != len(desc.Layouts) {
		return nil, fmt.Errorf("%w: program %s samples %d inputs, pipeline %s has %d layouts",
			ErrLayoutMismatch, program.Name, program.Inputs, desc.Label, len(desc.Layouts))
	}
	if desc.VertexEntry != "" && desc.VertexEntry != shader.VertexEntry {
		return nil, fmt.Errorf("program %s has no vertex entry %q", program.Name, desc.VertexEntry)
	}
	if desc.FragmentEntry != "" && desc.FragmentEntry != shader.FragmentEntry {
		return nil, fmt.Errorf("program %s has no fragment entry %q", program.Name, desc.FragmentEntry)
	}
	return d.CreateRenderPipeline(desc, program)
}

// RenderPipeline returns the compiled pipeline for id once it is ready.
func (c *PipelineCache) RenderPipeline(id CachedPipelineID) (RenderPipeline, bool) {
	if int(id) < 0 || int(id) >= len(c.entries) {
		return nil, false
	}
	e := c.entries[id]
	if e.state != PipelineReady {
		return nil, false
	}
	return e.pipeline, true
}

// State reports the state of id and the compile error of a failed entry.
func (c *PipelineCache) State(id CachedPipelineID) (PipelineState, error) {
	if int(id) < 0 || int(id) >= len(c.entries) {
		return PipelineFailed, fmt.Errorf("unknown pipeline id %d", id)
	}
	e := c.entries[id]
	return e.state, e.err
}
