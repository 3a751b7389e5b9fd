package render

import "fmt"

// BindingType is the kind of resource at a binding slot.
type BindingType uint8

const (
	BindingTexture BindingType = iota
	BindingSampler
)

func (b BindingType) String() string {
	switch b {
	case BindingTexture:
		return "texture"
	case BindingSampler:
		return "sampler"
	}
	return fmt.Sprintf("BindingType(%d)", uint8(b))
}

// ShaderStage is a bit set of pipeline stages.
type ShaderStage uint8

const (
	StageVertex ShaderStage = 1 << iota
	StageFragment
)

// BindGroupLayoutEntry declares one slot of a layout.
type BindGroupLayoutEntry struct {
	Binding    uint32
	Visibility ShaderStage
	Type       BindingType
}

// BindGroupLayout is the static shape of a bind group. Layouts are created
// once and compared by identity.
type BindGroupLayout struct {
	Label   string
	Entries []BindGroupLayoutEntry
}

// NewBindGroupLayout builds a layout.
func NewBindGroupLayout(label string, entries ...BindGroupLayoutEntry) *BindGroupLayout {
	return &BindGroupLayout{Label: label, Entries: entries}
}

// TextureSamplerLayout is a filterable 2D texture at binding 0 and its
// sampler at binding 1, both visible to the fragment stage.
func TextureSamplerLayout(label string) *BindGroupLayout {
	return NewBindGroupLayout(label,
		BindGroupLayoutEntry{Binding: 0, Visibility: StageFragment, Type: BindingTexture},
		BindGroupLayoutEntry{Binding: 1, Visibility: StageFragment, Type: BindingSampler},
	)
}

// BindGroupEntry supplies the resource for one slot. Exactly one of View and
// Sampler is set.
type BindGroupEntry struct {
	Binding uint32
	View    *TextureView
	Sampler *Sampler
}

// BindGroupDescriptor describes a bind group to create.
type BindGroupDescriptor struct {
	Label   string
	Layout  *BindGroupLayout
	Entries []BindGroupEntry
}

// BindGroup is a validated set of resources for one frame.
type BindGroup struct {
	label   string
	layout  *BindGroupLayout
	entries []BindGroupEntry
	frame   uint64
}

// CreateBindGroup checks desc against its layout and against frame: every
// texture view must have been created in frame. Bind groups holding views
// must therefore be rebuilt every frame.
func CreateBindGroup(frame uint64, desc BindGroupDescriptor) (*BindGroup, error) {
	if desc.Layout == nil {
		return nil, fmt.Errorf("%w: %s has no layout", ErrLayoutMismatch, desc.Label)
	}
	if len(desc.Entries) != len(desc.Layout.Entries) {
		return nil, fmt.Errorf("%w: %s has %d entries, layout %s has %d",
			ErrLayoutMismatch, desc.Label, len(desc.Entries), desc.Layout.Label, len(desc.Layout.Entries))
	}
	for _, le := range desc.Layout.Entries {
		e, ok := findEntry(desc.Entries, le.Binding)
		if !ok {
			return nil, fmt.Errorf("%w: %s is missing binding %d", ErrLayoutMismatch, desc.Label, le.Binding)
		}
		switch le.Type {
		case BindingTexture:
			if e.View == nil || e.Sampler != nil || e.View.Texture == nil {
				return nil, fmt.Errorf("%w: %s binding %d wants a texture view", ErrLayoutMismatch, desc.Label, le.Binding)
			}
			if !e.View.Texture.Descriptor().Usage.Has(UsageTextureBinding) {
				return nil, fmt.Errorf("%w: %s binding %d texture %q is not bindable",
					ErrLayoutMismatch, desc.Label, le.Binding, e.View.Texture.Descriptor().Label)
			}
			if e.View.Frame != frame {
				return nil, fmt.Errorf("%w: %s binding %d view from frame %d, current frame %d",
					ErrStaleView, desc.Label, le.Binding, e.View.Frame, frame)
			}
		case BindingSampler:
			if e.Sampler == nil || e.View != nil {
				return nil, fmt.Errorf("%w: %s binding %d wants a sampler", ErrLayoutMismatch, desc.Label, le.Binding)
			}
		}
	}
	return &BindGroup{
		label:   desc.Label,
		layout:  desc.Layout,
		entries: append([]BindGroupEntry(nil), desc.Entries...),
		frame:   frame,
	}, nil
}

func findEntry(entries []BindGroupEntry, binding uint32) (BindGroupEntry, bool) {
	for _, e := range entries {
		if e.Binding == binding {
			return e, true
		}
	}
	return BindGroupEntry{}, false
}

func (g *BindGroup) Label() string            { return g.label }
func (g *BindGroup) Layout() *BindGroupLayout { return g.layout }
func (g *BindGroup) Frame() uint64            { return g.frame }

// Texture returns the texture bound at binding.
func (g *BindGroup) Texture(binding uint32) (Texture, bool) {
	e, ok := findEntry(g.entries, binding)
	if !ok || e.View == nil {
		return nil, false
	}
	return e.View.Texture, true
}

// FirstTexture returns the texture at the lowest texture binding.
func (g *BindGroup) FirstTexture() (Texture, bool) {
	for _, le := range g.layout.Entries {
		if le.Type == BindingTexture {
			return g.Texture(le.Binding)
		}
	}
	return nil, false
}

// ValidateDraw checks that groups satisfy every layout of p for a draw in
// frame.
func ValidateDraw(frame uint64, p RenderPipeline, groups []*BindGroup) error {
	if p == nil {
		return fmt.Errorf("draw without a pipeline")
	}
	desc := p.Descriptor()
	for i, layout := range desc.Layouts {
		if i >= len(groups) || groups[i] == nil {
			return fmt.Errorf("%w: %s: bind group %d not set", ErrLayoutMismatch, desc.Label, i)
		}
		if groups[i].layout != layout {
			return fmt.Errorf("%w: %s: bind group %d (%s) built for layout %s, pipeline wants %s",
				ErrLayoutMismatch, desc.Label, i, groups[i].label, groups[i].layout.Label, layout.Label)
		}
		if groups[i].frame != frame {
			return fmt.Errorf("%w: %s: bind group %d from frame %d", ErrStaleView, desc.Label, i, groups[i].frame)
		}
	}
	return nil
}
