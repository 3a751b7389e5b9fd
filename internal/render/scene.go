package render

import (
	"image/color"

	"fovcone/internal/fov"
)

// Layers is a render-layer bit set. A camera draws an entity when their
// layers intersect.
type Layers uint32

// DefaultLayers is layer 0, the layer of the main camera.
const DefaultLayers Layers = 1

// Layer returns the set containing only layer n.
func Layer(n int) Layers { return 1 << uint(n) }

// Intersects reports whether l and o share a layer.
func (l Layers) Intersects(o Layers) bool { return l&o != 0 }

// CaptureLayers is the layer set of the FOV capture camera.
var CaptureLayers = Layer(fov.CaptureLayer)

// SceneEntity is a drawable mesh in world space.
type SceneEntity struct {
	ID          fov.EntityID
	Name        string
	Mesh        *fov.Mesh
	Color       color.RGBA
	Layers      Layers
	Translation fov.Vec2
}

// Scene is the set of mesh entities cameras draw. It implements
// fov.EntityStore.
type Scene struct {
	entities []*SceneEntity
	next     fov.EntityID
}

// NewScene returns an empty scene.
func NewScene() *Scene { return &Scene{} }

// Spawn adds e and returns its id.
func (s *Scene) Spawn(e fov.Entity) fov.EntityID {
	s.next++
	layers := DefaultLayers
	if e.Layer != 0 {
		layers = Layer(e.Layer)
	}
	s.entities = append(s.entities, &SceneEntity{
		ID:          s.next,
		Name:        e.Name,
		Mesh:        e.Mesh,
		Color:       e.Color,
		Layers:      layers,
		Translation: e.Translation,
	})
	return s.next
}

// SetTranslation moves id. It reports false when id is not in the scene.
func (s *Scene) SetTranslation(id fov.EntityID, t fov.Vec2) bool {
	e := s.Get(id)
	if e == nil {
		return false
	}
	e.Translation = t
	return true
}

// Despawn removes id if present.
func (s *Scene) Despawn(id fov.EntityID) {
	for i, e := range s.entities {
		if e.ID == id {
			s.entities = append(s.entities[:i], s.entities[i+1:]...)
			return
		}
	}
}

// Get returns the entity with id or nil.
func (s *Scene) Get(id fov.EntityID) *SceneEntity {
	for _, e := range s.entities {
		if e.ID == id {
			return e
		}
	}
	return nil
}

// Len returns the number of entities.
func (s *Scene) Len() int { return len(s.entities) }

// Each calls fn for every entity whose layers intersect layers, in spawn
// order.
func (s *Scene) Each(layers Layers, fn func(*SceneEntity)) {
	for _, e := range s.entities {
		if e.Layers.Intersects(layers) {
			fn(e)
		}
	}
}

// TextureRegistry maps logical names to textures so that consumers can find
// a texture without holding the producer.
type TextureRegistry struct {
	textures map[string]Texture
}

// NewTextureRegistry returns an empty registry.
func NewTextureRegistry() *TextureRegistry {
	return &TextureRegistry{textures: make(map[string]Texture)}
}

func (r *TextureRegistry) Register(name string, t Texture) { r.textures[name] = t }

func (r *TextureRegistry) Unregister(name string) { delete(r.textures, name) }

func (r *TextureRegistry) Get(name string) (Texture, bool) {
	t, ok := r.textures[name]
	return t, ok
}
