package fov

import (
	"image/color"
	"log/slog"
)

// CaptureLayer is the render layer seen only by the offscreen capture camera.
const CaptureLayer = 1

// Entity describes a renderable mesh handed to an EntityStore.
type Entity struct {
	Name        string
	Mesh        *Mesh
	Color       color.RGBA
	Layer       int
	Translation Vec2
}

// EntityStore owns render entities. The render scene implements it.
type EntityStore interface {
	Spawn(e Entity) EntityID
	SetTranslation(id EntityID, t Vec2) bool
	Despawn(id EntityID)
}

// Updater keeps the visibility polygon in sync with the actor. Setup spawns
// the render entity once; Update rewrites the same mesh every frame.
type Updater struct {
	builder *RimBuilder
	poses   PoseProvider
	store   EntityStore

	mesh   *Mesh
	entity EntityID
}

// NewUpdater validates cfg and wires the collaborators.
func NewUpdater(cfg Config, caster Raycaster, poses PoseProvider, store EntityStore) (*Updater, error) {
	b, err := NewRimBuilder(cfg, caster)
	if err != nil {
		return nil, err
	}
	return &Updater{
		builder: b,
		poses:   poses,
		store:   store,
		mesh:    NewMesh(cfg.SampleCount),
	}, nil
}

// Mesh returns the polygon owned by u. Its identity never changes.
func (u *Updater) Mesh() *Mesh { return u.mesh }

// Entity returns the spawned entity or NoEntity before Setup succeeds.
func (u *Updater) Entity() EntityID { return u.entity }

// Setup builds the first polygon and spawns its entity. It reports false
// when no actor exists yet; it is safe to call again later.
func (u *Updater) Setup() bool {
	if u.entity != NoEntity {
		return true
	}
	pose, ok := u.poses.ActorPose()
	if !ok {
		Logger().Debug("fov setup deferred: no actor")
		return false
	}
	u.mesh.Rebuild(u.builder.Build(pose))
	u.entity = u.store.Spawn(Entity{
		Name:        "fov",
		Mesh:        u.mesh,
		Color:       color.RGBA{0xff, 0xff, 0xff, 0xff},
		Layer:       CaptureLayer,
		Translation: pose.Position,
	})
	Logger().Info("fov mesh spawned",
		slog.Int("entity", int(u.entity)),
		slog.Int("vertices", u.mesh.VertexCount()),
		slog.Int("triangles", u.mesh.TriangleCount()))
	return true
}

// Update re-samples the cone for the current pose. It reports whether the
// mesh was rewritten; a missing actor or a missing entity skips the frame.
func (u *Updater) Update() bool {
	if u.entity == NoEntity {
		return false
	}
	pose, ok := u.poses.ActorPose()
	if !ok {
		Logger().Debug("fov update skipped: no actor")
		return false
	}
	u.mesh.Rebuild(u.builder.Build(pose))
	if !u.store.SetTranslation(u.entity, pose.Position) {
		Logger().Debug("fov entity vanished", slog.Int("entity", int(u.entity)))
		u.entity = NoEntity
		return false
	}
	return true
}

// Teardown despawns the entity at scene exit.
func (u *Updater) Teardown() {
	if u.entity == NoEntity {
		return
	}
	u.store.Despawn(u.entity)
	u.entity = NoEntity
}
