package fov

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type poseSource struct {
	pose Pose
	ok   bool
}

func (p *poseSource) ActorPose() (Pose, bool) { return p.pose, p.ok }

type memStore struct {
	next     EntityID
	entities map[EntityID]*Entity
}

func newMemStore() *memStore { return &memStore{entities: map[EntityID]*Entity{}} }

func (s *memStore) Spawn(e Entity) EntityID {
	s.next++
	s.entities[s.next] = &e
	return s.next
}

func (s *memStore) SetTranslation(id EntityID, t Vec2) bool {
	e, ok := s.entities[id]
	if ok {
		e.Translation = t
	}
	return ok
}

func (s *memStore) Despawn(id EntityID) { delete(s.entities, id) }

func newTestUpdater(t *testing.T, poses PoseProvider, store EntityStore) *Updater {
	t.Helper()
	cfg := Config{HalfAngle: 1.2, MaxDistance: 500, SampleCount: 32, ClearIntensity: 0.8}
	u, err := NewUpdater(cfg, openCaster(), poses, store)
	require.NoError(t, err)
	return u
}

func TestUpdaterSetupWaitsForActor(t *testing.T) {
	poses := &poseSource{}
	store := newMemStore()
	u := newTestUpdater(t, poses, store)

	assert.False(t, u.Setup())
	assert.Empty(t, store.entities)
	assert.False(t, u.Update(), "update before setup must be a no-op")
	assert.Zero(t, u.Mesh().Version())

	poses.pose = Pose{Entity: 9, Position: Vec2{10, 20}}
	poses.ok = true
	require.True(t, u.Setup())
	require.Len(t, store.entities, 1)

	e := store.entities[u.Entity()]
	assert.Equal(t, CaptureLayer, e.Layer)
	assert.Same(t, u.Mesh(), e.Mesh)
	assert.Equal(t, Vec2{10, 20}, e.Translation)
	assert.Equal(t, uint8(0xff), e.Color.R)

	assert.True(t, u.Setup(), "second setup is idempotent")
	assert.Len(t, store.entities, 1)
}

func TestUpdaterRewritesMeshInPlace(t *testing.T) {
	poses := &poseSource{pose: Pose{Entity: 1}, ok: true}
	store := newMemStore()
	u := newTestUpdater(t, poses, store)
	require.True(t, u.Setup())

	mesh := u.Mesh()
	id := u.Entity()
	v := mesh.Version()

	poses.pose.Position = Vec2{-4, 8}
	require.True(t, u.Update())
	assert.Same(t, mesh, u.Mesh())
	assert.Equal(t, id, u.Entity())
	assert.Equal(t, v+1, mesh.Version())
	assert.Equal(t, Vec2{-4, 8}, store.entities[id].Translation)

	poses.ok = false
	assert.False(t, u.Update())
	assert.Equal(t, v+1, mesh.Version(), "missing actor leaves the mesh untouched")
	assert.Equal(t, Vec2{-4, 8}, store.entities[id].Translation)
}

func TestUpdaterTeardown(t *testing.T) {
	poses := &poseSource{ok: true}
	store := newMemStore()
	u := newTestUpdater(t, poses, store)
	require.True(t, u.Setup())

	u.Teardown()
	assert.Empty(t, store.entities)
	assert.Equal(t, NoEntity, u.Entity())
	assert.False(t, u.Update())
}

func TestUpdaterForgetsVanishedEntity(t *testing.T) {
	poses := &poseSource{ok: true}
	store := newMemStore()
	u := newTestUpdater(t, poses, store)
	require.True(t, u.Setup())

	store.Despawn(u.Entity())
	assert.False(t, u.Update())
	assert.Equal(t, NoEntity, u.Entity())
	assert.True(t, u.Setup())
}

func TestNewUpdaterRejectsInvalidConfig(t *testing.T) {
	_, err := NewUpdater(Config{SampleCount: 1, MaxDistance: 1, HalfAngle: 1}, openCaster(), &poseSource{}, newMemStore())
	require.ErrorIs(t, err, ErrInvalidConfig)
}
