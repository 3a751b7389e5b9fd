// Package raycast implements the ray query service the FOV core consumes:
// an analytic shape world, a boolean cell grid, and an OpenCL batched grid.
package raycast

import (
	"math"

	"fovcone/internal/fov"
)

// parallelEpsilon rejects rays nearly parallel to a segment or line.
const parallelEpsilon = 1e-10

type shapeKind uint8

const (
	kindSegment shapeKind = iota
	kindLine
	kindCircle
)

// collider is one solid shape owned by an entity. Segments and lines use a,b
// as endpoints or as a point and direction; circles use a as center.
type collider struct {
	entity fov.EntityID
	kind   shapeKind
	a, b   fov.Vec2
	radius float64
}

// Shapes is a small collision world of segments, infinite lines and circles.
// Directions passed to CastRay must be unit length.
type Shapes struct {
	colliders []collider
	next      fov.EntityID
}

// NewShapes returns an empty world.
func NewShapes() *Shapes {
	return &Shapes{}
}

func (s *Shapes) newEntity() fov.EntityID {
	s.next++
	return s.next
}

// AddSegment adds a wall from a to b.
func (s *Shapes) AddSegment(a, b fov.Vec2) fov.EntityID {
	id := s.newEntity()
	s.colliders = append(s.colliders, collider{entity: id, kind: kindSegment, a: a, b: b})
	return id
}

// AddLine adds an infinite wall through p along dir.
func (s *Shapes) AddLine(p, dir fov.Vec2) fov.EntityID {
	id := s.newEntity()
	s.colliders = append(s.colliders, collider{entity: id, kind: kindLine, a: p, b: dir})
	return id
}

// AddRect adds the four edges of an axis-aligned box as one entity.
func (s *Shapes) AddRect(min, max fov.Vec2) fov.EntityID {
	id := s.newEntity()
	corners := [4]fov.Vec2{min, {X: max.X, Y: min.Y}, max, {X: min.X, Y: max.Y}}
	for i := range corners {
		s.colliders = append(s.colliders, collider{
			entity: id,
			kind:   kindSegment,
			a:      corners[i],
			b:      corners[(i+1)%len(corners)],
		})
	}
	return id
}

// AddCircle adds a solid disc, typically a character's collider.
func (s *Shapes) AddCircle(center fov.Vec2, radius float64) fov.EntityID {
	id := s.newEntity()
	s.colliders = append(s.colliders, collider{entity: id, kind: kindCircle, a: center, radius: radius})
	return id
}

// MoveCircle recenters the circle owned by id.
func (s *Shapes) MoveCircle(id fov.EntityID, center fov.Vec2) bool {
	for i := range s.colliders {
		if s.colliders[i].entity == id && s.colliders[i].kind == kindCircle {
			s.colliders[i].a = center
			return true
		}
	}
	return false
}

// Remove drops every collider owned by id.
func (s *Shapes) Remove(id fov.EntityID) {
	kept := s.colliders[:0]
	for _, c := range s.colliders {
		if c.entity != id {
			kept = append(kept, c)
		}
	}
	s.colliders = kept
}

// Len reports the number of primitive colliders.
func (s *Shapes) Len() int { return len(s.colliders) }

// CastRay returns the nearest collider hit within maxDistance.
func (s *Shapes) CastRay(origin, dir fov.Vec2, maxDistance float64, filter fov.QueryFilter) (fov.Hit, bool) {
	best := fov.Hit{Distance: math.Inf(1)}
	found := false
	for i := range s.colliders {
		c := &s.colliders[i]
		if filter.Exclude != fov.NoEntity && c.entity == filter.Exclude {
			continue
		}
		var (
			t  float64
			ok bool
		)
		switch c.kind {
		case kindSegment:
			t, ok = raySegment(origin, dir, c.a, c.b, false)
		case kindLine:
			t, ok = raySegment(origin, dir, c.a, c.a.Add(c.b), true)
		case kindCircle:
			t, ok = rayCircle(origin, dir, c.a, c.radius)
		}
		if ok && t <= maxDistance && t < best.Distance {
			best = fov.Hit{Entity: c.entity, Distance: t}
			found = true
		}
	}
	return best, found
}

// raySegment solves origin + t*dir = a + u*(b-a). With unbounded set the
// segment is treated as an infinite line through a and b.
func raySegment(origin, dir, a, b fov.Vec2, unbounded bool) (float64, bool) {
	seg := b.Sub(a)
	denom := dir.Cross(seg)
	if math.Abs(denom) < parallelEpsilon {
		return 0, false
	}
	diff := a.Sub(origin)
	u := dir.Cross(diff) / denom
	t := diff.Cross(seg) / denom
	if t < 0 {
		return 0, false
	}
	if !unbounded && (u < 0 || u > 1) {
		return 0, false
	}
	return t, true
}

// rayCircle treats the disc as solid: an origin inside reports distance 0.
func rayCircle(origin, dir, center fov.Vec2, radius float64) (float64, bool) {
	oc := origin.Sub(center)
	c := oc.Dot(oc) - radius*radius
	if c <= 0 {
		return 0, true
	}
	b := oc.Dot(dir)
	if b > 0 {
		return 0, false
	}
	disc := b*b - c
	if disc < 0 {
		return 0, false
	}
	return -b - math.Sqrt(disc), true
}
