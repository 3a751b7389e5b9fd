package fov

import "math"

// Vec2 is a point or direction in world space. The world is y-up.
type Vec2 struct {
	X, Y float64
}

func (v Vec2) Add(o Vec2) Vec2      { return Vec2{v.X + o.X, v.Y + o.Y} }
func (v Vec2) Sub(o Vec2) Vec2      { return Vec2{v.X - o.X, v.Y - o.Y} }
func (v Vec2) Scale(s float64) Vec2 { return Vec2{v.X * s, v.Y * s} }
func (v Vec2) Dot(o Vec2) float64   { return v.X*o.X + v.Y*o.Y }
func (v Vec2) Cross(o Vec2) float64 { return v.X*o.Y - v.Y*o.X }
func (v Vec2) Len() float64         { return math.Hypot(v.X, v.Y) }
func (v Vec2) Angle() float64       { return math.Atan2(v.Y, v.X) }

// Rotate returns v rotated counter-clockwise by angle radians.
func (v Vec2) Rotate(angle float64) Vec2 {
	s, c := math.Sincos(angle)
	return Vec2{v.X*c - v.Y*s, v.X*s + v.Y*c}
}

// Normalize returns v scaled to unit length, or the zero vector.
func (v Vec2) Normalize() Vec2 {
	l := v.Len()
	if l == 0 {
		return Vec2{}
	}
	return Vec2{v.X / l, v.Y / l}
}

// FromAngle returns the unit vector at angle radians from +X.
func FromAngle(angle float64) Vec2 {
	s, c := math.Sincos(angle)
	return Vec2{c, s}
}

// EntityID identifies a collider or render entity. Zero is never issued.
type EntityID uint32

// NoEntity is the zero EntityID.
const NoEntity EntityID = 0

// Pose is the tracked actor's transform for the current frame.
type Pose struct {
	Entity   EntityID
	Position Vec2
	// Rotation is the heading in radians; zero faces +X.
	Rotation float64
}

// Forward is the unit heading vector.
func (p Pose) Forward() Vec2 {
	return FromAngle(p.Rotation)
}

// PoseProvider exposes the single tracked actor. ok is false while no actor
// exists, for example during scene transitions.
type PoseProvider interface {
	ActorPose() (pose Pose, ok bool)
}

// QueryFilter narrows a ray query.
type QueryFilter struct {
	// Exclude is skipped when it owns a collider along the ray.
	Exclude EntityID
}

// Hit is the nearest blocking surface along a ray.
type Hit struct {
	Entity   EntityID
	Distance float64
}

// Raycaster answers nearest-hit queries against the physics scene. A false
// result means the ray is unobstructed up to maxDistance.
type Raycaster interface {
	CastRay(origin, dir Vec2, maxDistance float64, filter QueryFilter) (Hit, bool)
}

// BatchRaycaster casts many rays from one origin in a single call. dist[i]
// receives the hit distance of dirs[i], or maxDistance when unobstructed.
type BatchRaycaster interface {
	Raycaster
	CastRays(origin Vec2, dirs []Vec2, maxDistance float64, filter QueryFilter, dist []float64) error
}

// ConeRays returns the end points of the centre ray and the two edge rays of
// a cone of halfAngle around pose, each length long.
func ConeRays(pose Pose, halfAngle, length float64) [3]Vec2 {
	return [3]Vec2{
		pose.Position.Add(FromAngle(pose.Rotation).Scale(length)),
		pose.Position.Add(FromAngle(pose.Rotation + halfAngle).Scale(length)),
		pose.Position.Add(FromAngle(pose.Rotation - halfAngle).Scale(length)),
	}
}
