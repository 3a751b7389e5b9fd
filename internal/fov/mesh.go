package fov

// Mesh is the visibility polygon: an apex at the actor's local origin
// followed by the rim points, indexed as an open triangle fan. A Mesh has a
// single owner (the Updater) and is rebuilt in place; Version changes on
// every rebuild so renderers know when to re-upload.
type Mesh struct {
	Positions [][3]float32
	Normals   [][3]float32
	UVs       [][2]float32
	Indices   []uint32

	version uint64
}

var (
	meshNormal = [3]float32{0, 0, 1}
	// The flat material never samples a texture; the UV only satisfies the
	// vertex layout.
	meshUV = [2]float32{1, 1}
)

// NewMesh allocates a mesh with capacity for sampleCount+1 rim points.
func NewMesh(sampleCount int) *Mesh {
	verts := sampleCount + 2
	tris := sampleCount - 1
	if tris < 0 {
		tris = 0
	}
	return &Mesh{
		Positions: make([][3]float32, 0, verts),
		Normals:   make([][3]float32, 0, verts),
		UVs:       make([][2]float32, 0, verts),
		Indices:   make([]uint32, 0, 3*tris),
	}
}

// Version increases each time the geometry is rewritten.
func (m *Mesh) Version() uint64 { return m.version }

// VertexCount is the apex plus the rim.
func (m *Mesh) VertexCount() int { return len(m.Positions) }

// TriangleCount is the number of fan triangles.
func (m *Mesh) TriangleCount() int { return len(m.Indices) / 3 }

// Rebuild overwrites the vertex and index buffers from rim, given in the
// actor's local frame. Each rim vertex forms a triangle with its successor
// and the apex, except the final one, which stays unconnected: the fan is a
// bounded sector, not a disc.
func (m *Mesh) Rebuild(rim []Vec2) {
	m.Positions = append(m.Positions[:0], [3]float32{0, 0, 0})
	m.Normals = append(m.Normals[:0], meshNormal)
	m.UVs = append(m.UVs[:0], meshUV)
	for _, p := range rim {
		m.Positions = append(m.Positions, [3]float32{float32(p.X), float32(p.Y), 0})
		m.Normals = append(m.Normals, meshNormal)
		m.UVs = append(m.UVs, meshUV)
	}

	m.Indices = m.Indices[:0]
	for i := 1; i+1 < len(rim); i++ {
		m.Indices = append(m.Indices, 0, uint32(i), uint32(i+1))
	}
	m.version++
}

// Triangles calls fn for every triangle with local-space corners.
func (m *Mesh) Triangles(fn func(a, b, c Vec2)) {
	for i := 0; i+2 < len(m.Indices); i += 3 {
		fn(m.vertex(m.Indices[i]), m.vertex(m.Indices[i+1]), m.vertex(m.Indices[i+2]))
	}
}

func (m *Mesh) vertex(i uint32) Vec2 {
	p := m.Positions[i]
	return Vec2{float64(p[0]), float64(p[1])}
}
