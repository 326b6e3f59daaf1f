// Package mesh holds CPU-side geometry ready for GPU upload.
package mesh

import "math"

// Vertex is one vertex of a mesh: position and normal, matching the fixed
// vertex layout of the renderer's pipelines (two float32x3 attributes).
type Vertex struct {
	Position [3]float32
	Normal   [3]float32
}

// Data is a triangle mesh staged for upload via renderer.UploadMesh.
type Data struct {
	Vertices []Vertex
	Indices  []uint32

	// BoundingRadius is the radius of the smallest origin-centered sphere
	// containing every vertex, used for picking and culling.
	BoundingRadius float32
}

// ComputeBoundingRadius recalculates BoundingRadius from the vertex positions.
func (d *Data) ComputeBoundingRadius() {
	maxSq := float64(0)
	for _, v := range d.Vertices {
		sq := float64(v.Position[0]*v.Position[0] + v.Position[1]*v.Position[1] + v.Position[2]*v.Position[2])
		if sq > maxSq {
			maxSq = sq
		}
	}
	d.BoundingRadius = float32(math.Sqrt(maxSq))
}

// Cube builds an axis-aligned cube of the given edge length centered on the
// origin: 6 faces x 4 vertices with flat normals, 36 indices, CCW winding.
//
// Parameters:
//   - size: edge length in local units
//
// Returns:
//   - Data: the cube mesh
func Cube(size float32) Data {
	h := size / 2

	type face struct {
		positions [4][3]float32
		normal    [3]float32
	}

	faces := []face{
		// +X
		{positions: [4][3]float32{{h, -h, -h}, {h, h, -h}, {h, h, h}, {h, -h, h}}, normal: [3]float32{1, 0, 0}},
		// -X
		{positions: [4][3]float32{{-h, -h, h}, {-h, h, h}, {-h, h, -h}, {-h, -h, -h}}, normal: [3]float32{-1, 0, 0}},
		// +Y
		{positions: [4][3]float32{{-h, h, -h}, {-h, h, h}, {h, h, h}, {h, h, -h}}, normal: [3]float32{0, 1, 0}},
		// -Y
		{positions: [4][3]float32{{-h, -h, h}, {-h, -h, -h}, {h, -h, -h}, {h, -h, h}}, normal: [3]float32{0, -1, 0}},
		// +Z
		{positions: [4][3]float32{{-h, -h, h}, {h, -h, h}, {h, h, h}, {-h, h, h}}, normal: [3]float32{0, 0, 1}},
		// -Z
		{positions: [4][3]float32{{h, -h, -h}, {-h, -h, -h}, {-h, h, -h}, {h, h, -h}}, normal: [3]float32{0, 0, -1}},
	}

	vertices := make([]Vertex, 0, 24)
	for _, f := range faces {
		for _, pos := range f.positions {
			vertices = append(vertices, Vertex{Position: pos, Normal: f.normal})
		}
	}

	indices := make([]uint32, 0, 36)
	for fi := range 6 {
		base := uint32(fi * 4)
		indices = append(indices,
			base+0, base+1, base+2,
			base+0, base+2, base+3,
		)
	}

	d := Data{Vertices: vertices, Indices: indices}
	d.ComputeBoundingRadius()
	return d
}
