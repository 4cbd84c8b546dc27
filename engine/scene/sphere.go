package scene

import (
	"math"
)

// Mesh is indexed triangle geometry ready for a vertex buffer.
type Mesh struct {
	// Positions holds x, y, z per vertex.
	Positions []float32
	// UVs holds u, v per vertex with v = 0 on the top row of the image.
	UVs []float32
	// Indices holds three vertex indices per triangle.
	Indices []uint32
}

// VertexCount returns the number of vertices in the mesh.
func (m Mesh) VertexCount() int {
	return len(m.Positions) / 3
}

// TriangleCount returns the number of triangles in the mesh.
func (m Mesh) TriangleCount() int {
	return len(m.Indices) / 3
}

// SphereMesh builds a UV sphere whose triangles face inward, for viewing an
// equirectangular image from the centre. The poles collapse to single-triangle rings.
//
// Parameters:
//   - radius: sphere radius
//   - widthSegments: segments around the equator (minimum 3)
//   - heightSegments: segments from pole to pole (minimum 2)
//
// Returns:
//   - Mesh: the sphere geometry
func SphereMesh(radius float32, widthSegments, heightSegments int) Mesh {
	widthSegments = max(widthSegments, 3)
	heightSegments = max(heightSegments, 2)

	cols := widthSegments + 1
	rows := heightSegments + 1
	m := Mesh{
		Positions: make([]float32, 0, cols*rows*3),
		UVs:       make([]float32, 0, cols*rows*2),
		Indices:   make([]uint32, 0, widthSegments*(heightSegments-1)*6),
	}

	for iy := 0; iy < rows; iy++ {
		v := float64(iy) / float64(heightSegments)
		theta := v * math.Pi
		for ix := 0; ix < cols; ix++ {
			u := float64(ix) / float64(widthSegments)
			phi := u * 2 * math.Pi
			x := -float64(radius) * math.Cos(phi) * math.Sin(theta)
			y := float64(radius) * math.Cos(theta)
			z := float64(radius) * math.Sin(phi) * math.Sin(theta)
			m.Positions = append(m.Positions, float32(x), float32(y), float32(z))
			m.UVs = append(m.UVs, float32(u), float32(v))
		}
	}

	for iy := 0; iy < heightSegments; iy++ {
		for ix := 0; ix < widthSegments; ix++ {
			a := uint32(iy*cols + ix + 1)
			b := uint32(iy*cols + ix)
			c := uint32((iy+1)*cols + ix)
			d := uint32((iy+1)*cols + ix + 1)
			// reversed winding so the inside is the front face
			if iy != 0 {
				m.Indices = append(m.Indices, a, d, b)
			}
			if iy != heightSegments-1 {
				m.Indices = append(m.Indices, b, d, c)
			}
		}
	}
	return m
}
