package debug

// BoxLineVertexCount is the number of line vertices BoxLines returns
// (12 edges, 2 endpoints each).
const BoxLineVertexCount = 24

// BoxLines returns the edges of an axis-aligned box as GL_LINES
// positions, three floats per vertex, grown by padding on every side.
func BoxLines(min, max [3]float32, padding float32) []float32 {
	x0, y0, z0 := min[0]-padding, min[1]-padding, min[2]-padding
	x1, y1, z1 := max[0]+padding, max[1]+padding, max[2]+padding

	return []float32{
		// bottom
		x0, y0, z0, x1, y0, z0,
		x1, y0, z0, x1, y0, z1,
		x1, y0, z1, x0, y0, z1,
		x0, y0, z1, x0, y0, z0,
		// top
		x0, y1, z0, x1, y1, z0,
		x1, y1, z0, x1, y1, z1,
		x1, y1, z1, x0, y1, z1,
		x0, y1, z1, x0, y1, z0,
		// verticals
		x0, y0, z0, x0, y1, z0,
		x1, y0, z0, x1, y1, z0,
		x1, y0, z1, x1, y1, z1,
		x0, y0, z1, x0, y1, z1,
	}
}
