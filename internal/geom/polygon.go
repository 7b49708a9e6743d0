package geom

import "math"

// Polygon is an ordered list of vertices. The last vertex connects back to the
// first, so a closing vertex is never repeated.
type Polygon []Point

// Valid reports whether the polygon has at least three vertices.
func (pg Polygon) Valid() bool {
	return len(pg) >= 3
}

// Bounds returns the bounding box of the vertices. An empty polygon yields a
// zero Rect.
func (pg Polygon) Bounds() Rect {
	if len(pg) == 0 {
		return Rect{}
	}
	minX, minY := pg[0].X, pg[0].Y
	maxX, maxY := minX, minY
	for _, p := range pg[1:] {
		minX = math.Min(minX, p.X)
		minY = math.Min(minY, p.Y)
		maxX = math.Max(maxX, p.X)
		maxY = math.Max(maxY, p.Y)
	}
	return Rect{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}

// Contains classifies (x, y) with the even-odd rule: a horizontal ray from the
// point towards +X is intersected with every edge and an odd number of
// crossings means inside.
//
// Edges are treated as half-open in Y (an edge covers yi <= y < yj or the
// reverse), so a ray through a shared vertex is counted once and horizontal
// edges never count. Self-intersecting polygons follow the same rule: regions
// enclosed an even number of times are outside.
func (pg Polygon) Contains(x, y float64) bool {
	inside := false
	for i, j := 0, len(pg)-1; i < len(pg); j, i = i, i+1 {
		xi, yi := pg[i].X, pg[i].Y
		xj, yj := pg[j].X, pg[j].Y
		if (yi > y) != (yj > y) && x < (xj-xi)*(y-yi)/(yj-yi)+xi {
			inside = !inside
		}
	}
	return inside
}

// ContainsPoint is Contains for a Point.
func (pg Polygon) ContainsPoint(p Point) bool {
	return pg.Contains(p.X, p.Y)
}

// Centroid returns the arithmetic mean of the vertices.
func (pg Polygon) Centroid() Point {
	if len(pg) == 0 {
		return Point{}
	}
	var sx, sy float64
	for _, p := range pg {
		sx += p.X
		sy += p.Y
	}
	n := float64(len(pg))
	return Point{X: sx / n, Y: sy / n}
}

// Clone returns an independent copy of the vertex list.
func (pg Polygon) Clone() Polygon {
	if pg == nil {
		return nil
	}
	out := make(Polygon, len(pg))
	copy(out, pg)
	return out
}
