package geom

import (
	"image"
	"math"
	"sort"
)

// Mask is a per-pixel membership set over a rectangle.
type Mask struct {
	Rect image.Rectangle
	bits []bool
}

// At reports whether pixel (x, y) is set. Pixels outside Rect are never set.
func (m *Mask) At(x, y int) bool {
	if !(image.Point{X: x, Y: y}.In(m.Rect)) {
		return false
	}
	return m.bits[(y-m.Rect.Min.Y)*m.Rect.Dx()+(x-m.Rect.Min.X)]
}

// Count returns the number of set pixels.
func (m *Mask) Count() int {
	n := 0
	for _, b := range m.bits {
		if b {
			n++
		}
	}
	return n
}

// Mask rasterises the polygon over bounds: a pixel is set when its centre is
// inside the polygon under the even-odd rule. The result agrees exactly with
// Contains(x+0.5, y+0.5) for every pixel, but is computed one scanline at a
// time from sorted edge crossings instead of testing every edge per pixel.
func (pg Polygon) Mask(bounds image.Rectangle) *Mask {
	m := &Mask{Rect: bounds, bits: make([]bool, bounds.Dx()*bounds.Dy())}
	if !pg.Valid() || bounds.Empty() {
		return m
	}

	w := bounds.Dx()
	var xs []float64
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		xs = pg.crossings(float64(y)+0.5, xs[:0])
		row := m.bits[(y-bounds.Min.Y)*w : (y-bounds.Min.Y+1)*w]
		// A centre cx is inside when an odd number of crossings lie strictly
		// right of it, i.e. when it falls in [xs[2k], xs[2k+1]).
		for k := 0; k+1 < len(xs); k += 2 {
			x0 := int(math.Ceil(xs[k] - 0.5))
			x1 := int(math.Ceil(xs[k+1] - 0.5))
			if x0 < bounds.Min.X {
				x0 = bounds.Min.X
			}
			if x1 > bounds.Max.X {
				x1 = bounds.Max.X
			}
			for x := x0; x < x1; x++ {
				row[x-bounds.Min.X] = true
			}
		}
	}
	return m
}

// crossings appends the sorted X positions where the polygon's edges cross the
// horizontal line at y, using the same half-open edge rule as Contains.
func (pg Polygon) crossings(y float64, dst []float64) []float64 {
	for i, j := 0, len(pg)-1; i < len(pg); j, i = i, i+1 {
		xi, yi := pg[i].X, pg[i].Y
		xj, yj := pg[j].X, pg[j].Y
		if (yi > y) != (yj > y) {
			dst = append(dst, (xj-xi)*(y-yi)/(yj-yi)+xi)
		}
	}
	sort.Float64s(dst)
	return dst
}
