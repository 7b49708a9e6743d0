package geom

import (
	"image"
	"math"
)

// Point is a position in intrinsic pixel space.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Pt is shorthand for Point{X: x, Y: y}.
func Pt(x, y float64) Point {
	return Point{X: x, Y: y}
}

// Sub returns p - q.
func (p Point) Sub(q Point) Point {
	return Point{X: p.X - q.X, Y: p.Y - q.Y}
}

// Dist returns the Euclidean distance between p and q.
func (p Point) Dist(q Point) float64 {
	return math.Hypot(p.X-q.X, p.Y-q.Y)
}

// Clamp constrains p to the box [0, w] × [0, h].
func (p Point) Clamp(w, h float64) Point {
	return Point{X: clampFloat(p.X, 0, w), Y: clampFloat(p.Y, 0, h)}
}

// Rect is an axis-aligned rectangle with its origin at the top-left corner.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// RectFromCorners returns the rectangle spanned by two opposite corners in any
// order: the origin is the per-axis minimum and the size is the absolute
// difference.
func RectFromCorners(a, b Point) Rect {
	return Rect{
		X:      math.Min(a.X, b.X),
		Y:      math.Min(a.Y, b.Y),
		Width:  math.Abs(b.X - a.X),
		Height: math.Abs(b.Y - a.Y),
	}
}

// MaxX returns the right edge.
func (r Rect) MaxX() float64 { return r.X + r.Width }

// MaxY returns the bottom edge.
func (r Rect) MaxY() float64 { return r.Y + r.Height }

// Empty reports whether r has no area.
func (r Rect) Empty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// Exceeds reports whether both dimensions are strictly greater than min.
func (r Rect) Exceeds(min float64) bool {
	return r.Width > min && r.Height > min
}

// Pixels returns the integer pixel rectangle covered by r, clipped to bounds.
// The minimum edge is floored and the maximum edge is ceiled.
func (r Rect) Pixels(bounds image.Rectangle) image.Rectangle {
	pr := image.Rect(
		int(math.Floor(r.X)),
		int(math.Floor(r.Y)),
		int(math.Ceil(r.MaxX())),
		int(math.Ceil(r.MaxY())),
	)
	return pr.Intersect(bounds)
}

// FromPixels converts an integer rectangle back into a Rect.
func FromPixels(pr image.Rectangle) Rect {
	return Rect{
		X:      float64(pr.Min.X),
		Y:      float64(pr.Min.Y),
		Width:  float64(pr.Dx()),
		Height: float64(pr.Dy()),
	}
}

// Bands decomposes the complement of inner within bounds into four
// non-overlapping bands: above, below, left-of and right-of inner.
//
// The left and right bands span only inner's vertical extent, so the four
// bands together with inner.Intersect(bounds) partition bounds exactly: every
// pixel belongs to exactly one of the five rectangles. Bands that would have no
// area are returned as empty rectangles.
func Bands(inner, bounds image.Rectangle) [4]image.Rectangle {
	in := inner.Intersect(bounds)
	if in.Empty() {
		// Nothing to cut out; the whole buffer is the complement.
		return [4]image.Rectangle{bounds, {}, {}, {}}
	}
	return [4]image.Rectangle{
		image.Rect(bounds.Min.X, bounds.Min.Y, bounds.Max.X, in.Min.Y).Intersect(bounds),
		image.Rect(bounds.Min.X, in.Max.Y, bounds.Max.X, bounds.Max.Y).Intersect(bounds),
		image.Rect(bounds.Min.X, in.Min.Y, in.Min.X, in.Max.Y).Intersect(bounds),
		image.Rect(in.Max.X, in.Min.Y, bounds.Max.X, in.Max.Y).Intersect(bounds),
	}
}

func clampFloat(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
