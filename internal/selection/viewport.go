package selection

import "github.com/ironsheep/photo-redact/internal/geom"

// closeDistance is the polygon close-on-first-vertex radius in display pixels.
const closeDistance = 8

// Viewport maps device coordinates (where the host displays the image) to
// intrinsic pixel coordinates of the buffer.
//
// Until SetDisplay is called the display is assumed to match the intrinsic
// size at origin (0,0), so device and intrinsic coordinates coincide.
type Viewport struct {
	width, height float64
	origin        geom.Point
	displayW      float64
	displayH      float64
}

// NewViewport returns a viewport for an image of the given intrinsic size.
func NewViewport(width, height int) *Viewport {
	w, h := float64(width), float64(height)
	return &Viewport{width: w, height: h, displayW: w, displayH: h}
}

// SetDisplay records where the image is drawn on the device and at what size.
func (v *Viewport) SetDisplay(origin geom.Point, width, height float64) {
	v.origin = origin
	v.displayW = width
	v.displayH = height
}

// Display returns the current display origin and size.
func (v *Viewport) Display() (origin geom.Point, width, height float64) {
	return v.origin, v.displayW, v.displayH
}

// ToIntrinsic converts a device point into intrinsic pixel space, clamped to
// [0, width] × [0, height]. A zero-sized display maps every point to (0,0).
func (v *Viewport) ToIntrinsic(device geom.Point) geom.Point {
	if v.displayW <= 0 || v.displayH <= 0 {
		return geom.Point{}
	}
	d := device.Sub(v.origin)
	p := geom.Pt(d.X*v.width/v.displayW, d.Y*v.height/v.displayH)
	return p.Clamp(v.width, v.height)
}

// ToDisplay converts an intrinsic point to device coordinates.
func (v *Viewport) ToDisplay(p geom.Point) geom.Point {
	if v.width <= 0 || v.height <= 0 {
		return v.origin
	}
	return geom.Pt(v.origin.X+p.X*v.displayW/v.width, v.origin.Y+p.Y*v.displayH/v.height)
}

// CloseThreshold returns the intrinsic distance within which a click closes a
// polygon on its first vertex. It reports false when the display has no width.
func (v *Viewport) CloseThreshold() (float64, bool) {
	if v.displayW <= 0 {
		return 0, false
	}
	return closeDistance * v.width / v.displayW, true
}

// BrushPreviewDiameter returns the on-screen diameter of a brush of the given
// intrinsic size.
func (v *Viewport) BrushPreviewDiameter(size int) float64 {
	if v.width <= 0 {
		return 0
	}
	return float64(size) * v.displayW / v.width
}
