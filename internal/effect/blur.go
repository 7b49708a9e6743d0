package effect

import (
	"image"
	"image/color"
	"math"

	"github.com/anthonynsimon/bild/blur"
	"github.com/disintegration/imaging"

	"github.com/ironsheep/photo-redact/internal/geom"
)

// Blur smooths the circular area of the given diameter around center with
// Gaussian strength intensity. Pixels whose centre lies outside the circle
// are left untouched.
func (e *Engine) Blur(center geom.Point, diameter, intensity float64) {
	radius := diameter / 2
	if radius <= 0 {
		return
	}
	region := geom.Rect{X: center.X - radius, Y: center.Y - radius, Width: diameter, Height: diameter}
	r2 := radius * radius
	e.blurComposite(region.Pixels(e.bounds()), intensity, func(x, y int) bool {
		dx := float64(x) + 0.5 - center.X
		dy := float64(y) + 0.5 - center.Y
		return dx*dx+dy*dy <= r2
	})
}

// BlurRect blurs the pixels covered by r.
func (e *Engine) BlurRect(r geom.Rect, intensity float64) {
	e.blurComposite(r.Pixels(e.bounds()), intensity, nil)
}

// BlurRectInverse blurs everything outside r, using the same four-band
// decomposition as MosaicRectInverse.
func (e *Engine) BlurRectInverse(r geom.Rect, intensity float64) {
	b := e.bounds()
	inner := r.Pixels(b)
	e.blurComposite(b, intensity, func(x, y int) bool {
		return !(image.Point{X: x, Y: y}.In(inner))
	})
}

// BlurPolygon blurs the pixels whose centre lies inside pg.
func (e *Engine) BlurPolygon(pg geom.Polygon, intensity float64) {
	if !pg.Valid() {
		return
	}
	window := pg.Bounds().Pixels(e.bounds())
	mask := pg.Mask(window)
	e.blurComposite(window, intensity, mask.At)
}

// BlurPolygonInverse blurs the pixels whose centre lies outside pg.
func (e *Engine) BlurPolygonInverse(pg geom.Polygon, intensity float64) {
	if !pg.Valid() {
		return
	}
	b := e.bounds()
	mask := pg.Mask(pg.Bounds().Pixels(b))
	e.blurComposite(b, intensity, func(x, y int) bool {
		return !mask.At(x, y)
	})
}

// blurComposite filters a padded window around region and writes the filtered
// pixels of region back into the buffer. keep selects which pixels of region
// are replaced; nil keeps all of them.
func (e *Engine) blurComposite(region image.Rectangle, intensity float64, keep func(x, y int) bool) {
	b := e.bounds()
	region = region.Intersect(b)
	if region.Empty() || intensity <= 0 {
		return
	}

	pad := kernelReach(intensity)
	window := region.Inset(-pad).Intersect(b)
	blurred := blur.Gaussian(imaging.Crop(e.buf.Image(), window), intensity)
	origin := blurred.Bounds().Min

	img := e.buf.Image()
	for y := region.Min.Y; y < region.Max.Y; y++ {
		for x := region.Min.X; x < region.Max.X; x++ {
			if keep != nil && !keep(x, y) {
				continue
			}
			src := blurred.RGBAAt(origin.X+x-window.Min.X, origin.Y+y-window.Min.Y)
			img.SetNRGBA(x, y, color.NRGBAModel.Convert(src).(color.NRGBA))
		}
	}
}

// kernelReach returns how far, in pixels, the separable Gaussian of the given
// radius reads from its centre across both passes.
func kernelReach(radius float64) int {
	return 2*int(math.Ceil(radius)) + 2
}
