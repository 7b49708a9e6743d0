package effect

import (
	"image"

	"github.com/ironsheep/photo-redact/internal/geom"
	"github.com/ironsheep/photo-redact/internal/raster"
)

// Engine applies effects to one buffer.
type Engine struct {
	buf *raster.Buffer
}

// NewEngine binds an engine to buf. The engine never replaces or resizes buf.
func NewEngine(buf *raster.Buffer) *Engine {
	return &Engine{buf: buf}
}

// Buffer returns the buffer the engine writes to.
func (e *Engine) Buffer() *raster.Buffer {
	return e.buf
}

// ApplyBrush applies one brush sample centred at center.
func (e *Engine) ApplyBrush(center geom.Point, b Brush) {
	switch b.Kind {
	case Blur:
		e.Blur(center, float64(b.Size), float64(b.Intensity()))
	default:
		e.Mosaic(center, float64(b.Size), b.BlockSize())
	}
}

// ApplyRect applies kind to r, or to everything outside r when inverse is set.
// Block size and blur intensity are derived from b's size.
func (e *Engine) ApplyRect(r geom.Rect, kind Kind, inverse bool, b Brush) {
	switch {
	case kind == Blur && inverse:
		e.BlurRectInverse(r, float64(b.Intensity()))
	case kind == Blur:
		e.BlurRect(r, float64(b.Intensity()))
	case inverse:
		e.MosaicRectInverse(r, b.BlockSize())
	default:
		e.MosaicRect(r, b.BlockSize())
	}
}

// ApplyPolygon applies kind inside pg, or outside pg when inverse is set.
func (e *Engine) ApplyPolygon(pg geom.Polygon, kind Kind, inverse bool, b Brush) {
	switch {
	case kind == Blur && inverse:
		e.BlurPolygonInverse(pg, float64(b.Intensity()))
	case kind == Blur:
		e.BlurPolygon(pg, float64(b.Intensity()))
	case inverse:
		e.MosaicPolygonInverse(pg, b.BlockSize())
	default:
		e.MosaicPolygon(pg, b.BlockSize())
	}
}

// bounds is a shorthand for the buffer rectangle.
func (e *Engine) bounds() image.Rectangle {
	return e.buf.Bounds()
}
