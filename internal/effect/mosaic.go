package effect

import (
	"image"
	"image/color"
	"math"

	"github.com/ironsheep/photo-redact/internal/geom"
)

// Mosaic pixelates the blocks touched by a round brush of the given diameter
// centred at center.
//
// The block grid is aligned to absolute multiples of blockSize. Every block
// inside the brush's bounding box (clamped to the buffer) whose centre lies
// closer to center than radius + blockSize/2 is pixelated, which approximates a
// round footprint with square blocks.
func (e *Engine) Mosaic(center geom.Point, diameter float64, blockSize int) {
	bs := max(1, blockSize)
	radius := diameter / 2
	b := e.bounds()

	startX := max(0, alignDown(center.X-radius, bs))
	startY := max(0, alignDown(center.Y-radius, bs))
	endX := min(b.Max.X, alignUp(center.X+radius, bs))
	endY := min(b.Max.Y, alignUp(center.Y+radius, bs))

	half := float64(bs) / 2
	reach := radius + half
	for by := startY; by < endY; by += bs {
		for bx := startX; bx < endX; bx += bs {
			c := geom.Pt(float64(bx)+half, float64(by)+half)
			if c.Dist(center) < reach {
				e.PixelateBlock(image.Rect(bx, by, bx+bs, by+bs))
			}
		}
	}
}

// PixelateBlock fills r (clipped to the buffer) with the rounded mean of its
// R, G, B and A channels. A block with no area after clipping is left alone.
func (e *Engine) PixelateBlock(r image.Rectangle) {
	img := e.buf.Image()
	r = r.Intersect(img.Rect)
	if r.Empty() {
		return
	}

	var sr, sg, sb, sa uint64
	for y := r.Min.Y; y < r.Max.Y; y++ {
		off := img.PixOffset(r.Min.X, y)
		row := img.Pix[off : off+r.Dx()*4]
		for i := 0; i < len(row); i += 4 {
			sr += uint64(row[i+0])
			sg += uint64(row[i+1])
			sb += uint64(row[i+2])
			sa += uint64(row[i+3])
		}
	}

	n := uint64(r.Dx() * r.Dy())
	e.buf.Fill(r, color.NRGBA{
		R: roundedMean(sr, n),
		G: roundedMean(sg, n),
		B: roundedMean(sb, n),
		A: roundedMean(sa, n),
	})
}

// MosaicRect pixelates r with a grid anchored at r's top-left pixel. Blocks on
// the right and bottom edges are clipped to r.
func (e *Engine) MosaicRect(r geom.Rect, blockSize int) {
	e.mosaicPixels(r.Pixels(e.bounds()), blockSize)
}

// MosaicRectInverse pixelates everything outside r. The complement is split
// into four bands (above, below, left-of, right-of) and each band is mosaicked
// on its own grid; the bands and r partition the buffer exactly.
func (e *Engine) MosaicRectInverse(r geom.Rect, blockSize int) {
	b := e.bounds()
	for _, band := range geom.Bands(r.Pixels(b), b) {
		e.mosaicPixels(band, blockSize)
	}
}

// MosaicPolygon pixelates the blocks whose centre lies inside pg (even-odd
// rule). The grid covers pg's bounding box and is aligned to absolute
// multiples of blockSize. Blocks are not clipped to the polygon outline.
func (e *Engine) MosaicPolygon(pg geom.Polygon, blockSize int) {
	if !pg.Valid() {
		return
	}
	bs := max(1, blockSize)
	bb := pg.Bounds()
	b := e.bounds()

	startX := max(0, alignDown(bb.X, bs))
	startY := max(0, alignDown(bb.Y, bs))
	endX := min(b.Max.X, alignUp(bb.MaxX(), bs))
	endY := min(b.Max.Y, alignUp(bb.MaxY(), bs))

	half := float64(bs) / 2
	for by := startY; by < endY; by += bs {
		for bx := startX; bx < endX; bx += bs {
			if pg.Contains(float64(bx)+half, float64(by)+half) {
				e.PixelateBlock(image.Rect(bx, by, bx+bs, by+bs))
			}
		}
	}
}

// MosaicPolygonInverse pixelates everything outside pg. The whole buffer is
// mosaicked on a grid anchored at (0,0), then every pixel whose centre lies
// inside pg is restored from a snapshot taken beforehand.
func (e *Engine) MosaicPolygonInverse(pg geom.Polygon, blockSize int) {
	if !pg.Valid() {
		return
	}
	snap := e.buf.Snapshot()
	b := e.bounds()
	e.mosaicPixels(b, blockSize)

	window := pg.Bounds().Pixels(b)
	mask := pg.Mask(window)
	e.restoreMasked(snap, mask)
}

// mosaicPixels tiles r with blocks anchored at r.Min, clipping the last row
// and column of blocks to r.
func (e *Engine) mosaicPixels(r image.Rectangle, blockSize int) {
	r = r.Intersect(e.bounds())
	if r.Empty() {
		return
	}
	bs := max(1, blockSize)
	for by := r.Min.Y; by < r.Max.Y; by += bs {
		for bx := r.Min.X; bx < r.Max.X; bx += bs {
			e.PixelateBlock(image.Rect(bx, by, min(bx+bs, r.Max.X), min(by+bs, r.Max.Y)))
		}
	}
}

// restoreMasked copies the pixels selected by mask from snap back into the
// buffer. snap must share the buffer's bounds.
func (e *Engine) restoreMasked(snap *image.NRGBA, mask *geom.Mask) {
	img := e.buf.Image()
	r := mask.Rect.Intersect(img.Rect)
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			if !mask.At(x, y) {
				continue
			}
			off := img.PixOffset(x, y)
			copy(img.Pix[off:off+4], snap.Pix[snap.PixOffset(x, y):])
		}
	}
}

// roundedMean returns sum/n rounded half up.
func roundedMean(sum, n uint64) uint8 {
	return uint8((sum + n/2) / n)
}

// alignDown returns the largest multiple of step that is <= v.
func alignDown(v float64, step int) int {
	return int(math.Floor(v/float64(step))) * step
}

// alignUp returns the smallest multiple of step that is >= v.
func alignUp(v float64, step int) int {
	return int(math.Ceil(v/float64(step))) * step
}
