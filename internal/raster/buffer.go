// Package raster owns the mutable pixel grid an editing session works on.
//
// A Buffer stores non-premultiplied 8-bit RGBA (image.NRGBA) with its origin at
// (0,0). Non-premultiplied storage keeps colour channels independent of alpha,
// so averaging a block of translucent pixels averages the visible colour and
// the alpha separately.
//
// Buffers are not safe for concurrent use; a session owns exactly one and
// serialises every call.
package raster

import (
	"bytes"
	"fmt"
	"image"
	"image/color"

	"github.com/disintegration/imaging"
)

// Buffer is a fixed-size NRGBA pixel grid.
type Buffer struct {
	img *image.NRGBA
}

// New copies src into a new buffer. The copy is rebased so that the buffer's
// bounds always start at (0,0), regardless of src.Bounds().Min.
func New(src image.Image) *Buffer {
	return &Buffer{img: imaging.Clone(src)}
}

// NewBlank creates a transparent buffer of the given size.
func NewBlank(width, height int) *Buffer {
	return &Buffer{img: image.NewNRGBA(image.Rect(0, 0, width, height))}
}

// Width returns the buffer width in pixels.
func (b *Buffer) Width() int { return b.img.Rect.Dx() }

// Height returns the buffer height in pixels.
func (b *Buffer) Height() int { return b.img.Rect.Dy() }

// Bounds returns the buffer rectangle, always anchored at (0,0).
func (b *Buffer) Bounds() image.Rectangle { return b.img.Rect }

// Image exposes the live pixel grid. Callers must not retain it across
// operations that replace the buffer contents and must not resize it.
func (b *Buffer) Image() *image.NRGBA { return b.img }

// At returns the pixel at (x, y). Out-of-range coordinates yield a zero colour.
func (b *Buffer) At(x, y int) color.NRGBA {
	return b.img.NRGBAAt(x, y)
}

// Set writes one pixel. Out-of-range coordinates are ignored.
func (b *Buffer) Set(x, y int, c color.NRGBA) {
	b.img.SetNRGBA(x, y, c)
}

// Fill paints every pixel of r (clipped to the buffer) with c.
func (b *Buffer) Fill(r image.Rectangle, c color.NRGBA) {
	r = r.Intersect(b.img.Rect)
	if r.Empty() {
		return
	}
	row := make([]uint8, r.Dx()*4)
	for i := 0; i < len(row); i += 4 {
		row[i+0] = c.R
		row[i+1] = c.G
		row[i+2] = c.B
		row[i+3] = c.A
	}
	for y := r.Min.Y; y < r.Max.Y; y++ {
		off := b.img.PixOffset(r.Min.X, y)
		copy(b.img.Pix[off:off+len(row)], row)
	}
}

// ReadRegion returns an independent copy of r clipped to the buffer. The copy
// is anchored at (0,0). An empty intersection yields an empty image.
func (b *Buffer) ReadRegion(r image.Rectangle) *image.NRGBA {
	r = r.Intersect(b.img.Rect)
	if r.Empty() {
		return image.NewNRGBA(image.Rectangle{})
	}
	return imaging.Crop(b.img, r)
}

// WriteRegion copies src into the buffer with src's top-left pixel landing at
// at. Pixels falling outside the buffer are dropped. The copy replaces pixels;
// no blending is performed.
func (b *Buffer) WriteRegion(src *image.NRGBA, at image.Point) {
	dst := src.Rect.Sub(src.Rect.Min).Add(at).Intersect(b.img.Rect)
	if dst.Empty() {
		return
	}
	srcMin := src.Rect.Min.Add(dst.Min.Sub(at))
	n := dst.Dx() * 4
	for y := 0; y < dst.Dy(); y++ {
		so := src.PixOffset(srcMin.X, srcMin.Y+y)
		do := b.img.PixOffset(dst.Min.X, dst.Min.Y+y)
		copy(b.img.Pix[do:do+n], src.Pix[so:so+n])
	}
}

// Snapshot returns a full independent copy of the buffer.
func (b *Buffer) Snapshot() *image.NRGBA {
	return imaging.Clone(b.img)
}

// Restore overwrites the buffer with snap. The snapshot must have the same
// dimensions as the buffer; the buffer never changes size.
func (b *Buffer) Restore(snap *image.NRGBA) error {
	if snap.Rect.Dx() != b.Width() || snap.Rect.Dy() != b.Height() {
		return fmt.Errorf("snapshot size %dx%d does not match buffer %dx%d",
			snap.Rect.Dx(), snap.Rect.Dy(), b.Width(), b.Height())
	}
	b.WriteRegion(snap, image.Point{})
	return nil
}

// Equal reports whether the buffer holds exactly the pixels of img.
func (b *Buffer) Equal(img *image.NRGBA) bool {
	if img.Rect.Dx() != b.Width() || img.Rect.Dy() != b.Height() {
		return false
	}
	n := b.Width() * 4
	for y := 0; y < b.Height(); y++ {
		bo := b.img.PixOffset(0, y)
		io := img.PixOffset(img.Rect.Min.X, img.Rect.Min.Y+y)
		if !bytes.Equal(b.img.Pix[bo:bo+n], img.Pix[io:io+n]) {
			return false
		}
	}
	return true
}
