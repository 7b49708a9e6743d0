// Package effect implements the two redaction effects, mosaic and blur, on a
// raster.Buffer.
//
// # Mosaic
//
// Mosaic divides an area into square blocks and fills every block with the
// rounded per-channel mean (R, G, B and A) of its own pixels. Brush and
// polygon mosaics align their block grid to absolute multiples of the block
// size, so repeated strokes with the same brush tile onto the same grid
// instead of producing misaligned fragments. Rectangle mosaics anchor the grid
// at the rectangle's own top-left pixel.
//
// # Blur
//
// Blur runs a Gaussian filter (bild's blur.Gaussian, radius = intensity) and
// copies the filtered pixels back only inside the target region: a circle for
// the brush, or a rectangle/polygon and their complements for selections.
// Only a window around the region, padded by the kernel reach, is filtered;
// the composited pixels are identical to filtering the whole buffer because
// pixels beyond the kernel reach never contribute.
//
// # Atomicity
//
// Every operation runs to completion synchronously and always succeeds for any
// geometric input; degenerate inputs (empty rectangles, polygons with fewer
// than three vertices) are no-ops.
package effect
