// Package geom provides the 2-D primitives shared by the effect engine and the
// selection state machine.
//
// # Coordinate System
//
// All coordinates are real-valued and expressed in the buffer's intrinsic pixel
// space: (0,0) is the top-left corner of the top-left pixel, X grows rightward
// and Y grows downward. Pixel (px, py) covers the half-open square
// [px, px+1) × [py, py+1), so its centre is (px+0.5, py+0.5).
//
// Conversions to integer pixel rectangles (image.Rectangle) floor the minimum
// edge and ceil the maximum edge, so a fractional rectangle covers every pixel
// it touches.
package geom
