package effect

import (
	"image"
	"image/color"
	"math/rand"
	"testing"

	"github.com/ironsheep/photo-redact/internal/geom"
	"github.com/ironsheep/photo-redact/internal/raster"
)

var (
	black = color.NRGBA{0, 0, 0, 255}
	white = color.NRGBA{255, 255, 255, 255}
	gray  = color.NRGBA{128, 128, 128, 255} // rounded mean of black and white
)

// createCheckerboard builds a 1-pixel checkerboard. Any 2×2 (or 1×2, 2×1)
// block averages to gray, so a pixel is gray exactly when it was mosaicked
// with an even block size on an even-aligned grid.
func createCheckerboard(width, height int) *raster.Buffer {
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if (x+y)%2 == 0 {
				img.SetNRGBA(x, y, black)
			} else {
				img.SetNRGBA(x, y, white)
			}
		}
	}
	return raster.New(img)
}

// createNoise builds a deterministic random RGBA image, alpha included.
func createNoise(width, height int, seed int64) *raster.Buffer {
	rng := rand.New(rand.NewSource(seed))
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	rng.Read(img.Pix)
	return raster.New(img)
}

// blockMean computes the rounded per-channel mean of r in img.
func blockMean(img *image.NRGBA, r image.Rectangle) color.NRGBA {
	var s [4]uint64
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			c := img.NRGBAAt(x, y)
			s[0] += uint64(c.R)
			s[1] += uint64(c.G)
			s[2] += uint64(c.B)
			s[3] += uint64(c.A)
		}
	}
	n := uint64(r.Dx() * r.Dy())
	return color.NRGBA{
		R: uint8((s[0] + n/2) / n),
		G: uint8((s[1] + n/2) / n),
		B: uint8((s[2] + n/2) / n),
		A: uint8((s[3] + n/2) / n),
	}
}

func assertUniform(t *testing.T, buf *raster.Buffer, r image.Rectangle, want color.NRGBA) {
	t.Helper()
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			if got := buf.At(x, y); got != want {
				t.Fatalf("pixel (%d,%d) = %v, want %v (block %v)", x, y, got, want, r)
			}
		}
	}
}

func TestPixelateBlock_MeanIncludesAlpha(t *testing.T) {
	buf := raster.NewBlank(2, 1)
	buf.Set(0, 0, color.NRGBA{255, 0, 0, 0})
	buf.Set(1, 0, color.NRGBA{0, 0, 255, 255})

	NewEngine(buf).PixelateBlock(image.Rect(0, 0, 2, 1))

	want := color.NRGBA{128, 0, 128, 128}
	assertUniform(t, buf, buf.Bounds(), want)
}

func TestPixelateBlock_RoundsToNearest(t *testing.T) {
	buf := raster.NewBlank(3, 1)
	buf.Set(0, 0, color.NRGBA{10, 10, 10, 255})
	buf.Set(1, 0, color.NRGBA{10, 11, 10, 255})
	buf.Set(2, 0, color.NRGBA{11, 11, 10, 255})

	NewEngine(buf).PixelateBlock(buf.Bounds())

	// R: 31/3 = 10.33 -> 10, G: 32/3 = 10.67 -> 11
	assertUniform(t, buf, buf.Bounds(), color.NRGBA{10, 11, 10, 255})
}

func TestPixelateBlock_ClampedAndEmpty(t *testing.T) {
	buf := createCheckerboard(10, 10)
	before := buf.Snapshot()
	e := NewEngine(buf)

	e.PixelateBlock(image.Rect(20, 20, 30, 30))
	e.PixelateBlock(image.Rect(5, 5, 5, 9))
	if !buf.Equal(before) {
		t.Fatal("zero-area or out-of-bounds block modified the buffer")
	}

	// Overhanging the bottom-right corner: only the 2x2 inside is touched.
	e.PixelateBlock(image.Rect(8, 8, 16, 16))
	assertUniform(t, buf, image.Rect(8, 8, 10, 10), gray)
	if buf.At(7, 7) != before.NRGBAAt(7, 7) {
		t.Error("pixel outside the clamped block changed")
	}
}

func TestMosaicRect_BlockUniformityAndMean(t *testing.T) {
	buf := createNoise(50, 40, 1)
	orig := buf.Snapshot()
	e := NewEngine(buf)

	rect := geom.Rect{X: 3, Y: 4, Width: 30, Height: 25}
	const bs = 7
	e.MosaicRect(rect, bs)

	pr := rect.Pixels(buf.Bounds())
	for by := pr.Min.Y; by < pr.Max.Y; by += bs {
		for bx := pr.Min.X; bx < pr.Max.X; bx += bs {
			block := image.Rect(bx, by, min(bx+bs, pr.Max.X), min(by+bs, pr.Max.Y))
			assertUniform(t, buf, block, blockMean(orig, block))
		}
	}

	// Outside the rect nothing changes.
	for y := 0; y < buf.Height(); y++ {
		for x := 0; x < buf.Width(); x++ {
			if image.Pt(x, y).In(pr) {
				continue
			}
			if buf.At(x, y) != orig.NRGBAAt(x, y) {
				t.Fatalf("pixel (%d,%d) outside rect changed", x, y)
			}
		}
	}
}

func TestMosaicRect_PartitionWithInverse(t *testing.T) {
	tests := []struct {
		name string
		rect geom.Rect
	}{
		{"centered", geom.Rect{X: 10, Y: 8, Width: 20, Height: 16}},
		{"touching edge", geom.Rect{X: 0, Y: 0, Width: 24, Height: 12}},
		{"overhanging", geom.Rect{X: 30, Y: 20, Width: 40, Height: 40}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			direct := createCheckerboard(48, 36)
			inverse := createCheckerboard(48, 36)
			NewEngine(direct).MosaicRect(tt.rect, 2)
			NewEngine(inverse).MosaicRectInverse(tt.rect, 2)

			for y := 0; y < 36; y++ {
				for x := 0; x < 48; x++ {
					a := direct.At(x, y) == gray
					b := inverse.At(x, y) == gray
					if a == b {
						t.Fatalf("pixel (%d,%d): touched by rect=%v, by bands=%v; want exactly one", x, y, a, b)
					}
				}
			}
		})
	}
}

func TestMosaic_BrushGridIsAbsolute(t *testing.T) {
	buf := createNoise(100, 100, 2)
	orig := buf.Snapshot()
	e := NewEngine(buf)

	const bs = 10
	e.Mosaic(geom.Pt(47, 53), 20, bs)

	// The block containing the brush centre lies on the absolute grid.
	block := image.Rect(40, 50, 50, 60)
	assertUniform(t, buf, block, blockMean(orig, block))

	// Far away pixels are untouched.
	if buf.At(0, 0) != orig.NRGBAAt(0, 0) || buf.At(99, 99) != orig.NRGBAAt(99, 99) {
		t.Error("mosaic brush touched pixels far from the stroke")
	}

	// Blocks left of the brush's aligned bounding box are untouched.
	if buf.At(25, 35) != orig.NRGBAAt(25, 35) {
		t.Error("block outside the round footprint was pixelated")
	}
}

func TestMosaic_OverlappingStrokesTile(t *testing.T) {
	buf := createNoise(60, 60, 3)
	e := NewEngine(buf)

	e.Mosaic(geom.Pt(25, 25), 20, 10)
	after1 := buf.Snapshot()
	e.Mosaic(geom.Pt(27, 24), 20, 10)

	// The second stroke re-averages already uniform blocks on the same grid,
	// so blocks pixelated by both strokes keep their colour.
	block := image.Rect(20, 20, 30, 30)
	assertUniform(t, buf, block, after1.NRGBAAt(20, 20))
}

func TestMosaic_ClampedAtBufferEdge(t *testing.T) {
	buf := createNoise(30, 30, 4)
	orig := buf.Snapshot()
	NewEngine(buf).Mosaic(geom.Pt(0, 0), 40, 10)

	block := image.Rect(0, 0, 10, 10)
	assertUniform(t, buf, block, blockMean(orig, block))
}

func TestMosaicPolygon_InsideBlocksOnly(t *testing.T) {
	buf := createCheckerboard(60, 60)
	e := NewEngine(buf)

	square := geom.Polygon{geom.Pt(10, 10), geom.Pt(40, 10), geom.Pt(40, 40), geom.Pt(10, 40)}
	e.MosaicPolygon(square, 10)

	assertUniform(t, buf, image.Rect(10, 10, 40, 40), gray)
	if buf.At(5, 5) == gray || buf.At(45, 45) == gray {
		t.Error("polygon mosaic touched blocks outside the polygon")
	}
}

func TestMosaicPolygon_Degenerate(t *testing.T) {
	buf := createCheckerboard(20, 20)
	before := buf.Snapshot()
	NewEngine(buf).MosaicPolygon(geom.Polygon{geom.Pt(0, 0), geom.Pt(19, 19)}, 4)
	if !buf.Equal(before) {
		t.Error("two-vertex polygon should be a no-op")
	}
}

func TestMosaicPolygonInverse_RestoresInterior(t *testing.T) {
	buf := createCheckerboard(40, 40)
	orig := buf.Snapshot()
	e := NewEngine(buf)

	tri := geom.Polygon{geom.Pt(8, 8), geom.Pt(32, 8), geom.Pt(20, 32)}
	e.MosaicPolygonInverse(tri, 4)

	for y := 0; y < 40; y++ {
		for x := 0; x < 40; x++ {
			inside := tri.Contains(float64(x)+0.5, float64(y)+0.5)
			got := buf.At(x, y)
			if inside && got != orig.NRGBAAt(x, y) {
				t.Fatalf("pixel (%d,%d) inside polygon was not restored", x, y)
			}
			if !inside && got != gray {
				t.Fatalf("pixel (%d,%d) outside polygon = %v, want mosaic gray", x, y, got)
			}
		}
	}
}

func TestMosaicPolygonInverse_SelfIntersecting(t *testing.T) {
	buf := createCheckerboard(40, 40)
	orig := buf.Snapshot()

	bowtie := geom.Polygon{geom.Pt(0, 0), geom.Pt(40, 40), geom.Pt(40, 0), geom.Pt(0, 40)}
	NewEngine(buf).MosaicPolygonInverse(bowtie, 2)

	// Lobes are restored, notches stay mosaicked.
	if buf.At(4, 20) != orig.NRGBAAt(4, 20) {
		t.Error("left lobe should be restored")
	}
	if buf.At(36, 20) != orig.NRGBAAt(36, 20) {
		t.Error("right lobe should be restored")
	}
	if buf.At(20, 4) != gray || buf.At(20, 36) != gray {
		t.Error("notches outside the even-odd interior should stay mosaicked")
	}
}

func TestApplyDispatch(t *testing.T) {
	brush := Brush{Size: 4, Kind: Mosaic} // block size 2

	buf := createCheckerboard(20, 20)
	NewEngine(buf).ApplyRect(geom.Rect{X: 0, Y: 0, Width: 10, Height: 10}, Mosaic, true, brush)
	if buf.At(2, 2) == gray || buf.At(14, 14) != gray {
		t.Error("ApplyRect inverse should mosaic outside the rect only")
	}

	buf = createCheckerboard(20, 20)
	square := geom.Polygon{geom.Pt(0, 0), geom.Pt(10, 0), geom.Pt(10, 10), geom.Pt(0, 10)}
	NewEngine(buf).ApplyPolygon(square, Mosaic, false, brush)
	if buf.At(2, 2) != gray || buf.At(14, 14) == gray {
		t.Error("ApplyPolygon direct should mosaic inside the polygon only")
	}
}
