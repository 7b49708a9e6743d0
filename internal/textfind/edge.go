package textfind

import (
	"context"
	"image"
	"math"

	"github.com/disintegration/imaging"
)

// edgeThreshold is the grayscale step that marks a pixel as an edge.
const edgeThreshold = 30

// Density band accepted as text-like. Sparse windows are background; dense
// windows are texture or noise.
const (
	minDensity    = 0.05
	maxDensity    = 0.4
	targetDensity = 0.2
)

// windowSizes are the sliding windows tried, roughly one per text size.
var windowSizes = []struct{ w, h int }{
	{80, 25},
	{100, 30},
	{150, 40},
	{200, 50},
}

// EdgeFinder detects text by edge density. It never reads text content.
type EdgeFinder struct {
	MinConfidence float64
}

// Find slides text-sized windows over img and keeps those whose edge density
// and horizontal structure look like text. Overlapping hits are merged.
func (f *EdgeFinder) Find(ctx context.Context, img image.Image) ([]Region, error) {
	b := img.Bounds()
	width, height := b.Dx(), b.Dy()
	edges := detectEdges(img)
	sum := newIntegral(edges, width, height)

	var candidates []Region
	for _, ws := range windowSizes {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		stepX, stepY := ws.w/2, ws.h/2
		area := float64(ws.w * ws.h)

		for y := 0; y+ws.h <= height; y += stepY {
			for x := 0; x+ws.w <= width; x += stepX {
				density := float64(sum.count(x, y, ws.w, ws.h)) / area
				if density < minDensity || density > maxDensity {
					continue
				}

				score := horizontalScore(edges, width, x, y, ws.w, ws.h)
				confidence := score * (1 - math.Abs(density-targetDensity)/targetDensity)
				if confidence < f.MinConfidence {
					continue
				}
				candidates = append(candidates, Region{
					Bounds:     image.Rect(x, y, x+ws.w, y+ws.h).Add(b.Min),
					Confidence: math.Round(confidence*1000) / 1000,
				})
			}
		}
	}

	return mergeOverlapping(candidates), nil
}

// detectEdges marks pixels whose grayscale value differs from the right or
// lower neighbour by more than edgeThreshold. The result is row-major with
// the image's width; border pixels are never edges.
func detectEdges(img image.Image) []bool {
	gray := imaging.Grayscale(img)
	w, h := gray.Rect.Dx(), gray.Rect.Dy()
	edges := make([]bool, w*h)

	at := func(x, y int) int { return int(gray.Pix[gray.PixOffset(x, y)]) }
	for y := 1; y < h-1; y++ {
		for x := 1; x < w-1; x++ {
			c := at(x, y)
			if abs(c-at(x+1, y)) > edgeThreshold || abs(c-at(x, y+1)) > edgeThreshold {
				edges[y*w+x] = true
			}
		}
	}
	return edges
}

// horizontalScore is the share of horizontal runs among all edge runs in the
// window. Lines of text produce more horizontal than vertical runs.
func horizontalScore(edges []bool, stride, x, y, w, h int) float64 {
	var hruns, vruns int
	for row := y; row < y+h; row++ {
		in := false
		for col := x; col < x+w; col++ {
			e := edges[row*stride+col]
			if e && !in {
				hruns++
			}
			in = e
		}
	}
	for col := x; col < x+w; col++ {
		in := false
		for row := y; row < y+h; row++ {
			e := edges[row*stride+col]
			if e && !in {
				vruns++
			}
			in = e
		}
	}
	if hruns+vruns == 0 {
		return 0
	}
	return float64(hruns) / float64(hruns+vruns)
}

// integral is a summed-area table over an edge map.
type integral struct {
	stride int
	sums   []int
}

func newIntegral(edges []bool, w, h int) *integral {
	s := &integral{stride: w + 1, sums: make([]int, (w+1)*(h+1))}
	for y := 0; y < h; y++ {
		row := 0
		for x := 0; x < w; x++ {
			if edges[y*w+x] {
				row++
			}
			s.sums[(y+1)*s.stride+x+1] = s.sums[y*s.stride+x+1] + row
		}
	}
	return s
}

// count returns the number of edges in the w×h window at (x, y).
func (s *integral) count(x, y, w, h int) int {
	at := func(x, y int) int { return s.sums[y*s.stride+x] }
	return at(x+w, y+h) - at(x, y+h) - at(x+w, y) + at(x, y)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
