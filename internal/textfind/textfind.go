package textfind

import (
	"context"
	"image"
	"sort"

	"github.com/ironsheep/photo-redact/internal/geom"
)

// Region is a located text area in intrinsic pixel coordinates.
type Region struct {
	// Bounds is the bounding box of the text.
	Bounds image.Rectangle `json:"bounds"`

	// Text is the recognised content. Empty for heuristic finders.
	Text string `json:"text,omitempty"`

	// Confidence is the finder's certainty in [0, 1].
	Confidence float64 `json:"confidence"`
}

// Finder locates text regions in an image.
type Finder interface {
	Find(ctx context.Context, img image.Image) ([]Region, error)
}

// Options selects and tunes a finder.
type Options struct {
	// Language is the Tesseract language code, "eng" when empty.
	Language string

	// MinConfidence drops regions below this certainty.
	MinConfidence float64
}

// New returns a TesseractFinder when OCR support is compiled in and an
// EdgeFinder otherwise.
func New(opts Options) Finder {
	if Available() {
		return &TesseractFinder{Language: opts.Language, MinConfidence: opts.MinConfidence}
	}
	return &EdgeFinder{MinConfidence: opts.MinConfidence}
}

// Rects converts regions to selection rectangles grown by pad pixels on
// every side and clipped to bounds. Regions that end up empty are dropped.
func Rects(regions []Region, pad int, bounds image.Rectangle) []geom.Rect {
	out := make([]geom.Rect, 0, len(regions))
	for _, r := range regions {
		b := r.Bounds.Inset(-pad).Intersect(bounds)
		if b.Empty() {
			continue
		}
		out = append(out, geom.FromPixels(b))
	}
	return out
}

// mergeOverlapping unions regions whose bounds overlap until no two overlap,
// keeping the highest confidence of each group. The result is sorted by
// descending confidence.
func mergeOverlapping(regions []Region) []Region {
	merged := make([]Region, 0, len(regions))
	for _, r := range regions {
		merged = append(merged, r)
		// Absorbing a region can make the union overlap earlier ones, so keep
		// folding until stable.
		for changed := true; changed; {
			changed = false
			last := &merged[len(merged)-1]
			for i := 0; i < len(merged)-1; i++ {
				if !merged[i].Bounds.Overlaps(last.Bounds) {
					continue
				}
				last.Bounds = last.Bounds.Union(merged[i].Bounds)
				last.Confidence = max(last.Confidence, merged[i].Confidence)
				if last.Text == "" {
					last.Text = merged[i].Text
				}
				merged = append(merged[:i], merged[i+1:]...)
				changed = true
				break
			}
		}
	}

	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].Confidence > merged[j].Confidence
	})
	return merged
}
