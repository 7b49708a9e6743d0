//go:build cgo

package textfind

import (
	"context"
	"fmt"
	"image"
	"strings"

	"github.com/otiai10/gosseract/v2"

	"github.com/ironsheep/photo-redact/internal/export"
)

// Available reports whether Tesseract OCR is compiled in.
func Available() bool { return true }

// TesseractFinder returns Tesseract word boxes.
type TesseractFinder struct {
	// Language is the Tesseract language code, "eng" when empty. The
	// matching traineddata must be installed.
	Language string

	// MinConfidence drops words below this certainty (0 to 1).
	MinConfidence float64
}

// Find runs OCR over img and returns one region per recognised word.
// Words that are empty or below MinConfidence are skipped. Boxes are
// reported in img's coordinate space.
func (f *TesseractFinder) Find(ctx context.Context, img image.Image) ([]Region, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := export.Encode(img, export.PNG)
	if err != nil {
		return nil, fmt.Errorf("failed to encode image for OCR: %w", err)
	}

	client := gosseract.NewClient()
	defer client.Close()

	lang := f.Language
	if lang == "" {
		lang = "eng"
	}
	if err := client.SetLanguage(strings.Split(lang, "+")...); err != nil {
		return nil, fmt.Errorf("failed to set language: %w", err)
	}
	if err := client.SetImageFromBytes(data); err != nil {
		return nil, fmt.Errorf("failed to set image: %w", err)
	}

	boxes, err := client.GetBoundingBoxes(gosseract.RIL_WORD)
	if err != nil {
		return nil, fmt.Errorf("OCR failed: %w", err)
	}

	origin := img.Bounds().Min
	regions := make([]Region, 0, len(boxes))
	for _, box := range boxes {
		word := strings.TrimSpace(box.Word)
		conf := float64(box.Confidence) / 100.0
		if word == "" || conf < f.MinConfidence {
			continue
		}
		regions = append(regions, Region{
			Bounds:     box.Box.Add(origin),
			Text:       word,
			Confidence: conf,
		})
	}
	return regions, nil
}
