//go:build !cgo

package textfind

import (
	"context"
	"errors"
	"image"
)

// ErrUnavailable is returned by TesseractFinder in builds without cgo.
var ErrUnavailable = errors.New("tesseract OCR requires a cgo build")

// Available reports whether Tesseract OCR is compiled in.
func Available() bool { return false }

// TesseractFinder is a placeholder in builds without cgo.
type TesseractFinder struct {
	Language      string
	MinConfidence float64
}

// Find always fails with ErrUnavailable.
func (f *TesseractFinder) Find(ctx context.Context, img image.Image) ([]Region, error) {
	return nil, ErrUnavailable
}
