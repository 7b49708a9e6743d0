package effect

import (
	"fmt"
	"math"
	"strings"
)

// Kind selects which redaction effect is applied.
type Kind int

const (
	// Mosaic replaces blocks of pixels with their average colour.
	Mosaic Kind = iota
	// Blur smooths pixels with a Gaussian filter.
	Blur
)

// String returns the lower-case name of the effect.
func (k Kind) String() string {
	switch k {
	case Mosaic:
		return "mosaic"
	case Blur:
		return "blur"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// ParseKind converts "mosaic" or "blur" (any case) into a Kind.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "mosaic", "":
		return Mosaic, nil
	case "blur":
		return Blur, nil
	default:
		return Mosaic, fmt.Errorf("unknown effect: %s", s)
	}
}

// Brush size limits and presets, in intrinsic pixels.
const (
	MinBrushSize     = 10
	MaxBrushSize     = 200
	DefaultBrushSize = 50

	PresetSmall  = 20
	PresetMedium = 50
	PresetLarge  = 100
)

// ClampBrushSize constrains a requested brush diameter to [MinBrushSize, MaxBrushSize].
func ClampBrushSize(n int) int {
	return clampInt(n, MinBrushSize, MaxBrushSize)
}

// Brush is the freehand tool configuration.
type Brush struct {
	Size int  `json:"size"`
	Kind Kind `json:"kind"`
}

// BlockSize returns the mosaic block edge length: round(Size/2), at least 1.
func (b Brush) BlockSize() int {
	return BlockSizeFor(b.Size)
}

// Intensity returns the blur strength: round(Size/15) clamped to [2, 20].
func (b Brush) Intensity() int {
	return IntensityFor(b.Size)
}

// BlockSizeFor derives the mosaic block size from a brush diameter.
func BlockSizeFor(size int) int {
	return max(1, int(math.Round(float64(size)/2)))
}

// IntensityFor derives the blur intensity from a brush diameter.
func IntensityFor(size int) int {
	return clampInt(int(math.Round(float64(size)/15)), 2, 20)
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
