package source

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/gif"  // Register GIF format decoder
	_ "image/jpeg" // Register JPEG format decoder
	_ "image/png"  // Register PNG format decoder
	"io"
	"net/url"
	"path"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
)

// Source acquires an image by target.
type Source interface {
	Acquire(ctx context.Context, target string) (*Decoded, error)
}

// Decoded is an acquired image ready for editing.
type Decoded struct {
	// Image holds the decoded, orientation-corrected pixels.
	Image *image.NRGBA

	// Format is the detected encoding: "png", "jpeg" or "gif".
	Format string

	// Name is the last path segment of the target, without its extension.
	// It seeds the download filename.
	Name string
}

// Width returns the image width in pixels.
func (d *Decoded) Width() int { return d.Image.Rect.Dx() }

// Height returns the image height in pixels.
func (d *Decoded) Height() int { return d.Image.Rect.Dy() }

// Decode reads an encoded image from r.
//
// Parameters:
//   - r: The encoded bytes. PNG, JPEG and GIF are supported.
//   - target: The path or URL the bytes came from; only used for Name.
//
// Returns:
//   - *Decoded: The decoded image with EXIF orientation applied.
//   - error: Non-nil if r cannot be read or is not a supported image, or if
//     the image has no pixels.
func Decode(r io.Reader, target string) (*Decoded, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read image: %w", err)
	}

	_, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	if img.Bounds().Empty() {
		return nil, fmt.Errorf("image %q has no pixels", target)
	}

	return &Decoded{
		Image:  imaging.Clone(img),
		Format: format,
		Name:   NameFromTarget(target),
	}, nil
}

// NameFromTarget extracts the last path segment of a file path or URL and
// strips its extension. Query strings and fragments are ignored.
func NameFromTarget(target string) string {
	p := target
	if u, err := url.Parse(target); err == nil && u.Scheme != "" && u.Host != "" {
		p = u.Path
	}
	base := path.Base(filepath.ToSlash(p))
	if base == "." || base == "/" {
		return ""
	}
	if unescaped, err := url.PathUnescape(base); err == nil {
		base = unescaped
	}
	return strings.TrimSuffix(base, path.Ext(base))
}

// clone returns an independent copy of d.
func (d *Decoded) clone() *Decoded {
	c := *d
	c.Image = imaging.Clone(d.Image)
	return &c
}
