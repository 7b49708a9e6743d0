// Package export encodes the edited buffer and hands the bytes to a download
// sink under a generated filename.
package export

import (
	"bytes"
	"fmt"
	"image"
	"strings"

	"github.com/disintegration/imaging"
)

// JPEGQuality is the quality used for JPEG exports.
const JPEGQuality = 90

// Format is an export encoding.
type Format int

const (
	PNG Format = iota
	JPEG
)

// ParseFormat accepts "png", "jpeg" or "jpg" in any case. The empty string
// selects PNG.
func ParseFormat(s string) (Format, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return PNG, nil
	}
	f, err := imaging.FormatFromExtension(s)
	if err != nil {
		return PNG, fmt.Errorf("unsupported export format: %s", s)
	}
	switch f {
	case imaging.PNG:
		return PNG, nil
	case imaging.JPEG:
		return JPEG, nil
	}
	return PNG, fmt.Errorf("unsupported export format: %s", s)
}

func (f Format) String() string {
	if f == JPEG {
		return "jpeg"
	}
	return "png"
}

// Ext returns the filename extension without the dot.
func (f Format) Ext() string {
	if f == JPEG {
		return "jpg"
	}
	return "png"
}

// MIMEType returns the media type of the encoding.
func (f Format) MIMEType() string {
	if f == JPEG {
		return "image/jpeg"
	}
	return "image/png"
}

// MarshalText implements encoding.TextMarshaler.
func (f Format) MarshalText() ([]byte, error) {
	return []byte(f.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (f *Format) UnmarshalText(b []byte) error {
	v, err := ParseFormat(string(b))
	if err != nil {
		return err
	}
	*f = v
	return nil
}

// Encode serialises img. PNG is lossless; JPEG uses JPEGQuality and drops
// alpha.
func Encode(img image.Image, f Format) ([]byte, error) {
	var buf bytes.Buffer
	var err error
	switch f {
	case JPEG:
		err = imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(JPEGQuality))
	case PNG:
		err = imaging.Encode(&buf, img, imaging.PNG)
	default:
		return nil, fmt.Errorf("unsupported export format: %d", int(f))
	}
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s: %w", f, err)
	}
	return buf.Bytes(), nil
}
