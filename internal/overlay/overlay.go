// Package overlay renders the editor chrome (selection outline, polygon
// vertices, hover segment and brush cursor) on top of the working image, for
// hosts that show a flat preview instead of drawing their own UI.
package overlay

import (
	"encoding/base64"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"
	"strconv"

	"github.com/disintegration/imaging"
	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"

	"github.com/ironsheep/photo-redact/internal/export"
	"github.com/ironsheep/photo-redact/internal/geom"
)

// Defaults for Style fields left at their zero value.
const (
	DefaultColor = "#00c8ff"
	DefaultAlpha = 0.9
	fillAlpha    = 0.18
)

// Style controls how the chrome is drawn.
type Style struct {
	// Color is the outline colour as "#rrggbb" or "#rgb".
	Color string `json:"color,omitempty"`

	// Alpha is the outline opacity in [0, 1].
	Alpha float64 `json:"alpha,omitempty"`

	// LineWidth is the outline width in intrinsic pixels. Zero picks a width
	// proportional to the image size.
	LineWidth float64 `json:"line_width,omitempty"`

	// Labels numbers the polygon vertices.
	Labels bool `json:"labels,omitempty"`

	// Scale resizes the rendered preview. Zero or one keeps the intrinsic size.
	Scale float64 `json:"scale,omitempty"`
}

// Scene is the chrome to draw, in intrinsic pixel coordinates.
type Scene struct {
	// Rect is a rectangle selection, live or pending.
	Rect *geom.Rect

	// Polygon holds polygon vertices, live or pending.
	Polygon geom.Polygon

	// Closed draws the closing edge of Polygon and tints its interior.
	Closed bool

	// Hover extends an open polygon towards the pointer.
	Hover *geom.Point

	// Brush draws a cursor circle of BrushDiameter around Brush.
	Brush         *geom.Point
	BrushDiameter float64
}

// Result contains the encoded preview.
type Result struct {
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	ImageBase64 string `json:"image_base64"`
	MimeType    string `json:"mime_type"`
}

// Render draws scene over img and returns it as a base64 PNG.
func Render(img image.Image, scene Scene, style Style) (*Result, error) {
	out, err := Draw(img, scene, style)
	if err != nil {
		return nil, err
	}

	data, err := export.Encode(out, export.PNG)
	if err != nil {
		return nil, fmt.Errorf("failed to encode preview: %w", err)
	}

	return &Result{
		Width:       out.Bounds().Dx(),
		Height:      out.Bounds().Dy(),
		ImageBase64: base64.StdEncoding.EncodeToString(data),
		MimeType:    export.PNG.MIMEType(),
	}, nil
}

// Draw returns a copy of img with scene drawn on top. img is not modified.
func Draw(img image.Image, scene Scene, style Style) (image.Image, error) {
	stroke, err := ParseColor(style.Color, style.Alpha)
	if err != nil {
		return nil, err
	}

	bounds := img.Bounds()
	canvas := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(canvas, canvas.Rect, img, bounds.Min, draw.Src)

	p := &painter{
		dst:   canvas,
		ras:   vector.NewRasterizer(canvas.Rect.Dx(), canvas.Rect.Dy()),
		width: lineWidth(style.LineWidth, canvas.Rect),
	}
	fill := withAlpha(stroke, fillAlpha)

	if r := scene.Rect; r != nil && !r.Empty() {
		p.fillRect(*r, fill)
		p.polyline(rectCorners(*r), true, stroke)
	}

	if n := len(scene.Polygon); n > 0 {
		if scene.Closed && scene.Polygon.Valid() {
			p.fillMask(scene.Polygon, fill)
		}
		p.polyline(scene.Polygon, scene.Closed, stroke)
		if !scene.Closed && scene.Hover != nil {
			p.segment(scene.Polygon[n-1], *scene.Hover, withAlpha(stroke, 0.5))
		}
		for i, v := range scene.Polygon {
			p.marker(v, stroke)
			if style.Labels {
				p.label(v, strconv.Itoa(i+1), stroke)
			}
		}
	}

	if scene.Brush != nil && scene.BrushDiameter > 0 {
		p.circle(*scene.Brush, scene.BrushDiameter/2, stroke)
	}

	if s := style.Scale; s > 0 && s != 1 {
		w := max(1, int(math.Round(float64(canvas.Rect.Dx())*s)))
		h := max(1, int(math.Round(float64(canvas.Rect.Dy())*s)))
		return imaging.Resize(canvas, w, h, imaging.Lanczos), nil
	}
	return canvas, nil
}

// ParseColor parses a "#rrggbb" or "#rgb" colour with the given opacity. An
// empty string selects DefaultColor and a zero alpha selects DefaultAlpha.
func ParseColor(hex string, alpha float64) (color.NRGBA, error) {
	if hex == "" {
		hex = DefaultColor
	}
	if alpha <= 0 {
		alpha = DefaultAlpha
	}
	c, err := colorful.Hex(hex)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("invalid overlay color %q: %w", hex, err)
	}
	r, g, b := c.RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: uint8(math.Round(math.Min(alpha, 1) * 255))}, nil
}

// LabelColor returns black or white, whichever reads better on bg according
// to CIE L*.
func LabelColor(bg color.NRGBA) color.NRGBA {
	c := colorful.Color{R: float64(bg.R) / 255, G: float64(bg.G) / 255, B: float64(bg.B) / 255}
	l, _, _ := c.Lab()
	if l > 0.6 {
		return color.NRGBA{A: 255}
	}
	return color.NRGBA{R: 255, G: 255, B: 255, A: 255}
}

func withAlpha(c color.NRGBA, a float64) color.NRGBA {
	c.A = uint8(math.Round(float64(c.A) * a))
	return c
}

func lineWidth(requested float64, r image.Rectangle) float64 {
	if requested > 0 {
		return requested
	}
	return math.Max(2, float64(max(r.Dx(), r.Dy()))/400)
}

func rectCorners(r geom.Rect) geom.Polygon {
	return geom.Polygon{
		geom.Pt(r.X, r.Y),
		geom.Pt(r.MaxX(), r.Y),
		geom.Pt(r.MaxX(), r.MaxY()),
		geom.Pt(r.X, r.MaxY()),
	}
}

// painter draws anti-aliased shapes into an RGBA canvas.
type painter struct {
	dst   *image.RGBA
	ras   *vector.Rasterizer
	width float64
}

func (p *painter) flush(c color.NRGBA) {
	p.ras.DrawOp = draw.Over
	p.ras.Draw(p.dst, p.dst.Rect, image.NewUniform(c), image.Point{})
	p.ras.Reset(p.dst.Rect.Dx(), p.dst.Rect.Dy())
}

// quad adds the rectangle of half-width hw around segment a→b to the path.
func (p *painter) quad(a, b geom.Point, hw float64) {
	d := b.Sub(a)
	n := math.Hypot(d.X, d.Y)
	if n == 0 {
		return
	}
	nx, ny := -d.Y/n*hw, d.X/n*hw
	p.ras.MoveTo(float32(a.X+nx), float32(a.Y+ny))
	p.ras.LineTo(float32(b.X+nx), float32(b.Y+ny))
	p.ras.LineTo(float32(b.X-nx), float32(b.Y-ny))
	p.ras.LineTo(float32(a.X-nx), float32(a.Y-ny))
	p.ras.ClosePath()
}

func (p *painter) segment(a, b geom.Point, c color.NRGBA) {
	p.quad(a, b, p.width/2)
	p.flush(c)
}

// polyline strokes consecutive vertices, and the closing edge when closed.
// Each edge is flushed on its own so overlapping joints do not cancel out.
func (p *painter) polyline(pts geom.Polygon, closed bool, c color.NRGBA) {
	for i := 1; i < len(pts); i++ {
		p.segment(pts[i-1], pts[i], c)
	}
	if closed && len(pts) > 2 {
		p.segment(pts[len(pts)-1], pts[0], c)
	}
}

func (p *painter) fillRect(r geom.Rect, c color.NRGBA) {
	p.ras.MoveTo(float32(r.X), float32(r.Y))
	p.ras.LineTo(float32(r.MaxX()), float32(r.Y))
	p.ras.LineTo(float32(r.MaxX()), float32(r.MaxY()))
	p.ras.LineTo(float32(r.X), float32(r.MaxY()))
	p.ras.ClosePath()
	p.flush(c)
}

// fillMask tints the even-odd interior of pg, matching what the effect
// engine treats as inside.
func (p *painter) fillMask(pg geom.Polygon, c color.NRGBA) {
	window := pg.Bounds().Pixels(p.dst.Rect)
	mask := pg.Mask(window)
	src := image.NewUniform(c)
	for y := window.Min.Y; y < window.Max.Y; y++ {
		for x := window.Min.X; x < window.Max.X; x++ {
			if mask.At(x, y) {
				draw.Draw(p.dst, image.Rect(x, y, x+1, y+1), src, image.Point{}, draw.Over)
			}
		}
	}
}

func (p *painter) marker(v geom.Point, c color.NRGBA) {
	h := p.width * 1.5
	p.ras.MoveTo(float32(v.X-h), float32(v.Y-h))
	p.ras.LineTo(float32(v.X+h), float32(v.Y-h))
	p.ras.LineTo(float32(v.X+h), float32(v.Y+h))
	p.ras.LineTo(float32(v.X-h), float32(v.Y+h))
	p.ras.ClosePath()
	p.flush(c)
}

func (p *painter) circle(center geom.Point, radius float64, c color.NRGBA) {
	const segments = 48
	prev := geom.Pt(center.X+radius, center.Y)
	for i := 1; i <= segments; i++ {
		a := 2 * math.Pi * float64(i) / segments
		next := geom.Pt(center.X+radius*math.Cos(a), center.Y+radius*math.Sin(a))
		p.quad(prev, next, p.width/4)
		p.flush(c)
		prev = next
	}
}

// label draws text on a filled box just right of and below v.
func (p *painter) label(v geom.Point, text string, bg color.NRGBA) {
	face := basicfont.Face7x13
	w := font.MeasureString(face, text).Ceil()
	x := int(math.Round(v.X + p.width*2))
	y := int(math.Round(v.Y + p.width*2))
	box := image.Rect(x-2, y, x+w+2, y+face.Height)

	solid := bg
	solid.A = 255
	draw.Draw(p.dst, box, image.NewUniform(solid), image.Point{}, draw.Over)

	d := &font.Drawer{
		Dst:  p.dst,
		Src:  image.NewUniform(LabelColor(solid)),
		Face: face,
		Dot:  fixed.P(x, y+face.Ascent),
	}
	d.DrawString(text)
}
