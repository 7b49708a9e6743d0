package session

import (
	"context"
	"fmt"

	"github.com/ironsheep/photo-redact/internal/export"
	"github.com/ironsheep/photo-redact/internal/overlay"
	"github.com/ironsheep/photo-redact/internal/selection"
)

// ExportRaster encodes the current pixels at full intrinsic resolution.
func (s *Session) ExportRaster(f export.Format) ([]byte, error) {
	if s.closed {
		return nil, ErrClosed
	}
	data, err := export.Encode(s.buf.Image(), f)
	if err != nil {
		return nil, &ExportError{Format: f, Err: err}
	}
	return data, nil
}

// FileName returns the download name an export in format f would use now.
func (s *Session) FileName(f export.Format) string {
	return export.FileName(export.BaseName(s.alt, s.name), s.now(), f)
}

// Export encodes the current pixels and hands them to sink under a
// timestamped file name, which it returns. The session is unaffected by a
// failed export.
func (s *Session) Export(ctx context.Context, sink export.Sink, f export.Format) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", &ExportError{Format: f, Err: err}
	}
	data, err := s.ExportRaster(f)
	if err != nil {
		return "", err
	}
	name := s.FileName(f)
	if err := sink.Save(data, name, f.MIMEType()); err != nil {
		s.logger.Warn("export failed", "file", name, "error", err)
		return "", &ExportError{Format: f, Err: fmt.Errorf("failed to save %s: %w", name, err)}
	}
	s.logger.Info("image exported", "file", name, "bytes", len(data))
	return name, nil
}

// Preview renders the current pixels with the selection overlay and brush
// cursor drawn on top. It never modifies the buffer.
func (s *Session) Preview(style overlay.Style) (*overlay.Result, error) {
	if s.closed {
		return nil, ErrClosed
	}
	res, err := overlay.Render(s.buf.Image(), s.scene(), style)
	if err != nil {
		return nil, fmt.Errorf("failed to render preview: %w", err)
	}
	return res, nil
}

// scene describes what the host would draw over the image right now.
func (s *Session) scene() overlay.Scene {
	var sc overlay.Scene
	sel := s.machine.Pending()
	closed := !sel.Empty()
	if !closed {
		sel = s.machine.Live()
	}
	switch sel.Shape {
	case selection.RectShape:
		r := sel.Rect
		sc.Rect = &r
	case selection.PolygonShape:
		sc.Polygon = sel.Polygon
		sc.Closed = closed
		if h, ok := s.machine.Hover(); ok && !closed {
			sc.Hover = &h
		}
	}
	if s.machine.Mode().IsBrush() {
		if c, ok := s.machine.Cursor(); ok {
			sc.Brush = &c
			sc.BrushDiameter = float64(s.machine.BrushSize())
		}
	}
	return sc
}
