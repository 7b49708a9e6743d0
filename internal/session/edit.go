package session

import (
	"context"
	"fmt"
	"image"

	"github.com/ironsheep/photo-redact/internal/effect"
	"github.com/ironsheep/photo-redact/internal/geom"
	"github.com/ironsheep/photo-redact/internal/selection"
	"github.com/ironsheep/photo-redact/internal/textfind"
)

// Undo restores the previous history entry. It reports whether anything
// changed.
func (s *Session) Undo() bool {
	if s.closed {
		return false
	}
	snap, ok := s.history.Undo()
	if !ok {
		return false
	}
	return s.restore(snap, "undo")
}

// Redo re-applies the next history entry. It reports whether anything
// changed.
func (s *Session) Redo() bool {
	if s.closed {
		return false
	}
	snap, ok := s.history.Redo()
	if !ok {
		return false
	}
	return s.restore(snap, "redo")
}

// ApplyPendingSelection applies the current tool's effect to the pending
// selection, or to its complement when inverse is set.
func (s *Session) ApplyPendingSelection(inverse bool) bool {
	return s.ApplyPendingSelectionEffect(s.machine.Mode().Effect(), inverse)
}

// ApplyPendingSelectionDefault applies the pending selection the way the
// current mode implies: inverse modes redact the outside.
func (s *Session) ApplyPendingSelectionDefault() bool {
	m := s.machine.Mode()
	return s.ApplyPendingSelectionEffect(m.Effect(), m.Inverse())
}

// ApplyPendingSelectionEffect applies kind to the pending selection, or to its
// complement when inverse is set, as one undoable edit. It reports whether a
// selection was pending.
func (s *Session) ApplyPendingSelectionEffect(kind effect.Kind, inverse bool) bool {
	if s.closed {
		return false
	}
	sel := s.machine.Pending()
	res := s.machine.Apply(kind, inverse)
	if !res.Commit {
		return false
	}
	s.logger.Debug("selection applied", "shape", sel.Shape, "effect", kind, "inverse", inverse)
	s.apply(res)
	return true
}

// CancelPendingSelection discards a pending or in-progress selection. It
// reports whether there was one.
func (s *Session) CancelPendingSelection() bool {
	if s.closed || !s.machine.Cancel() {
		return false
	}
	s.changed(false)
	return true
}

// RedactRegions applies kind to every rectangle as a single undoable edit,
// using the current brush size for block size and intensity. It returns the
// number of rectangles that covered at least one pixel.
func (s *Session) RedactRegions(rects []geom.Rect, kind effect.Kind) int {
	if s.closed {
		return 0
	}
	bounds := s.buf.Bounds()
	brush := effect.Brush{Size: s.machine.BrushSize(), Kind: kind}
	n := 0
	for _, r := range rects {
		if r.Pixels(bounds).Empty() {
			continue
		}
		s.engine.ApplyRect(r, kind, false, brush)
		n++
	}
	if n > 0 {
		s.logger.Debug("regions redacted", "count", n, "effect", kind)
		s.apply(selection.Result{Painted: true, Commit: true})
	}
	return n
}

// FindText locates text-like regions in the current pixels.
func (s *Session) FindText(ctx context.Context, finder textfind.Finder) ([]textfind.Region, error) {
	if s.closed {
		return nil, ErrClosed
	}
	regions, err := finder.Find(ctx, s.buf.Snapshot())
	if err != nil {
		return nil, fmt.Errorf("failed to find text: %w", err)
	}
	return regions, nil
}

// RedactText finds text with finder and redacts every region, grown by pad
// pixels, as a single undoable edit. It returns the regions found.
func (s *Session) RedactText(ctx context.Context, finder textfind.Finder, pad int, kind effect.Kind) ([]textfind.Region, error) {
	regions, err := s.FindText(ctx, finder)
	if err != nil {
		return nil, err
	}
	s.RedactRegions(textfind.Rects(regions, pad, s.buf.Bounds()), kind)
	return regions, nil
}

// restore copies a history entry into the buffer. A pending selection keeps
// its geometry since the buffer size never changes.
func (s *Session) restore(snap *image.NRGBA, op string) bool {
	if err := s.buf.Restore(snap); err != nil {
		s.logger.Error("history restore failed", "op", op, "error", err)
		return false
	}
	s.logger.Debug(op, "history_index", s.history.Index())
	s.changed(true)
	return true
}
