package session

import (
	"strings"

	"github.com/ironsheep/photo-redact/internal/geom"
	"github.com/ironsheep/photo-redact/internal/selection"
)

// Brush size presets bound to the 1, 2 and 3 keys.
var brushPresets = map[string]int{"1": 20, "2": 50, "3": 100}

// Action names a host-side effect requested by a key press.
type Action string

const (
	ActionNone   Action = ""
	ActionExport Action = "export"
	ActionClose  Action = "close"
)

// KeyEvent is a key press as reported by the host.
type KeyEvent struct {
	// Key is the key value, e.g. "z", "Escape" or "1".
	Key   string `json:"key"`
	Ctrl  bool   `json:"ctrl,omitempty"`
	Meta  bool   `json:"meta,omitempty"`
	Shift bool   `json:"shift,omitempty"`
	Alt   bool   `json:"alt,omitempty"`

	// InFormField is set when focus is in a text input. Only modifier
	// shortcuts and Escape are handled then.
	InFormField bool `json:"in_form_field,omitempty"`
}

// KeyResult reports how a key press was handled.
type KeyResult struct {
	Handled bool   `json:"handled"`
	Action  Action `json:"action,omitempty"`
	// Closed is set when Escape closed the session.
	Closed bool `json:"closed,omitempty"`
}

// HandlePointerDown forwards a primary-button press in device coordinates.
func (s *Session) HandlePointerDown(p geom.Point) {
	if s.closed {
		return
	}
	s.apply(s.machine.PointerDown(p))
}

// HandlePointerMove forwards pointer motion in device coordinates.
func (s *Session) HandlePointerMove(p geom.Point) {
	if s.closed {
		return
	}
	s.apply(s.machine.PointerMove(p))
}

// HandlePointerUp forwards a primary-button release in device coordinates.
func (s *Session) HandlePointerUp(p geom.Point) {
	if s.closed {
		return
	}
	s.apply(s.machine.PointerUp(p))
}

// HandleDoubleClick forwards a double click in device coordinates.
func (s *Session) HandleDoubleClick(p geom.Point) {
	if s.closed {
		return
	}
	s.apply(s.machine.DoubleClick(p))
}

// HandleKey dispatches a keyboard shortcut.
//
// Mod (Ctrl or Meta) + Z undoes, Mod+Y and Mod+Shift+Z redo, and Mod+S asks
// the host to export. Enter applies a pending selection the way the current
// mode implies. Escape commits a brush stroke in progress, cancels a
// selection in progress or pending, and otherwise requests close. Outside form fields, M, B, I, O, P and Shift+P
// pick tools and 1, 2, 3 pick brush presets.
func (s *Session) HandleKey(ev KeyEvent) KeyResult {
	if s.closed {
		return KeyResult{}
	}
	key := strings.ToLower(ev.Key)
	mod := ev.Ctrl || ev.Meta

	switch {
	case mod && key == "z" && !ev.Shift:
		s.Undo()
		return KeyResult{Handled: true}
	case mod && (key == "y" || key == "z"):
		s.Redo()
		return KeyResult{Handled: true}
	case mod && key == "s":
		return KeyResult{Handled: true, Action: ActionExport}
	case key == "enter" && !mod:
		return KeyResult{Handled: s.ApplyPendingSelectionDefault()}
	case key == "escape" || key == "esc":
		s.apply(s.machine.EndStroke())
		if s.CancelPendingSelection() {
			return KeyResult{Handled: true}
		}
		closed := s.RequestClose()
		return KeyResult{Handled: true, Action: ActionClose, Closed: closed}
	}

	if ev.InFormField || mod || ev.Alt {
		return KeyResult{}
	}

	if size, ok := brushPresets[key]; ok {
		s.SetBrushSize(size)
		return KeyResult{Handled: true}
	}

	var mode selection.Mode
	switch key {
	case "m":
		mode = selection.BrushMosaic
	case "b":
		mode = selection.BrushBlur
	case "i":
		mode = selection.RectSelect
	case "o":
		mode = selection.RectSelectInverse
	case "p":
		mode = selection.PolygonSelect
		if ev.Shift {
			mode = selection.PolygonSelectInverse
		}
	default:
		return KeyResult{}
	}
	s.SetMode(mode)
	return KeyResult{Handled: true}
}

// apply records a committed edit and notifies listeners.
func (s *Session) apply(res selection.Result) {
	if res.Commit {
		s.history.Push(s.buf.Snapshot())
		s.logger.Debug("edit committed", "history_index", s.history.Index())
	}
	s.changed(res.Painted || res.Commit)
}
