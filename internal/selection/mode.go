package selection

import (
	"fmt"
	"strings"

	"github.com/ironsheep/photo-redact/internal/effect"
)

// Mode is the active tool.
type Mode int

const (
	BrushMosaic Mode = iota
	BrushBlur
	RectSelect
	RectSelectInverse
	PolygonSelect
	PolygonSelectInverse
)

var modeNames = [...]string{
	BrushMosaic:          "mosaic",
	BrushBlur:            "blur",
	RectSelect:           "rect",
	RectSelectInverse:    "rect-inverse",
	PolygonSelect:        "polygon",
	PolygonSelectInverse: "polygon-inverse",
}

// Modes lists every mode in declaration order.
func Modes() []Mode {
	return []Mode{BrushMosaic, BrushBlur, RectSelect, RectSelectInverse, PolygonSelect, PolygonSelectInverse}
}

func (m Mode) String() string {
	if m.Valid() {
		return modeNames[m]
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

// Valid reports whether m is one of the declared modes.
func (m Mode) Valid() bool {
	return m >= BrushMosaic && m <= PolygonSelectInverse
}

// ParseMode converts a mode name into a Mode. Matching ignores case and
// surrounding whitespace; underscores are accepted in place of dashes.
func ParseMode(s string) (Mode, error) {
	name := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "_", "-")
	for m, n := range modeNames {
		if n == name {
			return Mode(m), nil
		}
	}
	return BrushMosaic, fmt.Errorf("unknown mode: %s", s)
}

// IsBrush reports whether m paints freehand strokes.
func (m Mode) IsBrush() bool { return m == BrushMosaic || m == BrushBlur }

// IsRect reports whether m drags out a rectangle selection.
func (m Mode) IsRect() bool { return m == RectSelect || m == RectSelectInverse }

// IsPolygon reports whether m builds a polygon selection.
func (m Mode) IsPolygon() bool { return m == PolygonSelect || m == PolygonSelectInverse }

// Inverse reports whether the mode's selections default to the complement.
func (m Mode) Inverse() bool { return m == RectSelectInverse || m == PolygonSelectInverse }

// Effect returns the effect a brush mode paints with. Selection modes default
// to mosaic.
func (m Mode) Effect() effect.Kind {
	if m == BrushBlur {
		return effect.Blur
	}
	return effect.Mosaic
}

// MarshalText implements encoding.TextMarshaler.
func (m Mode) MarshalText() ([]byte, error) {
	if !m.Valid() {
		return nil, fmt.Errorf("invalid mode %d", int(m))
	}
	return []byte(m.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *Mode) UnmarshalText(b []byte) error {
	v, err := ParseMode(string(b))
	if err != nil {
		return err
	}
	*m = v
	return nil
}

// State is the interaction state of a Machine.
type State int

const (
	Idle State = iota
	BrushPainting
	RectDragging
	PolygonBuilding
	SelectionPending
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case BrushPainting:
		return "brush-painting"
	case RectDragging:
		return "rect-dragging"
	case PolygonBuilding:
		return "polygon-building"
	case SelectionPending:
		return "selection-pending"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// MarshalText implements encoding.TextMarshaler.
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}
