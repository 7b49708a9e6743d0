// Package selection turns pointer input into brush strokes and pending
// rectangle or polygon selections.
//
// A Machine is driven with device coordinates. It maps them through its
// Viewport into intrinsic pixel space, paints brush samples straight into the
// effect engine, and holds rectangle and polygon selections as pending until
// the owner applies or cancels them. It never touches history; callers push a
// snapshot whenever a Result reports Commit.
package selection

import (
	"github.com/ironsheep/photo-redact/internal/effect"
	"github.com/ironsheep/photo-redact/internal/geom"
)

// MinSelectionSize is the size both rectangle dimensions must exceed for a
// drag to become a pending selection.
const MinSelectionSize = 5

// Shape tags the variant held by a Selection.
type Shape int

const (
	NoShape Shape = iota
	RectShape
	PolygonShape
)

func (s Shape) String() string {
	switch s {
	case RectShape:
		return "rect"
	case PolygonShape:
		return "polygon"
	default:
		return "none"
	}
}

// Selection is a rectangle or polygon in intrinsic coordinates.
type Selection struct {
	Shape   Shape        `json:"shape"`
	Rect    geom.Rect    `json:"rect,omitempty"`
	Polygon geom.Polygon `json:"polygon,omitempty"`
}

// Empty reports whether the selection holds no shape.
func (s Selection) Empty() bool { return s.Shape == NoShape }

// Result describes the effect of one input event.
type Result struct {
	// Painted is set when the buffer was modified.
	Painted bool
	// Commit is set when a completed edit should be recorded in history.
	Commit bool
}

// Machine is the selection state machine. It is not safe for concurrent use.
type Machine struct {
	engine *effect.Engine
	view   *Viewport

	mode  Mode
	size  int
	state State

	anchor   geom.Point
	live     geom.Rect
	vertices geom.Polygon
	hover    *geom.Point
	cursor   *geom.Point
	pending  Selection
}

// NewMachine returns an idle machine in BrushMosaic mode with the default
// brush size. The viewport starts out matching the engine's buffer.
func NewMachine(engine *effect.Engine) *Machine {
	b := engine.Buffer()
	return &Machine{
		engine: engine,
		view:   NewViewport(b.Width(), b.Height()),
		mode:   BrushMosaic,
		size:   effect.DefaultBrushSize,
	}
}

// Viewport returns the device-to-intrinsic mapping.
func (m *Machine) Viewport() *Viewport { return m.view }

// Mode returns the active mode.
func (m *Machine) Mode() Mode { return m.mode }

// State returns the interaction state.
func (m *Machine) State() State { return m.state }

// BrushSize returns the brush diameter in intrinsic pixels.
func (m *Machine) BrushSize() int { return m.size }

// Brush returns the brush used by the current mode.
func (m *Machine) Brush() effect.Brush {
	return effect.Brush{Size: m.size, Kind: m.mode.Effect()}
}

// SetBrushSize stores a brush diameter, clamped to the valid range.
func (m *Machine) SetBrushSize(size int) {
	m.size = effect.ClampBrushSize(size)
}

// SetMode switches tools. Any in-progress or pending selection is discarded
// and the machine returns to Idle. A brush stroke in progress is ended first
// and reported as a Commit.
func (m *Machine) SetMode(mode Mode) Result {
	res := m.EndStroke()
	m.mode = mode
	m.reset()
	return res
}

// EndStroke finishes a brush stroke in progress as if the pointer had been
// released. Outside BrushPainting it does nothing.
func (m *Machine) EndStroke() Result {
	if m.state != BrushPainting {
		return Result{}
	}
	m.state = Idle
	return Result{Commit: true}
}

// Cancel discards any in-progress or pending selection. It reports whether
// there was anything to discard.
func (m *Machine) Cancel() bool {
	switch m.state {
	case RectDragging, PolygonBuilding, SelectionPending:
		m.reset()
		return true
	}
	return false
}

// Pending returns the selection awaiting apply or cancel.
func (m *Machine) Pending() Selection {
	return m.pending
}

// Live returns the selection being drawn: the dragged rectangle or the
// polygon vertices placed so far.
func (m *Machine) Live() Selection {
	switch m.state {
	case RectDragging:
		return Selection{Shape: RectShape, Rect: m.live}
	case PolygonBuilding:
		return Selection{Shape: PolygonShape, Polygon: m.vertices.Clone()}
	}
	return Selection{}
}

// Hover returns the last pointer position while a polygon is being built.
func (m *Machine) Hover() (geom.Point, bool) {
	if m.hover == nil {
		return geom.Point{}, false
	}
	return *m.hover, true
}

// Cursor returns the last known pointer position in intrinsic coordinates.
func (m *Machine) Cursor() (geom.Point, bool) {
	if m.cursor == nil {
		return geom.Point{}, false
	}
	return *m.cursor, true
}

// PointerDown handles a primary-button press at a device point.
func (m *Machine) PointerDown(device geom.Point) Result {
	p := m.track(device)
	switch {
	case m.mode.IsBrush():
		m.reset()
		m.engine.ApplyBrush(p, m.Brush())
		m.state = BrushPainting
		return Result{Painted: true}

	case m.mode.IsRect():
		m.reset()
		m.anchor = p
		m.live = geom.Rect{X: p.X, Y: p.Y}
		m.state = RectDragging

	case m.mode.IsPolygon():
		if m.state != PolygonBuilding {
			m.reset()
			m.vertices = geom.Polygon{p}
			m.state = PolygonBuilding
			return Result{}
		}
		if len(m.vertices) >= 3 && m.nearFirstVertex(p) {
			m.finalizePolygon()
			return Result{}
		}
		m.vertices = append(m.vertices, p)
	}
	return Result{}
}

// PointerMove handles pointer motion at a device point.
func (m *Machine) PointerMove(device geom.Point) Result {
	p := m.track(device)
	switch m.state {
	case BrushPainting:
		m.engine.ApplyBrush(p, m.Brush())
		return Result{Painted: true}
	case RectDragging:
		m.live = geom.RectFromCorners(m.anchor, p)
	case PolygonBuilding:
		m.hover = &p
	}
	return Result{}
}

// PointerUp handles a primary-button release at a device point. Polygon
// building ignores releases.
func (m *Machine) PointerUp(device geom.Point) Result {
	p := m.track(device)
	switch m.state {
	case BrushPainting:
		return m.EndStroke()
	case RectDragging:
		r := geom.RectFromCorners(m.anchor, p)
		m.live = geom.Rect{}
		if r.Exceeds(MinSelectionSize) {
			m.pending = Selection{Shape: RectShape, Rect: r}
			m.state = SelectionPending
		} else {
			m.state = Idle
		}
	}
	return Result{}
}

// DoubleClick finalizes a polygon with at least three vertices regardless of
// where the click lands. Otherwise it does nothing.
func (m *Machine) DoubleClick(device geom.Point) Result {
	m.track(device)
	if m.state == PolygonBuilding && len(m.vertices) >= 3 {
		m.finalizePolygon()
	}
	return Result{}
}

// Apply runs kind over the pending selection, or over its complement when
// inverse is set, and returns the machine to Idle in the same mode. Without a
// pending selection it does nothing.
func (m *Machine) Apply(kind effect.Kind, inverse bool) Result {
	if m.state != SelectionPending {
		return Result{}
	}
	sel := m.pending
	brush := effect.Brush{Size: m.size, Kind: kind}
	switch sel.Shape {
	case RectShape:
		m.engine.ApplyRect(sel.Rect, kind, inverse, brush)
	case PolygonShape:
		m.engine.ApplyPolygon(sel.Polygon, kind, inverse, brush)
	}
	m.reset()
	return Result{Painted: true, Commit: true}
}

func (m *Machine) finalizePolygon() {
	m.pending = Selection{Shape: PolygonShape, Polygon: m.vertices}
	m.vertices = nil
	m.hover = nil
	m.state = SelectionPending
}

func (m *Machine) nearFirstVertex(p geom.Point) bool {
	threshold, ok := m.view.CloseThreshold()
	if !ok || len(m.vertices) == 0 {
		return false
	}
	return p.Dist(m.vertices[0]) <= threshold
}

// track maps a device point and remembers it as the cursor position.
func (m *Machine) track(device geom.Point) geom.Point {
	p := m.view.ToIntrinsic(device)
	m.cursor = &p
	return p
}

func (m *Machine) reset() {
	m.state = Idle
	m.live = geom.Rect{}
	m.vertices = nil
	m.hover = nil
	m.pending = Selection{}
}
