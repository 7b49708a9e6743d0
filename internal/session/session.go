package session

import (
	"context"
	"image"
	"log/slog"
	"slices"
	"time"

	"github.com/ironsheep/photo-redact/internal/effect"
	"github.com/ironsheep/photo-redact/internal/geom"
	"github.com/ironsheep/photo-redact/internal/history"
	"github.com/ironsheep/photo-redact/internal/logging"
	"github.com/ironsheep/photo-redact/internal/raster"
	"github.com/ironsheep/photo-redact/internal/selection"
	"github.com/ironsheep/photo-redact/internal/source"
)

// Options configures a new session. The zero value is usable.
type Options struct {
	// Logger receives diagnostics. Nil discards them.
	Logger *slog.Logger

	// Prompt is asked before discarding edits on close. Nil approves.
	Prompt ConfirmationPrompt

	// Mode is the initial tool, BrushMosaic by default.
	Mode selection.Mode

	// BrushSize is the initial brush diameter; zero selects the default.
	BrushSize int

	// Alt is the host's description of the image (an alt text). It takes
	// precedence over the source name when naming downloads.
	Alt string

	// Now supplies the export timestamp. Nil uses time.Now.
	Now func() time.Time
}

// Listener observes session state changes.
type Listener func(State)

// State is a snapshot of everything a host UI needs to render its controls.
type State struct {
	Mode        selection.Mode  `json:"mode"`
	BrushSize   int             `json:"brush_size"`
	Interaction selection.State `json:"state"`

	// Selection is the pending selection, or the one being drawn.
	Selection        selection.Selection `json:"selection"`
	SelectionPending bool                `json:"selection_pending"`

	CanUndo  bool `json:"can_undo"`
	CanRedo  bool `json:"can_redo"`
	HasEdits bool `json:"has_edits"`
	Closed   bool `json:"closed"`

	Width  int `json:"width"`
	Height int `json:"height"`

	// BrushPreviewDiameter is the brush cursor size in display pixels.
	BrushPreviewDiameter float64 `json:"brush_preview_diameter"`
}

// Session is an open editor on one image.
type Session struct {
	target string
	name   string
	alt    string

	buf     *raster.Buffer
	engine  *effect.Engine
	machine *selection.Machine
	history *history.Manager

	prompt ConfirmationPrompt
	logger *slog.Logger
	now    func() time.Time

	listeners []*Listener
	last      State
	closed    bool
}

// Open acquires target from src and starts a session on it. Any failure is
// returned as a *LoadError and no session is created.
func Open(ctx context.Context, src source.Source, target string, opts Options) (*Session, error) {
	logger := logging.OrNop(opts.Logger)
	dec, err := src.Acquire(ctx, target)
	if err != nil {
		logger.Warn("image load failed", "target", target, "error", err)
		return nil, &LoadError{Target: target, Err: err}
	}
	s := New(dec.Image, opts)
	s.target = target
	s.name = dec.Name
	s.logger.Info("session opened", "target", target, "format", dec.Format,
		"width", s.buf.Width(), "height", s.buf.Height())
	return s, nil
}

// New starts a session on an already decoded image. img is copied.
func New(img image.Image, opts Options) *Session {
	buf := raster.New(img)
	engine := effect.NewEngine(buf)
	machine := selection.NewMachine(engine)
	if opts.Mode.Valid() {
		machine.SetMode(opts.Mode)
	}
	if opts.BrushSize != 0 {
		machine.SetBrushSize(opts.BrushSize)
	}

	s := &Session{
		alt:     opts.Alt,
		buf:     buf,
		engine:  engine,
		machine: machine,
		history: history.New(history.DefaultCapacity),
		prompt:  opts.Prompt,
		logger:  logging.OrNop(opts.Logger),
		now:     opts.Now,
	}
	if s.now == nil {
		s.now = time.Now
	}
	s.history.Push(buf.Snapshot())
	s.last = s.State()
	return s
}

// Target returns the path or URL the image was loaded from.
func (s *Session) Target() string { return s.target }

// Closed reports whether the session has been torn down.
func (s *Session) Closed() bool { return s.closed }

// Image returns a copy of the current pixels, or nil after close.
func (s *Session) Image() *image.NRGBA {
	if s.closed {
		return nil
	}
	return s.buf.Snapshot()
}

// State returns the current state snapshot.
func (s *Session) State() State {
	st := State{
		Mode:        s.machine.Mode(),
		BrushSize:   s.machine.BrushSize(),
		Interaction: s.machine.State(),
		CanUndo:     !s.closed && s.history.CanUndo(),
		CanRedo:     !s.closed && s.history.CanRedo(),
		HasEdits:    !s.closed && s.history.HasEdits(),
		Closed:      s.closed,
	}
	if s.closed {
		return st
	}
	st.Width, st.Height = s.buf.Width(), s.buf.Height()
	st.BrushPreviewDiameter = s.machine.Viewport().BrushPreviewDiameter(st.BrushSize)
	if p := s.machine.Pending(); !p.Empty() {
		st.Selection = p
		st.SelectionPending = true
	} else {
		st.Selection = s.machine.Live()
	}
	return st
}

// Subscribe registers l to be called after every state change. The returned
// function removes it.
func (s *Session) Subscribe(l Listener) (unsubscribe func()) {
	p := &l
	s.listeners = append(s.listeners, p)
	return func() {
		s.listeners = slices.DeleteFunc(s.listeners, func(q *Listener) bool { return q == p })
	}
}

// SetMode switches tools, discarding any selection in progress. A brush
// stroke in progress is committed to history first.
func (s *Session) SetMode(m selection.Mode) {
	if s.closed || !m.Valid() {
		return
	}
	res := s.machine.SetMode(m)
	s.logger.Debug("mode changed", "mode", m)
	s.apply(res)
}

// SetBrushSize sets the brush diameter, clamped to [10, 200].
func (s *Session) SetBrushSize(size int) {
	if s.closed {
		return
	}
	s.machine.SetBrushSize(size)
	s.changed(false)
}

// SetDisplay tells the session where the host draws the image and at what
// size, in device pixels.
func (s *Session) SetDisplay(origin geom.Point, width, height float64) {
	if s.closed {
		return
	}
	s.machine.Viewport().SetDisplay(origin, width, height)
	s.changed(false)
}

// changed notifies listeners when the state differs from the last
// notification, or unconditionally when pixels were repainted.
func (s *Session) changed(painted bool) {
	st := s.State()
	if !painted && stateEqual(st, s.last) {
		return
	}
	s.last = st
	for _, l := range slices.Clone(s.listeners) {
		(*l)(st)
	}
}

func stateEqual(a, b State) bool {
	return a.Mode == b.Mode &&
		a.BrushSize == b.BrushSize &&
		a.Interaction == b.Interaction &&
		a.SelectionPending == b.SelectionPending &&
		a.CanUndo == b.CanUndo &&
		a.CanRedo == b.CanRedo &&
		a.HasEdits == b.HasEdits &&
		a.Closed == b.Closed &&
		a.Width == b.Width &&
		a.Height == b.Height &&
		a.BrushPreviewDiameter == b.BrushPreviewDiameter &&
		a.Selection.Shape == b.Selection.Shape &&
		a.Selection.Rect == b.Selection.Rect &&
		slices.Equal(a.Selection.Polygon, b.Selection.Polygon)
}
