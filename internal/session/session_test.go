package session

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ironsheep/photo-redact/internal/effect"
	"github.com/ironsheep/photo-redact/internal/export"
	"github.com/ironsheep/photo-redact/internal/geom"
	"github.com/ironsheep/photo-redact/internal/history"
	"github.com/ironsheep/photo-redact/internal/overlay"
	"github.com/ironsheep/photo-redact/internal/selection"
	"github.com/ironsheep/photo-redact/internal/source"
)

// createTestImage builds a deterministic opaque noise image.
func createTestImage(width, height int) *image.NRGBA {
	rng := rand.New(rand.NewSource(42))
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	rng.Read(img.Pix)
	for i := 3; i < len(img.Pix); i += 4 {
		img.Pix[i] = 255
	}
	return img
}

// countingPrompt answers AskDiscard with a fixed value and counts calls.
type countingPrompt struct {
	answer bool
	calls  int
}

func (p *countingPrompt) AskDiscard() bool {
	p.calls++
	return p.answer
}

func stroke(s *Session, from, to geom.Point) {
	s.HandlePointerDown(from)
	s.HandlePointerMove(to)
	s.HandlePointerUp(to)
}

func TestNew_InitialState(t *testing.T) {
	s := New(createTestImage(100, 80), Options{})
	st := s.State()

	if st.Mode != selection.BrushMosaic {
		t.Errorf("Mode = %v, want mosaic", st.Mode)
	}
	if st.BrushSize != 50 {
		t.Errorf("BrushSize = %d, want 50", st.BrushSize)
	}
	if st.Interaction != selection.Idle {
		t.Errorf("Interaction = %v, want idle", st.Interaction)
	}
	if st.CanUndo || st.CanRedo || st.HasEdits || st.Closed {
		t.Errorf("fresh session state = %+v", st)
	}
	if st.Width != 100 || st.Height != 80 {
		t.Errorf("size = %dx%d, want 100x80", st.Width, st.Height)
	}
}

func TestNew_Options(t *testing.T) {
	s := New(createTestImage(10, 10), Options{Mode: selection.PolygonSelect, BrushSize: 500})
	if got := s.State().Mode; got != selection.PolygonSelect {
		t.Errorf("Mode = %v, want polygon", got)
	}
	if got := s.State().BrushSize; got != 200 {
		t.Errorf("BrushSize = %d, want 200", got)
	}
}

func TestSetBrushSize_Clamped(t *testing.T) {
	tests := []struct{ in, want int }{
		{5, 10},
		{10, 10},
		{77, 77},
		{200, 200},
		{500, 200},
	}
	s := New(createTestImage(20, 20), Options{})
	for _, tt := range tests {
		s.SetBrushSize(tt.in)
		if got := s.State().BrushSize; got != tt.want {
			t.Errorf("SetBrushSize(%d) -> %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestBrushStroke_UndoRedoBitIdentical(t *testing.T) {
	orig := createTestImage(100, 100)
	s := New(orig, Options{})

	stroke(s, geom.Pt(50, 50), geom.Pt(60, 50))
	painted := s.Image()
	if bytes.Equal(painted.Pix, orig.Pix) {
		t.Fatal("brush stroke did not modify the image")
	}

	st := s.State()
	if !st.CanUndo || !st.HasEdits || st.CanRedo {
		t.Fatalf("after stroke state = %+v", st)
	}

	if !s.Undo() {
		t.Fatal("Undo() = false, want true")
	}
	if !bytes.Equal(s.Image().Pix, orig.Pix) {
		t.Error("undo did not restore the pristine image")
	}
	if s.Undo() {
		t.Error("Undo() past the pristine image should be a no-op")
	}

	if !s.Redo() {
		t.Fatal("Redo() = false, want true")
	}
	if !bytes.Equal(s.Image().Pix, painted.Pix) {
		t.Error("redo did not restore the stroke")
	}
	if s.Redo() {
		t.Error("Redo() at the newest entry should be a no-op")
	}
}

func TestModeSwitchMidStroke_CommitsStroke(t *testing.T) {
	t.Run("first edit", func(t *testing.T) {
		orig := createTestImage(100, 100)
		s := New(orig, Options{})

		s.HandlePointerDown(geom.Pt(40, 40))
		s.HandlePointerMove(geom.Pt(50, 40))
		s.HandleKey(KeyEvent{Key: "b"})
		s.HandlePointerUp(geom.Pt(50, 40))

		st := s.State()
		if !st.CanUndo || !st.HasEdits {
			t.Fatalf("interrupted stroke not recorded: %+v", st)
		}
		if st.Mode != selection.BrushBlur {
			t.Errorf("Mode = %v, want blur", st.Mode)
		}
		if !s.Undo() {
			t.Fatal("Undo() = false")
		}
		if !bytes.Equal(s.Image().Pix, orig.Pix) {
			t.Error("one undo should restore the pristine image")
		}
		if s.State().CanUndo {
			t.Error("the interrupted stroke should be a single history entry")
		}
	})

	t.Run("after a prior edit", func(t *testing.T) {
		s := New(createTestImage(100, 100), Options{})
		stroke(s, geom.Pt(20, 20), geom.Pt(20, 20))
		first := s.Image()

		s.HandlePointerDown(geom.Pt(70, 70))
		s.SetMode(selection.RectSelect)
		s.HandlePointerUp(geom.Pt(70, 70))

		s.Undo()
		if !bytes.Equal(s.Image().Pix, first.Pix) {
			t.Error("undo should revert only the interrupted stroke")
		}
	})
}

func TestEscapeMidStroke_PromptsBeforeClose(t *testing.T) {
	prompt := &countingPrompt{answer: false}
	s := New(createTestImage(80, 80), Options{Prompt: prompt})

	s.HandlePointerDown(geom.Pt(40, 40))
	s.HandlePointerMove(geom.Pt(45, 40))
	res := s.HandleKey(KeyEvent{Key: "Escape"})

	if res.Closed || s.Closed() {
		t.Fatalf("Escape closed a session with an unsaved stroke: %+v", res)
	}
	if prompt.calls != 1 {
		t.Errorf("prompt asked %d times, want 1", prompt.calls)
	}
	if st := s.State(); !st.CanUndo || st.Interaction != selection.Idle {
		t.Errorf("after Escape state = %+v", st)
	}
}

func TestHistoryEviction_KeepsCurrentImage(t *testing.T) {
	s := New(createTestImage(100, 100), Options{})

	// The pristine entry plus 19 strokes fills the history.
	for i := 0; i < history.DefaultCapacity-1; i++ {
		stroke(s, geom.Pt(float64(5*i), 10), geom.Pt(float64(5*i), 10))
	}
	stroke(s, geom.Pt(50, 80), geom.Pt(60, 80))
	latest := s.Image()

	s.Undo()
	s.Redo()
	if !s.buf.Equal(latest) {
		t.Fatal("newest entry after eviction does not match the latest stroke")
	}
	undos := 0
	for s.Undo() {
		undos++
	}
	if undos != history.DefaultCapacity-1 {
		t.Errorf("undo steps = %d, want %d", undos, history.DefaultCapacity-1)
	}
	if s.State().HasEdits {
		t.Error("oldest surviving entry should count as unedited")
	}
	for s.Redo() {
	}
	if !s.buf.Equal(latest) {
		t.Error("redo to the newest entry should restore the latest stroke")
	}
}

func TestBlurStroke(t *testing.T) {
	orig := createTestImage(60, 60)
	s := New(orig, Options{Mode: selection.BrushBlur, BrushSize: 30})

	stroke(s, geom.Pt(30, 30), geom.Pt(30, 30))

	if bytes.Equal(s.Image().Pix, orig.Pix) {
		t.Error("blur stroke did not modify the image")
	}
	if got := s.Image().NRGBAAt(0, 0); got != orig.NRGBAAt(0, 0) {
		t.Error("blur stroke modified a pixel far outside the brush")
	}
}

func TestRectSelection_ApplyAndUndo(t *testing.T) {
	orig := createTestImage(80, 60)
	s := New(orig, Options{Mode: selection.RectSelect})

	s.HandlePointerDown(geom.Pt(10, 10))
	s.HandlePointerMove(geom.Pt(40, 30))
	if st := s.State(); st.Interaction != selection.RectDragging || st.Selection.Shape != selection.RectShape {
		t.Fatalf("while dragging state = %+v", st)
	}
	s.HandlePointerUp(geom.Pt(40, 30))

	st := s.State()
	if !st.SelectionPending {
		t.Fatalf("expected a pending selection, got %+v", st)
	}
	want := geom.Rect{X: 10, Y: 10, Width: 30, Height: 20}
	if st.Selection.Rect != want {
		t.Errorf("pending rect = %+v, want %+v", st.Selection.Rect, want)
	}
	if st.HasEdits {
		t.Error("a pending selection must not count as an edit")
	}

	if !s.ApplyPendingSelectionDefault() {
		t.Fatal("ApplyPendingSelectionDefault() = false")
	}
	img := s.Image()
	if img.NRGBAAt(0, 0) != orig.NRGBAAt(0, 0) || img.NRGBAAt(79, 59) != orig.NRGBAAt(79, 59) {
		t.Error("direct rect selection modified pixels outside the rect")
	}
	if bytes.Equal(img.Pix, orig.Pix) {
		t.Error("applying the selection did not modify the image")
	}
	if st := s.State(); st.SelectionPending || st.Mode != selection.RectSelect || !st.CanUndo {
		t.Errorf("after apply state = %+v", st)
	}

	if s.ApplyPendingSelection(false) {
		t.Error("applying without a pending selection should do nothing")
	}

	s.Undo()
	if !bytes.Equal(s.Image().Pix, orig.Pix) {
		t.Error("undo did not restore the image")
	}
}

func TestRectSelection_TooSmall(t *testing.T) {
	s := New(createTestImage(40, 40), Options{Mode: selection.RectSelect})
	s.HandlePointerDown(geom.Pt(10, 10))
	s.HandlePointerUp(geom.Pt(14, 30))

	if st := s.State(); st.SelectionPending || st.Interaction != selection.Idle {
		t.Errorf("a 4px wide drag should be discarded, state = %+v", st)
	}
}

func TestPolygonSelection_InverseEffect(t *testing.T) {
	orig := createTestImage(60, 60)
	s := New(orig, Options{Mode: selection.PolygonSelectInverse})

	for _, p := range []geom.Point{geom.Pt(10, 10), geom.Pt(50, 10), geom.Pt(30, 50)} {
		s.HandlePointerDown(p)
		s.HandlePointerUp(p)
	}
	s.HandleDoubleClick(geom.Pt(30, 50))

	st := s.State()
	if !st.SelectionPending || st.Selection.Shape != selection.PolygonShape {
		t.Fatalf("expected a pending polygon, got %+v", st)
	}

	if !s.ApplyPendingSelectionEffect(effect.Blur, true) {
		t.Fatal("ApplyPendingSelectionEffect() = false")
	}
	img := s.Image()
	if img.NRGBAAt(30, 20) != orig.NRGBAAt(30, 20) {
		t.Error("inverse polygon modified a pixel inside the polygon")
	}
	if img.NRGBAAt(2, 57) == orig.NRGBAAt(2, 57) {
		t.Error("inverse polygon left a pixel outside the polygon untouched")
	}
}

func TestCancelPendingSelection(t *testing.T) {
	s := New(createTestImage(40, 40), Options{Mode: selection.RectSelect})
	if s.CancelPendingSelection() {
		t.Error("cancel with nothing pending should report false")
	}

	s.HandlePointerDown(geom.Pt(5, 5))
	s.HandlePointerUp(geom.Pt(30, 30))
	if !s.CancelPendingSelection() {
		t.Fatal("cancel with a pending selection should report true")
	}
	if st := s.State(); st.SelectionPending || st.Interaction != selection.Idle {
		t.Errorf("after cancel state = %+v", st)
	}
}

func TestRedactRegions_SingleUndoStep(t *testing.T) {
	orig := createTestImage(80, 80)
	s := New(orig, Options{})

	rects := []geom.Rect{
		{X: 0, Y: 0, Width: 20, Height: 20},
		{X: 40, Y: 40, Width: 20, Height: 20},
		{X: 200, Y: 200, Width: 10, Height: 10},
	}
	if got := s.RedactRegions(rects, effect.Mosaic); got != 2 {
		t.Errorf("RedactRegions() = %d, want 2", got)
	}
	if bytes.Equal(s.Image().Pix, orig.Pix) {
		t.Fatal("RedactRegions did not modify the image")
	}

	s.Undo()
	if !bytes.Equal(s.Image().Pix, orig.Pix) {
		t.Error("one undo should revert every region")
	}
	if s.State().CanUndo {
		t.Error("regions should form a single history entry")
	}
}

func TestHandleKey(t *testing.T) {
	tests := []struct {
		name     string
		ev       KeyEvent
		wantMode selection.Mode
		wantSize int
		handled  bool
	}{
		{"mosaic", KeyEvent{Key: "m"}, selection.BrushMosaic, 50, true},
		{"blur", KeyEvent{Key: "b"}, selection.BrushBlur, 50, true},
		{"rect", KeyEvent{Key: "i"}, selection.RectSelect, 50, true},
		{"rect inverse", KeyEvent{Key: "O"}, selection.RectSelectInverse, 50, true},
		{"polygon", KeyEvent{Key: "p"}, selection.PolygonSelect, 50, true},
		{"polygon inverse", KeyEvent{Key: "P", Shift: true}, selection.PolygonSelectInverse, 50, true},
		{"preset 1", KeyEvent{Key: "1"}, selection.RectSelect, 20, true},
		{"preset 3", KeyEvent{Key: "3"}, selection.RectSelect, 100, true},
		{"form field", KeyEvent{Key: "b", InFormField: true}, selection.RectSelect, 50, false},
		{"unbound", KeyEvent{Key: "q"}, selection.RectSelect, 50, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New(createTestImage(20, 20), Options{Mode: selection.RectSelect})
			res := s.HandleKey(tt.ev)
			if res.Handled != tt.handled {
				t.Errorf("Handled = %v, want %v", res.Handled, tt.handled)
			}
			st := s.State()
			if st.Mode != tt.wantMode {
				t.Errorf("Mode = %v, want %v", st.Mode, tt.wantMode)
			}
			if st.BrushSize != tt.wantSize {
				t.Errorf("BrushSize = %d, want %d", st.BrushSize, tt.wantSize)
			}
		})
	}
}

func TestHandleKey_UndoRedoExport(t *testing.T) {
	orig := createTestImage(60, 60)
	s := New(orig, Options{})
	stroke(s, geom.Pt(30, 30), geom.Pt(30, 30))
	painted := s.Image()

	s.HandleKey(KeyEvent{Key: "z", Ctrl: true})
	if !bytes.Equal(s.Image().Pix, orig.Pix) {
		t.Error("Ctrl+Z did not undo")
	}
	s.HandleKey(KeyEvent{Key: "Z", Meta: true, Shift: true})
	if !bytes.Equal(s.Image().Pix, painted.Pix) {
		t.Error("Cmd+Shift+Z did not redo")
	}
	s.HandleKey(KeyEvent{Key: "z", Meta: true})
	s.HandleKey(KeyEvent{Key: "y", Ctrl: true})
	if !bytes.Equal(s.Image().Pix, painted.Pix) {
		t.Error("Ctrl+Y did not redo")
	}

	res := s.HandleKey(KeyEvent{Key: "s", Ctrl: true, InFormField: true})
	if !res.Handled || res.Action != ActionExport {
		t.Errorf("Ctrl+S = %+v, want export action", res)
	}
}

func TestHandleKey_EnterApplies(t *testing.T) {
	orig := createTestImage(40, 40)
	s := New(orig, Options{Mode: selection.RectSelectInverse})

	if res := s.HandleKey(KeyEvent{Key: "Enter"}); res.Handled {
		t.Error("Enter without a pending selection should not be handled")
	}

	s.HandlePointerDown(geom.Pt(10, 10))
	s.HandlePointerUp(geom.Pt(30, 30))
	if res := s.HandleKey(KeyEvent{Key: "Enter"}); !res.Handled {
		t.Fatal("Enter with a pending selection should apply it")
	}

	img := s.Image()
	if img.NRGBAAt(20, 20) != orig.NRGBAAt(20, 20) {
		t.Error("inverse rect modified a pixel inside the rect")
	}
	if bytes.Equal(img.Pix, orig.Pix) {
		t.Error("Enter did not redact outside the rect")
	}
}

func TestHandleKey_Escape(t *testing.T) {
	prompt := &countingPrompt{answer: false}
	s := New(createTestImage(40, 40), Options{Mode: selection.RectSelect, Prompt: prompt})

	s.HandlePointerDown(geom.Pt(5, 5))
	s.HandlePointerUp(geom.Pt(30, 30))

	res := s.HandleKey(KeyEvent{Key: "Escape"})
	if !res.Handled || res.Action != ActionNone || s.State().SelectionPending {
		t.Fatalf("Escape with a pending selection = %+v, want cancel", res)
	}

	res = s.HandleKey(KeyEvent{Key: "Escape"})
	if res.Action != ActionClose || !res.Closed || !s.Closed() {
		t.Errorf("Escape while idle without edits = %+v, want closed", res)
	}
	if prompt.calls != 0 {
		t.Errorf("prompt asked %d times without edits", prompt.calls)
	}
}

func TestRequestClose(t *testing.T) {
	t.Run("no edits closes without asking", func(t *testing.T) {
		prompt := &countingPrompt{}
		s := New(createTestImage(20, 20), Options{Prompt: prompt})
		if !s.RequestClose() {
			t.Fatal("RequestClose() = false")
		}
		if prompt.calls != 0 {
			t.Errorf("prompt asked %d times", prompt.calls)
		}
	})

	t.Run("edits declined", func(t *testing.T) {
		prompt := &countingPrompt{answer: false}
		s := New(createTestImage(40, 40), Options{Prompt: prompt})
		stroke(s, geom.Pt(20, 20), geom.Pt(20, 20))
		if s.RequestClose() {
			t.Fatal("RequestClose() = true after declining")
		}
		if prompt.calls != 1 || s.Closed() {
			t.Errorf("calls = %d, closed = %v", prompt.calls, s.Closed())
		}
		if !s.State().HasEdits {
			t.Error("declining must keep the edits")
		}
	})

	t.Run("edits confirmed", func(t *testing.T) {
		s := New(createTestImage(40, 40), Options{Prompt: ConfirmFunc(func() bool { return true })})
		stroke(s, geom.Pt(20, 20), geom.Pt(20, 20))
		if !s.RequestClose() {
			t.Fatal("RequestClose() = false after confirming")
		}
	})
}

func TestClosed_IsInert(t *testing.T) {
	s := New(createTestImage(40, 40), Options{})
	var last State
	s.Subscribe(func(st State) { last = st })
	s.Close()

	if !last.Closed {
		t.Error("listeners should see the closed state")
	}

	s.HandlePointerDown(geom.Pt(10, 10))
	s.SetMode(selection.BrushBlur)
	if s.Undo() || s.Redo() {
		t.Error("undo/redo after close should be no-ops")
	}
	if res := s.HandleKey(KeyEvent{Key: "b"}); res.Handled {
		t.Error("keys after close should be ignored")
	}
	if s.Image() != nil {
		t.Error("Image() after close should be nil")
	}
	if _, err := s.ExportRaster(export.PNG); !errors.Is(err, ErrClosed) {
		t.Errorf("ExportRaster() error = %v, want ErrClosed", err)
	}
	if _, err := s.Preview(overlay.Style{}); !errors.Is(err, ErrClosed) {
		t.Errorf("Preview() error = %v, want ErrClosed", err)
	}
}

func TestExport(t *testing.T) {
	orig := createTestImage(30, 20)
	at := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	s := New(orig, Options{Alt: "My Photo: test", Now: func() time.Time { return at }})

	var gotData []byte
	var gotName, gotMIME string
	sink := export.SinkFunc(func(data []byte, filename, mimeType string) error {
		gotData, gotName, gotMIME = data, filename, mimeType
		return nil
	})

	name, err := s.Export(context.Background(), sink, export.PNG)
	if err != nil {
		t.Fatalf("Export() error = %v", err)
	}
	want := "My_Photo_test_mosaic_20260102_030405.png"
	if name != want || gotName != want {
		t.Errorf("file name = %q (sink %q), want %q", name, gotName, want)
	}
	if gotMIME != "image/png" {
		t.Errorf("MIME type = %q, want image/png", gotMIME)
	}

	decoded, err := png.Decode(bytes.NewReader(gotData))
	if err != nil {
		t.Fatalf("exported bytes are not a PNG: %v", err)
	}
	for y := 0; y < 20; y++ {
		for x := 0; x < 30; x++ {
			got := color.NRGBAModel.Convert(decoded.At(x, y)).(color.NRGBA)
			if got != orig.NRGBAAt(x, y) {
				t.Fatalf("exported pixel (%d,%d) = %v, want %v", x, y, got, orig.NRGBAAt(x, y))
			}
		}
	}
}

func TestExport_SinkFailure(t *testing.T) {
	s := New(createTestImage(10, 10), Options{})
	boom := errors.New("disk full")
	sink := export.SinkFunc(func([]byte, string, string) error { return boom })

	_, err := s.Export(context.Background(), sink, export.JPEG)
	var exportErr *ExportError
	if !errors.As(err, &exportErr) {
		t.Fatalf("Export() error = %v, want *ExportError", err)
	}
	if exportErr.Format != export.JPEG || !errors.Is(err, boom) {
		t.Errorf("ExportError = %+v", exportErr)
	}
	if s.Closed() {
		t.Error("a failed export must not affect the session")
	}
}

func TestOpen_File(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "holiday snap.png")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("failed to create image: %v", err)
	}
	if err := png.Encode(f, createTestImage(16, 12)); err != nil {
		t.Fatalf("failed to encode image: %v", err)
	}
	f.Close()

	at := time.Date(2026, 10, 17, 9, 30, 0, 0, time.UTC)
	s, err := Open(context.Background(), source.FileSource{}, path, Options{Now: func() time.Time { return at }})
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if st := s.State(); st.Width != 16 || st.Height != 12 {
		t.Errorf("size = %dx%d, want 16x12", st.Width, st.Height)
	}
	if got, want := s.FileName(export.JPEG), "holiday_snap_mosaic_20261017_093000.jpg"; got != want {
		t.Errorf("FileName() = %q, want %q", got, want)
	}
}

func TestOpen_LoadError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	target := srv.URL + "/missing.png"
	s, err := Open(context.Background(), &source.HTTPSource{}, target, Options{})
	if s != nil {
		t.Error("Open() returned a session for a failed load")
	}
	var loadErr *LoadError
	if !errors.As(err, &loadErr) {
		t.Fatalf("Open() error = %v, want *LoadError", err)
	}
	if loadErr.Target != target {
		t.Errorf("LoadError.Target = %q, want %q", loadErr.Target, target)
	}
}

func TestSubscribe(t *testing.T) {
	s := New(createTestImage(40, 40), Options{})
	var calls int
	unsubscribe := s.Subscribe(func(State) { calls++ })

	s.SetMode(selection.BrushBlur)
	if calls != 1 {
		t.Fatalf("calls after mode change = %d, want 1", calls)
	}

	s.SetMode(selection.BrushBlur)
	s.SetBrushSize(50)
	if calls != 1 {
		t.Errorf("unchanged state notified listeners: calls = %d", calls)
	}

	s.HandlePointerDown(geom.Pt(20, 20))
	s.HandlePointerMove(geom.Pt(21, 20))
	if calls != 3 {
		t.Errorf("calls after painting = %d, want 3", calls)
	}

	unsubscribe()
	s.HandlePointerUp(geom.Pt(21, 20))
	if calls != 3 {
		t.Errorf("listener called after unsubscribe: calls = %d", calls)
	}
}

func TestPreview(t *testing.T) {
	orig := createTestImage(40, 30)
	s := New(orig, Options{Mode: selection.RectSelect})
	s.HandlePointerDown(geom.Pt(5, 5))
	s.HandlePointerUp(geom.Pt(30, 25))

	res, err := s.Preview(overlay.Style{})
	if err != nil {
		t.Fatalf("Preview() error = %v", err)
	}
	if res.Width != 40 || res.Height != 30 || res.ImageBase64 == "" {
		t.Errorf("Preview() = %dx%d, %d bytes", res.Width, res.Height, len(res.ImageBase64))
	}
	if !bytes.Equal(s.Image().Pix, orig.Pix) {
		t.Error("Preview() modified the session image")
	}
}

func TestSetDisplay_MapsPointer(t *testing.T) {
	s := New(createTestImage(100, 100), Options{Mode: selection.RectSelect})
	s.SetDisplay(geom.Pt(10, 20), 50, 50)

	s.HandlePointerDown(geom.Pt(10, 20))
	s.HandlePointerUp(geom.Pt(35, 45))

	want := geom.Rect{X: 0, Y: 0, Width: 50, Height: 50}
	if got := s.State().Selection.Rect; got != want {
		t.Errorf("pending rect = %+v, want %+v", got, want)
	}
	if got := s.State().BrushPreviewDiameter; got != 25 {
		t.Errorf("BrushPreviewDiameter = %v, want 25", got)
	}
}
