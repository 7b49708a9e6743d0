package server

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ironsheep/photo-redact/internal/effect"
	"github.com/ironsheep/photo-redact/internal/export"
	"github.com/ironsheep/photo-redact/internal/geom"
	"github.com/ironsheep/photo-redact/internal/selection"
	"github.com/ironsheep/photo-redact/internal/session"
	"github.com/ironsheep/photo-redact/internal/textfind"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "editor_open", "editor_pointer").
	Name string `json:"name"`

	// Arguments contains the tool-specific parameters as JSON.
	Arguments json.RawMessage `json:"arguments"`
}

// handleToolsCall processes a tools/call request and executes the specified tool.
//
// The response wraps the tool result in MCP's content format:
//
//	{
//	  "content": [{"type": "text", "text": "<JSON result>"}]
//	}
//
// Tool execution errors return a JSON-RPC error response with code -32000.
func (s *Server) handleToolsCall(ctx context.Context, req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
	}

	result, err := s.executeTool(ctx, params.Name, params.Arguments)
	if err != nil {
		s.logger.Debug("tool failed", "tool", params.Name, "error", err)
		return s.errorResponse(req.ID, -32000, "Tool execution failed", err.Error())
	}

	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"content": []map[string]interface{}{
				{
					"type": "text",
					"text": mustMarshalJSON(result),
				},
			},
		},
	}
}

// executeTool dispatches tool execution to the appropriate handler function.
func (s *Server) executeTool(ctx context.Context, name string, args json.RawMessage) (interface{}, error) {
	switch name {
	// Session lifecycle
	case "editor_open":
		return s.handleOpen(ctx, args)
	case "editor_state":
		return s.handleState(args)
	case "editor_close":
		return s.handleClose(args)

	// Input
	case "editor_set_display":
		return s.handleSetDisplay(args)
	case "editor_pointer":
		return s.handlePointer(args)
	case "editor_stroke":
		return s.handleStroke(args)
	case "editor_key":
		return s.handleKey(ctx, args)

	// Tools and selections
	case "editor_set_mode":
		return s.handleSetMode(args)
	case "editor_set_brush_size":
		return s.handleSetBrushSize(args)
	case "editor_apply_selection":
		return s.handleApplySelection(args)
	case "editor_cancel_selection":
		return s.handleCancelSelection(args)
	case "editor_undo":
		return s.handleUndo(args)
	case "editor_redo":
		return s.handleRedo(args)
	case "editor_redact_regions":
		return s.handleRedactRegions(args)

	// Text
	case "editor_find_text":
		return s.handleFindText(ctx, args)
	case "editor_redact_text":
		return s.handleRedactText(ctx, args)

	// Output
	case "editor_preview":
		return s.handlePreview(args)
	case "editor_export":
		return s.handleExport(ctx, args)

	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

// errorResponse creates a JSON-RPC error response with the given details.
func (s *Server) errorResponse(id interface{}, code int, message, data string) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error: &MCPError{
			Code:    code,
			Message: message,
			Data:    data,
		},
	}
}

// mustMarshalJSON converts a value to pretty-printed JSON string.
// On marshal failure it returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

// decodeArgs unmarshals tool arguments. Missing arguments decode as the zero
// value.
func decodeArgs(args json.RawMessage, v interface{}) error {
	if len(args) == 0 || string(args) == "null" {
		return nil
	}
	if err := json.Unmarshal(args, v); err != nil {
		return fmt.Errorf("invalid arguments: %w", err)
	}
	return nil
}

// sessionArgs is embedded by every tool that targets a session.
type sessionArgs struct {
	Session string `json:"session"`
}

// stateResult is returned by most tools and pushed as the state notification.
type stateResult struct {
	Session string        `json:"session"`
	State   session.State `json:"state"`
}

// lookup decodes args into v and resolves the targeted session.
func (s *Server) lookup(args json.RawMessage, v interface{ target() string }) (*entry, error) {
	if err := decodeArgs(args, v); err != nil {
		return nil, err
	}
	return s.sessions.get(v.target())
}

func (a *sessionArgs) target() string { return a.Session }

func result(e *entry) stateResult {
	return stateResult{Session: e.id, State: e.sess.State()}
}

// === Session Lifecycle Handlers ===

type openArgs struct {
	Target    string `json:"target"`
	Alt       string `json:"alt"`
	Mode      string `json:"mode"`
	BrushSize int    `json:"brush_size"`
}

type openResult struct {
	stateResult
	Target   string `json:"target"`
	FileName string `json:"file_name"`
}

func (s *Server) handleOpen(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a openArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if a.Target == "" {
		return nil, fmt.Errorf("target is required")
	}

	mode := s.cfg.InitialMode()
	if a.Mode != "" {
		m, err := selection.ParseMode(a.Mode)
		if err != nil {
			return nil, err
		}
		mode = m
	}
	size := s.cfg.BrushSize
	if a.BrushSize != 0 {
		size = a.BrushSize
	}

	e := s.sessions.reserve()
	sess, err := session.Open(ctx, s.source, a.Target, session.Options{
		Logger:    s.logger.With("session", e.id),
		Prompt:    session.ConfirmFunc(func() bool { return e.discard }),
		Mode:      mode,
		BrushSize: size,
		Alt:       a.Alt,
	})
	if err != nil {
		return nil, err
	}
	e.sess = sess
	e.unsubscribe = sess.Subscribe(func(st session.State) {
		s.notify(StateNotification, stateResult{Session: e.id, State: st})
	})
	s.sessions.add(e)

	return openResult{
		stateResult: result(e),
		Target:      a.Target,
		FileName:    sess.FileName(s.cfg.Format()),
	}, nil
}

func (s *Server) handleState(args json.RawMessage) (interface{}, error) {
	var a sessionArgs
	e, err := s.lookup(args, &a)
	if err != nil {
		return nil, err
	}
	return result(e), nil
}

type closeArgs struct {
	sessionArgs
	Discard bool `json:"discard"`
}

type closeResult struct {
	Session string `json:"session"`
	Closed  bool   `json:"closed"`
}

func (s *Server) handleClose(args json.RawMessage) (interface{}, error) {
	var a closeArgs
	e, err := s.lookup(args, &a)
	if err != nil {
		return nil, err
	}
	e.discard = a.Discard
	closed := e.sess.RequestClose()
	e.discard = false
	if closed {
		s.sessions.remove(e.id)
	}
	return closeResult{Session: e.id, Closed: closed}, nil
}

// === Input Handlers ===

type displayArgs struct {
	sessionArgs
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

func (s *Server) handleSetDisplay(args json.RawMessage) (interface{}, error) {
	var a displayArgs
	e, err := s.lookup(args, &a)
	if err != nil {
		return nil, err
	}
	e.sess.SetDisplay(geom.Pt(a.X, a.Y), a.Width, a.Height)
	return result(e), nil
}

type pointerArgs struct {
	sessionArgs
	Event string  `json:"event"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
}

func (s *Server) handlePointer(args json.RawMessage) (interface{}, error) {
	var a pointerArgs
	e, err := s.lookup(args, &a)
	if err != nil {
		return nil, err
	}
	p := geom.Pt(a.X, a.Y)
	switch a.Event {
	case "down":
		e.sess.HandlePointerDown(p)
	case "move":
		e.sess.HandlePointerMove(p)
	case "up":
		e.sess.HandlePointerUp(p)
	case "dblclick":
		e.sess.HandleDoubleClick(p)
	default:
		return nil, fmt.Errorf("unknown pointer event: %q", a.Event)
	}
	return result(e), nil
}

type strokeArgs struct {
	sessionArgs
	Points []geom.Point `json:"points"`
}

func (s *Server) handleStroke(args json.RawMessage) (interface{}, error) {
	var a strokeArgs
	e, err := s.lookup(args, &a)
	if err != nil {
		return nil, err
	}
	if len(a.Points) == 0 {
		return nil, fmt.Errorf("stroke needs at least one point")
	}
	e.sess.HandlePointerDown(a.Points[0])
	for _, p := range a.Points[1:] {
		e.sess.HandlePointerMove(p)
	}
	e.sess.HandlePointerUp(a.Points[len(a.Points)-1])
	return result(e), nil
}

type keyArgs struct {
	sessionArgs
	session.KeyEvent
	Discard bool `json:"discard"`
}

type keyResult struct {
	stateResult
	Key    session.KeyResult `json:"key"`
	Export *exportResult     `json:"export,omitempty"`
}

func (s *Server) handleKey(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a keyArgs
	e, err := s.lookup(args, &a)
	if err != nil {
		return nil, err
	}

	e.discard = a.Discard
	res := e.sess.HandleKey(a.KeyEvent)
	e.discard = false

	out := keyResult{Key: res}
	if res.Action == session.ActionExport {
		exp, err := s.export(ctx, e, "", s.cfg.Format())
		if err != nil {
			return nil, err
		}
		out.Export = exp
	}
	out.stateResult = result(e)
	if res.Closed {
		s.sessions.remove(e.id)
	}
	return out, nil
}

// === Tool and Selection Handlers ===

type modeArgs struct {
	sessionArgs
	Mode string `json:"mode"`
}

func (s *Server) handleSetMode(args json.RawMessage) (interface{}, error) {
	var a modeArgs
	e, err := s.lookup(args, &a)
	if err != nil {
		return nil, err
	}
	m, err := selection.ParseMode(a.Mode)
	if err != nil {
		return nil, err
	}
	e.sess.SetMode(m)
	return result(e), nil
}

type brushArgs struct {
	sessionArgs
	Size int `json:"size"`
}

func (s *Server) handleSetBrushSize(args json.RawMessage) (interface{}, error) {
	var a brushArgs
	e, err := s.lookup(args, &a)
	if err != nil {
		return nil, err
	}
	e.sess.SetBrushSize(a.Size)
	return result(e), nil
}

type applyArgs struct {
	sessionArgs
	Effect  string `json:"effect"`
	Inverse *bool  `json:"inverse"`
}

type appliedResult struct {
	stateResult
	Applied bool `json:"applied"`
}

func (s *Server) handleApplySelection(args json.RawMessage) (interface{}, error) {
	var a applyArgs
	e, err := s.lookup(args, &a)
	if err != nil {
		return nil, err
	}

	var applied bool
	if a.Effect == "" && a.Inverse == nil {
		applied = e.sess.ApplyPendingSelectionDefault()
	} else {
		mode := e.sess.State().Mode
		kind := mode.Effect()
		if a.Effect != "" {
			if kind, err = effect.ParseKind(a.Effect); err != nil {
				return nil, err
			}
		}
		inverse := mode.Inverse()
		if a.Inverse != nil {
			inverse = *a.Inverse
		}
		applied = e.sess.ApplyPendingSelectionEffect(kind, inverse)
	}
	return appliedResult{stateResult: result(e), Applied: applied}, nil
}

func (s *Server) handleCancelSelection(args json.RawMessage) (interface{}, error) {
	var a sessionArgs
	e, err := s.lookup(args, &a)
	if err != nil {
		return nil, err
	}
	return appliedResult{stateResult: result(e), Applied: e.sess.CancelPendingSelection()}, nil
}

func (s *Server) handleUndo(args json.RawMessage) (interface{}, error) {
	var a sessionArgs
	e, err := s.lookup(args, &a)
	if err != nil {
		return nil, err
	}
	return appliedResult{Applied: e.sess.Undo(), stateResult: result(e)}, nil
}

func (s *Server) handleRedo(args json.RawMessage) (interface{}, error) {
	var a sessionArgs
	e, err := s.lookup(args, &a)
	if err != nil {
		return nil, err
	}
	return appliedResult{Applied: e.sess.Redo(), stateResult: result(e)}, nil
}

type redactRegionsArgs struct {
	sessionArgs
	Effect  string      `json:"effect"`
	Regions []geom.Rect `json:"regions"`
}

type redactedResult struct {
	stateResult
	Redacted int          `json:"redacted"`
	Regions  []textRegion `json:"regions,omitempty"`
}

func (s *Server) handleRedactRegions(args json.RawMessage) (interface{}, error) {
	var a redactRegionsArgs
	e, err := s.lookup(args, &a)
	if err != nil {
		return nil, err
	}
	kind, err := effect.ParseKind(a.Effect)
	if err != nil {
		return nil, err
	}
	n := e.sess.RedactRegions(a.Regions, kind)
	return redactedResult{stateResult: result(e), Redacted: n}, nil
}

// === Text Handlers ===

// textRegion is a textfind.Region with flat pixel bounds.
type textRegion struct {
	geom.Rect
	Text       string  `json:"text,omitempty"`
	Confidence float64 `json:"confidence"`
}

func toTextRegions(regions []textfind.Region) []textRegion {
	out := make([]textRegion, len(regions))
	for i, r := range regions {
		out[i] = textRegion{
			Rect:       geom.FromPixels(r.Bounds),
			Text:       r.Text,
			Confidence: r.Confidence,
		}
	}
	return out
}

type findTextResult struct {
	Session string       `json:"session"`
	Count   int          `json:"count"`
	Regions []textRegion `json:"regions"`
}

func (s *Server) handleFindText(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a sessionArgs
	e, err := s.lookup(args, &a)
	if err != nil {
		return nil, err
	}
	regions, err := e.sess.FindText(ctx, s.finder)
	if err != nil {
		return nil, err
	}
	return findTextResult{Session: e.id, Count: len(regions), Regions: toTextRegions(regions)}, nil
}

type redactTextArgs struct {
	sessionArgs
	Effect  string `json:"effect"`
	Padding *int   `json:"padding"`
}

func (s *Server) handleRedactText(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a redactTextArgs
	e, err := s.lookup(args, &a)
	if err != nil {
		return nil, err
	}
	kind, err := effect.ParseKind(a.Effect)
	if err != nil {
		return nil, err
	}
	pad := s.cfg.TextPadding
	if a.Padding != nil {
		pad = max(0, *a.Padding)
	}
	regions, err := e.sess.RedactText(ctx, s.finder, pad, kind)
	if err != nil {
		return nil, err
	}
	return redactedResult{
		stateResult: result(e),
		Redacted:    len(regions),
		Regions:     toTextRegions(regions),
	}, nil
}

// === Output Handlers ===

type previewArgs struct {
	sessionArgs
	Color string  `json:"color"`
	Alpha float64 `json:"alpha"`
	Scale float64 `json:"scale"`
}

func (s *Server) handlePreview(args json.RawMessage) (interface{}, error) {
	var a previewArgs
	e, err := s.lookup(args, &a)
	if err != nil {
		return nil, err
	}
	style := s.cfg.Overlay()
	if a.Color != "" {
		style.Color = a.Color
	}
	if a.Alpha > 0 {
		style.Alpha = a.Alpha
	}
	if a.Scale > 0 {
		style.Scale = a.Scale
	}
	return e.sess.Preview(style)
}

type exportArgs struct {
	sessionArgs
	Format string `json:"format"`
	Dir    string `json:"dir"`
}

type exportResult struct {
	File     string        `json:"file"`
	Path     string        `json:"path"`
	Format   export.Format `json:"format"`
	MimeType string        `json:"mime_type"`
}

func (s *Server) handleExport(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a exportArgs
	e, err := s.lookup(args, &a)
	if err != nil {
		return nil, err
	}
	f := s.cfg.Format()
	if a.Format != "" {
		if f, err = export.ParseFormat(a.Format); err != nil {
			return nil, err
		}
	}
	return s.export(ctx, e, a.Dir, f)
}

// export saves the session image into dir, or the configured export
// directory when dir is empty.
func (s *Server) export(ctx context.Context, e *entry, dir string, f export.Format) (*exportResult, error) {
	if dir == "" {
		dir = s.cfg.ExportDir
	}
	sink := export.NewDirSink(dir)
	name, err := e.sess.Export(ctx, sink, f)
	if err != nil {
		return nil, err
	}
	return &exportResult{
		File:     name,
		Path:     sink.LastPath(),
		Format:   f,
		MimeType: f.MIMEType(),
	}, nil
}
