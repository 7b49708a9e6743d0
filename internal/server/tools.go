package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

// sessionProperty is the optional session id accepted by every tool that
// acts on an open session. Omitting it targets the most recently opened one.
var sessionProperty = map[string]interface{}{
	"type":        "string",
	"description": "Session id returned by editor_open. Defaults to the most recently opened session",
}

var effectProperty = map[string]interface{}{
	"type":        "string",
	"enum":        []string{"mosaic", "blur"},
	"description": "Redaction effect",
}

func pointProperties(desc string) map[string]interface{} {
	return map[string]interface{}{
		"session": sessionProperty,
		"x": map[string]interface{}{
			"type":        "number",
			"description": desc + " X in device pixels",
		},
		"y": map[string]interface{}{
			"type":        "number",
			"description": desc + " Y in device pixels",
		},
	}
}

func sessionOnly() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"session": sessionProperty,
		},
	}
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		// Session lifecycle
		{
			Name:        "editor_open",
			Description: "Load an image from a file path or http(s) URL and open an editing session on it. Returns the session id and initial state.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"target": map[string]interface{}{
						"type":        "string",
						"description": "Absolute file path, file:// URL or http(s) URL of the image",
					},
					"alt": map[string]interface{}{
						"type":        "string",
						"description": "Alt text of the image, used to name exports",
					},
					"mode": map[string]interface{}{
						"type":        "string",
						"enum":        []string{"mosaic", "blur", "rect", "rect-inverse", "polygon", "polygon-inverse"},
						"description": "Initial tool. Defaults to the configured mode",
					},
					"brush_size": map[string]interface{}{
						"type":        "integer",
						"description": "Initial brush diameter (10-200). Defaults to the configured size",
					},
				},
				"required": []string{"target"},
			},
		},
		{
			Name:        "editor_state",
			Description: "Get the current state of a session: tool, brush size, selection, undo/redo availability and image size.",
			InputSchema: sessionOnly(),
		},
		{
			Name:        "editor_close",
			Description: "Close a session. With unsaved edits the session stays open unless discard is true.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"session": sessionProperty,
					"discard": map[string]interface{}{
						"type":        "boolean",
						"description": "Discard unsaved edits. Default false",
					},
				},
			},
		},

		// Input
		{
			Name:        "editor_set_display",
			Description: "Describe where the host draws the image, in device pixels. Pointer coordinates are mapped through this rectangle.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"session": sessionProperty,
					"x": map[string]interface{}{
						"type":        "number",
						"description": "Left edge of the displayed image",
					},
					"y": map[string]interface{}{
						"type":        "number",
						"description": "Top edge of the displayed image",
					},
					"width": map[string]interface{}{
						"type":        "number",
						"description": "Displayed width",
					},
					"height": map[string]interface{}{
						"type":        "number",
						"description": "Displayed height",
					},
				},
				"required": []string{"width", "height"},
			},
		},
		{
			Name:        "editor_pointer",
			Description: "Send a pointer event (down, move, up or dblclick) at device coordinates.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": merge(pointProperties("Pointer"), map[string]interface{}{
					"event": map[string]interface{}{
						"type": "string",
						"enum": []string{"down", "move", "up", "dblclick"},
					},
				}),
				"required": []string{"event", "x", "y"},
			},
		},
		{
			Name:        "editor_stroke",
			Description: "Paint a brush stroke through a list of device points as one undoable edit.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"session": sessionProperty,
					"points": map[string]interface{}{
						"type": "array",
						"items": map[string]interface{}{
							"type": "object",
							"properties": map[string]interface{}{
								"x": map[string]interface{}{"type": "number"},
								"y": map[string]interface{}{"type": "number"},
							},
						},
						"description": "Stroke path; the first point presses and the last releases",
					},
				},
				"required": []string{"points"},
			},
		},
		{
			Name:        "editor_key",
			Description: "Send a key press. M/B/I/O/P/Shift+P pick tools, 1/2/3 brush presets, Ctrl+Z/Y undo/redo, Ctrl+S exports, Enter applies and Escape cancels or closes.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"session": sessionProperty,
					"key": map[string]interface{}{
						"type":        "string",
						"description": "Key value, e.g. \"m\", \"Escape\", \"1\"",
					},
					"ctrl":          map[string]interface{}{"type": "boolean"},
					"meta":          map[string]interface{}{"type": "boolean"},
					"shift":         map[string]interface{}{"type": "boolean"},
					"alt":           map[string]interface{}{"type": "boolean"},
					"in_form_field": map[string]interface{}{"type": "boolean"},
					"discard": map[string]interface{}{
						"type":        "boolean",
						"description": "Answer to the discard prompt if Escape closes a session with edits",
					},
				},
				"required": []string{"key"},
			},
		},

		// Tools and selections
		{
			Name:        "editor_set_mode",
			Description: "Switch tools. Any selection in progress is discarded.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"session": sessionProperty,
					"mode": map[string]interface{}{
						"type": "string",
						"enum": []string{"mosaic", "blur", "rect", "rect-inverse", "polygon", "polygon-inverse"},
					},
				},
				"required": []string{"mode"},
			},
		},
		{
			Name:        "editor_set_brush_size",
			Description: "Set the brush diameter in image pixels, clamped to 10-200. It also sets mosaic block size and blur strength for selections.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"session": sessionProperty,
					"size": map[string]interface{}{
						"type": "integer",
					},
				},
				"required": []string{"size"},
			},
		},
		{
			Name:        "editor_apply_selection",
			Description: "Apply the pending rectangle or polygon selection. Without arguments the current tool decides effect and direction.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"session": sessionProperty,
					"effect":  effectProperty,
					"inverse": map[string]interface{}{
						"type":        "boolean",
						"description": "Redact everything outside the selection",
					},
				},
			},
		},
		{
			Name:        "editor_cancel_selection",
			Description: "Discard the pending or in-progress selection.",
			InputSchema: sessionOnly(),
		},
		{
			Name:        "editor_undo",
			Description: "Undo the last edit.",
			InputSchema: sessionOnly(),
		},
		{
			Name:        "editor_redo",
			Description: "Redo the last undone edit.",
			InputSchema: sessionOnly(),
		},
		{
			Name:        "editor_redact_regions",
			Description: "Redact a list of rectangles in image pixels as one undoable edit.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"session": sessionProperty,
					"effect":  effectProperty,
					"regions": map[string]interface{}{
						"type": "array",
						"items": map[string]interface{}{
							"type": "object",
							"properties": map[string]interface{}{
								"x":      map[string]interface{}{"type": "number"},
								"y":      map[string]interface{}{"type": "number"},
								"width":  map[string]interface{}{"type": "number"},
								"height": map[string]interface{}{"type": "number"},
							},
						},
					},
				},
				"required": []string{"regions"},
			},
		},

		// Text
		{
			Name:        "editor_find_text",
			Description: "Find text-like regions in the current image. Uses Tesseract when available, otherwise an edge-density heuristic.",
			InputSchema: sessionOnly(),
		},
		{
			Name:        "editor_redact_text",
			Description: "Find text regions and redact them, grown by padding pixels, as one undoable edit.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"session": sessionProperty,
					"effect":  effectProperty,
					"padding": map[string]interface{}{
						"type":        "integer",
						"description": "Pixels added around every region. Defaults to the configured padding",
					},
				},
			},
		},

		// Output
		{
			Name:        "editor_preview",
			Description: "Render the current image with the selection outline and brush cursor drawn on top, as base64 PNG.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"session": sessionProperty,
					"color": map[string]interface{}{
						"type":        "string",
						"description": "Outline colour as #rrggbb",
					},
					"alpha": map[string]interface{}{
						"type":        "number",
						"description": "Outline opacity 0-1",
					},
					"scale": map[string]interface{}{
						"type":        "number",
						"description": "Optional scale factor. Default 1.0",
					},
				},
			},
		},
		{
			Name:        "editor_export",
			Description: "Save the redacted image at full resolution into the export directory as <name>_mosaic_<timestamp>.png or .jpg.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"session": sessionProperty,
					"format": map[string]interface{}{
						"type": "string",
						"enum": []string{"png", "jpeg"},
					},
					"dir": map[string]interface{}{
						"type":        "string",
						"description": "Target directory. Defaults to the configured export directory",
					},
				},
			},
		},
	}
}

func merge(a, b map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(a)+len(b))
	for k, v := range a {
		out[k] = v
	}
	for k, v := range b {
		out[k] = v
	}
	return out
}

// handleToolsList returns the list of available tools
func (s *Server) handleToolsList(req *MCPRequest) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"tools": GetToolDefinitions(),
		},
	}
}
