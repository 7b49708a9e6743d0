// Package server implements the MCP (Model Context Protocol) host bridge for
// photo redaction sessions.
//
// The server speaks JSON-RPC 2.0 over stdio, one message per line:
//   - Input: JSON-RPC requests on stdin
//   - Output: JSON-RPC responses and notifications on stdout
//
// Supported MCP methods:
//   - initialize: Protocol handshake
//   - tools/list: Enumerate available tools
//   - tools/call: Execute a tool with arguments
//   - ping: Health check
//
// # Available Tools
//
// Session lifecycle:
//   - editor_open: Load an image and open a session on it
//   - editor_state: Current tool, selection and history state
//   - editor_close: Close, optionally discarding edits
//
// Input:
//   - editor_set_display: Map device coordinates onto the image
//   - editor_pointer: Pointer down, move, up and double click
//   - editor_stroke: A whole brush stroke in one call
//   - editor_key: Keyboard shortcuts
//
// Tools and selections:
//   - editor_set_mode, editor_set_brush_size
//   - editor_apply_selection, editor_cancel_selection
//   - editor_undo, editor_redo
//   - editor_redact_regions: Redact rectangles in one edit
//
// Text:
//   - editor_find_text: Locate text with Tesseract or an edge heuristic
//   - editor_redact_text: Find and redact text in one edit
//
// Output:
//   - editor_preview: Image with selection chrome as base64 PNG
//   - editor_export: Save the redacted image to the export directory
//
// # Notifications
//
// Every session state change is pushed as a notifications/editor/state
// message carrying the session id and its State.
//
// # Image Caching
//
// Decoded source images are cached by target, so reopening the same file or
// URL skips the load. Sessions always work on their own copy.
//
// # Error Handling
//
// Tool execution errors are returned as JSON-RPC error responses with:
//   - code: -32000 (tool execution failure) or standard JSON-RPC codes
//   - message: Human-readable error description
//   - data: Additional error details (typically the Go error string)
//
// # Usage
//
//	srv := server.New(cfg, logger)
//	if err := srv.Run(ctx, os.Stdin, os.Stdout); err != nil {
//	    log.Fatal(err)
//	}
package server
