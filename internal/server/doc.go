// Package server implements the MCP (Model Context Protocol) server for the
// image editor.
//
// This package provides a JSON-RPC 2.0 server that exposes one editing
// session through the MCP protocol. A client opens an image, applies edit
// commands, steps back through the history and saves the result.
//
// # Protocol
//
// The server communicates over stdio using JSON-RPC 2.0:
//   - Input: JSON-RPC requests on stdin (one per line)
//   - Output: JSON-RPC responses on stdout
//
// Supported MCP methods:
//   - initialize: Protocol handshake
//   - tools/list: Enumerate available tools
//   - tools/call: Execute a tool with arguments
//   - ping: Health check
//
// # Available Tools
//
// Session:
//   - image_open: Load a PNG or JPEG and start a new history
//   - image_save: Write the current image
//
// Editing:
//   - image_apply: Run an edit command (rotate, invert, blur, contrast, ...)
//   - image_undo: Revert the last edit
//   - image_reset: Return to the opened image
//
// Inspection:
//   - image_state: Current rotation, flags and slider levels
//   - image_preview: Base64 PNG of the current image
//   - image_sample_color: Color at a pixel
//   - image_commands: The command table with argument descriptions
//
// Editing tools accept "preview": true to include a preview in their result.
//
// # Error Handling
//
// Tool execution errors are returned as JSON-RPC error responses with:
//   - code: -32000 (tool execution failure) or standard JSON-RPC codes
//   - message: Human-readable error description
//   - data: Additional error details (typically the Go error string)
//
// Edits that are accepted but change nothing (a repeated invert, an even
// blur size) are not errors; their result reports "changed": false.
//
// # Usage
//
//	cfg, err := config.Load("")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := server.New(cfg).Run(); err != nil {
//	    log.Fatal(err)
//	}
package server
