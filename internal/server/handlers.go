package server

import (
	"encoding/json"
	"fmt"

	"github.com/ironsheep/image-edit-mcp/internal/editor"
	"github.com/ironsheep/image-edit-mcp/internal/imaging"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "image_open", "image_apply").
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
func (s *Server) handleToolsCall(req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
	}

	result, err := s.executeTool(params.Name, params.Arguments)
	if err != nil {
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
//
// Each tool handler:
//  1. Unmarshals arguments from JSON
//  2. Applies default values for optional parameters
//  3. Calls the editor
//  4. Returns the result or error
func (s *Server) executeTool(name string, args json.RawMessage) (interface{}, error) {
	switch name {
	// Session
	case "image_open":
		return s.handleImageOpen(args)
	case "image_save":
		return s.handleImageSave(args)

	// Editing
	case "image_apply":
		return s.handleImageApply(args)
	case "image_undo":
		return s.handleImageUndo(args)
	case "image_reset":
		return s.handleImageReset(args)

	// Inspection
	case "image_state":
		return s.editor.Snapshot()
	case "image_preview":
		return s.handleImagePreview(args)
	case "image_sample_color":
		return s.handleImageSampleColor(args)
	case "image_commands":
		return s.editor.Commands(), nil

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
// Panics are suppressed; on marshal failure, returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

// decodeArgs unmarshals tool arguments into v. Tools without required
// arguments may be called with none at all.
func decodeArgs(args json.RawMessage, v interface{}) error {
	if len(args) == 0 || string(args) == "null" {
		return nil
	}
	if err := json.Unmarshal(args, v); err != nil {
		return fmt.Errorf("invalid arguments: %w", err)
	}
	return nil
}

// editResult is returned by every tool that can change the current image.
type editResult struct {
	editor.Snapshot
	Preview *imaging.PreviewResult `json:"preview,omitempty"`
}

// withPreview attaches a preview of the current image when requested.
func (s *Server) withPreview(snap editor.Snapshot, preview bool) (interface{}, error) {
	res := editResult{Snapshot: snap}
	if preview {
		p, err := s.preview(s.cfg.PreviewWidth)
		if err != nil {
			return nil, err
		}
		res.Preview = p
	}
	return res, nil
}

func (s *Server) preview(maxWidth int) (*imaging.PreviewResult, error) {
	state, err := s.editor.Current()
	if err != nil {
		return nil, err
	}
	return imaging.Preview(state.Image, maxWidth)
}

// === Session Handlers ===

type imageOpenArgs struct {
	Path    string `json:"path"`
	Preview bool   `json:"preview"`
}

func (s *Server) handleImageOpen(args json.RawMessage) (interface{}, error) {
	var a imageOpenArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if a.Path == "" {
		return nil, fmt.Errorf("path is required")
	}

	snap, err := s.editor.Open(a.Path)
	if err != nil {
		return nil, err
	}
	return s.withPreview(snap, a.Preview)
}

type imageSaveArgs struct {
	Path string `json:"path"`
}

func (s *Server) handleImageSave(args json.RawMessage) (interface{}, error) {
	var a imageSaveArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if a.Path == "" {
		return nil, fmt.Errorf("path is required")
	}

	if err := s.editor.Save(a.Path); err != nil {
		return nil, err
	}
	return map[string]interface{}{
		"path":  a.Path,
		"saved": true,
	}, nil
}

// === Editing Handlers ===

type imageApplyArgs struct {
	Command string             `json:"command"`
	Value   *float64           `json:"value"`
	Args    map[string]float64 `json:"args"`
	Preview bool               `json:"preview"`
}

func (s *Server) handleImageApply(args json.RawMessage) (interface{}, error) {
	var a imageApplyArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if a.Command == "" {
		return nil, fmt.Errorf("command is required")
	}

	p := make(editor.Params, len(a.Args)+1)
	for k, v := range a.Args {
		p[k] = v
	}
	if a.Value != nil {
		p["value"] = *a.Value
	}

	snap, err := s.editor.Apply(a.Command, p)
	if err != nil {
		return nil, err
	}
	return s.withPreview(snap, a.Preview)
}

type historyArgs struct {
	Preview bool `json:"preview"`
}

func (s *Server) handleImageUndo(args json.RawMessage) (interface{}, error) {
	var a historyArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}

	snap, err := s.editor.Undo()
	if err != nil {
		return nil, err
	}
	return s.withPreview(snap, a.Preview)
}

func (s *Server) handleImageReset(args json.RawMessage) (interface{}, error) {
	var a historyArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}

	snap, err := s.editor.Reset()
	if err != nil {
		return nil, err
	}
	return s.withPreview(snap, a.Preview)
}

// === Inspection Handlers ===

type imagePreviewArgs struct {
	MaxWidth *int `json:"max_width"`
}

func (s *Server) handleImagePreview(args json.RawMessage) (interface{}, error) {
	var a imagePreviewArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}

	maxWidth := s.cfg.PreviewWidth
	if a.MaxWidth != nil {
		maxWidth = *a.MaxWidth
	}
	return s.preview(maxWidth)
}

type imageSampleColorArgs struct {
	X int `json:"x"`
	Y int `json:"y"`
}

func (s *Server) handleImageSampleColor(args json.RawMessage) (interface{}, error) {
	var a imageSampleColorArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}

	state, err := s.editor.Current()
	if err != nil {
		return nil, err
	}
	return imaging.SampleColor(state.Image, a.X, a.Y)
}
