package server

import "github.com/ironsheep/image-edit-mcp/internal/editor"

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

// previewProperty is shared by every tool that can return the edited image.
var previewProperty = map[string]interface{}{
	"type":        "boolean",
	"description": "Include a base64 PNG preview of the current image in the result",
	"default":     false,
}

// GetToolDefinitions returns all available tools. The command enum of
// image_apply is taken from the editor's dispatch table.
func GetToolDefinitions(commands []editor.Command) []Tool {
	names := make([]string, len(commands))
	for i, c := range commands {
		names[i] = c.Name
	}

	return []Tool{
		// Session
		{
			Name:        "image_open",
			Description: "Open a PNG or JPEG file for editing. Discards the history of any previously opened image. On failure the current image is kept.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the image file",
					},
					"preview": previewProperty,
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "image_save",
			Description: "Save the current image. The format follows the extension (.png, .jpg, .jpeg).",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path of the output file",
					},
				},
				"required": []string{"path"},
			},
		},

		// Editing
		{
			Name:        "image_apply",
			Description: "Apply an edit command. Every adjustment is recomputed from the original image. invert, vignette, emboss and warp apply once; blur ignores even sizes.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"command": map[string]interface{}{
						"type":        "string",
						"enum":        names,
						"description": "Command name (see image_commands for arguments)",
					},
					"value": map[string]interface{}{
						"type":        "number",
						"description": "Slider value for sharpen, blur, brightness, contrast, noise and denoise",
					},
					"args": map[string]interface{}{
						"type":                 "object",
						"additionalProperties": map[string]interface{}{"type": "number"},
						"description":          "Named arguments, e.g. {\"degrees\": 90} or warp corners x1..y4",
					},
					"preview": previewProperty,
				},
				"required": []string{"command"},
			},
		},
		{
			Name:        "image_undo",
			Description: "Revert the most recent edit. Does nothing when no edits remain.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"preview": previewProperty,
				},
			},
		},
		{
			Name:        "image_reset",
			Description: "Discard all edits and return to the opened image.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"preview": previewProperty,
				},
			},
		},

		// Inspection
		{
			Name:        "image_state",
			Description: "Report the current edit state: dimensions, history depth, rotation, one-shot effects and slider levels.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": map[string]interface{}{},
			},
		},
		{
			Name:        "image_preview",
			Description: "Return the current image as a base64 PNG, downscaled to max_width.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"max_width": map[string]interface{}{
						"type":        "integer",
						"description": "Maximum width in pixels (default from configuration, 0 = full size)",
					},
				},
			},
		},
		{
			Name:        "image_sample_color",
			Description: "Get the exact color value at a pixel of the current image.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"x": map[string]interface{}{
						"type":        "integer",
						"description": "X coordinate (0-based, from left)",
					},
					"y": map[string]interface{}{
						"type":        "integer",
						"description": "Y coordinate (0-based, from top)",
					},
				},
				"required": []string{"x", "y"},
			},
		},
		{
			Name:        "image_commands",
			Description: "List the edit commands accepted by image_apply with their arguments.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": map[string]interface{}{},
			},
		},
	}
}

// handleToolsList returns the list of available tools
func (s *Server) handleToolsList(req *MCPRequest) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"tools": GetToolDefinitions(s.editor.Commands()),
		},
	}
}
