package server

import (
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

// createTestImageFile creates a test image file and returns its path
func createTestImageFile(t *testing.T, width, height int, c color.Color) string {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, c)
		}
	}

	path := filepath.Join(t.TempDir(), "handler-test.png")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("failed to create temp file: %v", err)
	}
	defer f.Close()

	if err := png.Encode(f, img); err != nil {
		t.Fatalf("failed to encode image: %v", err)
	}

	return path
}

// callTool sends a tools/call request and returns the response together
// with the decoded JSON result text (nil on error responses).
func callTool(t *testing.T, s *Server, name string, args map[string]interface{}) (*MCPResponse, map[string]interface{}) {
	t.Helper()

	params := map[string]interface{}{
		"name":      name,
		"arguments": args,
	}
	paramsJSON, _ := json.Marshal(params)

	resp := s.handleRequest(&MCPRequest{
		JSONRPC: "2.0",
		ID:      1,
		Method:  "tools/call",
		Params:  paramsJSON,
	})
	if resp == nil {
		t.Fatal("handleRequest returned nil")
	}
	if resp.Error != nil {
		return resp, nil
	}

	result := resp.Result.(map[string]interface{})
	content := result["content"].([]map[string]interface{})
	if len(content) != 1 || content[0]["type"] != "text" {
		t.Fatalf("unexpected content: %v", content)
	}

	var out map[string]interface{}
	if err := json.Unmarshal([]byte(content[0]["text"].(string)), &out); err != nil {
		// Some tools return arrays; callers that need them decode themselves.
		return resp, nil
	}
	return resp, out
}

func openTestImage(t *testing.T, s *Server, width, height int, c color.Color) {
	t.Helper()
	path := createTestImageFile(t, width, height, c)
	resp, out := callTool(t, s, "image_open", map[string]interface{}{"path": path})
	if resp.Error != nil {
		t.Fatalf("image_open failed: %+v", resp.Error)
	}
	if out["width"] != float64(width) || out["height"] != float64(height) {
		t.Fatalf("image_open size: got %vx%v", out["width"], out["height"])
	}
}

func TestHandleToolsCall_OpenApplyUndo(t *testing.T) {
	s := newTestServer(t)
	openTestImage(t, s, 100, 80, color.RGBA{255, 0, 0, 255})

	resp, out := callTool(t, s, "image_apply", map[string]interface{}{"command": "invert"})
	if resp.Error != nil {
		t.Fatalf("invert failed: %+v", resp.Error)
	}
	if out["inverted"] != true || out["changed"] != true || out["depth"] != float64(2) {
		t.Errorf("after invert: %v", out)
	}

	// Sticky: repeat is accepted but changes nothing
	_, out = callTool(t, s, "image_apply", map[string]interface{}{"command": "invert"})
	if out["changed"] != false || out["depth"] != float64(2) {
		t.Errorf("repeat invert: %v", out)
	}

	_, out = callTool(t, s, "image_sample_color", map[string]interface{}{"x": 10, "y": 10})
	if out["hex"] != "#00FFFF" {
		t.Errorf("inverted red: got %v, want #00FFFF", out["hex"])
	}

	_, out = callTool(t, s, "image_undo", nil)
	if out["inverted"] != false || out["depth"] != float64(1) {
		t.Errorf("after undo: %v", out)
	}

	_, out = callTool(t, s, "image_sample_color", map[string]interface{}{"x": 10, "y": 10})
	if out["hex"] != "#FF0000" {
		t.Errorf("after undo: got %v, want #FF0000", out["hex"])
	}
}

func TestHandleToolsCall_ApplyValue(t *testing.T) {
	s := newTestServer(t)
	openTestImage(t, s, 40, 30, color.RGBA{100, 100, 100, 255})

	_, out := callTool(t, s, "image_apply", map[string]interface{}{"command": "brightness", "value": 20})
	if out["brightness"] != float64(20) || out["changed"] != true {
		t.Errorf("brightness: %v", out)
	}

	_, out = callTool(t, s, "image_sample_color", map[string]interface{}{"x": 0, "y": 0})
	if out["hex"] != "#787878" {
		t.Errorf("brightness 20 on 100: got %v, want #787878", out["hex"])
	}

	// Even blur sizes are ignored
	_, out = callTool(t, s, "image_apply", map[string]interface{}{"command": "blur", "value": 4})
	if out["changed"] != false || out["depth"] != float64(2) {
		t.Errorf("blur 4: %v", out)
	}

	_, out = callTool(t, s, "image_apply", map[string]interface{}{
		"command": "rotate",
		"args":    map[string]interface{}{"degrees": 90},
	})
	if out["rotation"] != float64(90) || out["width"] != float64(30) || out["height"] != float64(40) {
		t.Errorf("rotate 90: %v", out)
	}
}

func TestHandleToolsCall_ApplyWithPreview(t *testing.T) {
	s := newTestServer(t)
	s.cfg.PreviewWidth = 50
	openTestImage(t, s, 200, 100, color.RGBA{0, 0, 255, 255})

	_, out := callTool(t, s, "image_apply", map[string]interface{}{
		"command": "vignette",
		"preview": true,
	})
	preview, ok := out["preview"].(map[string]interface{})
	if !ok {
		t.Fatalf("preview missing: %v", out)
	}
	if preview["width"] != float64(50) || preview["height"] != float64(25) {
		t.Errorf("preview size: got %vx%v, want 50x25", preview["width"], preview["height"])
	}
	if preview["mime_type"] != "image/png" || preview["image_base64"] == "" {
		t.Errorf("preview encoding: %v", preview["mime_type"])
	}
}

func TestHandleToolsCall_Preview(t *testing.T) {
	s := newTestServer(t)
	openTestImage(t, s, 64, 32, color.RGBA{0, 255, 0, 255})

	_, out := callTool(t, s, "image_preview", map[string]interface{}{"max_width": 0})
	if out["width"] != float64(64) || out["height"] != float64(32) {
		t.Errorf("full-size preview: got %vx%v", out["width"], out["height"])
	}

	_, out = callTool(t, s, "image_preview", map[string]interface{}{"max_width": 16})
	if out["width"] != float64(16) || out["height"] != float64(8) {
		t.Errorf("downscaled preview: got %vx%v", out["width"], out["height"])
	}
}

func TestHandleToolsCall_Reset(t *testing.T) {
	s := newTestServer(t)
	openTestImage(t, s, 20, 20, color.RGBA{10, 20, 30, 255})

	callTool(t, s, "image_apply", map[string]interface{}{"command": "emboss"})
	callTool(t, s, "image_apply", map[string]interface{}{"command": "sharpen", "value": 1})

	_, out := callTool(t, s, "image_reset", nil)
	if out["depth"] != float64(1) || out["embossed"] != false || out["sharpen"] != float64(0) {
		t.Errorf("after reset: %v", out)
	}
	if out["changed"] != true {
		t.Error("reset with edits should report a change")
	}

	_, out = callTool(t, s, "image_sample_color", map[string]interface{}{"x": 5, "y": 5})
	if out["hex"] != "#0A141E" {
		t.Errorf("after reset: got %v, want #0A141E", out["hex"])
	}
}

func TestHandleToolsCall_Save(t *testing.T) {
	s := newTestServer(t)
	openTestImage(t, s, 30, 30, color.RGBA{200, 100, 50, 255})

	dst := filepath.Join(t.TempDir(), "out.png")
	resp, out := callTool(t, s, "image_save", map[string]interface{}{"path": dst})
	if resp.Error != nil {
		t.Fatalf("image_save failed: %+v", resp.Error)
	}
	if out["saved"] != true {
		t.Errorf("saved: %v", out)
	}
	if _, err := os.Stat(dst); err != nil {
		t.Errorf("output not written: %v", err)
	}

	resp, _ = callTool(t, s, "image_save", map[string]interface{}{"path": filepath.Join(t.TempDir(), "out.gif")})
	if resp.Error == nil {
		t.Error("expected error for unsupported extension")
	}
}

func TestHandleToolsCall_Commands(t *testing.T) {
	s := newTestServer(t)

	resp, _ := callTool(t, s, "image_commands", nil)
	if resp.Error != nil {
		t.Fatalf("image_commands failed: %+v", resp.Error)
	}

	text := resp.Result.(map[string]interface{})["content"].([]map[string]interface{})[0]["text"].(string)
	var commands []map[string]interface{}
	if err := json.Unmarshal([]byte(text), &commands); err != nil {
		t.Fatalf("commands should be a JSON array: %v", err)
	}
	if len(commands) == 0 {
		t.Fatal("no commands listed")
	}
	if commands[0]["name"] == "" {
		t.Error("command name missing")
	}
}

func TestHandleToolsCall_Errors(t *testing.T) {
	tests := []struct {
		name string
		tool string
		args map[string]interface{}
	}{
		{"unknown tool", "nonexistent_tool", map[string]interface{}{}},
		{"apply before open", "image_apply", map[string]interface{}{"command": "invert"}},
		{"state before open", "image_state", nil},
		{"open missing path", "image_open", map[string]interface{}{}},
		{"open nonexistent file", "image_open", map[string]interface{}{"path": "/nonexistent/image.png"}},
		{"save missing path", "image_save", map[string]interface{}{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(t)
			resp, _ := callTool(t, s, tt.tool, tt.args)
			if resp.Error == nil {
				t.Fatal("expected error response")
			}
			if resp.Error.Code != -32000 {
				t.Errorf("Code: got %d, want -32000", resp.Error.Code)
			}
		})
	}
}

func TestHandleToolsCall_ApplyErrors(t *testing.T) {
	s := newTestServer(t)
	openTestImage(t, s, 10, 10, color.RGBA{1, 2, 3, 255})

	for _, args := range []map[string]interface{}{
		{"command": "sparkle"},
		{"command": "blur"},
		{"command": "warp", "args": map[string]interface{}{"x1": 0, "y1": 0}},
		{},
	} {
		resp, _ := callTool(t, s, "image_apply", args)
		if resp.Error == nil {
			t.Errorf("%v: expected error", args)
		}
	}

	_, out := callTool(t, s, "image_state", nil)
	if out["depth"] != float64(1) {
		t.Errorf("failed commands should not push: depth %v", out["depth"])
	}
}

func TestHandleToolsCall_OpenFailureKeepsSession(t *testing.T) {
	s := newTestServer(t)
	openTestImage(t, s, 12, 8, color.RGBA{9, 9, 9, 255})
	callTool(t, s, "image_apply", map[string]interface{}{"command": "invert"})

	resp, _ := callTool(t, s, "image_open", map[string]interface{}{"path": "/nonexistent/image.png"})
	if resp.Error == nil {
		t.Fatal("expected error")
	}

	_, out := callTool(t, s, "image_state", nil)
	if out["width"] != float64(12) || out["inverted"] != true {
		t.Errorf("session should survive a failed open: %v", out)
	}
}

func TestHandleToolsCall_InvalidParams(t *testing.T) {
	s := newTestServer(t)

	resp := s.handleToolsCall(&MCPRequest{
		JSONRPC: "2.0",
		ID:      1,
		Params:  json.RawMessage(`"not an object"`),
	})
	if resp.Error == nil || resp.Error.Code != -32602 {
		t.Errorf("expected -32602, got %+v", resp.Error)
	}
}
