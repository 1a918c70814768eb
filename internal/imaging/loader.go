package imaging

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"image/png"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
)

// ErrUnsupportedFormat is wrapped by DecodeError and EncodeError when the
// file extension is not one of .png, .jpg or .jpeg.
var ErrUnsupportedFormat = errors.New("unsupported image format")

// DecodeError reports an image file that could not be opened or decoded.
type DecodeError struct {
	Path string
	Err  error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("failed to decode image %s: %v", e.Path, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// EncodeError reports an image that could not be encoded or written.
type EncodeError struct {
	Path string
	Err  error
}

func (e *EncodeError) Error() string {
	return fmt.Sprintf("failed to encode image %s: %v", e.Path, e.Err)
}

func (e *EncodeError) Unwrap() error { return e.Err }

// Load reads a PNG or JPEG file and returns it as an opaque working buffer.
//
// Parameters:
//   - path: Path to the image file. The format is chosen by extension:
//     ".png", ".jpg" and ".jpeg" are accepted (case-insensitive).
//
// Returns:
//   - *image.RGBA: The decoded image with origin (0,0) and alpha forced to 255.
//   - error: A *DecodeError if the extension is unsupported, the file cannot
//     be opened, or its contents cannot be decoded.
//
// JPEG files carrying an EXIF orientation tag are rotated upright on load.
func Load(path string) (*image.RGBA, error) {
	if _, err := formatFromPath(path); err != nil {
		return nil, &DecodeError{Path: path, Err: err}
	}

	img, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err != nil {
		return nil, &DecodeError{Path: path, Err: err}
	}

	return Flatten(img), nil
}

// Save encodes img to path as PNG or JPEG, chosen by extension.
//
// Parameters:
//   - img: The image to write.
//   - path: Destination file. Must end in ".png", ".jpg" or ".jpeg".
//   - quality: JPEG quality (1-100). Ignored for PNG output.
//
// Returns an *EncodeError if the extension is unsupported or the file cannot
// be created or written.
func Save(img image.Image, path string, quality int) error {
	if _, err := formatFromPath(path); err != nil {
		return &EncodeError{Path: path, Err: err}
	}

	quality = clamp(quality, 1, 100)
	if err := imaging.Save(img, path, imaging.JPEGQuality(quality)); err != nil {
		return &EncodeError{Path: path, Err: err}
	}
	return nil
}

// Flatten copies img into a zero-origin opaque RGBA buffer. Colour values are
// kept as stored (non-premultiplied) and the alpha channel is discarded.
func Flatten(img image.Image) *image.RGBA {
	n := imaging.Clone(img)
	for i := 3; i < len(n.Pix); i += 4 {
		n.Pix[i] = 0xff
	}
	// With every alpha at 255 the NRGBA and RGBA layouts are identical.
	return &image.RGBA{Pix: n.Pix, Stride: n.Stride, Rect: n.Rect}
}

// formatFromPath maps a file extension to an encoder format.
func formatFromPath(path string) (imaging.Format, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".png":
		return imaging.PNG, nil
	case ".jpg", ".jpeg":
		return imaging.JPEG, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
}

// Dimensions holds the width and height of a buffer.
type Dimensions struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Describe returns the dimensions of img.
func Describe(img image.Image) Dimensions {
	b := img.Bounds()
	return Dimensions{Width: b.Dx(), Height: b.Dy()}
}

// PreviewResult contains a display copy of an image encoded as base64 PNG.
type PreviewResult struct {
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	ImageBase64 string `json:"image_base64"`
	MimeType    string `json:"mime_type"`
}

// Preview encodes img as a base64 PNG, downscaled to maxWidth if wider.
// A maxWidth of zero or less keeps the original size.
func Preview(img image.Image, maxWidth int) (*PreviewResult, error) {
	var out image.Image = img
	if maxWidth > 0 && img.Bounds().Dx() > maxWidth {
		out = imaging.Resize(img, maxWidth, 0, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, out); err != nil {
		return nil, fmt.Errorf("failed to encode preview: %w", err)
	}

	return &PreviewResult{
		Width:       out.Bounds().Dx(),
		Height:      out.Bounds().Dy(),
		ImageBase64: base64.StdEncoding.EncodeToString(buf.Bytes()),
		MimeType:    "image/png",
	}, nil
}
