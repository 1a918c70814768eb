// Package imaging provides the pixel transformations used by the editor.
//
// Every effect in this package is a pure function: it reads an image.Image
// and returns a freshly allocated *image.RGBA. Inputs are never modified, so a
// buffer held by one history entry can be passed to any number of effects
// without copying it first.
//
// # Buffers
//
// Working buffers are opaque 8-bit RGB images stored as *image.RGBA with the
// alpha channel fixed at 255. Load drops any alpha channel present in the
// source file. Effects that work on luminance (Emboss, Noise) return their
// result with R=G=B rather than as a separate *image.Gray.
//
// # Coordinate System
//
// (0,0) is the top-left corner, X increases rightward and Y increases
// downward. Rotation angles are in degrees, positive values turn the image
// counter-clockwise as seen on screen.
//
// # Parameters
//
// Out-of-range parameters never cause a failure. Each effect clamps its
// numeric inputs to the documented range (see the Max* constants). The only
// rejected input is an even or non-positive Blur kernel size, reported as
// ErrInvalidParameter so the caller can treat the request as a no-op.
//
// # Error Handling
//
// File access is the only fallible boundary:
//   - Load returns a *DecodeError for missing, unreadable or unsupported files
//   - Save returns an *EncodeError for unsupported extensions or write failures
//
// # Thread Safety
//
// All functions are stateless and safe for concurrent use. Some effects
// (Denoise, Noise) split their work across goroutines internally but return
// only once the result is complete.
package imaging
