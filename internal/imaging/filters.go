package imaging

import (
	"errors"
	"fmt"
	"image"

	"github.com/disintegration/imaging"
)

// ErrInvalidParameter reports a parameter that cannot be clamped into a
// meaningful value. Callers are expected to treat it as a no-op.
var ErrInvalidParameter = errors.New("invalid parameter")

// Parameter limits for the kernel-based filters.
const (
	MaxSharpen = 5.0
	MaxBlur    = 15

	// DefaultEmbossBias recentres the emboss response around mid-gray.
	DefaultEmbossBias = 128.0
)

// Sharpen boosts edge contrast with a 3x3 Laplacian-style kernel.
//
// The kernel has centre weight 1+4*degree, weight -degree on the four direct
// neighbours and zero on the diagonals:
//
//	 0  -d   0
//	-d  1+4d -d
//	 0  -d   0
//
// degree is clamped to [0, MaxSharpen]. A degree of 0 reproduces the input.
func Sharpen(img image.Image, degree float64) *image.RGBA {
	d := clampFloat(degree, 0, MaxSharpen)
	k := newKernel(3, 3,
		0, -d, 0,
		-d, 1+4*d, -d,
		0, -d, 0,
	)
	return convolve(img, k, 0)
}

// Blur applies a Gaussian blur with a square kernel of side ksize.
//
// Parameters:
//   - img: Source image.
//   - ksize: Kernel side in pixels. Must be odd and positive; values above
//     MaxBlur are clamped to MaxBlur. Sigma is derived from the size.
//
// Returns ErrInvalidParameter for even or non-positive sizes. The blur is
// separable, so it runs as a horizontal pass followed by a vertical pass.
func Blur(img image.Image, ksize int) (*image.RGBA, error) {
	if ksize < 1 || ksize%2 == 0 {
		return nil, fmt.Errorf("%w: blur size %d must be a positive odd number", ErrInvalidParameter, ksize)
	}
	ksize = clamp(ksize, 1, MaxBlur)

	weights := gaussianKernel(ksize, 0)
	horizontal := newKernel(ksize, 1, weights...)
	vertical := newKernel(1, ksize, weights...)

	return convolve(convolve(img, horizontal, 0), vertical, 0), nil
}

// Emboss converts img to grayscale and convolves it with a directional edge
// kernel, adding bias to every output value before clipping:
//
//	0 -1 -1
//	1  0 -1
//	1  1  0
//
// Flat regions come out at the bias value (mid-gray for DefaultEmbossBias).
// The result has equal R, G and B channels.
func Emboss(img image.Image, bias float64) *image.RGBA {
	gray := imaging.Grayscale(img)
	k := newKernel(3, 3,
		0, -1, -1,
		1, 0, -1,
		1, 1, 0,
	)
	return convolve(gray, k, clampFloat(bias, -255, 255))
}
