package imaging

import (
	"image"
	"math"

	"github.com/anthonynsimon/bild/clone"
)

// DefaultVignette is the Gaussian spread used when no degree is given.
const DefaultVignette = 300.0

// Vignette darkens img towards its edges with a separable Gaussian mask.
//
// Parameters:
//   - img: Source image.
//   - degree: Standard deviation of both 1-D kernels, in pixels. Larger
//     values give a gentler falloff. Non-positive values use DefaultVignette.
//
// # Algorithm
//
//  1. Build a Gaussian kernel of length width and one of length height.
//  2. Take their outer product to get a 2-D radial falloff.
//  3. Divide by the Frobenius norm, then rescale so the peak is 255.
//  4. Multiply each colour channel by mask/255.
//
// The centre pixel keeps its value and the corners darken the most.
func Vignette(img image.Image, degree float64) *image.RGBA {
	if !(degree > 0) {
		degree = DefaultVignette
	}
	dst := clone.AsRGBA(img)
	b := dst.Bounds()
	w, h := b.Dx(), b.Dy()

	kx := gaussianKernel(w, degree)
	ky := gaussianKernel(h, degree)

	// The Frobenius norm of an outer product is the product of the vector norms.
	norm := vectorNorm(kx) * vectorNorm(ky)
	peak := maxValue(kx) * maxValue(ky) / norm

	mask := make([]float64, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			m := ky[y] * kx[x] / norm
			mask[y*w+x] = 255 * m / peak
		}
	}

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			f := mask[y*w+x] / 255
			i := dst.PixOffset(x+b.Min.X, y+b.Min.Y)
			dst.Pix[i] = toUint8(float64(dst.Pix[i]) * f)
			dst.Pix[i+1] = toUint8(float64(dst.Pix[i+1]) * f)
			dst.Pix[i+2] = toUint8(float64(dst.Pix[i+2]) * f)
		}
	}
	return dst
}

func vectorNorm(v []float64) float64 {
	var sum float64
	for _, x := range v {
		sum += x * x
	}
	return math.Sqrt(sum)
}

func maxValue(v []float64) float64 {
	m := math.Inf(-1)
	for _, x := range v {
		m = math.Max(m, x)
	}
	return m
}
