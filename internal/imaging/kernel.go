package imaging

import (
	"image"
	"math"

	"github.com/anthonynsimon/bild/convolution"
)

// newKernel builds a convolution kernel of the given size from row-major weights.
func newKernel(width, height int, weights ...float64) *convolution.Kernel {
	k := convolution.NewKernel(width, height)
	copy(k.Matrix, weights)
	return k
}

// convolve correlates img with k, clipping results to 0-255 after adding bias.
// Borders replicate the nearest edge pixel. Alpha is copied from the source.
func convolve(img image.Image, k *convolution.Kernel, bias float64) *image.RGBA {
	return convolution.Convolve(img, k, &convolution.Options{
		Bias:      bias,
		Wrap:      false,
		KeepAlpha: true,
	})
}

// gaussianKernel returns n normalised Gaussian weights centred on (n-1)/2.
//
// A sigma of zero or less derives it from the size the same way common
// imaging toolkits do for an automatic Gaussian blur:
//
//	sigma = 0.3*((n-1)*0.5 - 1) + 0.8
func gaussianKernel(n int, sigma float64) []float64 {
	if n < 1 {
		n = 1
	}
	if sigma <= 0 {
		sigma = 0.3*((float64(n)-1)*0.5-1) + 0.8
	}

	weights := make([]float64, n)
	center := float64(n-1) / 2
	denom := 2 * sigma * sigma
	var sum float64
	for i := range weights {
		d := float64(i) - center
		weights[i] = math.Exp(-d * d / denom)
		sum += weights[i]
	}
	for i := range weights {
		weights[i] /= sum
	}
	return weights
}

// clamp constrains an integer value to the range [min, max].
func clamp(val, min, max int) int {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}

// clampFloat constrains a float value to the range [min, max]. NaN maps to min.
func clampFloat(val, min, max float64) float64 {
	if val > max {
		return max
	}
	if !(val >= min) {
		return min
	}
	return val
}

// toUint8 rounds v to the nearest integer and saturates it to 0-255.
func toUint8(v float64) uint8 {
	return uint8(clampFloat(math.Round(v), 0, 255))
}
