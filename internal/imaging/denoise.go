package imaging

import (
	"image"
	"math"

	"github.com/anthonynsimon/bild/clone"
	"github.com/anthonynsimon/bild/parallel"
)

// Denoise parameters.
const (
	MaxDenoise = 50

	DefaultSigmaColor = 30.0
	DefaultSigmaSpace = 20.0
)

// Denoise smooths img with a bilateral filter, which averages each pixel with
// neighbours that are both close in space and close in colour, so edges
// survive while flat areas lose their grain.
//
// Parameters:
//   - img: Source image.
//   - diameter: Neighbourhood diameter in pixels, clamped to [0, MaxDenoise].
//     Only offsets within radius diameter/2 of the centre contribute. A
//     radius of zero returns an unfiltered copy.
//   - sigmaColor: Colour similarity falloff. The colour distance is the sum
//     of absolute channel differences.
//   - sigmaSpace: Spatial falloff in pixels.
//
// Non-positive sigmas fall back to DefaultSigmaColor and DefaultSigmaSpace.
// Pixels outside the image replicate the nearest edge pixel.
func Denoise(img image.Image, diameter int, sigmaColor, sigmaSpace float64) *image.RGBA {
	src := clone.AsRGBA(img)
	radius := clamp(diameter, 0, MaxDenoise) / 2
	if radius == 0 {
		return src
	}
	if sigmaColor <= 0 {
		sigmaColor = DefaultSigmaColor
	}
	if sigmaSpace <= 0 {
		sigmaSpace = DefaultSigmaSpace
	}

	type offset struct {
		dx, dy int
		weight float64
	}
	spaceCoeff := -0.5 / (sigmaSpace * sigmaSpace)
	var window []offset
	for dy := -radius; dy <= radius; dy++ {
		for dx := -radius; dx <= radius; dx++ {
			r := math.Sqrt(float64(dx*dx + dy*dy))
			if r > float64(radius) {
				continue
			}
			window = append(window, offset{dx, dy, math.Exp(r * r * spaceCoeff)})
		}
	}

	colorCoeff := -0.5 / (sigmaColor * sigmaColor)
	var colorWeight [3*255 + 1]float64
	for i := range colorWeight {
		colorWeight[i] = math.Exp(float64(i*i) * colorCoeff)
	}

	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	dst := image.NewRGBA(image.Rect(0, 0, w, h))

	parallel.Line(h, func(start, end int) {
		for y := start; y < end; y++ {
			for x := 0; x < w; x++ {
				c := src.PixOffset(x+b.Min.X, y+b.Min.Y)
				r0, g0, b0 := int(src.Pix[c]), int(src.Pix[c+1]), int(src.Pix[c+2])

				var sumR, sumG, sumB, sumW float64
				for _, o := range window {
					nx := clamp(x+o.dx, 0, w-1) + b.Min.X
					ny := clamp(y+o.dy, 0, h-1) + b.Min.Y
					n := src.PixOffset(nx, ny)
					r, g, bl := int(src.Pix[n]), int(src.Pix[n+1]), int(src.Pix[n+2])

					diff := absInt(r-r0) + absInt(g-g0) + absInt(bl-b0)
					wt := o.weight * colorWeight[diff]
					sumR += float64(r) * wt
					sumG += float64(g) * wt
					sumB += float64(bl) * wt
					sumW += wt
				}

				d := dst.PixOffset(x, y)
				dst.Pix[d] = toUint8(sumR / sumW)
				dst.Pix[d+1] = toUint8(sumG / sumW)
				dst.Pix[d+2] = toUint8(sumB / sumW)
				dst.Pix[d+3] = src.Pix[c+3]
			}
		}
	})
	return dst
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
