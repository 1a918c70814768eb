package imaging

import (
	"image"
	"image/color"
	"math"

	"github.com/anthonynsimon/bild/clone"
	colorful "github.com/lucasb-eyer/go-colorful"
)

// Contrast parameters.
const (
	MaxContrast = 2.0

	// claheGrid is the number of tiles along each axis.
	claheGrid = 8
)

// Contrast enhances local contrast with contrast-limited adaptive histogram
// equalization (CLAHE) on the lightness channel only.
//
// Parameters:
//   - img: Source image.
//   - clipLimit: Histogram clip limit, clamped to [0, MaxContrast]. Each tile
//     histogram bin is capped at clipLimit*tileArea/256 (at least 1) and the
//     excess is spread evenly over all bins. Zero disables clipping, which
//     gives plain adaptive equalization.
//
// # Algorithm
//
//  1. Convert each pixel to CIE L*a*b* and quantise L to 0-255.
//  2. Split the image into an 8x8 grid of equal tiles (the last row and
//     column reflect the image edge when the size does not divide evenly).
//  3. Build a clipped histogram and cumulative lookup table per tile.
//  4. Map every pixel through the four nearest tile tables and blend them
//     bilinearly so tile borders do not show.
//  5. Shift L by the mapped difference, keep a and b, convert back to RGB.
//
// A uniformly coloured image maps to a uniformly coloured image.
func Contrast(img image.Image, clipLimit float64) *image.RGBA {
	limit := clampFloat(clipLimit, 0, MaxContrast)
	src := clone.AsRGBA(img)
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()

	lab := make([][3]float64, w*h)
	plane := make([]uint8, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			i := src.PixOffset(x+b.Min.X, y+b.Min.Y)
			c := colorful.Color{
				R: float64(src.Pix[i]) / 255,
				G: float64(src.Pix[i+1]) / 255,
				B: float64(src.Pix[i+2]) / 255,
			}
			l, a, bb := c.Lab()
			lab[y*w+x] = [3]float64{l, a, bb}
			plane[y*w+x] = toUint8(l * 255)
		}
	}

	equalized := clahe(plane, w, h, limit)

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			p := lab[y*w+x]
			shift := (float64(equalized[y*w+x]) - float64(plane[y*w+x])) / 255
			r, g, bl := colorful.Lab(p[0]+shift, p[1], p[2]).Clamped().RGB255()
			dst.SetRGBA(x, y, color.RGBA{R: r, G: g, B: bl, A: 0xff})
		}
	}
	return dst
}

// clahe equalizes an 8-bit plane tile by tile with the given clip limit.
func clahe(plane []uint8, w, h int, clipLimit float64) []uint8 {
	gx, gy := min(claheGrid, w), min(claheGrid, h)
	tileW := (w + gx - 1) / gx
	tileH := (h + gy - 1) / gy
	area := tileW * tileH

	binLimit := 0
	if clipLimit > 0 {
		binLimit = max(int(clipLimit*float64(area)/256), 1)
	}

	luts := make([][256]uint8, gx*gy)
	for ty := 0; ty < gy; ty++ {
		for tx := 0; tx < gx; tx++ {
			var hist [256]int
			for y := ty * tileH; y < (ty+1)*tileH; y++ {
				row := reflect101(y, h) * w
				for x := tx * tileW; x < (tx+1)*tileW; x++ {
					hist[plane[row+reflect101(x, w)]]++
				}
			}
			if binLimit > 0 {
				clipHistogram(&hist, binLimit)
			}

			lut := &luts[ty*gx+tx]
			scale := 255 / float64(area)
			sum := 0
			for i, n := range hist {
				sum += n
				lut[i] = toUint8(float64(sum) * scale)
			}
		}
	}

	out := make([]uint8, w*h)
	invTW, invTH := 1/float64(tileW), 1/float64(tileH)
	for y := 0; y < h; y++ {
		fy := float64(y)*invTH - 0.5
		ty1 := int(math.Floor(fy))
		ya := fy - float64(ty1)
		ty2 := min(ty1+1, gy-1)
		ty1 = max(ty1, 0)

		for x := 0; x < w; x++ {
			fx := float64(x)*invTW - 0.5
			tx1 := int(math.Floor(fx))
			xa := fx - float64(tx1)
			tx2 := min(tx1+1, gx-1)
			tx1 = max(tx1, 0)

			v := plane[y*w+x]
			top := float64(luts[ty1*gx+tx1][v])*(1-xa) + float64(luts[ty1*gx+tx2][v])*xa
			bottom := float64(luts[ty2*gx+tx1][v])*(1-xa) + float64(luts[ty2*gx+tx2][v])*xa
			out[y*w+x] = toUint8(top*(1-ya) + bottom*ya)
		}
	}
	return out
}

// clipHistogram caps every bin at limit and spreads the excess over all bins.
func clipHistogram(hist *[256]int, limit int) {
	excess := 0
	for i, n := range hist {
		if n > limit {
			excess += n - limit
			hist[i] = limit
		}
	}

	perBin := excess / len(hist)
	residual := excess - perBin*len(hist)
	for i := range hist {
		hist[i] += perBin
	}
	if residual > 0 {
		step := max(len(hist)/residual, 1)
		for i := 0; i < len(hist) && residual > 0; i += step {
			hist[i]++
			residual--
		}
	}
}

// reflect101 maps an out-of-range index back into [0, n) by mirroring
// around the edge pixels without repeating them.
func reflect101(i, n int) int {
	if n == 1 {
		return 0
	}
	for i < 0 || i >= n {
		if i < 0 {
			i = -i
		} else {
			i = 2*n - 2 - i
		}
	}
	return i
}
