package imaging

import (
	"image"
	"image/color"
	"math"

	"github.com/anthonynsimon/bild/clone"
)

// Point is a sub-pixel position in image coordinates.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Quad lists the corners of a quadrilateral in the order top-left,
// top-right, bottom-left, bottom-right.
type Quad [4]Point

// FullQuad returns the quad covering the whole of a width x height image.
// Warping with it leaves the image unchanged.
func FullQuad(width, height int) Quad {
	w, h := float64(width), float64(height)
	return Quad{{0, 0}, {w, 0}, {0, h}, {w, h}}
}

// Warp corrects perspective by stretching the quadrilateral q of img onto the
// full output rectangle, which keeps the size of img.
//
// Output pixel (x, y) is looked up at H(x, y) in the source, where H is the
// homography taking the output corners to the corners of q, and sampled
// bilinearly. Samples falling outside the source are black. A degenerate
// quad (three or more collinear corners) returns an unmodified copy.
func Warp(img image.Image, q Quad) *image.RGBA {
	src := clone.AsRGBA(img)
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()

	hm, ok := homography(FullQuad(w, h), q)
	if !ok {
		return src
	}

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			fx, fy := float64(x), float64(y)
			den := hm[6]*fx + hm[7]*fy + 1
			sx := (hm[0]*fx + hm[1]*fy + hm[2]) / den
			sy := (hm[3]*fx + hm[4]*fy + hm[5]) / den
			dst.SetRGBA(x, y, sampleBilinear(src, sx, sy))
		}
	}
	return dst
}

// homography solves for the 3x3 projective map (h33 = 1) taking each from[i]
// to to[i]. It reports false when the system is singular.
func homography(from, to Quad) ([8]float64, bool) {
	var m [8][9]float64
	for i := 0; i < 4; i++ {
		u, v := from[i].X, from[i].Y
		x, y := to[i].X, to[i].Y
		m[2*i] = [9]float64{u, v, 1, 0, 0, 0, -u * x, -v * x, x}
		m[2*i+1] = [9]float64{0, 0, 0, u, v, 1, -u * y, -v * y, y}
	}

	// Gaussian elimination with partial pivoting.
	for col := 0; col < 8; col++ {
		pivot := col
		for r := col + 1; r < 8; r++ {
			if math.Abs(m[r][col]) > math.Abs(m[pivot][col]) {
				pivot = r
			}
		}
		if math.Abs(m[pivot][col]) < 1e-12 {
			return [8]float64{}, false
		}
		m[col], m[pivot] = m[pivot], m[col]

		for r := 0; r < 8; r++ {
			if r == col {
				continue
			}
			f := m[r][col] / m[col][col]
			for c := col; c < 9; c++ {
				m[r][c] -= f * m[col][c]
			}
		}
	}

	var out [8]float64
	for i := range out {
		out[i] = m[i][8] / m[i][i]
	}
	return out, true
}

// sampleBilinear reads src at a fractional zero-based position, where
// integer coordinates address pixel centres.
func sampleBilinear(src *image.RGBA, x, y float64) color.RGBA {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	if x < -0.5 || y < -0.5 || x > float64(w)-0.5 || y > float64(h)-0.5 {
		return color.RGBA{A: 0xff}
	}

	x0, y0 := int(math.Floor(x)), int(math.Floor(y))
	fx, fy := x-float64(x0), y-float64(y0)
	x1, y1 := clamp(x0+1, 0, w-1), clamp(y0+1, 0, h-1)
	x0, y0 = clamp(x0, 0, w-1), clamp(y0, 0, h-1)

	p00 := src.PixOffset(x0+b.Min.X, y0+b.Min.Y)
	p10 := src.PixOffset(x1+b.Min.X, y0+b.Min.Y)
	p01 := src.PixOffset(x0+b.Min.X, y1+b.Min.Y)
	p11 := src.PixOffset(x1+b.Min.X, y1+b.Min.Y)

	var ch [3]uint8
	for c := 0; c < 3; c++ {
		top := float64(src.Pix[p00+c])*(1-fx) + float64(src.Pix[p10+c])*fx
		bottom := float64(src.Pix[p01+c])*(1-fx) + float64(src.Pix[p11+c])*fx
		ch[c] = toUint8(top*(1-fy) + bottom*fy)
	}
	return color.RGBA{R: ch[0], G: ch[1], B: ch[2], A: 0xff}
}
