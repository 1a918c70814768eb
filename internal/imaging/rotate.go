package imaging

import (
	"image"
	"image/color"
	"math"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/math/f64"
)

// RotatedBounds returns the size of the smallest axis-aligned rectangle that
// contains a width x height rectangle rotated by degrees:
//
//	boundW = h*|sin θ| + w*|cos θ|
//	boundH = h*|cos θ| + w*|sin θ|
//
// Fractional sizes are truncated.
func RotatedBounds(width, height, degrees int) (int, int) {
	sin, cos := math.Sincos(float64(degrees) * math.Pi / 180)
	w, h := float64(width), float64(height)
	boundW := int(h*math.Abs(sin) + w*math.Abs(cos))
	boundH := int(h*math.Abs(cos) + w*math.Abs(sin))
	return max(boundW, 1), max(boundH, 1)
}

// Rotate turns img by degrees about its centre, counter-clockwise on screen.
//
// The output is sized by RotatedBounds so no corner is clipped, and the
// rotated content is centred in it. Pixels are resampled bilinearly; areas
// not covered by the source are opaque black. Multiples of 90 degrees map
// pixel centres onto pixel centres, so they lose no detail.
func Rotate(img image.Image, degrees int) *image.RGBA {
	b := img.Bounds()
	w, h := float64(b.Dx()), float64(b.Dy())
	boundW, boundH := RotatedBounds(b.Dx(), b.Dy(), degrees)

	sin, cos := math.Sincos(float64(degrees) * math.Pi / 180)
	cx, cy := w/2, h/2

	// Rotation about the source centre, then shifted so that centre lands on
	// the centre of the enlarged output.
	tx := (1-cos)*cx - sin*cy + float64(boundW)/2 - cx
	ty := sin*cx + (1-cos)*cy + float64(boundH)/2 - cy

	// Account for a source rectangle that does not start at the origin.
	tx -= cos*float64(b.Min.X) + sin*float64(b.Min.Y)
	ty -= -sin*float64(b.Min.X) + cos*float64(b.Min.Y)

	s2d := f64.Aff3{
		cos, sin, tx,
		-sin, cos, ty,
	}

	dst := image.NewRGBA(image.Rect(0, 0, boundW, boundH))
	xdraw.Draw(dst, dst.Bounds(), image.NewUniform(color.Black), image.Point{}, xdraw.Src)
	xdraw.BiLinear.Transform(dst, s2d, img, b, xdraw.Src, nil)
	return dst
}
