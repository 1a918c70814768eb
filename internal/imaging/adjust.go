package imaging

import (
	"image"
	"image/color"

	"github.com/anthonynsimon/bild/adjust"
	"github.com/anthonynsimon/bild/effect"
)

// Parameter limits for the point adjustments.
const (
	MaxBrightness = 200.0
	MaxChannel    = 255
)

// Invert replaces every colour channel value v with 255-v. Applying it twice
// returns the original pixels.
func Invert(img image.Image) *image.RGBA {
	return effect.Invert(img)
}

// Brightness adds degree to every colour channel, saturating at 0 and 255:
//
//	output = clip(input + degree, 0, 255)
//
// degree is clamped to [0, MaxBrightness]. Large values intentionally drive
// the whole image to white.
func Brightness(img image.Image, degree float64) *image.RGBA {
	d := clampFloat(degree, 0, MaxBrightness)
	return adjust.Apply(img, func(c color.RGBA) color.RGBA {
		return color.RGBA{
			R: toUint8(float64(c.R) + d),
			G: toUint8(float64(c.G) + d),
			B: toUint8(float64(c.B) + d),
			A: c.A,
		}
	})
}

// AdjustRGB shifts each colour channel by its own offset, saturating at 0
// and 255. Offsets are clamped to [-MaxChannel, MaxChannel].
func AdjustRGB(img image.Image, red, green, blue int) *image.RGBA {
	dr := float64(clamp(red, -MaxChannel, MaxChannel))
	dg := float64(clamp(green, -MaxChannel, MaxChannel))
	db := float64(clamp(blue, -MaxChannel, MaxChannel))
	return adjust.Apply(img, func(c color.RGBA) color.RGBA {
		return color.RGBA{
			R: toUint8(float64(c.R) + dr),
			G: toUint8(float64(c.G) + dg),
			B: toUint8(float64(c.B) + db),
			A: c.A,
		}
	})
}
