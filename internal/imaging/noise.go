package imaging

import (
	"image"
	"math"

	"github.com/anthonynsimon/bild/parallel"
	perlin "github.com/aquilax/go-perlin"
	"github.com/disintegration/imaging"
)

// Noise blend weights. The noise level controls sampling frequency, not how
// strongly the field is mixed in.
const (
	noiseBaseWeight  = 0.8
	noiseFieldWeight = 0.2
)

// NoiseOptions configures the layered gradient-noise field.
type NoiseOptions struct {
	// Octaves is the number of frequency layers summed (at least 1).
	Octaves int `json:"octaves" yaml:"octaves"`

	// Persistence scales each successive layer's amplitude, in (0, 1].
	Persistence float64 `json:"persistence" yaml:"persistence"`

	// Lacunarity scales each successive layer's frequency (at least 1).
	Lacunarity float64 `json:"lacunarity" yaml:"lacunarity"`

	// Seed selects the permutation table. Equal seeds give equal fields.
	Seed int64 `json:"seed" yaml:"seed"`
}

// DefaultNoiseOptions returns a single octave with persistence 0.5 and
// lacunarity 2.
func DefaultNoiseOptions() NoiseOptions {
	return NoiseOptions{Octaves: 1, Persistence: 0.5, Lacunarity: 2.0}
}

func (o NoiseOptions) normalized() NoiseOptions {
	def := DefaultNoiseOptions()
	if o.Octaves < 1 {
		o.Octaves = def.Octaves
	}
	if !(o.Persistence > 0 && o.Persistence <= 1) {
		o.Persistence = def.Persistence
	}
	if !(o.Lacunarity >= 1) {
		o.Lacunarity = def.Lacunarity
	}
	return o
}

// Noise overlays a coherent procedural noise texture on a grayscale copy of img.
//
// Parameters:
//   - img: Source image.
//   - degree: Sampling frequency of the noise field, clamped to [0, 1].
//     Pixel (x, y) samples the field at (y*degree, x*degree), so small
//     values give broad blotches and larger values fine grain.
//   - opts: Octave layering of the field.
//
// The field is min-max rescaled to 0-255 and blended as
//
//	0.8*gray + 0.2*noise
//
// so every output value stays within channel range. A constant field (for
// example degree 0, which samples only lattice points) contributes zero.
// The result has equal R, G and B channels.
//
// This is the most expensive effect: cost grows with pixels times octaves.
func Noise(img image.Image, degree float64, opts NoiseOptions) *image.RGBA {
	freq := clampFloat(degree, 0, 1)
	gray := imaging.Grayscale(img)
	w, h := gray.Bounds().Dx(), gray.Bounds().Dy()

	field := noiseField(w, h, freq, opts.normalized())

	lo, hi := math.Inf(1), math.Inf(-1)
	for _, v := range field {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	span := hi - lo

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	for i, v := range field {
		var n float64
		if span > 0 {
			n = math.Floor((v - lo) / span * 255)
		}
		g := float64(gray.Pix[i*4])
		out := toUint8(noiseBaseWeight*g + noiseFieldWeight*n)
		dst.Pix[i*4] = out
		dst.Pix[i*4+1] = out
		dst.Pix[i*4+2] = out
		dst.Pix[i*4+3] = 0xff
	}
	return dst
}

// noiseField samples a w*h Perlin field in row-major order.
func noiseField(w, h int, freq float64, opts NoiseOptions) []float64 {
	// go-perlin divides each octave by alpha, so alpha is 1/persistence and
	// beta is the frequency multiplier.
	gen := perlin.NewPerlin(1/opts.Persistence, opts.Lacunarity, int32(opts.Octaves), opts.Seed)

	field := make([]float64, w*h)
	parallel.Line(h, func(start, end int) {
		for y := start; y < end; y++ {
			for x := 0; x < w; x++ {
				field[y*w+x] = gen.Noise2D(float64(y)*freq, float64(x)*freq)
			}
		}
	})
	return field
}
