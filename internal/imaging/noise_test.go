package imaging

import (
	"image/color"
	"testing"
)

func TestNoise_ZeroDegreeIsScaledGray(t *testing.T) {
	src := createInMemoryImage(16, 16, color.RGBA{100, 100, 100, 255})
	got := Noise(src, 0, DefaultNoiseOptions())
	// Constant field contributes nothing: 0.8 * 100
	assertUniform(t, got, color.RGBA{80, 80, 80, 255}, 0)
}

func TestNoise_Range(t *testing.T) {
	src := createInMemoryImage(32, 32, color.RGBA{100, 100, 100, 255})
	got := Noise(src, 0.3, DefaultNoiseOptions())
	assertGray(t, got)

	lo, hi := uint8(255), uint8(0)
	for i := 0; i < len(got.Pix); i += 4 {
		lo = min(lo, got.Pix[i])
		hi = max(hi, got.Pix[i])
	}
	// Field rescaled to 0-255 then weighted 0.2 on top of 0.8 * 100
	if lo != 80 {
		t.Errorf("min: got %d, want 80", lo)
	}
	if hi != 131 {
		t.Errorf("max: got %d, want 131", hi)
	}
}

func TestNoise_Deterministic(t *testing.T) {
	src := createPatternImage(24, 24)
	opts := NoiseOptions{Octaves: 3, Persistence: 0.5, Lacunarity: 2, Seed: 42}

	a := Noise(src, 0.2, opts)
	b := Noise(src, 0.2, opts)
	if !sameImage(a, b) {
		t.Error("equal seeds should give equal output")
	}
}

func TestNoiseOptions_Normalized(t *testing.T) {
	got := NoiseOptions{Octaves: 0, Persistence: 3, Lacunarity: 0.5, Seed: 9}.normalized()
	want := DefaultNoiseOptions()
	want.Seed = 9
	if got != want {
		t.Errorf("normalized: got %+v, want %+v", got, want)
	}

	custom := NoiseOptions{Octaves: 4, Persistence: 0.25, Lacunarity: 3, Seed: 1}
	if custom.normalized() != custom {
		t.Errorf("valid options should be kept: %+v", custom.normalized())
	}
}

func TestNoise_SinglePixel(t *testing.T) {
	src := createInMemoryImage(1, 1, color.RGBA{255, 255, 255, 255})
	for _, d := range []float64{0, 0.5, 1, 7} {
		got := Noise(src, d, DefaultNoiseOptions())
		if c := got.RGBAAt(0, 0); c != (color.RGBA{204, 204, 204, 255}) {
			t.Errorf("degree %v: got %v, want 0.8 of white", d, c)
		}
	}
}
