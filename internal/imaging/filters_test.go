package imaging

import (
	"errors"
	"image"
	"image/color"
	"testing"
)

// assertUniform fails unless every pixel of img is within tol of want.
func assertUniform(t *testing.T, img *image.RGBA, want color.RGBA, tol int) {
	t.Helper()
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			got := img.RGBAAt(x, y)
			if absInt(int(got.R)-int(want.R)) > tol ||
				absInt(int(got.G)-int(want.G)) > tol ||
				absInt(int(got.B)-int(want.B)) > tol ||
				got.A != want.A {
				t.Fatalf("pixel (%d,%d): got %v, want %v (±%d)", x, y, got, want, tol)
			}
		}
	}
}

// sameImage reports whether a and b have the same size and pixels.
func sameImage(a, b *image.RGBA) bool {
	if a.Bounds().Dx() != b.Bounds().Dx() || a.Bounds().Dy() != b.Bounds().Dy() {
		return false
	}
	ab, bb := a.Bounds(), b.Bounds()
	for y := 0; y < ab.Dy(); y++ {
		for x := 0; x < ab.Dx(); x++ {
			if a.RGBAAt(ab.Min.X+x, ab.Min.Y+y) != b.RGBAAt(bb.Min.X+x, bb.Min.Y+y) {
				return false
			}
		}
	}
	return true
}

func assertGray(t *testing.T, img *image.RGBA) {
	t.Helper()
	for i := 0; i < len(img.Pix); i += 4 {
		if img.Pix[i] != img.Pix[i+1] || img.Pix[i] != img.Pix[i+2] {
			t.Fatalf("pixel %d not gray: %v", i/4, img.Pix[i:i+3])
		}
	}
}

func TestSharpen_ZeroIsIdentity(t *testing.T) {
	src := createPatternImage(12, 12)
	got := Sharpen(src, 0)
	if !sameImage(got, src) {
		t.Error("Sharpen(0) should reproduce the input")
	}
}

func TestSharpen_FlatStaysFlat(t *testing.T) {
	src := createInMemoryImage(10, 10, color.RGBA{90, 120, 150, 255})
	for _, d := range []float64{0.5, 2, 5, 50} {
		assertUniform(t, Sharpen(src, d), color.RGBA{90, 120, 150, 255}, 0)
	}
}

func TestSharpen_BoostsEdge(t *testing.T) {
	// Left half 100, right half 150
	src := image.NewRGBA(image.Rect(0, 0, 10, 4))
	for y := 0; y < 4; y++ {
		for x := 0; x < 10; x++ {
			v := uint8(100)
			if x >= 5 {
				v = 150
			}
			src.SetRGBA(x, y, color.RGBA{v, v, v, 255})
		}
	}

	got := Sharpen(src, 1)
	// 5*100 - 3*100 - 150 = 50 and 5*150 - 3*150 - 100 = 200
	if v := got.RGBAAt(4, 2).R; v != 50 {
		t.Errorf("dark side of edge: got %d, want 50", v)
	}
	if v := got.RGBAAt(5, 2).R; v != 200 {
		t.Errorf("bright side of edge: got %d, want 200", v)
	}
	if v := got.RGBAAt(1, 2).R; v != 100 {
		t.Errorf("away from edge: got %d, want 100", v)
	}
}

func TestBlur_RejectsEvenSizes(t *testing.T) {
	src := createPatternImage(8, 8)
	for _, k := range []int{-3, 0, 2, 4, 14, 16} {
		if _, err := Blur(src, k); !errors.Is(err, ErrInvalidParameter) {
			t.Errorf("Blur(%d): got %v, want ErrInvalidParameter", k, err)
		}
	}
}

func TestBlur_SizeOneIsIdentity(t *testing.T) {
	src := createPatternImage(8, 8)
	got, err := Blur(src, 1)
	if err != nil {
		t.Fatalf("Blur failed: %v", err)
	}
	if !sameImage(got, src) {
		t.Error("Blur(1) should reproduce the input")
	}
}

func TestBlur_Smooths(t *testing.T) {
	src := createPatternImage(20, 20)

	got, err := Blur(src, 5)
	if err != nil {
		t.Fatalf("Blur failed: %v", err)
	}
	if got.Bounds() != src.Bounds() {
		t.Fatalf("bounds changed: %v", got.Bounds())
	}

	// Interior of a quadrant is untouched, the boundary is mixed
	if c := got.RGBAAt(2, 2); c.R < 254 || c.G > 1 || c.B > 1 {
		t.Errorf("quadrant interior: got %v, want red", c)
	}
	if c := got.RGBAAt(10, 2); c.G == 255 || c.R == 0 {
		t.Errorf("quadrant boundary should be mixed, got %v", c)
	}

	// Sizes above the maximum behave like the maximum
	big, _ := Blur(src, 99)
	maxed, _ := Blur(src, MaxBlur)
	if !sameImage(big, maxed) {
		t.Error("Blur above MaxBlur should clamp to MaxBlur")
	}
}

func TestBlur_FlatStaysFlat(t *testing.T) {
	src := createInMemoryImage(16, 16, color.RGBA{60, 60, 60, 255})
	got, err := Blur(src, 7)
	if err != nil {
		t.Fatalf("Blur failed: %v", err)
	}
	assertUniform(t, got, color.RGBA{60, 60, 60, 255}, 1)
}

func TestEmboss_FlatIsMidGray(t *testing.T) {
	src := createInMemoryImage(10, 10, color.RGBA{200, 30, 90, 255})
	got := Emboss(src, DefaultEmbossBias)
	assertUniform(t, got, color.RGBA{128, 128, 128, 255}, 0)
}

func TestEmboss_IsGray(t *testing.T) {
	got := Emboss(createPatternImage(16, 16), DefaultEmbossBias)
	assertGray(t, got)

	// The diagonal edge between quadrants departs from the bias
	if c := got.RGBAAt(8, 8); c.R == 128 {
		t.Errorf("edge pixel should differ from bias, got %v", c)
	}
}
