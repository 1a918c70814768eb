package editor

import (
	"fmt"
	"image"
	"math"

	"github.com/ironsheep/image-edit-mcp/internal/history"
	"github.com/ironsheep/image-edit-mcp/internal/imaging"
)

// Params carries the numeric arguments of a command, keyed by argument name.
// Slider commands read "value".
type Params map[string]float64

// ArgSpec describes a single argument for a command. Fields are textual and
// intended for help output and tool schemas.
type ArgSpec struct {
	Name        string `json:"name"`
	Type        string `json:"type"` // "int" or "number"
	Required    bool   `json:"required"`
	Default     string `json:"default,omitempty"`
	Description string `json:"description"`
}

// Command is one entry of the dispatch table.
type Command struct {
	Name        string    `json:"name"`
	Args        []ArgSpec `json:"args"`
	Sticky      bool      `json:"sticky"`
	Description string    `json:"description"`

	build func(c *Controller, p Params) (history.Step, error)
}

// commandTable is the authoritative list of commands accepted by Apply.
// "reset" is handled by Apply itself and has no builder.
var commandTable = []Command{
	{
		Name:        "rotate",
		Args:        []ArgSpec{{"degrees", "int", false, "90", "degrees added to the cumulative rotation"}},
		Description: "Rotate counter-clockwise; the base image is re-rotated at the new total angle.",
		build:       buildRotate,
	},
	{
		Name:        "invert",
		Sticky:      true,
		Description: "Invert colours (applies once).",
		build:       buildInvert,
	},
	{
		Name:        "vignette",
		Sticky:      true,
		Description: "Darken towards the edges with a Gaussian mask (applies once).",
		build:       buildVignette,
	},
	{
		Name:        "emboss",
		Sticky:      true,
		Description: "Grayscale relief effect (applies once).",
		build:       buildEmboss,
	},
	{
		Name: "warp",
		Args: []ArgSpec{
			{"x1", "number", true, "", "top-left corner X"},
			{"y1", "number", true, "", "top-left corner Y"},
			{"x2", "number", true, "", "top-right corner X"},
			{"y2", "number", true, "", "top-right corner Y"},
			{"x3", "number", true, "", "bottom-left corner X"},
			{"y3", "number", true, "", "bottom-left corner Y"},
			{"x4", "number", true, "", "bottom-right corner X"},
			{"y4", "number", true, "", "bottom-right corner Y"},
		},
		Sticky:      true,
		Description: "Perspective-correct the quadrilateral given by four corners onto the full frame (applies once).",
		build:       buildWarp,
	},
	{
		Name:        "sharpen",
		Args:        []ArgSpec{{"value", "number", true, "", "sharpen degree, slider 0-2, accepted 0-5"}},
		Description: "Sharpen edges with a 3x3 kernel.",
		build:       buildSharpen,
	},
	{
		Name:        "blur",
		Args:        []ArgSpec{{"value", "int", true, "", "odd kernel size 1-15; even sizes are ignored"}},
		Description: "Gaussian blur.",
		build:       buildBlur,
	},
	{
		Name:        "brightness",
		Args:        []ArgSpec{{"value", "number", true, "", "amount added to every channel, slider 0-20, accepted 0-200"}},
		Description: "Brighten by a flat offset, saturating at white.",
		build:       buildBrightness,
	},
	{
		Name:        "contrast",
		Args:        []ArgSpec{{"value", "number", true, "", "CLAHE clip limit 0-2"}},
		Description: "Local contrast equalization of lightness.",
		build:       buildContrast,
	},
	{
		Name:        "noise",
		Args:        []ArgSpec{{"value", "number", true, "", "slider 0-2, divided by 100 to give the noise frequency"}},
		Description: "Grayscale with a procedural gradient-noise texture.",
		build:       buildNoise,
	},
	{
		Name:        "denoise",
		Args:        []ArgSpec{{"value", "int", true, "", "bilateral filter diameter 0-50"}},
		Description: "Edge-preserving noise reduction.",
		build:       buildDenoise,
	},
	{
		Name: "rgb",
		Args: []ArgSpec{
			{"r", "int", false, "current", "red offset -255..255"},
			{"g", "int", false, "current", "green offset -255..255"},
			{"b", "int", false, "current", "blue offset -255..255"},
		},
		Description: "Shift individual colour channels.",
		build:       buildRGB,
	},
	{
		Name:        "reset",
		Description: "Discard all edits and return to the loaded image.",
	},
}

// noiseSliderScale converts the noise slider value to a sampling frequency.
const noiseSliderScale = 100

func buildRotate(c *Controller, p Params) (history.Step, error) {
	deg := int(math.Round(p.get("degrees", 90)))
	return history.Step{
		Update: func(next *history.State) { next.Rotation += deg },
		Render: func(base *image.RGBA, next history.State) (*image.RGBA, error) {
			return imaging.Rotate(base, next.Rotation), nil
		},
	}, nil
}

func buildInvert(c *Controller, p Params) (history.Step, error) {
	return history.Step{
		Flag: history.FlagInverted,
		Render: func(base *image.RGBA, _ history.State) (*image.RGBA, error) {
			return imaging.Invert(base), nil
		},
	}, nil
}

func buildVignette(c *Controller, p Params) (history.Step, error) {
	degree := c.cfg.Effects.VignetteDegree
	return history.Step{
		Flag: history.FlagVignetted,
		Render: func(base *image.RGBA, _ history.State) (*image.RGBA, error) {
			return imaging.Vignette(base, degree), nil
		},
	}, nil
}

func buildEmboss(c *Controller, p Params) (history.Step, error) {
	bias := c.cfg.Effects.EmbossBias
	return history.Step{
		Flag: history.FlagEmbossed,
		Render: func(base *image.RGBA, _ history.State) (*image.RGBA, error) {
			return imaging.Emboss(base, bias), nil
		},
	}, nil
}

func buildWarp(c *Controller, p Params) (history.Step, error) {
	var q imaging.Quad
	for i := range q {
		x, okX := p[fmt.Sprintf("x%d", i+1)]
		y, okY := p[fmt.Sprintf("y%d", i+1)]
		if !okX || !okY {
			return history.Step{}, fmt.Errorf("%w: warp needs x%d and y%d", ErrMissingArgument, i+1, i+1)
		}
		q[i] = imaging.Point{X: x, Y: y}
	}
	return history.Step{
		Flag: history.FlagWarped,
		Render: func(base *image.RGBA, _ history.State) (*image.RGBA, error) {
			return imaging.Warp(base, q), nil
		},
	}, nil
}

func buildSharpen(c *Controller, p Params) (history.Step, error) {
	v, err := p.value()
	if err != nil {
		return history.Step{}, err
	}
	degree := bounded(v, 0, imaging.MaxSharpen)
	return history.Step{
		Update: func(next *history.State) { next.Sharpen = degree },
		Render: func(base *image.RGBA, _ history.State) (*image.RGBA, error) {
			return imaging.Sharpen(base, degree), nil
		},
	}, nil
}

func buildBlur(c *Controller, p Params) (history.Step, error) {
	v, err := p.value()
	if err != nil {
		return history.Step{}, err
	}
	size := int(math.Round(v))
	if size > imaging.MaxBlur {
		size = imaging.MaxBlur
	}
	return history.Step{
		Update: func(next *history.State) { next.Blur = size },
		Render: func(base *image.RGBA, _ history.State) (*image.RGBA, error) {
			return imaging.Blur(base, size)
		},
	}, nil
}

func buildBrightness(c *Controller, p Params) (history.Step, error) {
	v, err := p.value()
	if err != nil {
		return history.Step{}, err
	}
	degree := bounded(v, 0, imaging.MaxBrightness)
	return history.Step{
		Update: func(next *history.State) { next.Brightness = degree },
		Render: func(base *image.RGBA, _ history.State) (*image.RGBA, error) {
			return imaging.Brightness(base, degree), nil
		},
	}, nil
}

func buildContrast(c *Controller, p Params) (history.Step, error) {
	v, err := p.value()
	if err != nil {
		return history.Step{}, err
	}
	limit := bounded(v, 0, imaging.MaxContrast)
	return history.Step{
		Update: func(next *history.State) { next.Contrast = limit },
		Render: func(base *image.RGBA, _ history.State) (*image.RGBA, error) {
			return imaging.Contrast(base, limit), nil
		},
	}, nil
}

func buildNoise(c *Controller, p Params) (history.Step, error) {
	v, err := p.value()
	if err != nil {
		return history.Step{}, err
	}
	// The level sets the sampling frequency of the field; the blend weight
	// stays fixed inside imaging.Noise.
	degree := bounded(v/noiseSliderScale, 0, 1)
	opts := c.cfg.Effects.Noise
	return history.Step{
		Update: func(next *history.State) { next.Noise = degree },
		Render: func(base *image.RGBA, _ history.State) (*image.RGBA, error) {
			return imaging.Noise(base, degree, opts), nil
		},
	}, nil
}

func buildDenoise(c *Controller, p Params) (history.Step, error) {
	v, err := p.value()
	if err != nil {
		return history.Step{}, err
	}
	diameter := int(math.Round(bounded(v, 0, imaging.MaxDenoise)))
	sigmas := c.cfg.Effects.Denoise
	return history.Step{
		Update: func(next *history.State) { next.Denoise = diameter },
		Render: func(base *image.RGBA, _ history.State) (*image.RGBA, error) {
			return imaging.Denoise(base, diameter, sigmas.SigmaColor, sigmas.SigmaSpace), nil
		},
	}, nil
}

func buildRGB(c *Controller, p Params) (history.Step, error) {
	channel := func(name string, current int) int {
		v := bounded(p.get(name, float64(current)), -imaging.MaxChannel, imaging.MaxChannel)
		return int(math.Round(v))
	}
	return history.Step{
		Update: func(next *history.State) {
			next.Red = channel("r", next.Red)
			next.Green = channel("g", next.Green)
			next.Blue = channel("b", next.Blue)
		},
		Render: func(base *image.RGBA, next history.State) (*image.RGBA, error) {
			return imaging.AdjustRGB(base, next.Red, next.Green, next.Blue), nil
		},
	}, nil
}

// get returns the named argument or def when it is absent.
func (p Params) get(name string, def float64) float64 {
	if v, ok := p[name]; ok {
		return v
	}
	return def
}

// value returns the required "value" argument of a slider command.
func (p Params) value() (float64, error) {
	v, ok := p["value"]
	if !ok {
		return 0, fmt.Errorf("%w: value", ErrMissingArgument)
	}
	return v, nil
}

// bounded clamps v to [lo, hi]; NaN maps to lo.
func bounded(v, lo, hi float64) float64 {
	if v > hi {
		return hi
	}
	if !(v >= lo) {
		return lo
	}
	return v
}
