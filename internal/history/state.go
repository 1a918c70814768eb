// Package history keeps the edit history of a single loaded image.
//
// A Session owns the pristine base image and a stack of State snapshots.
// Every edit is rendered from the base image rather than from the previous
// snapshot, so repeating an adjustment never compounds resampling or
// rounding error, and moving a slider back to an earlier value reproduces
// the earlier pixels exactly.
//
// Sessions are not safe for concurrent use; the owner serialises access.
package history

import "image"

// Flag identifies a sticky one-shot effect. Once a flag is set on the
// current state, requesting the same effect again changes nothing.
type Flag int

const (
	// NoFlag marks an edit that may be repeated.
	NoFlag Flag = iota
	FlagInverted
	FlagVignetted
	FlagEmbossed
	FlagWarped
)

func (f Flag) String() string {
	switch f {
	case FlagInverted:
		return "inverted"
	case FlagVignetted:
		return "vignetted"
	case FlagEmbossed:
		return "embossed"
	case FlagWarped:
		return "warped"
	default:
		return "none"
	}
}

// State is one immutable snapshot in the history: the image shown to the user
// plus the controls that produced it. States are passed and stored by value;
// the image buffer is shared and must never be written to.
type State struct {
	Image *image.RGBA

	// Rotation is the cumulative rotation in degrees.
	Rotation int

	Inverted  bool
	Vignetted bool
	Embossed  bool
	Warped    bool

	Sharpen    float64
	Blur       int
	Brightness float64
	Contrast   float64
	Noise      float64
	Denoise    int
	Red        int
	Green      int
	Blue       int
}

// NewState returns the default state wrapping img: no rotation, no sticky
// effects and every level at zero.
func NewState(img *image.RGBA) State {
	return State{Image: img}
}

// Has reports whether the sticky effect f is set. NoFlag is never set.
func (s State) Has(f Flag) bool {
	switch f {
	case FlagInverted:
		return s.Inverted
	case FlagVignetted:
		return s.Vignetted
	case FlagEmbossed:
		return s.Embossed
	case FlagWarped:
		return s.Warped
	default:
		return false
	}
}

// With returns a copy of s with the sticky effect f set.
func (s State) With(f Flag) State {
	switch f {
	case FlagInverted:
		s.Inverted = true
	case FlagVignetted:
		s.Vignetted = true
	case FlagEmbossed:
		s.Embossed = true
	case FlagWarped:
		s.Warped = true
	}
	return s
}
