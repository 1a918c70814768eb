package editor

import "github.com/ironsheep/image-edit-mcp/internal/history"

// Snapshot is the client-facing summary of the current history state.
type Snapshot struct {
	Source string `json:"source,omitempty"`
	Width  int    `json:"width"`
	Height int    `json:"height"`

	// Depth is the number of states on the history stack (1 = no edits).
	Depth int `json:"depth"`

	// Changed reports whether the call that produced this snapshot altered
	// the history.
	Changed bool `json:"changed"`

	Rotation  int  `json:"rotation"`
	Inverted  bool `json:"inverted"`
	Vignetted bool `json:"vignetted"`
	Embossed  bool `json:"embossed"`
	Warped    bool `json:"warped"`

	Sharpen    float64 `json:"sharpen"`
	Blur       int     `json:"blur"`
	Brightness float64 `json:"brightness"`
	Contrast   float64 `json:"contrast"`
	Noise      float64 `json:"noise"`
	Denoise    int     `json:"denoise"`
	Red        int     `json:"red"`
	Green      int     `json:"green"`
	Blue       int     `json:"blue"`
}

func newSnapshot(source string, s history.State, depth int, changed bool) Snapshot {
	b := s.Image.Bounds()
	return Snapshot{
		Source:     source,
		Width:      b.Dx(),
		Height:     b.Dy(),
		Depth:      depth,
		Changed:    changed,
		Rotation:   s.Rotation,
		Inverted:   s.Inverted,
		Vignetted:  s.Vignetted,
		Embossed:   s.Embossed,
		Warped:     s.Warped,
		Sharpen:    s.Sharpen,
		Blur:       s.Blur,
		Brightness: s.Brightness,
		Contrast:   s.Contrast,
		Noise:      s.Noise,
		Denoise:    s.Denoise,
		Red:        s.Red,
		Green:      s.Green,
		Blue:       s.Blue,
	}
}
