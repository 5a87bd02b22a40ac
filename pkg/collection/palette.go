package collection

// ColorPair is the color of one linecut on the left and right image
type ColorPair struct {
	Left  string `yaml:"left"`
	Right string `yaml:"right"`
}

// Palette cycles default colors by ID
type Palette []ColorPair

// DefaultPalette returns the built-in color cycle
func DefaultPalette() Palette {
	return Palette{
		{Left: "#1f77b4", Right: "#aec7e8"},
		{Left: "#ff7f0e", Right: "#ffbb78"},
		{Left: "#2ca02c", Right: "#98df8a"},
		{Left: "#d62728", Right: "#ff9896"},
		{Left: "#9467bd", Right: "#c5b0d5"},
		{Left: "#8c564b", Right: "#c49c94"},
		{Left: "#e377c2", Right: "#f7b6d2"},
		{Left: "#17becf", Right: "#9edae5"},
	}
}

// ColorFor returns palette[(id-1) mod len]. IDs below 1 wrap the same way.
func (p Palette) ColorFor(id int) ColorPair {
	if len(p) == 0 {
		return ColorPair{}
	}
	i := (id - 1) % len(p)
	if i < 0 {
		i += len(p)
	}
	return p[i]
}
