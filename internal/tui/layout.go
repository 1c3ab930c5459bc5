package tui

// Minimum terminal size the layout supports.
const (
	minWidth  = 50
	minHeight = 14
)

// gaugeHeight is the session panel height including its border.
const gaugeHeight = 8

// Rect represents a rectangular region of the terminal.
type Rect struct {
	X, Y, Width, Height int
}

// Layout holds the computed panel geometry for a given terminal size.
type Layout struct {
	Header, Footer Rect
	Gauge, Log     Rect
	TooSmall       bool // true when terminal is below minWidth×minHeight
}

// Calculate computes the panel layout for a terminal of the given dimensions.
//
//   - Header: full width, 1 row at top
//   - Footer: full width, 1 row at bottom
//   - Gauge: full width, gaugeHeight rows under the header
//   - Log: full width, the remaining rows
func Calculate(width, height int) Layout {
	if width < minWidth || height < minHeight {
		return Layout{TooSmall: true}
	}

	logH := height - 2 - gaugeHeight
	return Layout{
		Header: Rect{X: 0, Y: 0, Width: width, Height: 1},
		Gauge:  Rect{X: 0, Y: 1, Width: width, Height: gaugeHeight},
		Log:    Rect{X: 0, Y: 1 + gaugeHeight, Width: width, Height: logH},
		Footer: Rect{X: 0, Y: height - 1, Width: width, Height: 1},
	}
}

// innerDims returns the content dimensions for a panel rect accounting for
// the 1-character border on each side.
func innerDims(r Rect) (w, h int) {
	w = r.Width - 2
	if w < 1 {
		w = 1
	}
	h = r.Height - 2
	if h < 1 {
		h = 1
	}
	return
}
