package ui

// InitMode selects how mouse clicks author the initial contour.
type InitMode int

const (
	// ModePolyline adds a vertex per click.
	ModePolyline InitMode = iota
	// ModeRadial takes the center from the first click and the radius from
	// the second.
	ModeRadial
)

// Next cycles to the next mode.
func (m InitMode) Next() InitMode {
	switch m {
	case ModePolyline:
		return ModeRadial
	default:
		return ModePolyline
	}
}

// String returns the name of the mode.
func (m InitMode) String() string {
	switch m {
	case ModeRadial:
		return "radial"
	default:
		return "polyline"
	}
}

// Icon returns a visual indicator for the mode.
func (m InitMode) Icon() string {
	switch m {
	case ModeRadial:
		return "[radial]"
	default:
		return "[polyline]"
	}
}
