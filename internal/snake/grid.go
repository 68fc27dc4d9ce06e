package snake

import "math"

// Grid is a W×H field of float64 samples stored row-major.
type Grid struct {
	W, H int
	Data []float64
}

// NewGrid returns a zeroed grid.
func NewGrid(w, h int) *Grid {
	return &Grid{W: w, H: h, Data: make([]float64, w*h)}
}

// At returns the sample at (x, y) with coordinates clamped to the grid.
func (g *Grid) At(x, y int) float64 {
	x = clampInt(x, 0, g.W-1)
	y = clampInt(y, 0, g.H-1)
	return g.Data[y*g.W+x]
}

// Set stores v at (x, y). Coordinates must be in range.
func (g *Grid) Set(x, y int, v float64) {
	g.Data[y*g.W+x] = v
}

// Sample bilinearly interpolates the grid at (x, y). Coordinates outside
// [0, W-1]×[0, H-1] are clamped first, in which case clamped is true.
func (g *Grid) Sample(x, y float64) (v float64, clamped bool) {
	cx := clampFloat(x, 0, float64(g.W-1))
	cy := clampFloat(y, 0, float64(g.H-1))
	clamped = cx != x || cy != y

	x0 := int(math.Floor(cx))
	y0 := int(math.Floor(cy))
	x1 := min(x0+1, g.W-1)
	y1 := min(y0+1, g.H-1)
	tx := cx - float64(x0)
	ty := cy - float64(y0)

	top := g.Data[y0*g.W+x0]*(1-tx) + g.Data[y0*g.W+x1]*tx
	bot := g.Data[y1*g.W+x0]*(1-tx) + g.Data[y1*g.W+x1]*tx
	return top*(1-ty) + bot*ty, clamped
}

// Clone returns a deep copy of g.
func (g *Grid) Clone() *Grid {
	out := &Grid{W: g.W, H: g.H, Data: make([]float64, len(g.Data))}
	copy(out.Data, g.Data)
	return out
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampFloat(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
