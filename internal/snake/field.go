package snake

import (
	"fmt"
	"math"

	"github.com/olivier-w/snakes/internal/frame"
	"gonum.org/v1/gonum/floats"
)

// ForceField holds the image-derived maps the integrator samples every
// step. All grids share the frame's dimensions.
type ForceField struct {
	GX        *Grid
	GY        *Grid
	Curvature *Grid
}

// Width returns the width of the field in samples.
func (f *ForceField) Width() int { return f.GX.W }

// Height returns the height of the field in samples.
func (f *ForceField) Height() int { return f.GX.H }

// BuildForceField derives the gradient and curvature maps from f.
//
// The gradient is the Scharr response of the luminance, blurred passes
// times. The curvature map is the negated Hessian determinant
// −(dXX·dYY − dXY²) of the luminance blurred passes times, itself blurred
// passes times. Each map is then gated by Threshold.
func BuildForceField(f *frame.Frame, passes int, threshold float64) (*ForceField, error) {
	if f.Empty() {
		return nil, fmt.Errorf("building force field: %w: empty frame", ErrInvalidInput)
	}
	if passes < 0 {
		return nil, fmt.Errorf("building force field: %w: negative smoothing passes %d", ErrInvalidInput, passes)
	}
	if threshold < 0 || threshold > 100 || math.IsNaN(threshold) {
		return nil, fmt.Errorf("building force field: %w: threshold %g outside [0, 100]", ErrInvalidInput, threshold)
	}

	lum := &Grid{W: f.Width, H: f.Height, Data: f.Luminance()}

	gx := blur(correlate(lum, scharrX), passes)
	gy := blur(correlate(lum, scharrY), passes)

	smooth := blur(lum, passes)
	dxx := correlate(smooth, derivXX)
	dyy := correlate(smooth, derivYY)
	dxy := correlate(smooth, derivXY)
	curv := NewGrid(f.Width, f.Height)
	for i := range curv.Data {
		curv.Data[i] = -(dxx.Data[i]*dyy.Data[i] - dxy.Data[i]*dxy.Data[i])
	}
	curv = blur(curv, passes)

	Threshold(gx, threshold)
	Threshold(gy, threshold)
	Threshold(curv, threshold)

	return &ForceField{GX: gx, GY: gy, Curvature: curv}, nil
}

// Threshold zeroes every sample of g whose magnitude is below percent/100
// of the largest magnitude in g. The largest sample always survives, so
// applying the same threshold again changes nothing.
func Threshold(g *Grid, percent float64) {
	if percent <= 0 || len(g.Data) == 0 {
		return
	}
	cutoff := percent / 100 * floats.Norm(g.Data, math.Inf(1))
	for i, v := range g.Data {
		if math.Abs(v) < cutoff {
			g.Data[i] = 0
		}
	}
}

// Sample returns gx, gy and curvature at (x, y), and whether the position
// had to be clamped into the field.
func (f *ForceField) Sample(x, y float64) (gx, gy, curv float64, clamped bool) {
	gx, clamped = f.GX.Sample(x, y)
	gy, _ = f.GY.Sample(x, y)
	curv, _ = f.Curvature.Sample(x, y)
	return gx, gy, curv, clamped
}
