package snake

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
	"honnef.co/go/curve"
)

// Weights are the external energy weights applied by Step.
type Weights struct {
	Line float64 // attraction to intensity
	Edge float64 // attraction to the curvature map
}

// StepReport describes what a single step did.
type StepReport struct {
	// Clamped is the number of nodes whose force sample fell outside the
	// field and had to be clamped. A non-zero value means the contour is
	// leaving the frame.
	Clamped int
	// MaxShift is the largest distance any node moved.
	MaxShift float64
}

// Step advances the contour by one implicit iteration and returns the new
// contour. c is not modified.
//
// The external force on node k is
//
//	F = tick · ∇I(xₖ) · (edge·curv(xₖ) − line)
//
// where tick is the operator's integration step. The new positions solve
// A·x' = x + F, after which pinned ends are restored and the seam of a
// closed contour is re-merged. A closed contour with pinned ends must
// enter with its seam merged, so the pinned seam node never moves.
func Step(c *Contour, f *ForceField, op *Operator, w Weights) (*Contour, StepReport, error) {
	var rep StepReport
	if c == nil || f == nil || op == nil {
		return nil, rep, fmt.Errorf("step: %w: nil argument", ErrInvalidInput)
	}
	n := c.Len()
	if n != op.N() {
		return nil, rep, fmt.Errorf("step: %w: contour has %d nodes, operator %d", ErrInvalidInput, n, op.N())
	}
	if c.Closed && c.Pinned > 0 && c.Nodes[0] != c.Nodes[n-1] {
		return nil, rep, fmt.Errorf("step: %w: pinned closed contour has an open seam", ErrInvalidInput)
	}

	tick := op.Params().Tick
	prev := c.Clone()
	prev.mergeSeam()

	rhs := mat.NewDense(n, 2, nil)
	for k, pt := range prev.Nodes {
		if pt.IsNaN() || pt.IsInf() {
			return nil, rep, fmt.Errorf("step: %w: node %d at %v", ErrOutOfBounds, k, pt)
		}
		gx, gy, curv, clamped := f.Sample(pt.X, pt.Y)
		if clamped {
			rep.Clamped++
		}
		s := tick * (w.Edge*curv - w.Line)
		rhs.Set(k, 0, pt.X+s*gx)
		rhs.Set(k, 1, pt.Y+s*gy)
	}

	var sol mat.Dense
	if err := op.Solve(&sol, rhs); err != nil {
		return nil, rep, fmt.Errorf("step: %w", err)
	}

	next := prev.Clone()
	for k := range n {
		if k < c.Pinned || k >= n-c.Pinned {
			continue
		}
		next.Nodes[k] = curve.Pt(sol.At(k, 0), sol.At(k, 1))
	}
	next.mergeSeam()

	for k := range n {
		if d := next.Nodes[k].Distance(c.Nodes[k]); d > rep.MaxShift || math.IsNaN(d) {
			rep.MaxShift = d
		}
	}
	return next, rep, nil
}
