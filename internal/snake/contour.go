package snake

import (
	"slices"

	"honnef.co/go/curve"
)

// Contour is the state of the snake: its ordered nodes and boundary policy.
//
// For a closed contour the last node is identified with the first one and
// both always hold the same position after a step.
type Contour struct {
	Nodes []curve.Point
	// Closed makes the contour a loop.
	Closed bool
	// Pinned is the number of nodes at each end that never move.
	Pinned int
	// Subdivision is the number of working segments per authored segment.
	Subdivision int
}

// Len returns the number of nodes.
func (c *Contour) Len() int { return len(c.Nodes) }

// Positions returns a copy of the node positions.
func (c *Contour) Positions() []curve.Point {
	return slices.Clone(c.Nodes)
}

// Clone returns a deep copy of c.
func (c *Contour) Clone() *Contour {
	out := *c
	out.Nodes = slices.Clone(c.Nodes)
	return &out
}

// Path returns the contour as a polyline.
func (c *Contour) Path() curve.BezPath {
	var p curve.BezPath
	if len(c.Nodes) == 0 {
		return p
	}
	p.MoveTo(c.Nodes[0])
	for _, pt := range c.Nodes[1:] {
		p.LineTo(pt)
	}
	if c.Closed {
		p.ClosePath()
	}
	return p
}

// Perimeter returns the length of the polyline.
func (c *Contour) Perimeter() float64 {
	var l float64
	for i := 1; i < len(c.Nodes); i++ {
		l += c.Nodes[i-1].Distance(c.Nodes[i])
	}
	if c.Closed && len(c.Nodes) > 1 {
		l += c.Nodes[len(c.Nodes)-1].Distance(c.Nodes[0])
	}
	return l
}

// Area returns the absolute enclosed area of a closed contour, and 0 for
// open ones.
func (c *Contour) Area() float64 {
	if !c.Closed || len(c.Nodes) < 3 {
		return 0
	}
	a := c.Path().SignedArea()
	if a < 0 {
		return -a
	}
	return a
}

// Centroid returns the mean of all node positions.
func (c *Contour) Centroid() curve.Point {
	var sx, sy float64
	for _, pt := range c.Nodes {
		sx += pt.X
		sy += pt.Y
	}
	n := float64(len(c.Nodes))
	return curve.Pt(sx/n, sy/n)
}

// mergeSeam replaces the first and last node of a closed contour with their
// midpoint.
func (c *Contour) mergeSeam() {
	if !c.Closed || len(c.Nodes) < 2 {
		return
	}
	last := len(c.Nodes) - 1
	mid := c.Nodes[0].Midpoint(c.Nodes[last])
	c.Nodes[0] = mid
	c.Nodes[last] = mid
}
