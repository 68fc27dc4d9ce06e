package snake

import (
	"fmt"
	"math"

	"honnef.co/go/curve"
)

// Init is an initialization strategy for a contour: either a Radial or a
// Polyline.
type Init interface {
	nodes(closed bool, implicit int) ([]curve.Point, error)
}

// Radial places Count nodes on a circle. The last node repeats the first,
// which closes the loop.
type Radial struct {
	Center curve.Point
	Radius float64
	Count  int
}

// Polyline is an authored sequence of vertices, subdivided into working
// nodes by linear interpolation.
type Polyline struct {
	Vertices []curve.Point
}

var (
	_ Init = Radial{}
	_ Init = Polyline{}
)

// Options are the boundary policy fields shared by every strategy.
type Options struct {
	Closed bool
	Pinned int
	// Implicit is the number of working segments each authored polyline
	// segment is split into. Zero means 1.
	Implicit int
}

// NewContour builds the initial contour for a run.
func NewContour(init Init, opts Options) (*Contour, error) {
	if init == nil {
		return nil, fmt.Errorf("initializing contour: %w: no strategy", ErrInvalidInput)
	}
	implicit := opts.Implicit
	if implicit == 0 {
		implicit = 1
	}
	if implicit < 0 {
		return nil, fmt.Errorf("initializing contour: %w: implicit %d", ErrInvalidInput, implicit)
	}
	if opts.Pinned < 0 {
		return nil, fmt.Errorf("initializing contour: %w: pinned %d", ErrInvalidInput, opts.Pinned)
	}

	nodes, err := init.nodes(opts.Closed, implicit)
	if err != nil {
		return nil, fmt.Errorf("initializing contour: %w", err)
	}
	if len(nodes) < 3 {
		return nil, fmt.Errorf("initializing contour: %w: %d nodes, need at least 3", ErrInvalidInput, len(nodes))
	}
	if 2*opts.Pinned >= len(nodes) {
		return nil, fmt.Errorf("initializing contour: %w: %d pinned nodes per end leave none of %d free", ErrInvalidInput, opts.Pinned, len(nodes))
	}
	for _, pt := range nodes {
		if pt.IsNaN() || pt.IsInf() {
			return nil, fmt.Errorf("initializing contour: %w: non-finite node %v", ErrInvalidInput, pt)
		}
	}

	return &Contour{
		Nodes:       nodes,
		Closed:      opts.Closed,
		Pinned:      opts.Pinned,
		Subdivision: implicit,
	}, nil
}

func (r Radial) nodes(closed bool, _ int) ([]curve.Point, error) {
	if !closed {
		return nil, fmt.Errorf("%w: radial contours are always closed", ErrInvalidInput)
	}
	if r.Count < 3 {
		return nil, fmt.Errorf("%w: radial count %d, need at least 3", ErrInvalidInput, r.Count)
	}
	if !(r.Radius > 0) {
		return nil, fmt.Errorf("%w: radius %g", ErrInvalidInput, r.Radius)
	}

	out := make([]curve.Point, r.Count)
	step := 2 * math.Pi / float64(r.Count-1)
	for k := range r.Count - 1 {
		out[k] = r.Center.Translate(curve.VecFromAngle(step * float64(k)).Mul(r.Radius))
	}
	out[r.Count-1] = out[0]
	return out, nil
}

func (p Polyline) nodes(closed bool, implicit int) ([]curve.Point, error) {
	verts := p.Vertices
	if len(verts) < 2 {
		return nil, fmt.Errorf("%w: polyline has %d vertices", ErrInvalidInput, len(verts))
	}
	if closed && verts[0] != verts[len(verts)-1] {
		verts = append(verts[:len(verts):len(verts)], verts[0])
	}

	n := implicit*(len(verts)-1) + 1
	out := make([]curve.Point, n)
	for k := range len(verts) - 1 {
		a, b := verts[k], verts[k+1]
		for j := range implicit {
			out[k*implicit+j] = a.Lerp(b, float64(j)/float64(implicit))
		}
	}
	out[n-1] = verts[len(verts)-1]
	return out, nil
}
