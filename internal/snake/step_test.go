package snake

import (
	"errors"
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"
	"honnef.co/go/curve"
)

func radialContour(t *testing.T, center curve.Point, r float64, count int) *Contour {
	t.Helper()
	c, err := NewContour(Radial{Center: center, Radius: r, Count: count}, Options{Closed: true})
	if err != nil {
		t.Fatal(err)
	}
	return c
}

func TestStepUniformFrameIsPureSmoothing(t *testing.T) {
	c := radialContour(t, curve.Pt(50, 50), 20, 8)
	ff, err := BuildForceField(uniform(100, 100, 0.5), 0, 0)
	if err != nil {
		t.Fatal(err)
	}
	op, err := NewOperator(c.Len(), testEnergy)
	if err != nil {
		t.Fatal(err)
	}

	next, rep, err := Step(c, ff, op, Weights{Line: 1, Edge: 1})
	if err != nil {
		t.Fatal(err)
	}
	if rep.Clamped != 0 {
		t.Fatalf("%d nodes clamped", rep.Clamped)
	}

	// With zero forces the solve is x' = A⁻¹x.
	b := mat.NewDense(c.Len(), 2, nil)
	for k, pt := range c.Nodes {
		b.Set(k, 0, pt.X)
		b.Set(k, 1, pt.Y)
	}
	var x mat.Dense
	if err := op.Solve(&x, b); err != nil {
		t.Fatal(err)
	}
	var r mat.Dense
	r.Mul(op.Matrix(), &x)
	r.Sub(&r, b)
	if res := mat.Norm(&r, math.Inf(1)); res > 1e-9 {
		t.Fatalf("residual %v", res)
	}

	want := make([]curve.Point, c.Len())
	for k := range want {
		want[k] = curve.Pt(x.At(k, 0), x.At(k, 1))
	}
	last := len(want) - 1
	want[0] = want[0].Midpoint(want[last])
	want[last] = want[0]
	for k := range want {
		if d := want[k].Distance(next.Nodes[k]); d > 1e-9 {
			t.Errorf("node %d: got %v, want %v", k, next.Nodes[k], want[k])
		}
	}

	if d := c.Centroid().Distance(next.Centroid()); d > 1e-9 {
		t.Errorf("centroid moved by %v", d)
	}
	if next.Perimeter() >= c.Perimeter() {
		t.Errorf("perimeter grew from %v to %v", c.Perimeter(), next.Perimeter())
	}
	if rep.MaxShift <= 0 {
		t.Errorf("max shift %v, want > 0", rep.MaxShift)
	}
}

func TestStepConvergesWithLargeTick(t *testing.T) {
	c := radialContour(t, curve.Pt(50, 50), 20, 8)
	start := c.Centroid()
	ff, err := BuildForceField(uniform(100, 100, 0.5), 0, 0)
	if err != nil {
		t.Fatal(err)
	}
	op, err := NewOperator(c.Len(), EnergyParams{Tension: 0.1, Stiffness: 0.1, Atom: 1, Tick: 10})
	if err != nil {
		t.Fatal(err)
	}

	var rep StepReport
	for range 50 {
		c, rep, err = Step(c, ff, op, Weights{})
		if err != nil {
			t.Fatal(err)
		}
	}
	if rep.MaxShift > 1e-6 {
		t.Fatalf("still moving by %v after 50 steps", rep.MaxShift)
	}
	for k, pt := range c.Nodes {
		if d := pt.Distance(start); d > 1e-6 {
			t.Errorf("node %d at %v, want %v", k, pt, start)
		}
	}
}

func TestStepSeamInvariant(t *testing.T) {
	ff, err := BuildForceField(blob(64, 64, 32, 32, 12), 1, 5)
	if err != nil {
		t.Fatal(err)
	}
	c, err := NewContour(Polyline{Vertices: []curve.Point{
		curve.Pt(12, 12), curve.Pt(52, 14), curve.Pt(50, 50), curve.Pt(14, 48),
	}}, Options{Closed: true, Implicit: 4})
	if err != nil {
		t.Fatal(err)
	}
	op, err := NewOperator(c.Len(), testEnergy)
	if err != nil {
		t.Fatal(err)
	}
	for i := range 20 {
		c, _, err = Step(c, ff, op, Weights{Line: 0.5, Edge: 2})
		if err != nil {
			t.Fatal(err)
		}
		if c.Nodes[0] != c.Nodes[c.Len()-1] {
			t.Fatalf("step %d: seam split into %v and %v", i, c.Nodes[0], c.Nodes[c.Len()-1])
		}
	}
}

func TestStepPinnedInvariant(t *testing.T) {
	ff, err := BuildForceField(rampX(40, 40), 0, 0)
	if err != nil {
		t.Fatal(err)
	}
	c, err := NewContour(Polyline{Vertices: []curve.Point{
		curve.Pt(5, 5), curve.Pt(20, 30), curve.Pt(35, 5),
	}}, Options{Pinned: 2, Implicit: 5})
	if err != nil {
		t.Fatal(err)
	}
	op, err := NewOperator(c.Len(), EnergyParams{Tension: 0.5, Stiffness: 0.2, Atom: 1, Tick: 0.3})
	if err != nil {
		t.Fatal(err)
	}

	before := c.Positions()
	next, rep, err := Step(c, ff, op, Weights{Line: 40, Edge: 0})
	if err != nil {
		t.Fatal(err)
	}
	n := c.Len()
	for _, k := range []int{0, 1, n - 2, n - 1} {
		if next.Nodes[k] != before[k] {
			t.Errorf("pinned node %d moved from %v to %v", k, before[k], next.Nodes[k])
		}
	}
	if rep.MaxShift == 0 {
		t.Fatal("free nodes did not move")
	}
	diff(t, before, c.Nodes)
}

func TestStepEdgeAttraction(t *testing.T) {
	// The rim of the disc runs through x = 44 on row 32.
	ff, err := BuildForceField(blob(64, 64, 32, 32, 12), 1, 0)
	if err != nil {
		t.Fatal(err)
	}
	c, err := NewContour(Polyline{Vertices: []curve.Point{
		curve.Pt(43, 32), curve.Pt(45, 32), curve.Pt(46, 32),
	}}, Options{})
	if err != nil {
		t.Fatal(err)
	}
	// No internal energy, so A is the identity and only the image moves nodes.
	op, err := NewOperator(c.Len(), EnergyParams{Atom: 1, Tick: 1})
	if err != nil {
		t.Fatal(err)
	}

	next, rep, err := Step(c, ff, op, Weights{Edge: 10})
	if err != nil {
		t.Fatal(err)
	}
	if rep.MaxShift == 0 {
		t.Fatal("no node moved")
	}
	for k, pt := range next.Nodes {
		before := math.Abs(c.Nodes[k].X - 44)
		after := math.Abs(pt.X - 44)
		if after >= before {
			t.Errorf("node %d moved from %v to %v, away from the rim", k, c.Nodes[k], pt)
		}
		if math.Abs(pt.Y-32) > 1e-12 {
			t.Errorf("node %d left the row: %v", k, pt)
		}
	}

	// Flipping the weight pushes the node off the rim.
	away, _, err := Step(c, ff, op, Weights{Edge: -10})
	if err != nil {
		t.Fatal(err)
	}
	if away.Nodes[1].X <= c.Nodes[1].X {
		t.Errorf("negative edge weight moved node 1 to %v, want x > 45", away.Nodes[1])
	}
}

func TestStepRejects(t *testing.T) {
	ff, err := BuildForceField(uniform(10, 10, 0), 0, 0)
	if err != nil {
		t.Fatal(err)
	}
	c := radialContour(t, curve.Pt(5, 5), 3, 6)
	op, err := NewOperator(6, testEnergy)
	if err != nil {
		t.Fatal(err)
	}
	op7, err := NewOperator(7, testEnergy)
	if err != nil {
		t.Fatal(err)
	}

	if _, _, err := Step(nil, ff, op, Weights{}); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("nil contour: %v", err)
	}
	if _, _, err := Step(c, nil, op, Weights{}); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("nil field: %v", err)
	}
	if _, _, err := Step(c, ff, op7, Weights{}); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("size mismatch: %v", err)
	}

	seam := c.Clone()
	seam.Pinned = 1
	seam.Nodes[5] = seam.Nodes[5].Translate(curve.Vec(0.5, 0))
	if _, _, err := Step(seam, ff, op, Weights{}); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("open seam with pinned ends: %v", err)
	}
	seam.Pinned = 0
	if _, _, err := Step(seam, ff, op, Weights{}); err != nil {
		t.Errorf("open seam without pinned ends: %v", err)
	}

	bad := c.Clone()
	bad.Nodes[2] = curve.Pt(math.NaN(), 1)
	if _, _, err := Step(bad, ff, op, Weights{}); !errors.Is(err, ErrOutOfBounds) {
		t.Errorf("NaN node: %v", err)
	}
}

func TestStepCountsClampedNodes(t *testing.T) {
	ff, err := BuildForceField(uniform(10, 10, 0), 0, 0)
	if err != nil {
		t.Fatal(err)
	}
	c, err := NewContour(Polyline{Vertices: []curve.Point{
		curve.Pt(-5, 5), curve.Pt(5, 5), curve.Pt(15, 5),
	}}, Options{})
	if err != nil {
		t.Fatal(err)
	}
	op, err := NewOperator(c.Len(), testEnergy)
	if err != nil {
		t.Fatal(err)
	}
	_, rep, err := Step(c, ff, op, Weights{})
	if err != nil {
		t.Fatal(err)
	}
	if rep.Clamped != 2 {
		t.Fatalf("clamped %d nodes, want 2", rep.Clamped)
	}
}
