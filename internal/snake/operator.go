package snake

import (
	"fmt"
	"math"
	"sync"

	"gonum.org/v1/gonum/mat"
)

// maxCondition is the largest condition number accepted for the energy
// matrix. Beyond it the implicit solve amplifies rounding noise into
// visible jitter.
const maxCondition = 1e12

// EnergyParams are the internal energy weights of the contour.
type EnergyParams struct {
	Tension   float64 // elasticity, first-derivative weight
	Stiffness float64 // rigidity, second-derivative weight
	Atom      float64 // assumed arclength between adjacent nodes
	Tick      float64 // implicit integration step
}

// Operator is the factorized internal energy matrix for a contour of N
// nodes. It depends only on the parameters, never on node positions, so
// one Operator serves every step of a run.
type Operator struct {
	n      int
	params EnergyParams
	a      *mat.Dense
	lu     mat.LU
}

// NewOperator builds the N×N pentadiagonal matrix with rows
// (b, −a−4b, 1+2a+6b, −a−4b, b) where a = tension·tick/atom² and
// b = stiffness·tick/atom⁴. The band wraps around circularly.
func NewOperator(n int, p EnergyParams) (*Operator, error) {
	if n < 3 {
		return nil, fmt.Errorf("building energy operator: %w: %d nodes, need at least 3", ErrInvalidInput, n)
	}
	if p.Atom == 0 {
		return nil, fmt.Errorf("building energy operator: %w: zero atom", ErrNumericallyUnstable)
	}

	op := &Operator{n: n, params: p}
	band := op.band()
	for _, c := range band {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return nil, fmt.Errorf("building energy operator: %w: non-finite coefficient %g", ErrNumericallyUnstable, c)
		}
	}

	op.a = mat.NewDense(n, n, nil)
	for k := range n {
		for j, c := range band {
			col := (n + k + j - 2) % n
			op.a.Set(k, col, op.a.At(k, col)+c)
		}
	}

	op.lu.Factorize(op.a)
	if c := op.lu.Cond(); math.IsNaN(c) || c > maxCondition {
		return nil, fmt.Errorf("building energy operator: %w: condition number %.4e", ErrNumericallyUnstable, c)
	}
	return op, nil
}

// band returns the five coefficients at offsets −2 … +2.
func (op *Operator) band() [5]float64 {
	p, q, r := op.Coefficients()
	return [5]float64{p, q, r, q, p}
}

// Coefficients returns the outer (b), inner (−a−4b) and diagonal (1+2a+6b)
// band values.
func (op *Operator) Coefficients() (outer, inner, diag float64) {
	p := op.params
	a := p.Tension * p.Tick / (p.Atom * p.Atom)
	b := p.Stiffness * p.Tick / (p.Atom * p.Atom * p.Atom * p.Atom)
	return b, -a - 4*b, 1 + 2*a + 6*b
}

// N returns the number of nodes the operator was built for.
func (op *Operator) N() int { return op.n }

// Params returns the parameters the operator was built from.
func (op *Operator) Params() EnergyParams { return op.params }

// Matrix returns the unfactorized matrix.
func (op *Operator) Matrix() mat.Matrix { return op.a }

// Solve solves A·X = B for an N×k right-hand side, writing X into dst.
func (op *Operator) Solve(dst *mat.Dense, b mat.Matrix) error {
	if err := op.lu.SolveTo(dst, false, b); err != nil {
		return fmt.Errorf("%w: %v", ErrNumericallyUnstable, err)
	}
	return nil
}

type operatorKey struct {
	n      int
	params EnergyParams
}

// OperatorCache memoizes operators per node count and parameter tuple, so
// the matrix is factorized once per distinct configuration.
type OperatorCache struct {
	mu  sync.Mutex
	ops map[operatorKey]*Operator
}

// Get returns the cached operator for (n, p), building it on first use.
// Failed builds are not cached.
func (c *OperatorCache) Get(n int, p EnergyParams) (*Operator, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	key := operatorKey{n, p}
	if op, ok := c.ops[key]; ok {
		return op, nil
	}
	op, err := NewOperator(n, p)
	if err != nil {
		return nil, err
	}
	if c.ops == nil {
		c.ops = make(map[operatorKey]*Operator)
	}
	c.ops[key] = op
	return op, nil
}

// Len returns the number of cached operators.
func (c *OperatorCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.ops)
}
