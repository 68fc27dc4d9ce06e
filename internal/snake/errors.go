package snake

import "errors"

var (
	// ErrInvalidInput reports a missing or empty frame, a contour with fewer
	// than three nodes, or malformed initialization parameters.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNumericallyUnstable reports a singular or ill-conditioned
	// internal energy matrix.
	ErrNumericallyUnstable = errors.New("numerically unstable")

	// ErrOutOfBounds reports a node position that cannot be clamped into
	// the frame, which only happens once the run has already diverged.
	ErrOutOfBounds = errors.New("position out of bounds")
)
