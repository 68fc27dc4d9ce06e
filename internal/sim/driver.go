// Package sim owns the state of one snake run: the force field of the
// current frame, the contour, and the operator cache.
package sim

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/olivier-w/snakes/internal/config"
	"github.com/olivier-w/snakes/internal/frame"
	"github.com/olivier-w/snakes/internal/snake"
)

// Driver advances a contour over the frames of a Source. It is not safe for
// concurrent use; callers serialize access (the TUI runs it inside
// bubbletea commands one at a time).
type Driver struct {
	params *config.Params
	source frame.Source

	cache   snake.OperatorCache
	field   *snake.ForceField
	contour *snake.Contour
	op      *snake.Operator

	iteration int
	last      snake.StepReport
}

// New builds the force field for the source's current frame. The driver
// has no contour until Init is called.
func New(p *config.Params, src frame.Source) (*Driver, error) {
	if p == nil || src == nil {
		return nil, fmt.Errorf("sim: %w: nil parameters or source", snake.ErrInvalidInput)
	}
	d := &Driver{params: p, source: src}
	if err := d.buildField(); err != nil {
		return nil, err
	}
	return d, nil
}

func (d *Driver) buildField() error {
	f := d.source.Frame()
	field, err := snake.BuildForceField(f, d.params.Smoothing, d.params.Threshold)
	if err != nil {
		return fmt.Errorf("sim: frame %d: %w", d.source.Index(), err)
	}
	d.field = field
	slog.Debug("sim: force field built",
		"frame", d.source.Index(),
		"width", f.Width,
		"height", f.Height,
		"smoothing", d.params.Smoothing,
		"threshold", d.params.Threshold)
	return nil
}

// Init creates the contour from init using the configured boundary policy
// and fetches the matching operator. A radial initialization is always
// closed.
func (d *Driver) Init(init snake.Init) error {
	opts := d.params.Options()
	if _, ok := init.(snake.Radial); ok {
		opts.Closed = true
	}
	c, err := snake.NewContour(init, opts)
	if err != nil {
		return fmt.Errorf("sim: %w", err)
	}
	op, err := d.cache.Get(c.Len(), d.params.Energy())
	if err != nil {
		return fmt.Errorf("sim: %w", err)
	}
	d.contour = c
	d.op = op
	d.iteration = 0
	d.last = snake.StepReport{}
	slog.Info("sim: contour initialized",
		"nodes", c.Len(),
		"closed", c.Closed,
		"pinned", c.Pinned)
	return nil
}

// Reset drops the contour. The force field and operator cache are kept.
func (d *Driver) Reset() {
	d.contour = nil
	d.op = nil
	d.iteration = 0
	d.last = snake.StepReport{}
}

// Step advances the contour by one iteration.
func (d *Driver) Step() (snake.StepReport, error) {
	if d.contour == nil {
		return snake.StepReport{}, fmt.Errorf("sim: %w: no contour", snake.ErrInvalidInput)
	}
	next, rep, err := snake.Step(d.contour, d.field, d.op, d.params.Weights())
	if err != nil {
		return rep, fmt.Errorf("sim: iteration %d: %w", d.iteration+1, err)
	}
	d.contour = next
	d.iteration++
	d.last = rep
	if rep.Clamped > 0 {
		slog.Warn("sim: contour sampled outside the frame",
			"iteration", d.iteration,
			"clamped", rep.Clamped)
	}
	return rep, nil
}

// Run performs up to n steps. It stops early when stop returns true for a
// step's report or when ctx is cancelled; cancellation is only observed
// between steps. It returns the number of steps taken.
func (d *Driver) Run(ctx context.Context, n int, stop func(snake.StepReport) bool) (int, error) {
	for i := range n {
		if err := ctx.Err(); err != nil {
			return i, err
		}
		rep, err := d.Step()
		if err != nil {
			return i, err
		}
		if stop != nil && stop(rep) {
			return i + 1, nil
		}
	}
	return n, nil
}

// NextFrame advances the source and rebuilds the force field. The contour
// carries over so it keeps tracking the object. It reports false at the end
// of the source.
func (d *Driver) NextFrame() (bool, error) {
	ok, err := d.source.Next()
	if err != nil {
		return false, fmt.Errorf("sim: %w", err)
	}
	if !ok {
		return false, nil
	}
	if err := d.buildField(); err != nil {
		return false, err
	}
	d.iteration = 0
	return true, nil
}

// Snapshot saves the current frame with the contour drawn over it.
func (d *Driver) Snapshot(name string) error {
	var c snake.Contour
	if d.contour != nil {
		c = *d.contour
	}
	if err := d.source.Save(name, c.Nodes, c.Closed); err != nil {
		return fmt.Errorf("sim: saving %s: %w", name, err)
	}
	slog.Info("sim: snapshot saved", "file", name, "frame", d.source.Index(), "iteration", d.iteration)
	return nil
}

// Contour returns the current contour, or nil before Init.
func (d *Driver) Contour() *snake.Contour { return d.contour }

// Field returns the force field of the current frame.
func (d *Driver) Field() *snake.ForceField { return d.field }

// Frame returns the current frame.
func (d *Driver) Frame() *frame.Frame { return d.source.Frame() }

// Source returns the image source.
func (d *Driver) Source() frame.Source { return d.source }

// Params returns the run parameters.
func (d *Driver) Params() *config.Params { return d.params }

// Iteration returns the number of steps taken on the current frame.
func (d *Driver) Iteration() int { return d.iteration }

// LastReport returns the report of the most recent step.
func (d *Driver) LastReport() snake.StepReport { return d.last }

// FrameName derives the per-frame output name: "end.png" becomes
// "end_12.png" for frame 12.
func FrameName(name string, index int) string {
	ext := filepath.Ext(name)
	return fmt.Sprintf("%s_%d%s", strings.TrimSuffix(name, ext), index, ext)
}
