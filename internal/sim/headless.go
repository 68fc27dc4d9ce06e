package sim

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/olivier-w/snakes/internal/config"
	"github.com/olivier-w/snakes/internal/frame"
	"github.com/olivier-w/snakes/internal/snake"
)

// Headless runs the configured number of iterations without a terminal
// front end. It saves the start snapshot, steps, and saves the end snapshot.
// For video input every frame is processed in turn, the contour carrying
// over, and each end snapshot is named after its frame.
func Headless(ctx context.Context, p *config.Params, src frame.Source) error {
	init := p.Init()
	if init == nil {
		return fmt.Errorf("sim: %w: headless runs need an initialization in the config", snake.ErrInvalidInput)
	}
	d, err := New(p, src)
	if err != nil {
		return err
	}
	if err := d.Init(init); err != nil {
		return err
	}

	_, perFrame := p.Source()
	if err := d.Snapshot(p.Start); err != nil {
		return err
	}

	for {
		n, err := d.Run(ctx, p.Iterations, nil)
		if err != nil {
			return err
		}
		c := d.Contour()
		slog.Info("sim: frame done",
			"frame", src.Index(),
			"iterations", n,
			"max_shift", d.LastReport().MaxShift,
			"perimeter", c.Perimeter(),
			"area", c.Area())

		name := p.End
		if perFrame {
			name = FrameName(p.End, src.Index())
		}
		if err := d.Snapshot(name); err != nil {
			return err
		}

		if !perFrame {
			return nil
		}
		ok, err := d.NextFrame()
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
	}
}
