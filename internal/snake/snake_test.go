package snake

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/olivier-w/snakes/internal/frame"
)

func diff(t *testing.T, want, got any, opts ...cmp.Option) {
	t.Helper()
	if d := cmp.Diff(want, got, opts...); d != "" {
		t.Error(d)
	}
}

// uniform returns a gray frame with every sample set to v.
func uniform(w, h int, v float64) *frame.Frame {
	f := &frame.Frame{Width: w, Height: h, Channels: 1, Pix: make([]float64, w*h)}
	for i := range f.Pix {
		f.Pix[i] = v
	}
	return f
}

// rampX returns a gray frame whose intensity rises linearly from 0 at the
// left edge to 1 at the right edge.
func rampX(w, h int) *frame.Frame {
	f := &frame.Frame{Width: w, Height: h, Channels: 1, Pix: make([]float64, w*h)}
	for y := range h {
		for x := range w {
			f.Pix[y*w+x] = float64(x) / float64(w-1)
		}
	}
	return f
}

// blob returns a gray frame with a bright disc on a dark background.
func blob(w, h int, cx, cy, r float64) *frame.Frame {
	f := &frame.Frame{Width: w, Height: h, Channels: 1, Pix: make([]float64, w*h)}
	for y := range h {
		for x := range w {
			dx, dy := float64(x)-cx, float64(y)-cy
			if dx*dx+dy*dy <= r*r {
				f.Pix[y*w+x] = 1
			}
		}
	}
	return f
}

var testEnergy = EnergyParams{Tension: 0.1, Stiffness: 0.1, Atom: 1, Tick: 0.05}
