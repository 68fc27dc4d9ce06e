package sim

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/olivier-w/snakes/internal/config"
	"github.com/olivier-w/snakes/internal/frame"
	"github.com/olivier-w/snakes/internal/snake"
	"honnef.co/go/curve"
)

// multiSource is an in-memory video: a fixed list of frames.
type multiSource struct {
	frames []*frame.Frame
	index  int
	saved  []string
}

func (s *multiSource) Frame() *frame.Frame { return s.frames[s.index] }
func (s *multiSource) Index() int          { return s.index }
func (s *multiSource) Path() string        { return "clip.mp4" }
func (s *multiSource) Close() error        { return nil }

func (s *multiSource) Next() (bool, error) {
	if s.index+1 >= len(s.frames) {
		return false, nil
	}
	s.index++
	return true, nil
}

func (s *multiSource) Save(name string, nodes []curve.Point, closed bool) error {
	s.saved = append(s.saved, name)
	return nil
}

func uniform(w, h int, v float64) *frame.Frame {
	f := &frame.Frame{Width: w, Height: h, Channels: 1, Pix: make([]float64, w*h)}
	for i := range f.Pix {
		f.Pix[i] = v
	}
	return f
}

func testParams() *config.Params {
	return &config.Params{
		Image:      "in.png",
		Tension:    0.1,
		Stiffness:  0.1,
		LineWeight: 1,
		EdgeWeight: 1,
		Atom:       1,
		Tick:       0.05,
		Closed:     true,
		Implicit:   1,
		Iterations: 5,
		Start:      "start.png",
		End:        "end.png",
		Radial:     &config.Radial{Center: curve.Pt(50, 50), Radius: 20, Count: 8},
	}
}

func TestDriverStepRequiresContour(t *testing.T) {
	d, err := New(testParams(), frame.NewImage(uniform(100, 100, 0.5), frame.DefaultOverlay))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := d.Step(); !errors.Is(err, snake.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestDriverRejectsEmptyFrame(t *testing.T) {
	_, err := New(testParams(), frame.NewImage(&frame.Frame{}, frame.DefaultOverlay))
	if !errors.Is(err, snake.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestDriverRunAndReset(t *testing.T) {
	p := testParams()
	d, err := New(p, frame.NewImage(uniform(100, 100, 0.5), frame.DefaultOverlay))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := d.Init(p.Init()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	before := d.Contour().Perimeter()

	n, err := d.Run(context.Background(), 10, nil)
	if err != nil || n != 10 {
		t.Fatalf("expected 10 steps, got %d, %v", n, err)
	}
	if d.Iteration() != 10 {
		t.Fatalf("expected iteration 10, got %d", d.Iteration())
	}
	if d.Contour().Perimeter() >= before {
		t.Fatal("expected the contour to shrink on a uniform frame")
	}

	d.Reset()
	if d.Contour() != nil || d.Iteration() != 0 {
		t.Fatal("expected Reset to drop the contour")
	}
}

func TestDriverRunStops(t *testing.T) {
	p := testParams()
	d, err := New(p, frame.NewImage(uniform(100, 100, 0.5), frame.DefaultOverlay))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := d.Init(p.Init()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	calls := 0
	n, err := d.Run(context.Background(), 100, func(snake.StepReport) bool {
		calls++
		return calls == 3
	})
	if err != nil || n != 3 {
		t.Fatalf("expected to stop after 3 steps, got %d, %v", n, err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	n, err = d.Run(ctx, 5, nil)
	if !errors.Is(err, context.Canceled) || n != 0 {
		t.Fatalf("expected cancellation before any step, got %d, %v", n, err)
	}
}

func TestDriverInitErrors(t *testing.T) {
	p := testParams()
	p.Atom = 0
	d, err := New(p, frame.NewImage(uniform(10, 10, 0), frame.DefaultOverlay))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	err = d.Init(snake.Polyline{Vertices: []curve.Point{curve.Pt(1, 1), curve.Pt(5, 1), curve.Pt(5, 5)}})
	if !errors.Is(err, snake.ErrNumericallyUnstable) {
		t.Fatalf("expected ErrNumericallyUnstable, got %v", err)
	}
	if d.Contour() != nil {
		t.Fatal("expected no contour after a failed Init")
	}
}

func TestDriverNextFrameKeepsContour(t *testing.T) {
	p := testParams()
	src := &multiSource{frames: []*frame.Frame{uniform(100, 100, 0.2), uniform(100, 100, 0.8)}}
	d, err := New(p, src)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := d.Init(p.Init()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := d.Run(context.Background(), 3, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	c := d.Contour()

	ok, err := d.NextFrame()
	if !ok || err != nil {
		t.Fatalf("expected a second frame, got %v, %v", ok, err)
	}
	if d.Contour() != c || d.Iteration() != 0 || d.Frame() != src.frames[1] {
		t.Fatal("expected the contour to carry over to the new frame")
	}
	if ok, err := d.NextFrame(); ok || err != nil {
		t.Fatalf("expected end of source, got %v, %v", ok, err)
	}
}

func TestHeadlessImage(t *testing.T) {
	dir := t.TempDir()
	p := testParams()
	p.Start = filepath.Join(dir, "start.png")
	p.End = filepath.Join(dir, "end.png")

	if err := Headless(context.Background(), p, frame.NewImage(uniform(100, 100, 0.5), frame.DefaultOverlay)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, name := range []string{p.Start, p.End} {
		if _, err := os.Stat(name); err != nil {
			t.Fatalf("expected %s to exist: %v", name, err)
		}
	}
}

func TestHeadlessVideoSavesEveryFrame(t *testing.T) {
	p := testParams()
	p.Image, p.Video = "", "clip.mp4"
	p.Iterations = 2
	src := &multiSource{frames: []*frame.Frame{uniform(100, 100, 0), uniform(100, 100, 0), uniform(100, 100, 0)}}

	if err := Headless(context.Background(), p, src); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"start.png", "end_0.png", "end_1.png", "end_2.png"}
	if len(src.saved) != len(want) {
		t.Fatalf("expected %v, got %v", want, src.saved)
	}
	for i := range want {
		if src.saved[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, src.saved)
		}
	}
}

func TestHeadlessNeedsInit(t *testing.T) {
	p := testParams()
	p.Radial = nil
	err := Headless(context.Background(), p, frame.NewImage(uniform(10, 10, 0), frame.DefaultOverlay))
	if !errors.Is(err, snake.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestFrameName(t *testing.T) {
	tests := map[string]string{
		"end.png":          "end_7.png",
		"out/frames/x.jpg": "out/frames/x_7.jpg",
		"noext":            "noext_7",
	}
	for in, want := range tests {
		if got := FrameName(in, 7); got != want {
			t.Errorf("FrameName(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestDriverRadialInitIsClosed(t *testing.T) {
	p := testParams()
	p.Closed = false
	p.Radial = nil
	d, err := New(p, frame.NewImage(uniform(100, 100, 0.5), frame.DefaultOverlay))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := d.Init(snake.Radial{Center: curve.Pt(50, 50), Radius: 10, Count: 12}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !d.Contour().Closed {
		t.Fatal("expected a radial contour to be closed")
	}
}
