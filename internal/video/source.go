package video

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"sync"

	"github.com/olivier-w/snakes/internal/frame"
	"honnef.co/go/curve"
)

// Source decodes a video file frame by frame through an ffmpeg subprocess.
// Frames are delivered at the stream's native size and rate as rgb24.
type Source struct {
	path    string
	probe   Probe
	overlay frame.Overlay

	mu     sync.Mutex
	cmd    *exec.Cmd
	stdout io.Reader
	cancel context.CancelFunc
	closed bool
	ended  bool

	width  int
	height int
	buf    []byte // one raw rgb24 frame
	frame  *frame.Frame
	index  int
}

var _ frame.Source = (*Source)(nil)

// Open probes path, starts decoding and reads the first frame.
func Open(path string, overlay frame.Overlay) (*Source, error) {
	probe, err := ProbeMedia(path)
	if err != nil {
		return nil, err
	}
	if !probe.HasVideo {
		return nil, fmt.Errorf("no video stream in %s", path)
	}
	if probe.Width <= 0 || probe.Height <= 0 {
		return nil, fmt.Errorf("%s: invalid frame size %dx%d", path, probe.Width, probe.Height)
	}

	ffmpeg, err := exec.LookPath("ffmpeg")
	if err != nil {
		return nil, fmt.Errorf("ffmpeg not found")
	}

	ctx, cancel := context.WithCancel(context.Background())
	cmd := exec.CommandContext(ctx, ffmpeg,
		"-v", "quiet",
		"-i", path,
		"-f", "rawvideo",
		"-pix_fmt", "rgb24",
		"-an",
		"pipe:1",
	)
	cmd.Stdin = nil

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		cancel()
		return nil, fmt.Errorf("ffmpeg stdout pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		cancel()
		return nil, fmt.Errorf("starting ffmpeg video decode: %w", err)
	}

	s := newSource(path, stdout, probe, overlay)
	s.cmd = cmd
	s.cancel = cancel
	if err := s.first(); err != nil {
		s.Close()
		return nil, err
	}
	return s, nil
}

// newSource wraps an rgb24 stream. The caller reads the first frame.
func newSource(path string, r io.Reader, probe Probe, overlay frame.Overlay) *Source {
	return &Source{
		path:    path,
		probe:   probe,
		overlay: overlay,
		stdout:  r,
		width:   probe.Width,
		height:  probe.Height,
		buf:     make([]byte, probe.Width*probe.Height*3),
		index:   -1,
	}
}

func (s *Source) first() error {
	ok, err := s.Next()
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%s: no frames decoded", s.path)
	}
	return nil
}

// Next reads one more frame. At the end of the stream it returns false and
// the last frame stays current.
func (s *Source) Next() (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return false, fmt.Errorf("video source closed")
	}
	if s.ended || s.stdout == nil {
		return false, nil
	}
	if _, err := io.ReadFull(s.stdout, s.buf); err != nil {
		s.ended = true
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return false, nil
		}
		return false, fmt.Errorf("reading frame %d of %s: %w", s.index+1, s.path, err)
	}
	s.frame = frame.FromRGB24(s.buf, s.width, s.height)
	s.index++
	return true, nil
}

// Frame returns the current frame.
func (s *Source) Frame() *frame.Frame {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.frame
}

// Index returns the zero-based index of the current frame.
func (s *Source) Index() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.index
}

// Probe returns the stream metadata.
func (s *Source) Probe() Probe { return s.probe }

// Path returns the media file path.
func (s *Source) Path() string { return s.path }

// Save writes the current frame with the contour drawn over it.
func (s *Source) Save(name string, nodes []curve.Point, closed bool) error {
	return frame.SaveAnnotated(name, s.Frame(), nodes, closed, s.overlay)
}

// Close stops the decoder.
func (s *Source) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	if s.cmd != nil {
		s.cmd.Wait()
		s.cmd = nil
	}
	s.stdout = nil
	return nil
}

// Available returns whether video decoding is possible (ffmpeg and ffprobe
// present).
func Available() bool {
	if _, err := exec.LookPath("ffmpeg"); err != nil {
		return false
	}
	_, err := exec.LookPath("ffprobe")
	return err == nil
}
