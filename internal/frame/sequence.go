package frame

import (
	"fmt"

	"honnef.co/go/curve"
)

// Sequence is a Source that walks a list of still images, decoding each on
// demand. It lets a contour track an object across exported video frames
// without ffmpeg.
type Sequence struct {
	path    string
	paths   []string
	overlay Overlay
	index   int
	current *Image
}

var _ Source = (*Sequence)(nil)

// OpenSequence decodes the first image of paths. path names the list the
// images came from.
func OpenSequence(path string, paths []string, overlay Overlay) (*Sequence, error) {
	if len(paths) == 0 {
		return nil, fmt.Errorf("%s lists no images", path)
	}
	img, err := OpenImage(paths[0], overlay)
	if err != nil {
		return nil, err
	}
	return &Sequence{path: path, paths: paths, overlay: overlay, current: img}, nil
}

func (s *Sequence) Frame() *Frame { return s.current.Frame() }
func (s *Sequence) Index() int    { return s.index }
func (s *Sequence) Path() string  { return s.path }
func (s *Sequence) Close() error  { return nil }

// Len returns the number of images in the sequence.
func (s *Sequence) Len() int { return len(s.paths) }

// Next decodes the following image. Images of a different size than the
// first are rejected since the contour would no longer line up.
func (s *Sequence) Next() (bool, error) {
	if s.index+1 >= len(s.paths) {
		return false, nil
	}
	img, err := OpenImage(s.paths[s.index+1], s.overlay)
	if err != nil {
		return false, err
	}
	prev, next := s.current.Frame(), img.Frame()
	if next.Width != prev.Width || next.Height != prev.Height {
		return false, fmt.Errorf("%s is %dx%d, sequence is %dx%d",
			s.paths[s.index+1], next.Width, next.Height, prev.Width, prev.Height)
	}
	s.index++
	s.current = img
	return true, nil
}

func (s *Sequence) Save(name string, nodes []curve.Point, closed bool) error {
	return s.current.Save(name, nodes, closed)
}
