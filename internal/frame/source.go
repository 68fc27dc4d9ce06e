package frame

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
	"honnef.co/go/curve"
)

// Source yields frames to the snake and persists annotated copies of them.
// Still images hold a single frame; video sources advance with Next.
type Source interface {
	// Frame returns the current frame.
	Frame() *Frame
	// Next advances to the following frame. It reports false when the
	// source is exhausted, in which case Frame keeps returning the last one.
	Next() (bool, error)
	// Index returns the zero-based index of the current frame.
	Index() int
	// Save writes the current frame with the contour drawn over it.
	Save(name string, nodes []curve.Point, closed bool) error
	// Path returns the file the source reads from.
	Path() string
	Close() error
}

// Image is a Source backed by a single decoded image file.
type Image struct {
	path    string
	frame   *Frame
	overlay Overlay
}

var _ Source = (*Image)(nil)

// OpenImage decodes the image at path.
func OpenImage(path string, overlay Overlay) (*Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, format, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}
	fr := FromImage(img)
	if fr.Empty() {
		return nil, fmt.Errorf("%s (%s) has no pixels", path, format)
	}
	return &Image{path: path, frame: fr, overlay: overlay}, nil
}

// NewImage wraps an in-memory frame, mostly useful for tests and for
// synthetic inputs.
func NewImage(f *Frame, overlay Overlay) *Image {
	return &Image{frame: f, overlay: overlay}
}

func (s *Image) Frame() *Frame       { return s.frame }
func (s *Image) Next() (bool, error) { return false, nil }
func (s *Image) Index() int          { return 0 }
func (s *Image) Path() string        { return s.path }
func (s *Image) Close() error        { return nil }

func (s *Image) Save(name string, nodes []curve.Point, closed bool) error {
	return SaveAnnotated(name, s.frame, nodes, closed, s.overlay)
}
