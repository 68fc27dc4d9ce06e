package frame

import (
	"fmt"
	"image"
	"image/color"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"iter"
	"os"
	"path/filepath"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
	"golang.org/x/image/vector"
	"honnef.co/go/curve"
)

const (
	nodeRadius      = 2
	strokeTolerance = 0.1
)

// Overlay describes how the contour is drawn on saved frames.
type Overlay struct {
	Color color.Color
	Width float64
}

// DefaultOverlay draws a one pixel red polyline.
var DefaultOverlay = Overlay{Color: color.RGBA{R: 0xff, A: 0xff}, Width: 1}

// ParseOverlay builds an Overlay from a hex color such as "#ff0000".
func ParseOverlay(hex string, width float64) (Overlay, error) {
	c, err := colorful.Hex(hex)
	if err != nil {
		return Overlay{}, fmt.Errorf("overlay color %q: %w", hex, err)
	}
	if width <= 0 {
		width = DefaultOverlay.Width
	}
	r, g, b := c.Clamped().RGB255()
	return Overlay{Color: color.RGBA{R: r, G: g, B: b, A: 0xff}, Width: width}, nil
}

// Annotate renders f and draws the polyline through nodes plus a small circle
// around every node.
func Annotate(f *Frame, nodes []curve.Point, closed bool, o Overlay) *image.RGBA {
	img := f.RGBA()
	if len(nodes) == 0 {
		return img
	}
	if o.Color == nil {
		o = DefaultOverlay
	}

	var p curve.BezPath
	p.MoveTo(nodes[0])
	for _, pt := range nodes[1:] {
		p.LineTo(pt)
	}
	if closed {
		p.ClosePath()
	}

	z := vector.NewRasterizer(f.Width, f.Height)
	stroke := curve.DefaultStroke.WithWidth(o.Width)
	rasterize(z, curve.StrokePath(p.Elements(), stroke, curve.StrokeOpts{}, strokeTolerance))
	for _, pt := range nodes {
		ring := curve.Circle{Center: pt, Radius: nodeRadius}
		rasterize(z, curve.StrokePath(ring.PathElements(strokeTolerance), stroke, curve.StrokeOpts{}, strokeTolerance))
	}
	z.Draw(img, img.Bounds(), image.NewUniform(o.Color), image.Point{})
	return img
}

func rasterize(z *vector.Rasterizer, path iter.Seq[curve.PathElement]) {
	open := false
	for el := range path {
		switch el.Kind {
		case curve.MoveToKind:
			if open {
				z.ClosePath()
			}
			z.MoveTo(float32(el.P0.X), float32(el.P0.Y))
			open = true
		case curve.LineToKind:
			z.LineTo(float32(el.P0.X), float32(el.P0.Y))
		case curve.QuadToKind:
			z.QuadTo(float32(el.P0.X), float32(el.P0.Y), float32(el.P1.X), float32(el.P1.Y))
		case curve.CubicToKind:
			z.CubeTo(float32(el.P0.X), float32(el.P0.Y), float32(el.P1.X), float32(el.P1.Y), float32(el.P2.X), float32(el.P2.Y))
		case curve.ClosePathKind:
			z.ClosePath()
			open = false
		}
	}
	if open {
		z.ClosePath()
	}
}

// SaveAnnotated annotates f and writes it to name, choosing the encoder from
// the file extension.
func SaveAnnotated(name string, f *Frame, nodes []curve.Point, closed bool, o Overlay) error {
	if f.Empty() {
		return fmt.Errorf("saving %s: empty frame", name)
	}
	img := Annotate(f, nodes, closed, o)

	out, err := os.Create(name)
	if err != nil {
		return err
	}
	if err := Encode(out, filepath.Ext(name), img); err != nil {
		out.Close()
		return fmt.Errorf("encoding %s: %w", name, err)
	}
	return out.Close()
}

// Encode writes img in the format named by ext.
func Encode(w io.Writer, ext string, img image.Image) error {
	switch strings.ToLower(ext) {
	case ".png", "":
		return png.Encode(w, img)
	case ".jpg", ".jpeg":
		return jpeg.Encode(w, img, &jpeg.Options{Quality: 92})
	case ".gif":
		return gif.Encode(w, img, nil)
	case ".bmp":
		return bmp.Encode(w, img)
	case ".tif", ".tiff":
		return tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate})
	default:
		return fmt.Errorf("unsupported output format %s", ext)
	}
}
