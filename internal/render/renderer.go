package render

import (
	"image/color"
	"math"
	"strings"

	"github.com/olivier-w/snakes/internal/frame"
	"honnef.co/go/curve"
)

// Renderer converts a frame and the contour drawn over it into a terminal
// string. It supports two modes:
//   - Color (half-block): uses "▀" with fg/bg colors to pack 2 pixel rows per terminal row.
//   - ASCII (no color): maps each pixel to a brightness character.
type Renderer struct {
	mode ColorMode
	sb   strings.Builder // reusable builder to reduce allocations

	pix  []rgb
	mark []mark
}

type rgb struct{ r, g, b uint8 }

type mark uint8

const (
	markNone mark = iota
	markContour
	markVertex
)

// Marks are the geometry drawn over the frame.
type Marks struct {
	Contour []curve.Point
	Closed  bool
	// Vertices are points authored by the user that are not yet a contour.
	Vertices []curve.Point

	ContourColor color.Color
	VertexColor  color.Color
}

var (
	defaultContourColor = color.RGBA{R: 0xff, A: 0xff}
	defaultVertexColor  = color.RGBA{R: 0xff, G: 0xd7, A: 0xff}
)

// NewRenderer creates a renderer using the current terminal's color capabilities.
func NewRenderer() *Renderer {
	return NewRendererMode(DetectColorMode())
}

// NewRendererMode creates a renderer with a fixed color mode.
func NewRendererMode(mode ColorMode) *Renderer {
	return &Renderer{mode: mode}
}

// Color reports whether the renderer uses half-blocks.
func (r *Renderer) Color() bool { return r.mode != ColorOff }

// Fit returns the viewport for f inside termW×termH cells in this
// renderer's mode.
func (r *Renderer) Fit(f *frame.Frame, termW, termH int) Viewport {
	if f.Empty() {
		return Viewport{}
	}
	return Fit(f.Width, f.Height, termW, termH, r.Color())
}

// Render draws f into the viewport, overlaid with m.
//
// In color mode, v.Rows terminal rows represent v.Rows*2 pixel rows (half-block packing).
// In ASCII mode, v.Rows terminal rows represent v.Rows pixel rows.
func (r *Renderer) Render(f *frame.Frame, v Viewport, m Marks) string {
	if f.Empty() || v.Empty() {
		return ""
	}
	w, h := v.Cols, v.pixelRows()

	r.sample(f, w, h)
	r.drawMarks(v, m)

	r.sb.Reset()
	// Worst case ~40 bytes per cell (two color escapes) plus newlines.
	r.sb.Grow(w * v.Rows * 40)

	if r.mode == ColorOff {
		r.renderASCII(w, h)
	} else {
		cc := toRGB(m.ContourColor, defaultContourColor)
		vc := toRGB(m.VertexColor, defaultVertexColor)
		r.renderHalfBlock(w, v.Rows, cc, vc)
	}
	return r.sb.String()
}

// sample fills the pixel grid by nearest-neighbor lookup into f.
func (r *Renderer) sample(f *frame.Frame, w, h int) {
	n := w * h
	if cap(r.pix) < n {
		r.pix = make([]rgb, n)
		r.mark = make([]mark, n)
	}
	r.pix = r.pix[:n]
	r.mark = r.mark[:n]
	clear(r.mark)

	for y := range h {
		srcY := y * f.Height / h
		for x := range w {
			srcX := x * f.Width / w
			cr, cg, cb := f.RGB(srcX, srcY)
			r.pix[y*w+x] = rgb{cr, cg, cb}
		}
	}
}

func (r *Renderer) drawMarks(v Viewport, m Marks) {
	w := v.Cols
	plot := func(p curve.Point, k mark) {
		if x, y, ok := v.toPixel(p); ok && r.mark[y*w+x] < k {
			r.mark[y*w+x] = k
		}
	}

	// Walk each segment in steps no longer than half a grid pixel.
	scale := math.Max(float64(v.Cols)/float64(v.FrameW), float64(v.pixelRows())/float64(v.FrameH))
	segment := func(a, b curve.Point) {
		n := max(1, int(math.Ceil(a.Distance(b)*scale*2)))
		for i := range n + 1 {
			plot(a.Lerp(b, float64(i)/float64(n)), markContour)
		}
	}
	for i := 1; i < len(m.Contour); i++ {
		segment(m.Contour[i-1], m.Contour[i])
	}
	if m.Closed && len(m.Contour) > 2 {
		segment(m.Contour[len(m.Contour)-1], m.Contour[0])
	}
	if len(m.Contour) == 1 {
		plot(m.Contour[0], markContour)
	}
	for _, p := range m.Vertices {
		plot(p, markVertex)
	}
}

func (r *Renderer) at(x, y, w int, cc, vc rgb) rgb {
	switch r.mark[y*w+x] {
	case markContour:
		return cc
	case markVertex:
		return vc
	}
	return r.pix[y*w+x]
}

// renderHalfBlock uses "▀" (upper half block) with fg = top pixel, bg = bottom pixel.
func (r *Renderer) renderHalfBlock(w, rows int, cc, vc rgb) {
	var lastFg, lastBg string

	for row := range rows {
		top, bot := row*2, row*2+1
		for col := range w {
			t := r.at(col, top, w, cc, vc)
			b := r.at(col, bot, w, cc, vc)

			fg := colorSeq(r.mode, false, t.r, t.g, t.b)
			bg := colorSeq(r.mode, true, b.r, b.g, b.b)
			if fg != lastFg {
				r.sb.WriteString(fg)
				lastFg = fg
			}
			if bg != lastBg {
				r.sb.WriteString(bg)
				lastBg = bg
			}
			r.sb.WriteString("▀")
		}

		r.sb.WriteString(ansiReset)
		lastFg, lastBg = "", ""
		if row < rows-1 {
			r.sb.WriteByte('\n')
		}
	}
}

// renderASCII maps each pixel to a brightness character; marks use fixed
// glyphs.
func (r *Renderer) renderASCII(w, h int) {
	for y := range h {
		for x := range w {
			switch r.mark[y*w+x] {
			case markContour:
				r.sb.WriteByte('o')
			case markVertex:
				r.sb.WriteByte('+')
			default:
				p := r.pix[y*w+x]
				r.sb.WriteByte(brightnessChar(luminance(p.r, p.g, p.b)))
			}
		}
		if y < h-1 {
			r.sb.WriteByte('\n')
		}
	}
}

// luminance computes perceived brightness (ITU-R BT.601).
func luminance(r, g, b uint8) uint8 {
	return uint8((299*int(r) + 587*int(g) + 114*int(b)) / 1000)
}

func toRGB(c, fallback color.Color) rgb {
	if c == nil {
		c = fallback
	}
	n := color.RGBAModel.Convert(c).(color.RGBA)
	return rgb{n.R, n.G, n.B}
}
