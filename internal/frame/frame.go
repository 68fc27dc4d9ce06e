package frame

import (
	"image"
	"image/color"
)

// Frame is an immutable grid of intensity samples normalized to [0, 1].
// Samples are stored row-major with Channels values per pixel (1 = gray,
// 3 = RGB, 4 = RGB with a trailing alpha that is ignored).
type Frame struct {
	Width    int
	Height   int
	Channels int
	Pix      []float64
}

// Empty reports whether the frame holds no usable samples. Frames with a
// channel count other than 1, 3 or 4 count as empty.
func (f *Frame) Empty() bool {
	if f == nil || f.Width <= 0 || f.Height <= 0 {
		return true
	}
	switch f.Channels {
	case 1, 3, 4:
	default:
		return true
	}
	return len(f.Pix) < f.Width*f.Height*f.Channels
}

// At returns the sample of channel c at (x, y).
func (f *Frame) At(x, y, c int) float64 {
	return f.Pix[(y*f.Width+x)*f.Channels+c]
}

// Luminance returns a single-channel copy of the frame using BT.601 weights.
// Gray frames are copied as is.
func (f *Frame) Luminance() []float64 {
	n := f.Width * f.Height
	out := make([]float64, n)
	if f.Channels == 1 {
		copy(out, f.Pix[:n])
		return out
	}
	for i := range n {
		off := i * f.Channels
		out[i] = 0.299*f.Pix[off] + 0.587*f.Pix[off+1] + 0.114*f.Pix[off+2]
	}
	return out
}

// FromRGB24 converts a packed rgb24 buffer (as produced by ffmpeg) to a Frame.
func FromRGB24(buf []byte, w, h int) *Frame {
	f := &Frame{Width: w, Height: h, Channels: 3, Pix: make([]float64, w*h*3)}
	for i := range f.Pix {
		f.Pix[i] = float64(buf[i]) / 255
	}
	return f
}

// FromImage converts a decoded image. Gray images keep a single channel,
// everything else is converted to RGB with alpha discarded.
func FromImage(img image.Image) *Frame {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()

	switch src := img.(type) {
	case *image.Gray:
		f := &Frame{Width: w, Height: h, Channels: 1, Pix: make([]float64, w*h)}
		for y := range h {
			row := src.Pix[y*src.Stride : y*src.Stride+w]
			for x, v := range row {
				f.Pix[y*w+x] = float64(v) / 255
			}
		}
		return f
	case *image.Gray16:
		f := &Frame{Width: w, Height: h, Channels: 1, Pix: make([]float64, w*h)}
		for y := range h {
			for x := range w {
				v := src.Gray16At(b.Min.X+x, b.Min.Y+y).Y
				f.Pix[y*w+x] = float64(v) / 0xffff
			}
		}
		return f
	}

	f := &Frame{Width: w, Height: h, Channels: 3, Pix: make([]float64, w*h*3)}
	for y := range h {
		for x := range w {
			c := color.NRGBA64Model.Convert(img.At(b.Min.X+x, b.Min.Y+y)).(color.NRGBA64)
			off := (y*w + x) * 3
			f.Pix[off] = float64(c.R) / 0xffff
			f.Pix[off+1] = float64(c.G) / 0xffff
			f.Pix[off+2] = float64(c.B) / 0xffff
		}
	}
	return f
}

// RGB returns the 8-bit color of the pixel at (x, y).
func (f *Frame) RGB(x, y int) (uint8, uint8, uint8) {
	off := (y*f.Width + x) * f.Channels
	if f.Channels == 1 {
		v := to8(f.Pix[off])
		return v, v, v
	}
	return to8(f.Pix[off]), to8(f.Pix[off+1]), to8(f.Pix[off+2])
}

// RGBA renders the frame into a new RGBA image, the canvas used for
// annotations.
func (f *Frame) RGBA() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, f.Width, f.Height))
	for y := range f.Height {
		for x := range f.Width {
			r, g, b := f.RGB(x, y)
			off := img.PixOffset(x, y)
			img.Pix[off] = r
			img.Pix[off+1] = g
			img.Pix[off+2] = b
			img.Pix[off+3] = 0xff
		}
	}
	return img
}

func to8(v float64) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 1 {
		return 0xff
	}
	return uint8(v*255 + 0.5)
}
