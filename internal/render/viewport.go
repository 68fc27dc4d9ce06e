package render

import (
	"math"

	"honnef.co/go/curve"
)

// Viewport maps between frame coordinates and terminal cells. The image is
// drawn in a Cols×Rows block of cells starting at (Left, Top); each cell
// covers SubRows pixel rows of the downscaled picture (2 with half-blocks).
type Viewport struct {
	FrameW, FrameH int
	Cols, Rows     int
	SubRows        int
	Left, Top      int
}

// Fit computes the largest aspect-correct viewport for a frame inside a
// termW×termH cell area.
func Fit(frameW, frameH, termW, termH int, color bool) Viewport {
	outW, outH, scaleW, scaleH := CalcFrameDimensions(termW, termH, frameW, frameH, color)
	v := Viewport{FrameW: frameW, FrameH: frameH, Cols: scaleW, Rows: outH, SubRows: 1}
	if color {
		v.SubRows = 2
		v.Rows = (scaleH + 1) / 2
	}
	if outW > 0 && v.Cols > outW {
		v.Cols = outW
	}
	return v
}

// Empty reports whether the viewport has no area.
func (v Viewport) Empty() bool {
	return v.FrameW <= 0 || v.FrameH <= 0 || v.Cols <= 0 || v.Rows <= 0 || v.SubRows <= 0
}

// pixelRows returns the number of subpixel rows the viewport resolves.
func (v Viewport) pixelRows() int { return v.Rows * v.SubRows }

// ToFrame maps a terminal cell to the frame position at the cell's center.
// ok is false when the cell lies outside the image.
func (v Viewport) ToFrame(col, row int) (p curve.Point, ok bool) {
	if v.Empty() {
		return curve.Point{}, false
	}
	col -= v.Left
	row -= v.Top
	if col < 0 || row < 0 || col >= v.Cols || row >= v.Rows {
		return curve.Point{}, false
	}
	x := (float64(col) + 0.5) * float64(v.FrameW) / float64(v.Cols)
	y := (float64(row) + 0.5) * float64(v.FrameH) / float64(v.Rows)
	return curve.Pt(x, y), true
}

// toPixel maps a frame position to a subpixel of the viewport grid.
func (v Viewport) toPixel(p curve.Point) (x, y int, ok bool) {
	if v.Empty() || p.IsNaN() || p.IsInf() {
		return 0, 0, false
	}
	x = int(math.Floor(p.X * float64(v.Cols) / float64(v.FrameW)))
	y = int(math.Floor(p.Y * float64(v.pixelRows()) / float64(v.FrameH)))
	ok = x >= 0 && y >= 0 && x < v.Cols && y < v.pixelRows()
	return x, y, ok
}

// ToCell maps a frame position to the terminal cell that displays it.
func (v Viewport) ToCell(p curve.Point) (col, row int, ok bool) {
	x, y, ok := v.toPixel(p)
	if !ok {
		return 0, 0, false
	}
	return x + v.Left, y/v.SubRows + v.Top, true
}

// CalcFrameDimensions computes the downscaled pixel dimensions and the
// terminal cell dimensions, given terminal bounds and source aspect ratio.
//
// termW, termH: available terminal cells.
// srcW, srcH: source pixel dimensions.
// color: whether half-block rendering is active (doubles vertical pixel budget).
//
// Returns (outW cells, outH cells, scaleW pixels, scaleH pixels).
func CalcFrameDimensions(termW, termH, srcW, srcH int, color bool) (outW, outH, scaleW, scaleH int) {
	if srcW <= 0 || srcH <= 0 || termW <= 0 || termH <= 0 {
		return 0, 0, 0, 0
	}

	// Terminal cells are roughly twice as tall as wide.
	outW = termW
	aspectSrc := float64(srcW) / float64(srcH)
	if color {
		pixelH := termH * 2
		aspectTerm := float64(outW) * 0.5 / float64(pixelH)

		if aspectSrc > aspectTerm {
			scaleW = outW
			scaleH = min(int(float64(outW)*0.5/aspectSrc), pixelH)
			outH = (scaleH + 1) / 2
		} else {
			scaleH = pixelH
			scaleW = min(int(float64(pixelH)*aspectSrc/0.5), outW)
			outH = termH
			outW = scaleW
		}
	} else {
		outH = termH
		aspectTerm := float64(outW) / (float64(outH) * 2.0)

		if aspectSrc > aspectTerm {
			scaleW = outW
			scaleH = min(int(float64(outW)/aspectSrc/2.0), outH)
			outH = scaleH
		} else {
			scaleH = outH
			scaleW = min(int(float64(outH)*aspectSrc*2.0), outW)
			outW = scaleW
		}
	}

	outW = max(outW, 4)
	outH = max(outH, 2)
	scaleW = max(scaleW, 4)
	scaleH = max(scaleH, 2)
	return outW, outH, scaleW, scaleH
}
