package snake

import (
	"runtime"

	"golang.org/x/sync/errgroup"
)

// kernel3 is a 3×3 correlation kernel indexed as k[dy+1][dx+1].
type kernel3 [3][3]float64

func (k kernel3) scaled(f float64) kernel3 {
	for j := range k {
		for i := range k[j] {
			k[j][i] *= f
		}
	}
	return k
}

var (
	// Scharr derivatives, normalized so a unit ramp yields 1.
	scharrX = kernel3{
		{-3, 0, 3},
		{-10, 0, 10},
		{-3, 0, 3},
	}.scaled(1.0 / 32)
	scharrY = kernel3{
		{-3, -10, -3},
		{0, 0, 0},
		{3, 10, 3},
	}.scaled(1.0 / 32)

	gaussian = kernel3{
		{1, 2, 1},
		{2, 4, 2},
		{1, 2, 1},
	}.scaled(1.0 / 16)

	derivXX = kernel3{
		{1, -2, 1},
		{2, -4, 2},
		{1, -2, 1},
	}.scaled(1.0 / 4)
	derivYY = kernel3{
		{1, 2, 1},
		{-2, -4, -2},
		{1, 2, 1},
	}.scaled(1.0 / 4)
	derivXY = kernel3{
		{1, 0, -1},
		{0, 0, 0},
		{-1, 0, 1},
	}.scaled(1.0 / 4)
)

// rowsPerBand is the unit of work handed to one goroutine.
const rowsPerBand = 32

// correlate applies k to src with replicated borders. Row bands are
// processed concurrently; every output sample depends only on src, so the
// result does not depend on scheduling.
func correlate(src *Grid, k kernel3) *Grid {
	dst := NewGrid(src.W, src.H)

	var g errgroup.Group
	g.SetLimit(runtime.GOMAXPROCS(0))
	for y0 := 0; y0 < src.H; y0 += rowsPerBand {
		y1 := min(y0+rowsPerBand, src.H)
		g.Go(func() error {
			correlateRows(dst, src, k, y0, y1)
			return nil
		})
	}
	// Bands never fail; the group only bounds concurrency.
	_ = g.Wait()
	return dst
}

func correlateRows(dst, src *Grid, k kernel3, y0, y1 int) {
	w, h := src.W, src.H
	for y := y0; y < y1; y++ {
		interiorRow := y > 0 && y < h-1
		for x := range w {
			var sum float64
			if interiorRow && x > 0 && x < w-1 {
				for j := range 3 {
					row := src.Data[(y+j-1)*w+x-1:]
					sum += k[j][0]*row[0] + k[j][1]*row[1] + k[j][2]*row[2]
				}
			} else {
				for j := range 3 {
					for i := range 3 {
						sum += k[j][i] * src.At(x+i-1, y+j-1)
					}
				}
			}
			dst.Data[y*w+x] = sum
		}
	}
}

// blur applies the 3×3 binomial kernel passes times.
func blur(g *Grid, passes int) *Grid {
	for range passes {
		g = correlate(g, gaussian)
	}
	return g
}
