package ui

import (
	"math"
	"strings"

	"github.com/charmbracelet/harmonica"
)

// shiftGauge eases the displayed per-step shift towards the latest value so
// the gauge does not flicker while playing.
type shiftGauge struct {
	spring harmonica.Spring
	pos    float64
	vel    float64
	target float64
}

func newShiftGauge() shiftGauge {
	return shiftGauge{spring: harmonica.NewSpring(harmonica.FPS(gaugeFPS), 6.0, 0.8)}
}

func (g *shiftGauge) set(v float64) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		v = 0
	}
	g.target = v
}

func (g *shiftGauge) step() {
	g.pos, g.vel = g.spring.Update(g.pos, g.vel, g.target)
	if g.pos < 0 {
		g.pos = 0
	}
}

// gaugeFullScale is the shift, in pixels, shown as a full gauge.
const gaugeFullScale = 2.0

func (g *shiftGauge) view(width int) string {
	return renderBar(g.pos/gaugeFullScale, width)
}

func renderBar(ratio float64, width int) string {
	if width < 4 {
		width = 4
	}
	if ratio < 0 || math.IsNaN(ratio) {
		ratio = 0
	}
	if ratio > 1 {
		ratio = 1
	}
	filled := int(ratio * float64(width))
	return strings.Repeat("━", filled) + strings.Repeat("─", width-filled)
}
