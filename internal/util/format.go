package util

import (
	"fmt"
	"time"

	"honnef.co/go/curve"
)

// FormatDuration formats a duration as m:ss.
func FormatDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int(d.Seconds())
	m := total / 60
	s := total % 60
	return fmt.Sprintf("%d:%02d", m, s)
}

// FormatPoint formats a frame position with one decimal.
func FormatPoint(p curve.Point) string {
	return fmt.Sprintf("(%.1f, %.1f)", p.X, p.Y)
}

// FormatShift formats a node displacement in pixels, switching to
// scientific notation once it drops below what one decimal can show.
func FormatShift(v float64) string {
	if v != 0 && v < 0.05 {
		return fmt.Sprintf("%.1e px", v)
	}
	return fmt.Sprintf("%.2f px", v)
}
