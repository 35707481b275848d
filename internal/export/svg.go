package export

import (
	"fmt"
	"math"
	"strings"

	"popsim/internal/popdyn"
)

var strokePalette = []string{
	"#00ff00", "#00bfff", "#ff6060", "#ffd700", "#ff00ff", "#00ffcc",
}

// SeriesToSVG renders each species' abundance trajectory as a polyline.
// Multiplicative dynamics span many decades, so logScale plots log10 of the
// abundance; non-positive values are clamped to the smallest positive value
// in the table first.
func SeriesToSVG(abundance *popdyn.Abundance, width, height int, logScale bool) string {
	steps := abundance.Steps()
	if steps < 2 {
		return ""
	}

	transform := func(v float64) float64 { return v }
	if logScale {
		floor := math.Inf(1)
		for s := 0; s < abundance.Species(); s++ {
			for t := 0; t < steps; t++ {
				if v := abundance.At(s, t); v > 0 && v < floor {
					floor = v
				}
			}
		}
		if math.IsInf(floor, 1) {
			floor = 1
		}
		transform = func(v float64) float64 {
			if v < floor {
				v = floor
			}
			return math.Log10(v)
		}
	}

	minY, maxY := math.Inf(1), math.Inf(-1)
	for s := 0; s < abundance.Species(); s++ {
		for t := 0; t < steps; t++ {
			y := transform(abundance.At(s, t))
			minY = math.Min(minY, y)
			maxY = math.Max(maxY, y)
		}
	}
	rangeY := maxY - minY
	if rangeY == 0 {
		rangeY = 1
	}
	minY -= rangeY * 0.1
	maxY += rangeY * 0.1
	rangeY = maxY - minY

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, width, height, width, height))

	for s := 0; s < abundance.Species(); s++ {
		stroke := strokePalette[s%len(strokePalette)]
		sb.WriteString(fmt.Sprintf(`<path fill="none" stroke="%s" stroke-width="1.5" d="M`, stroke))

		for t := 0; t < steps; t++ {
			x := float64(t) / float64(steps-1) * float64(width)
			y := float64(height) - (transform(abundance.At(s, t))-minY)/rangeY*float64(height)
			if t == 0 {
				sb.WriteString(fmt.Sprintf("%.1f,%.1f", x, y))
			} else {
				sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", x, y))
			}
		}
		sb.WriteString("\"/>\n")
	}

	sb.WriteString("</svg>")
	return sb.String()
}
