package export

import (
	"strings"
	"testing"

	"popsim/internal/popdyn"
)

func tableOf(rows ...[]float64) *popdyn.Abundance {
	a := popdyn.NewAbundance(len(rows[0]), len(rows))
	for _, row := range rows {
		a.Append(row)
	}
	return a
}

func TestSeriesToSVGOnePathPerSpecies(t *testing.T) {
	a := tableOf(
		[]float64{1, 2, 3},
		[]float64{2, 4, 6},
		[]float64{4, 8, 12},
	)

	svg := SeriesToSVG(a, 640, 480, false)
	if !strings.HasPrefix(svg, `<?xml`) {
		t.Error("missing XML declaration")
	}
	if !strings.Contains(svg, `width="640" height="480"`) {
		t.Error("missing dimensions")
	}
	if got := strings.Count(svg, "<path"); got != 3 {
		t.Errorf("expected 3 paths, got %d", got)
	}
	if !strings.HasSuffix(svg, "</svg>") {
		t.Error("missing closing tag")
	}
}

func TestSeriesToSVGCoordinatesInCanvas(t *testing.T) {
	a := tableOf(
		[]float64{1},
		[]float64{100},
		[]float64{10},
	)

	svg := SeriesToSVG(a, 100, 100, false)
	// The 10% headroom keeps extremes off the canvas edge.
	for _, tok := range []string{"M-", "L-", ",-"} {
		if strings.Contains(svg, tok) {
			t.Errorf("found negative coordinate (%q)", tok)
		}
	}
}

func TestSeriesToSVGLogScale(t *testing.T) {
	// Log scale compresses a value 10^6 above its neighbor into the canvas;
	// on a linear scale the small species would sit flat at the bottom row.
	a := tableOf(
		[]float64{1, 1e6},
		[]float64{10, 1e7},
	)

	linear := SeriesToSVG(a, 200, 100, false)
	logged := SeriesToSVG(a, 200, 100, true)
	if linear == logged {
		t.Error("log scale output identical to linear")
	}
	if got := strings.Count(logged, "<path"); got != 2 {
		t.Errorf("expected 2 paths, got %d", got)
	}
}

func TestSeriesToSVGTooShort(t *testing.T) {
	if svg := SeriesToSVG(tableOf([]float64{1, 2}), 100, 100, false); svg != "" {
		t.Error("expected empty output for single-step table")
	}
}
