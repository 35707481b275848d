package analysis

import (
	"math"

	"popsim/internal/popdyn"
)

// Bin is one log-spaced abundance histogram bin. Center is the geometric
// bin center in abundance space; Density is the fraction of samples per
// unit log10 abundance.
type Bin struct {
	Center  float64
	Count   int
	Density float64
}

// AbundanceDistribution pools every positive abundance value in the table
// into logarithmically spaced bins. Multiplicative dynamics produce values
// spread over many decades, so linear binning would put everything in one
// bin.
func AbundanceDistribution(abundance *popdyn.Abundance, bins int) []Bin {
	if bins < 1 {
		bins = 1
	}

	min, max := math.Inf(1), math.Inf(-1)
	total := 0
	for s := 0; s < abundance.Species(); s++ {
		for t := 0; t < abundance.Steps(); t++ {
			v := abundance.At(s, t)
			if v <= 0 {
				continue
			}
			min = math.Min(min, v)
			max = math.Max(max, v)
			total++
		}
	}
	if total == 0 || min == max {
		return nil
	}

	lo := math.Log10(min)
	hi := math.Log10(max)
	width := (hi - lo) / float64(bins)

	out := make([]Bin, bins)
	for i := range out {
		out[i].Center = math.Pow(10, lo+(float64(i)+0.5)*width)
	}

	for s := 0; s < abundance.Species(); s++ {
		for t := 0; t < abundance.Steps(); t++ {
			v := abundance.At(s, t)
			if v <= 0 {
				continue
			}
			idx := int((math.Log10(v) - lo) / width)
			if idx == bins {
				idx = bins - 1
			}
			out[idx].Count++
		}
	}

	for i := range out {
		out[i].Density = float64(out[i].Count) / (float64(total) * width)
	}
	return out
}
