package popdyn

import (
	"fmt"
	"math"
)

// Sampler produces independent multiplicative growth factors. Implementations
// own their random source, so a given seed always yields the same draw
// sequence; Sample fills dst front to back, one draw advancing the source
// per element.
type Sampler interface {
	Name() string
	Sample(dst []float64)
}

// Metric observes the per-species abundance emitted at each macro step and
// reduces it to a single summary value at the end of a run.
type Metric interface {
	Name() string
	Observe(step int, abundance []float64)
	Value() float64
	Reset()
}

// minDenominator is the smallest prior abundance GrowthRates will divide by.
const minDenominator = 1e-12

// Abundance is a per-species abundance time series. Rows are appended one
// macro step at a time and never rewritten.
type Abundance struct {
	species int
	steps   [][]float64
}

func NewAbundance(species, stepCap int) *Abundance {
	return &Abundance{
		species: species,
		steps:   make([][]float64, 0, stepCap),
	}
}

func (a *Abundance) Species() int { return a.species }
func (a *Abundance) Steps() int   { return len(a.steps) }

// Append records one macro step of per-species abundance. The values are
// copied; the caller keeps ownership of the slice.
func (a *Abundance) Append(values []float64) {
	if len(values) != a.species {
		panic(fmt.Sprintf("abundance row has %d values, want %d", len(values), a.species))
	}
	row := make([]float64, a.species)
	copy(row, values)
	a.steps = append(a.steps, row)
}

func (a *Abundance) At(species, step int) float64 {
	return a.steps[step][species]
}

// Series returns the trajectory of one species across all recorded steps.
func (a *Abundance) Series(species int) []float64 {
	out := make([]float64, len(a.steps))
	for t, row := range a.steps {
		out[t] = row[species]
	}
	return out
}

// Row returns a copy of the per-species abundances at one macro step.
func (a *Abundance) Row(step int) []float64 {
	out := make([]float64, a.species)
	copy(out, a.steps[step])
	return out
}

// GrowthRates derives rates[s][t] = series[s][t+1] / series[s][t] for every
// species. Any denominator at or below zero, or small enough to blow the
// ratio up, fails with ErrDivisionByZero naming the species and step.
func (a *Abundance) GrowthRates() ([][]float64, error) {
	if len(a.steps) < 2 {
		return nil, fmt.Errorf("growth rates need at least 2 steps, have %d", len(a.steps))
	}
	rates := make([][]float64, a.species)
	for s := 0; s < a.species; s++ {
		rates[s] = make([]float64, len(a.steps)-1)
		for t := 0; t+1 < len(a.steps); t++ {
			prev := a.steps[t][s]
			if prev <= 0 || math.Abs(prev) < minDenominator {
				return nil, fmt.Errorf("species %d step %d: prior abundance %g: %w",
					s, t, prev, ErrDivisionByZero)
			}
			rates[s][t] = a.steps[t+1][s] / prev
		}
	}
	return rates, nil
}
