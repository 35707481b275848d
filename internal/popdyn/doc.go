// Package popdyn defines the core vocabulary shared by the simulation
// engines: the growth-factor sampler contract, the abundance time-series
// tables produced by a run, and the error kinds a run can fail with.
//
// Engines append one row of per-species abundance per macro step to an
// [Abundance] table; [Abundance.GrowthRates] derives the step-to-step
// multiplicative rates once a run has finished.
package popdyn
