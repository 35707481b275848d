// Package growth provides the multiplicative growth-factor models.
//
// Each model implements the [popdyn.Sampler] interface, producing a stream
// of independent per-substep growth factors:
//
//   - [ThreePoint]: factors {1/2, 1, 2} with probabilities derived from the
//     tail exponent so the distribution is unbiased under aggregation
//   - [LogUniform]: continuous, uniform in log-space over bounds solved from
//     a moment-matching equation
//   - [Binary]: two factors {g0, γ·g0} at probability 1/2 each, g0 solved
//     analytically from the same moment constraint
//
// All three satisfy E[g^α] = 1 for the configured tail exponent α, which is
// what keeps long products of factors from drifting systematically.
package growth
