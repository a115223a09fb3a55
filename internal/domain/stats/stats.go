// Package stats provides the statistical primitives used by the scoring
// engine: a closed-form normal-CDF approximation and percentile estimators.
//
// Every function here is pure and total: degenerate inputs (empty samples,
// inverted percentile bands, NaN) map to a documented neutral value instead
// of an error. Callers never need to guard their inputs.
package stats

import (
	"math"
	"sort"
)

// MinSampleSize is the smallest historical sample considered statistically
// meaningful. Below this the empirical estimator must not be used and callers
// fall back to institution-level or default baselines.
const MinSampleSize = 30

// Abramowitz & Stegun 26.2.17 rational approximation coefficients.
const (
	cdfP  = 0.2316419
	cdfB1 = 0.319381530
	cdfB2 = -0.356563782
	cdfB3 = 1.781477937
	cdfB4 = -1.821255978
	cdfB5 = 1.330274429
)

// iqrToSigma is the width of the interquartile range in standard deviations
// of a normal distribution: p75 - p25 = 2 * 0.6745 * sigma.
const iqrToSigma = 0.6745

// neutralPercentile is returned when no estimate can be made.
const neutralPercentile = 0.5

// CDF approximates the standard normal cumulative distribution function
// using the Abramowitz-Stegun polynomial (absolute error ~1e-5).
//
// The negative half is computed by symmetry, so CDF(z) + CDF(-z) == 1 holds
// exactly. NaN input yields the neutral 0.5.
func CDF(z float64) float64 {
	if math.IsNaN(z) {
		return neutralPercentile
	}
	if z < 0 {
		return 1 - CDF(-z)
	}
	t := 1 / (1 + cdfP*z)
	poly := t * (cdfB1 + t*(cdfB2+t*(cdfB3+t*(cdfB4+t*cdfB5))))
	return 1 - math.Exp(-z*z/2)/math.Sqrt(2*math.Pi)*poly
}

// ParametricPercentile estimates where score falls within a population whose
// 25th and 75th percentiles are known, by fitting a normal distribution:
// mean = (p25+p75)/2 and sigma = (p75-p25)/(2*0.6745).
//
// A degenerate band (p75 <= p25) carries no information and returns exactly
// 0.5 rather than dividing by a zero or negative span.
func ParametricPercentile(score, p25, p75 float64) float64 {
	if p75 <= p25 {
		return neutralPercentile
	}
	mean := (p25 + p75) / 2
	sigma := (p75 - p25) / (2 * iqrToSigma)
	return CDF((score - mean) / sigma)
}

// EmpiricalPercentile returns the fraction of a sorted historical sample that
// falls below score, via binary search over the insertion point.
//
// Contract: score <= min -> 0, score >= max -> 1, empty sample -> 0.5.
func EmpiricalPercentile(score float64, sorted []float64) float64 {
	n := len(sorted)
	if n == 0 {
		return neutralPercentile
	}
	if score <= sorted[0] {
		return 0
	}
	if score >= sorted[n-1] {
		return 1
	}
	idx := sort.SearchFloat64s(sorted, score)
	return float64(idx) / float64(n)
}

// Quantile returns the q-th quantile (q in [0,1]) of a sorted sample using
// linear interpolation between closest ranks. Empty input yields 0.
func Quantile(sorted []float64, q float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if q <= 0 {
		return sorted[0]
	}
	if q >= 1 {
		return sorted[n-1]
	}
	h := q * float64(n-1)
	lo := int(math.Floor(h))
	frac := h - float64(lo)
	if lo+1 >= n {
		return sorted[n-1]
	}
	return sorted[lo] + frac*(sorted[lo+1]-sorted[lo])
}
