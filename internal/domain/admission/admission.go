// Package admission maps a composite score and an institution's acceptance
// rate onto an admission probability, a reach/match/safety tier and a data
// confidence level.
//
// The exponential-odds formula and the bracket thresholds are fixed legacy
// heuristics reproduced exactly for compatibility; they carry no calibration
// claim and must not be tuned silently.
package admission

import (
	"math"

	"github.com/ywutian/admitscore/internal/domain/model"
)

// Tier is the coarse institution-relative classification of an applicant's
// chances.
type Tier string

// Tier values.
const (
	TierReach  Tier = "reach"
	TierMatch  Tier = "match"
	TierSafety Tier = "safety"
)

// Confidence buckets how much of the canonical input data was present.
type Confidence string

// Confidence levels.
const (
	ConfidenceLow    Confidence = "low"
	ConfidenceMedium Confidence = "medium"
	ConfidenceHigh   Confidence = "high"
)

// Probability model constants.
const (
	// DefaultBaseRate substitutes an unknown acceptance rate.
	DefaultBaseRate = 0.30

	// oddsGrowth multiplies the base rate once per scoreStep points of
	// overall score above the scorePivot (and divides below it).
	oddsGrowth = 1.2
	scorePivot = 50.0
	scoreStep  = 10.0

	// The engine never claims certainty in either direction.
	MinProbability = 0.05
	MaxProbability = 0.95
)

// Acceptance-rate brackets (percent) and their tier thresholds.
const (
	selectiveRateBound = 15.0
	moderateRateBound  = 30.0

	selectiveMatchThreshold = 0.25

	moderateSafetyThreshold = 0.50
	moderateMatchThreshold  = 0.30

	openSafetyThreshold = 0.60
	openMatchThreshold  = 0.35
)

// Confidence bucket bounds.
const (
	mediumSignalMinimum = 3
	highSignalMinimum   = 5
)

// Probability estimates the admission probability for an overall score at an
// institution with the given acceptance rate (percent, nil when unknown).
//
// base rate x 1.2^((overall-50)/10), clamped to [0.05, 0.95]. Never returns
// NaN, Inf or an out-of-range value, even for degenerate inputs.
func Probability(overall float64, acceptanceRate *float64) float64 {
	base := DefaultBaseRate
	if acceptanceRate != nil && *acceptanceRate > 0 && *acceptanceRate <= 100 {
		base = *acceptanceRate / 100
	}
	if math.IsNaN(overall) {
		overall = scorePivot
	}
	p := base * math.Pow(oddsGrowth, (overall-scorePivot)/scoreStep)
	if math.IsNaN(p) {
		return MinProbability
	}
	return math.Max(MinProbability, math.Min(MaxProbability, p))
}

// ClassifyTier buckets the institution by acceptance rate and applies that
// bracket's probability thresholds. In the most selective bracket safety is
// unreachable by design. An unknown rate classifies in the open bracket,
// consistent with the default base rate.
func ClassifyTier(probability float64, acceptanceRate *float64) Tier {
	rate := moderateRateBound // open bracket when unknown
	if acceptanceRate != nil && *acceptanceRate > 0 && *acceptanceRate <= 100 {
		rate = *acceptanceRate
	}

	switch {
	case rate < selectiveRateBound:
		if probability >= selectiveMatchThreshold {
			return TierMatch
		}
		return TierReach
	case rate < moderateRateBound:
		switch {
		case probability >= moderateSafetyThreshold:
			return TierSafety
		case probability >= moderateMatchThreshold:
			return TierMatch
		default:
			return TierReach
		}
	default:
		switch {
		case probability >= openSafetyThreshold:
			return TierSafety
		case probability >= openMatchThreshold:
			return TierMatch
		default:
			return TierReach
		}
	}
}

// EstimateConfidence counts the six canonical data signals and buckets the
// count. Purely informational; it never blocks computation.
func EstimateConfidence(app model.ApplicantMetrics, inst model.InstitutionMetrics) Confidence {
	signals := 0
	if app.GPA != nil {
		signals++
	}
	if app.SAT != nil || app.ACT != nil || app.TOEFL != nil {
		signals++
	}
	if app.Activities.Count > 0 || len(app.Activities.Details) > 0 {
		signals++
	}
	if app.Awards.Total > 0 || len(app.Awards.TierScores) > 0 {
		signals++
	}
	if inst.AcceptanceRate != nil {
		signals++
	}
	if inst.SATAvg != nil || inst.ACTAvg != nil ||
		(inst.SAT25 != nil && inst.SAT75 != nil) || (inst.ACT25 != nil && inst.ACT75 != nil) {
		signals++
	}

	switch {
	case signals >= highSignalMinimum:
		return ConfidenceHigh
	case signals >= mediumSignalMinimum:
		return ConfidenceMedium
	default:
		return ConfidenceLow
	}
}
