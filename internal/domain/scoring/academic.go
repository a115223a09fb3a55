package scoring

import (
	"math"

	"github.com/ywutian/admitscore/internal/domain/model"
	"github.com/ywutian/admitscore/internal/domain/normalize"
	"github.com/ywutian/admitscore/internal/domain/stats"
)

// AcademicScore computes the academic component: a baseline of 50 shifted by
// a GPA term, a standardized-test bonus and a TOEFL threshold adjustment,
// clamped to [0,100].
//
// The test bonus follows a strict four-level fallback, most precise first:
//  1. empirical percentile against the platform's own history (>= 30 samples)
//  2. parametric percentile against the institution's 25/75 band
//  3. linear difference from the institution's published average
//  4. linear difference from a fixed default average
//
// ACT is consulted only when no SAT value is present.
func AcademicScore(app model.ApplicantMetrics, inst model.InstitutionMetrics, hist model.HistoricalDistribution) float64 {
	score := AcademicBaseline
	score += gpaTerm(app)
	score += testBonus(app, inst, hist)
	score += toeflAdjustment(app.TOEFL)
	return clamp(score, MinScore, MaxScore)
}

// gpaTerm nets zero for a 3.0 GPA on the 4.0 basis; above or below shifts
// the score proportionally. An absent GPA contributes nothing.
func gpaTerm(app model.ApplicantMetrics) float64 {
	if app.GPA == nil {
		return 0
	}
	scale := normalize.NativeGPAScale
	if app.GPAScale != nil {
		scale = *app.GPAScale
	}
	return normalize.GPA(*app.GPA, scale)*gpaContributionScale - gpaBaselineOffset
}

func testBonus(app model.ApplicantMetrics, inst model.InstitutionMetrics, hist model.HistoricalDistribution) float64 {
	switch {
	case app.SAT != nil:
		return satBonus(*app.SAT, inst, hist)
	case app.ACT != nil:
		return actBonus(*app.ACT, inst)
	default:
		return 0
	}
}

// satBonus resolves the four-level fallback chain on the SAT scale.
func satBonus(sat float64, inst model.InstitutionMetrics, hist model.HistoricalDistribution) float64 {
	if hist.SampleCount >= stats.MinSampleSize && len(hist.SATValues) >= stats.MinSampleSize {
		return percentileBonus(stats.EmpiricalPercentile(sat, hist.SATValues))
	}
	if inst.SAT25 != nil && inst.SAT75 != nil {
		return percentileBonus(stats.ParametricPercentile(sat, *inst.SAT25, *inst.SAT75))
	}
	avg := DefaultSATAverage
	if inst.SATAvg != nil {
		avg = *inst.SATAvg
	}
	return clamp((sat-avg)*testBonusMax/satLinearDivisor, -testBonusMax, testBonusMax)
}

// actBonus mirrors satBonus on the 36-point ACT scale. The platform history
// holds no ACT samples, so the chain starts at the institution band.
func actBonus(act float64, inst model.InstitutionMetrics) float64 {
	if inst.ACT25 != nil && inst.ACT75 != nil {
		return percentileBonus(stats.ParametricPercentile(act, *inst.ACT25, *inst.ACT75))
	}
	avg := DefaultACTAverage
	if inst.ACTAvg != nil {
		avg = *inst.ACTAvg
	}
	return clamp((act-avg)*testBonusMax/actLinearDivisor, -testBonusMax, testBonusMax)
}

// percentileBonus maps a [0,1] percentile onto the +-15 bonus range.
func percentileBonus(p float64) float64 {
	return (p - 0.5) * 2 * testBonusMax
}

// toeflAdjustment is linear around the 100-point baseline, bounded at +-5.
func toeflAdjustment(toefl *float64) float64 {
	if toefl == nil {
		return 0
	}
	return clamp((*toefl-toeflBaseline)*toeflAdjustmentScale, -toeflAdjustmentMax, toeflAdjustmentMax)
}

// clamp bounds v to [lo,hi] and squashes NaN to lo so the numeric contract
// (no NaN, no out-of-range output) holds unconditionally.
func clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return lo
	}
	return math.Max(lo, math.Min(hi, v))
}
