package scoring

import (
	"github.com/ywutian/admitscore/internal/domain/model"
)

// Evaluate runs all three component scorers and combines them with the
// central weight table.
//
// Invariant: Overall == Academic*0.50 + Activity*0.30 + Award*0.20, exactly.
// The components are individually clamped to [0,100]; the weighted sum is
// not re-rounded, so the invariant holds bitwise and Overall stays in
// [0,100] because the weights sum to 1.
func Evaluate(app model.ApplicantMetrics, inst model.InstitutionMetrics, hist model.HistoricalDistribution) model.ScoreBreakdown {
	academic := AcademicScore(app, inst, hist)
	activity := ActivityScore(app.Activities)
	award := AwardScore(app.Awards)

	return model.ScoreBreakdown{
		Academic: academic,
		Activity: activity,
		Award:    award,
		Overall:  academic*Weights.Academic + activity*Weights.Activity + award*Weights.Award,
	}
}
