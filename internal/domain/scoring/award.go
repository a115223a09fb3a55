package scoring

import (
	"github.com/ywutian/admitscore/internal/domain/model"
)

// AwardScore computes the award component. When per-award tier scores were
// derived at the adapter boundary they are summed directly; otherwise the
// count-based fallback applies. Clamped to [0,100].
func AwardScore(p model.AwardProfile) float64 {
	if p.Kind == model.AwardTiered {
		sum := 0.0
		for _, s := range p.TierScores {
			sum += s
		}
		return clamp(sum, MinScore, MaxScore)
	}
	return clamp(countOnlyAwardScore(p), MinScore, MaxScore)
}

// countOnlyAwardScore is the legacy fallback: base 20, 20 per international
// award (cap 40), 15 per national award (cap 30), 5 per remaining award
// (cap 20).
func countOnlyAwardScore(p model.AwardProfile) float64 {
	intl := maxInt(p.International, 0)
	natl := maxInt(p.National, 0)
	other := maxInt(p.Total-intl-natl, 0)

	score := awardFallbackBase
	score += capAt(float64(intl)*internationalAwardValue, internationalAwardCap)
	score += capAt(float64(natl)*nationalAwardValue, nationalAwardCap)
	score += capAt(float64(other)*otherAwardValue, otherAwardCap)
	return score
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
