package scoring

import (
	"strings"

	"github.com/ywutian/admitscore/internal/domain/model"
)

// ActivityScore computes the activity component. The two paths are mutually
// exclusive and selected by the variant tag resolved at the adapter boundary:
// quality-weighted when per-activity detail exists, legacy count-only
// otherwise. Clamped to [0,100].
func ActivityScore(p model.ActivityProfile) float64 {
	if p.Kind == model.ActivityDetailed {
		return clamp(detailedActivityScore(p.Details), MinScore, MaxScore)
	}
	return clamp(legacyActivityScore(p.Count), MinScore, MaxScore)
}

// detailedActivityScore weighs count, leadership, depth and diversity.
func detailedActivityScore(details []model.ActivityDetail) float64 {
	score := activityDetailedBase

	score += capAt(float64(len(details))*activityCountPoints, activityCountCap)

	leaders := 0
	deep := 0
	categories := make(map[string]struct{})
	for _, d := range details {
		if IsLeadershipRole(d.Role) {
			leaders++
		}
		if d.TotalHours > DeepActivityHours {
			deep++
		}
		if c := strings.TrimSpace(strings.ToLower(d.Category)); c != "" {
			categories[c] = struct{}{}
		}
	}

	score += capAt(float64(leaders)*leadershipPoints, leadershipCap)
	score += capAt(float64(deep)*depthPoints, depthCap)

	switch {
	case len(categories) >= diversityMajorMinimum:
		score += diversityMajorBonus
	case len(categories) >= diversityMinorMinimum:
		score += diversityMinorBonus
	}

	return score
}

// legacyActivityScore is the count-only fallback kept for records that
// predate per-activity detail: base 30 plus 5 per activity, capped at 50.
func legacyActivityScore(count int) float64 {
	if count < 0 {
		count = 0
	}
	return activityLegacyBase + capAt(float64(count)*activityLegacyPoints, activityLegacyCap)
}

// IsLeadershipRole reports whether role text matches the central leadership
// keyword table, case-insensitively.
func IsLeadershipRole(role string) bool {
	role = strings.ToLower(role)
	for _, kw := range LeadershipKeywords {
		if strings.Contains(role, kw) {
			return true
		}
	}
	return false
}

func capAt(v, limit float64) float64 {
	if v > limit {
		return limit
	}
	return v
}
