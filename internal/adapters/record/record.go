// Package record translates raw persisted applicant and institution records,
// with all their optional and missing fields, into the engine's strict input
// structures.
//
// This is the only place where "is this field present" is resolved: the
// detailed-vs-count-only variants, the per-award tier derivation and the
// textual-range fallbacks all happen here, exactly once, so the scorers
// downstream never branch on data availability. Adapters never fail; absent
// fields map to nil or zero-variant inputs.
package record

import (
	"strings"
	"time"

	"github.com/ywutian/admitscore/internal/domain/model"
	"github.com/ywutian/admitscore/internal/domain/normalize"
	"github.com/ywutian/admitscore/internal/domain/scoring"
)

// RawActivity is one extracurricular entry as stored by the platform.
type RawActivity struct {
	Category   string  `json:"category"`
	Role       string  `json:"role"`
	TotalHours float64 `json:"total_hours"`
}

// RawAward is one award entry as stored by the platform. Competition and
// Level are free text; either or both may be empty.
type RawAward struct {
	Name        string `json:"name"`
	Competition string `json:"competition,omitempty"`
	Level       string `json:"level,omitempty"`
}

// StudentRecord is the raw applicant shape received from the record store.
// Pointer fields distinguish "absent" from "present with value zero".
type StudentRecord struct {
	GPA      *float64 `json:"gpa,omitempty"`
	GPAScale *float64 `json:"gpa_scale,omitempty"`

	SATScore   *float64 `json:"sat_score,omitempty"`
	ACTScore   *float64 `json:"act_score,omitempty"`
	TOEFLScore *float64 `json:"toefl_score,omitempty"`

	ActivityCount *int          `json:"activity_count,omitempty"`
	Activities    []RawActivity `json:"activities,omitempty"`

	AwardCount              *int       `json:"award_count,omitempty"`
	NationalAwardCount      *int       `json:"national_award_count,omitempty"`
	InternationalAwardCount *int       `json:"international_award_count,omitempty"`
	Awards                  []RawAward `json:"awards,omitempty"`
}

// SchoolRecord is the raw institution shape received from the record store.
// Published test statistics may arrive as explicit bounds, as an average, or
// as a textual range like "1320-1520".
type SchoolRecord struct {
	AcceptanceRate *float64 `json:"acceptance_rate,omitempty"`

	SATAvg   *float64 `json:"sat_avg,omitempty"`
	SAT25    *float64 `json:"sat_25,omitempty"`
	SAT75    *float64 `json:"sat_75,omitempty"`
	SATRange *string  `json:"sat_range,omitempty"`

	ACTAvg   *float64 `json:"act_avg,omitempty"`
	ACT25    *float64 `json:"act_25,omitempty"`
	ACT75    *float64 `json:"act_75,omitempty"`
	ACTRange *string  `json:"act_range,omitempty"`

	Rank *int `json:"rank,omitempty"`
}

// SchoolEntry pairs a caller-supplied school identifier with its record, for
// school-list evaluation.
type SchoolEntry struct {
	SchoolID string       `json:"school_id"`
	School   SchoolRecord `json:"school"`
}

// Submission is the envelope queued for asynchronous cohort evaluation.
type Submission struct {
	SubmissionID string        `json:"submission_id"`
	ApplicantID  string        `json:"applicant_id"`
	Student      StudentRecord `json:"student"`
	TS           time.Time     `json:"ts"`
}

// Applicant converts a raw student record into strict applicant metrics,
// resolving the activity and award variants exactly once.
func Applicant(rec StudentRecord) model.ApplicantMetrics {
	return model.ApplicantMetrics{
		GPA:        rec.GPA,
		GPAScale:   rec.GPAScale,
		SAT:        rec.SATScore,
		ACT:        rec.ACTScore,
		TOEFL:      rec.TOEFLScore,
		Activities: activityProfile(rec),
		Awards:     awardProfile(rec),
	}
}

// Institution converts a raw school record into strict institution metrics.
// Explicit 25/75 bounds win over a published textual range; a missing
// average is derived from the range midpoint when one exists.
func Institution(rec SchoolRecord) model.InstitutionMetrics {
	m := model.InstitutionMetrics{
		AcceptanceRate: rec.AcceptanceRate,
		SATAvg:         rec.SATAvg,
		SAT25:          rec.SAT25,
		SAT75:          rec.SAT75,
		ACTAvg:         rec.ACTAvg,
		ACT25:          rec.ACT25,
		ACT75:          rec.ACT75,
		Rank:           rec.Rank,
	}

	resolveBand(&m.SAT25, &m.SAT75, &m.SATAvg, rec.SATRange)
	resolveBand(&m.ACT25, &m.ACT75, &m.ACTAvg, rec.ACTRange)
	return m
}

// resolveBand fills missing band bounds from a textual range and a missing
// average from the band midpoint.
func resolveBand(p25, p75, avg **float64, textual *string) {
	if (*p25 == nil || *p75 == nil) && textual != nil {
		if lo, hi, ok := normalize.RangeBounds(*textual); ok && hi > lo {
			if *p25 == nil {
				v := lo
				*p25 = &v
			}
			if *p75 == nil {
				v := hi
				*p75 = &v
			}
		}
	}
	if *avg == nil && *p25 != nil && *p75 != nil {
		mid := (**p25 + **p75) / 2
		*avg = &mid
	}
}

// activityProfile picks the detailed variant when per-activity detail
// survives, otherwise the legacy count-only variant.
func activityProfile(rec StudentRecord) model.ActivityProfile {
	if len(rec.Activities) > 0 {
		details := make([]model.ActivityDetail, len(rec.Activities))
		for i, a := range rec.Activities {
			details[i] = model.ActivityDetail{
				Category:   a.Category,
				Role:       a.Role,
				TotalHours: a.TotalHours,
			}
		}
		return model.ActivityProfile{
			Kind:    model.ActivityDetailed,
			Count:   len(details),
			Details: details,
		}
	}

	count := 0
	if rec.ActivityCount != nil {
		count = *rec.ActivityCount
	}
	return model.ActivityProfile{Kind: model.ActivityCountOnly, Count: count}
}

// awardProfile derives per-award tier scores when the award list survives:
// the specific competition table wins, the coarser award-level table is
// second, and an unrecognized award falls to the default level score.
func awardProfile(rec StudentRecord) model.AwardProfile {
	if len(rec.Awards) > 0 {
		p := model.AwardProfile{
			Kind:       model.AwardTiered,
			Total:      len(rec.Awards),
			TierScores: make([]float64, len(rec.Awards)),
		}
		for i, a := range rec.Awards {
			p.TierScores[i] = tierScore(a)
			switch strings.ToLower(strings.TrimSpace(a.Level)) {
			case "international":
				p.International++
			case "national":
				p.National++
			}
		}
		return p
	}

	p := model.AwardProfile{Kind: model.AwardCountOnly}
	if rec.AwardCount != nil {
		p.Total = *rec.AwardCount
	}
	if rec.NationalAwardCount != nil {
		p.National = *rec.NationalAwardCount
	}
	if rec.InternationalAwardCount != nil {
		p.International = *rec.InternationalAwardCount
	}
	return p
}

// tierScore resolves one award against the central tier tables.
func tierScore(a RawAward) float64 {
	if s, ok := competitionScore(a.Competition); ok {
		return s
	}
	if s, ok := competitionScore(a.Name); ok {
		return s
	}
	if s, ok := scoring.AwardLevelScores[strings.ToLower(strings.TrimSpace(a.Level))]; ok {
		return s
	}
	return scoring.DefaultAwardLevelScore
}

// competitionScore matches free text against the competition-tier table by
// lowercased substring.
func competitionScore(text string) (float64, bool) {
	text = strings.ToLower(strings.TrimSpace(text))
	if text == "" {
		return 0, false
	}
	if s, ok := scoring.CompetitionTierScores[text]; ok {
		return s, true
	}
	// Substring match; keep the highest-scoring hit so the result does not
	// depend on map iteration order.
	best, found := 0.0, false
	for name, s := range scoring.CompetitionTierScores {
		if strings.Contains(text, name) && s > best {
			best, found = s, true
		}
	}
	return best, found
}
