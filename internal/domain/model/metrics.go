// Package model contains the engine's value objects passed between layers.
//
// Everything here is a transient, request-scoped value: nothing is persisted
// and nothing carries identity or reference semantics. Optional fields are
// pointer-typed so "absent" (nil, triggers a documented default) is visibly
// distinct from "present with value zero" (used literally).
package model

// ActivityDetail describes one extracurricular activity on a profile.
type ActivityDetail struct {
	Category   string  // e.g. "stem", "sports", "community"
	Role       string  // free-text role, matched against the leadership keyword table
	TotalHours float64 // cumulative hours invested
}

// ActivityProfileKind selects which activity scoring path applies.
type ActivityProfileKind int

// Activity profile variants. The variant is resolved exactly once at the
// record-adapter boundary so the scorer never branches on field presence.
const (
	// ActivityCountOnly is the legacy shape: only a count survives.
	ActivityCountOnly ActivityProfileKind = iota
	// ActivityDetailed carries per-activity category, role and hours.
	ActivityDetailed
)

// ActivityProfile is the tagged activity variant consumed by the activity
// scorer. For ActivityCountOnly, Details is empty and Count is authoritative.
// For ActivityDetailed, Count mirrors len(Details).
type ActivityProfile struct {
	Kind    ActivityProfileKind
	Count   int
	Details []ActivityDetail
}

// AwardProfileKind selects which award scoring path applies.
type AwardProfileKind int

// Award profile variants.
const (
	// AwardCountOnly is the legacy shape: counts split by level.
	AwardCountOnly AwardProfileKind = iota
	// AwardTiered carries per-award tier scores derived from the
	// competition-tier or award-level tables.
	AwardTiered
)

// AwardProfile is the tagged award variant consumed by the award scorer.
type AwardProfile struct {
	Kind          AwardProfileKind
	Total         int
	National      int
	International int
	TierScores    []float64 // only meaningful for AwardTiered
}

// ApplicantMetrics is the strict applicant-side input of the engine. All raw
// record shapes are converted into this structure by the record adapters
// before any scorer runs.
type ApplicantMetrics struct {
	GPA      *float64 // nil: no GPA reported, term contributes zero
	GPAScale *float64 // nil: native 4.0 scale assumed

	SAT   *float64 // nil: fall through to ACT, then no bonus
	ACT   *float64 // considered only when SAT is absent
	TOEFL *float64 // nil: no threshold adjustment

	Activities ActivityProfile
	Awards     AwardProfile
}

// InstitutionMetrics is the strict institution-side input of the engine.
// Every field is optional; the engine produces a bounded result even when
// all of them are nil.
type InstitutionMetrics struct {
	AcceptanceRate *float64 // percent, 0-100
	SATAvg         *float64
	SAT25          *float64
	SAT75          *float64
	ACTAvg         *float64
	ACT25          *float64
	ACT75          *float64
	Rank           *int
}

// HistoricalDistribution holds sorted observations from the platform's own
// applicant population. Samples below stats.MinSampleSize are ignored in
// favor of institution-level or default baselines.
type HistoricalDistribution struct {
	SampleCount int
	SATValues   []float64 // sorted ascending
	GPAValues   []float64 // sorted ascending, normalized to the 4.0 basis
	TOEFLValues []float64 // sorted ascending
}

// ScoreBreakdown is the engine's composite output. All four values are in
// [0,100] and Overall is always exactly the fixed-weight sum of the other
// three.
type ScoreBreakdown struct {
	Academic float64
	Activity float64
	Award    float64
	Overall  float64
}

// Band is a (p25, p50, p75) triple over one score dimension of a cohort.
type Band struct {
	P25 float64
	P50 float64
	P75 float64
}

// CohortBands contextualizes one applicant against the cohort: quartile
// bands for each of the four score dimensions.
type CohortBands struct {
	Size     int
	Overall  Band
	Academic Band
	Activity Band
	Award    Band
}
