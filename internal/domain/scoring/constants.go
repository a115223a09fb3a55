// Package scoring implements the deterministic component scorers and the
// fixed-weight composite that turns applicant metrics into a bounded
// ScoreBreakdown.
//
// Conventions:
//   - Every scorer is a pure function: no I/O, no state, no clocks.
//   - Degenerate input degrades to a documented default, never an error.
//   - Every public entry point clamps its own output to [0,100].
//
// This file is the single home of the shared scoring tables. Every scorer,
// adapter and caller must import these values from here; duplicating any of
// them elsewhere is a bug.
package scoring

// WeightTable holds the fixed composite weights. The three weights must sum
// to exactly 1.0; TestWeightsSumToOne enforces this structurally.
type WeightTable struct {
	Academic float64
	Activity float64
	Award    float64
}

// Weights is the centrally-owned composite weight table.
var Weights = WeightTable{
	Academic: 0.50,
	Activity: 0.30,
	Award:    0.20,
}

// Score bounds.
const (
	MinScore = 0.0
	MaxScore = 100.0
)

// Academic scorer constants.
const (
	// AcademicBaseline is the starting point before any term applies.
	AcademicBaseline = 50.0

	// gpaContributionScale maps a normalized 4.0-basis GPA onto a 0-40
	// contribution; gpaBaselineOffset makes a 3.0 GPA net exactly zero.
	gpaContributionScale = 10.0
	gpaBaselineOffset    = 30.0

	// testBonusMax bounds the standardized-test bonus at +-15 points.
	testBonusMax = 15.0

	// Default population averages used when no institution data exists.
	DefaultSATAverage = 1400.0
	DefaultACTAverage = 30.0

	// Linear difference-from-average divisors: a full-bonus SAT gap is 200
	// points, a full-bonus ACT gap is 6 points.
	satLinearDivisor = 200.0
	actLinearDivisor = 6.0

	// TOEFL threshold adjustment: linear around 100, +-5 points max
	// (120 -> +5, 80 -> -5).
	toeflBaseline        = 100.0
	toeflAdjustmentScale = 0.25
	toeflAdjustmentMax   = 5.0
)

// Activity scorer constants.
const (
	activityDetailedBase  = 20.0
	activityCountPoints   = 3.0
	activityCountCap      = 30.0
	leadershipPoints      = 5.0
	leadershipCap         = 15.0
	depthPoints           = 5.0
	depthCap              = 15.0
	diversityMinorBonus   = 5.0  // >= 3 distinct categories
	diversityMajorBonus   = 10.0 // >= 5 distinct categories
	diversityMinorMinimum = 3
	diversityMajorMinimum = 5

	// DeepActivityHours is the cumulative-hour threshold above which an
	// activity counts as "deep".
	DeepActivityHours = 200.0

	// Legacy count-only path, preserved for records predating per-activity
	// detail.
	activityLegacyBase   = 30.0
	activityLegacyPoints = 5.0
	activityLegacyCap    = 50.0
)

// Award scorer constants (count-only fallback path).
const (
	awardFallbackBase       = 20.0
	internationalAwardValue = 20.0
	internationalAwardCap   = 40.0
	nationalAwardValue      = 15.0
	nationalAwardCap        = 30.0
	otherAwardValue         = 5.0
	otherAwardCap           = 20.0
)

// LeadershipKeywords is the fixed keyword table matched case-insensitively
// against activity role text. It covers both English and Chinese leadership
// terms because profiles arrive in either language.
var LeadershipKeywords = []string{
	"president",
	"captain",
	"founder",
	"leader",
	"chair",
	"head",
	"director",
	"organizer",
	"主席",
	"会长",
	"社长",
	"队长",
	"部长",
	"组长",
	"创始人",
	"负责人",
}

// CompetitionTierScores maps a recognized competition (lowercased key,
// matched by substring) to its per-award tier score. Used by the record
// adapter when a specific competition is known.
var CompetitionTierScores = map[string]float64{
	"imo":          35, // International Mathematical Olympiad
	"ipho":         35, // International Physics Olympiad
	"icho":         35, // International Chemistry Olympiad
	"ibo":          35, // International Biology Olympiad
	"ioi":          35, // International Olympiad in Informatics
	"isef":         30, // Regeneron ISEF
	"regeneron":    30,
	"usamo":        28,
	"hmmt":         22,
	"usaco":        20,
	"aime":         20,
	"physics bowl": 18,
	"amc":          15,
	"euclid":       15,
}

// AwardLevelScores is the coarser per-award table used when only the award
// level is known (lowercased key, exact match).
var AwardLevelScores = map[string]float64{
	"international": 25,
	"national":      18,
	"provincial":    12,
	"state":         12,
	"regional":      8,
	"municipal":     8,
	"school":        5,
	"other":         5,
}

// DefaultAwardLevelScore applies when an award carries neither a recognized
// competition nor a recognized level.
const DefaultAwardLevelScore = 5.0
