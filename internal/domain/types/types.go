// Package types contains the read shapes shared between the service layer
// and the HTTP API.
package types

// ScoreBreakdown mirrors the engine breakdown with wire tags.
type ScoreBreakdown struct {
	Academic float64 `json:"academic"`
	Activity float64 `json:"activity"`
	Award    float64 `json:"award"`
	Overall  float64 `json:"overall"`
}

// Entry represents one cohort leaderboard row.
type Entry struct {
	Rank        int     `json:"rank"`
	ApplicantID string  `json:"applicant_id"`
	Overall     float64 `json:"overall"`
	Academic    float64 `json:"academic"`
	Activity    float64 `json:"activity"`
	Award       float64 `json:"award"`
}

// Band is a (p25, p50, p75) triple over one score dimension.
type Band struct {
	P25 float64 `json:"p25"`
	P50 float64 `json:"p50"`
	P75 float64 `json:"p75"`
}

// Bands contextualizes the cohort: quartile bands for each dimension.
type Bands struct {
	CohortSize int  `json:"cohort_size"`
	Overall    Band `json:"overall"`
	Academic   Band `json:"academic"`
	Activity   Band `json:"activity"`
	Award      Band `json:"award"`
}

// Prediction is the synchronous prediction result for one applicant at one
// institution.
type Prediction struct {
	Breakdown   ScoreBreakdown `json:"breakdown"`
	Probability float64        `json:"probability"`
	Tier        string         `json:"tier"`
	Confidence  string         `json:"confidence"`
}

// SchoolPrediction pairs a prediction with the school it was computed for.
type SchoolPrediction struct {
	SchoolID string `json:"school_id"`
	Prediction
}

// SchoolList is the tiered evaluation of one applicant against a list of
// schools, grouped reach/match/safety.
type SchoolList struct {
	Results []SchoolPrediction `json:"results"`
	Reach   []string           `json:"reach"`
	Match   []string           `json:"match"`
	Safety  []string           `json:"safety"`
}
