// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/ywutian/admitscore/internal/adapters/record"
	"github.com/ywutian/admitscore/internal/domain/dedupe"
	"github.com/ywutian/admitscore/internal/domain/types"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	dedupe.Deduper

	// Enqueue pushes a submission for async cohort processing. Returns false
	// on backpressure.
	Enqueue(ctx context.Context, s record.Submission) bool

	// Read operations expose cohort data.
	TopN(ctx context.Context, n int) ([]Entry, error)
	Rank(ctx context.Context, applicantID string) (Entry, error)
	Bands(ctx context.Context) types.Bands

	// Synchronous scoring operations.
	Predict(ctx context.Context, student record.StudentRecord, school record.SchoolRecord) (types.Prediction, error)
	SchoolList(ctx context.Context, student record.StudentRecord, schools []record.SchoolEntry) (types.SchoolList, error)
}

// Entry mirrors the read shape returned by cohort leaderboard queries.
type Entry = types.Entry

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler      *HealthHandler
	statsHandler       *StatsHandler
	profilesHandler    *ProfilesHandler
	leaderboardHandler *LeaderboardHandler
	rankHandler        *RankHandler
	bandsHandler       *BandsHandler
	predictionsHandler *PredictionsHandler
	schoolListHandler  *SchoolListHandler
	dashboardHandler   *dashboardHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, maxLeaderboardLimit, maxSchoolListSize int) *Server {
	return &Server{
		healthHandler:      NewHealthHandler(),
		statsHandler:       NewStatsHandler(statsProvider),
		profilesHandler:    NewProfilesHandler(deps),
		leaderboardHandler: NewLeaderboardHandler(deps, maxLeaderboardLimit),
		rankHandler:        NewRankHandler(deps),
		bandsHandler:       NewBandsHandler(deps),
		predictionsHandler: NewPredictionsHandler(deps),
		schoolListHandler:  NewSchoolListHandler(deps, maxSchoolListSize),
		dashboardHandler:   newdashboardHandler(),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(ctx context.Context, mux *http.ServeMux, deps Dependencies) {
	// Specific paths first (most specific to least specific)
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/dashboard", s.dashboardHandler.HandleDashboard)
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/profiles", MetricsMiddleware(s.profilesHandler.HandlePostProfile, "profiles"))
	mux.HandleFunc("/leaderboard", MetricsMiddleware(s.leaderboardHandler.HandleGetLeaderboard, "leaderboard"))
	mux.HandleFunc("/rank/", MetricsMiddleware(s.rankHandler.HandleGetRank, "rank"))
	mux.HandleFunc("/bands", MetricsMiddleware(s.bandsHandler.HandleGetBands, "bands"))
	mux.HandleFunc("/predictions", MetricsMiddleware(s.predictionsHandler.HandlePostPrediction, "predictions"))
	mux.HandleFunc("/schoollist", MetricsMiddleware(s.schoolListHandler.HandlePostSchoolList, "schoollist"))
}

// profileRequest mirrors the OpenAPI schema for POST /profiles.
type profileRequest struct {
	SubmissionID string               `json:"submission_id"`
	ApplicantID  string               `json:"applicant_id"`
	Student      record.StudentRecord `json:"student"`
	TS           string               `json:"ts"`
}

func (p profileRequest) validate() error {
	switch {
	case strings.TrimSpace(p.SubmissionID) == "":
		return errors.New("missing submission_id")
	case strings.TrimSpace(p.ApplicantID) == "":
		return errors.New("missing applicant_id")
	case strings.TrimSpace(p.TS) == "":
		return errors.New("missing ts")
	}
	if _, err := time.Parse(time.RFC3339, p.TS); err != nil {
		return errors.New("invalid ts; must be RFC3339")
	}
	return nil
}

// submission converts a validated request into the queue envelope.
func (p profileRequest) submission() record.Submission {
	ts, _ := time.Parse(time.RFC3339, p.TS)
	return record.Submission{
		SubmissionID: p.SubmissionID,
		ApplicantID:  p.ApplicantID,
		Student:      p.Student,
		TS:           ts,
	}
}

// predictionRequest mirrors the OpenAPI schema for POST /predictions.
type predictionRequest struct {
	Student record.StudentRecord `json:"student"`
	School  record.SchoolRecord  `json:"school"`
}

// schoolListRequest mirrors the OpenAPI schema for POST /schoollist.
type schoolListRequest struct {
	Student record.StudentRecord `json:"student"`
	Schools []record.SchoolEntry `json:"schools"`
}

type ackResponse struct {
	Status    string `json:"status"`
	Duplicate bool   `json:"duplicate"`
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}
