package types_test

import (
	"encoding/json"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	types "github.com/ywutian/admitscore/internal/domain/types"
)

func TestEntry(t *testing.T) {
	Convey("Given an Entry struct", t, func() {
		Convey("When creating a new entry", func() {
			entry := types.Entry{
				Rank:        1,
				ApplicantID: "applicant-123",
				Overall:     78.5,
				Academic:    82.0,
				Activity:    70.0,
				Award:       85.0,
			}

			Convey("Then it should have the correct values", func() {
				So(entry.Rank, ShouldEqual, 1)
				So(entry.ApplicantID, ShouldEqual, "applicant-123")
				So(entry.Overall, ShouldEqual, 78.5)
				So(entry.Academic, ShouldEqual, 82.0)
			})
		})

		Convey("When creating an entry with zero values", func() {
			entry := types.Entry{}

			Convey("Then it should have default values", func() {
				So(entry.Rank, ShouldEqual, 0)
				So(entry.ApplicantID, ShouldEqual, "")
				So(entry.Overall, ShouldEqual, 0.0)
			})
		})

		Convey("When marshaling an entry to JSON", func() {
			entry := types.Entry{Rank: 2, ApplicantID: "a-2", Overall: 61.25}
			data, err := json.Marshal(entry)

			Convey("Then the wire tags should be snake_case", func() {
				So(err, ShouldBeNil)
				So(string(data), ShouldContainSubstring, `"applicant_id":"a-2"`)
				So(string(data), ShouldContainSubstring, `"overall":61.25`)
			})
		})

		Convey("When creating multiple entries", func() {
			entries := []types.Entry{
				{Rank: 1, ApplicantID: "a-1", Overall: 95.0},
				{Rank: 2, ApplicantID: "a-2", Overall: 90.5},
				{Rank: 3, ApplicantID: "a-3", Overall: 88.0},
			}

			Convey("Then ranks should be sequential", func() {
				for i, entry := range entries {
					So(entry.Rank, ShouldEqual, i+1)
				}
			})

			Convey("And overall scores should be in descending order", func() {
				for i := 0; i < len(entries)-1; i++ {
					So(entries[i].Overall, ShouldBeGreaterThanOrEqualTo, entries[i+1].Overall)
				}
			})
		})
	})
}

func TestBands(t *testing.T) {
	Convey("Given the cohort bands shape", t, func() {
		Convey("When populating quartile bands", func() {
			bands := types.Bands{
				CohortSize: 120,
				Overall:    types.Band{P25: 48.0, P50: 57.5, P75: 66.0},
				Academic:   types.Band{P25: 45.0, P50: 55.0, P75: 68.0},
			}

			Convey("Then each band should stay ordered", func() {
				So(bands.Overall.P25, ShouldBeLessThanOrEqualTo, bands.Overall.P50)
				So(bands.Overall.P50, ShouldBeLessThanOrEqualTo, bands.Overall.P75)
			})

			Convey("And the cohort size should carry through JSON", func() {
				data, err := json.Marshal(bands)
				So(err, ShouldBeNil)
				So(string(data), ShouldContainSubstring, `"cohort_size":120`)
			})
		})

		Convey("When the cohort is empty", func() {
			bands := types.Bands{}

			Convey("Then all bands should be zero", func() {
				So(bands.CohortSize, ShouldEqual, 0)
				So(bands.Overall.P50, ShouldEqual, 0.0)
			})
		})
	})
}

func TestPrediction(t *testing.T) {
	Convey("Given the prediction shapes", t, func() {
		Convey("When building a prediction", func() {
			p := types.Prediction{
				Breakdown:   types.ScoreBreakdown{Academic: 60, Activity: 50, Award: 40, Overall: 55},
				Probability: 0.42,
				Tier:        "match",
				Confidence:  "high",
			}

			Convey("Then the probability should sit inside the engine bounds", func() {
				So(p.Probability, ShouldBeBetweenOrEqual, 0.05, 0.95)
			})

			Convey("And JSON should expose the breakdown inline", func() {
				data, err := json.Marshal(p)
				So(err, ShouldBeNil)
				So(string(data), ShouldContainSubstring, `"tier":"match"`)
				So(string(data), ShouldContainSubstring, `"breakdown"`)
			})
		})

		Convey("When embedding a prediction in a school prediction", func() {
			sp := types.SchoolPrediction{
				SchoolID: "mit",
				Prediction: types.Prediction{
					Probability: 0.12,
					Tier:        "reach",
					Confidence:  "medium",
				},
			}

			Convey("Then the embedded fields should promote", func() {
				So(sp.Tier, ShouldEqual, "reach")
				So(sp.SchoolID, ShouldEqual, "mit")
			})

			Convey("And JSON should flatten the embedded prediction", func() {
				data, err := json.Marshal(sp)
				So(err, ShouldBeNil)
				So(string(data), ShouldContainSubstring, `"school_id":"mit"`)
				So(string(data), ShouldContainSubstring, `"tier":"reach"`)
				So(string(data), ShouldNotContainSubstring, `"Prediction"`)
			})
		})

		Convey("When grouping a school list", func() {
			list := types.SchoolList{
				Results: []types.SchoolPrediction{
					{SchoolID: "a", Prediction: types.Prediction{Tier: "reach"}},
					{SchoolID: "b", Prediction: types.Prediction{Tier: "safety"}},
				},
				Reach:  []string{"a"},
				Safety: []string{"b"},
			}

			Convey("Then every result should appear in exactly one group", func() {
				So(len(list.Reach)+len(list.Match)+len(list.Safety), ShouldEqual, len(list.Results))
			})
		})
	})
}
