package scoring_test

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	model "github.com/ywutian/admitscore/internal/domain/model"
	scoring "github.com/ywutian/admitscore/internal/domain/scoring"
)

func f(v float64) *float64 { return &v }

func TestWeightsSumToOne(t *testing.T) {
	Convey("Given the central weight table", t, func() {
		Convey("Then the three weights should sum to exactly 1.0", func() {
			So(scoring.Weights.Academic+scoring.Weights.Activity+scoring.Weights.Award, ShouldEqual, 1.0)
		})
	})
}

func TestAcademicScore(t *testing.T) {
	Convey("Given the academic scorer", t, func() {
		noInst := model.InstitutionMetrics{}
		noHist := model.HistoricalDistribution{}

		Convey("When only a 3.5/4.0 GPA is present", func() {
			app := model.ApplicantMetrics{GPA: f(3.5), GPAScale: f(4.0)}

			Convey("Then the score should be the baseline plus the GPA shift", func() {
				// 50 + (3.5*10 - 30) = 55, no test bonus, no TOEFL term.
				So(scoring.AcademicScore(app, noInst, noHist), ShouldAlmostEqual, 55.0, 1e-9)
			})
		})

		Convey("When the GPA is exactly 3.0", func() {
			app := model.ApplicantMetrics{GPA: f(3.0), GPAScale: f(4.0)}

			Convey("Then the GPA term should net zero", func() {
				So(scoring.AcademicScore(app, noInst, noHist), ShouldAlmostEqual, 50.0, 1e-9)
			})
		})

		Convey("When the GPA is reported on the 100-point scale", func() {
			app := model.ApplicantMetrics{GPA: f(90), GPAScale: f(100)}

			Convey("Then it should be normalized before the term applies", func() {
				// 90/100 -> 3.6 -> 50 + 6 = 56.
				So(scoring.AcademicScore(app, noInst, noHist), ShouldAlmostEqual, 56.0, 1e-9)
			})
		})

		Convey("When no field at all is present", func() {
			Convey("Then the score should be exactly the baseline", func() {
				So(scoring.AcademicScore(model.ApplicantMetrics{}, noInst, noHist), ShouldEqual, 50.0)
			})
		})

		Convey("When a TOEFL score is present", func() {
			base := model.ApplicantMetrics{GPA: f(3.0), GPAScale: f(4.0)}
			with120 := base
			with120.TOEFL = f(120)
			with80 := base
			with80.TOEFL = f(80)

			Convey("Then TOEFL 120 should add exactly +5", func() {
				So(scoring.AcademicScore(with120, noInst, noHist)-scoring.AcademicScore(base, noInst, noHist),
					ShouldAlmostEqual, 5.0, 1e-9)
			})
			Convey("And TOEFL 80 should subtract exactly 5", func() {
				So(scoring.AcademicScore(with80, noInst, noHist)-scoring.AcademicScore(base, noInst, noHist),
					ShouldAlmostEqual, -5.0, 1e-9)
			})
		})

		Convey("When resolving the SAT bonus fallback chain", func() {
			app := model.ApplicantMetrics{GPA: f(3.0), GPAScale: f(4.0), SAT: f(1500)}

			Convey("And a large platform history exists", func() {
				hist := model.HistoricalDistribution{SampleCount: 40}
				for v := 1210.0; v < 1610; v += 10 { // 40 samples, 1500 at rank 29
					hist.SATValues = append(hist.SATValues, v)
				}

				Convey("Then the empirical percentile should drive the bonus", func() {
					// insertion index 29 of 40 -> p = 0.725 -> bonus (0.725-0.5)*30 = 6.75
					So(scoring.AcademicScore(app, model.InstitutionMetrics{}, hist),
						ShouldAlmostEqual, 56.75, 1e-9)
				})
			})

			Convey("And only an institution 25/75 band exists", func() {
				inst := model.InstitutionMetrics{SAT25: f(1440), SAT75: f(1560)}

				Convey("Then the parametric percentile should drive the bonus", func() {
					// 1500 is the band midpoint -> p = 0.5 -> bonus 0.
					So(scoring.AcademicScore(app, inst, model.HistoricalDistribution{}),
						ShouldAlmostEqual, 50.0, 1e-6)
				})
			})

			Convey("And only an institution average exists", func() {
				inst := model.InstitutionMetrics{SATAvg: f(1400)}

				Convey("Then the linear model should drive the bonus", func() {
					// (1500-1400)*15/200 = 7.5
					So(scoring.AcademicScore(app, inst, model.HistoricalDistribution{}),
						ShouldAlmostEqual, 57.5, 1e-9)
				})
			})

			Convey("And no institution data exists at all", func() {
				Convey("Then the default 1400 average should drive the bonus", func() {
					So(scoring.AcademicScore(app, model.InstitutionMetrics{}, model.HistoricalDistribution{}),
						ShouldAlmostEqual, 57.5, 1e-9)
				})
			})

			Convey("And the gap from the average is extreme", func() {
				inst := model.InstitutionMetrics{SATAvg: f(1000)}

				Convey("Then the bonus should cap at +15", func() {
					So(scoring.AcademicScore(app, inst, model.HistoricalDistribution{}),
						ShouldAlmostEqual, 65.0, 1e-9)
				})
			})
		})

		Convey("When only an ACT score is present", func() {
			app := model.ApplicantMetrics{GPA: f(3.0), GPAScale: f(4.0), ACT: f(33)}

			Convey("And the institution has an ACT band", func() {
				inst := model.InstitutionMetrics{ACT25: f(30), ACT75: f(34)}

				Convey("Then the parametric percentile should apply on the ACT scale", func() {
					score := scoring.AcademicScore(app, inst, model.HistoricalDistribution{})
					So(score, ShouldBeGreaterThan, 50.0)
					So(score, ShouldBeLessThanOrEqualTo, 65.0)
				})
			})

			Convey("And no institution data exists", func() {
				Convey("Then the default 30 average should drive the linear bonus", func() {
					// (33-30)*15/6 = 7.5
					So(scoring.AcademicScore(app, model.InstitutionMetrics{}, model.HistoricalDistribution{}),
						ShouldAlmostEqual, 57.5, 1e-9)
				})
			})
		})

		Convey("When both SAT and ACT are present", func() {
			app := model.ApplicantMetrics{GPA: f(3.0), GPAScale: f(4.0), SAT: f(1400), ACT: f(36)}

			Convey("Then only the SAT should be considered", func() {
				// SAT at the default average -> bonus 0 regardless of the perfect ACT.
				So(scoring.AcademicScore(app, model.InstitutionMetrics{}, model.HistoricalDistribution{}),
					ShouldAlmostEqual, 50.0, 1e-9)
			})
		})

		Convey("When the inputs are extreme", func() {
			Convey("Then the result should stay inside [0,100]", func() {
				low := model.ApplicantMetrics{GPA: f(0.0), GPAScale: f(4.0), SAT: f(400), TOEFL: f(0)}
				high := model.ApplicantMetrics{GPA: f(4.0), GPAScale: f(4.0), SAT: f(1600), TOEFL: f(120)}
				So(scoring.AcademicScore(low, noInst, noHist), ShouldBeGreaterThanOrEqualTo, 0.0)
				So(scoring.AcademicScore(high, noInst, noHist), ShouldBeLessThanOrEqualTo, 100.0)
			})
		})
	})
}

func TestActivityScore(t *testing.T) {
	Convey("Given the activity scorer", t, func() {
		Convey("When no detail is present", func() {
			Convey("Then zero activities should score exactly the fallback base", func() {
				So(scoring.ActivityScore(model.ActivityProfile{Kind: model.ActivityCountOnly}), ShouldEqual, 30.0)
			})

			Convey("And each activity should add five points", func() {
				p := model.ActivityProfile{Kind: model.ActivityCountOnly, Count: 4}
				So(scoring.ActivityScore(p), ShouldEqual, 50.0)
			})

			Convey("And the count contribution should cap at fifty", func() {
				p := model.ActivityProfile{Kind: model.ActivityCountOnly, Count: 25}
				So(scoring.ActivityScore(p), ShouldEqual, 80.0)
			})
		})

		Convey("When per-activity detail is present", func() {
			Convey("And the profile is a single modest activity", func() {
				p := model.ActivityProfile{
					Kind:    model.ActivityDetailed,
					Count:   1,
					Details: []model.ActivityDetail{{Category: "sports", Role: "member", TotalHours: 50}},
				}

				Convey("Then only base and count points should apply", func() {
					So(scoring.ActivityScore(p), ShouldEqual, 23.0)
				})
			})

			Convey("And roles match the leadership keyword table", func() {
				p := model.ActivityProfile{
					Kind:  model.ActivityDetailed,
					Count: 2,
					Details: []model.ActivityDetail{
						{Category: "stem", Role: "Club President", TotalHours: 100},
						{Category: "community", Role: "队长", TotalHours: 120},
					},
				}

				Convey("Then each leadership role should add five points", func() {
					// 20 + 2*3 + 2*5 = 36
					So(scoring.ActivityScore(p), ShouldEqual, 36.0)
				})
			})

			Convey("And activities exceed the 200-hour depth threshold", func() {
				p := model.ActivityProfile{
					Kind:  model.ActivityDetailed,
					Count: 2,
					Details: []model.ActivityDetail{
						{Category: "music", Role: "member", TotalHours: 250},
						{Category: "music", Role: "member", TotalHours: 200}, // exactly 200 is not deep
					},
				}

				Convey("Then only strictly deeper activities should earn depth points", func() {
					// 20 + 2*3 + 1*5 = 31
					So(scoring.ActivityScore(p), ShouldEqual, 31.0)
				})
			})

			Convey("And categories are diverse", func() {
				mk := func(categories ...string) model.ActivityProfile {
					p := model.ActivityProfile{Kind: model.ActivityDetailed}
					for _, c := range categories {
						p.Details = append(p.Details, model.ActivityDetail{Category: c, Role: "member"})
					}
					p.Count = len(p.Details)
					return p
				}

				Convey("Then three distinct categories should add five points", func() {
					// 20 + 3*3 + 5 = 34
					So(scoring.ActivityScore(mk("a", "b", "c")), ShouldEqual, 34.0)
				})
				Convey("And five distinct categories should add ten points", func() {
					// 20 + 5*3 + 10 = 45
					So(scoring.ActivityScore(mk("a", "b", "c", "d", "e")), ShouldEqual, 45.0)
				})
				Convey("And repeated categories should not count twice", func() {
					// 20 + 3*3 = 29, only two distinct categories
					So(scoring.ActivityScore(mk("a", "a", "b")), ShouldEqual, 29.0)
				})
			})

			Convey("And the profile is maximal", func() {
				p := model.ActivityProfile{Kind: model.ActivityDetailed}
				for i := 0; i < 15; i++ {
					p.Details = append(p.Details, model.ActivityDetail{
						Category:   string(rune('a' + i)),
						Role:       "founder",
						TotalHours: 500,
					})
				}
				p.Count = len(p.Details)

				Convey("Then every contribution should respect its cap", func() {
					// 20 + 30 + 15 + 15 + 10 = 90
					So(scoring.ActivityScore(p), ShouldEqual, 90.0)
				})
			})
		})
	})
}

func TestAwardScore(t *testing.T) {
	Convey("Given the award scorer", t, func() {
		Convey("When per-award tier scores are supplied", func() {
			p := model.AwardProfile{Kind: model.AwardTiered, Total: 3, TierScores: []float64{35, 18, 5}}

			Convey("Then they should be summed directly", func() {
				So(scoring.AwardScore(p), ShouldEqual, 58.0)
			})

			Convey("And the sum should clamp at one hundred", func() {
				big := model.AwardProfile{Kind: model.AwardTiered, TierScores: []float64{35, 35, 35, 30}}
				So(scoring.AwardScore(big), ShouldEqual, 100.0)
			})
		})

		Convey("When only counts are known", func() {
			Convey("Then zero awards should score exactly the fallback base", func() {
				So(scoring.AwardScore(model.AwardProfile{Kind: model.AwardCountOnly}), ShouldEqual, 20.0)
			})

			Convey("And mixed levels should weigh per level", func() {
				p := model.AwardProfile{Kind: model.AwardCountOnly, Total: 4, International: 1, National: 2}
				// 20 + 20 + 30 + 5 = 75
				So(scoring.AwardScore(p), ShouldEqual, 75.0)
			})

			Convey("And every level contribution should respect its cap", func() {
				p := model.AwardProfile{Kind: model.AwardCountOnly, Total: 20, International: 5, National: 5}
				// 20 + 40 + 30 + 20 = 110 -> clamp 100
				So(scoring.AwardScore(p), ShouldEqual, 100.0)
			})

			Convey("And inconsistent counts should not go negative", func() {
				p := model.AwardProfile{Kind: model.AwardCountOnly, Total: 1, International: 2, National: 3}
				// other floors at zero: 20 + 40 + 30
				So(scoring.AwardScore(p), ShouldEqual, 90.0)
			})
		})
	})
}

func TestEvaluate(t *testing.T) {
	Convey("Given the composite aggregator", t, func() {
		noInst := model.InstitutionMetrics{}
		noHist := model.HistoricalDistribution{}

		Convey("When evaluating a sparse legacy profile", func() {
			app := model.ApplicantMetrics{GPA: f(3.5), GPAScale: f(4.0)}
			b := scoring.Evaluate(app, noInst, noHist)

			Convey("Then the components should match the documented fallbacks", func() {
				So(b.Academic, ShouldAlmostEqual, 55.0, 1e-9)
				So(b.Activity, ShouldEqual, 30.0)
				So(b.Award, ShouldEqual, 20.0)
			})

			Convey("And the overall should be the exact weighted sum", func() {
				So(b.Overall, ShouldEqual, b.Academic*0.5+b.Activity*0.3+b.Award*0.2)
			})
		})

		Convey("When evaluating a fully empty profile", func() {
			b := scoring.Evaluate(model.ApplicantMetrics{}, noInst, noHist)

			Convey("Then every value should be bounded and well-defined", func() {
				So(b.Academic, ShouldEqual, 50.0)
				So(b.Activity, ShouldEqual, 30.0)
				So(b.Award, ShouldEqual, 20.0)
				So(b.Overall, ShouldEqual, 50.0*0.5+30.0*0.3+20.0*0.2)
			})
		})

		Convey("When evaluating the same input twice", func() {
			app := model.ApplicantMetrics{
				GPA: f(3.8), GPAScale: f(4.0), SAT: f(1520), TOEFL: f(110),
				Activities: model.ActivityProfile{
					Kind:  model.ActivityDetailed,
					Count: 2,
					Details: []model.ActivityDetail{
						{Category: "stem", Role: "president", TotalHours: 300},
						{Category: "arts", Role: "member", TotalHours: 80},
					},
				},
				Awards: model.AwardProfile{Kind: model.AwardTiered, Total: 1, TierScores: []float64{18}},
			}
			inst := model.InstitutionMetrics{SAT25: f(1440), SAT75: f(1560), AcceptanceRate: f(12)}

			Convey("Then the outputs should be bit-identical", func() {
				So(scoring.Evaluate(app, inst, noHist), ShouldResemble, scoring.Evaluate(app, inst, noHist))
			})
		})

		Convey("When evaluating across a spread of profiles", func() {
			profiles := []model.ApplicantMetrics{
				{},
				{GPA: f(2.0), GPAScale: f(4.0)},
				{GPA: f(4.0), GPAScale: f(4.0), SAT: f(1600), TOEFL: f(120),
					Activities: model.ActivityProfile{Kind: model.ActivityCountOnly, Count: 12},
					Awards:     model.AwardProfile{Kind: model.AwardCountOnly, Total: 8, International: 3, National: 3}},
			}

			Convey("Then every breakdown should satisfy the bounds and the weight invariant", func() {
				for _, app := range profiles {
					b := scoring.Evaluate(app, noInst, noHist)
					So(b.Academic, ShouldBeBetweenOrEqual, 0.0, 100.0)
					So(b.Activity, ShouldBeBetweenOrEqual, 0.0, 100.0)
					So(b.Award, ShouldBeBetweenOrEqual, 0.0, 100.0)
					So(b.Overall, ShouldBeBetweenOrEqual, 0.0, 100.0)
					So(b.Overall, ShouldEqual,
						b.Academic*scoring.Weights.Academic+b.Activity*scoring.Weights.Activity+b.Award*scoring.Weights.Award)
				}
			})
		})
	})
}
