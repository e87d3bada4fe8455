package scoring_test

import (
	"errors"
	"math"
	"testing"

	"github.com/okian/scholar/internal/domain/model"
	"github.com/okian/scholar/internal/domain/scoring"
	. "github.com/smartystreets/goconvey/convey"
)

func features(pi, ps, need, edu, att, ext, pp float64) model.Features {
	return model.Features{
		PerformanceIndex: pi,
		PreviousScores:   ps,
		IncomeNeed:       need,
		ParentEducation:  edu,
		Attendance:       att,
		Extracurricular:  ext,
		PracticePapers:   pp,
	}
}

func table(fs ...model.Features) model.Table {
	applicants := make([]model.Applicant, len(fs))
	for i, f := range fs {
		applicants[i] = model.Applicant{Features: f}
	}
	return model.NewTable(applicants, model.AllFeatures()...)
}

func mustWeights(a, f, e float64) scoring.Weights {
	w, err := scoring.NewWeights(a, f, e)
	if err != nil {
		panic(err)
	}
	return w
}

func TestNewWeights(t *testing.T) {
	Convey("Given weight configurations", t, func() {
		Convey("When the weights sum to 1.0", func() {
			w, err := scoring.NewWeights(0.5, 0.3, 0.2)

			Convey("Then they are accepted unchanged", func() {
				So(err, ShouldBeNil)
				So(w.Academic(), ShouldEqual, 0.5)
				So(w.Financial(), ShouldEqual, 0.3)
				So(w.Engagement(), ShouldEqual, 0.2)
				So(math.Abs(w.Sum()-1.0), ShouldBeLessThanOrEqualTo, 1e-6)
			})
		})

		Convey("When the sum drifts within tolerance", func() {
			_, err := scoring.NewWeights(0.4, 0.4, 0.2000004)
			So(err, ShouldBeNil)
		})

		Convey("When the weights do not sum to 1.0", func() {
			_, err := scoring.NewWeights(0.5, 0.5, 0.2)

			Convey("Then construction fails and reports the sum", func() {
				So(errors.Is(err, scoring.ErrInvalidConfiguration), ShouldBeTrue)
				So(err.Error(), ShouldContainSubstring, "1.200000")
			})
		})

		Convey("When a weight is negative", func() {
			_, err := scoring.NewWeights(-0.2, 0.7, 0.5)
			So(errors.Is(err, scoring.ErrInvalidConfiguration), ShouldBeTrue)
		})

		Convey("When a weight is NaN", func() {
			_, err := scoring.NewWeights(math.NaN(), 0.5, 0.5)
			So(errors.Is(err, scoring.ErrInvalidConfiguration), ShouldBeTrue)
		})

		Convey("When weights are given as slider percentages", func() {
			w, err := scoring.NewWeightsPercent(50, 30, 20)
			So(err, ShouldBeNil)
			So(w.Academic(), ShouldEqual, 0.5)

			_, err = scoring.NewWeightsPercent(50, 30, 30)
			So(errors.Is(err, scoring.ErrInvalidConfiguration), ShouldBeTrue)
			So(err.Error(), ShouldContainSubstring, "110")
		})

		Convey("Then the defaults are 40/40/20", func() {
			w := scoring.DefaultWeights()
			So(w.Academic(), ShouldEqual, 0.40)
			So(w.Financial(), ShouldEqual, 0.40)
			So(w.Engagement(), ShouldEqual, 0.20)
			So(w.String(), ShouldEqual, "academic=40% financial=40% engagement=20%")
		})
	})
}

func TestComponentCalculators(t *testing.T) {
	Convey("Given a fully populated feature row", t, func() {
		f := features(80, 70, 60, 2, 90, 1, 50)

		Convey("Then academic is 0.6*performance + 0.4*previous", func() {
			So(scoring.Academic(f), ShouldAlmostEqual, 76, 1e-9)
		})

		Convey("Then financial is 0.7*income_need + 0.3*education_need", func() {
			So(scoring.Financial(f), ShouldAlmostEqual, 57, 1e-9)
		})

		Convey("Then engagement is 0.5*attendance + 0.3*extracurricular*100 + 0.2*practice", func() {
			So(scoring.Engagement(f), ShouldAlmostEqual, 85, 1e-9)
		})
	})

	Convey("Given parent education ordinals", t, func() {
		So(scoring.EducationNeed(1), ShouldEqual, 100.0)
		So(scoring.EducationNeed(2), ShouldEqual, 50.0)
		So(scoring.EducationNeed(3), ShouldEqual, 0.0)
		So(scoring.EducationNeed(math.NaN()), ShouldEqual, 50.0)
	})

	Convey("Given a row with NaN family income need", t, func() {
		f := features(80, 70, math.NaN(), 3, 90, 1, 50)

		Convey("Then the income term contributes the neutral 50", func() {
			// 0.7*50 + 0.3*0
			So(scoring.Financial(f), ShouldAlmostEqual, 35, 1e-9)
			So(math.IsNaN(scoring.Financial(f)), ShouldBeFalse)
		})
	})

	Convey("Given a row with NaN education ordinal", t, func() {
		f := features(80, 70, 100, math.NaN(), 90, 1, 50)
		So(scoring.Financial(f), ShouldAlmostEqual, 85, 1e-9)
	})

	Convey("Given out-of-range inputs", t, func() {
		f := features(150, 100, 50, 2, 50, 0, 50)

		Convey("Then academic propagates them unclamped", func() {
			So(scoring.Academic(f), ShouldAlmostEqual, 130, 1e-9)
		})
	})
}

func TestScore(t *testing.T) {
	Convey("Given a preprocessed table", t, func() {
		tbl := table(
			features(80, 70, 60, 2, 90, 1, 50),
			features(20, 30, 90, 1, 70, 0, 10),
		)

		Convey("When scoring with default weights", func() {
			out, err := scoring.Score(tbl, scoring.DefaultWeights())

			Convey("Then every row gets rounded component and final scores", func() {
				So(err, ShouldBeNil)
				So(out.Records, ShouldHaveLength, 2)
				r := out.Records[0]
				So(r.Position, ShouldEqual, 0)
				So(r.Academic, ShouldEqual, 76.0)
				So(r.Financial, ShouldEqual, 57.0)
				So(r.Engagement, ShouldEqual, 85.0)
				So(r.FinalScore, ShouldEqual, 70.2)
				So(out.Records[1].Position, ShouldEqual, 1)
				So(out.Weights, ShouldResemble, scoring.DefaultWeights())
			})

			Convey("And the input table is not modified", func() {
				So(tbl.Applicants[0].Features.PerformanceIndex, ShouldEqual, 80)
			})
		})

		Convey("When scoring twice with the same weights", func() {
			first, err1 := scoring.Score(tbl, scoring.DefaultWeights())
			second, err2 := scoring.Score(tbl, scoring.DefaultWeights())

			Convey("Then the outputs are identical", func() {
				So(err1, ShouldBeNil)
				So(err2, ShouldBeNil)
				So(second, ShouldResemble, first)
			})
		})

		Convey("When weights are not constructed", func() {
			_, err := scoring.Score(tbl, scoring.Weights{})
			So(errors.Is(err, scoring.ErrInvalidConfiguration), ShouldBeTrue)
		})
	})

	Convey("Given rows with inputs in [0,100]", t, func() {
		var fs []model.Features
		for _, v := range []float64{0, 12.5, 33.3, 50, 66.7, 99.99, 100} {
			for _, edu := range []float64{1, 2, 3} {
				for _, ext := range []float64{0, 1} {
					fs = append(fs, features(v, 100-v, v, edu, 100-v, ext, v))
				}
			}
		}
		tbl := table(fs...)

		Convey("Then every score lies in [0,100]", func() {
			for _, w := range []scoring.Weights{
				scoring.DefaultWeights(),
				mustWeights(1, 0, 0),
				mustWeights(0.1, 0.1, 0.8),
			} {
				out, err := scoring.Score(tbl, w)
				So(err, ShouldBeNil)
				for _, r := range out.Records {
					for _, s := range []float64{r.Academic, r.Financial, r.Engagement, r.FinalScore} {
						So(s, ShouldBeBetweenOrEqual, 0, 100)
					}
				}
			}
		})
	})

	Convey("Given single-category weights", t, func() {
		tbl := table(
			features(81.3, 64.7, 55.5, 2, 73.2, 1, 41.9),
			features(12.1, 99.9, 3.3, 1, 60.6, 0, 88.8),
		)

		Convey("Then the final score reproduces that component exactly", func() {
			academic, err := scoring.Score(tbl, mustWeights(1, 0, 0))
			So(err, ShouldBeNil)
			financial, err := scoring.Score(tbl, mustWeights(0, 1, 0))
			So(err, ShouldBeNil)
			engagement, err := scoring.Score(tbl, mustWeights(0, 0, 1))
			So(err, ShouldBeNil)
			for i := range tbl.Applicants {
				So(academic.Records[i].FinalScore, ShouldEqual, academic.Records[i].Academic)
				So(financial.Records[i].FinalScore, ShouldEqual, financial.Records[i].Financial)
				So(engagement.Records[i].FinalScore, ShouldEqual, engagement.Records[i].Engagement)
			}
		})
	})

	Convey("Given a table without a required column", t, func() {
		tbl := model.NewTable(
			[]model.Applicant{{Features: features(80, 70, 60, 2, 90, 1, 50)}},
			model.PerformanceIndex, model.PreviousScores, model.IncomeNeed, model.ParentEducation,
			model.Attendance, model.Extracurricular,
		)

		Convey("Then scoring fails fast naming the column", func() {
			out, err := scoring.Score(tbl, scoring.DefaultWeights())
			So(errors.Is(err, scoring.ErrMissingFeature), ShouldBeTrue)
			So(err.Error(), ShouldContainSubstring, "practice_papers_normalized")
			So(out.Records, ShouldBeNil)
		})
	})

	Convey("Given a row missing an academic value", t, func() {
		tbl := table(
			features(80, 70, 60, 2, 90, 1, 50),
			features(80, math.NaN(), 60, 2, 90, 1, 50),
		)

		Convey("Then the whole pass fails and names the row", func() {
			out, err := scoring.Score(tbl, scoring.DefaultWeights())
			So(errors.Is(err, scoring.ErrMissingFeature), ShouldBeTrue)
			So(err.Error(), ShouldContainSubstring, "row 1")
			So(err.Error(), ShouldContainSubstring, "previous_scores_normalized")
			So(out.Records, ShouldBeEmpty)
		})
	})

	Convey("Given a row with NaN income need", t, func() {
		tbl := table(features(80, 70, math.NaN(), 2, 90, 1, 50))

		Convey("Then scoring uses the neutral fallback", func() {
			out, err := scoring.Score(tbl, scoring.DefaultWeights())
			So(err, ShouldBeNil)
			// 0.7*50 + 0.3*50
			So(out.Records[0].Financial, ShouldEqual, 50.0)
		})
	})

	Convey("Given an empty table", t, func() {
		out, err := scoring.Score(model.Table{}, scoring.DefaultWeights())
		So(err, ShouldBeNil)
		So(out.Records, ShouldBeEmpty)
	})
}

func TestCombine(t *testing.T) {
	Convey("Given component scores near a rounding boundary", t, func() {
		c := scoring.Components{Academic: 10.0049, Financial: 10.0149}
		w := mustWeights(0.7, 0.3, 0)

		Convey("Then combine-then-round and round-then-combine disagree", func() {
			combined := scoring.Combine(c, w)
			roundedFirst := scoring.Combine(c.Rounded(), w)
			So(combined, ShouldEqual, 10.01)
			So(roundedFirst, ShouldEqual, 10.0)
		})
	})

	Convey("Given values at the half-cent", t, func() {
		So(scoring.Round2(0.125), ShouldEqual, 0.13)
		So(scoring.Round2(79.994), ShouldEqual, 79.99)
		So(scoring.Round2(79.995), ShouldEqual, 80.0)
	})
}

func TestEngineParallelism(t *testing.T) {
	Convey("Given a large table", t, func() {
		fs := make([]model.Features, 2000)
		for i := range fs {
			v := float64(i%101) * 0.99
			fs[i] = features(v, 100-v, float64(i%17)*5.5, float64(i%3+1), 60+float64(i%40), float64(i%2), float64(i%11)*9)
		}
		tbl := table(fs...)

		Convey("When scoring in parallel", func() {
			sequential, err := scoring.NewEngine().Score(tbl, scoring.DefaultWeights())
			So(err, ShouldBeNil)
			parallel, err := scoring.NewEngine(scoring.WithParallelism(8)).Score(tbl, scoring.DefaultWeights())
			So(err, ShouldBeNil)

			Convey("Then the output matches the sequential pass", func() {
				So(parallel, ShouldResemble, sequential)
			})
		})

		Convey("When several rows are missing values", func() {
			fs[1500].Attendance = math.NaN()
			fs[700].PerformanceIndex = math.NaN()
			_, err := scoring.NewEngine(scoring.WithParallelism(8)).Score(table(fs...), scoring.DefaultWeights())

			Convey("Then the lowest position is reported", func() {
				So(errors.Is(err, scoring.ErrMissingFeature), ShouldBeTrue)
				So(err.Error(), ShouldContainSubstring, "row 700")
			})
		})
	})
}
