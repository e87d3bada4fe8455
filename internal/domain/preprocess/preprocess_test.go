package preprocess_test

import (
	"math"
	"testing"

	"github.com/okian/scholar/internal/domain/model"
	"github.com/okian/scholar/internal/domain/preprocess"
	"github.com/okian/scholar/internal/domain/scoring"
	. "github.com/smartystreets/goconvey/convey"
)

func rawApplicant(id string, income float64, edu, extra string) model.Applicant {
	raw := model.Raw{
		HoursStudied:         7,
		PreviousScores:       99,
		PerformanceIndex:     91,
		SleepHours:           9,
		PracticePapers:       1,
		FamilyIncome:         income,
		AttendancePercentage: 85,
		Extracurricular:      extra,
		ParentEducation:      edu,
		PreviousScholarship:  "No",
	}
	return model.Applicant{ID: id, Raw: raw}
}

func TestEncoding(t *testing.T) {
	Convey("Given categorical labels", t, func() {
		So(preprocess.EncodeYesNo("Yes"), ShouldEqual, 1.0)
		So(preprocess.EncodeYesNo(" no "), ShouldEqual, 0.0)
		So(math.IsNaN(preprocess.EncodeYesNo("maybe")), ShouldBeTrue)

		So(preprocess.EncodeEducation("High School"), ShouldEqual, 1.0)
		So(preprocess.EncodeEducation("Undergraduate"), ShouldEqual, 2.0)
		So(preprocess.EncodeEducation("postgraduate"), ShouldEqual, 3.0)
		So(math.IsNaN(preprocess.EncodeEducation("PhD")), ShouldBeTrue)
	})
}

func TestBounds(t *testing.T) {
	Convey("Given a min-max range", t, func() {
		b := preprocess.Bounds{Min: 60, Max: 100}
		So(b.Normalize(80), ShouldEqual, 50.0)
		So(b.Normalize(100), ShouldEqual, 100.0)

		Convey("Then values outside the range are clipped", func() {
			So(b.Normalize(40), ShouldEqual, 0.0)
			So(b.Normalize(120), ShouldEqual, 100.0)
		})

		Convey("Then missing values stay missing", func() {
			So(math.IsNaN(b.Normalize(math.NaN())), ShouldBeTrue)
		})
	})

	Convey("Given a degenerate range", t, func() {
		So(preprocess.Bounds{Min: 5, Max: 5}.Normalize(5), ShouldEqual, 50.0)
	})
}

func TestNormalize(t *testing.T) {
	Convey("Given raw applicants", t, func() {
		in := []model.Applicant{
			rawApplicant("a", 20000, "High School", "Yes"),
			rawApplicant("b", 60000, "Postgraduate", "No"),
			rawApplicant("c", 120000, "Undergraduate", "Yes"),
		}
		tbl := preprocess.Normalize(in)

		Convey("Then every feature column is produced", func() {
			So(tbl.Columns.Missing(model.AllFeatures()...), ShouldBeEmpty)
			So(tbl.Applicants, ShouldHaveLength, 3)
		})

		Convey("Then numeric attributes are scaled to 0-100", func() {
			f := tbl.Applicants[0].Features
			So(f.PerformanceIndex, ShouldAlmostEqual, 91, 1e-9)
			So(f.PreviousScores, ShouldAlmostEqual, 99, 1e-9)
			So(f.Attendance, ShouldAlmostEqual, 62.5, 1e-9)
			So(f.PracticePapers, ShouldAlmostEqual, 10, 1e-9)
		})

		Convey("Then income need is inverted over the table range", func() {
			So(tbl.Applicants[0].Features.IncomeNeed, ShouldAlmostEqual, 100, 1e-9)
			So(tbl.Applicants[1].Features.IncomeNeed, ShouldAlmostEqual, 60, 1e-9)
			So(tbl.Applicants[2].Features.IncomeNeed, ShouldAlmostEqual, 0, 1e-9)
		})

		Convey("Then labels are encoded", func() {
			So(tbl.Applicants[0].Features.ParentEducation, ShouldEqual, 1.0)
			So(tbl.Applicants[1].Features.ParentEducation, ShouldEqual, 3.0)
			So(tbl.Applicants[1].Features.Extracurricular, ShouldEqual, 0.0)
		})

		Convey("Then auxiliary attributes are normalized", func() {
			aux := tbl.Applicants[0].Auxiliary
			So(aux.HoursStudied, ShouldAlmostEqual, 70, 1e-9)
			So(aux.SleepHours, ShouldAlmostEqual, 90, 1e-9)
			So(aux.PreviousScholarship, ShouldEqual, 0.0)
		})

		Convey("Then ids and raw attributes are carried and the input is untouched", func() {
			So(tbl.Applicants[2].ID, ShouldEqual, "c")
			So(tbl.Applicants[2].Raw.FamilyIncome, ShouldEqual, 120000.0)
			So(in[0].Features, ShouldResemble, model.Features{})
		})

		Convey("Then the table scores without error", func() {
			_, err := scoring.Score(tbl, scoring.DefaultWeights())
			So(err, ShouldBeNil)
		})
	})

	Convey("Given a row with unknown income", t, func() {
		tbl := preprocess.Normalize([]model.Applicant{
			rawApplicant("a", 20000, "High School", "Yes"),
			rawApplicant("b", math.NaN(), "High School", "Yes"),
		})

		Convey("Then its income need stays missing and scores the neutral 50", func() {
			So(math.IsNaN(tbl.Applicants[1].Features.IncomeNeed), ShouldBeTrue)
			out, err := scoring.Score(tbl, scoring.DefaultWeights())
			So(err, ShouldBeNil)
			// 0.7*50 + 0.3*100
			So(out.Records[1].Financial, ShouldEqual, 65.0)
		})
	})

	Convey("Given no income at all", t, func() {
		tbl := preprocess.Normalize([]model.Applicant{
			rawApplicant("a", math.NaN(), "High School", "Yes"),
		})
		So(tbl.Columns.Has(model.IncomeNeed), ShouldBeTrue)
		So(tbl.Applicants[0].Features.IncomeNeed, ShouldEqual, 50.0)
	})

	Convey("Given a single income value", t, func() {
		tbl := preprocess.Normalize([]model.Applicant{
			rawApplicant("a", 40000, "High School", "Yes"),
		})
		So(tbl.Applicants[0].Features.IncomeNeed, ShouldEqual, 50.0)
	})

	Convey("Given no extracurricular labels", t, func() {
		tbl := preprocess.Normalize([]model.Applicant{rawApplicant("a", 1, "High School", "")})

		Convey("Then the column is absent and scoring reports it", func() {
			So(tbl.Columns.Has(model.Extracurricular), ShouldBeFalse)
			_, err := scoring.Score(tbl, scoring.DefaultWeights())
			So(err, ShouldNotBeNil)
			So(err.Error(), ShouldContainSubstring, "extracurricular_score")
		})
	})

	Convey("Given a fixed income range", t, func() {
		p := preprocess.New(preprocess.WithBounds(preprocess.FamilyIncome, preprocess.Bounds{Min: 0, Max: 100000}))
		tbl := p.Normalize([]model.Applicant{rawApplicant("a", 25000, "High School", "Yes")})
		So(tbl.Applicants[0].Features.IncomeNeed, ShouldAlmostEqual, 75, 1e-9)
	})

	Convey("Given no applicants", t, func() {
		tbl := preprocess.Normalize(nil)
		So(tbl.Applicants, ShouldBeEmpty)
		So(tbl.Len(), ShouldEqual, 0)
	})
}
