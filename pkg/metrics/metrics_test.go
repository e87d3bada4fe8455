package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	. "github.com/smartystreets/goconvey/convey"
)

func TestManager(t *testing.T) {
	Convey("Given a manager on a private registry", t, func() {
		registry := prometheus.NewRegistry()
		m := NewManager(
			WithNamespace("test"),
			WithSubsystem("unit"),
			WithHistogramBuckets([]float64{1, 10, 100}),
			WithConstLabels(map[string]string{"env": "test"}),
			WithPrometheusRegistry(registry),
		)

		Convey("When recording a pass", func() {
			m.RecordEvaluation(OutcomeOK, 3.5)
			m.RecordEvaluation(OutcomeError, 1)
			m.RecordApplicantsScored(4)
			m.RecordRecommendations("Full Scholarship", 2)
			m.RecordAwarded(20000)
			m.RecordAwarded(-5)

			Convey("Then counters reflect it", func() {
				So(testutil.ToFloat64(m.evaluations.WithLabelValues(OutcomeOK)), ShouldEqual, 1.0)
				So(testutil.ToFloat64(m.evaluations.WithLabelValues(OutcomeError)), ShouldEqual, 1.0)
				So(testutil.ToFloat64(m.applicantsScored), ShouldEqual, 4.0)
				So(testutil.ToFloat64(m.recommendations.WithLabelValues("Full Scholarship")), ShouldEqual, 2.0)
				So(testutil.ToFloat64(m.awardedAmount), ShouldEqual, 20000.0)
			})
		})

		Convey("When publishing configuration", func() {
			m.UpdateWeights(0.4, 0.4, 0.2)
			m.UpdateThresholds(60, 80)
			m.RecordConfigReload(ReloadApplied)
			m.RecordConfigReload(ReloadRejected)
			m.RecordConfigReload(ReloadRejected)

			Convey("Then gauges hold the current values", func() {
				So(testutil.ToFloat64(m.weights.WithLabelValues("engagement")), ShouldEqual, 0.2)
				So(testutil.ToFloat64(m.thresholds.WithLabelValues("full")), ShouldEqual, 80.0)
				So(testutil.ToFloat64(m.configReloads.WithLabelValues(ReloadRejected)), ShouldEqual, 2.0)
			})
		})

		Convey("When recording errors and HTTP traffic", func() {
			m.RecordError("missing_feature")
			m.RecordHTTPRequest("/v1/evaluate", "POST", "200")
			m.RecordHTTPRequestDuration("/v1/evaluate", "POST", "200", 12)

			Convey("Then the registry exposes namespaced families", func() {
				families, err := registry.Gather()
				So(err, ShouldBeNil)
				names := map[string]bool{}
				for _, f := range families {
					names[f.GetName()] = true
				}
				So(names["test_unit_errors_total"], ShouldBeTrue)
				So(names["test_unit_http_requests_total"], ShouldBeTrue)
				So(names["test_unit_http_request_duration_milliseconds"], ShouldBeTrue)
			})
		})
	})
}

func TestGlobalRecorders(t *testing.T) {
	Convey("Given the global manager", t, func() {
		So(GetRegistry(), ShouldNotBeNil)

		Convey("Then the package-level recorders do not panic", func() {
			So(func() {
				RecordEvaluation(OutcomeOK, 1)
				RecordApplicantsScored(1)
				RecordRecommendations("Not Eligible", 1)
				RecordAwarded(1)
				RecordError("internal")
				RecordConfigReload(ReloadApplied)
				UpdateWeights(0.4, 0.4, 0.2)
				UpdateThresholds(60, 80)
				RecordHTTPRequest("/healthz", "GET", "200")
				RecordHTTPRequestDuration("/healthz", "GET", "200", 1)
			}, ShouldNotPanic)
		})

		Convey("Then a second manager on the same registry is rejected", func() {
			So(func() { NewManager(WithPrometheusRegistry(GetRegistry())) }, ShouldPanic)
		})
	})
}
