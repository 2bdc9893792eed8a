package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMetricsManagerCreation(t *testing.T) {
	Convey("Given metrics manager creation", t, func() {
		Convey("When creating with a private registry", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(WithPrometheusRegistry(registry))

			Convey("Then the collectors are registered there", func() {
				So(manager, ShouldNotBeNil)
				manager.datasetLoads.WithLabelValues("medals", "ok").Inc()
				families, err := registry.Gather()
				So(err, ShouldBeNil)
				So(len(families), ShouldBeGreaterThan, 0)
			})
		})

		Convey("When creating with custom options", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(
				WithNamespace("test_namespace"),
				WithSubsystem("test_subsystem"),
				WithMetricPrefix("test_prefix"),
				WithHistogramBuckets([]float64{0.1, 0.5, 1.0}),
				WithMetricsEnabled(true),
				WithRefreshInterval(5*time.Second),
				WithCustomLabels(map[string]string{"env": "test"}),
				WithPrometheusRegistry(registry),
			)

			Convey("Then options are applied", func() {
				So(manager.namespace, ShouldEqual, "test_namespace")
				So(manager.subsystem, ShouldEqual, "test_subsystem")
				So(manager.name("rows"), ShouldEqual, "test_prefix_rows")
				So(manager.histogramBuckets, ShouldResemble, []float64{0.1, 0.5, 1.0})
				So(manager.refreshInterval, ShouldEqual, 5*time.Second)
				So(manager.customLabels["env"], ShouldEqual, "test")
			})
		})

		Convey("When creating with empty option values", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(
				WithNamespace(""),
				WithSubsystem(""),
				WithHistogramBuckets(nil),
				WithCustomLabels(nil),
				WithRefreshInterval(0),
				WithPrometheusRegistry(registry),
			)

			Convey("Then defaults are kept", func() {
				So(manager.namespace, ShouldEqual, "podium")
				So(manager.subsystem, ShouldEqual, "dashboard")
				So(manager.histogramBuckets, ShouldResemble, prometheus.DefBuckets)
				So(manager.refreshInterval, ShouldEqual, defaultRefreshInterval)
			})
		})

		Convey("When the global refresh interval is read", func() {
			Convey("Then it is the global manager's interval", func() {
				So(RefreshInterval(), ShouldEqual, globalManager.refreshInterval)
				So(RefreshInterval() > 0, ShouldBeTrue)
			})
		})
	})
}

func TestDatasetMetrics(t *testing.T) {
	Convey("Given the global metrics manager", t, func() {
		Convey("When recording dataset loads", func() {
			before := testutil.ToFloat64(globalManager.datasetLoads.WithLabelValues("athletes", "ok"))
			RecordDatasetLoad("athletes", "ok", 12.5)
			RecordDatasetLoad("athletes", "ok", 3)
			UpdateDatasetRows("athletes", 11113)

			Convey("Then counters and gauges move", func() {
				So(testutil.ToFloat64(globalManager.datasetLoads.WithLabelValues("athletes", "ok")), ShouldEqual, before+2)
				So(testutil.ToFloat64(globalManager.datasetRows.WithLabelValues("athletes")), ShouldEqual, 11113)
			})
		})

		Convey("When recording cache activity", func() {
			hits := testutil.ToFloat64(globalManager.cacheHits.WithLabelValues("nocs"))
			misses := testutil.ToFloat64(globalManager.cacheMisses.WithLabelValues("nocs"))
			RecordCacheHit("nocs")
			RecordCacheMiss("nocs")
			RecordCacheMiss("nocs")
			UpdateCacheEntries(4)

			Convey("Then each counter is tracked separately", func() {
				So(testutil.ToFloat64(globalManager.cacheHits.WithLabelValues("nocs")), ShouldEqual, hits+1)
				So(testutil.ToFloat64(globalManager.cacheMisses.WithLabelValues("nocs")), ShouldEqual, misses+2)
				So(testutil.ToFloat64(globalManager.cacheEntries), ShouldEqual, 4)
			})
		})

		Convey("When recording data quality counters with non-positive counts", func() {
			before := testutil.ToFloat64(globalManager.continentFallbacks.WithLabelValues("medals"))
			RecordContinentFallbacks("medals", 0)
			RecordContinentFallbacks("medals", -3)
			RecordUnparseableDates("athletes", "birth_date", 0)
			truncated := testutil.ToFloat64(globalManager.truncatedRows.WithLabelValues("medals"))
			RecordTruncatedRows("medals", 0)

			Convey("Then nothing is added", func() {
				So(testutil.ToFloat64(globalManager.continentFallbacks.WithLabelValues("medals")), ShouldEqual, before)
				So(testutil.ToFloat64(globalManager.truncatedRows.WithLabelValues("medals")), ShouldEqual, truncated)
			})
		})

		Convey("When rows with extra cells are recorded", func() {
			before := testutil.ToFloat64(globalManager.truncatedRows.WithLabelValues("teams"))
			RecordTruncatedRows("teams", 3)

			Convey("Then the counter grows by the row count", func() {
				So(testutil.ToFloat64(globalManager.truncatedRows.WithLabelValues("teams")), ShouldEqual, before+3)
			})
		})
	})
}

func TestFilterAndHTTPMetrics(t *testing.T) {
	Convey("Given filter and HTTP recorders", t, func() {
		Convey("Then they accept ordinary and edge values without panicking", func() {
			So(func() {
				RecordFilterApplication("country")
				RecordFilterRetained(2, 10)
				RecordFilterRetained(0, 0)
				RecordHTTPRequest("/overview", "GET", "200")
				RecordHTTPRequestDuration("/overview", "GET", "200", 4.2)
				RecordErrorByEndpoint("/global", "GET", "client_error")
				RecordErrorByType("client_error", "medium")
				RecordCacheInvalidation()
				UpdateSystemMemoryUsage(1 << 20)
				UpdateSystemGoroutineCount(12)
				RecordSystemGCPauseTime(0.3)
			}, ShouldNotPanic)
		})

		Convey("Then the shared registry is exposed", func() {
			So(GetRegistry(), ShouldNotBeNil)
		})
	})
}

func TestMetricsConcurrency(t *testing.T) {
	Convey("Given concurrent recorders", t, func() {
		done := make(chan struct{}, 8)
		for i := 0; i < 8; i++ {
			go func() {
				for j := 0; j < 100; j++ {
					RecordCacheHit("medallists")
					RecordFilterApplication("gender")
					RecordHTTPRequest("/filters", "GET", "200")
				}
				done <- struct{}{}
			}()
		}
		for i := 0; i < 8; i++ {
			<-done
		}

		Convey("Then all goroutines finish", func() {
			So(testutil.ToFloat64(globalManager.cacheHits.WithLabelValues("medallists")), ShouldBeGreaterThanOrEqualTo, 800)
		})
	})
}
