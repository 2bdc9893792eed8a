package main

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/okian/podium/internal/config"
	"github.com/okian/podium/pkg/logger"
	"github.com/smartystreets/goconvey/convey"
)

const testDataDir = "../internal/app/testdata"

func init() {
	if err := logger.Init(logger.WithWriter(io.Discard)); err != nil {
		panic(err)
	}
}

func TestMainWiring(t *testing.T) {
	convey.Convey("Given configuration from the environment", t, func() {
		_ = os.Setenv("PODIUM_DATA_DIR", testDataDir)
		_ = os.Setenv("PODIUM_MAX_TOP_LIMIT", "10")
		_ = os.Setenv("PODIUM_REFERENCE_DATE", "2024-07-26")
		defer func() {
			_ = os.Unsetenv("PODIUM_DATA_DIR")
			_ = os.Unsetenv("PODIUM_MAX_TOP_LIMIT")
			_ = os.Unsetenv("PODIUM_REFERENCE_DATE")
		}()

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		cfg, err := config.Load(ctx)
		convey.So(err, convey.ShouldBeNil)
		convey.So(cfg.DataDir, convey.ShouldEqual, testDataDir)

		convey.Convey("When the service is built and started", func() {
			svc := newService(ctx, cfg, logger.Get())
			convey.So(svc.Start(ctx), convey.ShouldBeNil)
			defer svc.Stop()

			mux := newMux(ctx, svc, cfg.MaxTopLimit)

			convey.Convey("Then the API and docs routes answer", func() {
				for _, path := range []string{"/overview", "/global", "/sports", "/performance", "/filters", "/openapi.yaml", "/healthz", "/stats"} {
					w := httptest.NewRecorder()
					mux.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
					convey.So(w.Code, convey.ShouldEqual, http.StatusOK)
				}
			})

			convey.Convey("Then the top limit is taken from config", func() {
				convey.So(svc.MaxTopLimit(), convey.ShouldEqual, 10)
			})
		})

		convey.Convey("When the data directory is missing", func() {
			cfg.DataDir = t.TempDir()
			svc := newService(ctx, cfg, logger.Get())

			convey.Convey("Then preloading fails the start", func() {
				convey.So(svc.Start(ctx), convey.ShouldNotBeNil)
			})
		})
	})
}

func TestMetricsUpdaters(t *testing.T) {
	convey.Convey("Given the background updaters", t, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
		defer cancel()
		cfg := config.New()
		svc := newService(ctx, cfg, logger.Get())

		convey.Convey("Then they return once the context is done", func() {
			convey.So(func() { startSystemMetricsUpdater(ctx) }, convey.ShouldNotPanic)
			convey.So(func() { startServiceMetricsUpdater(ctx, svc) }, convey.ShouldNotPanic)
		})

		convey.Convey("Then a single update does not panic", func() {
			convey.So(updateSystemMetrics, convey.ShouldNotPanic)
			convey.So(func() { updateServiceMetrics(svc) }, convey.ShouldNotPanic)
		})
	})
}
