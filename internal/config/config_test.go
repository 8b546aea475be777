package config_test

import (
	"runtime"
	"testing"

	"github.com/skipperlabs/skipper/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfig_New(t *testing.T) {
	convey.Convey("Given a new config with default options", t, func() {
		cfg := config.New()

		convey.Convey("Then it should have sensible defaults", func() {
			convey.So(cfg.LogLevel, convey.ShouldEqual, "info")
			convey.So(cfg.Addr, convey.ShouldEqual, ":8880")
			convey.So(cfg.QueueSize, convey.ShouldEqual, 256)
			convey.So(cfg.WorkerCount, convey.ShouldEqual, runtime.NumCPU())
			convey.So(cfg.DedupeSize, convey.ShouldEqual, 10_000)
			convey.So(cfg.MaxBatches, convey.ShouldEqual, 64)
			convey.So(cfg.MaxLimit, convey.ShouldEqual, 100)
		})

		convey.Convey("Then the default weights match the reference ranking", func() {
			w := cfg.Weights()
			convey.So(w.Win, convey.ShouldEqual, 0.4)
			convey.So(w.Close, convey.ShouldEqual, 0.2)
			convey.So(w.Player, convey.ShouldEqual, 0.2)
			convey.So(w.Strategy, convey.ShouldEqual, 0.2)
		})
	})
}
