package config_test

import (
	"runtime"
	"testing"

	"github.com/scottkoons/the-social-studio-sub000/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfig_New(t *testing.T) {
	convey.Convey("Given a new config with default options", t, func() {
		cfg := config.New()

		convey.Convey("Then it should have sensible defaults", func() {
			convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
			convey.So(cfg.PlanQueueSize, convey.ShouldEqual, 10_000)
			convey.So(cfg.WorkerCount, convey.ShouldEqual, runtime.NumCPU()*2)
			convey.So(cfg.DedupeSize, convey.ShouldEqual, 50_000)
			convey.So(cfg.ShardCount, convey.ShouldEqual, 8)
			convey.So(cfg.MaxRangeDays, convey.ShouldEqual, 366)
			convey.So(cfg.MaxBatchItems, convey.ShouldEqual, 500)
			convey.So(cfg.DefaultPlatform, convey.ShouldEqual, "instagram")
			convey.So(cfg.SeedPrefix, convey.ShouldEqual, "studio")
		})
	})
}
