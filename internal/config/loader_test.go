package config_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/scottkoons/the-social-studio-sub000/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func clearConfigEnvVars() {
	for _, key := range []string{
		"STUDIO_CONFIG",
		"STUDIO_LOG_LEVEL",
		"STUDIO_ADDR",
		"STUDIO_QUEUE_SIZE",
		"STUDIO_WORKER_COUNT",
		"STUDIO_DEDUPE_SIZE",
		"STUDIO_SHARD_COUNT",
		"STUDIO_MAX_RANGE_DAYS",
		"STUDIO_MAX_BATCH_ITEMS",
		"STUDIO_DEFAULT_PLATFORM",
		"STUDIO_SEED_PREFIX",
	} {
		_ = os.Unsetenv(key)
	}
}

func TestConfigLoader(t *testing.T) {
	convey.Convey("Given a config loader", t, func() {
		ctx := context.Background()
		clearConfigEnvVars()

		convey.Convey("When loading config with defaults only", func() {
			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load successfully with defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
				convey.So(cfg.PlanQueueSize, convey.ShouldEqual, 10_000)
				convey.So(cfg.DefaultPlatform, convey.ShouldEqual, "instagram")
			})
		})

		convey.Convey("When loading config with environment variables", func() {
			_ = os.Setenv("STUDIO_ADDR", ":8080")
			_ = os.Setenv("STUDIO_QUEUE_SIZE", "2000")
			_ = os.Setenv("STUDIO_WORKER_COUNT", "16")
			_ = os.Setenv("STUDIO_DEFAULT_PLATFORM", "tiktok")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then env values should override defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.PlanQueueSize, convey.ShouldEqual, 2000)
				convey.So(cfg.WorkerCount, convey.ShouldEqual, 16)
				convey.So(cfg.DefaultPlatform, convey.ShouldEqual, "tiktok")
				convey.So(cfg.DedupeSize, convey.ShouldEqual, 50_000)
			})
		})

		convey.Convey("When loading config from a YAML file", func() {
			dir := t.TempDir()
			path := filepath.Join(dir, "studio.yaml")
			body := "addr: \":7070\"\nmax_range_days: 90\nseed_prefix: campaign\n"
			convey.So(os.WriteFile(path, []byte(body), 0o600), convey.ShouldBeNil)
			_ = os.Setenv("STUDIO_CONFIG", path)
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then file values should override defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":7070")
				convey.So(cfg.MaxRangeDays, convey.ShouldEqual, 90)
				convey.So(cfg.SeedPrefix, convey.ShouldEqual, "campaign")
			})
		})

		convey.Convey("When env sets an invalid worker count", func() {
			_ = os.Setenv("STUDIO_WORKER_COUNT", "0")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then loading should fail with ErrInvalidConfig", func() {
				convey.So(cfg, convey.ShouldBeNil)
				convey.So(err, convey.ShouldWrap, config.ErrInvalidConfig)
			})
		})
	})
}
