package config_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/skipperlabs/skipper/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func clearConfigEnvVars() {
	for _, key := range []string{
		"SKIPPER_CONFIG",
		"SKIPPER_ADDR",
		"SKIPPER_LOG_LEVEL",
		"SKIPPER_QUEUE_SIZE",
		"SKIPPER_WORKER_COUNT",
		"SKIPPER_DEDUPE_SIZE",
		"SKIPPER_MAX_BATCHES",
		"SKIPPER_MAX_LIMIT",
		"SKIPPER_WEIGHT_WIN",
		"SKIPPER_WEIGHT_CLOSE",
		"SKIPPER_WEIGHT_PLAYER",
		"SKIPPER_WEIGHT_STRATEGY",
	} {
		_ = os.Unsetenv(key)
	}
}

func TestConfigLoader(t *testing.T) {
	convey.Convey("Given a config loader", t, func() {
		ctx := context.Background()

		convey.Convey("When loading config with defaults only", func() {
			clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then the defaults come through", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8880")
				convey.So(cfg.QueueSize, convey.ShouldEqual, 256)
				convey.So(cfg.Weights().Win, convey.ShouldEqual, 0.4)
			})
		})

		convey.Convey("When loading config with environment variables", func() {
			clearConfigEnvVars()
			_ = os.Setenv("SKIPPER_ADDR", ":8080")
			_ = os.Setenv("SKIPPER_QUEUE_SIZE", "64")
			_ = os.Setenv("SKIPPER_WORKER_COUNT", "2")
			_ = os.Setenv("SKIPPER_WEIGHT_WIN", "0.5")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then env vars override defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.QueueSize, convey.ShouldEqual, 64)
				convey.So(cfg.WorkerCount, convey.ShouldEqual, 2)
				convey.So(cfg.Weights().Win, convey.ShouldEqual, 0.5)
				convey.So(cfg.Weights().Close, convey.ShouldEqual, 0.2)
			})
		})

		convey.Convey("When loading config from a YAML file", func() {
			clearConfigEnvVars()

			dir := t.TempDir()
			path := filepath.Join(dir, "skipper.yaml")
			yaml := "addr: \":7070\"\nmax_batches: 8\nweight_strategy: 0.3\n"
			convey.So(os.WriteFile(path, []byte(yaml), 0o600), convey.ShouldBeNil)

			_ = os.Setenv("SKIPPER_CONFIG", path)
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then file values override defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":7070")
				convey.So(cfg.MaxBatches, convey.ShouldEqual, 8)
				convey.So(cfg.Weights().Strategy, convey.ShouldEqual, 0.3)
			})

			convey.Convey("And env still wins over the file", func() {
				_ = os.Setenv("SKIPPER_ADDR", ":6060")

				cfg, err := config.Load(ctx)
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":6060")
			})
		})

		convey.Convey("When the config is invalid", func() {
			clearConfigEnvVars()
			_ = os.Setenv("SKIPPER_WEIGHT_CLOSE", "-0.1")
			defer clearConfigEnvVars()

			_, err := config.Load(ctx)

			convey.Convey("Then the invalid-config sentinel is returned", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(err.Error(), convey.ShouldContainSubstring, "invalid config")
			})
		})

		convey.Convey("When the config file does not exist", func() {
			clearConfigEnvVars()
			_ = os.Setenv("SKIPPER_CONFIG", "/nonexistent/skipper.yaml")
			defer clearConfigEnvVars()

			_, err := config.Load(ctx)
			convey.So(err, convey.ShouldNotBeNil)
		})
	})
}
