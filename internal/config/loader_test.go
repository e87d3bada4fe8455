package config_test

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/okian/scholar/internal/config"
	"github.com/okian/scholar/internal/domain/scoring"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfigLoader(t *testing.T) {
	convey.Convey("Given a config loader", t, func() {
		ctx := context.Background()

		convey.Convey("When loading config with defaults only", func() {
			clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load successfully with defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldResemble, config.New(ctx))
			})
		})

		convey.Convey("When loading config with environment variables", func() {
			_ = os.Setenv("SCHOLAR_ADDR", ":8080")
			_ = os.Setenv("SCHOLAR_ACADEMIC_WEIGHT", "0.5")
			_ = os.Setenv("SCHOLAR_FINANCIAL_WEIGHT", "0.3")
			_ = os.Setenv("SCHOLAR_ENGAGEMENT_WEIGHT", "0.2")
			_ = os.Setenv("SCHOLAR_PARALLELISM", "4")
			_ = os.Setenv("SCHOLAR_LOG_FORMAT", "json")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should override defaults with env vars", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.AcademicWeight, convey.ShouldEqual, 0.5)
				convey.So(cfg.FinancialWeight, convey.ShouldEqual, 0.3)
				convey.So(cfg.Parallelism, convey.ShouldEqual, 4)
				convey.So(cfg.LogFormat, convey.ShouldEqual, "json")
			})
		})

		convey.Convey("When loading config with YAML file", func() {
			tmpFile := createTempConfigFile(`
addr: ":9090"
partial_threshold: 55
full_threshold: 85
full_amount: 12000
partial_amount: 6000
watch_config: true
`)
			defer func() { _ = os.Remove(tmpFile) }()
			_ = os.Setenv("SCHOLAR_CONFIG", tmpFile)
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load from YAML file", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9090")
				convey.So(cfg.PartialThreshold, convey.ShouldEqual, 55.0)
				convey.So(cfg.FullThreshold, convey.ShouldEqual, 85.0)
				convey.So(cfg.FullAmount, convey.ShouldEqual, 12000.0)
				convey.So(cfg.WatchConfig, convey.ShouldBeTrue)
			})

			convey.Convey("And unset fields keep their defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.AcademicWeight, convey.ShouldEqual, 0.4)
				convey.So(cfg.LogLevel, convey.ShouldEqual, "info")
			})
		})

		convey.Convey("When loading config with both file and environment variables", func() {
			tmpFile := createTempConfigFile("addr: \":9090\"\nfull_threshold: 85\n")
			defer func() { _ = os.Remove(tmpFile) }()
			_ = os.Setenv("SCHOLAR_CONFIG", tmpFile)
			_ = os.Setenv("SCHOLAR_FULL_THRESHOLD", "90")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then environment variables should override file values", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9090")
				convey.So(cfg.FullThreshold, convey.ShouldEqual, 90.0)
			})
		})
	})
}

func TestConfigLoaderErrors(t *testing.T) {
	convey.Convey("Given a config loader", t, func() {
		ctx := context.Background()

		convey.Convey("When the YAML file is invalid", func() {
			tmpFile := createTempConfigFile("addr: [unclosed\n")
			defer func() { _ = os.Remove(tmpFile) }()

			_, err := config.LoadFile(ctx, tmpFile)
			convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
		})

		convey.Convey("When the file does not exist", func() {
			_, err := config.LoadFile(ctx, "/nonexistent/scholar.yaml")
			convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
		})

		convey.Convey("When addr is empty", func() {
			_ = os.Setenv("SCHOLAR_ADDR", "")
			defer clearConfigEnvVars()

			_, err := config.Load(ctx)
			convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
		})

		convey.Convey("When the weights in the file do not sum to 1", func() {
			tmpFile := createTempConfigFile("academic_weight: 0.9\n")
			defer func() { _ = os.Remove(tmpFile) }()

			_, err := config.LoadFile(ctx, tmpFile)

			convey.Convey("Then loading is refused with the domain reason", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
				convey.So(errors.Is(err, scoring.ErrInvalidConfiguration), convey.ShouldBeTrue)
				convey.So(err.Error(), convey.ShouldContainSubstring, "1.500000")
			})
		})
	})
}

func clearConfigEnvVars() {
	for _, envVar := range []string{
		"SCHOLAR_CONFIG",
		"SCHOLAR_ADDR",
		"SCHOLAR_ACADEMIC_WEIGHT",
		"SCHOLAR_FINANCIAL_WEIGHT",
		"SCHOLAR_ENGAGEMENT_WEIGHT",
		"SCHOLAR_PARALLELISM",
		"SCHOLAR_LOG_FORMAT",
		"SCHOLAR_FULL_THRESHOLD",
	} {
		_ = os.Unsetenv(envVar)
	}
}

func createTempConfigFile(content string) string {
	tmpFile, err := os.CreateTemp("", "scholar-config-*.yaml")
	if err != nil {
		panic(err)
	}
	if _, err := tmpFile.WriteString(content); err != nil {
		panic(err)
	}
	if err := tmpFile.Close(); err != nil {
		panic(err)
	}
	return tmpFile.Name()
}
