package config_test

import (
	"context"
	"os"
	"testing"

	"github.com/zerotrustai/modelgate/internal/config"
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
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.DefaultStrategy, convey.ShouldEqual, "modelo_basico")
				convey.So(cfg.RetrainThreshold, convey.ShouldEqual, 0.75)
				convey.So(cfg.RetrainMinSamples, convey.ShouldEqual, 10)
			})
		})

		convey.Convey("When loading config with environment variables", func() {
			_ = os.Setenv("MODELGATE_ADDR", ":9090")
			_ = os.Setenv("MODELGATE_DEFAULT_STRATEGY", "modelo_avanzado")
			_ = os.Setenv("MODELGATE_RETRAIN_THRESHOLD", "0.8")
			_ = os.Setenv("MODELGATE_RETRAIN_MIN_SAMPLES", "20")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should override defaults with env vars", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9090")
				convey.So(cfg.DefaultStrategy, convey.ShouldEqual, "modelo_avanzado")
				convey.So(cfg.RetrainThreshold, convey.ShouldEqual, 0.8)
				convey.So(cfg.RetrainMinSamples, convey.ShouldEqual, 20)
			})
		})

		convey.Convey("When loading config with a YAML file", func() {
			yamlContent := `
addr: ":7070"
log_level: "debug"
retrain_threshold: 0.7
retrain_min_samples: 5
`
			tmpFile := createTempConfigFile(yamlContent)
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("MODELGATE_CONFIG", tmpFile)
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load from the YAML file", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":7070")
				convey.So(cfg.LogLevel, convey.ShouldEqual, "debug")
				convey.So(cfg.RetrainThreshold, convey.ShouldEqual, 0.7)
				convey.So(cfg.RetrainMinSamples, convey.ShouldEqual, 5)
				// Missing fields merge from defaults
				convey.So(cfg.DefaultStrategy, convey.ShouldEqual, "modelo_basico")
			})
		})

		convey.Convey("When loading config with both file and environment variables", func() {
			yamlContent := `
addr: ":7070"
retrain_min_samples: 5
`
			tmpFile := createTempConfigFile(yamlContent)
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("MODELGATE_CONFIG", tmpFile)
			_ = os.Setenv("MODELGATE_ADDR", ":9090")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then environment variables should override file values", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9090")
				convey.So(cfg.RetrainMinSamples, convey.ShouldEqual, 5)
			})
		})

		convey.Convey("When loading config with a non-existent file", func() {
			_ = os.Setenv("MODELGATE_CONFIG", "/non/existent/file.yaml")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return an error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with an empty addr", func() {
			_ = os.Setenv("MODELGATE_ADDR", "")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a validation error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(err.Error(), convey.ShouldContainSubstring, "addr must not be empty")
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with an out-of-range threshold", func() {
			_ = os.Setenv("MODELGATE_RETRAIN_THRESHOLD", "1.5")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a validation error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(err.Error(), convey.ShouldContainSubstring, "retrain_threshold")
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with non-positive min samples", func() {
			_ = os.Setenv("MODELGATE_RETRAIN_MIN_SAMPLES", "0")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a validation error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(err.Error(), convey.ShouldContainSubstring, "retrain_min_samples")
				convey.So(cfg, convey.ShouldBeNil)
			})
		})
	})
}

// Helper functions.

func clearConfigEnvVars() {
	envVars := []string{
		"MODELGATE_CONFIG",
		"MODELGATE_ADDR",
		"MODELGATE_LOG_LEVEL",
		"MODELGATE_DEFAULT_STRATEGY",
		"MODELGATE_RETRAIN_THRESHOLD",
		"MODELGATE_RETRAIN_MIN_SAMPLES",
	}
	for _, envVar := range envVars {
		_ = os.Unsetenv(envVar)
	}
}

func createTempConfigFile(content string) string {
	tmpFile, err := os.CreateTemp("", "modelgate-config-*.yaml")
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
