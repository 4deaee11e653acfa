package config_test

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/okian/gradeboard/internal/config"
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
				convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
				convey.So(cfg.DataDir, convey.ShouldEqual, "data")
				convey.So(cfg.StoreBackend, convey.ShouldEqual, "csv")
				convey.So(cfg.MaxUploadBytes, convey.ShouldEqual, int64(20<<20))
			})
		})

		convey.Convey("When loading config with environment variables", func() {
			_ = os.Setenv("GRADEBOARD_ADDR", ":8080")
			_ = os.Setenv("GRADEBOARD_DATA_DIR", "/srv/grades")
			_ = os.Setenv("GRADEBOARD_STORE_BACKEND", "sqlite")
			_ = os.Setenv("GRADEBOARD_FINGERPRINT_POLICY", "before_extract")
			_ = os.Setenv("GRADEBOARD_LOCK_DATA_DIR", "false")
			_ = os.Setenv("GRADEBOARD_MAX_UPLOAD_BYTES", "1024")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should override defaults with env vars", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.DataDir, convey.ShouldEqual, "/srv/grades")
				convey.So(cfg.StoreBackend, convey.ShouldEqual, config.BackendSQLite)
				convey.So(cfg.FingerprintPolicy, convey.ShouldEqual, config.PolicyBeforeExtract)
				convey.So(cfg.LockDataDir, convey.ShouldBeFalse)
				convey.So(cfg.MaxUploadBytes, convey.ShouldEqual, int64(1024))
			})
		})

		convey.Convey("When loading config with YAML file", func() {
			yamlContent := `
addr: ":9090"
log_format: json
data_dir: /tmp/grades
record_log: scores.csv
histogram_bucket_width: 5
`
			tmpFile := createTempConfigFile(yamlContent)
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("GRADEBOARD_CONFIG", tmpFile)
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load from YAML file", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9090")
				convey.So(cfg.LogFormat, convey.ShouldEqual, "json")
				convey.So(cfg.DataDir, convey.ShouldEqual, "/tmp/grades")
				convey.So(cfg.RecordLog, convey.ShouldEqual, "scores.csv")
				convey.So(cfg.HistogramBucketWidth, convey.ShouldEqual, 5)
				convey.So(cfg.FingerprintLog, convey.ShouldEqual, "fingerprints.log") // From defaults
			})
		})

		convey.Convey("When loading config with both file and environment variables", func() {
			yamlContent := `
addr: ":9090"
data_dir: /tmp/grades
`
			tmpFile := createTempConfigFile(yamlContent)
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("GRADEBOARD_CONFIG", tmpFile)
			_ = os.Setenv("GRADEBOARD_ADDR", ":8080")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then environment variables should override file values", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")         // Overridden by env
				convey.So(cfg.DataDir, convey.ShouldEqual, "/tmp/grades") // From file
			})
		})

		convey.Convey("When loading config with an explicit file path", func() {
			tmpFile := createTempConfigFile(`store_backend: sqlite`)
			defer func() { _ = os.Remove(tmpFile) }()
			clearConfigEnvVars()

			cfg, err := config.LoadFile(ctx, tmpFile)

			convey.Convey("Then it should read that file", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.StoreBackend, convey.ShouldEqual, config.BackendSQLite)
			})
		})

		convey.Convey("When loading config with invalid YAML file", func() {
			tmpFile := createTempConfigFile(`invalid: yaml: content: [`)
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("GRADEBOARD_CONFIG", tmpFile)
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a load error", func() {
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with non-existent file", func() {
			_ = os.Setenv("GRADEBOARD_CONFIG", "/non/existent/file.yaml")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a load error", func() {
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with empty addr", func() {
			_ = os.Setenv("GRADEBOARD_ADDR", "")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a validation error", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
				convey.So(err.Error(), convey.ShouldContainSubstring, "addr must not be empty")
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with an unknown backend", func() {
			_ = os.Setenv("GRADEBOARD_STORE_BACKEND", "mongo")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a validation error", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with invalid numeric environment variables", func() {
			_ = os.Setenv("GRADEBOARD_MAX_UPLOAD_BYTES", "not_a_number")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return an error", func() {
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})
	})
}

func TestConfigLoaderEdgeCases(t *testing.T) {
	convey.Convey("Given config loader edge cases", t, func() {
		ctx := context.Background()

		convey.Convey("When loading config with YAML file containing comments", func() {
			yamlContent := `
# This is a comment
addr: ":9090"  # Inline comment
# Another comment
log_level: debug
`
			tmpFile := createTempConfigFile(yamlContent)
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("GRADEBOARD_CONFIG", tmpFile)
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should parse YAML with comments", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9090")
				convey.So(cfg.LogLevel, convey.ShouldEqual, "debug")
			})
		})

		convey.Convey("When loading config with special characters in addr", func() {
			_ = os.Setenv("GRADEBOARD_ADDR", "[::1]:8080")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should keep the addr verbatim", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, "[::1]:8080")
			})
		})
	})
}

// Helper functions.

func clearConfigEnvVars() {
	envVars := []string{
		"GRADEBOARD_CONFIG",
		"GRADEBOARD_ADDR",
		"GRADEBOARD_DATA_DIR",
		"GRADEBOARD_STORE_BACKEND",
		"GRADEBOARD_FINGERPRINT_POLICY",
		"GRADEBOARD_LOCK_DATA_DIR",
		"GRADEBOARD_MAX_UPLOAD_BYTES",
	}
	for _, envVar := range envVars {
		_ = os.Unsetenv(envVar)
	}
}

func createTempConfigFile(content string) string {
	tmpFile, err := os.CreateTemp("", "gradeboard-config-*.yaml")
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
