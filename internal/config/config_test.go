package config_test

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/okian/gradeboard/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfig_New(t *testing.T) {
	convey.Convey("Given a new config with default options", t, func() {
		cfg := config.New()

		convey.Convey("Then it should have sensible defaults", func() {
			convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
			convey.So(cfg.LogLevel, convey.ShouldEqual, "info")
			convey.So(cfg.LogFormat, convey.ShouldEqual, "text")
			convey.So(cfg.StoreBackend, convey.ShouldEqual, config.BackendCSV)
			convey.So(cfg.FingerprintPolicy, convey.ShouldEqual, config.PolicyAfterStore)
			convey.So(cfg.LockDataDir, convey.ShouldBeTrue)
			convey.So(cfg.Validate(), convey.ShouldBeNil)
		})

		convey.Convey("Then paths should be joined under the data dir", func() {
			cfg.DataDir = "/var/lib/gradeboard"
			convey.So(cfg.RecordLogPath(), convey.ShouldEqual, filepath.Join("/var/lib/gradeboard", "all_scores.csv"))
			convey.So(cfg.FingerprintLogPath(), convey.ShouldEqual, filepath.Join("/var/lib/gradeboard", "fingerprints.log"))
			convey.So(cfg.SQLitePath(), convey.ShouldEqual, filepath.Join("/var/lib/gradeboard", "grades.db"))
		})
	})
}

func TestConfig_Validate(t *testing.T) {
	convey.Convey("Given configs with invalid fields", t, func() {
		cases := map[string]func(c *config.Config){
			"empty addr":          func(c *config.Config) { c.Addr = "" },
			"empty data dir":      func(c *config.Config) { c.DataDir = "" },
			"unknown log level":   func(c *config.Config) { c.LogLevel = "trace" },
			"unknown log format":  func(c *config.Config) { c.LogFormat = "xml" },
			"unknown backend":     func(c *config.Config) { c.StoreBackend = "postgres" },
			"unknown policy":      func(c *config.Config) { c.FingerprintPolicy = "never" },
			"empty record log":    func(c *config.Config) { c.RecordLog = "" },
			"empty sqlite file":   func(c *config.Config) { c.StoreBackend = config.BackendSQLite; c.SQLiteFile = "" },
			"zero upload limit":   func(c *config.Config) { c.MaxUploadBytes = 0 },
			"zero histogram bins": func(c *config.Config) { c.HistogramBucketWidth = 0 },
		}

		for name, mutate := range cases {
			convey.Convey("When "+name, func() {
				cfg := config.New()
				mutate(cfg)

				convey.Convey("Then validation should fail with ErrInvalidConfig", func() {
					convey.So(errors.Is(cfg.Validate(), config.ErrInvalidConfig), convey.ShouldBeTrue)
				})
			})
		}
	})

	convey.Convey("Given a sqlite config without csv file names", t, func() {
		cfg := config.New()
		cfg.StoreBackend = config.BackendSQLite
		cfg.RecordLog = ""
		cfg.FingerprintLog = ""

		convey.Convey("Then it should be valid", func() {
			convey.So(cfg.Validate(), convey.ShouldBeNil)
		})
	})
}
