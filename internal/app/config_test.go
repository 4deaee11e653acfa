package service

import (
	"context"
	"testing"

	"github.com/okian/gradeboard/internal/config"
	"github.com/okian/gradeboard/pkg/logger"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfigOptions(t *testing.T) {
	convey.Convey("Given a configuration with non-default values", t, func() {
		cfg := config.New()
		cfg.DataDir = "/srv/grades"
		cfg.StoreBackend = config.BackendSQLite
		cfg.SQLiteFile = "g.db"
		cfg.FingerprintPolicy = config.PolicyBeforeExtract
		cfg.LockDataDir = false
		cfg.HistogramBucketWidth = 5

		convey.Convey("When building a service from it", func() {
			svc := New(ConfigOptions(cfg, logger.Nop())...)

			convey.Convey("Then every field should be carried over", func() {
				convey.So(svc.dataDir, convey.ShouldEqual, "/srv/grades")
				convey.So(svc.backend, convey.ShouldEqual, BackendSQLite)
				convey.So(svc.sqliteFile, convey.ShouldEqual, "g.db")
				convey.So(svc.recordLog, convey.ShouldEqual, "all_scores.csv")
				convey.So(svc.policy, convey.ShouldEqual, PolicyBeforeExtract)
				convey.So(svc.lockDataDir, convey.ShouldBeFalse)
				convey.So(svc.bucketWidth, convey.ShouldEqual, 5)
			})
		})
	})
}

func TestConfigConstantsShared(t *testing.T) {
	convey.Convey("Given the service and config vocabularies", t, func() {
		convey.Convey("Then backends and policies should be the same values", func() {
			convey.So(BackendCSV, convey.ShouldEqual, config.BackendCSV)
			convey.So(BackendSQLite, convey.ShouldEqual, config.BackendSQLite)
			convey.So(PolicyAfterStore, convey.ShouldEqual, config.PolicyAfterStore)
			convey.So(PolicyBeforeExtract, convey.ShouldEqual, config.PolicyBeforeExtract)
		})

		convey.Convey("And every backend the config accepts should start", func() {
			for _, backend := range []string{config.BackendCSV, config.BackendSQLite} {
				cfg := config.New()
				cfg.DataDir = t.TempDir()
				cfg.StoreBackend = backend
				convey.So(cfg.Validate(), convey.ShouldBeNil)

				svc := New(ConfigOptions(cfg, logger.Nop())...)
				convey.So(svc.Start(context.Background()), convey.ShouldBeNil)
				svc.Stop()
			}
		})
	})
}
