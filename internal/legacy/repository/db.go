package repository

import (
	"fmt"
	"time"

	legacyerrors "khietan/internal/legacy/errors"
	"khietan/pkg/config"

	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const (
	maxOpenConns    = 10
	maxIdleConns    = 5
	connMaxLifetime = 30 * time.Minute
)

// Dialector picks the gorm driver for the configured legacy backend.
func Dialector(driver, dsn string) (gorm.Dialector, error) {
	switch driver {
	case config.LegacyDriverSQLite:
		return sqlite.Open(dsn), nil
	case config.LegacyDriverPostgres:
		return postgres.Open(dsn), nil
	case config.LegacyDriverMySQL:
		return mysql.Open(dsn), nil
	default:
		return nil, fmt.Errorf("%w: %q", legacyerrors.ErrUnsupportedDriver, driver)
	}
}

// Open connects to the legacy database and migrates the rooms table.
func Open(cfg *config.Config) (*gorm.DB, error) {
	dialector, err := Dialector(cfg.LegacyDBDriver, cfg.LegacyDBDSN)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to legacy database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}
	sqlDB.SetMaxOpenConns(maxOpenConns)
	sqlDB.SetMaxIdleConns(maxIdleConns)
	sqlDB.SetConnMaxLifetime(connMaxLifetime)

	if err := Migrate(db); err != nil {
		return nil, err
	}

	cfg.Log.Info("Legacy database ready", "driver", cfg.LegacyDBDriver)
	return db, nil
}

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&RoomRecord{}); err != nil {
		return fmt.Errorf("automigrate failed: %w", err)
	}
	return nil
}
