package store

import (
	"errors"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// NewDBConnection opens a pooled Postgres connection for the given URL.
// appEnv selects GORM's own log verbosity; application logging stays with
// the logrus wrapper.
func NewDBConnection(databaseURL, appEnv string) (*gorm.DB, error) {
	if databaseURL == "" {
		return nil, errors.New("DATABASE_URL is not set")
	}

	logMode := gormlogger.Silent
	if appEnv == "development" {
		logMode = gormlogger.Info
	}

	connection, err := gorm.Open(postgres.Open(databaseURL), &gorm.Config{
		Logger:                 gormlogger.Default.LogMode(logMode),
		SkipDefaultTransaction: true,
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := connection.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(25)
	sqlDB.SetConnMaxLifetime(1 * time.Hour)

	return connection, nil
}

// Migrate creates or updates the dashboard tables
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&Currency{}, &Exchange{}, &Conversion{}, &MarketPoint{})
}
