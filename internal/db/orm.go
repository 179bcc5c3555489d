package db

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"infinite-experiment/engagesync/internal/logging"
	gormModels "infinite-experiment/engagesync/internal/models/gorm"
)

var PgDB *gorm.DB

func InitPostgresORM(dsn string, debug bool) (*gorm.DB, error) {
	logLevel := logger.Warn
	if debug {
		logLevel = logger.Info
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}

	PgDB = db
	logging.Info("Connected to Postgres via GORM")
	return db, nil
}

// Migrate creates or updates the sync tables
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&gormModels.PlatformCredentials{},
		&gormModels.SyncDefinition{},
		&gormModels.FieldMapping{},
		&gormModels.SyncLog{},
	); err != nil {
		return fmt.Errorf("failed to migrate sync tables: %w", err)
	}
	return nil
}
