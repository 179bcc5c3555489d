package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"infinite-experiment/engagesync/internal/constants"
	"infinite-experiment/engagesync/internal/db/repositories"
	gormModels "infinite-experiment/engagesync/internal/models/gorm"
)

// Setup test database
func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(
		&gormModels.PlatformCredentials{},
		&gormModels.SyncDefinition{},
		&gormModels.FieldMapping{},
		&gormModels.SyncLog{},
	); err != nil {
		t.Fatalf("Failed to migrate: %v", err)
	}

	return db
}

// seedLeadConfig stores active credentials pointing at apiURL and an active
// Lead definition mapping Email to customer_id (mandatory) and Company to
// company_name.
func seedLeadConfig(t *testing.T, repo *repositories.SyncConfigRepo, apiURL string) *gormModels.SyncDefinition {
	ctx := context.Background()

	require.NoError(t, repo.SaveCredentials(ctx, &gormModels.PlatformCredentials{
		Name:          "Default",
		DeveloperName: "default",
		APIURL:        apiURL,
		AccountID:     "ACC-1",
		Passcode:      "PASS-1",
		IsActive:      true,
	}))

	def := &gormModels.SyncDefinition{
		Name:             "Lead sync",
		SyncType:         "profile",
		SourceEntityType: constants.EntityLead,
		TargetEntityType: "profile",
		Status:           constants.SyncStatusActive,
	}
	require.NoError(t, repo.SaveSyncDefinition(ctx, def))

	require.NoError(t, repo.ReplaceFieldMappings(ctx, def.ID, []gormModels.FieldMapping{
		{TargetField: "customer_id", SourceField: "Email", DataType: "string", IsMandatory: true},
		{TargetField: "company_name", SourceField: "Company", DataType: "string"},
	}, nil))

	return def
}

func countSyncLogs(t *testing.T, db *gorm.DB) int64 {
	var count int64
	require.NoError(t, db.Model(&gormModels.SyncLog{}).Count(&count).Error)
	return count
}

func listSyncLogs(t *testing.T, db *gorm.DB) []gormModels.SyncLog {
	var logs []gormModels.SyncLog
	require.NoError(t, db.Order("created_at ASC").Find(&logs).Error)
	return logs
}
