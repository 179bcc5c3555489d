package repositories

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	gormModels "infinite-experiment/engagesync/internal/models/gorm"
)

// SyncLogRepo appends audit rows; it never updates or deletes them
type SyncLogRepo struct {
	db *gorm.DB
}

func NewSyncLogRepo(db *gorm.DB) *SyncLogRepo {
	return &SyncLogRepo{db: db}
}

// Create inserts one sync log row
func (r *SyncLogRepo) Create(ctx context.Context, entry *gormModels.SyncLog) error {
	if err := r.db.WithContext(ctx).Create(entry).Error; err != nil {
		return fmt.Errorf("failed to create sync log: %w", err)
	}
	return nil
}
