package gorm

import (
	"time"

	"github.com/google/uuid"
	gormlib "gorm.io/gorm"

	"infinite-experiment/engagesync/internal/constants"
)

// SyncLog is the append-only audit row written for every dispatch attempt
type SyncLog struct {
	ID               string              `gorm:"column:id;primaryKey;type:uuid"`
	Status           constants.LogStatus `gorm:"column:status;type:varchar(16);not null;index"`
	Response         string              `gorm:"column:response;type:text"`
	RequestBody      string              `gorm:"column:request_body;type:text"`
	SourceRecordID   string              `gorm:"column:source_record_id;type:varchar(64);index"`
	SourceEntityType string              `gorm:"column:source_entity_type;type:varchar(80);index"`
	LeadRef          *string             `gorm:"column:lead_ref;type:varchar(64)"`
	ContactRef       *string             `gorm:"column:contact_ref;type:varchar(64)"`
	AccountRef       *string             `gorm:"column:account_ref;type:varchar(64)"`
	OpportunityRef   *string             `gorm:"column:opportunity_ref;type:varchar(64)"`
	CreatedAt        time.Time           `gorm:"column:created_at;autoCreateTime;index"`
}

// TableName specifies the table name for GORM
func (SyncLog) TableName() string {
	return "sync_logs"
}

func (l *SyncLog) BeforeCreate(tx *gormlib.DB) error {
	if l.ID == "" {
		l.ID = uuid.New().String()
	}
	return nil
}
