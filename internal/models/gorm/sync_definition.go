package gorm

import (
	"time"

	"github.com/google/uuid"
	gormlib "gorm.io/gorm"

	"infinite-experiment/engagesync/internal/constants"
)

// SyncDefinition declares that records of one entity type are mirrored to the platform
type SyncDefinition struct {
	ID               string               `gorm:"column:id;primaryKey;type:uuid"`
	Name             string               `gorm:"column:name;type:varchar(80);not null"`
	SyncType         string               `gorm:"column:sync_type;type:varchar(40)"`
	SourceEntityType string               `gorm:"column:source_entity_type;type:varchar(80);not null;index"`
	TargetEntityType string               `gorm:"column:target_entity_type;type:varchar(80)"`
	Status           constants.SyncStatus `gorm:"column:status;type:varchar(16);not null;default:'Inactive'"`
	ConnectionID     string               `gorm:"column:connection_id;type:varchar(64);index"`
	CreatedAt        time.Time            `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time            `gorm:"column:updated_at;autoUpdateTime"`

	// Relationships
	FieldMappings []FieldMapping `gorm:"foreignKey:SyncDefinitionID"`
}

// TableName specifies the table name for GORM
func (SyncDefinition) TableName() string {
	return "sync_definitions"
}

func (d *SyncDefinition) BeforeCreate(tx *gormlib.DB) error {
	if d.ID == "" {
		d.ID = uuid.New().String()
	}
	return nil
}

func (d *SyncDefinition) IsActive() bool {
	return d != nil && d.Status == constants.SyncStatusActive
}
