package gorm

import (
	"time"

	"github.com/google/uuid"
	gormlib "gorm.io/gorm"
)

// FieldMapping translates one source record field into one platform field
type FieldMapping struct {
	ID               string    `gorm:"column:id;primaryKey;type:uuid"`
	SyncDefinitionID string    `gorm:"column:sync_definition_id;type:uuid;not null;index"`
	TargetField      string    `gorm:"column:target_field;type:varchar(120);not null"`
	SourceField      string    `gorm:"column:source_field;type:varchar(120);not null"`
	DataType         string    `gorm:"column:data_type;type:varchar(40)"` // informational only
	IsMandatory      bool      `gorm:"column:is_mandatory;default:false"`
	Position         int       `gorm:"column:position;default:0"`
	CreatedAt        time.Time `gorm:"column:created_at;autoCreateTime"`
}

// TableName specifies the table name for GORM
func (FieldMapping) TableName() string {
	return "field_mappings"
}

func (m *FieldMapping) BeforeCreate(tx *gormlib.DB) error {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	return nil
}
