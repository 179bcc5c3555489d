package gorm

import (
	"strings"
	"time"

	"github.com/google/uuid"
	gormlib "gorm.io/gorm"
)

// PlatformCredentials holds the engagement platform account used for uploads.
// Only one row may be active at a time.
type PlatformCredentials struct {
	ID            string    `gorm:"column:id;primaryKey;type:uuid"`
	Name          string    `gorm:"column:name;type:varchar(80);not null"`
	DeveloperName string    `gorm:"column:developer_name;type:varchar(80);uniqueIndex"`
	APIURL        string    `gorm:"column:api_url;type:varchar(255)"`
	AccountID     string    `gorm:"column:account_id;type:varchar(64)"`
	Passcode      string    `gorm:"column:passcode;type:varchar(128)"`
	Region        string    `gorm:"column:region;type:varchar(16)"`
	IsActive      bool      `gorm:"column:is_active;default:false"`
	CreatedAt     time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// TableName specifies the table name for GORM
func (PlatformCredentials) TableName() string {
	return "platform_credentials"
}

func (c *PlatformCredentials) BeforeCreate(tx *gormlib.DB) error {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	return nil
}

// IsComplete reports whether every field needed for an upload is present
func (c *PlatformCredentials) IsComplete() bool {
	if c == nil {
		return false
	}
	if strings.TrimSpace(c.AccountID) == "" || strings.TrimSpace(c.Passcode) == "" {
		return false
	}
	return strings.TrimSpace(c.APIURL) != "" || strings.TrimSpace(c.Region) != ""
}
