package course

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Course struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Title       string    `gorm:"column:title" json:"title"`
	Description string    `gorm:"column:description" json:"description"`
	// OrganizationID is reserved for multi-tenancy and always carries the configured placeholder.
	OrganizationID uuid.UUID `gorm:"type:uuid;not null;column:organization_id" json:"organization_id"`
	FileLink       string    `gorm:"column:file_link" json:"file_link"`

	CreatedAt time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Course) TableName() string { return "cmi_courses" }
