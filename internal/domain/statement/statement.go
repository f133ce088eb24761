package statement

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Statement is an opaque learning-record document. It is owned by exactly one
// Enrollment and is only ever reached through it.
type Statement struct {
	ID         uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Statements datatypes.JSON `gorm:"column:statements" json:"statements"`

	CreatedAt time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Statement) TableName() string { return "cmi_statements" }
