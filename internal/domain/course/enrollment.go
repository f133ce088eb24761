package course

import (
	"time"

	"github.com/google/uuid"
	"github.com/yungbote/cmi5-backend/internal/domain/statement"
	"github.com/yungbote/cmi5-backend/internal/domain/user"
	"gorm.io/gorm"
)

// Enrollment links one User to one Course and, once a statement has been
// submitted, to that pair's current Statement. At most one active row exists
// per (course_id, user_id).
type Enrollment struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`

	CourseID uuid.UUID `gorm:"type:uuid;not null;index;column:course_id" json:"course_id"`
	Course   *Course   `gorm:"constraint:OnDelete:CASCADE;foreignKey:CourseID;references:ID" json:"course,omitempty"`

	UserID uuid.UUID  `gorm:"type:uuid;not null;index;column:user_id" json:"user_id"`
	User   *user.User `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"user,omitempty"`

	StatementID *uuid.UUID           `gorm:"type:uuid;column:statement_id" json:"statement_id,omitempty"`
	Statement   *statement.Statement `gorm:"constraint:OnDelete:SET NULL;foreignKey:StatementID;references:ID" json:"statement,omitempty"`

	CreatedAt time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Enrollment) TableName() string { return "cmi5_course_users" }

// HasStatement reports whether the enrollment is past its first submission.
func (e *Enrollment) HasStatement() bool {
	return e != nil && e.StatementID != nil && *e.StatementID != uuid.Nil
}
