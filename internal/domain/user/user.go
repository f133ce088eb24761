package user

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User is a learner account. Email is unique among non-deleted rows
// (ux_users_email_active).
type User struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Email    string    `gorm:"not null;column:email" json:"email"`
	Password string    `gorm:"not null;column:password;default:''" json:"-"`

	CreatedAt time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (User) TableName() string { return "users" }
