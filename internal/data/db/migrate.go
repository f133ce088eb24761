package db

import (
	"fmt"

	"github.com/yungbote/cmi5-backend/internal/domain"
	"gorm.io/gorm"
)

// Partial unique indexes keep the uniqueness rules scoped to non-deleted rows.
// Both Postgres and SQLite accept this syntax.
var activeUniqueIndexes = []struct {
	name string
	sql  string
}{
	{
		name: "ux_users_email_active",
		sql:  `CREATE UNIQUE INDEX IF NOT EXISTS ux_users_email_active ON users (email) WHERE deleted_at IS NULL`,
	},
	{
		name: "ux_enrollments_course_user_active",
		sql:  `CREATE UNIQUE INDEX IF NOT EXISTS ux_enrollments_course_user_active ON cmi5_course_users (course_id, user_id) WHERE deleted_at IS NULL`,
	},
}

func AutoMigrateAll(db *gorm.DB) error {
	if err := db.AutoMigrate(domain.Models()...); err != nil {
		return fmt.Errorf("automigrate: %w", err)
	}
	for _, idx := range activeUniqueIndexes {
		if err := db.Exec(idx.sql).Error; err != nil {
			return fmt.Errorf("create index %s: %w", idx.name, err)
		}
	}
	return nil
}
