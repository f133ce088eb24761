package testutil

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/cmi5-backend/internal/domain"
)

func SeedUser(tb testing.TB, ctx context.Context, tx *gorm.DB, email string) *types.User {
	tb.Helper()
	if email == "" {
		email = uuid.NewString() + "@example.com"
	}
	u := &types.User{
		ID:       uuid.New(),
		Email:    email,
		Password: "pw",
	}
	if err := tx.WithContext(ctx).Create(u).Error; err != nil {
		tb.Fatalf("seed user: %v", err)
	}
	return u
}

func SeedCourse(tb testing.TB, ctx context.Context, tx *gorm.DB, title string) *types.Course {
	tb.Helper()
	id := uuid.New()
	c := &types.Course{
		ID:             id,
		Title:          title,
		Description:    "desc",
		OrganizationID: uuid.MustParse("ebbc58b4-db64-4e93-bdfb-e493534e847c"),
		FileLink:       "courses/" + id.String() + "/res/index.html",
	}
	if err := tx.WithContext(ctx).Create(c).Error; err != nil {
		tb.Fatalf("seed course: %v", err)
	}
	return c
}

func SeedEnrollment(tb testing.TB, ctx context.Context, tx *gorm.DB, courseID, userID uuid.UUID) *types.Enrollment {
	tb.Helper()
	e := &types.Enrollment{
		ID:       uuid.New(),
		CourseID: courseID,
		UserID:   userID,
	}
	if err := tx.WithContext(ctx).Omit(clause.Associations).Create(e).Error; err != nil {
		tb.Fatalf("seed enrollment: %v", err)
	}
	return e
}

// SeedStatement creates a statement and links it to the enrollment.
func SeedStatement(tb testing.TB, ctx context.Context, tx *gorm.DB, enrollment *types.Enrollment, payload string) *types.Statement {
	tb.Helper()
	s := &types.Statement{
		ID:         uuid.New(),
		Statements: datatypes.JSON([]byte(payload)),
	}
	if err := tx.WithContext(ctx).Create(s).Error; err != nil {
		tb.Fatalf("seed statement: %v", err)
	}
	if err := tx.WithContext(ctx).
		Model(&types.Enrollment{}).
		Where("id = ?", enrollment.ID).
		Update("statement_id", s.ID).Error; err != nil {
		tb.Fatalf("link statement: %v", err)
	}
	enrollment.StatementID = &s.ID
	return s
}
