package course

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/yungbote/cmi5-backend/internal/data/repos/testutil"
	types "github.com/yungbote/cmi5-backend/internal/domain"
	"github.com/yungbote/cmi5-backend/internal/platform/dbctx"
)

func TestCourseRepo(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}

	repo := NewCourseRepo(db, testutil.Logger(t))
	created, err := repo.Create(dbc, []*types.Course{{
		Title:          "T",
		Description:    "D",
		OrganizationID: uuid.New(),
		FileLink:       "courses/x/res/index.html",
	}})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	c := created[0]

	got, err := repo.GetByID(dbc, c.ID)
	if err != nil || got == nil || got.Title != "T" {
		t.Fatalf("GetByID: got %+v err=%v", got, err)
	}

	ok, err := repo.SoftDelete(dbc, c.ID)
	if err != nil || !ok {
		t.Fatalf("SoftDelete: ok=%v err=%v", ok, err)
	}
	if got, _ := repo.GetByID(dbc, c.ID); got != nil {
		t.Fatalf("deleted course still visible")
	}
	if ok, _ := repo.SoftDelete(dbc, c.ID); ok {
		t.Fatalf("second delete should match nothing")
	}
}

func TestCourseRepoJoins(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}

	repo := NewCourseRepo(db, testutil.Logger(t))
	u1 := testutil.SeedUser(t, ctx, tx, "")
	u2 := testutil.SeedUser(t, ctx, tx, "")
	c1 := testutil.SeedCourse(t, ctx, tx, "c1")
	c2 := testutil.SeedCourse(t, ctx, tx, "c2")
	testutil.SeedCourse(t, ctx, tx, "not enrolled")
	testutil.SeedEnrollment(t, ctx, tx, c1.ID, u1.ID)
	testutil.SeedEnrollment(t, ctx, tx, c2.ID, u1.ID)
	testutil.SeedEnrollment(t, ctx, tx, c1.ID, u2.ID)

	courses, err := repo.GetByUserID(dbc, u1.ID)
	if err != nil {
		t.Fatalf("GetByUserID: %v", err)
	}
	if len(courses) != 2 {
		t.Fatalf("GetByUserID: expected 2 courses, got %d", len(courses))
	}

	users, err := repo.GetUsers(dbc, c1.ID)
	if err != nil {
		t.Fatalf("GetUsers: %v", err)
	}
	if len(users) != 2 {
		t.Fatalf("GetUsers: expected 2 users, got %d", len(users))
	}

	if _, err := repo.SoftDelete(dbc, c2.ID); err != nil {
		t.Fatalf("SoftDelete: %v", err)
	}
	courses, err = repo.GetByUserID(dbc, u1.ID)
	if err != nil {
		t.Fatalf("GetByUserID after delete: %v", err)
	}
	if len(courses) != 1 || courses[0].ID != c1.ID {
		t.Fatalf("deleted course must be filtered, got %+v", courses)
	}

	if err := tx.Where("id = ?", u2.ID).Delete(&types.User{}).Error; err != nil {
		t.Fatalf("delete user: %v", err)
	}
	users, err = repo.GetUsers(dbc, c1.ID)
	if err != nil {
		t.Fatalf("GetUsers after delete: %v", err)
	}
	if len(users) != 1 || users[0].ID != u1.ID {
		t.Fatalf("deleted user must be filtered, got %+v", users)
	}
}
