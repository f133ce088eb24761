package services

import (
	"context"
	"testing"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	courserepo "github.com/yungbote/cmi5-backend/internal/data/repos/course"
	statementrepo "github.com/yungbote/cmi5-backend/internal/data/repos/statement"
	"github.com/yungbote/cmi5-backend/internal/data/repos/testutil"
	userrepo "github.com/yungbote/cmi5-backend/internal/data/repos/user"
	"github.com/yungbote/cmi5-backend/internal/platform/dbctx"
)

type testEnv struct {
	db         *gorm.DB
	tx         *gorm.DB
	dbc        dbctx.Context
	runner     testutil.TxRunner
	users      UserService
	courses    CourseService
	statements StatementService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	log := testutil.Logger(t)

	uRepo := userrepo.NewUserRepo(db, log)
	cRepo := courserepo.NewCourseRepo(db, log)
	eRepo := courserepo.NewEnrollmentRepo(db, log)
	sRepo := statementrepo.NewStatementRepo(db, log)

	return &testEnv{
		db:         db,
		tx:         tx,
		dbc:        dbctx.Context{Ctx: context.Background(), Tx: tx},
		runner:     testutil.TxRunner{Tx: tx},
		users:      NewUserService(db, log, uRepo, BcryptHasher{Cost: bcrypt.MinCost}),
		courses:    NewCourseService(db, log, cRepo, eRepo, uRepo, DefaultOrganizationID),
		statements: NewStatementService(db, log, sRepo, eRepo),
	}
}
