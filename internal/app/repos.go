package app

import (
	"gorm.io/gorm"

	courserepo "github.com/yungbote/cmi5-backend/internal/data/repos/course"
	statementrepo "github.com/yungbote/cmi5-backend/internal/data/repos/statement"
	userrepo "github.com/yungbote/cmi5-backend/internal/data/repos/user"
	"github.com/yungbote/cmi5-backend/internal/platform/logger"
)

type Repos struct {
	User       userrepo.UserRepo
	Course     courserepo.CourseRepo
	Enrollment courserepo.EnrollmentRepo
	Statement  statementrepo.StatementRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		User:       userrepo.NewUserRepo(db, log),
		Course:     courserepo.NewCourseRepo(db, log),
		Enrollment: courserepo.NewEnrollmentRepo(db, log),
		Statement:  statementrepo.NewStatementRepo(db, log),
	}
}
