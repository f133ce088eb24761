package app

import (
	"gorm.io/gorm"

	"github.com/yungbote/cmi5-backend/internal/observability"
	"github.com/yungbote/cmi5-backend/internal/platform/logger"
	"github.com/yungbote/cmi5-backend/internal/platform/objectstore"
	"github.com/yungbote/cmi5-backend/internal/services"
)

type Services struct {
	User      services.UserService
	Course    services.CourseService
	Statement services.StatementService
	Package   services.PackageService
}

func wireServices(
	db *gorm.DB,
	log *logger.Logger,
	cfg Config,
	repos Repos,
	store objectstore.Store,
	metrics *observability.Metrics,
) Services {
	log.Info("Wiring services...")

	var observer services.PackageObserver
	if metrics != nil {
		observer = metrics
	}

	return Services{
		User:      services.NewUserService(db, log, repos.User, services.BcryptHasher{}),
		Course:    services.NewCourseService(db, log, repos.Course, repos.Enrollment, repos.User, cfg.OrganizationID),
		Statement: services.NewStatementService(db, log, repos.Statement, repos.Enrollment),
		Package:   services.NewPackageService(log, store, cfg.Package, observer),
	}
}
