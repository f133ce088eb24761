package app

import (
	"gorm.io/gorm"

	"github.com/yungbote/cmi5-backend/internal/data/txn"
	httpH "github.com/yungbote/cmi5-backend/internal/http/handlers"
	"github.com/yungbote/cmi5-backend/internal/observability"
	"github.com/yungbote/cmi5-backend/internal/platform/logger"
	"github.com/yungbote/cmi5-backend/internal/realtime/bus"
)

type Handlers struct {
	User      *httpH.UserHandler
	Course    *httpH.CourseHandler
	Statement *httpH.StatementHandler
	Health    *httpH.HealthHandler
}

func wireHandlers(
	db *gorm.DB,
	log *logger.Logger,
	services Services,
	eventBus bus.Bus,
	metrics *observability.Metrics,
) (Handlers, error) {
	log.Info("Wiring handlers...")

	sqlDB, err := db.DB()
	if err != nil {
		return Handlers{}, err
	}
	runner := txn.NewGormTxRunner(db)
	events := httpH.NewPublisher(log, eventBus, metrics)

	return Handlers{
		User:      httpH.NewUserHandler(log, runner, services.User, services.Course, services.Package),
		Course:    httpH.NewCourseHandler(log, runner, services.Course, services.Package, events),
		Statement: httpH.NewStatementHandler(log, runner, services.Statement, services.Package, events),
		Health:    httpH.NewHealthHandler(sqlDB),
	}, nil
}
